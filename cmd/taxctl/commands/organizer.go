package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/taxprep/backend/pkg/client"
)

type personFile struct {
	FirstName   string `yaml:"first_name"`
	LastName    string `yaml:"last_name"`
	Email       string `yaml:"email"`
	Phone       string `yaml:"phone"`
	DateOfBirth string `yaml:"date_of_birth"`
	Occupation  string `yaml:"occupation"`
	SSNLast4    string `yaml:"ssn_last4"`
}

type addressFile struct {
	Line1      string `yaml:"line1"`
	Line2      string `yaml:"line2"`
	City       string `yaml:"city"`
	State      string `yaml:"state"`
	PostalCode string `yaml:"postal_code"`
	Country    string `yaml:"country"`
}

// organizerFile is the YAML form of the intake wizard
type organizerFile struct {
	TaxYear      int         `yaml:"tax_year"`
	ReturnTypeID string      `yaml:"return_type_id"`
	FilingStatus string      `yaml:"filing_status"`
	Taxpayer     personFile  `yaml:"taxpayer"`
	Spouse       personFile  `yaml:"spouse"`
	Address      addressFile `yaml:"address"`
	Dependents   []struct {
		FirstName    string `yaml:"first_name"`
		LastName     string `yaml:"last_name"`
		Relationship string `yaml:"relationship"`
		DateOfBirth  string `yaml:"date_of_birth"`
		MonthsInHome int    `yaml:"months_in_home"`
	} `yaml:"dependents"`
	IncomeSources []struct {
		TypeID      string `yaml:"income_source_type_id"`
		Description string `yaml:"description"`
		Payer       string `yaml:"payer"`
		Amount      string `yaml:"amount"`
	} `yaml:"income_sources"`
	Documents []struct {
		TypeID   string `yaml:"document_type_id"`
		FileName string `yaml:"file_name"`
		FileURL  string `yaml:"file_url"`
	} `yaml:"documents"`
	Signature *struct {
		SignerName   string `yaml:"signer_name"`
		SignatureURL string `yaml:"signature_url"`
		Agreed       bool   `yaml:"agreed"`
	} `yaml:"signature"`
	Notes string `yaml:"notes"`
}

func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: want YYYY-MM-DD, got %q", field, s)
	}
	return t, nil
}

func (p personFile) person(field string) (client.Person, error) {
	dob, err := parseDate(field+".date_of_birth", p.DateOfBirth)
	return client.Person{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		Phone:       p.Phone,
		DateOfBirth: dob,
		Occupation:  p.Occupation,
		SSNLast4:    p.SSNLast4,
	}, err
}

// draft converts the file into a wizard draft, signing it now when a
// signature is present
func (f organizerFile) draft(now time.Time) (*client.OrganizerDraft, error) {
	d := client.NewOrganizerDraft(f.TaxYear).Basics(f.ReturnTypeID, f.FilingStatus)
	d.Notes = f.Notes

	taxpayer, err := f.Taxpayer.person("taxpayer")
	if err != nil {
		return nil, err
	}
	spouse, err := f.Spouse.person("spouse")
	if err != nil {
		return nil, err
	}
	d.SetTaxpayer(taxpayer).SetSpouse(spouse).SetAddress(client.Address(f.Address))

	for i, dep := range f.Dependents {
		dob, err := parseDate(fmt.Sprintf("dependents[%d].date_of_birth", i), dep.DateOfBirth)
		if err != nil {
			return nil, err
		}
		d.AddDependent(client.Dependent{
			FirstName:    dep.FirstName,
			LastName:     dep.LastName,
			Relationship: dep.Relationship,
			DateOfBirth:  dob,
			MonthsInHome: dep.MonthsInHome,
		})
	}
	for i, src := range f.IncomeSources {
		amount := decimal.Zero
		if src.Amount != "" {
			if amount, err = decimal.NewFromString(src.Amount); err != nil {
				return nil, fmt.Errorf("income_sources[%d].amount: %w", i, err)
			}
		}
		d.AddIncomeSource(client.IncomeSource{
			TypeID:      src.TypeID,
			Description: src.Description,
			Payer:       src.Payer,
			Amount:      amount,
		})
	}
	for _, doc := range f.Documents {
		d.AddDocument(client.Document{TypeID: doc.TypeID, FileName: doc.FileName, FileURL: doc.FileURL})
	}
	if s := f.Signature; s != nil {
		d.Sign(client.Signature{
			SignerName:   s.SignerName,
			SignedAt:     now,
			SignatureURL: s.SignatureURL,
			Agreed:       s.Agreed,
		})
	}
	return d, nil
}

func loadOrganizerFile(path string) (*client.OrganizerDraft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading organizer file: %w", err)
	}
	var f organizerFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing organizer file: %w", err)
	}
	if f.TaxYear == 0 {
		return nil, fmt.Errorf("organizer file: tax_year is required")
	}
	return f.draft(time.Now())
}

func organizerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "organizer",
		Short: "Send or track tax organizers through the public wizard endpoints",
	}

	var file string
	var submit bool
	send := &cobra.Command{
		Use:   "send -f <file>",
		Short: "Send an organizer from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := loadOrganizerFile(file)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			var receipt *client.Receipt
			if submit {
				receipt, err = api.SubmitOrganizer(ctx, draft)
			} else {
				receipt, err = api.SaveOrganizer(ctx, draft)
			}
			if err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), receipt)
		},
	}
	send.Flags().StringVarP(&file, "file", "f", "", "organizer YAML file")
	send.Flags().BoolVar(&submit, "submit", false, "submit instead of saving a draft")
	_ = send.MarkFlagRequired("file")

	track := &cobra.Command{
		Use:   "track <reference>",
		Short: "Show the status of an organizer by reference number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			receipt, err := api.TrackOrganizer(ctx, args[0])
			if err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), receipt)
		},
	}

	cmd.AddCommand(send, track)
	return cmd
}
