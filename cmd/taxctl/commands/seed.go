package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/taxprep/backend/pkg/client"
)

// SeedFile lists documents to create, keyed by admin resource name. Blogs may
// name their category with "category" instead of "category_id".
type SeedFile map[string][]map[string]any

// seedOrder lists the resources a seed file may fill. Categories come before
// the blogs that point at them.
var seedOrder = []string{
	"categories",
	"blogs",
	"faqs",
	"testimonials",
	"why-choose-us",
	"industries",
	"document-types",
	"income-source-types",
	"return-types",
}

func loadSeedFile(path string) (SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	known := make(map[string]bool, len(seedOrder))
	for _, name := range seedOrder {
		known[name] = true
	}
	for name := range seed {
		if !known[name] {
			return nil, fmt.Errorf("seed file: unknown resource %q", name)
		}
	}
	return seed, nil
}

type created struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// seedAll creates every document in order and stops at the first failure
func seedAll(ctx context.Context, c *client.Client, seed SeedFile, out io.Writer) (int, error) {
	categories := map[string]string{}
	total := 0
	for _, name := range seedOrder {
		res := client.NewResource[created](c, "/admin/"+name)
		for i, doc := range seed[name] {
			if name == "blogs" {
				if cat, ok := doc["category"].(string); ok {
					id, found := categories[cat]
					if !found {
						return total, fmt.Errorf("blogs[%d]: unknown category %q", i, cat)
					}
					doc["category_id"] = id
					delete(doc, "category")
				}
			}
			item, err := res.Create(ctx, doc)
			if err != nil {
				return total, fmt.Errorf("%s[%d]: %w", name, i, describe(err))
			}
			if name == "categories" {
				categories[item.Name] = item.ID
			}
			total++
			fmt.Fprintf(out, "created %s %s\n", name, item.ID)
		}
	}
	return total, nil
}

// fakeSeed generates n sample testimonials and FAQs
func fakeSeed(n int, seed uint64) SeedFile {
	f := gofakeit.New(int64(seed))
	out := SeedFile{}
	for i := 0; i < n; i++ {
		out["testimonials"] = append(out["testimonials"], map[string]any{
			"client_name": f.Name(),
			"designation": f.JobTitle(),
			"company":     f.Company(),
			"content":     f.Paragraph(1, 3, 12, " "),
			"rating":      f.IntRange(3, 5),
			"is_active":   true,
		})
		out["faqs"] = append(out["faqs"], map[string]any{
			"question":   f.Question(),
			"answer":     f.Sentence(20),
			"topic":      f.RandomString([]string{"filing", "refunds", "documents", "pricing"}),
			"sort_order": i,
		})
	}
	return out
}

func seedCmd() *cobra.Command {
	var file string
	var fake int
	var fakeRand uint64
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create site content from a YAML file or generate sample data",
		Example: "  taxctl seed -f seed.yaml\n" +
			"  taxctl seed --fake 10",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var seed SeedFile
			switch {
			case file != "":
				var err error
				if seed, err = loadSeedFile(file); err != nil {
					return err
				}
			case fake > 0:
				seed = fakeSeed(fake, fakeRand)
			default:
				return fmt.Errorf("either --file or --fake is required")
			}

			if dryRun {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(seed)
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()
			n, err := seedAll(ctx, api, seed, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d documents created\n", n)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "seed YAML file")
	cmd.Flags().IntVar(&fake, "fake", 0, "generate this many sample rows per resource")
	cmd.Flags().Uint64Var(&fakeRand, "fake-seed", 0, "random seed for --fake, 0 picks one")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what would be created")
	return cmd
}
