package content

import (
	"strings"

	"github.com/taxprep/backend/internal/domain/shared"
)

// Faq is a question and answer pair shown on the site
type Faq struct {
	shared.BaseEntity
	shared.Listing
	Question string `gorm:"type:varchar(500);not null"`
	Answer   string `gorm:"type:text;not null"`
	Topic    string `gorm:"type:varchar(100);index"`
}

// TableName returns the table name for GORM
func (Faq) TableName() string {
	return "faqs"
}

// NewFaq creates an active FAQ entry
func NewFaq(question, answer string) (*Faq, error) {
	f := &Faq{
		BaseEntity: shared.NewBaseEntity(),
		Listing:    shared.Listing{IsActive: true},
	}
	if err := f.set(question, answer); err != nil {
		return nil, err
	}
	return f, nil
}

// Update replaces the question and answer
func (f *Faq) Update(question, answer string) error {
	if err := f.set(question, answer); err != nil {
		return err
	}
	f.Touch()
	return nil
}

func (f *Faq) set(question, answer string) error {
	if err := shared.RequireText("Question", question, 500); err != nil {
		return err
	}
	if strings.TrimSpace(answer) == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Answer cannot be empty")
	}
	f.Question = strings.TrimSpace(question)
	f.Answer = answer
	return nil
}
