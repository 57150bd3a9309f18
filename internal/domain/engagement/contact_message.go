package engagement

import (
	"strings"

	"github.com/taxprep/backend/internal/domain/shared"
)

// ContactStatus tracks how far staff have handled a message
type ContactStatus string

const (
	ContactStatusNew      ContactStatus = "new"
	ContactStatusRead     ContactStatus = "read"
	ContactStatusReplied  ContactStatus = "replied"
	ContactStatusArchived ContactStatus = "archived"
)

// contactTransitions lists the statuses reachable from each status
var contactTransitions = map[ContactStatus][]ContactStatus{
	ContactStatusNew:      {ContactStatusRead, ContactStatusReplied, ContactStatusArchived},
	ContactStatusRead:     {ContactStatusReplied, ContactStatusArchived},
	ContactStatusReplied:  {ContactStatusArchived},
	ContactStatusArchived: {ContactStatusRead},
}

// ParseContactStatus validates a status name
func ParseContactStatus(s string) (ContactStatus, bool) {
	st := ContactStatus(strings.ToLower(strings.TrimSpace(s)))
	_, ok := contactTransitions[st]
	return st, ok
}

// ContactMessage is a message sent through the public contact form
type ContactMessage struct {
	shared.BaseEntity
	Name      string        `gorm:"type:varchar(100);not null"`
	Email     string        `gorm:"type:varchar(200);not null;index"`
	Phone     string        `gorm:"type:varchar(30)"`
	Subject   string        `gorm:"type:varchar(200)"`
	Message   string        `gorm:"type:text;not null"`
	Status    ContactStatus `gorm:"type:varchar(20);not null;index"`
	IPAddress string        `gorm:"type:varchar(45)"`
}

// TableName returns the table name for GORM
func (ContactMessage) TableName() string {
	return "contact_messages"
}

// NewContactMessage creates a message in status new
func NewContactMessage(name, email, message string) (*ContactMessage, error) {
	var p shared.Problems
	p.Require("name", name)
	p.Require("message", message)
	email = shared.NormalizeEmail(email)
	if !shared.ValidEmail(email) {
		p.Add("email", "email must be a valid email address")
	}
	if err := p.Err("Contact message is invalid"); err != nil {
		return nil, err
	}
	return &ContactMessage{
		BaseEntity: shared.NewBaseEntity(),
		Name:       strings.TrimSpace(name),
		Email:      email,
		Message:    strings.TrimSpace(message),
		Status:     ContactStatusNew,
	}, nil
}

// ChangeStatus moves the message along its workflow
func (m *ContactMessage) ChangeStatus(to ContactStatus) error {
	if to == m.Status {
		return nil
	}
	for _, allowed := range contactTransitions[m.Status] {
		if allowed == to {
			m.Status = to
			m.Touch()
			return nil
		}
	}
	return shared.NewDomainError(shared.CodeInvalidState,
		"Cannot change contact message from "+string(m.Status)+" to "+string(to))
}
