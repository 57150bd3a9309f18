package organizer

import "slices"

// FilingStatus is the filing status the client selects in the first step
type FilingStatus string

const (
	FilingSingle          FilingStatus = "single"
	FilingMarriedJoint    FilingStatus = "married_joint"
	FilingMarriedSeparate FilingStatus = "married_separate"
	FilingHeadOfHousehold FilingStatus = "head_of_household"
	FilingQualifyingWidow FilingStatus = "qualifying_widow"
)

// Valid reports whether f is a known filing status
func (f FilingStatus) Valid() bool {
	switch f {
	case FilingSingle, FilingMarriedJoint, FilingMarriedSeparate, FilingHeadOfHousehold, FilingQualifyingWidow:
		return true
	}
	return false
}

// RequiresSpouse reports whether spouse details belong on the organizer
func (f FilingStatus) RequiresSpouse() bool {
	return f == FilingMarriedJoint || f == FilingMarriedSeparate
}

// Status is where the organizer is in the firm's intake workflow
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusInReview  Status = "in_review"
	StatusCompleted Status = "completed"
)

var transitions = map[Status][]Status{
	StatusDraft:     {StatusSubmitted},
	StatusSubmitted: {StatusInReview, StatusDraft},
	StatusInReview:  {StatusCompleted, StatusDraft},
	StatusCompleted: nil,
}

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether the workflow allows moving from s to next
func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(transitions[s], next)
}
