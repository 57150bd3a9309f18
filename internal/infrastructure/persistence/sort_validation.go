package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// sortFields builds a whitelist from the common fields plus extra
func sortFields(extra ...string) map[string]bool {
	m := map[string]bool{
		"id":         true,
		"created_at": true,
		"updated_at": true,
	}
	for _, f := range extra {
		m[f] = true
	}
	return m
}

// Whitelisted sort_by values per resource
var (
	CategorySortFields    = sortFields("name", "slug", "sort_order", "is_active")
	BlogSortFields        = sortFields("title", "slug", "status", "published_at", "author")
	FaqSortFields         = sortFields("question", "topic", "sort_order", "is_active")
	TestimonialSortFields = sortFields("client_name", "company", "rating", "sort_order", "is_active")
	WhyChooseUsSortFields = sortFields("title", "sort_order", "is_active")
	IndustrySortFields    = sortFields("name", "slug", "sort_order", "is_active")
	ReferenceSortFields   = sortFields("name", "slug", "sort_order", "is_active")
	ReturnTypeSortFields  = sortFields("name", "slug", "sort_order", "is_active", "base_price")
	ContactSortFields     = sortFields("name", "email", "subject", "status")
	SubscriberSortFields  = sortFields("email", "status", "subscribed_at")
	OrganizerSortFields   = sortFields("reference_number", "tax_year", "status", "submitted_at", "taxpayer_last_name")
	InvoiceSortFields     = sortFields("invoice_number", "client_name", "issue_date", "due_date", "status", "total")
)

// listingOrder is the default ordering of hand-ordered site content
const listingOrder = "sort_order ASC, created_at ASC"
