package persistence

import "strings"

// Sort inputs arrive from query strings. Columns are matched against a
// per-entity whitelist and the direction is clamped to ASC or DESC, so
// raw input never reaches an ORDER BY clause.

// ValidateSortOrder clamps the direction, defaulting to DESC.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField resolves the column against the whitelist, falling
// back to fallback for anything unknown or empty.
func ValidateSortField(field string, allowed map[string]bool, fallback string) string {
	field = strings.TrimSpace(field)
	if field != "" && allowed[field] {
		return field
	}
	return fallback
}

// sortFields builds a whitelist from the shared base columns plus the
// entity-specific ones.
func sortFields(extra ...string) map[string]bool {
	fields := map[string]bool{
		"id":         true,
		"created_at": true,
		"updated_at": true,
	}
	for _, f := range extra {
		fields[f] = true
	}
	return fields
}

var (
	UserSortFields    = sortFields("username", "email", "display_name", "status", "last_login_at")
	RequestSortFields = sortFields("request_number", "applicant_name", "applicant_email", "requested_type", "status", "reviewed_at", "approved_at")
	MemberSortFields  = sortFields("member_number", "name", "email", "member_type", "status", "joined_at")
)
