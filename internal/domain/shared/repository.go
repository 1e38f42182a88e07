package shared

// Filter carries the paging, ordering and search options a list query
// accepts. OrderBy and OrderDir are validated against a whitelist in the
// persistence layer before they reach SQL.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}
