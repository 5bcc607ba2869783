package model

// CustomerSummary is one row of the directory listing.
type CustomerSummary struct {
	ID      int64   `db:"id"      json:"id"`
	Company *string `db:"company" json:"company"` // nullable
}

// Record is a full customers row keyed by column name. Values are int64, float64, string or nil.
type Record map[string]any

// ID returns the id column when present.
func (r Record) ID() (int64, bool) {
	id, ok := r["id"].(int64)
	return id, ok
}

// Company returns the company column, empty when NULL.
func (r Record) Company() string {
	s, _ := r["company"].(string)
	return s
}
