package models

// TeamRecord is one extracted registration entry. Records are
// append-only: once written to the dataset they are never updated.
type TeamRecord struct {
	Team  string `json:"team"`
	State string `json:"state"`
	City  string `json:"city"`
	ID    string `json:"id,omitempty"`
}

// IsEmpty reports whether every field degraded to an empty value,
// meaning the source row carried nothing extractable.
func (r TeamRecord) IsEmpty() bool {
	return r.Team == "" && r.State == "" && r.City == "" && r.ID == ""
}
