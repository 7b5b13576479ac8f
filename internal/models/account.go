package models

// Account is the auth account of a platform user. Jobs reference the
// posting account by id; the engine only ever needs the phone number for
// contact enrichment.
type Account struct {
	ID    string `json:"id"`
	Phone string `json:"phone"`
	Role  string `json:"role"` // "worker" or "jobgiver"
}
