package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// Accounts resolves auth accounts for contact enrichment.
type Accounts struct {
	db *sql.DB
}

func NewAccounts(db *sql.DB) *Accounts {
	return &Accounts{db: db}
}

// FindPhonesByIDs returns a map of account id to phone number. Accounts
// without a phone are simply absent from the map.
func (s *Accounts) FindPhonesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, phone
		FROM accounts
		WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("query account phones: %w", err)
	}
	defer rows.Close()

	phones := make(map[string]string)
	for rows.Next() {
		var (
			id    string
			phone sql.NullString
		)
		if err := rows.Scan(&id, &phone); err != nil {
			return nil, fmt.Errorf("scan account phone: %w", err)
		}
		if phone.Valid && phone.String != "" {
			phones[id] = phone.String
		}
	}
	return phones, rows.Err()
}
