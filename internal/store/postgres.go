package store

import (
	"context"
	"encoding/json"
	"fmt"

	"cafe-system/internal/database"
	"cafe-system/internal/models"
)

// PostgresStore keeps one row per finalized bill in the customer_bills
// table, bill payloads as JSONB, history ordered by insertion.
type PostgresStore struct {
	db *database.DB
}

// NewPostgres creates a store over an established connection pool.
func NewPostgres(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, customer string, bill models.BillBreakdown) error {
	payload, err := json.Marshal(bill)
	if err != nil {
		return fmt.Errorf("%w: encoding bill: %v", ErrUnavailable, err)
	}
	if err := s.db.Exec(ctx, database.InsertBillSQL, customer, payload); err != nil {
		return fmt.Errorf("%w: inserting bill for %q: %v", ErrUnavailable, customer, err)
	}
	return nil
}

func (s *PostgresStore) Lookup(ctx context.Context, customer string) (*models.CustomerRecord, error) {
	rows, err := s.db.Query(ctx, database.GetBillsByCustomerSQL, customer)
	if err != nil {
		return nil, fmt.Errorf("%w: querying bills for %q: %v", ErrUnavailable, customer, err)
	}
	defer rows.Close()

	var history []models.BillBreakdown
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("%w: scanning bill row: %v", ErrUnavailable, err)
		}
		var bill models.BillBreakdown
		if err := json.Unmarshal(payload, &bill); err != nil {
			return nil, fmt.Errorf("%w: stored bill for %q is corrupt: %v", ErrUnavailable, customer, err)
		}
		history = append(history, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading bills for %q: %v", ErrUnavailable, customer, err)
	}

	if len(history) == 0 {
		return nil, nil
	}
	return &models.CustomerRecord{CustomerName: customer, History: history}, nil
}

func (s *PostgresStore) Clear(ctx context.Context, customer string) error {
	if err := s.db.Exec(ctx, database.DeleteBillsByCustomerSQL, customer); err != nil {
		return fmt.Errorf("%w: clearing history for %q: %v", ErrUnavailable, customer, err)
	}
	return nil
}

func (s *PostgresStore) ClearAll(ctx context.Context) error {
	if err := s.db.Exec(ctx, database.DeleteAllBillsSQL); err != nil {
		return fmt.Errorf("%w: clearing all history: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) Close() {
	s.db.Close()
}
