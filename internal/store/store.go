package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vendor-service/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgreSQL error codes mapped onto the domain error taxonomy
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates the schema if it does not exist yet
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// GetProcessedEvent returns the record of an applied event
func (s *Store) GetProcessedEvent(ctx context.Context, eventID string) (*models.ProcessedEvent, error) {
	var event models.ProcessedEvent
	err := s.db.GetContext(ctx, &event,
		"SELECT event_id, event_type, processed_at FROM processed_events WHERE event_id = $1", eventID)
	if err != nil {
		return nil, translateError(err, "processed event")
	}
	return &event, nil
}

// IsEventProcessed checks if an event has been processed
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	_, err := s.GetProcessedEvent(ctx, eventID)
	if errors.Is(err, models.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// MarkEventProcessed marks an event as processed
func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	return err
}

// translateError maps driver errors onto models errors
func translateError(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %w", entity, models.ErrNotFound)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return fmt.Errorf("%s %s: %w", entity, constraintField(pqErr), models.ErrDuplicate)
		case pqForeignKeyViolation:
			return fmt.Errorf("%s %s: %w", entity, constraintField(pqErr), models.ErrInvalidReference)
		}
	}
	return err
}

func constraintField(pqErr *pq.Error) string {
	switch pqErr.Constraint {
	case "vendors_vendor_code_key":
		return "vendor_code"
	case "purchase_orders_po_number_key":
		return "po_number"
	case "users_username_key":
		return "username"
	case "purchase_orders_vendor_id_fkey", "historical_performances_vendor_id_fkey":
		return "vendor"
	}
	return pqErr.Constraint
}

// checkAffected turns an UPDATE/DELETE that touched no rows into ErrNotFound
func checkAffected(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %w", entity, models.ErrNotFound)
	}
	return nil
}
