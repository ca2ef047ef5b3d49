package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/tourdesk/internal/db"
	"github.com/alexanderramin/tourdesk/internal/domain"
)

// Table names recorded in the change log.
const (
	TableLeads    = "leads"
	TablePackages = "packages"
	TableDrafts   = "itinerary_drafts"
)

// SQLiteChangeLogRepo appends to and reads the change_log outbox. Writers
// append inside the same transaction as the row they changed.
type SQLiteChangeLogRepo struct {
	db db.DBTX
}

func NewSQLiteChangeLogRepo(conn db.DBTX) *SQLiteChangeLogRepo {
	return &SQLiteChangeLogRepo{db: conn}
}

func (r *SQLiteChangeLogRepo) Append(ctx context.Context, table string, op domain.ChangeOp, recordID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO change_log (table_name, op, record_id, created_at) VALUES (?, ?, ?, ?)`,
		table, string(op), recordID, nowUTC())
	if err != nil {
		return fmt.Errorf("appending change log: %w", err)
	}
	return nil
}

func (r *SQLiteChangeLogRepo) Since(ctx context.Context, table string, afterSeq int64, limit int) ([]domain.ChangeEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT seq, table_name, op, record_id, created_at FROM change_log
		WHERE seq > ? AND (? = '' OR table_name = ?) ORDER BY seq LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, afterSeq, table, table, limit)
	if err != nil {
		return nil, fmt.Errorf("reading change log: %w", err)
	}
	defer rows.Close()

	var events []domain.ChangeEvent
	for rows.Next() {
		var ev domain.ChangeEvent
		var opStr, createdAtStr string
		if err := rows.Scan(&ev.Seq, &ev.Table, &opStr, &ev.RecordID, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning change event: %w", err)
		}
		ev.Op = domain.ChangeOp(opStr)
		ev.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating change log: %w", err)
	}
	return events, nil
}

// Head returns the latest sequence number, or 0 for an empty log.
func (r *SQLiteChangeLogRepo) Head(ctx context.Context) (int64, error) {
	var head int64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM change_log`).Scan(&head)
	if err != nil {
		return 0, fmt.Errorf("reading change log head: %w", err)
	}
	return head, nil
}
