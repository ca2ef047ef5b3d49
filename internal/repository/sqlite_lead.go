package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tourdesk/internal/db"
	"github.com/alexanderramin/tourdesk/internal/domain"
)

// SQLiteLeadRepo implements LeadRepo using a SQLite database.
type SQLiteLeadRepo struct {
	db db.DBTX
}

// NewSQLiteLeadRepo creates a LeadRepo over a database or transaction.
func NewSQLiteLeadRepo(conn db.DBTX) *SQLiteLeadRepo {
	return &SQLiteLeadRepo{db: conn}
}

const leadColumns = `id, customer_name, customer_email, destination, budget, trip_type, adults, children,
	start_date, end_date, duration_days, preferences, requirements, price, status, agent_id,
	purchased_at, created_at, updated_at`

func (r *SQLiteLeadRepo) Create(ctx context.Context, l *domain.Lead) error {
	query := `INSERT INTO leads (` + leadColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		l.ID,
		l.CustomerName,
		l.CustomerEmail,
		l.Destination,
		l.Budget.String(),
		l.TripType,
		l.Adults,
		l.Children,
		nullableTimeToString(l.StartDate, dateLayout),
		nullableTimeToString(l.EndDate, dateLayout),
		l.Duration,
		l.Preferences,
		l.Requirements,
		l.Price.String(),
		string(l.Status),
		l.AgentID,
		nullableTimeToString(l.PurchasedAt, time.RFC3339),
		l.CreatedAt.UTC().Format(time.RFC3339),
		l.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting lead: %w", err)
	}
	return nil
}

func (r *SQLiteLeadRepo) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = ?`
	l, err := scanLead(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lead %s: %w", id, ErrNotFound)
	}
	return l, err
}

func (r *SQLiteLeadRepo) List(ctx context.Context, f LeadFilter) ([]*domain.Lead, error) {
	var where []string
	var args []any
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.AgentID != "" {
		where = append(where, "agent_id = ?")
		args = append(args, f.AgentID)
	}
	if f.Destination != "" {
		where = append(where, "destination LIKE ? COLLATE NOCASE")
		args = append(args, "%"+f.Destination+"%")
	}

	query := `SELECT ` + leadColumns + ` FROM leads`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}
	defer rows.Close()

	var leads []*domain.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating leads: %w", err)
	}
	return leads, nil
}

func (r *SQLiteLeadRepo) Update(ctx context.Context, l *domain.Lead) error {
	query := `UPDATE leads SET customer_name = ?, customer_email = ?, destination = ?, budget = ?, trip_type = ?,
		adults = ?, children = ?, start_date = ?, end_date = ?, duration_days = ?, preferences = ?, requirements = ?,
		price = ?, status = ?, agent_id = ?, purchased_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		l.CustomerName,
		l.CustomerEmail,
		l.Destination,
		l.Budget.String(),
		l.TripType,
		l.Adults,
		l.Children,
		nullableTimeToString(l.StartDate, dateLayout),
		nullableTimeToString(l.EndDate, dateLayout),
		l.Duration,
		l.Preferences,
		l.Requirements,
		l.Price.String(),
		string(l.Status),
		l.AgentID,
		nullableTimeToString(l.PurchasedAt, time.RFC3339),
		l.UpdatedAt.UTC().Format(time.RFC3339),
		l.ID,
	)
	if err != nil {
		return fmt.Errorf("updating lead: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("lead %s: %w", l.ID, ErrNotFound)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(s rowScanner) (*domain.Lead, error) {
	var l domain.Lead
	var budgetStr, priceStr, statusStr, createdAtStr, updatedAtStr string
	var startStr, endStr, purchasedStr sql.NullString

	err := s.Scan(
		&l.ID, &l.CustomerName, &l.CustomerEmail, &l.Destination, &budgetStr, &l.TripType,
		&l.Adults, &l.Children, &startStr, &endStr, &l.Duration, &l.Preferences, &l.Requirements,
		&priceStr, &statusStr, &l.AgentID, &purchasedStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning lead: %w", err)
	}

	if l.Budget, err = parseDecimal(budgetStr); err != nil {
		return nil, fmt.Errorf("lead %s budget: %w", l.ID, err)
	}
	if l.Price, err = parseDecimal(priceStr); err != nil {
		return nil, fmt.Errorf("lead %s price: %w", l.ID, err)
	}
	l.Status = domain.LeadStatus(statusStr)
	l.StartDate = parseNullableTime(startStr, dateLayout)
	l.EndDate = parseNullableTime(endStr, dateLayout)
	l.PurchasedAt = parseNullableTime(purchasedStr, time.RFC3339)
	l.CreatedAt, l.UpdatedAt = parseTimestamps(createdAtStr, updatedAtStr)
	return &l, nil
}
