package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/tourdesk/internal/db"
	"github.com/alexanderramin/tourdesk/internal/domain"
)

// SQLiteDraftRepo implements DraftRepo using a SQLite database.
type SQLiteDraftRepo struct {
	db db.DBTX
}

func NewSQLiteDraftRepo(conn db.DBTX) *SQLiteDraftRepo {
	return &SQLiteDraftRepo{db: conn}
}

const draftColumns = `id, lead_id, agent_id, title, status, step, state, finalized_at, created_at, updated_at`

func (r *SQLiteDraftRepo) Create(ctx context.Context, d *domain.ItineraryDraft) error {
	query := `INSERT INTO itinerary_drafts (` + draftColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.LeadID,
		d.AgentID,
		d.Title,
		string(d.Status),
		string(d.Step),
		string(d.State),
		nullableTimeToString(d.FinalizedAt, time.RFC3339),
		d.CreatedAt.UTC().Format(time.RFC3339),
		d.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting itinerary draft: %w", err)
	}
	return nil
}

func (r *SQLiteDraftRepo) GetByID(ctx context.Context, id string) (*domain.ItineraryDraft, error) {
	query := `SELECT ` + draftColumns + ` FROM itinerary_drafts WHERE id = ?`
	d, err := scanDraft(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("itinerary draft %s: %w", id, ErrNotFound)
	}
	return d, err
}

func (r *SQLiteDraftRepo) ListByAgent(ctx context.Context, agentID string) ([]*domain.ItineraryDraft, error) {
	query := `SELECT ` + draftColumns + ` FROM itinerary_drafts WHERE agent_id = ? ORDER BY updated_at DESC, id`
	return r.list(ctx, query, agentID)
}

func (r *SQLiteDraftRepo) ListByLead(ctx context.Context, leadID string) ([]*domain.ItineraryDraft, error) {
	query := `SELECT ` + draftColumns + ` FROM itinerary_drafts WHERE lead_id = ? ORDER BY updated_at DESC, id`
	return r.list(ctx, query, leadID)
}

func (r *SQLiteDraftRepo) list(ctx context.Context, query string, arg string) ([]*domain.ItineraryDraft, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("listing itinerary drafts: %w", err)
	}
	defer rows.Close()

	var drafts []*domain.ItineraryDraft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating itinerary drafts: %w", err)
	}
	return drafts, nil
}

func (r *SQLiteDraftRepo) Update(ctx context.Context, d *domain.ItineraryDraft) error {
	query := `UPDATE itinerary_drafts SET title = ?, status = ?, step = ?, state = ?, finalized_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		d.Title,
		string(d.Status),
		string(d.Step),
		string(d.State),
		nullableTimeToString(d.FinalizedAt, time.RFC3339),
		d.UpdatedAt.UTC().Format(time.RFC3339),
		d.ID,
	)
	if err != nil {
		return fmt.Errorf("updating itinerary draft: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("itinerary draft %s: %w", d.ID, ErrNotFound)
	}
	return nil
}

func scanDraft(s rowScanner) (*domain.ItineraryDraft, error) {
	var d domain.ItineraryDraft
	var statusStr, stepStr, stateStr, createdAtStr, updatedAtStr string
	var finalizedStr sql.NullString

	err := s.Scan(&d.ID, &d.LeadID, &d.AgentID, &d.Title, &statusStr, &stepStr, &stateStr,
		&finalizedStr, &createdAtStr, &updatedAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning itinerary draft: %w", err)
	}
	d.Status = domain.DraftStatus(statusStr)
	d.Step = domain.WizardStep(stepStr)
	d.State = []byte(stateStr)
	d.FinalizedAt = parseNullableTime(finalizedStr, time.RFC3339)
	d.CreatedAt, d.UpdatedAt = parseTimestamps(createdAtStr, updatedAtStr)
	return &d, nil
}
