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

// SQLitePackageRepo implements PackageRepo. Destinations live in
// package_destinations and are rewritten whole on every update.
type SQLitePackageRepo struct {
	db db.DBTX
}

func NewSQLitePackageRepo(conn db.DBTX) *SQLitePackageRepo {
	return &SQLitePackageRepo{db: conn}
}

const packageColumns = `id, title, description, type, adult_price, child_price, currency, duration_days, duration_hours,
	operator_id, operator_name, rating, review_count, recommendation_score, status, created_at, updated_at`

func (r *SQLitePackageRepo) Create(ctx context.Context, p *domain.EnhancedPackage) error {
	query := `INSERT INTO packages (` + packageColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Title,
		p.Description,
		string(p.Type),
		p.Pricing.AdultPrice.String(),
		p.Pricing.ChildPrice.String(),
		p.Pricing.Currency,
		p.Duration.Days,
		p.Duration.Hours,
		p.OperatorID,
		p.OperatorName,
		p.Rating,
		p.ReviewCount,
		p.RecommendationScore,
		string(p.Status),
		p.CreatedAt.UTC().Format(time.RFC3339),
		p.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting package: %w", err)
	}
	return r.writeDestinations(ctx, p.ID, p.Destinations)
}

func (r *SQLitePackageRepo) GetByID(ctx context.Context, id string) (*domain.EnhancedPackage, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE id = ?`
	p, err := scanPackage(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("package %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	dests, err := r.loadDestinations(ctx, []string{p.ID})
	if err != nil {
		return nil, err
	}
	p.Destinations = dests[p.ID]
	return p, nil
}

func (r *SQLitePackageRepo) List(ctx context.Context, f PackageFilter) ([]*domain.EnhancedPackage, error) {
	var where []string
	var args []any
	if !f.IncludeInactive {
		where = append(where, "status = 'active'")
	}
	if f.OperatorID != "" {
		where = append(where, "operator_id = ?")
		args = append(args, f.OperatorID)
	}
	if f.Destination != "" {
		where = append(where, `id IN (SELECT package_id FROM package_destinations WHERE destination = ? COLLATE NOCASE)`)
		args = append(args, f.Destination)
	}

	query := `SELECT ` + packageColumns + ` FROM packages`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing packages: %w", err)
	}
	var pkgs []*domain.EnhancedPackage
	var ids []string
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		pkgs = append(pkgs, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating packages: %w", err)
	}
	// Close before the destination query; an in-memory database has one connection.
	rows.Close()

	dests, err := r.loadDestinations(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range pkgs {
		p.Destinations = dests[p.ID]
	}
	return pkgs, nil
}

func (r *SQLitePackageRepo) Update(ctx context.Context, p *domain.EnhancedPackage) error {
	query := `UPDATE packages SET title = ?, description = ?, type = ?, adult_price = ?, child_price = ?, currency = ?,
		duration_days = ?, duration_hours = ?, operator_id = ?, operator_name = ?, rating = ?, review_count = ?,
		recommendation_score = ?, status = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Title,
		p.Description,
		string(p.Type),
		p.Pricing.AdultPrice.String(),
		p.Pricing.ChildPrice.String(),
		p.Pricing.Currency,
		p.Duration.Days,
		p.Duration.Hours,
		p.OperatorID,
		p.OperatorName,
		p.Rating,
		p.ReviewCount,
		p.RecommendationScore,
		string(p.Status),
		p.UpdatedAt.UTC().Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating package: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("package %s: %w", p.ID, ErrNotFound)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM package_destinations WHERE package_id = ?`, p.ID); err != nil {
		return fmt.Errorf("clearing package destinations: %w", err)
	}
	return r.writeDestinations(ctx, p.ID, p.Destinations)
}

func (r *SQLitePackageRepo) writeDestinations(ctx context.Context, packageID string, dests []string) error {
	seen := make(map[string]bool, len(dests))
	for i, d := range dests {
		key := strings.ToLower(d)
		if d == "" || seen[key] {
			continue
		}
		seen[key] = true
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO package_destinations (package_id, destination, position) VALUES (?, ?, ?)`,
			packageID, d, i)
		if err != nil {
			return fmt.Errorf("inserting package destination: %w", err)
		}
	}
	return nil
}

func (r *SQLitePackageRepo) loadDestinations(ctx context.Context, ids []string) (map[string][]string, error) {
	out := make(map[string][]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT package_id, destination FROM package_destinations
		 WHERE package_id IN (`+placeholders+`) ORDER BY package_id, position`, args...)
	if err != nil {
		return nil, fmt.Errorf("loading package destinations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, dest string
		if err := rows.Scan(&id, &dest); err != nil {
			return nil, fmt.Errorf("scanning package destination: %w", err)
		}
		out[id] = append(out[id], dest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating package destinations: %w", err)
	}
	return out, nil
}

func scanPackage(s rowScanner) (*domain.EnhancedPackage, error) {
	var p domain.EnhancedPackage
	var typeStr, adultStr, childStr, statusStr, createdAtStr, updatedAtStr string

	err := s.Scan(
		&p.ID, &p.Title, &p.Description, &typeStr, &adultStr, &childStr, &p.Pricing.Currency,
		&p.Duration.Days, &p.Duration.Hours, &p.OperatorID, &p.OperatorName, &p.Rating,
		&p.ReviewCount, &p.RecommendationScore, &statusStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning package: %w", err)
	}
	if p.Pricing.AdultPrice, err = parseDecimal(adultStr); err != nil {
		return nil, fmt.Errorf("package %s adult price: %w", p.ID, err)
	}
	if p.Pricing.ChildPrice, err = parseDecimal(childStr); err != nil {
		return nil, fmt.Errorf("package %s child price: %w", p.ID, err)
	}
	p.Type = domain.PackageType(typeStr)
	p.Status = domain.PackageStatus(statusStr)
	p.CreatedAt, p.UpdatedAt = parseTimestamps(createdAtStr, updatedAtStr)
	return &p, nil
}
