package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/okian/certcredit/internal/domain/model"
)

// DefaultSeed returns the stock certification records.
func DefaultSeed() []model.CatalogEntry {
	return []model.CatalogEntry{
		{Name: "HashiCorp Certified: Terraform Associate", Points: 5.0},
		{Name: "AWS Certified AI Practitioner", Points: 2.5},
		{Name: "AWS Certified Solutions Architect - Professional", Points: 10.0},
		{Name: "AWS Certified Solutions Architect - Associate", Points: 5.0},
		{Name: "AWS Certified Developer - Associate", Points: 5.0},
		{Name: "AWS Certified SysOps Administrator - Associate", Points: 5.0},
		{Name: "AWS Certified DevOps Engineer - Professional", Points: 10.0},
		{Name: "AWS Solution Architect Professional", Points: 10.0},
		{Name: "Google Cloud Professional Cloud Architect", Points: 8.0},
		{Name: "Microsoft Certified: Azure Fundamentals", Points: 5.0},
		{Name: "Microsoft Certified: Azure Solutions Architect Expert", Points: 8.0},
		{Name: "Certified Kubernetes Administrator (CKA)", Points: 7.0},
		{Name: "CompTIA Security+", Points: 4.5},
		{Name: "Certified Information Systems Security Professional (CISSP)", Points: 9.0},
	}
}

// Seed appends entries to the table in order in a single transaction.
func (s *Store) Seed(ctx context.Context, entries []model.CatalogEntry) error {
	if s == nil || s.db == nil {
		return ErrClosed
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO certifications_data (cert_name, points) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.Name, e.Points); err != nil {
			return fmt.Errorf("seed %q: %w", e.Name, err)
		}
	}
	return tx.Commit()
}

// Entries returns every row in insertion order.
func (s *Store) Entries(ctx context.Context) ([]model.CatalogEntry, error) {
	if s == nil || s.db == nil {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, `SELECT rowid, cert_name, points FROM certifications_data ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.CatalogEntry, 0, 16)
	for rows.Next() {
		var (
			id     int64
			name   string
			points sql.NullFloat64
		)
		if err := rows.Scan(&id, &name, &points); err != nil {
			return nil, err
		}
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: row %d has no name", ErrMalformedRow, id)
		}
		if !points.Valid {
			return nil, fmt.Errorf("%w: row %d (%q) has no points", ErrMalformedRow, id, name)
		}
		out = append(out, model.CatalogEntry{Name: name, Points: points.Float64})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
