package repository

import "context"

// ExecForTest runs raw SQL against the store.
func (s *Store) ExecForTest(ctx context.Context, query string) error {
	_, err := s.db.ExecContext(ctx, query)
	return err
}
