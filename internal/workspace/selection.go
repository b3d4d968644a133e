package workspace

import (
	"context"
	"database/sql"
	"fmt"
)

// LoadSelection returns the persisted export selection in order. The result
// is never nil.
func (s *Store) LoadSelection(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT quote_id FROM selection ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("load selection: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan selection: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load selection: %w", err)
	}
	return ids, nil
}

// SaveSelection replaces the persisted selection. Duplicate IDs keep their
// first position.
func (s *Store) SaveSelection(ctx context.Context, ids []string) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM selection"); err != nil {
			return err
		}
		seen := make(map[string]struct{}, len(ids))
		position := 0
		for _, id := range ids {
			if _, dup := seen[id]; dup || id == "" {
				continue
			}
			seen[id] = struct{}{}
			if _, err := tx.ExecContext(ctx, "INSERT INTO selection (position, quote_id) VALUES (?, ?)", position, id); err != nil {
				return err
			}
			position++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save selection: %w", err)
	}
	return nil
}
