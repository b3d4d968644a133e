package workspace

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const (
	settingToken        = "token"
	settingTrackedAsset = "tracked_asset"
)

// Token returns the stored bearer token, or "" when none is stored.
func (s *Store) Token(ctx context.Context) (string, error) {
	return s.setting(ctx, settingToken)
}

// SetToken stores the bearer token. An empty token clears it.
func (s *Store) SetToken(ctx context.Context, token string) error {
	return s.setSetting(ctx, settingToken, token)
}

// TrackedAsset returns the last asset handed to the poller.
func (s *Store) TrackedAsset(ctx context.Context) (string, error) {
	return s.setting(ctx, settingTrackedAsset)
}

// SetTrackedAsset records the asset being watched. Empty clears it.
func (s *Store) SetTrackedAsset(ctx context.Context, assetID string) error {
	return s.setSetting(ctx, settingTrackedAsset, assetID)
}

func (s *Store) setting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read setting %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) setSetting(ctx context.Context, key, value string) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if value == "" {
			_, err := tx.ExecContext(ctx, "DELETE FROM settings WHERE key = ?", key)
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, value, s.now().UTC().Format(time.RFC3339Nano),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("write setting %s: %w", key, err)
	}
	return nil
}
