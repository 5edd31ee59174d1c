package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/vocabtutor/amas/internal/domain"
)

// AMASMigrations returns the AMAS persistence schema: one row per user,
// with the non-trivial sub-objects stored as JSON text columns.
func AMASMigrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS amas_user_state (
			user_id           TEXT PRIMARY KEY,
			user_state        TEXT NOT NULL,
			strategy          TEXT NOT NULL,
			bandit_model      TEXT,
			cold_start_state  TEXT,
			interaction_count INTEGER NOT NULL DEFAULT 0,
			last_updated_ms   INTEGER NOT NULL DEFAULT 0,
			updated_at        TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_amas_last_updated ON amas_user_state(last_updated_ms)`,
	}
}

// amasRow mirrors domain.PersistedAMASState's JSON-serialisable shape.
type amasRow struct {
	UserState        domain.UserState          `json:"user_state"`
	Strategy         domain.StrategyParams     `json:"strategy"`
	BanditModel      *domain.BanditModel       `json:"bandit_model,omitempty"`
	ColdStartState   *domain.ColdStartState    `json:"cold_start_state,omitempty"`
	InteractionCount uint64                    `json:"interaction_count"`
	LastUpdatedMs    int64                     `json:"last_updated_ms"`
}

// Load implements domain.PersistencePort. A missing user returns
// (nil, nil) — the engine treats that as a fresh user.
func (db *DB) Load(ctx context.Context, userID string) (*domain.PersistedAMASState, error) {
	var userStateJSON, strategyJSON string
	var banditJSON, coldStartJSON sql.NullString
	var interactionCount uint64
	var lastUpdatedMs int64

	err := db.db.QueryRowContext(ctx, `
		SELECT user_state, strategy, bandit_model, cold_start_state, interaction_count, last_updated_ms
		FROM amas_user_state WHERE user_id = ?
	`, userID).Scan(&userStateJSON, &strategyJSON, &banditJSON, &coldStartJSON, &interactionCount, &lastUpdatedMs)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: load user %s: %w", userID, err)
	}

	var row amasRow
	if err := json.Unmarshal([]byte(userStateJSON), &row.UserState); err != nil {
		return nil, fmt.Errorf("sqlite: decode user_state for %s: %w", userID, err)
	}
	if err := json.Unmarshal([]byte(strategyJSON), &row.Strategy); err != nil {
		return nil, fmt.Errorf("sqlite: decode strategy for %s: %w", userID, err)
	}
	if banditJSON.Valid {
		var bm domain.BanditModel
		if err := json.Unmarshal([]byte(banditJSON.String), &bm); err != nil {
			return nil, fmt.Errorf("sqlite: decode bandit_model for %s: %w", userID, err)
		}
		row.BanditModel = &bm
	}
	if coldStartJSON.Valid {
		var cs domain.ColdStartState
		if err := json.Unmarshal([]byte(coldStartJSON.String), &cs); err != nil {
			return nil, fmt.Errorf("sqlite: decode cold_start_state for %s: %w", userID, err)
		}
		row.ColdStartState = &cs
	}

	return &domain.PersistedAMASState{
		UserID:           userID,
		UserState:        row.UserState,
		Strategy:         row.Strategy,
		BanditModel:      row.BanditModel,
		ColdStartState:   row.ColdStartState,
		InteractionCount: interactionCount,
		LastUpdatedMs:    lastUpdatedMs,
	}, nil
}

// Save implements domain.PersistencePort via an upsert keyed on user_id.
func (db *DB) Save(ctx context.Context, s domain.PersistedAMASState) error {
	userStateJSON, err := json.Marshal(s.UserState)
	if err != nil {
		return fmt.Errorf("sqlite: encode user_state: %w", err)
	}
	strategyJSON, err := json.Marshal(s.Strategy)
	if err != nil {
		return fmt.Errorf("sqlite: encode strategy: %w", err)
	}
	var banditJSON, coldStartJSON []byte
	if s.BanditModel != nil {
		if banditJSON, err = json.Marshal(s.BanditModel); err != nil {
			return fmt.Errorf("sqlite: encode bandit_model: %w", err)
		}
	}
	if s.ColdStartState != nil {
		if coldStartJSON, err = json.Marshal(s.ColdStartState); err != nil {
			return fmt.Errorf("sqlite: encode cold_start_state: %w", err)
		}
	}

	_, err = db.db.ExecContext(ctx, `
		INSERT INTO amas_user_state (user_id, user_state, strategy, bandit_model, cold_start_state, interaction_count, last_updated_ms, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(user_id) DO UPDATE SET
			user_state        = excluded.user_state,
			strategy          = excluded.strategy,
			bandit_model      = excluded.bandit_model,
			cold_start_state  = excluded.cold_start_state,
			interaction_count = excluded.interaction_count,
			last_updated_ms   = excluded.last_updated_ms,
			updated_at        = datetime('now')
	`, s.UserID, string(userStateJSON), string(strategyJSON), nullableString(banditJSON), nullableString(coldStartJSON), s.InteractionCount, s.LastUpdatedMs)
	if err != nil {
		return fmt.Errorf("sqlite: save user %s: %w", s.UserID, err)
	}
	return nil
}

func nullableString(b []byte) interface{} {
	if b == nil {
		return nil
	}
	return string(b)
}
