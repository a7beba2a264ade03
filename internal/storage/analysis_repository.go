package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rewardtracker/bot/internal/domain"
)

// AnalysisRepository handles analysis purchase operations
type AnalysisRepository struct {
	queue *DBQueue
}

// NewAnalysisRepository creates a new AnalysisRepository
func NewAnalysisRepository(queue *DBQueue) *AnalysisRepository {
	return &AnalysisRepository{queue: queue}
}

// PurchaseAnalysis deducts the cost from the user's balance and records the
// analysis in one transaction. When the balance does not cover the cost the
// transaction is rolled back and ErrInsufficientPoints is returned.
func (r *AnalysisRepository) PurchaseAnalysis(ctx context.Context, analysis *domain.Analysis) error {
	return r.queue.Execute(func(db *sql.DB) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		var points float64
		err = tx.QueryRowContext(ctx,
			`SELECT points FROM users WHERE telegram_id = ?`, analysis.TelegramID,
		).Scan(&points)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		if err != nil {
			return err
		}

		if points < analysis.Cost {
			return domain.ErrInsufficientPoints
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE users SET points = points - ? WHERE telegram_id = ?`,
			analysis.Cost, analysis.TelegramID,
		)
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`INSERT INTO analyses (telegram_id, type, platform, provider, game, cost, content, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			analysis.TelegramID, analysis.Type, analysis.Platform, analysis.Provider,
			analysis.Game, analysis.Cost, analysis.Content, analysis.CreatedAt,
		)
		if err != nil {
			return err
		}

		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		analysis.ID = id

		return tx.Commit()
	})
}

// GetUserAnalyses retrieves a user's most recent purchased analyses
func (r *AnalysisRepository) GetUserAnalyses(ctx context.Context, telegramID int64, limit int) ([]*domain.Analysis, error) {
	var analyses []*domain.Analysis

	err := r.queue.Execute(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			`SELECT id, telegram_id, type, platform, provider, game, cost, content, created_at
			 FROM analyses WHERE telegram_id = ? ORDER BY created_at DESC LIMIT ?`,
			telegramID, limit,
		)
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var analysis domain.Analysis
			if err := rows.Scan(
				&analysis.ID, &analysis.TelegramID, &analysis.Type, &analysis.Platform,
				&analysis.Provider, &analysis.Game, &analysis.Cost, &analysis.Content,
				&analysis.CreatedAt,
			); err != nil {
				return err
			}
			analyses = append(analyses, &analysis)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return analyses, nil
}
