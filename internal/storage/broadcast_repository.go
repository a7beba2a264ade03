package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/rewardtracker/bot/internal/domain"
)

// BroadcastRepository handles the broadcast delivery queue
type BroadcastRepository struct {
	queue *DBQueue
}

// NewBroadcastRepository creates a new BroadcastRepository
func NewBroadcastRepository(queue *DBQueue) *BroadcastRepository {
	return &BroadcastRepository{queue: queue}
}

// CreateBroadcast queues a broadcast for delivery
func (r *BroadcastRepository) CreateBroadcast(ctx context.Context, broadcast *domain.Broadcast) (int64, error) {
	var broadcastID int64

	err := r.queue.Execute(func(db *sql.DB) error {
		result, err := db.ExecContext(ctx,
			`INSERT INTO broadcasts (title, message, target_users, status, created_by, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			broadcast.Title, broadcast.Message, broadcast.TargetUsers,
			broadcast.Status, broadcast.CreatedBy, broadcast.CreatedAt,
		)
		if err != nil {
			return err
		}

		broadcastID, err = result.LastInsertId()
		return err
	})

	if err != nil {
		return 0, err
	}

	broadcast.ID = broadcastID
	return broadcastID, nil
}

// GetPendingBroadcasts retrieves undelivered broadcasts, oldest first
func (r *BroadcastRepository) GetPendingBroadcasts(ctx context.Context) ([]*domain.Broadcast, error) {
	var broadcasts []*domain.Broadcast

	err := r.queue.Execute(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			`SELECT id, title, message, target_users, status, created_by, recipient_count, created_at, sent_at
			 FROM broadcasts WHERE status = ? ORDER BY created_at ASC`,
			domain.BroadcastStatusPending,
		)
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var broadcast domain.Broadcast
			var sentAt sql.NullTime
			if err := rows.Scan(
				&broadcast.ID, &broadcast.Title, &broadcast.Message, &broadcast.TargetUsers,
				&broadcast.Status, &broadcast.CreatedBy, &broadcast.RecipientCount,
				&broadcast.CreatedAt, &sentAt,
			); err != nil {
				return err
			}
			if sentAt.Valid {
				t := sentAt.Time
				broadcast.SentAt = &t
			}
			broadcasts = append(broadcasts, &broadcast)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return broadcasts, nil
}

// MarkBroadcastSent records delivery of a broadcast
func (r *BroadcastRepository) MarkBroadcastSent(ctx context.Context, broadcastID int64, recipients int) error {
	return r.queue.Execute(func(db *sql.DB) error {
		_, err := db.ExecContext(ctx,
			`UPDATE broadcasts SET status = ?, recipient_count = ?, sent_at = ? WHERE id = ?`,
			domain.BroadcastStatusSent, recipients, time.Now(), broadcastID,
		)
		return err
	})
}
