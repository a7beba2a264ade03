package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rewardtracker/bot/internal/domain"
)

// UserRepository handles user data operations
type UserRepository struct {
	queue *DBQueue
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(queue *DBQueue) *UserRepository {
	return &UserRepository{queue: queue}
}

// RegisterUser inserts the user if unknown, otherwise refreshes the profile
// fields. Points, referral and ban state of an existing row are untouched.
func (r *UserRepository) RegisterUser(ctx context.Context, user *domain.User) error {
	return r.queue.Execute(func(db *sql.DB) error {
		_, err := db.ExecContext(ctx,
			`INSERT INTO users (telegram_id, username, first_name, last_name, points, affiliate_code, referred_by, is_banned, created_at, last_interaction)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(telegram_id) DO UPDATE SET
			     username = excluded.username,
			     first_name = excluded.first_name,
			     last_name = excluded.last_name,
			     last_interaction = excluded.last_interaction`,
			user.TelegramID, user.Username, user.FirstName, user.LastName,
			user.Points, user.AffiliateCode, user.ReferredBy, user.IsBanned,
			user.CreatedAt, user.LastInteraction,
		)
		if err != nil {
			return err
		}

		// LastInsertId is unreliable after ON CONFLICT DO UPDATE: sqlite
		// reports the last rowid actually inserted, which on the update path
		// belongs to some earlier insert. Resolve the id by key instead.
		return db.QueryRowContext(ctx,
			`SELECT id FROM users WHERE telegram_id = ?`, user.TelegramID,
		).Scan(&user.ID)
	})
}

// GetUserByTelegramID retrieves a user by telegram ID
func (r *UserRepository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	var user domain.User

	err := r.queue.Execute(func(db *sql.DB) error {
		return db.QueryRowContext(ctx,
			`SELECT id, telegram_id, username, first_name, last_name, points, affiliate_code, referred_by, is_banned, created_at, last_interaction
			 FROM users WHERE telegram_id = ?`,
			telegramID,
		).Scan(
			&user.ID, &user.TelegramID, &user.Username, &user.FirstName, &user.LastName,
			&user.Points, &user.AffiliateCode, &user.ReferredBy, &user.IsBanned,
			&user.CreatedAt, &user.LastInteraction,
		)
	})

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetAllUsers retrieves every registered user ordered by registration time
func (r *UserRepository) GetAllUsers(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User

	err := r.queue.Execute(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			`SELECT id, telegram_id, username, first_name, last_name, points, affiliate_code, referred_by, is_banned, created_at, last_interaction
			 FROM users ORDER BY created_at ASC`,
		)
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var user domain.User
			if err := rows.Scan(
				&user.ID, &user.TelegramID, &user.Username, &user.FirstName, &user.LastName,
				&user.Points, &user.AffiliateCode, &user.ReferredBy, &user.IsBanned,
				&user.CreatedAt, &user.LastInteraction,
			); err != nil {
				return err
			}
			users = append(users, &user)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return users, nil
}

// GetPointsSummary computes the points breakdown for a user. Earned points
// come from approved reports, spent points from purchased analyses, and the
// remainder of the balance counts as bonus.
func (r *UserRepository) GetPointsSummary(ctx context.Context, telegramID int64) (*domain.PointsSummary, error) {
	var summary domain.PointsSummary

	err := r.queue.Execute(func(db *sql.DB) error {
		err := db.QueryRowContext(ctx,
			`SELECT points FROM users WHERE telegram_id = ?`, telegramID,
		).Scan(&summary.Points)
		if err != nil {
			return err
		}

		err = db.QueryRowContext(ctx,
			`SELECT COALESCE(SUM(awarded_points), 0) FROM reports WHERE telegram_id = ? AND status = ?`,
			telegramID, domain.ReportStatusApproved,
		).Scan(&summary.ReportsPoints)
		if err != nil {
			return err
		}

		return db.QueryRowContext(ctx,
			`SELECT COALESCE(SUM(cost), 0) FROM analyses WHERE telegram_id = ?`,
			telegramID,
		).Scan(&summary.SpentPoints)
	})

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	bonus := summary.Points - summary.ReportsPoints + summary.SpentPoints
	if bonus > 0 {
		summary.BonusPoints = bonus
	}

	return &summary, nil
}

// AddPoints adjusts a user's balance by delta
func (r *UserRepository) AddPoints(ctx context.Context, telegramID int64, delta float64) error {
	return r.queue.Execute(func(db *sql.DB) error {
		result, err := db.ExecContext(ctx,
			`UPDATE users SET points = points + ? WHERE telegram_id = ?`,
			delta, telegramID,
		)
		if err != nil {
			return err
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}

// SetBanned updates a user's ban flag
func (r *UserRepository) SetBanned(ctx context.Context, telegramID int64, banned bool) error {
	return r.queue.Execute(func(db *sql.DB) error {
		result, err := db.ExecContext(ctx,
			`UPDATE users SET is_banned = ? WHERE telegram_id = ?`,
			banned, telegramID,
		)
		if err != nil {
			return err
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}

// UpdateLastInteraction records when the user last talked to the bot
func (r *UserRepository) UpdateLastInteraction(ctx context.Context, telegramID int64, at time.Time) error {
	return r.queue.Execute(func(db *sql.DB) error {
		_, err := db.ExecContext(ctx,
			`UPDATE users SET last_interaction = ? WHERE telegram_id = ?`,
			at, telegramID,
		)
		return err
	})
}
