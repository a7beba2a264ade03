package storage

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rewardtracker/bot/internal/domain"
)

// ReportRepository handles report data operations
type ReportRepository struct {
	queue *DBQueue
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(queue *DBQueue) *ReportRepository {
	return &ReportRepository{queue: queue}
}

// CreateReport inserts a report together with its proof photos
func (r *ReportRepository) CreateReport(ctx context.Context, report *domain.Report) (int64, error) {
	var reportID int64

	err := r.queue.Execute(func(db *sql.DB) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		result, err := tx.ExecContext(ctx,
			`INSERT INTO reports (telegram_id, platform, provider, game, bet_value, result, bet_time, additional_info, status, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			report.TelegramID, report.Platform, report.Provider, report.Game,
			report.BetValue, report.Result, report.BetTime, report.AdditionalInfo,
			report.Status, report.CreatedAt,
		)
		if err != nil {
			return err
		}

		reportID, err = result.LastInsertId()
		if err != nil {
			return err
		}

		for i := range report.Photos {
			photo := &report.Photos[i]
			_, err := tx.ExecContext(ctx,
				`INSERT INTO report_photos (report_id, file_id, file_unique_id, file_size, width, height, uploaded_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				reportID, photo.FileID, photo.FileUniqueID, photo.FileSize,
				photo.Width, photo.Height, photo.UploadedAt,
			)
			if err != nil {
				return err
			}
			photo.ReportID = reportID
		}

		return tx.Commit()
	})

	if err != nil {
		return 0, err
	}

	report.ID = reportID
	return reportID, nil
}

// GetReport retrieves one report with its photos
func (r *ReportRepository) GetReport(ctx context.Context, reportID int64) (*domain.Report, error) {
	var report domain.Report

	err := r.queue.Execute(func(db *sql.DB) error {
		var reviewedAt sql.NullTime
		err := db.QueryRowContext(ctx,
			`SELECT id, telegram_id, platform, provider, game, bet_value, result, bet_time, additional_info, status, awarded_points, reviewed_by, review_notes, reviewed_at, created_at
			 FROM reports WHERE id = ?`,
			reportID,
		).Scan(
			&report.ID, &report.TelegramID, &report.Platform, &report.Provider, &report.Game,
			&report.BetValue, &report.Result, &report.BetTime, &report.AdditionalInfo,
			&report.Status, &report.AwardedPoints, &report.ReviewedBy, &report.ReviewNotes,
			&reviewedAt, &report.CreatedAt,
		)
		if err != nil {
			return err
		}
		if reviewedAt.Valid {
			t := reviewedAt.Time
			report.ReviewedAt = &t
		}

		photos, err := loadPhotos(ctx, db, report.ID)
		if err != nil {
			return err
		}
		report.Photos = photos
		return nil
	})

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}

	return &report, nil
}

// GetPendingReports retrieves reports awaiting review, oldest first
func (r *ReportRepository) GetPendingReports(ctx context.Context) ([]*domain.Report, error) {
	return r.queryReports(ctx,
		`SELECT id, telegram_id, platform, provider, game, bet_value, result, bet_time, additional_info, status, awarded_points, reviewed_by, review_notes, reviewed_at, created_at
		 FROM reports WHERE status = ? ORDER BY created_at ASC`,
		domain.ReportStatusPending,
	)
}

// GetUserReports retrieves a user's most recent reports
func (r *ReportRepository) GetUserReports(ctx context.Context, telegramID int64, limit int) ([]*domain.Report, error) {
	return r.queryReports(ctx,
		`SELECT id, telegram_id, platform, provider, game, bet_value, result, bet_time, additional_info, status, awarded_points, reviewed_by, review_notes, reviewed_at, created_at
		 FROM reports WHERE telegram_id = ? ORDER BY created_at DESC LIMIT ?`,
		telegramID, limit,
	)
}

func (r *ReportRepository) queryReports(ctx context.Context, query string, args ...interface{}) ([]*domain.Report, error) {
	var reports []*domain.Report

	err := r.queue.Execute(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var report domain.Report
			var reviewedAt sql.NullTime
			if err := rows.Scan(
				&report.ID, &report.TelegramID, &report.Platform, &report.Provider, &report.Game,
				&report.BetValue, &report.Result, &report.BetTime, &report.AdditionalInfo,
				&report.Status, &report.AwardedPoints, &report.ReviewedBy, &report.ReviewNotes,
				&reviewedAt, &report.CreatedAt,
			); err != nil {
				return err
			}
			if reviewedAt.Valid {
				t := reviewedAt.Time
				report.ReviewedAt = &t
			}
			reports = append(reports, &report)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		for _, report := range reports {
			photos, err := loadPhotos(ctx, db, report.ID)
			if err != nil {
				return err
			}
			report.Photos = photos
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return reports, nil
}

func loadPhotos(ctx context.Context, db *sql.DB, reportID int64) ([]domain.ReportPhoto, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, report_id, file_id, file_unique_id, file_size, width, height, uploaded_at
		 FROM report_photos WHERE report_id = ? ORDER BY id ASC`,
		reportID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var photos []domain.ReportPhoto
	for rows.Next() {
		var photo domain.ReportPhoto
		if err := rows.Scan(
			&photo.ID, &photo.ReportID, &photo.FileID, &photo.FileUniqueID,
			&photo.FileSize, &photo.Width, &photo.Height, &photo.UploadedAt,
		); err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}
	return photos, rows.Err()
}

// ReviewReport moves a pending report to its final status. Only pending
// reports can be reviewed.
func (r *ReportRepository) ReviewReport(ctx context.Context, reportID int64, status domain.ReportStatus, reviewedBy int64, points float64, notes string) error {
	return r.queue.Execute(func(db *sql.DB) error {
		result, err := db.ExecContext(ctx,
			`UPDATE reports SET status = ?, awarded_points = ?, reviewed_by = ?, review_notes = ?, reviewed_at = ?
			 WHERE id = ? AND status = ?`,
			status, points, reviewedBy, notes, time.Now(),
			reportID, domain.ReportStatusPending,
		)
		if err != nil {
			return err
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrReportNotPending
		}
		return nil
	})
}

// CountUserReports returns total and approved report counts for a user
func (r *ReportRepository) CountUserReports(ctx context.Context, telegramID int64) (int, int, error) {
	var total, approved int

	err := r.queue.Execute(func(db *sql.DB) error {
		return db.QueryRowContext(ctx,
			`SELECT COUNT(*), COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
			 FROM reports WHERE telegram_id = ?`,
			domain.ReportStatusApproved, telegramID,
		).Scan(&total, &approved)
	})

	if err != nil {
		return 0, 0, err
	}

	return total, approved, nil
}

// GetGameStats aggregates approved reports for one platform/game pair
func (r *ReportRepository) GetGameStats(ctx context.Context, platform, game string) (*domain.GameStats, error) {
	var stats domain.GameStats
	var values []string

	err := r.queue.Execute(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			`SELECT result, bet_value FROM reports
			 WHERE platform = ? AND game = ? AND status = ?`,
			platform, game, domain.ReportStatusApproved,
		)
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var result domain.BetResult
			var betValue string
			if err := rows.Scan(&result, &betValue); err != nil {
				return err
			}
			stats.TotalBets++
			if result == domain.BetResultWin {
				stats.TotalWins++
			} else {
				stats.TotalLosses++
			}
			values = append(values, betValue)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	if stats.TotalBets > 0 {
		stats.WinRate = float64(stats.TotalWins) / float64(stats.TotalBets) * 100

		var sum float64
		var counted int
		for _, v := range values {
			if parsed, ok := parseBetValue(v); ok {
				sum += parsed
				counted++
			}
		}
		if counted > 0 {
			stats.AvgBetValue = sum / float64(counted)
		}
	}

	return &stats, nil
}

// GetHourlyStats buckets approved reports by the hour of their bet time
func (r *ReportRepository) GetHourlyStats(ctx context.Context, platform, game string) ([]*domain.HourStats, error) {
	buckets := make(map[int]*domain.HourStats)

	err := r.queue.Execute(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			`SELECT result, bet_time FROM reports
			 WHERE platform = ? AND game = ? AND status = ?`,
			platform, game, domain.ReportStatusApproved,
		)
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var result domain.BetResult
			var betTime string
			if err := rows.Scan(&result, &betTime); err != nil {
				return err
			}

			hour, ok := parseBetHour(betTime)
			if !ok {
				continue
			}

			bucket := buckets[hour]
			if bucket == nil {
				bucket = &domain.HourStats{Hour: hour}
				buckets[hour] = bucket
			}
			bucket.TotalBets++
			if result == domain.BetResultWin {
				bucket.Wins++
			}
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	var stats []*domain.HourStats
	for hour := 0; hour < 24; hour++ {
		bucket, ok := buckets[hour]
		if !ok {
			continue
		}
		bucket.WinRate = float64(bucket.Wins) / float64(bucket.TotalBets) * 100
		stats = append(stats, bucket)
	}

	return stats, nil
}

// parseBetValue reads the stored "R$ X,XX" display form back into a number
func parseBetValue(value string) (float64, bool) {
	s := strings.TrimSpace(strings.TrimPrefix(value, "R$"))
	s = strings.ReplaceAll(s, ",", ".")
	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// parseBetHour reads the hour out of a normalized "HH:MM" bet time
func parseBetHour(value string) (int, bool) {
	idx := strings.IndexByte(value, ':')
	if idx < 1 {
		return 0, false
	}
	hour, err := strconv.Atoi(value[:idx])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	return hour, true
}
