package domain

import (
	"context"
	"time"
)

// UserRepository defines the interface for user operations
type UserRepository interface {
	RegisterUser(ctx context.Context, user *User) error
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*User, error)
	GetAllUsers(ctx context.Context) ([]*User, error)
	GetPointsSummary(ctx context.Context, telegramID int64) (*PointsSummary, error)
	AddPoints(ctx context.Context, telegramID int64, delta float64) error
	SetBanned(ctx context.Context, telegramID int64, banned bool) error
	UpdateLastInteraction(ctx context.Context, telegramID int64, at time.Time) error
}

// ReportRepository defines the interface for report operations
type ReportRepository interface {
	CreateReport(ctx context.Context, report *Report) (int64, error)
	GetReport(ctx context.Context, reportID int64) (*Report, error)
	GetPendingReports(ctx context.Context) ([]*Report, error)
	GetUserReports(ctx context.Context, telegramID int64, limit int) ([]*Report, error)
	ReviewReport(ctx context.Context, reportID int64, status ReportStatus, reviewedBy int64, points float64, notes string) error
	CountUserReports(ctx context.Context, telegramID int64) (total int, approved int, err error)
	GetGameStats(ctx context.Context, platform, game string) (*GameStats, error)
	GetHourlyStats(ctx context.Context, platform, game string) ([]*HourStats, error)
}

// AnalysisRepository defines the interface for analysis purchase operations.
// PurchaseAnalysis deducts the cost and records the analysis in a single
// transaction; on ErrInsufficientPoints nothing is deducted.
type AnalysisRepository interface {
	PurchaseAnalysis(ctx context.Context, analysis *Analysis) error
	GetUserAnalyses(ctx context.Context, telegramID int64, limit int) ([]*Analysis, error)
}

// SettingsRepository defines the interface for system settings
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	GetAllSettings(ctx context.Context) ([]*SystemSetting, error)
}

// BroadcastRepository defines the interface for broadcast queue operations
type BroadcastRepository interface {
	CreateBroadcast(ctx context.Context, broadcast *Broadcast) (int64, error)
	GetPendingBroadcasts(ctx context.Context) ([]*Broadcast, error)
	MarkBroadcastSent(ctx context.Context, broadcastID int64, recipients int) error
}
