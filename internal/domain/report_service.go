package domain

import (
	"context"
	"fmt"
	"time"
)

// EventPublisher pushes dashboard events (report submitted/reviewed and so
// on) to connected admin clients. A nil-safe no-op implementation is used in
// tests.
type EventPublisher interface {
	Publish(event string, payload interface{})
}

// NopPublisher discards events
type NopPublisher struct{}

// Publish implements EventPublisher
func (NopPublisher) Publish(string, interface{}) {}

// ReportService owns report submission and admin review
type ReportService struct {
	reports  ReportRepository
	analyses AnalysisRepository
	users    UserRepository
	events   EventPublisher
	logger   Logger
}

// NewReportService creates a new ReportService
func NewReportService(reports ReportRepository, analyses AnalysisRepository, users UserRepository, events EventPublisher, logger Logger) *ReportService {
	if events == nil {
		events = NopPublisher{}
	}
	return &ReportService{
		reports:  reports,
		analyses: analyses,
		users:    users,
		events:   events,
		logger:   logger,
	}
}

// SubmitReport stores a completed report as pending and notifies the
// dashboard. The caller keeps its draft on error so the user can retry.
func (s *ReportService) SubmitReport(ctx context.Context, report *Report) (*Report, error) {
	if err := report.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByTelegramID(ctx, report.TelegramID)
	if err != nil {
		s.logger.Error("failed to load user for report", "telegram_id", report.TelegramID, "error", err)
		return nil, err
	}
	if user.IsBanned {
		return nil, ErrUserBanned
	}

	report.Status = ReportStatusPending
	report.CreatedAt = time.Now()

	id, err := s.reports.CreateReport(ctx, report)
	if err != nil {
		s.logger.Error("failed to create report", "telegram_id", report.TelegramID, "error", err)
		return nil, err
	}
	report.ID = id

	s.logger.Info("report submitted", "report_id", id, "telegram_id", report.TelegramID, "game", report.Game, "photos", len(report.Photos))
	s.events.Publish("report_submitted", report)

	return report, nil
}

// ApproveReport marks a pending report approved and credits the awarded
// points to its author. Points are clamped to [0, MaxReportAwardPoints].
func (s *ReportService) ApproveReport(ctx context.Context, reportID, adminID int64, points float64, notes string) (*Report, error) {
	if points < 0 {
		points = 0
	}
	if points > MaxReportAwardPoints {
		points = MaxReportAwardPoints
	}

	report, err := s.reports.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != ReportStatusPending {
		return nil, ErrReportNotPending
	}

	if err := s.reports.ReviewReport(ctx, reportID, ReportStatusApproved, adminID, points, notes); err != nil {
		s.logger.Error("failed to approve report", "report_id", reportID, "error", err)
		return nil, err
	}

	if err := s.users.AddPoints(ctx, report.TelegramID, points); err != nil {
		s.logger.Error("failed to credit points for approved report", "report_id", reportID, "telegram_id", report.TelegramID, "error", err)
		return nil, fmt.Errorf("report approved but points not credited: %w", err)
	}

	report.Status = ReportStatusApproved
	report.AwardedPoints = points
	report.ReviewedBy = adminID

	s.logger.Info("report approved", "report_id", reportID, "admin_id", adminID, "points", points)
	s.events.Publish("report_approved", report)

	return report, nil
}

// RejectReport marks a pending report rejected with optional review notes.
func (s *ReportService) RejectReport(ctx context.Context, reportID, adminID int64, notes string) (*Report, error) {
	report, err := s.reports.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != ReportStatusPending {
		return nil, ErrReportNotPending
	}

	if err := s.reports.ReviewReport(ctx, reportID, ReportStatusRejected, adminID, 0, notes); err != nil {
		s.logger.Error("failed to reject report", "report_id", reportID, "error", err)
		return nil, err
	}

	report.Status = ReportStatusRejected
	report.ReviewedBy = adminID
	report.ReviewNotes = notes

	s.logger.Info("report rejected", "report_id", reportID, "admin_id", adminID)
	s.events.Publish("report_rejected", report)

	return report, nil
}

// GetPendingReports lists reports awaiting review, oldest first.
func (s *ReportService) GetPendingReports(ctx context.Context) ([]*Report, error) {
	return s.reports.GetPendingReports(ctx)
}

// GetUserHistory assembles the recent reports, analyses and aggregate stats
// shown by /historico.
func (s *ReportService) GetUserHistory(ctx context.Context, telegramID int64) (*History, error) {
	reports, err := s.reports.GetUserReports(ctx, telegramID, 5)
	if err != nil {
		return nil, err
	}

	analyses, err := s.analyses.GetUserAnalyses(ctx, telegramID, 5)
	if err != nil {
		return nil, err
	}

	total, approved, err := s.reports.CountUserReports(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	stats := HistoryStats{
		TotalReports:    total,
		ApprovedReports: approved,
	}
	if total > 0 {
		stats.ApprovalRate = float64(approved) / float64(total) * 100
	}

	summary, err := s.users.GetPointsSummary(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	stats.TotalSpent = summary.SpentPoints

	return &History{Reports: reports, Analyses: analyses, Stats: stats}, nil
}
