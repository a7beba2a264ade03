package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rewardtracker/bot/internal/domain"

	_ "modernc.org/sqlite"
)

func makeReport(telegramID int64, result domain.BetResult, betTime string) *domain.Report {
	return &domain.Report{
		TelegramID: telegramID,
		Platform:   "pop678",
		Provider:   "pgsoft",
		Game:       "fortune_tiger",
		BetValue:   "R$ 5,00",
		Result:     result,
		BetTime:    betTime,
		Status:     domain.ReportStatusPending,
		CreatedAt:  time.Now().Truncate(time.Second),
	}
}

func TestCreateAndGetReportWithPhotos(t *testing.T) {
	queue := newTestQueue(t)
	repo := NewReportRepository(queue)
	ctx := context.Background()

	report := makeReport(100, domain.BetResultWin, "14:30")
	report.AdditionalInfo = "turbo ativado"
	now := time.Now().Truncate(time.Second)
	report.Photos = []domain.ReportPhoto{
		{FileID: "file-1", FileUniqueID: "uniq-1", FileSize: 1024, Width: 800, Height: 600, UploadedAt: now},
		{FileID: "file-2", FileUniqueID: "uniq-2", FileSize: 2048, Width: 800, Height: 600, UploadedAt: now},
	}

	reportID, err := repo.CreateReport(ctx, report)
	if err != nil {
		t.Fatalf("Failed to create report: %v", err)
	}
	if reportID == 0 {
		t.Fatal("Expected non-zero report ID")
	}

	retrieved, err := repo.GetReport(ctx, reportID)
	if err != nil {
		t.Fatalf("Failed to get report: %v", err)
	}
	if retrieved.Platform != "pop678" || retrieved.Game != "fortune_tiger" {
		t.Errorf("Unexpected report fields: %+v", retrieved)
	}
	if retrieved.BetValue != "R$ 5,00" || retrieved.BetTime != "14:30" {
		t.Errorf("Unexpected bet fields: %q %q", retrieved.BetValue, retrieved.BetTime)
	}
	if retrieved.AdditionalInfo != "turbo ativado" {
		t.Errorf("Unexpected additional info: %q", retrieved.AdditionalInfo)
	}
	if len(retrieved.Photos) != 2 {
		t.Fatalf("Expected 2 photos, got %d", len(retrieved.Photos))
	}
	if retrieved.Photos[0].FileID != "file-1" || retrieved.Photos[1].FileID != "file-2" {
		t.Errorf("Photos out of order: %+v", retrieved.Photos)
	}
}

func TestGetReportNotFound(t *testing.T) {
	queue := newTestQueue(t)
	repo := NewReportRepository(queue)

	_, err := repo.GetReport(context.Background(), 999)
	if !errors.Is(err, domain.ErrReportNotFound) {
		t.Errorf("Expected ErrReportNotFound, got %v", err)
	}
}

func TestReviewReportOnlyPending(t *testing.T) {
	queue := newTestQueue(t)
	repo := NewReportRepository(queue)
	ctx := context.Background()

	reportID, err := repo.CreateReport(ctx, makeReport(100, domain.BetResultWin, "14:30"))
	if err != nil {
		t.Fatalf("Failed to create report: %v", err)
	}

	if err := repo.ReviewReport(ctx, reportID, domain.ReportStatusApproved, 7, 10, "ok"); err != nil {
		t.Fatalf("Failed to approve report: %v", err)
	}

	retrieved, err := repo.GetReport(ctx, reportID)
	if err != nil {
		t.Fatalf("Failed to get report: %v", err)
	}
	if retrieved.Status != domain.ReportStatusApproved {
		t.Errorf("Expected approved, got %s", retrieved.Status)
	}
	if retrieved.AwardedPoints != 10 || retrieved.ReviewedBy != 7 {
		t.Errorf("Unexpected review fields: %+v", retrieved)
	}
	if retrieved.ReviewedAt == nil {
		t.Error("Expected ReviewedAt to be set")
	}

	// Second review of the same report must fail
	err = repo.ReviewReport(ctx, reportID, domain.ReportStatusRejected, 7, 0, "")
	if !errors.Is(err, domain.ErrReportNotPending) {
		t.Errorf("Expected ErrReportNotPending, got %v", err)
	}
}

func TestGetPendingReportsOrder(t *testing.T) {
	queue := newTestQueue(t)
	repo := NewReportRepository(queue)
	ctx := context.Background()

	base := time.Now().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		report := makeReport(int64(100+i), domain.BetResultWin, "14:30")
		report.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if _, err := repo.CreateReport(ctx, report); err != nil {
			t.Fatalf("Failed to create report %d: %v", i, err)
		}
	}

	// Approve the middle one so it drops off the pending list
	pending, err := repo.GetPendingReports(ctx)
	if err != nil {
		t.Fatalf("Failed to get pending reports: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("Expected 3 pending reports, got %d", len(pending))
	}
	if err := repo.ReviewReport(ctx, pending[1].ID, domain.ReportStatusApproved, 1, 5, ""); err != nil {
		t.Fatalf("Failed to approve report: %v", err)
	}

	pending, err = repo.GetPendingReports(ctx)
	if err != nil {
		t.Fatalf("Failed to get pending reports: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("Expected 2 pending reports, got %d", len(pending))
	}
	if !pending[0].CreatedAt.Before(pending[1].CreatedAt) {
		t.Error("Expected pending reports ordered oldest first")
	}
}

func TestCountUserReports(t *testing.T) {
	queue := newTestQueue(t)
	repo := NewReportRepository(queue)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 4; i++ {
		id, err := repo.CreateReport(ctx, makeReport(100, domain.BetResultLoss, "10:00"))
		if err != nil {
			t.Fatalf("Failed to create report: %v", err)
		}
		ids = append(ids, id)
	}
	for _, id := range ids[:3] {
		if err := repo.ReviewReport(ctx, id, domain.ReportStatusApproved, 1, 5, ""); err != nil {
			t.Fatalf("Failed to approve report: %v", err)
		}
	}

	total, approved, err := repo.CountUserReports(ctx, 100)
	if err != nil {
		t.Fatalf("Failed to count reports: %v", err)
	}
	if total != 4 || approved != 3 {
		t.Errorf("Expected 4 total / 3 approved, got %d / %d", total, approved)
	}
}

func TestGetGameStats(t *testing.T) {
	queue := newTestQueue(t)
	repo := NewReportRepository(queue)
	ctx := context.Background()

	cases := []struct {
		result domain.BetResult
		value  string
	}{
		{domain.BetResultWin, "R$ 10,00"},
		{domain.BetResultWin, "R$ 20,00"},
		{domain.BetResultLoss, "R$ 30,00"},
	}
	for i, c := range cases {
		report := makeReport(int64(100+i), c.result, "14:30")
		report.BetValue = c.value
		id, err := repo.CreateReport(ctx, report)
		if err != nil {
			t.Fatalf("Failed to create report: %v", err)
		}
		if err := repo.ReviewReport(ctx, id, domain.ReportStatusApproved, 1, 5, ""); err != nil {
			t.Fatalf("Failed to approve report: %v", err)
		}
	}

	// A pending report must not count
	if _, err := repo.CreateReport(ctx, makeReport(200, domain.BetResultWin, "14:30")); err != nil {
		t.Fatalf("Failed to create pending report: %v", err)
	}

	stats, err := repo.GetGameStats(ctx, "pop678", "fortune_tiger")
	if err != nil {
		t.Fatalf("Failed to get game stats: %v", err)
	}
	if stats.TotalBets != 3 || stats.TotalWins != 2 || stats.TotalLosses != 1 {
		t.Errorf("Unexpected counts: %+v", stats)
	}
	if want := 2.0 / 3.0 * 100; stats.WinRate < want-0.01 || stats.WinRate > want+0.01 {
		t.Errorf("Expected win rate ~%.2f, got %.2f", want, stats.WinRate)
	}
	if stats.AvgBetValue != 20 {
		t.Errorf("Expected avg bet value 20, got %f", stats.AvgBetValue)
	}
}

func TestGetHourlyStats(t *testing.T) {
	queue := newTestQueue(t)
	repo := NewReportRepository(queue)
	ctx := context.Background()

	entries := []struct {
		result domain.BetResult
		tm     string
	}{
		{domain.BetResultWin, "09:15"},
		{domain.BetResultWin, "09:45"},
		{domain.BetResultLoss, "21:00"},
	}
	for i, e := range entries {
		id, err := repo.CreateReport(ctx, makeReport(int64(100+i), e.result, e.tm))
		if err != nil {
			t.Fatalf("Failed to create report: %v", err)
		}
		if err := repo.ReviewReport(ctx, id, domain.ReportStatusApproved, 1, 5, ""); err != nil {
			t.Fatalf("Failed to approve report: %v", err)
		}
	}

	stats, err := repo.GetHourlyStats(ctx, "pop678", "fortune_tiger")
	if err != nil {
		t.Fatalf("Failed to get hourly stats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Expected 2 hour buckets, got %d", len(stats))
	}
	if stats[0].Hour != 9 || stats[0].TotalBets != 2 || stats[0].Wins != 2 || stats[0].WinRate != 100 {
		t.Errorf("Unexpected 09h bucket: %+v", stats[0])
	}
	if stats[1].Hour != 21 || stats[1].TotalBets != 1 || stats[1].Wins != 0 {
		t.Errorf("Unexpected 21h bucket: %+v", stats[1])
	}
}

func TestGetUserReportsLimit(t *testing.T) {
	queue := newTestQueue(t)
	repo := NewReportRepository(queue)
	ctx := context.Background()

	base := time.Now().Truncate(time.Second)
	for i := 0; i < 7; i++ {
		report := makeReport(100, domain.BetResultWin, "14:30")
		report.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		report.AdditionalInfo = fmt.Sprintf("report %d", i)
		if _, err := repo.CreateReport(ctx, report); err != nil {
			t.Fatalf("Failed to create report: %v", err)
		}
	}

	reports, err := repo.GetUserReports(ctx, 100, 5)
	if err != nil {
		t.Fatalf("Failed to get user reports: %v", err)
	}
	if len(reports) != 5 {
		t.Fatalf("Expected 5 reports, got %d", len(reports))
	}
	if reports[0].AdditionalInfo != "report 6" {
		t.Errorf("Expected newest first, got %q", reports[0].AdditionalInfo)
	}
}

func TestParseBetValue(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"R$ 5,00", 5, true},
		{"R$ 0,50", 0.5, true},
		{"R$ 123,45", 123.45, true},
		{"garbage", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := parseBetValue(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("parseBetValue(%q) = %f, %v; want %f, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}
