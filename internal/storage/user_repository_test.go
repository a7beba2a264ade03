package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/rewardtracker/bot/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	_ "modernc.org/sqlite"
)

func newTestQueue(t *testing.T) *DBQueue {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	queue := NewDBQueue(db)
	t.Cleanup(queue.Close)

	if err := InitSchema(queue); err != nil {
		t.Fatalf("Failed to initialize schema: %v", err)
	}

	return queue
}

func seedUser(t *testing.T, repo *UserRepository, telegramID int64, points float64) *domain.User {
	t.Helper()

	now := time.Now().Truncate(time.Second)
	user := &domain.User{
		TelegramID:      telegramID,
		Username:        "tester",
		FirstName:       "Test",
		Points:          points,
		AffiliateCode:   "BP2222",
		CreatedAt:       now,
		LastInteraction: now,
	}
	if err := repo.RegisterUser(context.Background(), user); err != nil {
		t.Fatalf("Failed to register user: %v", err)
	}
	return user
}

func TestRegisterUserUpsert(t *testing.T) {
	queue := newTestQueue(t)
	repo := NewUserRepository(queue)
	ctx := context.Background()

	user := seedUser(t, repo, 100, 50)
	if user.ID == 0 {
		t.Fatal("Expected ID to be set after registration")
	}

	// Re-registering updates the profile but keeps points and the row ID
	again := &domain.User{
		TelegramID:      100,
		Username:        "renamed",
		FirstName:       "Renamed",
		CreatedAt:       user.CreatedAt,
		LastInteraction: time.Now().Truncate(time.Second),
	}
	if err := repo.RegisterUser(ctx, again); err != nil {
		t.Fatalf("Failed to re-register user: %v", err)
	}
	if again.ID != user.ID {
		t.Errorf("Expected same ID %d, got %d", user.ID, again.ID)
	}

	stored, err := repo.GetUserByTelegramID(ctx, 100)
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}
	if stored.Username != "renamed" {
		t.Errorf("Expected username renamed, got %q", stored.Username)
	}
	if stored.Points != 50 {
		t.Errorf("Expected points preserved at 50, got %f", stored.Points)
	}
}

func TestRegisterUserUpsertResolvesIDByKey(t *testing.T) {
	queue := newTestQueue(t)
	repo := NewUserRepository(queue)
	ctx := context.Background()

	first := seedUser(t, repo, 100, 0)
	second := seedUser(t, repo, 200, 0)

	// Re-registering the first user after a later insert must still yield the
	// first row's id, not the connection's last inserted rowid.
	again := &domain.User{
		TelegramID:      100,
		Username:        "tester",
		FirstName:       "Test",
		CreatedAt:       first.CreatedAt,
		LastInteraction: time.Now().Truncate(time.Second),
	}
	if err := repo.RegisterUser(ctx, again); err != nil {
		t.Fatalf("Failed to re-register user: %v", err)
	}
	if again.ID != first.ID {
		t.Errorf("Expected ID %d, got %d", first.ID, again.ID)
	}
	if again.ID == second.ID {
		t.Errorf("Re-registration picked up another row's id %d", second.ID)
	}
}

func TestRegisterUserKeepsFirstReferral(t *testing.T) {
	queue := newTestQueue(t)
	repo := NewUserRepository(queue)
	ctx := context.Background()

	now := time.Now().Truncate(time.Second)
	user := &domain.User{
		TelegramID:      100,
		Username:        "tester",
		FirstName:       "Test",
		AffiliateCode:   "BP1111",
		ReferredBy:      555,
		CreatedAt:       now,
		LastInteraction: now,
	}
	if err := repo.RegisterUser(ctx, user); err != nil {
		t.Fatalf("Failed to register user: %v", err)
	}

	// A later /start with a different referral link must not rewrite who
	// referred the user.
	again := &domain.User{
		TelegramID:      100,
		Username:        "tester",
		FirstName:       "Test",
		AffiliateCode:   "BP1111",
		ReferredBy:      777,
		CreatedAt:       now,
		LastInteraction: time.Now().Truncate(time.Second),
	}
	if err := repo.RegisterUser(ctx, again); err != nil {
		t.Fatalf("Failed to re-register user: %v", err)
	}

	stored, err := repo.GetUserByTelegramID(ctx, 100)
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}
	if stored.ReferredBy != 555 {
		t.Errorf("Expected original referrer 555, got %d", stored.ReferredBy)
	}
}

func TestGetUserByTelegramIDNotFound(t *testing.T) {
	queue := newTestQueue(t)
	repo := NewUserRepository(queue)

	_, err := repo.GetUserByTelegramID(context.Background(), 999)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestAddPoints(t *testing.T) {
	queue := newTestQueue(t)
	repo := NewUserRepository(queue)
	ctx := context.Background()

	seedUser(t, repo, 100, 10)

	if err := repo.AddPoints(ctx, 100, 5); err != nil {
		t.Fatalf("Failed to add points: %v", err)
	}
	if err := repo.AddPoints(ctx, 100, -3); err != nil {
		t.Fatalf("Failed to deduct points: %v", err)
	}

	user, err := repo.GetUserByTelegramID(ctx, 100)
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}
	if user.Points != 12 {
		t.Errorf("Expected 12 points, got %f", user.Points)
	}

	if err := repo.AddPoints(ctx, 999, 5); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound for unknown user, got %v", err)
	}
}

func TestSetBanned(t *testing.T) {
	queue := newTestQueue(t)
	repo := NewUserRepository(queue)
	ctx := context.Background()

	seedUser(t, repo, 100, 0)

	if err := repo.SetBanned(ctx, 100, true); err != nil {
		t.Fatalf("Failed to ban user: %v", err)
	}

	user, err := repo.GetUserByTelegramID(ctx, 100)
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}
	if !user.IsBanned {
		t.Error("Expected user to be banned")
	}

	if err := repo.SetBanned(ctx, 100, false); err != nil {
		t.Fatalf("Failed to unban user: %v", err)
	}
	user, _ = repo.GetUserByTelegramID(ctx, 100)
	if user.IsBanned {
		t.Error("Expected user to be unbanned")
	}
}

func TestGetPointsSummary(t *testing.T) {
	queue := newTestQueue(t)
	users := NewUserRepository(queue)
	reports := NewReportRepository(queue)
	analyses := NewAnalysisRepository(queue)
	ctx := context.Background()

	seedUser(t, users, 100, 40)

	// One approved report worth 10 points, balance adjusted alongside
	report := &domain.Report{
		TelegramID: 100,
		Platform:   "pop678",
		Provider:   "pgsoft",
		Game:       "fortune_tiger",
		BetValue:   "R$ 5,00",
		Result:     domain.BetResultWin,
		BetTime:    "14:30",
		Status:     domain.ReportStatusPending,
		CreatedAt:  time.Now().Truncate(time.Second),
	}
	reportID, err := reports.CreateReport(ctx, report)
	if err != nil {
		t.Fatalf("Failed to create report: %v", err)
	}
	if err := reports.ReviewReport(ctx, reportID, domain.ReportStatusApproved, 1, 10, ""); err != nil {
		t.Fatalf("Failed to approve report: %v", err)
	}
	if err := users.AddPoints(ctx, 100, 10); err != nil {
		t.Fatalf("Failed to award points: %v", err)
	}

	// One purchase of 25 points
	analysis := &domain.Analysis{
		TelegramID: 100,
		Type:       domain.AnalysisTypeIndividual,
		Platform:   "pop678",
		Provider:   "pgsoft",
		Game:       "fortune_tiger",
		Cost:       25,
		Content:    "stats",
		CreatedAt:  time.Now().Truncate(time.Second),
	}
	if err := analyses.PurchaseAnalysis(ctx, analysis); err != nil {
		t.Fatalf("Failed to purchase analysis: %v", err)
	}

	summary, err := users.GetPointsSummary(ctx, 100)
	if err != nil {
		t.Fatalf("Failed to get summary: %v", err)
	}
	if summary.Points != 25 {
		t.Errorf("Expected balance 25, got %f", summary.Points)
	}
	if summary.ReportsPoints != 10 {
		t.Errorf("Expected 10 report points, got %f", summary.ReportsPoints)
	}
	if summary.SpentPoints != 25 {
		t.Errorf("Expected 25 spent points, got %f", summary.SpentPoints)
	}
	if summary.BonusPoints != 40 {
		t.Errorf("Expected 40 bonus points, got %f", summary.BonusPoints)
	}
}

func TestUserDataRoundTrip(t *testing.T) {
	queue := newTestQueue(t)
	repo := NewUserRepository(queue)

	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	properties.Property("user round-trip preserves all fields", prop.ForAll(
		func(telegramID int64, username string, points float64) bool {
			now := time.Now().Truncate(time.Second)
			user := &domain.User{
				TelegramID:      telegramID,
				Username:        username,
				FirstName:       "First",
				LastName:        "Last",
				Points:          points,
				AffiliateCode:   "BPTEST",
				CreatedAt:       now,
				LastInteraction: now,
			}

			ctx := context.Background()
			if err := repo.RegisterUser(ctx, user); err != nil {
				t.Logf("Failed to register user: %v", err)
				return false
			}

			retrieved, err := repo.GetUserByTelegramID(ctx, telegramID)
			if err != nil {
				t.Logf("Failed to get user: %v", err)
				return false
			}

			return retrieved.TelegramID == telegramID &&
				retrieved.Username == username &&
				retrieved.Points == points &&
				retrieved.AffiliateCode == "BPTEST"
		},
		gen.Int64Range(1, 1<<40),
		gen.AlphaString(),
		gen.Float64Range(0, 100000),
	))

	properties.TestingRun(t)
}
