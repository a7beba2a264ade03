package storage

import (
	"context"
	"testing"
	"time"

	"github.com/rewardtracker/bot/internal/domain"

	_ "modernc.org/sqlite"
)

func TestSettingsRoundTrip(t *testing.T) {
	queue := newTestQueue(t)
	repo := NewSettingsRepository(queue)
	ctx := context.Background()

	if err := repo.SetSetting(ctx, "welcome_message", "Bem-vindo!"); err != nil {
		t.Fatalf("Failed to set setting: %v", err)
	}

	value, err := repo.GetSetting(ctx, "welcome_message")
	if err != nil {
		t.Fatalf("Failed to get setting: %v", err)
	}
	if value != "Bem-vindo!" {
		t.Errorf("Expected Bem-vindo!, got %q", value)
	}

	// Overwrites replace the value
	if err := repo.SetSetting(ctx, "welcome_message", "Olá!"); err != nil {
		t.Fatalf("Failed to overwrite setting: %v", err)
	}
	value, _ = repo.GetSetting(ctx, "welcome_message")
	if value != "Olá!" {
		t.Errorf("Expected Olá!, got %q", value)
	}
}

func TestGetSettingUnknownKey(t *testing.T) {
	queue := newTestQueue(t)
	repo := NewSettingsRepository(queue)

	value, err := repo.GetSetting(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Expected no error for unknown key, got %v", err)
	}
	if value != "" {
		t.Errorf("Expected empty value, got %q", value)
	}
}

func TestGetAllSettingsOrdered(t *testing.T) {
	queue := newTestQueue(t)
	repo := NewSettingsRepository(queue)
	ctx := context.Background()

	for _, kv := range [][2]string{{"zeta", "1"}, {"alpha", "2"}, {"mid", "3"}} {
		if err := repo.SetSetting(ctx, kv[0], kv[1]); err != nil {
			t.Fatalf("Failed to set %s: %v", kv[0], err)
		}
	}

	settings, err := repo.GetAllSettings(ctx)
	if err != nil {
		t.Fatalf("Failed to get settings: %v", err)
	}
	if len(settings) != 3 {
		t.Fatalf("Expected 3 settings, got %d", len(settings))
	}
	if settings[0].Key != "alpha" || settings[1].Key != "mid" || settings[2].Key != "zeta" {
		t.Errorf("Settings out of order: %+v", settings)
	}
	for _, s := range settings {
		if s.UpdatedAt.IsZero() {
			t.Errorf("Expected UpdatedAt set for %s", s.Key)
		}
	}
}

func TestBroadcastQueue(t *testing.T) {
	queue := newTestQueue(t)
	repo := NewBroadcastRepository(queue)
	ctx := context.Background()

	broadcast := &domain.Broadcast{
		Title:       "Promoção",
		Message:     "Dobro de pontos hoje",
		TargetUsers: "all",
		Status:      domain.BroadcastStatusPending,
		CreatedBy:   7,
		CreatedAt:   time.Now().Truncate(time.Second),
	}
	id, err := repo.CreateBroadcast(ctx, broadcast)
	if err != nil {
		t.Fatalf("Failed to create broadcast: %v", err)
	}
	if id == 0 {
		t.Fatal("Expected non-zero broadcast ID")
	}

	pending, err := repo.GetPendingBroadcasts(ctx)
	if err != nil {
		t.Fatalf("Failed to get pending broadcasts: %v", err)
	}
	if len(pending) != 1 || pending[0].Title != "Promoção" {
		t.Fatalf("Unexpected pending broadcasts: %+v", pending)
	}

	if err := repo.MarkBroadcastSent(ctx, id, 42); err != nil {
		t.Fatalf("Failed to mark broadcast sent: %v", err)
	}

	pending, err = repo.GetPendingBroadcasts(ctx)
	if err != nil {
		t.Fatalf("Failed to get pending broadcasts: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("Expected queue drained, got %d", len(pending))
	}
}
