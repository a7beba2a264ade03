package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// BotInterface defines the bot operations needed to deliver broadcasts
type BotInterface interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// activeWindow selects recipients for "active"-targeted broadcasts.
const activeWindow = 30 * 24 * time.Hour

// BroadcastService queues admin broadcasts and delivers them to users.
type BroadcastService struct {
	broadcasts BroadcastRepository
	users      UserRepository
	bot        BotInterface
	events     EventPublisher
	logger     Logger
}

// NewBroadcastService creates a new BroadcastService
func NewBroadcastService(broadcasts BroadcastRepository, users UserRepository, b BotInterface, events EventPublisher, logger Logger) *BroadcastService {
	if events == nil {
		events = NopPublisher{}
	}
	return &BroadcastService{
		broadcasts: broadcasts,
		users:      users,
		bot:        b,
		events:     events,
		logger:     logger,
	}
}

// Create queues a broadcast for the next dispatch cycle.
func (s *BroadcastService) Create(ctx context.Context, broadcast *Broadcast) (*Broadcast, error) {
	if err := broadcast.Validate(); err != nil {
		return nil, err
	}
	if broadcast.TargetUsers == "" {
		broadcast.TargetUsers = "all"
	}
	broadcast.Status = BroadcastStatusPending
	broadcast.CreatedAt = time.Now()

	id, err := s.broadcasts.CreateBroadcast(ctx, broadcast)
	if err != nil {
		s.logger.Error("failed to create broadcast", "error", err)
		return nil, err
	}
	broadcast.ID = id

	s.logger.Info("broadcast queued", "broadcast_id", id, "target", broadcast.TargetUsers)
	s.events.Publish("broadcast_created", broadcast)

	return broadcast, nil
}

// GetPending lists broadcasts not yet dispatched.
func (s *BroadcastService) GetPending(ctx context.Context) ([]*Broadcast, error) {
	return s.broadcasts.GetPendingBroadcasts(ctx)
}

// DispatchPending delivers all queued broadcasts. Per-user send failures are
// logged and skipped; a broadcast is marked sent with the count actually
// delivered.
func (s *BroadcastService) DispatchPending(ctx context.Context) error {
	pending, err := s.broadcasts.GetPendingBroadcasts(ctx)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	users, err := s.users.GetAllUsers(ctx)
	if err != nil {
		return err
	}

	for _, broadcast := range pending {
		recipients := 0
		for _, user := range users {
			if !s.isRecipient(user, broadcast.TargetUsers) {
				continue
			}

			text := fmt.Sprintf("📢 *%s*\n\n%s", broadcast.Title, broadcast.Message)
			_, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
				ChatID:    user.TelegramID,
				Text:      text,
				ParseMode: models.ParseModeMarkdown,
			})
			if err != nil {
				s.logger.Warn("failed to deliver broadcast", "broadcast_id", broadcast.ID, "telegram_id", user.TelegramID, "error", err)
				continue
			}
			recipients++
		}

		if err := s.broadcasts.MarkBroadcastSent(ctx, broadcast.ID, recipients); err != nil {
			s.logger.Error("failed to mark broadcast sent", "broadcast_id", broadcast.ID, "error", err)
			return err
		}

		s.logger.Info("broadcast delivered", "broadcast_id", broadcast.ID, "recipients", recipients)
	}

	return nil
}

func (s *BroadcastService) isRecipient(user *User, target string) bool {
	if user.IsBanned {
		return false
	}
	if target == "active" {
		return time.Since(user.LastInteraction) <= activeWindow
	}
	return true
}

// StartDispatcher polls for queued broadcasts until ctx is cancelled.
func (s *BroadcastService) StartDispatcher(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := s.DispatchPending(ctx); err != nil {
					s.logger.Error("broadcast dispatch failed", "error", err)
				}
			case <-ctx.Done():
				s.logger.Debug("broadcast dispatcher stopped")
				return
			}
		}
	}()
}
