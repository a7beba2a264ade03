package domain

import (
	"context"
	"sort"
	"time"
)

// UserService owns registration and points lookups
type UserService struct {
	users  UserRepository
	coder  *AffiliateCoder
	logger Logger
}

// NewUserService creates a new UserService
func NewUserService(users UserRepository, coder *AffiliateCoder, logger Logger) *UserService {
	return &UserService{users: users, coder: coder, logger: logger}
}

// Register upserts a user on first contact (/start). Existing users keep
// their points and affiliate code; profile fields are refreshed. referredBy
// is passed on every call but only the first contact records it: the upsert's
// conflict branch leaves referred_by untouched, so later /start deep links
// cannot rewrite who referred the user.
func (s *UserService) Register(ctx context.Context, telegramID int64, username, firstName, lastName string, referredBy int64) (*User, error) {
	code, err := s.coder.Code(telegramID)
	if err != nil {
		s.logger.Error("failed to derive affiliate code", "telegram_id", telegramID, "error", err)
		return nil, err
	}

	user := &User{
		TelegramID:      telegramID,
		Username:        username,
		FirstName:       firstName,
		LastName:        lastName,
		AffiliateCode:   code,
		ReferredBy:      referredBy,
		CreatedAt:       time.Now(),
		LastInteraction: time.Now(),
	}

	if err := s.users.RegisterUser(ctx, user); err != nil {
		s.logger.Error("failed to register user", "telegram_id", telegramID, "error", err)
		return nil, err
	}

	s.logger.Info("user registered", "telegram_id", telegramID, "username", username)
	return s.users.GetUserByTelegramID(ctx, telegramID)
}

// ResolveReferral maps an affiliate code from a /start deep link to the
// referrer's Telegram ID. Unknown codes resolve to 0.
func (s *UserService) ResolveReferral(code string) int64 {
	if code == "" {
		return 0
	}
	id, err := s.coder.Resolve(code)
	if err != nil {
		s.logger.Debug("unrecognized referral code", "code", code)
		return 0
	}
	return id
}

// TouchInteraction records user activity for the "active users" broadcast
// target.
func (s *UserService) TouchInteraction(ctx context.Context, telegramID int64) {
	if err := s.users.UpdateLastInteraction(ctx, telegramID, time.Now()); err != nil {
		s.logger.Debug("failed to update last interaction", "telegram_id", telegramID, "error", err)
	}
}

// GetUser loads a user by Telegram ID.
func (s *UserService) GetUser(ctx context.Context, telegramID int64) (*User, error) {
	return s.users.GetUserByTelegramID(ctx, telegramID)
}

// GetPoints returns the points breakdown for /pontos.
func (s *UserService) GetPoints(ctx context.Context, telegramID int64) (*PointsSummary, error) {
	return s.users.GetPointsSummary(ctx, telegramID)
}

// All lists every registered user for the admin dashboard.
func (s *UserService) All(ctx context.Context) ([]*User, error) {
	return s.users.GetAllUsers(ctx)
}

// Top returns up to limit users ordered by points for the ranking view.
func (s *UserService) Top(ctx context.Context, limit int) ([]*User, error) {
	users, err := s.users.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(users, func(i, j int) bool {
		return users[i].Points > users[j].Points
	})

	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}
