package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rewardtracker/bot/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Server is the admin REST and WebSocket backend.
type Server struct {
	users      *domain.UserService
	reports    *domain.ReportService
	broadcasts *domain.BroadcastService
	settings   domain.SettingsRepository
	hub        *Hub
	notifier   domain.BotInterface // nil when running without the bot
	logger     domain.Logger
}

// NewServer creates the admin API server. notifier may be nil; review
// notifications to report authors are skipped in that case.
func NewServer(
	users *domain.UserService,
	reports *domain.ReportService,
	broadcasts *domain.BroadcastService,
	settings domain.SettingsRepository,
	hub *Hub,
	notifier domain.BotInterface,
	logger domain.Logger,
) *Server {
	return &Server{
		users:      users,
		reports:    reports,
		broadcasts: broadcasts,
		settings:   settings,
		hub:        hub,
		notifier:   notifier,
		logger:     logger,
	}
}

// Routes builds the router for the admin backend.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/users/register", s.registerUser)
		r.Get("/users", s.listUsers)
		r.Get("/users/{telegramID}/points", s.userPoints)
		r.Get("/users/{telegramID}/history", s.userHistory)

		r.Post("/report-bet", s.submitReport)
		r.Get("/reports/pending", s.pendingReports)
		r.Post("/reports/{id}/approve", s.approveReport)
		r.Post("/reports/{id}/reject", s.rejectReport)

		r.Get("/system-settings", s.getSettings)
		r.Put("/system-settings", s.putSetting)

		r.Post("/broadcasts", s.createBroadcast)
		r.Get("/broadcasts/pending", s.pendingBroadcasts)
	})

	r.Get("/ws", s.hub.ServeWS)

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request handled",
			"method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "duration", time.Since(start))
	})
}

// --- users ---

type registerUserRequest struct {
	TelegramID int64  `json:"telegram_id"`
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	ReferredBy int64  `json:"referred_by"`
}

type userResponse struct {
	ID              int64     `json:"id"`
	TelegramID      int64     `json:"telegram_id"`
	Username        string    `json:"username"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Points          float64   `json:"points"`
	AffiliateCode   string    `json:"affiliate_code"`
	ReferredBy      int64     `json:"referred_by"`
	IsBanned        bool      `json:"is_banned"`
	CreatedAt       time.Time `json:"created_at"`
	LastInteraction time.Time `json:"last_interaction"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:              u.ID,
		TelegramID:      u.TelegramID,
		Username:        u.Username,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Points:          u.Points,
		AffiliateCode:   u.AffiliateCode,
		ReferredBy:      u.ReferredBy,
		IsBanned:        u.IsBanned,
		CreatedAt:       u.CreatedAt,
		LastInteraction: u.LastInteraction,
	}
}

func (s *Server) registerUser(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if req.TelegramID == 0 {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "telegram_id is required")
		return
	}

	user, err := s.users.Register(r.Context(), req.TelegramID, req.Username, req.FirstName, req.LastName, req.ReferredBy)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "register_failed", err.Error())
		return
	}

	s.writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.All(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "list_failed", err.Error())
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) userPoints(w http.ResponseWriter, r *http.Request) {
	telegramID, ok := s.pathID(w, r, "telegramID")
	if !ok {
		return
	}

	summary, err := s.users.GetPoints(r.Context(), telegramID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "points_failed", err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) userHistory(w http.ResponseWriter, r *http.Request) {
	telegramID, ok := s.pathID(w, r, "telegramID")
	if !ok {
		return
	}

	history, err := s.reports.GetUserHistory(r.Context(), telegramID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "history_failed", err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, history)
}

// --- reports ---

type submitReportRequest struct {
	TelegramID     int64  `json:"telegram_id"`
	Platform       string `json:"platform"`
	Provider       string `json:"provider"`
	Game           string `json:"game"`
	BetValue       string `json:"bet_value"`
	Result         string `json:"result"`
	BetTime        string `json:"bet_time"`
	AdditionalInfo string `json:"additional_info"`
	Photos         []struct {
		FileID       string `json:"file_id"`
		FileUniqueID string `json:"file_unique_id"`
		FileSize     int64  `json:"file_size"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
	} `json:"photos"`
}

type reportResponse struct {
	ID             int64      `json:"id"`
	TelegramID     int64      `json:"telegram_id"`
	Platform       string     `json:"platform"`
	Provider       string     `json:"provider"`
	Game           string     `json:"game"`
	BetValue       string     `json:"bet_value"`
	Result         string     `json:"result"`
	BetTime        string     `json:"bet_time"`
	AdditionalInfo string     `json:"additional_info"`
	PhotoCount     int        `json:"photo_count"`
	Status         string     `json:"status"`
	AwardedPoints  float64    `json:"awarded_points"`
	ReviewedBy     int64      `json:"reviewed_by,omitempty"`
	ReviewNotes    string     `json:"review_notes,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func toReportResponse(r *domain.Report) reportResponse {
	return reportResponse{
		ID:             r.ID,
		TelegramID:     r.TelegramID,
		Platform:       r.Platform,
		Provider:       r.Provider,
		Game:           r.Game,
		BetValue:       r.BetValue,
		Result:         string(r.Result),
		BetTime:        r.BetTime,
		AdditionalInfo: r.AdditionalInfo,
		PhotoCount:     len(r.Photos),
		Status:         string(r.Status),
		AwardedPoints:  r.AwardedPoints,
		ReviewedBy:     r.ReviewedBy,
		ReviewNotes:    r.ReviewNotes,
		ReviewedAt:     r.ReviewedAt,
		CreatedAt:      r.CreatedAt,
	}
}

func (s *Server) submitReport(w http.ResponseWriter, r *http.Request) {
	var req submitReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	report := &domain.Report{
		TelegramID:     req.TelegramID,
		Platform:       req.Platform,
		Provider:       req.Provider,
		Game:           req.Game,
		BetValue:       req.BetValue,
		Result:         domain.BetResult(req.Result),
		BetTime:        req.BetTime,
		AdditionalInfo: req.AdditionalInfo,
	}
	for _, p := range req.Photos {
		report.Photos = append(report.Photos, domain.ReportPhoto{
			FileID:       p.FileID,
			FileUniqueID: p.FileUniqueID,
			FileSize:     p.FileSize,
			Width:        p.Width,
			Height:       p.Height,
			UploadedAt:   time.Now(),
		})
	}

	submitted, err := s.reports.SubmitReport(r.Context(), report)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "submit_failed", err.Error())
		return
	}

	s.writeJSON(w, http.StatusCreated, toReportResponse(submitted))
}

func (s *Server) pendingReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.reports.GetPendingReports(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "list_failed", err.Error())
		return
	}

	out := make([]reportResponse, 0, len(reports))
	for _, rep := range reports {
		out = append(out, toReportResponse(rep))
	}
	s.writeJSON(w, http.StatusOK, out)
}

type reviewRequest struct {
	AdminID int64   `json:"admin_id"`
	Points  float64 `json:"points"`
	Notes   string  `json:"notes"`
}

func (s *Server) approveReport(w http.ResponseWriter, r *http.Request) {
	reportID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	report, err := s.reports.ApproveReport(r.Context(), reportID, req.AdminID, req.Points, req.Notes)
	if err != nil {
		s.writeReviewError(w, err)
		return
	}

	s.notifyAuthor(r, report.TelegramID, fmt.Sprintf(
		"✅ *Report #%d aprovado!*\n\nVocê recebeu *%.0f BP*. Obrigado por contribuir!",
		report.ID, report.AwardedPoints))

	s.writeJSON(w, http.StatusOK, toReportResponse(report))
}

func (s *Server) rejectReport(w http.ResponseWriter, r *http.Request) {
	reportID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	report, err := s.reports.RejectReport(r.Context(), reportID, req.AdminID, req.Notes)
	if err != nil {
		s.writeReviewError(w, err)
		return
	}

	reason := ""
	if report.ReviewNotes != "" {
		reason = "\n\n📝 Motivo: " + report.ReviewNotes
	}
	s.notifyAuthor(r, report.TelegramID, fmt.Sprintf(
		"❌ *Report #%d não foi aprovado*%s\n\nVocê pode enviar um novo report a qualquer momento.",
		report.ID, reason))

	s.writeJSON(w, http.StatusOK, toReportResponse(report))
}

func (s *Server) writeReviewError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrReportNotFound):
		s.writeError(w, http.StatusNotFound, "not_found", "report not found")
	case errors.Is(err, domain.ErrReportNotPending):
		s.writeError(w, http.StatusConflict, "already_reviewed", "report already reviewed")
	default:
		s.writeError(w, http.StatusInternalServerError, "review_failed", err.Error())
	}
}

func (s *Server) notifyAuthor(r *http.Request, telegramID int64, text string) {
	if s.notifier == nil {
		return
	}
	_, err := s.notifier.SendMessage(r.Context(), &tgbot.SendMessageParams{
		ChatID:    telegramID,
		Text:      text,
		ParseMode: models.ParseModeMarkdown,
	})
	if err != nil {
		s.logger.Warn("review notification failed", "telegram_id", telegramID, "error", err)
	}
}

// --- settings ---

type settingRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settings.GetAllSettings(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "settings_failed", err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, settings)
}

func (s *Server) putSetting(w http.ResponseWriter, r *http.Request) {
	var req settingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if req.Key == "" {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "key is required")
		return
	}

	if err := s.settings.SetSetting(r.Context(), req.Key, req.Value); err != nil {
		s.writeError(w, http.StatusInternalServerError, "settings_failed", err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"key": req.Key, "value": req.Value})
}

// --- broadcasts ---

type broadcastRequest struct {
	Title       string `json:"title"`
	Message     string `json:"message"`
	TargetUsers string `json:"target_users"`
	CreatedBy   int64  `json:"created_by"`
}

type broadcastResponse struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Message        string     `json:"message"`
	TargetUsers    string     `json:"target_users"`
	Status         string     `json:"status"`
	CreatedBy      int64      `json:"created_by"`
	RecipientCount int        `json:"recipient_count"`
	CreatedAt      time.Time  `json:"created_at"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
}

func toBroadcastResponse(b *domain.Broadcast) broadcastResponse {
	return broadcastResponse{
		ID:             b.ID,
		Title:          b.Title,
		Message:        b.Message,
		TargetUsers:    b.TargetUsers,
		Status:         string(b.Status),
		CreatedBy:      b.CreatedBy,
		RecipientCount: b.RecipientCount,
		CreatedAt:      b.CreatedAt,
		SentAt:         b.SentAt,
	}
}

func (s *Server) createBroadcast(w http.ResponseWriter, r *http.Request) {
	var req broadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	broadcast, err := s.broadcasts.Create(r.Context(), &domain.Broadcast{
		Title:       req.Title,
		Message:     req.Message,
		TargetUsers: req.TargetUsers,
		CreatedBy:   req.CreatedBy,
	})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "create_failed", err.Error())
		return
	}

	s.writeJSON(w, http.StatusCreated, toBroadcastResponse(broadcast))
}

func (s *Server) pendingBroadcasts(w http.ResponseWriter, r *http.Request) {
	pending, err := s.broadcasts.GetPending(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "list_failed", err.Error())
		return
	}

	out := make([]broadcastResponse, 0, len(pending))
	for _, b := range pending {
		out = append(out, toBroadcastResponse(b))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// --- helpers ---

func (s *Server) pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id == 0 {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "invalid "+param)
		return 0, false
	}
	return id, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, map[string]string{"error": code, "message": message})
}
