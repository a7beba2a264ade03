package domain

import (
	"errors"
	"time"
)

// Validation and lookup errors
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserBanned          = errors.New("user is banned")
	ErrReportNotFound      = errors.New("report not found")
	ErrInvalidTelegramID   = errors.New("telegram ID must be set")
	ErrEmptyPlatform       = errors.New("platform cannot be empty")
	ErrEmptyProvider       = errors.New("provider cannot be empty")
	ErrEmptyGame           = errors.New("game cannot be empty")
	ErrEmptyBetValue       = errors.New("bet value cannot be empty")
	ErrEmptyBetTime        = errors.New("bet time cannot be empty")
	ErrInvalidBetResult    = errors.New("result must be win or loss")
	ErrTooManyPhotos       = errors.New("a report can carry at most 4 photos")
	ErrReportNotPending    = errors.New("report is not pending review")
	ErrInsufficientPoints  = errors.New("insufficient points")
	ErrInvalidAnalysisType = errors.New("analysis type must be individual or group")
	ErrEmptyBroadcast      = errors.New("broadcast title and message cannot be empty")
)

// MaxReportAwardPoints caps how many BetPoints a single approved report can
// earn.
const MaxReportAwardPoints = 20

// MaxReportPhotos caps proof photos per report.
const MaxReportPhotos = 4

// ReportStatus tracks a report through admin review
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusApproved ReportStatus = "approved"
	ReportStatusRejected ReportStatus = "rejected"
)

// BetResult is the user-declared outcome of a bet
type BetResult string

const (
	BetResultWin  BetResult = "win"
	BetResultLoss BetResult = "loss"
)

// AnalysisType distinguishes individual purchases from group ones
type AnalysisType string

const (
	AnalysisTypeIndividual AnalysisType = "individual"
	AnalysisTypeGroup      AnalysisType = "group"
)

// User is a registered bot user
type User struct {
	ID              int64
	TelegramID      int64
	Username        string
	FirstName       string
	LastName        string
	Points          float64
	AffiliateCode   string
	ReferredBy      int64
	IsBanned        bool
	CreatedAt       time.Time
	LastInteraction time.Time
}

// ReportPhoto is proof-photo metadata attached to a report
type ReportPhoto struct {
	ID           int64
	ReportID     int64
	FileID       string
	FileUniqueID string
	FileSize     int64
	Width        int
	Height       int
	UploadedAt   time.Time
}

// Report is one betting-activity report awaiting or past review
type Report struct {
	ID             int64
	TelegramID     int64
	Platform       string
	Provider       string
	Game           string
	BetValue       string // display form, "R$ X,XX"
	Result         BetResult
	BetTime        string // normalized "HH:MM"
	AdditionalInfo string
	Photos         []ReportPhoto
	Status         ReportStatus
	AwardedPoints  float64
	ReviewedBy     int64
	ReviewNotes    string
	ReviewedAt     *time.Time
	CreatedAt      time.Time
}

// Validate checks a report before submission
func (r *Report) Validate() error {
	if r.TelegramID == 0 {
		return ErrInvalidTelegramID
	}
	if r.Platform == "" {
		return ErrEmptyPlatform
	}
	if r.Provider == "" {
		return ErrEmptyProvider
	}
	if r.Game == "" {
		return ErrEmptyGame
	}
	if r.BetValue == "" {
		return ErrEmptyBetValue
	}
	if r.BetTime == "" {
		return ErrEmptyBetTime
	}
	if r.Result != BetResultWin && r.Result != BetResultLoss {
		return ErrInvalidBetResult
	}
	if len(r.Photos) > MaxReportPhotos {
		return ErrTooManyPhotos
	}
	return nil
}

// Analysis is one purchased statistical summary
type Analysis struct {
	ID         int64
	TelegramID int64
	Type       AnalysisType
	Platform   string
	Provider   string
	Game       string
	Cost       float64
	Content    string
	CreatedAt  time.Time
}

// Validate checks an analysis before purchase
func (a *Analysis) Validate() error {
	if a.TelegramID == 0 {
		return ErrInvalidTelegramID
	}
	if a.Type != AnalysisTypeIndividual && a.Type != AnalysisTypeGroup {
		return ErrInvalidAnalysisType
	}
	if a.Platform == "" {
		return ErrEmptyPlatform
	}
	if a.Game == "" {
		return ErrEmptyGame
	}
	return nil
}

// PointsSummary is the points breakdown shown by /pontos and the admin API
type PointsSummary struct {
	Points        float64 `json:"points"`
	ReportsPoints float64 `json:"reports_points"`
	SpentPoints   float64 `json:"spent_points"`
	BonusPoints   float64 `json:"bonus_points"`
}

// HistoryStats aggregates a user's reporting track record
type HistoryStats struct {
	TotalReports    int     `json:"total_reports"`
	ApprovedReports int     `json:"approved_reports"`
	ApprovalRate    float64 `json:"approval_rate"`
	TotalSpent      float64 `json:"total_spent"`
}

// History is the /historico payload
type History struct {
	Reports  []*Report   `json:"reports"`
	Analyses []*Analysis `json:"analyses"`
	Stats    HistoryStats `json:"stats"`
}

// GameStats are the aggregate figures behind an analysis
type GameStats struct {
	TotalBets   int
	TotalWins   int
	TotalLosses int
	WinRate     float64
	AvgBetValue float64
}

// HourStats is per-hour performance derived from approved reports' bet times
type HourStats struct {
	Hour      int
	TotalBets int
	Wins      int
	WinRate   float64
}

// SystemSetting is one key/value pair managed from the dashboard
type SystemSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BroadcastStatus tracks a broadcast from creation to delivery
type BroadcastStatus string

const (
	BroadcastStatusPending BroadcastStatus = "pending"
	BroadcastStatusSent    BroadcastStatus = "sent"
)

// Broadcast is an admin message queued for delivery to users
type Broadcast struct {
	ID             int64
	Title          string
	Message        string
	TargetUsers    string // "all" or "active"
	Status         BroadcastStatus
	CreatedBy      int64
	RecipientCount int
	CreatedAt      time.Time
	SentAt         *time.Time
}

// Validate checks a broadcast before queuing
func (b *Broadcast) Validate() error {
	if b.Title == "" || b.Message == "" {
		return ErrEmptyBroadcast
	}
	return nil
}
