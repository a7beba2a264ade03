package session

import (
	"time"
)

// Flow identifies which top-level flow owns the active conversation.
type Flow string

const (
	FlowNone               Flow = ""
	FlowReport             Flow = "report"
	FlowAnalysisIndividual Flow = "analysis_individual"
	FlowAnalysisGroup      Flow = "analysis_group"
)

// ReportStep is a position within the report conversation. Only the report
// flow has text-driven steps; the analysis flows are menu-driven.
type ReportStep string

const (
	ReportStepBetValue       ReportStep = "bet_value"
	ReportStepResult         ReportStep = "result"
	ReportStepBetTime        ReportStep = "bet_time"
	ReportStepWaitingPhotos  ReportStep = "waiting_photos"
	ReportStepAdditionalInfo ReportStep = "additional_info"
)

// AnalysisStep is a position within the menu-driven analysis purchase flow.
type AnalysisStep string

const (
	AnalysisStepPlatform AnalysisStep = "platform"
	AnalysisStepProvider AnalysisStep = "provider"
	AnalysisStepGame     AnalysisStep = "game"
	AnalysisStepConfirm  AnalysisStep = "confirm"
)

// AnalysisType distinguishes individual from group purchases.
type AnalysisType string

const (
	AnalysisIndividual AnalysisType = "individual"
	AnalysisGroup      AnalysisType = "group"
)

// Analysis purchase costs in BetPoints, fixed at flow start.
const (
	IndividualAnalysisCost = 25
	GroupAnalysisCost      = 500
)

// MaxReportPhotos caps proof photos per report.
const MaxReportPhotos = 4

// Conversation tracks an active multi-step flow for one user. It exists if
// and only if a flow is active; there is no separate registry of active
// conversations.
type Conversation struct {
	Flow         Flow
	ReportStep   ReportStep // meaningful only when Flow == FlowReport
	StartedAt    time.Time
	LastActivity time.Time
}

// Photo holds the metadata the Telegram gateway extracts for an uploaded
// proof photo. Raw image bytes never reach this process.
type Photo struct {
	FileID       string
	FileUniqueID string
	FileSize     int64
	Width        int
	Height       int
	UploadedAt   time.Time
}

// ReportDraft accumulates one in-progress bet report.
type ReportDraft struct {
	Platform       string
	Provider       string
	Game           string
	BetValue       string // display form, "R$ X,XX"
	Result         string // "win" or "loss"
	BetTime        string // normalized "HH:MM"
	Photos         []Photo
	AdditionalInfo string
}

// AnalysisDraft accumulates one in-progress analysis purchase.
type AnalysisDraft struct {
	Type     AnalysisType
	Cost     int
	Step     AnalysisStep
	Platform string
	Provider string
	Game     string
}

// Session is the per-user state bag: navigation stack, conversation state and
// in-progress flow drafts. All mutation happens under the store's per-user
// lock.
type Session struct {
	UserID        int64
	ChatID        int64
	NavStack      []string
	Conversation  *Conversation
	Report        ReportDraft
	Analysis      AnalysisDraft
	MenuMessageID int // last menu message, edited in place during navigation
	CreatedAt     time.Time
}

// HasActiveConversation reports whether a flow currently owns this session's
// conversation. This is the derived view used to gate text routing.
func (s *Session) HasActiveConversation() bool {
	return s.Conversation != nil
}

// Touch records activity on the active conversation, keeping it out of the
// inactivity sweep.
func (s *Session) Touch(now time.Time) {
	if s.Conversation != nil {
		s.Conversation.LastActivity = now
	}
}

// BeginReport starts the report conversation with menu-selected seed data.
// Both drafts are reset so at most one flow is ever active, and the photo
// list is initialized up front.
func (s *Session) BeginReport(platform, provider, game string, now time.Time) {
	s.ResetFlows()
	s.Report = ReportDraft{
		Platform: platform,
		Provider: provider,
		Game:     game,
		Photos:   make([]Photo, 0, MaxReportPhotos),
	}
	s.Conversation = &Conversation{
		Flow:         FlowReport,
		ReportStep:   ReportStepBetValue,
		StartedAt:    now,
		LastActivity: now,
	}
}

// BeginAnalysis starts an analysis purchase. The cost is fixed here and never
// recomputed mid-flow.
func (s *Session) BeginAnalysis(analysisType AnalysisType, now time.Time) {
	s.ResetFlows()

	flow := FlowAnalysisIndividual
	cost := IndividualAnalysisCost
	if analysisType == AnalysisGroup {
		flow = FlowAnalysisGroup
		cost = GroupAnalysisCost
	}

	s.Analysis = AnalysisDraft{
		Type: analysisType,
		Cost: cost,
		Step: AnalysisStepPlatform,
	}
	s.Conversation = &Conversation{
		Flow:         flow,
		StartedAt:    now,
		LastActivity: now,
	}
}

// ResetFlows returns the session to the "no active conversation" state,
// clearing the conversation and both drafts. The navigation stack is left
// alone; callers jumping to the main menu clear it separately.
func (s *Session) ResetFlows() {
	s.Conversation = nil
	s.Report = ReportDraft{}
	s.Analysis = AnalysisDraft{}
}
