package session

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestProperty_NavigationStackReversesPushOrder(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	properties.Property("popping returns pushed menus in reverse order, then main", prop.ForAll(
		func(menus []string) bool {
			s := &Session{}

			for _, m := range menus {
				s.PushMenu(m)
			}

			for i := len(menus) - 1; i >= 0; i-- {
				if got := s.PopMenu(); got != menus[i] {
					t.Logf("pop %d: expected %q, got %q", i, menus[i], got)
					return false
				}
			}

			// One extra pop on the now-empty stack yields the default
			return s.PopMenu() == MainMenu
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.TestingRun(t)
}

func TestPopEmptyStackReturnsMain(t *testing.T) {
	s := &Session{}
	for i := 0; i < 3; i++ {
		if got := s.PopMenu(); got != MainMenu {
			t.Fatalf("pop %d on empty stack: expected %q, got %q", i, MainMenu, got)
		}
	}
}

func TestClearMenus(t *testing.T) {
	s := &Session{}
	s.PushMenu("analyses")
	s.PushMenu("report")
	s.ClearMenus()

	if got := s.PopMenu(); got != MainMenu {
		t.Errorf("expected %q after clear, got %q", MainMenu, got)
	}
}

func TestBeginReportInitializesDraft(t *testing.T) {
	s := &Session{}
	now := time.Now()

	// Leftover analysis state from a previous flow must become inert
	s.BeginAnalysis(AnalysisGroup, now)
	s.Analysis.Platform = "pop678"

	s.BeginReport("popbra", "pgsoft", "fortune_tiger", now)

	if !s.HasActiveConversation() {
		t.Fatal("expected active conversation after BeginReport")
	}
	if s.Conversation.Flow != FlowReport {
		t.Errorf("expected flow %q, got %q", FlowReport, s.Conversation.Flow)
	}
	if s.Conversation.ReportStep != ReportStepBetValue {
		t.Errorf("expected first step %q, got %q", ReportStepBetValue, s.Conversation.ReportStep)
	}
	if s.Report.Photos == nil || len(s.Report.Photos) != 0 {
		t.Errorf("photo list must be initialized empty, got %#v", s.Report.Photos)
	}
	if s.Analysis.Step != "" || s.Analysis.Platform != "" {
		t.Errorf("analysis draft must be cleared when a report starts, got %#v", s.Analysis)
	}
}

func TestBeginAnalysisFixesCost(t *testing.T) {
	now := time.Now()

	s := &Session{}
	s.BeginAnalysis(AnalysisIndividual, now)
	if s.Analysis.Cost != IndividualAnalysisCost {
		t.Errorf("individual cost: expected %d, got %d", IndividualAnalysisCost, s.Analysis.Cost)
	}
	if s.Conversation.Flow != FlowAnalysisIndividual {
		t.Errorf("expected flow %q, got %q", FlowAnalysisIndividual, s.Conversation.Flow)
	}

	s.BeginAnalysis(AnalysisGroup, now)
	if s.Analysis.Cost != GroupAnalysisCost {
		t.Errorf("group cost: expected %d, got %d", GroupAnalysisCost, s.Analysis.Cost)
	}
	if s.Conversation.Flow != FlowAnalysisGroup {
		t.Errorf("expected flow %q, got %q", FlowAnalysisGroup, s.Conversation.Flow)
	}
}

func TestResetFlowsClearsEverything(t *testing.T) {
	s := &Session{}
	s.BeginReport("pop678", "pgsoft", "fortune_tiger", time.Now())
	s.Report.BetValue = "R$ 1,00"
	s.Report.Photos = append(s.Report.Photos, Photo{FileID: "f1"})

	s.ResetFlows()

	if s.HasActiveConversation() {
		t.Error("conversation must be nil after reset")
	}
	if s.Report.BetValue != "" || len(s.Report.Photos) != 0 {
		t.Errorf("report draft must be empty after reset, got %#v", s.Report)
	}
}

func TestStoreCreatesSessionOnFirstContact(t *testing.T) {
	st := NewStore()

	var userID int64
	st.With(42, func(s *Session) {
		userID = s.UserID
		if s.HasActiveConversation() {
			t.Error("new session must have no active conversation")
		}
	})

	if userID != 42 {
		t.Errorf("expected session keyed by user 42, got %d", userID)
	}
	if st.Len() != 1 {
		t.Errorf("expected 1 session, got %d", st.Len())
	}

	// Second contact reuses the same session
	st.With(42, func(s *Session) {
		s.PushMenu("analyses")
	})
	st.With(42, func(s *Session) {
		if got := s.PopMenu(); got != "analyses" {
			t.Errorf("expected persisted stack entry, got %q", got)
		}
	})
	if st.Len() != 1 {
		t.Errorf("expected 1 session after repeat contact, got %d", st.Len())
	}
}

func TestSweepEvictsOnlyStaleConversations(t *testing.T) {
	st := NewStore()
	now := time.Now()
	st.clock = func() time.Time { return now }

	// Stale conversation
	st.With(1, func(s *Session) {
		s.BeginReport("pop678", "pgsoft", "fortune_tiger", now.Add(-45*time.Minute))
	})
	// Fresh conversation
	st.With(2, func(s *Session) {
		s.BeginReport("popbra", "pp", "sweet_bonanza", now.Add(-5*time.Minute))
	})
	// No conversation at all
	st.With(3, func(s *Session) {})

	evicted := st.SweepInactive(30 * time.Minute)
	if evicted != 1 {
		t.Fatalf("expected 1 eviction, got %d", evicted)
	}

	st.With(1, func(s *Session) {
		if s.HasActiveConversation() {
			t.Error("stale conversation must be cleared")
		}
		if s.Report.Platform != "" {
			t.Error("stale report draft must be cleared")
		}
	})
	st.With(2, func(s *Session) {
		if !s.HasActiveConversation() {
			t.Error("fresh conversation must be untouched")
		}
	})
	if st.Len() != 3 {
		t.Errorf("sweep must not drop sessions, got %d", st.Len())
	}
}

func TestTouchKeepsConversationAlive(t *testing.T) {
	st := NewStore()
	now := time.Now()
	st.clock = func() time.Time { return now }

	st.With(7, func(s *Session) {
		s.BeginReport("pop678", "pgsoft", "fortune_tiger", now.Add(-45*time.Minute))
		s.Touch(now)
	})

	if evicted := st.SweepInactive(30 * time.Minute); evicted != 0 {
		t.Fatalf("touched conversation must survive the sweep, evicted %d", evicted)
	}
}
