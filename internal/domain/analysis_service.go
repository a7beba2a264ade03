package domain

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// minHourSample is how many approved reports an hour needs before it is
// ranked among best/worst hours.
const minHourSample = 2

// AnalysisService generates canned statistical summaries from approved
// reports and charges the purchase atomically.
type AnalysisService struct {
	analyses AnalysisRepository
	reports  ReportRepository
	users    UserRepository
	events   EventPublisher
	logger   Logger
}

// NewAnalysisService creates a new AnalysisService
func NewAnalysisService(analyses AnalysisRepository, reports ReportRepository, users UserRepository, events EventPublisher, logger Logger) *AnalysisService {
	if events == nil {
		events = NopPublisher{}
	}
	return &AnalysisService{
		analyses: analyses,
		reports:  reports,
		users:    users,
		events:   events,
		logger:   logger,
	}
}

// PurchaseRequest carries the menu-collected selection for one purchase. The
// cost was fixed when the flow started.
type PurchaseRequest struct {
	TelegramID int64
	Type       AnalysisType
	Platform   string
	Provider   string
	Game       string
	Cost       float64
}

// Purchase generates the analysis content and charges the user. When the
// balance is insufficient nothing is deducted and ErrInsufficientPoints is
// returned, so the caller can keep the draft for a retry.
func (s *AnalysisService) Purchase(ctx context.Context, req PurchaseRequest) (*Analysis, error) {
	analysis := &Analysis{
		TelegramID: req.TelegramID,
		Type:       req.Type,
		Platform:   req.Platform,
		Provider:   req.Provider,
		Game:       req.Game,
		Cost:       req.Cost,
		CreatedAt:  time.Now(),
	}
	if err := analysis.Validate(); err != nil {
		return nil, err
	}

	stats, err := s.reports.GetGameStats(ctx, req.Platform, req.Game)
	if err != nil {
		s.logger.Error("failed to load game stats", "platform", req.Platform, "game", req.Game, "error", err)
		return nil, err
	}

	hours, err := s.reports.GetHourlyStats(ctx, req.Platform, req.Game)
	if err != nil {
		s.logger.Error("failed to load hourly stats", "platform", req.Platform, "game", req.Game, "error", err)
		return nil, err
	}

	analysis.Content = s.formatAnalysis(req, stats, hours)

	if err := s.analyses.PurchaseAnalysis(ctx, analysis); err != nil {
		if err == ErrInsufficientPoints {
			s.logger.Info("purchase declined, insufficient points", "telegram_id", req.TelegramID, "cost", req.Cost)
		} else {
			s.logger.Error("failed to charge analysis", "telegram_id", req.TelegramID, "error", err)
		}
		return nil, err
	}

	s.logger.Info("analysis purchased", "analysis_id", analysis.ID, "telegram_id", req.TelegramID, "type", req.Type, "cost", req.Cost)
	s.events.Publish("analysis_purchased", analysis)

	return analysis, nil
}

// formatAnalysis renders the purchased summary. Display names are resolved by
// the caller before purchase; here the raw keys are shown as-is when no
// pretty name was supplied.
func (s *AnalysisService) formatAnalysis(req PurchaseRequest, stats *GameStats, hours []*HourStats) string {
	if stats == nil || stats.TotalBets == 0 {
		return noDataMessage(req)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🎯 *%s*\n", req.Game))
	sb.WriteString(fmt.Sprintf("🎰 *%s* • %s\n\n", req.Platform, req.Provider))

	sb.WriteString("📊 *Estatísticas Gerais:*\n")
	sb.WriteString(fmt.Sprintf("• Taxa de vitória: %.1f%%\n", stats.WinRate))
	sb.WriteString(fmt.Sprintf("• Total de apostas: %d\n", stats.TotalBets))
	sb.WriteString(fmt.Sprintf("• Vitórias: %d | Derrotas: %d\n", stats.TotalWins, stats.TotalLosses))
	sb.WriteString(fmt.Sprintf("• Valor médio: R$ %.2f\n\n", stats.AvgBetValue))

	best, worst := rankHours(hours)

	if len(best) > 0 {
		sb.WriteString("🟢 *Melhores Horários:*\n")
		for _, h := range best {
			sb.WriteString(fmt.Sprintf("• %02d:00 - %.1f%% (%d apostas)\n", h.Hour, h.WinRate, h.TotalBets))
		}
		sb.WriteString("\n")
	}

	if len(worst) > 0 {
		sb.WriteString("🔴 *Horários a Evitar:*\n")
		for _, h := range worst {
			sb.WriteString(fmt.Sprintf("• %02d:00 - %.1f%% (%d apostas)\n", h.Hour, h.WinRate, h.TotalBets))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("💡 *Recomendações:*\n")
	switch {
	case stats.WinRate >= 55:
		sb.WriteString("• Desempenho acima da média, mantenha valores moderados\n")
	case stats.WinRate >= 45:
		sb.WriteString("• Desempenho equilibrado, priorize os melhores horários\n")
	default:
		sb.WriteString("• Taxa de vitória baixa, considere outro jogo ou horário\n")
	}
	sb.WriteString("• Dados baseados em reports aprovados da comunidade\n")

	return sb.String()
}

func noDataMessage(req PurchaseRequest) string {
	return fmt.Sprintf(
		"📊 *Análise: %s*\n🎰 %s • %s\n\n"+
			"⚠️ Ainda não há dados suficientes para este jogo.\n\n"+
			"A análise melhora conforme a comunidade envia reports aprovados. "+
			"Tente novamente em alguns dias ou escolha um jogo mais popular.",
		req.Game, req.Platform, req.Provider,
	)
}

// rankHours picks up to three best and three worst hours with enough sample.
func rankHours(hours []*HourStats) (best, worst []*HourStats) {
	eligible := make([]*HourStats, 0, len(hours))
	for _, h := range hours {
		if h.TotalBets >= minHourSample {
			eligible = append(eligible, h)
		}
	}
	if len(eligible) == 0 {
		return nil, nil
	}

	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].WinRate != eligible[j].WinRate {
			return eligible[i].WinRate > eligible[j].WinRate
		}
		return eligible[i].TotalBets > eligible[j].TotalBets
	})

	top := 3
	if top > len(eligible) {
		top = len(eligible)
	}
	best = eligible[:top]

	bottom := 3
	if bottom > len(eligible)-top {
		bottom = len(eligible) - top
	}
	if bottom > 0 {
		worst = eligible[len(eligible)-bottom:]
		// Present worst ascending by win rate
		sort.Slice(worst, func(i, j int) bool { return worst[i].WinRate < worst[j].WinRate })
	}

	return best, worst
}

// GetPointsSummary exposes the points breakdown for the bot and admin API.
func (s *AnalysisService) GetPointsSummary(ctx context.Context, telegramID int64) (*PointsSummary, error) {
	return s.users.GetPointsSummary(ctx, telegramID)
}
