package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rewardtracker/bot/internal/domain"
	"github.com/rewardtracker/bot/internal/session"
	"github.com/rewardtracker/bot/internal/validate"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// messageSender is the subset of bot.Bot the engine needs to emit prompts.
type messageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Engine drives the text and photo steps of the report conversation. Menu
// callbacks (result choice, confirmations, the whole analysis selection) are
// routed by BotHandler; the engine owns everything typed or uploaded while a
// flow is active.
type Engine struct {
	sender messageSender
	logger domain.Logger
	now    func() time.Time
}

// NewEngine creates a conversation engine
func NewEngine(sender messageSender, logger domain.Logger) *Engine {
	return &Engine{
		sender: sender,
		logger: logger,
		now:    time.Now,
	}
}

// StartReport begins the report conversation once platform, provider and game
// have been chosen via menus. The first text step asks for the bet value.
func (e *Engine) StartReport(s *session.Session, platform, provider, game string) {
	s.BeginReport(platform, provider, game, e.now())
	e.logger.Info("report conversation started", "user_id", s.UserID, "platform", platform, "game", game)
}

// StartAnalysis begins the menu-driven analysis purchase flow.
func (e *Engine) StartAnalysis(s *session.Session, analysisType session.AnalysisType) {
	s.BeginAnalysis(analysisType, e.now())
	e.logger.Info("analysis conversation started", "user_id", s.UserID, "type", analysisType)
}

// ProcessTextMessage routes a text message to the active conversation's
// current step. It returns false when no conversation is active or the active
// step does not consume text, so the caller can fall through to command
// handling.
func (e *Engine) ProcessTextMessage(ctx context.Context, s *session.Session, chatID int64, text string) bool {
	if !s.HasActiveConversation() {
		return false
	}

	s.Touch(e.now())

	switch s.Conversation.Flow {
	case session.FlowReport:
		return e.handleReportText(ctx, s, chatID, text)
	case session.FlowAnalysisIndividual, session.FlowAnalysisGroup:
		// Analysis selection is entirely button-driven; keep stray text from
		// leaking into command handling mid-flow.
		e.reply(ctx, chatID, "📊 Use os botões acima para continuar a seleção da análise.", nil)
		return true
	default:
		e.logger.Warn("unknown conversation flow", "user_id", s.UserID, "flow", s.Conversation.Flow)
		return false
	}
}

func (e *Engine) handleReportText(ctx context.Context, s *session.Session, chatID int64, text string) bool {
	switch s.Conversation.ReportStep {
	case session.ReportStepBetValue:
		return e.handleBetValue(ctx, s, chatID, text)
	case session.ReportStepBetTime:
		return e.handleBetTime(ctx, s, chatID, text)
	case session.ReportStepWaitingPhotos:
		return e.handleWaitingPhotos(ctx, s, chatID, text)
	case session.ReportStepAdditionalInfo:
		return e.handleAdditionalInfo(ctx, s, chatID, text)
	default:
		// The result step advances via callback, not text.
		return false
	}
}

func (e *Engine) handleBetValue(ctx context.Context, s *session.Session, chatID int64, text string) bool {
	result := validate.BetValue(text)
	if !result.Valid {
		e.reply(ctx, chatID, fmt.Sprintf(
			"❌ %s\n\n💰 Digite o valor da aposta:\n\n"+
				"💡 *Exemplos válidos:*\n• R$ 0,50\n• 1.00\n• 5,25\n• 10",
			result.Message,
		), nil)
		return true
	}

	s.Report.BetValue = validate.FormatBetValue(result.Value)
	s.Conversation.ReportStep = session.ReportStepResult

	e.reply(ctx, chatID, fmt.Sprintf(
		"✅ Valor registrado: *%s*\n\n🎯 *Agora informe o resultado da sua aposta:*",
		s.Report.BetValue,
	), resultKeyboard())
	return true
}

func (e *Engine) handleBetTime(ctx context.Context, s *session.Session, chatID int64, text string) bool {
	result := validate.BetTime(text)
	if !result.Valid {
		e.reply(ctx, chatID, fmt.Sprintf(
			"❌ %s\n\n⏰ Digite o horário da aposta:\n\n"+
				"💡 *Exemplos válidos:*\n• 14:30\n• 09:15\n• 22:45",
			result.Message,
		), nil)
		return true
	}

	s.Report.BetTime = result.Time
	s.Conversation.ReportStep = session.ReportStepWaitingPhotos

	e.reply(ctx, chatID, fmt.Sprintf(
		"✅ Horário registrado: *%s*\n\n"+
			"📋 *Resumo do seu report:*\n"+
			"• Plataforma: %s\n• Provedor: %s\n• Jogo: %s\n• Valor: %s\n• Resultado: %s\n• Horário: %s\n\n"+
			"📷 *Agora envie fotos como comprovação:*\n\n"+
			"💡 *Dicas importantes:*\n• Envie até 4 fotos\n• Inclua print da aposta\n• Mostre o ID da transação\n\n"+
			"*Comandos:*\n• /finalizar - Enviar report\n• /cancelar - Cancelar report\n• /info - Informações extras",
		s.Report.BetTime,
		PlatformName(s.Report.Platform), ProviderName(s.Report.Provider), GameName(s.Report.Game),
		s.Report.BetValue, resultLabel(s.Report.Result), s.Report.BetTime,
	), backKeyboard())
	return true
}

func (e *Engine) handleWaitingPhotos(ctx context.Context, s *session.Session, chatID int64, text string) bool {
	switch controlPhrase(text) {
	case "finalizar":
		e.PromptFinalize(ctx, s, chatID)
	case "cancelar":
		e.PromptCancel(ctx, chatID)
	case "info":
		s.Conversation.ReportStep = session.ReportStepAdditionalInfo
		e.reply(ctx, chatID,
			"📝 *Informações Adicionais*\n\n"+
				"Digite qualquer informação extra sobre sua aposta:\n\n"+
				"💡 *Exemplos:*\n• Estratégia utilizada\n• Padrões observados\n\n"+
				"Ou digite \"pular\" para continuar sem informações extras:",
			nil)
	default:
		e.reply(ctx, chatID, fmt.Sprintf(
			"📷 *Aguardando fotos...*\n\n"+
				"📊 *Status atual:*\n• Fotos enviadas: %d/%d\n• Dados: ✅ Completos\n\n"+
				"*Próximos passos:*\n• Envie fotos (máximo %d)\n"+
				"• /finalizar - Enviar report\n• /cancelar - Cancelar report\n• /info - Informações extras",
			len(s.Report.Photos), session.MaxReportPhotos, session.MaxReportPhotos,
		), nil)
	}
	return true
}

func (e *Engine) handleAdditionalInfo(ctx context.Context, s *session.Session, chatID int64, text string) bool {
	skipped := controlPhrase(text) == "pular"
	if skipped {
		s.Report.AdditionalInfo = ""
	} else {
		s.Report.AdditionalInfo = validate.Sanitize(text)
	}

	s.Conversation.ReportStep = session.ReportStepWaitingPhotos

	label := "adicionadas"
	infoStatus := "✅ Adicionada"
	if s.Report.AdditionalInfo == "" {
		label = "puladas"
		infoStatus = "⏭️ Pulada"
	}

	e.reply(ctx, chatID, fmt.Sprintf(
		"✅ *Informações %s*\n\n📷 *Agora envie suas fotos:*\n\n"+
			"*Status:*\n• Dados: ✅ Completos\n• Info extra: %s\n• Fotos: %d/%d\n\n"+
			"*Comandos:*\n• /finalizar - Enviar report\n• /cancelar - Cancelar report",
		label, infoStatus, len(s.Report.Photos), session.MaxReportPhotos,
	), nil)
	return true
}

// ProcessPhoto appends a proof photo to the active report. It returns false
// when no report conversation is waiting for photos, so stray photos outside
// the flow are ignored rather than erroring.
func (e *Engine) ProcessPhoto(ctx context.Context, s *session.Session, chatID int64, photo session.Photo) bool {
	if !s.HasActiveConversation() ||
		s.Conversation.Flow != session.FlowReport ||
		s.Conversation.ReportStep != session.ReportStepWaitingPhotos {
		return false
	}

	s.Touch(e.now())

	if len(s.Report.Photos) >= session.MaxReportPhotos {
		e.reply(ctx, chatID, fmt.Sprintf(
			"⚠️ *Limite de fotos atingido*\n\n"+
				"Você já enviou %d fotos (máximo permitido).\n\n"+
				"Use /finalizar para enviar o report.",
			session.MaxReportPhotos,
		), nil)
		return true
	}

	photo.UploadedAt = e.now()
	s.Report.Photos = append(s.Report.Photos, photo)
	count := len(s.Report.Photos)

	remaining := ""
	if count < session.MaxReportPhotos {
		remaining = fmt.Sprintf("✅ Pode enviar mais %d foto(s)", session.MaxReportPhotos-count)
	} else {
		remaining = "✅ Limite máximo atingido"
	}

	e.reply(ctx, chatID, fmt.Sprintf(
		"📷 *Foto %d/%d recebida!*\n\n%s\n\n"+
			"*Status do report:*\n• Dados: ✅ Completos\n• Fotos: %d/%d\n\n"+
			"*Próximos passos:*\n• /finalizar - Enviar report\n• /cancelar - Cancelar report",
		count, session.MaxReportPhotos, remaining, count, session.MaxReportPhotos,
	), photoReceivedKeyboard())
	return true
}

// PromptFinalize asks for the final confirmation before submission. Zero
// collected photos gets an explicit warning instead of auto-submitting.
func (e *Engine) PromptFinalize(ctx context.Context, s *session.Session, chatID int64) {
	count := len(s.Report.Photos)

	if count == 0 {
		e.reply(ctx, chatID,
			"⚠️ *Nenhuma foto enviada*\n\n"+
				"Reports sem fotos têm menor chance de aprovação.\n\n"+
				"Deseja enviar mesmo assim?",
			finalizeKeyboard(false))
		return
	}

	info := "Não"
	if s.Report.AdditionalInfo != "" {
		info = "Sim"
	}

	e.reply(ctx, chatID, fmt.Sprintf(
		"📋 *Confirmar Envio*\n\n"+
			"✅ *Seu report está pronto:*\n• Fotos: %d/%d\n• Dados: Completos\n• Info extra: %s\n\n"+
			"⚠️ *Importante:* Após enviar, não será possível editar.\n\n"+
			"Deseja enviar o report?",
		count, session.MaxReportPhotos, info,
	), finalizeKeyboard(true))
}

// PromptCancel asks the user to confirm discarding the draft.
func (e *Engine) PromptCancel(ctx context.Context, chatID int64) {
	e.reply(ctx, chatID,
		"⚠️ *Confirmar Cancelamento*\n\nTodos os dados serão perdidos.\n\nTem certeza?",
		cancelConfirmKeyboard())
}

func (e *Engine) reply(ctx context.Context, chatID int64, text string, keyboard *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeMarkdown,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	if _, err := e.sender.SendMessage(ctx, params); err != nil {
		e.logger.Error("failed to send conversation message", "chat_id", chatID, "error", err)
	}
}

// controlPhrase normalizes a control word: trimmed, lowercased, leading slash
// optional.
func controlPhrase(text string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(text)), "/")
}

func resultLabel(result string) string {
	if result == "win" {
		return "✅ Ganho"
	}
	return "❌ Perda"
}
