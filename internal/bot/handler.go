package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rewardtracker/bot/internal/config"
	"github.com/rewardtracker/bot/internal/domain"
	"github.com/rewardtracker/bot/internal/locale"
	"github.com/rewardtracker/bot/internal/session"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// telegramClient is the subset of bot.Bot the handler uses.
type telegramClient interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

// BotHandler routes Telegram updates into the session store, the conversation
// engine and the domain services.
type BotHandler struct {
	client     telegramClient
	sessions   *session.Store
	engine     *Engine
	users      *domain.UserService
	reports    *domain.ReportService
	analyses   *domain.AnalysisService
	broadcasts *domain.BroadcastService
	config     *config.Config
	logger     domain.Logger
	localizer  locale.Localizer
}

// NewBotHandler creates a new BotHandler with all dependencies
func NewBotHandler(
	client telegramClient,
	sessions *session.Store,
	engine *Engine,
	users *domain.UserService,
	reports *domain.ReportService,
	analyses *domain.AnalysisService,
	broadcasts *domain.BroadcastService,
	cfg *config.Config,
	logger domain.Logger,
	localizer locale.Localizer,
) *BotHandler {
	return &BotHandler{
		client:     client,
		sessions:   sessions,
		engine:     engine,
		users:      users,
		reports:    reports,
		analyses:   analyses,
		broadcasts: broadcasts,
		config:     cfg,
		logger:     logger,
		localizer:  localizer,
	}
}

// HandleStart handles /start, including referral deep links ("/start BPXXXX").
func (h *BotHandler) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	from := update.Message.From
	chatID := update.Message.Chat.ID

	referredBy := int64(0)
	parts := strings.Fields(update.Message.Text)
	if len(parts) > 1 {
		referredBy = h.users.ResolveReferral(parts[1])
		if referredBy == from.ID {
			referredBy = 0
		}
	}

	user, err := h.users.Register(ctx, from.ID, from.Username, from.FirstName, from.LastName, referredBy)
	if err != nil {
		h.logger.Error("registration failed", "telegram_id", from.ID, "error", err)
		h.send(ctx, chatID, "❌ Erro ao iniciar. Tente novamente em instantes.", nil)
		return
	}

	h.sessions.With(from.ID, func(s *session.Session) {
		s.ChatID = chatID
		s.ResetFlows()
		s.ClearMenus()
	})

	name := user.FirstName
	if name == "" {
		name = user.Username
	}

	key := locale.Welcome
	if referredBy != 0 {
		key = locale.WelcomeReferred
	}
	h.send(ctx, chatID, h.localizer.MustLocalizeWithTemplate(key, name), mainMenuKeyboard())
}

// HandleMessage is the default text handler. Active conversations get first
// claim on the text; slash commands and casual chatter come after.
func (h *BotHandler) HandleMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	text := update.Message.Text

	h.users.TouchInteraction(ctx, userID)

	handled := false
	h.sessions.With(userID, func(s *session.Session) {
		s.ChatID = chatID
		handled = h.engine.ProcessTextMessage(ctx, s, chatID, text)
	})
	if handled {
		return
	}

	if strings.HasPrefix(text, "/") {
		h.handleCommand(ctx, chatID, userID, text)
		return
	}

	h.send(ctx, chatID, h.localizer.MustLocalize(locale.CasualRedirect), mainMenuKeyboard())
}

func (h *BotHandler) handleCommand(ctx context.Context, chatID, userID int64, text string) {
	cmd := strings.ToLower(strings.Fields(text)[0])

	switch cmd {
	case "/pontos":
		h.sendPoints(ctx, chatID, userID)
	case "/historico":
		h.sendHistory(ctx, chatID, userID)
	case "/help":
		h.send(ctx, chatID, h.localizer.MustLocalize(locale.HelpMessage), nil)
	case "/status":
		h.send(ctx, chatID, h.localizer.MustLocalize(locale.StatusMessage), nil)
	default:
		h.send(ctx, chatID, h.localizer.MustLocalizeWithTemplate(locale.UnknownCommand, cmd), nil)
	}
}

// HandleAdmin handles /admin. The panel is gated on the configured admin ID
// list; everyone else gets a denial.
func (h *BotHandler) HandleAdmin(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	from := update.Message.From
	chatID := update.Message.Chat.ID

	if !h.config.IsAdmin(from.ID) {
		h.send(ctx, chatID, "❌ Acesso negado.", nil)
		return
	}

	msg := fmt.Sprintf(
		"🛠️ *Painel Administrativo*\n\n👑 Olá, Admin %s!\n\n"+
			"📊 *Funcionalidades:*\n• Aprovar/rejeitar reports\n• Broadcasts para usuários\n• Estatísticas do sistema\n\n"+
			"🤖 *Comandos do Bot:*\n• /status - Status do sistema\n• /admin - Este painel\n\n"+
			"🖥️ O dashboard web cobre a gestão completa.",
		from.FirstName,
	)
	h.send(ctx, chatID, msg, adminKeyboard())
}

func (h *BotHandler) showAdminStatus(ctx context.Context, userID, chatID int64, messageID int) {
	if !h.isAdminCallback(ctx, userID, chatID) {
		return
	}

	users, err := h.users.All(ctx)
	if err != nil {
		h.logger.Error("admin status failed", "error", err)
		h.send(ctx, chatID, "❌ Erro ao buscar status do sistema.", nil)
		return
	}
	pending, err := h.reports.GetPendingReports(ctx)
	if err != nil {
		h.logger.Error("admin status failed", "error", err)
		h.send(ctx, chatID, "❌ Erro ao buscar status do sistema.", nil)
		return
	}

	msg := fmt.Sprintf(
		"🔧 *Status Detalhado do Sistema*\n\n"+
			"⚡ *Operacional:* ✅ Online\n🔄 *Última atualização:* %s\n\n"+
			"📊 *Estatísticas:*\n• Usuários total: %d\n• Reports pendentes: %d",
		h.engine.now().In(h.config.Timezone).Format("02/01/2006 15:04"),
		len(users), len(pending),
	)
	h.edit(ctx, chatID, messageID, msg, adminKeyboard())
}

func (h *BotHandler) showAdminBroadcasts(ctx context.Context, userID, chatID int64, messageID int) {
	if !h.isAdminCallback(ctx, userID, chatID) {
		return
	}

	pending, err := h.broadcasts.GetPending(ctx)
	if err != nil {
		h.logger.Error("admin broadcast list failed", "error", err)
		h.send(ctx, chatID, "❌ Erro ao buscar broadcasts pendentes.", nil)
		return
	}

	if len(pending) == 0 {
		h.edit(ctx, chatID, messageID,
			"📢 Nenhum broadcast pendente.\n\nUse o dashboard web para criar broadcasts.",
			adminKeyboard())
		return
	}

	var sb strings.Builder
	sb.WriteString("📢 *Broadcasts Pendentes*\n\n")
	for i, bc := range pending {
		preview := bc.Message
		if r := []rune(preview); len(r) > 50 {
			preview = string(r[:50]) + "..."
		}
		sb.WriteString(fmt.Sprintf("%d. *%s*\n   📅 Criado: %s\n   👥 Destinatários: %s\n   📝 Prévia: %s\n\n",
			i+1, bc.Title,
			bc.CreatedAt.In(h.config.Timezone).Format("02/01/2006"),
			bc.TargetUsers, preview))
	}
	sb.WriteString("🖥️ Use o dashboard web para gerenciar broadcasts.")

	h.edit(ctx, chatID, messageID, sb.String(), adminKeyboard())
}

func (h *BotHandler) showAdminUsers(ctx context.Context, userID, chatID int64, messageID int) {
	if !h.isAdminCallback(ctx, userID, chatID) {
		return
	}

	users, err := h.users.All(ctx)
	if err != nil {
		h.logger.Error("admin user list failed", "error", err)
		h.send(ctx, chatID, "❌ Erro ao buscar usuários.", nil)
		return
	}

	banned := 0
	for _, u := range users {
		if u.IsBanned {
			banned++
		}
	}

	msg := fmt.Sprintf(
		"👥 *Usuários*\n\n• Registrados: %d\n• Banidos: %d\n\n"+
			"🖥️ Use o dashboard web para gestão individual.",
		len(users), banned,
	)
	h.edit(ctx, chatID, messageID, msg, adminKeyboard())
}

func (h *BotHandler) isAdminCallback(ctx context.Context, userID, chatID int64) bool {
	if h.config.IsAdmin(userID) {
		return true
	}
	h.logger.Warn("admin callback from non-admin", "user_id", userID)
	h.send(ctx, chatID, "❌ Acesso negado.", nil)
	return false
}

// HandlePhoto routes photo uploads into the conversation engine. Photos
// outside a report conversation are ignored.
func (h *BotHandler) HandlePhoto(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || len(update.Message.Photo) == 0 {
		return
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	// Telegram sends multiple sizes; the last one is the largest.
	largest := update.Message.Photo[len(update.Message.Photo)-1]
	photo := session.Photo{
		FileID:       largest.FileID,
		FileUniqueID: largest.FileUniqueID,
		FileSize:     int64(largest.FileSize),
		Width:        largest.Width,
		Height:       largest.Height,
	}

	h.sessions.With(userID, func(s *session.Session) {
		s.ChatID = chatID
		h.engine.ProcessPhoto(ctx, s, chatID, photo)
	})
}

// HandleCallback routes all inline-keyboard callbacks.
func (h *BotHandler) HandleCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	callback := update.CallbackQuery
	userID := callback.From.ID
	data := callback.Data

	_, _ = h.client.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callback.ID,
	})

	if callback.Message.Message == nil {
		h.logger.Warn("callback without accessible message", "user_id", userID, "data", data)
		return
	}
	chatID := callback.Message.Message.Chat.ID
	messageID := callback.Message.Message.ID

	h.logger.Debug("callback received", "user_id", userID, "data", data)
	h.users.TouchInteraction(ctx, userID)

	h.sessions.With(userID, func(s *session.Session) {
		s.ChatID = chatID
		s.MenuMessageID = messageID
		s.Touch(h.engine.now())

		switch {
		case data == "back_main":
			h.showMainMenu(ctx, s, chatID, messageID)
		case data == "back":
			h.handleBack(ctx, s, chatID, messageID)
		case data == "menu_analyses":
			h.showAnalysesMenu(ctx, s, chatID, messageID)
		case data == "menu_platforms":
			h.showPlatformsMenu(ctx, s, chatID, messageID)
		case data == "menu_report":
			h.showReportMenu(ctx, s, chatID, messageID)
		case data == "menu_points", data == "check_points":
			h.showPoints(ctx, s, chatID, messageID, data == "check_points")
		case data == "menu_ranking":
			h.showRanking(ctx, chatID, messageID)
		case data == "menu_history":
			h.showHistory(ctx, s, chatID, messageID)
		case data == "analysis_individual":
			h.startAnalysis(ctx, s, chatID, messageID, session.AnalysisIndividual)
		case data == "analysis_group":
			h.startAnalysis(ctx, s, chatID, messageID, session.AnalysisGroup)
		case strings.HasPrefix(data, "platform_"):
			h.selectPlatform(ctx, s, chatID, messageID, strings.TrimPrefix(data, "platform_"))
		case strings.HasPrefix(data, "provider_"):
			h.selectProvider(ctx, s, chatID, messageID, strings.TrimPrefix(data, "provider_"))
		case strings.HasPrefix(data, "game_"):
			h.selectGame(ctx, s, chatID, messageID, strings.TrimPrefix(data, "game_"))
		case data == "result_win", data == "result_loss":
			h.selectResult(ctx, s, chatID, messageID, strings.TrimPrefix(data, "result_"))
		case data == "confirm_submit":
			h.submitReport(ctx, s, chatID, messageID)
		case data == "add_photos":
			h.send(ctx, chatID, "📷 Envie suas fotos agora (máximo 4).", nil)
		case data == "cancel_report", data == "confirm_cancel":
			h.cancelReport(ctx, s, chatID, messageID)
		case data == "continue_report":
			h.continueReport(ctx, s, chatID)
		case data == "confirm_purchase_analysis":
			h.purchaseAnalysis(ctx, s, chatID, messageID)
		case data == "cancel_analysis":
			h.cancelAnalysis(ctx, s, chatID, messageID)
		case data == "admin_status":
			h.showAdminStatus(ctx, userID, chatID, messageID)
		case data == "admin_broadcasts":
			h.showAdminBroadcasts(ctx, userID, chatID, messageID)
		case data == "admin_users":
			h.showAdminUsers(ctx, userID, chatID, messageID)
		default:
			h.logger.Warn("unrecognized callback", "user_id", userID, "data", data)
			h.showMainMenu(ctx, s, chatID, messageID)
		}
	})
}

// --- menu rendering ---

func (h *BotHandler) showMainMenu(ctx context.Context, s *session.Session, chatID int64, messageID int) {
	s.ResetFlows()
	s.ClearMenus()
	h.edit(ctx, chatID, messageID, h.localizer.MustLocalize(locale.MainMenuTitle), mainMenuKeyboard())
}

func (h *BotHandler) handleBack(ctx context.Context, s *session.Session, chatID int64, messageID int) {
	switch s.PopMenu() {
	case "analyses":
		h.showAnalysesMenu(ctx, s, chatID, messageID)
	case "platforms":
		h.showPlatformsMenu(ctx, s, chatID, messageID)
	case "report":
		h.showReportMenu(ctx, s, chatID, messageID)
	default:
		h.showMainMenu(ctx, s, chatID, messageID)
	}
}

func (h *BotHandler) showAnalysesMenu(ctx context.Context, s *session.Session, chatID int64, messageID int) {
	s.PushMenu(session.MainMenu)

	msg := "📊 *Análises Baseadas em Dados*\n\n" +
		"Escolha o tipo de análise que deseja comprar:\n\n" +
		"🔍 *Individual (25 BP)*\n• Análise personalizada só para você\n• Recomendações baseadas em horários\n\n" +
		"👥 *Para Grupo (500 BP)*\n• Análise compartilhada no grupo\n• Beneficia toda a comunidade\n\n" +
		"Qual tipo de análise deseja?"
	h.edit(ctx, chatID, messageID, msg, analysesKeyboard())
}

func (h *BotHandler) showPlatformsMenu(ctx context.Context, s *session.Session, chatID int64, messageID int) {
	s.PushMenu(session.MainMenu)

	msg := "🎰 *Plataformas Parceiras*\n\n" +
		"Acesse nossas plataformas parceiras através dos links abaixo:\n\n" +
		"🎯 *Benefícios:*\n• Links de afiliado exclusivos\n• Bônus especiais para nossa comunidade\n\n" +
		"Escolha sua plataforma preferida:"
	h.edit(ctx, chatID, messageID, msg, platformLinksKeyboard())
}

func (h *BotHandler) showReportMenu(ctx context.Context, s *session.Session, chatID int64, messageID int) {
	s.PushMenu(session.MainMenu)

	msg := "📝 *Enviar Report de Aposta*\n\n" +
		"📋 *Como funciona:*\n• Selecione a plataforma onde apostou\n" +
		"• Escolha o provedor e jogo\n• Informe valor, resultado e horário\n• Envie fotos como comprovação\n\n" +
		"💰 *Recompensa:* até 20 BP por report aprovado\n\n" +
		"Escolha a plataforma onde apostou:"
	h.edit(ctx, chatID, messageID, msg, selectPlatformKeyboard())
}

// --- report selection flow (menu-driven, pre-conversation) ---

func (h *BotHandler) selectPlatform(ctx context.Context, s *session.Session, chatID int64, messageID int, platform string) {
	if h.inAnalysisFlow(s) {
		s.Analysis.Platform = platform
		s.Analysis.Step = session.AnalysisStepProvider
		msg := fmt.Sprintf(
			"🎰 *%s selecionado*\n\n%s - %d BP\n\n🎮 *Agora escolha o provedor:*",
			PlatformName(platform), analysisLabel(s.Analysis.Type), s.Analysis.Cost,
		)
		h.edit(ctx, chatID, messageID, msg, providersKeyboard())
		return
	}

	s.Report.Platform = platform
	s.PushMenu("report")

	msg := fmt.Sprintf(
		"🎰 *%s selecionado*\n\n📝 *Novo Report de Aposta*\n\n🎮 *Agora escolha o provedor do jogo:*",
		PlatformName(platform),
	)
	h.edit(ctx, chatID, messageID, msg, providersKeyboard())
}

func (h *BotHandler) selectProvider(ctx context.Context, s *session.Session, chatID int64, messageID int, provider string) {
	if h.inAnalysisFlow(s) {
		s.Analysis.Provider = provider
		s.Analysis.Step = session.AnalysisStepGame
		msg := fmt.Sprintf(
			"🎮 *%s selecionado*\n\n🎰 %s • %s\n%s - %d BP\n\n🎯 *Escolha o jogo para análise:*",
			ProviderName(provider), PlatformName(s.Analysis.Platform), ProviderName(provider),
			analysisLabel(s.Analysis.Type), s.Analysis.Cost,
		)
		h.edit(ctx, chatID, messageID, msg, gamesKeyboard(provider))
		return
	}

	s.Report.Provider = provider

	msg := fmt.Sprintf(
		"🎮 *%s selecionado*\n\n📝 *Report: %s • %s*\n\n🎯 *Escolha o jogo que você apostou:*",
		ProviderName(provider), PlatformName(s.Report.Platform), ProviderName(provider),
	)
	h.edit(ctx, chatID, messageID, msg, gamesKeyboard(provider))
}

func (h *BotHandler) selectGame(ctx context.Context, s *session.Session, chatID int64, messageID int, game string) {
	if h.inAnalysisFlow(s) {
		s.Analysis.Game = game
		s.Analysis.Step = session.AnalysisStepConfirm

		scope := "🔍 *Esta análise será enviada apenas para você*"
		if s.Analysis.Type == session.AnalysisGroup {
			scope = "👥 *Esta análise será compartilhada no grupo oficial*"
		}

		msg := fmt.Sprintf(
			"🎯 *Confirmação de Compra*\n\n📋 *Detalhes da análise:*\n"+
				"• Plataforma: %s\n• Provedor: %s\n• Jogo: %s\n• Tipo: %s\n• Custo: %d BP\n\n%s",
			PlatformName(s.Analysis.Platform), ProviderName(s.Analysis.Provider), GameName(game),
			analysisLabel(s.Analysis.Type), s.Analysis.Cost, scope,
		)
		h.edit(ctx, chatID, messageID, msg, purchaseKeyboard())
		return
	}

	platform, provider := s.Report.Platform, s.Report.Provider
	if platform == "" || provider == "" {
		h.send(ctx, chatID, "❌ Seleção incompleta. Reinicie o report pelo menu.", backToMainKeyboard())
		return
	}

	h.engine.StartReport(s, platform, provider, game)

	msg := fmt.Sprintf(
		"🎯 *%s selecionado*\n\n📝 *Report: %s • %s • %s*\n\n"+
			"💰 *Agora digite o valor da sua aposta:*\n\n"+
			"💡 *Exemplos:*\n• R$ 0,50\n• 1.00\n• 5,25",
		GameName(game), PlatformName(platform), ProviderName(provider), GameName(game),
	)
	h.edit(ctx, chatID, messageID, msg, backKeyboard())
}

func (h *BotHandler) selectResult(ctx context.Context, s *session.Session, chatID int64, messageID int, result string) {
	if !s.HasActiveConversation() || s.Conversation.Flow != session.FlowReport ||
		s.Conversation.ReportStep != session.ReportStepResult {
		h.logger.Debug("result callback outside report flow", "user_id", s.UserID)
		return
	}

	s.Report.Result = result
	s.Conversation.ReportStep = session.ReportStepBetTime

	msg := fmt.Sprintf(
		"%s *registrado*\n\n📝 *Resumo atual:*\n"+
			"• Plataforma: %s\n• Provedor: %s\n• Jogo: %s\n• Valor: %s\n• Resultado: %s\n\n"+
			"⏰ *Agora digite o horário da aposta:*\n\n💡 *Formato: HH:MM*\n• Exemplo: 14:30, 09:15, 22:45",
		resultLabel(result),
		PlatformName(s.Report.Platform), ProviderName(s.Report.Provider), GameName(s.Report.Game),
		s.Report.BetValue, resultLabel(result),
	)
	h.edit(ctx, chatID, messageID, msg, backKeyboard())
}

// --- report terminal transitions ---

func (h *BotHandler) submitReport(ctx context.Context, s *session.Session, chatID int64, messageID int) {
	if !s.HasActiveConversation() || s.Conversation.Flow != session.FlowReport {
		h.send(ctx, chatID, "❌ Nenhum report em andamento. Use o menu para começar.", backToMainKeyboard())
		return
	}

	draft := s.Report
	report := &domain.Report{
		TelegramID:     s.UserID,
		Platform:       draft.Platform,
		Provider:       draft.Provider,
		Game:           draft.Game,
		BetValue:       draft.BetValue,
		Result:         domain.BetResult(draft.Result),
		BetTime:        draft.BetTime,
		AdditionalInfo: draft.AdditionalInfo,
	}
	for _, p := range draft.Photos {
		report.Photos = append(report.Photos, domain.ReportPhoto{
			FileID:       p.FileID,
			FileUniqueID: p.FileUniqueID,
			FileSize:     p.FileSize,
			Width:        p.Width,
			Height:       p.Height,
			UploadedAt:   p.UploadedAt,
		})
	}

	submitted, err := h.reports.SubmitReport(ctx, report)
	if err != nil {
		// Draft preserved so the retry button can resubmit.
		h.logger.Error("report submission failed", "user_id", s.UserID, "error", err)
		h.edit(ctx, chatID, messageID,
			"❌ *Erro ao enviar report*\n\nOcorreu um erro inesperado. Tente novamente em alguns minutos.",
			submitRetryKeyboard())
		return
	}

	photoCount := len(draft.Photos)
	s.ResetFlows()
	s.ClearMenus()

	msg := fmt.Sprintf(
		"✅ *Report enviado com sucesso!*\n\n📋 *ID do Report:* #%d\n\n"+
			"🎯 *Detalhes:*\n• Plataforma: %s\n• Jogo: %s\n• Valor: %s\n• Resultado: %s\n• Fotos: %d/%d\n\n"+
			"⏳ *Status:* Aguardando análise\n⏰ *Prazo:* Até 24 horas\n💰 *Recompensa:* Até %d BP (se aprovado)\n\n"+
			"🎉 *Obrigado por contribuir com a comunidade!*",
		submitted.ID,
		PlatformName(submitted.Platform), GameName(submitted.Game), submitted.BetValue,
		resultLabel(string(submitted.Result)), photoCount, session.MaxReportPhotos,
		domain.MaxReportAwardPoints,
	)
	h.edit(ctx, chatID, messageID, msg, afterSubmitKeyboard())
}

func (h *BotHandler) cancelReport(ctx context.Context, s *session.Session, chatID int64, messageID int) {
	s.ResetFlows()
	h.edit(ctx, chatID, messageID,
		"❌ *Report cancelado*\n\nTodos os dados foram descartados.\n\nDeseja fazer outra coisa?",
		afterSubmitKeyboard())
}

func (h *BotHandler) continueReport(ctx context.Context, s *session.Session, chatID int64) {
	if !s.HasActiveConversation() || s.Conversation.Flow != session.FlowReport {
		h.send(ctx, chatID, "❌ Nenhum report em andamento.", backToMainKeyboard())
		return
	}
	h.send(ctx, chatID, fmt.Sprintf(
		"📷 *Report em andamento*\n\n• Fotos enviadas: %d/%d\n\n"+
			"*Comandos:*\n• /finalizar - Enviar report\n• /cancelar - Cancelar report",
		len(s.Report.Photos), session.MaxReportPhotos,
	), nil)
}

// --- analysis purchase flow ---

func (h *BotHandler) inAnalysisFlow(s *session.Session) bool {
	if !s.HasActiveConversation() {
		return false
	}
	flow := s.Conversation.Flow
	return flow == session.FlowAnalysisIndividual || flow == session.FlowAnalysisGroup
}

func (h *BotHandler) startAnalysis(ctx context.Context, s *session.Session, chatID int64, messageID int, analysisType session.AnalysisType) {
	s.PushMenu("analyses")
	h.engine.StartAnalysis(s, analysisType)

	var msg string
	if analysisType == session.AnalysisIndividual {
		msg = "🔍 *Análise Individual - 25 BP*\n\n" +
			"💡 *Benefícios:*\n• Análise personalizada só para você\n• Recomendações de horários baseadas em dados\n\n" +
			"🎯 *Primeiro passo:*\nEscolha a plataforma onde deseja jogar:"
	} else {
		msg = "👥 *Análise para Grupo - 500 BP*\n\n" +
			"🎯 *Benefícios:*\n• Análise compartilhada no grupo oficial\n• Beneficia toda a comunidade\n\n" +
			"🎯 *Primeiro passo:*\nEscolha a plataforma para análise:"
	}
	h.edit(ctx, chatID, messageID, msg, selectPlatformKeyboard())
}

func (h *BotHandler) purchaseAnalysis(ctx context.Context, s *session.Session, chatID int64, messageID int) {
	if !h.inAnalysisFlow(s) || s.Analysis.Step != session.AnalysisStepConfirm {
		h.send(ctx, chatID, "❌ Nenhuma análise em andamento. Use o menu para começar.", backToMainKeyboard())
		return
	}

	draft := s.Analysis
	analysis, err := h.analyses.Purchase(ctx, domain.PurchaseRequest{
		TelegramID: s.UserID,
		Type:       domain.AnalysisType(draft.Type),
		Platform:   draft.Platform,
		Provider:   draft.Provider,
		Game:       draft.Game,
		Cost:       float64(draft.Cost),
	})
	if err != nil {
		// Draft is preserved so the user can retry after earning points.
		if errors.Is(err, domain.ErrInsufficientPoints) {
			h.edit(ctx, chatID, messageID, fmt.Sprintf(
				"❌ *Saldo insuficiente*\n\nEsta análise custa %d BP.\n\n"+
					"💡 *Como ganhar mais pontos:*\n• Envie reports de apostas\n• Participe de promoções\n\n"+
					"Seus pontos não foram descontados.",
				draft.Cost,
			), purchaseKeyboard())
			return
		}
		h.logger.Error("analysis purchase failed", "user_id", s.UserID, "error", err)
		h.edit(ctx, chatID, messageID,
			"❌ *Erro ao comprar análise*\n\nNada foi descontado. Tente novamente em instantes.",
			purchaseKeyboard())
		return
	}

	s.ResetFlows()
	s.ClearMenus()

	h.edit(ctx, chatID, messageID, analysis.Content, backToMainKeyboard())

	// Group analyses also go to the community group.
	if analysis.Type == domain.AnalysisTypeGroup && h.config.GroupID != 0 {
		h.send(ctx, h.config.GroupID, fmt.Sprintf(
			"👥 *Análise comprada para o grupo:*\n\n%s", analysis.Content,
		), nil)
	}
}

func (h *BotHandler) cancelAnalysis(ctx context.Context, s *session.Session, chatID int64, messageID int) {
	s.ResetFlows()
	h.edit(ctx, chatID, messageID,
		"❌ *Compra cancelada*\n\nA análise não foi comprada.\n\nDeseja fazer outra coisa?",
		backToMainKeyboard())
}

// --- points / ranking / history ---

func (h *BotHandler) showPoints(ctx context.Context, s *session.Session, chatID int64, messageID int, withPurchase bool) {
	summary, err := h.users.GetPoints(ctx, s.UserID)
	if err != nil {
		h.logger.Error("points lookup failed", "user_id", s.UserID, "error", err)
		h.send(ctx, chatID, h.localizer.MustLocalize(locale.PointsUnavailable), nil)
		return
	}

	msg := formatPoints(summary)
	if withPurchase && h.inAnalysisFlow(s) {
		canAfford := summary.Points >= float64(s.Analysis.Cost)
		msg += fmt.Sprintf("\n🎯 *Custo da análise:* %d BP\n", s.Analysis.Cost)
		if canAfford {
			msg += "✅ *Você pode comprar esta análise*"
		} else {
			msg += "❌ *Saldo insuficiente*"
		}
		h.edit(ctx, chatID, messageID, msg, purchaseKeyboard())
		return
	}

	h.edit(ctx, chatID, messageID, msg, backToMainKeyboard())
}

func (h *BotHandler) sendPoints(ctx context.Context, chatID, userID int64) {
	summary, err := h.users.GetPoints(ctx, userID)
	if err != nil {
		h.logger.Error("points lookup failed", "user_id", userID, "error", err)
		h.send(ctx, chatID, h.localizer.MustLocalize(locale.PointsUnavailable), nil)
		return
	}
	h.send(ctx, chatID, formatPoints(summary), nil)
}

func formatPoints(summary *domain.PointsSummary) string {
	return fmt.Sprintf(
		"💰 *Seus BetPoints*\n\n💎 *Saldo atual:* %.0f BP\n\n"+
			"📊 *Detalhamento:*\n• Reports aprovados: +%.0f BP\n• Análises compradas: -%.0f BP\n• Bônus recebidos: +%.0f BP\n\n"+
			"📈 *Como ganhar mais pontos:*\n• Envie reports de apostas (até %d BP por report)\n\n"+
			"💡 *Como usar seus pontos:*\n• Análise individual: %d BP\n• Análise para grupo: %d BP",
		summary.Points, summary.ReportsPoints, summary.SpentPoints, summary.BonusPoints,
		domain.MaxReportAwardPoints, session.IndividualAnalysisCost, session.GroupAnalysisCost,
	)
}

func (h *BotHandler) showRanking(ctx context.Context, chatID int64, messageID int) {
	top, err := h.users.Top(ctx, 10)
	if err != nil {
		h.logger.Error("ranking lookup failed", "error", err)
		h.send(ctx, chatID, "❌ Erro ao carregar o ranking. Tente novamente.", nil)
		return
	}

	var sb strings.Builder
	sb.WriteString("🏆 *Ranking da Comunidade*\n\n")
	if len(top) == 0 {
		sb.WriteString("Ainda não há usuários pontuados. Envie um report e abra o ranking!")
	}
	medals := []string{"🥇", "🥈", "🥉"}
	for i, u := range top {
		tag := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			tag = medals[i]
		}
		name := u.FirstName
		if name == "" {
			name = u.Username
		}
		if name == "" {
			name = fmt.Sprintf("Usuário %d", u.TelegramID)
		}
		sb.WriteString(fmt.Sprintf("%s %s - %.0f BP\n", tag, name, u.Points))
	}

	h.edit(ctx, chatID, messageID, sb.String(), backToMainKeyboard())
}

func (h *BotHandler) showHistory(ctx context.Context, s *session.Session, chatID int64, messageID int) {
	history, err := h.reports.GetUserHistory(ctx, s.UserID)
	if err != nil {
		h.logger.Error("history lookup failed", "user_id", s.UserID, "error", err)
		h.send(ctx, chatID, h.localizer.MustLocalize(locale.HistoryUnavailable), nil)
		return
	}
	h.edit(ctx, chatID, messageID, formatHistory(history, h.config.Timezone), backToMainKeyboard())
}

func (h *BotHandler) sendHistory(ctx context.Context, chatID, userID int64) {
	history, err := h.reports.GetUserHistory(ctx, userID)
	if err != nil {
		h.logger.Error("history lookup failed", "user_id", userID, "error", err)
		h.send(ctx, chatID, h.localizer.MustLocalize(locale.HistoryUnavailable), nil)
		return
	}
	h.send(ctx, chatID, formatHistory(history, h.config.Timezone), nil)
}

// formatHistory renders report and purchase history with dates in the
// community timezone.
func formatHistory(history *domain.History, loc *time.Location) string {
	var sb strings.Builder
	sb.WriteString("📋 *Seu Histórico Completo*\n\n")

	if len(history.Reports) > 0 {
		sb.WriteString("📝 *Reports Recentes:*\n")
		for _, r := range history.Reports {
			status := "⏳"
			switch r.Status {
			case domain.ReportStatusApproved:
				status = "✅"
			case domain.ReportStatusRejected:
				status = "❌"
			}
			sb.WriteString(fmt.Sprintf("%s %s - %s\n   💰 %s | 📅 %s\n",
				status, GameName(r.Game), PlatformName(r.Platform),
				r.BetValue, r.CreatedAt.In(loc).Format("02/01/2006")))
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("📝 *Reports:* Nenhum report enviado ainda\n\n")
	}

	if len(history.Analyses) > 0 {
		sb.WriteString("📊 *Análises Recentes:*\n")
		for _, a := range history.Analyses {
			icon := "🔍"
			if a.Type == domain.AnalysisTypeGroup {
				icon = "👥"
			}
			sb.WriteString(fmt.Sprintf("%s %s - %s\n   💎 %.0f BP | 📅 %s\n",
				icon, GameName(a.Game), PlatformName(a.Platform),
				a.Cost, a.CreatedAt.In(loc).Format("02/01/2006")))
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("📊 *Análises:* Nenhuma análise comprada ainda\n\n")
	}

	sb.WriteString(fmt.Sprintf(
		"📈 *Estatísticas:*\n• Reports enviados: %d\n• Reports aprovados: %d\n• Taxa de aprovação: %.0f%%\n• BP gastos: %.0f",
		history.Stats.TotalReports, history.Stats.ApprovedReports,
		history.Stats.ApprovalRate, history.Stats.TotalSpent,
	))

	return sb.String()
}

func analysisLabel(analysisType session.AnalysisType) string {
	if analysisType == session.AnalysisGroup {
		return "👥 Análise para Grupo"
	}
	return "🔍 Análise Individual"
}

// --- low-level send helpers ---

func (h *BotHandler) send(ctx context.Context, chatID int64, text string, keyboard *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeMarkdown,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	if _, err := h.client.SendMessage(ctx, params); err != nil {
		h.logger.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

// edit rewrites the menu message in place, falling back to a fresh message
// when the original can no longer be edited.
func (h *BotHandler) edit(ctx context.Context, chatID int64, messageID int, text string, keyboard *models.InlineKeyboardMarkup) {
	params := &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
		ParseMode: models.ParseModeMarkdown,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	if _, err := h.client.EditMessageText(ctx, params); err != nil {
		h.logger.Debug("edit failed, sending new message", "chat_id", chatID, "error", err)
		h.send(ctx, chatID, text, keyboard)
	}
}
