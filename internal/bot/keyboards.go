package bot

import (
	"github.com/go-telegram/bot/models"
)

func mainMenuKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "📊 Análises", CallbackData: "menu_analyses"},
				{Text: "🎰 Plataformas", CallbackData: "menu_platforms"},
			},
			{
				{Text: "📝 Enviar Report", CallbackData: "menu_report"},
				{Text: "💰 BetPoints", CallbackData: "menu_points"},
			},
			{
				{Text: "🏆 Ranking", CallbackData: "menu_ranking"},
				{Text: "📋 Histórico", CallbackData: "menu_history"},
			},
		},
	}
}

func backKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "⬅️ Voltar", CallbackData: "back"}},
		},
	}
}

func backToMainKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "🏠 Menu Principal", CallbackData: "back_main"}},
		},
	}
}

func analysesKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "🔍 Individual (25 BP)", CallbackData: "analysis_individual"},
				{Text: "👥 Grupo (500 BP)", CallbackData: "analysis_group"},
			},
			{{Text: "⬅️ Voltar", CallbackData: "back"}},
		},
	}
}

// platformLinksKeyboard lists partner platforms as affiliate links.
func platformLinksKeyboard() *models.InlineKeyboardMarkup {
	keys := []string{
		"pop678", "popbra", "popkkk", "26bet", "poppg", "pop888",
		"popwb", "pop555", "popbem", "popmel", "popceu", "poplua",
	}

	rows := make([][]models.InlineKeyboardButton, 0, len(keys)/2+1)
	for i := 0; i < len(keys); i += 2 {
		row := []models.InlineKeyboardButton{
			{Text: "🎰 " + PlatformName(keys[i]), URL: "https://" + keys[i] + ".com/affiliate_link"},
		}
		if i+1 < len(keys) {
			row = append(row, models.InlineKeyboardButton{
				Text: "🎰 " + PlatformName(keys[i+1]), URL: "https://" + keys[i+1] + ".com/affiliate_link",
			})
		}
		rows = append(rows, row)
	}
	rows = append(rows, []models.InlineKeyboardButton{{Text: "⬅️ Voltar", CallbackData: "back"}})

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// selectPlatformKeyboard lists platforms as callback buttons for report and
// analysis selection.
func selectPlatformKeyboard() *models.InlineKeyboardMarkup {
	keys := []string{
		"pop678", "popbra", "popkkk", "26bet", "poppg", "pop888",
		"popwb", "pop555", "popbem", "popmel", "popceu", "poplua",
	}

	rows := make([][]models.InlineKeyboardButton, 0, len(keys)/2+1)
	for i := 0; i < len(keys); i += 2 {
		row := []models.InlineKeyboardButton{
			{Text: PlatformName(keys[i]), CallbackData: "platform_" + keys[i]},
		}
		if i+1 < len(keys) {
			row = append(row, models.InlineKeyboardButton{
				Text: PlatformName(keys[i+1]), CallbackData: "platform_" + keys[i+1],
			})
		}
		rows = append(rows, row)
	}
	rows = append(rows, []models.InlineKeyboardButton{{Text: "⬅️ Voltar", CallbackData: "back"}})

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func providersKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "🎮 PGSoft", CallbackData: "provider_pgsoft"},
				{Text: "🎯 Pragmatic Play", CallbackData: "provider_pp"},
			},
			{{Text: "⬅️ Voltar", CallbackData: "back"}},
		},
	}
}

var pgsoftGames = []string{
	"fortune_tiger", "mahjong_ways", "fortune_dragon", "wild_bandito",
	"gems_bonanza", "pirates_gold", "mask_carnival", "panda_fortune",
	"phoenix_rises", "thunder_kick", "starlight_princess", "kitsune_masks",
	"circus_launch", "koala_fortune", "lucky_neko", "hip_hop_panda",
	"cash_patrol", "rock_vegas", "irish_charms", "tropical_tiki",
	"mystic_potion", "archer_robin",
}

var pragmaticGames = []string{
	"gates_olympus", "sweet_bonanza", "wolf_gold", "dog_house",
	"starlight_pp", "fire_strike", "fruit_party", "wild_west_gold",
	"money_train", "john_hunter", "moonlight_princess", "circus_delight",
	"pirate_gold_pp", "rise_giza", "street_racer", "buffalo_king",
	"diamond_strike", "hawaiian_tiki", "magic_journey", "rock_vegas_pp",
}

// gamesKeyboard lists the provider's catalog two games per row.
func gamesKeyboard(provider string) *models.InlineKeyboardMarkup {
	games := pgsoftGames
	if provider == "pp" {
		games = pragmaticGames
	}

	rows := make([][]models.InlineKeyboardButton, 0, len(games)/2+1)
	for i := 0; i < len(games); i += 2 {
		row := []models.InlineKeyboardButton{
			{Text: GameName(games[i]), CallbackData: "game_" + games[i]},
		}
		if i+1 < len(games) {
			row = append(row, models.InlineKeyboardButton{
				Text: GameName(games[i+1]), CallbackData: "game_" + games[i+1],
			})
		}
		rows = append(rows, row)
	}
	rows = append(rows, []models.InlineKeyboardButton{{Text: "⬅️ Voltar", CallbackData: "back"}})

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func resultKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "✅ Ganho", CallbackData: "result_win"},
				{Text: "❌ Perda", CallbackData: "result_loss"},
			},
			{{Text: "⬅️ Voltar", CallbackData: "back"}},
		},
	}
}

// finalizeKeyboard offers submission. The zero-photo variant relabels the
// confirm button so the user knows the report goes out without proof.
func finalizeKeyboard(withPhotos bool) *models.InlineKeyboardMarkup {
	confirm := "✅ Confirmar Envio"
	if !withPhotos {
		confirm = "✅ Enviar Sem Fotos"
	}
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: confirm, CallbackData: "confirm_submit"},
				{Text: "📷 Adicionar Fotos", CallbackData: "add_photos"},
			},
			{{Text: "❌ Cancelar", CallbackData: "cancel_report"}},
		},
	}
}

func cancelConfirmKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "✅ Sim, Cancelar", CallbackData: "confirm_cancel"},
				{Text: "❌ Continuar Report", CallbackData: "continue_report"},
			},
		},
	}
}

func photoReceivedKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "✅ Finalizar Report", CallbackData: "confirm_submit"}},
			{{Text: "❌ Cancelar Report", CallbackData: "cancel_report"}},
		},
	}
}

func purchaseKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "✅ Comprar Análise", CallbackData: "confirm_purchase_analysis"},
				{Text: "💰 Ver Meus Pontos", CallbackData: "check_points"},
			},
			{
				{Text: "❌ Cancelar", CallbackData: "cancel_analysis"},
				{Text: "⬅️ Voltar", CallbackData: "back"},
			},
		},
	}
}

func submitRetryKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "🔄 Tentar Novamente", CallbackData: "confirm_submit"},
				{Text: "❌ Cancelar", CallbackData: "cancel_report"},
			},
		},
	}
}

func adminKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "📊 Status do Sistema", CallbackData: "admin_status"}},
			{
				{Text: "📢 Broadcasts", CallbackData: "admin_broadcasts"},
				{Text: "👥 Usuários", CallbackData: "admin_users"},
			},
		},
	}
}

func afterSubmitKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "📝 Novo Report", CallbackData: "menu_report"},
				{Text: "💰 Ver Pontos", CallbackData: "menu_points"},
			},
			{
				{Text: "📋 Histórico", CallbackData: "menu_history"},
				{Text: "🏠 Menu Principal", CallbackData: "back_main"},
			},
		},
	}
}
