package bot

import "strings"

// Partner platforms, keyed by callback suffix.
var platformNames = map[string]string{
	"pop678": "Pop678",
	"popbra": "Popbra",
	"popkkk": "Popkkk",
	"26bet":  "26bet",
	"poppg":  "Poppg",
	"pop888": "Pop888",
	"popwb":  "Popwb",
	"pop555": "Pop555",
	"popbem": "Popbem",
	"popmel": "Popmel",
	"popceu": "Popceu",
	"poplua": "Poplua",
}

var providerNames = map[string]string{
	"pgsoft": "PGSoft",
	"pp":     "Pragmatic Play",
}

var gameNames = map[string]string{
	// PGSoft
	"fortune_tiger":      "Fortune Tiger 🐅",
	"mahjong_ways":       "Mahjong Ways 🀄",
	"fortune_dragon":     "Fortune Dragon 🐉",
	"wild_bandito":       "Wild Bandito 🦅",
	"gems_bonanza":       "Gems Bonanza 💎",
	"pirates_gold":       "Pirates Gold 🏴‍☠️",
	"mask_carnival":      "Mask Carnival 🎭",
	"panda_fortune":      "Panda Fortune 🐼",
	"phoenix_rises":      "Phoenix Rises 🔥",
	"thunder_kick":       "Thunder Kick ⚡",
	"starlight_princess": "Starlight Princess 🌟",
	"kitsune_masks":      "Kitsune Masks 🦊",
	"circus_launch":      "Circus Launch 🎪",
	"koala_fortune":      "Koala Fortune 🐨",
	"lucky_neko":         "Lucky Neko 🌙",
	"hip_hop_panda":      "Hip Hop Panda 🎨",
	"cash_patrol":        "Cash Patrol 💰",
	"rock_vegas":         "Rock Vegas 🎸",
	"irish_charms":       "Irish Charms 🍀",
	"tropical_tiki":      "Tropical Tiki 🌺",
	"mystic_potion":      "Mystic Potion 🔮",
	"archer_robin":       "Archer Robin 🎯",

	// Pragmatic Play
	"gates_olympus":      "Gates of Olympus ⚡",
	"sweet_bonanza":      "Sweet Bonanza 🍭",
	"wolf_gold":          "Wolf Gold 🐺",
	"dog_house":          "The Dog House 💎",
	"starlight_pp":       "Starlight Princess 🌟",
	"fire_strike":        "Fire Strike 🔥",
	"fruit_party":        "Fruit Party 🍒",
	"wild_west_gold":     "Wild West Gold 🎭",
	"money_train":        "Money Train 💰",
	"john_hunter":        "John Hunter 🐻",
	"moonlight_princess": "Moonlight Princess 🌙",
	"circus_delight":     "Circus Delight 🎪",
	"pirate_gold_pp":     "Pirate Gold 🏴‍☠️",
	"rise_giza":          "Rise of Giza 🔱",
	"street_racer":       "Street Racer 🎨",
	"buffalo_king":       "Buffalo King 🎯",
	"diamond_strike":     "Diamond Strike 💎",
	"hawaiian_tiki":      "Hawaiian Tiki 🌺",
	"magic_journey":      "Magic Journey 🔮",
	"rock_vegas_pp":      "Rock Vegas PP 🎸",
}

// PlatformName resolves a platform key to its display name. Unknown keys are
// shown as-is.
func PlatformName(key string) string {
	if name, ok := platformNames[key]; ok {
		return name
	}
	return key
}

// ProviderName resolves a provider key to its display name.
func ProviderName(key string) string {
	if name, ok := providerNames[key]; ok {
		return name
	}
	return key
}

// GameName resolves a game key to its display name. Unknown keys fall back to
// title-cased words.
func GameName(key string) string {
	if name, ok := gameNames[key]; ok {
		return name
	}

	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
