package locale

// Message key constants for the command surface. Conversation flow prompts
// carry their own wording inline; only command replies go through the
// localizer.
const (
	Welcome         = "Welcome"
	WelcomeReferred = "WelcomeReferred"
	MainMenuTitle   = "MainMenuTitle"

	HelpMessage   = "HelpMessage"
	StatusMessage = "StatusMessage"

	UnknownCommand = "UnknownCommand"
	CasualRedirect = "CasualRedirect"

	PointsUnavailable  = "PointsUnavailable"
	HistoryUnavailable = "HistoryUnavailable"
)
