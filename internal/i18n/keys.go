package i18n

// Message keys. Every key must exist in the English catalog.
const (
	KeySystemPrompt    = "prompt.system"
	KeyStatsBlock      = "prompt.stats"
	KeyRulesExcerpt    = "prompt.rules"
	KeyRemindCoords    = "reminder.coordinates"
	KeyRemindCombat    = "reminder.combat"
	KeyRemindCompanion = "reminder.companions"

	KeyCorrectRollQuestion = "correction.roll_and_question"
	KeyCorrectMissingRoll  = "correction.missing_roll"
	KeyCorrectCoordinates  = "correction.coordinates"

	KeyRollResult        = "roll.result"
	KeyRollResultLabeled = "roll.result_labeled"
	KeyRollGroupHeader   = "roll.group_header"
	KeyRollGroupLine     = "roll.group_line"

	KeyModelUnavailable = "error.model_unavailable"
	KeyNoCompanions     = "companions.none"

	KeyStatSTR = "stat.str"
	KeyStatDEX = "stat.dex"
	KeyStatCON = "stat.con"
	KeyStatINT = "stat.int"
	KeyStatWIS = "stat.wis"
	KeyStatCHA = "stat.cha"
)
