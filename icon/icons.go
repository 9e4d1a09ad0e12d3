package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Fail Icon = iota + 1
	Success
	Progress
	Warn
	Question
	Mark
	Cached
	Lock
)

var icons = map[Icon]*iconDef{
	Fail: {
		emoji:   "💀",
		nerd:    "",
		plain:   "X",
		kaomoji: "(×_×)",
		squares: "🟥",
	},
	Success: {
		emoji:   "🎉",
		nerd:    "",
		plain:   "✓",
		kaomoji: "(ᵔᴥᵔ)",
		squares: "🟩",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "...",
		kaomoji: "(•_•)",
		squares: "🟦",
	},
	Warn: {
		emoji:   "⚠️",
		nerd:    "",
		plain:   "!",
		kaomoji: "(o_O)",
		squares: "🟨",
	},
	Question: {
		emoji:   "🤨",
		nerd:    "",
		plain:   "?",
		kaomoji: "(?_?)",
		squares: "🟪",
	},
	Mark: {
		emoji:   "▶️",
		nerd:    "",
		plain:   "*",
		kaomoji: "(>_<)",
		squares: "🟧",
	},
	Cached: {
		emoji:   "📦",
		nerd:    "",
		plain:   "c",
		kaomoji: "(^_^)",
		squares: "🟫",
	},
	Lock: {
		emoji:   "🔒",
		nerd:    "",
		plain:   "#",
		kaomoji: "(-_-)",
		squares: "⬛",
	},
}
