package scrape

// RecentMessageWindow is how many trailing message nodes a strategy looks at.
// WhatsApp Web renders a conversation oldest first, so the tail of the
// document is the most recent part of the chat. This is an assumption about
// the host page, not something checked here: if the page ever renders newest
// first, the window quietly picks up the oldest messages instead.
const RecentMessageWindow = 15

// MaxRowChars drops row candidates that are long enough to be a whole panel.
const MaxRowChars = 1000

// DefaultPlaceholders are header texts that are UI chrome, not contact names.
var DefaultPlaceholders = []string{
	"click here",
	"contact info",
	"group info",
	"search",
	"type a message",
	"unknown",
	"profile",
}

// NameRules decide whether a header text can be a contact name.
type NameRules struct {
	MinLen       int
	MaxLen       int
	Placeholders []string
	// Texts containing a colon and shorter than this are treated as timestamps.
	TimestampLen int
}

// DefaultNameRules are the bounds and placeholders used for WhatsApp Web.
func DefaultNameRules() NameRules {
	return NameRules{
		MinLen:       2,
		MaxLen:       50,
		Placeholders: DefaultPlaceholders,
		TimestampLen: 10,
	}
}

// Options tune one extraction run.
type Options struct {
	Window      int
	MaxRowChars int
	Names       NameRules
}

// DefaultOptions uses the full message window and the default name rules.
func DefaultOptions() Options {
	return Options{
		Window:      RecentMessageWindow,
		MaxRowChars: MaxRowChars,
		Names:       DefaultNameRules(),
	}
}

// withDefaults fills zero values and keeps Window inside 1..RecentMessageWindow.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Window <= 0 || o.Window > RecentMessageWindow {
		o.Window = def.Window
	}
	if o.MaxRowChars <= 0 {
		o.MaxRowChars = def.MaxRowChars
	}
	if o.Names.MinLen <= 0 {
		o.Names.MinLen = def.Names.MinLen
	}
	if o.Names.MaxLen <= 0 {
		o.Names.MaxLen = def.Names.MaxLen
	}
	if o.Names.Placeholders == nil {
		o.Names.Placeholders = def.Names.Placeholders
	}
	if o.Names.TimestampLen <= 0 {
		o.Names.TimestampLen = def.Names.TimestampLen
	}
	return o
}
