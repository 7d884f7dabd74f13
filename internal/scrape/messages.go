package scrape

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"
)

const (
	selPrePlainText   = "[data-pre-plain-text]"
	selRow            = `div[role="row"]`
	selBubble         = ".message-in, .message-out"
	selBubbleText     = `.selectable-text, [data-testid="msg-text"]`
	selSelectableSpan = "span.selectable-text"
	selMainSelectable = "#main span.selectable-text"
)

// MessageStrategy is one tier of message extraction. Tiers are not merged:
// the first one yielding at least one message wins.
type MessageStrategy struct {
	Name    string
	Collect func(doc *goquery.Document, o Options) []string
}

func MessageStrategies() []MessageStrategy {
	return []MessageStrategy{
		{Name: "pre-plain-text", Collect: prePlainText},
		{Name: "row", Collect: rows},
		{Name: "bubble", Collect: bubbles},
		{Name: "selectable-text", Collect: mainSelectable},
	}
}

func prePlainText(doc *goquery.Document, o Options) []string {
	nodes := tail(doc.Find(selPrePlainText), o.Window)
	return nonBlank(nodes.Map(func(_ int, s *goquery.Selection) string {
		if t := s.Find(selSelectableSpan).First().Text(); t != "" {
			return t
		}
		return s.Text()
	}))
}

func rows(doc *goquery.Document, o Options) []string {
	nodes := tail(doc.Find(selRow), o.Window)
	raw := nodes.Map(func(_ int, s *goquery.Selection) string {
		if t := s.Find(".selectable-text").First().Text(); t != "" {
			return t
		}
		return s.Text()
	})
	raw = lo.Filter(raw, func(m string, _ int) bool {
		return utf8.RuneCountInString(m) < o.MaxRowChars
	})
	return nonBlank(raw)
}

func bubbles(doc *goquery.Document, o Options) []string {
	nodes := tail(doc.Find(selBubble), o.Window)
	return nonBlank(nodes.Map(func(_ int, s *goquery.Selection) string {
		return s.Find(selBubbleText).First().Text()
	}))
}

func mainSelectable(doc *goquery.Document, o Options) []string {
	nodes := tail(doc.Find(selMainSelectable), o.Window)
	return nonBlank(nodes.Map(func(_ int, s *goquery.Selection) string {
		return s.Text()
	}))
}

// tail keeps the last n nodes in document order.
func tail(sel *goquery.Selection, n int) *goquery.Selection {
	if l := sel.Length(); l > n {
		return sel.Slice(l-n, goquery.ToEnd)
	}
	return sel
}

func nonBlank(msgs []string) []string {
	return lo.FilterMap(msgs, func(m string, _ int) (string, bool) {
		m = strings.TrimSpace(m)
		return m, m != ""
	})
}
