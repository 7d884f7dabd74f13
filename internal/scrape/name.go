package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	selHeader           = "#main header"
	selHeaderTitle      = "#main header span[title]"
	selPanelHeaderTitle = `[data-testid="conversation-panel-header"] span[title]`
)

// NameStrategy is one tier of the contact name lookup.
type NameStrategy struct {
	Name string
	Find func(doc *goquery.Document, r NameRules) (string, bool)
}

// NameStrategies are tried in order; the first valid hit wins.
func NameStrategies() []NameStrategy {
	return []NameStrategy{
		{Name: "header-title", Find: headerTitle},
		{Name: "panel-header-title", Find: panelHeaderTitle},
		{Name: "header-any-title", Find: headerAnyTitle},
		{Name: "header-text", Find: headerText},
	}
}

func headerTitle(doc *goquery.Document, r NameRules) (string, bool) {
	return firstTitle(doc.Find(selHeaderTitle), r)
}

func panelHeaderTitle(doc *goquery.Document, r NameRules) (string, bool) {
	return firstTitle(doc.Find(selPanelHeaderTitle), r)
}

// firstTitle only looks at the first match, like querySelector would.
func firstTitle(sel *goquery.Selection, r NameRules) (string, bool) {
	title, ok := sel.First().Attr("title")
	if !ok || !IsValidName(title, r) {
		return "", false
	}
	return strings.TrimSpace(title), true
}

func headerAnyTitle(doc *goquery.Document, r NameRules) (string, bool) {
	var name string
	doc.Find(selHeader).First().Find("span[title]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		title, ok := s.Attr("title")
		if ok && IsValidName(title, r) {
			name = strings.TrimSpace(title)
			return false
		}
		return true
	})
	return name, name != ""
}

func headerText(doc *goquery.Document, r NameRules) (string, bool) {
	var name string
	doc.Find(selHeader).First().Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		// skip button labels
		if IsValidName(text, r) && s.Closest("button").Length() == 0 {
			name = text
			return false
		}
		return true
	})
	return name, name != ""
}
