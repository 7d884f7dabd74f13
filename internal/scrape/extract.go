package scrape

import (
	"io"

	"leadsnap-engine/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

// Report is an extraction result plus the tiers that produced it.
// Empty tier names mean the sentinel or empty fallback was used.
type Report struct {
	Result          domain.ScrapeResult
	NameStrategy    string
	MessageStrategy string
}

// Run applies the name and message tiers to a page snapshot.
func Run(doc *goquery.Document, o Options) Report {
	o = o.withDefaults()
	rep := Report{
		Result: domain.ScrapeResult{
			ContactName: domain.UnknownContact,
			Messages:    []string{},
		},
	}

	for _, st := range NameStrategies() {
		if name, ok := st.Find(doc, o.Names); ok {
			rep.Result.ContactName = name
			rep.NameStrategy = st.Name
			break
		}
	}

	for _, st := range MessageStrategies() {
		if msgs := st.Collect(doc, o); len(msgs) > 0 {
			rep.Result.Messages = msgs
			rep.MessageStrategy = st.Name
			break
		}
	}
	return rep
}

func Extract(doc *goquery.Document, o Options) domain.ScrapeResult {
	return Run(doc, o).Result
}

// ExtractHTML parses a snapshot and extracts from it. A snapshot that
// cannot be parsed yields the sentinel result.
func ExtractHTML(r io.Reader, o Options) domain.ScrapeResult {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return domain.ScrapeResult{ContactName: domain.UnknownContact, Messages: []string{}}
	}
	return Extract(doc, o)
}
