package scrape

import (
	"fmt"
	"strings"
	"testing"

	"leadsnap-engine/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtract_HeaderTitleAndPrePlainText(t *testing.T) {
	doc := mustDoc(t, `<html><body>
<div id="main">
  <header><span title="Jane Doe">Jane Doe</span></header>
  <div data-pre-plain-text="[10:01, 1/2/2025] Jane: "><span class="selectable-text"><span>Hi</span></span></div>
  <div data-pre-plain-text="[10:02, 1/2/2025] Jane: "><span class="selectable-text"></span></div>
  <div data-pre-plain-text="[10:03, 1/2/2025] Me: "><span class="selectable-text"><span>Quote sent: $500</span></span></div>
</div>
</body></html>`)

	rep := Run(doc, DefaultOptions())

	assert.Equal(t, domain.ScrapeResult{
		ContactName: "Jane Doe",
		Messages:    []string{"Hi", "Quote sent: $500"},
	}, rep.Result)
	assert.Equal(t, "header-title", rep.NameStrategy)
	assert.Equal(t, "pre-plain-text", rep.MessageStrategy)
}

func TestExtract_NothingMatches(t *testing.T) {
	doc := mustDoc(t, `<html><body><div class="landing"><p>Use WhatsApp on your phone</p></div></body></html>`)

	res := Extract(doc, DefaultOptions())

	assert.Equal(t, domain.UnknownContact, res.ContactName)
	require.NotNil(t, res.Messages)
	assert.Empty(t, res.Messages)
}

func TestExtract_NameTiers(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		want     string
		wantTier string
	}{
		{
			name: "panel header when main header title is a placeholder",
			html: `<div id="main"><header><span title="Click here for contact info">x</span></header></div>
<div data-testid="conversation-panel-header"><span title="Acme Builders">Acme Builders</span></div>`,
			want:     "Acme Builders",
			wantTier: "panel-header-title",
		},
		{
			name: "later title in header when the first one is rejected",
			html: `<div id="main"><header>
<span title="Search">s</span>
<span title="12:30">t</span>
<span title="Ravi Kumar">Ravi Kumar</span>
</header></div>`,
			want:     "Ravi Kumar",
			wantTier: "header-any-title",
		},
		{
			name: "plain header text outside of buttons",
			html: `<div id="main"><header>
<button><span>Video call</span></button>
<div><span>Maria Lopez</span></div>
</header></div>`,
			want:     "Maria Lopez",
			wantTier: "header-text",
		},
		{
			name: "placeholders everywhere fall back to the sentinel",
			html: `<div id="main"><header>
<span title="Profile details">Type a message</span>
<button><span>Group info</span></button>
</header></div>`,
			want:     domain.UnknownContact,
			wantTier: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := Run(mustDoc(t, tt.html), DefaultOptions())
			assert.Equal(t, tt.want, rep.Result.ContactName)
			assert.Equal(t, tt.wantTier, rep.NameStrategy)
		})
	}
}

func TestExtract_WindowKeepsMostRecent(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<div id="main">`)
	for i := 1; i <= 20; i++ {
		fmt.Fprintf(&b, `<div data-pre-plain-text="x"><span class="selectable-text">msg %d</span></div>`, i)
	}
	b.WriteString(`</div>`)

	res := Extract(mustDoc(t, b.String()), DefaultOptions())

	require.Len(t, res.Messages, RecentMessageWindow)
	assert.Equal(t, "msg 6", res.Messages[0])
	assert.Equal(t, "msg 20", res.Messages[RecentMessageWindow-1])
}

func TestExtract_WindowAppliedBeforeBlankFilter(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 15; i++ {
		fmt.Fprintf(&b, `<div data-pre-plain-text="x">msg %d</div>`, i)
	}
	b.WriteString(`<div data-pre-plain-text="x">   </div>`)

	res := Extract(mustDoc(t, b.String()), DefaultOptions())

	require.Len(t, res.Messages, 14)
	assert.Equal(t, "msg 2", res.Messages[0])
	for _, m := range res.Messages {
		assert.NotEmpty(t, strings.TrimSpace(m))
	}
}

func TestExtract_RowsDropPanelSizedText(t *testing.T) {
	long := strings.Repeat("x", MaxRowChars)
	justUnder := strings.Repeat("y", MaxRowChars-1)
	doc := mustDoc(t, `<div id="main">
<div role="row"><div class="copyable"><span class="selectable-text">Can you do Friday?</span></div></div>
<div role="row">`+long+`</div>
<div role="row">`+justUnder+`</div>
<div role="row"><span>Yes, 3pm works</span></div>
<div role="row">  </div>
</div>`)

	rep := Run(doc, DefaultOptions())

	assert.Equal(t, "row", rep.MessageStrategy)
	assert.Equal(t, []string{"Can you do Friday?", justUnder, "Yes, 3pm works"}, rep.Result.Messages)
}

func TestExtract_WindowAppliesToEveryTier(t *testing.T) {
	tests := []struct {
		tier string
		node string
	}{
		{"row", `<div role="row"><span class="selectable-text">msg %d</span></div>`},
		{"bubble", `<div class="message-in"><span class="selectable-text">msg %d</span></div>`},
		{"selectable-text", `<p><span class="selectable-text">msg %d</span></p>`},
	}
	for _, tt := range tests {
		t.Run(tt.tier, func(t *testing.T) {
			var b strings.Builder
			b.WriteString(`<div id="main">`)
			for i := 1; i <= 20; i++ {
				fmt.Fprintf(&b, tt.node, i)
			}
			b.WriteString(`</div>`)

			rep := Run(mustDoc(t, b.String()), DefaultOptions())

			assert.Equal(t, tt.tier, rep.MessageStrategy)
			require.Len(t, rep.Result.Messages, RecentMessageWindow)
			for i, m := range rep.Result.Messages {
				assert.Equal(t, fmt.Sprintf("msg %d", i+6), m)
			}
		})
	}
}

func TestExtract_Bubbles(t *testing.T) {
	doc := mustDoc(t, `<div id="main">
<div class="message-in"><div data-testid="msg-text">Need a logo</div></div>
<div class="message-out"><span class="selectable-text">Sure, 200 USD</span></div>
<div class="message-in"><img src="sticker.webp"></div>
</div>`)

	rep := Run(doc, DefaultOptions())

	assert.Equal(t, "bubble", rep.MessageStrategy)
	assert.Equal(t, []string{"Need a logo", "Sure, 200 USD"}, rep.Result.Messages)
}

func TestExtract_SelectableTextLastResort(t *testing.T) {
	doc := mustDoc(t, `<div id="side"><span class="selectable-text">chat list preview</span></div>
<div id="main"><section>
<span class="selectable-text">first</span>
<span class="selectable-text"> </span>
<span class="selectable-text">second</span>
</section></div>`)

	rep := Run(doc, DefaultOptions())

	assert.Equal(t, "selectable-text", rep.MessageStrategy)
	assert.Equal(t, []string{"first", "second"}, rep.Result.Messages)
}

func TestExtract_TiersAreNotMerged(t *testing.T) {
	doc := mustDoc(t, `<div id="main">
<div data-pre-plain-text="x">from metadata</div>
<div role="row"><span class="selectable-text">from row</span></div>
<div class="message-in"><span class="selectable-text">from bubble</span></div>
</div>`)

	res := Extract(doc, DefaultOptions())

	assert.Equal(t, []string{"from metadata"}, res.Messages)
}

func TestOptions_WindowIsClamped(t *testing.T) {
	o := Options{Window: 40}.withDefaults()
	assert.Equal(t, RecentMessageWindow, o.Window)

	o = Options{Window: 5}.withDefaults()
	assert.Equal(t, 5, o.Window)
	assert.Equal(t, MaxRowChars, o.MaxRowChars)
	assert.Equal(t, DefaultNameRules(), o.Names)
}

func TestExtractHTML(t *testing.T) {
	res := ExtractHTML(strings.NewReader(`<div id="main"><header><span title="Sam Lee"></span></header>
<div role="row"><span class="selectable-text">Need a logo</span></div></div>`), DefaultOptions())

	assert.Equal(t, "Sam Lee", res.ContactName)
	assert.Equal(t, []string{"Need a logo"}, res.Messages)
}
