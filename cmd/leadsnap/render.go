package main

import (
	"encoding/json"
	"io"

	"leadsnap-engine/internal/domain"
	"leadsnap-engine/internal/pipeline"

	"github.com/pterm/pterm"
)

func toneStyle(t pipeline.Tone) *pterm.Style {
	switch t {
	case pipeline.ToneHot:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	case pipeline.ToneWarm:
		return pterm.NewStyle(pterm.FgYellow, pterm.Bold)
	case pipeline.ToneClosed:
		return pterm.NewStyle(pterm.FgGreen, pterm.Bold)
	case pipeline.ToneCold:
		return pterm.NewStyle(pterm.FgGray)
	default:
		return pterm.NewStyle(pterm.FgBlue)
	}
}

// renderCard prints the snap result card.
func renderCard(c pipeline.LeadCard) {
	title := c.Name + "  " + toneStyle(c.Tone).Sprint(c.Status)
	if c.DealValue != "" {
		title += "  " + pterm.NewStyle(pterm.FgGreen, pterm.Bold).Sprint(c.DealValue)
	}
	pterm.DefaultBox.WithTitle(title).Println(
		pterm.Bold.Sprint("SUMMARY") + "\n" + c.Summary + "\n\n" +
			pterm.Bold.Sprint("NEXT STEP") + "\n" + c.NextStep,
	)
}

func renderDashboard(v pipeline.DashboardView) {
	pterm.DefaultSection.Println(v.Title)
	pterm.Println(pterm.Bold.Sprint(v.Headline))
	if len(v.Leads) == 0 {
		return
	}

	rows := pterm.TableData{{"Date", "Contact", "Status", "Deal", "Summary"}}
	for _, c := range v.Leads {
		rows = append(rows, []string{
			c.Date,
			c.Name,
			toneStyle(c.Tone).Sprint(c.Status),
			c.DealValue,
			truncate(c.Summary, 80),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func renderScrape(r domain.ScrapeResult) {
	pterm.Info.Printfln("Contact: %s", r.ContactName)
	if len(r.Messages) == 0 {
		pterm.Warning.Println("No messages found")
		return
	}
	rows := pterm.TableData{{"#", "Message"}}
	for i, m := range r.Messages {
		rows = append(rows, []string{pterm.Sprint(i + 1), truncate(m, 100)})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
