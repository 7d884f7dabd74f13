package config

import (
	"fmt"
	"net/url"
	"strings"
)

// MaxMessages is the hard upper bound on scrape.max_messages.
const MaxMessages = 15

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy of cfg and what is wrong with it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.ToLower(strings.TrimSpace(x))
			if x == "" || seen[x] {
				continue
			}
			seen[x] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Scrape.PlaceholderTexts = trimList(out.Scrape.PlaceholderTexts)
	out.Log.Level = strings.ToLower(strings.TrimSpace(out.Log.Level))
	out.Log.Format = strings.ToLower(strings.TrimSpace(out.Log.Format))
	out.OpenAI.Model = strings.TrimSpace(out.OpenAI.Model)
	out.OpenAI.BaseURL = strings.TrimRight(strings.TrimSpace(out.OpenAI.BaseURL), "/")
	out.Browser.MatchURL = strings.TrimSpace(out.Browser.MatchURL)

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	switch out.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		res.addErr("log.level must be one of debug, info, warn, error (got %q)", out.Log.Level)
	}
	switch out.Log.Format {
	case "", "console", "json":
	default:
		res.addErr("log.format must be console or json (got %q)", out.Log.Format)
	}

	if out.OpenAI.Model == "" {
		res.addWarn("openai.model is empty; gpt-4o-mini will be used")
	}
	if out.OpenAI.BaseURL != "" {
		if u, err := url.Parse(out.OpenAI.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			res.addErr("openai.base_url must be an absolute URL")
		}
	}
	if out.OpenAI.RequestsPerMinute < 0 {
		res.addErr("openai.requests_per_minute must be >= 0")
	}
	if strings.TrimSpace(out.OpenAI.KeyringAccount) == "" {
		res.addWarn("openai.keyring_account is empty; only OPENAI_API_KEY will be used")
	}

	if out.Browser.DebuggerURL == "" {
		res.addWarn("browser.debugger_url is empty; live tab capture is disabled")
	}
	if out.Browser.MatchURL == "" {
		res.addWarn("browser.match_url is empty; any open tab will be scraped")
	}
	if out.Browser.TimeoutSeconds < 0 {
		res.addErr("browser.timeout_seconds must be >= 0")
	}

	if out.Scrape.MaxMessages < 1 || out.Scrape.MaxMessages > MaxMessages {
		res.addErr("scrape.max_messages must be 1..%d", MaxMessages)
	}
	if out.Scrape.MaxRowChars <= 0 {
		res.addErr("scrape.max_row_chars must be > 0")
	}
	if out.Scrape.NameMinLen < 0 || out.Scrape.NameMaxLen < out.Scrape.NameMinLen {
		res.addErr("scrape.name_min_len must be >= 0 and <= scrape.name_max_len")
	}
	if len(out.Scrape.PlaceholderTexts) == 0 {
		res.addWarn("scrape.placeholder_texts is empty; header buttons may be read as contact names")
	}

	return out, res
}
