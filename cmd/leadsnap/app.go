package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"leadsnap-engine/internal/classify"
	"leadsnap-engine/internal/config"
	"leadsnap-engine/internal/domain"
	"leadsnap-engine/internal/events"
	"leadsnap-engine/internal/logging"
	"leadsnap-engine/internal/pipeline"
	"leadsnap-engine/internal/scrape"
	"leadsnap-engine/internal/secrets"
	"leadsnap-engine/internal/store"
	"leadsnap-engine/internal/tabs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	dbFile   = "leadsnap.db"
	lockFile = "snap.lock"
)

// app holds the wired engine for one command invocation.
type app struct {
	dataDir string
	cfgPath string
	cfgVal  *atomic.Value // stores config.Config
	log     *zap.Logger

	db        *store.DB
	leads     store.Leads
	hub       *events.Hub
	analyzer  *classify.Reloadable
	snapper   *pipeline.Snapper
	dashboard *pipeline.Dashboard
}

func dataDirFlag(cmd *cobra.Command) string {
	v, _ := cmd.Flags().GetString("data-dir")
	return config.DataDir(v)
}

// loadConfig bootstraps and reads config.yml without opening anything else.
func loadConfig(dataDir string) (string, config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return "", config.Config{}, fmt.Errorf("load .env: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", config.Config{}, err
	}
	cfgPath, err := config.EnsureUserConfig(dataDir, filepath.Join("config", config.FileName))
	if err != nil {
		return "", config.Config{}, fmt.Errorf("config bootstrap failed: %w", err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return cfgPath, cfg, fmt.Errorf("config load failed (%s): %w", cfgPath, err)
	}
	return cfgPath, cfg, nil
}

func newApp(dataDir string) (*app, error) {
	cfgPath, cfg, err := loadConfig(dataDir)
	if err != nil {
		return nil, err
	}
	normalized, vr := config.NormalizeAndValidate(cfg)
	if !vr.OK() {
		return nil, &config.ValidationError{Errors: vr.Errors}
	}

	log, err := logging.New(logging.Config{Level: normalized.Log.Level, Format: normalized.Log.Format})
	if err != nil {
		return nil, err
	}
	for _, w := range vr.Warnings {
		log.Warn("config", zap.String("warning", w))
	}

	db, err := store.Open(filepath.Join(dataDir, dbFile))
	if err != nil {
		return nil, err
	}

	a := &app{
		dataDir:  dataDir,
		cfgPath:  cfgPath,
		cfgVal:   &atomic.Value{},
		log:      log,
		db:       db,
		leads:    store.Leads{DB: db.Pool},
		hub:      events.NewHub(),
		analyzer: &classify.Reloadable{},
	}
	a.cfgVal.Store(normalized)

	if err := a.reload(); err != nil {
		_ = db.Close()
		return nil, err
	}

	a.snapper = pipeline.NewSnapper(liveMessenger{a: a}, a.analyzer, a.leads, pipeline.SnapperOptions{
		LockPath: filepath.Join(dataDir, lockFile),
		OnLead: func(r domain.LeadRecord) {
			a.hub.Publish(events.NewLeadCreated("", r))
		},
		OnState: func(st pipeline.State) {
			a.hub.Publish(events.NewSnapState("", string(st)))
		},
	}, log.Named("snap"))
	a.dashboard = pipeline.NewDashboard(a.leads, log.Named("dashboard"))

	return a, nil
}

func (a *app) Close() {
	_ = a.log.Sync()
	_ = a.db.Close()
}

func (a *app) cfg() config.Config {
	return a.cfgVal.Load().(config.Config)
}

func (a *app) loadCfg() (config.Config, error) {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return cfg, err
	}
	normalized, _ := config.NormalizeAndValidate(cfg)
	return normalized, nil
}

// reload rebuilds the classifier from the current config and key.
func (a *app) reload() error {
	cfg := a.cfg()
	key, src, err := secrets.OpenAIKey(cfg.OpenAI.KeyringAccount)
	if err != nil {
		a.log.Warn("no OpenAI API key found; leads will be saved as Cold")
	} else {
		a.log.Debug("OpenAI API key loaded", zap.String("source", string(src)))
	}

	c, err := classify.New(classify.Options{
		APIKey:            key,
		Model:             cfg.OpenAI.Model,
		BaseURL:           cfg.OpenAI.BaseURL,
		RequestsPerMinute: cfg.OpenAI.RequestsPerMinute,
	}, a.log.Named("classify"))
	if err != nil {
		return err
	}
	a.analyzer.Store(c)
	return nil
}

func (a *app) keyStatus() (bool, string) {
	_, src, err := secrets.OpenAIKey(a.cfg().OpenAI.KeyringAccount)
	return err == nil, string(src)
}

func scrapeOptions(cfg config.Config) scrape.Options {
	o := scrape.DefaultOptions()
	o.Window = cfg.Scrape.MaxMessages
	o.MaxRowChars = cfg.Scrape.MaxRowChars
	o.Names.MinLen = cfg.Scrape.NameMinLen
	o.Names.MaxLen = cfg.Scrape.NameMaxLen
	if len(cfg.Scrape.PlaceholderTexts) > 0 {
		o.Names.Placeholders = cfg.Scrape.PlaceholderTexts
	}
	return o
}

func (a *app) contentScript(src tabs.PageSource) tabs.ContentScript {
	cfg := a.cfg()
	return tabs.ContentScript{
		Source:   src,
		Handler:  scrape.NewHandler(scrapeOptions(cfg), a.log.Named("scrape")),
		MatchURL: cfg.Browser.MatchURL,
	}
}

func (a *app) browserSource() tabs.RodSource {
	cfg := a.cfg()
	return tabs.RodSource{
		DebuggerURL: cfg.Browser.DebuggerURL,
		MatchURL:    cfg.Browser.MatchURL,
		Timeout:     time.Duration(cfg.Browser.TimeoutSeconds) * time.Second,
		Log:         a.log.Named("browser"),
	}
}

// liveMessenger messages the browser tab chosen by the current config.
type liveMessenger struct {
	a *app
}

func (m liveMessenger) SendMessage(ctx context.Context, req scrape.Request) (scrape.Response, error) {
	return m.a.contentScript(m.a.browserSource()).SendMessage(ctx, req)
}
