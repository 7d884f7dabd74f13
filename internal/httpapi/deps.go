package httpapi

import (
	"sync/atomic"

	"leadsnap-engine/internal/config"
	"leadsnap-engine/internal/events"
	"leadsnap-engine/internal/pipeline"
	"leadsnap-engine/internal/tabs"

	"go.uber.org/zap"
)

type Deps struct {
	Log *zap.Logger
	Hub *events.Hub

	CfgVal *atomic.Value // stores config.Config

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	Snapper   *pipeline.Snapper
	Dashboard *pipeline.Dashboard

	// ContentScript binds the scrape handler to a page source; used for
	// pages the extension pushes in a request body.
	ContentScript func(src tabs.PageSource) tabs.ContentScript

	// Reload rebuilds the classifier after the key or config changed.
	Reload func() error

	// KeyStatus reports where the OpenAI key currently comes from.
	KeyStatus func() (configured bool, source string)
}
