package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"leadsnap-engine/internal/httpapi"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const envShutdownToken = "LEADSNAP_SHUTDOWN_TOKEN"

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the local API the extension side panel talks to",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(dataDirFlag(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	mux := httpapi.NewMux(httpapi.Deps{
		Log:           a.log.Named("http"),
		Hub:           a.hub,
		CfgVal:        a.cfgVal,
		UserCfgPath:   a.cfgPath,
		LoadCfg:       a.loadCfg,
		Snapper:       a.snapper,
		Dashboard:     a.dashboard,
		ContentScript: a.contentScript,
		Reload:        a.reload,
		KeyStatus:     a.keyStatus,
	})

	// Loopback only; the extension and the CLI run on the same machine.
	addr := fmt.Sprintf("127.0.0.1:%d", a.cfg().App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		ReadHeaderTimeout: 5 * time.Second,
	}
	if token := strings.TrimSpace(os.Getenv(envShutdownToken)); token != "" {
		mux.HandleFunc("/shutdown", shutdownHandler(token, srv))
	}
	log := a.log.Named("http")
	srv.Handler = httpapi.Chain(mux, httpapi.RequestID, httpapi.Recover(log), httpapi.AccessLog(log), httpapi.Cors)

	a.log.Info("engine listening", zap.String("addr", "http://"+addr), zap.String("data_dir", a.dataDir))
	pterm.Info.Printfln("leadsnap engine listening on http://%s", addr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

func shutdownHandler(token string, srv *http.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if host != "127.0.0.1" && host != "::1" && host != "localhost" {
			httpapi.WriteError(w, r, http.StatusForbidden, "forbidden", "forbidden")
			return
		}

		got := r.Header.Get("X-Shutdown-Token")
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			httpapi.WriteError(w, r, http.StatusUnauthorized, "unauthorized", "unauthorized")
			return
		}

		// respond first, then shut down
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("shutting down\n"))

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}
}
