package main

import (
	"bufio"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"leadsnap-engine/internal/config"
	"leadsnap-engine/internal/pipeline"
	"leadsnap-engine/internal/scrape"
	"leadsnap-engine/internal/secrets"
	"leadsnap-engine/internal/tabs"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newSnapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snap",
		Short: "Capture the open chat, classify it and save the lead",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(dataDirFlag(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			htmlPath, _ := cmd.Flags().GetString("html")
			output, _ := cmd.Flags().GetString("output")

			var spinner *pterm.SpinnerPrinter
			if output != "json" {
				spinner, _ = pterm.DefaultSpinner.Start("Extracting Deal Info...")
			}
			var card pipeline.LeadCard
			if htmlPath != "" {
				card, err = a.snapper.SnapFrom(cmd.Context(), a.contentScript(snapshotSource(htmlPath, a)))
			} else {
				card, err = a.snapper.Snap(cmd.Context())
			}
			if spinner != nil {
				_ = spinner.Stop()
			}

			var alert *pipeline.Alert
			if errors.As(err, &alert) {
				pterm.Warning.Println(alert.Message)
				return alert
			}
			if err != nil {
				return err
			}

			if output == "json" {
				return writeJSON(cmd.OutOrStdout(), card)
			}
			renderCard(card)
			return nil
		},
	}
	cmd.Flags().String("html", "", "Use a saved chat page instead of the live browser tab")
	cmd.Flags().StringP("output", "o", "", "Output format (json)")
	return cmd
}

// snapshotSource treats a saved page as if it were open at the chat site.
func snapshotSource(path string, a *app) tabs.FileSource {
	return tabs.FileSource{Path: path, URL: a.cfg().Browser.MatchURL}
}

func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Run only the chat extraction and print what was found",
		RunE: func(cmd *cobra.Command, args []string) error {
			htmlPath, _ := cmd.Flags().GetString("html")
			output, _ := cmd.Flags().GetString("output")

			_, cfg, err := loadConfig(dataDirFlag(cmd))
			if err != nil {
				return err
			}
			cfg, _ = config.NormalizeAndValidate(cfg)

			var src tabs.PageSource = tabs.FileSource{Path: htmlPath, URL: cfg.Browser.MatchURL}
			if htmlPath == "" {
				src = tabs.RodSource{
					DebuggerURL: cfg.Browser.DebuggerURL,
					MatchURL:    cfg.Browser.MatchURL,
					Timeout:     time.Duration(cfg.Browser.TimeoutSeconds) * time.Second,
				}
			}
			cs := tabs.ContentScript{
				Source:   src,
				Handler:  scrape.NewHandler(scrapeOptions(cfg), nil),
				MatchURL: cfg.Browser.MatchURL,
			}

			resp, err := cs.SendMessage(cmd.Context(), scrape.Request{Action: scrape.ActionScrapeChat})
			if err != nil {
				return err
			}
			if output == "json" {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			if !resp.Success {
				return errors.New(resp.Error)
			}
			renderScrape(*resp.Data)
			return nil
		},
	}
	cmd.Flags().String("html", "", "Saved chat page (default: live browser tab)")
	cmd.Flags().StringP("output", "o", "", "Output format (json)")
	return cmd
}

func newLeadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "Show the pipeline dashboard, newest lead first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(dataDirFlag(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			output, _ := cmd.Flags().GetString("output")
			if output == "json" {
				return writeJSON(cmd.OutOrStdout(), a.dashboard.Load(cmd.Context()))
			}

			spinner, _ := pterm.DefaultSpinner.Start(pipeline.LoadingText)
			view := a.dashboard.Load(cmd.Context())
			_ = spinner.Stop()
			renderDashboard(view)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output format (json)")
	return cmd
}

func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the OpenAI API key in the OS keychain",
	}

	account := func(cmd *cobra.Command) (string, error) {
		_, cfg, err := loadConfig(dataDirFlag(cmd))
		if err != nil {
			return "", err
		}
		return cfg.OpenAI.KeyringAccount, nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set [KEY]",
		Short: "Store the key (read from stdin when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := account(cmd)
			if err != nil {
				return err
			}
			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read key: %w", err)
				}
				key = strings.TrimSpace(line)
			}
			if err := secrets.SetOpenAIKey(acct, key); err != nil {
				return err
			}
			pterm.Success.Printfln("OpenAI API key stored (service %s, account %s)", secrets.KeyringService, acct)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete",
		Short: "Remove the key from the keychain",
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := account(cmd)
			if err != nil {
				return err
			}
			if err := secrets.DeleteOpenAIKey(acct); err != nil {
				return err
			}
			pterm.Success.Println("OpenAI API key deleted")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show where the key is read from",
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := account(cmd)
			if err != nil {
				return err
			}
			_, src, err := secrets.OpenAIKey(acct)
			if err != nil {
				pterm.Warning.Println("No OpenAI API key configured; snaps are saved as Cold leads")
				return nil
			}
			pterm.Success.Printfln("OpenAI API key found (%s)", src)
			return nil
		},
	})
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the engine configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := loadConfig(dataDirFlag(cmd))
			if err != nil {
				return err
			}
			abs, _ := filepath.Abs(p)
			fmt.Fprintln(cmd.OutOrStdout(), abs)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check config.yml for errors and warnings",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadConfig(dataDirFlag(cmd))
			if err != nil {
				return err
			}
			_, vr := config.NormalizeAndValidate(cfg)
			for _, w := range vr.Warnings {
				pterm.Warning.Println(w)
			}
			if !vr.OK() {
				for _, e := range vr.Errors {
					pterm.Error.Println(e)
				}
				return &config.ValidationError{Errors: vr.Errors}
			}
			pterm.Success.Println("config is valid")
			return nil
		},
	})
	return cmd
}
