package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dyike/FinSight/config"
	"github.com/dyike/FinSight/internal/alerts"
	"github.com/dyike/FinSight/internal/logger"
	"github.com/dyike/FinSight/internal/models"
	"github.com/dyike/FinSight/internal/service"
)

const rulesDebounce = 500 * time.Millisecond

// app builds the service lazily so that commands like version and
// config validate work without any provider configured.
type app struct {
	cfg     *config.Config
	svc     *service.Service
	jsonOut bool
}

func (a *app) service(ctx context.Context) (*service.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	if err := a.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	svc, err := service.NewFromConfig(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	a.svc = svc
	return svc, nil
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()
	a := &app{cfg: cfg}

	rootCmd := &cobra.Command{
		Use:   "finsight",
		Short: "FinSight - financial news, sentiment and price alerts",
		Long: `FinSight aggregates financial news, summarizes articles with a local language model,
tracks a watchlist and evaluates price-threshold alerts. Run "finsight serve" to expose
everything as MCP tools over stdio.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				cfg.Debug = true
			}
			if cfg.Debug {
				cfg.LogLevel = "debug"
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return logger.Init(cfg.LogLevel, cfg.LogFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractiveMode(cmd.Context(), a)
		},
	}

	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newContextCmd(a))
	rootCmd.AddCommand(newWrapCmd(a))
	rootCmd.AddCommand(newWatchlistCmd(a))
	rootCmd.AddCommand(newAlertsCmd(a))
	rootCmd.AddCommand(newOpportunitiesCmd(a))
	rootCmd.AddCommand(newTechAlertsCmd(a))
	rootCmd.AddCommand(newConfigCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "Print raw JSON payloads")

	return rootCmd
}

// output prints payload as JSON or through render.
func (a *app) output(w io.Writer, payload any, render func()) error {
	if a.jsonOut {
		return printJSON(w, payload)
	}
	render()
	return nil
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, err := a.service(ctx)
			if err != nil {
				return err
			}
			server, err := newMCPServer(ctx, svc)
			if err != nil {
				return err
			}
			logger.L().WithField("version", Version).Info("Starting Financial MCP Server")
			return server.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func newContextCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "context <query>",
		Short:   "Search news for a query and summarize each article",
		Example: `  finsight context "What about AAPL earnings?"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			resp := svc.FinancialContext(cmd.Context(), strings.Join(args, " "))
			w := cmd.OutOrStdout()
			return a.output(w, resp, func() { renderContext(w, resp) })
		},
	}
}

func newWrapCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "wrap",
		Short: "Show indices, top movers and headlines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			wrap := svc.MarketSummary(cmd.Context())
			w := cmd.OutOrStdout()
			return a.output(w, wrap, func() { renderWrap(w, wrap) })
		},
	}
}

func newWatchlistCmd(a *app) *cobra.Command {
	list := func(cmd *cobra.Command, args []string) error {
		svc, err := a.service(cmd.Context())
		if err != nil {
			return err
		}
		doc := svc.GetPortfolio(cmd.Context())
		w := cmd.OutOrStdout()
		return a.output(w, doc, func() {
			renderWatchlist(w, &models.WatchlistResponse{Tickers: doc.Tickers})
		})
	}

	watchlistCmd := &cobra.Command{
		Use:   "watchlist",
		Short: "Manage the ticker watchlist",
		Args:  cobra.NoArgs,
		RunE:  list,
	}

	watchlistCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show the watchlist",
		Args:  cobra.NoArgs,
		RunE:  list,
	})

	mutate := func(op func(*service.Service, context.Context, string) *models.WatchlistResponse) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			resp := op(svc, cmd.Context(), args[0])
			w := cmd.OutOrStdout()
			if err := a.output(w, resp, func() { renderWatchlist(w, resp) }); err != nil {
				return err
			}
			if resp.Error != "" {
				return errors.New(resp.Error)
			}
			return nil
		}
	}

	watchlistCmd.AddCommand(&cobra.Command{
		Use:   "add <TICKER>",
		Short: "Add a ticker to the watchlist",
		Args:  cobra.ExactArgs(1),
		RunE:  mutate((*service.Service).AddStock),
	})
	watchlistCmd.AddCommand(&cobra.Command{
		Use:   "remove <TICKER>",
		Short: "Remove a ticker from the watchlist",
		Args:  cobra.ExactArgs(1),
		RunE:  mutate((*service.Service).RemoveStock),
	})

	return watchlistCmd
}

func newAlertsCmd(a *app) *cobra.Command {
	alertsCmd := &cobra.Command{
		Use:   "alerts [ALL|TICKER]",
		Short: "Evaluate price alerts for every configured ticker or one ticker",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			selector := "ALL"
			if len(args) == 1 {
				selector = args[0]
			}
			resp := svc.PortfolioAlerts(cmd.Context(), selector)
			w := cmd.OutOrStdout()
			return a.output(w, resp, func() { renderAlerts(w, resp) })
		},
	}

	alertsCmd.AddCommand(&cobra.Command{
		Use:   "watch",
		Short: "Re-evaluate alerts whenever a rules file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, err := a.service(ctx)
			if err != nil {
				return err
			}
			return watchAlerts(ctx, a, svc, cmd.OutOrStdout())
		},
	})

	return alertsCmd
}

func watchAlerts(ctx context.Context, a *app, svc *service.Service, w io.Writer) error {
	evaluate := func(reason string) {
		fmt.Fprintln(w, sectionStyle.Render(fmt.Sprintf("🔔 %s (%s)", reason, time.Now().Format("15:04:05"))))
		resp := svc.PortfolioAlerts(ctx, "ALL")
		if err := a.output(w, resp, func() { renderAlerts(w, resp) }); err != nil {
			logger.L().WithError(err).Error("failed to print alerts")
		}
	}

	evaluate("Initial scan")
	paths := svc.RulePaths()
	logger.L().WithField("paths", strings.Join(paths, ",")).Info("watching alert rules")
	return alerts.WatchRules(ctx, paths, rulesDebounce, func(path string) {
		evaluate("Rules changed: " + path)
	})
}

func newOpportunitiesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "opportunities <TICKER>",
		Short: "Report buy/sell opportunities and nearby support/resistance for a ticker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			var resp *models.AlertsResponse
			if send, _ := cmd.Flags().GetBool("send"); send {
				resp = svc.SendStockAlert(cmd.Context(), args[0])
			} else {
				resp = svc.Opportunities(cmd.Context(), args[0])
			}
			w := cmd.OutOrStdout()
			return a.output(w, resp, func() { renderAlerts(w, resp) })
		},
	}
	cmd.Flags().Bool("send", false, "Forward the opportunities to Telegram")
	return cmd
}

func newTechAlertsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tech-alerts",
		Short: "Evaluate the tech watchlist rules and notify on breaches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			resp := svc.TechAlerts(cmd.Context())
			w := cmd.OutOrStdout()
			return a.output(w, resp, func() { renderAlerts(w, resp) })
		},
	}
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "FinSight v%s\n", Version)
			fmt.Fprintln(cmd.OutOrStdout(), "Financial news, sentiment and alerts over MCP")
		},
	}
}

// newConfigCmd creates the config command
func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(cmd.OutOrStdout(), cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(cmd.OutOrStdout(), cfg)
		},
	})

	return configCmd
}

func configured(v string) string {
	if v != "" {
		return "✅ Configured"
	}
	return "❌ Not configured"
}

func showConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "📋 Current FinSight Configuration:")
	fmt.Fprintln(w, "═══════════════════════════════════════")
	fmt.Fprintf(w, "Project Directory:    %s\n", cfg.ProjectDir)
	fmt.Fprintf(w, "Portfolio File:       %s\n", cfg.PortfolioFile)
	fmt.Fprintf(w, "Alert Rules:          %s\n", cfg.AlertsConfigPath)
	fmt.Fprintf(w, "Tech Alert Rules:     %s\n", cfg.TechAlertsConfigPath)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "News Provider:        %s (max %d results)\n", cfg.NewsProvider, cfg.NewsMaxResults)
	fmt.Fprintf(w, "LLM Provider:         %s\n", cfg.LLMProvider)
	switch cfg.LLMProvider {
	case config.LLMProviderOpenAI:
		fmt.Fprintf(w, "Model:                %s\n", cfg.OpenAIModel)
	case config.LLMProviderDeepSeek:
		fmt.Fprintf(w, "Model:                %s\n", cfg.DeepSeekModel)
	default:
		fmt.Fprintf(w, "Model:                %s @ %s\n", cfg.OllamaModel, cfg.OllamaHost)
	}
	fmt.Fprintf(w, "Summary Timeout:      %s\n", cfg.SummaryTimeout())
	fmt.Fprintf(w, "Summarizer Workers:   %d\n", cfg.SummarizerWorkers)
	fmt.Fprintf(w, "Quote Provider:       %s (%.1f req/s)\n", cfg.QuoteProvider, cfg.QuoteRatePerSec)
	fmt.Fprintf(w, "Log Level:            %s\n", cfg.LogLevel)
	fmt.Fprintf(w, "Log File:             %s\n", cfg.LogFile)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "🔌 API Configuration:")
	fmt.Fprintln(w, "─────────────────────")
	fmt.Fprintf(w, "SerpAPI:              %s\n", configured(cfg.SerpAPIKey))
	fmt.Fprintf(w, "OpenAI:               %s\n", configured(cfg.OpenAIAPIKey))
	fmt.Fprintf(w, "DeepSeek:             %s\n", configured(cfg.DeepSeekAPIKey))
	fmt.Fprintf(w, "Longport:             %s\n", configured(cfg.LongportAccessToken))
	fmt.Fprintf(w, "Telegram:             %s\n", configured(cfg.TelegramBotToken+cfg.TelegramUserID))
}

// validateConfig reports missing credentials as warnings and invalid
// settings as errors.
func validateConfig(w io.Writer, cfg *config.Config) error {
	fmt.Fprintln(w, "🔍 Validating FinSight Configuration...")
	fmt.Fprintln(w, "═══════════════════════════════════════")

	fmt.Fprint(w, "⚙️  Checking configuration values... ")
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(w, "❌")
		return err
	}
	fmt.Fprintln(w, "✅")

	fmt.Fprint(w, "🔑 Checking API keys... ")
	var warnings []string
	if cfg.NewsProvider == config.NewsProviderSerpAPI && cfg.SerpAPIKey == "" {
		warnings = append(warnings, "SERPAPI_API_KEY not set, financial_context will return no articles")
	}
	if cfg.LLMProvider == config.LLMProviderOpenAI && cfg.OpenAIAPIKey == "" {
		warnings = append(warnings, "OPENAI_API_KEY not set")
	}
	if cfg.LLMProvider == config.LLMProviderDeepSeek && cfg.DeepSeekAPIKey == "" {
		warnings = append(warnings, "DEEPSEEK_API_KEY not set")
	}
	if cfg.QuoteProvider == config.QuoteProviderLongport && cfg.LongportAccessToken == "" {
		warnings = append(warnings, "LONGPORT_ACCESS_TOKEN not set")
	}
	if cfg.TelegramBotToken == "" || cfg.TelegramUserID == "" {
		warnings = append(warnings, "TELEGRAM_BOT_TOKEN or TELEGRAM_USER_ID not set, alerts stay local")
	}
	if len(warnings) > 0 {
		fmt.Fprintln(w, "⚠️")
		for _, warning := range warnings {
			fmt.Fprintf(w, "  ⚠️  %s\n", warning)
		}
	} else {
		fmt.Fprintln(w, "✅")
	}

	fmt.Fprint(w, "📄 Checking rule files... ")
	missing := 0
	for _, path := range []string{cfg.AlertsConfigPath, cfg.TechAlertsConfigPath} {
		if _, err := os.Stat(path); err != nil {
			missing++
			warnings = append(warnings, "missing "+path)
		}
	}
	if missing > 0 {
		fmt.Fprintf(w, "⚠️  %d missing\n", missing)
	} else {
		fmt.Fprintln(w, "✅")
	}

	fmt.Fprintln(w)
	if len(warnings) == 0 {
		fmt.Fprintln(w, "✅ Configuration validation completed successfully!")
	} else {
		fmt.Fprintf(w, "⚠️  Configuration validation completed with %d warnings.\n", len(warnings))
	}
	return nil
}
