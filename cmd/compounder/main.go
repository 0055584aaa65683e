// compounder: intrinsic P/E valuation of NSE-listed companies from their
// Screener.in statements.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/seenimoa/compounder/api"
	"github.com/seenimoa/compounder/internal/analysis/fundamental"
	"github.com/seenimoa/compounder/internal/config"
	"github.com/seenimoa/compounder/internal/datasource"
	"github.com/seenimoa/compounder/internal/document"
	"github.com/seenimoa/compounder/internal/infra"
	"github.com/seenimoa/compounder/internal/pipeline"
	"github.com/seenimoa/compounder/internal/report"
	"github.com/seenimoa/compounder/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global state, populated by the root command's PersistentPreRunE.
var (
	cfg    *config.Config
	logger zerolog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "compounder",
	Short: "compounder — intrinsic P/E valuation for NSE stocks",
	Long: `compounder values a listed company from its Screener.in page.

It extracts the statement tables and compounded growth rates, then runs a
three-phase discounted cash flow (high growth, fade, terminal) to derive
an intrinsic P/E and compares it with the market P/E.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		if f, _ := cmd.Flags().GetString("log-format"); f != "" {
			cfg.Logging.Format = f
		}
		logger = infra.NewLogger(cfg.Logging)

		if err := applyValuationFlags(cmd, &cfg.Valuation); err != nil {
			return err
		}
		return cfg.Valuation.Validate()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file path (default: ./config/config.yaml)")
	pf.String("log-level", "", "log level override (debug, info, warn, error)")
	pf.String("log-format", "", "log format override (text, json)")
	addValuationFlags(rootCmd)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(valueCmd)
	rootCmd.AddCommand(sensitivityCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// addValuationFlags registers the assumption overrides. Unset flags leave
// the configured value alone.
func addValuationFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.Float64("coc", 0, "cost of capital, % (8-16)")
	pf.Float64("growth", 0, "growth rate during the high growth period, % (8-20)")
	pf.Int("high-growth", 0, "high growth period, years (10-25)")
	pf.Int("fade", 0, "fade period, years (5, 10, 15 or 20)")
	pf.Float64("terminal", 0, "terminal growth rate, % (0-7.5)")
	pf.Float64("roce", 0, "RoCE assumption, % (10-100)")
	pf.String("eps-period", "", `EPS column label, e.g. "Mar 2024", or "latest"`)
}

// applyValuationFlags copies explicitly set assumption flags onto v.
func applyValuationFlags(cmd *cobra.Command, v *config.ValuationConfig) error {
	flags := cmd.Flags()
	floats := map[string]*float64{
		"coc":      &v.CostOfCapital,
		"growth":   &v.GrowthRate,
		"terminal": &v.TerminalGrowthRate,
		"roce":     &v.ROCE,
	}
	for name, dst := range floats {
		if !flags.Changed(name) {
			continue
		}
		f, err := flags.GetFloat64(name)
		if err != nil {
			return err
		}
		*dst = f
	}

	ints := map[string]*int{
		"high-growth": &v.HighGrowthPeriod,
		"fade":        &v.FadePeriod,
	}
	for name, dst := range ints {
		if !flags.Changed(name) {
			continue
		}
		n, err := flags.GetInt(name)
		if err != nil {
			return err
		}
		*dst = n
	}

	if flags.Changed("eps-period") {
		p, err := flags.GetString("eps-period")
		if err != nil {
			return err
		}
		v.EPSPeriod = p
	}
	return nil
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("compounder %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Value Command ---

var valueCmd = &cobra.Command{
	Use:   "value [ticker]",
	Short: "Value a company and print the report",
	Long: `Fetch the company's Screener.in page (or read a saved copy with --file),
extract its statements and compute the intrinsic P/E.

The report is printed even when the valuation itself is unavailable; the
command then exits non-zero.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		f, err := report.ParseFormat(format)
		if err != nil {
			return err
		}
		noTables, _ := cmd.Flags().GetBool("no-tables")
		output, _ := cmd.Flags().GetString("output")

		symbol := utils.NormalizeTicker(args[0])
		doc, err := loadDocument(cmd, symbol)
		if err != nil {
			return err
		}
		rep, runErr := newPipeline().Run(symbol, doc)

		w := io.Writer(os.Stdout)
		if output != "" {
			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer file.Close()
			w = file
		}

		rcfg := report.DefaultConfig()
		rcfg.ShowTables = !noTables
		if err := report.Render(w, rep, f, rcfg); err != nil {
			return err
		}
		if output != "" {
			fmt.Printf("📄 Report written to %s\n", output)
		}
		return runErr
	},
}

func init() {
	valueCmd.Flags().StringP("format", "f", "text", "output format (text, json, html)")
	valueCmd.Flags().Bool("no-tables", false, "omit the statement tables")
	valueCmd.Flags().StringP("output", "o", "", "write the report to a file instead of stdout")
	addFileFlag(valueCmd)
}

// --- Sensitivity Command ---

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity [ticker]",
	Short: "Show intrinsic P/E over a grid of growth rates and costs of capital",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		gFrom, _ := flags.GetFloat64("growth-from")
		gTo, _ := flags.GetFloat64("growth-to")
		gStep, _ := flags.GetFloat64("growth-step")
		cFrom, _ := flags.GetFloat64("coc-from")
		cTo, _ := flags.GetFloat64("coc-to")
		cStep, _ := flags.GetFloat64("coc-step")
		asJSON, _ := flags.GetBool("json")

		growth := fundamental.Range(gFrom, gTo, gStep)
		costs := fundamental.Range(cFrom, cTo, cStep)
		if len(growth) == 0 || len(costs) == 0 {
			return errors.New("empty growth or cost of capital range")
		}

		symbol := utils.NormalizeTicker(args[0])
		doc, err := loadDocument(cmd, symbol)
		if err != nil {
			return err
		}
		pl := newPipeline()
		rep, err := pl.Run(symbol, doc)
		if errors.Is(err, pipeline.ErrIncompleteData) {
			return err
		}
		grid, err := pl.Sensitivity(cmd.Context(), rep, growth, costs)
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(grid)
		}
		fmt.Printf("%s — EPS %s (%s)\n", symbol, rep.EPS, rep.EPSPeriod)
		fmt.Print(report.SensitivityText(grid))
		return nil
	},
}

func init() {
	f := sensitivityCmd.Flags()
	f.Float64("growth-from", 8, "first growth rate, %")
	f.Float64("growth-to", 20, "last growth rate, %")
	f.Float64("growth-step", 2, "growth rate step")
	f.Float64("coc-from", 8, "first cost of capital, %")
	f.Float64("coc-to", 16, "last cost of capital, %")
	f.Float64("coc-step", 1, "cost of capital step")
	f.Bool("json", false, "print the grid as JSON")
	addFileFlag(sensitivityCmd)
}

// --- Tables Command ---

var tablesCmd = &cobra.Command{
	Use:   "tables [ticker]",
	Short: "Print the statement tables extracted from the company page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		symbol := utils.NormalizeTicker(args[0])
		doc, err := loadDocument(cmd, symbol)
		if err != nil {
			return err
		}
		rep, _ := newPipeline().Run(symbol, doc)

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(api.TablesFrom(rep))
		}
		fmt.Printf("%s (%s)\n", rep.CompanyName, symbol)
		fmt.Print(report.TablesText(rep))
		for _, w := range rep.Warnings {
			fmt.Printf("⚠️  %s\n", w)
		}
		return nil
	},
}

func init() {
	tablesCmd.Flags().Bool("json", false, "print the tables as JSON")
	addFileFlag(tablesCmd)
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		host, _ := cmd.Flags().GetString("host")
		port, _ := cmd.Flags().GetInt("port")
		if host == "" {
			host = cfg.API.Host
		}
		if port == 0 {
			port = cfg.API.Port
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := api.NewServer(cfg, newSource(), logger, version)
		fmt.Printf("🌐 Starting compounder API server on %s:%d\n", host, port)
		return srv.ListenAndServe(ctx, fmt.Sprintf("%s:%d", host, port))
	},
}

func init() {
	serveCmd.Flags().String("host", "", "listen host (default from config)")
	serveCmd.Flags().Int("port", 0, "listen port (default from config)")
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and credential status",
	RunE: func(cmd *cobra.Command, args []string) error {
		v := cfg.Valuation
		s := cfg.Screener

		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  compounder — Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Printf("  Time (IST):    %s\n", utils.FormatDateTimeIST(utils.NowIST()))
		fmt.Println()

		fmt.Println("  Valuation:")
		fmt.Printf("    Cost of Capital:    %g%%\n", v.CostOfCapital)
		fmt.Printf("    Growth Rate:        %g%% for %d years\n", v.GrowthRate, v.HighGrowthPeriod)
		fmt.Printf("    Fade Period:        %d years\n", v.FadePeriod)
		fmt.Printf("    Terminal Growth:    %g%%\n", v.TerminalGrowthRate)
		fmt.Printf("    EPS Period:         %s\n", v.EPSPeriod)
		fmt.Println()

		fmt.Println("  Data Source:")
		fmt.Printf("    Screener:      %s (consolidated: %t)\n", s.BaseURL, s.Consolidated)
		fmt.Printf("    Rate Limit:    %g req/s, cache %s\n", s.RequestsPerSec, s.CacheDuration())
		fmt.Printf("    API Server:    %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Println()

		fmt.Println("  Credentials:")
		for _, k := range config.CheckCredentials(cfg) {
			status := "❌ not set"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("    %-25s %s\n", k.Name+":", status)
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}

// --- Helpers ---

func addFileFlag(cmd *cobra.Command) {
	cmd.Flags().String("file", "", "read a saved company page instead of fetching it")
}

func newPipeline() *pipeline.Pipeline {
	return pipeline.New(pipeline.ParamsFromConfig(cfg.Valuation), logger)
}

func newSource() *datasource.Screener {
	s := cfg.Screener
	return datasource.NewScreener(datasource.ScreenerOptions{
		BaseURL:        s.BaseURL,
		Timeout:        s.Timeout(),
		RequestsPerSec: s.RequestsPerSec,
		CacheTTL:       s.CacheDuration(),
		Consolidated:   s.Consolidated,
		SessionID:      s.SessionID,
	}, logger)
}

// loadDocument reads --file when given, otherwise fetches the page.
func loadDocument(cmd *cobra.Command, symbol string) (document.Document, error) {
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		return datasource.LoadFile(path)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return newSource().FetchDocument(ctx, symbol)
}
