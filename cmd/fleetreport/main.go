package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-tangra/go-tangra-fleetreport/internal/config"
	"github.com/go-tangra/go-tangra-fleetreport/internal/engine"
	"github.com/go-tangra/go-tangra-fleetreport/internal/logger"
	"github.com/go-tangra/go-tangra-fleetreport/internal/store"
	"github.com/go-tangra/go-tangra-fleetreport/internal/vim"
)

var (
	version    = "dev"
	commitHash = "unknown"
	buildDate  = "unknown"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "fleetreport",
	Short: "Fleet Report - hypervisor host inventory across management endpoints",
	Long: `Fleet Report connects to one or more virtualization management endpoints,
collects per-host hardware, firmware, network, and configuration attributes
in parallel, and writes a delimited report plus a formatted spreadsheet.

Run without a subcommand to collect and write the reports (equivalent to 'run').`,
	RunE: runReport,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Collect the fleet inventory and write the reports",
	RunE:  runReport,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fleetreport %s (commit: %s, built: %s)\n", version, commitHash, buildDate)
	},
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List archived report runs",
	RunE:  runList,
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Purge archived runs older than the specified number of days",
	RunE:  runPurge,
}

var (
	purgeDays int
	runsLimit int
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./configs/fleetreport.yaml)")
	rootCmd.PersistentFlags().StringSlice("endpoint", nil, "management endpoint to inventory (repeatable, overrides config)")
	rootCmd.PersistentFlags().Int("max-concurrent", 0, "concurrent endpoint collections (default 4)")
	rootCmd.PersistentFlags().String("output", "", "report output directory (default .)")
	rootCmd.PersistentFlags().String("database", "", "SQLite run archive path (empty = no archive)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("insecure", false, "skip TLS certificate verification")

	purgeCmd.Flags().IntVar(&purgeDays, "days", 90, "purge runs older than this many days")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum number of runs to list")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(purgeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// CLI flag overrides.
	if v, _ := cmd.Flags().GetStringSlice("endpoint"); len(v) > 0 {
		cfg.Endpoints = v
	}
	if v, _ := cmd.Flags().GetInt("max-concurrent"); v > 0 {
		cfg.MaxConcurrent = v
	}
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		cfg.OutputDir = v
	}
	if v, _ := cmd.Flags().GetString("database"); v != "" {
		cfg.DatabasePath = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := cmd.Flags().GetBool("insecure"); v {
		cfg.InsecureSkipVerify = true
	}

	return cfg, nil
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel)

	var st *store.Store
	if cfg.DatabasePath != "" {
		st, err = store.New(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()
	}

	client := vim.NewRESTClient(vim.RESTClientConfig{
		Timeout:            cfg.ConnectTimeout,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	})

	// SIGINT/SIGTERM stop new connections; running tasks finish on their own.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return engine.New(cfg, client, st, log).Run(ctx)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.DatabasePath == "" {
		return fmt.Errorf("no run archive configured")
	}

	st, err := store.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	runs, err := st.List(context.Background(), runsLimit)
	if err != nil {
		return err
	}

	for _, r := range runs {
		fmt.Printf("%d  %s  %s  endpoints=%d failed=%d hosts=%d nics=%d\n",
			r.ID, r.RunID, r.StartedAt.Format(time.RFC3339),
			r.Endpoints, r.Failed, r.Hosts, r.Nics)
	}
	return nil
}

func runPurge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.DatabasePath == "" {
		return fmt.Errorf("no run archive configured")
	}

	st, err := store.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	n, err := st.Purge(context.Background(), time.Duration(purgeDays)*24*time.Hour)
	if err != nil {
		return fmt.Errorf("purge: %w", err)
	}

	fmt.Printf("Purged %d runs older than %d days\n", n, purgeDays)
	return nil
}
