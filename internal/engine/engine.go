// Package engine orchestrates one report run: parallel endpoint collection,
// aggregation, the sequential network adapter pass, report writing, and the
// optional run archive.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-tangra/go-tangra-fleetreport/internal/aggregator"
	"github.com/go-tangra/go-tangra-fleetreport/internal/collector"
	"github.com/go-tangra/go-tangra-fleetreport/internal/config"
	"github.com/go-tangra/go-tangra-fleetreport/internal/inventory"
	"github.com/go-tangra/go-tangra-fleetreport/internal/report"
	"github.com/go-tangra/go-tangra-fleetreport/internal/scheduler"
	"github.com/go-tangra/go-tangra-fleetreport/internal/store"
	"github.com/go-tangra/go-tangra-fleetreport/internal/vim"
)

const (
	hostsCSV     = "fleet-hosts.csv"
	nicsCSV      = "fleet-nics.csv"
	workbookXLSX = "fleet-report.xlsx"
)

// Engine runs the full collection and reporting pipeline.
type Engine struct {
	cfg    *config.Config
	client vim.Client
	store  *store.Store // nil disables archiving
	log    zerolog.Logger
}

// New builds an Engine. store may be nil.
func New(cfg *config.Config, client vim.Client, st *store.Store, log zerolog.Logger) *Engine {
	return &Engine{cfg: cfg, client: client, store: st, log: log}
}

// Run performs one report run end to end. Endpoint failures degrade the
// dataset; only configuration, sink, or archive failures return an error.
func (e *Engine) Run(ctx context.Context) error {
	started := time.Now().UTC()
	runID := uuid.NewString()

	creds := vim.NewCredentialSource(
		vim.Credentials{Username: e.cfg.Username, Password: e.cfg.Password},
		overrides(e.cfg.CredentialOverrides),
	)
	col := collector.New(e.client, creds, e.log)

	// Both passes and the archive see the same deduplicated list.
	endpoints := e.dedupe(e.cfg.Endpoints)

	e.log.Info().
		Str("run", runID).
		Int("endpoints", len(endpoints)).
		Int("max_concurrent", e.cfg.MaxConcurrent).
		Msg("collection started")

	sched := scheduler.New(col.Collect, e.cfg.ProgressInterval, e.log)
	handle := sched.Submit(ctx, endpoints, e.cfg.MaxConcurrent)
	tasks := handle.AwaitAll()

	ds := aggregator.Aggregate(tasks)
	e.log.Info().
		Int("hosts", len(ds.Rows)).
		Int("completed", ds.Completed).
		Int("failed", ds.Failed).
		Msg("aggregation done")

	nics := col.CollectNics(ctx, endpoints)
	e.log.Info().Int("nics", len(nics)).Msg("network adapter pass done")

	if err := e.writeReports(ds.Rows, nics); err != nil {
		return err
	}

	if err := e.archive(ctx, runID, started, len(endpoints), ds, nics); err != nil {
		return err
	}

	e.log.Info().Str("run", runID).Dur("elapsed", time.Since(started)).Msg("report run finished")
	return nil
}

func (e *Engine) writeReports(hosts []inventory.HostRecord, nics []inventory.NicRecord) error {
	if err := os.MkdirAll(e.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	hostTable := inventory.HostTable(hosts)
	nicTable := inventory.NicTable(nics)

	hostsPath := filepath.Join(e.cfg.OutputDir, hostsCSV)
	if err := report.WriteCSV(hostsPath, hostTable); err != nil {
		return fmt.Errorf("write host report: %w", err)
	}
	e.log.Info().Str("path", hostsPath).Msg("host report written")

	nicsPath := filepath.Join(e.cfg.OutputDir, nicsCSV)
	if err := report.WriteCSV(nicsPath, nicTable); err != nil {
		return fmt.Errorf("write nic report: %w", err)
	}
	e.log.Info().Str("path", nicsPath).Msg("nic report written")

	bookPath := filepath.Join(e.cfg.OutputDir, workbookXLSX)
	if err := report.WriteWorkbook(bookPath, []inventory.Table{hostTable, nicTable}); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	e.log.Info().Str("path", bookPath).Msg("workbook written")

	return nil
}

func (e *Engine) archive(ctx context.Context, runID string, started time.Time, endpoints int, ds *aggregator.Dataset, nics []inventory.NicRecord) error {
	if e.store == nil {
		return nil
	}

	payload, err := json.Marshal(struct {
		Hosts []inventory.HostRecord `json:"hosts"`
		Nics  []inventory.NicRecord  `json:"nics"`
	}{Hosts: ds.Rows, Nics: nics})
	if err != nil {
		return fmt.Errorf("encode run snapshot: %w", err)
	}

	id, err := e.store.Insert(ctx, &store.RunRecord{
		RunID:       runID,
		StartedAt:   started,
		FinishedAt:  time.Now().UTC(),
		Endpoints:   endpoints,
		Failed:      ds.Failed,
		Hosts:       len(ds.Rows),
		Nics:        len(nics),
		DatasetJSON: string(payload),
	})
	if err != nil {
		return fmt.Errorf("archive run: %w", err)
	}

	e.log.Debug().Int64("id", id).Str("run", runID).Msg("run archived")
	return nil
}

// dedupe drops repeated endpoints, keeping the first occurrence.
func (e *Engine) dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, endpoint := range in {
		if _, dup := seen[endpoint]; dup {
			e.log.Warn().Str("endpoint", endpoint).Msg("duplicate endpoint ignored")
			continue
		}
		seen[endpoint] = struct{}{}
		out = append(out, endpoint)
	}
	return out
}

func overrides(in []config.CredentialOverride) []vim.Override {
	out := make([]vim.Override, len(in))
	for i, o := range in {
		out[i] = vim.Override{Match: o.Match, Username: o.Username, Password: o.Password}
	}
	return out
}
