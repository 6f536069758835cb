package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bountylab/scoring-api/internal/data"
	"github.com/bountylab/scoring-api/internal/domain/model"
	"github.com/bountylab/scoring-api/internal/service"
)

type tailLogsOptions struct {
	JobID    string
	TaskName string
	Interval time.Duration
	PageSize int
}

type exportLogsOptions struct {
	JobID    string
	TaskName string
	Out      string
}

func parseTailLogsFlags(cmdCtx *commandContext, args []string) (tailLogsOptions, error) {
	fs := flag.NewFlagSet("tail-logs", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := tailLogsOptions{
		Interval: cmdCtx.Config.Poll.LogInterval,
		PageSize: cmdCtx.Config.Poll.LogPageSize,
	}
	if opts.Interval <= 0 {
		opts.Interval = 2 * time.Second
	}
	if opts.PageSize <= 0 {
		opts.PageSize = service.DefaultLogPageSize
	}

	fs.StringVar(&opts.JobID, "job-id", "", "Scoring job ID to tail (required)")
	fs.StringVar(&opts.TaskName, "task", "", "Restrict to lines from one task")
	fs.DurationVar(&opts.Interval, "interval", opts.Interval, "Refresh interval")
	fs.IntVar(&opts.PageSize, "page-size", opts.PageSize, "Entries fetched per refresh")

	if err := fs.Parse(args); err != nil {
		return tailLogsOptions{}, err
	}

	opts.JobID = strings.TrimSpace(opts.JobID)
	if opts.JobID == "" {
		return tailLogsOptions{}, errors.New("--job-id is required")
	}
	if opts.Interval <= 0 {
		return tailLogsOptions{}, errors.New("--interval must be greater than zero")
	}

	return opts, nil
}

func parseExportLogsFlags(args []string) (exportLogsOptions, error) {
	fs := flag.NewFlagSet("export-logs", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts exportLogsOptions
	fs.StringVar(&opts.JobID, "job-id", "", "Scoring job ID to export (required)")
	fs.StringVar(&opts.TaskName, "task", "", "Restrict to lines from one task")
	fs.StringVar(&opts.Out, "out", "", "Output file (defaults to stdout)")

	if err := fs.Parse(args); err != nil {
		return exportLogsOptions{}, err
	}

	opts.JobID = strings.TrimSpace(opts.JobID)
	if opts.JobID == "" {
		return exportLogsOptions{}, errors.New("--job-id is required")
	}

	return opts, nil
}

func buildLogService(cmdCtx *commandContext, db *sql.DB) (*service.LogService, error) {
	return service.NewLogService(service.LogServiceOptions{
		Source:      data.NewLogRepo(db),
		Jobs:        data.NewScoringJobRepo(db, data.ScoringJobRepoConfig{Logger: cmdCtx.Logger}),
		Submissions: data.NewSubmissionRepo(db),
		Logger:      cmdCtx.Logger,
	})
}

func runTailLogs(cmdCtx *commandContext, args []string) error {
	opts, err := parseTailLogsFlags(cmdCtx, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, _, err := connectInfraWithOptions(&connectInfraOptions{
		Logger: cmdCtx.Logger,
		Config: &cmdCtx.Config,
		WantDB: true,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeInfra(db, nil); cerr != nil {
			cmdCtx.Logger.Warn("close infra failed", "error", cerr)
		}
	}()

	svc, err := buildLogService(cmdCtx, db)
	if err != nil {
		return err
	}

	tail := &logTail{
		svc:  svc,
		opts: opts,
		seen: make(map[string]struct{}),
	}

	// First fetch before the ticker so the tail shows history immediately.
	if fetchErr := tail.fetchAndPrint(ctx); fetchErr != nil {
		return fetchErr
	}

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if fetchErr := tail.fetchAndPrint(ctx); fetchErr != nil {
				// Transient source failures keep the tail alive; the next tick retries.
				cmdCtx.Logger.Warn("log fetch failed", "error", fetchErr)
			}
		}
	}
}

// logTail tracks which entries were already printed so a refresh appends only
// new lines. Identity is timestamp plus message, matching the read model.
type logTail struct {
	svc  *service.LogService
	opts tailLogsOptions
	seen map[string]struct{}
}

func (t *logTail) fetchAndPrint(ctx context.Context) error {
	page, err := t.svc.Page(ctx, adminSession(), model.LogQuery{
		JobID:    t.opts.JobID,
		TaskName: t.opts.TaskName,
		Limit:    t.opts.PageSize,
	})
	if err != nil {
		return err
	}

	for _, entry := range page.Entries {
		key := entry.Key()
		if _, ok := t.seen[key]; ok {
			continue
		}
		t.seen[key] = struct{}{}
		if printErr := printLogEntry(entry); printErr != nil {
			return printErr
		}
	}
	return nil
}

func printLogEntry(entry model.LogEntry) error {
	if entry.TaskName != "" {
		return writef(os.Stdout, "%s [%s] %s\n",
			entry.Timestamp.UTC().Format(time.RFC3339), entry.TaskName, entry.Message)
	}
	return writef(os.Stdout, "%s %s\n",
		entry.Timestamp.UTC().Format(time.RFC3339), entry.Message)
}

func runExportLogs(cmdCtx *commandContext, args []string) error {
	opts, err := parseExportLogsFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, time.Minute)
	defer cancel()

	db, _, err := connectInfraWithOptions(&connectInfraOptions{
		Logger: cmdCtx.Logger,
		Config: &cmdCtx.Config,
		WantDB: true,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeInfra(db, nil); cerr != nil {
			cmdCtx.Logger.Warn("close infra failed", "error", cerr)
		}
	}()

	svc, err := buildLogService(cmdCtx, db)
	if err != nil {
		return err
	}

	content, err := svc.Export(ctx, adminSession(), opts.JobID, opts.TaskName)
	if err != nil {
		return err
	}

	if opts.Out == "" {
		return writef(os.Stdout, "%s", content)
	}

	if writeErr := os.WriteFile(opts.Out, []byte(content), 0o644); writeErr != nil {
		return fmt.Errorf("write export file: %w", writeErr)
	}
	cmdCtx.Logger.Info("log export written", "path", opts.Out, "job_id", opts.JobID)
	return nil
}
