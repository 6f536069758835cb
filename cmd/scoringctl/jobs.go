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
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bountylab/scoring-api/internal/adapters/jobwatch"
	"github.com/bountylab/scoring-api/internal/data"
	"github.com/bountylab/scoring-api/internal/domain/auth"
	"github.com/bountylab/scoring-api/internal/domain/model"
	"github.com/bountylab/scoring-api/internal/service"
)

// adminSession builds the operator identity used for admin-only service
// calls. The CLI already holds database credentials, so there is no separate
// login step.
func adminSession() auth.Session {
	return auth.Session{
		ID:        "scoringctl",
		UserID:    "scoringctl",
		Username:  "scoringctl",
		Role:      auth.RoleAdmin,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func buildJobService(cmdCtx *commandContext, db *sql.DB) (*service.ScoringJobService, error) {
	return service.NewScoringJobService(service.ScoringJobServiceOptions{
		Jobs:        data.NewScoringJobRepo(db, data.ScoringJobRepoConfig{Logger: cmdCtx.Logger}),
		Tasks:       data.NewScoringTaskRepo(db),
		Submissions: data.NewSubmissionRepo(db),
		Logger:      cmdCtx.Logger,
	})
}

type watchJobOptions struct {
	JobID    string
	Interval time.Duration
}

type rescoreOptions struct {
	SubmissionID string
	Yes          bool
}

func parseWatchJobFlags(args []string) (watchJobOptions, error) {
	fs := flag.NewFlagSet("watch-job", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts watchJobOptions
	fs.StringVar(&opts.JobID, "job-id", "", "Scoring job ID to watch (required)")
	fs.DurationVar(&opts.Interval, "interval", jobwatch.DefaultInterval, "Poll interval")

	if err := fs.Parse(args); err != nil {
		return watchJobOptions{}, err
	}

	opts.JobID = strings.TrimSpace(opts.JobID)
	if opts.JobID == "" {
		return watchJobOptions{}, errors.New("--job-id is required")
	}
	if opts.Interval <= 0 {
		return watchJobOptions{}, errors.New("--interval must be greater than zero")
	}

	return opts, nil
}

func parseRescoreFlags(args []string) (rescoreOptions, error) {
	fs := flag.NewFlagSet("rescore", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts rescoreOptions
	fs.StringVar(&opts.SubmissionID, "submission-id", "", "Submission ID to rescore (required)")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return rescoreOptions{}, err
	}

	opts.SubmissionID = strings.TrimSpace(opts.SubmissionID)
	if opts.SubmissionID == "" {
		return rescoreOptions{}, errors.New("--submission-id is required")
	}

	return opts, nil
}

func runJobStats(cmdCtx *commandContext, _ []string) error {
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

	svc, err := buildJobService(cmdCtx, db)
	if err != nil {
		return err
	}

	stats, err := svc.Stats(ctx, adminSession())
	if err != nil {
		return err
	}

	return printJobStats(stats)
}

func printJobStats(stats *model.JobStats) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(w, "Status\tCount"); err != nil {
		return fmt.Errorf("write stats header: %w", err)
	}
	rows := []struct {
		label string
		count int
	}{
		{"pending", stats.Pending},
		{"assigned", stats.Assigned},
		{"scoring", stats.Scoring},
		{"completed", stats.Completed},
		{"failed", stats.Failed},
		{"cancelled", stats.Cancelled},
	}
	for _, row := range rows {
		if err := writef(w, "%s\t%d\n", row.label, row.count); err != nil {
			return fmt.Errorf("write stats row %q: %w", row.label, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush stats: %w", err)
	}
	return nil
}

func runWatchJob(cmdCtx *commandContext, args []string) error {
	opts, err := parseWatchJobFlags(args)
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

	runner, err := jobwatch.NewRunner(jobwatch.RunnerOptions{
		Jobs:     data.NewScoringJobRepo(db, data.ScoringJobRepoConfig{Logger: cmdCtx.Logger}),
		JobID:    opts.JobID,
		Interval: opts.Interval,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return err
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(watchCtx)
	g.Go(func() error {
		// Run returns when the job is terminal; stop the render loop too.
		defer cancel()
		return runner.Run(gctx)
	})
	g.Go(func() error {
		return renderWatchLoop(gctx, runner, opts.Interval)
	})

	if waitErr := g.Wait(); waitErr != nil {
		return waitErr
	}

	return printWatchSnapshot(runner.Snapshot())
}

func renderWatchLoop(ctx context.Context, runner *jobwatch.Runner, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := printWatchSnapshot(runner.Snapshot()); err != nil {
				return err
			}
		}
	}
}

func printWatchSnapshot(snap jobwatch.Snapshot) error {
	if snap.Job == nil {
		if snap.LastError != "" {
			return writef(os.Stdout, "(no data yet; last poll error: %s)\n", snap.LastError)
		}
		return writeln(os.Stdout, "(no data yet)")
	}

	job := snap.Job
	line := fmt.Sprintf("job=%s status=%s retries=%d/%d", job.ID, job.Status, job.RetryCount, job.MaxRetries)
	if job.Score != nil {
		line += fmt.Sprintf(" score=%.2f", *job.Score)
	} else if job.CurrentScore != nil {
		line += fmt.Sprintf(" current_score=%.2f", *job.CurrentScore)
	}
	if job.ErrorMessage != nil && *job.ErrorMessage != "" {
		line += " error=" + *job.ErrorMessage
	}
	if snap.LastError != "" {
		line += " (stale; last poll error: " + snap.LastError + ")"
	}
	return writeln(os.Stdout, line)
}

func runRescore(cmdCtx *commandContext, args []string) error {
	opts, err := parseRescoreFlags(args)
	if err != nil {
		return err
	}

	if !opts.Yes {
		if confirmErr := confirmAction(
			"create fresh scoring jobs for submission "+opts.SubmissionID,
			fmt.Sprintf("database %q on %s:%d",
				cmdCtx.Config.Postgres.Name, cmdCtx.Config.Postgres.Host, cmdCtx.Config.Postgres.Port),
		); confirmErr != nil {
			return confirmErr
		}
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

	svc, err := buildJobService(cmdCtx, db)
	if err != nil {
		return err
	}

	jobs, err := svc.Rescore(ctx, adminSession(), opts.SubmissionID)
	if err != nil {
		return err
	}

	if err := writef(os.Stdout, "Created %d scoring job(s):\n", len(jobs)); err != nil {
		return fmt.Errorf("print rescore summary: %w", err)
	}
	for _, job := range jobs {
		if err := writef(os.Stdout, "  %s (screener %s)\n", job.ID, job.ScreenerID); err != nil {
			return fmt.Errorf("print rescore job: %w", err)
		}
	}
	return nil
}
