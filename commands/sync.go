package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/tutorqa/sheets-sync/auth"
	"github.com/tutorqa/sheets-sync/config"
	"github.com/tutorqa/sheets-sync/gsheet"
	"github.com/tutorqa/sheets-sync/lock"
	"github.com/tutorqa/sheets-sync/log"
	"github.com/tutorqa/sheets-sync/sheetsync"
)

var SyncCmd = Sync{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: "",
	},

	jobs:     "",
	dryrun:   false,
	lockfile: "",
}

type Sync struct {
	command
	jobs     string
	dryrun   bool
	lockfile string
}

func (cmd *Sync) Name() string {
	return "sync"
}

func (cmd *Sync) Description() string {
	return "Runs the configured sheet synchronization jobs"
}

func (cmd *Sync) Usage() string {
	return "[--job <names>] [--dry-run] [--lockfile <file>]"
}

func (cmd *Sync) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] sync [options]\n", APP)
	fmt.Println()
	fmt.Println("  Reads each job's source worksheets, transforms the rows and writes the new rows to the")
	fmt.Println("  destination worksheet. Jobs run one at a time in configuration file order.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf("    %s sync\n", APP)
	fmt.Printf("    %s --debug --config sheets-sync.json sync --job qa-rating,lessons --dry-run\n", APP)
	fmt.Printf("    %s sync --lockfile %s/sheets-sync.lock\n", APP, DEFAULT_WORKDIR)
	fmt.Println()
}

func (cmd *Sync) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("sync")

	flagset.StringVar(&cmd.jobs, "job", cmd.jobs, "Comma separated list of jobs to run. Defaults to all enabled jobs")
	flagset.BoolVar(&cmd.dryrun, "dry-run", cmd.dryrun, "Logs the rows that would be written without updating the destination worksheets")
	flagset.StringVar(&cmd.lockfile, "lockfile", cmd.lockfile, "Lock file used to prevent concurrent runs")

	return flagset
}

func (cmd *Sync) Execute(args ...any) error {
	options := args[0].(*Options)

	if err := cmd.setup(options); err != nil {
		return err
	}

	cfg, err := config.Load(options.Config)
	if err != nil {
		return err
	}

	jobs, err := cmd.selected(cfg)
	if err != nil {
		return err
	}

	if len(jobs) == 0 {
		log.Warnf("no jobs to run")
		return nil
	}

	if cmd.lockfile != "" {
		l, err := lock.Acquire(cmd.lockfile)
		if err != nil {
			return err
		}

		defer l.Release()
	}

	ctx, cancel := interruptible()
	defer cancel()

	service, err := cmd.service(ctx, auth.SHEETS, auth.DRIVE)
	if err != nil {
		return err
	}

	backend := config.Backend{
		Values: service,
		Export: export(),
	}

	failed := 0
	for _, job := range jobs {
		if err := cmd.run(ctx, service, backend, job); err != nil {
			log.Errorf("%v  %v", job.Name, err)
			failed++
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	if failed > 0 {
		return fmt.Errorf("%v of %v jobs failed", failed, len(jobs))
	}

	return nil
}

func (cmd *Sync) run(ctx context.Context, service *gsheet.Service, backend config.Backend, job config.Job) error {
	j, err := job.Compile(backend)
	if err != nil {
		return err
	}

	j.DryRun = cmd.dryrun

	if cmd.debug {
		describe(ctx, service, j.Destination.Sink.Ref)
	}

	result, err := sheetsync.Run(ctx, j)
	if err != nil {
		return err
	}

	log.Infof("%v  read:%v  candidates:%v  existing:%v  written:%v  %v %v",
		result.Job, result.Read, result.Candidates, result.Existing, result.Written, result.Outcome, result.Range)

	return nil
}

// selected returns the jobs named by --job, or every enabled job. Explicitly named jobs are
// run even if disabled.
func (cmd *Sync) selected(cfg *config.Config) ([]config.Job, error) {
	if strings.TrimSpace(cmd.jobs) == "" {
		jobs := []config.Job{}
		for _, job := range cfg.Jobs {
			if !job.Disabled {
				jobs = append(jobs, job)
			}
		}

		return jobs, nil
	}

	jobs := []config.Job{}
	for _, name := range strings.Split(cmd.jobs, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}

		job, ok := cfg.Find(name)
		if !ok {
			return nil, fmt.Errorf("no job named '%v' in configuration", strings.TrimSpace(name))
		}

		jobs = append(jobs, job)
	}

	return jobs, nil
}

func describe(ctx context.Context, service *gsheet.Service, ref gsheet.Reference) {
	if metadata, err := service.Describe(ctx, ref.Spreadsheet); err != nil {
		log.Warnf("%v  unable to retrieve spreadsheet metadata (%v)", ref, err)
	} else {
		log.Debugf("%v  %q  modified:%v  revision:%v", ref, metadata.Name, metadata.Modified.Format("2006-01-02 15:04:05"), metadata.Revision)
	}
}
