package commands

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/tutorqa/sheets-sync/auth"
	"github.com/tutorqa/sheets-sync/config"
	"github.com/tutorqa/sheets-sync/dashboard"
	"github.com/tutorqa/sheets-sync/gsheet"
	"github.com/tutorqa/sheets-sync/log"
)

var DashboardCmd = Dashboard{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: "",
	},

	bind:    "",
	refresh: 0,
}

type Dashboard struct {
	command
	bind    string
	refresh time.Duration
}

func (cmd *Dashboard) Name() string {
	return "dashboard"
}

func (cmd *Dashboard) Description() string {
	return "Serves the QA dashboard"
}

func (cmd *Dashboard) Usage() string {
	return "[--bind <address>] [--refresh <interval>]"
}

func (cmd *Dashboard) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] dashboard [options]\n", APP)
	fmt.Println()
	fmt.Println("  Serves a filterable table that joins the public lesson worksheets with the tutor ratings,")
	fmt.Println("  QA scores and replacements worksheets listed in the 'dashboard' section of the configuration")
	fmt.Println("  file. The table can be downloaded as CSV or XLSX.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf("    %s dashboard\n", APP)
	fmt.Printf("    %s --config sheets-sync.json dashboard --bind 0.0.0.0:8080 --refresh 5m\n", APP)
	fmt.Println()
}

func (cmd *Dashboard) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("dashboard")

	flagset.StringVar(&cmd.bind, "bind", cmd.bind, fmt.Sprintf("HTTP listen address. Defaults to the configuration 'bind' or %v", DEFAULT_BIND))
	flagset.DurationVar(&cmd.refresh, "refresh", cmd.refresh, "Interval after which the worksheets are reloaded. Defaults to the configuration 'refresh' or 10m")

	return flagset
}

func (cmd *Dashboard) Execute(args ...any) error {
	options := args[0].(*Options)

	if err := cmd.setup(options); err != nil {
		return err
	}

	cfg, err := config.Load(options.Config)
	if err != nil {
		return err
	}

	if cfg.Dashboard == nil {
		return fmt.Errorf("no 'dashboard' section in configuration file %v", options.Config)
	}

	ctx, cancel := interruptible()
	defer cancel()

	var service *gsheet.Service
	if len(cfg.Dashboard.Ratings) > 0 || len(cfg.Dashboard.QA) > 0 || cfg.Dashboard.Replacements != nil {
		if service, err = cmd.service(ctx, auth.SHEETS_READONLY); err != nil {
			return err
		}
	}

	sources, err := cmd.sources(*cfg.Dashboard, service)
	if err != nil {
		return err
	}

	bind := DEFAULT_BIND
	if cmd.bind != "" {
		bind = cmd.bind
	} else if cfg.Dashboard.Bind != "" {
		bind = cfg.Dashboard.Bind
	}

	refresh := 10 * time.Minute
	if cmd.refresh > 0 {
		refresh = cmd.refresh
	} else if cfg.Dashboard.Refresh > 0 {
		refresh = time.Duration(cfg.Dashboard.Refresh)
	}

	log.Debugf("dashboard: %v lesson regions, %v ratings, %v QA  refresh:%v", len(sources.Lessons), len(sources.Ratings), len(sources.QA), refresh)

	build := func(ctx context.Context) *dashboard.Table {
		return dashboard.Build(ctx, sources)
	}

	return dashboard.NewServer(build, refresh).ListenAndServe(ctx, bind)
}

func (cmd *Dashboard) sources(d config.Dashboard, service *gsheet.Service) (dashboard.Sources, error) {
	sources := dashboard.Sources{}
	x := export()

	for _, l := range d.Lessons {
		ref, area, err := resolve(l.Sheet)
		if err != nil {
			return sources, err
		} else if ref.GID == "" {
			return sources, fmt.Errorf("lessons worksheet %v for %v requires a gid", ref, l.Region)
		}

		sources.Lessons = append(sources.Lessons, dashboard.Lessons{
			Region: l.Region,
			Reader: gsheet.ExportSource{Export: x, Ref: ref, Range: area},
		})
	}

	for _, s := range d.Ratings {
		ref, area, err := resolve(s)
		if err != nil {
			return sources, err
		}

		sources.Ratings = append(sources.Ratings, gsheet.Source{Values: service, Ref: ref, Range: area})
	}

	for _, s := range d.QA {
		ref, area, err := resolve(s)
		if err != nil {
			return sources, err
		}

		sources.QA = append(sources.QA, gsheet.Source{Values: service, Ref: ref, Range: area})
	}

	if d.Replacements != nil {
		ref, area, err := resolve(*d.Replacements)
		if err != nil {
			return sources, err
		}

		sources.Replacements = gsheet.Source{Values: service, Ref: ref, Range: area}
	}

	return sources, nil
}

func resolve(s config.Sheet) (gsheet.Reference, gsheet.Range, error) {
	ref, err := s.Reference()
	if err != nil {
		return gsheet.Reference{}, gsheet.Range{}, err
	}

	area, err := s.Area()
	if err != nil {
		return gsheet.Reference{}, gsheet.Range{}, err
	}

	return ref, area, nil
}
