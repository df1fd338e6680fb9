package commands

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/tutorqa/sheets-sync/auth"
	"github.com/tutorqa/sheets-sync/config"
	"github.com/tutorqa/sheets-sync/gsheet"
	"github.com/tutorqa/sheets-sync/log"
)

const APP = "sheets-sync"

// Options holds the global command line options shared by every command.
type Options struct {
	Config string
	Env    string
	Debug  bool
}

type command struct {
	workdir     string
	credentials string
	debug       bool
}

func (c *command) flagset(name string) *flag.FlagSet {
	flagset := flag.NewFlagSet(name, flag.ExitOnError)

	flagset.StringVar(&c.workdir, "workdir", c.workdir, "Directory for working files (tokens, lock files, etc)")
	flagset.StringVar(&c.credentials, "credentials", c.credentials, "Credentials file or 'aws-secretsmanager://<secret>'. Defaults to $SHEETS_SYNC_CREDENTIALS")

	return flagset
}

// setup applies the global options: debug logging and the optional .env file. An explicitly
// specified .env file must exist, the default one is optional.
func (c *command) setup(options *Options) error {
	c.debug = options.Debug

	log.SetDebug(options.Debug)

	if err := config.LoadEnv(options.Env, options.Env != DEFAULT_ENV); err != nil {
		return err
	}

	return nil
}

func (c *command) service(ctx context.Context, scopes ...string) (*gsheet.Service, error) {
	credentials, err := auth.Credentials{Source: c.credentials}.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load credentials (%w)", err)
	}

	tokens := auth.TokensFile(c.workdir, c.credentials)
	client, err := auth.NewClient(ctx, credentials, tokens, gsheet.DefaultPolicy, scopes...)
	if err != nil {
		return nil, fmt.Errorf("authentication/authorization error (%w)", err)
	}

	return gsheet.NewService(ctx, client, gsheet.DefaultPolicy)
}

func export() *gsheet.Export {
	return &gsheet.Export{
		Client: &http.Client{Timeout: 20 * time.Second},
		Policy: gsheet.DefaultPolicy,
	}
}

func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// sheetName extracts the worksheet title from an A1 range of the form 'Sheet 1'!A1:B.
func sheetName(area string) (string, string) {
	match := regexp.MustCompile(`^(?:'((?:[^']|'')+)'|([^!]+))!(.*)$`).FindStringSubmatch(area)
	if match == nil {
		return "", area
	}

	if match[1] != "" {
		return strings.ReplaceAll(match[1], "''", "'"), match[3]
	}

	return strings.TrimSpace(match[2]), match[3]
}

func helpOptions(flagset *flag.FlagSet) {
	count := 0
	flag.VisitAll(func(f *flag.Flag) {
		count++
	})

	flagset.VisitAll(func(f *flag.Flag) {
		fmt.Printf("    --%-13s %s\n", f.Name, f.Usage)
	})

	if count > 0 {
		fmt.Println()
		fmt.Println("  Options:")
		flag.VisitAll(func(f *flag.Flag) {
			fmt.Printf("    --%-13s %s\n", f.Name, f.Usage)
		})
	}
}
