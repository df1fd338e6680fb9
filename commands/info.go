package commands

import (
	"flag"
	"fmt"
	"strings"

	"github.com/tutorqa/sheets-sync/auth"
	"github.com/tutorqa/sheets-sync/gsheet"
)

var InfoCmd = Info{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: "",
	},

	url: "",
}

type Info struct {
	command
	url string
}

func (cmd *Info) Name() string {
	return "info"
}

func (cmd *Info) Description() string {
	return "Displays the name, last modification and worksheets of a spreadsheet"
}

func (cmd *Info) Usage() string {
	return "--url <url>"
}

func (cmd *Info) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] info [options] --url <URL>\n", APP)
	fmt.Println()
	fmt.Println("  Displays the spreadsheet name, last modification time, latest revision and the worksheet")
	fmt.Println("  titles and gids")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf(`    %s info --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms"`+"\n", APP)
	fmt.Println()
}

func (cmd *Info) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("info")

	flagset.StringVar(&cmd.url, "url", cmd.url, "Spreadsheet URL or ID")

	return flagset
}

func (cmd *Info) Execute(args ...any) error {
	options := args[0].(*Options)

	if err := cmd.setup(options); err != nil {
		return err
	}

	if strings.TrimSpace(cmd.url) == "" {
		return fmt.Errorf("--url is a required option")
	}

	spreadsheet, _, err := gsheet.ParseURL(cmd.url)
	if err != nil {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	service, err := cmd.service(ctx, auth.SHEETS_READONLY, auth.DRIVE)
	if err != nil {
		return err
	}

	metadata, err := service.Describe(ctx, spreadsheet)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  ID:        %v\n", metadata.ID)
	fmt.Printf("  Name:      %v\n", metadata.Name)
	fmt.Printf("  Modified:  %v\n", metadata.Modified.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("  Revision:  %v\n", metadata.Revision)
	fmt.Println()
	fmt.Println("  Worksheets:")
	for _, sheet := range metadata.Sheets {
		fmt.Printf("    %v\n", sheet)
	}
	fmt.Println()

	return nil
}
