package commands

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tutorqa/sheets-sync/auth"
	"github.com/tutorqa/sheets-sync/grid"
	"github.com/tutorqa/sheets-sync/gsheet"
	"github.com/tutorqa/sheets-sync/log"
)

var GetCmd = Get{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: "",
	},

	url:    "",
	area:   "",
	file:   time.Now().Format("2006-01-02T150405.tsv"),
	export: false,
}

type Get struct {
	command
	url    string
	area   string
	file   string
	export bool
}

func (cmd *Get) Name() string {
	return "get"
}

func (cmd *Get) Description() string {
	return "Downloads a Google Sheets worksheet range to a TSV file"
}

func (cmd *Get) Usage() string {
	return "--url <url> --range <range> [--export] [--file <file>]"
}

func (cmd *Get) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] get [options] --url <URL> --range <range> --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Downloads a Google Sheets worksheet range to a TSV file, either through the Sheets API or,")
	fmt.Println("  with --export, from the public CSV export of a worksheet shared as 'anyone with the link'")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf(`    %s --debug get --credentials "credentials.json" \`+"\n", APP)
	fmt.Println(`                   --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                   --range "QA!A2:F" \`)
	fmt.Println(`                   --file "qa.tsv"`)
	fmt.Println()
	fmt.Printf(`    %s get --export --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms/edit#gid=0" \`+"\n", APP)
	fmt.Println(`                   --range "A:AI" --file "lessons.tsv"`)
	fmt.Println()
}

func (cmd *Get) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("get")

	flagset.StringVar(&cmd.url, "url", cmd.url, "Spreadsheet URL or ID")
	flagset.StringVar(&cmd.area, "range", cmd.area, "Worksheet range e.g. 'QA!A2:F'. The worksheet may be omitted if the URL has a gid")
	flagset.StringVar(&cmd.file, "file", cmd.file, "TSV file name. Defaults to '<yyyy-mm-ddTHHmmss>.tsv'")
	flagset.BoolVar(&cmd.export, "export", cmd.export, "Reads a publicly shared worksheet through the CSV export (no credentials required)")

	return flagset
}

func (cmd *Get) Execute(args ...any) error {
	options := args[0].(*Options)

	if err := cmd.setup(options); err != nil {
		return err
	}

	// ... check parameters
	if strings.TrimSpace(cmd.url) == "" {
		return fmt.Errorf("--url is a required option")
	}

	if strings.TrimSpace(cmd.file) == "" {
		return fmt.Errorf("--file is a required option")
	}

	spreadsheet, gid, err := gsheet.ParseURL(cmd.url)
	if err != nil {
		return err
	}

	name, cells := sheetName(cmd.area)
	area, err := gsheet.ParseRange(cells)
	if err != nil {
		return err
	}

	ref := gsheet.Reference{
		Spreadsheet: spreadsheet,
		Sheet:       name,
		GID:         gid,
	}

	if cmd.export && ref.GID == "" {
		return fmt.Errorf("--export requires a URL with a gid e.g. '.../edit#gid=0'")
	}

	if err := ref.Validate(); err != nil {
		return err
	}

	log.Debugf("spreadsheet:%v  range:%v  export:%v", ref, area, cmd.export)

	ctx, cancel := interruptible()
	defer cancel()

	var rows grid.Grid

	if cmd.export {
		source := gsheet.ExportSource{Export: export(), Ref: ref, Range: area}
		if rows, err = source.Read(ctx); err != nil {
			return fmt.Errorf("unable to retrieve data from sheet (%w)", err)
		}
	} else {
		service, err := cmd.service(ctx, auth.SHEETS_READONLY)
		if err != nil {
			return err
		}

		source := gsheet.Source{Values: service, Ref: ref, Range: area}
		if rows, err = source.Read(ctx); err != nil {
			return fmt.Errorf("unable to retrieve data from sheet (%w)", err)
		}
	}

	if rows.Occupied() == 0 {
		return fmt.Errorf("no data in spreadsheet/range")
	}

	tmp, err := os.CreateTemp(os.TempDir(), APP)
	if err != nil {
		return err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := gridToTSV(tmp, rows); err != nil {
		return fmt.Errorf("error creating TSV file (%w)", err)
	}

	tmp.Close()

	dir := filepath.Dir(cmd.file)
	if err := os.MkdirAll(dir, 0770); err != nil {
		return err
	}

	if err := os.Rename(tmp.Name(), cmd.file); err != nil {
		return err
	}

	log.Infof("retrieved %v rows from %v to file %s", rows.Occupied(), ref, cmd.file)

	return nil
}
