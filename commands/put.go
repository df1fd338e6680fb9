package commands

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tutorqa/sheets-sync/auth"
	"github.com/tutorqa/sheets-sync/gsheet"
	"github.com/tutorqa/sheets-sync/log"
)

var PutCmd = Put{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: "",
	},

	url:  "",
	area: "",
	file: "",
	raw:  false,
}

type Put struct {
	command
	url  string
	area string
	file string
	raw  bool
}

func (cmd *Put) Name() string {
	return "put"
}

func (cmd *Put) Description() string {
	return "Uploads a TSV file to a Google Sheets worksheet"
}

func (cmd *Put) Usage() string {
	return "--url <url> --range <range> --file <file>"
}

func (cmd *Put) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] put [options] --url <URL> --range <range> --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Uploads a TSV file to a Google Sheets worksheet, replacing the current contents of the range.")
	fmt.Println("  The first row of the TSV file is written to the top left cell of the range.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf(`    %s --debug put --credentials "credentials.json" \`+"\n", APP)
	fmt.Println(`                   --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                   --range "Ratings!A1:G" \`)
	fmt.Println(`                   --file "ratings.tsv"`)
	fmt.Println()
}

func (cmd *Put) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("put")

	flagset.StringVar(&cmd.url, "url", cmd.url, "Spreadsheet URL or ID")
	flagset.StringVar(&cmd.area, "range", cmd.area, "Worksheet range e.g. 'Ratings!A1:G'")
	flagset.StringVar(&cmd.file, "file", cmd.file, "TSV file")
	flagset.BoolVar(&cmd.raw, "raw", cmd.raw, "Stores values as is rather than as if typed into the worksheet")

	return flagset
}

func (cmd *Put) Execute(args ...any) error {
	options := args[0].(*Options)

	if err := cmd.setup(options); err != nil {
		return err
	}

	if strings.TrimSpace(cmd.url) == "" {
		return fmt.Errorf("--url is a required option")
	}

	if strings.TrimSpace(cmd.area) == "" {
		return fmt.Errorf("--range is a required option")
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

	ref := gsheet.Reference{Spreadsheet: spreadsheet, Sheet: name, GID: gid}
	if err := ref.Validate(); err != nil {
		return err
	}

	f, err := os.Open(cmd.file)
	if err != nil {
		return err
	}

	defer f.Close()

	rows, err := tsvToGrid(f)
	if err != nil {
		return fmt.Errorf("invalid TSV file %v (%w)", cmd.file, err)
	}

	log.Debugf("spreadsheet:%v  range:%v  rows:%v", ref, area, len(rows))

	ctx, cancel := interruptible()
	defer cancel()

	service, err := cmd.service(ctx, auth.SHEETS)
	if err != nil {
		return err
	}

	input := gsheet.UserEntered
	if cmd.raw {
		input = gsheet.Raw
	}

	width := area.Width()
	if width == 0 {
		width = rows.Width()
	}

	sink := gsheet.Sink{
		Values:   service,
		Ref:      ref,
		Range:    area,
		Width:    width,
		Mode:     gsheet.Replace,
		Clearing: gsheet.ClearOccupied,
		Input:    input,
	}

	current, err := sink.Read(ctx)
	if err != nil {
		return err
	}

	result, err := sink.Write(ctx, rows, current)
	if err != nil {
		return err
	}

	log.Infof("uploaded TSV file %v to %v (%v rows at %v)", cmd.file, ref, result.Rows, result.Range)

	return nil
}
