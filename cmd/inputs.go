package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/timestudy-cli/internal/ingest"
	"github.com/KaramelBytes/timestudy-cli/internal/parser"
	"github.com/spf13/cobra"
)

// columnFlags override the configured column mapping for one command.
type columnFlags struct {
	activity string
	time     string
	rework   string
	sheet    string
}

func (f *columnFlags) bind(c *cobra.Command) {
	c.Flags().StringVar(&f.activity, "activity-col", "", "activity column (overrides config)")
	c.Flags().StringVar(&f.time, "time-col", "", "time column (overrides config)")
	c.Flags().StringVar(&f.rework, "rework-col", "", "rework flag column; pass \"\" to disable (overrides config)")
	c.Flags().StringVar(&f.sheet, "sheet", "", "worksheet name for XLSX sources (default first sheet)")
}

// options merges flags over config.
func (f *columnFlags) options(c *cobra.Command) (ingest.Options, error) {
	conf, err := requireConfig()
	if err != nil {
		return ingest.Options{}, err
	}
	opt := ingest.Options{
		ActivityColumn: conf.ActivityColumn,
		TimeColumn:     conf.TimeColumn,
		ReworkColumn:   conf.ReworkColumn,
		Workers:        conf.Workers,
	}
	if c.Flags().Changed("activity-col") {
		opt.ActivityColumn = f.activity
	}
	if c.Flags().Changed("time-col") {
		opt.TimeColumn = f.time
	}
	if c.Flags().Changed("rework-col") {
		opt.ReworkColumn = f.rework
	}
	popt, err := parserOptions()
	if err != nil {
		return ingest.Options{}, err
	}
	if f.sheet != "" {
		popt.SheetName = f.sheet
	}
	opt.Parser = popt
	return opt, nil
}

func parserOptions() (parser.Options, error) {
	conf, err := requireConfig()
	if err != nil {
		return parser.Options{}, err
	}
	opt := parser.DefaultOptions()
	if len(conf.Encodings) > 0 {
		opt.Encodings = conf.Encodings
	}
	d, err := parser.DelimiterFromName(conf.Delimiter)
	if err != nil {
		return parser.Options{}, err
	}
	opt.Delimiter = d
	opt.SheetName = conf.SheetName
	return opt, nil
}

// expandInputs resolves globs, keeping argument order and dropping duplicates.
// Arguments that match nothing are passed through unchanged.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// keep it literal; a missing path is reported as a skipped source
			matches = []string{arg}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files given")
	}
	return files, nil
}
