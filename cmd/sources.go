package cmd

import (
	"fmt"
	"os"

	"github.com/KaramelBytes/timestudy-cli/internal/parser"
	"github.com/spf13/cobra"
)

var inspectCols columnFlags

var columnsCmd = &cobra.Command{
	Use:   "columns <files...>",
	Short: "List the column names found across sources",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		opt, err := parserOptions()
		if err != nil {
			return err
		}
		var tables []*parser.Table
		for _, f := range files {
			t, err := parser.ReadFile(f, opt)
			if err != nil {
				fmt.Fprintf(os.Stderr, "⚠ Warning: %s: %v\n", f, err)
				continue
			}
			tables = append(tables, t)
		}
		if len(tables) == 0 {
			return fmt.Errorf("no readable sources")
		}
		for _, c := range parser.ColumnUnion(tables) {
			fmt.Printf("- %s\n", c)
		}
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <files...>",
	Short: "Profile sources and the selected activity/time/rework columns",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		opt, err := inspectCols.options(cmd)
		if err != nil {
			return err
		}
		for _, f := range files {
			t, err := parser.ReadFile(f, opt.Parser)
			if err != nil {
				fmt.Fprintf(os.Stderr, "⚠ Warning: %s: %v\n", f, err)
				continue
			}
			fmt.Println(parser.Inspect(t, opt.ActivityColumn, opt.TimeColumn, opt.ReworkColumn).Markdown())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)
	rootCmd.AddCommand(inspectCmd)
	inspectCols.bind(inspectCmd)
}
