package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/timestudy-cli/internal/chart"
	"github.com/KaramelBytes/timestudy-cli/internal/export"
	"github.com/KaramelBytes/timestudy-cli/internal/session"
	"github.com/KaramelBytes/timestudy-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	exportOut string
	exportRaw bool

	chartOut   string
	chartTitle string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the pivot and statistics report to .xlsx or .csv",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportOut == "" {
			return fmt.Errorf("--output is required")
		}
		if err := utils.EnsureDir(filepath.Dir(exportOut)); err != nil {
			return err
		}
		return withSession(func(s *session.Session) (bool, error) {
			if exportRaw {
				if !utils.HasExt(exportOut, ".csv") {
					return false, fmt.Errorf("--raw writes CSV; use a .csv output path")
				}
				if s.Records.Len() == 0 {
					return false, session.ErrNoRecords
				}
				var buf bytes.Buffer
				if err := export.WriteRecordsCSV(&buf, s.Records.Records); err != nil {
					return false, err
				}
				if err := utils.SafeWriteFile(exportOut, buf.Bytes()); err != nil {
					return false, err
				}
				rec.Exported("csv")
				fmt.Printf("✓ Wrote %d records to %s\n", s.Records.Len(), exportOut)
				return false, nil
			}

			pivot, report, mapping, err := s.Tables()
			if err != nil {
				return false, err
			}
			switch {
			case utils.HasExt(exportOut, ".xlsx"):
				if err := export.WriteXLSX(exportOut, pivot, report, mapping); err != nil {
					return false, err
				}
				rec.Exported("xlsx")
			case utils.HasExt(exportOut, ".csv"):
				var buf bytes.Buffer
				if err := export.WriteCSV(&buf, pivot, report); err != nil {
					return false, err
				}
				if err := utils.SafeWriteFile(exportOut, buf.Bytes()); err != nil {
					return false, err
				}
				rec.Exported("csv")
			default:
				return false, fmt.Errorf("unsupported output extension: %s (use .xlsx or .csv)", filepath.Ext(exportOut))
			}
			fmt.Printf("✓ Exported %d pivot rows and %d report rows to %s\n", len(pivot.Rows), len(report.Rows), exportOut)
			return false, nil
		})
	},
}

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render box plots of group and activity times as HTML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if chartOut == "" {
			return fmt.Errorf("--output is required")
		}
		if err := utils.EnsureDir(filepath.Dir(chartOut)); err != nil {
			return err
		}
		return withSession(func(s *session.Session) (bool, error) {
			root, err := s.Tree()
			if err != nil {
				return false, err
			}
			title := chartTitle
			if title == "" {
				title = s.Name
			}
			var buf bytes.Buffer
			n, err := chart.Render(&buf, root, title)
			if err != nil {
				return false, err
			}
			if err := utils.SafeWriteFile(chartOut, buf.Bytes()); err != nil {
				return false, err
			}
			rec.Exported("html")
			fmt.Printf("✓ Chart with %d series written to %s\n", n, chartOut)
			return false, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(chartCmd)
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (.xlsx or .csv)")
	exportCmd.Flags().BoolVar(&exportRaw, "raw", false, "write raw Activity,Seconds records instead of the report")
	chartCmd.Flags().StringVarP(&chartOut, "output", "o", "", "output HTML file")
	chartCmd.Flags().StringVar(&chartTitle, "title", "", "chart title (default session name)")
}
