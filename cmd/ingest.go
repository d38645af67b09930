package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/KaramelBytes/timestudy-cli/internal/ingest"
	"github.com/KaramelBytes/timestudy-cli/internal/session"
	"github.com/KaramelBytes/timestudy-cli/internal/similarity"
	"github.com/KaramelBytes/timestudy-cli/internal/termui"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	ingestCols    columnFlags
	ingestWorkers int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <files...>",
	Short: "Read CSV/XLSX sources into the session, replacing its records",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		opt, err := ingestCols.options(cmd)
		if err != nil {
			return err
		}
		if ingestWorkers > 0 {
			opt.Workers = ingestWorkers
		}
		opt.Logger = slog.Default()
		return withSession(func(s *session.Session) (bool, error) {
			rep, err := s.Ingest(cmd.Context(), files, opt)
			if rep != nil {
				rec.ObserveIngest(rep)
				fmt.Println(termui.IngestTable(rep))
				for _, src := range rep.Sources {
					if src.Rework == ingest.ReworkAbsent {
						fmt.Fprintf(os.Stderr, "⚠ Warning: %s: rework column %q not found; no rows excluded\n", src.Name, opt.ReworkColumn)
					}
				}
			}
			if err != nil {
				return false, err
			}
			cands := s.RefreshCandidates(cfg.SimilarityThreshold)
			pending := len(similarity.PendingOnly(cands))
			rec.SetPending(pending)
			fmt.Printf("✓ Ingested %s records (%d activities) into session %s\n",
				humanize.Comma(int64(rep.Valid)), len(s.Records.Activities()), s.Name)
			if pending > 0 {
				fmt.Printf("  %d similar name pairs to review: timestudy similar\n", pending)
			}
			return true, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCols.bind(ingestCmd)
	ingestCmd.Flags().IntVar(&ingestWorkers, "workers", 0, "concurrent source reads (overrides config)")
}
