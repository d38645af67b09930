package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/timestudy-cli/internal/session"
	"github.com/KaramelBytes/timestudy-cli/internal/similarity"
	"github.com/KaramelBytes/timestudy-cli/internal/termui"
	"github.com/spf13/cobra"
)

var (
	activitiesAll bool

	similarThreshold float64
	similarAll       bool

	unifyAs        string
	unifyKeep      string
	unifyCandidate int

	skipCandidate int
)

var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "List activities not yet assigned to a group",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session.Session) (bool, error) {
			if s.Records.Len() == 0 {
				return false, session.ErrNoRecords
			}
			names := s.Available()
			if activitiesAll {
				names = s.Records.Activities()
			}
			if len(names) == 0 {
				fmt.Println("(every activity is grouped)")
				return false, nil
			}
			fmt.Println(termui.ActivitiesTable(names, s.Records.Counts(), s.Groups.Membership()))
			return false, nil
		})
	},
}

var similarCmd = &cobra.Command{
	Use:   "similar",
	Short: "Find pairs of similar activity names to review",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := requireConfig()
		if err != nil {
			return err
		}
		threshold := conf.SimilarityThreshold
		if cmd.Flags().Changed("threshold") {
			if similarThreshold < 0 || similarThreshold > 1 {
				return fmt.Errorf("--threshold must be within [0,1], got %v", similarThreshold)
			}
			threshold = similarThreshold
		}
		return withSession(func(s *session.Session) (bool, error) {
			if s.Records.Len() == 0 {
				return false, session.ErrNoRecords
			}
			cands := s.RefreshCandidates(threshold)
			pending := len(similarity.PendingOnly(cands))
			rec.SetPending(pending)
			if len(cands) == 0 {
				fmt.Printf("✓ No names above %.2f similarity\n", threshold)
				return true, nil
			}
			fmt.Println(termui.CandidatesTable(cands, similarAll))
			fmt.Printf("%d pending; resolve with: timestudy unify --candidate N | timestudy skip --candidate N\n", pending)
			return true, nil
		})
	},
}

var unifyCmd = &cobra.Command{
	Use:   "unify [<nameA> <nameB>]",
	Short: "Merge two activity names into one",
	Long: `Merge two activity names. The first name is kept unless --keep second or
--as <name> is given. Use --candidate N to merge the N-th pair listed by 'similar'.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session.Session) (bool, error) {
			a, b, err := pairFromArgs(s, args, unifyCandidate)
			if err != nil {
				return false, err
			}
			chosen := a
			switch strings.ToLower(unifyKeep) {
			case "", "first":
			case "second":
				chosen = b
			default:
				return false, fmt.Errorf("invalid --keep: %s (use first or second)", unifyKeep)
			}
			if cmd.Flags().Changed("as") {
				chosen = unifyAs
			}
			if err := s.Unify(a, b, chosen); err != nil {
				return false, err
			}
			rec.Unified()
			fmt.Printf("✓ Unified %q and %q as %q\n", a, b, strings.TrimSpace(chosen))
			return true, nil
		})
	},
}

var skipCmd = &cobra.Command{
	Use:   "skip [<nameA> <nameB>]",
	Short: "Mark a similar-name pair as reviewed without merging",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session.Session) (bool, error) {
			a, b, err := pairFromArgs(s, args, skipCandidate)
			if err != nil {
				return false, err
			}
			if err := s.Skip(a, b); err != nil {
				return false, err
			}
			fmt.Printf("✓ Skipped %q / %q\n", a, b)
			return true, nil
		})
	},
}

// pairFromArgs takes two names or a 1-based candidate index, not both.
func pairFromArgs(s *session.Session, args []string, candidate int) (string, string, error) {
	switch {
	case candidate > 0 && len(args) > 0:
		return "", "", fmt.Errorf("give either two names or --candidate, not both")
	case candidate > 0:
		c, err := s.Candidate(candidate)
		if err != nil {
			return "", "", err
		}
		return c.A, c.B, nil
	case len(args) == 2:
		return args[0], args[1], nil
	default:
		return "", "", fmt.Errorf("two activity names or --candidate N are required")
	}
}

func init() {
	rootCmd.AddCommand(activitiesCmd)
	rootCmd.AddCommand(similarCmd)
	rootCmd.AddCommand(unifyCmd)
	rootCmd.AddCommand(skipCmd)

	activitiesCmd.Flags().BoolVar(&activitiesAll, "all", false, "list every activity with its group")

	similarCmd.Flags().Float64Var(&similarThreshold, "threshold", similarity.DefaultThreshold, "minimum similarity ratio (exclusive)")
	similarCmd.Flags().BoolVar(&similarAll, "all", false, "include unified and skipped pairs")

	unifyCmd.Flags().StringVar(&unifyAs, "as", "", "canonical name to use instead of either input")
	unifyCmd.Flags().StringVar(&unifyKeep, "keep", "first", "which input name to keep: first|second")
	unifyCmd.Flags().IntVar(&unifyCandidate, "candidate", 0, "1-based candidate index from 'similar'")

	skipCmd.Flags().IntVar(&skipCandidate, "candidate", 0, "1-based candidate index from 'similar'")
}
