package cmd

import (
	"fmt"

	"github.com/KaramelBytes/timestudy-cli/internal/session"
	"github.com/KaramelBytes/timestudy-cli/internal/termui"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Print per-group and per-activity statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session.Session) (bool, error) {
			root, err := s.Tree()
			if err != nil {
				return false, err
			}
			fmt.Println(termui.TreeTable(root))
			fmt.Printf("%d records, %d activities, %d groups\n", s.Records.Len(), len(s.Records.Activities()), s.Groups.Len())
			return false, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
