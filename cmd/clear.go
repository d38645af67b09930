package cmd

import (
	"fmt"

	"github.com/KaramelBytes/timestudy-cli/internal/session"
	"github.com/spf13/cobra"
)

var (
	clearGroups       bool
	clearUnifications bool
	clearAll          bool
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Reset groups and/or name unifications in the session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, u := clearGroups || clearAll, clearUnifications || clearAll
		if !g && !u {
			return fmt.Errorf("specify --groups, --unifications, or --all")
		}
		return withSession(func(s *session.Session) (bool, error) {
			s.Clear(g, u)
			if g {
				fmt.Println("✓ Groups cleared")
			}
			if u {
				fmt.Println("✓ Unifications cleared")
			}
			return true, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().BoolVar(&clearGroups, "groups", false, "remove every group")
	clearCmd.Flags().BoolVar(&clearUnifications, "unifications", false, "forget the unification history and review state")
	clearCmd.Flags().BoolVar(&clearAll, "all", false, "both --groups and --unifications")
}
