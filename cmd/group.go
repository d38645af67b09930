package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/timestudy-cli/internal/session"
	"github.com/KaramelBytes/timestudy-cli/internal/termui"
	"github.com/spf13/cobra"
)

var groupColor string

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Create, assign, list, and remove activity groups",
}

var groupCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a group; the color defaults to the next palette entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session.Session) (bool, error) {
			g, err := s.CreateGroup(args[0], groupColor)
			if err != nil {
				return false, err
			}
			fmt.Printf("✓ Group created: %s %s %s\n", termui.Swatch(g.Color), g.Name, g.Color)
			return true, nil
		})
	},
}

var groupAssignCmd = &cobra.Command{
	Use:   "assign <group> <activity...>",
	Short: "Move activities into a group",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session.Session) (bool, error) {
			res, err := s.AssignGroup(args[0], args[1:])
			if err != nil {
				return false, err
			}
			if len(res.Added) > 0 {
				fmt.Printf("✓ Added to %s: %s\n", args[0], strings.Join(res.Added, ", "))
			}
			for _, a := range res.Added {
				if from, ok := res.Moved[a]; ok {
					fmt.Printf("  moved %q from %s\n", a, from)
				}
			}
			if len(res.AlreadyMember) > 0 {
				fmt.Printf("  already in %s: %s\n", args[0], strings.Join(res.AlreadyMember, ", "))
			}
			return len(res.Added) > 0, nil
		})
	},
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List groups with their activities",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session.Session) (bool, error) {
			if s.Groups.Len() == 0 {
				fmt.Println("(no groups)")
				return false, nil
			}
			fmt.Println(termui.GroupsTable(s.Groups, s.Records.Counts()))
			return false, nil
		})
	},
}

var groupRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a group; its activities become available again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session.Session) (bool, error) {
			if err := s.Groups.Remove(args[0]); err != nil {
				return false, err
			}
			fmt.Printf("✓ Group removed: %s\n", args[0])
			return true, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(groupCmd)
	groupCmd.AddCommand(groupCreateCmd)
	groupCmd.AddCommand(groupAssignCmd)
	groupCmd.AddCommand(groupListCmd)
	groupCmd.AddCommand(groupRemoveCmd)
	groupCreateCmd.Flags().StringVar(&groupColor, "color", "", "group color as #RRGGBB")
}
