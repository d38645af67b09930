package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		names, err := st.List()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("(no sessions)")
			return nil
		}
		for _, n := range names {
			fmt.Printf("- %s\n", n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
