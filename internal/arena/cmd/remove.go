package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func Remove() *cobra.Command {
	removeCmd := &cobra.Command{
		Use:   "remove name",
		Short: "Remove a bot from the roster",
		Args:  cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes && !confirm(fmt.Sprintf("remove %s and its rating for good?", args[0])) {
				return nil
			}

			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.DeletePlayer(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Printf("removed \x1b[31m%s\x1b[0m from the roster\n", args[0])
			return nil
		},
	}

	removeCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	return removeCmd
}
