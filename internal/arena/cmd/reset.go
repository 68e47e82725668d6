package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func Reset() *cobra.Command {
	resetCmd := &cobra.Command{
		Use:   "reset name",
		Short: "Give a bot a fresh rating record",
		Args:  cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes && !confirm(fmt.Sprintf("throw away %s's rating history?", args[0])) {
				return nil
			}

			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.ResetPlayer(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Printf("%s starts over with a fresh rating\n", args[0])
			return nil
		},
	}

	resetCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	return resetCmd
}
