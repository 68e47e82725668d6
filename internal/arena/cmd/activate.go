// Copyright © 2024 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func Activate() *cobra.Command {
	activateCmd := &cobra.Command{
		Use:   "activate [name]",
		Short: "Make a bot eligible for selection into rounds",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setActive(cmd, args, true)
		},
	}

	activateCmd.Flags().Bool("all", false, "activate every registered bot")
	return activateCmd
}

func Deactivate() *cobra.Command {
	deactivateCmd := &cobra.Command{
		Use:   "deactivate [name]",
		Short: "Bench a bot without touching its rating",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setActive(cmd, args, false)
		},
	}

	deactivateCmd.Flags().Bool("all", false, "deactivate every registered bot")
	return deactivateCmd
}

func setActive(cmd *cobra.Command, args []string, active bool) error {
	all, _ := cmd.Flags().GetBool("all")
	if all == (len(args) == 1) {
		return errors.New("give exactly one of a bot name or --all")
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	state := "inactive"
	if active {
		state = "active"
	}

	if all {
		if err := st.SetActiveAll(cmd.Context(), active); err != nil {
			return err
		}
		fmt.Printf("every bot is now %s\n", state)
		return nil
	}

	if err := st.SetActive(cmd.Context(), args[0], active); err != nil {
		return err
	}
	fmt.Printf("%s is now %s\n", args[0], state)
	return nil
}
