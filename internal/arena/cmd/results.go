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
	"fmt"

	"github.com/spf13/cobra"
)

func Results() *cobra.Command {
	resultsCmd := &cobra.Command{
		Use:   "results",
		Short: "Browse the match history, newest first",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			offset, _ := cmd.Flags().GetInt("offset")
			limit, _ := cmd.Flags().GetInt("limit")

			results, err := st.Results(cmd.Context(), offset, limit)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Println("no matches on record")
				return nil
			}

			for _, result := range results {
				fmt.Printf("game #%-5d %dx%d seed %-11d %s\n",
					result.GameID, result.Width, result.Height,
					result.Seed, result.PlayedAt)
				fmt.Printf("  finish order: %s\n", result.Names)
				fmt.Printf("  replay:       %s\n", result.Replay)
			}
			return nil
		},
	}

	resultsCmd.Flags().IntP("offset", "o", 0, "matches to skip")
	resultsCmd.Flags().IntP("limit", "l", 20, "matches to show")
	return resultsCmd
}
