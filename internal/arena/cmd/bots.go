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
	"sort"

	"github.com/spf13/cobra"

	"laptudirm.com/x/arena/pkg/common"
	"laptudirm.com/x/arena/pkg/store"
)

func Bots() *cobra.Command {
	botsCmd := &cobra.Command{
		Use:   "bots",
		Short: "Show the leaderboard of registered bots",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			players, err := st.Players(cmd.Context())
			if err != nil {
				return err
			}

			if activeOnly, _ := cmd.Flags().GetBool("active"); activeOnly {
				eligible := players[:0]
				for _, player := range players {
					if player.Active {
						eligible = append(eligible, player)
					}
				}
				players = eligible
			}

			// Strongest first; unrated bots with equal skill read better in
			// natural name order.
			sort.SliceStable(players, func(i, j int) bool {
				if players[i].Skill != players[j].Skill {
					return players[i].Skill > players[j].Skill
				}
				return common.NaturalLess(players[i].Name, players[j].Name)
			})

			printLeaderboard(players)
			return nil
		},
	}

	botsCmd.Flags().BoolP("active", "a", false, "only show active bots")
	return botsCmd
}

func printLeaderboard(players []*store.Player) {
	fmt.Printf("%4s  %-24s %8s %8s %8s %6s  %s\n",
		"rank", "name", "skill", "mu", "sigma", "games", "state")

	for _, player := range players {
		state := "active"
		if !player.Active {
			state = "benched"
		}

		fmt.Printf("%4d  %-24s %8.3f %8.3f %8.3f %6d  %s\n",
			player.Rank, player.Name, player.Skill,
			player.Mu, player.Sigma, player.Games, state)
	}
}
