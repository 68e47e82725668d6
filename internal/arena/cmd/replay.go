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
	"strconv"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"laptudirm.com/x/arena/pkg/bvb/match"
	"laptudirm.com/x/arena/pkg/common"
	"laptudirm.com/x/arena/pkg/store"
)

func Replay() *cobra.Command {
	replayCmd := &cobra.Command{
		Use:   "replay [game]",
		Short: "View a recorded match in the configured visualizer",
		Long: heredoc.Doc(`
			replay opens a match's replay file in the visualizer configured
			with "config set visualizer". The game number works like in the
			results listing; 0 (the default) is the latest match and negative
			numbers count back from it.

			A replay file from somewhere else can be viewed with --file.
		`),
		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			st, err := store.Open(cfg.Database)
			if err != nil {
				return err
			}
			defer st.Close()

			opts, err := st.Options(cmd.Context())
			if err != nil {
				return err
			}

			visualizer := cfg.Visualizer
			if opts.Visualizer != "" {
				visualizer = opts.Visualizer
			}

			if file, _ := cmd.Flags().GetString("file"); file != "" {
				return common.Visualize(visualizer, file)
			}

			var id int64
			if len(args) == 1 {
				id, err = strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("bad game number %q", args[0])
				}
			}

			id, replay, err := st.ReplayFilename(cmd.Context(), id)
			if err != nil {
				return err
			}

			if replay == match.NoReplayStored || replay == "" {
				return fmt.Errorf("no replay was stored for game #%d", id)
			}

			fmt.Printf("viewing game #%d (%s)\n", id, replay)
			return common.Visualize(visualizer, replay)
		},
	}

	replayCmd.Flags().String("file", "", "view this replay file instead")
	return replayCmd
}
