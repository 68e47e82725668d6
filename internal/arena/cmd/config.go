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

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

func Config() *cobra.Command {
	return &cobra.Command{
		Use:   "config [set key value]",
		Short: "Show or change the options stored with the roster",
		Long: heredoc.Doc(`
			config without arguments shows the sticky options stored in the
			bot database. "config set key value" changes one of them:

			    engine      the game engine command
			    record-dir  where replays and bot logs are written
			    visualizer  the replay viewer command; FILENAME marks where
			                the replay path is substituted

			These follow the database around, so a roster always carries the
			engine it was rated under.
		`),
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && (len(args) != 3 || args[0] != "set") {
				return fmt.Errorf(`expected no arguments or "set key value"`)
			}
			return nil
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			opts, err := st.Options(cmd.Context())
			if err != nil {
				return err
			}

			if len(args) == 0 {
				fmt.Printf("engine:     %s\n", orUnset(opts.EngineCmd))
				fmt.Printf("record-dir: %s\n", orUnset(opts.RecordDir))
				fmt.Printf("visualizer: %s\n", orUnset(opts.Visualizer))
				return nil
			}

			key, value := args[1], args[2]
			switch key {
			case "engine":
				opts.EngineCmd = value
			case "record-dir":
				opts.RecordDir = value
			case "visualizer":
				opts.Visualizer = value
			default:
				return fmt.Errorf("unknown option %q", key)
			}

			if err := st.SetOptions(cmd.Context(), opts); err != nil {
				return err
			}

			fmt.Printf("%s = %s\n", key, value)
			return nil
		},
	}
}

func orUnset(value string) string {
	if value == "" {
		return "\x1b[2m(unset)\x1b[0m"
	}
	return value
}
