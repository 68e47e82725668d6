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

func Add() *cobra.Command {
	return &cobra.Command{
		Use:   "add name path",
		Short: "Register a new bot",
		Long: heredoc.Doc(`
			add registers a new bot under the given name. The path is the
			command the game engine uses to start the bot, for example
			"python3 MyBot.py" or "./bots/v42/bot".

			New bots start with a fresh rating and are active, so they get
			picked for rounds right away.
		`),
		Args: cobra.ExactArgs(2),

		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.AddPlayer(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}

			fmt.Printf("registered \x1b[32m%s\x1b[0m (%s)\n", args[0], args[1])
			return nil
		},
	}
}
