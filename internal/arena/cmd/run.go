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
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"laptudirm.com/x/arena/pkg/bvb/tournament"
	"laptudirm.com/x/arena/pkg/common"
	"laptudirm.com/x/arena/pkg/metrics"
	"laptudirm.com/x/arena/pkg/store"
)

func Run() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run [rounds]",
		Short: "Run rated rounds between the registered bots",
		Long: heredoc.Doc(`
			run plays the given number of rounds (default 1) between the
			active bots. Each round picks contestants, plays one match by
			invoking the configured game engine, records the result, and
			updates the ratings and the leaderboard.

			Press q between rounds to stop safely: the round in progress is
			always allowed to finish. With --forever, rounds keep going until
			stopped.
		`),
		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			st, err := store.Open(cfg.Database)
			if err != nil {
				return err
			}
			defer st.Close()

			opts, err := st.Options(ctx)
			if err != nil {
				return err
			}

			flags := cmd.Flags()

			tconfig := tournament.DefaultConfig()
			tconfig.PlayersMin = cfg.PlayersMin
			tconfig.PlayersMax = cfg.PlayersMax
			tconfig.PlayerDist = cfg.PlayerDist
			tconfig.MapDist = cfg.MapDist
			tconfig.TurnLimit = cfg.TurnLimit
			tconfig.Dynamics = cfg.Dynamics
			tconfig.PrioritySigma = cfg.PrioritySigma
			tconfig.KeepReplays = cfg.KeepReplays
			tconfig.KeepLogs = cfg.KeepLogs
			tconfig.HaltOnTermination = cfg.HaltOnTermination
			tconfig.ErrorDir = common.ErrorDirectory

			// The engine and record directory stored alongside the roster
			// beat the config file; explicit flags beat both.
			tconfig.Engine = cfg.Engine
			if opts.EngineCmd != "" {
				tconfig.Engine = opts.EngineCmd
			}
			tconfig.RecordDir = cfg.RecordDir
			if opts.RecordDir != "" {
				tconfig.RecordDir = opts.RecordDir
			}

			tconfig.Rounds = 1
			if len(args) == 1 {
				tconfig.Rounds, err = strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("bad round count %q", args[0])
				}
			}
			if forever, _ := flags.GetBool("forever"); forever {
				tconfig.Rounds = -1
			}

			if flags.Changed("engine") {
				tconfig.Engine, _ = flags.GetString("engine")
			}
			if flags.Changed("record-dir") {
				tconfig.RecordDir, _ = flags.GetString("record-dir")
			}
			if flags.Changed("width") {
				tconfig.MapWidth, _ = flags.GetInt("width")
			}
			if flags.Changed("height") {
				tconfig.MapHeight, _ = flags.GetInt("height")
			}
			if flags.Changed("seed") {
				tconfig.MapSeed, _ = flags.GetInt64("seed")
			}
			if flags.Changed("turn-limit") {
				tconfig.TurnLimit, _ = flags.GetInt("turn-limit")
			}
			if flags.Changed("bot") {
				tconfig.Force, _ = flags.GetString("bot")
			}
			if equal, _ := flags.GetBool("equal-priority"); equal {
				tconfig.PrioritySigma = false
			}
			if noTimeout, _ := flags.GetBool("no-timeout"); noTimeout {
				tconfig.NoTimeout = true
			}
			if noReplays, _ := flags.GetBool("no-replays"); noReplays {
				tconfig.KeepReplays = false
			}
			if noLogs, _ := flags.GetBool("no-logs"); noLogs {
				tconfig.KeepLogs = false
			}
			if halt, _ := flags.GetBool("halt-on-termination"); halt {
				tconfig.HaltOnTermination = true
			}

			log := logrus.StandardLogger()

			tour, err := tournament.New(tconfig, st, log)
			if err != nil {
				return err
			}

			if cfg.MetricsAddr != "" {
				metrics.Serve(cfg.MetricsAddr, log)
			}

			fmt.Println("press q to stop the tournament after the current round")

			watcher, err := common.WatchKeys('q', 'Q')
			if err != nil {
				return err
			}
			defer watcher.Close()
			tour.SetStop(watcher.Pressed)

			err = tour.Run(ctx)

			// Leave raw mode before anything else writes to the terminal.
			watcher.Close()

			if errors.Is(err, tournament.ErrCancelled) {
				log.Infof("stopped early after %d round(s)", tour.RoundsPlayed)
				return nil
			}
			return err
		},
	}

	runCmd.Flags().Bool("forever", false, "keep playing rounds until stopped")
	runCmd.Flags().String("engine", "", "game engine command to use")
	runCmd.Flags().String("record-dir", "", "directory for replays and logs")
	runCmd.Flags().IntP("width", "W", 0, "map width")
	runCmd.Flags().IntP("height", "H", 0, "map height")
	runCmd.Flags().Int64P("seed", "s", 0, "map seed to use for every round")
	runCmd.Flags().Int("turn-limit", 0, "engine turn limit")
	runCmd.Flags().StringP("bot", "b", "", "bot guaranteed a spot in every round")
	runCmd.Flags().BoolP("equal-priority", "e", false, "no reserved spot for uncertain bots")
	runCmd.Flags().Bool("no-timeout", false, "disable engine timeouts")
	runCmd.Flags().Bool("no-replays", false, "do not keep replays")
	runCmd.Flags().Bool("no-logs", false, "do not keep bot logs")
	runCmd.Flags().Bool("halt-on-termination", false, "stop the run when a bot is terminated")

	return runCmd
}
