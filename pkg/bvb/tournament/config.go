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

package tournament

import "fmt"

// Config enumerates every recognized tournament option. Unknown knobs are a
// compile error at the call site, not a silently ignored key.
type Config struct {
	// Rounds to play; negative means run until stopped.
	Rounds int

	// Contestant count per round. When PlayersMax exceeds PlayersMin the
	// count is drawn from PlayerDist each round, otherwise it is PlayersMin.
	PlayersMin int
	PlayersMax int
	PlayerDist []int

	// Map dimensions. Zero values are drawn from MapDist; maps are square
	// unless both are given.
	MapWidth  int
	MapHeight int
	MapDist   []int

	// MapSeed pins the engine's map seed for every round; 0 picks a random
	// seed per round.
	MapSeed int64

	Force         string // bot guaranteed a spot each round, "" for none
	PrioritySigma bool   // reserve a spot for the most uncertain bot

	Engine    string // engine executable
	TurnLimit int
	NoTimeout bool

	KeepReplays bool
	KeepLogs    bool
	RecordDir   string
	ErrorDir    string

	// Dynamics is the rating model's tau; 0 uses the model default.
	Dynamics float64

	// HaltOnTermination stops the run when a bot gets terminated instead of
	// carrying on with the remaining rounds.
	HaltOnTermination bool
}

// DefaultConfig returns the standing tournament defaults.
func DefaultConfig() Config {
	return Config{
		Rounds:        1,
		PlayersMin:    2,
		PlayersMax:    4,
		PlayerDist:    []int{2, 4},
		MapDist:       []int{32, 40, 48, 56, 64},
		PrioritySigma: true,
		KeepReplays:   true,
		KeepLogs:      true,
	}
}

func (config *Config) validate() error {
	switch {
	case config.Rounds == 0:
		return &ConfigurationError{Reason: "0 is not a valid number of rounds"}
	case config.Engine == "":
		return &ConfigurationError{Reason: "no engine command configured"}
	case config.PlayersMin < 2:
		return &ConfigurationError{Reason: "a round needs at least 2 contestants"}
	case config.PlayersMax > config.PlayersMin && len(config.PlayerDist) == 0:
		return &ConfigurationError{Reason: "contestant count range given without a distribution"}
	case config.MapWidth == 0 && config.MapHeight == 0 && len(config.MapDist) == 0:
		return &ConfigurationError{Reason: "no map dimensions or distribution configured"}
	case config.MapWidth < 0 || config.MapHeight < 0:
		return &ConfigurationError{Reason: fmt.Sprintf("bad map dimensions %dx%d", config.MapWidth, config.MapHeight)}
	}

	for _, count := range config.PlayerDist {
		if count < 2 {
			return &ConfigurationError{Reason: fmt.Sprintf("bad contestant count %d in distribution", count)}
		}
	}

	return nil
}
