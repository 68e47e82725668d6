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

// Package config loads the manager's standing configuration, layered from
// built-in defaults, an optional YAML file, and ARENA_* environment
// variables, in increasing order of precedence. Command-line flags layer on
// top of all of it, at the command site.
package config

import (
	"laptudirm.com/x/arena/pkg/common"
)

// EnvPrefix namespaces the environment variables read by Load. The variable
// ARENA_CONFIG additionally points Load at an explicit config file.
const EnvPrefix = "ARENA_"

// Config is the manager's standing configuration.
type Config struct {
	// Database is the bot database file.
	Database string `koanf:"database"`

	// Engine is the game-engine command; the stored options and flags can
	// override it.
	Engine string `koanf:"engine"`

	// RecordDir receives engine replays and bot logs.
	RecordDir string `koanf:"record_dir"`

	// Visualizer is the replay viewer command template.
	Visualizer string `koanf:"visualizer"`

	PlayersMin int   `koanf:"players_min"`
	PlayersMax int   `koanf:"players_max"`
	PlayerDist []int `koanf:"player_dist"`
	MapDist    []int `koanf:"map_dist"`

	TurnLimit int `koanf:"turn_limit"`

	// Dynamics is the rating model's tau.
	Dynamics float64 `koanf:"dynamics_factor"`

	PrioritySigma bool `koanf:"priority_sigma"`
	KeepReplays   bool `koanf:"keep_replays"`
	KeepLogs      bool `koanf:"keep_logs"`

	HaltOnTermination bool `koanf:"halt_on_termination"`

	// MetricsAddr, when set, serves prometheus metrics during runs.
	MetricsAddr string `koanf:"metrics_addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Database:      common.DatabaseFile,
		RecordDir:     common.ReplayDirectory,
		PlayersMin:    2,
		PlayersMax:    4,
		PlayerDist:    []int{2, 4},
		MapDist:       []int{32, 40, 48, 56, 64},
		PrioritySigma: true,
		KeepReplays:   true,
		KeepLogs:      true,
	}
}
