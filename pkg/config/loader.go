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

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"laptudirm.com/x/arena/pkg/common"
)

// Load assembles the configuration: defaults, then the YAML file named by
// ARENA_CONFIG (falling back to the standard location if one exists there),
// then ARENA_* environment variables.
func Load() (*Config, error) {
	return load(configFile())
}

func configFile() string {
	if path := os.Getenv(EnvPrefix + "CONFIG"); path != "" {
		return path
	}
	if _, err := os.Stat(common.ConfigFile); err == nil {
		return common.ConfigFile
	}
	return ""
}

func load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(key string) string {
		key = strings.TrimPrefix(key, EnvPrefix)
		if key == "CONFIG" {
			return "" // meta-variable, not a config key
		}
		return strings.ToLower(key)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("config: read environment: %w", err)
	}

	config := Default()
	err = k.UnmarshalWithConf("", config, koanf.UnmarshalConf{Tag: "koanf"})
	if err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (config *Config) validate() error {
	switch {
	case config.Database == "":
		return fmt.Errorf("config: no database file configured")
	case config.PlayersMin < 2:
		return fmt.Errorf("config: players_min %d is below 2", config.PlayersMin)
	case config.PlayersMax < config.PlayersMin:
		return fmt.Errorf("config: players_max %d is below players_min %d",
			config.PlayersMax, config.PlayersMin)
	case config.Dynamics < 0:
		return fmt.Errorf("config: negative dynamics_factor %f", config.Dynamics)
	}
	return nil
}
