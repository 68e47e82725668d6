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

// Package cmd implements the subcommands of the arena binary.
package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"laptudirm.com/x/arena/pkg/config"
	"laptudirm.com/x/arena/pkg/store"
)

// loadConfig loads the standing configuration and applies the global
// --database override.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if database, _ := cmd.Flags().GetString("database"); database != "" {
		cfg.Database = database
	}
	return cfg, nil
}

// openStore opens the bot database a command should work against.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return store.Open(cfg.Database)
}

// confirm asks the operator before a destructive operation goes ahead.
func confirm(prompt string) bool {
	fmt.Printf("%s (y/N): ", prompt)

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}

	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes"
}
