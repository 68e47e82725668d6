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

package common

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// ReplayPlaceholder is the token in the visualizer command string which gets
// replaced by the replay file being viewed.
const ReplayPlaceholder = "FILENAME"

// Visualize launches the configured visualizer on the given replay file and
// returns without waiting for it to exit. The command string is a template
// like "viewer --open FILENAME --fullscreen".
func Visualize(command, replay string) error {
	if command == "" {
		return errors.New("util: no visualizer command configured")
	}

	command = strings.ReplaceAll(command, ReplayPlaceholder, replay)
	fields := strings.Fields(command)

	logrus.Debugf("\x1b[34m%s\x1b[0m %s\n", fields[0], strings.Join(fields[1:], " "))
	return exec.Command(fields[0], fields[1:]...).Start()
}
