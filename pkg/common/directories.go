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
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const FilePermissions = 0755

var (
	Directory = filepath.Join(xdg.Home, "arena")

	// ReplayDirectory is the default home of engine replays and bot logs.
	// ErrorDirectory additionally receives copies of the records of rounds
	// in which a bot was terminated.
	ReplayDirectory = filepath.Join(Directory, "replays")
	ErrorDirectory  = filepath.Join(Directory, "errors")

	DatabaseFile = filepath.Join(Directory, "arena.sqlite3")
	ConfigFile   = filepath.Join(Directory, "arena.yaml")
)

func TryMkdir(dir string) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		_ = os.MkdirAll(dir, FilePermissions)
	}
}

func init() {
	TryMkdir(Directory)
	TryMkdir(ReplayDirectory)
	TryMkdir(ErrorDirectory)
}
