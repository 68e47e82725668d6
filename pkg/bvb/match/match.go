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

// Package match runs single matches between bots by delegating to an external
// game-engine executable and decoding its JSON result report.
package match

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// TimeBudget is the wall-clock allowance for a single engine invocation.
// Overrunning it kills the engine process outright.
const TimeBudget = 5 * time.Minute

// waitDelay bounds how long Run keeps waiting after killing the engine.
// Bot processes spawned by the engine inherit its stdout write end, and a
// hung one would otherwise keep Wait blocked on the pipe forever.
const waitDelay = 5 * time.Second

// Contestant is one bot taking part in a match.
type Contestant struct {
	Name string
	Path string // invocation path handed to the engine
}

// Config describes one match to be run.
type Config struct {
	Engine string // engine executable

	Width, Height int
	Seed          int64
	TurnLimit     int  // 0 means engine default
	NoTimeout     bool // disable the engine's own per-turn timeouts

	KeepReplay bool
	KeepLogs   bool
	RecordDir  string // where the engine writes replays and logs
	ErrorDir   string // extra copies of records of terminated rounds, "" to skip
}

// Match is the decoded record of one finished match. The index i in Results,
// Terminated and Logs refers to Contestants[i], the submission order fixed at
// invocation time.
type Match struct {
	Contestants []Contestant

	Width, Height int
	Seed          int64
	TurnLimit     int
	Generator     string

	Results    []Placement
	Terminated map[int]bool
	ReplayFile string
	Logs       map[int]string

	PlayedAt time.Time
}

// AnyTerminated reports whether the engine forcibly removed at least one bot
// from the match.
func (m *Match) AnyTerminated() bool {
	for _, terminated := range m.Terminated {
		if terminated {
			return true
		}
	}
	return false
}

// Command builds the engine argument vector for the given match. Flags and
// their values are separate entries.
func Command(config Config, contestants []Contestant) []string {
	args := []string{
		config.Engine,
		"--height", strconv.Itoa(config.Height),
		"--width", strconv.Itoa(config.Width),
	}

	if config.TurnLimit > 0 {
		args = append(args, "--turn-limit", strconv.Itoa(config.TurnLimit))
	}

	if !config.KeepLogs {
		args = append(args, "--no-logs")
	}

	if !config.KeepReplay {
		args = append(args, "--no-replay")
	}

	if config.KeepReplay || config.KeepLogs {
		args = append(args, "--replay-directory", config.RecordDir)
	}

	if config.NoTimeout {
		args = append(args, "--no-timeout")
	}

	args = append(args, "--results-as-json", "-s", strconv.FormatInt(config.Seed, 10))

	for _, contestant := range contestants {
		args = append(args, contestant.Path)
	}

	return args
}

// Run plays one match between the given contestants and returns its decoded
// record. Any failure of the engine itself, including a time-budget overrun,
// is reported as an *ExecutionError.
func Run(ctx context.Context, config Config, contestants []Contestant, log logrus.FieldLogger) (*Match, error) {
	m := &Match{
		Contestants: contestants,
		Width:       config.Width,
		Height:      config.Height,
		Seed:        config.Seed,
		TurnLimit:   config.TurnLimit,
		Results:     make([]Placement, len(contestants)),
		Terminated:  make(map[int]bool, len(contestants)),
		Logs:        make(map[int]string),
		PlayedAt:    time.Now(),
	}

	argv := Command(config, contestants)
	log.Debugf("engine command: %s", strings.Join(argv, " "))

	ctx, cancel := context.WithTimeout(ctx, TimeBudget)
	defer cancel()

	var stdout bytes.Buffer
	engine := exec.CommandContext(ctx, argv[0], argv[1:]...)
	engine.Stdout = &stdout
	engine.WaitDelay = waitDelay

	err := engine.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, &ExecutionError{
			Stage: "run",
			Err:   errors.New("wall-clock budget exceeded"),
		}
	}
	if err != nil {
		return nil, &ExecutionError{Stage: "run", Err: err}
	}

	if err := m.decode(stdout.Bytes()); err != nil {
		return nil, err
	}

	m.preserveErrorRecords(config, log)
	return m, nil
}

// preserveErrorRecords copies the replay and bot logs of a match in which a
// bot was terminated into the error directory, so they survive any cleanup of
// the regular record directory.
func (m *Match) preserveErrorRecords(config Config, log logrus.FieldLogger) {
	if config.ErrorDir == "" || !m.AnyTerminated() {
		return
	}

	files := make([]string, 0, len(m.Logs)+1)
	if m.ReplayFile != NoReplayStored {
		files = append(files, m.ReplayFile)
	}
	for _, logFile := range m.Logs {
		if logFile != "" {
			files = append(files, logFile)
		}
	}

	for _, file := range files {
		if err := copyInto(file, config.ErrorDir); err != nil {
			log.Warnf("could not preserve %s: %v", file, err)
		}
	}
}

func copyInto(file, dir string) error {
	src, err := os.Open(file)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, filepath.Base(file)))
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
