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

package match

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// NoReplayStored is recorded in place of a replay filename when the engine
// was told not to keep one.
const NoReplayStored = "No Replay Was Stored"

// Placement is one contestant's finishing position and score.
type Placement struct {
	Rank  int `json:"rank"`
	Score int `json:"score"`
}

// payload is the wire form of the engine's --results-as-json report. The
// per-player maps are keyed by the zero-based submission index, as a string.
type payload struct {
	ErrorLogs    map[string]string    `json:"error_logs"`
	MapHeight    *int                 `json:"map_height"`
	MapWidth     *int                 `json:"map_width"`
	MapSeed      *int64               `json:"map_seed"`
	MapGenerator *string              `json:"map_generator"`
	Replay       string               `json:"replay"`
	Stats        map[string]Placement `json:"stats"`
	Terminated   map[string]bool      `json:"terminated"`
}

// decode interprets the engine's stdout and fills in the match record.
func (m *Match) decode(output []byte) error {
	var data payload
	if err := json.Unmarshal(output, &data); err != nil {
		return &ExecutionError{Stage: "decode", Err: err}
	}

	switch {
	case data.MapHeight == nil:
		return missing("map_height")
	case data.MapWidth == nil:
		return missing("map_width")
	case data.MapSeed == nil:
		return missing("map_seed")
	case data.MapGenerator == nil:
		return missing("map_generator")
	case data.ErrorLogs == nil:
		return missing("error_logs")
	case data.Stats == nil:
		return missing("stats")
	case data.Terminated == nil:
		return missing("terminated")
	}

	m.Height = *data.MapHeight
	m.Width = *data.MapWidth
	m.Seed = *data.MapSeed
	m.Generator = *data.MapGenerator

	m.ReplayFile = data.Replay
	if m.ReplayFile == "" {
		m.ReplayFile = NoReplayStored
	}

	// Every contestant must be accounted for: a silently absent entry would
	// read as a zero-valued placement outranking every real finisher.
	for i := range m.Contestants {
		key := strconv.Itoa(i)
		if _, ok := data.Stats[key]; !ok {
			return &ExecutionError{
				Stage: "decode",
				Err:   fmt.Errorf("no stats entry for contestant %d", i),
			}
		}
		if _, ok := data.Terminated[key]; !ok {
			return &ExecutionError{
				Stage: "decode",
				Err:   fmt.Errorf("no terminated entry for contestant %d", i),
			}
		}
	}

	for key, placement := range data.Stats {
		index, err := m.contestantIndex(key)
		if err != nil {
			return err
		}
		m.Results[index] = placement
	}

	for key, terminated := range data.Terminated {
		index, err := m.contestantIndex(key)
		if err != nil {
			return err
		}
		m.Terminated[index] = terminated
	}

	for key, logFile := range data.ErrorLogs {
		index, err := m.contestantIndex(key)
		if err != nil {
			return err
		}
		m.Logs[index] = logFile
	}

	return nil
}

// contestantIndex parses a per-player map key and bounds-checks it against
// the submission order.
func (m *Match) contestantIndex(key string) (int, error) {
	index, err := strconv.Atoi(key)
	if err != nil || index < 0 || index >= len(m.Contestants) {
		return 0, &ExecutionError{
			Stage: "decode",
			Err:   fmt.Errorf("bad contestant index %q", key),
		}
	}
	return index, nil
}

func missing(field string) error {
	return &ExecutionError{
		Stage: "decode",
		Err:   fmt.Errorf("required field %q missing from result", field),
	}
}
