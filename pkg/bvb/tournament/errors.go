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

import (
	"fmt"
	"strings"

	"laptudirm.com/x/arena/pkg/bvb/match"
)

// ErrCancelled reports that the operator stopped the tournament between
// rounds, after at least one scheduled round was skipped.
var ErrCancelled = fmt.Errorf("tournament: stopped by operator")

// ConfigurationError reports an invalid tournament configuration, detected
// before any round is played.
type ConfigurationError struct {
	Reason string
}

func (err *ConfigurationError) Error() string {
	return "tournament: bad configuration: " + err.Reason
}

// SelectionError reports that a contestant list could not be assembled from
// the active pool.
type SelectionError struct {
	Reason string
}

func (err *SelectionError) Error() string {
	return "tournament: selection: " + err.Reason
}

// TerminationError reports that the engine forcibly removed one or more bots
// from an otherwise completed match. The match itself was recorded; the
// round's ratings were not touched.
type TerminationError struct {
	Match *match.Match
}

func (err *TerminationError) Error() string {
	var names []string
	for index, terminated := range err.Match.Terminated {
		if terminated && index < len(err.Match.Contestants) {
			names = append(names, err.Match.Contestants[index].Name)
		}
	}
	return fmt.Sprintf(
		"tournament: bots terminated mid-match: %s",
		strings.Join(names, ", "),
	)
}
