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

// Package tournament schedules rated rounds between the registered bots: it
// picks contestants, delegates the match to the engine, and folds the result
// back into the ratings and the match history.
package tournament

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"laptudirm.com/x/arena/pkg/bvb/match"
	"laptudirm.com/x/arena/pkg/bvb/rating"
	"laptudirm.com/x/arena/pkg/internal/util"
	"laptudirm.com/x/arena/pkg/metrics"
	"laptudirm.com/x/arena/pkg/store"
)

// Outcome classifies how a single round ended.
type Outcome int

const (
	Completed  Outcome = iota // match played, ratings updated
	Terminated                // match recorded, a bot was terminated, ratings untouched
	Failed                    // infrastructure failure, nothing persisted
	Cancelled                 // round never played, the operator stopped the run
)

func (outcome Outcome) String() string {
	switch outcome {
	case Completed:
		return "completed"
	case Terminated:
		return "terminated"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Round is the tagged record of one scheduled round.
type Round struct {
	Number  int
	Outcome Outcome
	Match   *match.Match
	Players []*store.Player
	Err     error
}

// A runner plays one match; it is match.Run outside of tests.
type runner func(context.Context, match.Config, []match.Contestant, logrus.FieldLogger) (*match.Match, error)

// Tournament runs rated rounds against a roster until its round budget runs
// out, the operator stops it, or something breaks.
type Tournament struct {
	Config Config

	// RoundsPlayed counts rounds actually attempted, whatever their outcome.
	RoundsPlayed int

	// Rounds is the tagged record of everything Run scheduled, including a
	// final Cancelled entry when the operator stopped the run early.
	Rounds []Round

	store *store.Store
	log   logrus.FieldLogger
	rng   *rand.Rand
	runID string

	stop func() bool // polled between rounds, nil means never stop
	run  runner
}

// New validates the configuration and prepares a tournament over the given
// roster.
func New(config Config, st *store.Store, log logrus.FieldLogger) (*Tournament, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	return &Tournament{
		Config: config,
		store:  st,
		log:    log,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		runID:  uuid.NewString(),
		run:    match.Run,
	}, nil
}

// SetStop registers a poll called between rounds; once it reports true, no
// further rounds are scheduled. In-flight matches are never interrupted.
func (t *Tournament) SetStop(stop func() bool) {
	t.stop = stop
}

// Run plays the configured number of rounds. It returns ErrCancelled when
// the stop poll fired while rounds were still scheduled, the round's error
// when one fails hard, and nil when the budget is exhausted normally.
func (t *Tournament) Run(ctx context.Context) error {
	for number := 1; t.Config.Rounds < 0 || number <= t.Config.Rounds; number++ {
		if t.stop != nil && t.stop() {
			t.Rounds = append(t.Rounds, Round{Number: number, Outcome: Cancelled, Err: ErrCancelled})
			t.log.Info("stop requested, skipping the remaining rounds")
			return ErrCancelled
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		started := time.Now()
		round := t.playRound(ctx, number)
		t.RoundsPlayed++
		t.Rounds = append(t.Rounds, round)
		metrics.ObserveRound(round.Outcome.String(), time.Since(started))

		switch round.Outcome {
		case Completed:
			t.report(round)

		case Terminated:
			t.log.Warn(round.Err.Error())
			if t.Config.HaltOnTermination {
				return round.Err
			}

		case Failed:
			return round.Err
		}
	}

	return nil
}

// playRound runs a single round end to end: selection, the match itself,
// and the bookkeeping of its result.
func (t *Tournament) playRound(ctx context.Context, number int) Round {
	round := Round{Number: number, Outcome: Failed}

	pool, err := t.store.ActivePlayers(ctx)
	if err != nil {
		round.Err = err
		return round
	}

	players, err := PickContestants(
		pool, t.contestantCount(), t.Config.Force, t.Config.PrioritySigma, t.rng)
	if err != nil {
		round.Err = err
		return round
	}
	round.Players = players

	contestants := make([]match.Contestant, len(players))
	for i, player := range players {
		contestants[i] = match.Contestant{Name: player.Name, Path: player.Path}
	}

	width, height := t.mapSize()
	config := match.Config{
		Engine:     t.Config.Engine,
		Width:      width,
		Height:     height,
		Seed:       t.seed(),
		TurnLimit:  t.Config.TurnLimit,
		NoTimeout:  t.Config.NoTimeout,
		KeepReplay: t.Config.KeepReplays,
		KeepLogs:   t.Config.KeepLogs,
		RecordDir:  t.Config.RecordDir,
		ErrorDir:   t.Config.ErrorDir,
	}

	t.log.Infof("round #%d: %s on a %dx%d map, seed %d",
		number, contestantNames(contestants), width, height, config.Seed)

	util.StartSpinner()
	m, err := t.run(ctx, config, contestants, t.log)
	util.PauseSpinner()
	if err != nil {
		round.Err = err
		return round
	}
	round.Match = m

	if err := t.completeRound(ctx, m, players); err != nil {
		round.Err = err
		var terminated *TerminationError
		if errors.As(err, &terminated) {
			round.Outcome = Terminated
		}
		return round
	}

	round.Outcome = Completed
	return round
}

// completeRound folds a finished match into the store. The match history row
// is written unconditionally; ratings move only when every bot survived.
func (t *Tournament) completeRound(ctx context.Context, m *match.Match, players []*store.Player) error {
	if _, err := t.store.AppendMatch(ctx, m, t.runID); err != nil {
		return err
	}

	if m.AnyTerminated() {
		return &TerminationError{Match: m}
	}

	beliefs := make([]rating.Belief, len(players))
	ranks := make([]int, len(players))
	for i, player := range players {
		beliefs[i] = player.Belief()
		ranks[i] = m.Results[i].Rank
	}

	updated := rating.Update(beliefs, ranks, rating.Options{Dynamics: t.Config.Dynamics})
	for i, player := range players {
		player.ApplyBelief(updated[i])
		if err := t.store.SavePlayer(ctx, player); err != nil {
			return err
		}
	}
	metrics.CountRatingUpdates(len(players))

	return t.store.UpdateRanks(ctx)
}

func (t *Tournament) report(round Round) {
	for i, player := range round.Players {
		t.log.Infof("  %-20s finished #%d with %d points, skill %.3f",
			player.Name, round.Match.Results[i].Rank,
			round.Match.Results[i].Score, player.Skill)
	}
}

// contestantCount picks this round's contestant count.
func (t *Tournament) contestantCount() int {
	if t.Config.PlayersMax <= t.Config.PlayersMin {
		return t.Config.PlayersMin
	}
	return t.Config.PlayerDist[t.rng.Intn(len(t.Config.PlayerDist))]
}

// mapSize picks this round's map dimensions. A single given dimension makes
// a square map; none draws a square size from the distribution.
func (t *Tournament) mapSize() (width, height int) {
	width, height = t.Config.MapWidth, t.Config.MapHeight

	if width == 0 && height == 0 {
		size := t.Config.MapDist[t.rng.Intn(len(t.Config.MapDist))]
		return size, size
	}

	if width == 0 {
		width = height
	}
	if height == 0 {
		height = width
	}
	return width, height
}

func (t *Tournament) seed() int64 {
	if t.Config.MapSeed != 0 {
		return t.Config.MapSeed
	}
	return 10000 + t.rng.Int63n(2063741824)
}

func contestantNames(contestants []match.Contestant) string {
	names := ""
	for i, contestant := range contestants {
		if i > 0 {
			names += " vs "
		}
		names += contestant.Name
	}
	return names
}
