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

package store

import (
	"time"

	"laptudirm.com/x/arena/pkg/bvb/rating"
)

// DefaultRank is the leaderboard rank assigned to a bot before the first
// recomputation places it properly.
const DefaultRank = 1000

// Player is one registered bot and its current rating state.
type Player struct {
	Name     string
	Path     string // invocation path handed to the engine
	LastSeen time.Time

	Rank  int     // leaderboard position, recomputed after rated rounds
	Skill float64 // conservative estimate, always Mu - 3*Sigma
	Mu    float64
	Sigma float64
	Games int

	Active bool
}

// NewPlayer returns a fresh, active player with the initial rating belief.
func NewPlayer(name, path string) *Player {
	belief := rating.NewBelief()
	return &Player{
		Name:   name,
		Path:   path,
		Rank:   DefaultRank,
		Skill:  belief.Skill(),
		Mu:     belief.Mu,
		Sigma:  belief.Sigma,
		Active: true,
	}
}

// Belief returns the player's rating belief for an update.
func (p *Player) Belief() rating.Belief {
	return rating.Belief{Mu: p.Mu, Sigma: p.Sigma}
}

// ApplyBelief records the posterior belief from a rated round, re-deriving
// the skill estimate and counting the game.
func (p *Player) ApplyBelief(belief rating.Belief) {
	p.Mu = belief.Mu
	p.Sigma = belief.Sigma
	p.UpdateSkill()
	p.Games++
}

// UpdateSkill re-derives the conservative skill estimate from mu and sigma.
func (p *Player) UpdateSkill() {
	p.Skill = p.Mu - 3*p.Sigma
}
