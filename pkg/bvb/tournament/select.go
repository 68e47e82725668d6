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
	"math/rand"

	"laptudirm.com/x/arena/pkg/store"
)

// PickContestants assembles the contestant list for one round from the
// active pool. force, when non-empty, names a bot guaranteed a spot. With
// prioritySigma the bot with the most uncertain rating also gets a spot, so
// new and volatile bots converge fast. The rest of the list is drawn
// uniformly, and the final ordering is shuffled so reserved bots get no
// fixed submission position.
//
// The pool is not modified.
func PickContestants(pool []*store.Player, n int, force string, prioritySigma bool, rng *rand.Rand) ([]*store.Player, error) {
	if n < 1 {
		return nil, &SelectionError{Reason: fmt.Sprintf("cannot select %d contestants", n)}
	}

	pool = append([]*store.Player(nil), pool...)
	contestants := make([]*store.Player, 0, n)

	take := func(index int) {
		contestants = append(contestants, pool[index])
		pool = append(pool[:index], pool[index+1:]...)
	}

	if force != "" {
		found := -1
		for i, player := range pool {
			if player.Name == force {
				found = i
				break
			}
		}
		if found == -1 {
			return nil, &SelectionError{
				Reason: fmt.Sprintf("forced bot %q is not in the active pool", force),
			}
		}
		take(found)
	}

	if prioritySigma && len(contestants) < n && len(pool) > 0 {
		uncertain := 0
		for i, player := range pool {
			if player.Sigma > pool[uncertain].Sigma {
				uncertain = i
			}
		}
		take(uncertain)
	}

	remaining := n - len(contestants)
	if remaining > len(pool) {
		return nil, &SelectionError{
			Reason: fmt.Sprintf("need %d contestants, only %d active bots", n, len(pool)+len(contestants)),
		}
	}

	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	contestants = append(contestants, pool[:remaining]...)

	rng.Shuffle(len(contestants), func(i, j int) {
		contestants[i], contestants[j] = contestants[j], contestants[i]
	})

	return contestants, nil
}
