package tournament

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"laptudirm.com/x/arena/pkg/store"
)

func testPool(names ...string) []*store.Player {
	pool := make([]*store.Player, len(names))
	for i, name := range names {
		pool[i] = store.NewPlayer(name, name)
	}
	return pool
}

func names(players []*store.Player) []string {
	out := make([]string, len(players))
	for i, player := range players {
		out[i] = player.Name
	}
	return out
}

func TestPickContestants(t *testing.T) {
	convey.Convey("Given an active pool of four bots", t, func() {
		pool := testPool("alpha", "beta", "gamma", "delta")
		rng := rand.New(rand.NewSource(1))

		convey.Convey("A plain selection returns n distinct bots", func() {
			picked, err := PickContestants(pool, 3, "", false, rng)
			convey.So(err, convey.ShouldBeNil)
			convey.So(picked, convey.ShouldHaveLength, 3)

			seen := map[string]bool{}
			for _, player := range picked {
				seen[player.Name] = true
			}
			convey.So(seen, convey.ShouldHaveLength, 3)
		})

		convey.Convey("A forced bot is always selected", func() {
			for seed := int64(0); seed < 20; seed++ {
				picked, err := PickContestants(pool, 2, "delta", false, rand.New(rand.NewSource(seed)))
				convey.So(err, convey.ShouldBeNil)
				convey.So(names(picked), convey.ShouldContain, "delta")
			}
		})

		convey.Convey("Forcing an unknown bot fails", func() {
			_, err := PickContestants(pool, 2, "ghost", false, rng)

			var selErr *SelectionError
			convey.So(errors.As(err, &selErr), convey.ShouldBeTrue)
		})

		convey.Convey("Priority selection reserves the most uncertain bot", func() {
			pool[2].Sigma = 42 // gamma clearly least settled

			for seed := int64(0); seed < 20; seed++ {
				picked, err := PickContestants(pool, 2, "", true, rand.New(rand.NewSource(seed)))
				convey.So(err, convey.ShouldBeNil)
				convey.So(names(picked), convey.ShouldContain, "gamma")
			}
		})

		convey.Convey("Equal uncertainty reserves the first of the ties", func() {
			// Every sigma equal, so the earliest pool entry wins the spot.
			for seed := int64(0); seed < 20; seed++ {
				picked, err := PickContestants(pool, 2, "", true, rand.New(rand.NewSource(seed)))
				convey.So(err, convey.ShouldBeNil)
				convey.So(names(picked), convey.ShouldContain, "alpha")
			}
		})

		convey.Convey("Force and priority can coexist", func() {
			pool[2].Sigma = 42

			picked, err := PickContestants(pool, 3, "alpha", true, rng)
			convey.So(err, convey.ShouldBeNil)
			convey.So(names(picked), convey.ShouldContain, "alpha")
			convey.So(names(picked), convey.ShouldContain, "gamma")
		})

		convey.Convey("The pool itself is left alone", func() {
			_, err := PickContestants(pool, 4, "", true, rng)
			convey.So(err, convey.ShouldBeNil)
			convey.So(names(pool), convey.ShouldResemble, []string{"alpha", "beta", "gamma", "delta"})
		})

		convey.Convey("Asking for more bots than exist fails", func() {
			_, err := PickContestants(pool, 5, "", false, rng)

			var selErr *SelectionError
			convey.So(errors.As(err, &selErr), convey.ShouldBeTrue)
		})

		convey.Convey("Asking for zero bots fails", func() {
			_, err := PickContestants(pool, 0, "", false, rng)

			var selErr *SelectionError
			convey.So(errors.As(err, &selErr), convey.ShouldBeTrue)
		})
	})
}
