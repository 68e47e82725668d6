package rating_test

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"laptudirm.com/x/arena/pkg/bvb/rating"
)

func TestUpdate(t *testing.T) {
	convey.Convey("Given two players with fresh beliefs", t, func() {
		beliefs := []rating.Belief{rating.NewBelief(), rating.NewBelief()}

		convey.Convey("When the first beats the second", func() {
			updated := rating.Update(beliefs, []int{1, 2}, rating.Options{})

			convey.Convey("The winner's mean rises and the loser's falls", func() {
				convey.So(updated[0].Mu, convey.ShouldBeGreaterThan, rating.DefaultMu)
				convey.So(updated[1].Mu, convey.ShouldBeLessThan, rating.DefaultMu)
			})

			convey.Convey("The corrections are symmetric for equal priors", func() {
				gain := updated[0].Mu - rating.DefaultMu
				loss := rating.DefaultMu - updated[1].Mu
				convey.So(gain, convey.ShouldAlmostEqual, loss, 1e-9)
			})

			convey.Convey("Both deviations shrink", func() {
				convey.So(updated[0].Sigma, convey.ShouldBeLessThan, rating.DefaultSigma)
				convey.So(updated[1].Sigma, convey.ShouldBeLessThan, rating.DefaultSigma)
			})

			convey.Convey("The inputs are untouched", func() {
				convey.So(beliefs[0], convey.ShouldResemble, rating.NewBelief())
				convey.So(beliefs[1], convey.ShouldResemble, rating.NewBelief())
			})
		})

		convey.Convey("When the two players draw", func() {
			updated := rating.Update(beliefs, []int{1, 1}, rating.Options{})

			convey.Convey("The means stay put and the deviations still shrink", func() {
				convey.So(updated[0].Mu, convey.ShouldAlmostEqual, rating.DefaultMu, 1e-9)
				convey.So(updated[1].Mu, convey.ShouldAlmostEqual, rating.DefaultMu, 1e-9)
				convey.So(updated[0].Sigma, convey.ShouldBeLessThan, rating.DefaultSigma)
			})
		})
	})

	convey.Convey("Given an established favorite and a fresh underdog", t, func() {
		favorite := rating.Belief{Mu: 35, Sigma: 2}
		underdog := rating.NewBelief()

		convey.Convey("An expected win barely moves the favorite", func() {
			expected := rating.Update([]rating.Belief{favorite, underdog}, []int{1, 2}, rating.Options{})
			upset := rating.Update([]rating.Belief{favorite, underdog}, []int{2, 1}, rating.Options{})

			expectedGain := expected[0].Mu - favorite.Mu
			upsetLoss := favorite.Mu - upset[0].Mu

			convey.So(expectedGain, convey.ShouldBeGreaterThanOrEqualTo, 0)
			convey.So(upsetLoss, convey.ShouldBeGreaterThan, expectedGain)
		})
	})

	convey.Convey("Given four fresh players finishing in submission order", t, func() {
		beliefs := make([]rating.Belief, 4)
		for i := range beliefs {
			beliefs[i] = rating.NewBelief()
		}

		updated := rating.Update(beliefs, []int{1, 2, 3, 4}, rating.Options{})

		convey.Convey("The posterior means respect the finishing order", func() {
			for i := 0; i+1 < len(updated); i++ {
				convey.So(updated[i].Mu, convey.ShouldBeGreaterThanOrEqualTo, updated[i+1].Mu)
			}
			convey.So(updated[0].Mu, convey.ShouldBeGreaterThan, updated[3].Mu)
		})
	})

	convey.Convey("Given fewer than two players", t, func() {
		single := []rating.Belief{{Mu: 30, Sigma: 4}}
		updated := rating.Update(single, []int{1}, rating.Options{})

		convey.Convey("The beliefs come back unchanged", func() {
			convey.So(updated, convey.ShouldResemble, single)
		})
	})
}

func TestSkill(t *testing.T) {
	convey.Convey("Skill is the conservative mu - 3 sigma estimate", t, func() {
		belief := rating.Belief{Mu: 25, Sigma: 5}
		convey.So(belief.Skill(), convey.ShouldAlmostEqual, 10.0, 1e-9)

		convey.Convey("So a fresh player starts at zero", func() {
			convey.So(rating.NewBelief().Skill(), convey.ShouldAlmostEqual, 0.0, 1e-9)
		})
	})
}
