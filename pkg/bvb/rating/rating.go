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

// Package rating implements a Bayesian skill-rating model over Gaussian
// beliefs, in the style of TrueSkill. Each player's strength is a Gaussian
// N(mu, sigma²); conditioning on the finishing order of a match moves the
// means towards the observed order and shrinks the deviations.
package rating

import (
	"math"
	"sort"
)

// Default parameters of the rating model.
const (
	DefaultMu    = 25.0           // initial belief mean
	DefaultSigma = DefaultMu / 3  // initial belief deviation
	DefaultBeta  = DefaultMu / 6  // performance variability around true skill
	DefaultTau   = 0.2            // additive dynamics, keeps beliefs from freezing
	DefaultDraw  = 0.1            // probability of a drawn pairing
)

// Belief is a Gaussian belief N(Mu, Sigma²) about a player's strength.
type Belief struct {
	Mu    float64
	Sigma float64
}

// NewBelief returns the belief assigned to a player who has never played.
func NewBelief() Belief {
	return Belief{Mu: DefaultMu, Sigma: DefaultSigma}
}

// Skill is the conservative point estimate mu - 3σ: the model is 99.7% sure
// the player is at least this strong.
func (belief Belief) Skill() float64 {
	return belief.Mu - 3*belief.Sigma
}

// Options are the tunable parameters of an update. Zero values fall back to
// the package defaults.
type Options struct {
	Beta     float64 // performance deviation
	Dynamics float64 // tau, injected into every prior per match
	Draw     float64 // draw probability, sets the draw margin
}

func (opts Options) orDefaults() Options {
	if opts.Beta == 0 {
		opts.Beta = DefaultBeta
	}
	if opts.Dynamics == 0 {
		opts.Dynamics = DefaultTau
	}
	if opts.Draw == 0 {
		opts.Draw = DefaultDraw
	}
	return opts
}

// Update conditions the given beliefs on an observed finishing order and
// returns the posterior beliefs. ranks[i] is the finishing position of the
// player holding beliefs[i]; lower is better and equal ranks are draws.
//
// The inputs are never modified. The correction applied to each player is
// accumulated from the pairwise truncated-Gaussian updates between adjacent
// finishing positions, each computed against the pre-match beliefs.
func Update(beliefs []Belief, ranks []int, opts Options) []Belief {
	opts = opts.orDefaults()

	updated := make([]Belief, len(beliefs))
	copy(updated, beliefs)
	if len(beliefs) < 2 {
		return updated
	}

	// Inject the dynamics variance into every prior so that even settled
	// beliefs stay responsive to new results.
	variances := make([]float64, len(beliefs))
	for i, belief := range beliefs {
		variances[i] = belief.Sigma*belief.Sigma + opts.Dynamics*opts.Dynamics
	}

	margin := drawMargin(opts.Draw, opts.Beta)

	// Visit the players in finishing order, stably so that equal ranks keep
	// their submission order.
	order := make([]int, len(beliefs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return ranks[order[a]] < ranks[order[b]]
	})

	deltas := make([]float64, len(beliefs))  // pending mean corrections
	factors := make([]float64, len(beliefs)) // pending variance shrinkage

	for k := 0; k+1 < len(order); k++ {
		hi, lo := order[k], order[k+1] // hi finished at or above lo

		c2 := 2*opts.Beta*opts.Beta + variances[hi] + variances[lo]
		c := math.Sqrt(c2)
		t := (beliefs[hi].Mu - beliefs[lo].Mu) / c

		var v, w float64
		if ranks[hi] == ranks[lo] {
			v, w = vDraw(t, margin/c), wDraw(t, margin/c)
		} else {
			v, w = vWin(t, margin/c), wWin(t, margin/c)
		}

		deltas[hi] += variances[hi] / c * v
		deltas[lo] -= variances[lo] / c * v
		factors[hi] += variances[hi] / c2 * w
		factors[lo] += variances[lo] / c2 * w
	}

	for i := range updated {
		shrink := 1 - factors[i]
		if shrink < 1e-4 {
			shrink = 1e-4
		}

		updated[i].Mu = beliefs[i].Mu + deltas[i]
		updated[i].Sigma = math.Sqrt(variances[i] * shrink)
	}

	return updated
}

// drawMargin is the half-width ε of the performance-difference band counted
// as a draw, chosen so that two equal players draw with the given probability.
func drawMargin(draw, beta float64) float64 {
	return probit((draw+1)/2) * math.Sqrt2 * beta
}

// vWin and wWin are the additive and multiplicative corrections for a win,
// the mean and precision gain of a Gaussian truncated at the draw margin.
func vWin(t, margin float64) float64 {
	x := t - margin
	denom := cdf(x)
	if denom < 1e-158 {
		return -x // deep tail, v(x) converges to -x
	}
	return pdf(x) / denom
}

func wWin(t, margin float64) float64 {
	v := vWin(t, margin)
	w := v * (v + t - margin)
	return clamp01(w)
}

// vDraw and wDraw are the corrections for a draw, from a Gaussian truncated
// to the band (-ε, ε).
func vDraw(t, margin float64) float64 {
	x := math.Abs(t)
	denom := cdf(margin-x) - cdf(-margin-x)

	var v float64
	if denom < 1e-158 {
		v = margin - x
	} else {
		v = (pdf(-margin-x) - pdf(margin-x)) / denom
	}

	if t < 0 {
		v = -v
	}
	return v
}

func wDraw(t, margin float64) float64 {
	x := math.Abs(t)
	a, b := margin-x, -margin-x

	denom := cdf(a) - cdf(b)
	if denom < 1e-158 {
		return 1
	}

	v := vDraw(x, margin)
	return clamp01(v*v + (a*pdf(a)-b*pdf(b))/denom)
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

// pdf and cdf are the density and distribution of the standard Gaussian, and
// probit is the inverse of cdf.

func pdf(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}

func cdf(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

func probit(p float64) float64 {
	return math.Sqrt2 * math.Erfinv(2*p-1)
}
