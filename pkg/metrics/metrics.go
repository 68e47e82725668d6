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

// Package metrics exposes prometheus instrumentation for long tournament
// runs. Collection is always on and nearly free; the HTTP endpoint only
// exists when a run asks for one.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	rounds = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "arena",
		Name:      "rounds_total",
		Help:      "Rounds played, labelled by outcome.",
	}, []string{"outcome"})

	roundDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "arena",
		Name:      "round_duration_seconds",
		Help:      "Wall-clock duration of a round, engine time included.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})

	ratingUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "arena",
		Name:      "rating_updates_total",
		Help:      "Individual bot rating updates applied.",
	})
)

// ObserveRound records one finished round.
func ObserveRound(outcome string, duration time.Duration) {
	rounds.WithLabelValues(outcome).Inc()
	roundDuration.Observe(duration.Seconds())
}

// CountRatingUpdates records n applied bot rating updates.
func CountRatingUpdates(n int) {
	ratingUpdates.Add(float64(n))
}

// Serve exposes /metrics on addr in the background for the lifetime of the
// process.
func Serve(addr string, log logrus.FieldLogger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		log.Infof("serving metrics on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Warnf("metrics server: %v", err)
		}
	}()
}
