// Copyright 2025 The Owlmorph Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package owlhttp

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "owlmorph",
		Subsystem: "http",
		Name:      "queries_total",
		Help:      "Queries served, by execution form and status.",
	}, []string{"form", "status"})

	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "owlmorph",
		Subsystem: "http",
		Name:      "query_duration_seconds",
		Help:      "Query evaluation latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"form"})

	triplesInserted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "owlmorph",
		Subsystem: "http",
		Name:      "triples_inserted_total",
		Help:      "Triples added by INSERT queries, duplicates excluded.",
	})
)

func observeQuery(form, status string, took time.Duration) {
	queriesTotal.WithLabelValues(form, status).Inc()
	if status == "ok" {
		queryDuration.WithLabelValues(form).Observe(took.Seconds())
	}
}
