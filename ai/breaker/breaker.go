// Copyright 2026 Openquill
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


// Package breaker decorates an ai.Annotator with a circuit breaker so a
// failing enrichment backend stops being called for a cooldown period
// instead of adding latency to every search.
package breaker

import (
	"context"
	"log/slog"
	"time"

	"github.com/openquill/answerbase/ai"
	"github.com/sony/gobreaker"
)

// Annotator wraps an inner ai.Annotator with a gobreaker circuit breaker.
// While the breaker is open, Annotate fails immediately with
// gobreaker.ErrOpenState; callers already treat annotator errors as the
// degrade-to-no-annotation path, so an open breaker needs no special casing.
type Annotator struct {
	inner   ai.Annotator
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

var _ ai.Annotator = (*Annotator)(nil)

// Settings tune the breaker. The zero value gets defaults.
type Settings struct {
	// ConsecutiveFailures before the breaker opens. Default: 3.
	ConsecutiveFailures uint32

	// Cooldown is how long the breaker stays open before allowing a probe
	// request through. Default: 30s.
	Cooldown time.Duration
}

// New wraps inner with a circuit breaker.
func New(inner ai.Annotator, settings Settings) *Annotator {
	if settings.ConsecutiveFailures == 0 {
		settings.ConsecutiveFailures = 3
	}
	if settings.Cooldown == 0 {
		settings.Cooldown = 30 * time.Second
	}

	logger := slog.Default().With("component", "annotator-breaker")

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "annotator",
		Timeout: settings.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"from", from.String(), "to", to.String())
		},
	})

	return &Annotator{
		inner:   inner,
		breaker: cb,
		logger:  logger,
	}
}

// Annotate delegates to the inner annotator through the breaker.
func (a *Annotator) Annotate(ctx context.Context, query string, candidates []ai.Candidate) (*ai.Annotation, error) {
	result, err := a.breaker.Execute(func() (any, error) {
		return a.inner.Annotate(ctx, query, candidates)
	})
	if err != nil {
		return nil, err
	}
	return result.(*ai.Annotation), nil
}

// State exposes the current breaker state for diagnostics.
func (a *Annotator) State() gobreaker.State {
	return a.breaker.State()
}
