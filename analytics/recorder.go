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


// Package analytics records usage events off the serving path.
//
// The recorder is strictly fire-and-forget: callers never wait on it, a
// full worker pool drops the event, and a storage failure is logged and
// swallowed. Nothing user-facing may ever depend on an event landing.
package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/openquill/answerbase/storage"
	"github.com/panjf2000/ants/v2"
)

const (
	defaultPoolSize = 4
	writeTimeout    = 5 * time.Second
)

// Recorder writes analytics events through a bounded worker pool.
type Recorder struct {
	events storage.EventRepository
	pool   *ants.Pool
	logger *slog.Logger
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithLogger sets the logger used by the recorder.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// NewRecorder creates a Recorder writing through the given repository.
func NewRecorder(events storage.EventRepository, opts ...Option) (*Recorder, error) {
	r := &Recorder{
		events: events,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "analytics")

	// Nonblocking: when every worker is busy, Submit fails instead of
	// stalling the caller, and the event is dropped.
	pool, err := ants.NewPool(defaultPoolSize, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}
	r.pool = pool
	return r, nil
}

// RecordSearch records a search event. Never blocks; implements
// search.Recorder.
func (r *Recorder) RecordSearch(query string, resultIDs []string, took time.Duration) {
	event := &storage.Event{
		Type:        "search",
		Query:       query,
		ResultIds:   resultIDs,
		ResultCount: len(resultIDs),
		TookMs:      took.Milliseconds(),
	}

	err := r.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if _, err := r.events.AddEvent(ctx, event); err != nil {
			r.logger.Warn("failed to record search event", "err", err)
		}
	})
	if err != nil {
		r.logger.Debug("analytics pool full, dropping event", "err", err)
	}
}

// Close releases the worker pool. Queued events that have not started are
// dropped.
func (r *Recorder) Close() error {
	r.pool.Release()
	return nil
}
