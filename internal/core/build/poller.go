// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package build

import (
	"context"
	"errors"
	"time"

	"github.com/taibuivan/stonemedia/internal/core/project"
)

// ErrPollTimeout means the build was still running when the poll deadline passed.
var ErrPollTimeout = errors.New("build status polling timed out")

// StateReader reads the current build state of a project without side effects.
type StateReader interface {
	BuildState(ctx context.Context, projectID string) (project.BuildState, error)
}

// Poller re-reads a project's build state until it leaves building.
type Poller struct {
	reader      StateReader
	interval    time.Duration
	maxDuration time.Duration
}

// NewPoller constructs a [Poller]. A non-positive maxDuration disables the deadline.
func NewPoller(reader StateReader, interval, maxDuration time.Duration) *Poller {
	return &Poller{reader: reader, interval: interval, maxDuration: maxDuration}
}

/*
Watch observes a project until its build finishes.

Description: The state is read immediately and then once per interval.
Watching stops when the observed status is anything but building, when ctx
is cancelled, or when the maximum duration elapses. The ticker is released
on every exit path.

Parameters:
  - ctx: context.Context (Cancelled when the observer goes away)
  - projectID: string
  - onObserve: func(project.BuildState) (Called after every read; may be nil)

Returns:
  - project.BuildState: The last observed state
  - error: ctx.Err(), [ErrPollTimeout], or a read failure
*/
func (poller *Poller) Watch(ctx context.Context, projectID string, onObserve func(project.BuildState)) (project.BuildState, error) {
	observe := func() (project.BuildState, bool, error) {
		state, err := poller.reader.BuildState(ctx, projectID)
		if err != nil {
			return state, true, err
		}
		if onObserve != nil {
			onObserve(state)
		}
		return state, state.Status != project.BuildBuilding, nil
	}

	last, done, err := observe()
	if done || err != nil {
		return last, err
	}

	ticker := time.NewTicker(poller.interval)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if poller.maxDuration > 0 {
		timer := time.NewTimer(poller.maxDuration)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-deadline:
			return last, ErrPollTimeout
		case <-ticker.C:
			state, done, err := observe()
			if err != nil {
				return last, err
			}
			last = state
			if done {
				return last, nil
			}
		}
	}
}
