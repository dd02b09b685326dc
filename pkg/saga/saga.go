// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package saga runs a short sequence of independent writes with compensations.

Each [Step] pairs a forward action with an optional undo. Steps run in order;
when one fails, the undo of every completed step runs in reverse order. There
is no distributed transaction underneath: a failed undo leaves the system
divergent, and [Failure] reports exactly which steps are in that state so the
caller can surface it instead of hiding it.

Usage:

	err := saga.Run(ctx,
	    saga.Step{Name: "create_draft", Do: create, Compensate: archiveDraft},
	    saga.Step{Name: "archive_original", Do: archiveOriginal},
	)
*/
package saga

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Step is one forward action and its undo.
type Step struct {
	// Name identifies the step in errors and logs.
	Name string
	// Do performs the forward action.
	Do func(ctx context.Context) error
	// Compensate undoes Do. Nil means the step has nothing to undo.
	Compensate func(ctx context.Context) error
}

// StepError ties an error to the step that produced it.
type StepError struct {
	Step string
	Err  error
}

// Failure describes a saga that did not complete.
type Failure struct {
	// FailedStep is the step whose forward action failed.
	FailedStep string
	// Cause is the forward error.
	Cause error
	// Compensated lists the steps successfully undone, in undo order.
	Compensated []string
	// Unrecovered lists undo attempts that failed. Non-empty means divergent state.
	Unrecovered []StepError
}

// Error implements the error interface.
func (failure *Failure) Error() string {
	message := fmt.Sprintf("saga: step %s failed: %v", failure.FailedStep, failure.Cause)
	if len(failure.Unrecovered) == 0 {
		return message
	}

	parts := make([]string, 0, len(failure.Unrecovered))
	for _, unrecovered := range failure.Unrecovered {
		parts = append(parts, fmt.Sprintf("%s: %v", unrecovered.Step, unrecovered.Err))
	}
	return message + "; compensation failed for " + strings.Join(parts, ", ")
}

// Unwrap returns the forward error so callers can classify it.
func (failure *Failure) Unwrap() error { return failure.Cause }

// Consistent reports whether every completed step was undone.
func (failure *Failure) Consistent() bool { return len(failure.Unrecovered) == 0 }

// Run executes steps in order. It returns nil when every step succeeds,
// otherwise a *[Failure].
//
// Compensations run on a context detached from ctx cancellation: a client
// hanging up mid-saga must not stop the undo.
func Run(ctx context.Context, steps ...Step) error {
	for index, step := range steps {
		if err := ctx.Err(); err != nil {
			return compensate(ctx, steps[:index], step.Name, err)
		}

		if err := step.Do(ctx); err != nil {
			return compensate(ctx, steps[:index], step.Name, err)
		}
	}
	return nil
}

func compensate(ctx context.Context, completed []Step, failedStep string, cause error) *Failure {
	failure := &Failure{FailedStep: failedStep, Cause: cause}
	undoCtx := context.WithoutCancel(ctx)

	for index := len(completed) - 1; index >= 0; index-- {
		step := completed[index]
		if step.Compensate == nil {
			continue
		}

		if err := step.Compensate(undoCtx); err != nil {
			failure.Unrecovered = append(failure.Unrecovered, StepError{Step: step.Name, Err: err})
			continue
		}
		failure.Compensated = append(failure.Compensated, step.Name)
	}

	return failure
}

// AsFailure extracts a *[Failure] from err's chain.
func AsFailure(err error) (*Failure, bool) {
	var failure *Failure
	ok := errors.As(err, &failure)
	return failure, ok
}
