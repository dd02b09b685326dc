// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project

import "context"

// # Project Data Access

// Repository defines the data access contract for project records.
//
// Every mutation is a single-record write. Multi-record operations (replace,
// reorder) are composed by the [Service] and never rely on a transaction
// spanning several records.
type Repository interface {

	/*
		Create persists a new project.

		Parameters:
		  - context: context.Context
		  - project: *Project (ID assigned by the caller; timestamps filled in)

		Returns:
		  - error: Conflict on duplicate slug, persistence failures otherwise
	*/
	Create(context context.Context, project *Project) error

	/*
		FindByID retrieves a project by its UUID.

		Returns:
		  - *Project: Hydrated entity
		  - error: ErrNotFound if missing
	*/
	FindByID(context context.Context, id string) (*Project, error)

	/*
		FindBySlug retrieves a project by its unique slug.

		Returns:
		  - *Project: Hydrated entity
		  - error: ErrNotFound if missing
	*/
	FindBySlug(context context.Context, slug string) (*Project, error)

	/*
		List returns projects matching the filter ordered by ascending order.

		Parameters:
		  - context: context.Context
		  - filter: Filter (Service, category and status constraints)
		  - limit: int (0 means no limit)
		  - offset: int

		Returns:
		  - []*Project: Slice of matching projects
		  - int: Total record count
		  - error: Database retrieval failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Project, int, error)

	/*
		LastOrder returns the highest order value within a sibling set.

		Returns:
		  - float64: Highest order
		  - bool: False when the sibling set is empty
		  - error: Database retrieval failures
	*/
	LastOrder(context context.Context, filter Filter) (float64, bool, error)

	/*
		UpdateMetadata overwrites the presentation and classification fields.

		Build fields other than HLSPath are never written.
	*/
	UpdateMetadata(context context.Context, project *Project) error

	// SetStatus changes the publication status only.
	SetStatus(context context.Context, id string, status Status) error

	// SetOrder changes the order key only.
	SetOrder(context context.Context, id string, order float64) error

	/*
		SetSources records a completed upload.

		Description: Writes the source paths and resets the build axis to idle
		with an empty error. The previous HLSPath is retained.
	*/
	SetSources(context context.Context, id string, sources Sources) error

	/*
		TransitionBuild applies a conditional build-state write.

		Description: The write happens only if the current build status is one
		of from. HLSPath is only overwritten when next.HLSPath is non-empty.

		Returns:
		  - bool: False when the record exists but is in another state
		  - error: ErrNotFound if missing
	*/
	TransitionBuild(context context.Context, id string, from []BuildStatus, next BuildState) (bool, error)
}
