// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/taibuivan/stonemedia/internal/core/taxonomy"
	"github.com/taibuivan/stonemedia/internal/platform/apperr"
	"github.com/taibuivan/stonemedia/internal/platform/constants"
	"github.com/taibuivan/stonemedia/internal/platform/ctxutil"
	"github.com/taibuivan/stonemedia/internal/platform/validate"
	"github.com/taibuivan/stonemedia/pkg/pointer"
	"github.com/taibuivan/stonemedia/pkg/saga"
	"github.com/taibuivan/stonemedia/pkg/slug"
	"github.com/taibuivan/stonemedia/pkg/uuid"
)

const (
	maxTitleLength = 200
	maxMetaLength  = 2000
	minYear        = 1900
	maxYear        = 2200
)

// # Service Layer

// Service orchestrates business rules for the project record and its
// publication lifecycle.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new project [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// CreateInput carries the operator-supplied fields of a new project.
type CreateInput struct {
	Title        string
	Slug         string // Derived from Title when empty
	ServiceSlug  taxonomy.ServiceSlug
	CategorySlug taxonomy.CategorySlug
	Year         *int
	Meta         string
	Languages    []string // nil selects DefaultLanguages
	Order        *float64 // nil appends after the last sibling
	Status       Status   // Empty means draft
}

// ReplaceInput names the successor of a replaced project.
type ReplaceInput struct {
	Title string // Defaults to the original title
	Slug  string // Derived from Title when empty; must differ from the original
}

// # Retrieval

// Get returns any project by id regardless of status.
func (service *Service) Get(context context.Context, id string) (*Project, error) {
	return service.repo.FindByID(context, id)
}

// BuildState returns the build-axis projection of a project. It never writes.
func (service *Service) BuildState(context context.Context, id string) (BuildState, error) {
	project, err := service.repo.FindByID(context, id)
	if err != nil {
		return BuildState{}, err
	}
	return project.Build(), nil
}

/*
GetPublishedBySlug resolves a public work page.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Project: The published record
  - error: ErrNotFound if missing or not published
*/
func (service *Service) GetPublishedBySlug(context context.Context, slug string) (*Project, error) {
	project, err := service.repo.FindBySlug(context, slug)
	if err != nil {
		return nil, err
	}

	// Drafts and archived entries are indistinguishable from missing ones
	if project.Status != StatusPublished {
		return nil, apperr.NotFound(resourceProject)
	}

	return project, nil
}

/*
ListAdmin returns every project of the filter in ascending order.

Parameters:
  - context: context.Context
  - filter: Filter (Statuses empty means all statuses)

Returns:
  - []*Project: Ordered projects
  - error: Validation or retrieval errors
*/
func (service *Service) ListAdmin(context context.Context, filter Filter) ([]*Project, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	projects, _, err := service.repo.List(context, filter, 0, 0)
	return projects, err
}

/*
ListPublished returns the public listing for a service and/or category.

Parameters:
  - context: context.Context
  - filter: Filter (Statuses is overridden)
  - limit, offset: int

Returns:
  - []*Project: Published projects in ascending order
  - int: Total matching count
  - error: Validation or retrieval errors
*/
func (service *Service) ListPublished(context context.Context, filter Filter, limit, offset int) ([]*Project, int, error) {
	filter.Statuses = []Status{StatusPublished}
	if err := validateFilter(filter); err != nil {
		return nil, 0, err
	}

	return service.repo.List(context, filter, limit, offset)
}

// # Mutation

/*
Create initialises a draft project at the end of its sibling set.

Description: The order key defaults to the last order among projects of
the same service and category plus [constants.OrderGap], or exactly
[constants.OrderGap] in an empty category.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Project: The persisted record
  - error: Validation, conflict or persistence failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Project, error) {
	project := &Project{
		ID:               uuid.New(),
		Title:            strings.TrimSpace(input.Title),
		Slug:             strings.TrimSpace(input.Slug),
		ServiceSlug:      input.ServiceSlug,
		CategorySlug:     input.CategorySlug,
		Year:             input.Year,
		Meta:             strings.TrimSpace(input.Meta),
		Languages:        normalizeLanguages(input.Languages),
		Status:           input.Status,
		SourceAudioPaths: map[string]string{},
		BuildStatus:      BuildIdle,
	}

	if project.Slug == "" {
		project.Slug = slug.From(project.Title)
	}
	if project.Status == "" {
		project.Status = StatusDraft
	}
	if input.Languages == nil {
		project.Languages = append([]string(nil), DefaultLanguages...)
	}

	if err := validateRecord(project); err != nil {
		return nil, err
	}

	if input.Order != nil {
		project.Order = *input.Order
	} else {
		order, err := service.nextOrder(context, project.ServiceSlug, project.CategorySlug)
		if err != nil {
			return nil, err
		}
		project.Order = order
	}

	if err := service.repo.Create(context, project); err != nil {
		return nil, err
	}

	service.logger.Info("project_created",
		slog.String("project_id", project.ID),
		slog.String("slug", project.Slug),
		slog.Float64("order", project.Order),
		slog.String("actor", ctxutil.Actor(context)),
	)

	return project, nil
}

/*
Update applies a partial metadata edit.

Description: The patch is merged onto the stored record and the merged
result is validated as a whole, so a service change without a matching
category change is rejected. Build state is never modified here.

Parameters:
  - context: context.Context
  - id: string
  - patch: Patch

Returns:
  - *Project: The updated record
  - error: Validation, NotFound, conflict or persistence failures
*/
func (service *Service) Update(context context.Context, id string, patch Patch) (*Project, error) {
	project, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	applyPatch(project, patch)

	if err := validateRecord(project); err != nil {
		return nil, err
	}

	if err := service.repo.UpdateMetadata(context, project); err != nil {
		return nil, err
	}

	service.logger.Info("project_updated",
		slog.String("project_id", project.ID),
		slog.String("actor", ctxutil.Actor(context)),
	)

	return project, nil
}

// Archive hides a project from the public site. Build state is untouched.
func (service *Service) Archive(context context.Context, id string) (*Project, error) {
	return service.setStatus(context, id, StatusArchived)
}

// Publish makes a project visible on the public site. Build state is untouched.
func (service *Service) Publish(context context.Context, id string) (*Project, error) {
	return service.setStatus(context, id, StatusPublished)
}

func (service *Service) setStatus(context context.Context, id string, status Status) (*Project, error) {
	project, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := service.repo.SetStatus(context, id, status); err != nil {
		return nil, err
	}
	project.Status = status

	service.logger.Info("project_status_changed",
		slog.String("project_id", id),
		slog.String("status", string(status)),
		slog.String("actor", ctxutil.Actor(context)),
	)

	return project, nil
}

/*
Replace creates a draft successor at the original's position and archives the original.

Description: Two single-record writes composed as a saga. When archiving the
original fails, the new draft is archived again. When that compensation also
fails, the caller receives INCONSISTENT_STATE naming both records so an
operator can resolve the duplicate position by hand.

Parameters:
  - ctx: context.Context
  - id: string (Original project)
  - input: ReplaceInput

Returns:
  - *Project: The new draft
  - error: Validation, conflict, persistence or inconsistency errors
*/
func (service *Service) Replace(ctx context.Context, id string, input ReplaceInput) (*Project, error) {
	original, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = original.Title
	}

	newSlug := strings.TrimSpace(input.Slug)
	if newSlug == "" {
		newSlug = slug.From(title)
	}
	if newSlug == original.Slug {
		return nil, validate.RequiredError(FieldSlug, "Replacement needs a slug different from the original")
	}

	draft := &Project{
		ID:               uuid.New(),
		Title:            title,
		Slug:             newSlug,
		ServiceSlug:      original.ServiceSlug,
		CategorySlug:     original.CategorySlug,
		Languages:        []string{},
		Order:            original.Order,
		Status:           StatusDraft,
		SourceAudioPaths: map[string]string{},
		BuildStatus:      BuildIdle,
	}

	if err := validateRecord(draft); err != nil {
		return nil, err
	}

	err = saga.Run(ctx,
		saga.Step{
			Name:       "create_replacement",
			Do:         func(stepCtx context.Context) error { return service.repo.Create(stepCtx, draft) },
			Compensate: func(stepCtx context.Context) error { return service.repo.SetStatus(stepCtx, draft.ID, StatusArchived) },
		},
		saga.Step{
			Name: "archive_original",
			Do: func(stepCtx context.Context) error {
				return service.repo.SetStatus(stepCtx, original.ID, StatusArchived)
			},
		},
	)
	if failure, ok := saga.AsFailure(err); ok && failure.Consistent() && slices.Contains(failure.Compensated, "create_replacement") {
		service.logger.Warn("project_replace_failed",
			slog.String("step", failure.FailedStep),
			slog.String("archived_replacement_id", draft.ID),
			slog.Any("error", failure.Cause),
		)
		return nil, archivedReplacementError(failure.Cause, draft)
	}
	if err != nil {
		return nil, service.sagaError(ctx, "project_replace_failed", err,
			"Replacement left two live projects at the same position",
			apperr.FieldError{Field: "original_id", Message: original.ID},
			apperr.FieldError{Field: "replacement_id", Message: draft.ID},
		)
	}

	service.logger.Info("project_replaced",
		slog.String("original_id", original.ID),
		slog.String("replacement_id", draft.ID),
		slog.Float64("order", draft.Order),
		slog.String("actor", ctxutil.Actor(ctx)),
	)

	return draft, nil
}

/*
Reorder swaps the order keys of two adjacent siblings.

Description: Both records must share service and category and be neighbours
in the current ascending listing of that sibling set. Applying the same
reorder twice restores the original ordering.

Parameters:
  - ctx: context.Context
  - firstID, secondID: string

Returns:
  - []*Project: The sibling set after the swap
  - error: Validation, NotFound, persistence or inconsistency errors
*/
func (service *Service) Reorder(ctx context.Context, firstID, secondID string) ([]*Project, error) {
	if firstID == secondID {
		return nil, validate.RequiredError(FieldID, "Reorder needs two different projects")
	}

	first, err := service.repo.FindByID(ctx, firstID)
	if err != nil {
		return nil, err
	}
	second, err := service.repo.FindByID(ctx, secondID)
	if err != nil {
		return nil, err
	}

	if first.ServiceSlug != second.ServiceSlug || first.CategorySlug != second.CategorySlug {
		return nil, validate.RequiredError(FieldID, "Only projects of the same service and category can be reordered")
	}

	siblings := Filter{Service: first.ServiceSlug, Category: first.CategorySlug}
	listing, _, err := service.repo.List(ctx, siblings, 0, 0)
	if err != nil {
		return nil, err
	}
	if !adjacent(listing, first.ID, second.ID) {
		return nil, validate.RequiredError(FieldID, "Only neighbouring projects can be swapped")
	}

	err = saga.Run(ctx,
		saga.Step{
			Name:       "move_first",
			Do:         func(stepCtx context.Context) error { return service.repo.SetOrder(stepCtx, first.ID, second.Order) },
			Compensate: func(stepCtx context.Context) error { return service.repo.SetOrder(stepCtx, first.ID, first.Order) },
		},
		saga.Step{
			Name: "move_second",
			Do:   func(stepCtx context.Context) error { return service.repo.SetOrder(stepCtx, second.ID, first.Order) },
		},
	)
	if err != nil {
		return nil, service.sagaError(ctx, "project_reorder_failed", err,
			"Reorder was applied to only one of the two projects",
			apperr.FieldError{Field: "first_id", Message: first.ID},
			apperr.FieldError{Field: "second_id", Message: second.ID},
		)
	}

	service.logger.Info("projects_reordered",
		slog.String("first_id", first.ID),
		slog.String("second_id", second.ID),
		slog.String("actor", ctxutil.Actor(ctx)),
	)

	projects, _, err := service.repo.List(ctx, siblings, 0, 0)
	return projects, err
}

// # Internal Helpers

// sagaError maps a saga failure onto the API error taxonomy.
func (service *Service) sagaError(ctx context.Context, event string, err error, message string, details ...apperr.FieldError) error {
	failure, ok := saga.AsFailure(err)
	if !ok {
		return err
	}

	if failure.Consistent() {
		service.logger.Warn(event,
			slog.String("step", failure.FailedStep),
			slog.Any("error", failure.Cause),
		)
		return failure.Cause
	}

	service.logger.Error(event,
		slog.String("step", failure.FailedStep),
		slog.String("state", "inconsistent"),
		slog.Any("error", failure),
		slog.String("actor", ctxutil.Actor(ctx)),
	)
	return apperr.Inconsistent(message, failure, details...)
}

// archivedReplacementError reports a rolled-back replacement. The archived
// draft keeps its slug, so a retry needs another slug or the draft itself.
func archivedReplacementError(cause error, draft *Project) *apperr.AppError {
	appErr := apperr.Internal(cause)
	if known := apperr.As(cause); known != nil {
		appErr = known.WithCause(cause)
	}
	appErr.Message = fmt.Sprintf("%s. The replacement draft was archived and still holds slug %q",
		strings.TrimSuffix(appErr.Message, "."), draft.Slug)
	appErr.Details = append(slices.Clone(appErr.Details),
		apperr.FieldError{Field: "replacement_id", Message: draft.ID},
		apperr.FieldError{Field: FieldSlug, Message: draft.Slug},
	)
	return appErr
}

func (service *Service) nextOrder(context context.Context, serviceSlug taxonomy.ServiceSlug, category taxonomy.CategorySlug) (float64, error) {
	last, found, err := service.repo.LastOrder(context, Filter{Service: serviceSlug, Category: category})
	if err != nil {
		return 0, err
	}
	if !found {
		return constants.OrderGap, nil
	}
	return last + constants.OrderGap, nil
}

func applyPatch(project *Project, patch Patch) {
	project.Title = strings.TrimSpace(pointer.Fallback(patch.Title, project.Title))
	project.Slug = strings.TrimSpace(pointer.Fallback(patch.Slug, project.Slug))
	project.ServiceSlug = pointer.Fallback(patch.ServiceSlug, project.ServiceSlug)
	project.CategorySlug = pointer.Fallback(patch.CategorySlug, project.CategorySlug)
	if patch.ClearYear {
		project.Year = nil
	} else if patch.Year != nil {
		project.Year = patch.Year
	}
	project.Meta = strings.TrimSpace(pointer.Fallback(patch.Meta, project.Meta))
	if patch.Languages != nil {
		project.Languages = normalizeLanguages(patch.Languages)
	}
	project.Order = pointer.Fallback(patch.Order, project.Order)
	project.Status = pointer.Fallback(patch.Status, project.Status)
	project.HLSPath = strings.TrimSpace(pointer.Fallback(patch.HLSPath, project.HLSPath))
}

// validateRecord checks a complete record before any write.
func validateRecord(project *Project) error {
	validator := &validate.Validator{}
	validator.
		Required(FieldTitle, project.Title).
		MaxLen(FieldTitle, project.Title, maxTitleLength).
		Slug(FieldSlug, project.Slug).
		MaxLen(FieldMeta, project.Meta, maxMetaLength).
		Custom(FieldStatus, !project.Status.IsValid(), fmt.Sprintf("Unknown status: %q", project.Status))

	if project.Year != nil {
		validator.Range(FieldYear, *project.Year, minYear, maxYear)
	}

	for _, code := range project.Languages {
		validator.Language(FieldLanguages, code)
	}

	if err := validator.Err(); err != nil {
		return err
	}

	return taxonomy.Validate(project.ServiceSlug, project.CategorySlug)
}

func validateFilter(filter Filter) error {
	if filter.Service != "" && !filter.Service.IsValid() {
		return validate.RequiredError(taxonomy.FieldService, fmt.Sprintf("Unknown service: %q", filter.Service))
	}
	if filter.Category != "" && !filter.Category.IsValid() {
		return validate.RequiredError(taxonomy.FieldCategory, fmt.Sprintf("Unknown category: %q", filter.Category))
	}
	for _, status := range filter.Statuses {
		if !status.IsValid() {
			return validate.RequiredError(FieldStatus, fmt.Sprintf("Unknown status: %q", status))
		}
	}
	if filter.Service != "" && filter.Category != "" {
		return taxonomy.Validate(filter.Service, filter.Category)
	}
	return nil
}

// normalizeLanguages trims codes, lower-cases them and drops blanks and repeats.
func normalizeLanguages(codes []string) []string {
	normalized := make([]string, 0, len(codes))
	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		code = strings.ToLower(strings.TrimSpace(code))
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		normalized = append(normalized, code)
	}
	return normalized
}

// adjacent reports whether a and b are neighbours in listing.
func adjacent(listing []*Project, a, b string) bool {
	for index := 0; index+1 < len(listing); index++ {
		left, right := listing[index].ID, listing[index+1].ID
		if (left == a && right == b) || (left == b && right == a) {
			return true
		}
	}
	return false
}
