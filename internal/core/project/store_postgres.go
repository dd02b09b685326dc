// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/stonemedia/internal/platform/apperr"
	"github.com/taibuivan/stonemedia/internal/platform/database/schema"
	"github.com/taibuivan/stonemedia/internal/platform/dberr"
	"github.com/taibuivan/stonemedia/pkg/slice"
	"github.com/taibuivan/stonemedia/pkg/uuid"
)

const resourceProject = "Project"

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed project store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// selectColumns is the projection shared by every read, in [scanProject] order.
var selectColumns = strings.Join(schema.CoreProject.Columns(), ", ")

// scanProject hydrates a record from a row produced with [selectColumns].
func scanProject(row pgx.Row, extra ...any) (*Project, error) {
	project := &Project{}
	dest := []any{
		&project.ID, &project.Slug, &project.Title, &project.ServiceSlug, &project.CategorySlug,
		&project.Year, &project.Meta, &project.Languages, &project.Order, &project.Status,
		&project.SourceVideoPath, &project.SourceAudioPaths, &project.BuildStatus, &project.BuildError,
		&project.HLSPath, &project.CreatedAt, &project.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return project, nil
}

// # Project Retrieval

/*
FindByID retrieves a single project by its primary key.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Project: Hydrated entity
  - error: apperr.NotFound or database failures
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Project, error) {
	// The id column is uuid; anything else would surface as a cast error
	if !uuid.Valid(id) {
		return nil, apperr.NotFound(resourceProject)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns, schema.CoreProject.Table, schema.CoreProject.ID)

	project, err := scanProject(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.WrapResource(err, "get_project_by_id", resourceProject)
	}
	return project, nil
}

/*
FindBySlug retrieves a single project by its unique slug.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Project: Hydrated entity
  - error: apperr.NotFound or database failures
*/
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns, schema.CoreProject.Table, schema.CoreProject.Slug)

	project, err := scanProject(repository.pool.QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.WrapResource(err, "get_project_by_slug", resourceProject)
	}
	return project, nil
}

/*
List returns a filtered list of projects in ascending order.

Description: Uses COUNT(*) OVER() for total metadata. Ties on the order key
are broken by creation time so listings are stable.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int (0 disables the limit)
  - offset: int

Returns:
  - []*Project: Slice of matching projects
  - int: Total record count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Project, int, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total FROM %s WHERE TRUE`,
		selectColumns, schema.CoreProject.Table))

	args, argID := appendFilter(&queryBuilder, filter, []any{}, 1)

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s ASC, %s ASC",
		schema.CoreProject.Order, schema.CoreProject.CreatedAt))

	if limit > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
		args = append(args, limit, offset)
	}

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.WrapResource(err, "list_projects", resourceProject)
	}
	defer rows.Close()

	projects := []*Project{}
	var total int
	for rows.Next() {
		project, err := scanProject(rows, &total)
		if err != nil {
			return nil, 0, dberr.WrapResource(err, "scan_project", resourceProject)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.WrapResource(err, "list_projects", resourceProject)
	}

	return projects, total, nil
}

/*
LastOrder returns the highest order value in a sibling set.

Parameters:
  - context: context.Context
  - filter: Filter (Service and category)

Returns:
  - float64: Highest order value
  - bool: False when no sibling exists
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) LastOrder(context context.Context, filter Filter) (float64, bool, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf(`SELECT MAX(%s) FROM %s WHERE TRUE`,
		schema.CoreProject.Order, schema.CoreProject.Table))

	args, _ := appendFilter(&queryBuilder, filter, []any{}, 1)

	var last *float64
	if err := repository.pool.QueryRow(context, queryBuilder.String(), args...).Scan(&last); err != nil {
		return 0, false, dberr.WrapResource(err, "last_project_order", resourceProject)
	}
	if last == nil {
		return 0, false, nil
	}
	return *last, true, nil
}

// appendFilter adds the WHERE clauses for filter and returns the grown args and next placeholder.
func appendFilter(queryBuilder *strings.Builder, filter Filter, args []any, argID int) ([]any, int) {
	if filter.Service != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.CoreProject.ServiceSlug, argID))
		args = append(args, string(filter.Service))
		argID++
	}

	if filter.Category != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.CoreProject.CategorySlug, argID))
		args = append(args, string(filter.Category))
		argID++
	}

	if len(filter.Statuses) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = ANY($%d)", schema.CoreProject.Status, argID))
		args = append(args, slice.Map(filter.Statuses, func(s Status) string { return string(s) }))
		argID++
	}

	return args, argID
}

// # Project Mutation

/*
Create inserts a new project record.

Parameters:
  - context: context.Context
  - project: *Project

Returns:
  - error: apperr.Conflict on duplicate slug, persistence failures otherwise
*/
func (repository *PostgresRepository) Create(context context.Context, project *Project) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING %s, %s`,
		schema.CoreProject.Table,
		schema.CoreProject.ID, schema.CoreProject.Slug, schema.CoreProject.Title,
		schema.CoreProject.ServiceSlug, schema.CoreProject.CategorySlug, schema.CoreProject.Year,
		schema.CoreProject.Meta, schema.CoreProject.Languages, schema.CoreProject.Order,
		schema.CoreProject.Status, schema.CoreProject.SourceVideoPath, schema.CoreProject.SourceAudioPaths,
		schema.CoreProject.BuildStatus, schema.CoreProject.BuildError, schema.CoreProject.HLSPath,
		schema.CoreProject.CreatedAt, schema.CoreProject.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		project.ID, project.Slug, project.Title,
		string(project.ServiceSlug), string(project.CategorySlug), project.Year,
		project.Meta, nonNilLanguages(project.Languages), project.Order,
		string(project.Status), project.SourceVideoPath, nonNilPaths(project.SourceAudioPaths),
		string(project.BuildStatus), project.BuildError, project.HLSPath,
	).Scan(&project.CreatedAt, &project.UpdatedAt)

	return dberr.WrapResource(err, "create_project", resourceProject)
}

/*
UpdateMetadata overwrites presentation and classification fields.

Parameters:
  - context: context.Context
  - project: *Project (Merged record)

Returns:
  - error: apperr.NotFound, apperr.Conflict on slug reuse, or persistence failures
*/
func (repository *PostgresRepository) UpdateMetadata(context context.Context, project *Project) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9, %s = $10, %s = $11,
			%s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		schema.CoreProject.Table,
		schema.CoreProject.Title, schema.CoreProject.Slug, schema.CoreProject.ServiceSlug,
		schema.CoreProject.CategorySlug, schema.CoreProject.Year, schema.CoreProject.Meta,
		schema.CoreProject.Languages, schema.CoreProject.Order, schema.CoreProject.Status,
		schema.CoreProject.HLSPath,
		schema.CoreProject.UpdatedAt,
		schema.CoreProject.ID,
		schema.CoreProject.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		project.ID, project.Title, project.Slug, string(project.ServiceSlug),
		string(project.CategorySlug), project.Year, project.Meta,
		nonNilLanguages(project.Languages), project.Order, string(project.Status),
		project.HLSPath,
	).Scan(&project.UpdatedAt)

	return dberr.WrapResource(err, "update_project", resourceProject)
}

/*
SetStatus changes the publication status of a single record.

Parameters:
  - context: context.Context
  - id: string
  - status: Status

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (repository *PostgresRepository) SetStatus(context context.Context, id string, status Status) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.CoreProject.Table, schema.CoreProject.Status, schema.CoreProject.UpdatedAt, schema.CoreProject.ID)

	return repository.execOne(context, "set_project_status", query, id, string(status))
}

/*
SetOrder changes the order key of a single record.

Parameters:
  - context: context.Context
  - id: string
  - order: float64

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (repository *PostgresRepository) SetOrder(context context.Context, id string, order float64) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.CoreProject.Table, schema.CoreProject.Order, schema.CoreProject.UpdatedAt, schema.CoreProject.ID)

	return repository.execOne(context, "set_project_order", query, id, order)
}

/*
SetSources records a completed upload and resets the build axis.

Parameters:
  - context: context.Context
  - id: string
  - sources: Sources

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (repository *PostgresRepository) SetSources(context context.Context, id string, sources Sources) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = '', %s = NOW()
		WHERE %s = $1`,
		schema.CoreProject.Table,
		schema.CoreProject.SourceVideoPath, schema.CoreProject.SourceAudioPaths,
		schema.CoreProject.BuildStatus, schema.CoreProject.BuildError, schema.CoreProject.UpdatedAt,
		schema.CoreProject.ID,
	)

	return repository.execOne(context, "set_project_sources", query,
		id, sources.VideoPath, nonNilPaths(sources.AudioPaths), string(BuildIdle))
}

/*
TransitionBuild applies a conditional build-state write.

Description: The UPDATE is guarded by the current build status so that two
concurrent triggers cannot both move a record into building. A zero row
count is disambiguated into NotFound or a refused transition.

Parameters:
  - context: context.Context
  - id: string
  - from: []BuildStatus (Accepted current states)
  - next: BuildState

Returns:
  - bool: True when the write was applied
  - error: apperr.NotFound or persistence failures
*/
func (repository *PostgresRepository) TransitionBuild(context context.Context, id string, from []BuildStatus, next BuildState) (bool, error) {
	if !uuid.Valid(id) {
		return false, apperr.NotFound(resourceProject)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = COALESCE(NULLIF($4::text, ''), %s), %s = NOW()
		WHERE %s = $1 AND %s = ANY($5)`,
		schema.CoreProject.Table,
		schema.CoreProject.BuildStatus, schema.CoreProject.BuildError,
		schema.CoreProject.HLSPath, schema.CoreProject.HLSPath, schema.CoreProject.UpdatedAt,
		schema.CoreProject.ID, schema.CoreProject.BuildStatus,
	)

	states := slice.Map(from, func(s BuildStatus) string { return string(s) })

	tag, err := repository.pool.Exec(context, query, id, string(next.Status), next.Error, next.HLSPath, states)
	if err != nil {
		return false, dberr.WrapResource(err, "transition_project_build", resourceProject)
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	// Nothing matched: either the record is gone or it is in another state
	if _, err := repository.FindByID(context, id); err != nil {
		return false, err
	}
	return false, nil
}

// execOne runs a single-record UPDATE and maps a zero row count to NotFound.
func (repository *PostgresRepository) execOne(context context.Context, action, query string, args ...any) error {
	tag, err := repository.pool.Exec(context, query, args...)
	if err != nil {
		return dberr.WrapResource(err, action, resourceProject)
	}
	if tag.RowsAffected() == 0 {
		return dberr.WrapResource(pgx.ErrNoRows, action, resourceProject)
	}
	return nil
}

func nonNilLanguages(languages []string) []string {
	if languages == nil {
		return []string{}
	}
	return languages
}

func nonNilPaths(paths map[string]string) map[string]string {
	if paths == nil {
		return map[string]string{}
	}
	return paths
}
