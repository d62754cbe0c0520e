/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/tomoncle/jobhub/database"
	"github.com/tomoncle/jobhub/models"
	"github.com/tomoncle/jobhub/sqlbuild"
	"github.com/tomoncle/jobhub/types"
)

const jobJoinColumns = "j.id, j.title, j.salary, j.equity, j.company_handle, c.name"

// JobRepository implements job data access: create against an existing
// company, filtered listing joined with the company name, retrieval with
// the owning company, dynamic partial update, and delete.
type JobRepository struct {
	base    Repository[models.Job]
	db      *bun.DB
	dialect sqlbuild.Dialect
}

// NewJobRepository returns a job repository backed by db.
func NewJobRepository(db *bun.DB) *JobRepository {
	return &JobRepository{
		base:    NewRepository[models.Job](db),
		db:      db,
		dialect: sqlbuild.DialectFor(db.Dialect().Name().String()),
	}
}

// Create inserts a job for an existing company and fills in the generated
// id. A missing company is a not-found error, whether caught by the
// up-front check or by the foreign key.
func (r *JobRepository) Create(ctx context.Context, job *models.Job) (*models.Job, error) {
	if job.Equity != nil {
		if err := models.CheckEquity(*job.Equity); err != nil {
			return nil, err
		}
	}
	exists, err := r.db.NewSelect().
		Model((*models.Company)(nil)).
		Where("handle = ?", job.CompanyHandle).
		Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, types.NotFoundf("no company: %s", job.CompanyHandle)
	}
	if _, err := r.db.NewInsert().Model(job).Exec(ctx); err != nil {
		if database.IsForeignKeySqlError(err) {
			return nil, types.NotFoundf("no company: %s", job.CompanyHandle)
		}
		return nil, err
	}
	return job, nil
}

// List returns jobs matching filter joined with their company name,
// ordered by title.
func (r *JobRepository) List(ctx context.Context, filter models.JobFilter) ([]*models.JobWithCompany, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	where := sqlbuild.NewWhere(r.dialect)
	filter.Apply(where)
	clause, values := where.Clause()

	query := "SELECT " + jobJoinColumns +
		" FROM jobs j LEFT JOIN companies c ON c.handle = j.company_handle"
	if clause != "" {
		query += " WHERE " + clause
	}
	query += " ORDER BY j.title"

	// Hand-built statements go through the embedded *sql.DB: bun's formatter
	// only rewrites ? placeholders and would pass $n through with the
	// arguments dropped.
	rows, err := r.db.DB.QueryContext(ctx, query, values...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanJobsWithCompany(rows)
}

// Get returns one job with its owning company nested in place of the raw
// handle. A missing id is a not-found error.
func (r *JobRepository) Get(ctx context.Context, id int64) (*models.Job, error) {
	job := new(models.Job)
	err := r.db.NewSelect().
		Model(job).
		Relation("Company").
		Where("j.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.NotFoundf("no job: %d", id)
		}
		return nil, err
	}
	// The nested company replaces the raw handle in the get shape; the
	// handle is still reachable as job.Company.Handle.
	job.CompanyHandle = ""
	return job, nil
}

// Update applies a partial update to the job named by id and returns the
// updated record. The id and company handle are immutable; an empty patch
// is a validation error; a missing id is a not-found error.
func (r *JobRepository) Update(ctx context.Context, id int64, patch models.JobUpdate) (*models.Job, error) {
	if patch.Equity != nil {
		if err := models.CheckEquity(*patch.Equity); err != nil {
			return nil, err
		}
	}

	set, values, err := sqlbuild.SetClause(r.dialect, patch.Assignments(), models.JobColumns)
	if err != nil {
		return nil, err
	}

	clause, whereValues := sqlbuild.NewWhere(r.dialect).
		StartAt(len(values) + 1).
		Add("id", "=", id).
		Clause()

	query := "UPDATE jobs SET " + set + " WHERE " + clause
	res, err := r.db.DB.ExecContext(ctx, query, append(values, whereValues...)...)
	if err != nil {
		return nil, err
	}
	// MySQL reports changed rows, not matched rows, so a zero count still
	// needs an existence check before concluding not-found.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		exists, err := r.base.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, types.NotFoundf("no job: %d", id)
		}
	}
	return r.base.GetOne(ctx, id)
}

// Delete removes the job named by id.
func (r *JobRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().
		Model((*models.Job)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return types.NotFoundf("no job: %d", id)
	}
	return nil
}

// ListByCompany returns the jobs of one company, ordered by id. The
// company itself is not checked; a missing handle simply yields no rows.
func (r *JobRepository) ListByCompany(ctx context.Context, handle string) ([]*models.Job, error) {
	var jobs []*models.Job
	err := r.db.NewSelect().
		Model(&jobs).
		Where("company_handle = ?", handle).
		Order("id ASC").
		Scan(ctx)
	return jobs, err
}

// Page returns one page of jobs matching filter joined with their company
// name, ordered by title.
func (r *JobRepository) Page(ctx context.Context, filter models.JobFilter, page *types.PageRequest) (*types.Pagination[models.JobWithCompany], error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	where := sqlbuild.NewWhere(r.dialect)
	filter.Apply(where)
	clause, values := where.Clause()

	countQuery := "SELECT COUNT(*) FROM jobs j LEFT JOIN companies c ON c.handle = j.company_handle"
	if clause != "" {
		countQuery += " WHERE " + clause
	}

	pagination := types.NewDefaultPagination[models.JobWithCompany](page.GetPage(), page.GetPageSize())
	var total int
	if err := r.db.DB.QueryRowContext(ctx, countQuery, values...).Scan(&total); err != nil {
		return nil, err
	}
	if total == 0 {
		return pagination, nil
	}

	query := "SELECT " + jobJoinColumns +
		" FROM jobs j LEFT JOIN companies c ON c.handle = j.company_handle"
	if clause != "" {
		query += " WHERE " + clause
	}
	query += fmt.Sprintf(" ORDER BY j.title LIMIT %d OFFSET %d", page.GetPageSize(), page.GetOffset())

	rows, err := r.db.DB.QueryContext(ctx, query, values...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items, err := scanJobsWithCompany(rows)
	if err != nil {
		return nil, err
	}
	pagination.Total = total
	pagination.Items = items
	return pagination, nil
}

func scanJobsWithCompany(rows *sql.Rows) ([]*models.JobWithCompany, error) {
	jobs := make([]*models.JobWithCompany, 0)
	for rows.Next() {
		j := new(models.JobWithCompany)
		var companyName sql.NullString
		if err := rows.Scan(&j.ID, &j.Title, &j.Salary, &j.Equity, &j.CompanyHandle, &companyName); err != nil {
			return nil, err
		}
		j.CompanyName = companyName.String
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}
