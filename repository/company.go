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

const companyColumns = "handle, name, description, num_employees, logo_url"

// CompanyRepository implements company data access: create with duplicate
// detection, filtered listing, retrieval with jobs, dynamic partial update,
// and delete.
type CompanyRepository struct {
	base    Repository[models.Company]
	db      *bun.DB
	dialect sqlbuild.Dialect
}

// NewCompanyRepository returns a company repository backed by db.
func NewCompanyRepository(db *bun.DB) *CompanyRepository {
	return &CompanyRepository{
		base:    NewRepositoryWithKey[models.Company](db, "handle"),
		db:      db,
		dialect: sqlbuild.DialectFor(db.Dialect().Name().String()),
	}
}

// Create inserts a company. The handle is checked first so the common
// duplicate case gets a clean error; a concurrent insert slipping past the
// check is still caught by the unique constraint.
func (r *CompanyRepository) Create(ctx context.Context, company *models.Company) (*models.Company, error) {
	exists, err := r.base.Exists(ctx, company.Handle)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, types.Duplicatef("company %s", company.Handle)
	}
	if _, err := r.db.NewInsert().Model(company).Exec(ctx); err != nil {
		if database.IsDuplicateKeySqlError(err) {
			return nil, types.Duplicatef("company %s", company.Handle)
		}
		return nil, err
	}
	return company, nil
}

// List returns companies matching filter, ordered by name. An inverted
// employee range is rejected before any SQL is issued.
func (r *CompanyRepository) List(ctx context.Context, filter models.CompanyFilter) ([]*models.Company, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	where := sqlbuild.NewWhere(r.dialect)
	filter.Apply(where)
	clause, values := where.Clause()

	query := "SELECT " + companyColumns + " FROM companies"
	if clause != "" {
		query += " WHERE " + clause
	}
	query += " ORDER BY name"

	// Hand-built statements go through the embedded *sql.DB: bun's formatter
	// only rewrites ? placeholders and would pass $n through with the
	// arguments dropped.
	rows, err := r.db.DB.QueryContext(ctx, query, values...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanCompanies(rows)
}

// Get returns one company with its jobs, ordered by job id. A missing
// handle is a not-found error.
func (r *CompanyRepository) Get(ctx context.Context, handle string) (*models.Company, error) {
	company := new(models.Company)
	err := r.db.NewSelect().
		Model(company).
		Relation("Jobs", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("id ASC")
		}).
		Where("c.handle = ?", handle).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.NotFoundf("no company: %s", handle)
		}
		return nil, err
	}
	return company, nil
}

// Update applies a partial update to the company named by handle and
// returns the updated record. An empty patch is a validation error; a
// missing handle is a not-found error.
func (r *CompanyRepository) Update(ctx context.Context, handle string, patch models.CompanyUpdate) (*models.Company, error) {
	set, values, err := sqlbuild.SetClause(r.dialect, patch.Assignments(), models.CompanyColumns)
	if err != nil {
		return nil, err
	}

	clause, whereValues := sqlbuild.NewWhere(r.dialect).
		StartAt(len(values) + 1).
		Add("handle", "=", handle).
		Clause()

	query := "UPDATE companies SET " + set + " WHERE " + clause
	res, err := r.db.DB.ExecContext(ctx, query, append(values, whereValues...)...)
	if err != nil {
		return nil, err
	}
	// MySQL reports changed rows, not matched rows, so a zero count still
	// needs an existence check before concluding not-found.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		exists, err := r.base.Exists(ctx, handle)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, types.NotFoundf("no company: %s", handle)
		}
	}
	return r.getFlat(ctx, handle)
}

// Delete removes the company named by handle. Jobs referencing it are
// removed by the cascading foreign key.
func (r *CompanyRepository) Delete(ctx context.Context, handle string) error {
	res, err := r.db.NewDelete().
		Model((*models.Company)(nil)).
		Where("handle = ?", handle).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return types.NotFoundf("no company: %s", handle)
	}
	return nil
}

// Exists reports whether a company with the handle exists.
func (r *CompanyRepository) Exists(ctx context.Context, handle string) (bool, error) {
	return r.base.Exists(ctx, handle)
}

// Page returns one page of companies matching filter, ordered by name.
func (r *CompanyRepository) Page(ctx context.Context, filter models.CompanyFilter, page *types.PageRequest) (*types.Pagination[models.Company], error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	where := sqlbuild.NewWhere(r.dialect)
	filter.Apply(where)
	clause, values := where.Clause()

	countQuery := "SELECT COUNT(*) FROM companies"
	if clause != "" {
		countQuery += " WHERE " + clause
	}

	pagination := types.NewDefaultPagination[models.Company](page.GetPage(), page.GetPageSize())
	var total int
	if err := r.db.DB.QueryRowContext(ctx, countQuery, values...).Scan(&total); err != nil {
		return nil, err
	}
	if total == 0 {
		return pagination, nil
	}

	query := fmt.Sprintf("SELECT %s FROM companies", companyColumns)
	if clause != "" {
		query += " WHERE " + clause
	}
	query += fmt.Sprintf(" ORDER BY name LIMIT %d OFFSET %d", page.GetPageSize(), page.GetOffset())

	rows, err := r.db.DB.QueryContext(ctx, query, values...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items, err := scanCompanies(rows)
	if err != nil {
		return nil, err
	}
	pagination.Total = total
	pagination.Items = items
	return pagination, nil
}

func (r *CompanyRepository) getFlat(ctx context.Context, handle string) (*models.Company, error) {
	return r.base.GetOne(ctx, handle)
}

func scanCompanies(rows *sql.Rows) ([]*models.Company, error) {
	companies := make([]*models.Company, 0)
	for rows.Next() {
		c := new(models.Company)
		if err := rows.Scan(&c.Handle, &c.Name, &c.Description, &c.NumEmployees, &c.LogoURL); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}
