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

// Package jobhub exposes company and job services bound to the global
// database connection. Call database.InitDB before using them.
package jobhub

import (
	"context"
	"sync"

	"github.com/tomoncle/jobhub/database"
	"github.com/tomoncle/jobhub/models"
	"github.com/tomoncle/jobhub/repository"
	"github.com/tomoncle/jobhub/types"
)

// CompanyService is the company-facing facade. The repository binds to the
// global connection lazily, on first use.
type CompanyService struct {
	repo *repository.CompanyRepository
	once sync.Once
}

// NewCompanyService returns a company service backed by the global
// database connection.
func NewCompanyService() *CompanyService { return &CompanyService{} }

func (s *CompanyService) companies() *repository.CompanyRepository {
	s.once.Do(func() { s.repo = repository.NewCompanyRepository(database.GetDB()) })
	return s.repo
}

// Save creates a company.
func (s *CompanyService) Save(ctx context.Context, company *models.Company) (*models.Company, error) {
	return s.companies().Create(ctx, company)
}

// List returns companies matching filter, ordered by name.
func (s *CompanyService) List(ctx context.Context, filter models.CompanyFilter) ([]*models.Company, error) {
	return s.companies().List(ctx, filter)
}

// Get returns one company with its jobs.
func (s *CompanyService) Get(ctx context.Context, handle string) (*models.Company, error) {
	return s.companies().Get(ctx, handle)
}

// Update applies a partial update and returns the updated company.
func (s *CompanyService) Update(ctx context.Context, handle string, patch models.CompanyUpdate) (*models.Company, error) {
	return s.companies().Update(ctx, handle, patch)
}

// Delete removes a company and, via the cascading key, its jobs.
func (s *CompanyService) Delete(ctx context.Context, handle string) error {
	return s.companies().Delete(ctx, handle)
}

// Exists reports whether a company with the handle exists.
func (s *CompanyService) Exists(ctx context.Context, handle string) (bool, error) {
	return s.companies().Exists(ctx, handle)
}

// Page returns one page of companies matching filter.
func (s *CompanyService) Page(ctx context.Context, filter models.CompanyFilter, page *types.PageRequest) (*types.Pagination[models.Company], error) {
	return s.companies().Page(ctx, filter, page)
}

// JobService is the job-facing facade. The repository binds to the global
// connection lazily, on first use.
type JobService struct {
	repo *repository.JobRepository
	once sync.Once
}

// NewJobService returns a job service backed by the global database
// connection.
func NewJobService() *JobService { return &JobService{} }

func (s *JobService) jobs() *repository.JobRepository {
	s.once.Do(func() { s.repo = repository.NewJobRepository(database.GetDB()) })
	return s.repo
}

// Save creates a job for an existing company.
func (s *JobService) Save(ctx context.Context, job *models.Job) (*models.Job, error) {
	return s.jobs().Create(ctx, job)
}

// List returns jobs matching filter joined with their company name.
func (s *JobService) List(ctx context.Context, filter models.JobFilter) ([]*models.JobWithCompany, error) {
	return s.jobs().List(ctx, filter)
}

// Get returns one job with its owning company.
func (s *JobService) Get(ctx context.Context, id int64) (*models.Job, error) {
	return s.jobs().Get(ctx, id)
}

// Update applies a partial update and returns the updated job.
func (s *JobService) Update(ctx context.Context, id int64, patch models.JobUpdate) (*models.Job, error) {
	return s.jobs().Update(ctx, id, patch)
}

// Delete removes a job.
func (s *JobService) Delete(ctx context.Context, id int64) error {
	return s.jobs().Delete(ctx, id)
}

// ListByCompany returns the jobs of one company, ordered by id.
func (s *JobService) ListByCompany(ctx context.Context, handle string) ([]*models.Job, error) {
	return s.jobs().ListByCompany(ctx, handle)
}

// Page returns one page of jobs matching filter.
func (s *JobService) Page(ctx context.Context, filter models.JobFilter, page *types.PageRequest) (*types.Pagination[models.JobWithCompany], error) {
	return s.jobs().Page(ctx, filter, page)
}
