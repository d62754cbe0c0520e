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

package models

import (
	"strconv"
	"strings"

	"github.com/uptrace/bun"

	"github.com/tomoncle/jobhub/sqlbuild"
	"github.com/tomoncle/jobhub/types"
)

// Job is a job posting with a store-generated id. Equity is carried as a
// decimal string in [0, 1] to avoid float rounding on the wire.
type Job struct {
	bun.BaseModel `bun:"table:jobs,alias:j"`

	ID            int64   `bun:"id,pk,autoincrement" json:"id"`
	Title         string  `bun:"title,notnull" json:"title"`
	Salary        *int64  `bun:"salary" json:"salary,omitempty"`
	Equity        *string `bun:"equity,type:numeric(4,3)" json:"equity,omitempty"`
	CompanyHandle string  `bun:"company_handle,notnull" json:"companyHandle,omitempty"`

	// on_delete drives the generated foreign key: deleting a company takes
	// its jobs with it.
	Company *Company `bun:"rel:belongs-to,join:company_handle=handle,on_delete:CASCADE" json:"company,omitempty"`
}

// JobWithCompany is the listing projection: a job row joined with the
// display name of its company.
type JobWithCompany struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Salary        *int64  `json:"salary,omitempty"`
	Equity        *string `json:"equity,omitempty"`
	CompanyHandle string  `json:"companyHandle"`
	CompanyName   string  `json:"companyName"`
}

// JobColumns translates public job field names to storage columns.
var JobColumns = map[string]string{
	"companyHandle": "company_handle",
}

// JobUpdate holds the fields a partial job update may change. The id and
// companyHandle are not representable here: both are immutable after
// creation.
type JobUpdate struct {
	Title  *string `json:"title,omitempty"`
	Salary *int64  `json:"salary,omitempty"`
	Equity *string `json:"equity,omitempty"`
}

// Assignments returns the set fields in declaration order.
func (u JobUpdate) Assignments() []sqlbuild.Assignment {
	var assigns []sqlbuild.Assignment
	if u.Title != nil {
		assigns = append(assigns, sqlbuild.Assignment{Field: "title", Value: *u.Title})
	}
	if u.Salary != nil {
		assigns = append(assigns, sqlbuild.Assignment{Field: "salary", Value: *u.Salary})
	}
	if u.Equity != nil {
		assigns = append(assigns, sqlbuild.Assignment{Field: "equity", Value: *u.Equity})
	}
	return assigns
}

// CheckEquity validates a decimal equity string: it must parse as a number
// in [0, 1]. The stored column is numeric(4,3), so anything outside that
// range is a caller mistake, not a storage concern.
func CheckEquity(s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f > 1 {
		return types.Validationf("equity must be a number between 0 and 1, got %q", s)
	}
	return nil
}

// JobFilter narrows a job listing. Unset fields contribute no predicate.
type JobFilter struct {
	// Title matches as a case-insensitive substring.
	Title *string
	// MinSalary keeps jobs with salary >= the value.
	MinSalary *int64
	// HasEquity, when true, keeps only jobs with equity > 0. False means
	// no equity filtering at all.
	HasEquity bool
}

// Validate exists for symmetry with CompanyFilter; the job filter has no
// cross-field constraints.
func (f JobFilter) Validate() error { return nil }

// Apply contributes one predicate per active filter to b. The equity
// predicate is value-free: NULL equity compares as unknown and is excluded.
func (f JobFilter) Apply(b *sqlbuild.WhereBuilder) {
	if f.Title != nil {
		b.Add("LOWER(j.title)", "LIKE", "%"+strings.ToLower(*f.Title)+"%")
	}
	if f.MinSalary != nil {
		b.Add("j.salary", ">=", *f.MinSalary)
	}
	if f.HasEquity {
		b.AddRaw("j.equity > 0")
	}
}
