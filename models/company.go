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
	"strings"

	"github.com/uptrace/bun"

	"github.com/tomoncle/jobhub/sqlbuild"
	"github.com/tomoncle/jobhub/types"
)

// Company is a company keyed by its immutable handle. Jobs reference a
// company by handle; the relation is derived, not owned.
type Company struct {
	bun.BaseModel `bun:"table:companies,alias:c"`

	Handle       string  `bun:"handle,pk" json:"handle"`
	Name         string  `bun:"name,notnull" json:"name"`
	Description  string  `bun:"description" json:"description"`
	NumEmployees *int64  `bun:"num_employees" json:"numEmployees,omitempty"`
	LogoURL      *string `bun:"logo_url" json:"logoUrl,omitempty"`

	Jobs []*Job `bun:"rel:has-many,join:handle=company_handle" json:"jobs,omitempty"`
}

// CompanyColumns translates public company field names to storage columns.
// Fields absent here map to themselves.
var CompanyColumns = map[string]string{
	"numEmployees": "num_employees",
	"logoUrl":      "logo_url",
}

// CompanyUpdate holds the fields a partial company update may change. Nil
// fields are left untouched. The handle is not representable here: the key
// is immutable once created.
type CompanyUpdate struct {
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	NumEmployees *int64  `json:"numEmployees,omitempty"`
	LogoURL      *string `json:"logoUrl,omitempty"`
}

// Assignments returns the set fields in declaration order.
func (u CompanyUpdate) Assignments() []sqlbuild.Assignment {
	var assigns []sqlbuild.Assignment
	if u.Name != nil {
		assigns = append(assigns, sqlbuild.Assignment{Field: "name", Value: *u.Name})
	}
	if u.Description != nil {
		assigns = append(assigns, sqlbuild.Assignment{Field: "description", Value: *u.Description})
	}
	if u.NumEmployees != nil {
		assigns = append(assigns, sqlbuild.Assignment{Field: "numEmployees", Value: *u.NumEmployees})
	}
	if u.LogoURL != nil {
		assigns = append(assigns, sqlbuild.Assignment{Field: "logoUrl", Value: *u.LogoURL})
	}
	return assigns
}

// CompanyFilter narrows a company listing. Unset fields contribute no
// predicate.
type CompanyFilter struct {
	// Name matches as a case-insensitive substring.
	Name *string
	// MinEmployees keeps companies with num_employees >= the value.
	MinEmployees *int64
	// MaxEmployees keeps companies with num_employees <= the value.
	MaxEmployees *int64
}

// Validate rejects an inverted employee range before any query is issued.
func (f CompanyFilter) Validate() error {
	if f.MinEmployees != nil && f.MaxEmployees != nil && *f.MinEmployees > *f.MaxEmployees {
		return types.Validationf("minEmployees %d cannot be greater than maxEmployees %d",
			*f.MinEmployees, *f.MaxEmployees)
	}
	return nil
}

// Apply contributes one predicate per active filter to b.
func (f CompanyFilter) Apply(b *sqlbuild.WhereBuilder) {
	if f.Name != nil {
		b.Add("LOWER(name)", "LIKE", "%"+strings.ToLower(*f.Name)+"%")
	}
	if f.MinEmployees != nil {
		b.Add("num_employees", ">=", *f.MinEmployees)
	}
	if f.MaxEmployees != nil {
		b.Add("num_employees", "<=", *f.MaxEmployees)
	}
}
