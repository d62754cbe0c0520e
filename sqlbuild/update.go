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

package sqlbuild

import (
	"strings"

	"github.com/tomoncle/jobhub/types"
)

// Assignment is a single field update: the public field name and its new value.
// Assignments are carried in a slice so the generated SQL is deterministic.
type Assignment struct {
	Field string
	Value interface{}
}

// SetClause builds the SET portion of a partial UPDATE statement from an
// ordered list of assignments.
//
// Column names are resolved through columnOf, a static mapping from public
// field name to storage column name. A field with no mapping, or a mapping to
// the empty string, uses the field name verbatim as the column. Placeholders
// are numbered sequentially starting at 1 in assignment order, and the
// returned values are in the same order.
//
// An empty assignment list is a validation error: a partial update must name
// at least one field.
func SetClause(d Dialect, assigns []Assignment, columnOf map[string]string) (string, []interface{}, error) {
	if len(assigns) == 0 {
		return "", nil, types.Validationf("no data supplied")
	}

	fragments := make([]string, 0, len(assigns))
	values := make([]interface{}, 0, len(assigns))
	for i, a := range assigns {
		column := columnOf[a.Field]
		if column == "" {
			column = a.Field
		}
		fragments = append(fragments, d.QuoteIdent(column)+" = "+d.Placeholder(i+1))
		values = append(values, a.Value)
	}

	return strings.Join(fragments, ", "), values, nil
}
