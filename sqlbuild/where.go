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

import "strings"

type predicate struct {
	expr  string
	op    string
	value interface{}
	raw   bool
}

// WhereBuilder accumulates (column, operator, value) predicates and renders
// them as an AND-joined WHERE body with sequential positional placeholders.
//
// Column expressions and operators must come from fixed, code-defined sets;
// only values are parameterized. The zero predicate set renders to an empty
// clause, which callers treat as "no WHERE at all".
type WhereBuilder struct {
	dialect Dialect
	start   int
	preds   []predicate
}

// NewWhere returns a WhereBuilder whose first placeholder is numbered 1.
func NewWhere(d Dialect) *WhereBuilder {
	return &WhereBuilder{dialect: d, start: 1}
}

// StartAt sets the number of the first placeholder, so a WHERE clause can
// continue the numbering of a SET clause in the same statement.
func (b *WhereBuilder) StartAt(index int) *WhereBuilder {
	if index > 0 {
		b.start = index
	}
	return b
}

// Add appends one parameterized predicate of the form "<expr> <op> <placeholder>".
func (b *WhereBuilder) Add(expr, op string, value interface{}) *WhereBuilder {
	b.preds = append(b.preds, predicate{expr: expr, op: op, value: value})
	return b
}

// AddRaw appends a value-free predicate, e.g. "equity > 0".
func (b *WhereBuilder) AddRaw(expr string) *WhereBuilder {
	b.preds = append(b.preds, predicate{expr: expr, raw: true})
	return b
}

// Len reports the number of accumulated predicates.
func (b *WhereBuilder) Len() int { return len(b.preds) }

// Clause renders the predicates joined by " AND " and returns the
// parameter values in placeholder order. With no predicates it returns
// ("", nil).
func (b *WhereBuilder) Clause() (string, []interface{}) {
	if len(b.preds) == 0 {
		return "", nil
	}

	index := b.start
	fragments := make([]string, 0, len(b.preds))
	var values []interface{}
	for _, p := range b.preds {
		if p.raw {
			fragments = append(fragments, p.expr)
			continue
		}
		fragments = append(fragments, p.expr+" "+p.op+" "+b.dialect.Placeholder(index))
		values = append(values, p.value)
		index++
	}

	return strings.Join(fragments, " AND "), values
}
