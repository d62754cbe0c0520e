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

package sqlbuild_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tomoncle/jobhub/sqlbuild"
)

func TestWhereEmpty(t *testing.T) {
	clause, values := sqlbuild.NewWhere(sqlbuild.PostgresDialect{}).Clause()
	require.Empty(t, clause)
	require.Empty(t, values)
}

func TestWhereSinglePredicate(t *testing.T) {
	clause, values := sqlbuild.NewWhere(sqlbuild.PostgresDialect{}).
		Add("num_employees", ">=", 10).
		Clause()
	require.Equal(t, "num_employees >= $1", clause)
	require.Equal(t, []interface{}{10}, values)
}

func TestWhereAndJoin(t *testing.T) {
	clause, values := sqlbuild.NewWhere(sqlbuild.PostgresDialect{}).
		Add("LOWER(name)", "LIKE", "%net%").
		Add("num_employees", ">=", 10).
		Add("num_employees", "<=", 500).
		Clause()
	require.Equal(t, "LOWER(name) LIKE $1 AND num_employees >= $2 AND num_employees <= $3", clause)
	require.Equal(t, []interface{}{"%net%", 10, 500}, values)
}

func TestWhereRawPredicateConsumesNoPlaceholder(t *testing.T) {
	clause, values := sqlbuild.NewWhere(sqlbuild.PostgresDialect{}).
		Add("salary", ">=", 200).
		AddRaw("equity > 0").
		Add("LOWER(title)", "LIKE", "%engineer%").
		Clause()
	require.Equal(t, "salary >= $1 AND equity > 0 AND LOWER(title) LIKE $2", clause)
	require.Equal(t, []interface{}{200, "%engineer%"}, values)
}

func TestWhereStartAtContinuesNumbering(t *testing.T) {
	// A WHERE clause appended to a three-field SET clause picks up at $4.
	clause, values := sqlbuild.NewWhere(sqlbuild.PostgresDialect{}).
		StartAt(4).
		Add("handle", "=", "c1").
		Clause()
	require.Equal(t, "handle = $4", clause)
	require.Equal(t, []interface{}{"c1"}, values)
}

func TestWhereMySQLPlaceholders(t *testing.T) {
	clause, values := sqlbuild.NewWhere(sqlbuild.MySQLDialect{}).
		Add("salary", ">=", 1).
		Add("title", "=", "x").
		Clause()
	require.Equal(t, "salary >= ? AND title = ?", clause)
	require.Equal(t, []interface{}{1, "x"}, values)
}

func TestWhereLen(t *testing.T) {
	b := sqlbuild.NewWhere(sqlbuild.SQLiteDialect{})
	require.Equal(t, 0, b.Len())
	b.Add("a", "=", 1).AddRaw("b > 0")
	require.Equal(t, 2, b.Len())
}
