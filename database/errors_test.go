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

package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
)

func TestIsSqlError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   bool
		kind SQLError
	}{
		{name: "mysql duplicate entry", err: &mysql.MySQLError{Number: 1062}, is: true, kind: DuplicateKeyErr},
		{name: "mysql fk child row", err: &mysql.MySQLError{Number: 1452}, is: true, kind: ForeignKeyViolationErr},
		{name: "mysql fk parent row", err: &mysql.MySQLError{Number: 1451}, is: true, kind: ForeignKeyViolationErr},
		{name: "mysql missing column", err: &mysql.MySQLError{Number: 1054}, is: true, kind: NoColumnErr},
		{name: "mysql duplicate index", err: &mysql.MySQLError{Number: 1061}, is: true, kind: ExistIndexErr},
		{name: "mysql unclassified", err: &mysql.MySQLError{Number: 1205}, is: true, kind: UnknownErr},
		{name: "wrapped mysql error", err: fmt.Errorf("exec: %w", &mysql.MySQLError{Number: 1062}), is: true, kind: DuplicateKeyErr},
		{name: "sqlite unique constraint", err: errors.New("constraint failed: UNIQUE constraint failed: companies.handle (1555)"), is: true, kind: DuplicateKeyErr},
		{name: "sqlite foreign key", err: errors.New("constraint failed: FOREIGN KEY constraint failed (787)"), is: true, kind: ForeignKeyViolationErr},
		{name: "sqlite missing table", err: errors.New("SQL logic error: no such table: jobs (1)"), is: true, kind: NoTableErr},
		{name: "sqlite duplicate index", err: errors.New("SQL logic error: index idx_jobs_title already exists (1)"), is: true, kind: ExistIndexErr},
		{name: "postgres duplicate key", err: errors.New(`ERROR: duplicate key value violates unique constraint "companies_pkey" (SQLSTATE 23505)`), is: true, kind: DuplicateKeyErr},
		{name: "postgres fk violation", err: errors.New(`ERROR: insert or update on table "jobs" violates foreign key constraint (SQLSTATE 23503)`), is: true, kind: ForeignKeyViolationErr},
		{name: "postgres not-null", err: errors.New(`ERROR: null value in column "name" violates not-null constraint (SQLSTATE 23502)`), is: true, kind: NotNullViolationErr},
		{name: "not a storage error", err: errors.New("dial tcp: connection refused"), is: false, kind: UnknownErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is, kind := IsSqlError(tt.err)
			require.Equal(t, tt.is, is)
			require.Equal(t, tt.kind, kind)
		})
	}
}

func TestSqlErrorHelpers(t *testing.T) {
	require.True(t, IsDuplicateKeySqlError(&mysql.MySQLError{Number: 1062}))
	require.False(t, IsDuplicateKeySqlError(&mysql.MySQLError{Number: 1452}))

	require.True(t, IsForeignKeySqlError(errors.New("FOREIGN KEY constraint failed")))
	require.False(t, IsForeignKeySqlError(errors.New("UNIQUE constraint failed: jobs.id")))
}
