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
	"fmt"
	"strings"
)

// Dialect controls how generated SQL fragments spell positional placeholders
// and quote identifiers. Placeholder indexes are 1-based.
type Dialect interface {
	Placeholder(index int) string
	QuoteIdent(name string) string
}

// PostgresDialect renders $1, $2, ... placeholders and double-quoted identifiers.
type PostgresDialect struct{}

func (PostgresDialect) Placeholder(index int) string { return fmt.Sprintf("$%d", index) }

func (PostgresDialect) QuoteIdent(name string) string { return `"` + name + `"` }

// MySQLDialect renders ? placeholders and backtick-quoted identifiers.
type MySQLDialect struct{}

func (MySQLDialect) Placeholder(int) string { return "?" }

func (MySQLDialect) QuoteIdent(name string) string { return "`" + name + "`" }

// SQLiteDialect renders ? placeholders and double-quoted identifiers.
type SQLiteDialect struct{}

func (SQLiteDialect) Placeholder(int) string { return "?" }

func (SQLiteDialect) QuoteIdent(name string) string { return `"` + name + `"` }

// DialectFor resolves a dialect from a database type or Bun dialect name.
// Unknown names fall back to the postgres dialect.
func DialectFor(name string) Dialect {
	switch strings.ToLower(name) {
	case "mysql":
		return MySQLDialect{}
	case "sqlite", "sqlite3":
		return SQLiteDialect{}
	case "pg", "postgres", "postgresql":
		return PostgresDialect{}
	default:
		return PostgresDialect{}
	}
}
