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
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// SQLInitManager seeds the store from plain SQL files. Files live under
// <root>/common plus <root>/<environment>, and run in ascending order of
// their numeric filename prefix ("001_companies.sql" before
// "002_jobs.sql"). Each file runs in its own transaction.
type SQLInitManager struct {
	db          *bun.DB
	environment string
	sqlRootPath string
}

// SQLFileInfo describes a discovered seed file.
type SQLFileInfo struct {
	Path        string
	Environment string
	Order       int
}

// ExecutionResult records the outcome of executing one seed file.
type ExecutionResult struct {
	File         string
	Success      bool
	RowsAffected int64
	Duration     time.Duration
	Error        error
}

// NewSQLInitManager returns a seeder for the given environment.
func NewSQLInitManager(db *bun.DB, environment string) *SQLInitManager {
	return &SQLInitManager{
		db:          db,
		environment: environment,
		sqlRootPath: "configs/sql",
	}
}

// SetSQLRootPath overrides the directory seed files are read from.
func (s *SQLInitManager) SetSQLRootPath(path string) {
	s.sqlRootPath = path
}

// ExecuteInitialization runs every discovered seed file. A missing seed
// directory is not an error: a fresh deployment simply has nothing to seed.
func (s *SQLInitManager) ExecuteInitialization() error {
	files, err := s.GetSQLFiles()
	if err != nil {
		return err
	}

	for _, file := range files {
		result := s.executeFile(file)
		if result.Error != nil {
			return fmt.Errorf("seed file %s failed: %w", file.Path, result.Error)
		}
	}
	return nil
}

// GetSQLFiles lists the seed files for "common" and the configured
// environment, ordered by numeric prefix.
func (s *SQLInitManager) GetSQLFiles() ([]SQLFileInfo, error) {
	var files []SQLFileInfo

	for _, env := range []string{"common", s.environment} {
		dir := filepath.Join(s.sqlRootPath, env)
		entries, err := os.ReadDir(dir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read seed directory %s: %w", dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
				continue
			}
			files = append(files, SQLFileInfo{
				Path:        filepath.Join(dir, entry.Name()),
				Environment: env,
				Order:       parseFileOrder(entry.Name()),
			})
		}
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].Order != files[j].Order {
			return files[i].Order < files[j].Order
		}
		return files[i].Path < files[j].Path
	})
	return files, nil
}

// parseFileOrder extracts the numeric prefix from "NNN_name.sql"; files
// without one sort last.
func parseFileOrder(filename string) int {
	prefix, _, ok := strings.Cut(filename, "_")
	if !ok {
		return 999
	}
	order, err := strconv.Atoi(prefix)
	if err != nil {
		return 999
	}
	return order
}

func (s *SQLInitManager) executeFile(file SQLFileInfo) ExecutionResult {
	start := time.Now()
	result := ExecutionResult{File: file.Path}

	content, err := os.ReadFile(file.Path)
	if err != nil {
		result.Error = fmt.Errorf("failed to read file: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	statements := splitSQLStatements(string(content))
	if len(statements) == 0 {
		result.Success = true
		result.Duration = time.Since(start)
		return result
	}

	ctx := context.Background()
	err = s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var totalRowsAffected int64
		for _, stmt := range statements {
			res, execErr := tx.ExecContext(ctx, stmt)
			if execErr != nil {
				return fmt.Errorf("failed to execute SQL statement: %s, error: %w", stmt, execErr)
			}
			rowsAffected, _ := res.RowsAffected()
			totalRowsAffected += rowsAffected
		}
		result.RowsAffected = totalRowsAffected
		return nil
	})

	if err != nil {
		result.Error = err
	} else {
		result.Success = true
	}

	result.Duration = time.Since(start)
	return result
}

// splitSQLStatements splits file content on statement-terminating
// semicolons, dropping blank lines and "--" comments.
func splitSQLStatements(content string) []string {
	var statements []string
	var current strings.Builder

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}

		current.WriteString(line)
		current.WriteString(" ")

		if strings.HasSuffix(line, ";") {
			if stmt := strings.TrimSpace(current.String()); stmt != "" {
				statements = append(statements, stmt)
			}
			current.Reset()
		}
	}

	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		statements = append(statements, stmt)
	}

	return statements
}
