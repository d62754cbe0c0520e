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

package jobhub_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tomoncle/jobhub"
	"github.com/tomoncle/jobhub/database"
	"github.com/tomoncle/jobhub/models"
	"github.com/tomoncle/jobhub/types"
)

func TestMain(m *testing.M) {
	cfg := &database.Config{
		ConnectionConfig:  *database.DefaultConnectionConfig(),
		DataMigrateConfig: database.DataMigrateConfig{EnableMigrateOnStartup: true},
	}
	cfg.ConnectionConfig.Type = "sqlite"
	cfg.ConnectionConfig.DBName = ":memory:"
	cfg.ConnectionConfig.HealthCheckInterval = 0

	if _, err := database.InitDB(cfg); err != nil {
		log.Fatalf("init test database: %v", err)
	}

	code := m.Run()
	_ = database.CloseDB()
	os.Exit(code)
}

func str(s string) *string { return &s }

func num(i int64) *int64 { return &i }

// The services bind to the global connection lazily, so a full lifecycle
// through both facades is the interesting part, not each delegation.
func TestServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	companies := jobhub.NewCompanyService()
	jobs := jobhub.NewJobService()

	_, err := companies.Save(ctx, &models.Company{
		Handle:       "initech",
		Name:         "Initech",
		Description:  "TPS reports",
		NumEmployees: num(250),
	})
	require.NoError(t, err)

	exists, err := companies.Exists(ctx, "initech")
	require.NoError(t, err)
	require.True(t, exists)

	job, err := jobs.Save(ctx, &models.Job{
		Title:         "Staff Engineer",
		Salary:        num(150000),
		Equity:        str("0.01"),
		CompanyHandle: "initech",
	})
	require.NoError(t, err)
	require.NotZero(t, job.ID)

	listed, err := jobs.List(ctx, models.JobFilter{HasEquity: true})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "Initech", listed[0].CompanyName)

	updated, err := companies.Update(ctx, "initech", models.CompanyUpdate{Name: str("Initech LLC")})
	require.NoError(t, err)
	require.Equal(t, "Initech LLC", updated.Name)

	got, err := companies.Get(ctx, "initech")
	require.NoError(t, err)
	require.Len(t, got.Jobs, 1)

	byCompany, err := jobs.ListByCompany(ctx, "initech")
	require.NoError(t, err)
	require.Len(t, byCompany, 1)

	page, err := companies.Page(ctx, models.CompanyFilter{}, types.NewDefaultPageRequest(1, 10))
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)

	require.NoError(t, companies.Delete(ctx, "initech"))

	_, err = jobs.Get(ctx, job.ID)
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestServiceErrorKinds(t *testing.T) {
	ctx := context.Background()
	companies := jobhub.NewCompanyService()
	jobs := jobhub.NewJobService()

	_, err := companies.Get(ctx, "missing")
	require.ErrorIs(t, err, types.ErrNotFound)

	_, err = companies.List(ctx, models.CompanyFilter{MinEmployees: num(10), MaxEmployees: num(1)})
	require.ErrorIs(t, err, types.ErrValidation)

	_, err = jobs.Save(ctx, &models.Job{Title: "Orphan", CompanyHandle: "missing"})
	require.ErrorIs(t, err, types.ErrNotFound)

	_, err = jobs.Update(ctx, 424242, models.JobUpdate{Title: str("X")})
	require.ErrorIs(t, err, types.ErrNotFound)
}
