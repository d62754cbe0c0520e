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

package repository_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/tomoncle/jobhub/database"
	"github.com/tomoncle/jobhub/models"
	"github.com/tomoncle/jobhub/repository"
	"github.com/tomoncle/jobhub/types"
)

var testDB *bun.DB

func TestMain(m *testing.M) {
	cfg := &database.Config{
		ConnectionConfig:  *database.DefaultConnectionConfig(),
		DataMigrateConfig: database.DataMigrateConfig{EnableMigrateOnStartup: true},
	}
	cfg.ConnectionConfig.Type = "sqlite"
	cfg.ConnectionConfig.DBName = ":memory:"
	cfg.ConnectionConfig.HealthCheckInterval = 0

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("init test database: %v", err)
	}
	testDB = db

	code := m.Run()
	_ = database.CloseDB()
	os.Exit(code)
}

func strPtr(s string) *string { return &s }

func intPtr(i int64) *int64 { return &i }

type fixture struct {
	engineerID int64
	internID   int64
	managerID  int64
}

// seedFixture resets both tables and loads three companies with three jobs.
// Companies by name: Apple (3000), IBM (1000), Nimble (12). Jobs by title:
// Engineer (apple, 100000, 0.1), Intern (apple, 20000, no equity),
// Manager (ibm, 80000, 0).
func seedFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	_, err := testDB.ExecContext(ctx, "DELETE FROM jobs")
	require.NoError(t, err)
	_, err = testDB.ExecContext(ctx, "DELETE FROM companies")
	require.NoError(t, err)

	companies := repository.NewCompanyRepository(testDB)
	jobs := repository.NewJobRepository(testDB)

	for _, c := range []*models.Company{
		{Handle: "apple", Name: "Apple", Description: "Consumer hardware", NumEmployees: intPtr(3000)},
		{Handle: "ibm", Name: "IBM", Description: "Enterprise computing", NumEmployees: intPtr(1000)},
		{Handle: "nimble", Name: "Nimble", Description: "Tiny startup", NumEmployees: intPtr(12)},
	} {
		_, err := companies.Create(ctx, c)
		require.NoError(t, err)
	}

	var f fixture
	for _, j := range []struct {
		job *models.Job
		id  *int64
	}{
		{&models.Job{Title: "Engineer", Salary: intPtr(100000), Equity: strPtr("0.1"), CompanyHandle: "apple"}, &f.engineerID},
		{&models.Job{Title: "Intern", Salary: intPtr(20000), CompanyHandle: "apple"}, &f.internID},
		{&models.Job{Title: "Manager", Salary: intPtr(80000), Equity: strPtr("0"), CompanyHandle: "ibm"}, &f.managerID},
	} {
		created, err := jobs.Create(ctx, j.job)
		require.NoError(t, err)
		require.NotZero(t, created.ID)
		*j.id = created.ID
	}
	return f
}

func TestCompanyCreateAndGet(t *testing.T) {
	seedFixture(t)
	ctx := context.Background()
	companies := repository.NewCompanyRepository(testDB)

	created, err := companies.Create(ctx, &models.Company{
		Handle:       "hooli",
		Name:         "Hooli",
		Description:  "Making the world a better place",
		NumEmployees: intPtr(5000),
		LogoURL:      strPtr("http://hooli.example/logo.png"),
	})
	require.NoError(t, err)
	require.Equal(t, "hooli", created.Handle)

	got, err := companies.Get(ctx, "hooli")
	require.NoError(t, err)
	require.Equal(t, "Hooli", got.Name)
	require.Equal(t, int64(5000), *got.NumEmployees)
	require.Equal(t, "http://hooli.example/logo.png", *got.LogoURL)
	require.Empty(t, got.Jobs)
}

func TestCompanyCreateDuplicate(t *testing.T) {
	seedFixture(t)
	ctx := context.Background()
	companies := repository.NewCompanyRepository(testDB)

	_, err := companies.Create(ctx, &models.Company{Handle: "apple", Name: "Apple Clone"})
	require.ErrorIs(t, err, types.ErrDuplicateKey)
}

func TestCompanyGetWithJobs(t *testing.T) {
	f := seedFixture(t)
	ctx := context.Background()
	companies := repository.NewCompanyRepository(testDB)

	got, err := companies.Get(ctx, "apple")
	require.NoError(t, err)
	require.Len(t, got.Jobs, 2)
	require.Equal(t, f.engineerID, got.Jobs[0].ID)
	require.Equal(t, "Engineer", got.Jobs[0].Title)
	require.Equal(t, f.internID, got.Jobs[1].ID)
	require.Equal(t, "Intern", got.Jobs[1].Title)
}

func TestCompanyGetNotFound(t *testing.T) {
	seedFixture(t)
	companies := repository.NewCompanyRepository(testDB)

	_, err := companies.Get(context.Background(), "nope")
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestCompanyList(t *testing.T) {
	seedFixture(t)
	ctx := context.Background()
	companies := repository.NewCompanyRepository(testDB)

	tests := []struct {
		name    string
		filter  models.CompanyFilter
		handles []string
	}{
		{name: "no filter orders by name", filter: models.CompanyFilter{}, handles: []string{"apple", "ibm", "nimble"}},
		{name: "name substring is case-insensitive", filter: models.CompanyFilter{Name: strPtr("APP")}, handles: []string{"apple"}},
		{name: "min employees", filter: models.CompanyFilter{MinEmployees: intPtr(1000)}, handles: []string{"apple", "ibm"}},
		{name: "max employees", filter: models.CompanyFilter{MaxEmployees: intPtr(100)}, handles: []string{"nimble"}},
		{name: "combined", filter: models.CompanyFilter{Name: strPtr("i"), MinEmployees: intPtr(1000)}, handles: []string{"ibm"}},
		{name: "no match", filter: models.CompanyFilter{Name: strPtr("zzz")}, handles: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := companies.List(ctx, tt.filter)
			require.NoError(t, err)
			handles := make([]string, 0, len(got))
			for _, c := range got {
				handles = append(handles, c.Handle)
			}
			require.Equal(t, tt.handles, handles)
		})
	}
}

func TestCompanyListInvertedRange(t *testing.T) {
	seedFixture(t)
	companies := repository.NewCompanyRepository(testDB)

	_, err := companies.List(context.Background(), models.CompanyFilter{
		MinEmployees: intPtr(100),
		MaxEmployees: intPtr(10),
	})
	require.ErrorIs(t, err, types.ErrValidation)
}

func TestCompanyUpdatePartial(t *testing.T) {
	seedFixture(t)
	ctx := context.Background()
	companies := repository.NewCompanyRepository(testDB)

	updated, err := companies.Update(ctx, "apple", models.CompanyUpdate{
		Name:         strPtr("Apple Inc"),
		NumEmployees: intPtr(3500),
	})
	require.NoError(t, err)
	require.Equal(t, "Apple Inc", updated.Name)
	require.Equal(t, int64(3500), *updated.NumEmployees)
	// Untouched fields keep their values.
	require.Equal(t, "Consumer hardware", updated.Description)
}

func TestCompanyUpdateEmptyPatch(t *testing.T) {
	seedFixture(t)
	companies := repository.NewCompanyRepository(testDB)

	_, err := companies.Update(context.Background(), "apple", models.CompanyUpdate{})
	require.ErrorIs(t, err, types.ErrValidation)
}

func TestCompanyUpdateNotFound(t *testing.T) {
	seedFixture(t)
	companies := repository.NewCompanyRepository(testDB)

	_, err := companies.Update(context.Background(), "nope", models.CompanyUpdate{Name: strPtr("X")})
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestCompanyDeleteCascades(t *testing.T) {
	f := seedFixture(t)
	ctx := context.Background()
	companies := repository.NewCompanyRepository(testDB)
	jobs := repository.NewJobRepository(testDB)

	require.NoError(t, companies.Delete(ctx, "apple"))

	_, err := companies.Get(ctx, "apple")
	require.ErrorIs(t, err, types.ErrNotFound)

	_, err = jobs.Get(ctx, f.engineerID)
	require.ErrorIs(t, err, types.ErrNotFound)
	_, err = jobs.Get(ctx, f.internID)
	require.ErrorIs(t, err, types.ErrNotFound)

	// Jobs of other companies survive.
	_, err = jobs.Get(ctx, f.managerID)
	require.NoError(t, err)
}

func TestCompanyDeleteNotFound(t *testing.T) {
	seedFixture(t)
	companies := repository.NewCompanyRepository(testDB)

	err := companies.Delete(context.Background(), "nope")
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestCompanyPage(t *testing.T) {
	seedFixture(t)
	ctx := context.Background()
	companies := repository.NewCompanyRepository(testDB)

	page1, err := companies.Page(ctx, models.CompanyFilter{}, types.NewDefaultPageRequest(1, 2))
	require.NoError(t, err)
	require.Equal(t, 3, page1.Total)
	require.Equal(t, 2, page1.Pages())
	require.Len(t, page1.Items, 2)
	require.Equal(t, "apple", page1.Items[0].Handle)
	require.Equal(t, "ibm", page1.Items[1].Handle)

	page2, err := companies.Page(ctx, models.CompanyFilter{}, types.NewDefaultPageRequest(2, 2))
	require.NoError(t, err)
	require.Equal(t, 3, page2.Total)
	require.Len(t, page2.Items, 1)
	require.Equal(t, "nimble", page2.Items[0].Handle)
}

// Same sqlite pool, postgres SQL rendering: the hand-built statements carry
// $n placeholders on a pg-dialect connection, and sqlite binds $n natively,
// so this verifies the numbered placeholders reach the driver with their
// arguments attached.
func TestRepositoriesOnPostgresDialect(t *testing.T) {
	f := seedFixture(t)
	ctx := context.Background()

	pgDB := bun.NewDB(testDB.DB, pgdialect.New())
	companies := repository.NewCompanyRepository(pgDB)
	jobs := repository.NewJobRepository(pgDB)

	listed, err := companies.List(ctx, models.CompanyFilter{Name: strPtr("i"), MinEmployees: intPtr(1000)})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "ibm", listed[0].Handle)

	updated, err := companies.Update(ctx, "apple", models.CompanyUpdate{
		Name:         strPtr("Apple Computer"),
		NumEmployees: intPtr(4000),
	})
	require.NoError(t, err)
	require.Equal(t, "Apple Computer", updated.Name)
	require.Equal(t, int64(4000), *updated.NumEmployees)

	jobList, err := jobs.List(ctx, models.JobFilter{MinSalary: intPtr(50000), HasEquity: true})
	require.NoError(t, err)
	require.Len(t, jobList, 1)
	require.Equal(t, "Engineer", jobList[0].Title)

	jobUpdated, err := jobs.Update(ctx, f.managerID, models.JobUpdate{Salary: intPtr(90000)})
	require.NoError(t, err)
	require.Equal(t, int64(90000), *jobUpdated.Salary)

	page, err := companies.Page(ctx, models.CompanyFilter{MinEmployees: intPtr(10)}, types.NewDefaultPageRequest(1, 2))
	require.NoError(t, err)
	require.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 2)
}

func TestJobCreate(t *testing.T) {
	seedFixture(t)
	ctx := context.Background()
	jobs := repository.NewJobRepository(testDB)

	created, err := jobs.Create(ctx, &models.Job{
		Title:         "Designer",
		Salary:        intPtr(75000),
		Equity:        strPtr("0.05"),
		CompanyHandle: "nimble",
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := jobs.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Designer", got.Title)
	require.Equal(t, "0.05", *got.Equity)
	require.NotNil(t, got.Company)
	require.Equal(t, "Nimble", got.Company.Name)
}

func TestJobCreateMissingCompany(t *testing.T) {
	seedFixture(t)
	jobs := repository.NewJobRepository(testDB)

	_, err := jobs.Create(context.Background(), &models.Job{Title: "Ghost", CompanyHandle: "nope"})
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestJobCreateInvalidEquity(t *testing.T) {
	seedFixture(t)
	jobs := repository.NewJobRepository(testDB)

	for _, equity := range []string{"1.5", "-0.1", "lots"} {
		_, err := jobs.Create(context.Background(), &models.Job{
			Title:         "Bad Equity",
			Equity:        strPtr(equity),
			CompanyHandle: "apple",
		})
		require.ErrorIs(t, err, types.ErrValidation, "equity %q", equity)
	}
}

func TestJobList(t *testing.T) {
	seedFixture(t)
	ctx := context.Background()
	jobs := repository.NewJobRepository(testDB)

	tests := []struct {
		name   string
		filter models.JobFilter
		titles []string
	}{
		{name: "no filter orders by title", filter: models.JobFilter{}, titles: []string{"Engineer", "Intern", "Manager"}},
		{name: "title substring is case-insensitive", filter: models.JobFilter{Title: strPtr("ENG")}, titles: []string{"Engineer"}},
		{name: "min salary", filter: models.JobFilter{MinSalary: intPtr(50000)}, titles: []string{"Engineer", "Manager"}},
		{name: "has equity excludes null and zero", filter: models.JobFilter{HasEquity: true}, titles: []string{"Engineer"}},
		{name: "combined", filter: models.JobFilter{MinSalary: intPtr(50000), HasEquity: true}, titles: []string{"Engineer"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := jobs.List(ctx, tt.filter)
			require.NoError(t, err)
			titles := make([]string, 0, len(got))
			for _, j := range got {
				titles = append(titles, j.Title)
			}
			require.Equal(t, tt.titles, titles)
		})
	}
}

// The listing joins companies from the left, so a job row survives even
// when its company is gone (possible only with the constraint disabled).
func TestJobListKeepsJobsWithoutCompany(t *testing.T) {
	seedFixture(t)
	ctx := context.Background()
	jobs := repository.NewJobRepository(testDB)

	_, err := testDB.ExecContext(ctx, "PRAGMA foreign_keys = OFF")
	require.NoError(t, err)
	defer func() { _, _ = testDB.ExecContext(ctx, "PRAGMA foreign_keys = ON") }()

	_, err = testDB.ExecContext(ctx,
		"INSERT INTO jobs (title, salary, equity, company_handle) VALUES ('Zed Ops', 1000, NULL, 'ghost')")
	require.NoError(t, err)

	listed, err := jobs.List(ctx, models.JobFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 4)
	orphan := listed[3]
	require.Equal(t, "Zed Ops", orphan.Title)
	require.Equal(t, "ghost", orphan.CompanyHandle)
	require.Empty(t, orphan.CompanyName)
}

func TestJobListCarriesCompanyName(t *testing.T) {
	seedFixture(t)
	jobs := repository.NewJobRepository(testDB)

	got, err := jobs.List(context.Background(), models.JobFilter{Title: strPtr("manager")})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "ibm", got[0].CompanyHandle)
	require.Equal(t, "IBM", got[0].CompanyName)
}

func TestJobGetNestsCompany(t *testing.T) {
	f := seedFixture(t)
	jobs := repository.NewJobRepository(testDB)

	got, err := jobs.Get(context.Background(), f.engineerID)
	require.NoError(t, err)
	// The nested company stands in for the raw handle.
	require.Empty(t, got.CompanyHandle)
	require.NotNil(t, got.Company)
	require.Equal(t, "apple", got.Company.Handle)
	require.Equal(t, "Apple", got.Company.Name)
}

func TestJobUpdatePartial(t *testing.T) {
	f := seedFixture(t)
	ctx := context.Background()
	jobs := repository.NewJobRepository(testDB)

	updated, err := jobs.Update(ctx, f.internID, models.JobUpdate{
		Title:  strPtr("Senior Intern"),
		Equity: strPtr("0.02"),
	})
	require.NoError(t, err)
	require.Equal(t, "Senior Intern", updated.Title)
	require.Equal(t, "0.02", *updated.Equity)
	// Untouched fields keep their values; the company cannot move.
	require.Equal(t, int64(20000), *updated.Salary)
	require.Equal(t, "apple", updated.CompanyHandle)
}

func TestJobUpdateEmptyPatch(t *testing.T) {
	f := seedFixture(t)
	jobs := repository.NewJobRepository(testDB)

	_, err := jobs.Update(context.Background(), f.engineerID, models.JobUpdate{})
	require.ErrorIs(t, err, types.ErrValidation)
}

func TestJobUpdateInvalidEquity(t *testing.T) {
	f := seedFixture(t)
	jobs := repository.NewJobRepository(testDB)

	_, err := jobs.Update(context.Background(), f.engineerID, models.JobUpdate{Equity: strPtr("2")})
	require.ErrorIs(t, err, types.ErrValidation)
}

func TestJobUpdateNotFound(t *testing.T) {
	seedFixture(t)
	jobs := repository.NewJobRepository(testDB)

	_, err := jobs.Update(context.Background(), 99999, models.JobUpdate{Title: strPtr("X")})
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestJobDelete(t *testing.T) {
	f := seedFixture(t)
	ctx := context.Background()
	jobs := repository.NewJobRepository(testDB)

	require.NoError(t, jobs.Delete(ctx, f.engineerID))

	_, err := jobs.Get(ctx, f.engineerID)
	require.ErrorIs(t, err, types.ErrNotFound)

	require.ErrorIs(t, jobs.Delete(ctx, f.engineerID), types.ErrNotFound)
}

func TestJobListByCompany(t *testing.T) {
	f := seedFixture(t)
	jobs := repository.NewJobRepository(testDB)

	got, err := jobs.ListByCompany(context.Background(), "apple")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, f.engineerID, got[0].ID)
	require.Equal(t, f.internID, got[1].ID)

	none, err := jobs.ListByCompany(context.Background(), "nope")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestJobPage(t *testing.T) {
	seedFixture(t)
	ctx := context.Background()
	jobs := repository.NewJobRepository(testDB)

	page, err := jobs.Page(ctx, models.JobFilter{}, types.NewDefaultPageRequest(1, 2))
	require.NoError(t, err)
	require.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 2)
	require.Equal(t, "Engineer", page.Items[0].Title)
	require.Equal(t, "Intern", page.Items[1].Title)

	empty, err := jobs.Page(ctx, models.JobFilter{Title: strPtr("zzz")}, types.NewDefaultPageRequest(1, 2))
	require.NoError(t, err)
	require.Equal(t, 0, empty.Total)
	require.Empty(t, empty.Items)
}

func TestGenericRepository(t *testing.T) {
	seedFixture(t)
	ctx := context.Background()
	base := repository.NewRepositoryWithKey[models.Company](testDB, "handle")

	one, err := base.GetOne(ctx, "ibm")
	require.NoError(t, err)
	require.Equal(t, "IBM", one.Name)

	_, err = base.GetOne(ctx, "nope")
	require.ErrorIs(t, err, types.ErrNotFound)

	all, err := base.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	big, err := base.Query(ctx, "num_employees >= ?", 1000)
	require.NoError(t, err)
	require.Len(t, big, 2)

	filtered, err := base.List(ctx, types.NewQueryFilter("num_employees >= ?", 1000))
	require.NoError(t, err)
	require.Len(t, filtered, 2)

	exists, err := base.Exists(ctx, "nimble")
	require.NoError(t, err)
	require.True(t, exists)

	page, err := base.Page(ctx, types.NewPageRequestWithOrders(1, 2, []string{"name ASC"}))
	require.NoError(t, err)
	require.Equal(t, 3, page.Total)
	require.Equal(t, 2, page.Pages())
	require.Len(t, page.Items, 2)
	require.Equal(t, "Apple", page.Items[0].Name)
}
