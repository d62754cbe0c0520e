// Package database provides connection management for the job-board store:
// Bun database construction for postgres, mysql, and sqlite, pool tuning,
// health checks, query logging hooks, SQL error classification, schema
// migrations for the companies and jobs tables, foreign key handling, and
// environment-keyed seed data.
package database
