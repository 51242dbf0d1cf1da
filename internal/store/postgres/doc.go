// Package postgres implements the session and gallery stores on PostgreSQL.
//
// Stores take a *sql.DB, normally pg.OpenDB over a pgx pool, and build
// queries with squirrel. The schema lives in the migrations subpackage and
// is applied with pg.Migrate.
package postgres
