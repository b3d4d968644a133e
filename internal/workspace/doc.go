// Package workspace persists CLI state between invocations in a SQLite
// database under the configured state directory: the ordered export
// selection and a small settings table (bearer token, tracked asset).
//
// Schema changes ship as numbered files in migrations/ and are applied in
// order on Open; applied versions are recorded in schema_migrations.
package workspace
