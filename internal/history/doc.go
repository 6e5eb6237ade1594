// Package history records subtitle runs in SQLite so past runs can be listed
// and failures inspected after the process exits.
//
// Each run row tracks the input, the produced files, the current pipeline
// status and the translation counters. Schema changes bump schemaVersion;
// users clear the database to adopt a new schema.
package history
