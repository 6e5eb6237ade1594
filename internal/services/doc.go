// Package services defines shared utilities consumed by the pipeline stages
// and the external tool integrations.
//
// It provides context helpers that stamp run IDs, stage names, chunk indexes
// and correlation identifiers for logging, plus structured error markers and
// the Wrap helper that classify failures into history statuses.
package services
