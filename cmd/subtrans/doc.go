// Package main hosts the subtrans CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration and logging once, then hands
// off to the pipeline for video runs and translate-only runs, to the history
// store for listing past runs, and to the dependency checks for doctor.
// Keep this package lean: behaviour belongs in internal packages.
package main
