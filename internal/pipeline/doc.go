// Package pipeline runs the video-to-subtitles stages in order: audio
// extraction, transcription, translation, ASS styling and burn-in.
//
// Each run is recorded in the history store. Stage failures are wrapped with
// the stage name and classified so the run ends as failed or rejected, and
// the work directory is locked for the duration of a run.
package pipeline
