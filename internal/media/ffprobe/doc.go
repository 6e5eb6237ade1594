// Package ffprobe runs ffprobe and decodes its JSON report.
//
// The pipeline uses it to confirm an input has an audio stream before
// extraction and to learn the duration that extraction progress is measured
// against.
package ffprobe
