// Package subtitles holds the segment store shared by every pipeline stage and
// the SRT and ASS codecs that move segments in and out of files.
//
// A Store is an ordered, length-immutable sequence of segments numbered 1..N.
// Transformations never edit a store in place; they build a new one, so a
// store handed to the translation workers can be read concurrently.
package subtitles
