// Package language resolves the language values users pass for transcription
// and translation (ISO codes, BCP-47 tags, or names) using golang.org/x/text.
package language
