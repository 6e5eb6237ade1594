// Package ffmpeg wraps the two ffmpeg invocations subtrans needs: pulling a
// mono 16 kHz WAV track out of a video for transcription, and burning the
// styled ASS track back into the picture.
//
// Both commands run with -progress pipe:1 so callers receive structured
// progress updates. Burn-in writes to a hidden temp file beside the output
// and renames it into place only after ffmpeg succeeds.
package ffmpeg
