// Package whispercpp wraps the whisper.cpp command line (whisper-cli) to turn a
// 16 kHz mono WAV file into an SRT transcript.
//
// The command runner is injectable so tests can assert the argument list and
// fake the SRT output without the real binary.
package whispercpp
