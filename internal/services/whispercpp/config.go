package whispercpp

// Config captures runtime settings for whisper.cpp transcription.
type Config struct {
	// Binary is the whisper-cli executable (name on PATH or absolute path).
	Binary string
	// ModelPath points at a ggml model file (e.g. models/ggml-medium.en.bin).
	ModelPath string
	// Language is the spoken language hint; empty lets whisper auto-detect.
	Language string
	// Threads overrides the whisper thread count when positive.
	Threads int
}

// whisper.cpp invocation constants.
const (
	DefaultBinary = "whisper-cli"
	DefaultModel  = "models/ggml-medium.en.bin"
	SRTExtension  = ".srt"
)
