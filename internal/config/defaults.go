package config

const (
	defaultConfigPath       = "~/.config/subtrans/config.toml"
	projectConfigName       = "subtrans.toml"
	dotEnvFile              = ".env"
	historyFileName         = "history.db"
	defaultWorkDir          = "output"
	defaultLogDir           = "~/.local/share/subtrans/logs"
	defaultStateDir         = "~/.local/share/subtrans"
	defaultLLMBaseURL       = "https://api.openai.com/v1"
	defaultLLMModel         = "gpt-4o-mini"
	defaultLLMTemperature   = 0.7
	defaultLLMTimeout       = 300
	defaultTargetLanguage   = "简体中文"
	defaultWorkers          = 6
	defaultBatchSize        = 10
	defaultWhisperBinary    = "whisper-cli"
	defaultWhisperModel     = "models/ggml-medium.en.bin"
	defaultSubtitleLayout   = "target-above"
	defaultFFmpegBinary     = "ffmpeg"
	defaultFFprobeBinary    = "ffprobe"
	defaultVideoCodec       = "libx264"
	defaultEncoderPreset    = "medium"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	maxTemperature          = 2.0
	defaultStripPunctuation = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:  defaultWorkDir,
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Temperature:    defaultLLMTemperature,
			TimeoutSeconds: defaultLLMTimeout,
		},
		Translation: Translation{
			TargetLanguage: defaultTargetLanguage,
			Workers:        defaultWorkers,
			BatchSize:      defaultBatchSize,
		},
		Transcription: Transcription{
			WhisperBinary: defaultWhisperBinary,
			ModelPath:     defaultWhisperModel,
		},
		Subtitles: Subtitles{
			Layout:            defaultSubtitleLayout,
			RemovePunctuation: defaultStripPunctuation,
		},
		FFmpeg: FFmpeg{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			VideoCodec:    defaultVideoCodec,
			Preset:        defaultEncoderPreset,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
