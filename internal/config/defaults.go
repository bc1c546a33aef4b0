package config

const (
	defaultConfigPath     = "~/.config/speechsync/config.toml"
	defaultLogDir         = "~/.local/share/speechsync/logs"
	defaultTTSBaseURL     = "http://localhost:5000"
	defaultTTSSpeakPath   = "/api/tts/speak"
	defaultMinAudioBytes  = 1000
	defaultTTSTimeout     = 60
	defaultPollIntervalMS = 100
	defaultAutoplayDelay  = 500
	defaultFFprobeBinary  = "ffprobe"
	defaultCacheEntries   = 200
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			CacheDir: defaultCacheDir(),
		},
		TTS: TTS{
			BaseURL:        defaultTTSBaseURL,
			SpeakPath:      defaultTTSSpeakPath,
			MinAudioBytes:  defaultMinAudioBytes,
			TimeoutSeconds: defaultTTSTimeout,
		},
		Playback: Playback{
			PollIntervalMS:  defaultPollIntervalMS,
			Autoplay:        true,
			AutoplayDelayMS: defaultAutoplayDelay,
			FFprobeBinary:   defaultFFprobeBinary,
		},
		AudioCache: AudioCache{
			Enabled:    true,
			MaxEntries: defaultCacheEntries,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
