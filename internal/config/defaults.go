package config

const (
	defaultMediaDir          = "~/.local/share/lingosub/media"
	defaultDataDir           = "~/.local/share/lingosub/data"
	defaultLogDir            = "~/.local/share/lingosub/logs"
	defaultAIServiceURL      = "http://127.0.0.1:8000"
	defaultAIRequestTimeout  = 300
	defaultMediaRootInternal = "/app/media/uploads"
	defaultTargetLang        = "es"
	defaultNativeLang        = "en"
	defaultMaxUnknown        = 3
	defaultMaxRatio          = 0.4
	defaultGuestLemmaLimit   = 50
	defaultDeckLimit         = 15
	defaultMaxInFlightTasks  = 8
	defaultLogLevel          = "info"
	defaultLogFormat         = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			MediaDir: defaultMediaDir,
			DataDir:  defaultDataDir,
			LogDir:   defaultLogDir,
		},
		AIService: AIService{
			BaseURL:           defaultAIServiceURL,
			RequestTimeout:    defaultAIRequestTimeout,
			MediaRootInternal: defaultMediaRootInternal,
		},
		Languages: Languages{
			DefaultTarget: defaultTargetLang,
			DefaultNative: defaultNativeLang,
		},
		Filter: Filter{
			MaxUnknownForLearning: defaultMaxUnknown,
			MaxRatioForLearning:   defaultMaxRatio,
		},
		Translation: Translation{
			GuestLemmaLimit: defaultGuestLemmaLimit,
		},
		Deck: Deck{
			Limit: defaultDeckLimit,
		},
		Tasks: Tasks{
			MaxInFlight: defaultMaxInFlightTasks,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
