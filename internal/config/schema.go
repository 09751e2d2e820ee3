package config

// Config holds bookvoice configuration.
// Stored at: ./config.yaml or ~/.bookvoice/config.yaml
type Config struct {
	TTSProviders map[string]TTSProviderCfg `mapstructure:"tts_providers" yaml:"tts_providers"`
	Defaults     DefaultsCfg               `mapstructure:"defaults" yaml:"defaults"`
	Audio        AudioCfg                  `mapstructure:"audio" yaml:"audio"`
	FFmpeg       FFmpegCfg                 `mapstructure:"ffmpeg" yaml:"ffmpeg"`
	Storage      StorageCfg                `mapstructure:"storage" yaml:"storage"`
	Output       OutputCfg                 `mapstructure:"output" yaml:"output"`
}

// TTSProviderCfg configures a speech-synthesis provider.
type TTSProviderCfg struct {
	Type      string  `mapstructure:"type" yaml:"type"`             // "openai"
	Model     string  `mapstructure:"model" yaml:"model"`           // Model name
	Voice     string  `mapstructure:"voice" yaml:"voice"`           // Default voice ID
	Speed     float64 `mapstructure:"speed" yaml:"speed"`           // Playback speed multiplier
	APIKey    string  `mapstructure:"api_key" yaml:"api_key"`       // API key (supports ${ENV_VAR} syntax)
	BaseURL   string  `mapstructure:"base_url" yaml:"base_url"`     // Override API endpoint
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"` // Requests per second
	Enabled   bool    `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies default selections.
type DefaultsCfg struct {
	TTSProvider string `mapstructure:"tts_provider" yaml:"tts_provider"` // Default TTS provider
	Voice       string `mapstructure:"voice" yaml:"voice"`               // Default voice ID
}

// AudioCfg configures the encoded audio.
type AudioCfg struct {
	Bitrate string `mapstructure:"bitrate" yaml:"bitrate"` // AAC bitrate, e.g. "64k"
}

// FFmpegCfg locates the external media tools.
type FFmpegCfg struct {
	FFmpegPath  string `mapstructure:"ffmpeg_path" yaml:"ffmpeg_path"`
	FFprobePath string `mapstructure:"ffprobe_path" yaml:"ffprobe_path"`
}

// StorageCfg selects where finished audiobooks are published.
type StorageCfg struct {
	// Type is "local" or "s3".
	Type  string          `mapstructure:"type" yaml:"type"`
	Local LocalStorageCfg `mapstructure:"local" yaml:"local"`
	S3    S3StorageCfg    `mapstructure:"s3" yaml:"s3"`
}

// LocalStorageCfg configures filesystem publishing.
type LocalStorageCfg struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// S3StorageCfg configures S3 (or S3-compatible) publishing.
type S3StorageCfg struct {
	Bucket       string `mapstructure:"bucket" yaml:"bucket"`
	Region       string `mapstructure:"region" yaml:"region"`
	Prefix       string `mapstructure:"prefix" yaml:"prefix"`
	Endpoint     string `mapstructure:"endpoint" yaml:"endpoint"` // For S3-compatible stores
	AccessKey    string `mapstructure:"access_key" yaml:"access_key"`
	SecretKey    string `mapstructure:"secret_key" yaml:"secret_key"` // Supports ${ENV_VAR} syntax
	UsePathStyle bool   `mapstructure:"use_path_style" yaml:"use_path_style"`
}

// OutputCfg configures local run behavior.
type OutputCfg struct {
	Dir         string `mapstructure:"dir" yaml:"dir"`                   // Where .m4b files land
	WorkDir     string `mapstructure:"work_dir" yaml:"work_dir"`         // Base for transient workdirs ("" = OS temp)
	KeepWorkdir bool   `mapstructure:"keep_workdir" yaml:"keep_workdir"` // Skip cleanup for debugging
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		TTSProviders: map[string]TTSProviderCfg{
			"openai": {
				Type:      "openai",
				Model:     "tts-1-hd",
				Voice:     "onyx",
				Speed:     1.0,
				APIKey:    "${OPENAI_API_KEY}",
				RateLimit: 8.0,
				Enabled:   true,
			},
		},
		Defaults: DefaultsCfg{
			TTSProvider: "openai",
			Voice:       "onyx",
		},
		Audio: AudioCfg{
			Bitrate: "64k",
		},
		FFmpeg: FFmpegCfg{
			FFmpegPath:  "ffmpeg",
			FFprobePath: "ffprobe",
		},
		Storage: StorageCfg{
			Type:  "local",
			Local: LocalStorageCfg{Dir: "audiobooks"},
		},
		Output: OutputCfg{
			Dir: ".",
		},
	}
}

// GetTTSProvider returns a TTS provider config by name.
func (c *Config) GetTTSProvider(name string) (TTSProviderCfg, bool) {
	cfg, ok := c.TTSProviders[name]
	return cfg, ok
}

// EnabledTTSProviders returns all enabled TTS providers.
func (c *Config) EnabledTTSProviders() map[string]TTSProviderCfg {
	result := make(map[string]TTSProviderCfg)
	for name, cfg := range c.TTSProviders {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}
