package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Addr string `mapstructure:"addr"`
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`

	Store struct {
		// Backend selects the job store: "memory" (default) or "redis".
		Backend string `mapstructure:"backend"`
		// TTLSeconds expires Redis job records; 0 keeps them forever.
		TTLSeconds int `mapstructure:"ttl_seconds"`
	} `mapstructure:"store"`

	Redis struct {
		Address  string `mapstructure:"address"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	QnA struct {
		// Provider selects the generation capability: "openai" or "gemini".
		Provider       string `mapstructure:"provider"`
		Model          string `mapstructure:"model"`
		GeminiModel    string `mapstructure:"gemini_model"`
		OpenaiApiKey   string `mapstructure:"openai_api_key"`
		GoogleApiKey   string `mapstructure:"google_api_key"`
		MaxPromptChars int    `mapstructure:"max_prompt_chars"`
	} `mapstructure:"qna"`

	Media struct {
		YtdlpPath    string `mapstructure:"ytdlp_path"`
		FfmpegPath   string `mapstructure:"ffmpeg_path"`
		WhisperPath  string `mapstructure:"whisper_path"`
		WhisperModel string `mapstructure:"whisper_model"`
		Language     string `mapstructure:"language"`
		// WorkDir is where per-job audio/transcript artifacts are written.
		// Empty uses the system temp directory.
		WorkDir string `mapstructure:"work_dir"`
	} `mapstructure:"media"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetDefault("server.addr", "localhost")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("store.backend", "memory")
	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("qna.provider", "openai")
	viper.SetDefault("qna.model", "gpt-4o")
	viper.SetDefault("qna.gemini_model", "gemini-1.5-flash")
	viper.SetDefault("media.ytdlp_path", "yt-dlp")
	viper.SetDefault("media.ffmpeg_path", "ffmpeg")
	viper.SetDefault("media.whisper_path", "whisper")
	viper.SetDefault("media.whisper_model", "base")
	viper.SetDefault("media.language", "English")

	viper.AutomaticEnv()
	// Allow the usual env vars without a prefix or a config file present.
	viper.BindEnv("qna.openai_api_key", "OPENAI_API_KEY")
	viper.BindEnv("qna.google_api_key", "GEMINI_API_KEY")
	viper.BindEnv("redis.address", "REDIS_ADDR")

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env vars carry it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
