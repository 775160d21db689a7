package config

import (
	"fmt"
	"os"

	"github.com/nipunbatra/trim-convert/domain/video"
	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration.
type Config struct {
	Paths  PathsConfig  `yaml:"paths"`
	FFmpeg FFmpegConfig `yaml:"ffmpeg"`
	Google GoogleConfig `yaml:"google"`
	Server ServerConfig `yaml:"server"`
}

// PathsConfig contains directory paths for media processing.
type PathsConfig struct {
	DataDirectory   string `yaml:"data_directory"`
	OutputDirectory string `yaml:"output_directory"`
}

// FFmpegConfig contains ffmpeg/ffprobe settings.
type FFmpegConfig struct {
	FFmpegPath        string  `yaml:"ffmpeg_path"`
	FFprobePath       string  `yaml:"ffprobe_path"`
	AudioBitrate      string  `yaml:"audio_bitrate"`
	KeyframeTolerance float64 `yaml:"keyframe_tolerance_seconds"`
}

// GoogleConfig contains Google Drive API settings.
type GoogleConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
	DefaultFolderID string `yaml:"default_folder_id"`
}

// ServerConfig contains web demo settings.
type ServerConfig struct {
	ListenAddr  string `yaml:"listen_addr"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

// Default returns a configuration with working defaults; every field can
// be overridden by the config file.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			DataDirectory:   "data",
			OutputDirectory: "output",
		},
		FFmpeg: FFmpegConfig{
			FFmpegPath:        "ffmpeg",
			FFprobePath:       "ffprobe",
			AudioBitrate:      video.DefaultAudioBitrate,
			KeyframeTolerance: video.DefaultKeyframeTolerance,
		},
		Google: GoogleConfig{
			CredentialsFile: "oauth_credentials.json",
			TokenFile:       "oauth_token.json",
		},
		Server: ServerConfig{
			ListenAddr:  ":8080",
			MaxUploadMB: 2048,
		},
	}
}

// Load reads the configuration from the specified YAML file, applying
// defaults for anything the file leaves unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified YAML file.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
