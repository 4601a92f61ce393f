package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppName names the config and log directories
const AppName = "egk-updater"

type Config struct {
	AppData  string         `mapstructure:"appdata"`
	GitHub   GitHubConfig   `mapstructure:"github"`
	Modpack  ModpackConfig  `mapstructure:"modpack"`
	Core     CoreConfig     `mapstructure:"core"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Download DownloadConfig `mapstructure:"download"`
	Log      LogConfig      `mapstructure:"log"`
	Sound    bool           `mapstructure:"sound"`
}

type GitHubConfig struct {
	APIURL string `mapstructure:"api_url"`
}

type ModpackConfig struct {
	Repo  string `mapstructure:"repo"`
	Asset string `mapstructure:"asset"`
}

type CoreConfig struct {
	Repo   string `mapstructure:"repo"`
	Prefix string `mapstructure:"prefix"`
	Suffix string `mapstructure:"suffix"`
}

type HTTPConfig struct {
	ConnectTimeout        time.Duration `mapstructure:"connect_timeout"`
	ResponseHeaderTimeout time.Duration `mapstructure:"response_header_timeout"`
	APITimeout            time.Duration `mapstructure:"api_timeout"`
}

type DownloadConfig struct {
	RateLimit int `mapstructure:"rate_limit"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// DefaultPath returns <UserConfigDir>/egk-updater/config.yaml
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, "config.yaml")
}

// DefaultLogFile returns <UserCacheDir>/egk-updater/updater.log
func DefaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, "updater.log")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("appdata", "")
	v.SetDefault("github.api_url", "https://api.github.com")
	v.SetDefault("modpack.repo", "Eug3nK/MODSEGK")
	v.SetDefault("modpack.asset", "PLAY.EGK.RO.zip")
	v.SetDefault("core.repo", "Eug3nK/egkcore")
	v.SetDefault("core.prefix", "EGK-Core")
	v.SetDefault("core.suffix", ".jar")
	v.SetDefault("http.connect_timeout", 15*time.Second)
	v.SetDefault("http.response_header_timeout", 30*time.Second)
	v.SetDefault("http.api_timeout", 30*time.Second)
	v.SetDefault("download.rate_limit", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("sound", true)
}

// Load reads configuration from path. A missing file is not an error unless the
// path was given explicitly; defaults and EGK_* environment variables always apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file %s: %w", path, err)
			}
		} else if explicit {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
	}

	v.SetEnvPrefix("EGK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Log.File == "" {
		cfg.Log.File = DefaultLogFile()
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	for _, repo := range []string{c.Modpack.Repo, c.Core.Repo} {
		owner, name, ok := strings.Cut(repo, "/")
		if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
			return fmt.Errorf("invalid repository %q (expected owner/name)", repo)
		}
	}
	if c.Modpack.Asset == "" {
		return errors.New("modpack.asset must not be empty")
	}
	if c.Core.Prefix == "" && c.Core.Suffix == "" {
		return errors.New("core.prefix and core.suffix must not both be empty")
	}
	if c.HTTP.ConnectTimeout <= 0 || c.HTTP.ResponseHeaderTimeout <= 0 || c.HTTP.APITimeout <= 0 {
		return errors.New("http timeouts must be positive")
	}
	if c.Download.RateLimit < 0 {
		return errors.New("download.rate_limit must not be negative")
	}
	return nil
}
