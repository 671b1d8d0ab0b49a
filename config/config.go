package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
	"github.com/tieubaoca/aquaevents/types"
)

const envPrefix = "AQUAEVENTS"

type Config struct {
	Port         string           `mapstructure:"port"`
	MongoDBURI   string           `mapstructure:"MONGODB_URI"`
	OpenAIAPIKey string           `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKey string           `mapstructure:"GEMINI_API_KEY"`
	Site         SiteConfig       `mapstructure:"site"`
	Database     DatabaseConfig   `mapstructure:"database"`
	Translator   TranslatorConfig `mapstructure:"translator"`
	Sitemap      SitemapConfig    `mapstructure:"sitemap"`
	Log          LogConfig        `mapstructure:"log"`
}

type SiteConfig struct {
	Name          string   `mapstructure:"name"`
	BaseURL       string   `mapstructure:"base_url"`
	DefaultLocale string   `mapstructure:"default_locale"`
	Locales       []string `mapstructure:"locales"`
	MessagesDir   string   `mapstructure:"messages_dir"`
	UpcomingLimit int64    `mapstructure:"upcoming_limit"`
	PageSize      int64    `mapstructure:"page_size"`
}

type DatabaseConfig struct {
	Name             string `mapstructure:"name"`
	EventsCollection string `mapstructure:"events_collection"`
	TimeoutSeconds   int    `mapstructure:"timeout_seconds"`
}

type TranslatorConfig struct {
	Provider         string   `mapstructure:"provider"`
	AIEndpoint       string   `mapstructure:"ai_endpoint"`
	Model            string   `mapstructure:"model"`
	GeminiModel      string   `mapstructure:"gemini_model"`
	GeminiAPIKeys    []string `mapstructure:"gemini_api_keys"`
	StructuredOutput bool     `mapstructure:"structured_output"`
	BatchSize        int      `mapstructure:"batch_size"`
	Concurrency      int      `mapstructure:"concurrency"`
	BackupDir        string   `mapstructure:"backup_dir"`
}

type SitemapConfig struct {
	Output        string        `mapstructure:"output"`
	IncludeEvents bool          `mapstructure:"include_events"`
	Routes        []types.Route `mapstructure:"routes"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// DefaultRoutes are the static pages of the site.
var DefaultRoutes = []types.Route{
	{Path: "/", ChangeFreq: "daily", Priority: 1.0},
	{Path: "/eventos", ChangeFreq: "daily", Priority: 0.9},
	{Path: "/gorros-de-natacion", ChangeFreq: "weekly", Priority: 0.8},
	{Path: "/preguntas-frecuentes", ChangeFreq: "monthly", Priority: 0.6},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("GEMINI_API_KEY", "")

	v.SetDefault("site.name", "AquaEvents")
	v.SetDefault("site.base_url", "https://aquaevents.club")
	v.SetDefault("site.default_locale", "es")
	v.SetDefault("site.locales", []string{"es", "en", "fr", "it", "de", "pt"})
	v.SetDefault("site.messages_dir", "messages")
	v.SetDefault("site.upcoming_limit", 6)
	v.SetDefault("site.page_size", 20)

	v.SetDefault("database.name", "aquaevents")
	v.SetDefault("database.events_collection", "events")
	v.SetDefault("database.timeout_seconds", 10)

	v.SetDefault("translator.provider", "openai")
	v.SetDefault("translator.ai_endpoint", "https://api.openai.com/v1")
	v.SetDefault("translator.model", "gpt-4o-mini")
	v.SetDefault("translator.gemini_model", "gemini-1.5-flash")
	v.SetDefault("translator.gemini_api_keys", []string{})
	v.SetDefault("translator.structured_output", false)
	v.SetDefault("translator.batch_size", 10)
	v.SetDefault("translator.concurrency", 2)
	v.SetDefault("translator.backup_dir", "messages/backup")

	v.SetDefault("sitemap.output", "public/sitemap.xml")
	v.SetDefault("sitemap.include_events", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// LoadConfig reads configPath when given, otherwise an optional config.yaml
// in the working directory. Environment variables override both.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Secrets keep their conventional names, without the prefix.
	v.BindEnv("MONGODB_URI", "MONGODB_URI")
	v.BindEnv("OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("GEMINI_API_KEY", "GEMINI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if len(config.Sitemap.Routes) == 0 {
		config.Sitemap.Routes = DefaultRoutes
	}
	if config.GeminiAPIKey != "" && len(config.Translator.GeminiAPIKeys) == 0 {
		config.Translator.GeminiAPIKeys = []string{config.GeminiAPIKey}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.Site.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("site.base_url must be an absolute URL, got %q", c.Site.BaseURL)
	}
	if c.Site.DefaultLocale == "" {
		return errors.New("site.default_locale is required")
	}
	switch c.Translator.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("unknown translator provider %q", c.Translator.Provider)
	}
	if c.Translator.BatchSize <= 0 {
		return errors.New("translator.batch_size must be positive")
	}
	if c.Translator.Concurrency <= 0 {
		return errors.New("translator.concurrency must be positive")
	}
	return nil
}
