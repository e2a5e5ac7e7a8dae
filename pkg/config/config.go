package config

import (
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/iancoleman/strcase"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

type Config struct {
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout" default:"5s"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count" default:"5"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay" default:"2s"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseFilePath          string        `koanf:"database_file_path" validate:"required"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries" default:"5"`
	Hostname                  string        `koanf:"hostname"`
	ServerHost                string        `koanf:"server_host" default:"0.0.0.0"`
	ServerPort                int           `koanf:"server_port" default:"8000"`
	SiteURL                   string        `koanf:"site_url" default:"https://www.pepysdiary.com"`
	AdminAPIKey               string        `koanf:"admin_api_key"`

	UseSpamCheck   bool   `koanf:"use_spam_check"`
	AkismetAPIKey  string `koanf:"akismet_api_key"`
	AkismetBaseURL string `koanf:"akismet_base_url" default:"https://%s.rest.akismet.com"`

	WikipediaAPIURL        string        `koanf:"wikipedia_api_url" default:"https://en.wikipedia.org/w/api.php"`
	WikipediaFetchDelay    time.Duration `koanf:"wikipedia_fetch_delay" default:"500ms"`
	WikipediaFetchInterval time.Duration `koanf:"wikipedia_fetch_interval" default:"24h"`
	WikipediaFetchBatch    int           `koanf:"wikipedia_fetch_batch" default:"10"`

	MapCategoryIDs       []int `koanf:"map_category_ids"`
	DefaultMapCategoryID int   `koanf:"default_map_category_id"`
	FeedItemCount        int   `koanf:"feed_item_count" default:"20"`
	WorkerProcesses      int   `koanf:"worker_processes" default:"1"`
}

const defaultConfigFile = "/config/pepysdiary.yaml"

// New builds the config from struct defaults, then the YAML file named by
// CONFIG_FILE, then environment variables named after each key in upper case.
func New() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	cfg.Hostname = hostname

	k := koanf.New(".")

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = defaultConfigFile
	}
	if _, err := os.Stat(configFile); err == nil {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", configFile)
		}
	}

	keys := knownKeys()
	err = k.Load(env.Provider("", ".", func(s string) string {
		key := strings.ToLower(s)
		if _, ok := keys[key]; !ok {
			return ""
		}
		return key
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewForTest returns a config pointing at an in-memory database.
func NewForTest() *Config {
	cfg := &Config{}
	_ = defaults.Set(cfg)
	cfg.DatabaseFilePath = ":memory:"
	cfg.DatabaseConnectRetryDelay = 0
	cfg.ServerHost = "127.0.0.1"
	cfg.SiteURL = "http://localhost:8000"
	cfg.WikipediaFetchDelay = 0
	cfg.WikipediaFetchInterval = 0
	return cfg
}

func validate(cfg *Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return errors.WithStack(err)
	}

	missing := make([]string, 0, len(errs))
	for _, fe := range errs {
		key := toSnakeCase(fe.StructField())
		missing = append(missing, strings.ToUpper(key)+" ("+key+")")
	}
	return errors.Errorf("missing required config: %s", strings.Join(missing, ", "))
}

func knownKeys() map[string]struct{} {
	keys := map[string]struct{}{}
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("koanf"); tag != "" {
			keys[tag] = struct{}{}
		}
	}
	return keys
}

func toSnakeCase(s string) string {
	return strcase.ToSnake(s)
}
