package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/subosito/gotenv"
)

type Config struct {
	App        *App
	Database   *Database
	HTTP       *HTTP
	Telegram   *Telegram
	YooKassa   *YooKassa
	OpenAI     *OpenAI
	Calculator *Calculator
	Catalog    *Catalog
	Worker     *Worker
	AdminBatch *AdminBatch
}

const AppModeProduction = "PROD"
const AppModeDevelop = "DEV"

const (
	TelegramModeWebhook = "webhook"
	TelegramModePolling = "polling"
)

type App struct {
	LogLevel string `env:"LOG_LEVEL"`
	Mode     string `env:"APP_MODE"`
}

type Database struct {
	DSN string `env:"DATABASE_URI"`
}

type HTTP struct {
	HostString string `env:"RUN_ADDRESS"`
	// PublicURL is the externally reachable base used for the webhook and the calculator.
	PublicURL string `env:"PUBLIC_URL"`
	StaticDir string `env:"STATIC_DIR"`
}

type Telegram struct {
	Token         string   `env:"TELEGRAM_BOT_TOKEN"`
	Mode          string   `env:"TELEGRAM_MODE" envDefault:"webhook"`
	WebhookSecret string   `env:"TELEGRAM_WEBHOOK_SECRET"`
	AdminIDs      []string `env:"TELEGRAM_ADMIN_IDS" envSeparator:","`
	Debug         bool     `env:"TELEGRAM_DEBUG"`
}

type YooKassa struct {
	ShopID    string        `env:"YOOKASSA_SHOP_ID"`
	SecretKey string        `env:"YOOKASSA_SECRET_KEY"`
	BaseURL   string        `env:"YOOKASSA_API_URL" envDefault:"https://api.yookassa.ru/v3"`
	ReturnURL string        `env:"YOOKASSA_RETURN_URL" envDefault:"https://t.me/CashHealer_bot"`
	Mock      bool          `env:"YOOKASSA_MOCK_MODE"`
	Test      bool          `env:"YOOKASSA_TEST_MODE"`
	Timeout   time.Duration `env:"YOOKASSA_TIMEOUT" envDefault:"15s"`
}

type OpenAI struct {
	APIKey  string        `env:"OPENAI_API_KEY"`
	BaseURL string        `env:"OPENAI_BASE_URL"`
	Model   string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	Timeout time.Duration `env:"OPENAI_TIMEOUT" envDefault:"30s"`
}

type Calculator struct {
	// TokenKey is a hex encoded 32 byte PASETO v4 local key. A random key is used when empty.
	TokenKey string        `env:"CALCULATOR_TOKEN_KEY"`
	TokenTTL time.Duration `env:"CALCULATOR_TOKEN_TTL" envDefault:"168h"`
}

type Catalog struct {
	DetoxPrice    int64  `env:"DETOX_PRICE" envDefault:"45000"`
	ModelingPrice int64  `env:"MODELING_PRICE" envDefault:"35000"`
	DetoxFormURL  string `env:"DETOX_FORM_URL" envDefault:"https://forms.yandex.ru/u/6912423849af471482e765d3"`
}

type Worker struct {
	Count     int `env:"WORKER_COUNT" envDefault:"4"`
	QueueSize int `env:"WORKER_QUEUE_SIZE" envDefault:"64"`
}

type AdminBatch struct {
	Size int           `env:"ADMIN_BATCH_SIZE" envDefault:"128"`
	TTL  time.Duration `env:"ADMIN_BATCH_TTL" envDefault:"30m"`
}

func NewConfig() (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	var app App
	var db Database
	var http HTTP

	flag.StringVar(&db.DSN, "d", "", "Database string")
	flag.StringVar(&http.HostString, "a", `localhost:8080`, "HTTP server endpoint")
	flag.StringVar(&app.LogLevel, "l", `info`, "Log level")
	flag.StringVar(&app.Mode, "m", `DEV`, "PROD / DEV")
	flag.Parse()

	return parse(&app, &db, &http)
}

func parse(app *App, db *Database, http *HTTP) (*Config, error) {
	config := Config{
		App:        app,
		Database:   db,
		HTTP:       http,
		Telegram:   &Telegram{},
		YooKassa:   &YooKassa{},
		OpenAI:     &OpenAI{},
		Calculator: &Calculator{},
		Catalog:    &Catalog{},
		Worker:     &Worker{},
		AdminBatch: &AdminBatch{},
	}

	sections := []struct {
		name string
		v    any
	}{
		{"app", config.App},
		{"database", config.Database},
		{"http", config.HTTP},
		{"telegram", config.Telegram},
		{"yookassa", config.YooKassa},
		{"openai", config.OpenAI},
		{"calculator", config.Calculator},
		{"catalog", config.Catalog},
		{"worker", config.Worker},
		{"admin batch", config.AdminBatch},
	}
	for _, s := range sections {
		if err := env.Parse(s.v); err != nil {
			return nil, fmt.Errorf("error parsing %s config: %w", s.name, err)
		}
	}

	config.HTTP.PublicURL = strings.TrimRight(config.HTTP.PublicURL, "/")
	return &config, nil
}

// Validate reports settings the bot cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.Telegram.Token == "" {
		errs = append(errs, errors.New("TELEGRAM_BOT_TOKEN is required"))
	}
	if c.Telegram.Mode != TelegramModeWebhook && c.Telegram.Mode != TelegramModePolling {
		errs = append(errs, fmt.Errorf("TELEGRAM_MODE must be %s or %s", TelegramModeWebhook, TelegramModePolling))
	}
	if !c.YooKassa.Mock && (c.YooKassa.ShopID == "" || c.YooKassa.SecretKey == "") {
		errs = append(errs, errors.New("YOOKASSA_SHOP_ID and YOOKASSA_SECRET_KEY are required unless YOOKASSA_MOCK_MODE is set"))
	}
	if c.Telegram.Mode == TelegramModeWebhook && c.HTTP.PublicURL == "" {
		errs = append(errs, errors.New("PUBLIC_URL is required in webhook mode"))
	}
	if c.HTTP.PublicURL != "" {
		if u, err := url.Parse(c.HTTP.PublicURL); err != nil || u.Scheme != "https" || u.Host == "" {
			errs = append(errs, fmt.Errorf("PUBLIC_URL must be an absolute https URL, got %q", c.HTTP.PublicURL))
		}
	}
	if c.Catalog.DetoxPrice <= 0 || c.Catalog.ModelingPrice <= 0 {
		errs = append(errs, errors.New("service prices must be positive"))
	}
	if c.App.Mode == AppModeProduction && c.Database.DSN == "" {
		errs = append(errs, errors.New("DATABASE_URI is required in PROD mode"))
	}
	return errors.Join(errs...)
}
