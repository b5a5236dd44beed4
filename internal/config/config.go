package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret         string `yaml:"secret"`
		TTL            int    `yaml:"ttl"`              // минуты
		RefreshTTLDays int    `yaml:"refresh_ttl_days"` // дни жизни refresh-токена
	} `yaml:"jwt"`

	FrontendURL string `yaml:"frontend_url"` // для реферальных ссылок и писем

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	Storage struct {
		Type       string `yaml:"type"`       // local, cloudflare_r2
		BasePath   string `yaml:"base_path"`  // для local
		BaseURL    string `yaml:"base_url"`   // публичный URL
		Bucket     string `yaml:"bucket"`     // для R2
		AccessKey  string `yaml:"access_key"` // для R2
		SecretKey  string `yaml:"secret_key"` // для R2
		Endpoint   string `yaml:"endpoint"`   // для R2
		PublicRead bool   `yaml:"public_read"`
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size"`      // максимальный размер файла, байт
		AllowedTypes []string `yaml:"allowed_types"` // разрешенные MIME-типы пруфов
	} `yaml:"upload"`

	Gateway struct {
		MerchantLogin string `yaml:"merchant_login"`
		Password1     string `yaml:"password1"`
		Password2     string `yaml:"password2"`
		BaseURL       string `yaml:"base_url"`
	} `yaml:"gateway"`

	FirstAdminEmail    string `yaml:"first_admin_email"`
	FirstAdminPassword string `yaml:"first_admin_password"`
}

var AppConfig *Config

// LoadConfig загружает конфигурацию.
// При наличии DATABASE_URL берет всё из переменных окружения (режим тестов/CI),
// иначе читает config/config.yaml.
func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		AppConfig = &cfg
		return
	}

	log.Println("Загрузка конфигурации из переменных окружения (режим теста)")

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60
	cfg.JWT.RefreshTTLDays = 30
	cfg.FrontendURL = "https://rupeestream.test"

	cfg.Email.SMTPHost = "smtp.test.com"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "test@rupeestream.in"
	cfg.Email.FromName = "RupeeStream"

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/api/v1/files"

	cfg.Upload.MaxSize = 5 * 1024 * 1024 // 5MB
	cfg.Upload.AllowedTypes = []string{"image/jpeg", "image/png", "image/webp"}

	cfg.Gateway.MerchantLogin = "rupeestream_test"
	cfg.Gateway.Password1 = "test_password_1"
	cfg.Gateway.Password2 = "test_password_2"
	cfg.Gateway.BaseURL = "https://gateway.test/pay"

	AppConfig = &cfg
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
