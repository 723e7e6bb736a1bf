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

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		TemplatesDir string `yaml:"templates_dir"`
	} `yaml:"email"`

	Paytm struct {
		MerchantID   string `yaml:"merchant_id"`
		MerchantKey  string `yaml:"merchant_key"`
		Website      string `yaml:"website"`
		ChannelID    string `yaml:"channel_id"`
		IndustryType string `yaml:"industry_type"`
		BaseURL      string `yaml:"base_url"`
	} `yaml:"paytm"`

	Frontend struct {
		BaseURL string `yaml:"base_url"` // public site, hosts the result pages
	} `yaml:"frontend"`

	Callback struct {
		BaseURL string `yaml:"base_url"` // externally reachable base for the gateway callback
	} `yaml:"callback"`

	Contact struct {
		InboxEmail string `yaml:"inbox_email"` // operations inbox for contact + donation notices
	} `yaml:"contact"`
}

var AppConfig *Config

// LoadConfig fills AppConfig from the environment when DATABASE_URL is set,
// otherwise from config.yaml (CONFIG_PATH overrides the default location).
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

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))

	cfg.Email.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.Email.SMTPPort, _ = strconv.Atoi(os.Getenv("SMTP_PORT"))
	cfg.Email.SMTPUsername = os.Getenv("SMTP_USER")
	cfg.Email.SMTPPassword = os.Getenv("SMTP_PASS")
	cfg.Email.FromEmail = os.Getenv("SMTP_FROM")
	cfg.Email.FromName = os.Getenv("SMTP_FROM_NAME")

	cfg.Paytm.MerchantID = os.Getenv("PAYTM_MID")
	cfg.Paytm.MerchantKey = os.Getenv("PAYTM_MKEY")
	cfg.Paytm.Website = os.Getenv("PAYTM_WEBSITE")
	cfg.Paytm.ChannelID = os.Getenv("PAYTM_CHANNEL_ID")
	cfg.Paytm.IndustryType = os.Getenv("PAYTM_INDUSTRY_TYPE")
	cfg.Paytm.BaseURL = os.Getenv("PAYTM_BASE_URL")

	cfg.Frontend.BaseURL = os.Getenv("FRONTEND_URL")
	cfg.Callback.BaseURL = os.Getenv("CALLBACK_BASE_URL")
	cfg.Contact.InboxEmail = os.Getenv("CONTACT_INBOX")

	applyDefaults(&cfg)
	AppConfig = &cfg
}

// applyDefaults fills the gateway constants the hosted checkout expects.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 4000
	}
	if cfg.Paytm.Website == "" {
		cfg.Paytm.Website = "DEFAULT"
	}
	if cfg.Paytm.ChannelID == "" {
		cfg.Paytm.ChannelID = "WEB"
	}
	if cfg.Paytm.IndustryType == "" {
		cfg.Paytm.IndustryType = "ECommerce"
	}
	if cfg.Paytm.BaseURL == "" {
		cfg.Paytm.BaseURL = "https://securegw.paytm.in/theia/processTransaction"
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
