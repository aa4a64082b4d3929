package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

// AppConfig is the top level application configuration, loaded from a YAML
// file and optionally overridden by GAMESTORE_* environment variables.
type AppConfig struct {
	System    SysConfig    `yaml:"system"`
	Web       WebConfig    `yaml:"web"`
	Database  DBConfig     `yaml:"database"`
	Logger    LogConfig    `yaml:"logger"`
	Smtp      SmtpConfig   `yaml:"smtp"`
	ImageHost ImageConfig  `yaml:"imagehost"`
	Checkout  CheckoutConf `yaml:"checkout"`
}

type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

type WebConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	JwtSecret string `yaml:"jwt_secret"`
	// TokenTTLHours controls how long an issued session token stays valid.
	TokenTTLHours int `yaml:"token_ttl_hours"`
}

// DBConfig selects the storage backend. Type "postgres" uses a document style
// schema on PostgreSQL, type "bolt" uses an embedded bbolt file under workdir
// so the store runs without a database server.
type DBConfig struct {
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
	Debug    bool   `yaml:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

type SmtpConfig struct {
	Enable   bool   `yaml:"enable"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Sender   string `yaml:"sender"`
}

// ImageConfig configures the Cloudinary style image host collaborator.
type ImageConfig struct {
	CloudName    string `yaml:"cloud_name"`
	UploadPreset string `yaml:"upload_preset"`
}

type CheckoutConf struct {
	// ReceiptEnable toggles the post checkout receipt email side effect.
	ReceiptEnable bool `yaml:"receipt_enable"`
	// RankingTTLSeconds bounds the popularity ranking cache age.
	RankingTTLSeconds int `yaml:"ranking_ttl_seconds"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "gamestore",
		Location: "Asia/Manila",
		Workdir:  "/var/gamestore",
		Debug:    true,
	},
	Web: WebConfig{
		Host:          "0.0.0.0",
		Port:          1816,
		JwtSecret:     "9b6de5cc-gs00-11ee-be56-0242ac120002",
		TokenTTLHours: 24,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "gamestore",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/gamestore/gamestore.log",
	},
	Smtp: SmtpConfig{
		Enable: false,
		Host:   "smtp.gmail.com",
		Port:   587,
		Sender: "noreply@fatboy.games",
	},
	ImageHost: ImageConfig{
		CloudName:    "dbfgqoelw",
		UploadPreset: "fatboy_uploads",
	},
	Checkout: CheckoutConf{
		ReceiptEnable:     true,
		RankingTTLSeconds: 300,
	},
}

func setEnvValue(name string, val *string) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = evalue
	}
}

func setEnvIntValue(name string, val *int) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = cast.ToInt(evalue)
	}
}

func setEnvBoolValue(name string, val *bool) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = cast.ToBool(evalue)
	}
}

// LoadConfig reads the YAML configuration file, falling back to defaults when
// the file is absent, then applies environment overrides.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig

	if cfile == "" {
		cfile = "gamestore.yml"
	}
	if data, err := os.ReadFile(cfile); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			panic(err)
		}
	}

	setEnvValue("GAMESTORE_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("GAMESTORE_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("GAMESTORE_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("GAMESTORE_WEB_PORT", &cfg.Web.Port)
	setEnvValue("GAMESTORE_WEB_JWT_SECRET", &cfg.Web.JwtSecret)

	setEnvValue("GAMESTORE_DB_TYPE", &cfg.Database.Type)
	setEnvValue("GAMESTORE_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("GAMESTORE_DB_PORT", &cfg.Database.Port)
	setEnvValue("GAMESTORE_DB_NAME", &cfg.Database.Name)
	setEnvValue("GAMESTORE_DB_USER", &cfg.Database.User)
	setEnvValue("GAMESTORE_DB_PWD", &cfg.Database.Passwd)

	setEnvValue("GAMESTORE_SMTP_HOST", &cfg.Smtp.Host)
	setEnvIntValue("GAMESTORE_SMTP_PORT", &cfg.Smtp.Port)
	setEnvValue("GAMESTORE_SMTP_USERNAME", &cfg.Smtp.Username)
	setEnvValue("GAMESTORE_SMTP_PASSWORD", &cfg.Smtp.Password)

	return cfg
}

// InitDirs makes sure the working directory layout exists before the logger
// or the bolt backend try to create files in it.
func (c *AppConfig) InitDirs() {
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "logs"), 0o755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "data"), 0o755)
}
