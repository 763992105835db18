package config

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env           string
	SecretKey     string
	PostsPerPage  int
	Admins        []string
	HTTPServer    HTTPServer
	GRPCServer    GRPCServer
	Database      Database
	Mail          Mail
	Session       Session
	PasswordReset PasswordReset
	Prometheus    Prometheus
	Redis         Redis
}

type HTTPServer struct {
	Address         string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	// ExternalURL is the scheme and host users reach the site on. Links in
	// outgoing mail are built from it.
	ExternalURL string
}

type GRPCServer struct {
	Address        string
	Port           int
	HealthInterval time.Duration
}

type Database struct {
	// Driver is either "postgres" or "sqlite".
	Driver      string
	URL         string
	AutoMigrate bool
	MaxConns    int32
}

type Mail struct {
	Server   string
	Port     int
	UseTLS   bool
	UseSSL   bool
	Username string
	Password string
	Sender   string
}

type Session struct {
	CookieName   string
	CookieSecure bool
	TTL          time.Duration
	RememberTTL  time.Duration
}

type PasswordReset struct {
	TTL time.Duration
}

type Prometheus struct {
	Address string
	Port    int
}

type Redis struct {
	Enabled  bool
	Address  string
	Port     int
	Password string
	DB       int
	PoolSize int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("secret_key", "you-will-never-guess")
	v.SetDefault("posts_per_page", 4)
	v.SetDefault("admins", []string{})

	v.SetDefault("http_server.address", "0.0.0.0")
	v.SetDefault("http_server.port", 5000)
	v.SetDefault("http_server.read_timeout", 10*time.Second)
	v.SetDefault("http_server.write_timeout", 15*time.Second)
	v.SetDefault("http_server.shutdown_timeout", 30*time.Second)
	v.SetDefault("http_server.cors_origins", []string{"http://localhost:5000"})
	v.SetDefault("http_server.external_url", "http://localhost:5000")

	v.SetDefault("grpc_server.address", "0.0.0.0")
	v.SetDefault("grpc_server.port", 50055)
	v.SetDefault("grpc_server.health_interval", 15*time.Second)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.url", "file:app.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.max_conns", 10)

	v.SetDefault("mail.server", "")
	v.SetDefault("mail.port", 465)
	v.SetDefault("mail.use_tls", false)
	v.SetDefault("mail.use_ssl", true)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.sender", "")

	v.SetDefault("session.cookie_name", "myblog_session")
	v.SetDefault("session.cookie_secure", false)
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.remember_ttl", 30*24*time.Hour)

	v.SetDefault("password_reset.ttl", 10*time.Minute)

	v.SetDefault("prometheus.address", "0.0.0.0")
	v.SetDefault("prometheus.port", 9105)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
}

// MustLoad reads defaults, an optional ./config/config.yaml, a .env file and
// the process environment, in increasing order of precedence.
func MustLoad() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Error reading .env file: %s", err)
	}

	cfg, err := Load(viper.New(), "./config")
	if err != nil {
		log.Printf("Error reading config file: %s", err)
		os.Exit(1)
	}
	return cfg
}

func Load(v *viper.Viper, paths ...string) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindLegacyEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{
		Env:          v.GetString("env"),
		SecretKey:    v.GetString("secret_key"),
		PostsPerPage: v.GetInt("posts_per_page"),
		Admins:       splitList(v.GetStringSlice("admins")),
		HTTPServer: HTTPServer{
			Address:         v.GetString("http_server.address"),
			Port:            v.GetInt("http_server.port"),
			ReadTimeout:     v.GetDuration("http_server.read_timeout"),
			WriteTimeout:    v.GetDuration("http_server.write_timeout"),
			ShutdownTimeout: v.GetDuration("http_server.shutdown_timeout"),
			CORSOrigins:     splitList(v.GetStringSlice("http_server.cors_origins")),
			ExternalURL:     strings.TrimRight(v.GetString("http_server.external_url"), "/"),
		},
		GRPCServer: GRPCServer{
			Address:        v.GetString("grpc_server.address"),
			Port:           v.GetInt("grpc_server.port"),
			HealthInterval: v.GetDuration("grpc_server.health_interval"),
		},
		Database: Database{
			Driver:      strings.ToLower(v.GetString("database.driver")),
			URL:         v.GetString("database.url"),
			AutoMigrate: v.GetBool("database.auto_migrate"),
			MaxConns:    v.GetInt32("database.max_conns"),
		},
		Mail: Mail{
			Server:   v.GetString("mail.server"),
			Port:     v.GetInt("mail.port"),
			UseTLS:   v.GetBool("mail.use_tls"),
			UseSSL:   v.GetBool("mail.use_ssl"),
			Username: v.GetString("mail.username"),
			Password: v.GetString("mail.password"),
			Sender:   v.GetString("mail.sender"),
		},
		Session: Session{
			CookieName:   v.GetString("session.cookie_name"),
			CookieSecure: v.GetBool("session.cookie_secure"),
			TTL:          v.GetDuration("session.ttl"),
			RememberTTL:  v.GetDuration("session.remember_ttl"),
		},
		PasswordReset: PasswordReset{
			TTL: v.GetDuration("password_reset.ttl"),
		},
		Prometheus: Prometheus{
			Address: v.GetString("prometheus.address"),
			Port:    v.GetInt("prometheus.port"),
		},
		Redis: Redis{
			Enabled:  v.GetBool("redis.enabled"),
			Address:  v.GetString("redis.address"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			PoolSize: v.GetInt("redis.pool_size"),
		},
	}

	if cfg.Mail.Sender == "" {
		cfg.Mail.Sender = cfg.Mail.Username
	}
	if cfg.Mail.Sender == "" && len(cfg.Admins) > 0 {
		cfg.Mail.Sender = cfg.Admins[0]
	}
	if strings.HasPrefix(cfg.Database.URL, "postgres://") || strings.HasPrefix(cfg.Database.URL, "postgresql://") {
		cfg.Database.Driver = "postgres"
	}
	if cfg.PostsPerPage < 1 {
		cfg.PostsPerPage = 4
	}

	return cfg, nil
}

// bindLegacyEnv keeps the password variable name used by earlier deployments.
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("mail.password", "MAIL_PASSWORD", "EMAIL_HOST_PASSWORD")
}

// splitList accepts both YAML lists and comma separated environment values.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
