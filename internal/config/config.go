package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/caarlos0/env"
)

const (
	DefaultServerAddr   = ":8080"
	DefaultBucket       = "oss-buckets"
	DefaultRegion       = "us-east-1"
	DefaultURLExpires   = 3600
	DefaultConcurrency  = 5
	DefaultFetchTimeout = 30
	DefaultMaxUpload    = 100 << 20
	DefaultPprofAddr    = "localhost:6060"
)

// Config содержит конфигурацию приложения
type Config struct {
	ServerAddr    string `json:"server_address" env:"SERVER_ADDRESS"`
	Endpoint      string `json:"endpoint" env:"OSS_ENDPOINT"`
	AccessKey     string `json:"access_key" env:"OSS_ACCESS_KEY"`
	SecretKey     string `json:"secret_key" env:"OSS_SECRET_KEY"`
	Bucket        string `json:"bucket" env:"OSS_BUCKET"`
	Region        string `json:"region" env:"OSS_REGION"`
	URLExpires    int    `json:"url_expires" env:"URL_EXPIRES"`
	Concurrency   int    `json:"concurrency" env:"CONCURRENCY"`
	FetchTimeout  int    `json:"fetch_timeout" env:"FETCH_TIMEOUT"`
	MaxUploadSize int64  `json:"max_upload_size" env:"MAX_UPLOAD_SIZE"`
	AuthPassword  string `json:"auth_password" env:"AUTH_PASSWORD"`
	SessionKey    string `json:"session_key" env:"SESSION_KEY"`
	AuditFile     string `json:"audit_file" env:"AUDIT_FILE"`
	AuditURL      string `json:"audit_url" env:"AUDIT_URL"`
	PprofAddr     string `json:"pprof_address" env:"PPROF_ADDRESS"`
}

func NewConfig() *Config {
	c := &Config{
		ServerAddr:    DefaultServerAddr,
		Bucket:        DefaultBucket,
		Region:        DefaultRegion,
		URLExpires:    DefaultURLExpires,
		Concurrency:   DefaultConcurrency,
		FetchTimeout:  DefaultFetchTimeout,
		MaxUploadSize: DefaultMaxUpload,
		PprofAddr:     DefaultPprofAddr,
	}

	configFile := getConfigPath()
	c.loadFromFile(configFile)
	c.getArgsFromEnv()
	c.getArgsFromCli()

	return c
}

func getConfigPath() string {
	for i, arg := range os.Args {
		if (arg == "-c" || arg == "-config") && i+1 < len(os.Args) {
			return os.Args[i+1]
		}
	}
	return os.Getenv("CONFIG")
}

func (c *Config) loadFromFile(filename string) {
	if filename == "" {
		return
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return
	}
	json.Unmarshal(data, c)
}

func (c *Config) getArgsFromCli() {
	flag.StringVar(&c.ServerAddr, "a", c.ServerAddr, "server host")
	flag.StringVar(&c.Endpoint, "e", c.Endpoint, "object storage endpoint")
	flag.StringVar(&c.Bucket, "b", c.Bucket, "object storage bucket")
	flag.StringVar(&c.Region, "r", c.Region, "object storage region")
	flag.IntVar(&c.URLExpires, "x", c.URLExpires, "presigned URL lifetime, seconds")
	flag.IntVar(&c.Concurrency, "w", c.Concurrency, "URL conversion workers")
	flag.IntVar(&c.FetchTimeout, "t", c.FetchTimeout, "download timeout, seconds")
	flag.StringVar(&c.AuthPassword, "p", c.AuthPassword, "login password")
	flag.StringVar(&c.SessionKey, "k", c.SessionKey, "session signing key")
	flag.StringVar(&c.AuditFile, "audit-file", c.AuditFile, "audit file path")
	flag.StringVar(&c.AuditURL, "audit-url", c.AuditURL, "audit server URL")
	flag.StringVar(&c.PprofAddr, "pprof", c.PprofAddr, "pprof server address")
	flag.String("c", "", "config file path")
	flag.String("config", "", "config file path")
	flag.Parse()
}

func (c *Config) getArgsFromEnv() {
	if err := env.Parse(c); err != nil {
		log.Fatal(err)
	}
}

func (c Config) GetAddress() string {
	return c.ServerAddr
}

func (c Config) GetEndpoint() string {
	return c.Endpoint
}

func (c Config) GetAuthPassword() string {
	return c.AuthPassword
}

func (c Config) GetSessionKey() string {
	return c.SessionKey
}

func (c Config) GetAuditFile() string {
	return c.AuditFile
}

func (c Config) GetAuditURL() string {
	return c.AuditURL
}
