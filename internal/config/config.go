package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	Issuer     string `yaml:"issuer"`
	AccessTTL  string `yaml:"access_ttl"`
	RefreshTTL string `yaml:"refresh_ttl"`
}

type OTPConfig struct {
	TTL      string `yaml:"ttl"`
	CacheTTL string `yaml:"user_cache_ttl"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type LimiterConfig struct {
	Points        int    `yaml:"points"`
	Duration      string `yaml:"duration"`
	BlockDuration string `yaml:"block_duration"`
}

type LimitersConfig struct {
	Login     LimiterConfig `yaml:"login"`
	OTPEmail  LimiterConfig `yaml:"otp_email"`
	OTPVerify LimiterConfig `yaml:"otp_verify"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	OTP      OTPConfig      `yaml:"otp"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Limiters LimitersConfig `yaml:"limiters"`
}

// Limiter holds a resolved fixed-window limiter configuration
type Limiter struct {
	Points        int
	Duration      time.Duration
	BlockDuration time.Duration
}

type Config struct {
	Port           string
	GinMode        string
	DSN            string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	JWTSecret      string
	JWTIssuer      string
	AccessTTL      time.Duration
	RefreshTTL     time.Duration
	OTPTTL         time.Duration
	UserCacheTTL   time.Duration
	SMTPHost       string
	SMTPPort       int
	SMTPUsername   string
	SMTPPassword   string
	SMTPFrom       string
	LoginLimiter   Limiter
	EmailLimiter   Limiter
	VerifyLimiter  Limiter
	CookieSecure   bool
	CookieDomain   string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads config/config.yml (path overridable via TRIPAUTH_CONFIG) and
// resolves the handful of secrets that may come from the environment instead.
func Load() (*Config, error) {
	path := env("TRIPAUTH_CONFIG", "config/config.yml")
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	accTTL, err := time.ParseDuration(configFile.JWT.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}

	refTTL, err := time.ParseDuration(configFile.JWT.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT refresh TTL: %w", err)
	}

	otpTTL, err := time.ParseDuration(configFile.OTP.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP TTL: %w", err)
	}

	cacheTTL, err := time.ParseDuration(configFile.OTP.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid user cache TTL: %w", err)
	}

	loginLim, err := parseLimiter("login", configFile.Limiters.Login)
	if err != nil {
		return nil, err
	}
	emailLim, err := parseLimiter("otp_email", configFile.Limiters.OTPEmail)
	if err != nil {
		return nil, err
	}
	verifyLim, err := parseLimiter("otp_verify", configFile.Limiters.OTPVerify)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:          fmt.Sprintf("%d", configFile.App.Port),
		GinMode:       configFile.App.GinMode,
		DSN:           env("DATABASE_DSN", configFile.Database.DSN),
		RedisAddr:     env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword: env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:       configFile.Redis.DB,
		JWTSecret:     env("JWT_SECRET", configFile.JWT.Secret),
		JWTIssuer:     configFile.JWT.Issuer,
		AccessTTL:     accTTL,
		RefreshTTL:    refTTL,
		OTPTTL:        otpTTL,
		UserCacheTTL:  cacheTTL,
		SMTPHost:      env("SMTP_HOST", configFile.SMTP.Host),
		SMTPPort:      atoi(env("SMTP_PORT", strconv.Itoa(configFile.SMTP.Port))),
		SMTPUsername:  env("SMTP_USERNAME", configFile.SMTP.Username),
		SMTPPassword:  env("SMTP_PASSWORD", configFile.SMTP.Password),
		SMTPFrom:      env("SMTP_FROM", configFile.SMTP.From),
		LoginLimiter:  loginLim,
		EmailLimiter:  emailLim,
		VerifyLimiter: verifyLim,
		CookieSecure:  env("COOKIE_SECURE", "true") == "true",
		CookieDomain:  env("COOKIE_DOMAIN", ""),
	}, nil
}

func parseLimiter(name string, lc LimiterConfig) (Limiter, error) {
	dur, err := time.ParseDuration(lc.Duration)
	if err != nil {
		return Limiter{}, fmt.Errorf("invalid %s limiter duration: %w", name, err)
	}
	block, err := time.ParseDuration(lc.BlockDuration)
	if err != nil {
		return Limiter{}, fmt.Errorf("invalid %s limiter block duration: %w", name, err)
	}
	if lc.Points <= 0 {
		return Limiter{}, fmt.Errorf("%s limiter points must be positive", name)
	}
	return Limiter{Points: lc.Points, Duration: dur, BlockDuration: block}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}

func atoi(s string) int {
	var i int
	fmt.Sscanf(s, "%d", &i)
	return i
}
