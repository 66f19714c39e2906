package app

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/you/tripauth/domain"
	"github.com/you/tripauth/internal/config"
	"github.com/you/tripauth/internal/http/cookies"
	"github.com/you/tripauth/internal/infrastructure/audit"
	"github.com/you/tripauth/internal/infrastructure/auth"
	"github.com/you/tripauth/internal/infrastructure/database"
	"github.com/you/tripauth/internal/infrastructure/notifications"
	"github.com/you/tripauth/internal/infrastructure/ratelimit"
	"github.com/you/tripauth/internal/infrastructure/repositories"
	"github.com/you/tripauth/internal/services"
)

const bcryptCost = 12

// Container holds all dependencies. Everything is constructed here at
// process start and shut down through Close; nothing is an ambient singleton,
// so tests can substitute fakes at any seam.
type Container struct {
	// Config
	Config *config.Config
	Logger *zap.Logger

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client

	// Repositories
	UserRepo         domain.UserRepository
	VerificationRepo domain.VerificationRepository

	// Limiters
	LoginLimiter  domain.RateLimiter
	EmailLimiter  domain.RateLimiter
	VerifyLimiter domain.RateLimiter

	// Services
	PasswordSvc domain.PasswordService
	TokenSvc    domain.TokenService
	NotifySvc   domain.NotificationService
	OTPSvc      domain.OTPService
	AuthSvc     domain.AuthService
	Audit       domain.AuditLogger

	// HTTP
	Cookies cookies.Writer
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	if err := c.initDatabase(); err != nil {
		return nil, err
	}
	if err := c.initRedis(); err != nil {
		return nil, err
	}

	c.initRepositories()
	c.initLimiters()
	c.initServices()

	return c, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	c.DB = db
	return nil
}

func (c *Container) initRedis() error {
	rdb := database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	if err := rdb.Ping(context.Background()); err != nil {
		return err
	}
	c.RedisClient = rdb.Client
	return nil
}

func (c *Container) initRepositories() {
	base := repositories.NewUserRepository(c.DB)
	c.UserRepo = repositories.NewCachedUserRepository(base, c.RedisClient, c.Config.UserCacheTTL)
	c.VerificationRepo = repositories.NewVerificationRepository(c.RedisClient)
}

func (c *Container) initLimiters() {
	c.LoginLimiter = ratelimit.NewFixedWindowLimiter(c.RedisClient, "login", ratelimit.Config{
		Points:        c.Config.LoginLimiter.Points,
		Duration:      c.Config.LoginLimiter.Duration,
		BlockDuration: c.Config.LoginLimiter.BlockDuration,
	})
	c.EmailLimiter = ratelimit.NewFixedWindowLimiter(c.RedisClient, "otpemail", ratelimit.Config{
		Points:        c.Config.EmailLimiter.Points,
		Duration:      c.Config.EmailLimiter.Duration,
		BlockDuration: c.Config.EmailLimiter.BlockDuration,
	})
	c.VerifyLimiter = ratelimit.NewFixedWindowLimiter(c.RedisClient, "otpverify", ratelimit.Config{
		Points:        c.Config.VerifyLimiter.Points,
		Duration:      c.Config.VerifyLimiter.Duration,
		BlockDuration: c.Config.VerifyLimiter.BlockDuration,
	})
}

func (c *Container) initServices() {
	c.PasswordSvc = auth.NewPasswordService(bcryptCost)
	c.TokenSvc = auth.NewJWTService(
		c.Config.JWTSecret,
		c.Config.JWTIssuer,
		c.Config.AccessTTL,
		c.Config.RefreshTTL,
	)
	c.NotifySvc = notifications.NewSMTPService(
		c.Config.SMTPHost,
		c.Config.SMTPPort,
		c.Config.SMTPUsername,
		c.Config.SMTPPassword,
		c.Config.SMTPFrom,
		c.Logger,
	)
	c.Audit = audit.NewZapAuditLogger(c.Logger)

	c.OTPSvc = services.NewOTPService(c.VerificationRepo, c.PasswordSvc, c.Config.OTPTTL)

	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.PasswordSvc,
		c.TokenSvc,
		c.OTPSvc,
		c.NotifySvc,
		c.LoginLimiter,
		c.EmailLimiter,
		c.VerifyLimiter,
		c.Audit,
	)

	c.Cookies = cookies.NewWriter(
		c.Config.CookieSecure,
		c.Config.CookieDomain,
		c.Config.AccessTTL,
		c.Config.RefreshTTL,
	)
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
