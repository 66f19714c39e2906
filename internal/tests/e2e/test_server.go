package e2e

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	httpx "github.com/you/tripauth/internal/http"
	"github.com/you/tripauth/internal/http/cookies"
	"github.com/you/tripauth/internal/http/handlers"
	"github.com/you/tripauth/internal/http/middleware"
	"github.com/you/tripauth/internal/infrastructure/audit"
	"github.com/you/tripauth/internal/infrastructure/auth"
	"github.com/you/tripauth/internal/infrastructure/ratelimit"
	"github.com/you/tripauth/internal/infrastructure/repositories"
	"github.com/you/tripauth/internal/mocks"
	"github.com/you/tripauth/internal/services"
)

// TestServer runs the full HTTP stack against in-memory backends:
// sqlite for the user store, miniredis for sessions, caches, and
// limiter counters. Only email delivery is substituted, so tests can
// read the codes that would have been sent.
type TestServer struct {
	Server  *httptest.Server
	Client  *http.Client
	Redis   *miniredis.Miniredis
	Mailbox *mocks.MockNotificationService
}

func testLimits() ratelimit.Config {
	return ratelimit.Config{Points: 5, Duration: 30 * time.Second, BlockDuration: 30 * time.Second}
}

// NewTestServer builds the stack the way the production container does,
// with a fresh store per test.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&repositories.DBUser{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	logger := zap.NewNop()

	userRepo := repositories.NewCachedUserRepository(
		repositories.NewUserRepository(db), rdb, time.Hour)
	verificationRepo := repositories.NewVerificationRepository(rdb)

	loginLimiter := ratelimit.NewFixedWindowLimiter(rdb, "login", testLimits())
	emailLimiter := ratelimit.NewFixedWindowLimiter(rdb, "otpemail", ratelimit.Config{
		Points: 2, Duration: time.Minute, BlockDuration: time.Minute,
	})
	verifyLimiter := ratelimit.NewFixedWindowLimiter(rdb, "otpverify", testLimits())

	passwordSvc := auth.NewPasswordService(4) // low cost keeps the suite fast
	tokenSvc := auth.NewJWTService("e2e-secret", "tripauth-e2e", time.Hour, 7*24*time.Hour)
	mailbox := mocks.NewMockNotificationService()
	otpSvc := services.NewOTPService(verificationRepo, passwordSvc, 15*time.Minute)

	authSvc := services.NewAuthService(
		userRepo, passwordSvc, tokenSvc, otpSvc, mailbox,
		loginLimiter, emailLimiter, verifyLimiter,
		audit.NewZapAuditLogger(logger),
	)

	cw := cookies.NewWriter(false, "", time.Hour, 7*24*time.Hour)
	ah := handlers.NewAuthHandlers(authSvc, cw, logger)
	authmw := middleware.NewAuthMW(tokenSvc, authSvc, cw, logger)

	server := httptest.NewServer(httpx.BuildRouter(ah, authmw))
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}

	return &TestServer{
		Server:  server,
		Client:  &http.Client{Jar: jar, Timeout: 10 * time.Second},
		Redis:   mr,
		Mailbox: mailbox,
	}
}

// PostJSON sends a JSON body and decodes the response envelope
func (ts *TestServer) PostJSON(t *testing.T, path, body string) (int, map[string]any) {
	t.Helper()
	resp, err := ts.Client.Post(ts.Server.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	return resp.StatusCode, decodeBody(t, resp.Body)
}

// Get performs a GET with the client's cookie jar attached
func (ts *TestServer) Get(t *testing.T, path string) (int, map[string]any) {
	t.Helper()
	resp, err := ts.Client.Get(ts.Server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	return resp.StatusCode, decodeBody(t, resp.Body)
}

// LastCode returns the most recent OTP delivered for the address
func (ts *TestServer) LastCode(t *testing.T, email string) string {
	t.Helper()
	sent := ts.Mailbox.Sent()
	for i := len(sent) - 1; i >= 0; i-- {
		if sent[i].To == email {
			return sent[i].Code
		}
	}
	t.Fatalf("no OTP delivered to %s", email)
	return ""
}

func decodeBody(t *testing.T, r io.Reader) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if len(raw) == 0 {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode body %q: %v", raw, err)
	}
	return out
}

func dataField(t *testing.T, body map[string]any, key string) string {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("response has no data envelope: %v", body)
	}
	val, ok := data[key].(string)
	if !ok {
		t.Fatalf("data.%s missing or not a string: %v", key, data)
	}
	return val
}
