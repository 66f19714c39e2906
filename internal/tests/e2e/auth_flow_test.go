package e2e

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

func registerAndVerify(t *testing.T, ts *TestServer, username, email, password string) {
	t.Helper()

	status, body := ts.PostJSON(t, "/register", fmt.Sprintf(
		`{"username":%q,"email":%q,"password":%q}`, username, email, password))
	if status != http.StatusCreated {
		t.Fatalf("register: got %d, body %v", status, body)
	}

	verifyID := dataField(t, body, "verifyId")
	code := ts.LastCode(t, email)

	status, body = ts.PostJSON(t, "/verify/"+verifyID, fmt.Sprintf(`{"otp":%q}`, code))
	if status != http.StatusCreated {
		t.Fatalf("verify: got %d, body %v", status, body)
	}
}

func TestFullRegistrationFlow(t *testing.T) {
	ts := NewTestServer(t)

	status, body := ts.PostJSON(t, "/register",
		`{"username":"alice","email":"alice@example.com","password":"secret1"}`)
	if status != http.StatusCreated {
		t.Fatalf("register: got %d, body %v", status, body)
	}
	verifyID := dataField(t, body, "verifyId")
	if email := dataField(t, body, "email"); email != "alice@example.com" {
		t.Fatalf("challenge email: got %q", email)
	}

	// The code is never in the response, only in the email
	code := ts.LastCode(t, "alice@example.com")
	if len(code) != 6 {
		t.Fatalf("OTP length: got %q", code)
	}

	// A wrong guess does not burn the session
	status, _ = ts.PostJSON(t, "/verify/"+verifyID, `{"otp":"000000"}`)
	if status != http.StatusUnauthorized {
		t.Fatalf("wrong code: got %d", status)
	}

	status, _ = ts.PostJSON(t, "/verify/"+verifyID, fmt.Sprintf(`{"otp":%q}`, code))
	if status != http.StatusCreated {
		t.Fatalf("verify: got %d", status)
	}

	status, body = ts.Get(t, "/auth/me")
	if status != http.StatusOK {
		t.Fatalf("me: got %d, body %v", status, body)
	}
	if got := dataField(t, body, "username"); got != "alice" {
		t.Fatalf("profile username: got %q", got)
	}
}

func TestVerificationSessionIsSingleUse(t *testing.T) {
	ts := NewTestServer(t)

	status, body := ts.PostJSON(t, "/register",
		`{"username":"alice","email":"alice@example.com","password":"secret1"}`)
	if status != http.StatusCreated {
		t.Fatalf("register: got %d", status)
	}
	verifyID := dataField(t, body, "verifyId")
	code := ts.LastCode(t, "alice@example.com")

	if status, _ = ts.PostJSON(t, "/verify/"+verifyID, fmt.Sprintf(`{"otp":%q}`, code)); status != http.StatusCreated {
		t.Fatalf("first redemption: got %d", status)
	}

	// Replaying the same session and code must fail
	if status, _ = ts.PostJSON(t, "/verify/"+verifyID, fmt.Sprintf(`{"otp":%q}`, code)); status != http.StatusUnauthorized {
		t.Fatalf("replay: got %d", status)
	}
}

func TestVerificationSessionExpires(t *testing.T) {
	ts := NewTestServer(t)

	status, body := ts.PostJSON(t, "/register",
		`{"username":"alice","email":"alice@example.com","password":"secret1"}`)
	if status != http.StatusCreated {
		t.Fatalf("register: got %d", status)
	}
	verifyID := dataField(t, body, "verifyId")
	code := ts.LastCode(t, "alice@example.com")

	ts.Redis.FastForward(16 * time.Minute)

	if status, _ = ts.PostJSON(t, "/verify/"+verifyID, fmt.Sprintf(`{"otp":%q}`, code)); status != http.StatusUnauthorized {
		t.Fatalf("expired session: got %d", status)
	}
}

func TestDuplicateRegistration(t *testing.T) {
	ts := NewTestServer(t)
	registerAndVerify(t, ts, "alice", "alice@example.com", "secret1")

	status, _ := ts.PostJSON(t, "/register",
		`{"username":"alice","email":"other@example.com","password":"secret1"}`)
	if status != http.StatusConflict {
		t.Fatalf("duplicate username: got %d", status)
	}

	status, _ = ts.PostJSON(t, "/register",
		`{"username":"someone","email":"alice@example.com","password":"secret1"}`)
	if status != http.StatusConflict {
		t.Fatalf("duplicate email: got %d", status)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	ts := NewTestServer(t)
	registerAndVerify(t, ts, "alice", "alice@example.com", "secret1")

	if status, _ := ts.Get(t, "/auth/me"); status != http.StatusOK {
		t.Fatalf("me before logout: got %d", status)
	}

	if status, _ := ts.PostJSON(t, "/auth/logout", ""); status != http.StatusOK {
		t.Fatalf("logout: got %d", status)
	}

	if status, _ := ts.Get(t, "/auth/me"); status != http.StatusUnauthorized {
		t.Fatalf("me after logout: got %d", status)
	}
}

func TestProtectedRouteWithoutSession(t *testing.T) {
	ts := NewTestServer(t)

	if status, _ := ts.Get(t, "/auth/me"); status != http.StatusUnauthorized {
		t.Fatalf("me without cookies: got %d", status)
	}
}
