package e2e

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestLoginFlow(t *testing.T) {
	ts := NewTestServer(t)
	registerAndVerify(t, ts, "alice", "alice@example.com", "secret1")

	status, body := ts.PostJSON(t, "/login", `{"identifier":"alice","password":"secret1"}`)
	if status != http.StatusOK {
		t.Fatalf("login: got %d, body %v", status, body)
	}
	verifyID := dataField(t, body, "verifyId")
	code := ts.LastCode(t, "alice@example.com")

	status, _ = ts.PostJSON(t, "/verify/"+verifyID, fmt.Sprintf(`{"otp":%q}`, code))
	if status != http.StatusCreated {
		t.Fatalf("verify: got %d", status)
	}

	status, body = ts.Get(t, "/auth/me")
	if status != http.StatusOK {
		t.Fatalf("me: got %d, body %v", status, body)
	}
	if got := dataField(t, body, "email"); got != "alice@example.com" {
		t.Fatalf("profile email: got %q", got)
	}
}

func TestLoginByEmailIdentifier(t *testing.T) {
	ts := NewTestServer(t)
	registerAndVerify(t, ts, "alice", "alice@example.com", "secret1")

	status, _ := ts.PostJSON(t, "/login", `{"identifier":"alice@example.com","password":"secret1"}`)
	if status != http.StatusOK {
		t.Fatalf("login by email: got %d", status)
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	ts := NewTestServer(t)
	registerAndVerify(t, ts, "alice", "alice@example.com", "secret1")

	statusKnown, bodyKnown := ts.PostJSON(t, "/login", `{"identifier":"alice","password":"wrong"}`)
	statusUnknown, bodyUnknown := ts.PostJSON(t, "/login", `{"identifier":"nobody","password":"wrong"}`)

	if statusKnown != http.StatusUnauthorized || statusUnknown != http.StatusUnauthorized {
		t.Fatalf("got %d and %d, want both 401", statusKnown, statusUnknown)
	}
	if bodyKnown["error"] != bodyUnknown["error"] {
		t.Fatalf("responses distinguish unknown users: %v vs %v", bodyKnown, bodyUnknown)
	}
}

func TestLoginRateLimit(t *testing.T) {
	ts := NewTestServer(t)
	registerAndVerify(t, ts, "alice", "alice@example.com", "secret1")

	// Start from a clean window; setup consumed attempts of its own
	ts.Redis.FastForward(31 * time.Second)

	for i := 0; i < 5; i++ {
		status, _ := ts.PostJSON(t, "/login", `{"identifier":"alice","password":"wrong"}`)
		if status != http.StatusUnauthorized {
			t.Fatalf("attempt %d: got %d, want 401", i+1, status)
		}
	}

	status, _ := ts.PostJSON(t, "/login", `{"identifier":"alice","password":"wrong"}`)
	if status != http.StatusTooManyRequests {
		t.Fatalf("attempt 6: got %d, want 429", status)
	}

	// Even the right password is rejected while blocked
	status, _ = ts.PostJSON(t, "/login", `{"identifier":"alice","password":"secret1"}`)
	if status != http.StatusTooManyRequests {
		t.Fatalf("blocked window: got %d, want 429", status)
	}
}

func TestOTPEmailRateLimit(t *testing.T) {
	ts := NewTestServer(t)
	registerAndVerify(t, ts, "alice", "alice@example.com", "secret1")

	// Registration already delivered one code; a second login exhausts the
	// per-recipient budget
	status, _ := ts.PostJSON(t, "/login", `{"identifier":"alice","password":"secret1"}`)
	if status != http.StatusOK {
		t.Fatalf("first login: got %d", status)
	}

	status, _ = ts.PostJSON(t, "/login", `{"identifier":"alice","password":"secret1"}`)
	if status != http.StatusTooManyRequests {
		t.Fatalf("second login inside the window: got %d, want 429", status)
	}
}

func TestOTPVerifyRateLimit(t *testing.T) {
	ts := NewTestServer(t)

	status, body := ts.PostJSON(t, "/register",
		`{"username":"alice","email":"alice@example.com","password":"secret1"}`)
	if status != http.StatusCreated {
		t.Fatalf("register: got %d", status)
	}
	verifyID := dataField(t, body, "verifyId")

	for i := 0; i < 5; i++ {
		status, _ := ts.PostJSON(t, "/verify/"+verifyID, `{"otp":"000000"}`)
		if status != http.StatusUnauthorized {
			t.Fatalf("guess %d: got %d, want 401", i+1, status)
		}
	}

	status, _ = ts.PostJSON(t, "/verify/"+verifyID, `{"otp":"000000"}`)
	if status != http.StatusTooManyRequests {
		t.Fatalf("guess 6: got %d, want 429", status)
	}
}
