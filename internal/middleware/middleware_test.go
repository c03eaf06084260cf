package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/crucial707/hci-inventory/internal/models"
	"golang.org/x/time/rate"
)

type fakeParser map[string]models.Session

func (p fakeParser) Parse(token string) (models.Session, error) {
	s, ok := p[token]
	if !ok {
		return models.Session{}, errors.New("bad token")
	}
	return s, nil
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAuthenticate(t *testing.T) {
	parser := fakeParser{"good": {UserID: 3, Username: "user", Role: models.RoleRequester}}
	var got models.Session
	h := Authenticate(parser)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = SessionFrom(r.Context())
	}))

	tests := []struct {
		header string
		want   int
	}{
		{"", http.StatusUnauthorized},
		{"Basic abc", http.StatusUnauthorized},
		{"Bearer nope", http.StatusUnauthorized},
		{"Bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/items", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != tt.want {
			t.Errorf("header %q: got %d, want %d", tt.header, rr.Code, tt.want)
		}
	}
	if got.Username != "user" || got.UserID != 3 {
		t.Errorf("session not stored: %+v", got)
	}
}

func TestRequireCapability(t *testing.T) {
	h := RequireCapability(models.CapIngest)(okHandler)

	tests := []struct {
		name    string
		session *models.Session
		want    int
	}{
		{"no session", nil, http.StatusUnauthorized},
		{"approver", &models.Session{UserID: 2, Role: models.RoleApprover}, http.StatusForbidden},
		{"admin", &models.Session{UserID: 1, Role: models.RoleAdmin}, http.StatusOK},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/inventory/upload", nil)
		if tt.session != nil {
			req = req.WithContext(WithSession(req.Context(), *tt.session))
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != tt.want {
			t.Errorf("%s: got %d, want %d", tt.name, rr.Code, tt.want)
		}
	}
}

func TestRequestLog_SeesInnerSession(t *testing.T) {
	var holder *sessionHolder
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		holder, _ = r.Context().Value(holderKey).(*sessionHolder)
		WithSession(r.Context(), models.Session{Username: "manager"})
		w.WriteHeader(http.StatusCreated)
	})
	rr := httptest.NewRecorder()
	RequestLog(inner).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/requests/pending", nil))

	if rr.Code != http.StatusCreated {
		t.Errorf("status: got %d", rr.Code)
	}
	if holder == nil || holder.username != "manager" {
		t.Errorf("holder not updated: %+v", holder)
	}
}

func TestRateLimiter(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(0.0001), 2)
	h := l.Middleware(okHandler)

	codes := make([]int, 0, 4)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:5000" + string(rune('0'+i))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	other := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	other.RemoteAddr = "10.0.0.2:5000"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, other)
	codes = append(codes, rr.Code)

	want := []int{200, 200, 429, 200}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("request %d: got %d, want %d", i, codes[i], want[i])
		}
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:4444"
	if got := clientIP(req); got != "192.0.2.7" {
		t.Errorf("RemoteAddr: got %q", got)
	}
	req.Header.Set("X-Real-IP", "198.51.100.3")
	if got := clientIP(req); got != "198.51.100.3" {
		t.Errorf("X-Real-IP: got %q", got)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := clientIP(req); got != "203.0.113.9" {
		t.Errorf("X-Forwarded-For: got %q", got)
	}
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"http://localhost:3000"})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/items", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent || rr.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Errorf("preflight: code=%d headers=%v", rr.Code, rr.Header())
	}

	req = httptest.NewRequest(http.MethodGet, "/items", nil)
	req.Header.Set("Origin", "http://evil.example")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("unlisted origin must not be allowed")
	}

	if CORS(nil)(okHandler) == nil {
		t.Error("nil origins should pass through")
	}
}

func TestMaxBytes(t *testing.T) {
	h := MaxBytes(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/requests", strings.NewReader("short")))
	if rr.Code != http.StatusOK {
		t.Errorf("small body: got %d", rr.Code)
	}
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/requests", strings.NewReader("much too long for the limit")))
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("large body: got %d", rr.Code)
	}
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/items", nil))
	if rr.Code != http.StatusInternalServerError || !strings.Contains(rr.Body.String(), "internal server error") {
		t.Errorf("got %d %s", rr.Code, rr.Body.String())
	}
}

func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(true)(okHandler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	for _, h := range []string{"X-Content-Type-Options", "X-Frame-Options", "Strict-Transport-Security", "Cache-Control"} {
		if rr.Header().Get(h) == "" {
			t.Errorf("missing %s", h)
		}
	}
}
