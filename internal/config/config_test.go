package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "SMTP_EMAIL", "SMTP_PASSWORD", "EMAIL_TRANSPORT", "UPLOAD_MAX_BYTES", "SEED_USERS"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port: got %q, want 8080", cfg.Port)
	}
	if cfg.SMTPServer != "smtp.gmail.com" || cfg.SMTPPort != 587 {
		t.Errorf("SMTP defaults: got %s:%d", cfg.SMTPServer, cfg.SMTPPort)
	}
	if cfg.EmailTransport != TransportMock {
		t.Errorf("EmailTransport: got %q, want mock without credentials", cfg.EmailTransport)
	}
	if cfg.UploadMaxBytes != 10<<20 {
		t.Errorf("UploadMaxBytes: got %d", cfg.UploadMaxBytes)
	}
	if cfg.SeedUsers {
		t.Error("SeedUsers should default to false")
	}
}

func TestLoad_TransportSelection(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		sender   string
		want     string
	}{
		{"no sender", "", "", TransportMock},
		{"placeholder sender", "", "dummy@example.com", TransportMock},
		{"real sender", "", "ops@example.org", TransportReal},
		{"explicit mock wins", "mock", "ops@example.org", TransportMock},
		{"explicit real upper", "REAL", "", TransportReal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("EMAIL_TRANSPORT", tt.explicit)
			t.Setenv("SMTP_EMAIL", tt.sender)
			if got := Load().EmailTransport; got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	ok := Config{Env: "dev", JWTSecret: defaultJWTSecret, EmailTransport: TransportMock}
	if err := ok.Validate(); err != nil {
		t.Fatalf("dev config: %v", err)
	}

	prod := ok
	prod.Env = "prod"
	if err := prod.Validate(); err == nil {
		t.Error("expected error for default secret in prod")
	}

	withSMTP := ok
	withSMTP.EmailTransport = TransportReal
	withSMTP.SMTPEmail = "ops@example.org"
	if err := withSMTP.Validate(); err == nil {
		t.Error("expected error for real transport without password")
	}
	withSMTP.SMTPPassword = "app-password"
	if err := withSMTP.Validate(); err != nil {
		t.Errorf("real transport with credentials: %v", err)
	}

	bad := ok
	bad.EmailTransport = "pigeon"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for unknown transport")
	}
}

func TestParseCORSOrigins(t *testing.T) {
	got := parseCORSOrigins(" https://a.example , ,http://localhost:3000")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "http://localhost:3000" {
		t.Errorf("unexpected origins: %v", got)
	}
	if parseCORSOrigins("") != nil {
		t.Error("empty input should return nil")
	}
}
