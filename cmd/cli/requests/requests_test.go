package requests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crucial707/hci-inventory/cmd/cli/config"
	"github.com/crucial707/hci-inventory/internal/models"
	"github.com/spf13/cobra"
)

// captureOutput helps capture stdout during command execution.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return buf.String()
}

func setup(t *testing.T, h http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	t.Setenv("HCI_INVENTORY_API_URL", srv.URL)
	t.Setenv("HCI_INVENTORY_TOKEN_FILE", filepath.Join(t.TempDir(), "token"))
	if err := config.SaveToken("tok"); err != nil {
		t.Fatal(err)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "hci-inv", SilenceUsage: true, SilenceErrors: true}
	InitRequests(root)
	root.SetArgs(args)
	var err error
	out := captureOutput(t, func() {
		err = root.ExecuteContext(context.Background())
	})
	return out, err
}

func TestPending_TableShowsApprovability(t *testing.T) {
	setup(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/requests/pending" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("missing bearer token")
		}
		_ = json.NewEncoder(w).Encode([]models.RequestSummary{
			{AssetRequest: models.AssetRequest{ID: 1, QtyRequested: 2}, Requester: "alice", Model: "LAP-100", CurrentStock: 5, CanApprove: true},
			{AssetRequest: models.AssetRequest{ID: 2, QtyRequested: 9}, Requester: "bob", Model: "MON-27", CurrentStock: 1},
		})
	})

	out, err := run(t, "pending")
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	for _, want := range []string{"alice", "bob", "LAP-100", "no (insufficient stock)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestApprove_PostsComments(t *testing.T) {
	setup(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/requests/7/approve" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["comments"] != "ok for Q3" {
			t.Errorf("comments: got %q", body["comments"])
		}
		_, _ = w.Write([]byte(`{"request":{"id":7,"status":"APPROVED"},"remaining":2}`))
	})

	out, err := run(t, "approve", "7", "--comments", "ok for Q3")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !strings.Contains(out, "Request 7 APPROVED") || !strings.Contains(out, "Remaining stock: 2") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestApprove_SurfacesConflict(t *testing.T) {
	setup(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"requested quantity (3) exceeds available stock (2)"}`))
	})

	_, err := run(t, "approve", "7")
	if err == nil || !strings.Contains(err.Error(), "exceeds available stock") {
		t.Fatalf("expected stock conflict, got %v", err)
	}
}

func TestApprove_InvalidID(t *testing.T) {
	setup(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	if _, err := run(t, "reject", "abc"); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
}

func TestSubmit_SendsPayload(t *testing.T) {
	setup(t, func(w http.ResponseWriter, r *http.Request) {
		var in map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["item_id"] != float64(4) || in["qty"] != float64(2) || in["approver_email"] != "mgr@example.com" {
			t.Errorf("unexpected payload: %v", in)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":11,"status":"PENDING"}`))
	})

	out, err := run(t, "request", "--item", "4", "--qty", "2", "--approver", "mgr@example.com", "--purpose", "new hire")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if !strings.Contains(out, "Request 11 submitted (PENDING)") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestMine_RequiresLogin(t *testing.T) {
	t.Setenv("HCI_INVENTORY_TOKEN_FILE", filepath.Join(t.TempDir(), "missing"))
	_, err := run(t, "requests")
	if err != config.ErrNotLoggedIn {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
}
