package inventory

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/crucial707/hci-inventory/cmd/cli/config"
	"github.com/spf13/cobra"
)

func TestUpload_SendsMultipartFile(t *testing.T) {
	dir := t.TempDir()
	sheet := filepath.Join(dir, "stock.csv")
	if err := os.WriteFile(sheet, []byte("Model,Qty\nLAP-100,4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var gotName, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/inventory/upload" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		gotName, gotBody = hdr.Filename, string(b)
		_, _ = w.Write([]byte(`{"added":1,"updated":0,"message":"Successfully added 1 items and updated 0 items"}`))
	}))
	defer srv.Close()

	t.Setenv("HCI_INVENTORY_API_URL", srv.URL)
	t.Setenv("HCI_INVENTORY_TOKEN_FILE", filepath.Join(dir, "token"))
	if err := config.SaveToken("tok"); err != nil {
		t.Fatal(err)
	}

	root := &cobra.Command{Use: "hci-inv", SilenceUsage: true, SilenceErrors: true}
	InitInventory(root)
	root.SetArgs([]string{"upload", sheet})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if gotName != "stock.csv" || gotBody != "Model,Qty\nLAP-100,4\n" {
		t.Errorf("server received %q: %q", gotName, gotBody)
	}
}

func TestUpload_MissingFile(t *testing.T) {
	t.Setenv("HCI_INVENTORY_TOKEN_FILE", filepath.Join(t.TempDir(), "token"))
	if err := config.SaveToken("tok"); err != nil {
		t.Fatal(err)
	}
	root := &cobra.Command{Use: "hci-inv", SilenceUsage: true, SilenceErrors: true}
	InitInventory(root)
	root.SetArgs([]string{"upload", filepath.Join(t.TempDir(), "nope.xlsx")})
	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}
}
