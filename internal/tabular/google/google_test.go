package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"finledger/internal/tabular"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type fakeSheets struct {
	cleared bool
	written [][]any
	stored  [][]any
	updates []string
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":clear"):
		f.cleared = true
		io.WriteString(w, `{"spreadsheetId":"sheet-id","clearedRange":"Ledger!A1:Z100"}`)
	case r.Method == http.MethodPut:
		var vr gsheet.ValueRange
		if err := json.NewDecoder(r.Body).Decode(&vr); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.written = vr.Values
		f.updates = append(f.updates, r.URL.Query().Get("valueInputOption"))
		io.WriteString(w, `{"spreadsheetId":"sheet-id"}`)
	case r.Method == http.MethodGet:
		json.NewEncoder(w).Encode(map[string]any{
			"range":          "Ledger!A1:U3",
			"majorDimension": "ROWS",
			"values":         f.stored,
		})
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, fake *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return New(svc, "sheet-id", "")
}

func TestNewFromEnv_MissingSpreadsheetID(t *testing.T) {
	old := os.Getenv("GOOGLE_SPREADSHEET_ID")
	os.Unsetenv("GOOGLE_SPREADSHEET_ID")
	defer os.Setenv("GOOGLE_SPREADSHEET_ID", old)

	if _, err := NewFromEnv(context.Background()); err == nil {
		t.Fatalf("expected error without GOOGLE_SPREADSHEET_ID")
	}
}

func TestNewFromEnv_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_SPREADSHEET_ID", "x")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	_, err := NewFromEnv(context.Background())
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWriteTableClearsThenUpdates(t *testing.T) {
	fake := &fakeSheets{}
	c := newTestClient(t, fake)

	table := tabular.Table{
		Header: []string{"Year", "Month", "Salary"},
		Rows:   [][]any{{2025, 1, 3000.5}},
	}
	if err := c.WriteTable(context.Background(), table); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !fake.cleared {
		t.Fatalf("expected sheet to be cleared first")
	}
	if len(fake.written) != 2 || fake.written[0][0] != "Year" {
		t.Fatalf("unexpected values written: %v", fake.written)
	}
	if fake.written[1][2] != 3000.5 {
		t.Fatalf("numbers should be sent as numbers: %#v", fake.written[1][2])
	}
	if len(fake.updates) != 1 || fake.updates[0] != "RAW" {
		t.Fatalf("unexpected valueInputOption: %v", fake.updates)
	}
}

func TestReadTable(t *testing.T) {
	fake := &fakeSheets{stored: [][]any{
		{"Year", "Month", "Salary"},
		{2025, 2, 4200},
	}}
	c := newTestClient(t, fake)

	table, err := c.ReadTable(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	records, err := tabular.Decode(table)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 1 || records[0].Month != 2 || records[0].Salary != 4200 {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestReadTableEmptySheet(t *testing.T) {
	c := newTestClient(t, &fakeSheets{})
	if _, err := c.ReadTable(context.Background()); err == nil {
		t.Fatalf("expected error for empty sheet")
	}
}
