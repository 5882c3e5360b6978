package sheets

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"pembukuan/internal/core"
)

// fakeValues stores cells by row, which is all WriteSummary looks at.
type fakeValues struct {
	rows    [][]any
	updates []string
	failGet bool
}

func (f *fakeValues) get(_ context.Context, _, _ string) ([][]any, error) {
	if f.failGet {
		return nil, errors.New("quota exceeded")
	}
	out := make([][]any, len(f.rows))
	for i, r := range f.rows {
		out[i] = []any{r[0]}
	}
	return out, nil
}

func (f *fakeValues) update(_ context.Context, _, rng string, values [][]any) error {
	f.updates = append(f.updates, rng)
	var row int
	// ranges look like "Reports!A3:H3"
	cell := rng[strings.Index(rng, "!A")+2:]
	for _, ch := range cell {
		if ch < '0' || ch > '9' {
			break
		}
		row = row*10 + int(ch-'0')
	}
	for len(f.rows) < row {
		f.rows = append(f.rows, []any{""})
	}
	f.rows[row-1] = values[0]
	return nil
}

var at = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestWriteSummaryAppendsThenUpdates(t *testing.T) {
	fv := &fakeValues{}
	c := &Client{values: fv, spreadsheetID: "sheet", sheetName: "Reports"}
	ctx := context.Background()

	ref, err := c.WriteSummary(ctx, "alice", core.FinancialSummary{AssetTotal: core.Money{Cents: 1000}}, at)
	if err != nil {
		t.Fatalf("first write: %v", err)
	}
	if ref != "Reports!A2:H2" {
		t.Fatalf("unexpected ref %q", ref)
	}
	if fv.rows[0][0] != "Owner" {
		t.Fatalf("expected header row, got %v", fv.rows[0])
	}

	if ref, _ = c.WriteSummary(ctx, "bob", core.FinancialSummary{}, at); ref != "Reports!A3:H3" {
		t.Fatalf("unexpected ref for second owner %q", ref)
	}
	ref, err = c.WriteSummary(ctx, "alice", core.FinancialSummary{AssetTotal: core.Money{Cents: 2550}}, at)
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if ref != "Reports!A2:H2" {
		t.Fatalf("rewrite should target the existing row, got %q", ref)
	}
	if got := fv.rows[1][1]; got != 25.5 {
		t.Fatalf("expected assets 25.5, got %v", got)
	}
	if len(fv.rows) != 3 {
		t.Fatalf("expected header plus two owners, got %d rows", len(fv.rows))
	}
}

func TestWriteSummaryErrors(t *testing.T) {
	c := &Client{values: &fakeValues{failGet: true}, spreadsheetID: "sheet", sheetName: "Reports"}
	if _, err := c.WriteSummary(context.Background(), "alice", core.FinancialSummary{}, at); err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected read error, got %v", err)
	}
	if _, err := c.WriteSummary(context.Background(), " ", core.FinancialSummary{}, at); !errors.Is(err, core.ErrEmptyOwner) {
		t.Fatalf("expected empty owner error, got %v", err)
	}
	if _, err := (&Client{}).WriteSummary(context.Background(), "alice", core.FinancialSummary{}, at); err == nil {
		t.Fatal("expected error for uninitialized client")
	}
}

func TestFindOwnerRow(t *testing.T) {
	rows := [][]any{{"Owner"}, {"alice"}, {}, {" bob "}}
	tests := []struct {
		owner string
		want  int
	}{
		{"alice", 2},
		{"bob", 4},
		{"Owner", 0},
		{"carol", 0},
	}
	for _, tt := range tests {
		if got := findOwnerRow(rows, tt.owner); got != tt.want {
			t.Errorf("findOwnerRow(%q) = %d, want %d", tt.owner, got, tt.want)
		}
	}
}

func TestNewClientRequiresConfig(t *testing.T) {
	ctx := context.Background()
	if _, err := NewClient(ctx, Options{}); err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error %v", err)
	}
	if _, err := NewClient(ctx, Options{SpreadsheetID: "x", SheetName: "Reports"}); err == nil || !strings.Contains(err.Error(), "credentials") {
		t.Fatalf("expected missing credentials error, got %v", err)
	}
	if _, err := NewClient(ctx, Options{SpreadsheetID: "x", SheetName: "Reports", CredentialsFile: t.TempDir() + "/none.json"}); err == nil {
		t.Fatal("expected read error for missing credentials file")
	}
}

func TestMemoryWriter(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	ref, _ := m.WriteSummary(ctx, "alice", core.FinancialSummary{NetIncome: core.Money{Cents: 500}}, at)
	if ref != "memory!A2:H2" {
		t.Fatalf("unexpected ref %q", ref)
	}
	m.WriteSummary(ctx, "alice", core.FinancialSummary{NetIncome: core.Money{Cents: 700}}, at)
	row, ok := m.Row("alice")
	if !ok || row[6] != 7.0 {
		t.Fatalf("expected net income 7, got %v", row)
	}
	if m.Len() != 1 {
		t.Fatalf("expected one owner, got %d", m.Len())
	}
	if _, err := m.WriteSummary(ctx, "", core.FinancialSummary{}, at); !errors.Is(err, core.ErrEmptyOwner) {
		t.Fatalf("expected empty owner error, got %v", err)
	}
}
