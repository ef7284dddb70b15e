package xlsw

import (
	"os"
	"strings"
	"testing"
)

func TestSanitizeSheetName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Report", "Report"},
		{`bad\name/with?forbidden*chars`, "bad name with forbidden chars"},
		{"a:b", "a b"},
		{"[bracketed]", "bracketed"},
		{"  padded  ", "padded"},
		{"'quoted'", "quoted"},
		{strings.Repeat("x", 40), strings.Repeat("x", 31)},
	}
	for _, tt := range tests {
		if got := sanitizeSheetName(tt.in); got != tt.want {
			t.Errorf("sanitizeSheetName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeSheetNameFallback(t *testing.T) {
	got := sanitizeSheetName("???")
	if !strings.HasPrefix(got, "Sheet") || len(got) != len("Sheet")+3 {
		t.Errorf("empty name fell back to %q, want Sheet###", got)
	}
}

func TestCountSheetRows(t *testing.T) {
	w := New()
	w.SetTempDir(t.TempDir())
	defer w.Close()

	if n := w.CountSheetRows("Missing"); n != 0 {
		t.Errorf("unknown sheet counts %d rows, want 0", n)
	}

	w.WriteSheetRow("Data", []any{1}, nil)
	w.WriteSheetRow("Data", []any{2}, nil)
	if n := w.CountSheetRows("Data"); n != 2 {
		t.Errorf("CountSheetRows(Data) = %d, want 2", n)
	}
	// empty name means the sheet written to most recently
	if n := w.CountSheetRows(""); n != 2 {
		t.Errorf("CountSheetRows() = %d, want 2", n)
	}
}

func TestHeaderRowCounts(t *testing.T) {
	w := New()
	w.SetTempDir(t.TempDir())
	defer w.Close()

	w.WriteSheetHeader("H", []Column{{Name: "a"}, {Name: "b"}}, nil)
	if n := w.CountSheetRows("H"); n != 1 {
		t.Errorf("header row counts %d, want 1", n)
	}

	w.WriteSheetHeader("S", []Column{{Name: "a"}}, &HeaderOptions{SuppressRow: true})
	if n := w.CountSheetRows("S"); n != 0 {
		t.Errorf("suppressed header counts %d rows, want 0", n)
	}
}

func TestHeaderIgnoredOnExistingSheet(t *testing.T) {
	w := New()
	w.SetTempDir(t.TempDir())
	defer w.Close()

	w.WriteSheetRow("Data", []any{1, 2}, nil)
	w.WriteSheetHeader("Data", []Column{{Name: "late"}}, nil)
	if n := w.CountSheetRows("Data"); n != 1 {
		t.Errorf("late header changed row count to %d, want 1", n)
	}
}

func TestCloseRemovesTempFiles(t *testing.T) {
	dir := t.TempDir()
	w := New()
	w.SetTempDir(dir)
	w.WriteSheetRow("Data", []any{1}, nil)

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("%d temp files left behind after Close", len(entries))
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}

func TestWriteAfterFinalizeIsNoop(t *testing.T) {
	w := New()
	w.SetTempDir(t.TempDir())
	defer w.Close()

	w.WriteSheet([][]any{{1}, {2}}, "Done", nil)
	w.WriteSheetRow("Done", []any{3}, nil)
	if n := w.CountSheetRows("Done"); n != 2 {
		t.Errorf("row landed on a finalized sheet: %d rows, want 2", n)
	}
}
