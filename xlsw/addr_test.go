package xlsw

import "testing"

func TestCellRef(t *testing.T) {
	tests := []struct {
		row, col int
		want     string
	}{
		{0, 0, "A1"},
		{0, 25, "Z1"},
		{0, 26, "AA1"},
		{9, 27, "AB10"},
		{99, 51, "AZ100"},
		{0, 701, "ZZ1"},
		{0, 702, "AAA1"},
		{maxRowIndex, maxColIndex, "XFD1048576"},
	}
	for _, tt := range tests {
		if got := CellRef(tt.row, tt.col); got != tt.want {
			t.Errorf("CellRef(%d, %d) = %q, want %q", tt.row, tt.col, got, tt.want)
		}
	}
}

func TestCellRefAbs(t *testing.T) {
	if got := CellRefAbs(6, 1); got != "$B$7" {
		t.Errorf("CellRefAbs(6, 1) = %q, want $B$7", got)
	}
}

func TestParseCellRef(t *testing.T) {
	tests := []struct {
		ref      string
		row, col int
		ok       bool
	}{
		{"A1", 0, 0, true},
		{"Z1", 0, 25, true},
		{"AA1", 0, 26, true},
		{"$B$7", 6, 1, true},
		{"XFD1048576", maxRowIndex, maxColIndex, true},
		{"", 0, 0, false},
		{"1", 0, 0, false},
		{"A0", 0, 0, false},
		{"A", 0, 0, false},
	}
	for _, tt := range tests {
		row, col, ok := ParseCellRef(tt.ref)
		if ok != tt.ok || row != tt.row || col != tt.col {
			t.Errorf("ParseCellRef(%q) = (%d, %d, %v), want (%d, %d, %v)",
				tt.ref, row, col, ok, tt.row, tt.col, tt.ok)
		}
	}
}

func TestCellRefRoundtrip(t *testing.T) {
	for _, col := range []int{0, 1, 25, 26, 51, 701, 702, maxColIndex} {
		for _, row := range []int{0, 1, 999, maxRowIndex} {
			ref := CellRef(row, col)
			r, c, ok := ParseCellRef(ref)
			if !ok || r != row || c != col {
				t.Fatalf("roundtrip %q: got (%d, %d, %v), want (%d, %d)", ref, r, c, ok, row, col)
			}
		}
	}
}
