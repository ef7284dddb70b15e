package xlsw

import "testing"

func TestStandardizeFormat(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"GENERAL", "GENERAL"},
		{"string", "@"},
		{"integer", "0"},
		{"number", "0"},
		{"date", `YYYY\-MM\-DD`},
		{"datetime", `YYYY\-MM\-DD\ HH:MM:SS`},
		{"time", "HH:MM:SS"},
		{"price", "#,##0.00"},
		{"dollar", "[$$-1009]#,##0.00"},
		{"money", "[$$-1009]#,##0.00"},
		{"euro", `#,##0.00\ [$€-407]`},
		// literal spaces and dashes get escaped, but not inside quotes
		// or bracket runs, and not twice
		{"0 %", `0\ %`},
		{`0" - "%`, `0" - "%`},
		{"[Red]0 ", `[Red]0\ `},
		{`YYYY\-MM`, `YYYY\-MM`},
	}
	for _, tt := range tests {
		if got := standardizeFormat(tt.in); got != tt.want {
			t.Errorf("standardizeFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClassifyFormat(t *testing.T) {
	tests := []struct {
		format string
		want   formatKind
	}{
		{"GENERAL", kindAuto},
		{"@", kindString},
		{"0", kindNumeric},
		{"0.00", kindNumeric},
		{"#,##0.00", kindNumeric},
		{"0%", kindNumeric},
		{"[$$-1009]#,##0.00", kindNumeric},
		{"YYYY-MM-DD", kindDate},
		{`YYYY\-MM\-DD`, kindDate},
		{"DD/MM/YYYY", kindDate},
		{"MMM", kindDate},
		{"HH:MM:SS", kindDatetime},
		{"H:MM", kindDatetime},
		{"MM:SS", kindDatetime},
		{`YYYY\-MM\-DD\ HH:MM:SS`, kindDatetime},
		// bracketed directives and quoted literals are not tokens
		{`[Red]0`, kindNumeric},
		{`"YYYY"0`, kindNumeric},
		{"anything else", kindAuto},
	}
	for _, tt := range tests {
		if got := classifyFormat(tt.format); got != tt.want {
			t.Errorf("classifyFormat(%q) = %v, want %v", tt.format, got, tt.want)
		}
	}
}

func TestFormatTableIntern(t *testing.T) {
	ft := newFormatTable()
	if i := ft.intern("GENERAL"); i != 0 {
		t.Fatalf("GENERAL interned at %d, want 0", i)
	}
	a := ft.intern("0.00")
	b := ft.intern("YYYY-MM-DD")
	if a != 1 || b != 2 {
		t.Fatalf("intern order: got %d, %d, want 1, 2", a, b)
	}
	if again := ft.intern("0.00"); again != a {
		t.Errorf("re-intern returned %d, want %d", again, a)
	}
	if len(ft.codes) != 3 {
		t.Errorf("table holds %d codes, want 3", len(ft.codes))
	}
}
