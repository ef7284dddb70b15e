package xlsw

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func renderCell(t *testing.T, value any, kind formatKind) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cell")
	s, err := newStream(path)
	if err != nil {
		t.Fatal(err)
	}
	writeCell(s, 0, 0, value, kind, 0)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestWriteCell(t *testing.T) {
	tests := []struct {
		name  string
		value any
		kind  formatKind
		want  string
	}{
		{"nil", nil, kindAuto, `<c r="A1" s="0"/>`},
		{"empty string", "", kindAuto, `<c r="A1" s="0"/>`},
		{"struct", struct{}{}, kindAuto, `<c r="A1" s="0"/>`},

		{"formula", "=SUM(B1:B9)", kindAuto, `<c r="A1" s="0"><f>SUM(B1:B9)</f></c>`},
		{"formula in string column", "=1&lt;2", kindString, `<c r="A1" s="0"><f>1&amp;lt;2</f></c>`},

		{"date", "2024-07-01", kindDate, `<c r="A1" s="0" t="n"><v>45474</v></c>`},
		{"datetime", "2024-07-01 18:00:00", kindDatetime, `<c r="A1" s="0" t="n"><v>45474.75</v></c>`},
		{"time value", time.Date(2008, 11, 23, 0, 0, 0, 0, time.UTC), kindDate, `<c r="A1" s="0" t="n"><v>39775</v></c>`},

		{"numeric column", "12,5", kindNumeric, `<c r="A1" s="0" t="n"><v>12,5</v></c>`},
		{"int", 42, kindAuto, `<c r="A1" s="0" t="n"><v>42</v></c>`},
		{"float", -3.5, kindAuto, `<c r="A1" s="0" t="n"><v>-3.5</v></c>`},
		{"bool", true, kindAuto, `<c r="A1" s="0" t="n"><v>1</v></c>`},

		{"auto numeric string", "42", kindAuto, `<c r="A1" s="0" t="n"><v>42</v></c>`},
		{"auto decimal string", "-3.5", kindAuto, `<c r="A1" s="0" t="n"><v>-3.5</v></c>`},
		{"auto zero", "0", kindAuto, `<c r="A1" s="0" t="n"><v>0</v></c>`},
		{"leading zero stays text", "007", kindAuto, `<c r="A1" s="0" t="inlineStr"><is><t>007</t></is></c>`},
		{"plain text", "hello", kindAuto, `<c r="A1" s="0" t="inlineStr"><is><t>hello</t></is></c>`},

		{"string column", "42", kindString, `<c r="A1" s="0" t="inlineStr"><is><t>42</t></is></c>`},
		{"markup escaped", "a<b&c", kindString, `<c r="A1" s="0" t="inlineStr"><is><t>a&lt;b&amp;c</t></is></c>`},
	}
	for _, tt := range tests {
		if got := renderCell(t, tt.value, tt.kind); got != tt.want {
			t.Errorf("%s: writeCell = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestEscapeXML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{`<&>"'`, "&lt;&amp;&gt;&quot;&#39;"},
		{"tab\tand\nnewline", "tab\tand\nnewline"},
		{"bell\x07char", "bellchar"},
		{"del\x7f", "del"},
	}
	for _, tt := range tests {
		if got := escapeXML(tt.in); got != tt.want {
			t.Errorf("escapeXML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
