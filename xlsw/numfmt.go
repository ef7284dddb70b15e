package xlsw

import (
	"regexp"
	"strings"
)

// formatKind is the semantic classification of a number format code. It
// drives how cell values are encoded (see writeCell).
type formatKind int

const (
	kindAuto formatKind = iota
	kindString
	kindNumeric
	kindDate
	kindDatetime
)

func (k formatKind) String() string {
	switch k {
	case kindString:
		return "string"
	case kindNumeric:
		return "numeric"
	case kindDate:
		return "date"
	case kindDatetime:
		return "datetime"
	default:
		return "auto"
	}
}

// standardizeFormat maps friendly format aliases to native format codes.
// Anything that is not an alias passes through with literal spaces,
// dashes and parentheses backslash-escaped (outside quoted or bracketed
// runs), which is how the native format language wants them.
func standardizeFormat(format string) string {
	switch format {
	case "money":
		format = "dollar"
	case "number":
		format = "integer"
	}
	switch format {
	case "string":
		format = "@"
	case "integer":
		format = "0"
	case "date":
		format = "YYYY-MM-DD"
	case "datetime":
		format = "YYYY-MM-DD HH:MM:SS"
	case "time":
		format = "HH:MM:SS"
	case "price":
		format = "#,##0.00"
	case "dollar":
		format = "[$$-1009]#,##0.00"
	case "euro":
		format = "#,##0.00 [$€-407]"
	}
	return escapeFormatLiterals(format)
}

func escapeFormatLiterals(format string) string {
	var b strings.Builder
	b.Grow(len(format))
	var ignoreUntil byte
	for i := 0; i < len(format); i++ {
		c := format[i]
		if ignoreUntil == 0 && c == '[' {
			ignoreUntil = ']'
		} else if ignoreUntil == 0 && c == '"' {
			ignoreUntil = '"'
		} else if c == ignoreUntil {
			ignoreUntil = 0
		}
		if ignoreUntil == 0 && (c == ' ' || c == '-' || c == '(' || c == ')') &&
			(i == 0 || format[i-1] != '\\') {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

var (
	fmtBracketRe = regexp.MustCompile(`\[[^\]]*\]`)
	fmtQuotedRe  = regexp.MustCompile(`"[^"]*"`)
	fmtHourMinRe = regexp.MustCompile(`(?i)H{1,2}:M{1,2}`)
	fmtMinSecRe  = regexp.MustCompile(`(?i)M{1,2}:S{1,2}`)
	fmtYearRe    = regexp.MustCompile(`(?i)Y{2,4}`)
	fmtDayRe     = regexp.MustCompile(`(?i)D{1,2}`)
	fmtMonthRe   = regexp.MustCompile(`(?i)M{1,2}`)
	fmtNumericRe = regexp.MustCompile(`[$€£¥%0#]`)
)

// classifyFormat determines the semantic kind of a format code. Bracketed
// directives (colors, currency locales) and quoted literals never count as
// tokens; the remaining checks run in a fixed order that downstream cell
// encoding depends on.
func classifyFormat(format string) formatKind {
	stripped := fmtQuotedRe.ReplaceAllString(fmtBracketRe.ReplaceAllString(format, ""), "")
	switch stripped {
	case "GENERAL":
		return kindAuto
	case "@":
		return kindString
	case "0":
		return kindNumeric
	}
	switch {
	case fmtHourMinRe.MatchString(stripped):
		return kindDatetime
	case fmtMinSecRe.MatchString(stripped):
		return kindDatetime
	case fmtYearRe.MatchString(stripped):
		return kindDate
	case fmtDayRe.MatchString(stripped):
		return kindDate
	case fmtMonthRe.MatchString(stripped):
		return kindDate
	case fmtNumericRe.MatchString(stripped):
		return kindNumeric
	}
	return kindAuto
}

// formatTable interns number format codes by exact value. Index 0 is
// always GENERAL; custom codes receive the native ids 164+index when the
// stylesheet is rendered.
type formatTable struct {
	codes   []string
	indexOf map[string]int
}

func newFormatTable() *formatTable {
	t := &formatTable{indexOf: map[string]int{}}
	t.intern("GENERAL")
	return t
}

func (t *formatTable) intern(code string) int {
	if i, ok := t.indexOf[code]; ok {
		return i
	}
	i := len(t.codes)
	t.codes = append(t.codes, code)
	t.indexOf[code] = i
	return i
}
