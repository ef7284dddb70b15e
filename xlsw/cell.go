package xlsw

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// autoNumericRe matches the values an auto-typed column treats as numbers:
// a signed-optional integer or decimal with no leading zero. "007" is a
// string; "42" and "-3.5" are numbers. Downstream renderers depend on this
// exact rule, so it stays as-is.
var autoNumericRe = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?$`)

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// escapeXML escapes markup characters and drops code points that are not
// legal in XML 1.0 text (control bytes other than tab and newline).
func escapeXML(s string) string {
	s = xmlReplacer.Replace(s)
	if strings.IndexFunc(s, isIllegalXMLRune) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !isIllegalXMLRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isIllegalXMLRune(r rune) bool {
	if r == '\t' || r == '\n' {
		return false
	}
	return r < 0x20 || (r >= 0x7F && r <= 0x9F)
}

// cellText reduces a raw value to its textual form. scalar is false for
// values that cannot appear in a cell at all (slices, maps, plain
// structs); isStr is true only for Go strings, which is what the formula
// and auto-type rules key on.
func cellText(value any, kind formatKind) (text string, isStr, scalar bool) {
	switch v := value.(type) {
	case nil:
		return "", false, false
	case string:
		return v, true, true
	case bool:
		if v {
			return "1", false, true
		}
		return "0", false, true
	case int:
		return strconv.Itoa(v), false, true
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v), false, true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), false, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), false, true
	case time.Time:
		switch kind {
		case kindDate:
			return v.Format("2006-01-02"), true, true
		default:
			return v.Format("2006-01-02 15:04:05"), true, true
		}
	case fmt.Stringer:
		return v.String(), true, true
	default:
		return "", false, false
	}
}

// writeCell emits one <c> node. The decision order is fixed: empty,
// formula, datetime, date, numeric, string, auto-heuristic.
func writeCell(s *stream, row, col int, value any, kind formatKind, styleIdx int) {
	ref := CellRef(row, col)
	text, isStr, scalar := cellText(value, kind)
	style := strconv.Itoa(styleIdx)

	switch {
	case !scalar || text == "":
		s.WriteString(`<c r="` + ref + `" s="` + style + `"/>`)
	case isStr && strings.HasPrefix(text, "="):
		s.WriteString(`<c r="` + ref + `" s="` + style + `"><f>` + escapeXML(text[1:]) + `</f></c>`)
	case kind == kindDatetime:
		serial := strconv.FormatFloat(dateToSerial(text), 'f', -1, 64)
		s.WriteString(`<c r="` + ref + `" s="` + style + `" t="n"><v>` + serial + `</v></c>`)
	case kind == kindDate:
		serial := strconv.Itoa(int(dateToSerial(text)))
		s.WriteString(`<c r="` + ref + `" s="` + style + `" t="n"><v>` + serial + `</v></c>`)
	case kind == kindNumeric:
		s.WriteString(`<c r="` + ref + `" s="` + style + `" t="n"><v>` + escapeXML(text) + `</v></c>`)
	case kind == kindString:
		s.WriteString(`<c r="` + ref + `" s="` + style + `" t="inlineStr"><is><t>` + escapeXML(text) + `</t></is></c>`)
	case looksNumeric(text, isStr):
		s.WriteString(`<c r="` + ref + `" s="` + style + `" t="n"><v>` + escapeXML(text) + `</v></c>`)
	default:
		s.WriteString(`<c r="` + ref + `" s="` + style + `" t="inlineStr"><is><t>` + escapeXML(text) + `</t></is></c>`)
	}
}

func looksNumeric(text string, isStr bool) bool {
	if !isStr || text == "0" {
		return true
	}
	if text[0] != '0' && allDigits(text) {
		return true
	}
	return autoNumericRe.MatchString(text)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
