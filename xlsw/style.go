package xlsw

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/adnsv/srw/xml"
)

// BorderSpec selects which of the four cell sides draw, with an optional
// line style and RGB color. Unknown styles degrade to "hair".
type BorderSpec struct {
	Left   bool
	Right  bool
	Top    bool
	Bottom bool
	Style  string // thin, medium, thick, dashed, dotted, double, hair, ...
	Color  string // 3- or 6-digit hex, with or without leading '#'
}

// FontSpec describes a cell font relative to the sheet default (Arial 10).
// A spec that differs in nothing from the default is not interned.
type FontSpec struct {
	Name          string
	Size          float64
	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
	Color         string
}

// Style is a per-cell style declaration. All fields are optional;
// unrecognized alignment or border values are ignored rather than
// rejected, so building a Style never fails.
type Style struct {
	Border   *BorderSpec
	Fill     string // solid fill color, 3- or 6-digit hex
	HAlign   string // general, left, right, justify, center
	VAlign   string // bottom, center, distributed, top
	WrapText bool
	Font     *FontSpec
}

var borderStyleAllowed = map[string]bool{
	"dashDot": true, "dashDotDot": true, "dashed": true, "dotted": true,
	"double": true, "hair": true, "medium": true, "mediumDashDot": true,
	"mediumDashDotDot": true, "mediumDashed": true, "slantDashDot": true,
	"thick": true, "thin": true,
}

var hAlignAllowed = map[string]bool{
	"general": true, "left": true, "right": true, "justify": true, "center": true,
}

var vAlignAllowed = map[string]bool{
	"bottom": true, "center": true, "distributed": true, "top": true,
}

// argbColor expands a 3- or 6-digit hex color to the alpha-prefixed 8-digit
// form the stylesheet wants. Anything else yields "".
func argbColor(c string) string {
	c = strings.TrimPrefix(c, "#")
	if len(c) == 3 {
		c = string([]byte{c[0], c[0], c[1], c[1], c[2], c[2]})
	}
	if len(c) != 6 {
		return ""
	}
	for i := 0; i < len(c); i++ {
		b := c[i]
		switch {
		case b >= '0' && b <= '9', b >= 'a' && b <= 'f', b >= 'A' && b <= 'F':
		default:
			return ""
		}
	}
	return "FF" + strings.ToUpper(c)
}

func (b *BorderSpec) key() string {
	if b == nil {
		return ""
	}
	return fmt.Sprintf("%t,%t,%t,%t|%s|%s", b.Left, b.Right, b.Top, b.Bottom, b.Style, b.Color)
}

func (f *FontSpec) key() string {
	if f == nil {
		return ""
	}
	return fmt.Sprintf("%s|%g|%t%t%t%t|%s", f.Name, f.Size, f.Bold, f.Italic, f.Underline, f.Strikethrough, f.Color)
}

func (s *Style) key() string {
	if s == nil {
		return ""
	}
	return strings.Join([]string{
		s.Border.key(), s.Fill, s.HAlign, s.VAlign, strconv.FormatBool(s.WrapText), s.Font.key(),
	}, ";")
}

// cellXf pairs an interned number format with an optional style
// declaration. Each distinct pair becomes one entry in cellXfs.
type cellXf struct {
	formatIdx int
	style     *Style
}

// styleTable interns (format index, style) pairs. Index 0 is the base
// GENERAL/no-style entry every workbook carries.
type styleTable struct {
	xfs     []cellXf
	indexOf map[string]int
}

func newStyleTable() *styleTable {
	t := &styleTable{indexOf: map[string]int{}}
	t.intern(0, nil)
	return t
}

func (t *styleTable) intern(formatIdx int, style *Style) int {
	key := strconv.Itoa(formatIdx) + "\x00" + style.key()
	if i, ok := t.indexOf[key]; ok {
		return i
	}
	i := len(t.xfs)
	t.xfs = append(t.xfs, cellXf{formatIdx: formatIdx, style: style})
	t.indexOf[key] = i
	return i
}

// stylesheet rendering

type fontDef struct {
	name          string
	size          float64
	bold          bool
	italic        bool
	underline     bool
	strikethrough bool
	color         string
}

var defaultFont = fontDef{name: "Arial", size: 10}

func resolveFont(f *FontSpec) fontDef {
	d := defaultFont
	if f == nil {
		return d
	}
	if f.Name != "" {
		d.name = f.Name
	}
	if f.Size > 0 {
		d.size = f.Size
	}
	d.bold = f.Bold
	d.italic = f.Italic
	d.underline = f.Underline
	d.strikethrough = f.Strikethrough
	d.color = argbColor(f.Color)
	return d
}

func (d fontDef) key() string {
	return fmt.Sprintf("%s|%g|%t%t%t%t|%s", d.name, d.size, d.bold, d.italic, d.underline, d.strikethrough, d.color)
}

type borderDef struct {
	left, right, top, bottom bool
	style                    string
	color                    string
}

func resolveBorder(b *BorderSpec) (borderDef, bool) {
	if b == nil || !(b.Left || b.Right || b.Top || b.Bottom) {
		return borderDef{}, false
	}
	d := borderDef{
		left: b.Left, right: b.Right, top: b.Top, bottom: b.Bottom,
		style: b.Style, color: argbColor(b.Color),
	}
	if !borderStyleAllowed[d.style] {
		d.style = "hair"
	}
	return d, true
}

func (d borderDef) key() string {
	return fmt.Sprintf("%t,%t,%t,%t|%s|%s", d.left, d.right, d.top, d.bottom, d.style, d.color)
}

// renderStyles expands every interned cell style into the stylesheet
// document. Fonts, fills and borders are deduplicated independently; the
// reserved entries (default font, the none/gray125 fills, the empty
// border) occupy the low indices.
func renderStyles(formats *formatTable, styles *styleTable) []byte {
	fonts := []fontDef{defaultFont}
	fontIdx := map[string]int{defaultFont.key(): 0}
	fills := []string{} // solid fill colors; table indices start at 2
	fillIdx := map[string]int{}
	borders := []borderDef{{}}
	borderIdx := map[string]int{borderDef{}.key(): 0}

	type resolvedXf struct {
		numFmtID int
		font     int
		fill     int
		border   int
		hAlign   string
		vAlign   string
		wrap     bool
		hasAlign bool
	}
	xfs := make([]resolvedXf, 0, len(styles.xfs))

	for _, xf := range styles.xfs {
		r := resolvedXf{numFmtID: 164 + xf.formatIdx}
		st := xf.style
		if st != nil {
			if st.Font != nil {
				fd := resolveFont(st.Font)
				if fd != defaultFont {
					k := fd.key()
					i, ok := fontIdx[k]
					if !ok {
						i = len(fonts)
						fonts = append(fonts, fd)
						fontIdx[k] = i
					}
					r.font = i
				}
			}
			if c := argbColor(st.Fill); c != "" {
				i, ok := fillIdx[c]
				if !ok {
					i = len(fills)
					fills = append(fills, c)
					fillIdx[c] = i
				}
				r.fill = 2 + i
			}
			if bd, ok := resolveBorder(st.Border); ok {
				k := bd.key()
				i, seen := borderIdx[k]
				if !seen {
					i = len(borders)
					borders = append(borders, bd)
					borderIdx[k] = i
				}
				r.border = i
			}
			if hAlignAllowed[st.HAlign] {
				r.hAlign = st.HAlign
			}
			if vAlignAllowed[st.VAlign] {
				r.vAlign = st.VAlign
			}
			r.wrap = st.WrapText
			r.hasAlign = r.hAlign != "" || r.vAlign != "" || r.wrap
		}
		xfs = append(xfs, r)
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("styleSheet")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")

	x.OTag("+numFmts").Attr("count", len(formats.codes))
	for i, code := range formats.codes {
		x.OTag("+numFmt").Attr("numFmtId", 164+i).Attr("formatCode", code).CTag()
	}
	x.CTag()

	x.OTag("+fonts").Attr("count", len(fonts))
	for _, f := range fonts {
		x.OTag("+font")
		x.OTag("+name").Attr("val", f.name).CTag()
		x.OTag("+charset").Attr("val", 1).CTag()
		x.OTag("+family").Attr("val", 2).CTag()
		x.OTag("+sz").Attr("val", f.size).CTag()
		if f.bold {
			x.OTag("+b").Attr("val", "true").CTag()
		}
		if f.italic {
			x.OTag("+i").Attr("val", "true").CTag()
		}
		if f.underline {
			x.OTag("+u").Attr("val", "single").CTag()
		}
		if f.strikethrough {
			x.OTag("+strike").Attr("val", "true").CTag()
		}
		if f.color != "" {
			x.OTag("+color").Attr("rgb", f.color).CTag()
		}
		x.CTag()
	}
	x.CTag()

	x.OTag("+fills").Attr("count", 2+len(fills))
	x.OTag("+fill")
	x.OTag("+patternFill").Attr("patternType", "none").CTag()
	x.CTag()
	x.OTag("+fill")
	x.OTag("+patternFill").Attr("patternType", "gray125").CTag()
	x.CTag()
	for _, c := range fills {
		x.OTag("+fill")
		x.OTag("+patternFill").Attr("patternType", "solid")
		x.OTag("+fgColor").Attr("rgb", c).CTag()
		x.OTag("+bgColor").Attr("indexed", 64).CTag()
		x.CTag()
		x.CTag()
	}
	x.CTag()

	x.OTag("+borders").Attr("count", len(borders))
	for i, b := range borders {
		x.OTag("+border").Attr("diagonalDown", "false").Attr("diagonalUp", "false")
		writeBorderSide := func(name xml.NameString, draw bool) {
			x.OTag("+" + name)
			if i > 0 && draw {
				x.Attr("style", b.style)
				if b.color != "" {
					x.OTag("+color").Attr("rgb", b.color).CTag()
				}
			}
			x.CTag()
		}
		writeBorderSide("left", b.left)
		writeBorderSide("right", b.right)
		writeBorderSide("top", b.top)
		writeBorderSide("bottom", b.bottom)
		writeBorderSide("diagonal", false)
		x.CTag()
	}
	x.CTag()

	x.OTag("+cellStyleXfs").Attr("count", 1)
	x.OTag("+xf").Attr("numFmtId", 0).Attr("fontId", 0).Attr("fillId", 0).Attr("borderId", 0).CTag()
	x.CTag()

	x.OTag("+cellXfs").Attr("count", len(xfs))
	for _, r := range xfs {
		x.OTag("+xf")
		x.Attr("applyAlignment", strconv.FormatBool(r.hasAlign))
		x.Attr("applyBorder", strconv.FormatBool(r.border > 0))
		x.Attr("applyFont", "true")
		x.Attr("borderId", r.border)
		x.Attr("fillId", r.fill)
		x.Attr("fontId", r.font)
		x.Attr("numFmtId", r.numFmtID)
		x.Attr("xfId", 0)
		if r.hasAlign {
			x.OTag("+alignment")
			if r.hAlign != "" {
				x.Attr("horizontal", r.hAlign)
			}
			if r.vAlign != "" {
				x.Attr("vertical", r.vAlign)
			}
			if r.wrap {
				x.Attr("wrapText", "true")
			}
			x.CTag()
		}
		x.CTag()
	}
	x.CTag()

	x.OTag("+cellStyles").Attr("count", 1)
	x.OTag("+cellStyle").Attr("builtinId", 0).Attr("customBuiltin", "false").Attr("name", "Normal").Attr("xfId", 0).CTag()
	x.CTag()

	x.CTag()

	return bb.Bytes()
}
