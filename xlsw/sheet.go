package xlsw

import (
	"fmt"
	"strconv"
	"strings"
)

// Worksheet extent limits of the target format.
const (
	maxRowIndex = 1048575
	maxColIndex = 16383
)

// Column declares one header column: a display name plus a format alias
// ("date", "money", …) or a native format code.
type Column struct {
	Name   string
	Format string
}

// HeaderOptions tune sheet creation. They only take effect on the call
// that creates the sheet, since the view and column declarations are
// streamed out before the first row.
type HeaderOptions struct {
	SuppressRow   bool      // set column types without emitting a header row
	Widths        []float64 // custom column widths, in order
	AutoFilter    bool
	FreezeRows    int
	FreezeColumns int
	Style         *Style // style for the header row cells
}

// RowOptions tune one row. Style applies to every cell of the row;
// ColumnStyles, when non-empty, wins and applies per column.
type RowOptions struct {
	Height       float64
	Hidden       bool
	Collapsed    bool
	Style        *Style
	ColumnStyles []*Style
}

// colDef is the per-column type descriptor: interned format, its semantic
// kind, and the default style index cells of this column resolve to.
type colDef struct {
	formatIdx int
	kind      formatKind
	styleIdx  int
}

// Sheet owns one backpatchable stream and walks the lifecycle
// open → writing → finalized. Once finalized it accepts no further rows
// or merges.
type Sheet struct {
	name     string
	partName string // sheet1.xml, sheet2.xml, ... in creation order
	tempPath string
	stream   *stream

	rowCount   int
	cols       []colDef
	merges     []string
	autoFilter bool
	freezeRows int
	freezeCols int

	dimStart  int64 // byte range of the provisional dimension tag
	dimEnd    int64
	finalized bool
}

// initSheet returns the named sheet, creating stream and prologue on
// first reference. Creation is idempotent: an existing name is returned
// untouched and opts are ignored for it.
func (w *Workbook) initSheet(name string, opts *HeaderOptions) (*Sheet, error) {
	if sh, ok := w.sheets[name]; ok {
		return sh, nil
	}
	path := w.tempFilename()
	st, err := newStream(path)
	if err != nil {
		return nil, err
	}
	sh := &Sheet{
		name:     name,
		partName: fmt.Sprintf("sheet%d.xml", len(w.sheetList)+1),
		tempPath: path,
		stream:   st,
	}
	var widths []float64
	if opts != nil {
		sh.autoFilter = opts.AutoFilter
		sh.freezeRows = opts.FreezeRows
		sh.freezeCols = opts.FreezeColumns
		widths = opts.Widths
	}
	w.sheets[name] = sh
	w.sheetList = append(w.sheetList, sh)
	sh.writePrologue(w.rightToLeft, len(w.sheetList) == 1, widths)
	return sh, nil
}

// writePrologue emits everything that precedes the first row, reserving a
// maximum-extent dimension tag whose byte range is recorded for the
// finalize-time backpatch.
func (sh *Sheet) writePrologue(rightToLeft, tabSelected bool, widths []float64) {
	s := sh.stream
	s.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	s.WriteString(`<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"` +
		` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">`)
	s.WriteString(`<sheetPr filterMode="false"><pageSetUpPr fitToPage="false"/></sheetPr>`)

	sh.dimStart, _ = s.Position()
	s.WriteString(`<dimension ref="A1:` + CellRef(maxRowIndex, maxColIndex) + `"/>`)
	sh.dimEnd, _ = s.Position()

	s.WriteString(`<sheetViews>`)
	s.WriteString(`<sheetView colorId="64" defaultGridColor="true" rightToLeft="` + xmlBool(rightToLeft) +
		`" showFormulas="false" showGridLines="true" showOutlineSymbols="true" showRowColHeaders="true"` +
		` showZeros="true" tabSelected="` + xmlBool(tabSelected) +
		`" topLeftCell="A1" view="normal" windowProtection="false" workbookViewId="0"` +
		` zoomScale="100" zoomScaleNormal="100" zoomScalePageLayoutView="100">`)
	sh.writeFreezePane()
	s.WriteString(`</sheetView></sheetViews>`)

	s.WriteString(`<cols>`)
	n := 0
	for _, width := range widths {
		s.WriteString(fmt.Sprintf(`<col collapsed="false" hidden="false" max="%d" min="%d" style="0" customWidth="true" width="%s"/>`,
			n+1, n+1, trimFloat(width)))
		n++
	}
	s.WriteString(fmt.Sprintf(`<col collapsed="false" hidden="false" max="1024" min="%d" style="0" customWidth="false" width="11.5"/>`, n+1))
	s.WriteString(`</cols>`)

	s.WriteString(`<sheetData>`)
}

func (sh *Sheet) writeFreezePane() {
	s := sh.stream
	fr, fc := sh.freezeRows, sh.freezeCols
	switch {
	case fr > 0 && fc > 0:
		s.WriteString(`<pane activePane="bottomRight" state="frozen" topLeftCell="` + CellRef(fr, fc) +
			`" xSplit="` + strconv.Itoa(fc) + `" ySplit="` + strconv.Itoa(fr) + `"/>`)
		s.WriteString(`<selection activeCell="` + CellRef(fr, 0) + `" activeCellId="0" pane="topRight" sqref="` + CellRef(fr, 0) + `"/>`)
		s.WriteString(`<selection activeCell="` + CellRef(0, fc) + `" activeCellId="0" pane="bottomLeft" sqref="` + CellRef(0, fc) + `"/>`)
		s.WriteString(`<selection activeCell="` + CellRef(fr, fc) + `" activeCellId="0" pane="bottomRight" sqref="` + CellRef(fr, fc) + `"/>`)
	case fr > 0:
		s.WriteString(`<pane activePane="bottomLeft" state="frozen" topLeftCell="` + CellRef(fr, 0) +
			`" ySplit="` + strconv.Itoa(fr) + `"/>`)
		s.WriteString(`<selection activeCell="` + CellRef(fr, 0) + `" activeCellId="0" pane="bottomLeft" sqref="` + CellRef(fr, 0) + `"/>`)
	case fc > 0:
		s.WriteString(`<pane activePane="topRight" state="frozen" topLeftCell="` + CellRef(0, fc) +
			`" xSplit="` + strconv.Itoa(fc) + `"/>`)
		s.WriteString(`<selection activeCell="` + CellRef(0, fc) + `" activeCellId="0" pane="topRight" sqref="` + CellRef(0, fc) + `"/>`)
	}
}

// WriteSheetHeader declares the named sheet's columns and, unless
// suppressed, writes the header row. It is a no-op when the sheet already
// exists: the prologue is on disk by then, so the header must come first.
func (w *Workbook) WriteSheetHeader(sheetName string, columns []Column, opts *HeaderOptions) {
	if sheetName == "" || len(columns) == 0 {
		w.logger.Debug("WriteSheetHeader skipped", "sheet", sheetName, "columns", len(columns))
		return
	}
	name := sanitizeSheetName(sheetName)
	if _, exists := w.sheets[name]; exists {
		w.logger.Debug("WriteSheetHeader skipped: sheet exists", "sheet", name)
		return
	}
	if opts == nil {
		opts = &HeaderOptions{}
	}
	sh, err := w.initSheet(name, opts)
	if err != nil {
		w.logger.Error("create sheet", "sheet", name, "error", err)
		return
	}

	for _, c := range columns {
		format := c.Format
		if format == "" {
			format = "GENERAL"
		}
		code := standardizeFormat(format)
		fi := w.formats.intern(code)
		sh.cols = append(sh.cols, colDef{
			formatIdx: fi,
			kind:      classifyFormat(code),
			styleIdx:  w.styles.intern(fi, nil),
		})
	}

	if !opts.SuppressRow {
		s := sh.stream
		s.WriteString(rowOpenTag(1, 0, false, false))
		for i, c := range columns {
			styleIdx := sh.cols[i].styleIdx
			if opts.Style != nil {
				styleIdx = w.styles.intern(0, opts.Style)
			}
			writeCell(s, 0, i, c.Name, kindString, styleIdx)
		}
		s.WriteString(`</row>`)
		sh.rowCount++
	}
	w.current = name
}

// WriteSheetRow appends one row. The sheet is created on first reference;
// columns beyond the declared set are synthesized as auto-typed. Writing
// to a finalized sheet is a logged no-op.
func (w *Workbook) WriteSheetRow(sheetName string, values []any, opts *RowOptions) {
	if sheetName == "" {
		w.logger.Debug("WriteSheetRow skipped: unnamed sheet")
		return
	}
	name := sanitizeSheetName(sheetName)
	sh, ok := w.sheets[name]
	if !ok {
		var err error
		if sh, err = w.initSheet(name, nil); err != nil {
			w.logger.Error("create sheet", "sheet", name, "error", err)
			return
		}
	}
	if sh.finalized {
		w.logger.Debug("WriteSheetRow skipped: sheet finalized", "sheet", name)
		return
	}
	for len(sh.cols) < len(values) {
		sh.cols = append(sh.cols, colDef{
			formatIdx: 0,
			kind:      kindAuto,
			styleIdx:  w.styles.intern(0, nil),
		})
	}

	var height float64
	var hidden, collapsed bool
	if opts != nil {
		height, hidden, collapsed = opts.Height, opts.Hidden, opts.Collapsed
	}
	s := sh.stream
	s.WriteString(rowOpenTag(sh.rowCount+1, height, hidden, collapsed))
	for i, v := range values {
		col := sh.cols[i]
		styleIdx := col.styleIdx
		if st := rowCellStyle(opts, i); st != nil {
			styleIdx = w.styles.intern(col.formatIdx, st)
		}
		writeCell(s, sh.rowCount, i, v, col.kind, styleIdx)
	}
	s.WriteString(`</row>`)
	sh.rowCount++
	w.current = name
}

func rowCellStyle(opts *RowOptions, col int) *Style {
	if opts == nil {
		return nil
	}
	if len(opts.ColumnStyles) > 0 {
		if col < len(opts.ColumnStyles) {
			return opts.ColumnStyles[col]
		}
		return nil
	}
	return opts.Style
}

func rowOpenTag(r int, height float64, hidden, collapsed bool) string {
	customHeight, ht := "false", "12.1"
	if height > 0 {
		customHeight, ht = "true", trimFloat(height)
	}
	return `<row collapsed="` + xmlBool(collapsed) + `" customFormat="false" customHeight="` + customHeight +
		`" hidden="` + xmlBool(hidden) + `" ht="` + ht + `" outlineLevel="0" r="` + strconv.Itoa(r) + `">`
}

// MarkMergedCell records a merge range from (startRow, startCol) to
// (endRow, endCol), zero-based inclusive. Overlaps are not validated.
func (w *Workbook) MarkMergedCell(sheetName string, startRow, startCol, endRow, endCol int) {
	if sheetName == "" {
		return
	}
	sh, ok := w.sheets[sanitizeSheetName(sheetName)]
	if !ok || sh.finalized {
		w.logger.Debug("MarkMergedCell skipped", "sheet", sheetName)
		return
	}
	sh.merges = append(sh.merges, CellRef(startRow, startCol)+":"+CellRef(endRow, endCol))
}

// WriteSheet writes a header (when columns are given), all rows, and
// finalizes the sheet in one call.
func (w *Workbook) WriteSheet(rows [][]any, sheetName string, columns []Column) {
	if len(columns) > 0 {
		w.WriteSheetHeader(sheetName, columns, nil)
	}
	for _, row := range rows {
		w.WriteSheetRow(sheetName, row, nil)
	}
	if sh, ok := w.sheets[sanitizeSheetName(sheetName)]; ok {
		if err := sh.finalize(); err != nil {
			w.logger.Error("finalize sheet", "sheet", sh.name, "error", err)
		}
	}
}

// finalize writes the sheet footer, patches the dimension placeholder
// with the true extent, and closes the stream. Re-entry is a no-op.
func (sh *Sheet) finalize() error {
	if sh.finalized {
		return nil
	}
	s := sh.stream
	s.WriteString(`</sheetData>`)

	maxCell := "A1"
	if sh.rowCount > 0 && len(sh.cols) > 0 {
		maxCell = CellRef(sh.rowCount-1, len(sh.cols)-1)
	}
	if sh.autoFilter {
		s.WriteString(`<autoFilter ref="A1:` + maxCell + `"/>`)
	}
	if len(sh.merges) > 0 {
		s.WriteString(`<mergeCells>`)
		for _, ref := range sh.merges {
			s.WriteString(`<mergeCell ref="` + ref + `"/>`)
		}
		s.WriteString(`</mergeCells>`)
	}
	s.WriteString(`<printOptions gridLines="false" gridLinesSet="true" headings="false" horizontalCentered="false" verticalCentered="false"/>`)
	s.WriteString(`<pageMargins bottom="1.0" footer="0.5" header="0.5" left="0.5" right="0.5" top="1.0"/>`)
	s.WriteString(`<pageSetup blackAndWhite="false" cellComments="none" copies="1" draft="false" firstPageNumber="1"` +
		` fitToHeight="1" fitToWidth="1" horizontalDpi="300" orientation="portrait" pageOrder="downThenOver"` +
		` paperSize="1" scale="100" useFirstPageNumber="true" usePrinterDefaults="false" verticalDpi="300"/>`)
	s.WriteString(`<headerFooter differentFirst="false" differentOddEven="false"><oddHeader/><oddFooter/></headerFooter>`)
	s.WriteString(`</worksheet>`)

	dim := `<dimension ref="A1:` + maxCell + `"/>`
	if pad := int(sh.dimEnd-sh.dimStart) - len(dim); pad >= 0 {
		if err := s.SeekTo(sh.dimStart); err == nil {
			s.WriteString(dim + strings.Repeat(" ", pad))
		}
	}
	sh.finalized = true
	return s.Close()
}

func xmlBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
