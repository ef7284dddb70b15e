package xlsw

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/adnsv/srw/xml"
	"github.com/google/uuid"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
)

// ErrNoSheets is returned when packaging a workbook that has no sheets.
var ErrNoSheets = errors.New("workbook has no sheets")

// WriteToFile finalizes every sheet and packages the container at path,
// atomically replacing any existing file. On failure nothing at path is
// created or truncated.
func (w *Workbook) WriteToFile(path string) error {
	err := w.writeToFile(path)
	if err != nil {
		w.logger.Error("write workbook", "path", path, "error", err)
	}
	return err
}

func (w *Workbook) writeToFile(path string) error {
	if len(w.sheetList) == 0 {
		return ErrNoSheets
	}
	for _, sh := range w.sheetList {
		if err := sh.finalize(); err != nil {
			return fmt.Errorf("finalize sheet %q: %w", sh.name, err)
		}
	}
	if fi, err := os.Stat(path); err == nil {
		if fi.IsDir() {
			return fmt.Errorf("target %q is a directory", path)
		}
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			return fmt.Errorf("target exists and is not writable: %w", err)
		}
		f.Close()
	}

	// Build next to the target so the final rename is atomic.
	tmp := path + "." + uuid.NewString() + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	zs := newZipStorage(f)
	err = w.writeParts(zs)
	if cerr := zs.Close(); err == nil {
		err = cerr
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, path)
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// WriteTo packages the workbook into a private temp file and streams it
// to out, so the workbook implements io.WriterTo.
func (w *Workbook) WriteTo(out io.Writer) (int64, error) {
	tmp := w.tempFilename()
	if err := w.WriteToFile(tmp); err != nil {
		return 0, err
	}
	f, err := os.Open(tmp)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return io.Copy(out, f)
}

// Bytes packages the workbook and returns the raw container bytes.
func (w *Workbook) Bytes() ([]byte, error) {
	tmp := w.tempFilename()
	if err := w.WriteToFile(tmp); err != nil {
		return nil, err
	}
	return os.ReadFile(tmp)
}

// container part rendering

type relInfo struct {
	Type   string // schema type url
	Target string // relative path
}

// partWriter renders the generated metadata parts and tracks the content
// types and relationship graphs they accumulate.
type partWriter struct {
	out *zipStorage
	wb  *Workbook

	defaultTypes map[string]string
	partTypes    map[string]string
	globalRels   map[string]relInfo
	workbookRels map[string]relInfo

	lastGlobalID   int
	lastWorkbookID int
}

func (w *Workbook) writeParts(out *zipStorage) error {
	pw := &partWriter{
		out: out,
		wb:  w,
		defaultTypes: map[string]string{
			"xml":  "application/xml",
			"rels": "application/vnd.openxmlformats-package.relationships+xml",
		},
		partTypes:    map[string]string{},
		globalRels:   map[string]relInfo{},
		workbookRels: map[string]relInfo{},
	}

	// Styles first so it owns rId1 in the workbook rels, then the sheets
	// in creation order.
	if err := pw.writeStyles(); err != nil {
		return err
	}
	if err := pw.writeWorkbook(); err != nil {
		return err
	}
	if err := pw.writeCoreProperties(); err != nil {
		return err
	}
	if err := pw.writeAppProperties(); err != nil {
		return err
	}
	if err := pw.writeRels("/xl/_rels/workbook.xml.rels", pw.workbookRels); err != nil {
		return err
	}
	if err := pw.writeRels("/_rels/.rels", pw.globalRels); err != nil {
		return err
	}
	return pw.writeContentTypes()
}

func (pw *partWriter) nextGlobalID() string {
	pw.lastGlobalID++
	return fmt.Sprintf("rId%d", pw.lastGlobalID)
}

func (pw *partWriter) nextWorkbookID() string {
	pw.lastWorkbookID++
	return fmt.Sprintf("rId%d", pw.lastWorkbookID)
}

func (pw *partWriter) writeStyles() error {
	rid := pw.nextWorkbookID()
	abspath := "/xl/styles.xml"

	pw.partTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"
	pw.workbookRels[rid] = relInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles",
		Target: "styles.xml",
	}
	return pw.out.WriteBlob(abspath, renderStyles(pw.wb.formats, pw.wb.styles))
}

func (pw *partWriter) writeWorkbook() error {
	rid := pw.nextGlobalID()
	abspath := "/xl/workbook.xml"

	pw.partTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	pw.globalRels[rid] = relInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument",
		Target: "xl/workbook.xml",
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("workbook")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships")

	x.OTag("+fileVersion").Attr("appName", "Calc").CTag()
	x.OTag("+workbookPr").Attr("backupFile", "false").Attr("showObjects", "all").Attr("date1904", "false").CTag()
	x.OTag("+workbookProtection").CTag()

	x.OTag("+bookViews")
	x.OTag("+workbookView").
		Attr("activeTab", 0).
		Attr("firstSheet", 0).
		Attr("showHorizontalScroll", "true").
		Attr("showSheetTabs", "true").
		Attr("showVerticalScroll", "true").
		Attr("tabRatio", 212).
		Attr("windowHeight", 8192).
		Attr("windowWidth", 16384).
		Attr("xWindow", 0).
		Attr("yWindow", 0).
		CTag()
	x.CTag()

	x.OTag("+sheets")
	for i, sh := range pw.wb.sheetList {
		srid := pw.nextWorkbookID()
		x.OTag("+sheet").
			Attr("name", sh.name).
			Attr("sheetId", i+1).
			Attr("state", "visible").
			Attr("r:id", srid).
			CTag()

		relpath := "worksheets/" + sh.partName
		pw.partTypes["/xl/"+relpath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
		pw.workbookRels[srid] = relInfo{
			Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet",
			Target: relpath,
		}
		if err := pw.out.WriteFile("/xl/"+relpath, sh.tempPath); err != nil {
			return fmt.Errorf("copy sheet %q: %w", sh.name, err)
		}
	}
	x.CTag()

	var filtered []int
	for i, sh := range pw.wb.sheetList {
		if sh.autoFilter {
			filtered = append(filtered, i)
		}
	}
	if len(filtered) > 0 {
		x.OTag("+definedNames")
		for _, i := range filtered {
			sh := pw.wb.sheetList[i]
			lastRow, lastCol := 0, 0
			if sh.rowCount > 0 {
				lastRow = sh.rowCount - 1
			}
			if len(sh.cols) > 0 {
				lastCol = len(sh.cols) - 1
			}
			ref := "'" + strings.ReplaceAll(sh.name, "'", "''") + "'!" +
				CellRefAbs(0, 0) + ":" + CellRefAbs(lastRow, lastCol)
			x.OTag("+definedName").
				Attr("name", "_xlnm._FilterDatabase").
				Attr("localSheetId", i).
				Attr("hidden", 1).
				Write(ref).
				CTag()
		}
		x.CTag()
	}

	x.OTag("+calcPr").Attr("iterateCount", 100).Attr("refMode", "A1").Attr("iterate", "false").Attr("iterateDelta", 0.001).CTag()

	x.CTag()

	return pw.out.WriteBlob(abspath, bb.Bytes())
}

func (pw *partWriter) writeCoreProperties() error {
	rid := pw.nextGlobalID()
	abspath := "/docProps/core.xml"

	pw.partTypes[abspath] = "application/vnd.openxmlformats-package.core-properties+xml"
	pw.globalRels[rid] = relInfo{
		Type:   "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties",
		Target: "docProps/core.xml",
	}

	wb := pw.wb
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("cp:coreProperties")
	x.Attr("xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties")
	x.Attr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	x.Attr("xmlns:dcterms", "http://purl.org/dc/terms/")
	x.Attr("xmlns:dcmitype", "http://purl.org/dc/dcmitype/")
	x.Attr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")

	x.OTag("+dcterms:created")
	x.Attr("xsi:type", "dcterms:W3CDTF")
	x.Write(time.Now().UTC().Format(time.RFC3339))
	x.CTag()

	if wb.title != "" {
		x.OTag("+dc:title").String(wb.title).CTag()
	}
	if wb.subject != "" {
		x.OTag("+dc:subject").String(wb.subject).CTag()
	}
	if wb.author != "" {
		x.OTag("+dc:creator").String(wb.author).CTag()
	}
	if len(wb.keywords) > 0 {
		x.OTag("+cp:keywords").String(strings.Join(wb.keywords, ", ")).CTag()
	}
	if wb.description != "" {
		x.OTag("+dc:description").String(wb.description).CTag()
	}
	x.OTag("+cp:revision").Write(0).CTag()

	x.CTag()

	return pw.out.WriteBlob(abspath, bb.Bytes())
}

func (pw *partWriter) writeAppProperties() error {
	rid := pw.nextGlobalID()
	abspath := "/docProps/app.xml"

	pw.partTypes[abspath] = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	pw.globalRels[rid] = relInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties",
		Target: "docProps/app.xml",
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("Properties")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties")
	x.Attr("xmlns:vt", "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes")

	x.OTag("+TotalTime").Write(0).CTag()
	if pw.wb.company != "" {
		x.OTag("+Company").String(pw.wb.company).CTag()
	}

	x.CTag()

	return pw.out.WriteBlob(abspath, bb.Bytes())
}

func (pw *partWriter) writeRels(path string, rels map[string]relInfo) error {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("Relationships")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/package/2006/relationships")
	enumerate(rels, func(rid string, info relInfo) {
		x.OTag("+Relationship").Attr("Id", rid).Attr("Type", info.Type).Attr("Target", info.Target).CTag()
	})
	x.CTag()

	return pw.out.WriteBlob(path, bb.Bytes())
}

func (pw *partWriter) writeContentTypes() error {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("Types")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/package/2006/content-types")
	enumerate(pw.defaultTypes, func(ext, ctype string) {
		x.OTag("+Default").Attr("Extension", ext).Attr("ContentType", ctype).CTag()
	})
	enumerate(pw.partTypes, func(abspath, ctype string) {
		x.OTag("+Override").Attr("PartName", abspath).Attr("ContentType", ctype).CTag()
	})
	x.CTag()

	return pw.out.WriteBlob("[Content_Types].xml", bb.Bytes())
}

func enumerate[M ~map[K]V, K constraints.Ordered, V any](m M, callback func(k K, v V)) {
	keys := maps.Keys(m)
	slices.Sort(keys)
	for _, k := range keys {
		callback(k, m[k])
	}
}
