package xlsw

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Workbook is a streaming spreadsheet writer. Sheets are written row by
// row into per-sheet temp streams and only stitched into the container
// when one of the output operations runs, so memory stays flat no matter
// how many rows pass through.
//
// A Workbook is not safe for concurrent use; drive it from one goroutine.
// Call Close when done to remove the temp files it created.
type Workbook struct {
	title       string
	subject     string
	author      string
	company     string
	description string
	keywords    []string
	rightToLeft bool

	tempDir string
	logger  *slog.Logger

	sheets    map[string]*Sheet
	sheetList []*Sheet // creation order = tab order
	current   string

	formats *formatTable
	styles  *styleTable

	tempFiles []string
}

// New returns an empty workbook.
func New() *Workbook {
	return &Workbook{
		logger:  defaultLogger,
		sheets:  map[string]*Sheet{},
		formats: newFormatTable(),
		styles:  newStyleTable(),
	}
}

func (w *Workbook) SetTitle(s string)       { w.title = s }
func (w *Workbook) SetSubject(s string)     { w.subject = s }
func (w *Workbook) SetAuthor(s string)      { w.author = s }
func (w *Workbook) SetCompany(s string)     { w.company = s }
func (w *Workbook) SetDescription(s string) { w.description = s }
func (w *Workbook) SetKeywords(kw []string) { w.keywords = kw }

// SetRightToLeft makes every sheet view read right-to-left.
func (w *Workbook) SetRightToLeft(rtl bool) { w.rightToLeft = rtl }

// SetTempDir overrides where per-sheet streams are spooled. Defaults to
// the system temp directory.
func (w *Workbook) SetTempDir(dir string) { w.tempDir = dir }

// SetLogger replaces the workbook's logger. Nil restores the default.
func (w *Workbook) SetLogger(l *slog.Logger) {
	if l == nil {
		l = defaultLogger
	}
	w.logger = l
}

// tempFilename reserves a unique temp path and tracks it for cleanup.
func (w *Workbook) tempFilename() string {
	dir := w.tempDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "xlsw-"+uuid.NewString())
	w.tempFiles = append(w.tempFiles, path)
	return path
}

var sheetNameBlanks = strings.NewReplacer(
	`\`, " ", "/", " ", "?", " ", "*", " ", ":", " ", "[", " ", "]", " ",
)

// sanitizeSheetName blanks the characters the format forbids, caps the
// name at 31 runes, trims, and falls back to a generated name when
// nothing is left. Sheet names are never rejected, only repaired.
func sanitizeSheetName(name string) string {
	name = sheetNameBlanks.Replace(name)
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	name = strings.TrimSpace(strings.Trim(strings.TrimSpace(name), "'"))
	if name == "" {
		name = fmt.Sprintf("Sheet%d", 100+rand.IntN(900))
	}
	return name
}

// CountSheetRows reports the number of rows written to the named sheet so
// far. With an empty name it reports on the sheet written to most
// recently. Unknown sheets count zero.
func (w *Workbook) CountSheetRows(sheetName string) int {
	name := w.current
	if sheetName != "" {
		name = sanitizeSheetName(sheetName)
	}
	if sh, ok := w.sheets[name]; ok {
		return sh.rowCount
	}
	return 0
}

// Close finalizes any open sheets and removes every temp file the
// workbook created. Safe to call more than once and on all exit paths.
func (w *Workbook) Close() error {
	var firstErr error
	for _, sh := range w.sheetList {
		if err := sh.finalize(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, path := range w.tempFiles {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			w.logger.Warn("remove temp file", "path", path, "error", err)
		}
	}
	w.tempFiles = nil
	return firstErr
}
