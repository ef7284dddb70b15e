package xlsw

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// getEncoding resolves an IANA/HTML charset name. Empty and UTF-8 names
// resolve to nil, meaning no transcoding.
func getEncoding(encName string) (encoding.Encoding, error) {
	encName = strings.ToLower(encName)
	if encName == "" || encName == "utf-8" || encName == "utf8" {
		return nil, nil
	}
	enc, err := htmlindex.Get(encName)
	if err != nil {
		err = fmt.Errorf("%q: %w", encName, err)
	}
	return enc, err
}

// WriteSheetFromCSV streams a whole CSV file into the named sheet. The
// first record becomes a bold header row, the rest become auto-typed
// rows, and the separator is sniffed from the leading bytes. encName
// names the file's charset; empty means UTF-8.
func (w *Workbook) WriteSheetFromCSV(sheetName, filename, encName string) error {
	enc, err := getEncoding(encName)
	if err != nil {
		return err
	}
	fh, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer fh.Close()
	r := io.Reader(fh)
	if enc != nil {
		r = enc.NewDecoder().Reader(r)
	}

	br := bufio.NewReaderSize(r, 1<<20)
	b, err := br.Peek(1024)
	if err != nil && len(b) == 0 {
		return err
	}
	// The separator is the first non-identifier, non-quote rune.
	sep := rune(',')
	for _, r := range string(b) {
		if r == '"' || r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) {
			continue
		}
		sep = r
		break
	}

	cr := csv.NewReader(br)
	cr.ReuseRecord = true
	cr.Comma = sep

	record, err := cr.Read()
	if err != nil {
		return fmt.Errorf("read csv header: %w", err)
	}
	cols := make([]Column, len(record))
	for i, name := range record {
		cols[i] = Column{Name: name, Format: "GENERAL"}
	}
	w.WriteSheetHeader(sheetName, cols, &HeaderOptions{
		AutoFilter: true,
		FreezeRows: 1,
		Style:      &Style{Font: &FontSpec{Bold: true}},
	})

	row := make([]any, 0, len(cols))
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read csv: %w", err)
		}
		row = row[:0]
		for _, field := range record {
			row = append(row, field)
		}
		w.WriteSheetRow(sheetName, row, nil)
	}
	return nil
}
