package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Options controls how a flat file is read into a Table.
type Options struct {
	// Delimiter for CSV. If 0, '\t' for .tsv files and ',' otherwise.
	Delimiter rune
	// MaxRows limits rows kept in memory; 0 means unlimited. Remaining rows are still counted.
	MaxRows int
	// MissingMarkers are cell texts (after trimming) treated as missing in
	// addition to empty cells, e.g. "?" in the census extract.
	MissingMarkers []string
	// Numeric parsing locale. DecimalSeparator 0 means '.'.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// XLSX sheet selection; SheetIndex is 1-based and used when SheetName is empty.
	SheetName  string
	SheetIndex int
	// Logger receives debug output; nil discards it.
	Logger *slog.Logger
}

// DefaultOptions returns reasonable defaults for census-style CSV files.
func DefaultOptions() Options {
	return Options{SheetIndex: 1}
}

// recordSource yields header then data records, returning io.EOF when exhausted.
type recordSource interface {
	Read() ([]string, error)
}

// Load reads path and returns a Table holding only columns, in that order.
// An empty columns list keeps every header column.
func Load(path string, columns []string, opt Options) (*Table, error) {
	logger := opt.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		src, err := openXLSX(path, opt.SheetName, opt.SheetIndex)
		if err != nil {
			return nil, err
		}
		logger.Debug("loading xlsx", "path", path, "sheet", opt.SheetName, "index", opt.SheetIndex)
		return build(path, src, columns, opt, false, logger)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &DataError{Reason: ReasonMissingFile, Path: path, Err: err}
		}
		return nil, &DataError{Reason: ReasonMalformed, Path: path, Detail: "open csv", Err: err}
	}
	defer f.Close()

	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.ReuseRecord = true
	r.TrimLeadingSpace = true
	r.Comma = delim
	// 0 pins every record to the header width
	r.FieldsPerRecord = 0
	logger.Debug("loading csv", "path", path, "delimiter", string(delim), "max_rows", opt.MaxRows)
	return build(path, r, columns, opt, true, logger)
}

func build(path string, src recordSource, columns []string, opt Options, strict bool, logger *slog.Logger) (*Table, error) {
	name := filepath.Base(path)
	header, err := src.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &DataError{Reason: ReasonEmptyTable, Path: name, Detail: "no header row"}
		}
		return nil, &DataError{Reason: ReasonMalformed, Path: name, Detail: "read header", Err: err}
	}
	headerIdx := make(map[string]int, len(header))
	srcCols := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		srcCols[i] = h
		if _, dup := headerIdx[h]; !dup {
			headerIdx[h] = i
		}
	}
	if len(columns) == 0 {
		columns = srcCols
	}
	picks := make([]int, len(columns))
	for i, c := range columns {
		idx, ok := headerIdx[c]
		if !ok {
			return nil, &DataError{Reason: ReasonMissingColumn, Path: name, Column: c, Detail: "not in header"}
		}
		picks[i] = idx
	}

	maxRows := opt.MaxRows
	var rows [][]Value
	seen := 0
	for {
		rec, err := src.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &DataError{Reason: ReasonMalformed, Path: name, Detail: fmt.Sprintf("read row %d", seen+1), Err: err}
		}
		seen++
		if maxRows > 0 && len(rows) >= maxRows {
			continue
		}
		if !strict && len(rec) < len(header) {
			tmp := make([]string, len(header))
			copy(tmp, rec)
			rec = tmp
		}
		row := make([]Value, len(picks))
		for j, idx := range picks {
			row[j] = parseValue(rec[idx], opt)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, &DataError{Reason: ReasonEmptyTable, Path: name, Detail: "no data rows"}
	}
	if len(rows) < seen {
		logger.Warn("row limit reached", "path", name, "kept", len(rows), "seen", seen)
	}
	logger.Debug("loaded table", "path", name, "rows", len(rows), "columns", len(columns))
	return newTable(name, columns, rows, seen)
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
