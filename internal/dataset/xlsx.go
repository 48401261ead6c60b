package dataset

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

// sheetSource reads rows of one worksheet as string records.
type sheetSource struct {
	dec    *xml.Decoder
	shared []string
	inRow  bool
	curRow []string
	maxCol int
}

// openXLSX resolves the requested worksheet of a workbook. If sheetName is empty,
// sheetIndex (1-based) selects the sheet; values <= 0 mean the first sheet.
func openXLSX(p string, sheetName string, sheetIndex int) (*sheetSource, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &DataError{Reason: ReasonMissingFile, Path: p, Err: err}
		}
		return nil, &DataError{Reason: ReasonMalformed, Path: p, Detail: "read xlsx", Err: err}
	}
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, &DataError{Reason: ReasonMalformed, Path: p, Detail: "open xlsx", Err: err}
	}
	sheets := parseWorkbook(readZipFile(zr, "xl/workbook.xml"))
	rels := parseRelationships(readZipFile(zr, "xl/_rels/workbook.xml.rels"))

	target := ""
	if sheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s.Name, sheetName) {
				if rel, ok := rels[s.RID]; ok {
					target = normalizeRelPath(rel)
				}
				break
			}
		}
		if target == "" {
			names := make([]string, len(sheets))
			for i, s := range sheets {
				names[i] = s.Name
			}
			return nil, &DataError{
				Reason: ReasonMalformed,
				Path:   filepath.Base(p),
				Detail: fmt.Sprintf("sheet %q not found (available: %s)", sheetName, strings.Join(names, ", ")),
			}
		}
	}
	if target == "" {
		idx := sheetIndex
		if idx <= 0 {
			idx = 1
		}
		for _, s := range sheets {
			if s.SheetID == idx {
				if rel, ok := rels[s.RID]; ok {
					target = normalizeRelPath(rel)
				}
				break
			}
		}
		if target == "" {
			target = path.Join("xl", "worksheets", fmt.Sprintf("sheet%d.xml", idx))
		}
	}
	sheetXML := readZipFile(zr, target)
	if sheetXML == nil {
		return nil, &DataError{Reason: ReasonMalformed, Path: filepath.Base(p), Detail: fmt.Sprintf("worksheet %s missing", target)}
	}
	shared := parseSharedStrings(readZipFile(zr, "xl/sharedStrings.xml"))
	return &sheetSource{dec: xml.NewDecoder(bytes.NewReader(sheetXML)), shared: shared}, nil
}

// Read returns the next row, or io.EOF after the last one.
func (r *sheetSource) Read() ([]string, error) {
	for {
		tok, err := r.dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, err
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "row" {
				r.inRow = true
				r.curRow = nil
				r.maxCol = 0
			}
			if r.inRow && se.Name.Local == "c" {
				var ref, typ string
				for _, a := range se.Attr {
					switch a.Name.Local {
					case "r":
						ref = a.Value
					case "t":
						typ = a.Value
					}
				}
				col := colIndexFromRef(ref)
				if col < 0 {
					col = len(r.curRow)
				}
				if col+1 > r.maxCol {
					r.maxCol = col + 1
				}
				val := r.readCellValue(typ)
				if len(r.curRow) <= col {
					tmp := make([]string, col+1)
					copy(tmp, r.curRow)
					r.curRow = tmp
				}
				r.curRow[col] = val
			}
		case xml.EndElement:
			if se.Name.Local == "row" {
				if len(r.curRow) < r.maxCol {
					tmp := make([]string, r.maxCol)
					copy(tmp, r.curRow)
					r.curRow = tmp
				}
				r.inRow = false
				return r.curRow, nil
			}
		}
	}
}

// readCellValue consumes tokens up to the end of a <c> element and returns its
// text, resolving shared-string references.
func (r *sheetSource) readCellValue(typ string) string {
	var val string
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return val
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "v" || se.Name.Local == "t" {
				var sb strings.Builder
				for {
					tk, er := r.dec.Token()
					if er != nil {
						break
					}
					if ed, ok := tk.(xml.EndElement); ok && (ed.Name.Local == "v" || ed.Name.Local == "t") {
						break
					}
					if ch, ok := tk.(xml.CharData); ok {
						sb.Write(ch)
					}
				}
				val = sb.String()
			}
		case xml.EndElement:
			if se.Name.Local == "c" {
				if typ == "s" {
					idx, err := strconv.Atoi(strings.TrimSpace(val))
					if err == nil && idx >= 0 && idx < len(r.shared) {
						return r.shared[idx]
					}
					return ""
				}
				return val
			}
		}
	}
}

// workbook parts are decoded declaratively; only the sheet rows stream.
type wbSheet struct {
	Name    string `xml:"name,attr"`
	SheetID int    `xml:"sheetId,attr"`
	RID     string `xml:"id,attr"`
}

type workbookPart struct {
	Sheets []wbSheet `xml:"sheets>sheet"`
}

type relsPart struct {
	Rels []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

type sharedStringsPart struct {
	Items []struct {
		Text string   `xml:"t"`
		Runs []string `xml:"r>t"`
	} `xml:"si"`
}

func parseWorkbook(data []byte) []wbSheet {
	var wb workbookPart
	if len(data) == 0 || xml.Unmarshal(data, &wb) != nil {
		return nil
	}
	return wb.Sheets
}

// parseRelationships maps relationship ids to their targets.
func parseRelationships(data []byte) map[string]string {
	out := map[string]string{}
	var rp relsPart
	if len(data) == 0 || xml.Unmarshal(data, &rp) != nil {
		return out
	}
	for _, r := range rp.Rels {
		if r.ID != "" && r.Target != "" {
			out[r.ID] = r.Target
		}
	}
	return out
}

// parseSharedStrings flattens rich-text runs; phonetic hints are dropped.
func parseSharedStrings(data []byte) []string {
	var sp sharedStringsPart
	if len(data) == 0 || xml.Unmarshal(data, &sp) != nil {
		return nil
	}
	out := make([]string, len(sp.Items))
	for i, it := range sp.Items {
		out[i] = it.Text + strings.Join(it.Runs, "")
	}
	return out
}

// readZipFile returns nil when the entry is absent or unreadable.
func readZipFile(zr *zip.Reader, name string) []byte {
	b, err := fs.ReadFile(zr, name)
	if err != nil {
		return nil
	}
	return b
}

// colIndexFromRef turns a cell reference like "C12" into a 0-based column
// index; a reference without letters yields -1.
func colIndexFromRef(ref string) int {
	idx := 0
	for _, c := range ref {
		switch {
		case c >= 'A' && c <= 'Z':
			idx = idx*26 + int(c-'A') + 1
		case c >= 'a' && c <= 'z':
			idx = idx*26 + int(c-'a') + 1
		default:
			return idx - 1
		}
	}
	return idx - 1
}

// normalizeRelPath converts a relationship target to a zip entry name. Targets
// are relative to xl/ unless they start with a slash.
func normalizeRelPath(rel string) string {
	if strings.HasPrefix(rel, "/") {
		rel = strings.TrimPrefix(rel, "/")
		if !strings.HasPrefix(rel, "xl/") {
			rel = path.Join("xl", rel)
		}
		return path.Clean(rel)
	}
	if strings.HasPrefix(rel, "xl/") {
		return path.Clean(rel)
	}
	return path.Join("xl", rel)
}
