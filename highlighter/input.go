package highlighter

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// PassageRecord is one document to highlight, optionally carrying an
// identifier from the source file.
type PassageRecord struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
}

// PassageParseOptions selects which columns map to record fields when the
// input is delimited. Columns are addressed by header name or by #index.
type PassageParseOptions struct {
	IDColumn   string
	TextColumn string
}

// ParsePassages reads passages from a text, CSV or TSV file. Plain text
// files yield one passage per non-empty line.
func ParsePassages(path string, opts PassageParseOptions) ([]PassageRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return parseDelimitedPassages(path, ',', opts)
	case ".tsv":
		return parseDelimitedPassages(path, '\t', opts)
	default:
		return parsePlainTextPassages(path)
	}
}

func parsePlainTextPassages(path string) ([]PassageRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open text file: %w", err)
	}
	defer f.Close()
	var out []PassageRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := cleanCell(scanner.Text())
		if line == "" {
			continue
		}
		out = append(out, PassageRecord{Text: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan text file: %w", err)
	}
	return out, nil
}

func parseDelimitedPassages(path string, comma rune, opts PassageParseOptions) ([]PassageRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	reader := csv.NewReader(f)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(rows) == 0 {
		return nil, errors.New("empty passage file")
	}
	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = cleanCell(cell)
	}

	idCol, idFromHeader, err := resolveColumn(header, opts.IDColumn, []string{"id", "index"})
	if err != nil {
		return nil, err
	}
	textCol, textFromHeader, err := resolveColumn(header, opts.TextColumn, []string{"text", "context", "body", "passage"})
	if err != nil {
		return nil, err
	}
	start := 0
	if idFromHeader || textFromHeader {
		start = 1
	}
	if textCol < 0 {
		textCol = 0
	}

	records := make([]PassageRecord, 0, len(rows)-start)
	for _, row := range rows[start:] {
		rec := PassageRecord{}
		if idCol >= 0 && idCol < len(row) {
			rec.ID = cleanCell(row[idCol])
		}
		if textCol < len(row) {
			rec.Text = cleanCell(row[textCol])
		}
		if rec.Text == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// resolveColumn maps a "#N" or header-name selector to a column index. With
// no selector, the first header matching one of the default names wins; a
// miss means the file has no such column at all.
func resolveColumn(header []string, selector string, defaults []string) (int, bool, error) {
	selector = strings.TrimSpace(selector)
	if strings.HasPrefix(selector, "#") {
		idx, err := strconv.Atoi(selector[1:])
		if err != nil || idx < 0 {
			return -1, false, fmt.Errorf("invalid column selector %q", selector)
		}
		return idx, false, nil
	}
	if selector != "" {
		for i, col := range header {
			if strings.EqualFold(col, selector) {
				return i, true, nil
			}
		}
		return -1, false, fmt.Errorf("column %q not found in header", selector)
	}
	for i, col := range header {
		for _, cand := range defaults {
			if strings.EqualFold(col, cand) {
				return i, true, nil
			}
		}
	}
	return -1, false, nil
}

func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\ufeff")
	return v
}
