package csvimport

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

var (
	// ErrEmptyFile is returned when the CSV file has no content
	ErrEmptyFile = errors.New("CSV file is empty")

	// ErrInvalidEncoding is returned when the file is not valid UTF-8
	ErrInvalidEncoding = errors.New("invalid file encoding, expected UTF-8")

	// ErrMissingHeader is returned when the CSV file has no header row
	ErrMissingHeader = errors.New("CSV file missing header row")
)

// Parser reads header-mapped CSV rows. It strips a leading UTF-8 BOM and
// rejects non-UTF-8 content before any row is parsed.
type Parser struct {
	reader    *csv.Reader
	headers   []string
	headerMap map[string]int
	line      int
}

// NewParser wraps r and reads the header row. Header names are trimmed and
// lowercased, so lookups are case-insensitive.
func NewParser(r io.Reader) (*Parser, error) {
	buf := bufio.NewReader(r)

	head, err := buf.Peek(4096)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(head) == 0 {
		return nil, ErrEmptyFile
	}
	if len(head) >= 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
		_, _ = buf.Discard(3)
	} else if !utf8.Valid(head) {
		return nil, ErrInvalidEncoding
	}

	cr := csv.NewReader(buf)
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	p := &Parser{reader: cr, headerMap: make(map[string]int)}
	if err := p.readHeader(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) readHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	p.headers = make([]string, len(record))
	for i, h := range record {
		name := strings.ToLower(strings.TrimSpace(h))
		p.headers[i] = name
		p.headerMap[name] = i
	}
	p.line = 1
	return nil
}

// HasColumn reports whether the header row contains name
func (p *Parser) HasColumn(name string) bool {
	_, ok := p.headerMap[strings.ToLower(name)]
	return ok
}

// MissingColumns returns the required column names absent from the header
func (p *Parser) MissingColumns(required ...string) []string {
	var missing []string
	for _, name := range required {
		if !p.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Row is one data row keyed by lowercased header name
type Row struct {
	Line int
	data map[string]string
}

// Get returns the trimmed value of a column, empty when absent
func (r *Row) Get(name string) string {
	return r.data[strings.ToLower(name)]
}

// GetOrDefault returns the column value, or def when empty or absent
func (r *Row) GetOrDefault(name, def string) string {
	if v := r.Get(name); v != "" {
		return v
	}
	return def
}

func (r *Row) empty() bool {
	for _, v := range r.data {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadAll reads the remaining data rows, skipping fully empty ones. Row
// values are trimmed; short records leave the trailing columns empty.
func (p *Parser) ReadAll() ([]*Row, error) {
	var rows []*Row
	for {
		record, err := p.reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		p.line++
		if err != nil {
			return rows, fmt.Errorf("row %d: %w", p.line, err)
		}

		row := &Row{Line: p.line, data: make(map[string]string, len(p.headers))}
		for i, name := range p.headers {
			if i < len(record) {
				row.data[name] = strings.TrimSpace(record[i])
			} else {
				row.data[name] = ""
			}
		}
		if row.empty() {
			continue
		}
		rows = append(rows, row)
	}
}
