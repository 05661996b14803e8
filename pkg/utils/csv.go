package utils

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"searchpattern-service/internal/domain/entity"
)

// Supported input encodings, in the order they are tried.
const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin-1"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText returns data as a Go string. Valid UTF-8 (with or without BOM)
// is used as is; anything else gets one Latin-1 attempt.
func DecodeText(data []byte) (string, string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), EncodingUTF8, nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", err
	}
	return string(decoded), EncodingLatin1, nil
}

// ReadCSV parses a comma separated file with a header row. Failures are
// reported as *entity.DecodeError naming source.
func ReadCSV(source string, data []byte) (*entity.Table, error) {
	text, _, err := DecodeText(data)
	if err != nil {
		return nil, &entity.DecodeError{Source: source, Err: err}
	}

	r := csv.NewReader(bytes.NewBufferString(text))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, &entity.DecodeError{Source: source, Err: errors.New("file is empty")}
	}
	if err != nil {
		return nil, &entity.DecodeError{Source: source, Err: err}
	}
	header = mangleHeader(header)

	rows := [][]string{}
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &entity.DecodeError{Source: source, Err: err}
		}
		if len(record) > len(header) {
			line, _ := r.FieldPos(0)
			return nil, &entity.DecodeError{
				Source: source,
				Err:    fmt.Errorf("line %d: expected %d fields, saw %d", line, len(header), len(record)),
			}
		}
		rows = append(rows, record)
	}

	return entity.NewTable(header, rows), nil
}

// WriteCSV writes the table with its header row.
func WriteCSV(w io.Writer, t *entity.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("csv: write rows: %w", err)
	}
	return nil
}

// mangleHeader names empty header cells "Unnamed: <i>" and suffixes repeated
// names with ".1", ".2", ... so every column can be addressed.
func mangleHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, name := range header {
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		candidate := name
		for {
			n, dup := seen[candidate]
			if !dup {
				break
			}
			seen[candidate] = n + 1
			candidate = name + "." + strconv.Itoa(n+1)
		}
		seen[candidate] = 0
		out[i] = candidate
	}
	return out
}
