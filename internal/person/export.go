package person

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Column headings shared by the CSV and text formats.
var exportHeader = []string{"Nome", "Data de Nascimento", "Número do Documento"}

// ParseFormat validates a user-supplied format name. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatJSON, FormatText:
		return f, nil
	case "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want csv, json or text)", s)
	}
}

// Extension returns the file extension for the format, with the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatText:
		return ".txt"
	default:
		return ".csv"
	}
}

// ContentType returns the MIME type used when serving the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json; charset=utf-8"
	case FormatText:
		return "text/plain; charset=utf-8"
	default:
		return "text/csv; charset=utf-8"
	}
}

// ExportRecord is one element of a JSON export.
// Seq is not exported.
type ExportRecord struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	BirthDate      string `json:"birthDate"`
	DocumentNumber string `json:"documentNumber"`
}

// ToExportRecord converts a Person for JSON export.
func ToExportRecord(p Person) ExportRecord {
	return ExportRecord{
		ID:             p.ID,
		Name:           p.Name,
		BirthDate:      p.BirthDate,
		DocumentNumber: p.DocumentNumber,
	}
}

// Render serializes people in the given format.
// CSV and text fields are joined without quoting.
func Render(people []Person, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return renderDelimited(people, ","), nil
	case FormatText:
		return renderDelimited(people, "\t"), nil
	case FormatJSON:
		return renderJSON(people)
	default:
		return nil, fmt.Errorf("unknown export format %q", f)
	}
}

func renderDelimited(people []Person, sep string) []byte {
	lines := make([]string, 0, len(people)+1)
	lines = append(lines, strings.Join(exportHeader, sep))
	for _, p := range people {
		lines = append(lines, strings.Join([]string{p.Name, DisplayDate(p.BirthDate), p.DocumentNumber}, sep))
	}
	return []byte(strings.Join(lines, "\n"))
}

func renderJSON(people []Person) ([]byte, error) {
	records := make([]ExportRecord, 0, len(people))
	for _, p := range people {
		records = append(records, ToExportRecord(p))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// DecodeExport reads a JSON export back into records. Identifiers in the
// file are ignored by callers that assign fresh ones.
func DecodeExport(data []byte) ([]ExportRecord, error) {
	var records []ExportRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("invalid export file: %w", err)
	}
	return records, nil
}
