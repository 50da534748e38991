package person

import (
	"fmt"
	"regexp"
	"strings"
)

// Delimiters in priority order. The first one present in a line splits it.
var delimiters = []string{",", ";", "\t"}

// dateShape finds a date-looking substring in a whitespace-separated line.
var dateShape = regexp.MustCompile(`\d{1,2}[/.-]\d{1,2}[/.-](?:\d{4}|\d{2})|\d{4}[/.-]\d{1,2}[/.-]\d{1,2}`)

// Diagnostic describes a pasted line that could not be turned into a record.
type Diagnostic struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s (%s)", d.Line, d.Text, d.Reason)
}

// Outcome classifies a parse for reporting.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomePartial
	OutcomeNothingValid
	OutcomeEmptyInput
)

// IDSource assigns identities to parsed records.
type IDSource interface {
	Next() (string, int64)
}

// ParseOptions controls Parse.
type ParseOptions struct {
	// WhitespaceFallback enables the heuristic for lines with no
	// comma, semicolon or tab.
	WhitespaceFallback bool

	// IDs assigns identities. A fresh generator is used when nil.
	IDs IDSource
}

// ParseResult is the output of Parse.
type ParseResult struct {
	People      []Person     `json:"people"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`

	blank bool
}

// Outcome reports how the parse went as a whole.
func (r *ParseResult) Outcome() Outcome {
	switch {
	case r.blank:
		return OutcomeEmptyInput
	case len(r.People) == 0:
		return OutcomeNothingValid
	case len(r.Diagnostics) > 0:
		return OutcomePartial
	default:
		return OutcomeOK
	}
}

const (
	reasonTooFewFields = "expected name, birth date and document"
	reasonEmptyName    = "name is empty"
	reasonNoDelimiter  = "no comma, semicolon or tab"
)

// Parse turns pasted multi-line text into records, one candidate per line.
// Blank lines are skipped silently; lines that cannot be read become
// diagnostics and do not stop the rest of the input.
func Parse(text string, opts ParseOptions) *ParseResult {
	result := &ParseResult{blank: strings.TrimSpace(text) == ""}
	if result.blank {
		return result
	}

	ids := opts.IDs
	if ids == nil {
		ids = NewIDGenerator(0)
	}

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		fields, reason := splitLine(line, opts.WhitespaceFallback)
		if reason == "" && len(fields) < 3 {
			reason = reasonTooFewFields
		}
		if reason == "" && fields[0] == "" {
			reason = reasonEmptyName
		}
		if reason != "" {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Line:   i + 1,
				Text:   line,
				Reason: reason,
			})
			continue
		}

		id, seq := ids.Next()
		result.People = append(result.People, Person{
			ID:             id,
			Name:           fields[0],
			BirthDate:      NormalizeDate(fields[1]),
			DocumentNumber: fields[2],
			Seq:            seq,
		})
	}

	return result
}

// splitLine extracts fields from a trimmed, non-empty line. A non-empty
// reason means the line was rejected before field counting.
func splitLine(line string, whitespaceFallback bool) ([]string, string) {
	for _, d := range delimiters {
		if !strings.Contains(line, d) {
			continue
		}
		parts := strings.Split(line, d)
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, ""
	}

	if !whitespaceFallback {
		return nil, reasonNoDelimiter
	}
	return splitWhitespace(line), ""
}

// splitWhitespace guesses name, date and document from a line separated only
// by spaces. The document is always the last token. When a date-shaped
// substring exists it is the date and everything else is the name; otherwise
// the second-to-last token is taken as the date.
func splitWhitespace(line string) []string {
	tokens := strings.Fields(line)
	if len(tokens) < 3 {
		return tokens
	}

	document := tokens[len(tokens)-1]

	if date := dateShape.FindString(line); date != "" {
		rest := strings.TrimSpace(strings.TrimSuffix(line, document))
		rest = strings.Replace(rest, date, "", 1)
		name := strings.Join(strings.Fields(rest), " ")
		return []string{name, date, document}
	}

	date := tokens[len(tokens)-2]
	name := strings.Join(tokens[:len(tokens)-2], " ")
	return []string{name, date, document}
}
