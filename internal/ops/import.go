package ops

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/hpungsan/roster/internal/errors"
	"github.com/hpungsan/roster/internal/person"
)

// MaxImportFileBytes caps the size of a JSON export read back by ImportJSON.
const MaxImportFileBytes = 10 << 20

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Text string // pasted lines: name, birth date, document
}

// ImportOutput contains the result of an import.
type ImportOutput struct {
	Imported    int                 `json:"imported"`
	Skipped     int                 `json:"skipped"`
	Diagnostics []person.Diagnostic `json:"diagnostics"`
	BatchID     string              `json:"batch_id"`
	Total       int                 `json:"total"`
	Message     string              `json:"message"`
}

// Import parses pasted text and appends every readable line.
// Unreadable lines are reported in Diagnostics and do not fail the import
// unless nothing at all could be read.
func Import(ctx context.Context, s *Session, input ImportInput) (*ImportOutput, error) {
	res := person.Parse(input.Text, person.ParseOptions{
		WhitespaceFallback: s.cfg.UseWhitespaceFallback(),
		IDs:                s.ids,
	})

	switch res.Outcome() {
	case person.OutcomeEmptyInput:
		return nil, errors.NewEmptyInput()
	case person.OutcomeNothingValid:
		return nil, errors.NewNothingValid(res.Diagnostics, len(res.Diagnostics))
	}

	return appendBatch(ctx, s, "import", res.People, res.Diagnostics)
}

// ImportJSONInput contains parameters for the ImportJSON operation.
type ImportJSONInput struct {
	Path string // required; a JSON export
}

// ImportJSON reads a JSON export file and appends its records with fresh
// identities. Field values are kept exactly as written in the file.
func ImportJSON(ctx context.Context, s *Session, input ImportJSONInput) (*ImportOutput, error) {
	if err := ValidatePath(input.Path, person.FormatJSON, PathCheckRead, s.cfg); err != nil {
		return nil, err
	}

	file, err := openFileNoFollowRead(input.Path)
	if err != nil {
		if _, ok := errors.AsRoster(err); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxImportFileBytes+1))
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to read import file: %w", err))
	}
	if len(data) > MaxImportFileBytes {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("import file exceeds %d bytes", MaxImportFileBytes))
	}

	return ImportJSONBytes(ctx, s, data)
}

// ImportJSONBytes is ImportJSON for an in-memory export.
func ImportJSONBytes(ctx context.Context, s *Session, data []byte) (*ImportOutput, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, errors.NewEmptyInput()
	}

	records, err := person.DecodeExport(data)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}
	if len(records) == 0 {
		return nil, errors.NewNothingValid([]person.Diagnostic{}, 0)
	}

	people := make([]person.Person, 0, len(records))
	for _, r := range records {
		people = append(people, s.ids.New(r.Name, r.BirthDate, r.DocumentNumber))
	}

	return appendBatch(ctx, s, "import", people, nil)
}

func appendBatch(ctx context.Context, s *Session, op string, people []person.Person, diags []person.Diagnostic) (*ImportOutput, error) {
	batchID := uuid.NewString()

	var total int
	err := s.mutate(ctx, op, func(cur []person.Person) ([]person.Person, error) {
		next := append(cur, people...)
		total = len(next)
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	if diags == nil {
		diags = []person.Diagnostic{}
	}

	logger().Info("people imported",
		"batch_id", batchID,
		"imported", len(people),
		"skipped", len(diags),
		"total", total)

	msg := fmt.Sprintf("imported %d people", len(people))
	if len(diags) > 0 {
		msg += fmt.Sprintf("; skipped %d unreadable line(s)", len(diags))
	}

	return &ImportOutput{
		Imported:    len(people),
		Skipped:     len(diags),
		Diagnostics: diags,
		BatchID:     batchID,
		Total:       total,
		Message:     msg,
	}, nil
}
