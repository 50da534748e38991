package ops

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/hpungsan/roster/internal/errors"
	"github.com/hpungsan/roster/internal/person"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Format string // csv (default), json or text
	Path   string // optional, default: ~/.roster/exports/pessoas-<timestamp>.<ext>
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string        `json:"path"`
	Format     person.Format `json:"format"`
	Count      int           `json:"count"`
	ExportedAt int64         `json:"exported_at"`
}

// Export writes the collection to a file.
func Export(ctx context.Context, s *Session, input ExportInput) (*ExportOutput, error) {
	rendered, err := Render(ctx, s, RenderInput{Format: input.Format})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	exportPath := input.Path
	if exportPath == "" {
		exportPath, err = defaultExportPath(rendered.Format, now)
		if err != nil {
			return nil, err
		}
	}

	if err := ValidatePath(exportPath, rendered.Format, PathCheckWrite, s.cfg); err != nil {
		return nil, err
	}

	if err := writeFileAtomic(ctx, exportPath, rendered.Data); err != nil {
		return nil, err
	}

	logger().Info("people exported", "path", exportPath, "format", rendered.Format, "count", rendered.Count)

	return &ExportOutput{
		Path:       exportPath,
		Format:     rendered.Format,
		Count:      rendered.Count,
		ExportedAt: now.Unix(),
	}, nil
}

// RenderInput contains parameters for the Render operation.
type RenderInput struct {
	Format string // csv (default), json or text
}

// RenderOutput holds an export in memory.
type RenderOutput struct {
	Format      person.Format `json:"format"`
	Filename    string        `json:"filename"`
	ContentType string        `json:"content_type"`
	Count       int           `json:"count"`
	Data        []byte        `json:"-"`
}

// Render serializes the collection without touching disk.
func Render(ctx context.Context, s *Session, input RenderInput) (*RenderOutput, error) {
	format, err := person.ParseFormat(input.Format)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}
	if err := checkContext(ctx, "export"); err != nil {
		return nil, err
	}

	people := s.People()
	if len(people) == 0 {
		return nil, errors.NewNothingToExport()
	}

	data, err := person.Render(people, format)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return &RenderOutput{
		Format:      format,
		Filename:    "pessoas" + format.Extension(),
		ContentType: format.ContentType(),
		Count:       len(people),
		Data:        data,
	}, nil
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place, so an existing file survives a failed export.
func writeFileAtomic(ctx context.Context, path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := path + "." + hex.EncodeToString(randBytes) + ".tmp"

	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		if _, ok := errors.AsRoster(err); ok {
			return err
		}
		return errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return errors.NewInternal(err)
	}
	if err := file.Close(); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	if err := checkContext(ctx, "export"); err != nil {
		return err
	}

	// os.Rename follows a symlinked destination.
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidRequest("export path must not be a symlink")
	}

	// On Windows os.Rename fails when the destination exists; the existing
	// file is left in place rather than deleted first.
	if err := os.Rename(tempPath, path); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(path); statErr == nil {
				return errors.NewInvalidRequest("export destination already exists; choose a new path or delete the existing file")
			}
		}
		return errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return nil
}

// defaultExportPath returns ~/.roster/exports/pessoas-<timestamp>.<ext>.
func defaultExportPath(format person.Format, now time.Time) (string, error) {
	dir, err := DefaultExportsDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("pessoas-%s%s", now.Format("2006-01-02T150405"), format.Extension())
	return filepath.Join(dir, filename), nil
}
