// Package export writes the kept list as comma-separated text.
package export

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kapu/icondeck/internal/constants"
	apperrors "github.com/kapu/icondeck/pkg/errors"
)

// Write emits the header followed by rows. Rows are expected to be escaped
// already (see deck.KeptCollection.ExportRows); cells are joined verbatim.
func Write(w io.Writer, rows [][]string) error {
	bw := bufio.NewWriter(w)

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(constants.ExportConfig.Header, ","))
	for _, row := range rows {
		lines = append(lines, strings.Join(row, ","))
	}

	if _, err := bw.WriteString(strings.Join(lines, "\n")); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteFile writes rows to dir/kept_personalities.csv and returns the path.
func WriteFile(dir string, rows [][]string) (string, error) {
	if len(rows) == 0 {
		return "", apperrors.NewValidationError("nothing to export", "rows", 0)
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", apperrors.NewExportError("failed to create export directory", dir, err)
	}

	path := filepath.Join(dir, constants.ExportConfig.FileName)
	tmp, err := os.CreateTemp(dir, ".kept-*.csv")
	if err != nil {
		return "", apperrors.NewExportError("failed to create export file", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, rows); err != nil {
		tmp.Close()
		return "", apperrors.NewExportError("failed to write export file", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", apperrors.NewExportError("failed to close export file", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", apperrors.NewExportError("failed to move export file into place", path, err)
	}
	return path, nil
}
