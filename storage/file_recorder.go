package storage

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/sljivkov/pricelog/domain"
)

// FileRecorder appends newline terminated text lines to a single file.
// The file is opened in append mode for every call and closed afterwards,
// so lines already on disk are never rewritten.
type FileRecorder struct {
	path string
	mu   sync.Mutex
}

// NewFileRecorder creates a recorder for path. The file is created on first
// append if it does not exist.
func NewFileRecorder(path string) *FileRecorder {
	return &FileRecorder{path: path}
}

// Path returns the output file path
func (r *FileRecorder) Path() string {
	return r.path
}

// Append writes lines in order. Errors wrap domain.ErrFile.
func (r *FileRecorder) Append(ctx context.Context, lines ...string) (err error) {
	if len(lines) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("%w: failed to open %s: %v", domain.ErrFile, r.path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: failed to close %s: %v", domain.ErrFile, r.path, cerr)
		}
	}()

	buf := bufio.NewWriter(file)
	for _, line := range lines {
		if _, err := buf.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("%w: failed to write %s: %v", domain.ErrFile, r.path, err)
		}
	}

	if err := buf.Flush(); err != nil {
		return fmt.Errorf("%w: failed to flush %s: %v", domain.ErrFile, r.path, err)
	}

	return nil
}
