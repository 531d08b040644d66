// Package export writes project records and analytics reports out of the
// application: indented JSON files, the system clipboard and spreadsheets.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/metalcycle/lcastudio/internal/domain/project"
)

// Error reports a failed export. The exported record is never modified.
type Error struct {
	Target string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("export to %s failed: %v", e.Target, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

var whitespace = regexp.MustCompile(`\s+`)

// JSON serializes the record field for field, indented by two spaces.
func JSON(p project.Project) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, &Error{Target: "json", Err: err}
	}
	return data, nil
}

// FileName is the download name of a record: the lower-cased name with
// whitespace runs replaced by underscores, suffixed with _lca.json.
func FileName(p project.Project) string {
	name := p.Name
	if name == "" {
		name = "project"
	}
	return strings.ToLower(whitespace.ReplaceAllString(name, "_")) + "_lca.json"
}

// WriteFile writes the record to dir under FileName and returns the path.
func WriteFile(dir string, p project.Project) (string, error) {
	data, err := JSON(p)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, FileName(p))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &Error{Target: path, Err: err}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", &Error{Target: path, Err: err}
	}
	return path, nil
}

// Clipboard receives copied text.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard is the host clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// ToClipboard copies the record's JSON to cb, or to the system clipboard
// when cb is nil.
func ToClipboard(cb Clipboard, p project.Project) error {
	if cb == nil {
		cb = SystemClipboard{}
	}
	data, err := JSON(p)
	if err != nil {
		return err
	}
	if err := cb.WriteAll(string(data)); err != nil {
		return &Error{Target: "clipboard", Err: err}
	}
	return nil
}
