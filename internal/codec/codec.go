package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/user/promptlib/internal/db"
)

// Importer reads an import payload into records for db.Store.Import.
type Importer interface {
	Parse(r io.Reader) ([]db.PromptImport, error)
	Format() string
}

// Exporter writes a full library dump.
type Exporter interface {
	Export(prompts []db.Prompt, w io.Writer) error
	Format() string
}

// Codec is both directions of one format.
type Codec interface {
	Importer
	Exporter
}

// For returns the codec registered for format ("json", "yaml" or "yml").
func For(format string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// FormatFromPath guesses a format from a file extension, falling back to json.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}
