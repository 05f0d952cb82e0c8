package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/user/promptlib/internal/db"
)

// JSONCodec reads and writes the snake_case JSON array used by export files.
type JSONCodec struct{}

func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

func (c *JSONCodec) Format() string {
	return "json"
}

// Parse decodes a JSON array of prompt records.
func (c *JSONCodec) Parse(r io.Reader) ([]db.PromptImport, error) {
	var records []db.PromptImport
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w: %w", db.ErrSerialization, err)
	}
	return records, nil
}

// Export writes prompts as an indented JSON array.
func (c *JSONCodec) Export(prompts []db.Prompt, w io.Writer) error {
	if prompts == nil {
		prompts = []db.Prompt{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(prompts); err != nil {
		return fmt.Errorf("failed to encode JSON: %w: %w", db.ErrSerialization, err)
	}
	return nil
}
