package codec

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/user/promptlib/internal/db"
)

// YAMLCodec reads and writes a YAML sequence of prompts with the same field
// names as the JSON format.
type YAMLCodec struct{}

func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Parse decodes a YAML sequence of prompt records. An empty document is an
// empty batch.
func (c *YAMLCodec) Parse(r io.Reader) ([]db.PromptImport, error) {
	var records []db.PromptImport
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return []db.PromptImport{}, nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w: %w", db.ErrSerialization, err)
	}
	return records, nil
}

// Export writes prompts as a YAML sequence.
func (c *YAMLCodec) Export(prompts []db.Prompt, w io.Writer) error {
	if prompts == nil {
		prompts = []db.Prompt{}
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(prompts); err != nil {
		return fmt.Errorf("failed to encode YAML: %w: %w", db.ErrSerialization, err)
	}
	return encoder.Close()
}
