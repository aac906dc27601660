package curriculum

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/kpv/internal/topics"
)

//go:embed default.yaml
var defaultCurriculum []byte

// Default returns the built-in curriculum.
func Default() (*File, error) {
	f, err := Parse(defaultCurriculum)
	if err != nil {
		return nil, fmt.Errorf("parse built-in curriculum: %w", err)
	}
	return f, nil
}

// Load reads a curriculum file from disk. An empty path selects Default.
func Load(path string) (*File, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read curriculum: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse curriculum %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a curriculum document. Unknown fields are rejected so that
// typos such as "prerequisite" do not silently drop dependencies.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}
	if len(f.Topics) == 0 {
		return nil, fmt.Errorf("curriculum has no topics")
	}
	return &f, nil
}

// ToTopics converts definitions to store topics, preserving order.
func (f *File) ToTopics() []topics.Topic {
	out := make([]topics.Topic, len(f.Topics))
	for i, d := range f.Topics {
		out[i] = topics.Topic{
			ID:            d.ID,
			Title:         d.Title,
			Description:   d.Description,
			Prerequisites: append([]string(nil), d.Prerequisites...),
			Progress:      d.Progress,
		}
	}
	return out
}
