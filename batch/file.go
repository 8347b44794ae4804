package batch

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk form of a batch
type File struct {
	Concurrency int       `yaml:"concurrency"`
	Requests    []Request `yaml:"requests"`
}

// Load reads a batch file from path
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML batch document
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse batch file: %w", err)
	}

	if len(f.Requests) == 0 {
		return nil, fmt.Errorf("batch file contains no requests")
	}
	if f.Concurrency < 0 {
		return nil, fmt.Errorf("invalid concurrency: %d", f.Concurrency)
	}
	for i, req := range f.Requests {
		if req.Family == "" || req.Endpoint == "" {
			return nil, fmt.Errorf("request %d (%s): family and endpoint are required", i+1, req.Label())
		}
	}

	return &f, nil
}
