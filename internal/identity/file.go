package identity

import (
	"encoding/json"
	"fmt"
	"os"

	"farecard/internal/fare"
)

// FromFile builds a StaticDirectory from a JSON file mapping owner ids to
// riders. An empty path returns a small demo directory so the service runs
// out of the box.
func FromFile(path string) (*StaticDirectory, error) {
	if path == "" {
		return NewStaticDirectory(demoRiders()), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rider directory: %w", err)
	}

	var riders map[string]Rider
	if err := json.Unmarshal(data, &riders); err != nil {
		return nil, fmt.Errorf("parse rider directory: %w", err)
	}
	return NewStaticDirectory(riders), nil
}

func demoRiders() map[string]Rider {
	return map[string]Rider{
		"rider-001": {Name: "Ana Torres", Category: fare.CategoryAdult},
		"rider-002": {Name: "Luis Pérez", Category: fare.CategoryStudent},
		"rider-003": {Name: "Marta Ruiz", Category: fare.CategorySenior},
		"rider-004": {Name: "Jorge Díaz", Category: fare.CategoryDisabled},
	}
}
