package parsing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MarkerConfig maps a platform tag to extra detection markers layered on
// top of the built-in ones. Detection markers are preliminary corpus
// knowledge, so operators can extend them without a rebuild.
type MarkerConfig map[string][]string

// LoadMarkers reads a YAML marker-overrides file:
//
//	camworks:
//	  - "[MACHINE_DEFAULTS]"
//	delmia:
//	  - "CATIA"
//
// A missing path returns an empty config. Tags outside the supported
// platform set are rejected so typos surface at startup.
func LoadMarkers(path string) (MarkerConfig, error) {
	if path == "" {
		return MarkerConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read markers file: %w", err)
	}

	var config MarkerConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse markers file: %w", err)
	}

	known := map[string]bool{
		PlatformCAMWorks:  true,
		PlatformDELMIA:    true,
		PlatformMastercam: true,
	}
	for tag := range config {
		if !known[tag] {
			return nil, fmt.Errorf("markers file references unknown platform %q", tag)
		}
	}

	return config, nil
}
