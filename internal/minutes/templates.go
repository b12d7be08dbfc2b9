package minutes

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TemplateSet maps meeting types to extra prompt guidance for minutes
// generation, loaded from a YAML file of the form:
//
//	types:
//	  standup: "Organize key points as yesterday / today / blockers."
//	  retrospective: "Group decisions into keep / stop / start."
type TemplateSet struct {
	Types map[string]string `yaml:"types"`
}

// LoadTemplates reads a template set from a YAML file
func LoadTemplates(path string) (*TemplateSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt templates %s: %w", path, err)
	}

	var set TemplateSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse prompt templates %s: %w", path, err)
	}

	return &set, nil
}

// GuidanceFor returns the guidance for a meeting type, empty when none is
// configured. Safe to call on a nil set
func (t *TemplateSet) GuidanceFor(meetingType string) string {
	if t == nil {
		return ""
	}
	return t.Types[meetingType]
}
