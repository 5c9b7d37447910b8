package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed profile.default.yaml
var defaultProfile []byte

// Profile is the static profile/résumé content served to the public site and
// used to brief the chat assistant.
type Profile struct {
	Name       string            `yaml:"name" json:"name"`
	Headline   string            `yaml:"headline" json:"headline"`
	Location   string            `yaml:"location" json:"location,omitempty"`
	Email      string            `yaml:"email" json:"email,omitempty"`
	About      string            `yaml:"about" json:"about"`
	Skills     []SkillGroup      `yaml:"skills" json:"skills"`
	Experience []Experience      `yaml:"experience" json:"experience"`
	Education  []Education       `yaml:"education" json:"education"`
	Links      map[string]string `yaml:"links" json:"links,omitempty"`
}

type SkillGroup struct {
	Category string   `yaml:"category" json:"category"`
	Items    []string `yaml:"items" json:"items"`
}

type Experience struct {
	Role    string `yaml:"role" json:"role"`
	Company string `yaml:"company" json:"company"`
	Period  string `yaml:"period" json:"period"`
	Summary string `yaml:"summary" json:"summary,omitempty"`
}

type Education struct {
	Degree      string `yaml:"degree" json:"degree"`
	Institution string `yaml:"institution" json:"institution"`
	Period      string `yaml:"period" json:"period"`
}

// LoadProfile reads the profile at path, or the embedded default when path is empty.
func LoadProfile(path string) (*Profile, error) {
	data := defaultProfile
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read profile %s: %w", path, err)
		}
		data = raw
	}
	return ParseProfile(data)
}

func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if p.Name == "" {
		return nil, fmt.Errorf("parse profile: name is required")
	}
	return &p, nil
}
