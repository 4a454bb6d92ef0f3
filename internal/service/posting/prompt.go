package posting

import (
	"embed"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Defaults are applied to fields the provider leaves empty
type Defaults struct {
	ExperienceRequired string `yaml:"experience_required"`
	MaxSkills          int    `yaml:"max_skills"`
}

// Prompt is the extraction prompt loaded from config/prompt.yaml
type Prompt struct {
	System       string   `yaml:"system"`
	Instructions string   `yaml:"instructions"`
	Defaults     Defaults `yaml:"defaults"`
	MaxTokens    int      `yaml:"max_tokens"`
	Temperature  float64  `yaml:"temperature"`
}

// LoadPrompt reads the embedded prompt file
func LoadPrompt() (*Prompt, error) {
	data, err := configFiles.ReadFile("config/prompt.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt.yaml: %w", err)
	}

	var p Prompt
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prompt.yaml: %w", err)
	}
	if strings.TrimSpace(p.Instructions) == "" {
		return nil, fmt.Errorf("prompt.yaml: instructions are empty")
	}
	if p.MaxTokens <= 0 {
		p.MaxTokens = 1024
	}
	return &p, nil
}

// UserMessage fills the instructions template with the posting text
func (p *Prompt) UserMessage(posting string) string {
	return strings.NewReplacer(
		"{{max_skills}}", strconv.Itoa(p.Defaults.MaxSkills),
		"{{posting}}", posting,
	).Replace(p.Instructions)
}
