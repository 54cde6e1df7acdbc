// Package projects decodes the translated project list and pulls headline
// metrics out of its result strings.
package projects

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"

	"github.com/go-viper/mapstructure/v2"
)

// Project is one card in the projects section.
type Project struct {
	ID                  string   `json:"id" mapstructure:"id"`
	Title               string   `json:"title" mapstructure:"title"`
	Badge               string   `json:"badge" mapstructure:"badge"`
	Description         string   `json:"description" mapstructure:"description"`
	Tags                []string `json:"tags" mapstructure:"tags"`
	DetailedDescription string   `json:"detailedDescription,omitempty" mapstructure:"detailedDescription"`
	Challenges          []string `json:"challenges,omitempty" mapstructure:"challenges"`
	Solutions           []string `json:"solutions,omitempty" mapstructure:"solutions"`
	Results             []string `json:"results,omitempty" mapstructure:"results"`
	GithubURL           string   `json:"githubUrl,omitempty" mapstructure:"githubUrl"`
	LiveURL             string   `json:"liveUrl,omitempty" mapstructure:"liveUrl"`
	Image               string   `json:"image,omitempty" mapstructure:"image"`
	Featured            bool     `json:"featured,omitempty" mapstructure:"featured"`
}

// FromTranslation decodes the value of "projects.projectList". Featured
// projects move to the front; otherwise authoring order is kept.
func FromTranslation(value any) ([]Project, error) {
	seq, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("projects: expected a sequence, got %T", value)
	}
	var out []Project
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(seq); err != nil {
		return nil, fmt.Errorf("projects: decode entries: %w", err)
	}
	slices.SortStableFunc(out, func(a, b Project) int {
		switch {
		case a.Featured == b.Featured:
			return 0
		case a.Featured:
			return -1
		}
		return 1
	})
	return out, nil
}

// Metric is a number highlighted in a result line, like "95.36%".
type Metric struct {
	Value float64 `json:"value"`
	// Unit is "%", "+" or "x".
	Unit string `json:"unit"`
	Text string `json:"text"`
	// Source is the line the metric came from.
	Source string `json:"source"`
}

var metricPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)(%|\+|x\b)`)

// ExtractMetrics returns the first metric of each line that has one.
func ExtractMetrics(lines []string) []Metric {
	var out []Metric
	for _, line := range lines {
		m := metricPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		out = append(out, Metric{Value: value, Unit: m[2], Text: m[1] + m[2], Source: line})
	}
	return out
}

// Metrics collects metrics from the description and results of p.
func (p Project) Metrics() []Metric {
	return ExtractMetrics(append([]string{p.Description}, p.Results...))
}
