// Package skills maps skill percentages and color classes to the shared
// level and accent tables used by every skill view.
package skills

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Level is a proficiency tier.
type Level int

const (
	Beginner Level = iota
	Intermediate
	Proficient
	Advanced
	Expert
)

var levelKeys = [...]string{"beginner", "intermediate", "proficient", "advanced", "expert"}

// String returns the English label.
func (l Level) String() string {
	switch l {
	case Beginner:
		return "Beginner"
	case Intermediate:
		return "Intermediate"
	case Proficient:
		return "Proficient"
	case Advanced:
		return "Advanced"
	case Expert:
		return "Expert"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// Key is the translation key holding the localized label.
func (l Level) Key() string {
	if l < Beginner || l > Expert {
		l = Beginner
	}
	return "skills.levels." + levelKeys[l]
}

// LevelFor maps a percentage onto the tier table: below 60 is Beginner,
// then one tier per ten points up to Expert at 90 and above.
func LevelFor(percentage int) Level {
	switch {
	case percentage >= 90:
		return Expert
	case percentage >= 80:
		return Advanced
	case percentage >= 70:
		return Proficient
	case percentage >= 60:
		return Intermediate
	}
	return Beginner
}

// accents is checked in order; the first contained name wins.
var accents = []string{"cyan", "pink", "purple", "yellow", "orange", "green", "blue", "red"}

// DefaultAccent is used for unrecognized color classes.
const DefaultAccent = "cyan"

// Accent extracts the accent name from a CSS class such as "bg-pink-500".
func Accent(colorClass string) string {
	for _, name := range accents {
		if strings.Contains(colorClass, name) {
			return name
		}
	}
	return DefaultAccent
}

// Skill is one bar in a skills view.
type Skill struct {
	Name       string `json:"name" mapstructure:"name"`
	Percentage int    `json:"percentage" mapstructure:"percentage"`
	Color      string `json:"color,omitempty" mapstructure:"color"`
	// Strength is the 1-10 rating used by soft skills.
	Strength int `json:"strength,omitempty" mapstructure:"strength"`
}

// Score is the percentage, or Strength scaled to a percentage when only a
// soft-skill strength is set.
func (s Skill) Score() int {
	if s.Percentage == 0 && s.Strength > 0 {
		return s.Strength * 10
	}
	return s.Percentage
}

// Level is the tier of the skill's score.
func (s Skill) Level() Level {
	return LevelFor(s.Score())
}

// Accent is the accent name of the skill's color class.
func (s Skill) Accent() string {
	return Accent(s.Color)
}

// FromTranslation decodes a translated sequence of skill records.
func FromTranslation(value any) ([]Skill, error) {
	seq, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("skills: expected a sequence, got %T", value)
	}
	var out []Skill
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(seq); err != nil {
		return nil, fmt.Errorf("skills: decode entries: %w", err)
	}
	return out, nil
}
