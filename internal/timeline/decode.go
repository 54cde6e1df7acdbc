package timeline

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// rawItem mirrors the catalog shape of experience and volunteer entries.
type rawItem struct {
	Title        string   `mapstructure:"title"`
	Company      string   `mapstructure:"company"`
	Institution  string   `mapstructure:"institution"`
	Organization string   `mapstructure:"organization"`
	Period       string   `mapstructure:"period"`
	Type         string   `mapstructure:"type"`
	Description  []string `mapstructure:"description"`
	Location     string   `mapstructure:"location"`
	Skills       []string `mapstructure:"skills"`
	Achievements []any    `mapstructure:"achievements"`
	KeyProjects  []string `mapstructure:"keyProjects"`
}

// FromTranslation decodes a translated sequence of records, such as the
// value of "experience.timeline", into items. Entries without a type get
// fallback as their kind.
func FromTranslation(value any, fallback Kind) ([]Item, error) {
	seq, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("timeline: expected a sequence, got %T", value)
	}

	var raws []rawItem
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &raws,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(seq); err != nil {
		return nil, fmt.Errorf("timeline: decode entries: %w", err)
	}

	items := make([]Item, 0, len(raws))
	for _, raw := range raws {
		kind := Kind(strings.TrimSpace(raw.Type))
		if kind == "" {
			kind = fallback
		}
		items = append(items, Item{
			Title:        raw.Title,
			Organization: firstNonEmpty(raw.Company, raw.Institution, raw.Organization),
			Period:       raw.Period,
			Kind:         kind,
			Description:  raw.Description,
			Location:     raw.Location,
			Skills:       raw.Skills,
			Achievements: achievementTexts(raw.Achievements),
			KeyProjects:  raw.KeyProjects,
		})
	}
	return items, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// achievementTexts accepts both plain strings and {text: ...} records.
func achievementTexts(values []any) []string {
	var out []string
	for _, v := range values {
		switch a := v.(type) {
		case string:
			out = append(out, a)
		case map[string]any:
			if text, ok := a["text"].(string); ok {
				out = append(out, text)
			}
		}
	}
	return out
}
