package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aminshennan/portfolio/internal/i18n"
	"github.com/aminshennan/portfolio/internal/projects"
	"github.com/aminshennan/portfolio/internal/skills"
	"github.com/aminshennan/portfolio/internal/timeline"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	colorAccent = lipgloss.Color("#22d3ee")
	colorMuted  = lipgloss.Color("#6b7280")
	colorWarn   = lipgloss.Color("#f59e0b")

	styleTitle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	styleMuted  = lipgloss.NewStyle().Foreground(colorMuted)
	styleWarn   = lipgloss.NewStyle().Foreground(colorWarn)
	styleHeader = lipgloss.NewStyle().Bold(true).Underline(true)
)

var translateCmd = &cobra.Command{
	Use:   "translate <key>",
	Short: "Resolve a dot-separated translation key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		tree, err := loadTree(cfg)
		if err != nil {
			return err
		}
		st, err := cliStore(tree)
		if err != nil {
			return err
		}

		value := st.Translate(args[0])
		if text, ok := value.(string); ok {
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		}
		out, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return fmt.Errorf("encode %s: %w", args[0], err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var (
	timelineStrict  bool
	timelineSection string
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Print the timeline newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		tree, err := loadTree(cfg)
		if err != nil {
			return err
		}
		st, err := cliStore(tree)
		if err != nil {
			return err
		}

		items, err := timelineItems(st, timelineSection)
		if err != nil {
			return fmt.Errorf("%s: %w", timelineSection, err)
		}
		n := timeline.Normalizer{Strict: timelineStrict || cfg.StrictTimeline}
		fmt.Fprintln(cmd.OutOrStdout(), renderTimeline(n.SortDescending(items)))
		return nil
	},
}

func renderTimeline(entries []timeline.Entry) string {
	var sb strings.Builder
	for _, e := range entries {
		when := e.Item.Period
		if !e.Parsed {
			when += " " + styleWarn.Render("(undated)")
		}
		sb.WriteString(styleTitle.Render(e.Item.Title))
		if e.Item.Organization != "" {
			sb.WriteString(" " + styleMuted.Render("@ "+e.Item.Organization))
		}
		sb.WriteString("\n  " + styleMuted.Render(string(e.Item.Kind)+" · ") + when + "\n")
		for _, a := range e.Item.Achievements {
			sb.WriteString("  - " + a + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate catalogs for parity and decodable sections",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		tree, err := loadTree(cfg)
		if err != nil {
			return err
		}
		problems := checkTree(tree)

		out := cmd.OutOrStdout()
		if len(problems) == 0 {
			fmt.Fprintln(out, styleTitle.Render("catalogs ok"))
			return nil
		}
		fmt.Fprintln(out, styleHeader.Render("Catalog problems"))
		for _, p := range problems {
			fmt.Fprintln(out, styleWarn.Render("  "+p))
		}
		return fmt.Errorf("%d catalog problem(s)", len(problems))
	},
}

// checkTree reports key gaps and sections that fail to decode.
func checkTree(tree i18n.Tree) []string {
	var problems []string
	for _, gap := range tree.Parity() {
		problems = append(problems, gap.String())
	}
	for _, code := range tree.Languages() {
		var missing []string
		st := i18n.NewStore(tree, i18n.WithMissingKeyHandler(func(m i18n.MissingKey) {
			missing = append(missing, m.Key)
		}))
		st.Initialize()
		st.SetLanguage(code)

		items, err := timelineItems(st, sectionAll)
		if err == nil {
			err = timeline.Validate(items)
		}
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s timeline: %v", code, err))
		}
		for _, key := range []string{"skills.technical", "skills.soft"} {
			if _, err := skills.FromTranslation(st.Translate(key)); err != nil {
				problems = append(problems, fmt.Sprintf("%s %s: %v", code, key, err))
			}
		}
		if _, err := projects.FromTranslation(st.Translate("projects.projectList")); err != nil {
			problems = append(problems, fmt.Sprintf("%s projects: %v", code, err))
		}
		for _, key := range missing {
			problems = append(problems, fmt.Sprintf("%s missing %q", code, key))
		}
	}
	return problems
}

func init() {
	for _, cmd := range []*cobra.Command{translateCmd, timelineCmd} {
		cmd.Flags().StringVar(&langFlag, "lang", "", "Language code (en or ar)")
	}
	timelineCmd.Flags().BoolVar(&timelineStrict, "strict", false, "Sort undated entries last")
	timelineCmd.Flags().StringVar(&timelineSection, "section", sectionAll, "experience, volunteer or all")

	rootCmd.AddCommand(translateCmd, timelineCmd, checkCmd)
}
