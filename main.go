package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/aminshennan/portfolio/internal/config"
	"github.com/aminshennan/portfolio/internal/i18n"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "portfolio",
	Short:        "Bilingual portfolio website",
	Long:         "Serves the English/Arabic portfolio site and inspects its translation catalogs.",
	SilenceUsage: true,
}

var (
	localesDir string
	langFlag   string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&localesDir, "locales", "", "Directory of catalog files (overrides LOCALES_DIR; embedded catalogs when empty)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the environment and applies persistent flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if localesDir != "" {
		cfg.LocalesDir = localesDir
	}
	return cfg, nil
}

// loadTree loads catalogs from cfg.LocalesDir or the embedded copies.
func loadTree(cfg *config.Config) (i18n.Tree, error) {
	if cfg.LocalesDir != "" {
		return i18n.LoadDir(cfg.LocalesDir)
	}
	return i18n.LoadEmbedded()
}

// cliStore returns an initialized store switched to the --lang flag.
func cliStore(tree i18n.Tree) (*i18n.Store, error) {
	st := i18n.NewStore(tree)
	st.Initialize()
	if langFlag != "" {
		code, err := i18n.ParseCode(langFlag)
		if err != nil {
			return nil, fmt.Errorf("--lang %q: %w", langFlag, err)
		}
		st.SetLanguage(code)
	}
	return st, nil
}
