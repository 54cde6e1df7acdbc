package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var embeddedLocales embed.FS

// LoadEmbedded loads the catalogs bundled with the binary.
func LoadEmbedded() (Tree, error) {
	return LoadFS(embeddedLocales, "locales")
}

// LoadDir loads catalogs from a directory on disk.
func LoadDir(dir string) (Tree, error) {
	return LoadFS(os.DirFS(dir), ".")
}

// LoadFS reads one catalog file per language from dir. Files are named
// after their code (en.yaml, ar.toml). YAML and TOML are accepted.
func LoadFS(fsys fs.FS, dir string) (Tree, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read catalog dir %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !isCatalogFile(entry.Name()) {
			continue
		}
		files = append(files, entry.Name())
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no catalog files found in %s", dir)
	}
	sort.Strings(files)

	tree := Tree{}
	for _, name := range files {
		ext := path.Ext(name)
		code, err := ParseCode(strings.TrimSuffix(name, ext))
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", name, err)
		}
		if _, exists := tree[code]; exists {
			return nil, fmt.Errorf("catalog %s: language %q already defined", name, code)
		}

		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", name, err)
		}
		root, err := decodeCatalog(ext, data)
		if err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", name, err)
		}
		tree[code] = root
	}

	if err := tree.Validate(); err != nil {
		return nil, err
	}
	return tree, nil
}

func isCatalogFile(name string) bool {
	switch path.Ext(name) {
	case ".yaml", ".yml", ".toml":
		return true
	}
	return false
}

func decodeCatalog(ext string, data []byte) (map[string]any, error) {
	root := map[string]any{}
	switch ext {
	case ".toml":
		if err := toml.Unmarshal(data, &root); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, err
		}
	}
	return root, nil
}

// Catalog holds the current Tree and lets a watcher swap it while
// requests read snapshots.
type Catalog struct {
	tree atomic.Pointer[Tree]
}

// NewCatalog returns a catalog serving tree.
func NewCatalog(tree Tree) *Catalog {
	c := &Catalog{}
	c.Replace(tree)
	return c
}

// Tree returns the current snapshot.
func (c *Catalog) Tree() Tree {
	if t := c.tree.Load(); t != nil {
		return *t
	}
	return Tree{}
}

// Replace installs a new tree for subsequent readers.
func (c *Catalog) Replace(tree Tree) {
	c.tree.Store(&tree)
}
