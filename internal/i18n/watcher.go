package i18n

import (
	"log"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a Catalog from a directory whenever a catalog file in
// it is written, created or removed.
type Watcher struct {
	Dir string

	catalog *Catalog
	watcher *fsnotify.Watcher
	done    chan struct{}
	// onReload receives the result of every reload attempt.
	onReload func(Tree, error)
}

// NewWatcher creates a watcher for dir that feeds catalog.
func NewWatcher(dir string, catalog *Catalog, onReload func(Tree, error)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		Dir:      dir,
		catalog:  catalog,
		watcher:  fw,
		done:     make(chan struct{}),
		onReload: onReload,
	}, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.Dir); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Editors emit bursts of events per save.
	const debounce = 100 * time.Millisecond
	var pending time.Time
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isCatalogFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case now := <-ticker.C:
			if !pending.IsZero() && now.Sub(pending) >= debounce {
				pending = time.Time{}
				w.reload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Catalog watcher error: %v", err)
		}
	}
}

// reload keeps the previous tree when the new files do not load.
func (w *Watcher) reload() {
	tree, err := LoadDir(w.Dir)
	if err == nil {
		w.catalog.Replace(tree)
	}
	if w.onReload != nil {
		w.onReload(tree, err)
	}
}
