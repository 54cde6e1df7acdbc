package i18n

import (
	"log"
)

// Storage is the durable key-value slot holding a visitor's language
// preference. A nil Storage means there is no client context (for example
// a pre-render pass) and every persistence call becomes a no-op.
type Storage interface {
	// Load returns the raw stored value, if any. The value is untrusted.
	Load() (string, bool)
	// Save stores the code as its literal string.
	Save(value string) error
}

// Attributes are pushed to the document-level presentation context
// whenever the language is established or changes.
type Attributes struct {
	Lang Code
	Dir  Direction
	RTL  bool
}

// Presenter receives Attributes. The store never reads them back.
type Presenter interface {
	Present(Attributes)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(Attributes)

// Present calls f(a).
func (f PresenterFunc) Present(a Attributes) { f(a) }

// MissingKey describes a failed translation lookup.
type MissingKey struct {
	Key      string
	Language Code
}

// LogMissingKey is the default MissingKey handler.
func LogMissingKey(m MissingKey) {
	log.Printf("Translation key %q not found for language %q", m.Key, m.Language)
}

// Option configures a Store.
type Option func(*Store)

// WithStorage sets where the language preference is persisted.
func WithStorage(s Storage) Option {
	return func(st *Store) { st.storage = s }
}

// WithPresenter sets the receiver of lang/dir updates.
func WithPresenter(p Presenter) Option {
	return func(st *Store) { st.presenter = p }
}

// WithFallback sets the language used when nothing valid is persisted.
// Invalid codes are ignored.
func WithFallback(code Code) Option {
	return func(st *Store) {
		if code.Valid() {
			st.fallback = code
		}
	}
}

// WithMissingKeyHandler replaces the default log handler for missing keys.
// A nil handler silences the events.
func WithMissingKeyHandler(h func(MissingKey)) Option {
	return func(st *Store) { st.onMissing = h }
}

// Store is the single source of truth for one visitor's active language.
// It is not safe for concurrent use; create one per request or session.
// The Tree it reads is shared and never mutated.
type Store struct {
	tree      Tree
	language  Code
	fallback  Code
	loaded    bool
	storage   Storage
	presenter Presenter
	onMissing func(MissingKey)
}

// NewStore returns a store on the default language. Call Initialize before
// rendering localized content.
func NewStore(tree Tree, opts ...Option) *Store {
	s := &Store{
		tree:      tree,
		language:  DefaultCode,
		fallback:  DefaultCode,
		onMissing: LogMissingKey,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize restores the persisted preference. Invalid or absent values
// fall back to DefaultCode (or WithFallback). After it returns IsLoaded
// reports true.
func (s *Store) Initialize() {
	s.language = s.fallback
	if s.storage != nil {
		if raw, ok := s.storage.Load(); ok {
			if code, err := ParseCode(raw); err == nil {
				s.language = code
			}
		}
	}
	s.loaded = true
	s.present()
}

// IsLoaded reports whether Initialize has run.
func (s *Store) IsLoaded() bool {
	return s.loaded
}

// Language returns the active code.
func (s *Store) Language() Code {
	return s.language
}

// Direction is derived from the active code on every call.
func (s *Store) Direction() Direction {
	return s.language.Direction()
}

// SetLanguage switches to code. Unsupported codes are ignored. The
// in-memory state changes before the preference is written.
func (s *Store) SetLanguage(code Code) {
	if !code.Valid() {
		return
	}
	s.language = code

	if s.storage != nil {
		if err := s.storage.Save(string(code)); err != nil {
			log.Printf("Error saving language preference: %v", err)
		}
	}
	s.present()
}

// Translate resolves key against the active language. On failure it
// returns key itself and reports a MissingKey event.
func (s *Store) Translate(key string) any {
	if value, ok := s.tree.Lookup(s.language, key); ok {
		return value
	}
	if s.onMissing != nil {
		s.onMissing(MissingKey{Key: key, Language: s.language})
	}
	return key
}

// SafeTranslate behaves like Translate once the store is loaded and
// returns the empty string before that.
func (s *Store) SafeTranslate(key string) any {
	if !s.loaded {
		return ""
	}
	return s.Translate(key)
}

// Text resolves key and returns it when the leaf is a string. Any other
// leaf shape yields key, so templates always get printable text.
func (s *Store) Text(key string) string {
	if v, ok := s.Translate(key).(string); ok {
		return v
	}
	return key
}

// Attributes returns the presentation attributes of the active language.
func (s *Store) Attributes() Attributes {
	return Attributes{
		Lang: s.language,
		Dir:  s.Direction(),
		RTL:  s.language == Arabic,
	}
}

func (s *Store) present() {
	if s.presenter != nil {
		s.presenter.Present(s.Attributes())
	}
}
