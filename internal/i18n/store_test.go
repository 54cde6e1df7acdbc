package i18n

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStorage struct {
	value   string
	set     bool
	saves   int
	saveErr error
}

func (m *memoryStorage) Load() (string, bool) { return m.value, m.set }

func (m *memoryStorage) Save(value string) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.value, m.set = value, true
	return nil
}

func testTree() Tree {
	return Tree{
		English: {
			"hero": map[string]any{
				"title":    "Hello",
				"subtitle": "Data Scientist",
			},
			"about": map[string]any{
				"goals": []any{"Lead", "Learn"},
			},
			"experience": map[string]any{
				"timeline": []any{
					map[string]any{"title": "AI Engineer", "period": "04/2025 - Present"},
				},
			},
		},
		Arabic: {
			"hero": map[string]any{
				"title":    "مرحبا",
				"subtitle": "عالم بيانات",
			},
			"about": map[string]any{
				"goals": []any{"قيادة"},
			},
			"experience": map[string]any{
				"timeline": []any{},
			},
		},
	}
}

func TestDirection_RTLOnlyForArabic(t *testing.T) {
	for _, code := range Codes() {
		if code == Arabic {
			assert.Equal(t, RTL, code.Direction())
		} else {
			assert.Equal(t, LTR, code.Direction())
		}
	}
	assert.Equal(t, LTR, Code("fr").Direction())
}

func TestStore_DirectionFollowsLanguage(t *testing.T) {
	s := NewStore(testTree())
	s.Initialize()
	assert.Equal(t, LTR, s.Direction())

	s.SetLanguage(Arabic)
	assert.Equal(t, RTL, s.Direction())

	s.SetLanguage(English)
	assert.Equal(t, LTR, s.Direction())
}

func TestStore_TranslateResolvesLeaves(t *testing.T) {
	s := NewStore(testTree())
	s.Initialize()

	assert.Equal(t, "Hello", s.Translate("hero.title"))
	assert.Equal(t, []any{"Lead", "Learn"}, s.Translate("about.goals"))

	record, ok := s.Translate("hero").(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Data Scientist", record["subtitle"])
}

func TestStore_TranslateIndexesSequences(t *testing.T) {
	s := NewStore(testTree())
	s.Initialize()

	assert.Equal(t, "AI Engineer", s.Translate("experience.timeline.0.title"))
	assert.Equal(t, "Learn", s.Translate("about.goals.1"))
}

func TestStore_TranslateIsIdempotent(t *testing.T) {
	s := NewStore(testTree())
	s.Initialize()

	first := s.Translate("about.goals")
	second := s.Translate("about.goals")
	assert.Equal(t, first, second)
}

func TestStore_MissingKeyReturnsKeyAndReportsEvent(t *testing.T) {
	var events []MissingKey
	s := NewStore(testTree(), WithMissingKeyHandler(func(m MissingKey) {
		events = append(events, m)
	}))
	s.Initialize()

	assert.NotPanics(t, func() {
		assert.Equal(t, "does.not.exist", s.Translate("does.not.exist"))
	})
	require.Len(t, events, 1)
	assert.Equal(t, MissingKey{Key: "does.not.exist", Language: English}, events[0])
}

func TestStore_MissingKeyNeverPartiallyResolves(t *testing.T) {
	var events []MissingKey
	s := NewStore(testTree(), WithMissingKeyHandler(func(m MissingKey) {
		events = append(events, m)
	}))
	s.Initialize()

	// "hero.title" is a string, so descending into it must fail.
	assert.Equal(t, "hero.title.more", s.Translate("hero.title.more"))
	assert.Equal(t, "about.goals.7", s.Translate("about.goals.7"))
	assert.Len(t, events, 2)
}

func TestStore_MissingKeyDoesNotFallBackToEnglish(t *testing.T) {
	s := NewStore(testTree(), WithMissingKeyHandler(nil))
	s.Initialize()
	s.SetLanguage(Arabic)

	// Present in English only.
	assert.Equal(t, "experience.timeline.0.title", s.Translate("experience.timeline.0.title"))
}

func TestStore_PersistenceRoundTrip(t *testing.T) {
	storage := &memoryStorage{}
	s := NewStore(testTree(), WithStorage(storage))
	s.Initialize()
	s.SetLanguage(Arabic)

	reloaded := NewStore(testTree(), WithStorage(storage))
	reloaded.Initialize()

	assert.Equal(t, Arabic, reloaded.Language())
	assert.Equal(t, "مرحبا", reloaded.Translate("hero.title"))
}

func TestStore_InvalidPersistedValueFallsBack(t *testing.T) {
	for _, raw := range []string{"fr", "", "AR", " ar", "english"} {
		storage := &memoryStorage{value: raw, set: true}
		s := NewStore(testTree(), WithStorage(storage))
		s.Initialize()
		assert.Equal(t, English, s.Language(), "persisted %q", raw)
	}
}

func TestStore_SetLanguageIgnoresUnsupportedCodes(t *testing.T) {
	storage := &memoryStorage{}
	s := NewStore(testTree(), WithStorage(storage))
	s.Initialize()
	s.SetLanguage(Arabic)

	s.SetLanguage(Code("fr"))

	assert.Equal(t, Arabic, s.Language())
	assert.Equal(t, 1, storage.saves)
	assert.Equal(t, "ar", storage.value)
}

func TestStore_NilStorageIsNoop(t *testing.T) {
	s := NewStore(testTree())

	assert.NotPanics(t, func() {
		s.Initialize()
		s.SetLanguage(Arabic)
	})
	assert.Equal(t, Arabic, s.Language())
}

func TestStore_SaveFailureKeepsInMemoryLanguage(t *testing.T) {
	storage := &memoryStorage{saveErr: errors.New("quota exceeded")}
	s := NewStore(testTree(), WithStorage(storage))
	s.Initialize()

	s.SetLanguage(Arabic)

	assert.Equal(t, Arabic, s.Language())
	assert.Equal(t, RTL, s.Direction())
}

func TestStore_PresenterReceivesAttributes(t *testing.T) {
	var pushed []Attributes
	s := NewStore(testTree(), WithPresenter(PresenterFunc(func(a Attributes) {
		pushed = append(pushed, a)
	})))

	s.Initialize()
	s.SetLanguage(Arabic)
	s.SetLanguage(Code("xx"))

	require.Len(t, pushed, 2)
	assert.Equal(t, Attributes{Lang: English, Dir: LTR, RTL: false}, pushed[0])
	assert.Equal(t, Attributes{Lang: Arabic, Dir: RTL, RTL: true}, pushed[1])
}

func TestStore_IsLoadedAndSafeTranslate(t *testing.T) {
	s := NewStore(testTree())

	assert.False(t, s.IsLoaded())
	assert.Equal(t, "", s.SafeTranslate("hero.title"))

	s.Initialize()

	assert.True(t, s.IsLoaded())
	assert.Equal(t, "Hello", s.SafeTranslate("hero.title"))
}

func TestStore_TextOnlyReturnsStrings(t *testing.T) {
	s := NewStore(testTree(), WithMissingKeyHandler(nil))
	s.Initialize()

	assert.Equal(t, "Hello", s.Text("hero.title"))
	assert.Equal(t, "about.goals", s.Text("about.goals"))
	assert.Equal(t, "nope", s.Text("nope"))
}

func TestStore_WithFallbackOnlyAppliesWithoutPreference(t *testing.T) {
	s := NewStore(testTree(), WithFallback(Arabic))
	s.Initialize()
	assert.Equal(t, Arabic, s.Language())

	storage := &memoryStorage{value: "en", set: true}
	s = NewStore(testTree(), WithStorage(storage), WithFallback(Arabic))
	s.Initialize()
	assert.Equal(t, English, s.Language())

	s = NewStore(testTree(), WithFallback(Code("fr")))
	s.Initialize()
	assert.Equal(t, English, s.Language())
}
