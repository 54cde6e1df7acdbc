package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func titles(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Item.Title
	}
	return out
}

func TestParsePeriodStart(t *testing.T) {
	date, ok := ParsePeriodStart("07/2023 - 10/2023")
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, time.July, 1, 0, 0, 0, 0, time.UTC), date)

	date, ok = ParsePeriodStart(" 04/2025 - Present")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), date)

	for _, period := range []string{
		"Summer Internship", "2019", "2023 - 2024", "ab/2020", "", "05/",
		"05/23 - Present", "1/2/2023", "01/99999999999", "01/+202",
	} {
		_, ok := ParsePeriodStart(period)
		assert.False(t, ok, "period %q", period)
	}
}

func TestDeriveDate_FallsBackToNow(t *testing.T) {
	n := Normalizer{Now: fixedClock}

	e := n.DeriveDate(Item{Title: "Award", Period: "2019", Kind: Award})

	assert.Equal(t, fixedNow, e.Date)
	assert.False(t, e.Parsed)
}

func TestDeriveDate_ExplicitDateIsKept(t *testing.T) {
	explicit := time.Date(2018, time.March, 3, 0, 0, 0, 0, time.UTC)
	n := Normalizer{Now: fixedClock}
	item := Item{Title: "Talk", Period: "01/2022 - 12/2022", Date: &explicit}

	first := n.DeriveDate(item)
	second := n.DeriveDate(first.Item)

	assert.Equal(t, explicit, first.Date)
	assert.Equal(t, explicit, second.Date)
}

func TestSortDescending_BasicOrdering(t *testing.T) {
	n := Normalizer{Now: fixedClock}
	items := []Item{
		{Title: "2022", Period: "01/2022 - 12/2022", Kind: Work},
		{Title: "2023", Period: "06/2023 - Present", Kind: Work},
		{Title: "2020", Period: "01/2020 - 12/2021", Kind: Work},
	}

	got := n.SortDescending(items)

	assert.Equal(t, []string{"2023", "2022", "2020"}, titles(got))
}

func TestSortDescending_UnparseableSortsFirst(t *testing.T) {
	n := Normalizer{Now: fixedClock}
	items := []Item{
		{Title: "Past", Period: "01/2024 - 02/2024", Kind: Work},
		{Title: "Internship", Period: "Summer Internship", Kind: Work},
	}

	got := n.SortDescending(items)

	assert.Equal(t, []string{"Internship", "Past"}, titles(got))
}

func TestSortDescending_StrictSortsUnparseableLast(t *testing.T) {
	n := Normalizer{Now: fixedClock, Strict: true}
	items := []Item{
		{Title: "Award", Period: "2019", Kind: Award},
		{Title: "Past", Period: "01/2020 - 02/2020", Kind: Work},
		{Title: "Recent", Period: "01/2024 - 02/2024", Kind: Work},
		{Title: "Club", Period: "2022 - 2024", Kind: Volunteer},
	}

	got := n.SortDescending(items)

	assert.Equal(t, []string{"Recent", "Past", "Award", "Club"}, titles(got))
}

func TestSortDescending_DoesNotMutateInput(t *testing.T) {
	n := Normalizer{Now: fixedClock}
	items := []Item{
		{Title: "A", Period: "01/2020 - 12/2020", Kind: Work, Skills: []string{"Go"}},
		{Title: "B", Period: "01/2023 - 12/2023", Kind: Work},
		{Title: "C", Period: "n/a", Kind: Award},
	}
	before := make([]Item, len(items))
	copy(before, items)
	firstSkills := &items[0].Skills[0]

	_ = n.SortDescending(items)

	assert.Equal(t, before, items)
	assert.Same(t, firstSkills, &items[0].Skills[0])
	for _, item := range items {
		assert.Nil(t, item.Date)
	}
}

func TestSortDescending_StableTieBreak(t *testing.T) {
	n := Normalizer{Now: fixedClock}
	items := []Item{
		{Title: "first", Period: "03/2021 - 04/2021", Kind: Work},
		{Title: "undated-1", Period: "Ongoing", Kind: Award},
		{Title: "second", Period: "03/2021 - 09/2021", Kind: Education},
		{Title: "undated-2", Period: "2019", Kind: Award},
		{Title: "third", Period: "03/2021", Kind: Volunteer},
	}

	got := n.SortDescending(items)

	assert.Equal(t, []string{"undated-1", "undated-2", "first", "second", "third"}, titles(got))
}

func TestSortDescending_MixedKindsScenario(t *testing.T) {
	n := Normalizer{Now: fixedClock}
	items := []Item{
		{Title: "B.Sc.", Period: "04/2020 - 07/2024", Kind: Education},
		{Title: "Intern", Period: "07/2023 - 10/2023", Kind: Work},
		{Title: "Award", Period: "2019", Kind: Award},
	}

	got := n.SortDescending(items)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"Award", "Intern", "B.Sc."}, titles(got))
	assert.Equal(t, fixedNow, got[0].Date)
	assert.Equal(t, time.Date(2023, time.July, 1, 0, 0, 0, 0, time.UTC), got[1].Date)
	assert.Equal(t, time.Date(2020, time.April, 1, 0, 0, 0, 0, time.UTC), got[2].Date)
}

func TestSortDescending_Empty(t *testing.T) {
	assert.Empty(t, Normalizer{}.SortDescending(nil))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate([]Item{{Title: "AI Engineer", Period: "04/2025 - Present", Kind: Work}}))

	err := Validate([]Item{
		{Title: "ok", Period: "2020", Kind: Award},
		{Title: "bad", Period: "2020", Kind: "hobby"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeline item 1")

	assert.Error(t, Validate([]Item{{Period: "2020", Kind: Work}}))
}
