package shop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall/lesson-booking-service/internal/model"
)

func queryLessons() []model.Lesson {
	return []model.Lesson{
		{ID: 1, Subject: "Mathematics", Location: "Hendon", Price: 100, Spaces: 5},
		{ID: 2, Subject: "English", Location: "Colindale", Price: 80, Spaces: 10},
		{ID: 3, Subject: "biology", Location: "Golders Green", Price: 90, Spaces: 5},
		{ID: 4, Subject: "Art", Location: "Brent Cross", Price: 60, Spaces: 3},
	}
}

func subjects(lessons []model.Lesson) []string {
	out := make([]string, len(lessons))
	for i, l := range lessons {
		out[i] = l.Subject
	}
	return out
}

func TestFilter_BlankTermMatchesAll(t *testing.T) {
	assert.Len(t, Filter(queryLessons(), ""), 4)
	assert.Len(t, Filter(queryLessons(), "   "), 4)
}

func TestFilter_SubjectAndLocationCaseInsensitive(t *testing.T) {
	got := Filter(queryLessons(), "BIO")
	require.Len(t, got, 1)
	assert.Equal(t, "biology", got[0].Subject)

	got = Filter(queryLessons(), "hendon")
	require.Len(t, got, 1)
	assert.Equal(t, "Mathematics", got[0].Subject)
}

func TestFilter_NumericSubstrings(t *testing.T) {
	// "10" matches price 100 and spaces 10 through their decimal string
	// forms.
	got := Filter(queryLessons(), "10")
	require.Len(t, got, 2)
	assert.Equal(t, []string{"Mathematics", "English"}, subjects(got))
}

func TestFilter_PreservesInputOrder(t *testing.T) {
	got := Filter(queryLessons(), "o")
	// Colindale, biology/Golders Green all contain "o"; order must follow
	// the input.
	var prev int64
	for _, l := range got {
		assert.Greater(t, l.ID, prev)
		prev = l.ID
	}
}

func TestSort_StringFieldCaseInsensitive(t *testing.T) {
	got := Sort(queryLessons(), SortBySubject, Ascending)
	assert.Equal(t, []string{"Art", "biology", "English", "Mathematics"}, subjects(got))
}

func TestSort_NumericDescending(t *testing.T) {
	got := Sort(queryLessons(), SortByPrice, Descending)
	assert.Equal(t, []string{"Mathematics", "biology", "English", "Art"}, subjects(got))
}

func TestSort_StableOnTies(t *testing.T) {
	lessons := []model.Lesson{
		{ID: 1, Subject: "C", Spaces: 5},
		{ID: 2, Subject: "A", Spaces: 5},
		{ID: 3, Subject: "B", Spaces: 5},
	}
	got := Sort(lessons, SortBySpaces, Ascending)
	// All tie on spaces, so the input order must survive.
	assert.Equal(t, []string{"C", "A", "B"}, subjects(got))

	got = Sort(lessons, SortBySpaces, Descending)
	assert.Equal(t, []string{"C", "A", "B"}, subjects(got))
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	lessons := queryLessons()
	Sort(lessons, SortByPrice, Descending)
	assert.Equal(t, "Mathematics", lessons[0].Subject)
}

func TestQuery_FilterThenSort(t *testing.T) {
	// The "5" term matches spaces 5 (Mathematics, biology); sorting by
	// price descending orders the filtered pair.
	got := Query(queryLessons(), "5", SortByPrice, Descending)
	assert.Equal(t, []string{"Mathematics", "biology"}, subjects(got))
}

func TestParseSortField(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want SortField
	}{
		{"subject", SortBySubject},
		{"LOCATION", SortByLocation},
		{" price ", SortByPrice},
		{"spaces", SortBySpaces},
	} {
		got, err := ParseSortField(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}

	_, err := ParseSortField("popularity")
	assert.Error(t, err)
}

func TestParseSortDirection(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want SortDirection
	}{
		{"", Ascending},
		{"asc", Ascending},
		{"ascending", Ascending},
		{"DESC", Descending},
		{"descending", Descending},
	} {
		got, err := ParseSortDirection(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}

	_, err := ParseSortDirection("sideways")
	assert.Error(t, err)
}
