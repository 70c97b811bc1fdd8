package scanner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func proj(name string, size int64, modified *time.Time) Project {
	return Project{
		Path:         "/src/" + name,
		Name:         name,
		Ecosystem:    "Node.js",
		Artifacts:    []Artifact{{Path: "/src/" + name + "/node_modules", Size: size}},
		LastModified: modified,
	}
}

func names(projects []Project) []string {
	out := make([]string, len(projects))
	for i, p := range projects {
		out[i] = p.Name
	}
	return out
}

func at(days int) *time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
	return &t
}

func TestSort_BySizeDescending(t *testing.T) {
	ps := []Project{proj("small", 10, nil), proj("big", 1000, nil), proj("mid", 100, nil)}
	Sort(ps, SortBySize)
	assert.Equal(t, []string{"big", "mid", "small"}, names(ps))
}

func TestSort_ByDateAscendingUnknownFirst(t *testing.T) {
	ps := []Project{proj("new", 1, at(30)), proj("unknown", 1, nil), proj("old", 1, at(1))}
	Sort(ps, SortByDate)
	assert.Equal(t, []string{"unknown", "old", "new"}, names(ps))
}

func TestSort_ByNameCaseInsensitive(t *testing.T) {
	ps := []Project{proj("Zebra", 1, nil), proj("alpha", 1, nil), proj("Bravo", 1, nil)}
	Sort(ps, SortByName)
	assert.Equal(t, []string{"alpha", "Bravo", "Zebra"}, names(ps))
}

func TestSort_StableForEqualKeys(t *testing.T) {
	ps := []Project{proj("first", 5, nil), proj("second", 5, nil), proj("third", 5, nil), proj("big", 9, nil)}
	Sort(ps, SortBySize)
	assert.Equal(t, []string{"big", "first", "second", "third"}, names(ps))

	Sort(ps, SortByDate)
	assert.Equal(t, []string{"big", "first", "second", "third"}, names(ps))
}

func TestParseSortKey(t *testing.T) {
	for in, want := range map[string]SortKey{"": SortBySize, "size": SortBySize, "Date": SortByDate, " name ": SortByName} {
		got, err := ParseSortKey(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseSortKey("score")
	assert.Error(t, err)
}

func TestFilterOlderThan(t *testing.T) {
	ps := []Project{proj("ancient", 1, at(0)), proj("fresh", 1, at(100)), proj("unknown", 1, nil)}
	got := FilterOlderThan(ps, *at(50))
	assert.Equal(t, []string{"ancient"}, names(got))
}

func TestTotalSize(t *testing.T) {
	ps := []Project{proj("a", 10, nil), proj("b", 32, nil)}
	assert.Equal(t, int64(42), TotalSize(ps))

	multi := Project{Artifacts: []Artifact{{Size: 100}, {Size: 50}}}
	assert.Equal(t, int64(150), multi.Size())
}
