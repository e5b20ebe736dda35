package dataset_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breeew/stellar-api/pkg/dataset"
)

const sample = `Title,Link,Tags
Microgravity effects on bone loss in mice,https://example.org/pmc/1,bone;mice
Plant growth aboard the ISS,https://example.org/pmc/2,plants
  Radiation and DNA repair  ,https://example.org/pmc/3,radiation; dna;dna

,,
`

func TestParse(t *testing.T) {
	d, err := dataset.Parse(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, 3, d.Total())

	p, err := d.FindByTitle("Radiation and DNA repair")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Index)
	assert.Equal(t, []string{"radiation", "dna"}, p.Tags)

	_, err = d.FindByTitle("unknown")
	assert.ErrorIs(t, err, dataset.ErrNotFound)

	_, err = d.Get(3)
	assert.ErrorIs(t, err, dataset.ErrInvalidIndex)

	p, ok := d.FindByLink("https://example.org/pmc/2")
	assert.True(t, ok)
	assert.Equal(t, "Plant growth aboard the ISS", p.Title)
}

func TestParseHeader(t *testing.T) {
	_, err := dataset.Parse(strings.NewReader("Name,Other\nx,y\n"))
	assert.Error(t, err)

	d, err := dataset.Parse(strings.NewReader("\ufefftitle,URL\nA,https://a\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, d.Total())
	assert.Equal(t, []string{"A"}, d.Titles())

	d, err = dataset.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, d.Total())
}

func TestLoadEmptyPath(t *testing.T) {
	d, err := dataset.Load("")
	require.NoError(t, err)
	assert.Equal(t, 0, d.Total())
}

func TestList(t *testing.T) {
	d, err := dataset.Parse(strings.NewReader(sample))
	require.NoError(t, err)

	list, total := d.List(dataset.Filter{Keywords: "BONE"}, 1, 10)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Microgravity effects on bone loss in mice", list[0].Title)

	list, total = d.List(dataset.Filter{Tags: []string{"DNA"}}, 1, 10)
	assert.Equal(t, 1, total)
	assert.Equal(t, 2, list[0].Index)

	list, total = d.List(dataset.Filter{}, 2, 2)
	assert.Equal(t, 3, total)
	assert.Len(t, list, 1)

	list, _ = d.List(dataset.Filter{}, 5, 2)
	assert.Empty(t, list)
}

func TestFindByTitles(t *testing.T) {
	d, err := dataset.Parse(strings.NewReader(sample))
	require.NoError(t, err)

	got := d.FindByTitles([]string{"Radiation and DNA repair", "missing", " Plant growth aboard the ISS "})
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Index)
	assert.Equal(t, 2, got[1].Index)
}
