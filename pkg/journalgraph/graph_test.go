package journalgraph_test

import (
	"encoding/json"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breeew/stellar-api/pkg/journalgraph"
	"github.com/breeew/stellar-api/pkg/types"
)

func entry(id, title, category string) types.JournalEntry {
	return types.JournalEntry{
		ID:       id,
		UserID:   "u1",
		Paper:    types.JournalPaper{Title: title},
		Category: types.JournalCategory{Name: category},
	}
}

func sampleEntries() []types.JournalEntry {
	return []types.JournalEntry{
		entry("1", "A", "X"),
		entry("2", "B", "X"),
		entry("3", "C", "Y"),
	}
}

func nodesOfType(g journalgraph.Graph, typ string) []journalgraph.Node {
	return lo.Filter(g.Nodes, func(n journalgraph.Node, _ int) bool {
		return n.Type == typ
	})
}

func userEdges(g journalgraph.Graph) []journalgraph.Edge {
	return lo.Filter(g.Edges, func(e journalgraph.Edge, _ int) bool {
		return e.Data.IsUserCreated
	})
}

func TestDeriveCategoriesAndPapers(t *testing.T) {
	g := journalgraph.Derive(sampleEntries())

	categories := nodesOfType(g, journalgraph.NODE_TYPE_CATEGORY)
	require.Len(t, categories, 2)
	assert.Equal(t, "category-X", categories[0].ID)
	assert.Equal(t, "category-Y", categories[1].ID)
	assert.Equal(t, types.Position{X: 100, Y: 100}, categories[0].Position)
	assert.Equal(t, types.Position{X: 350, Y: 100}, categories[1].Position)

	x := categories[0].Data.(*journalgraph.CategoryNodeData)
	assert.Equal(t, 2, x.Count)
	assert.Equal(t, types.DEFAULT_CATEGORY_COLOR, x.Color)

	assert.Len(t, nodesOfType(g, journalgraph.NODE_TYPE_PAPER), 3)
	assert.Len(t, g.Edges, 3)
	assert.Empty(t, userEdges(g))

	pairs := lo.Map(g.Edges, func(e journalgraph.Edge, _ int) [2]string {
		return [2]string{e.Source, e.Target}
	})
	assert.ElementsMatch(t, [][2]string{
		{"category-X", "1"},
		{"category-X", "2"},
		{"category-Y", "3"},
	}, pairs)
}

func TestDeriveOneCategoryEdgePerEntry(t *testing.T) {
	entries := sampleEntries()
	entries = append(entries, entry("4", "D", "Z"), entry("5", "E", "X"))
	g := journalgraph.Derive(entries)

	for _, e := range entries {
		incoming := lo.Filter(g.Edges, func(edge journalgraph.Edge, _ int) bool {
			return edge.Target == e.ID && journalgraph.IsCategoryNode(edge.Source)
		})
		require.Len(t, incoming, 1, e.ID)
		assert.Equal(t, journalgraph.CategoryNodeID(e.Category.Name), incoming[0].Source)

		outgoing := lo.Filter(g.Edges, func(edge journalgraph.Edge, _ int) bool {
			return edge.Source == e.ID && journalgraph.IsCategoryNode(edge.Target)
		})
		assert.Empty(t, outgoing)
	}
}

func TestDeriveIdempotent(t *testing.T) {
	entries := sampleEntries()
	entries[0].Connections = []types.JournalConnection{{TargetEntryID: "2", Relationship: "builds on"}}

	a, err := json.Marshal(journalgraph.Derive(entries))
	require.NoError(t, err)
	b, err := json.Marshal(journalgraph.Derive(entries))
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestDerivePositions(t *testing.T) {
	entries := sampleEntries()
	entries[2].Position = &types.Position{X: 12.5, Y: -40}
	g := journalgraph.Derive(entries)

	byID := lo.KeyBy(g.Nodes, func(n journalgraph.Node) string { return n.ID })

	assert.Equal(t, types.Position{X: 12.5, Y: -40}, byID["3"].Position)

	first, second := byID["1"].Position, byID["2"].Position
	assert.Equal(t, float64(300), first.Y)
	assert.Equal(t, float64(450), second.Y)
	for _, p := range []types.Position{first, second} {
		assert.GreaterOrEqual(t, p.X, float64(50))
		assert.Less(t, p.X, float64(150))
	}
}

func TestDeriveUserEdges(t *testing.T) {
	entries := sampleEntries()
	entries[0].Connections = []types.JournalConnection{
		{TargetEntryID: "2", Relationship: "builds on"},
		{TargetEntryID: "3", Relationship: "contradicts", EdgeType: "straight"},
		// dangling, target was removed
		{TargetEntryID: "404", Relationship: "gone"},
	}
	g := journalgraph.Derive(entries)

	edges := userEdges(g)
	require.Len(t, edges, 2)
	assert.Equal(t, "user-edge-1-2", edges[0].ID)
	assert.Equal(t, "builds on", edges[0].Label)
	assert.Equal(t, journalgraph.DEFAULT_EDGE_TYPE, edges[0].Type)
	assert.Equal(t, "straight", edges[1].Type)
	assert.True(t, journalgraph.IsUserEdge(edges[0]))

	// category edges are never deletable
	assert.Len(t, journalgraph.DeletableEdges(g.Edges), 2)
}

func TestDeriveCategoryColorFirstSeenWins(t *testing.T) {
	entries := sampleEntries()
	entries[0].Category.Color = "#ff0000"
	entries[1].Category.Color = "#00ff00"
	g := journalgraph.Derive(entries)

	x := nodesOfType(g, journalgraph.NODE_TYPE_CATEGORY)[0].Data.(*journalgraph.CategoryNodeData)
	assert.Equal(t, "#ff0000", x.Color)
	paper := lo.Filter(g.Nodes, func(n journalgraph.Node, _ int) bool { return n.ID == "2" })[0]
	assert.Equal(t, "#ff0000", paper.Data.(*journalgraph.PaperNodeData).CategoryColor)
}

func TestValidateConnect(t *testing.T) {
	ids := []string{"1", "2", "category-X", "category-Y"}
	for _, source := range ids {
		for _, target := range ids {
			err := journalgraph.ValidateConnect(source, target, "cites")
			switch {
			case journalgraph.IsCategoryNode(source) || journalgraph.IsCategoryNode(target):
				assert.ErrorIs(t, err, journalgraph.ErrCategoryNode, "%s -> %s", source, target)
			case source == target:
				assert.ErrorIs(t, err, journalgraph.ErrSelfLoop, "%s -> %s", source, target)
			default:
				assert.NoError(t, err)
			}
		}
	}

	assert.ErrorIs(t, journalgraph.ValidateConnect("1", "2", "  "), journalgraph.ErrLabelRequired)
	assert.ErrorIs(t, journalgraph.ValidateConnect("", "2", "cites"), journalgraph.ErrEmptyNode)
}

func TestParseUserEdgeID(t *testing.T) {
	source, target, ok := journalgraph.ParseUserEdgeID(journalgraph.UserEdgeID("171", "172"))
	assert.True(t, ok)
	assert.Equal(t, "171", source)
	assert.Equal(t, "172", target)

	_, _, ok = journalgraph.ParseUserEdgeID("edge-171")
	assert.False(t, ok)
	_, _, ok = journalgraph.ParseUserEdgeID("user-edge-171")
	assert.False(t, ok)
}
