package v1_test

import (
	"context"
	"math"
	"net/http"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/breeew/stellar-api/internal/logic/v1"
	"github.com/breeew/stellar-api/pkg/errors"
	"github.com/breeew/stellar-api/pkg/journalgraph"
	"github.com/breeew/stellar-api/pkg/types"
)

func setupGraph(t *testing.T) (context.Context, *v1.GraphLogic, string, string) {
	c := setupCore(t)
	ctx, _ := userContext(t, c, "graph@example.org")
	journal := v1.NewJournalLogic(ctx, c)

	a, err := journal.Save(saveArgs("A", "Bone"))
	require.NoError(t, err)
	b, err := journal.Save(saveArgs("B", "Plants"))
	require.NoError(t, err)
	return ctx, v1.NewGraphLogic(ctx, c), a, b
}

func TestGraphConnect(t *testing.T) {
	_, graph, a, b := setupGraph(t)

	conn, err := graph.Connect(a, b, " builds on ", "")
	require.NoError(t, err)
	assert.Equal(t, "builds on", conn.Relationship)
	assert.Equal(t, journalgraph.DEFAULT_EDGE_TYPE, conn.EdgeType)

	g, err := graph.Graph()
	require.NoError(t, err)
	user := journalgraph.DeletableEdges(g.Edges)
	require.Len(t, user, 1)
	assert.Equal(t, journalgraph.UserEdgeID(a, b), user[0].ID)
	assert.Equal(t, "builds on", user[0].Label)

	// connecting again replaces the label
	_, err = graph.Connect(a, b, "contradicts", "straight")
	require.NoError(t, err)
	g, err = graph.Graph()
	require.NoError(t, err)
	user = journalgraph.DeletableEdges(g.Edges)
	require.Len(t, user, 1)
	assert.Equal(t, "contradicts", user[0].Label)
	assert.Equal(t, "straight", user[0].Type)

	categories := lo.Filter(g.Nodes, func(n journalgraph.Node, _ int) bool {
		return n.Type == journalgraph.NODE_TYPE_CATEGORY
	})
	assert.Len(t, categories, 2)
}

func TestGraphConnectInvalid(t *testing.T) {
	_, graph, a, b := setupGraph(t)

	cases := []struct {
		name           string
		source, target string
		label          string
		code           int
	}{
		{"self loop", a, a, "x", http.StatusBadRequest},
		{"category", journalgraph.CategoryNodeID("Bone"), b, "x", http.StatusBadRequest},
		{"no label", a, b, "  ", http.StatusBadRequest},
		{"missing target", a, "404", "x", http.StatusNotFound},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := graph.Connect(c.source, c.target, c.label, "")
			require.Error(t, err)
			assert.Equal(t, c.code, errors.HTTPCode(err))
		})
	}

	g, err := graph.Graph()
	require.NoError(t, err)
	assert.Empty(t, journalgraph.DeletableEdges(g.Edges))
}

func TestGraphDeleteEdge(t *testing.T) {
	_, graph, a, b := setupGraph(t)

	_, err := graph.Connect(a, b, "cites", "")
	require.NoError(t, err)

	require.NoError(t, graph.DeleteEdge(journalgraph.UserEdgeID(a, b)))
	assert.Equal(t, http.StatusNotFound, errors.HTTPCode(graph.DeleteEdge(journalgraph.UserEdgeID(a, b))))
	assert.Equal(t, http.StatusBadRequest, errors.HTTPCode(graph.DeleteEdge("edge-"+a)))
	assert.Equal(t, http.StatusBadRequest, errors.HTTPCode(graph.Disconnect(journalgraph.CategoryNodeID("Bone"), a)))

	g, err := graph.Graph()
	require.NoError(t, err)
	assert.Empty(t, journalgraph.DeletableEdges(g.Edges))
	// category edges survive
	assert.Len(t, g.Edges, 2)
}

func TestGraphMoveNode(t *testing.T) {
	_, graph, a, _ := setupGraph(t)

	require.NoError(t, graph.MoveNode(a, types.Position{X: 42, Y: -7}))

	g, err := graph.Graph()
	require.NoError(t, err)
	node, ok := lo.Find(g.Nodes, func(n journalgraph.Node) bool { return n.ID == a })
	require.True(t, ok)
	assert.Equal(t, types.Position{X: 42, Y: -7}, node.Position)

	assert.Equal(t, http.StatusBadRequest, errors.HTTPCode(graph.MoveNode(a, types.Position{X: math.NaN()})))
	assert.Equal(t, http.StatusBadRequest, errors.HTTPCode(graph.MoveNode(journalgraph.CategoryNodeID("Bone"), types.Position{})))
	assert.Equal(t, http.StatusNotFound, errors.HTTPCode(graph.MoveNode("404", types.Position{})))
}

func TestGraphConnectAcrossUsers(t *testing.T) {
	c := setupCore(t)
	aliceCtx, alice := userContext(t, c, "alice@example.org")
	bobCtx, bob := userContext(t, c, "bob@example.org")

	own, err := v1.NewJournalLogic(aliceCtx, c).Save(saveArgs("A", "Bone"))
	require.NoError(t, err)
	foreign, err := v1.NewJournalLogic(bobCtx, c).Save(saveArgs("B", "Plants"))
	require.NoError(t, err)

	graph := v1.NewGraphLogic(aliceCtx, c)
	for _, pair := range [][2]string{{own, foreign}, {foreign, own}} {
		_, err = graph.Connect(pair[0], pair[1], "cites", "")
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, errors.HTTPCode(err))
	}

	g, err := graph.Graph()
	require.NoError(t, err)
	assert.Empty(t, journalgraph.DeletableEdges(g.Edges))

	for _, user := range []string{alice, bob} {
		conns, err := c.Store().JournalConnectionStore().ListByUser(context.Background(), user)
		require.NoError(t, err)
		assert.Empty(t, conns)
	}
}
