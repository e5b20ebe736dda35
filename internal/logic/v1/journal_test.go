package v1_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/breeew/stellar-api/internal/logic/v1"
	"github.com/breeew/stellar-api/pkg/errors"
	"github.com/breeew/stellar-api/pkg/types"
)

func saveArgs(title, category string) v1.SaveJournalEntryArgs {
	return v1.SaveJournalEntryArgs{
		Paper:    types.JournalPaper{Title: title, Summary: "s"},
		Category: types.JournalCategory{Name: category},
	}
}

func TestJournalSaveDuplicateTitle(t *testing.T) {
	c := setupCore(t)
	ctx, _ := userContext(t, c, "dup@example.org")
	logic := v1.NewJournalLogic(ctx, c)

	id, err := logic.Save(saveArgs("A", "X"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, err = logic.Save(saveArgs("A", "Y"))
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, errors.HTTPCode(err))

	list, err := logic.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, types.DEFAULT_CATEGORY_COLOR, list[0].Category.Color)

	_, err = logic.Save(saveArgs("B", "X"))
	require.NoError(t, err)
	list, err = logic.List()
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestJournalSaveValidate(t *testing.T) {
	c := setupCore(t)
	ctx, _ := userContext(t, c, "validate@example.org")
	logic := v1.NewJournalLogic(ctx, c)

	_, err := logic.Save(saveArgs("  ", "X"))
	assert.Equal(t, http.StatusBadRequest, errors.HTTPCode(err))

	_, err = logic.Save(saveArgs("A", ""))
	assert.Equal(t, http.StatusBadRequest, errors.HTTPCode(err))

	anonymous := v1.NewJournalLogic(context.Background(), c)
	_, err = anonymous.Save(saveArgs("A", "X"))
	assert.Equal(t, http.StatusUnauthorized, errors.HTTPCode(err))
}

func TestJournalScopedByUser(t *testing.T) {
	c := setupCore(t)
	ctxA, _ := userContext(t, c, "a@example.org")
	ctxB, _ := userContext(t, c, "b@example.org")

	id, err := v1.NewJournalLogic(ctxA, c).Save(saveArgs("A", "X"))
	require.NoError(t, err)

	// same title is fine for another user
	_, err = v1.NewJournalLogic(ctxB, c).Save(saveArgs("A", "X"))
	require.NoError(t, err)

	_, err = v1.NewJournalLogic(ctxB, c).Get(id)
	assert.Equal(t, http.StatusNotFound, errors.HTTPCode(err))
	assert.Equal(t, http.StatusNotFound, errors.HTTPCode(v1.NewJournalLogic(ctxB, c).Delete(id)))
}

func TestJournalGetRecordsView(t *testing.T) {
	c := setupCore(t)
	ctx, _ := userContext(t, c, "view@example.org")
	logic := v1.NewJournalLogic(ctx, c)

	id, err := logic.Save(saveArgs("A", "X"))
	require.NoError(t, err)

	_, err = logic.Get(id)
	require.NoError(t, err)
	entry, err := logic.Get(id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), entry.Metadata.ViewCount)
	assert.NotZero(t, entry.Metadata.LastViewed)
}

func TestJournalUpdate(t *testing.T) {
	c := setupCore(t)
	ctx, _ := userContext(t, c, "update@example.org")
	logic := v1.NewJournalLogic(ctx, c)

	id, err := logic.Save(v1.SaveJournalEntryArgs{
		Paper:    types.JournalPaper{Title: "A", Link: "https://example.org/a", Summary: "old"},
		Category: types.JournalCategory{Name: "X"},
	})
	require.NoError(t, err)
	_, err = logic.Save(saveArgs("B", "X"))
	require.NoError(t, err)

	err = logic.Update(id, v1.UpdateJournalEntryArgs{
		Paper:    &types.JournalPaper{Summary: "new", Tags: []string{"bone"}},
		Category: &types.JournalCategory{Name: "Y", Color: "#ff0000"},
		Position: &types.Position{X: 10, Y: 20},
	})
	require.NoError(t, err)

	entry, err := logic.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "A", entry.Paper.Title)
	assert.Equal(t, "https://example.org/a", entry.Paper.Link)
	assert.Equal(t, "new", entry.Paper.Summary)
	assert.Equal(t, []string{"bone"}, entry.Paper.Tags)
	assert.Equal(t, "Y", entry.Category.Name)
	require.NotNil(t, entry.Position)
	assert.Equal(t, types.Position{X: 10, Y: 20}, *entry.Position)

	err = logic.Update(id, v1.UpdateJournalEntryArgs{Paper: &types.JournalPaper{Title: "B"}})
	assert.Equal(t, http.StatusConflict, errors.HTTPCode(err))

	assert.Equal(t, http.StatusBadRequest, errors.HTTPCode(logic.Update(id, v1.UpdateJournalEntryArgs{})))
	assert.Equal(t, http.StatusNotFound, errors.HTTPCode(logic.Update("missing", v1.UpdateJournalEntryArgs{
		Position: &types.Position{X: 1, Y: 1},
	})))
}

func TestJournalAnnotation(t *testing.T) {
	c := setupCore(t)
	ctx, _ := userContext(t, c, "annotation@example.org")
	logic := v1.NewJournalLogic(ctx, c)

	id, err := logic.Save(saveArgs("A", "X"))
	require.NoError(t, err)

	_, err = logic.AddAnnotation(id, "first", false)
	require.NoError(t, err)
	_, err = logic.AddAnnotation(id, "second", true)
	require.NoError(t, err)

	_, err = logic.AddAnnotation(id, " ", false)
	assert.Equal(t, http.StatusBadRequest, errors.HTTPCode(err))
	_, err = logic.AddAnnotation("missing", "x", false)
	assert.Equal(t, http.StatusNotFound, errors.HTTPCode(err))

	entry, err := logic.Get(id)
	require.NoError(t, err)
	require.Len(t, entry.Annotations, 2)
	assert.Equal(t, "first", entry.Annotations[0].Text)
	assert.True(t, entry.Annotations[1].AIGenerated)
}

func TestJournalDeletePrunesConnections(t *testing.T) {
	c := setupCore(t)
	ctx, _ := userContext(t, c, "delete@example.org")
	journal := v1.NewJournalLogic(ctx, c)
	graph := v1.NewGraphLogic(ctx, c)

	a, err := journal.Save(saveArgs("A", "X"))
	require.NoError(t, err)
	b, err := journal.Save(saveArgs("B", "X"))
	require.NoError(t, err)

	_, err = graph.Connect(a, b, "builds on", "")
	require.NoError(t, err)
	_, err = graph.Connect(b, a, "cites", "")
	require.NoError(t, err)

	require.NoError(t, journal.Delete(b))
	assert.Equal(t, http.StatusNotFound, errors.HTTPCode(journal.Delete(b)))

	list, err := journal.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Connections)

	conns, err := c.Store().JournalConnectionStore().ListByUser(ctx, list[0].UserID)
	require.NoError(t, err)
	assert.Empty(t, conns)
}

func TestJournalIsSaved(t *testing.T) {
	c := setupCore(t)
	ctx, _ := userContext(t, c, "saved@example.org")
	logic := v1.NewJournalLogic(ctx, c)

	saved, _, err := logic.IsSaved("A")
	require.NoError(t, err)
	assert.False(t, saved)

	id, err := logic.Save(saveArgs("A", "X"))
	require.NoError(t, err)

	saved, savedID, err := logic.IsSaved(" A ")
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, id, savedID)
}
