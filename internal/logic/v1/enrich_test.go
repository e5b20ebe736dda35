package v1_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breeew/stellar-api/internal/core/srv"
	v1 "github.com/breeew/stellar-api/internal/logic/v1"
	"github.com/breeew/stellar-api/internal/logic/v1/process"
	"github.com/breeew/stellar-api/pkg/types"
)

func TestSaveEnrichesLinkedEntry(t *testing.T) {
	page := paperServer(t, paperHTML)
	c := setupCore(t, srv.ApplyAIDriver("fake", &fakeAI{summary: "Mice lost bone."}))
	ctx, userID := userContext(t, c, "enrich@example.org")

	cancel := process.StartEnrichProcess(c, 1)
	t.Cleanup(cancel)

	id, err := v1.NewJournalLogic(ctx, c).Save(v1.SaveJournalEntryArgs{
		Paper:    types.JournalPaper{Title: "Bone loss in orbit", Link: page.URL},
		Category: types.JournalCategory{Name: "Bone"},
	})
	require.NoError(t, err)

	var entry *types.JournalEntry
	require.Eventually(t, func() bool {
		entry, err = c.Store().JournalEntryStore().Get(ctx, userID, id)
		return err == nil && entry.Paper.Summary != "" && len(entry.Annotations) == 1
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, "Mice lost bone.", entry.Paper.Summary)
	assert.Contains(t, entry.Paper.Content, "trabecular bone")
	require.Len(t, entry.Annotations, 1)
	assert.True(t, entry.Annotations[0].AIGenerated)
}

func TestEnrichKeepsUserSummary(t *testing.T) {
	page := paperServer(t, paperHTML)
	model := &fakeAI{summary: "generated"}
	c := setupCore(t, srv.ApplyAIDriver("fake", model))
	ctx, userID := userContext(t, c, "keep@example.org")

	cancel := process.StartEnrichProcess(c, 1)
	t.Cleanup(cancel)

	id, err := v1.NewJournalLogic(ctx, c).Save(v1.SaveJournalEntryArgs{
		Paper:    types.JournalPaper{Title: "Bone loss in orbit", Link: page.URL, Summary: "mine"},
		Category: types.JournalCategory{Name: "Bone"},
	})
	require.NoError(t, err)

	var entry *types.JournalEntry
	require.Eventually(t, func() bool {
		entry, err = c.Store().JournalEntryStore().Get(ctx, userID, id)
		return err == nil && entry.Paper.Content != ""
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, "mine", entry.Paper.Summary)
	assert.Empty(t, entry.Annotations)
}

func TestEnrichKeepsEditsMadeDuringScrape(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var startOnce, releaseOnce sync.Once
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startOnce.Do(func() { close(started) })
		<-release
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(paperHTML))
	}))
	t.Cleanup(page.Close)
	unblock := func() { releaseOnce.Do(func() { close(release) }) }
	t.Cleanup(unblock)

	c := setupCore(t, srv.ApplyAIDriver("fake", &fakeAI{summary: "Mice lost bone."}))
	ctx, userID := userContext(t, c, "edit@example.org")

	cancel := process.StartEnrichProcess(c, 1)
	t.Cleanup(cancel)

	journal := v1.NewJournalLogic(ctx, c)
	id, err := journal.Save(v1.SaveJournalEntryArgs{
		Paper:    types.JournalPaper{Title: "Old title", Link: page.URL},
		Category: types.JournalCategory{Name: "Bone"},
	})
	require.NoError(t, err)

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("scrape never reached the page")
	}

	require.NoError(t, journal.Update(id, v1.UpdateJournalEntryArgs{
		Paper: &types.JournalPaper{Title: "New title", Tags: []string{"mine"}},
	}))
	unblock()

	var entry *types.JournalEntry
	require.Eventually(t, func() bool {
		entry, err = c.Store().JournalEntryStore().Get(ctx, userID, id)
		return err == nil && entry.Paper.Content != "" && len(entry.Annotations) == 1
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, "New title", entry.Paper.Title)
	assert.Equal(t, []string{"mine"}, entry.Paper.Tags)
	assert.Equal(t, page.URL, entry.Paper.Link)
	assert.Contains(t, entry.Paper.Content, "trabecular bone")
	assert.Equal(t, "Mice lost bone.", entry.Paper.Summary)
}
