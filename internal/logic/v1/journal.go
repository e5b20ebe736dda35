package v1

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/breeew/stellar-api/internal/core"
	"github.com/breeew/stellar-api/internal/logic/v1/process"
	"github.com/breeew/stellar-api/internal/store"
	"github.com/breeew/stellar-api/pkg/errors"
	"github.com/breeew/stellar-api/pkg/i18n"
	"github.com/breeew/stellar-api/pkg/types"
)

type JournalLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewJournalLogic(ctx context.Context, core *core.Core) *JournalLogic {
	l := &JournalLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: setupUserInfo(ctx, core),
	}

	return l
}

// entryStoreError maps store failures of journal entries to api errors.
func entryStoreError(trace string, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return errors.New(trace, i18n.ERROR_NOTFOUND, err).Code(http.StatusNotFound)
	case errors.Is(err, store.ErrDuplicateKey):
		return errors.New(trace, i18n.ERROR_TITLE_EXIST, err).Code(http.StatusConflict)
	default:
		return errors.New(trace, i18n.ERROR_INTERNAL, err)
	}
}

type SaveJournalEntryArgs struct {
	Paper       types.JournalPaper
	Category    types.JournalCategory
	Annotations types.Annotations
	Position    *types.Position
}

func normalizeCategory(c *types.JournalCategory) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Color == "" {
		c.Color = types.DEFAULT_CATEGORY_COLOR
	}
}

func (l *JournalLogic) Save(args SaveJournalEntryArgs) (string, error) {
	userID, err := l.mustUser("JournalLogic.Save")
	if err != nil {
		return "", err
	}

	args.Paper.Title = strings.TrimSpace(args.Paper.Title)
	normalizeCategory(&args.Category)
	if args.Paper.Title == "" || args.Category.Name == "" {
		return "", errors.New("JournalLogic.Save.Validate", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}
	if args.Position != nil {
		if err = args.Position.Validate(); err != nil {
			return "", errors.New("JournalLogic.Save.Position", i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest)
		}
	}

	now := time.Now().Unix()
	for i := range args.Annotations {
		if args.Annotations[i].CreatedAt == 0 {
			args.Annotations[i].CreatedAt = now
		}
	}

	id, err := l.core.Store().JournalEntryStore().Create(l.ctx, types.JournalEntry{
		UserID:      userID,
		Paper:       args.Paper,
		Category:    args.Category,
		Annotations: args.Annotations,
		Position:    args.Position,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return "", entryStoreError("JournalLogic.Save.JournalEntryStore.Create", err)
	}

	if args.Paper.Link != "" && (args.Paper.Content == "" || args.Paper.Summary == "") {
		process.NewEnrichRequest(userID, id)
	}
	return id, nil
}

// loadJournal lists the entries of userID with their outgoing connections.
func loadJournal(ctx context.Context, core *core.Core, userID string) ([]types.JournalEntry, error) {
	entries, err := core.Store().JournalEntryStore().List(ctx, userID)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("loadJournal.JournalEntryStore.List", i18n.ERROR_INTERNAL, err)
	}

	conns, err := core.Store().JournalConnectionStore().ListByUser(ctx, userID)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("loadJournal.JournalConnectionStore.ListByUser", i18n.ERROR_INTERNAL, err)
	}

	bySource := lo.GroupBy(conns, func(c types.JournalConnection) string {
		return c.SourceEntryID
	})
	for i := range entries {
		entries[i].Connections = bySource[entries[i].ID]
		if entries[i].Connections == nil {
			entries[i].Connections = []types.JournalConnection{}
		}
	}
	return entries, nil
}

func (l *JournalLogic) List() ([]types.JournalEntry, error) {
	userID, err := l.mustUser("JournalLogic.List")
	if err != nil {
		return nil, err
	}
	list, err := loadJournal(l.ctx, l.core, userID)
	if err != nil {
		return nil, errors.Trace("JournalLogic.List", err)
	}
	return list, nil
}

func (l *JournalLogic) Get(id string) (*types.JournalEntry, error) {
	userID, err := l.mustUser("JournalLogic.Get")
	if err != nil {
		return nil, err
	}

	entry, err := l.core.Store().JournalEntryStore().Get(l.ctx, userID, id)
	if err != nil {
		return nil, entryStoreError("JournalLogic.Get.JournalEntryStore.Get", err)
	}

	conns, err := l.core.Store().JournalConnectionStore().ListByUser(l.ctx, userID)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("JournalLogic.Get.JournalConnectionStore.ListByUser", i18n.ERROR_INTERNAL, err)
	}
	entry.Connections = lo.Filter(conns, func(c types.JournalConnection, _ int) bool {
		return c.SourceEntryID == id
	})

	now := time.Now().Unix()
	if err = l.core.Store().JournalEntryStore().RecordView(l.ctx, userID, id, now); err != nil {
		slog.Warn("Failed to record journal entry view", slog.String("entry_id", id), slog.String("error", err.Error()),
			slog.String("component", "JournalLogic.Get"))
	} else {
		entry.Metadata.ViewCount++
		entry.Metadata.LastViewed = now
	}
	return entry, nil
}

type UpdateJournalEntryArgs struct {
	Paper       *types.JournalPaper
	Category    *types.JournalCategory
	Annotations *types.Annotations
	Position    *types.Position
}

// Update applies a partial update. Empty paper fields keep their stored
// value.
func (l *JournalLogic) Update(id string, args UpdateJournalEntryArgs) error {
	userID, err := l.mustUser("JournalLogic.Update")
	if err != nil {
		return err
	}

	patch := types.UpdateJournalEntryArgs{
		Category:    args.Category,
		Annotations: args.Annotations,
		Position:    args.Position,
	}
	if patch.Category != nil {
		normalizeCategory(patch.Category)
		if patch.Category.Name == "" {
			return errors.New("JournalLogic.Update.Category", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
		}
	}
	if patch.Position != nil {
		if err = patch.Position.Validate(); err != nil {
			return errors.New("JournalLogic.Update.Position", i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest)
		}
	}

	if args.Paper != nil {
		old, err := l.core.Store().JournalEntryStore().Get(l.ctx, userID, id)
		if err != nil {
			return entryStoreError("JournalLogic.Update.JournalEntryStore.Get", err)
		}
		paper := mergePaper(old.Paper, *args.Paper)
		patch.Paper = &paper
	}

	if patch.Empty() {
		return errors.New("JournalLogic.Update.Empty", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	if err = l.core.Store().JournalEntryStore().Update(l.ctx, userID, id, patch); err != nil {
		return entryStoreError("JournalLogic.Update.JournalEntryStore.Update", err)
	}
	return nil
}

func mergePaper(old, patch types.JournalPaper) types.JournalPaper {
	if t := strings.TrimSpace(patch.Title); t != "" {
		old.Title = t
	}
	if patch.Code != "" {
		old.Code = patch.Code
	}
	if patch.Tags != nil {
		old.Tags = patch.Tags
	}
	if patch.Summary != "" {
		old.Summary = patch.Summary
	}
	if patch.Link != "" {
		old.Link = patch.Link
	}
	if patch.Content != "" {
		old.Content = patch.Content
	}
	return old
}

func (l *JournalLogic) AddAnnotation(id, text string, aiGenerated bool) (*types.Annotation, error) {
	userID, err := l.mustUser("JournalLogic.AddAnnotation")
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("JournalLogic.AddAnnotation.Validate", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	annotation := types.Annotation{
		Text:        text,
		CreatedAt:   time.Now().Unix(),
		AIGenerated: aiGenerated,
	}
	if err = l.core.Store().JournalEntryStore().AppendAnnotation(l.ctx, userID, id, annotation); err != nil {
		return nil, entryStoreError("JournalLogic.AddAnnotation.JournalEntryStore.AppendAnnotation", err)
	}
	return &annotation, nil
}

// Delete removes the entry and every connection touching it.
func (l *JournalLogic) Delete(id string) error {
	userID, err := l.mustUser("JournalLogic.Delete")
	if err != nil {
		return err
	}

	return l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().JournalConnectionStore().DeleteByEntry(ctx, userID, id); err != nil {
			return errors.New("JournalLogic.Delete.JournalConnectionStore.DeleteByEntry", i18n.ERROR_INTERNAL, err)
		}

		if err := l.core.Store().JournalEntryStore().Delete(ctx, userID, id); err != nil {
			return entryStoreError("JournalLogic.Delete.JournalEntryStore.Delete", err)
		}
		return nil
	})
}

// IsSaved reports whether title is already in the journal and the id of
// that entry.
func (l *JournalLogic) IsSaved(title string) (bool, string, error) {
	userID, err := l.mustUser("JournalLogic.IsSaved")
	if err != nil {
		return false, "", err
	}

	entry, err := l.core.Store().JournalEntryStore().GetByTitle(l.ctx, userID, strings.TrimSpace(title))
	if err != nil && err != sql.ErrNoRows {
		return false, "", errors.New("JournalLogic.IsSaved.JournalEntryStore.GetByTitle", i18n.ERROR_INTERNAL, err)
	}
	if entry == nil {
		return false, "", nil
	}
	return true, entry.ID, nil
}
