package v1

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/breeew/stellar-api/internal/core"
	"github.com/breeew/stellar-api/pkg/errors"
	"github.com/breeew/stellar-api/pkg/i18n"
	"github.com/breeew/stellar-api/pkg/journalgraph"
	"github.com/breeew/stellar-api/pkg/types"
)

// GraphLogic serves the journal canvas and persists the edits made on it.
type GraphLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewGraphLogic(ctx context.Context, core *core.Core) *GraphLogic {
	l := &GraphLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: setupUserInfo(ctx, core),
	}

	return l
}

func (l *GraphLogic) Graph() (journalgraph.Graph, error) {
	userID, err := l.mustUser("GraphLogic.Graph")
	if err != nil {
		return journalgraph.Graph{}, err
	}

	entries, err := loadJournal(l.ctx, l.core, userID)
	if err != nil {
		return journalgraph.Graph{}, errors.Trace("GraphLogic.Graph", err)
	}
	return journalgraph.Derive(entries), nil
}

func invalidConnection(trace string, err error) error {
	return errors.New(trace, i18n.ERROR_INVALID_CONNECTION, err).Code(http.StatusBadRequest)
}

// Connect stores a labeled edge from source to target. Connecting a pair
// again replaces its label and edge type.
func (l *GraphLogic) Connect(source, target, relationship, edgeType string) (*types.JournalConnection, error) {
	userID, err := l.mustUser("GraphLogic.Connect")
	if err != nil {
		return nil, err
	}

	if err = journalgraph.ValidateConnect(source, target, relationship); err != nil {
		return nil, invalidConnection("GraphLogic.Connect.ValidateConnect", err)
	}
	if edgeType = strings.TrimSpace(edgeType); edgeType == "" {
		edgeType = journalgraph.DEFAULT_EDGE_TYPE
	}

	conn := types.JournalConnection{
		UserID:        userID,
		SourceEntryID: source,
		TargetEntryID: target,
		Relationship:  strings.TrimSpace(relationship),
		EdgeType:      edgeType,
		CreatedAt:     time.Now().Unix(),
	}

	err = l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		for _, id := range []string{source, target} {
			if _, err := l.core.Store().JournalEntryStore().Get(ctx, userID, id); err != nil {
				return entryStoreError("GraphLogic.Connect.JournalEntryStore.Get", err)
			}
		}

		if err := l.core.Store().JournalConnectionStore().Upsert(ctx, conn); err != nil {
			return errors.New("GraphLogic.Connect.JournalConnectionStore.Upsert", i18n.ERROR_INTERNAL, err)
		}

		if err := l.core.Store().JournalEntryStore().Touch(ctx, userID, source, conn.CreatedAt); err != nil {
			return entryStoreError("GraphLogic.Connect.JournalEntryStore.Touch", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// Disconnect removes the user edge from source to target.
func (l *GraphLogic) Disconnect(source, target string) error {
	userID, err := l.mustUser("GraphLogic.Disconnect")
	if err != nil {
		return err
	}
	if source == "" || target == "" {
		return invalidConnection("GraphLogic.Disconnect.Validate", journalgraph.ErrEmptyNode)
	}
	if journalgraph.IsCategoryNode(source) || journalgraph.IsCategoryNode(target) {
		return invalidConnection("GraphLogic.Disconnect.Validate", journalgraph.ErrCategoryNode)
	}

	return l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		err := l.core.Store().JournalConnectionStore().Delete(ctx, userID, source, target)
		if errors.Is(err, sql.ErrNoRows) {
			return errors.New("GraphLogic.Disconnect.JournalConnectionStore.Delete", i18n.ERROR_NOTFOUND, err).Code(http.StatusNotFound)
		}
		if err != nil {
			return errors.New("GraphLogic.Disconnect.JournalConnectionStore.Delete", i18n.ERROR_INTERNAL, err)
		}

		if err = l.core.Store().JournalEntryStore().Touch(ctx, userID, source, time.Now().Unix()); err != nil && !errors.Is(err, sql.ErrNoRows) {
			return errors.New("GraphLogic.Disconnect.JournalEntryStore.Touch", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
}

// DeleteEdge deletes a user edge by its canvas id. Category edges can not
// be deleted.
func (l *GraphLogic) DeleteEdge(edgeID string) error {
	source, target, ok := journalgraph.ParseUserEdgeID(edgeID)
	if !ok {
		return invalidConnection("GraphLogic.DeleteEdge.ParseUserEdgeID", nil)
	}
	if err := l.Disconnect(source, target); err != nil {
		return errors.Trace("GraphLogic.DeleteEdge", err)
	}
	return nil
}

// MoveNode saves the canvas position of a paper node.
func (l *GraphLogic) MoveNode(entryID string, pos types.Position) error {
	userID, err := l.mustUser("GraphLogic.MoveNode")
	if err != nil {
		return err
	}
	if journalgraph.IsCategoryNode(entryID) {
		return invalidConnection("GraphLogic.MoveNode.CategoryNode", journalgraph.ErrCategoryNode)
	}
	if err = pos.Validate(); err != nil {
		return errors.New("GraphLogic.MoveNode.Validate", i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest)
	}

	if err = l.core.Store().JournalEntryStore().UpdatePosition(l.ctx, userID, entryID, pos); err != nil {
		return entryStoreError("GraphLogic.MoveNode.JournalEntryStore.UpdatePosition", err)
	}
	return nil
}
