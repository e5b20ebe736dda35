// Package memstore keeps the journal in process memory. It backs the
// selfhost demo mode and the logic tests.
package memstore

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/breeew/stellar-api/internal/store"
	"github.com/breeew/stellar-api/pkg/types"
	"github.com/breeew/stellar-api/pkg/utils"
)

var _ store.Provider = (*Provider)(nil)

type connKey struct {
	user, source, target string
}

type state struct {
	entries     map[string]types.JournalEntry
	titles      map[string]string
	connections map[connKey]types.JournalConnection
	users       map[string]types.User
	emails      map[string]string
}

func newState() *state {
	return &state{
		entries:     make(map[string]types.JournalEntry),
		titles:      make(map[string]string),
		connections: make(map[connKey]types.JournalConnection),
		users:       make(map[string]types.User),
		emails:      make(map[string]string),
	}
}

type Provider struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	data *state
}

func New() *Provider {
	return &Provider{data: newState()}
}

type txKey struct{}

// undoLog holds, newest last, the steps that put back the keys a
// transaction wrote.
type undoLog struct {
	steps []func()
}

// remember records the current value of key in m when ctx belongs to a
// transaction. Callers hold p.mu.
func remember[K comparable, V any](ctx context.Context, m map[K]V, key K) {
	log, ok := ctx.Value(txKey{}).(*undoLog)
	if !ok {
		return
	}
	old, existed := m[key]
	log.steps = append(log.steps, func() {
		if existed {
			m[key] = old
		} else {
			delete(m, key)
		}
	})
}

// Transaction serializes transactions. When fn fails only the keys written
// through the transaction context are restored, writes made outside of it
// in the meantime stay.
func (p *Provider) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	p.txMu.Lock()
	defer p.txMu.Unlock()

	log := &undoLog{}
	if err := fn(context.WithValue(ctx, txKey{}, log)); err != nil {
		p.mu.Lock()
		for i := len(log.steps) - 1; i >= 0; i-- {
			log.steps[i]()
		}
		p.mu.Unlock()
		return err
	}
	return nil
}

func (p *Provider) JournalEntryStore() store.JournalEntryStore {
	return &JournalEntryStore{p: p}
}

func (p *Provider) JournalConnectionStore() store.JournalConnectionStore {
	return &JournalConnectionStore{p: p}
}

func (p *Provider) UserStore() store.UserStore {
	return &UserStore{p: p}
}

func titleKey(userID, title string) string {
	return userID + "\x00" + title
}

type JournalEntryStore struct {
	p *Provider
}

func (s *JournalEntryStore) Create(ctx context.Context, data types.JournalEntry) (string, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()

	if data.ID == "" {
		data.ID = utils.GenSpecIDStr()
	}
	key := titleKey(data.UserID, data.Paper.Title)
	if _, exist := s.p.data.titles[key]; exist {
		return "", fmt.Errorf("%w: user title", store.ErrDuplicateKey)
	}
	if _, exist := s.p.data.entries[data.ID]; exist {
		return "", fmt.Errorf("%w: id", store.ErrDuplicateKey)
	}
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	if data.UpdatedAt == 0 {
		data.UpdatedAt = data.CreatedAt
	}
	if data.Annotations == nil {
		data.Annotations = types.Annotations{}
	}
	data.Connections = nil

	remember(ctx, s.p.data.entries, data.ID)
	remember(ctx, s.p.data.titles, key)
	s.p.data.entries[data.ID] = data
	s.p.data.titles[key] = data.ID
	return data.ID, nil
}

func (s *JournalEntryStore) Get(ctx context.Context, userID, id string) (*types.JournalEntry, error) {
	s.p.mu.RLock()
	defer s.p.mu.RUnlock()

	e, ok := s.p.data.entries[id]
	if !ok || e.UserID != userID {
		return nil, sql.ErrNoRows
	}
	return &e, nil
}

func (s *JournalEntryStore) GetByTitle(ctx context.Context, userID, title string) (*types.JournalEntry, error) {
	s.p.mu.RLock()
	id, ok := s.p.data.titles[titleKey(userID, title)]
	s.p.mu.RUnlock()
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s.Get(ctx, userID, id)
}

func (s *JournalEntryStore) List(ctx context.Context, userID string) ([]types.JournalEntry, error) {
	s.p.mu.RLock()
	list := lo.Filter(lo.Values(s.p.data.entries), func(e types.JournalEntry, _ int) bool {
		return e.UserID == userID
	})
	s.p.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt != list[j].CreatedAt {
			return list[i].CreatedAt > list[j].CreatedAt
		}
		if len(list[i].ID) != len(list[j].ID) {
			return len(list[i].ID) > len(list[j].ID)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

// modify applies fn to the entry of userID under the write lock.
func (s *JournalEntryStore) modify(ctx context.Context, userID, id string, fn func(e *types.JournalEntry) error) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()

	e, ok := s.p.data.entries[id]
	if !ok || e.UserID != userID {
		return sql.ErrNoRows
	}
	if err := fn(&e); err != nil {
		return err
	}
	remember(ctx, s.p.data.entries, id)
	s.p.data.entries[id] = e
	return nil
}

func (s *JournalEntryStore) Update(ctx context.Context, userID, id string, args types.UpdateJournalEntryArgs) error {
	return s.modify(ctx, userID, id, func(e *types.JournalEntry) error {
		if args.Paper != nil && args.Paper.Title != e.Paper.Title {
			newKey := titleKey(userID, args.Paper.Title)
			if _, exist := s.p.data.titles[newKey]; exist {
				return fmt.Errorf("%w: user title", store.ErrDuplicateKey)
			}
			oldKey := titleKey(userID, e.Paper.Title)
			remember(ctx, s.p.data.titles, oldKey)
			remember(ctx, s.p.data.titles, newKey)
			delete(s.p.data.titles, oldKey)
			s.p.data.titles[newKey] = e.ID
		}
		if args.Paper != nil {
			e.Paper = *args.Paper
		}
		if args.Category != nil {
			e.Category = *args.Category
		}
		if args.Annotations != nil {
			e.Annotations = append(types.Annotations{}, (*args.Annotations)...)
		}
		if args.Position != nil {
			pos := *args.Position
			e.Position = &pos
		}
		e.UpdatedAt = time.Now().Unix()
		return nil
	})
}

func (s *JournalEntryStore) UpdatePosition(ctx context.Context, userID, id string, pos types.Position) error {
	return s.modify(ctx, userID, id, func(e *types.JournalEntry) error {
		e.Position = &pos
		e.UpdatedAt = time.Now().Unix()
		return nil
	})
}

func (s *JournalEntryStore) FillPaperField(ctx context.Context, userID, id string, field types.PaperField, value string) (bool, error) {
	if !field.Valid() {
		return false, fmt.Errorf("unknown paper field %q", field)
	}
	var filled bool
	err := s.modify(ctx, userID, id, func(e *types.JournalEntry) error {
		target := &e.Paper.Content
		if field == types.PAPER_FIELD_SUMMARY {
			target = &e.Paper.Summary
		}
		if value == "" || *target != "" {
			return nil
		}
		*target = value
		e.UpdatedAt = time.Now().Unix()
		filled = true
		return nil
	})
	if err == sql.ErrNoRows {
		return false, nil
	}
	return filled, err
}

func (s *JournalEntryStore) AppendAnnotation(ctx context.Context, userID, id string, annotation types.Annotation) error {
	return s.modify(ctx, userID, id, func(e *types.JournalEntry) error {
		e.Annotations = append(append(types.Annotations{}, e.Annotations...), annotation)
		e.UpdatedAt = time.Now().Unix()
		return nil
	})
}

func (s *JournalEntryStore) RecordView(ctx context.Context, userID, id string, at int64) error {
	return s.modify(ctx, userID, id, func(e *types.JournalEntry) error {
		e.Metadata.ViewCount++
		e.Metadata.LastViewed = at
		return nil
	})
}

func (s *JournalEntryStore) Touch(ctx context.Context, userID, id string, at int64) error {
	return s.modify(ctx, userID, id, func(e *types.JournalEntry) error {
		e.UpdatedAt = at
		return nil
	})
}

func (s *JournalEntryStore) Delete(ctx context.Context, userID, id string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()

	e, ok := s.p.data.entries[id]
	if !ok || e.UserID != userID {
		return sql.ErrNoRows
	}
	key := titleKey(userID, e.Paper.Title)
	remember(ctx, s.p.data.entries, id)
	remember(ctx, s.p.data.titles, key)
	delete(s.p.data.entries, id)
	delete(s.p.data.titles, key)
	return nil
}

type JournalConnectionStore struct {
	p *Provider
}

func (s *JournalConnectionStore) Upsert(ctx context.Context, data types.JournalConnection) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()

	key := connKey{data.UserID, data.SourceEntryID, data.TargetEntryID}
	if old, exist := s.p.data.connections[key]; exist {
		data.CreatedAt = old.CreatedAt
	} else if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	remember(ctx, s.p.data.connections, key)
	s.p.data.connections[key] = data
	return nil
}

func (s *JournalConnectionStore) Delete(ctx context.Context, userID, sourceID, targetID string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()

	key := connKey{userID, sourceID, targetID}
	if _, exist := s.p.data.connections[key]; !exist {
		return sql.ErrNoRows
	}
	remember(ctx, s.p.data.connections, key)
	delete(s.p.data.connections, key)
	return nil
}

func (s *JournalConnectionStore) ListByUser(ctx context.Context, userID string) ([]types.JournalConnection, error) {
	s.p.mu.RLock()
	list := lo.Filter(lo.Values(s.p.data.connections), func(c types.JournalConnection, _ int) bool {
		return c.UserID == userID
	})
	s.p.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt != list[j].CreatedAt {
			return list[i].CreatedAt < list[j].CreatedAt
		}
		if list[i].SourceEntryID != list[j].SourceEntryID {
			return list[i].SourceEntryID < list[j].SourceEntryID
		}
		return list[i].TargetEntryID < list[j].TargetEntryID
	})
	return list, nil
}

func (s *JournalConnectionStore) DeleteByEntry(ctx context.Context, userID, entryID string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()

	for k := range s.p.data.connections {
		if k.user == userID && (k.source == entryID || k.target == entryID) {
			remember(ctx, s.p.data.connections, k)
			delete(s.p.data.connections, k)
		}
	}
	return nil
}

type UserStore struct {
	p *Provider
}

func (s *UserStore) Create(ctx context.Context, data types.User) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()

	if _, exist := s.p.data.emails[data.Email]; exist {
		return fmt.Errorf("%w: email", store.ErrDuplicateKey)
	}
	remember(ctx, s.p.data.users, data.ID)
	remember(ctx, s.p.data.emails, data.Email)
	s.p.data.users[data.ID] = data
	s.p.data.emails[data.Email] = data.ID
	return nil
}

func (s *UserStore) GetUser(ctx context.Context, id string) (*types.User, error) {
	s.p.mu.RLock()
	defer s.p.mu.RUnlock()

	u, ok := s.p.data.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*types.User, error) {
	s.p.mu.RLock()
	id, ok := s.p.data.emails[email]
	s.p.mu.RUnlock()
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s.GetUser(ctx, id)
}

func (s *UserStore) UpdateDemographic(ctx context.Context, id string, demographic types.Demographic, updatedAt int64) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()

	u, ok := s.p.data.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.Demographic = demographic
	u.UpdatedAt = updatedAt
	remember(ctx, s.p.data.users, id)
	s.p.data.users[id] = u
	return nil
}
