package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
)

const DEFAULT_CATEGORY_COLOR = "#6366f1"

type JournalPaper struct {
	Title   string   `json:"title"`
	Code    string   `json:"code,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Summary string   `json:"summary,omitempty"`
	Link    string   `json:"link,omitempty"`
	Content string   `json:"content,omitempty"`
}

// PaperField names a JournalPaper field that background enrichment may
// fill in. Values match the json keys of JournalPaper.
type PaperField string

const (
	PAPER_FIELD_CONTENT PaperField = "content"
	PAPER_FIELD_SUMMARY PaperField = "summary"
)

func (f PaperField) Valid() bool {
	return f == PAPER_FIELD_CONTENT || f == PAPER_FIELD_SUMMARY
}

type JournalCategory struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type Annotation struct {
	Text        string `json:"text"`
	CreatedAt   int64  `json:"createdAt"`
	AIGenerated bool   `json:"aiGenerated"`
}

type Annotations []Annotation

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Validate rejects coordinates a canvas cannot render.
func (p Position) Validate() error {
	if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
		return fmt.Errorf("position must be finite, got (%v, %v)", p.X, p.Y)
	}
	return nil
}

type EntryMetadata struct {
	ViewCount  int64 `json:"viewCount"`
	LastViewed int64 `json:"lastViewed,omitempty"`
}

// JournalEntry is one saved paper of a user. Connections are kept in their
// own table and attached on read.
type JournalEntry struct {
	ID          string              `json:"id" db:"id"`
	UserID      string              `json:"userId" db:"user_id"`
	Paper       JournalPaper        `json:"paper" db:"paper"`
	Category    JournalCategory     `json:"category" db:"category"`
	Annotations Annotations         `json:"annotations" db:"annotations"`
	Connections []JournalConnection `json:"connections" db:"-"`
	Position    *Position           `json:"position,omitempty" db:"position"`
	Metadata    EntryMetadata       `json:"metadata" db:"metadata"`
	CreatedAt   int64               `json:"createdAt" db:"created_at"`
	UpdatedAt   int64               `json:"updatedAt" db:"updated_at"`
}

type JournalConnection struct {
	UserID        string `json:"-" db:"user_id"`
	SourceEntryID string `json:"-" db:"source_entry_id"`
	TargetEntryID string `json:"targetEntryId" db:"target_entry_id"`
	Relationship  string `json:"relationship" db:"relationship"`
	EdgeType      string `json:"edgeType" db:"edge_type"`
	AIGenerated   bool   `json:"aiGenerated" db:"ai_generated"`
	CreatedAt     int64  `json:"createdAt" db:"created_at"`
}

// UpdateJournalEntryArgs is a partial update, nil fields are left untouched.
type UpdateJournalEntryArgs struct {
	Paper       *JournalPaper
	Category    *JournalCategory
	Annotations *Annotations
	Position    *Position
}

func (a UpdateJournalEntryArgs) Empty() bool {
	return a.Paper == nil && a.Category == nil && a.Annotations == nil && a.Position == nil
}

func jsonValue(v any) (driver.Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func jsonScan(src any, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported json column type %T", src)
	}
}

func (p JournalPaper) Value() (driver.Value, error) {
	return jsonValue(p)
}

func (p *JournalPaper) Scan(src any) error {
	return jsonScan(src, p)
}

func (c JournalCategory) Value() (driver.Value, error) {
	return jsonValue(c)
}

func (c *JournalCategory) Scan(src any) error {
	return jsonScan(src, c)
}

func (m EntryMetadata) Value() (driver.Value, error) {
	return jsonValue(m)
}

func (m *EntryMetadata) Scan(src any) error {
	return jsonScan(src, m)
}

func (p Position) Value() (driver.Value, error) {
	return jsonValue(p)
}

func (p *Position) Scan(src any) error {
	return jsonScan(src, p)
}

func (a Annotations) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	return jsonValue([]Annotation(a))
}

func (a *Annotations) Scan(src any) error {
	return jsonScan(src, (*[]Annotation)(a))
}
