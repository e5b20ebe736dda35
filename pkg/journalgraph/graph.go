// Package journalgraph turns the journal entries of a user into the node
// and edge set rendered by the journal canvas, and validates the edits a
// user makes on that canvas.
package journalgraph

import (
	"errors"
	"hash/fnv"
	"strings"

	"github.com/samber/lo"

	"github.com/breeew/stellar-api/pkg/types"
)

const (
	NODE_TYPE_CATEGORY = "categoryNode"
	NODE_TYPE_PAPER    = "paperNode"

	DEFAULT_EDGE_TYPE = "smoothstep"

	categoryNodePrefix = "category-"
	categoryEdgePrefix = "edge-"
	userEdgePrefix     = "user-edge-"
)

// layout of synthesized positions
const (
	columnPitch   = 250
	columnOffset  = 100
	categoryRowY  = 100
	paperRowY     = 300
	paperRowPitch = 150
	jitterSpan    = 100
)

var (
	ErrCategoryNode  = errors.New("category nodes can not be connected")
	ErrSelfLoop      = errors.New("a paper can not be connected to itself")
	ErrLabelRequired = errors.New("connection label is required")
	ErrEmptyNode     = errors.New("source and target are required")
)

type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

type Node struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Position types.Position `json:"position"`
	// Data is a *CategoryNodeData or a *PaperNodeData depending on Type.
	Data any `json:"data"`
}

type CategoryNodeData struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

type PaperNodeData struct {
	Title           string             `json:"title"`
	CategoryName    string             `json:"categoryName"`
	CategoryColor   string             `json:"categoryColor"`
	AnnotationCount int                `json:"annotationCount"`
	Paper           types.JournalPaper `json:"paper"`
}

type Edge struct {
	ID       string     `json:"id"`
	Source   string     `json:"source"`
	Target   string     `json:"target"`
	Type     string     `json:"type"`
	Label    string     `json:"label,omitempty"`
	Animated bool       `json:"animated"`
	Style    *EdgeStyle `json:"style,omitempty"`
	Data     EdgeData   `json:"data"`
}

type EdgeStyle struct {
	Stroke      string `json:"stroke"`
	StrokeWidth int    `json:"strokeWidth"`
}

type EdgeData struct {
	IsUserCreated bool   `json:"isUserCreated"`
	Relationship  string `json:"relationship,omitempty"`
}

func CategoryNodeID(name string) string {
	return categoryNodePrefix + name
}

func IsCategoryNode(id string) bool {
	return strings.HasPrefix(id, categoryNodePrefix)
}

func UserEdgeID(source, target string) string {
	return userEdgePrefix + source + "-" + target
}

// ParseUserEdgeID splits a user edge id into its endpoints. Entry ids are
// numeric so the first dash after the prefix separates them.
func ParseUserEdgeID(id string) (source, target string, ok bool) {
	rest, found := strings.CutPrefix(id, userEdgePrefix)
	if !found {
		return "", "", false
	}
	source, target, ok = strings.Cut(rest, "-")
	if !ok || source == "" || target == "" {
		return "", "", false
	}
	return source, target, true
}

func categoryColor(c types.JournalCategory) string {
	if c.Color == "" {
		return types.DEFAULT_CATEGORY_COLOR
	}
	return c.Color
}

// jitter spreads papers of one column horizontally. It is seeded by the
// entry id so repeated derivations place a node at the same spot.
func jitter(id string) float64 {
	h := fnv.New32a()
	h.Write([]byte(id))
	return float64(h.Sum32()%jitterSpan) - jitterSpan/2
}

// Derive builds the graph of entries. Categories are grouped by name in
// first-seen order, so the first entry of a category decides its color.
// Connections whose target is not among entries are left out.
func Derive(entries []types.JournalEntry) Graph {
	var (
		categories    []*CategoryNodeData
		categoryIndex = make(map[string]int)
	)
	for _, e := range entries {
		idx, exist := categoryIndex[e.Category.Name]
		if !exist {
			idx = len(categories)
			categoryIndex[e.Category.Name] = idx
			categories = append(categories, &CategoryNodeData{
				Name:  e.Category.Name,
				Color: categoryColor(e.Category),
			})
		}
		categories[idx].Count++
	}

	g := Graph{
		Nodes: make([]Node, 0, len(categories)+len(entries)),
		Edges: make([]Edge, 0, len(entries)),
	}

	for i, c := range categories {
		g.Nodes = append(g.Nodes, Node{
			ID:   CategoryNodeID(c.Name),
			Type: NODE_TYPE_CATEGORY,
			Position: types.Position{
				X: float64(i*columnPitch + columnOffset),
				Y: categoryRowY,
			},
			Data: c,
		})
	}

	var (
		ranks    = make(map[string]int)
		entrySet = make(map[string]struct{}, len(entries))
	)
	for _, e := range entries {
		entrySet[e.ID] = struct{}{}
	}

	for _, e := range entries {
		idx := categoryIndex[e.Category.Name]
		category := categories[idx]

		position := types.Position{
			X: float64(idx*columnPitch+columnOffset) + jitter(e.ID),
			Y: float64(paperRowY + ranks[e.Category.Name]*paperRowPitch),
		}
		ranks[e.Category.Name]++
		if e.Position != nil {
			position = *e.Position
		}

		g.Nodes = append(g.Nodes, Node{
			ID:       e.ID,
			Type:     NODE_TYPE_PAPER,
			Position: position,
			Data: &PaperNodeData{
				Title:           e.Paper.Title,
				CategoryName:    category.Name,
				CategoryColor:   category.Color,
				AnnotationCount: len(e.Annotations),
				Paper:           e.Paper,
			},
		})

		g.Edges = append(g.Edges, Edge{
			ID:     categoryEdgePrefix + e.ID,
			Source: CategoryNodeID(category.Name),
			Target: e.ID,
			Type:   DEFAULT_EDGE_TYPE,
			Style: &EdgeStyle{
				Stroke:      category.Color,
				StrokeWidth: 2,
			},
		})
	}

	for _, e := range entries {
		for _, c := range e.Connections {
			if _, exist := entrySet[c.TargetEntryID]; !exist || c.TargetEntryID == e.ID {
				continue
			}
			g.Edges = append(g.Edges, Edge{
				ID:     UserEdgeID(e.ID, c.TargetEntryID),
				Source: e.ID,
				Target: c.TargetEntryID,
				Type:   lo.Ternary(c.EdgeType == "", DEFAULT_EDGE_TYPE, c.EdgeType),
				Label:  c.Relationship,
				Data: EdgeData{
					IsUserCreated: true,
					Relationship:  c.Relationship,
				},
			})
		}
	}

	return g
}

// ValidateConnect checks a connect gesture between two nodes.
func ValidateConnect(source, target, label string) error {
	if source == "" || target == "" {
		return ErrEmptyNode
	}
	if IsCategoryNode(source) || IsCategoryNode(target) {
		return ErrCategoryNode
	}
	if source == target {
		return ErrSelfLoop
	}
	if strings.TrimSpace(label) == "" {
		return ErrLabelRequired
	}
	return nil
}

func IsUserEdge(e Edge) bool {
	return e.Data.IsUserCreated && strings.HasPrefix(e.ID, userEdgePrefix)
}

// DeletableEdges filters edges down to the ones a user may delete.
func DeletableEdges(edges []Edge) []Edge {
	return lo.Filter(edges, func(e Edge, _ int) bool {
		return IsUserEdge(e)
	})
}
