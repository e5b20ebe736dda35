package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"

	"github.com/breeew/stellar-api/pkg/types"
)

var (
	ErrNotFound     = errors.New("paper not found")
	ErrInvalidIndex = errors.New("invalid paper index")
	ErrNoLink       = errors.New("paper has no link")
)

var (
	titleColumns = []string{"title"}
	linkColumns  = []string{"link", "url"}
	tagColumns   = []string{"tags", "tag"}
)

// Dataset is the read only list of papers loaded at startup.
type Dataset struct {
	papers  []types.Paper
	byTitle map[string]int
}

func New(papers []types.Paper) *Dataset {
	d := &Dataset{
		byTitle: make(map[string]int, len(papers)),
	}
	for _, p := range papers {
		p.Index = len(d.papers)
		p.Title = strings.TrimSpace(p.Title)
		if _, exist := d.byTitle[p.Title]; !exist {
			d.byTitle[p.Title] = p.Index
		}
		d.papers = append(d.papers, p)
	}
	return d
}

// Load reads a csv file. An empty path gives an empty dataset.
func Load(path string) (*Dataset, error) {
	if path == "" {
		return New(nil), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset, %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a csv with a header row. Title and Link columns are
// required, Tags is optional and separated by ';'.
func Parse(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return New(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header, %w", err)
	}

	titleIdx := columnIndex(header, titleColumns)
	linkIdx := columnIndex(header, linkColumns)
	tagIdx := columnIndex(header, tagColumns)
	if titleIdx < 0 || linkIdx < 0 {
		return nil, fmt.Errorf("dataset header must contain Title and Link columns, got %v", header)
	}

	var papers []types.Paper
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset record, %w", err)
		}
		if lo.EveryBy(record, func(v string) bool { return strings.TrimSpace(v) == "" }) {
			continue
		}

		p := types.Paper{
			Title: field(record, titleIdx),
			Link:  field(record, linkIdx),
		}
		if tagIdx >= 0 {
			p.Tags = splitTags(field(record, tagIdx))
		}
		papers = append(papers, p)
	}
	return New(papers), nil
}

func columnIndex(header []string, names []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if lo.Contains(names, h) {
			return i
		}
	}
	return -1
}

func field(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func splitTags(raw string) []string {
	tags := lo.Map(strings.Split(raw, ";"), func(v string, _ int) string {
		return strings.TrimSpace(v)
	})
	return lo.Uniq(lo.Compact(tags))
}

func (d *Dataset) Total() int {
	return len(d.papers)
}

func (d *Dataset) Titles() []string {
	return lo.Map(d.papers, func(p types.Paper, _ int) string {
		return p.Title
	})
}

func (d *Dataset) Get(index int) (types.Paper, error) {
	if index < 0 || index >= len(d.papers) {
		return types.Paper{}, ErrInvalidIndex
	}
	return d.papers[index], nil
}

func (d *Dataset) FindByTitle(title string) (types.Paper, error) {
	idx, exist := d.byTitle[strings.TrimSpace(title)]
	if !exist {
		return types.Paper{}, ErrNotFound
	}
	return d.papers[idx], nil
}

func (d *Dataset) FindByLink(link string) (types.Paper, bool) {
	return lo.Find(d.papers, func(p types.Paper) bool {
		return p.Link == link
	})
}

// FindByTitles keeps dataset order and drops titles that are not known.
func (d *Dataset) FindByTitles(titles []string) []types.Paper {
	want := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		want[strings.TrimSpace(t)] = struct{}{}
	}
	return lo.Filter(d.papers, func(p types.Paper, _ int) bool {
		_, ok := want[p.Title]
		return ok
	})
}

type Filter struct {
	Keywords string
	Tags     []string
}

func (f Filter) match(p types.Paper) bool {
	if kw := strings.ToLower(strings.TrimSpace(f.Keywords)); kw != "" {
		if !strings.Contains(strings.ToLower(p.Title), kw) {
			return false
		}
	}
	for _, tag := range f.Tags {
		if tag == "" {
			continue
		}
		if !lo.ContainsBy(p.Tags, func(v string) bool { return strings.EqualFold(v, tag) }) {
			return false
		}
	}
	return true
}

// List returns one page of the matching papers and the number of matches.
// page starts at 1.
func (d *Dataset) List(f Filter, page, pagesize uint64) ([]types.Paper, int) {
	matched := lo.Filter(d.papers, func(p types.Paper, _ int) bool {
		return f.match(p)
	})
	total := len(matched)
	if page == 0 {
		page = 1
	}
	if pagesize == 0 {
		return matched, total
	}
	start := (page - 1) * pagesize
	if start >= uint64(total) {
		return []types.Paper{}, total
	}
	end := min(start+pagesize, uint64(total))
	return matched[start:end], total
}
