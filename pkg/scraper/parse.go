package scraper

import (
	"bytes"
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"

	"github.com/breeew/stellar-api/pkg/types"
)

var ErrEmptyDocument = errors.New("no title or content found in document")

var (
	titleSelectors = []string{"h1.content-title", ".article-title", "title", "h1"}

	sectionSelector  = ".tsec.sec, .sec"
	bodySelector     = "article, .article-body, #body"
	figureSelector   = `figure img, .fig img, .image-container img, img[src*="/bin/"]`
	decorativeMarker = []string{"icon", "logo", "button", "sprite"}

	manyNewlines = regexp.MustCompile(`\n{3,}`)
	manySpaces   = regexp.MustCompile(`[ \t]{2,}`)
)

const minSectionLength = 50

// Parse extracts title, text content and figure images of a paper page.
// Relative image sources are resolved against link.
func Parse(link string, html []byte) (types.ScrapeResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return types.ScrapeResult{}, err
	}

	res := types.ScrapeResult{
		Title:      parseTitle(doc),
		Content:    parseContent(doc),
		ImageLinks: parseImages(doc, link),
	}
	if res.Title == "" && res.Content == "" {
		return res, ErrEmptyDocument
	}
	return res, nil
}

func parseTitle(doc *goquery.Document) string {
	for _, sel := range titleSelectors {
		text := strings.TrimSpace(doc.Find(sel).First().Text())
		if sel == "title" {
			text = strings.TrimSpace(strings.ReplaceAll(text, " - PMC", ""))
		}
		if text != "" {
			return text
		}
	}
	return ""
}

func parseContent(doc *goquery.Document) string {
	var sb strings.Builder

	if abstract := strings.TrimSpace(doc.Find(".abstract").Text()); abstract != "" {
		sb.WriteString("=== ABSTRACT ===\n\n")
		sb.WriteString(abstract)
		sb.WriteString("\n\n")
	}

	var sections []string
	doc.Find(sectionSelector).Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); len(text) > minSectionLength {
			sections = append(sections, text)
		}
	})

	if len(sections) > 0 {
		sb.WriteString("=== CONTENT ===\n\n")
		sb.WriteString(strings.Join(sections, "\n\n"))
	} else if body := bodyText(doc); body != "" {
		sb.WriteString("=== CONTENT ===\n\n")
		sb.WriteString(body)
	}

	return normalize(sb.String())
}

// bodyText joins every body match, pages often split the article.
func bodyText(doc *goquery.Document) string {
	var parts []string
	doc.Find(bodySelector).Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, "\n\n")
}

func normalize(s string) string {
	s = manyNewlines.ReplaceAllString(s, "\n\n")
	s = manySpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func parseImages(doc *goquery.Document, link string) []string {
	base, _ := url.Parse(link)

	images := collectImages(doc.Find(figureSelector), base, func(src string) string {
		src = strings.ReplaceAll(src, ".sml.", ".large.")
		return strings.ReplaceAll(src, ".thumb.", ".large.")
	}, nil)
	if len(images) > 0 {
		return images
	}

	return collectImages(doc.Find("img"), base, nil, func(src string) bool {
		lower := strings.ToLower(src)
		return lo.SomeBy(decorativeMarker, func(m string) bool {
			return strings.Contains(lower, m)
		})
	})
}

func collectImages(sel *goquery.Selection, base *url.URL, rewrite func(string) string, skip func(string) bool) []string {
	images := make([]string, 0)
	sel.Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		src = strings.TrimSpace(src)
		if !ok || src == "" || strings.HasPrefix(src, "data:") {
			return
		}
		if skip != nil && skip(src) {
			return
		}

		abs := resolve(base, src)
		if rewrite != nil {
			abs = rewrite(abs)
		}
		images = append(images, abs)
	})
	return lo.Uniq(images)
}

func resolve(base *url.URL, src string) string {
	ref, err := url.Parse(src)
	if err != nil || base == nil {
		return src
	}
	return base.ResolveReference(ref).String()
}
