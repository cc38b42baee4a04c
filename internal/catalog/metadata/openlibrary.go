package metadata

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/openshelf/openshelf/logging"
)

const openLibraryBase = "https://openlibrary.org"

// OpenLibraryScraper scrapes Open Library book pages as a fallback when the
// volumes API has no hit.
type OpenLibraryScraper struct {
	client *http.Client
	logger *logging.Logger

	// baseURL overrides the public endpoint in tests.
	baseURL string
}

// Matches returns true for Open Library URLs and for bare ISBNs, which map
// onto the /isbn/ redirect endpoint.
func (o *OpenLibraryScraper) Matches(query string) bool {
	if _, ok := NormalizeISBN(query); ok {
		return true
	}
	return strings.Contains(strings.ToLower(query), "openlibrary.org")
}

// Collect fetches the book page and extracts title and authors from its
// markup.
func (o *OpenLibraryScraper) Collect(ctx context.Context, query string) (*BookMeta, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	base := o.baseURL
	if base == "" {
		base = openLibraryBase
	}

	target := strings.TrimSpace(query)
	isbn := ""
	if normalized, ok := NormalizeISBN(query); ok {
		isbn = normalized
		target = base + "/isbn/" + normalized
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html")

	client := o.client
	if client == nil {
		client = &http.Client{}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("open library returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse book page: %w", err)
	}

	title := strings.TrimSpace(doc.Find("h1.work-title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	var authors []string
	doc.Find("a[itemprop='author']").Each(func(_ int, sel *goquery.Selection) {
		if name := strings.TrimSpace(sel.Text()); name != "" {
			authors = append(authors, name)
		}
	})
	if len(authors) == 0 {
		doc.Find(".edition-byline a").Each(func(_ int, sel *goquery.Selection) {
			if name := strings.TrimSpace(sel.Text()); name != "" {
				authors = append(authors, name)
			}
		})
	}

	if title == "" {
		if o.logger != nil {
			o.logger.Warn("Metadata - Open Library", "page had no recognisable title", map[string]any{
				"url": target,
			})
		}
		return nil, fmt.Errorf("no title found at %q", target)
	}

	return &BookMeta{
		Title:   title,
		Authors: authors,
		ISBN:    isbn,
		Source:  "openlibrary",
	}, nil
}
