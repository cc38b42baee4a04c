// Package metadata looks up book details from public catalog sources so the
// new-book form can prefill title and author from an ISBN or a catalog URL.
package metadata

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/openshelf/openshelf/logging"
)

// BookMeta represents collected information about a published book.
type BookMeta struct {
	Title   string
	Authors []string
	ISBN    string
	Source  string
}

// Author returns the primary author, or "" when none was found.
func (m *BookMeta) Author() string {
	if m == nil || len(m.Authors) == 0 {
		return ""
	}
	return m.Authors[0]
}

// Collector fetches metadata from one catalog source.
type Collector interface {
	Matches(query string) bool
	Collect(ctx context.Context, query string) (*BookMeta, error)
}

// Service orchestrates metadata collection across catalog sources.
type Service struct {
	collectors []Collector
	logger     *logging.Logger
}

// NewService creates a metadata service backed by Google Books with an Open
// Library scraper fallback.
func NewService(httpClient *http.Client, logger *logging.Logger, booksAPIKey string) *Service {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{
		collectors: []Collector{
			&GoogleBooksCollector{client: httpClient, logger: logger, apiKey: booksAPIKey},
			&OpenLibraryScraper{client: httpClient, logger: logger},
		},
		logger: logger,
	}
}

// Fetch retrieves metadata for the given ISBN or catalog URL, trying each
// matching source in order.
func (s *Service) Fetch(ctx context.Context, query string) (*BookMeta, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty metadata query")
	}

	var lastErr error
	for _, collector := range s.collectors {
		if !collector.Matches(query) {
			continue
		}
		meta, err := collector.Collect(ctx, query)
		if err == nil && meta != nil && meta.Title != "" {
			return meta, nil
		}
		if err != nil {
			lastErr = err
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("no metadata source matched %q", query)
}

// NormalizeISBN strips separators and reports whether the result looks like
// an ISBN-10 or ISBN-13.
func NormalizeISBN(raw string) (string, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	switch len(cleaned) {
	case 10:
		for i, r := range cleaned {
			if r >= '0' && r <= '9' {
				continue
			}
			// ISBN-10 may end in a checksum X.
			if i == 9 && (r == 'X' || r == 'x') {
				continue
			}
			return "", false
		}
		return strings.ToUpper(cleaned), true
	case 13:
		for _, r := range cleaned {
			if r < '0' || r > '9' {
				return "", false
			}
		}
		return cleaned, true
	default:
		return "", false
	}
}
