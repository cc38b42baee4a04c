package metadata

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/openshelf/openshelf/logging"
	"google.golang.org/api/books/v1"
	"google.golang.org/api/option"
)

// GoogleBooksCollector resolves ISBNs through the Google Books volumes API.
type GoogleBooksCollector struct {
	client *http.Client
	logger *logging.Logger
	apiKey string
}

// Matches returns true when the query looks like an ISBN or a Google Books
// volume URL.
func (g *GoogleBooksCollector) Matches(query string) bool {
	if _, ok := NormalizeISBN(query); ok {
		return true
	}
	return strings.Contains(strings.ToLower(query), "books.google")
}

// Collect looks the volume up and maps the first hit to BookMeta.
func (g *GoogleBooksCollector) Collect(ctx context.Context, query string) (*BookMeta, error) {
	apiKey := strings.TrimSpace(g.apiKey)
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_BOOKS_API_KEY")
	}

	var opts []option.ClientOption
	switch {
	case apiKey != "":
		opts = append(opts, option.WithAPIKey(apiKey))
	case g.client != nil:
		opts = append(opts, option.WithHTTPClient(g.client))
	default:
		opts = append(opts, option.WithoutAuthentication())
	}

	service, err := books.NewService(ctx, opts...)
	if err != nil {
		g.logger.Error("Metadata - Google Books", "error creating books service", err, map[string]any{
			"query": query,
		})
		return nil, fmt.Errorf("create books service: %w", err)
	}

	search := query
	isbn := ""
	if normalized, ok := NormalizeISBN(query); ok {
		isbn = normalized
		search = "isbn:" + normalized
	}

	volumes, err := service.Volumes.List(search).Context(ctx).MaxResults(1).Do()
	if err != nil {
		g.logger.Error("Metadata - Google Books", "volume lookup failed", err, map[string]any{
			"query": query,
		})
		return nil, err
	}
	if len(volumes.Items) == 0 || volumes.Items[0].VolumeInfo == nil {
		return nil, fmt.Errorf("no volumes found for %q", query)
	}

	info := volumes.Items[0].VolumeInfo
	return &BookMeta{
		Title:   strings.TrimSpace(info.Title),
		Authors: info.Authors,
		ISBN:    isbn,
		Source:  "googlebooks",
	}, nil
}
