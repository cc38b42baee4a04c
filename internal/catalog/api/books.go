package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"

	"github.com/openshelf/openshelf/internal/catalog/model"
)

// CreateBook posts a multipart payload built from the draft's fields. The
// cover part carries the file's sniffed media type.
func (c *Client) CreateBook(ctx context.Context, draft model.BookDraft) (*model.Book, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("title", draft.Title); err != nil {
		return nil, err
	}
	if err := writer.WriteField("author", draft.Author); err != nil {
		return nil, err
	}
	if err := writer.WriteField("quantity", strconv.Itoa(draft.Quantity)); err != nil {
		return nil, err
	}
	if draft.Cover != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="cover"; filename=%q`, draft.Cover.Name))
		header.Set("Content-Type", draft.Cover.Type)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(draft.Cover.Data); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/books", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	env, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var book model.Book
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &book); err != nil {
			return nil, fmt.Errorf("decode created book: %w", err)
		}
	}
	return &book, nil
}

// ListBooks fetches one page of the catalog along with its pagination meta.
func (c *Client) ListBooks(ctx context.Context, page int) ([]model.Book, model.Meta, error) {
	if page < 1 {
		page = 1
	}
	env, err := c.request(ctx, http.MethodGet, "/books?page="+strconv.Itoa(page), nil)
	if err != nil {
		return nil, model.Meta{}, err
	}

	var books []model.Book
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &books); err != nil {
			return nil, model.Meta{}, fmt.Errorf("decode book list: %w", err)
		}
	}

	meta := model.Meta{CurrentPage: page}
	if len(env.Meta) > 0 && string(env.Meta) != "null" {
		if err := json.Unmarshal(env.Meta, &meta); err != nil {
			return nil, model.Meta{}, fmt.Errorf("decode list meta: %w", err)
		}
	}
	return books, meta, nil
}
