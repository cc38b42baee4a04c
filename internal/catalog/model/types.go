package model

// Book represents a catalog entry returned by the remote API.
type Book struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Quantity int    `json:"quantity"`
	CoverURL string `json:"cover_url,omitempty"`
}

// Meta carries the pagination cursor served alongside book collections.
type Meta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	Total       int `json:"total"`
}

// LoginRequest is the payload posted to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the payload posted to the registration endpoint.
type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// AuthData is the data portion of a successful auth envelope.
type AuthData struct {
	AccessToken string `json:"access_token"`
}

// CoverFile holds the bytes and sniffed media type of a selected cover image.
type CoverFile struct {
	Name string
	Type string
	Data []byte
}

// BookDraft is the in-progress form state for a new catalog entry.
type BookDraft struct {
	Title    string
	Author   string
	Cover    *CoverFile
	Quantity int
	// RawQuantity keeps the last raw input when it did not parse as a
	// number, so validation can flag it instead of the form crashing.
	RawQuantity string
}

// NewBookDraft returns a draft with the form's default field values.
func NewBookDraft() BookDraft {
	return BookDraft{Quantity: 1}
}

// FieldErrors maps a form field name to a human-readable message. An empty
// map means the draft is fully valid.
type FieldErrors map[string]string

// Draft field names used as FieldErrors keys.
const (
	FieldTitle    = "title"
	FieldAuthor   = "author"
	FieldQuantity = "quantity"
	FieldCover    = "cover"
)

// AllowedCoverTypes lists the media types accepted for cover uploads.
var AllowedCoverTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}
