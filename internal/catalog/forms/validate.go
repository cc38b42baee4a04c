package forms

import (
	"strings"

	"github.com/openshelf/openshelf/internal/catalog/model"
)

// Validation messages for the new-book form.
const (
	titleTooShortMessage  = "Title must be at least 3 characters"
	authorTooShortMessage = "Author must be at least 3 characters"
	quantityRangeMessage  = "Quantity must be at least 1"
	quantityNumberMessage = "Quantity must be a number"
	coverMissingMessage   = "Please upload an image"
	coverTypeMessage      = "Only JPG, PNG, or GIF images are allowed"
)

// Validate checks the draft and returns the full error map. It is pure: the
// map is recomputed wholesale on every pass, never merged. An empty map
// means the draft is valid.
func Validate(draft model.BookDraft) model.FieldErrors {
	errs := make(model.FieldErrors)

	if len(strings.TrimSpace(draft.Title)) < 3 {
		errs[model.FieldTitle] = titleTooShortMessage
	}
	if len(strings.TrimSpace(draft.Author)) < 3 {
		errs[model.FieldAuthor] = authorTooShortMessage
	}

	if draft.RawQuantity != "" {
		errs[model.FieldQuantity] = quantityNumberMessage
	} else if draft.Quantity < 1 {
		errs[model.FieldQuantity] = quantityRangeMessage
	}

	// Absence and wrong-type are mutually exclusive, checked in that order.
	if draft.Cover == nil {
		errs[model.FieldCover] = coverMissingMessage
	} else if !model.AllowedCoverTypes[draft.Cover.Type] {
		errs[model.FieldCover] = coverTypeMessage
	}

	return errs
}
