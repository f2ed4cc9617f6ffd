package lead

import (
	"strings"

	"inmo-sync/internal/podio"
)

// FieldsBuilder assembles a create/update payload one field kind at a time.
// Empty inputs are simply not added, so the payload never carries null or
// empty members the store would reject.
type FieldsBuilder struct {
	fields map[string]any
}

func NewFieldsBuilder() *FieldsBuilder {
	return &FieldsBuilder{fields: map[string]any{}}
}

func (b *FieldsBuilder) Title(title string) *FieldsBuilder {
	if title = strings.TrimSpace(title); title != "" {
		b.fields["title"] = title
	}
	return b
}

func (b *FieldsBuilder) Text(externalID, value string) *FieldsBuilder {
	if value = strings.TrimSpace(value); value != "" {
		b.fields[externalID] = value
	}
	return b
}

// Option sets a category field; the store expects option ids as a sequence.
func (b *FieldsBuilder) Option(externalID string, optionID int) *FieldsBuilder {
	if optionID > 0 {
		b.fields[externalID] = []int{optionID}
	}
	return b
}

// Phone sets a phone field value entry of type mobile.
func (b *FieldsBuilder) Phone(externalID, number string) *FieldsBuilder {
	if number = strings.TrimSpace(number); number != "" {
		b.fields[externalID] = []map[string]any{{"type": "mobile", "value": number}}
	}
	return b
}

// Email sets an email field value entry of type other.
func (b *FieldsBuilder) Email(externalID, address string) *FieldsBuilder {
	if address = strings.TrimSpace(address); address != "" {
		b.fields[externalID] = []map[string]any{{"type": "other", "value": address}}
	}
	return b
}

// ItemRef sets an app-reference field pointing at another record.
func (b *FieldsBuilder) ItemRef(externalID string, itemID int64) *FieldsBuilder {
	if itemID > 0 {
		b.fields[externalID] = []map[string]any{{"item_id": itemID}}
	}
	return b
}

// Date sets a date field from an already-normalized payload sequence.
func (b *FieldsBuilder) Date(externalID string, values []*podio.DateValue) *FieldsBuilder {
	if len(values) > 0 {
		b.fields[externalID] = values
	}
	return b
}

// Extras merges free-form extra fields verbatim, skipping nils.
func (b *FieldsBuilder) Extras(extras map[string]any) *FieldsBuilder {
	for k, v := range extras {
		if v != nil {
			b.fields[k] = v
		}
	}
	return b
}

func (b *FieldsBuilder) Build() map[string]any {
	return b.fields
}
