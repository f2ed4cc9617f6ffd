package podio

import (
	"context"
	"fmt"
)

// Item is one record of a remote collection.
type Item struct {
	ItemID int64       `json:"item_id"`
	Title  string      `json:"title"`
	Fields []ItemField `json:"fields"`
}

// ItemField carries the values of one field, addressed both by its stable
// external id and by the schema's internal numeric id. The two can diverge;
// writes normally use the external id and fall back to the numeric one.
type ItemField struct {
	FieldID    int64        `json:"field_id"`
	ExternalID string       `json:"external_id"`
	Type       string       `json:"type"`
	Label      string       `json:"label"`
	Values     []FieldValue `json:"values"`
}

// FieldValue is one value entry. Depending on field type, Value is a plain
// string, a number, or a nested object ({text: …} for options, {embed: …}
// for links). Embed may also appear as a sibling of Value.
type FieldValue struct {
	Value any    `json:"value,omitempty"`
	Embed *Embed `json:"embed,omitempty"`
}

type Embed struct {
	URL string `json:"url"`
}

// Field returns the field with the given external id, or nil.
func (it *Item) Field(externalID string) *ItemField {
	for i := range it.Fields {
		if it.Fields[i].ExternalID == externalID {
			return &it.Fields[i]
		}
	}
	return nil
}

// FirstString returns the first value as a plain string.
func (f *ItemField) FirstString() (string, bool) {
	if f == nil || len(f.Values) == 0 {
		return "", false
	}
	s, ok := f.Values[0].Value.(string)
	return s, ok && s != ""
}

// FirstText returns the first value's option text ({value: {text: …}}).
func (f *ItemField) FirstText() (string, bool) {
	if f == nil || len(f.Values) == 0 {
		return "", false
	}
	obj, ok := f.Values[0].Value.(map[string]any)
	if !ok {
		return "", false
	}
	text, ok := obj["text"].(string)
	return text, ok && text != ""
}

// FirstEmbedURL returns the first value's embedded link URL. The store emits
// the embed either next to the value or nested inside it.
func (f *ItemField) FirstEmbedURL() (string, bool) {
	if f == nil || len(f.Values) == 0 {
		return "", false
	}
	v := f.Values[0]
	if v.Embed != nil && v.Embed.URL != "" {
		return v.Embed.URL, true
	}
	if obj, ok := v.Value.(map[string]any); ok {
		if embed, ok := obj["embed"].(map[string]any); ok {
			if url, ok := embed["url"].(string); ok && url != "" {
				return url, true
			}
		}
	}
	return "", false
}

// FilterRequest is the body of a collection filter call.
type FilterRequest struct {
	Filters  map[string]any `json:"filters,omitempty"`
	Limit    int            `json:"limit,omitempty"`
	Offset   int            `json:"offset"`
	SortBy   string         `json:"sort_by,omitempty"`
	SortDesc bool           `json:"sort_desc,omitempty"`
}

type filterResponse struct {
	Items []Item `json:"items"`
}

// FilterItems fetches one page of a collection.
func (c *Client) FilterItems(ctx context.Context, tenant, appID string, req FilterRequest) ([]Item, error) {
	var resp filterResponse
	path := fmt.Sprintf("/item/app/%s/filter/", appID)
	if err := c.do(ctx, tenant, "POST", path, req, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// GetItem fetches a full record, including every field's current value and
// numeric field id.
func (c *Client) GetItem(ctx context.Context, tenant string, itemID int64) (*Item, error) {
	var item Item
	if err := c.do(ctx, tenant, "GET", fmt.Sprintf("/item/%d", itemID), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

type createItemResponse struct {
	ItemID int64 `json:"item_id"`
}

// CreateItem creates a record in the given app and returns its id.
func (c *Client) CreateItem(ctx context.Context, tenant, appID string, fields map[string]any) (int64, error) {
	var resp createItemResponse
	path := fmt.Sprintf("/item/app/%s/", appID)
	body := map[string]any{"fields": fields}
	if err := c.do(ctx, tenant, "POST", path, body, &resp); err != nil {
		return 0, err
	}
	return resp.ItemID, nil
}

// UpdateItemFields rewrites several fields of a record in one call.
func (c *Client) UpdateItemFields(ctx context.Context, tenant string, itemID int64, fields map[string]any) error {
	body := map[string]any{"fields": fields}
	if err := c.do(ctx, tenant, "PUT", fmt.Sprintf("/item/%d", itemID), body, nil); err != nil {
		return &FieldWriteError{ItemID: itemID, Err: err}
	}
	return nil
}

// UpdateItemField writes a single field, addressed by external name or
// numeric id (pass the id formatted as a string). The store expects the
// value as a single-element sequence even for single-valued fields.
func (c *Client) UpdateItemField(ctx context.Context, tenant string, itemID int64, fieldRef string, value any) error {
	path := fmt.Sprintf("/item/%d/value/%s", itemID, fieldRef)
	body := []map[string]any{{"value": value}}
	if err := c.do(ctx, tenant, "PUT", path, body, nil); err != nil {
		return &FieldWriteError{ItemID: itemID, Err: err}
	}
	return nil
}
