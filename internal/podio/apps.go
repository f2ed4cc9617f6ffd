package podio

import (
	"context"
	"fmt"
)

// App is the schema of a remote collection.
type App struct {
	AppID  int64 `json:"app_id"`
	Config struct {
		Name string `json:"name"`
	} `json:"config"`
	Fields []AppField `json:"fields"`
}

// AppField is one field descriptor from the schema.
type AppField struct {
	FieldID    int64  `json:"field_id"`
	ExternalID string `json:"external_id"`
	Type       string `json:"type"`
	Label      string `json:"label"`
	Config     struct {
		Required bool `json:"required"`
		Settings struct {
			End  string `json:"end"`  // "disabled" or an end mode
			Time string `json:"time"` // "enabled" / "disabled"
		} `json:"settings"`
	} `json:"config"`
}

// DateConfig derives the date-field configuration from the descriptor's
// settings. A field supports ranges unless its end mode is disabled.
func (f AppField) DateConfig() DateFieldConfig {
	end := f.Config.Settings.End
	return DateFieldConfig{
		RangeEnabled: end != "" && end != "disabled",
		TimeEnabled:  f.Config.Settings.Time == "enabled",
	}
}

// GetApp fetches an app's schema.
func (c *Client) GetApp(ctx context.Context, tenant, appID string) (*App, error) {
	var app App
	if err := c.do(ctx, tenant, "GET", fmt.Sprintf("/app/%s", appID), nil, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// DateFields returns the app's date-type field descriptors, in schema order.
func (a *App) DateFields() []AppField {
	var out []AppField
	for _, f := range a.Fields {
		if f.Type == "date" {
			out = append(out, f)
		}
	}
	return out
}
