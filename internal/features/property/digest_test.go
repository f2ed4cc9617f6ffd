package property

import (
	"strings"
	"testing"

	"inmo-sync/internal/podio"
)

func TestDigestEmptyResults(t *testing.T) {
	got := Digest(nil)
	if !strings.Contains(got, "no encontré propiedades") {
		t.Errorf("Digest(nil) = %q, want the no-results message", got)
	}
}

func TestDigestNumbersAndLinks(t *testing.T) {
	items := []podio.Item{
		{
			ItemID: 1,
			Title:  "Casa céntrica",
			Fields: []podio.ItemField{
				{
					ExternalID: localityField,
					Values:     []podio.FieldValue{{Value: map[string]any{"text": "Villa del Dique"}}},
				},
				{
					ExternalID: linkField,
					Values:     []podio.FieldValue{{Embed: &podio.Embed{URL: "https://example.com/1"}}},
				},
			},
		},
		{
			ItemID: 2,
			Title:  "Lote a la calle",
		},
	}

	got := Digest(items)

	if !strings.Contains(got, "¡Encontré 2 propiedades disponibles!") {
		t.Errorf("Digest() missing header:\n%s", got)
	}
	if !strings.Contains(got, "*1. Casa céntrica (Villa del Dique)*\nhttps://example.com/1") {
		t.Errorf("Digest() missing first numbered entry:\n%s", got)
	}
	if !strings.Contains(got, "*2. Lote a la calle*\n"+noLinkText) {
		t.Errorf("Digest() missing link fallback:\n%s", got)
	}
}
