package property

import (
	"fmt"
	"strings"

	"inmo-sync/internal/podio"
)

const noLinkText = "Sin enlace web"

// Digest renders search results as a numbered chat list: bold title with
// the locality in parentheses, then the listing link on its own line.
func Digest(items []podio.Item) string {
	if len(items) == 0 {
		return "Lo siento, no encontré propiedades disponibles que coincidan con tu búsqueda. 😔 Podés probar con otros filtros."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ ¡Encontré %d propiedades disponibles!\n\n", len(items))

	for i := range items {
		item := &items[i]

		locality := ""
		if text, ok := item.Field(localityField).FirstText(); ok {
			locality = " (" + text + ")"
		}

		link := noLinkText
		if url, ok := item.Field(linkField).FirstEmbedURL(); ok {
			link = url
		}

		fmt.Fprintf(&b, "*%d. %s%s*\n%s\n\n", i+1, item.Title, locality, link)
	}

	return b.String()
}
