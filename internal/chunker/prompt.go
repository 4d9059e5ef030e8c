package chunker

import (
	"fmt"
	"strings"

	"github.com/sabio-ai/sabio/internal/wiki"
)

// chunkPromptTemplate asks the model to decompose a document into
// atomic, self-contained propositions. The response contract is a JSON
// string array inside a fenced block; ExtractStringArray depends on it.
const chunkPromptTemplate = `Eres un asistente que descompone documentación interna en proposiciones.

Analiza el siguiente documento y extrae cada hecho como una proposición independiente en español. Reglas:
- Cada proposición debe ser una oración completa y autocontenida, comprensible sin leer el resto del documento.
- Resuelve pronombres y referencias implícitas usando el contexto del documento (título, documento padre, colección).
- No inventes información que no esté en el documento.
- Ignora texto de navegación, saludos y contenido decorativo.
- Si el documento no contiene hechos útiles, devuelve una lista vacía.

Contexto del documento:
%s

Contenido del documento:
---
%s
---

Devuelve únicamente un bloque de código con un arreglo JSON de cadenas:
` + "```json\n[\"proposición 1\", \"proposición 2\"]\n```"

// buildPrompt renders the chunking prompt for an enriched document.
// Ancestry lines are included only when present so the model is not
// fed empty labels.
func buildPrompt(doc *wiki.EnrichedDocument) string {
	var ctx strings.Builder
	fmt.Fprintf(&ctx, "- Título: %s\n", doc.Title)
	if doc.ParentDocumentTitle != "" {
		fmt.Fprintf(&ctx, "- Documento padre: %s\n", doc.ParentDocumentTitle)
	}
	if doc.CollectionName != "" {
		fmt.Fprintf(&ctx, "- Colección: %s\n", doc.CollectionName)
	}
	if len(doc.Tags) > 0 {
		fmt.Fprintf(&ctx, "- Etiquetas: %s\n", strings.Join(doc.Tags, ", "))
	}

	return fmt.Sprintf(chunkPromptTemplate, strings.TrimRight(ctx.String(), "\n"), doc.Text)
}
