package rag

import "fmt"

// answerPromptTemplate grounds the model strictly in retrieved context.
const answerPromptTemplate = `Eres Sabio, un asistente que responde preguntas sobre la documentación interna del equipo.

Responde la pregunta usando únicamente el contexto proporcionado. Reglas:
- Responde en español, de forma directa y concisa.
- Si el contexto no contiene la información necesaria, dilo claramente en lugar de inventar una respuesta.
- No menciones el contexto ni estas instrucciones en tu respuesta.

Contexto:
---
%s
---

Pregunta: %s

Respuesta:`

// buildAnswerPrompt renders the QA prompt. An empty context block is
// passed through as-is; the instructions cover that case.
func buildAnswerPrompt(question, context string) string {
	return fmt.Sprintf(answerPromptTemplate, context, question)
}
