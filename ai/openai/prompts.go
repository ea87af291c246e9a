package openai

import "strings"

// defaultSystemPrompt frames the model as a research assistant that
// reasons only within the retrieved library context.
const defaultSystemPrompt = `You are an expert research assistant answering questions about a curated document library.

You must:
- ground every statement in the provided context passages,
- say so explicitly when the context does not contain the answer,
- avoid introducing unstated assumptions,
- prefer precise, literature-style language.

When uncertain, ask for clarification rather than guessing.
Do not invent mechanisms or results that are not present in the context.`

// buildUserPrompt assembles the retrieved passages and the question into
// a single stuff-style prompt. Passages arrive in descending relevance
// order and are kept in that order.
func buildUserPrompt(question string, passages []string) string {
	var b strings.Builder
	b.WriteString("Context passages:\n\n")
	for i, p := range passages {
		if i > 0 {
			b.WriteString("\n---\n")
		}
		b.WriteString(p)
	}
	b.WriteString("\n\nQuestion:\n")
	b.WriteString(question)
	return b.String()
}
