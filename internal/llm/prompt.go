package llm

import (
	"fmt"
	"strings"
)

// Passage is one retrieved chunk handed to the model as source material.
type Passage struct {
	DocName        string
	SectionHeading string
	Content        string
}

const explainSystemPrompt = `You answer questions about a document collection. ` +
	`Use only the provided passages. If the passages do not contain the answer, say so. ` +
	`Cite the document name and section when you draw on a passage.`

// BuildExplainPrompt renders the question and its supporting passages into
// a single user message.
func BuildExplainPrompt(question string, passages []Passage) string {
	var b strings.Builder
	b.WriteString("Passages:\n\n")
	for i, p := range passages {
		fmt.Fprintf(&b, "[%d] %s", i+1, p.DocName)
		if p.SectionHeading != "" {
			fmt.Fprintf(&b, " / %s", p.SectionHeading)
		}
		b.WriteString("\n")
		b.WriteString(p.Content)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Question: %s\n", question)
	return b.String()
}
