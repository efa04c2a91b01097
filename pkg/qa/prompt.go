package qa

import (
	"fmt"

	"docqa/pkg/ai"
)

const (
	answerDescription  = "A detailed answer to the user's question based only on the provided context."
	sourcesDescription = "The exact sentences from the context that directly support the answer."
)

const promptTemplate = `Context:
---
%s
---

Question: %s

Based strictly on the provided context, answer the question. Also, identify the exact sentences from the context that support your answer.
If you cannot answer the question based on the context, state that in the 'answer' field and provide an empty array for 'sources'.
Do not use any information outside of the provided context.`

// BuildPrompt fences the document between --- lines and appends the question
// and the grounding instructions.
func BuildPrompt(context, question string) string {
	return fmt.Sprintf(promptTemplate, context, question)
}

// ResponseSchema is the structured output every answer must match.
func ResponseSchema() *ai.Schema {
	return &ai.Schema{
		Type: ai.TypeObject,
		Properties: map[string]*ai.Schema{
			"answer": {
				Type:        ai.TypeString,
				Description: answerDescription,
			},
			"sources": {
				Type:        ai.TypeArray,
				Description: sourcesDescription,
				Items:       &ai.Schema{Type: ai.TypeString},
			},
		},
		PropertyOrder: []string{"answer", "sources"},
		Required:      []string{"answer", "sources"},
	}
}
