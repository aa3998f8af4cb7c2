package qa

import (
	"strings"
)

const promptTemplate = `Use the following pieces of context and answer the question at the end.
If you don't know the answer, just say you don't know.
Do not try to make up an answer.
Follow the query instructions carefully while answering the query.
Use maximum of ten sentences if user does not provide any limitation on completion length.
Keep the answer concise as possible and should be helpful.
Answer should not contain any harmful language.
Context: {context}
Question: {question}
Helpful Answer:`

// contextSeparator joins retrieved chunk texts inside the prompt.
const contextSeparator = "\n\n"

// BuildPrompt fills the grounding template with the retrieved texts and
// the question.
func BuildPrompt(question string, contexts []string) string {
	r := strings.NewReplacer(
		"{context}", strings.Join(contexts, contextSeparator),
		"{question}", question,
	)
	return r.Replace(promptTemplate)
}
