package generator

import "strings"

// BuildPrompt renders the user turn sent to the model: the retrieved
// context block first, then the question.
func BuildPrompt(contextBlock string, question string) string {
	var sb strings.Builder

	sb.WriteString("Context:\n")
	sb.WriteString(contextBlock)
	sb.WriteString("\n\nQuestion: ")
	sb.WriteString(question)

	return sb.String()
}

// CleanAnswer strips residual markdown fencing some models wrap around
// their output.
func CleanAnswer(answer string) string {
	answer = strings.ReplaceAll(answer, "```markdown", "")
	answer = strings.ReplaceAll(answer, "```", "")
	return strings.TrimSpace(answer)
}
