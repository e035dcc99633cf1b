package advisor

import (
	"strings"
)

const generateTemplate = `
You are an intelligent Final Year Project Advisor for Computer Science students located in Pakistan.
Considering the local context and resources, based on the user's inputs below, do the following:

- Recommend the most suitable project type, stack, and scope.
- If user choices seem suboptimal, suggest better ones and explain why.
- Include reasoning and suggestions based on modern tech trends, project success, and the practical realities of developing in Pakistan.
- Personalize suggestions if the user included any notes at the end.

User inputs:
{{summary}}

Your recommendation:
`

const refineTemplate = `
You are an intelligent Final Year Project Advisor for Computer Science students located in Pakistan.
Below is a recommendation you wrote earlier, followed by the changes the student asked for.

- Apply every requested modification.
- Keep everything the modifications do not touch.
- Keep the same layout: section headings end with a colon and bullet points start with '*'.
- Keep the advice realistic for the local context and resources.

Previous recommendation:
{{existing}}

Requested modifications:
{{modifications}}

Revised recommendation:
`

// Summary renders answers as "question: answer" lines in questionnaire
// order, followed by an "Extra Notes:" line when notes is not blank.
func Summary(answers Answers, notes string) string {
	lines := make([]string, 0, len(answers)+1)
	for _, qa := range answers.Ordered() {
		lines = append(lines, qa.Question+": "+qa.Answer)
	}
	if n := strings.TrimSpace(notes); n != "" {
		lines = append(lines, "Extra Notes: "+n)
	}
	return strings.Join(lines, "\n")
}

// BuildGeneratePrompt wraps the answer summary in the advisor instructions.
func BuildGeneratePrompt(answers Answers, notes string) string {
	return strings.Replace(generateTemplate, "{{summary}}", Summary(answers, notes), 1)
}

// BuildRefinePrompt embeds the previous recommendation and the requested
// modifications verbatim.
func BuildRefinePrompt(existing, modifications string) string {
	r := strings.NewReplacer("{{existing}}", existing, "{{modifications}}", modifications)
	return r.Replace(refineTemplate)
}
