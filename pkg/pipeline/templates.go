package pipeline

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/marchcraft/drover/pkg/work"
)

// Phase system prompts. Each phase gets its own instruction set; the
// rendered context is shared.
var systemPrompts = map[work.TransformationType]string{
	work.TransformInterpret: `You are interpreting a backlog work item. Read the item and restate what
is actually being asked: the goal, the constraints, and what "done" means.
Do not plan or implement yet. If the request is ambiguous beyond
interpretation, report a blocked outcome with concrete questions.`,

	work.TransformPlan: `You are planning a work item that has already been interpreted. Produce a
short, ordered plan of concrete steps. Flag risks and unknowns. If a
prerequisite decision is missing, report a blocked outcome with questions.`,

	work.TransformExecute: `You are executing the plan for a work item. Carry out the planned steps
and report exactly what you changed, file by file. If execution is
impossible without more information, report a blocked outcome with
questions rather than guessing.`,

	work.TransformRefine: `A previous attempt at this work item failed. Review the session history,
identify what went wrong, and correct course. Report what you fixed, or a
failed outcome with an explanation if the approach is unworkable.`,

	work.TransformAskClarification: `This work item is blocked on open questions. Review the answered
questions in the context and incorporate the answers into the work. If the
answers resolve the blockage, continue the work and report completed.`,

	work.TransformFinalize: `You are finalizing a work item. Verify the work against the item's
description, tidy loose ends, and summarize the overall result. A
completed outcome here marks the item finished.`,
}

// userPromptTemplate renders the execution context into the user prompt.
const userPromptTemplate = `# Work Item {{ .Item.ID }}: {{ .Item.Title }}

{{ .Item.Description }}
{{- if .Sessions }}

## Session History
{{ range .Sessions }}
- {{ .Transformation }} ({{ .Outcome }}{{ if .ErrorMessage }}, error: {{ .ErrorMessage }}{{ end }}){{ if .Summary }}: {{ .Summary }}{{ end }}
{{- end }}
{{- end }}
{{- if .AnsweredQuestions }}

## Answered Questions
{{ range .AnsweredQuestions }}
- Q: {{ .Question }}
  A: {{ .Answer }}
{{- end }}
{{- end }}
`

var userTmpl = template.Must(template.New("user_prompt").Parse(userPromptTemplate))

// renderPrompts produces the system and user prompts for one phase.
func renderPrompts(phase work.TransformationType, execCtx *ExecutionContext) (system, user string, err error) {
	system, ok := systemPrompts[phase]
	if !ok {
		return "", "", fmt.Errorf("no prompt template for phase: %s", phase)
	}

	var b strings.Builder
	if err := userTmpl.Execute(&b, execCtx); err != nil {
		return "", "", fmt.Errorf("rendering prompt for %s: %w", phase, err)
	}
	return system, b.String(), nil
}
