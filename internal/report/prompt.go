package report

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a scientific research assistant for students.
Produce rigorous yet easy-to-understand outputs.
Include evidence-oriented literature analysis, research gap detection,
a feasible student-level methodology, simulated quantitative results,
references, PPT outline, viva questions, and tools/datasets suggestions.
Return valid JSON only.`

// BuildSystemPrompt returns the fixed assistant instruction.
func BuildSystemPrompt() string {
	return systemPrompt
}

// BuildUserPrompt interpolates topic and query verbatim into the report request.
func BuildUserPrompt(topic, query string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Student topic: %s\n", topic))
	sb.WriteString(fmt.Sprintf("Student research query: %s\n\n", query))
	sb.WriteString("Return JSON with these keys exactly:\n")
	sb.WriteString(strings.Join(RequiredKeys, ", "))
	sb.WriteString(".\n\n")
	sb.WriteString("Requirements:\n")
	sb.WriteString(fmt.Sprintf("- literature_review must include source + finding entries from: %s\n", strings.Join(literatureSources, ", ")))
	sb.WriteString("- methodology must include design + steps\n")
	sb.WriteString("- simulated_results must include summary + table[] with metric, baseline, proposed\n")
	sb.WriteString("- references must be a list of citation strings\n")
	sb.WriteString("- datasets_and_tools must include datasets[] and tools[]")
	return sb.String()
}
