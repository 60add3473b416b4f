// Package render turns reports into Markdown and HTML exports.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/xeze-org/research-assistant/internal/report"
)

var sectionTitles = map[string]string{
	"abstract":           "Abstract",
	"introduction":       "Introduction",
	"literature_review":  "Literature Review",
	"research_gaps":      "Research Gaps",
	"methodology":        "Methodology",
	"simulated_results":  "Simulated Results",
	"conclusion":         "Conclusion",
	"references":         "References",
	"ppt_outline":        "Presentation Outline",
	"viva_questions":     "Viva Questions",
	"datasets_and_tools": "Datasets and Tools",
}

const placeholderNote = "> Simulated results are illustrative placeholders, not measured data.\n\n"

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Markdown renders r under a topic heading. Typed and JSON-decoded reports
// render identically. source is the branch that produced r; fallback
// reports get a note that their figures are placeholders.
func Markdown(topic, source string, r report.Report) string {
	doc := loose(r)

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", topic)
	for _, key := range report.RequiredKeys {
		fmt.Fprintf(&sb, "## %s\n\n", sectionTitles[key])
		writeSection(&sb, key, doc[key])
	}
	if source == report.SourceFallback {
		sb.WriteString(placeholderNote)
	}
	return sb.String()
}

// HTML converts Markdown into a standalone HTML page. Raw HTML in the input
// is not passed through.
func HTML(title, markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return fmt.Sprintf("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n%s</body>\n</html>\n",
		html.EscapeString(title), buf.String()), nil
}

// loose normalises r to plain JSON values.
func loose(r report.Report) map[string]any {
	raw, err := json.Marshal(r)
	if err != nil {
		return r
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return r
	}
	return out
}

func writeSection(sb *strings.Builder, key string, v any) {
	switch key {
	case "literature_review":
		if items, ok := v.([]any); ok && writeLiterature(sb, items) {
			return
		}
	case "methodology":
		if m, ok := v.(map[string]any); ok && writeMethodology(sb, m) {
			return
		}
	case "simulated_results":
		if m, ok := v.(map[string]any); ok && writeResults(sb, m) {
			return
		}
	case "datasets_and_tools":
		if m, ok := v.(map[string]any); ok && writeDatasetsAndTools(sb, m) {
			return
		}
	}
	writeValue(sb, v)
}

func writeLiterature(sb *strings.Builder, items []any) bool {
	var lines []string
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			return false
		}
		src, _ := entry["source"].(string)
		finding, _ := entry["finding"].(string)
		lines = append(lines, fmt.Sprintf("- **%s**: %s\n", src, finding))
	}
	sb.WriteString(strings.Join(lines, ""))
	sb.WriteString("\n")
	return true
}

func writeMethodology(sb *strings.Builder, m map[string]any) bool {
	design, ok := m["design"].(string)
	if !ok {
		return false
	}
	steps, ok := stringList(m["steps"])
	if !ok {
		return false
	}
	fmt.Fprintf(sb, "**Design:** %s\n\n", design)
	for i, s := range steps {
		fmt.Fprintf(sb, "%d. %s\n", i+1, s)
	}
	sb.WriteString("\n")
	return true
}

func writeResults(sb *strings.Builder, m map[string]any) bool {
	summary, ok := m["summary"].(string)
	if !ok {
		return false
	}
	rows, ok := m["table"].([]any)
	if !ok {
		return false
	}
	var table strings.Builder
	table.WriteString("| Metric | Baseline | Proposed |\n|---|---|---|\n")
	for _, row := range rows {
		r, ok := row.(map[string]any)
		if !ok {
			return false
		}
		fmt.Fprintf(&table, "| %s | %s | %s |\n", cell(r["metric"]), cell(r["baseline"]), cell(r["proposed"]))
	}
	fmt.Fprintf(sb, "%s\n\n%s\n", summary, table.String())
	return true
}

func writeDatasetsAndTools(sb *strings.Builder, m map[string]any) bool {
	datasets, ok := stringList(m["datasets"])
	if !ok {
		return false
	}
	tools, ok := stringList(m["tools"])
	if !ok {
		return false
	}
	sb.WriteString("### Datasets\n\n")
	writeBullets(sb, datasets)
	sb.WriteString("### Tools\n\n")
	writeBullets(sb, tools)
	return true
}

func writeValue(sb *strings.Builder, v any) {
	switch val := v.(type) {
	case nil:
		sb.WriteString("_Not provided._\n\n")
	case string:
		sb.WriteString(val + "\n\n")
	case []any:
		if items, ok := stringList(val); ok {
			writeBullets(sb, items)
			return
		}
		writeJSONBlock(sb, val)
	default:
		writeJSONBlock(sb, val)
	}
}

func writeBullets(sb *strings.Builder, items []string) {
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
	sb.WriteString("\n")
}

func writeJSONBlock(sb *strings.Builder, v any) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		raw = []byte(fmt.Sprint(v))
	}
	fmt.Fprintf(sb, "```json\n%s\n```\n\n", raw)
}

func stringList(v any) ([]string, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func cell(v any) string {
	s := fmt.Sprint(v)
	if v == nil {
		s = ""
	}
	return strings.ReplaceAll(s, "|", `\|`)
}
