package report

// Report is a generated research report. Keys follow RequiredKeys; values are
// either the typed shapes below (fallback path) or whatever the external
// provider returned after JSON decoding.
type Report map[string]any

// SourceFallback marks reports produced by the deterministic generator.
const (
	SourceFallback = "fallback"
	SourceExternal = "external"
)

// PromptDebugKey holds provenance metadata. It is never part of RequiredKeys.
const PromptDebugKey = "prompt_debug"

// LiteratureEntry is one attributed finding in literature_review.
type LiteratureEntry struct {
	Source  string `json:"source"  yaml:"source"`
	Finding string `json:"finding" yaml:"finding"`
}

// Methodology describes the study design and its ordered steps.
type Methodology struct {
	Design string   `json:"design" yaml:"design"`
	Steps  []string `json:"steps"  yaml:"steps"`
}

// ResultRow is one illustrative metric comparison.
type ResultRow struct {
	Metric   string `json:"metric"   yaml:"metric"`
	Baseline string `json:"baseline" yaml:"baseline"`
	Proposed string `json:"proposed" yaml:"proposed"`
}

// SimulatedResults carries placeholder figures, not measured data.
type SimulatedResults struct {
	Summary string      `json:"summary" yaml:"summary"`
	Table   []ResultRow `json:"table"   yaml:"table"`
}

// DatasetsAndTools lists suggested datasets and tooling.
type DatasetsAndTools struct {
	Datasets []string `json:"datasets" yaml:"datasets"`
	Tools    []string `json:"tools"    yaml:"tools"`
}

// PromptDebug records which prompts a fallback report stands in for.
type PromptDebug struct {
	SystemPrompt string `json:"system_prompt" yaml:"system_prompt"`
	UserPrompt   string `json:"user_prompt"   yaml:"user_prompt"`
	Source       string `json:"source"        yaml:"source"`
}

// withPromptDebug returns a copy of r carrying pd. r itself is left untouched.
func (r Report) withPromptDebug(pd PromptDebug) Report {
	out := make(Report, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	out[PromptDebugKey] = pd
	return out
}
