package report

// RequiredKeys is the key set every returned Report must carry.
var RequiredKeys = []string{
	"abstract",
	"introduction",
	"literature_review",
	"research_gaps",
	"methodology",
	"simulated_results",
	"conclusion",
	"references",
	"ppt_outline",
	"viva_questions",
	"datasets_and_tools",
}

// HasAllRequiredKeys reports whether obj contains every key in required.
// Extra keys are allowed and values are not inspected.
func HasAllRequiredKeys(obj map[string]any, required []string) bool {
	return len(MissingKeys(obj, required)) == 0
}

// MissingKeys returns the keys of required absent from obj, in order.
func MissingKeys(obj map[string]any, required []string) []string {
	var missing []string
	for _, k := range required {
		if _, ok := obj[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}
