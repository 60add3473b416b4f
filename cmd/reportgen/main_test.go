package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReportgen_JSON(t *testing.T) {
	out, err := run(t, "--topic", "Computer Vision", "--query", "How can students improve defect detection?")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc["abstract"], "Computer Vision")

	pd, _ := doc["prompt_debug"].(map[string]any)
	assert.Equal(t, "fallback", pd["source"])
}

func TestReportgen_YAML(t *testing.T) {
	out, err := run(t, "-t", "NLP", "-q", "Topic", "-f", "yaml")
	require.NoError(t, err)

	var doc struct {
		LiteratureReview []struct {
			Source string `yaml:"source"`
		} `yaml:"literature_review"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.LiteratureReview, 3)
	assert.Equal(t, "Google Scholar", doc.LiteratureReview[0].Source)
	assert.Equal(t, "PubMed", doc.LiteratureReview[2].Source)
}

func TestReportgen_Markdown(t *testing.T) {
	out, err := run(t, "-t", "Edge AI", "-q", "Why?", "-f", "markdown")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Edge AI\n"))
}

func TestReportgen_Errors(t *testing.T) {
	_, err := run(t, "--topic", "  ", "--query", "q")
	assert.EqualError(t, err, "--topic and --query are required")

	_, err = run(t, "-t", strings.Repeat("x", 301), "-q", "q")
	assert.EqualError(t, err, "topic must be <= 300 characters")

	_, err = run(t, "-t", "t", "-q", "q", "-f", "xml")
	assert.EqualError(t, err, `unknown format "xml"`)
}
