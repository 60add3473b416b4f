// reportgen prints a single research report without the web backend.
//
// Usage:
//
//	reportgen --topic "Computer Vision" --query "How can students improve defect detection?"
//	reportgen -t "Edge AI" -q "How to optimize inference?" --format markdown
//
// The external provider is used when OPENAI_API_KEY is set; otherwise the
// offline generator answers.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/xeze-org/research-assistant/internal/config"
	"github.com/xeze-org/research-assistant/internal/render"
	"github.com/xeze-org/research-assistant/internal/report"
	"github.com/xeze-org/research-assistant/internal/research"
)

func newRootCmd() *cobra.Command {
	var (
		topic   string
		query   string
		format  string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:           "reportgen",
		Short:         "Generate a student research report",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			topic, query = strings.TrimSpace(topic), strings.TrimSpace(query)
			if topic == "" || query == "" {
				return errors.New("--topic and --query are required")
			}
			if utf8.RuneCountInString(topic) > research.MaxTopicLen {
				return fmt.Errorf("topic must be <= %d characters", research.MaxTopicLen)
			}
			if utf8.RuneCountInString(query) > research.MaxQueryLen {
				return fmt.Errorf("query must be <= %d characters", research.MaxQueryLen)
			}

			logger := zap.NewNop()
			if verbose {
				l, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				logger = l
				defer logger.Sync()
			}

			cfg := config.Load()
			svc := report.NewService(report.NewClient(cfg.Report(), logger), logger)
			doc, source := svc.GenerateWithSource(cmd.Context(), topic, query)
			return writeReport(cmd.OutOrStdout(), format, topic, source, doc)
		},
	}

	cmd.Flags().StringVarP(&topic, "topic", "t", "", "research topic (required)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "research question (required)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, yaml or markdown")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log provider activity to stderr")
	return cmd
}

func writeReport(w io.Writer, format, topic, source string, doc report.Report) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case "markdown", "md":
		_, err := io.WriteString(w, render.Markdown(topic, source, doc))
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
