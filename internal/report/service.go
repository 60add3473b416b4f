package report

import (
	"context"

	"go.uber.org/zap"
)

// ExternalGenerator is a best-effort provider of complete reports.
type ExternalGenerator interface {
	TryGenerate(ctx context.Context, topic, query string) (Report, bool)
}

// Service picks between the external provider and the local fallback.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	external ExternalGenerator
	logger   *zap.Logger
}

// NewService wires the orchestrator. A nil external generator means every
// report comes from Fallback.
func NewService(external ExternalGenerator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{external: external, logger: logger}
}

// outcome is the result of one generation attempt. Only the two types below
// implement it.
type outcome interface {
	isOutcome()
}

type externalOutcome struct{ doc Report }

type fallbackOutcome struct{ doc Report }

func (externalOutcome) isOutcome() {}
func (fallbackOutcome) isOutcome() {}

// Generate always returns a report carrying every key in RequiredKeys.
func (s *Service) Generate(ctx context.Context, topic, query string) Report {
	doc, _ := s.GenerateWithSource(ctx, topic, query)
	return doc
}

// GenerateWithSource is Generate plus the branch that produced the report,
// SourceExternal or SourceFallback. The source comes from the branch taken,
// never from the report's contents.
func (s *Service) GenerateWithSource(ctx context.Context, topic, query string) (Report, string) {
	switch o := s.resolve(ctx, topic, query).(type) {
	case externalOutcome:
		return o.doc, SourceExternal
	case fallbackOutcome:
		return o.doc.withPromptDebug(PromptDebug{
			SystemPrompt: BuildSystemPrompt(),
			UserPrompt:   BuildUserPrompt(topic, query),
			Source:       SourceFallback,
		}), SourceFallback
	default:
		panic("report: unknown outcome")
	}
}

func (s *Service) resolve(ctx context.Context, topic, query string) outcome {
	if s.external != nil {
		if doc, ok := s.external.TryGenerate(ctx, topic, query); ok && HasAllRequiredKeys(doc, RequiredKeys) {
			return externalOutcome{doc: doc}
		}
	}
	s.logger.Debug("using fallback report", zap.String("topic", topic))
	return fallbackOutcome{doc: Fallback(topic, query)}
}
