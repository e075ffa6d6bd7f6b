package service

import (
	"context"
	"fmt"
	"log"

	"github.com/reelcast/orchestrator/internal/domain"
)

// refusalTemplate is the fixed narration used when context search finds
// nothing. This is a business rule, not an error path: the session still
// reaches the approval gate carrying it.
const refusalTemplate = "Lo siento, no tenemos noticias de %s en este momento. Mantente atento."

// runScriptStage retrieves context for the keyword and generates the
// narration. Zero search results short-circuit to the refusal template
// without invoking generation.
func (s *Service) runScriptStage(ctx context.Context, keyword string) (domain.Script, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.config.CallTimeout)
	defer cancel()

	snippets, err := s.searcher.Search(callCtx, keyword, s.config.SearchLimit)
	if err != nil {
		return domain.Script{}, &domain.ExternalServiceError{Stage: "search", Err: err}
	}

	if len(snippets) == 0 {
		log.Printf("INFO: no snippets for %q, returning refusal script", keyword)
		return domain.Script{
			Text:    fmt.Sprintf(refusalTemplate, keyword),
			Refusal: true,
		}, nil
	}

	genCtx, cancelGen := context.WithTimeout(ctx, s.config.CallTimeout)
	defer cancelGen()

	result, err := s.scriptGen.Generate(genCtx, keyword, snippets)
	if err != nil {
		return domain.Script{}, &domain.ExternalServiceError{Stage: "script", Err: err}
	}

	script := domain.Script{
		Text:              result.Text,
		WordCount:         result.WordCount,
		SourceCount:       len(snippets),
		OptimalLength:     domain.OptimalWordCount(result.WordCount),
		EstimatedDuration: result.WordCount / domain.ScriptWordsPerSecond,
	}
	if !domain.AcceptableWordCount(script.WordCount) {
		log.Printf("WARN: script for %q is outside the acceptable length band: %d words", keyword, script.WordCount)
	}
	return script, nil
}
