// Package scriptgen provides the script-generation collaborator client.
package scriptgen

import (
	"context"

	"github.com/reelcast/orchestrator/internal/domain"
)

// ScriptResult is a generated narration.
type ScriptResult struct {
	Text      string `json:"text"`
	WordCount int    `json:"word_count"`
}

// Generator defines the script-generation operations the pipeline needs.
// The remote service honors a 75-80 word narration contract.
type Generator interface {
	// Generate produces narration text for the topic from the given
	// context snippets.
	Generate(ctx context.Context, topic string, snippets []domain.Snippet) (*ScriptResult, error)

	// Ping checks that the service answers.
	Ping(ctx context.Context) error
}
