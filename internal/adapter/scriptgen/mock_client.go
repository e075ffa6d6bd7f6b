package scriptgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/reelcast/orchestrator/internal/domain"
)

// MockGenerator is a canned Generator for local development and tests.
type MockGenerator struct{}

// NewMockGenerator creates a new mock generator.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

var _ Generator = (*MockGenerator)(nil)

// Generate returns a deterministic 76-word narration built from the topic.
func (m *MockGenerator) Generate(ctx context.Context, topic string, snippets []domain.Snippet) (*ScriptResult, error) {
	opening := fmt.Sprintf("Enormes novedades sobre %s.", topic)
	filler := strings.Fields(strings.Repeat("la historia sigue creciendo y nadie quiere perdersela ", 8))

	words := strings.Fields(opening)
	for len(words) < 75 {
		words = append(words, filler[len(words)%len(filler)])
	}
	words = append(words, "Here", "we", "go.")

	text := strings.Join(words, " ")
	return &ScriptResult{Text: text, WordCount: len(words)}, nil
}

// Ping always succeeds.
func (m *MockGenerator) Ping(ctx context.Context) error {
	return nil
}
