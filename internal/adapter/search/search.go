// Package search provides the context-search collaborator: keyword lookup
// over ingested source snippets.
package search

import (
	"context"

	"github.com/reelcast/orchestrator/internal/domain"
)

// Searcher defines the context-search operations the pipeline needs.
// Zero results is a valid, non-error outcome.
type Searcher interface {
	// Search returns up to limit snippets matching the keyword, VIP rows
	// first, newest first.
	Search(ctx context.Context, keyword string, limit int) ([]domain.Snippet, error)

	// Add ingests one snippet.
	Add(ctx context.Context, snippet domain.Snippet) (int64, error)

	// Ping checks that the backend answers.
	Ping(ctx context.Context) error
}
