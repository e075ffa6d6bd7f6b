package service

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/reelcast/orchestrator/internal/domain"
)

var fileNameSanitizer = regexp.MustCompile(`\s+`)

// audioFileName derives a unique clip name from the presenter, the keyword
// and a timestamp, so concurrent sessions never collide.
func audioFileName(presenterID int, keyword string) string {
	sanitized := fileNameSanitizer.ReplaceAllString(keyword, "_")
	return fmt.Sprintf("reelcast_%d_%s_%d", presenterID, sanitized, time.Now().UnixMilli())
}

// runAudioStage synthesizes the narration. The duration estimate here uses
// the audio-stage speaking rate, which intentionally differs from the
// script stage's.
func (s *Service) runAudioStage(ctx context.Context, session *domain.Session) (*domain.AudioResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.config.CallTimeout)
	defer cancel()

	fileName := audioFileName(session.PresenterID, session.Keyword)
	result, err := s.voice.Synthesize(callCtx, session.Script.Text, fileName)
	if err != nil {
		return nil, &domain.ExternalServiceError{Stage: "audio", Err: err}
	}

	return &domain.AudioResult{
		Data:       result.Data,
		FileName:   fileName,
		SizeBytes:  result.SizeBytes,
		SizeKB:     result.SizeBytes / 1024,
		WordCount:  session.Script.WordCount,
		EstimatedS: int(math.Round(float64(session.Script.WordCount) / domain.AudioWordsPerSecond)),
	}, nil
}
