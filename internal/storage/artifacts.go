package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Artifacts persists downloaded videos and their caption sidecars.
type Artifacts struct {
	dir string

	// now is swapped out in tests for stable file names.
	now func() time.Time
}

// NewArtifacts creates an artifact store rooted at dir.
func NewArtifacts(dir string) *Artifacts {
	return &Artifacts{dir: dir, now: time.Now}
}

func (a *Artifacts) timestamp() string {
	ts := a.now().UTC().Format(time.RFC3339)
	ts = strings.ReplaceAll(ts, ":", "-")
	return strings.ReplaceAll(ts, ".", "-")
}

// SaveVideo writes the artifact bytes under a timestamped name and returns
// the file name and absolute path.
func (a *Artifacts) SaveVideo(data []byte) (fileName, path string, err error) {
	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create artifacts dir: %w", err)
	}

	fileName = fmt.Sprintf("reelcast_video_%s.mp4", a.timestamp())
	path = filepath.Join(a.dir, fileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", "", fmt.Errorf("failed to write video: %w", err)
	}
	return fileName, path, nil
}

// SaveCaption writes a caption sidecar next to the named video.
func (a *Artifacts) SaveCaption(videoFileName, caption string) (string, error) {
	captionName := strings.TrimSuffix(videoFileName, ".mp4") + "_caption.txt"
	path := filepath.Join(a.dir, captionName)
	if err := os.WriteFile(path, []byte(caption), 0644); err != nil {
		return "", fmt.Errorf("failed to write caption: %w", err)
	}
	return path, nil
}
