// Package storage handles local binary assets: presenter base images and
// downloaded artifacts.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Presenters loads presenter base images from a local directory. Presenters
// are referenced by small integer ids; presenter n lives at presenter-n.png.
type Presenters struct {
	dir string
}

// NewPresenters creates a presenter loader over dir.
func NewPresenters(dir string) *Presenters {
	return &Presenters{dir: dir}
}

func (p *Presenters) path(id int) string {
	return filepath.Join(p.dir, fmt.Sprintf("presenter-%d.png", id))
}

// Exists reports whether the presenter image is on disk.
func (p *Presenters) Exists(id int) bool {
	info, err := os.Stat(p.path(id))
	return err == nil && !info.IsDir()
}

// Load reads the presenter image bytes.
func (p *Presenters) Load(id int) ([]byte, error) {
	data, err := os.ReadFile(p.path(id))
	if err != nil {
		return nil, fmt.Errorf("presenter %d not available: %w", id, err)
	}
	return data, nil
}

// Name returns the service-side asset name for a presenter.
func (p *Presenters) Name(id int) string {
	return fmt.Sprintf("presenter-%d.png", id)
}
