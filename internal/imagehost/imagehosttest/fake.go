// Package imagehosttest provides an in-memory imagehost.Gateway for tests.
package imagehosttest

import (
	"context"
	"fmt"
	"sync"

	"github.com/Skotchmaster/yoneltic/internal/imagehost"
)

type Fake struct {
	mu sync.Mutex

	seq      int
	Uploaded []string
	Deleted  []string
	Stored   map[string][]byte

	// DeleteCalls counts every Delete call, including no-op ones.
	DeleteCalls int

	UploadErr error
	DeleteErr error
}

func New() *Fake {
	return &Fake{Stored: make(map[string][]byte)}
}

func (f *Fake) Upload(_ context.Context, file *imagehost.File) (imagehost.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if file.Empty() {
		return imagehost.Image{}, fmt.Errorf("%w: file is empty", imagehost.ErrUpload)
	}
	if f.UploadErr != nil {
		return imagehost.Image{}, fmt.Errorf("%w: %w", imagehost.ErrUpload, f.UploadErr)
	}
	f.seq++
	id := fmt.Sprintf("test/img-%d", f.seq)
	f.Uploaded = append(f.Uploaded, id)
	f.Stored[id] = file.Data
	return imagehost.Image{URL: "https://img.test/" + id + ".jpg", PublicID: id}, nil
}

func (f *Fake) Delete(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.DeleteCalls++
	if publicID == "" {
		return nil
	}
	f.Deleted = append(f.Deleted, publicID)
	if f.DeleteErr != nil {
		return fmt.Errorf("%w: %w", imagehost.ErrDelete, f.DeleteErr)
	}
	delete(f.Stored, publicID)
	return nil
}

func (f *Fake) DeletedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Deleted...)
}

func (f *Fake) DeleteCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.DeleteCalls
}

func (f *Fake) UploadedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Uploaded...)
}
