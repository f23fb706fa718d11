package media

import (
	"sync"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
)

// Selection is the pending set of images for one ad draft. Files and previews
// always share positions.
type Selection struct {
	mu       sync.Mutex
	files    []File
	previews []*Preview
}

func NewSelection() *Selection {
	return &Selection{}
}

// Select adds files to the selection. Either all of them are added or, on any
// error, none are.
func (s *Selection) Select(files ...File) error {
	for _, f := range files {
		if err := f.Validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := CheckQuota(len(s.files), len(files)); err != nil {
		return err
	}
	for _, f := range files {
		s.files = append(s.files, f)
		s.previews = append(s.previews, NewPreview(f))
	}
	return nil
}

// Remove drops the file and preview at index.
func (s *Selection) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.files) {
		return domain.NewValidationError("images", "no image at position %d", index)
	}
	s.files = append(s.files[:index], s.files[index+1:]...)
	s.previews = append(s.previews[:index], s.previews[index+1:]...)
	return nil
}

func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// Files returns a copy of the pending files in selection order.
func (s *Selection) Files() []File {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]File, len(s.files))
	copy(out, s.files)
	return out
}

func (s *Selection) Previews() []*Preview {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Preview, len(s.previews))
	copy(out, s.previews)
	return out
}
