package vision

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"material-counter/internal/domain/port"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
}

// IsImagePath проверяет расширение файла
func IsImagePath(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// DirFrameSource отдаёт изображения каталога как кадры, в порядке имён файлов
type DirFrameSource struct {
	store *FileStore
	files []string
	next  int
}

// NewDirFrameSource собирает список изображений каталога
func NewDirFrameSource(dir string) (*DirFrameSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read frames dir: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !IsImagePath(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)

	return &DirFrameSource{store: NewFileStore(), files: files}, nil
}

// Next возвращает следующий кадр или port.ErrEndOfStream
func (s *DirFrameSource) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.next >= len(s.files) {
		return nil, port.ErrEndOfStream
	}
	path := s.files[s.next]
	s.next++
	return s.store.Load(path)
}

func (s *DirFrameSource) Close() error {
	return nil
}

// PNGFrameSink сохраняет кадры как frame_000001.png
type PNGFrameSink struct {
	dir string
}

// NewPNGFrameSink создаёт каталог для кадров
func NewPNGFrameSink(dir string) (*PNGFrameSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create frames dir: %w", err)
	}
	return &PNGFrameSink{dir: dir}, nil
}

func (s *PNGFrameSink) Write(index int, frame image.Image) error {
	return savePNG(s.FramePath(index), frame)
}

// FramePath путь файла кадра с номером index
func (s *PNGFrameSink) FramePath(index int) string {
	return filepath.Join(s.dir, fmt.Sprintf("frame_%06d.png", index))
}

var (
	_ port.FrameSource = (*DirFrameSource)(nil)
	_ port.FrameSink   = (*PNGFrameSink)(nil)
)
