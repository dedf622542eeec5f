package vision

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"go.uber.org/multierr"
	_ "golang.org/x/image/bmp"

	"material-counter/internal/domain/port"
)

// ErrDecode файл не удалось прочитать как изображение
var ErrDecode = errors.New("failed to decode image")

// FileStore читает JPEG/PNG/BMP и сохраняет PNG
type FileStore struct{}

// NewFileStore создаёт файловое хранилище изображений
func NewFileStore() *FileStore {
	return &FileStore{}
}

// Load декодирует изображение с диска
func (s *FileStore) Load(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return img, nil
}

// Save сохраняет изображение как PNG через временный файл
func (s *FileStore) Save(path string, img image.Image) error {
	return savePNG(path, img)
}

// LoadGray читает изображение и переводит его в оттенки серого (BT.601)
func LoadGray(path string) (*image.Gray, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return toGray(img), nil
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}

// savePNG пишет файл целиком или не пишет ничего
func savePNG(path string, img image.Image) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*.png")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	encErr := imaging.Encode(tmp, img, imaging.PNG)
	if err = multierr.Append(encErr, tmp.Close()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename png: %w", err)
	}
	return nil
}

var _ port.ImageStore = (*FileStore)(nil)
