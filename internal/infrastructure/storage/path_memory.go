package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"material-counter/internal/domain/port"
)

// Ключи запоминаемых путей
const (
	KeyModelDir  = "ModelDir"
	KeyModelPath = "ModelPath" // последний выбранный файл весов
	KeyImageDir  = "ImageDir"
	KeyVideoDir  = "VideoDir"
)

// PathMemory хранит последние выбранные пути в файле формата key=value.
// Файл перечитывается при создании и перезаписывается при каждом изменении.
type PathMemory struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// OpenPathMemory читает файл; отсутствующий файл создаётся с пустыми ключами
func OpenPathMemory(path string) (*PathMemory, error) {
	m := &PathMemory{path: path}

	values, err := godotenv.Read(path)
	switch {
	case err == nil:
		m.values = values
	case errors.Is(err, fs.ErrNotExist):
		m.values = map[string]string{
			KeyModelDir:  "",
			KeyModelPath: "",
			KeyImageDir:  "",
			KeyVideoDir:  "",
		}
		if err := m.flush(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("read path memory: %w", err)
	}

	return m, nil
}

// Get возвращает запомненное значение или пустую строку
func (m *PathMemory) Get(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key]
}

// Set запоминает значение и сразу сохраняет файл
func (m *PathMemory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.values[key] == value {
		return nil
	}
	m.values[key] = value
	return m.flush()
}

// RememberDir запоминает каталог, в котором лежит файл.
// Существующий каталог запоминается сам, а не его родитель.
func (m *PathMemory) RememberDir(key, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		return m.Set(key, abs)
	}
	return m.Set(key, filepath.Dir(abs))
}

// RememberModel запоминает файл весов и его каталог
func (m *PathMemory) RememberModel(modelPath string) error {
	abs, err := filepath.Abs(modelPath)
	if err != nil {
		return err
	}
	return multierr.Append(m.Set(KeyModelPath, abs), m.Set(KeyModelDir, filepath.Dir(abs)))
}

func (m *PathMemory) flush() error {
	if dir := filepath.Dir(m.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create path memory dir: %w", err)
		}
	}
	if err := godotenv.Write(m.values, m.path); err != nil {
		return fmt.Errorf("write path memory: %w", err)
	}
	return nil
}

var _ port.ModelHistory = (*PathMemory)(nil)
