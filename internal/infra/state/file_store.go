package state

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/adrg/xdg"

	"storefront/internal/repository"
)

// キーごとに1ファイル。localStorage相当の置き場。
type FileStore struct {
	dir string
}

var keyPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// DefaultDirはXDGのデータディレクトリ配下を返す。
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, "storefront")
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Load(key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return b, nil
}

// Saveは同期書き込み。tmpに書いてrenameで差し替える。
func (s *FileStore) Save(key string, value []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Remove(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// キーをそのままファイル名に使うので文字種を制限する
func (s *FileStore) path(key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", fmt.Errorf("invalid state key: %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}
