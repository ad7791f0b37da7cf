package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists uploaded document bytes so the script engine can load
// the original HTML later.
type FileStore interface {
	Save(kbId string, filename string, data []byte) (string, error)
	RemoveNamespace(kbId string) error
}

// AssetStore keeps each knowledge base's uploads in its own directory under
// the assets root.
type AssetStore struct {
	root string
}

func NewAssetStore(root string) (*AssetStore, error) {
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("creating assets directory: %w", err)
	}
	return &AssetStore{root: root}, nil
}

// Save writes the file under <root>/<kbId>/<filename> and returns the stored
// path. The filename is reduced to its base to keep uploads inside the
// namespace.
func (s *AssetStore) Save(kbId string, filename string, data []byte) (string, error) {
	dir := filepath.Join(s.root, kbId)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("creating kb directory: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("writing asset: %w", err)
	}
	return path, nil
}

// RemoveNamespace deletes every stored file of one knowledge base.
func (s *AssetStore) RemoveNamespace(kbId string) error {
	if kbId == "" {
		return fmt.Errorf("empty kb id")
	}
	return os.RemoveAll(filepath.Join(s.root, kbId))
}
