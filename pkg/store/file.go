package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/startpage/pkg/document"
	"github.com/matzehuels/startpage/pkg/errors"
)

// FileStore keeps one JSON file per page key in a directory.
type FileStore struct {
	dir string

	mu      sync.Mutex
	written map[string][]byte
}

// NewFileStore creates a file store in dir, creating the directory if
// needed. An empty dir uses DefaultDir.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create store directory")
	}
	return &FileStore{dir: dir, written: make(map[string][]byte)}, nil
}

// DefaultDir returns ~/.config/startpage/pages, honouring XDG_CONFIG_HOME.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "locate config directory")
	}
	return filepath.Join(base, "startpage", "pages"), nil
}

// Dir returns the directory the store writes to.
func (s *FileStore) Dir() string { return s.dir }

// Path returns the file a key is stored in.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Load implements Store.
func (s *FileStore) Load(ctx context.Context, key string) (*document.Document, error) {
	if err := errors.ValidatePageKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(BackendFile, err, "read", key)
	}
	return decode(BackendFile, key, data)
}

// Save implements Store. The file is replaced atomically.
func (s *FileStore) Save(ctx context.Context, key string, doc *document.Document) error {
	if err := errors.ValidatePageKey(key); err != nil {
		return err
	}
	data, err := encode(doc)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+key+"-*.tmp")
	if err != nil {
		return storageErr(BackendFile, err, "write", key)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return storageErr(BackendFile, err, "write", key)
	}
	if err := tmp.Close(); err != nil {
		return storageErr(BackendFile, err, "write", key)
	}
	if err := os.Rename(tmp.Name(), s.Path(key)); err != nil {
		return storageErr(BackendFile, err, "write", key)
	}

	s.mu.Lock()
	s.written[key] = data
	s.mu.Unlock()
	return nil
}

// Close does nothing for file store.
func (s *FileStore) Close() error {
	return nil
}

// Watch calls fn with the reloaded document whenever the file for key is
// changed by another writer. Changes made through this store's own Save
// are not reported. Watch returns once the watcher is running; it stops
// when ctx is done.
func (s *FileStore) Watch(ctx context.Context, key string, fn func(*document.Document, error)) error {
	if err := errors.ValidatePageKey(key); err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "create watcher")
	}
	// Watch the directory: atomic replaces swap the inode under the path.
	if err := w.Add(s.dir); err != nil {
		w.Close()
		return errors.Wrap(errors.ErrCodeStorage, err, "watch %s", s.dir)
	}

	path := s.Path(key)
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != path || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				data, err := os.ReadFile(path)
				if err != nil {
					if !os.IsNotExist(err) {
						fn(nil, storageErr(BackendFile, err, "read", key))
					}
					continue
				}
				if s.ownWrite(key, data) {
					continue
				}
				fn(decode(BackendFile, key, data))
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				fn(nil, errors.Wrap(errors.ErrCodeStorage, err, "watch page %q", key))
			}
		}
	}()
	return nil
}

func (s *FileStore) ownWrite(key string, data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return bytes.Equal(s.written[key], data)
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
