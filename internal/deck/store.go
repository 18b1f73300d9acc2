package deck

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/youruser/deckstudio/internal/util"
)

// Store keeps one text file per saved deck under a single directory, named
// "<deck name>.txt" with the codec blob as content. Saving under an existing
// name overwrites.
type Store struct {
	dir string
}

var ErrBadDeckName = errors.New("deck name is empty or contains a path separator")

func NewStore(dir string) (*Store, error) {
	if err := util.EnsureDir(dir); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", ErrBadDeckName
	}
	return filepath.Join(s.dir, name+".txt"), nil
}

func (s *Store) Save(name, text string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(text), 0o644)
}

func (s *Store) Load(name string) (string, error) {
	p, err := s.path(name)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *Store) Delete(name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	return os.Remove(p)
}

// List returns the saved deck names, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	names := []string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".txt"))
	}
	sort.Strings(names)
	return names, nil
}
