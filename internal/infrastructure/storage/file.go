package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// DefaultFilePath is where the file backend keeps its document when no path is configured.
const DefaultFilePath = "data/houseFlipProjects.json"

// FileStore keeps every record in one JSON array, each element an object carrying its key
// in "id" (the layout the web app used in localStorage). Values that are not JSON objects are
// stored as {"id": key, "value": value}.
type FileStore struct {
	Path string

	mu sync.Mutex
}

// NewFileStore returns a store backed by path. The file is created on first write.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultFilePath
	}
	return &FileStore{Path: path}
}

func (s *FileStore) List(ctx context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return nil, err
	}
	keys := []string{}
	for _, r := range records {
		if id := recordID(r); id != "" && strings.HasPrefix(id, prefix) {
			keys = append(keys, id)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *FileStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return "", err
	}
	for _, r := range records {
		if recordID(r) == key {
			b, err := json.Marshal(r)
			if err != nil {
				return "", err
			}
			return string(b), nil
		}
	}
	return "", ErrNotFound
}

func (s *FileStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(value), &obj); err != nil || obj == nil {
		obj = map[string]interface{}{"value": value}
	}
	obj["id"] = key

	replaced := false
	for i, r := range records {
		if recordID(r) == key {
			records[i] = obj
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, obj)
	}
	return s.write(records)
}

func (s *FileStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}
	kept := records[:0]
	for _, r := range records {
		if recordID(r) != key {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return nil
	}
	return s.write(kept)
}

// Ping checks that the directory holding the document is reachable.
func (s *FileStore) Ping(ctx context.Context) error {
	_, err := os.Stat(filepath.Dir(s.Path))
	return err
}

func (s *FileStore) read() ([]map[string]interface{}, error) {
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}
	if len(strings.TrimSpace(string(b))) == 0 {
		return nil, nil
	}
	var records []map[string]interface{}
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("parsing project file: %w", err)
	}
	return records, nil
}

// write replaces the document through a temp file so readers never see a partial array.
func (s *FileStore) write(records []map[string]interface{}) error {
	if records == nil {
		records = []map[string]interface{}{}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating project dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".projects-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing project file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.Path)
}

func recordID(r map[string]interface{}) string {
	id, _ := r["id"].(string)
	return id
}
