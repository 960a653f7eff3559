package memory

import (
	"context"
	"sync"

	"github.com/Apurer/storefront-console/internal/domains/catalog/ports"
)

var _ ports.ObjectStore = (*ObjectStore)(nil)

// ObjectStore keeps assets in process memory for development and tests.
type ObjectStore struct {
	mu      sync.RWMutex
	objects map[string]ports.Object
	baseURL string
}

// NewObjectStore builds a store whose public references start with baseURL.
func NewObjectStore(baseURL string) *ObjectStore {
	return &ObjectStore{objects: map[string]ports.Object{}, baseURL: baseURL}
}

func (s *ObjectStore) Put(_ context.Context, path, contentType string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = ports.Object{Path: path, ContentType: contentType, Data: append([]byte(nil), data...)}
	return ports.PublicURL(s.baseURL, path), nil
}

func (s *ObjectStore) Get(_ context.Context, path string) (*ports.Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	object, ok := s.objects[path]
	if !ok {
		return nil, ports.ErrObjectNotFound
	}
	object.Data = append([]byte(nil), object.Data...)
	return &object, nil
}

func (s *ObjectStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[path]; !ok {
		return ports.ErrObjectNotFound
	}
	delete(s.objects, path)
	return nil
}

// Len reports how many objects are stored.
func (s *ObjectStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
