package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// BatchStorage holds serialized batch state between documents of one
// processing run. Should be safe to use concurrently.
type BatchStorage interface {
	// StoreBatch stores the state for the given batch id, overwriting
	// any existing state.
	StoreBatch(batchId string, state []byte) error

	// RetrieveBatch returns the state for the given batch id and an
	// error when it is not there.
	RetrieveBatch(batchId string) ([]byte, error)

	// RemoveBatch removes the state. The value not being there is also
	// an error.
	RemoveBatch(batchId string) error
}

// ------------------------------------------------------------------------------

type InMemoryBatchStorage struct {
	batches map[string][]byte
	mutex   sync.Mutex
}

func NewInMemoryBatchStorage() *InMemoryBatchStorage {
	return &InMemoryBatchStorage{
		batches: make(map[string][]byte),
	}
}

func (s *InMemoryBatchStorage) StoreBatch(batchId string, state []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.batches[batchId] = state
	return nil
}

func (s *InMemoryBatchStorage) RetrieveBatch(batchId string) ([]byte, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if state, ok := s.batches[batchId]; ok {
		return state, nil
	}
	return nil, fmt.Errorf("failed to find batch %s", batchId)
}

func (s *InMemoryBatchStorage) RemoveBatch(batchId string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.batches[batchId]; !ok {
		return fmt.Errorf("failed to remove batch %s, because it wasn't there", batchId)
	}
	delete(s.batches, batchId)
	return nil
}

// ------------------------------------------------------------------------------

// Batches are short-lived working state; anything a travel agent leaves
// behind expires after a day.
const BatchTimeout time.Duration = 24 * time.Hour

type RedisBatchStorage struct {
	client    *redis.Client
	namespace string
}

func NewRedisBatchStorage(client *redis.Client, namespace string) *RedisBatchStorage {
	return &RedisBatchStorage{client: client, namespace: namespace}
}

func createKey(namespace, batchId string) string {
	return fmt.Sprintf("%s:batch:%s", namespace, batchId)
}

func (s *RedisBatchStorage) StoreBatch(batchId string, state []byte) error {
	ctx := context.Background()
	return s.client.Set(ctx, createKey(s.namespace, batchId), state, BatchTimeout).Err()
}

func (s *RedisBatchStorage) RetrieveBatch(batchId string) ([]byte, error) {
	ctx := context.Background()
	return s.client.Get(ctx, createKey(s.namespace, batchId)).Bytes()
}

func (s *RedisBatchStorage) RemoveBatch(batchId string) error {
	ctx := context.Background()
	return s.client.Del(ctx, createKey(s.namespace, batchId)).Err()
}
