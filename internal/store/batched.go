package store

import "sync"

// BatchedStore buffers inserts in memory using fake (negative) IDs. It
// implements DataStore so the analysis code writes to it without knowing
// whether it is hitting SQLite or an in-memory buffer.
//
// The mutex protects fake ID allocation and slice appends. CommitBatch
// writes the buffer to SQLite.
type BatchedStore struct {
	mu sync.Mutex

	Functions   []Function
	Suggestions []Suggestion

	nextFakeID int64 // starts at -1, decrements
}

// Compile-time check: *BatchedStore satisfies DataStore.
var _ DataStore = (*BatchedStore)(nil)

// NewBatchedStore creates an empty BatchedStore.
func NewBatchedStore() *BatchedStore {
	return &BatchedStore{nextFakeID: -1}
}

func (b *BatchedStore) allocFakeID() int64 {
	id := b.nextFakeID
	b.nextFakeID--
	return id
}

func (b *BatchedStore) InsertFunction(fn *Function) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fakeID := b.allocFakeID()
	fn.ID = fakeID
	b.Functions = append(b.Functions, *fn)
	return fakeID, nil
}

func (b *BatchedStore) InsertSuggestion(sg *Suggestion) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fakeID := b.allocFakeID()
	sg.ID = fakeID
	b.Suggestions = append(b.Suggestions, *sg)
	return fakeID, nil
}
