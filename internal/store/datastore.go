package store

// DataStore is the write interface the analysis pipeline uses. Both Store
// (direct SQLite) and BatchedStore (in-memory buffering for parallel
// analysis) implement it.
type DataStore interface {
	// Each insert returns the assigned ID.
	InsertFunction(fn *Function) (int64, error)
	InsertSuggestion(sg *Suggestion) (int64, error)
}

// Compile-time check: *Store satisfies DataStore.
var _ DataStore = (*Store)(nil)
