package store

import "fmt"

// CommitBatch inserts all buffered data from a BatchedStore within a single
// transaction. Fake (negative) IDs are remapped to real IDs, and suggestion
// function references are rewritten through the fakeToReal mapping.
//
// Functions are inserted before suggestions, which depend on them.
func (s *Store) CommitBatch(batch *BatchedStore) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: commit batch: begin: %w", err)
	}
	defer tx.Rollback()

	batch.mu.Lock()
	defer batch.mu.Unlock()

	fakeToReal := make(map[int64]int64, len(batch.Functions))

	for _, fn := range batch.Functions {
		realID, err := insertFunction(tx, &fn)
		if err != nil {
			return fmt.Errorf("store: commit batch: function %q: %w", fn.Name, err)
		}
		fakeToReal[fn.ID] = realID
	}

	for _, sg := range batch.Suggestions {
		if sg.FunctionID < 0 {
			realID, ok := fakeToReal[sg.FunctionID]
			if !ok {
				return fmt.Errorf("store: commit batch: suggestion %q has function_id=%d not in batch (have %d functions)",
					sg.Name, sg.FunctionID, len(batch.Functions))
			}
			sg.FunctionID = realID
		}
		if _, err := insertSuggestion(tx, &sg); err != nil {
			return fmt.Errorf("store: commit batch: suggestion %q: %w", sg.Name, err)
		}
	}

	return tx.Commit()
}
