package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// FunctionCols is the column list for function queries, exported for use
// by QueryBuilder.
const FunctionCols = `id, file_id, name, kind, params, is_async, is_generator, is_arrow, doc,
	start_line, start_col, end_line, end_col,
	intent_l, intent_j, intent_p, intent_w,
	context_l, context_j, context_p, context_w,
	execution_l, execution_j, execution_p, execution_w,
	disharmony, coherence, balance, benevolence, severity,
	intent_dominant, execution_dominant, node_tags`

const insertFunctionSQL = `INSERT INTO functions (file_id, name, kind, params, is_async, is_generator, is_arrow, doc,
	start_line, start_col, end_line, end_col,
	intent_l, intent_j, intent_p, intent_w,
	context_l, context_j, context_p, context_w,
	execution_l, execution_j, execution_p, execution_w,
	disharmony, coherence, balance, benevolence, severity,
	intent_dominant, execution_dominant, node_tags)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertFunction(db execer, fn *Function) (int64, error) {
	tags, err := compressBlob(fn.NodeTags)
	if err != nil {
		return 0, err
	}
	res, err := db.Exec(insertFunctionSQL,
		fn.FileID, fn.Name, fn.Kind, marshalStrings(fn.Params), fn.IsAsync, fn.IsGenerator, fn.IsArrow, fn.Doc,
		fn.StartLine, fn.StartCol, fn.EndLine, fn.EndCol,
		fn.Intent[0], fn.Intent[1], fn.Intent[2], fn.Intent[3],
		fn.Context[0], fn.Context[1], fn.Context[2], fn.Context[3],
		fn.Execution[0], fn.Execution[1], fn.Execution[2], fn.Execution[3],
		fn.Disharmony, fn.Coherence, fn.Balance, fn.Benevolence, fn.Severity,
		fn.IntentDominant, fn.ExecutionDominant, tags,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func insertSuggestion(db execer, sg *Suggestion) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO suggestions (function_id, rank, name, verb, category, similarity)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sg.FunctionID, sg.Rank, sg.Name, sg.Verb, sg.Category, sg.Similarity,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// InsertFunction inserts fn directly and sets its ID.
func (s *Store) InsertFunction(fn *Function) (int64, error) {
	id, err := insertFunction(s.db, fn)
	if err != nil {
		return 0, fmt.Errorf("store: insert function %q: %w", fn.Name, err)
	}
	fn.ID = id
	return id, nil
}

// InsertSuggestion inserts sg directly and sets its ID.
func (s *Store) InsertSuggestion(sg *Suggestion) (int64, error) {
	id, err := insertSuggestion(s.db, sg)
	if err != nil {
		return 0, fmt.Errorf("store: insert suggestion %q: %w", sg.Name, err)
	}
	sg.ID = id
	return id, nil
}

// ScanFunctionRow scans a single row into a Function, decompressing its
// node tags. Exported for use by QueryBuilder.
func ScanFunctionRow(scanner interface{ Scan(...any) error }) (*Function, error) {
	fn := &Function{}
	var params, doc, intentDom, execDom sql.NullString
	var tags []byte
	err := scanner.Scan(
		&fn.ID, &fn.FileID, &fn.Name, &fn.Kind, &params, &fn.IsAsync, &fn.IsGenerator, &fn.IsArrow, &doc,
		&fn.StartLine, &fn.StartCol, &fn.EndLine, &fn.EndCol,
		&fn.Intent[0], &fn.Intent[1], &fn.Intent[2], &fn.Intent[3],
		&fn.Context[0], &fn.Context[1], &fn.Context[2], &fn.Context[3],
		&fn.Execution[0], &fn.Execution[1], &fn.Execution[2], &fn.Execution[3],
		&fn.Disharmony, &fn.Coherence, &fn.Balance, &fn.Benevolence, &fn.Severity,
		&intentDom, &execDom, &tags,
	)
	if err != nil {
		return nil, err
	}
	fn.Params = unmarshalStrings(params.String)
	fn.Doc = doc.String
	fn.IntentDominant = intentDom.String
	fn.ExecutionDominant = execDom.String
	if fn.NodeTags, err = decompressBlob(tags); err != nil {
		return nil, err
	}
	return fn, nil
}

func (s *Store) queryFunctions(query string, args ...any) ([]*Function, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var fns []*Function
	for rows.Next() {
		fn, err := ScanFunctionRow(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan function: %w", err)
		}
		fns = append(fns, fn)
	}
	return fns, rows.Err()
}

// FunctionsByFile returns a file's functions in source order.
func (s *Store) FunctionsByFile(fileID int64) ([]*Function, error) {
	fns, err := s.queryFunctions(
		"SELECT "+FunctionCols+" FROM functions WHERE file_id = ? ORDER BY start_line, start_col", fileID)
	if err != nil {
		return nil, fmt.Errorf("store: functions by file: %w", err)
	}
	return fns, nil
}

// FunctionByID returns one function, or ErrNotFound.
func (s *Store) FunctionByID(id int64) (*Function, error) {
	fn, err := ScanFunctionRow(s.db.QueryRow("SELECT "+FunctionCols+" FROM functions WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: function by id: %w", err)
	}
	return fn, nil
}

// SuggestionsByFunction returns a function's suggestions by rank.
func (s *Store) SuggestionsByFunction(functionID int64) ([]*Suggestion, error) {
	rows, err := s.db.Query(
		`SELECT id, function_id, rank, name, verb, category, similarity
		 FROM suggestions WHERE function_id = ? ORDER BY rank`, functionID)
	if err != nil {
		return nil, fmt.Errorf("store: suggestions by function: %w", err)
	}
	defer rows.Close()
	var out []*Suggestion
	for rows.Next() {
		sg := &Suggestion{}
		var cat sql.NullString
		if err := rows.Scan(&sg.ID, &sg.FunctionID, &sg.Rank, &sg.Name, &sg.Verb, &cat, &sg.Similarity); err != nil {
			return nil, fmt.Errorf("store: scan suggestion: %w", err)
		}
		sg.Category = cat.String
		out = append(out, sg)
	}
	return out, rows.Err()
}

// SuggestionsByFunctions returns suggestions for many functions keyed by
// function ID.
func (s *Store) SuggestionsByFunctions(functionIDs []int64) (map[int64][]*Suggestion, error) {
	out := make(map[int64][]*Suggestion, len(functionIDs))
	if len(functionIDs) == 0 {
		return out, nil
	}
	rows, err := s.db.Query(
		`SELECT id, function_id, rank, name, verb, category, similarity
		 FROM suggestions WHERE function_id IN (`+placeholderList(len(functionIDs))+`)
		 ORDER BY function_id, rank`, int64sToArgs(functionIDs)...)
	if err != nil {
		return nil, fmt.Errorf("store: suggestions by functions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		sg := &Suggestion{}
		var cat sql.NullString
		if err := rows.Scan(&sg.ID, &sg.FunctionID, &sg.Rank, &sg.Name, &sg.Verb, &cat, &sg.Similarity); err != nil {
			return nil, fmt.Errorf("store: scan suggestion: %w", err)
		}
		sg.Category = cat.String
		out[sg.FunctionID] = append(out[sg.FunctionID], sg)
	}
	return out, rows.Err()
}
