package harmonizer

import (
	"fmt"
	"strings"

	"github.com/jward/harmonizer/internal/ice"
	"github.com/jward/harmonizer/internal/store"
)

// --- Common Types ---

// Pagination controls offset+limit paging on list/search results.
type Pagination struct {
	Offset int // skip this many results (default 0)
	Limit  int // max results to return (default 50, max 500)
}

const (
	defaultLimit = 50
	maxLimit     = 500
)

// normalize returns a Pagination with defaults applied and bounds enforced.
func (p Pagination) normalize() Pagination {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

// SortField specifies how to order results.
type SortField string

const (
	SortByDisharmony SortField = "disharmony"
	SortByName       SortField = "name"
	SortByFile       SortField = "file"
	SortByLine       SortField = "line"
	SortBySeverity   SortField = "severity"
)

// ParseSortField accepts a sort field name; empty means disharmony.
func ParseSortField(s string) (SortField, error) {
	switch f := SortField(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return SortByDisharmony, nil
	case SortByDisharmony, SortByName, SortByFile, SortByLine, SortBySeverity:
		return f, nil
	}
	return "", fmt.Errorf("harmonizer: unknown sort field %q", s)
}

// SortOrder specifies ascending or descending.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Sort controls result ordering.
type Sort struct {
	Field SortField
	Order SortOrder
}

// PagedResult wraps a page of results with total count for pagination.
type PagedResult[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"total_count"` // total matching results (before pagination)
}

// FunctionFilter specifies which functions to include. All fields are
// optional.
type FunctionFilter struct {
	MinSeverity *Severity // severity at or above
	Kinds       []string  // match any of these kinds
	Language    string    // exact match on the file's language
	FileID      *int64    // restrict to a single file
	PathPrefix  *string   // restrict to functions in files under this path
}

// --- Internal Helpers ---

// normalizePathPrefix ensures a path prefix ends with "/" for correct LIKE matching.
// "internal/store" -> "internal/store/" to prevent matching "internal/store_utils/".
func normalizePathPrefix(prefix string) string {
	if prefix == "" {
		return ""
	}
	if !strings.HasSuffix(prefix, "/") {
		return prefix + "/"
	}
	return prefix
}

// functionSortColumn returns the SQL ORDER BY expression for function
// queries. Falls back to disharmony for unknown fields. Severity is a step
// function of disharmony, so both sort by the score. Ties are broken by
// location so pages are stable.
func functionSortColumn(field SortField, dir string) string {
	var col string
	switch field {
	case SortByName:
		col = "fn.name"
	case SortByFile:
		col = "f.path"
	case SortByLine:
		return fmt.Sprintf("f.path %s, fn.start_line %s, fn.start_col %s", dir, dir, dir)
	default:
		col = "fn.disharmony"
	}
	return fmt.Sprintf("%s %s, f.path ASC, fn.start_line ASC, fn.start_col ASC", col, dir)
}

// sortDirection returns "ASC" or "DESC". Disharmony and severity default
// to worst first.
func sortDirection(s Sort) string {
	switch s.Order {
	case Desc:
		return "DESC"
	case Asc:
		return "ASC"
	}
	if s.Field == "" || s.Field == SortByDisharmony || s.Field == SortBySeverity {
		return "DESC"
	}
	return "ASC"
}

// severitiesAtLeast lists the stored names of every severity >= min.
func severitiesAtLeast(min Severity) []string {
	var out []string
	for s := min; s <= ice.Critical; s++ {
		out = append(out, s.String())
	}
	return out
}

// whereFunctions renders filter as a WHERE clause over fn (functions) and f
// (files).
func whereFunctions(filter FunctionFilter) (string, []any) {
	var where []string
	var args []any

	if filter.MinSeverity != nil && *filter.MinSeverity > ice.Excellent {
		names := severitiesAtLeast(*filter.MinSeverity)
		where = append(where, "fn.severity IN ("+placeholders(len(names))+")")
		for _, n := range names {
			args = append(args, n)
		}
	}
	if len(filter.Kinds) > 0 {
		where = append(where, "fn.kind IN ("+placeholders(len(filter.Kinds))+")")
		for _, k := range filter.Kinds {
			args = append(args, k)
		}
	}
	if filter.Language != "" {
		where = append(where, "f.language = ?")
		args = append(args, filter.Language)
	}
	if filter.FileID != nil {
		where = append(where, "fn.file_id = ?")
		args = append(args, *filter.FileID)
	}
	if filter.PathPrefix != nil {
		prefix := normalizePathPrefix(*filter.PathPrefix)
		if prefix != "" {
			where = append(where, "f.path LIKE ? ESCAPE '\\'")
			args = append(args, escapeLike(prefix)+"%")
		}
	}
	if len(where) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(where, " AND "), args
}

func placeholders(n int) string {
	return strings.Repeat("?,", n-1) + "?"
}

// --- Enumeration Endpoints ---

// Functions is the primary listing/filtering endpoint. Items carry their
// stored suggestions.
func (q *QueryBuilder) Functions(filter FunctionFilter, sort Sort, page Pagination) (*PagedResult[FunctionReport], error) {
	whereClause, args := whereFunctions(filter)
	return q.pagedFunctions("functions", whereClause, args, sort, page)
}

// SearchFunctions performs glob-style search on function names.
// '*' is the wildcard (mapped to SQL '%').
func (q *QueryBuilder) SearchFunctions(pattern string, filter FunctionFilter, sort Sort, page Pagination) (*PagedResult[FunctionReport], error) {
	whereClause, args := whereFunctions(filter)

	// Pattern matching: escape literal % and _ first, then convert * to %
	if pattern != "" && pattern != "*" {
		likePattern := escapeLike(pattern)
		likePattern = strings.ReplaceAll(likePattern, "*", "%")
		cond := "fn.name LIKE ? ESCAPE '\\'"
		if whereClause == "" {
			whereClause = "WHERE " + cond
		} else {
			whereClause += " AND " + cond
		}
		args = append(args, likePattern)
	}
	return q.pagedFunctions("search functions", whereClause, args, sort, page)
}

func (q *QueryBuilder) pagedFunctions(op, whereClause string, args []any, sort Sort, page Pagination) (*PagedResult[FunctionReport], error) {
	if q.store == nil {
		return nil, ErrNoStore
	}
	page = page.normalize()

	// Count
	countSQL := `SELECT COUNT(*) FROM functions fn JOIN files f ON fn.file_id = f.id ` + whereClause
	var totalCount int
	if err := q.store.DB().QueryRow(countSQL, args...).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("%s: count: %w", op, err)
	}

	// Data
	dataSQL := fmt.Sprintf(
		`SELECT %s, f.path, f.language
		 FROM functions fn
		 JOIN files f ON fn.file_id = f.id
		 %s
		 ORDER BY %s
		 LIMIT ? OFFSET ?`,
		prefixFunctionCols("fn"), whereClause, functionSortColumn(sort.Field, sortDirection(sort)),
	)
	dataArgs := append(append([]any{}, args...), page.Limit, page.Offset)

	items, err := q.queryReports(dataSQL, dataArgs...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &PagedResult[FunctionReport]{Items: items, TotalCount: totalCount}, nil
}

// queryReports runs a query selecting prefixed function columns followed
// by the file's path and language, and attaches stored suggestions.
func (q *QueryBuilder) queryReports(query string, args ...any) ([]FunctionReport, error) {
	rows, err := q.store.DB().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	type row struct {
		fn   *store.Function
		file store.File
	}
	var scanned []row
	for rows.Next() {
		var r row
		fn, err := store.ScanFunctionRow(withExtra(rows, &r.file.Path, &r.file.Language))
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		r.fn = fn
		scanned = append(scanned, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	ids := make([]int64, len(scanned))
	for i, r := range scanned {
		ids[i] = r.fn.ID
	}
	sgs, err := q.store.SuggestionsByFunctions(ids)
	if err != nil {
		return nil, err
	}

	items := make([]FunctionReport, 0, len(scanned))
	for _, r := range scanned {
		rep, err := reportFromStore(r.fn, &r.file, sgs[r.fn.ID])
		if err != nil {
			return nil, err
		}
		items = append(items, rep)
	}
	return items, nil
}

// Files is a convenience method for listing files.
func (q *QueryBuilder) Files(pathPrefix string, language string, sort Sort, page Pagination) (*PagedResult[File], error) {
	if q.store == nil {
		return nil, ErrNoStore
	}
	page = page.normalize()

	var where []string
	var args []any

	if pathPrefix != "" {
		prefix := normalizePathPrefix(pathPrefix)
		where = append(where, "path LIKE ? ESCAPE '\\'")
		args = append(args, escapeLike(prefix)+"%")
	}
	if language != "" {
		where = append(where, "language = ?")
		args = append(args, language)
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	// Count
	countSQL := "SELECT COUNT(*) FROM files " + whereClause
	var totalCount int
	if err := q.store.DB().QueryRow(countSQL, args...).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("files: count: %w", err)
	}

	// Data. Files only sort by path; sort.Field is ignored.
	order := Sort{Field: SortByFile, Order: sort.Order}
	dataSQL := fmt.Sprintf(
		`SELECT %s FROM files %s ORDER BY path %s LIMIT ? OFFSET ?`,
		store.FileCols, whereClause, sortDirection(order),
	)
	dataArgs := append(append([]any{}, args...), page.Limit, page.Offset)

	rows, err := q.store.DB().Query(dataSQL, dataArgs...)
	if err != nil {
		return nil, fmt.Errorf("files: query: %w", err)
	}
	defer rows.Close()

	items := []File{}
	for rows.Next() {
		f, err := store.ScanFileRow(rows)
		if err != nil {
			return nil, fmt.Errorf("files: scan: %w", err)
		}
		items = append(items, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("files: rows: %w", err)
	}

	return &PagedResult[File]{Items: items, TotalCount: totalCount}, nil
}

// --- Scan Helpers ---

// prefixFunctionCols returns store.FunctionCols with a table prefix applied.
func prefixFunctionCols(prefix string) string {
	cols := strings.Split(store.FunctionCols, ",")
	prefixed := make([]string, len(cols))
	for i, c := range cols {
		prefixed[i] = prefix + "." + strings.TrimSpace(c)
	}
	return strings.Join(prefixed, ", ")
}

type scanner interface {
	Scan(dest ...any) error
}

// extraScanner appends destinations for columns that follow a store row.
type extraScanner struct {
	row   scanner
	extra []any
}

func (s extraScanner) Scan(dest ...any) error {
	return s.row.Scan(append(dest, s.extra...)...)
}

func withExtra(row scanner, extra ...any) scanner {
	return extraScanner{row: row, extra: extra}
}

// escapeLike escapes SQL LIKE special characters (% and _) with backslash.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
