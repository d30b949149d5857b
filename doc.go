// Package harmonizer finds functions whose names promise something their
// bodies do not deliver. It places what a function's name says (intent),
// where it lives (context) and what its body does (execution) in a
// four-dimensional semantic space of Love, Justice, Power and Wisdom, and
// reports the distance between intent and execution as disharmony.
//
// # Pipeline
//
// For each source file harmonizer:
//
//  1. Parses the file with tree-sitter (Go, JavaScript, TypeScript, TSX,
//     Python) and extracts every function with its name words, doc words
//     and the words of the constructs and calls in its body.
//
//  2. Resolves the words through the vocabulary table into intent and
//     execution coordinates; the file name and language form the context.
//
//  3. Scores disharmony, coherence, balance and benevolence, classifies the
//     severity and ranks better-fitting names from a table of verbs.
//
//  4. Stores functions and suggestions in SQLite.
//
// # Usage
//
//	e, err := harmonizer.New(".harmonizer.db")
//	if err != nil { ... }
//	defer e.Close()
//
//	summary, err := e.AnalyzeDirectory(ctx, "path/to/project")
//
//	q := e.Query()
//	min := harmonizer.SeverityMedium
//	page, err := q.Functions(harmonizer.FunctionFilter{MinSeverity: &min},
//		harmonizer.Sort{Field: harmonizer.SortByDisharmony}, harmonizer.Pagination{})
//
// [Engine.AnalyzeSource] scores one in-memory file without a database.
//
// # Incremental Analysis
//
// [Engine.AnalyzeFiles] detects unchanged files via content hashing and skips
// them. When a file changes, the new severities are compared with the old
// ones and [RunSummary] reports how many functions got worse or better.
// Changing the vocabulary or the suggestion settings invalidates every
// stored result and the next run analyzes all files again.
//
// # Vocabulary
//
// Projects extend the built-in vocabulary with override files and with a
// Risor script (see [BuildVocabulary]) that calls define(word, dimension).
package harmonizer
