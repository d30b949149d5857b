package harmonizer

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"go.uber.org/zap"

	harmonizerrt "github.com/jward/harmonizer/internal/runtime"
	"github.com/jward/harmonizer/internal/vocab"
)

// DefaultScriptPath is where a project keeps its vocabulary script,
// relative to the project root.
const DefaultScriptPath = harmonizerrt.DefaultScriptPath

// VocabularySources lists the project-specific words layered over the
// built-in table.
type VocabularySources struct {
	// Overrides are applied first.
	Overrides map[string]Dimension
	// Script is a Risor script whose define() calls are applied after
	// Overrides. Scripts see the table with Overrides already applied.
	Script string
	// ScriptFS, when set, is where Script and its imports are read from.
	ScriptFS fs.FS
	Logger   *zap.Logger
}

// BuildVocabulary returns the built-in table extended by src. The built-in
// table itself is never modified.
func BuildVocabulary(ctx context.Context, src VocabularySources) (*Vocabulary, error) {
	table := vocab.Default()
	if len(src.Overrides) > 0 {
		table = table.Extend(src.Overrides)
	}
	if src.Script == "" {
		return table, nil
	}

	opts := []harmonizerrt.RuntimeOption{harmonizerrt.WithLogger(src.Logger)}
	dir, name := filepath.Dir(src.Script), filepath.Base(src.Script)
	if src.ScriptFS != nil {
		opts = append(opts, harmonizerrt.WithRuntimeFS(src.ScriptFS))
		dir, name = "", src.Script
	}
	defined, err := harmonizerrt.NewRuntime(table, dir, opts...).RunScript(ctx, name, nil)
	if err != nil {
		return nil, fmt.Errorf("harmonizer: vocabulary: %w", err)
	}
	return table.Extend(defined), nil
}
