package store

import (
	"crypto/sha256"
	"fmt"
)

// HashContent returns the hex sha256 of a file's content. Files whose hash
// is unchanged since the last analysis are skipped.
func HashContent(content []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(content))
}

// FunctionKey identifies a function across analyses of the same file by
// everything except its location.
func FunctionKey(f *Function) string {
	h := sha256.New()
	fmt.Fprintf(h, "name:%s\n", f.Name)
	fmt.Fprintf(h, "kind:%s\n", f.Kind)
	fmt.Fprintf(h, "params:%s\n", marshalStrings(f.Params))
	fmt.Fprintf(h, "flags:%v:%v:%v\n", f.IsAsync, f.IsGenerator, f.IsArrow)
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}
