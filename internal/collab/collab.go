// Package collab defines the contracts for Rill's external collaborators
// (spec sections 1 and 6): reading/writing files from program code, and
// shelling out to a native C++ toolchain from the REPL's compile(...)
// command. Both are out of scope for this interpreter to implement
// end-to-end; only the interfaces and a no-op default are provided, so
// internal/repl and a future file-I/O native can be wired against a real
// implementation without the evaluator depending on either toolchain.
package collab

import "github.com/pkg/errors"

// ErrNotImplemented is returned by every stub collaborator method.
var ErrNotImplemented = errors.New("collaborator not implemented")

// FileIO is the contract a file-I/O native would be built against.
type FileIO interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
}

// Compiler is the contract the REPL's compile(route=, args=) command
// delegates to (spec section 6).
type Compiler interface {
	// Compile builds source (the REPL buffer, or the file at route if
	// route is non-empty) with the given extra compiler args, returning
	// the path to the produced artifact.
	Compile(source, route, args string) (string, error)
}

// NoopFileIO rejects every call; a real implementation needs explicit
// sandboxing the evaluator has no opinion on.
type NoopFileIO struct{}

func (NoopFileIO) ReadFile(string) ([]byte, error)       { return nil, ErrNotImplemented }
func (NoopFileIO) WriteFile(string, []byte) error        { return ErrNotImplemented }

// NoopCompiler rejects every call; a real implementation shells out to a
// native toolchain, which this repository does not carry.
type NoopCompiler struct{}

func (NoopCompiler) Compile(source, route, args string) (string, error) {
	return "", ErrNotImplemented
}
