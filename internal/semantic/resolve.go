package semantic

import "fmt"

// Resolver turns an authored link destination into an identifier. Failures
// return an *UnresolvedError carrying a best-effort title. Implementations
// must be safe for concurrent reads.
type Resolver interface {
	Resolve(link string, in Identifier) (Identifier, error)
}

// UnresolvedError reports a link that resolved to nothing.
type UnresolvedError struct {
	Link  string
	Title string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("unresolved link %q", e.Link)
}
