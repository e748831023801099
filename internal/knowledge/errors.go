package knowledge

import "errors"

// ErrNotFound reports that no persisted knowledge base exists at the given
// path. The caller rebuilds from the source document at info severity.
var ErrNotFound = errors.New("knowledge base not found")

// ErrCorrupt reports that a persisted knowledge base exists but cannot be
// served: unreadable files, a count mismatch, or an embedding model/dimension
// mismatch. The caller also rebuilds, but logs at error severity — a corrupt
// index is never partially served.
var ErrCorrupt = errors.New("knowledge base corrupt")
