package index

import "context"

// Gateway is the boundary to the similarity-search collaborator. The
// index stores derived embeddings only; it is a reconstructible cache,
// never a source of truth. Callers of DeleteByOwner treat failures as
// best-effort: log and report, never abort relational deletion.
type Gateway interface {
	IndexDocument(ctx context.Context, userID, documentID uint, content string) error
	DeleteByOwner(ctx context.Context, userID uint) error
	DeleteByDocument(ctx context.Context, userID, documentID uint) error
}

// Noop satisfies Gateway when no index backend is configured.
type Noop struct{}

func (Noop) IndexDocument(ctx context.Context, userID, documentID uint, content string) error {
	return nil
}

func (Noop) DeleteByOwner(ctx context.Context, userID uint) error { return nil }

func (Noop) DeleteByDocument(ctx context.Context, userID, documentID uint) error { return nil }
