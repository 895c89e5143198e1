package index

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	chromem "github.com/philippgille/chromem-go"

	"interviewai-backend/internal/ai"
)

// ChromemGateway stores one embedded document per upload, keyed by
// owner and document id in metadata so deletes can be owner-scoped.
type ChromemGateway struct {
	db         *chromem.DB
	collection *chromem.Collection
}

func NewChromemGateway(persistPath, collectionName string, client *ai.EmbeddingClient, embCfg ai.EmbeddingConfig) (*ChromemGateway, error) {
	if collectionName == "" {
		collectionName = "resume_embeddings"
	}

	var db *chromem.DB
	var err error
	if persistPath != "" {
		db, err = chromem.NewPersistentDB(filepath.Join(persistPath, "chromem.gob"), false)
		if err != nil {
			return nil, fmt.Errorf("create persistent index db failed: %w", err)
		}
	} else {
		db = chromem.NewDB()
	}

	embeddingFunc := func(ctx context.Context, text string) ([]float32, error) {
		return client.Embed(ctx, embCfg, text)
	}

	collection, err := db.GetOrCreateCollection(collectionName, nil, embeddingFunc)
	if err != nil {
		return nil, fmt.Errorf("create index collection failed: %w", err)
	}

	return &ChromemGateway{db: db, collection: collection}, nil
}

func (g *ChromemGateway) IndexDocument(ctx context.Context, userID, documentID uint, content string) error {
	if content == "" {
		return nil
	}
	err := g.collection.AddDocument(ctx, chromem.Document{
		ID:      documentKey(userID, documentID),
		Content: content,
		Metadata: map[string]string{
			"user_id":     strconv.FormatUint(uint64(userID), 10),
			"document_id": strconv.FormatUint(uint64(documentID), 10),
		},
	})
	if err != nil {
		return fmt.Errorf("index document failed: %w", err)
	}
	return nil
}

func (g *ChromemGateway) DeleteByOwner(ctx context.Context, userID uint) error {
	where := map[string]string{"user_id": strconv.FormatUint(uint64(userID), 10)}
	if err := g.collection.Delete(ctx, where, nil); err != nil {
		return fmt.Errorf("index delete by owner failed: %w", err)
	}
	return nil
}

func (g *ChromemGateway) DeleteByDocument(ctx context.Context, userID, documentID uint) error {
	if err := g.collection.Delete(ctx, nil, nil, documentKey(userID, documentID)); err != nil {
		return fmt.Errorf("index delete by document failed: %w", err)
	}
	return nil
}

func documentKey(userID, documentID uint) string {
	return fmt.Sprintf("%d:%d", userID, documentID)
}
