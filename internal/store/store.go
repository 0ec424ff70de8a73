// Package store persists documents and their chunks in Postgres and
// exposes keyword (full-text) and semantic (pgvector) search over them.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("document not found")

// Document is one ingested source file.
type Document struct {
	DocID       string    `json:"doc_id"`
	Name        string    `json:"name"`
	FilePath    string    `json:"file_path,omitempty"`
	FileSize    int64     `json:"file_size"`
	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ChunkCount  int       `json:"chunk_count"`
}

// ChunkRecord is one stored chunk of a document.
type ChunkRecord struct {
	ChunkID        string            `json:"chunk_id"`
	DocID          string            `json:"doc_id"`
	ChunkIndex     int               `json:"chunk_index"`
	Content        string            `json:"content"`
	SectionHeading string            `json:"section_heading,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// SearchResult is one search hit. Score is a ts_rank value for keyword
// search and a cosine similarity for semantic search.
type SearchResult struct {
	ChunkID        string  `json:"chunk_id"`
	DocID          string  `json:"doc_id"`
	DocName        string  `json:"doc_name"`
	Content        string  `json:"content"`
	SectionHeading string  `json:"section_heading,omitempty"`
	Score          float32 `json:"score"`
}

// Store wraps a Postgres connection pool.
type Store struct {
	pool     *pgxpool.Pool
	embedDim int
}

// New connects to Postgres and verifies the connection.
func New(ctx context.Context, connStr string, embedDim int) (*Store, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: pool, embedDim: embedDim}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// UpsertDocument inserts a document or refreshes an existing one.
func (s *Store) UpsertDocument(ctx context.Context, doc Document) error {
	query := `INSERT INTO keyword_documents (doc_id, name, file_path, file_size, content_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (doc_id) DO UPDATE SET
			name = EXCLUDED.name,
			file_path = EXCLUDED.file_path,
			file_size = EXCLUDED.file_size,
			content_hash = EXCLUDED.content_hash,
			updated_at = now()`
	_, err := s.pool.Exec(ctx, query,
		doc.DocID, doc.Name, nullable(doc.FilePath), doc.FileSize, nullable(doc.ContentHash))
	if err != nil {
		return fmt.Errorf("upsert document %s: %w", doc.DocID, err)
	}
	return nil
}

// GetDocument fetches one document with its chunk count.
func (s *Store) GetDocument(ctx context.Context, docID string) (*Document, error) {
	query := `SELECT d.doc_id, d.name, coalesce(d.file_path, ''), d.file_size,
			coalesce(d.content_hash, ''), d.created_at, d.updated_at,
			(SELECT count(*) FROM keyword_chunks c WHERE c.doc_id = d.doc_id)
		FROM keyword_documents d
		WHERE d.doc_id = $1`
	var doc Document
	err := s.pool.QueryRow(ctx, query, docID).Scan(
		&doc.DocID, &doc.Name, &doc.FilePath, &doc.FileSize,
		&doc.ContentHash, &doc.CreatedAt, &doc.UpdatedAt, &doc.ChunkCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", docID, err)
	}
	return &doc, nil
}

// ListDocuments returns all documents ordered by name.
func (s *Store) ListDocuments(ctx context.Context) ([]Document, error) {
	query := `SELECT d.doc_id, d.name, coalesce(d.file_path, ''), d.file_size,
			coalesce(d.content_hash, ''), d.created_at, d.updated_at,
			(SELECT count(*) FROM keyword_chunks c WHERE c.doc_id = d.doc_id)
		FROM keyword_documents d
		ORDER BY d.name`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.DocID, &doc.Name, &doc.FilePath, &doc.FileSize,
			&doc.ContentHash, &doc.CreatedAt, &doc.UpdatedAt, &doc.ChunkCount); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// DeleteDocument removes a document; its chunks go with it via cascade.
func (s *Store) DeleteDocument(ctx context.Context, docID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM keyword_documents WHERE doc_id = $1`, docID)
	if err != nil {
		return fmt.Errorf("delete document %s: %w", docID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByContentHash returns the doc_id of a document with identical
// content, or "" when none exists.
func (s *Store) FindByContentHash(ctx context.Context, hash string) (string, error) {
	var docID string
	err := s.pool.QueryRow(ctx,
		`SELECT doc_id FROM keyword_documents WHERE content_hash = $1 LIMIT 1`, hash).Scan(&docID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("find by content hash: %w", err)
	}
	return docID, nil
}

// ReplaceChunks atomically swaps a document's chunks for a new set.
// Delete-then-insert in one transaction keeps re-ingestion idempotent.
func (s *Store) ReplaceChunks(ctx context.Context, docID string, chunks []ChunkRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM keyword_chunks WHERE doc_id = $1`, docID); err != nil {
		return fmt.Errorf("delete chunks for %s: %w", docID, err)
	}

	batch := &pgx.Batch{}
	for _, c := range chunks {
		batch.Queue(`INSERT INTO keyword_chunks (chunk_id, doc_id, chunk_index, content, section_heading, metadata)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			c.ChunkID, c.DocID, c.ChunkIndex, c.Content, nullable(c.SectionHeading), c.Metadata)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert chunks for %s: %w", docID, err)
	}

	return tx.Commit(ctx)
}

// UpdateChunkEmbedding stores the embedding vector for one chunk.
func (s *Store) UpdateChunkEmbedding(ctx context.Context, chunkID string, embedding []float32) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE keyword_chunks SET embedding = $2 WHERE chunk_id = $1`,
		chunkID, pgvector.NewVector(embedding))
	if err != nil {
		return fmt.Errorf("update embedding for %s: %w", chunkID, err)
	}
	return nil
}

// ChunksMissingEmbedding lists a document's chunks that still lack an
// embedding, in chunk order.
func (s *Store) ChunksMissingEmbedding(ctx context.Context, docID string) ([]ChunkRecord, error) {
	query := `SELECT chunk_id, doc_id, chunk_index, content, coalesce(section_heading, '')
		FROM keyword_chunks
		WHERE doc_id = $1 AND embedding IS NULL
		ORDER BY chunk_index`
	rows, err := s.pool.Query(ctx, query, docID)
	if err != nil {
		return nil, fmt.Errorf("chunks missing embedding: %w", err)
	}
	defer rows.Close()

	var chunks []ChunkRecord
	for rows.Next() {
		var c ChunkRecord
		if err := rows.Scan(&c.ChunkID, &c.DocID, &c.ChunkIndex, &c.Content, &c.SectionHeading); err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

// nullable maps "" to NULL so empty optional fields don't pollute indexes.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
