package store

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"
)

// KeywordSearch runs full-text search through the keyword_search_documents
// SQL function. docIDFilter restricts hits to one document when non-empty.
func (s *Store) KeywordSearch(ctx context.Context, query string, matchCount int, docIDFilter string) ([]SearchResult, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT * FROM keyword_search_documents($1, $2, $3)`,
		query, matchCount, nullable(docIDFilter))
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var heading *string
		if err := rows.Scan(&r.ChunkID, &r.DocID, &r.DocName, &r.Content, &heading, &r.Score); err != nil {
			return nil, err
		}
		if heading != nil {
			r.SectionHeading = *heading
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// SemanticSearch orders chunks by cosine distance to the query embedding.
func (s *Store) SemanticSearch(ctx context.Context, embedding []float32, limit int, docIDFilter string) ([]SearchResult, error) {
	if len(embedding) == 0 {
		return nil, fmt.Errorf("semantic search: empty query embedding")
	}

	query := `SELECT c.chunk_id, c.doc_id, d.name, c.content, coalesce(c.section_heading, ''),
			1 - (c.embedding <=> $1) AS similarity
		FROM keyword_chunks c
		JOIN keyword_documents d ON d.doc_id = c.doc_id
		WHERE c.embedding IS NOT NULL
			AND ($3::text IS NULL OR c.doc_id = $3)
		ORDER BY c.embedding <=> $1
		LIMIT $2`
	rows, err := s.pool.Query(ctx, query, pgvector.NewVector(embedding), limit, nullable(docIDFilter))
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.ChunkID, &r.DocID, &r.DocName, &r.Content, &r.SectionHeading, &r.Score); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
