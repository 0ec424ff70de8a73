package store

import (
	"context"
	"fmt"
)

// Init creates the schema. Statements are idempotent so startup can run
// them unconditionally.
func (s *Store) Init(ctx context.Context) error {
	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS keyword_documents (
		doc_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		file_path TEXT,
		file_size BIGINT NOT NULL DEFAULT 0,
		content_hash TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_keyword_documents_hash ON keyword_documents(content_hash);

	CREATE EXTENSION IF NOT EXISTS vector;

	CREATE TABLE IF NOT EXISTS keyword_chunks (
		chunk_id TEXT PRIMARY KEY,
		doc_id TEXT NOT NULL REFERENCES keyword_documents(doc_id) ON DELETE CASCADE,
		chunk_index INT NOT NULL,
		content TEXT NOT NULL,
		section_heading TEXT,
		metadata JSONB,
		embedding vector(%d),
		content_tsv tsvector GENERATED ALWAYS AS (to_tsvector('english', content)) STORED
	);

	CREATE INDEX IF NOT EXISTS idx_keyword_chunks_doc_id ON keyword_chunks(doc_id);
	CREATE INDEX IF NOT EXISTS idx_keyword_chunks_tsv ON keyword_chunks USING GIN (content_tsv);
	CREATE INDEX IF NOT EXISTS idx_keyword_chunks_embedding ON keyword_chunks
		USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100);
	`, s.embedDim)

	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	searchFn := `
	CREATE OR REPLACE FUNCTION keyword_search_documents(search_query TEXT, match_count INT, doc_id_filter TEXT DEFAULT NULL)
	RETURNS TABLE (chunk_id TEXT, doc_id TEXT, doc_name TEXT, content TEXT, section_heading TEXT, rank REAL) AS $$
		SELECT c.chunk_id, c.doc_id, d.name, c.content, c.section_heading,
			ts_rank(c.content_tsv, websearch_to_tsquery('english', search_query)) AS rank
		FROM keyword_chunks c
		JOIN keyword_documents d ON d.doc_id = c.doc_id
		WHERE c.content_tsv @@ websearch_to_tsquery('english', search_query)
			AND (doc_id_filter IS NULL OR c.doc_id = doc_id_filter)
		ORDER BY rank DESC
		LIMIT match_count
	$$ LANGUAGE sql STABLE;
	`
	if _, err := s.pool.Exec(ctx, searchFn); err != nil {
		return fmt.Errorf("create search function: %w", err)
	}
	return nil
}
