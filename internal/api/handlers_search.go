package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"github.com/sectionscan/sectionscan/internal/store"
)

const defaultSearchLimit = 10

// handleKeywordSearch runs full-text search over stored chunks.
func (s *Server) handleKeywordSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		jsonError(w, "q query parameter is required", http.StatusBadRequest)
		return
	}
	limit := queryLimit(r)
	docID := r.URL.Query().Get("doc_id")

	results, err := s.orchestrator.Store().KeywordSearch(r.Context(), query, limit, docID)
	if err != nil {
		jsonError(w, "search failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if results == nil {
		results = []store.SearchResult{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"query": query, "results": results})
}

// handleSemanticSearch embeds the query and ranks chunks by vector
// similarity. Unavailable when no embedding endpoint is configured.
func (s *Server) handleSemanticSearch(w http.ResponseWriter, r *http.Request) {
	if s.embedder == nil {
		jsonError(w, "semantic search unavailable: embeddings not configured", http.StatusServiceUnavailable)
		return
	}
	query := r.URL.Query().Get("q")
	if query == "" {
		jsonError(w, "q query parameter is required", http.StatusBadRequest)
		return
	}
	limit := queryLimit(r)
	docID := r.URL.Query().Get("doc_id")

	vec, err := s.embedder.EmbedOne(r.Context(), query)
	if err != nil {
		jsonError(w, "embed query failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	results, err := s.orchestrator.Store().SemanticSearch(r.Context(), vec, limit, docID)
	if err != nil {
		jsonError(w, "search failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if results == nil {
		results = []store.SearchResult{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"query": query, "results": results})
}

// handleOutlineSearch runs keyword search and groups the hits by document
// and section, giving a table-of-contents view of where matches land.
func (s *Server) handleOutlineSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		jsonError(w, "q query parameter is required", http.StatusBadRequest)
		return
	}
	limit := queryLimit(r)
	docID := r.URL.Query().Get("doc_id")

	results, err := s.orchestrator.Store().KeywordSearch(r.Context(), query, limit, docID)
	if err != nil {
		jsonError(w, "search failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"query": query, "outline": groupOutline(results)})
}

// OutlineEntry is one document's sections that matched a search.
type OutlineEntry struct {
	DocID    string           `json:"doc_id"`
	DocName  string           `json:"doc_name"`
	Sections []OutlineSection `json:"sections"`
}

// OutlineSection is one matched section with its hit count.
type OutlineSection struct {
	Heading string `json:"heading"`
	Hits    int    `json:"hits"`
}

// groupOutline folds search results into per-document section lists.
// Documents sort by name; sections keep first-hit order within a document.
func groupOutline(results []store.SearchResult) []OutlineEntry {
	byDoc := make(map[string]*OutlineEntry)
	sectionIdx := make(map[string]map[string]int)

	for _, r := range results {
		entry, ok := byDoc[r.DocID]
		if !ok {
			entry = &OutlineEntry{DocID: r.DocID, DocName: r.DocName}
			byDoc[r.DocID] = entry
			sectionIdx[r.DocID] = make(map[string]int)
		}

		heading := r.SectionHeading
		if heading == "" {
			heading = "(No section)"
		}
		if i, seen := sectionIdx[r.DocID][heading]; seen {
			entry.Sections[i].Hits++
			continue
		}
		sectionIdx[r.DocID][heading] = len(entry.Sections)
		entry.Sections = append(entry.Sections, OutlineSection{Heading: heading, Hits: 1})
	}

	out := make([]OutlineEntry, 0, len(byDoc))
	for _, entry := range byDoc {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DocName < out[j].DocName })
	return out
}

func queryLimit(r *http.Request) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			return n
		}
	}
	return defaultSearchLimit
}
