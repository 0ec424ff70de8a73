package api

import (
	"encoding/json"
	"net/http"

	"github.com/sectionscan/sectionscan/internal/llm"
	"github.com/sectionscan/sectionscan/internal/pipeline"
)

type explainRequest struct {
	Question string `json:"question"`
	DocID    string `json:"doc_id,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// handleExplain retrieves the chunks most relevant to a question and asks
// the model to answer from them.
func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var req explainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Question == "" {
		jsonError(w, "question is required", http.StatusBadRequest)
		return
	}
	limit := req.Limit
	if limit <= 0 || limit > 20 {
		limit = 5
	}

	results, err := s.orchestrator.Store().KeywordSearch(r.Context(), req.Question, limit, req.DocID)
	if err != nil {
		jsonError(w, "search failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if len(results) == 0 {
		jsonError(w, "no matching passages found", http.StatusNotFound)
		return
	}

	passages := make([]llm.Passage, len(results))
	for i, res := range results {
		passages[i] = llm.Passage{
			DocName:        res.DocName,
			SectionHeading: res.SectionHeading,
			Content:        res.Content,
		}
	}

	answer, err := s.explain.Explain(r.Context(), req.Question, passages)
	if err != nil {
		status := http.StatusBadGateway
		if pipeline.IsRetryable(err) {
			status = http.StatusServiceUnavailable
		}
		jsonError(w, "explain failed: "+err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"question": req.Question,
		"answer":   answer,
		"passages": results,
	})
}
