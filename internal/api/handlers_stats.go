package api

import (
	"net/http"
)

func (s *Server) handleSignatureStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"stats":       s.signer.Stats().Snapshot(),
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}
