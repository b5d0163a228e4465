package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dgallion1/freeform/internal/beautify"
	"github.com/dgallion1/freeform/internal/document"
)

type renderExpressionRequest struct {
	Expression    string   `json:"e"`
	SubExpression bool     `json:"sub_expression"`
	Answers       []string `json:"answers"`
}

func (s *Server) handleRenderExpression(w http.ResponseWriter, r *http.Request) {
	var req renderExpressionRequest
	if !s.decode(w, r, int64(4*s.cfg.MaxExpressionBytes), &req) {
		return
	}
	if !s.checkExpression(w, "e", req.Expression) {
		return
	}

	html := beautify.Expression(req.Expression, beautify.Options{
		SubExpression: req.SubExpression,
		Answers:       req.Answers,
	})
	writeJSON(w, map[string]string{"html": html})
}

type renderDocumentRequest struct {
	Text       string   `json:"text"`
	Answers    []string `json:"answers"`
	Context    string   `json:"context"`
	InstanceID string   `json:"instance_id"`
}

func (s *Server) handleRenderDocument(w http.ResponseWriter, r *http.Request) {
	var req renderDocumentRequest
	if !s.decode(w, r, s.cfg.MaxUploadBytes, &req) {
		return
	}
	if req.InstanceID == "" {
		req.InstanceID = uuid.NewString()
	}

	res := document.Render(req.Text, document.Options{
		Answers:  req.Answers,
		Context:  req.Context,
		Instance: req.InstanceID,
	})
	writeJSON(w, map[string]any{
		"html":        res.HTML,
		"questions":   res.Questions,
		"expressions": res.Expressions,
		"instance_id": req.InstanceID,
	})
}
