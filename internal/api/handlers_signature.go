package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dgallion1/freeform/internal/expr"
)

// handleAjax dispatches the form-encoded actions used by the question editor.
func (s *Server) handleAjax(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, int64(4*s.cfg.MaxExpressionBytes))
	if err := r.ParseForm(); err != nil {
		jsonError(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}

	action := r.FormValue("action")
	switch action {
	case "generate_signature":
		e, ok := s.formParam(w, r, "e")
		if !ok {
			return
		}
		res, err := s.signer.Signature(r.Context(), e)
		if err != nil {
			jsonError(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, map[string]any{
			"result":    1,
			"e":         e,
			"signature": res.Signature,
		})
	case "test_question_answer":
		q, ok := s.formParam(w, r, "q")
		if !ok {
			return
		}
		a, ok := s.formParam(w, r, "a")
		if !ok {
			return
		}
		cmp, err := s.signer.Compare(r.Context(), q, a)
		if err != nil {
			jsonError(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, map[string]any{
			"result": 1,
			"q":      q,
			"a":      a,
			"signatures": map[string]string{
				"q": cmp.Question.Signature,
				"a": cmp.Answer.Signature,
			},
		})
	default:
		writeJSON(w, map[string]string{"error": "Unrecognised action: " + action})
	}
}

func (s *Server) formParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	if _, ok := r.Form[name]; !ok {
		jsonError(w, "missing parameter: "+name, http.StatusBadRequest)
		return "", false
	}
	v := r.FormValue(name)
	if len(v) > s.cfg.MaxExpressionBytes {
		jsonError(w, fmt.Sprintf("%s exceeds max size (%d bytes)", name, s.cfg.MaxExpressionBytes), http.StatusRequestEntityTooLarge)
		return "", false
	}
	return v, true
}

type signatureRequest struct {
	Expression string `json:"e"`
}

func (s *Server) handleSignature(w http.ResponseWriter, r *http.Request) {
	var req signatureRequest
	if !s.decode(w, r, int64(2*s.cfg.MaxExpressionBytes), &req) {
		return
	}
	if !s.checkExpression(w, "e", req.Expression) {
		return
	}

	res, err := s.signer.Signature(r.Context(), req.Expression)
	if err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, res)
}

type compareRequest struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !s.decode(w, r, int64(4*s.cfg.MaxExpressionBytes), &req) {
		return
	}
	if !s.checkExpression(w, "q", req.Question) || !s.checkExpression(w, "a", req.Answer) {
		return
	}

	cmp, err := s.signer.Compare(r.Context(), req.Question, req.Answer)
	if err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]any{
		"q": req.Question,
		"a": req.Answer,
		"signatures": map[string]string{
			"q": cmp.Question.Signature,
			"a": cmp.Answer.Signature,
		},
		"equivalent": cmp.Equivalent,
	})
}

type classifyRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if !s.decode(w, r, int64(2*s.cfg.MaxExpressionBytes), &req) {
		return
	}
	if !s.checkExpression(w, "text", req.Text) {
		return
	}
	writeJSON(w, map[string]bool{"expression": expr.LooksLikeExpression(req.Text)})
}

// decode reads a JSON body of at most limit bytes into v.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, limit int64, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("request exceeds max size (%d bytes)", limit), http.StatusRequestEntityTooLarge)
			return false
		}
		jsonError(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) checkExpression(w http.ResponseWriter, name, v string) bool {
	if len(v) > s.cfg.MaxExpressionBytes {
		jsonError(w, fmt.Sprintf("%s exceeds max size (%d bytes)", name, s.cfg.MaxExpressionBytes), http.StatusRequestEntityTooLarge)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
