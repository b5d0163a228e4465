package signature

import (
	"context"
	"log/slog"
	"time"

	"github.com/dgallion1/freeform/internal/memo"
)

// Signer computes signatures through a memo and records request stats.
type Signer struct {
	memo  memo.Store
	stats *Stats
	log   *slog.Logger
}

// NewSigner returns a signer. Nil arguments fall back to an in-memory memo,
// hourly stats and the default logger.
func NewSigner(store memo.Store, stats *Stats, log *slog.Logger) *Signer {
	if store == nil {
		store = memo.NewMemory()
	}
	if stats == nil {
		stats = NewStats(time.Hour)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Signer{memo: store, stats: stats, log: log}
}

// Result pairs an input with its signature.
type Result struct {
	Input     string `json:"input"`
	Signature string `json:"signature"`
}

// Comparison is the outcome of checking an answer against a reference.
type Comparison struct {
	Question   Result `json:"q"`
	Answer     Result `json:"a"`
	Equivalent bool   `json:"equivalent"`
}

// Stats returns the signer's request statistics.
func (s *Signer) Stats() *Stats { return s.stats }

// Signature returns the signature of text. Memo failures are logged and the
// signature is computed directly; only context cancellation is an error.
func (s *Signer) Signature(ctx context.Context, text string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	start := time.Now()

	sig, ok, err := s.memo.Get(ctx, text)
	if err != nil {
		s.log.Warn("memo lookup failed", "error", err)
	}
	if ok {
		s.stats.Record(time.Since(start), true)
		return Result{Input: text, Signature: sig}, nil
	}

	sig = Normalize(text)
	if err := s.memo.Put(ctx, text, sig); err != nil {
		s.log.Warn("memo store failed", "error", err)
	}
	s.stats.Record(time.Since(start), false)
	return Result{Input: text, Signature: sig}, nil
}

// Compare signs a reference and an answer and reports whether they match.
func (s *Signer) Compare(ctx context.Context, question, answer string) (Comparison, error) {
	q, err := s.Signature(ctx, question)
	if err != nil {
		return Comparison{}, err
	}
	a, err := s.Signature(ctx, answer)
	if err != nil {
		return Comparison{}, err
	}
	return Comparison{Question: q, Answer: a, Equivalent: q.Signature == a.Signature}, nil
}
