package services

import (
	"context"
	"strings"
	"time"

	"github.com/peiassist/backend/internal/platform/groq"
	"github.com/peiassist/backend/internal/platform/logger"
)

// systemInstruction is attached to every outbound request by the dispatcher,
// never by callers.
const systemInstruction = "Você é um assistente especializado em educação, focado na criação de " +
	"Planos Educacionais Individualizados (PEI). Suas respostas devem ser profissionais, bem " +
	"estruturadas e direcionadas para auxiliar educadores. Sempre que apropriado, considere e " +
	"sugira estratégias baseadas nos princípios do Desenho Universal para a Aprendizagem (DUA)."

// TextGenerator is the dispatcher surface tasks depend on.
type TextGenerator interface {
	Generate(ctx context.Context, parts ...string) (string, error)
}

type aiResult struct {
	text string
	err  error
}

type aiRequest struct {
	user   string
	result chan aiResult
}

// AIDispatcher funnels every outbound model call through one goroutine: global
// FIFO order across callers, at most one request in flight, and a minimum
// start-to-start spacing between consecutive requests. A failed call rejects
// only its own caller; the queue stays clean for the next one. Responses are
// never cached.
type AIDispatcher struct {
	log        *logger.Logger
	client     groq.Client
	minSpacing time.Duration
	requests   chan *aiRequest
	done       chan struct{}
}

func NewAIDispatcher(baseLog *logger.Logger, client groq.Client, minSpacing time.Duration) *AIDispatcher {
	if minSpacing <= 0 {
		minSpacing = time.Second
	}
	return &AIDispatcher{
		log:        baseLog.With("service", "AIDispatcher"),
		client:     client,
		minSpacing: minSpacing,
		requests:   make(chan *aiRequest, 64),
		done:       make(chan struct{}),
	}
}

// Start launches the single consumer loop. It returns immediately; the loop
// stops when ctx is done.
func (d *AIDispatcher) Start(ctx context.Context) {
	go d.run(ctx)
}

func (d *AIDispatcher) run(ctx context.Context) {
	var lastStart time.Time
	for {
		select {
		case <-ctx.Done():
			d.shutdown(ctx.Err())
			return
		case req := <-d.requests:
			// Spacing is measured from the previous request's start, not its
			// completion.
			if wait := d.minSpacing - time.Since(lastStart); !lastStart.IsZero() && wait > 0 {
				select {
				case <-ctx.Done():
					req.result <- aiResult{err: &ServiceError{Err: ctx.Err()}}
					d.shutdown(ctx.Err())
					return
				case <-time.After(wait):
				}
			}
			lastStart = time.Now()

			text, err := d.client.ChatCompletion(ctx, systemInstruction, req.user)
			if err != nil {
				d.log.Warn("Model call failed", "error", err)
				req.result <- aiResult{err: &ServiceError{Err: err}}
				continue
			}
			req.result <- aiResult{text: text}
		}
	}
}

// shutdown stops new enqueues and rejects everything still queued, so no
// caller is left blocked on a result that will never arrive.
func (d *AIDispatcher) shutdown(cause error) {
	close(d.done)
	for {
		select {
		case req := <-d.requests:
			req.result <- aiResult{err: &ServiceError{Err: cause}}
		default:
			d.log.Info("AI dispatcher stopped")
			return
		}
	}
}

// Generate enqueues one request built from the given text parts (joined by
// newline) and blocks until its turn completes. Identical prompts always hit
// the service again.
func (d *AIDispatcher) Generate(ctx context.Context, parts ...string) (string, error) {
	req := &aiRequest{
		user:   strings.Join(parts, "\n"),
		result: make(chan aiResult, 1),
	}

	select {
	case d.requests <- req:
	case <-d.done:
		return "", &ServiceError{Err: context.Canceled}
	case <-ctx.Done():
		return "", &ServiceError{Err: ctx.Err()}
	}

	select {
	case res := <-req.result:
		return res.text, res.err
	case <-d.done:
		// The loop stopped; it may still have drained this request.
		select {
		case res := <-req.result:
			return res.text, res.err
		default:
			return "", &ServiceError{Err: context.Canceled}
		}
	case <-ctx.Done():
		return "", &ServiceError{Err: ctx.Err()}
	}
}
