// ABOUTME: Newline-delimited JSON progress emitter for long-running operations
// ABOUTME: Writes typed events to a streaming HTTP response, flushing per event

package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Emitter errors
var (
	// ErrStreamUnsupported means the response writer cannot flush incrementally
	ErrStreamUnsupported = errors.New("streaming not supported")

	// ErrStreamClosed means a terminal event was sent or the client went away
	ErrStreamClosed = errors.New("progress stream closed")
)

// Kind identifies the type of a progress event. The set is closed.
type Kind string

const (
	KindStatus      Kind = "status"
	KindDataLog     Kind = "data_log"
	KindImageResult Kind = "image_result"
	KindImageStart  Kind = "image_start"
	KindError       Kind = "error"
	KindDone        Kind = "done"
)

// Event is one unit of progress on the wire, serialized as a single JSON
// line. Payload is kind-dependent and omitted when nil.
type Event struct {
	Type     Kind    `json:"type"`
	Msg      string  `json:"msg"`
	Progress float64 `json:"progress"`
	Payload  any     `json:"payload,omitempty"`
}

// ImagePayload accompanies image_start and image_result events.
type ImagePayload struct {
	URL       string `json:"url,omitempty"`
	VariantID string `json:"variant_id,omitempty"`
}

// LogPayload accompanies data_log events with a raw provider output line.
type LogPayload struct {
	Line string `json:"line"`
}

// Emitter converts in-process progress notifications into a one-directional
// stream of newline-delimited JSON records over an open HTTP response.
// Events become visible to the client as soon as the transport flushes; there
// is no batching, acknowledgment, or retry. An Emitter belongs to a single
// request handler and is not safe for concurrent use.
type Emitter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	ctx     context.Context
	closed  bool
}

// NewEmitter binds an emitter to the response writer and sets streaming
// headers. Returns ErrStreamUnsupported if the transport cannot flush
// incrementally.
func NewEmitter(w http.ResponseWriter, r *http.Request) (*Emitter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamUnsupported
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")

	return &Emitter{
		w:       w,
		flusher: flusher,
		ctx:     r.Context(),
	}, nil
}

// Send serializes one event as a JSON line and writes it immediately.
// Returns ErrStreamClosed after a terminal event or once the client has
// disconnected; no event is ever written after done or error.
func (e *Emitter) Send(kind Kind, msg string, progress float64) error {
	return e.SendPayload(kind, msg, progress, nil)
}

// SendPayload is Send with a kind-dependent payload attached.
func (e *Emitter) SendPayload(kind Kind, msg string, progress float64, payload any) error {
	if e.closed {
		return ErrStreamClosed
	}

	// Stop writing once the client has gone away
	select {
	case <-e.ctx.Done():
		e.closed = true
		return ErrStreamClosed
	default:
	}

	line, err := json.Marshal(Event{
		Type:     kind,
		Msg:      msg,
		Progress: progress,
		Payload:  payload,
	})
	if err != nil {
		return fmt.Errorf("marshaling progress event: %w", err)
	}

	if _, err := e.w.Write(append(line, '\n')); err != nil {
		e.closed = true
		return fmt.Errorf("writing progress event: %w", err)
	}
	e.flusher.Flush()

	// done and error are terminal: nothing follows them on this stream
	if kind == KindDone || kind == KindError {
		e.closed = true
	}

	return nil
}

// Status emits a status event.
func (e *Emitter) Status(msg string, progress float64) error {
	return e.Send(KindStatus, msg, progress)
}

// Log emits a data_log event carrying one provider output line.
func (e *Emitter) Log(line string, progress float64) error {
	return e.SendPayload(KindDataLog, "log", progress, &LogPayload{Line: line})
}

// ImageStart emits an image_start event for the given variant.
func (e *Emitter) ImageStart(msg string, progress float64, variantID string) error {
	return e.SendPayload(KindImageStart, msg, progress, &ImagePayload{VariantID: variantID})
}

// ImageResult emits an image_result event carrying the finished image URL.
func (e *Emitter) ImageResult(msg string, progress float64, url, variantID string) error {
	return e.SendPayload(KindImageResult, msg, progress, &ImagePayload{URL: url, VariantID: variantID})
}

// Error emits a terminal error event. The stream is closed afterwards.
func (e *Emitter) Error(msg string) error {
	return e.Send(KindError, msg, 0)
}

// Done emits a terminal done event at 100%. The stream is closed afterwards.
func (e *Emitter) Done(msg string) error {
	return e.Send(KindDone, msg, 100)
}
