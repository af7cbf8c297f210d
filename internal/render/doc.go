// Package render generates phone-case mockup images through an external
// render provider, reporting progress as each variant finishes.
//
// # Pipeline
//
// A Job pairs a phone model's print template with customer artwork and a
// list of finish variants. Pipeline.Run calls the Provider once per variant
// and pushes ordered notifications (image_start, provider log lines,
// image_result) into a Sink; progress.Emitter satisfies the Sink interface,
// so a run streams straight to the requesting client.
//
// Provider is the single-image boundary. HTTPProvider implements it against
// a remote render service; tests substitute an in-process fake. Provider
// calls can take seconds, so they receive the request context and must honor
// cancellation. A Sink error aborts the run immediately, which stops
// rendering as soon as the client goes away.
package render
