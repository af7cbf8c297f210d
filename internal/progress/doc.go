// Package progress streams typed progress events for long-running admin
// operations as newline-delimited JSON over an open HTTP response.
//
// # Wire Format
//
// Each event is one JSON object terminated by a newline:
//
//	{"type":"status","msg":"starting","progress":0}
//	{"type":"image_result","msg":"rendered","progress":60,"payload":{"url":"https://..."}}
//	{"type":"done","msg":"complete","progress":100}
//
// type is one of status, data_log, image_result, image_start, error, done.
// Payload shape depends on the kind; image events carry ImagePayload,
// data_log carries LogPayload.
//
// # Ordering and Termination
//
// Events appear on the wire in emission order and are flushed immediately.
// done and error are terminal: Send returns ErrStreamClosed for anything
// emitted after them, and writes stop as soon as the client disconnects.
// This is a one-directional push protocol; there is no client-to-server
// acknowledgment or flow control.
package progress
