// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// EventStream writes Server-Sent Events to a single client.
type EventStream struct {
	writer  http.ResponseWriter
	flusher http.Flusher
}

// NewEventStream prepares the response for SSE. It returns false when the
// underlying writer cannot flush, in which case nothing has been written.
func NewEventStream(writer http.ResponseWriter) (*EventStream, bool) {
	flusher, ok := writer.(http.Flusher)
	if !ok {
		return nil, false
	}

	header := writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	writer.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &EventStream{writer: writer, flusher: flusher}, true
}

// Send encodes payload as JSON and emits it as one named event.
func (stream *EventStream) Send(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("respond: encode event %s: %w", event, err)
	}

	if _, err := fmt.Fprintf(stream.writer, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}

	stream.flusher.Flush()
	return nil
}
