package segment

import "log/slog"

// Observer receives segmentation progress events at well-defined points.
// Implementations must not retain the Heading value beyond the call.
type Observer interface {
	HeadingDetected(h Heading)
	SectionChunked(heading string, chunks int)
	FallbackTriggered(reason string)
}

type nopObserver struct{}

func (nopObserver) HeadingDetected(Heading)    {}
func (nopObserver) SectionChunked(string, int) {}
func (nopObserver) FallbackTriggered(string)   {}

// NopObserver discards all events.
var NopObserver Observer = nopObserver{}

// LogObserver forwards segmentation events to a structured logger at
// debug level.
type LogObserver struct {
	Log *slog.Logger
}

func (o LogObserver) HeadingDetected(h Heading) {
	o.Log.Debug("heading detected", "pos", h.Pos, "level", h.Level, "text", h.Text)
}

func (o LogObserver) SectionChunked(heading string, chunks int) {
	o.Log.Debug("section chunked", "heading", heading, "chunks", chunks)
}

func (o LogObserver) FallbackTriggered(reason string) {
	o.Log.Debug("segmentation fallback", "reason", reason)
}
