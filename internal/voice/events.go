package voice

import "github.com/antoniostano/meeple/internal/protocol"

// EventType enumerates the closed set of events the session state machine
// consumes. User gestures and speech-engine callbacks are both translated
// into these by thin adapters; the state machine never sees a raw callback.
type EventType string

const (
	EventPress          EventType = "press"
	EventRelease        EventType = "release"
	EventMuteToggle     EventType = "mute_toggle"
	EventCaptureStarted EventType = "capture_started"
	EventUtterance      EventType = "utterance"
	EventCaptureError   EventType = "capture_error"
	EventCaptureEnded   EventType = "capture_ended"
)

// Event is one input to the session state machine. Text is set for
// finalized utterances; ErrorKind for capture errors.
type Event struct {
	Type      EventType
	Text      string
	ErrorKind string
}

// TranslateControl maps a user gesture message onto the event set.
func TranslateControl(msg protocol.ClientControl) (Event, bool) {
	switch msg.Action {
	case protocol.ActionPress:
		return Event{Type: EventPress}, true
	case protocol.ActionRelease:
		return Event{Type: EventRelease}, true
	case protocol.ActionMute:
		return Event{Type: EventMuteToggle}, true
	default:
		return Event{}, false
	}
}

// TranslateCaptureEvent maps a relayed speech-engine callback onto the event set.
func TranslateCaptureEvent(msg protocol.CaptureEvent) (Event, bool) {
	switch msg.Event {
	case protocol.CaptureStarted:
		return Event{Type: EventCaptureStarted}, true
	case protocol.CaptureResult:
		return Event{Type: EventUtterance, Text: msg.Text}, true
	case protocol.CaptureError:
		return Event{Type: EventCaptureError, ErrorKind: msg.ErrorKind}, true
	case protocol.CaptureEnded:
		return Event{Type: EventCaptureEnded}, true
	default:
		return Event{}, false
	}
}
