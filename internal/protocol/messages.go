package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MessageType identifies websocket payload variants.
type MessageType string

const (
	// Client to server.
	TypeClientControl MessageType = "client_control"
	TypeCaptureEvent  MessageType = "capture_event"

	// Server to client.
	TypeCaptureControl  MessageType = "capture_control"
	TypeTranscriptEntry MessageType = "transcript_entry"
	TypeSessionState    MessageType = "session_state"
	TypeStatusEvent     MessageType = "status_event"
	TypeSpeakRequest    MessageType = "speak_request"
	TypeSpeakCancel     MessageType = "speak_cancel"
	TypeErrorEvent      MessageType = "error_event"
)

// Client control actions.
const (
	ActionPress   = "press"
	ActionRelease = "release"
	ActionMute    = "mute"
)

// Capture event kinds reported by the client-side speech engine.
const (
	CaptureStarted = "started"
	CaptureResult  = "result"
	CaptureError   = "error"
	CaptureEnded   = "ended"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

// ClientControl carries a user gesture: press, release, or mute toggle.
type ClientControl struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Action    string      `json:"action"`
}

// CaptureEvent relays a speech-engine callback from the client.
type CaptureEvent struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Event     string      `json:"event"`
	Text      string      `json:"text,omitempty"`
	ErrorKind string      `json:"error_kind,omitempty"`
	TSMs      int64       `json:"ts_ms"`
}

// CaptureControl instructs the client to start or stop its speech engine.
type CaptureControl struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Action    string      `json:"action"`
}

// TranscriptSource labels where an assistant answer was grounded.
type TranscriptSource struct {
	Page    int    `json:"page"`
	Section string `json:"section"`
}

// TranscriptEntry appends one line to the visible conversation.
type TranscriptEntry struct {
	Type      MessageType        `json:"type"`
	SessionID string             `json:"session_id"`
	Role      string             `json:"role"`
	Text      string             `json:"text"`
	Sources   []TranscriptSource `json:"sources,omitempty"`
}

// SessionState mirrors the session state machine for the UI.
type SessionState struct {
	Type       MessageType `json:"type"`
	SessionID  string      `json:"session_id"`
	State      string      `json:"state"`
	Holding    bool        `json:"holding"`
	Hushed     bool        `json:"hushed"`
	RetryCount int         `json:"retry_count"`
}

// StatusEvent surfaces a transient status line (e.g. "retrying 2/3").
type StatusEvent struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Code      string      `json:"code"`
	Detail    string      `json:"detail,omitempty"`
}

// SpeakRequest asks the client to speak text aloud.
type SpeakRequest struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Text      string      `json:"text"`
	Rate      float64     `json:"rate"`
	Pitch     float64     `json:"pitch"`
}

// SpeakCancel asks the client to cancel any pending or active speech output.
type SpeakCancel struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
}

// ErrorEvent surfaces a session-level failure with user guidance.
type ErrorEvent struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Code      string      `json:"code"`
	Retryable bool        `json:"retryable"`
	Detail    string      `json:"detail"`
}

func ParseClientMessage(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeClientControl:
		var msg ClientControl
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.SessionID == "" {
			return nil, errors.New("invalid client_control: missing session_id")
		}
		switch msg.Action {
		case ActionPress, ActionRelease, ActionMute:
		default:
			return nil, fmt.Errorf("invalid client_control action %q", msg.Action)
		}
		return msg, nil
	case TypeCaptureEvent:
		var msg CaptureEvent
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.SessionID == "" {
			return nil, errors.New("invalid capture_event: missing session_id")
		}
		switch msg.Event {
		case CaptureStarted, CaptureResult, CaptureError, CaptureEnded:
		default:
			return nil, fmt.Errorf("invalid capture_event kind %q", msg.Event)
		}
		return msg, nil
	default:
		return nil, ErrUnsupportedType
	}
}
