package voice

import "github.com/antoniostano/meeple/internal/protocol"

// RemoteCapture drives the speech engine living in the client: Start and
// Stop become capture_control messages, and the engine's callbacks come
// back as capture_event messages that the gateway translates into Events.
type RemoteCapture struct {
	sessionID string
	out       chan<- any
}

func NewRemoteCapture(sessionID string, out chan<- any) *RemoteCapture {
	return &RemoteCapture{sessionID: sessionID, out: out}
}

// Available is always true for a connected client; an unsupported browser
// reports itself through a capture error event instead.
func (c *RemoteCapture) Available() bool { return true }

func (c *RemoteCapture) Start() error {
	return c.sendControl("start")
}

func (c *RemoteCapture) Stop() error {
	return c.sendControl("stop")
}

func (c *RemoteCapture) sendControl(action string) error {
	select {
	case c.out <- protocol.CaptureControl{
		Type:      protocol.TypeCaptureControl,
		SessionID: c.sessionID,
		Action:    action,
	}:
		return nil
	default:
		return ErrOutboundFull
	}
}

// RemoteSpeaker asks the client to speak answers with its own speech
// synthesis engine.
type RemoteSpeaker struct {
	sessionID string
	out       chan<- any
}

func NewRemoteSpeaker(sessionID string, out chan<- any) *RemoteSpeaker {
	return &RemoteSpeaker{sessionID: sessionID, out: out}
}

func (s *RemoteSpeaker) Speak(text string, rate, pitch float64) error {
	select {
	case s.out <- protocol.SpeakRequest{
		Type:      protocol.TypeSpeakRequest,
		SessionID: s.sessionID,
		Text:      text,
		Rate:      rate,
		Pitch:     pitch,
	}:
		return nil
	default:
		return ErrOutboundFull
	}
}

func (s *RemoteSpeaker) Cancel() error {
	select {
	case s.out <- protocol.SpeakCancel{
		Type:      protocol.TypeSpeakCancel,
		SessionID: s.sessionID,
	}:
		return nil
	default:
		return ErrOutboundFull
	}
}
