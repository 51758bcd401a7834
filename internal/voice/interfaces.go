package voice

import (
	"context"
	"errors"

	"github.com/antoniostano/meeple/internal/rulebook"
)

// ErrOutboundFull reports a saturated outbound queue on a remote capability.
var ErrOutboundFull = errors.New("outbound queue full")

// ErrAlreadyActive is returned by CaptureController.Start when capture is
// already running. The session treats it as a successful confirmation,
// covering the race between an automatic restart and a user press.
var ErrAlreadyActive = errors.New("capture already active")

// CaptureController is the command side of the speech-capture capability.
// Its confirmations and results arrive asynchronously as Events.
type CaptureController interface {
	Available() bool
	Start() error
	Stop() error
}

// Speaker is the speech-output capability.
type Speaker interface {
	Speak(text string, rate, pitch float64) error
	Cancel() error
}

// Answerer produces a grounded answer for a finalized utterance. It must
// not fail: every degraded condition maps to policy text in the result.
type Answerer interface {
	Answer(ctx context.Context, gameID, question string) rulebook.AnswerResult
}
