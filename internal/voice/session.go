package voice

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/antoniostano/meeple/internal/observability"
	"github.com/antoniostano/meeple/internal/protocol"
	"github.com/antoniostano/meeple/internal/reliability"
	"github.com/antoniostano/meeple/internal/rulebook"
)

// State enumerates the push-to-talk capture lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateRequesting State = "requesting"
	StateListening  State = "listening"
	StateProcessing State = "processing"
	StateError      State = "error"
)

// User-facing guidance for the failure taxonomy. These are policy text, not
// raw error strings.
const (
	MsgCaptureUnavailable = "Voice capture is not available here. Check that you are on a supported browser over a secure connection."
	MsgPermissionDenied   = "Microphone access is blocked. Allow microphone access in your browser settings, then press and hold again."
	MsgDeviceUnavailable  = "No working microphone was found. Check that one is connected and not in use by another app."
	MsgNetworkFailed      = "Speech recognition keeps failing. Check your network connection, your microphone, and browser permissions."
	MsgCaptureFailed      = "Something went wrong with voice capture. Press and hold to try again."

	// TroubleAnswer covers unexpected failures in the answer path; a
	// finalized utterance always gets a displayed response.
	TroubleAnswer = "I ran into a problem answering that. Please try again."
)

const (
	DefaultMaxRetries   = 3
	DefaultRetryDelay   = 500 * time.Millisecond
	DefaultRestartDelay = 100 * time.Millisecond
)

// Config carries the session's tunable retry and speech parameters.
type Config struct {
	MaxRetries   int
	RetryDelay   time.Duration
	RestartDelay time.Duration
	SpeakRate    float64
	SpeakPitch   float64
}

func (c Config) withDefaults() Config {
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.RestartDelay <= 0 {
		c.RestartDelay = DefaultRestartDelay
	}
	if c.SpeakRate <= 0 {
		c.SpeakRate = 1.0
	}
	if c.SpeakPitch <= 0 {
		c.SpeakPitch = 1.0
	}
	return c
}

// Session coordinates one push-to-talk interaction: it arms and disarms the
// capture capability, retries transient failures, and routes finalized
// utterances through the answer pipeline. All state lives on the single
// goroutine running Run; adapters only feed the event channel.
type Session struct {
	id       string
	gameID   string
	capture  CaptureController
	speaker  Speaker
	answerer Answerer
	metrics  *observability.Metrics
	cfg      Config

	out chan<- any

	state      State
	holding    bool
	hushed     bool
	retryCount int
	answering  bool

	timer    *time.Timer
	timerGen int
	timerCh  chan int
	answerCh chan rulebook.AnswerResult
}

func NewSession(id, gameID string, capture CaptureController, speaker Speaker, answerer Answerer, metrics *observability.Metrics, cfg Config) *Session {
	return &Session{
		id:       id,
		gameID:   gameID,
		capture:  capture,
		speaker:  speaker,
		answerer: answerer,
		metrics:  metrics,
		cfg:      cfg.withDefaults(),
		state:    StateIdle,
		timerCh:  make(chan int, 1),
		answerCh: make(chan rulebook.AnswerResult, 1),
	}
}

// State reports the current machine state. Only safe from the Run goroutine
// or after Run has returned; tests drive the loop synchronously.
func (s *Session) State() State { return s.state }

// Run drives the state machine until the event channel closes or the
// context is cancelled. Events must be delivered on a single channel; the
// loop is the serialization point for every transition.
func (s *Session) Run(ctx context.Context, events <-chan Event, out chan<- any) error {
	s.out = out
	s.emitState()

	for {
		select {
		case <-ctx.Done():
			s.voidTimer()
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				s.voidTimer()
				return nil
			}
			s.handleEvent(ctx, ev)
		case gen := <-s.timerCh:
			if gen == s.timerGen {
				s.requestStart()
			}
		case res := <-s.answerCh:
			s.finishAnswer(res)
		}
	}
}

func (s *Session) handleEvent(ctx context.Context, ev Event) {
	switch ev.Type {
	case EventPress:
		s.handlePress()
	case EventRelease:
		s.handleRelease()
	case EventMuteToggle:
		s.handleMuteToggle()
	case EventCaptureStarted:
		s.confirmStart()
	case EventUtterance:
		s.handleUtterance(ctx, ev.Text)
	case EventCaptureError:
		s.handleCaptureError(ev.ErrorKind)
	case EventCaptureEnded:
		s.handleCaptureEnded()
	}
}

func (s *Session) handlePress() {
	s.holding = true
	s.countEvent("press")

	if !s.capture.Available() {
		s.fatal("capture_unavailable", MsgCaptureUnavailable, false)
		return
	}

	switch s.state {
	case StateRequesting, StateListening, StateProcessing:
		s.emitState()
	default:
		// Re-engaging from Error clears the previous failure.
		s.emitStatus("clear", "")
		s.requestStart()
	}
}

func (s *Session) handleRelease() {
	s.holding = false
	s.voidTimer()
	s.countEvent("release")

	if s.state == StateRequesting || s.state == StateListening {
		if err := s.capture.Stop(); err != nil {
			log.Printf("session %s: capture stop: %v", s.id, err)
		}
	}
	s.emitState()
}

func (s *Session) handleMuteToggle() {
	s.hushed = !s.hushed
	if s.hushed {
		if err := s.speaker.Cancel(); err != nil {
			log.Printf("session %s: speaker cancel: %v", s.id, err)
		}
	}
	s.emitState()
}

func (s *Session) requestStart() {
	if !s.capture.Available() {
		s.fatal("capture_unavailable", MsgCaptureUnavailable, false)
		return
	}
	if s.state == StateListening {
		return
	}

	err := s.capture.Start()
	switch {
	case errors.Is(err, ErrAlreadyActive):
		s.confirmStart()
	case err != nil:
		s.fatal("capture_start_failed", MsgCaptureFailed, true)
	default:
		s.state = StateRequesting
		s.emitState()
	}
}

func (s *Session) confirmStart() {
	s.state = StateListening
	s.retryCount = 0
	s.emitStatus("clear", "")
	s.emitState()
}

func (s *Session) handleUtterance(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if s.state != StateListening || s.answering || text == "" {
		return
	}

	s.countEvent("utterance")
	s.send(protocol.TranscriptEntry{
		Type:      protocol.TypeTranscriptEntry,
		SessionID: s.id,
		Role:      "user",
		Text:      text,
	})
	s.state = StateProcessing
	s.answering = true
	s.emitState()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("session %s: answer pipeline panic: %v", s.id, r)
				s.answerCh <- rulebook.AnswerResult{Answer: TroubleAnswer, Sources: []rulebook.Source{}}
			}
		}()
		s.answerCh <- s.answerer.Answer(ctx, s.gameID, text)
	}()
}

func (s *Session) finishAnswer(res rulebook.AnswerResult) {
	s.answering = false
	s.countEvent("answer")

	sources := make([]protocol.TranscriptSource, 0, len(res.Sources))
	for _, src := range res.Sources {
		sources = append(sources, protocol.TranscriptSource{Page: src.Page, Section: src.Section})
	}
	s.send(protocol.TranscriptEntry{
		Type:      protocol.TypeTranscriptEntry,
		SessionID: s.id,
		Role:      "assistant",
		Text:      res.Answer,
		Sources:   sources,
	})

	if !s.hushed {
		spoken := SanitizeSpokenText(res.Answer)
		if spoken != "" {
			if err := s.speaker.Speak(spoken, s.cfg.SpeakRate, s.cfg.SpeakPitch); err != nil {
				log.Printf("session %s: speak: %v", s.id, err)
			}
		}
	}

	// Push-to-talk continuity: resume capture when the user is still holding.
	if s.holding && s.capture.Available() {
		s.requestStart()
		return
	}
	s.state = StateIdle
	s.emitState()
}

func (s *Session) handleCaptureEnded() {
	// The answer in flight decides the next state; engines routinely stop
	// after delivering a final result.
	if s.state == StateProcessing || s.state == StateError {
		return
	}

	s.state = StateIdle
	s.emitState()
	if s.holding {
		s.scheduleStart(s.cfg.RestartDelay)
	}
}

func (s *Session) handleCaptureError(kind string) {
	if s.metrics != nil {
		s.metrics.CaptureErrors.WithLabelValues(kind).Inc()
	}

	switch reliability.ClassifyCaptureError(kind) {
	case reliability.CaptureBenign:
		s.emitStatus("clear", "")
		if s.state != StateProcessing && s.state != StateError {
			s.state = StateIdle
			s.emitState()
		}
	case reliability.CaptureTransient:
		// retryCount counts consecutive failed capture attempts; the bound
		// is checked after incrementing so the Nth consecutive failure with
		// N == MaxRetries escalates instead of scheduling another attempt.
		s.retryCount++
		if s.holding && s.retryCount < s.cfg.MaxRetries {
			if s.metrics != nil {
				s.metrics.CaptureRetries.Inc()
			}
			s.emitStatus("capture_retrying", fmt.Sprintf("retrying %d/%d", s.retryCount, s.cfg.MaxRetries))
			s.scheduleStart(s.cfg.RetryDelay)
			s.state = StateRequesting
			s.emitState()
			return
		}
		s.retryCount = 0
		s.fatal("capture_network", MsgNetworkFailed, true)
	default:
		switch kind {
		case reliability.KindNotAllowed:
			s.fatal("permission_denied", MsgPermissionDenied, false)
		case reliability.KindAudioCapture:
			s.fatal("device_unavailable", MsgDeviceUnavailable, false)
		default:
			s.fatal("capture_failed", MsgCaptureFailed, true)
		}
	}
}

func (s *Session) fatal(code, detail string, retryable bool) {
	s.holding = false
	s.voidTimer()
	s.state = StateError
	s.countEvent("fatal_error")
	s.send(protocol.ErrorEvent{
		Type:      protocol.TypeErrorEvent,
		SessionID: s.id,
		Code:      code,
		Retryable: retryable,
		Detail:    detail,
	})
	s.emitState()
}

// scheduleStart arms the cancellable restart timer. Re-arming or voiding
// bumps the generation so a stale fire is ignored.
func (s *Session) scheduleStart(d time.Duration) {
	s.timerGen++
	gen := s.timerGen
	if s.timer != nil {
		s.timer.Stop()
	}
	select {
	case <-s.timerCh:
	default:
	}
	s.timer = time.AfterFunc(d, func() {
		select {
		case s.timerCh <- gen:
		default:
		}
	})
}

func (s *Session) voidTimer() {
	s.timerGen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	select {
	case <-s.timerCh:
	default:
	}
}

func (s *Session) emitState() {
	s.send(protocol.SessionState{
		Type:       protocol.TypeSessionState,
		SessionID:  s.id,
		State:      string(s.state),
		Holding:    s.holding,
		Hushed:     s.hushed,
		RetryCount: s.retryCount,
	})
}

func (s *Session) emitStatus(code, detail string) {
	s.send(protocol.StatusEvent{
		Type:      protocol.TypeStatusEvent,
		SessionID: s.id,
		Code:      code,
		Detail:    detail,
	})
}

func (s *Session) countEvent(event string) {
	if s.metrics != nil {
		s.metrics.SessionEvents.WithLabelValues(event).Inc()
	}
}

func (s *Session) send(msg any) {
	select {
	case s.out <- msg:
	default:
		// The websocket writer owns the outbound queue; drop rather than
		// stall the state machine when it is saturated.
		log.Printf("session %s: outbound queue full, dropping %T", s.id, msg)
	}
}
