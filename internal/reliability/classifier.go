package reliability

// CaptureErrorClass groups speech-capture error kinds by how the session
// must react to them.
type CaptureErrorClass int

const (
	// CaptureBenign kinds are non-events: clear any shown error, no retry.
	CaptureBenign CaptureErrorClass = iota
	// CaptureTransient kinds are retried a bounded number of times.
	CaptureTransient
	// CaptureFatal kinds end the session until the user re-engages.
	CaptureFatal
)

// Capture error kinds as reported by speech engines.
const (
	KindNoSpeech     = "no-speech"
	KindAborted      = "aborted"
	KindNetwork      = "network"
	KindNotAllowed   = "not-allowed"
	KindAudioCapture = "audio-capture"
)

// ClassifyCaptureError maps a capture error kind to its handling class.
// Unknown kinds are fatal: guessing retryability for an unrecognized
// failure risks a retry loop against a broken engine.
func ClassifyCaptureError(kind string) CaptureErrorClass {
	switch kind {
	case KindNoSpeech, KindAborted:
		return CaptureBenign
	case KindNetwork:
		return CaptureTransient
	case KindNotAllowed, KindAudioCapture:
		return CaptureFatal
	default:
		return CaptureFatal
	}
}

// IsRetryableHTTPStatus classifies retryable HTTP status codes for
// upstream service calls.
func IsRetryableHTTPStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
