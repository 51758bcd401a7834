package reliability

import "testing"

func TestClassifyCaptureError(t *testing.T) {
	cases := []struct {
		kind string
		want CaptureErrorClass
	}{
		{KindNoSpeech, CaptureBenign},
		{KindAborted, CaptureBenign},
		{KindNetwork, CaptureTransient},
		{KindNotAllowed, CaptureFatal},
		{KindAudioCapture, CaptureFatal},
		{"something-else", CaptureFatal},
		{"", CaptureFatal},
	}
	for _, tc := range cases {
		if got := ClassifyCaptureError(tc.kind); got != tc.want {
			t.Fatalf("ClassifyCaptureError(%q) = %v, want %v", tc.kind, got, tc.want)
		}
	}
}

func TestIsRetryableHTTPStatus(t *testing.T) {
	cases := []struct {
		code int
		want bool
	}{
		{200, false},
		{400, false},
		{404, false},
		{429, true},
		{500, true},
		{503, true},
	}
	for _, tc := range cases {
		if got := IsRetryableHTTPStatus(tc.code); got != tc.want {
			t.Fatalf("IsRetryableHTTPStatus(%d) = %v, want %v", tc.code, got, tc.want)
		}
	}
}
