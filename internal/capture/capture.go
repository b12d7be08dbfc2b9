// Package capture provides the audio-capture and speech-source adapters a
// recording session consumes. The session controller depends only on the
// interfaces here; the concrete implementations wrap a microphone capture
// process and a websocket speech-recognition backend.
package capture

import (
	"context"
	"errors"
)

var (
	// ErrPermissionDenied indicates the capture device exists but access
	// was refused
	ErrPermissionDenied = errors.New("capture device access denied")

	// ErrDeviceNotFound indicates no usable capture device or tool is
	// available
	ErrDeviceNotFound = errors.New("no capture device available")
)

// AudioData is the finalized audio payload returned by StopCapture
type AudioData struct {
	Bytes    []byte
	MIMEType string
}

// Result is one speech-recognition event. Final carries a finalized
// utterance; Interim carries provisional text for live display. Either may
// be empty
type Result struct {
	Final   string
	Interim string
}

// RecognizerConfig configures a speech source instance
type RecognizerConfig struct {
	Language       string
	Continuous     bool
	InterimResults bool

	// OnResult is invoked sequentially for every recognition event
	OnResult func(Result)

	// OnEnd is invoked when the source stops without Stop being called,
	// with the terminating error
	OnEnd func(error)
}

// AudioCapture acquires the microphone and buffers raw audio until stopped
type AudioCapture interface {
	StartCapture(ctx context.Context) error

	// StopCapture tears down the device and returns the buffered payload.
	// Teardown is idempotent; a second call returns nil data
	StopCapture() (*AudioData, error)
}

// SpeechSource produces recognition results until stopped
type SpeechSource interface {
	Start(ctx context.Context) error

	// SetLanguage switches the recognition language live
	SetLanguage(code string) error

	Stop() error
}

// Factory creates capture devices for a recording session
type Factory interface {
	NewAudioCapture() AudioCapture
	NewSpeechSource(cfg RecognizerConfig) SpeechSource
}
