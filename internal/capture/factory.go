package capture

import "context"

// DeviceFactory creates real capture devices: microphone capture via
// arecord/ffmpeg and speech recognition via the websocket backend
type DeviceFactory struct {
	speechURL string
}

// NewDeviceFactory creates a factory pointed at a speech backend URL
func NewDeviceFactory(speechURL string) *DeviceFactory {
	return &DeviceFactory{speechURL: speechURL}
}

func (f *DeviceFactory) NewAudioCapture() AudioCapture {
	return NewMicCapture()
}

func (f *DeviceFactory) NewSpeechSource(cfg RecognizerConfig) SpeechSource {
	return NewWSRecognizer(f.speechURL, cfg)
}

// ManualFactory creates no-op devices for terminal-driven sessions, where
// utterances are injected through the controller's result callback instead
// of a live recognizer
type ManualFactory struct{}

func (ManualFactory) NewAudioCapture() AudioCapture {
	return &manualCapture{}
}

func (ManualFactory) NewSpeechSource(cfg RecognizerConfig) SpeechSource {
	return &manualSource{}
}

type manualCapture struct{ started bool }

func (m *manualCapture) StartCapture(ctx context.Context) error {
	m.started = true
	return nil
}

func (m *manualCapture) StopCapture() (*AudioData, error) {
	if !m.started {
		return nil, nil
	}
	m.started = false
	return nil, nil
}

type manualSource struct{}

func (manualSource) Start(ctx context.Context) error  { return nil }
func (manualSource) SetLanguage(code string) error    { return nil }
func (manualSource) Stop() error                      { return nil }
