package capture

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const recorderSampleRate = 16000

// MicCapture records from the default input device using arecord, falling
// back to ffmpeg. Audio is buffered in a temp file until StopCapture
type MicCapture struct {
	mu   sync.Mutex
	cmd  *exec.Cmd
	path string
}

// NewMicCapture creates an unstarted microphone capture
func NewMicCapture() *MicCapture {
	return &MicCapture{}
}

// StartCapture locates a recording tool and starts it. It fails with
// ErrDeviceNotFound when neither arecord nor ffmpeg is installed
func (m *MicCapture) StartCapture(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cmd != nil {
		return fmt.Errorf("capture already running")
	}

	path := filepath.Join(os.TempDir(), fmt.Sprintf("capture_%d.wav", time.Now().UnixNano()))

	var cmd *exec.Cmd
	if _, err := exec.LookPath("arecord"); err == nil {
		cmd = exec.CommandContext(ctx, "arecord",
			"-f", "S16_LE",
			"-r", fmt.Sprint(recorderSampleRate),
			"-c", "1",
			path,
		)
	} else if _, err := exec.LookPath("ffmpeg"); err == nil {
		cmd = exec.CommandContext(ctx, "ffmpeg",
			"-f", "alsa",
			"-i", "default",
			"-ac", "1",
			"-ar", fmt.Sprint(recorderSampleRate),
			"-y",
			path,
		)
	} else {
		return ErrDeviceNotFound
	}

	if err := cmd.Start(); err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
		return fmt.Errorf("failed to start recording process: %w", err)
	}

	m.cmd = cmd
	m.path = path
	return nil
}

// StopCapture stops the recording process and returns the buffered audio.
// Calling it again after teardown returns nil data
func (m *MicCapture) StopCapture() (*AudioData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cmd == nil {
		return nil, nil
	}

	// Interrupt lets the recorder flush its container headers
	if err := m.cmd.Process.Signal(os.Interrupt); err != nil {
		m.cmd.Process.Kill()
	}
	if err := m.cmd.Wait(); err != nil && !isExpectedExit(err) {
		log.Printf("[CAPTURE]: recorder exited with error: %v", err)
	}
	m.cmd = nil

	data, err := os.ReadFile(m.path)
	os.Remove(m.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read captured audio: %w", err)
	}

	return &AudioData{Bytes: data, MIMEType: "audio/wav"}, nil
}

// isExpectedExit reports whether the process exit came from our own
// interrupt signal
func isExpectedExit(err error) bool {
	s := err.Error()
	return strings.Contains(s, "interrupt") || strings.Contains(s, "exit status")
}
