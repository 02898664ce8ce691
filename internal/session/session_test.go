package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/displaywake/displaywake/internal/config"
	"github.com/displaywake/displaywake/internal/logging"
	"github.com/displaywake/displaywake/internal/models"
	"github.com/displaywake/displaywake/pkg/display"
)

func init() {
	// The failure-path tests below trip warnings on purpose
	logging.Configure("error", "")
}

// fakeProbe records every probe call in order
type fakeProbe struct {
	idleSeconds int
	idleErr     error
	screenOff   bool
	screenErr   error
	resetErr    error
	wakeErr     error

	calls []string
}

func (f *fakeProbe) IdleSeconds(ctx context.Context) (int, error) {
	f.calls = append(f.calls, "idle")
	return f.idleSeconds, f.idleErr
}

func (f *fakeProbe) ScreenOff(ctx context.Context) (bool, error) {
	f.calls = append(f.calls, "power")
	return f.screenOff, f.screenErr
}

func (f *fakeProbe) ResetIdleTimer(ctx context.Context) error {
	f.calls = append(f.calls, "reset")
	return f.resetErr
}

func (f *fakeProbe) WakeScreen(ctx context.Context) error {
	f.calls = append(f.calls, "wake")
	return f.wakeErr
}

func (f *fakeProbe) IsAvailable() bool   { return true }
func (f *fakeProbe) SessionType() string { return display.SessionX11 }
func (f *fakeProbe) Close() error        { return nil }

func (f *fakeProbe) callList() string {
	return strings.Join(f.calls, ",")
}

// fakeRecorder captures created events
type fakeRecorder struct {
	events []*models.WakeEvent
	err    error
}

func (f *fakeRecorder) Create(event *models.WakeEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func newTestSession(probe display.Probe, recorder Recorder) *Session {
	cfg := config.Default()
	cfg.Wake.Room = "testroom"
	return New(cfg, probe, recorder)
}

func TestFakesSatisfyInterfaces(t *testing.T) {
	var _ display.Probe = (*fakeProbe)(nil)
	var _ Recorder = (*fakeRecorder)(nil)
}

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name     string
		raw      []byte
		expected string
	}{
		{"plain", []byte("wake"), "wake"},
		{"surrounding whitespace", []byte("  wake\n"), "wake"},
		{"tabs", []byte("\twake\t"), "wake"},
		{"case preserved", []byte("Wake"), "Wake"},
		{"empty", []byte{}, ""},
		{"whitespace only", []byte(" \n\t "), ""},
		{"invalid bytes replaced", []byte{0xff, 0xfe}, "�"},
		{"wake with invalid tail", append([]byte("wake"), 0xff), "wake�"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodePayload(tt.raw); got != tt.expected {
				t.Errorf("decodePayload(%v) = %q, want %q", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestHandlePayloadIgnoresNonWake(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"wrong case", []byte("Wake")},
		{"different command", []byte("sleep")},
		{"wake with suffix", []byte("wake now")},
		{"empty", []byte{}},
		{"whitespace only", []byte("   ")},
		{"invalid byte tail", append([]byte("wake"), 0xff)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probe := &fakeProbe{}
			s := newTestSession(probe, nil)

			s.handlePayload(tt.raw)

			if len(probe.calls) != 0 {
				t.Errorf("Expected no probe calls for %q, got %v", tt.raw, probe.calls)
			}
		})
	}
}

func TestHandlePayloadAcceptsPaddedWake(t *testing.T) {
	probe := &fakeProbe{idleSeconds: 600}
	s := newTestSession(probe, nil)

	s.handlePayload([]byte(" wake\n"))

	if len(probe.calls) == 0 {
		t.Fatal("Expected padded wake payload to be handled")
	}
}

func TestHandleWakeActions(t *testing.T) {
	tests := []struct {
		name        string
		idleSeconds int
		screenOff   bool
		threshold   int
		expected    string
	}{
		{
			name:        "active user, no action",
			idleSeconds: 3,
			screenOff:   false,
			threshold:   30,
			expected:    "idle,power",
		},
		{
			name:        "active user with dark screen, still no action",
			idleSeconds: 3,
			screenOff:   true,
			threshold:   30,
			expected:    "idle,power",
		},
		{
			name:        "idle with dark screen wakes",
			idleSeconds: 600,
			screenOff:   true,
			threshold:   30,
			expected:    "idle,power,wake",
		},
		{
			name:        "idle with lit screen resets the timer",
			idleSeconds: 600,
			screenOff:   false,
			threshold:   30,
			expected:    "idle,power,reset",
		},
		{
			name:        "exactly at threshold acts",
			idleSeconds: 30,
			screenOff:   true,
			threshold:   30,
			expected:    "idle,power,wake",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probe := &fakeProbe{idleSeconds: tt.idleSeconds, screenOff: tt.screenOff}
			s := newTestSession(probe, nil)
			s.cfg.Wake.ActiveThreshold = tt.threshold

			s.handlePayload([]byte("wake"))

			if got := probe.callList(); got != tt.expected {
				t.Errorf("calls = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestDegradedIdleSuppressesAction(t *testing.T) {
	// A failed idle query reads as 0 seconds idle, which the policy
	// treats as an active user even though the screen is dark
	probe := &fakeProbe{idleErr: errors.New("xprintidle missing"), screenOff: true}
	s := newTestSession(probe, nil)

	s.handlePayload([]byte("wake"))

	if got := probe.callList(); got != "idle,power" {
		t.Errorf("calls = %s, want idle,power", got)
	}
}

func TestDegradedPowerNeverForcesWake(t *testing.T) {
	// A failed power query reads as screen-on, an idle machine then
	// gets the invisible timer reset instead of a forced wake
	probe := &fakeProbe{idleSeconds: 600, screenErr: errors.New("xset missing")}
	s := newTestSession(probe, nil)

	s.handlePayload([]byte("wake"))

	if got := probe.callList(); got != "idle,power,reset" {
		t.Errorf("calls = %s, want idle,power,reset", got)
	}
}

func TestWakeFailureIsSwallowed(t *testing.T) {
	probe := &fakeProbe{idleSeconds: 600, screenOff: true, wakeErr: errors.New("dpms refused")}
	recorder := &fakeRecorder{}
	s := newTestSession(probe, recorder)

	s.handlePayload([]byte("wake"))

	if len(recorder.events) != 1 {
		t.Fatalf("Expected 1 recorded event, got %d", len(recorder.events))
	}
	if recorder.events[0].ActionError == "" {
		t.Error("Expected the action error to be recorded")
	}
}

func TestResetFailureIsSwallowed(t *testing.T) {
	probe := &fakeProbe{idleSeconds: 600, resetErr: errors.New("no screensaver")}
	s := newTestSession(probe, nil)

	s.handlePayload([]byte("wake"))

	if got := probe.callList(); got != "idle,power,reset" {
		t.Errorf("calls = %s, want idle,power,reset", got)
	}
}

func TestSignalsHandledSequentially(t *testing.T) {
	probe := &fakeProbe{idleSeconds: 600, screenOff: true}
	s := newTestSession(probe, nil)

	for i := 0; i < 3; i++ {
		s.handlePayload([]byte("wake"))
	}

	expected := "idle,power,wake,idle,power,wake,idle,power,wake"
	if got := probe.callList(); got != expected {
		t.Errorf("calls = %s, want %s", got, expected)
	}
}

func TestRecordedEventFields(t *testing.T) {
	probe := &fakeProbe{idleSeconds: 90, screenOff: true}
	recorder := &fakeRecorder{}
	s := newTestSession(probe, recorder)

	s.handlePayload([]byte("wake"))

	if len(recorder.events) != 1 {
		t.Fatalf("Expected 1 recorded event, got %d", len(recorder.events))
	}

	e := recorder.events[0]
	if e.Room != "testroom" {
		t.Errorf("Room = %s, want testroom", e.Room)
	}
	if e.SessionType != "x11" {
		t.Errorf("SessionType = %s, want x11", e.SessionType)
	}
	if e.IdleSeconds != 90 {
		t.Errorf("IdleSeconds = %d, want 90", e.IdleSeconds)
	}
	if !e.ScreenOff {
		t.Error("Expected ScreenOff true")
	}
	if e.Decision != "wake" {
		t.Errorf("Decision = %s, want wake", e.Decision)
	}
	if e.ActionError != "" {
		t.Errorf("ActionError = %q, want empty", e.ActionError)
	}
	if e.Timestamp.IsZero() {
		t.Error("Expected a timestamp")
	}
}

func TestRecordsDegradation(t *testing.T) {
	probe := &fakeProbe{idleErr: errors.New("gone"), screenErr: errors.New("gone")}
	recorder := &fakeRecorder{}
	s := newTestSession(probe, recorder)

	s.handlePayload([]byte("wake"))

	if len(recorder.events) != 1 {
		t.Fatalf("Expected 1 recorded event, got %d", len(recorder.events))
	}

	e := recorder.events[0]
	if !e.IdleDegraded || !e.PowerDegraded {
		t.Error("Expected both degradation flags on the recorded event")
	}
	if e.Decision != "ignore" {
		t.Errorf("Decision = %s, want ignore", e.Decision)
	}
}

func TestRecorderFailureDoesNotBlockActions(t *testing.T) {
	probe := &fakeProbe{idleSeconds: 600, screenOff: true}
	recorder := &fakeRecorder{err: errors.New("disk full")}
	s := newTestSession(probe, recorder)

	s.handlePayload([]byte("wake"))

	if got := probe.callList(); got != "idle,power,wake" {
		t.Errorf("calls = %s, want idle,power,wake", got)
	}
}

func TestNilRecorder(t *testing.T) {
	probe := &fakeProbe{idleSeconds: 600, screenOff: true}
	s := newTestSession(probe, nil)

	// Must not panic without a recorder
	s.handlePayload([]byte("wake"))

	if got := probe.callList(); got != "idle,power,wake" {
		t.Errorf("calls = %s, want idle,power,wake", got)
	}
}

func TestClientOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Broker.Host = "broker.local"
	cfg.Broker.Port = 1884
	cfg.Wake.Room = "lab"

	s := New(cfg, &fakeProbe{}, nil)
	opts := s.clientOptions()

	if len(opts.Servers) != 1 {
		t.Fatalf("Expected 1 broker, got %d", len(opts.Servers))
	}
	if got := opts.Servers[0].String(); got != "tcp://broker.local:1884" {
		t.Errorf("Broker URL = %s, want tcp://broker.local:1884", got)
	}

	if !strings.HasPrefix(opts.ClientID, "displaywake-lab-") {
		t.Errorf("ClientID = %s, want displaywake-lab-<pid>", opts.ClientID)
	}

	if opts.KeepAlive != 60 {
		t.Errorf("KeepAlive = %d, want 60", opts.KeepAlive)
	}
	if !opts.AutoReconnect {
		t.Error("Expected auto reconnect enabled")
	}
	if opts.MaxReconnectInterval != reconnectMax {
		t.Errorf("MaxReconnectInterval = %s, want %s", opts.MaxReconnectInterval, reconnectMax)
	}
	if !opts.Order {
		t.Error("Expected in-order handling")
	}
}

func TestClientOptionsCredentials(t *testing.T) {
	cfg := config.Default()
	cfg.Broker.Username = "ha"
	cfg.Broker.Password = "secret"

	s := New(cfg, &fakeProbe{}, nil)
	opts := s.clientOptions()

	if opts.Username != "ha" || opts.Password != "secret" {
		t.Errorf("Credentials = %s/%s, want ha/secret", opts.Username, opts.Password)
	}
}
