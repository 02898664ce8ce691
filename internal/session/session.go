package session

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"github.com/displaywake/displaywake/internal/config"
	"github.com/displaywake/displaywake/internal/logging"
	"github.com/displaywake/displaywake/internal/models"
	"github.com/displaywake/displaywake/internal/policy"
	"github.com/displaywake/displaywake/pkg/display"
)

const (
	// wakePayload is the only payload that triggers any action.
	wakePayload = "wake"

	keepAlive         = 60 * time.Second
	connectTimeout    = 10 * time.Second
	connectRetryWait  = 10 * time.Second
	reconnectMax      = 60 * time.Second
	disconnectGraceMs = 250
)

// Recorder persists handled wake signals. The session works without
// one, and recording failures never affect wake handling.
type Recorder interface {
	Create(event *models.WakeEvent) error
}

// Session owns the broker connection and turns incoming wake signals
// into display actions.
type Session struct {
	cfg      *config.Config
	probe    display.Probe
	recorder Recorder
	client   mqtt.Client
	log      *logrus.Entry
}

// New creates a session for the given probe. recorder may be nil.
func New(cfg *config.Config, probe display.Probe, recorder Recorder) *Session {
	s := &Session{
		cfg:      cfg,
		probe:    probe,
		recorder: recorder,
		log:      logging.NewLogger("session"),
	}
	s.client = mqtt.NewClient(s.clientOptions())
	return s
}

func (s *Session) clientOptions() *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", s.cfg.Broker.Host, s.cfg.Broker.Port))
	opts.SetClientID(fmt.Sprintf("displaywake-%s-%d", s.cfg.Wake.Room, os.Getpid()))

	if s.cfg.Broker.Username != "" {
		opts.SetUsername(s.cfg.Broker.Username)
	}
	if s.cfg.Broker.Password != "" {
		opts.SetPassword(s.cfg.Broker.Password)
	}

	opts.SetKeepAlive(keepAlive)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(reconnectMax)
	// Signals are handled one at a time, in arrival order.
	opts.SetOrderMatters(true)

	opts.OnConnect = s.onConnect
	opts.OnConnectionLost = s.onConnectionLost

	return opts
}

func (s *Session) onConnect(client mqtt.Client) {
	s.log.Infof("Connected to broker %s:%d", s.cfg.Broker.Host, s.cfg.Broker.Port)

	topic := s.cfg.Topic()
	token := client.Subscribe(topic, 0, s.handleMessage)
	token.Wait()
	if err := token.Error(); err != nil {
		s.log.Errorf("Failed to subscribe to %s: %v", topic, err)
		return
	}

	s.log.Infof("Subscribed to topic: %s", topic)
}

func (s *Session) onConnectionLost(_ mqtt.Client, err error) {
	s.log.Warnf("Connection lost: %v", err)
}

// Run connects to the broker and handles wake signals until the
// context is cancelled. A broker that is down at startup is retried
// every 10 seconds forever; drops after that are handled by the
// client's own reconnect with backoff.
func (s *Session) Run(ctx context.Context) error {
	for {
		token := s.client.Connect()
		token.Wait()
		err := token.Error()
		if err == nil {
			break
		}

		s.log.Errorf("Failed to connect to broker: %v (retrying in %s)", err, connectRetryWait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(connectRetryWait):
		}
	}

	<-ctx.Done()

	s.log.Info("Disconnecting from broker")
	s.client.Disconnect(disconnectGraceMs)
	return nil
}

func (s *Session) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	s.handlePayload(msg.Payload())
}

// handlePayload filters out everything that is not a wake signal.
func (s *Session) handlePayload(raw []byte) {
	payload := decodePayload(raw)
	if payload != wakePayload {
		s.log.Debugf("Ignoring payload %q", payload)
		return
	}

	s.handleWake(context.Background())
}

// decodePayload turns raw message bytes into a trimmed string.
// Invalid UTF-8 bytes are replaced with U+FFFD rather than rejected.
func decodePayload(raw []byte) string {
	return strings.TrimSpace(string(bytes.ToValidUTF8(raw, []byte("�"))))
}

// handleWake reads the display state, decides and acts. Action
// failures are logged and recorded but never interrupt the session.
func (s *Session) handleWake(ctx context.Context) {
	state := display.Observe(ctx, s.probe, s.log)
	decision := policy.Decide(state.IdleSeconds, state.ScreenOff, s.cfg.Wake.ActiveThreshold)

	s.log.Infof("Wake signal: idle %ds, screen off %v -> %s", state.IdleSeconds, state.ScreenOff, decision)

	var actionErr error
	switch decision {
	case policy.Wake:
		if actionErr = s.probe.WakeScreen(ctx); actionErr != nil {
			s.log.Warnf("Failed to wake screen: %v", actionErr)
		}
	case policy.ResetIdleTimer:
		if actionErr = s.probe.ResetIdleTimer(ctx); actionErr != nil {
			s.log.Warnf("Failed to reset idle timer: %v", actionErr)
		}
	}

	s.record(state, decision, actionErr)
}

// record persists the handled signal when a recorder is attached.
func (s *Session) record(state display.State, decision policy.Decision, actionErr error) {
	if s.recorder == nil {
		return
	}

	event := &models.WakeEvent{
		Timestamp:     time.Now(),
		Room:          s.cfg.Wake.Room,
		SessionType:   s.probe.SessionType(),
		IdleSeconds:   state.IdleSeconds,
		ScreenOff:     state.ScreenOff,
		IdleDegraded:  state.IdleDegraded,
		PowerDegraded: state.PowerDegraded,
		Decision:      decision.String(),
	}
	if actionErr != nil {
		event.ActionError = actionErr.Error()
	}

	if err := s.recorder.Create(event); err != nil {
		s.log.Warnf("Failed to record wake event: %v", err)
	}
}
