package setup

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/displaywake/displaywake/internal/config"
	"github.com/displaywake/displaywake/pkg/display"
	"github.com/displaywake/displaywake/pkg/display/wayland"
	"github.com/displaywake/displaywake/pkg/probe"
)

const (
	discoveryPort = 1883
	dialTimeout   = 2 * time.Second
)

// brokerCandidates are the hostnames tried in order during broker
// autodiscovery.
var brokerCandidates = []string{
	"homeassistant.local",
	"homeassistant",
	"mqtt.local",
	"mqtt",
}

// Wizard drives the interactive first-run configuration.
type Wizard struct {
	in         *bufio.Reader
	out        io.Writer
	candidates []string
}

// New creates a wizard reading answers from in and writing prompts
// to out.
func New(in io.Reader, out io.Writer) *Wizard {
	return &Wizard{
		in:         bufio.NewReader(in),
		out:        out,
		candidates: brokerCandidates,
	}
}

// Run walks through every setting, probes the environment for
// defaults and saves the resulting config.
func (w *Wizard) Run() (*config.Config, error) {
	cfg := config.Default()

	fmt.Fprintln(w.out, "displaywake setup")
	fmt.Fprintln(w.out, "=================")
	fmt.Fprintln(w.out)

	if found := w.findBroker(); found != "" {
		fmt.Fprintf(w.out, "Found MQTT broker at %s\n", found)
		cfg.Broker.Host = found
	}

	cfg.Broker.Host = w.prompt("MQTT broker host", cfg.Broker.Host)
	cfg.Broker.Port = w.promptInt("MQTT broker port", cfg.Broker.Port)

	if !testBroker(cfg.Broker.Host, cfg.Broker.Port, dialTimeout) {
		fmt.Fprintf(w.out, "Warning: no broker reachable at %s:%d, continuing anyway\n",
			cfg.Broker.Host, cfg.Broker.Port)
	}

	cfg.Broker.Username = w.prompt("MQTT username (empty for none)", cfg.Broker.Username)
	if cfg.Broker.Username != "" {
		cfg.Broker.Password = w.prompt("MQTT password", cfg.Broker.Password)
	}

	cfg.Wake.Room = w.prompt("Room name", cfg.Wake.Room)
	cfg.Wake.ActiveThreshold = w.promptInt("Active threshold in seconds", cfg.Wake.ActiveThreshold)

	sessionType := probe.DetectSessionType()
	fmt.Fprintf(w.out, "\nDetected session type: %s\n", sessionType)

	if missing := MissingDependencies(sessionType); len(missing) > 0 {
		fmt.Fprintf(w.out, "Warning: missing dependencies: %s\n", strings.Join(missing, ", "))
	}

	cfg.Wake.ScreenTimeout = detectScreenTimeout(sessionType)
	fmt.Fprintf(w.out, "Screen blank timeout: %ds\n", cfg.Wake.ScreenTimeout)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration invalid: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return nil, err
	}

	fmt.Fprintf(w.out, "\nConfiguration written to %s\n", config.Path())
	fmt.Fprintf(w.out, "Listening on topic: %s\n", cfg.Topic())

	return cfg, nil
}

// findBroker probes well-known hostnames for a listening broker.
func (w *Wizard) findBroker() string {
	fmt.Fprintln(w.out, "Searching for an MQTT broker...")
	for _, host := range w.candidates {
		if testBroker(host, discoveryPort, dialTimeout) {
			return host
		}
	}
	return ""
}

// testBroker reports whether something accepts TCP connections at
// host:port.
func testBroker(host string, port int, timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, strconv.Itoa(port)), timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// prompt asks a question and returns the answer, falling back to the
// default on empty input.
func (w *Wizard) prompt(question, def string) string {
	if def != "" {
		fmt.Fprintf(w.out, "%s [%s]: ", question, def)
	} else {
		fmt.Fprintf(w.out, "%s: ", question)
	}

	line, err := w.in.ReadString('\n')
	if err != nil && line == "" {
		return def
	}

	answer := strings.TrimSpace(line)
	if answer == "" {
		return def
	}
	return answer
}

// promptInt asks for a number, re-asking until the input parses.
func (w *Wizard) promptInt(question string, def int) int {
	for {
		answer := w.prompt(question, strconv.Itoa(def))
		n, err := strconv.Atoi(answer)
		if err != nil {
			fmt.Fprintln(w.out, "Please enter a number")
			continue
		}
		return n
	}
}

// MissingDependencies returns the names of external tools or services
// the daemon needs for the given session type but cannot find.
func MissingDependencies(sessionType string) []string {
	var missing []string

	switch sessionType {
	case display.SessionWayland:
		p := wayland.NewProbe()
		defer p.Close()
		if !p.IsAvailable() {
			missing = append(missing, "GNOME session bus")
		}
	default:
		for _, tool := range []string{"xprintidle", "xset"} {
			if _, err := exec.LookPath(tool); err != nil {
				missing = append(missing, tool)
			}
		}
	}

	return missing
}
