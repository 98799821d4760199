// Package metrics records console activity.
//
// The core components take a Recorder so they stay free of any metrics
// backend; hosts plug in the Prometheus implementation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ScanEvent classifies a raw scan code.
type ScanEvent string

// Scan code events.
const (
	ScanPress   ScanEvent = "press"
	ScanRelease ScanEvent = "release"
	ScanRepeat  ScanEvent = "repeat"
)

// Recorder receives console events.
type Recorder interface {
	ScanCode(ev ScanEvent)
	CharDecoded()
	Command(name string, known bool)
	Scrolled()
	Booted()
	RebootRequested()
}

// Nop discards everything.
type Nop struct{}

func (Nop) ScanCode(ScanEvent)   {}
func (Nop) CharDecoded()         {}
func (Nop) Command(string, bool) {}
func (Nop) Scrolled()            {}
func (Nop) Booted()              {}
func (Nop) RebootRequested()     {}

// OrNop returns r, or Nop when r is nil.
func OrNop(r Recorder) Recorder {
	if r == nil {
		return Nop{}
	}
	return r
}

// Prometheus holds the console's Prometheus collectors.
type Prometheus struct {
	ScanCodes      *prometheus.CounterVec
	CharsDecoded   prometheus.Counter
	Commands       *prometheus.CounterVec
	UnknownCommand prometheus.Counter
	Scrolls        prometheus.Counter
	Boots          prometheus.Counter
	Reboots        prometheus.Counter
}

// NewPrometheus creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		ScanCodes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vgashell_scancodes_total",
				Help: "Raw scan codes read from the keyboard, by event",
			},
			[]string{"event"},
		),
		CharsDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vgashell_chars_decoded_total",
			Help: "Characters produced by the scan code decoder",
		}),
		Commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vgashell_commands_total",
				Help: "Dispatched shell commands, by name",
			},
			[]string{"command"},
		),
		UnknownCommand: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vgashell_unknown_commands_total",
			Help: "Submitted lines that matched no command",
		}),
		Scrolls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vgashell_scrolls_total",
			Help: "Display scroll operations",
		}),
		Boots: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vgashell_boots_total",
			Help: "Kernel boots",
		}),
		Reboots: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vgashell_reboots_total",
			Help: "Reboots requested from the shell",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			p.ScanCodes,
			p.CharsDecoded,
			p.Commands,
			p.UnknownCommand,
			p.Scrolls,
			p.Boots,
			p.Reboots,
		)
	}
	return p
}

// ScanCode implements Recorder.
func (p *Prometheus) ScanCode(ev ScanEvent) {
	p.ScanCodes.WithLabelValues(string(ev)).Inc()
}

// CharDecoded implements Recorder.
func (p *Prometheus) CharDecoded() {
	p.CharsDecoded.Inc()
}

// Command implements Recorder. Unknown names are not used as label values
// so typing garbage cannot grow the series set.
func (p *Prometheus) Command(name string, known bool) {
	if !known {
		p.UnknownCommand.Inc()
		return
	}
	p.Commands.WithLabelValues(name).Inc()
}

// Scrolled implements Recorder.
func (p *Prometheus) Scrolled() {
	p.Scrolls.Inc()
}

// Booted implements Recorder.
func (p *Prometheus) Booted() {
	p.Boots.Inc()
}

// RebootRequested implements Recorder.
func (p *Prometheus) RebootRequested() {
	p.Reboots.Inc()
}
