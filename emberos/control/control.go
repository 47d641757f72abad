// Package control hosts the pluggable event-driven handlers. Controls are
// enumerated at build time and held in a fixed order; an event is offered
// to each enabled control in turn until one claims it.
package control

import (
	"strings"

	"ember/emberos/event"
	"ember/emberos/fault"
	"ember/emberos/settings"
)

// MaxNameLen bounds a control's name.
const MaxNameLen = 16

// CmdStrLen bounds the CLI line buffer.
const CmdStrLen = 64

// HandleStatus reports whether a control claimed an event.
type HandleStatus uint8

const (
	NotHandled HandleStatus = iota
	Handled
)

// Control is a named, toggleable event handler with optional settings.
type Control interface {
	Name() string
	Enabled() bool
	SetEnabled(bool)
	InitControl()
	HandleEvent(e event.Event) HandleStatus
	GetParam(id settings.ID) (settings.Arg, error)
	SetParam(id settings.ID, v settings.Arg, bootup bool) error
}

// Base carries the common control state and the default settings hooks.
// Concrete controls embed it.
type Base struct {
	ControlName string
	On          bool
}

func (b *Base) Name() string       { return b.ControlName }
func (b *Base) Enabled() bool      { return b.On }
func (b *Base) SetEnabled(on bool) { b.On = on }

// GetParam reports "not mine" so the framework walk moves on.
func (b *Base) GetParam(id settings.ID) (settings.Arg, error) {
	return settings.Arg{}, fault.UnknownType
}

// SetParam reports "not mine" so the framework walk moves on.
func (b *Base) SetParam(id settings.ID, v settings.Arg, bootup bool) error {
	return fault.UnknownType
}

var controls []Control

// Register installs the build-time control list in dispatch order.
func Register(list []Control) {
	controls = list
}

// Open initialises every registered control.
func Open() {
	for _, c := range controls {
		fault.Require(len(c.Name()) <= MaxNameLen, fault.InvalidLength)
		c.InitControl()
	}
}

// DisperseEvent offers the event to each enabled control in order; the
// first control that handles it stops the walk.
func DisperseEvent(e event.Event) {
	fault.Require(e.ID < event.NumEvents, fault.InvalidID)

	for _, c := range controls {
		if !c.Enabled() {
			continue
		}
		if c.HandleEvent(e) != NotHandled {
			break
		}
	}
}

// ByName finds the first control whose name is a prefix of name.
func ByName(name string) Control {
	for _, c := range controls {
		if strings.HasPrefix(name, c.Name()) {
			return c
		}
	}
	return nil
}

// List renders every control with its enabled state.
func List() string {
	var sb strings.Builder
	for _, c := range controls {
		sb.WriteString(c.Name())
		sb.WriteString(": ")
		if c.Enabled() {
			sb.WriteString("enabled")
		} else {
			sb.WriteString("disabled")
		}
		sb.WriteString("\r\n")
	}
	return sb.String()
}

// GetParam walks the controls until one recognises the setting.
func GetParam(id settings.ID) (settings.Arg, error) {
	for _, c := range controls {
		arg, err := c.GetParam(id)
		if err != fault.UnknownType {
			return arg, err
		}
	}
	return settings.Arg{}, nil
}

// SetParam walks the controls until one recognises the setting.
func SetParam(id settings.ID, v settings.Arg, bootup bool) error {
	for _, c := range controls {
		err := c.SetParam(id, v, bootup)
		if err != fault.UnknownType {
			return err
		}
	}
	return nil
}
