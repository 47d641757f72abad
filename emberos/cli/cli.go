// Package cli implements the interactive command-line control: a
// three-state machine fed by console events, with a single-slot history,
// tab-completion and in-band ANSI arrow handling.
package cli

import (
	"ember/emberos/command"
	"ember/emberos/control"
	"ember/emberos/event"
	"ember/emberos/fault"
	"ember/emberos/io"
	"ember/x/mathx"
)

const cmdStrLen = control.CmdStrLen

const echoInput = true

var echoExceptions = [...]byte{'\t'}

type state uint32

const (
	writingPrompt state = iota
	waitingForInput
	executingCommand
)

// CLI is the command-line control. It owns the console element and all
// line-editor state.
type CLI struct {
	control.Base
	ConsoleID io.ID

	in  io.Input
	out io.Output

	state state

	currentCmd [cmdStrLen + 1]byte // +1 for the terminator
	lastCmd    [cmdStrLen + 1]byte
	pos        uint32
}

// New builds the CLI bound to the console element.
func New(consoleID io.ID, enabled bool) *CLI {
	return &CLI{
		Base:      control.Base{ControlName: "CLI", On: enabled},
		ConsoleID: consoleID,
	}
}

// InitControl locates the console and writes the first prompt.
func (c *CLI) InitControl() {
	c.out = io.OutputByID(c.ConsoleID)
	fault.Require(c.out != nil, fault.DeviceNotFound)
	c.in = io.InputByID(c.ConsoleID)
	fault.Require(c.in != nil, fault.DeviceNotFound)

	c.writeNewline()
	c.writeHeader()

	c.state = writingPrompt
	c.handleState("") // write first prompt
}

// HandleEvent advances the state machine. Console input arriving while a
// command executes is re-posted to keep keystrokes in FIFO order.
func (c *CLI) HandleEvent(evt event.Event) control.HandleStatus {
	ret := control.NotHandled

	switch evt.ID {
	case event.ControlUARTInput:
		if c.state == waitingForInput {
			c.handleState(io.Get[string](c.in))
		} else {
			event.Post(evt.ID, evt.Arg)
		}

	case event.ControlUpdateCLIState:
		c.handleState("")
		ret = control.Handled

	case event.ControlCLIOutput:
		if s, ok := evt.Arg.(string); ok {
			c.write(s)
		}
	}

	return ret
}

//
// State machine
//

func (c *CLI) handleState(rcvd string) {
	switch c.state {
	case waitingForInput:
		exec := c.processInput(rcvd)
		next := waitingForInput
		if exec {
			next = executingCommand
		}
		c.advanceState(next, exec)

	case executingCommand:
		c.executeCommand()
		c.advanceState(writingPrompt, true)

	default:
		c.writePrompt()
		c.advanceState(waitingForInput, false)
	}
}

func (c *CLI) advanceState(next state, advance bool) {
	c.state = next
	if advance {
		event.Post(event.ControlUpdateCLIState, nil)
	}
}

//
// Console output
//

func (c *CLI) write(s string) {
	io.Set(c.out, s)
}

func (c *CLI) writeHeader() {
	c.write("Starting Command Line Interface:")
}

func (c *CLI) writeNewline() {
	c.write("\r\n")
}

func (c *CLI) writePrompt() {
	c.writeNewline()
	c.write(">")
}

// writeCurrentCmd redraws the prompt with the pending buffer.
func (c *CLI) writeCurrentCmd() {
	c.writeNewline()
	c.writePrompt()
	c.write(c.bufString())
}

//
// Line editor
//

func (c *CLI) bufString() string {
	return cstr(c.currentCmd[:])
}

// attemptCompletion appends the remainder of the only command name that
// begins with the buffer, an exact match included. With zero or multiple
// candidates nothing changes.
func (c *CLI) attemptCompletion() bool {
	names := command.Names()
	fault.Require(len(names) > 0, fault.TooSmall)

	buf := c.bufString()

	var remaining string
	found := false
	for _, name := range names {
		matches := len(buf) <= len(name) && name[:len(buf)] == buf
		if matches && !found {
			remaining = name[len(buf):]
			found = true
		} else if matches && found {
			return false
		}
	}

	if !found {
		return false
	}

	fault.Invariant(len(buf)+len(remaining) <= cmdStrLen, fault.InvalidLength)

	copy(c.currentCmd[c.pos:], remaining)
	c.currentCmd[cmdStrLen] = 0 // truncate if too long
	c.pos += uint32(len(remaining))

	return true
}

// listMatches prints every matching command, then redraws the prompt and
// the pending buffer. An empty buffer lists nothing.
func (c *CLI) listMatches() {
	names := command.Names()
	fault.Require(len(names) > 0, fault.TooSmall)

	c.writeNewline()

	buf := c.bufString()
	for _, name := range names {
		if len(buf) == 0 {
			break
		}
		if len(buf) <= len(name) && name[:len(buf)] == buf {
			c.write(name)
			c.write(" ")
		}
	}

	c.writeNewline()
	c.writePrompt()
	c.write(c.bufString())
}

// handleNullBackspace repaints the prompt eaten by echoing a backspace at
// position zero.
func (c *CLI) handleNullBackspace() {
	if echoInput {
		c.writePrompt()
	}
}

// processCharacter advances the editor by one byte. True means the buffer
// is ready to execute.
func (c *CLI) processCharacter(ch byte) bool {
	c.pos = mathx.Clamp(c.pos, 0, cmdStrLen)
	c.currentCmd[c.pos] = 0

	newline := ch == '\r' || ch == '\n'
	tab := ch == '\t'
	backspace := ch == 0x08 || ch == 0x7F

	execCmd := false

	switch {
	case newline:
		c.pos = 0
		execCmd = true

	case tab && c.attemptCompletion():
		c.writeCurrentCmd()

	case tab:
		c.listMatches()

	case backspace && c.pos == 0:
		c.handleNullBackspace()

	case backspace:
		c.currentCmd[c.pos] = 0
		c.pos--

	default:
		c.currentCmd[c.pos] = ch
		c.pos++
	}

	return execCmd
}

// isUpArrow reports whether the byte completes an ESC [ A sequence.
func (c *CLI) isUpArrow(ch byte) bool {
	fault.Require(c.pos >= 2, fault.InvalidPos)

	esc := c.currentCmd[c.pos-2] == 0x1B
	lbrack := c.currentCmd[c.pos-1] == 0x5B
	return esc && lbrack && ch == 0x41
}

// isDownArrow reports whether the byte completes an ESC [ B sequence.
func (c *CLI) isDownArrow(ch byte) bool {
	fault.Require(c.pos >= 2, fault.InvalidPos)

	esc := c.currentCmd[c.pos-2] == 0x1B
	lbrack := c.currentCmd[c.pos-1] == 0x5B
	return esc && lbrack && ch == 0x42
}

// saveLastCmd records the buffer in the single-slot history.
func (c *CLI) saveLastCmd() {
	copy(c.lastCmd[:], c.currentCmd[:])
	c.lastCmd[cmdStrLen] = 0
}

// loadLastCmd recalls the history into the buffer and echoes it.
func (c *CLI) loadLastCmd() {
	if c.pos != 0 {
		c.writePrompt()
	}

	last := cstr(c.lastCmd[:])
	c.write(last)

	copy(c.currentCmd[:], c.lastCmd[:])
	c.currentCmd[cmdStrLen] = 0

	c.pos = uint32(len(last))
}

// resetCmd clears the buffer and reprints a newline to mark the reset.
func (c *CLI) resetCmd() {
	for i := range c.currentCmd {
		c.currentCmd[i] = 0
	}
	c.pos = 0
	c.writeNewline()
}

// echo mirrors the byte back to the terminal unless it is in the
// exception set.
func (c *CLI) echo(ch byte) {
	for _, e := range echoExceptions {
		if e == ch {
			return
		}
	}
	if echoInput {
		c.write(string([]byte{ch}))
	}
}

// arrowResponse answers an arrow sequence. PuTTY consumes the byte after
// an arrow unless the host responds; echoing the arrow itself would move
// the cursor, so send a benign single byte instead.
func (c *CLI) arrowResponse() {
	c.write("B") // B = down
}

// processInput feeds each received byte through the editor. True means a
// command is ready to execute.
func (c *CLI) processInput(cmd string) bool {
	if len(cmd) > cmdStrLen {
		cmd = cmd[:cmdStrLen]
	}

	execCmd := false
	for i := 0; i < len(cmd); i++ {
		up := c.pos >= 2 && c.isUpArrow(cmd[i])
		down := c.pos >= 2 && c.isDownArrow(cmd[i])

		switch {
		case up:
			c.arrowResponse()
			c.loadLastCmd()
		case down:
			c.arrowResponse()
			c.resetCmd()
			execCmd = true // empty command
		default:
			c.echo(cmd[i])
			execCmd = c.processCharacter(cmd[i])
		}

		if execCmd {
			break
		}
	}

	return execCmd
}

//
// Command dispatch
//

// maxArgs is the worst case: single-character arguments separated by
// single spaces.
const maxArgs = (cmdStrLen - 2) / 2

// getArgs tokenises the buffer in place: every space becomes a terminator
// and each following token is recorded. The command token itself is
// excluded.
func (c *CLI) getArgs() []string {
	args := make([]string, 0, maxArgs)

	// Skip the final byte: a trailing space starts no argument and a
	// non-space cannot begin one either.
	n := len(c.bufString())
	starts := []int{}
	for i := 0; i+1 < n; i++ {
		if c.currentCmd[i] == ' ' {
			c.currentCmd[i] = 0
			starts = append(starts, i+1)
		}
	}

	for _, s := range starts {
		if len(args) >= maxArgs {
			break
		}
		end := s
		for end < len(c.currentCmd) && c.currentCmd[end] != 0 && c.currentCmd[end] != ' ' {
			end++
		}
		args = append(args, string(c.currentCmd[s:end]))
	}

	return args
}

// executeCommand resolves the buffer against the command table. A name
// matches when it prefixes the buffer and the byte after it is a space or
// the terminator, so `help` does not match `helpme`.
func (c *CLI) executeCommand() {
	names := command.Names()
	fault.Require(len(names) > 0, fault.InvalidLength)

	buf := c.bufString()

	cmdPos := -1
	for i, name := range names {
		validLen := len(buf) >= len(name)
		if !validLen || buf[:len(name)] != name {
			continue
		}
		if len(buf) == len(name) || buf[len(name)] == ' ' {
			cmdPos = i
			break
		}
	}

	if cmdPos < 0 && len(buf) == 0 {
		return
	}

	if cmdPos < 0 {
		c.saveLastCmd()

		c.writeNewline()
		c.write("Invalid Command")
		c.writeNewline()
		c.write("Please type 'help' for a list of commands")
		c.writeNewline()
		return
	}

	funcs := command.Funcs()

	c.saveLastCmd()

	c.writeNewline()

	args := c.getArgs()
	out := funcs[cmdPos](args)
	c.write(out)
}

// cstr returns the bytes up to the first terminator.
func cstr(b []byte) string {
	for i, ch := range b {
		if ch == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
