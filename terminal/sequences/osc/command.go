package osc

import (
	"fmt"
	"strconv"
	"strings"
)

// Command is a parsed OSC (Operating System Command) string: `ESC ]
// <Ps> ; <payload> ST`. Ps is the numeric command selector; Payload is
// everything after the first semicolon, unsplit, since its shape (a single
// string, or further semicolon-delimited fields) depends on Ps.
type Command struct {
	Ps      int
	Payload string
	// Valid is false when the string didn't start with a decimal Ps
	// followed by ';' or end-of-string. Dispatch should ignore invalid
	// commands rather than guess at intent.
	Valid bool
}

func (c *Command) String() string {
	if c == nil {
		return "OSC {nil}"
	}
	return fmt.Sprintf("OSC %d %q", c.Ps, c.Payload)
}

// Fields splits Payload on ';', the shape most OSC commands with more than
// one argument use (OSC 4, OSC 8's key=value pairs before the URI, OSC 52's
// selection+base64 pair).
func (c *Command) Fields() []string {
	if c.Payload == "" {
		return nil
	}
	return strings.Split(c.Payload, ";")
}

// Parser accumulates the bytes of an OSC string as they arrive one at a
// time from the state machine and produces a Command when the string ends.
type Parser struct {
	buf strings.Builder
}

// Reset clears the accumulated buffer. Called on entry to the OSC string
// state.
func (p *Parser) Reset() {
	p.buf.Reset()
}

// Next appends a byte to the buffer. Called for every byte consumed while
// in the OSC string state.
func (p *Parser) Next(c uint8) {
	p.buf.WriteByte(c)
}

// End finalizes the buffer into a Command. Returns nil if nothing was ever
// accumulated (an empty OSC string, `ESC ] ST`, carries no command).
func (p *Parser) End() *Command {
	s := p.buf.String()
	if s == "" {
		return nil
	}

	semi := strings.IndexByte(s, ';')
	psStr := s
	payload := ""
	if semi >= 0 {
		psStr = s[:semi]
		payload = s[semi+1:]
	}

	ps, err := strconv.Atoi(psStr)
	if err != nil {
		return &Command{Payload: s, Valid: false}
	}
	return &Command{Ps: ps, Payload: payload, Valid: true}
}
