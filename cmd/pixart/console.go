package main

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
)

// console prints coloured status lines. Colours are dropped automatically
// when stdout is not a terminal.
type console struct {
	out *termenv.Output
}

func newConsole() *console {
	return &console{out: termenv.NewOutput(os.Stdout)}
}

func (c *console) ok(format string, args ...any) {
	c.line("ok", "2", format, args...)
}

func (c *console) info(format string, args ...any) {
	c.line("--", "4", format, args...)
}

func (c *console) fail(format string, args ...any) {
	c.line("error", "1", format, args...)
}

func (c *console) line(tag, color, format string, args ...any) {
	prefix := c.out.String(tag).Foreground(c.out.Color(color)).Bold()
	fmt.Fprintf(c.out, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}
