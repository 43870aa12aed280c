package main

import (
	"io"
	"os"
)

var (
	csiCursorShow    = []byte("\x1b[?25h")
	csiAltScreenExit = []byte("\x1b[?1049l")
	csiSGR0          = []byte("\x1b[0m")
	csiAutoWrapOn    = []byte("\x1b[?7h")
	csiMouseOff      = []byte("\x1b[?1000l\x1b[?1002l\x1b[?1003l\x1b[?1006l")
)

// emergencyReset restores a usable terminal after a crash without going through tcell
func emergencyReset(w io.Writer) {
	w.Write(csiMouseOff)
	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiSGR0)
	w.Write(csiAutoWrapOn)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}
}
