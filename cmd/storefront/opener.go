package main

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"
)

// browserOpener opens payment links in the desktop browser. Navigate is the
// terminal fallback and prints the link instead.
type browserOpener struct {
	out   io.Writer
	start func(name string, args ...string) error
}

func newBrowserOpener(out io.Writer) *browserOpener {
	return &browserOpener{
		out: out,
		start: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
	}
}

func (b *browserOpener) Open(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return b.start("open", url)
	case "windows":
		return b.start("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return b.start("xdg-open", url)
	}
}

func (b *browserOpener) Navigate(url string) error {
	_, err := fmt.Fprintf(b.out, "open this link to pay: %s\n", url)
	return err
}
