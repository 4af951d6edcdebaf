/*
Xmlrepl is an interactive session for feeding an XML document to the parser
one line at a time.

Each line read from stdin is treated as a new chunk and fed to a single
Parser handle; every Production emitted is printed as it is produced. An
EndOfBuffer result is printed too, so the suspend/resume contract at the
heart of the parser is visible line by line. Finish is triggered either by
end-of-input on stdin or by typing the command ".finish" on a line by
itself.

Usage:

	xmlrepl [flags]

The flags are:

	-d, --direct
	    Force reading directly from stdin instead of going through GNU
	    readline, even when stdin and stdout are both a TTY.

	-w, --width INT
	    Terminal width to wrap diagnostic output to. Defaults to 80.
*/
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dekarrin/rosed"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	xml "github.com/hannesm/xml"
	"github.com/hannesm/xml/internal/input"
)

const (
	ExitSuccess = iota
	ExitParseError
	ExitInitError
)

var (
	forceDirect = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline")
	width       = pflag.IntP("width", "w", 80, "Terminal width to wrap diagnostic output to")
)

type lineReader interface {
	ReadLine() (string, error)
	Close() error
}

func main() {
	returnCode := ExitSuccess
	defer func() { os.Exit(returnCode) }()

	pflag.Parse()

	var reader lineReader
	if !*forceDirect && isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd()) {
		ilr, err := input.NewInteractiveReader("xml> ")
		if err != nil {
			fmt.Fprintln(os.Stderr, wrap(fmt.Sprintf("ERROR: %s", err), *width))
			returnCode = ExitInitError
			return
		}
		reader = ilr
	} else {
		reader = input.NewDirectReader(os.Stdin)
	}
	defer reader.Close()

	p := xml.New()
	for {
		line, readErr := reader.ReadLine()
		if readErr != nil && readErr != io.EOF {
			fmt.Fprintln(os.Stderr, wrap(fmt.Sprintf("ERROR: %s", readErr), *width))
			returnCode = ExitInitError
			return
		}

		finish := readErr == io.EOF || line == ".finish"

		var chunk []byte
		if readErr != io.EOF && line != ".finish" {
			chunk = []byte(line + "\n")
		}

		for {
			var prod xml.Production
			var err error
			prod, p, err = p.Parse(chunk, finish)
			chunk = nil
			if err != nil {
				fmt.Fprintln(os.Stderr, wrap(fmt.Sprintf("ERROR: %s", err), *width))
				returnCode = ExitParseError
				return
			}
			fmt.Println(describe(prod))
			if prod.Kind == xml.PEndOfBuffer {
				break
			}
			if prod.Kind == xml.PEndOfData {
				return
			}
		}

		if finish {
			return
		}
	}
}

func wrap(s string, w int) string {
	return rosed.Edit(s).Wrap(w).String()
}

func describe(p xml.Production) string {
	switch p.Kind {
	case xml.PStartElement, xml.PEmptyElement:
		return fmt.Sprintf("%s <%s> attrs=%v", p.Kind, p.Name, p.Attrs)
	case xml.PEndElement:
		return fmt.Sprintf("%s </%s>", p.Kind, p.Name)
	case xml.PText, xml.PWhitespace, xml.PCdata, xml.PComment:
		return fmt.Sprintf("%s %q", p.Kind, p.Text)
	case xml.PPi:
		return fmt.Sprintf("%s target=%q data=%q", p.Kind, p.Target, p.Data)
	case xml.PDoctype:
		return fmt.Sprintf("%s name=%q", p.Kind, p.Doctype.Name)
	default:
		return p.Kind.String()
	}
}
