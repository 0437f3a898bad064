// Command rowblur replaces rows 1..127 of an image with increasingly
// blurred copies of its first row and writes the result back in place.
//
// Usage:
//
//	rowblur [-v] [path]
//
// path defaults to c.png.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/xswordsx/rowblur"
)

const defaultPath = "c.png"

var errUsage = errors.New("usage: rowblur [-v] [path]")

func main() {
	log.SetFlags(0)
	log.SetPrefix("rowblur: ")

	err := run(os.Args[1:], os.Stderr)
	switch {
	case err == nil:
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	default:
		log.Fatal(err)
	}
}

// run blurs the image named in args in place. Verbose output and usage
// messages go to stderr.
func run(args []string, stderr io.Writer) error {
	flags := flag.NewFlagSet("rowblur", flag.ContinueOnError)
	flags.SetOutput(stderr)
	verbose := flags.Bool("v", false, "log kernel construction and progress to stderr")
	flags.Usage = func() {
		fmt.Fprintln(stderr, errUsage)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	path := defaultPath
	switch flags.NArg() {
	case 0:
	case 1:
		path = flags.Arg(0)
	default:
		flags.Usage()
		return errUsage
	}

	var output io.Writer
	if *verbose {
		output = stderr
	}

	img, format, err := rowblur.Load(path)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	if err := rowblur.CheckFormat(format); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	if err := rowblur.Blur(img, rowblur.DefaultParameters, output); err != nil {
		return fmt.Errorf("blur %s: %w", path, err)
	}
	if err := rowblur.Save(path, img, format); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}
