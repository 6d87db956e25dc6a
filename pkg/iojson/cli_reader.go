package iojson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// ErrNoInput is returned when neither a file nor piped input is available.
var ErrNoInput = errors.New("no input provided (stdin is a terminal); use -f or pipe JSON input")

// FileReader decodes a T from the file named by its flag, or from stdin when
// the flag is unset.
type FileReader[T any] struct {
	path  string
	stdin *os.File
}

// Flag returns the --file flag bound to the reader.
func (fr *FileReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to a JSON file (reads piped stdin when omitted)",
		Destination: &fr.path,
	}
}

// Provided reports whether a file was named or stdin is piped.
func (fr *FileReader[T]) Provided() bool {
	return fr.path != "" || !term.IsTerminal(int(fr.input().Fd()))
}

// Read decodes the input.
func (fr *FileReader[T]) Read() (T, error) {
	var out T

	var r io.Reader
	if fr.path != "" {
		f, err := os.Open(fr.path)
		if err != nil {
			return out, fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	} else {
		stdin := fr.input()
		if term.IsTerminal(int(stdin.Fd())) {
			return out, ErrNoInput
		}
		r = stdin
	}

	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return out, fmt.Errorf("decode JSON: %w", err)
	}
	return out, nil
}

func (fr *FileReader[T]) input() *os.File {
	if fr.stdin != nil {
		return fr.stdin
	}
	return os.Stdin
}
