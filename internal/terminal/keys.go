// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package terminal binds the review loop to an interactive terminal: single
// key decisions, link opening, clipboard staging, and a colored progress
// display.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/pdiddy/outreach-engine/internal/review"
)

// escapeWait bounds how long a lone ESC waits for the rest of an arrow key sequence.
const escapeWait = 50 * time.Millisecond

const ctrlC = 0x03

var errTimeout = errors.New("timed out waiting for key")

// KeyHelp describes the key bindings.
const KeyHelp = `Keys:
  right / y   yes (accept)
  left  / n   no (reject)
  up    / m   maybe (defer)
  o           other campaign
  u           undo last decision
  s / q       stop and save
  Ctrl-C      interrupt and save
  ?           this help`

// KeySource reads one decision per keypress. When the input is a terminal it
// is switched to raw mode only while waiting for a key; otherwise each input
// line is one decision.
type KeySource struct {
	in  io.Reader
	out io.Writer
	tty bool

	// raw enters raw mode and returns the function that restores the terminal.
	raw func() (func(), error)

	once  sync.Once
	bytes chan byte
	err   error
}

// NewKeySource reads decisions from in, writing help text to out.
func NewKeySource(in *os.File, out io.Writer) *KeySource {
	fd := int(in.Fd())
	tty := term.IsTerminal(fd)
	return newKeySource(in, out, tty, func() (func(), error) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return nil, fmt.Errorf("entering raw mode: %w", err)
		}
		return func() { _ = term.Restore(fd, state) }, nil
	})
}

func newKeySource(in io.Reader, out io.Writer, tty bool, raw func() (func(), error)) *KeySource {
	return &KeySource{in: in, out: out, tty: tty, raw: raw}
}

// Interactive reports whether decisions come from single keypresses.
func (k *KeySource) Interactive() bool { return k.tty }

// pump copies input bytes into a channel so reads can be abandoned when the
// context is cancelled. The channel is closed at end of input.
func (k *KeySource) pump() {
	k.bytes = make(chan byte, 64)
	go func() {
		defer close(k.bytes)
		r := bufio.NewReader(k.in)
		for {
			b, err := r.ReadByte()
			if err != nil {
				if !errors.Is(err, io.EOF) {
					k.err = err
				}
				return
			}
			k.bytes <- b
		}
	}()
}

// Next blocks until a decision is read, the input ends (io.EOF), or ctx is
// cancelled.
func (k *KeySource) Next(ctx context.Context) (review.Decision, error) {
	k.once.Do(k.pump)

	if !k.tty {
		return k.nextLine(ctx)
	}

	restore, err := k.raw()
	if err != nil {
		return review.None, err
	}
	defer restore()

	b, err := k.read(ctx, nil)
	if err != nil {
		return review.None, err
	}
	seq := []byte{b}
	if b == 0x1b {
		wait := time.After(escapeWait)
		for len(seq) < 3 {
			next, err := k.read(ctx, wait)
			if err != nil {
				break
			}
			seq = append(seq, next)
		}
	}

	d := DecodeKey(seq)
	if len(seq) == 1 && seq[0] == '?' {
		k.help()
	}
	return d, nil
}

func (k *KeySource) nextLine(ctx context.Context) (review.Decision, error) {
	var line []byte
	for {
		b, err := k.read(ctx, nil)
		if err != nil {
			if errors.Is(err, io.EOF) && len(line) > 0 {
				break
			}
			return review.None, err
		}
		if b == '\n' {
			break
		}
		line = append(line, b)
	}
	if strings.TrimSpace(string(line)) == "?" {
		k.help()
	}
	return DecodeLine(string(line)), nil
}

// read returns the next input byte. A fired timeout returns errTimeout.
func (k *KeySource) read(ctx context.Context, timeout <-chan time.Time) (byte, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-timeout:
		return 0, errTimeout
	case b, ok := <-k.bytes:
		if !ok {
			if k.err != nil {
				return 0, fmt.Errorf("reading input: %w", k.err)
			}
			return 0, io.EOF
		}
		return b, nil
	}
}

func (k *KeySource) help() {
	if k.out == nil {
		return
	}
	// Raw mode does not translate newlines.
	text := KeyHelp
	if k.tty {
		text = strings.ReplaceAll(text, "\n", "\r\n")
		fmt.Fprint(k.out, "\r\n"+text+"\r\n")
		return
	}
	fmt.Fprintln(k.out, text)
}

// DecodeKey maps a raw keypress to a decision. Unknown keys map to None.
func DecodeKey(seq []byte) review.Decision {
	if len(seq) == 3 && seq[0] == 0x1b && (seq[1] == '[' || seq[1] == 'O') {
		switch seq[2] {
		case 'C':
			return review.Accept
		case 'D':
			return review.Reject
		case 'A':
			return review.Defer
		}
		return review.None
	}
	if len(seq) != 1 {
		return review.None
	}
	if seq[0] == ctrlC {
		return review.Cancel
	}
	return decodeRune(rune(seq[0]))
}

// DecodeLine maps one line of cooked input to a decision.
func DecodeLine(line string) review.Decision {
	line = strings.ToLower(strings.TrimSpace(line))
	switch line {
	case "":
		return review.None
	case "yes":
		return review.Accept
	case "no":
		return review.Reject
	case "maybe":
		return review.Defer
	case "other":
		return review.Other
	case "undo":
		return review.Undo
	case "stop", "quit":
		return review.StopAndSave
	}
	if len(line) != 1 {
		return review.None
	}
	return decodeRune(rune(line[0]))
}

func decodeRune(r rune) review.Decision {
	switch r {
	case 'y', 'Y':
		return review.Accept
	case 'n', 'N':
		return review.Reject
	case 'm', 'M':
		return review.Defer
	case 'o', 'O':
		return review.Other
	case 'u', 'U':
		return review.Undo
	case 's', 'S', 'q', 'Q':
		return review.StopAndSave
	}
	return review.None
}
