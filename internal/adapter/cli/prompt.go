package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// PasswordReader asks for a secret with the given prompt.
type PasswordReader func(prompt string) (string, error)

// TerminalPasswordReader reads without echo when in is a terminal and falls
// back to plain line reads otherwise, so the commands stay scriptable.
func TerminalPasswordReader(in *os.File, out io.Writer) PasswordReader {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return LinePasswordReader(in, out)
	}
	return func(prompt string) (string, error) {
		fmt.Fprint(out, prompt)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
}

func LinePasswordReader(in io.Reader, out io.Writer) PasswordReader {
	r := bufio.NewReader(in)
	return func(prompt string) (string, error) {
		fmt.Fprint(out, prompt)
		line, err := r.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}

var errPasswordMismatch = errors.New("passwords do not match")

func readNewPassword(read PasswordReader) (string, error) {
	pw, err := read("Password: ")
	if err != nil {
		return "", err
	}
	again, err := read("Repeat password: ")
	if err != nil {
		return "", err
	}
	if pw != again {
		return "", errPasswordMismatch
	}
	return pw, nil
}
