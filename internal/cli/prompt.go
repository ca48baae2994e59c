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

// errNeedsConfirmation is returned when a destructive action needs a yes/no
// answer but stdin is not a terminal.
var errNeedsConfirmation = errors.New("confirmation required: re-run with --yes")

// errCancelled is returned when the user declines a confirmation.
var errCancelled = errors.New("operation cancelled")

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// confirm asks a y/N question. assumeYes skips the prompt; without a terminal
// and without assumeYes it fails with errNeedsConfirmation.
func confirm(in io.Reader, out io.Writer, question string, assumeYes bool) error {
	if assumeYes {
		return nil
	}
	if !stdinIsTerminal() {
		return errNeedsConfirmation
	}
	fmt.Fprintf(out, "⚠️  %s (y/N): ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	}
	return errCancelled
}
