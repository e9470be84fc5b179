package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
)

// LoginMessage is shown while the user logs in to the portal.
const LoginMessage = "BANKID LOGIN REQUIRED\n\n" +
	"1. Logga in med BankID i den nya webbläsaren.\n" +
	"2. Navigera till sidan för Aktivitetsrapportering.\n" +
	"3. Klicka på OK här när du är framme för att påbörja autouppladdningen."

// ErrGateClosed is returned when the acknowledgment input closes before the user confirms.
var ErrGateClosed = errors.New("login acknowledgment input closed")

// Gate blocks until a human confirms they are ready.
type Gate interface {
	Wait(ctx context.Context, message string) error
}

// ConsoleGate shows the message on Out and waits for a line on In.
type ConsoleGate struct {
	In  io.Reader
	Out io.Writer
}

// Wait prints message and blocks until Enter is pressed, In closes, or ctx is done.
func (g ConsoleGate) Wait(ctx context.Context, message string) error {
	if _, err := fmt.Fprintf(g.Out, "\n%s\n\nPress Enter to continue... ", message); err != nil {
		return fmt.Errorf("failed to show login message: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(g.In).ReadString('\n')
		if errors.Is(err, io.EOF) {
			err = ErrGateClosed
		}
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
