package speech

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// runCmd executes name with args under a deadline and returns its stdout.
// Stdin is pre-configured before the process starts so a child that reads
// it immediately never races the writer. On timeout the process gets an
// interrupt first and a kill shortly after.
func runCmd(ctx context.Context, timeout time.Duration, stdin, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	done := make(chan error, 1)
	go func() {
		done <- cmd.Run()
	}()

	select {
	case err := <-done:
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%s timed out: %w", name, ctx.Err())
			}
			return nil, fmt.Errorf("%s failed: %w, stderr: %s", name, err, stderr.String())
		}

	case <-ctx.Done():
		if cmd.Process != nil {
			cmd.Process.Signal(os.Interrupt)
			select {
			case <-done:
			case <-time.After(100 * time.Millisecond):
				cmd.Process.Kill()
				<-done
			}
		}
		return nil, fmt.Errorf("%s timed out: %w", name, ctx.Err())
	}

	return stdout.Bytes(), nil
}
