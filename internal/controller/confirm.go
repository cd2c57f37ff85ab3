package controller

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Confirmer answers a yes/no question before a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Always returns a Confirmer that gives the same answer without asking.
func Always(answer bool) Confirmer {
	return ConfirmFunc(func(context.Context, string) (bool, error) {
		return answer, nil
	})
}

// PromptConfirmer asks on a terminal-like stream. Only "y" and "yes"
// (any case) count as affirmative.
type PromptConfirmer struct {
	In  io.Reader
	Out io.Writer
}

// Confirm writes prompt and reads one line of answer.
func (p PromptConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if _, err := fmt.Fprintf(p.Out, "%s [y/N]: ", prompt); err != nil {
		return false, err
	}
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
