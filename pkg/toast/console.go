package toast

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/civicsnap/pkg/domain/types"
)

var consoleStyles = map[types.ToastKind]struct {
	icon  string
	color *color.Color
}{
	types.ToastSuccess: {"✅", color.New(color.FgGreen)},
	types.ToastError:   {"❌", color.New(color.FgRed)},
	types.ToastInfo:    {"ℹ️", color.New(color.FgBlue)},
	types.ToastWarning: {"⚠️", color.New(color.FgYellow)},
}

// Console writes each toast as one colored line
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole creates a console sink
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Render implements Sink
func (c *Console) Render(ctx context.Context, t Toast) error {
	style, ok := consoleStyles[t.Kind]
	if !ok {
		style = consoleStyles[types.ToastSuccess]
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintf(c.w, "%s %s\n", style.icon, style.color.Sprint(t.Text)); err != nil {
		return goerr.Wrap(err, "failed to write toast")
	}
	return nil
}
