package commands

import (
	"fmt"
	"io"
	"sync"

	"github.com/jrsteele09/go-classroom-client/toast"
)

const (
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
	Gray   = "\033[90m" // Bright black, often appears as gray

	ResetColor = "\033[0m" // Reset to default color
)

var severityColors = map[toast.Severity]string{
	toast.Success: Green,
	toast.Error:   Red,
	toast.Info:    Cyan,
	toast.Warning: Yellow,
}

// ToastPrinter writes each toast once, as it is shown
type ToastPrinter struct {
	mu      sync.Mutex
	w       io.Writer
	colours bool
	seen    map[toast.ID]bool
}

func NewToastPrinter(w io.Writer, colours bool) *ToastPrinter {
	return &ToastPrinter{w: w, colours: colours, seen: make(map[toast.ID]bool)}
}

// OnChange is a toast.WithOnChange hook
func (p *ToastPrinter) OnChange(toasts []toast.Toast) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, t := range toasts {
		if p.seen[t.ID] {
			continue
		}
		p.seen[t.ID] = true
		if p.colours {
			fmt.Fprintf(p.w, "%s[%s]%s %s\n", severityColors[t.Severity], t.Severity, ResetColor, t.Message)
		} else {
			fmt.Fprintf(p.w, "[%s] %s\n", t.Severity, t.Message)
		}
	}
}
