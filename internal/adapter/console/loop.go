package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/agrisight/fieldwatch/internal/app"
)

// CommandLoop reads interaction commands from a reader (normally stdin) and
// translates them into bridge calls, standing in for the mouse and form
// events a graphical surface would deliver.
//
// Commands:
//
//	click <lat> <lon>   simulate a map click (fills the form coordinates)
//	name <text>         set the form's name input
//	submit              submit the add-field form
//	recompute           trigger a backend recompute
//	refresh             run a refresh cycle now
//	quit                exit the loop
type CommandLoop struct {
	view       *View
	bridge     *app.Bridge
	controller *app.Controller
	in         io.Reader
	logger     *slog.Logger
}

// NewCommandLoop creates a loop reading from in.
func NewCommandLoop(v *View, bridge *app.Bridge, controller *app.Controller, in io.Reader, logger *slog.Logger) *CommandLoop {
	return &CommandLoop{view: v, bridge: bridge, controller: controller, in: in, logger: logger}
}

// Run processes commands until quit, EOF, or context cancellation.
func (l *CommandLoop) Run(ctx context.Context) {
	scanner := bufio.NewScanner(l.in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		if !l.handle(ctx, scanner.Text()) {
			return
		}
	}
	if err := scanner.Err(); err != nil {
		l.logger.Error("command input error", "error", err)
	}
}

// handle executes one command line. Returns false to stop the loop.
func (l *CommandLoop) handle(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}

	switch fields[0] {
	case "click":
		if len(fields) != 3 {
			fmt.Fprintln(l.view.w, "usage: click <lat> <lon>")
			return true
		}
		lat, lon, ok := parseLatLon(fields[1], fields[2])
		if !ok {
			fmt.Fprintln(l.view.w, "usage: click <lat> <lon>")
			return true
		}
		l.bridge.MapClicked(lat, lon)
	case "name":
		l.view.SetName(strings.TrimSpace(strings.TrimPrefix(line, "name")))
	case "submit":
		name, lat, lon := l.view.FormValues()
		l.bridge.SubmitForm(ctx, name, lat, lon)
	case "recompute":
		l.bridge.RecomputeClicked(ctx)
	case "refresh":
		if err := l.controller.Refresh(ctx); err != nil {
			l.logger.Error("manual refresh failed", "error", err)
		}
	case "quit", "exit":
		return false
	default:
		fmt.Fprintf(l.view.w, "unknown command %q\n", fields[0])
	}
	return true
}

func parseLatLon(latText, lonText string) (lat, lon float64, ok bool) {
	if _, err := fmt.Sscanf(latText+" "+lonText, "%f %f", &lat, &lon); err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}
