package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/GregMSThompson/household-finance/internal/insight"
)

var timeNow = time.Now

// printer writes human readable command output. Colour is dropped
// automatically when stdout is not a terminal (see color.NoColor).
type printer struct {
	w      io.Writer
	green  *color.Color
	yellow *color.Color
	red    *color.Color
	bold   *color.Color
}

func newPrinter(w io.Writer) *printer {
	return &printer{
		w:      w,
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
		bold:   color.New(color.Bold),
	}
}

func (p *printer) Header(text string) {
	p.bold.Fprintf(p.w, "\n%s\n%s\n", text, strings.Repeat("=", len(text)))
}

func (p *printer) Success(text string) {
	p.green.Fprintf(p.w, "✓ %s\n", text)
}

func (p *printer) Info(text string) {
	fmt.Fprintf(p.w, "  %s\n", text)
}

func (p *printer) Warning(text string) {
	p.yellow.Fprintf(p.w, "! %s\n", text)
}

func (p *printer) Table(header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, strings.Join(header, "\t")); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// trend renders a trend arrow. goodWhenUp selects whether a rise is shown
// in green (income) or red (spending).
func (p *printer) trend(t insight.Trend, goodWhenUp bool) string {
	switch t {
	case insight.TrendUp:
		if goodWhenUp {
			return p.green.Sprint("▲ up")
		}
		return p.red.Sprint("▲ up")
	case insight.TrendDown:
		if goodWhenUp {
			return p.red.Sprint("▼ down")
		}
		return p.green.Sprint("▼ down")
	default:
		return "= unchanged"
	}
}
