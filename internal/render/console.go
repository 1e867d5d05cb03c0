// Package render prints evaluated signals to a terminal.
package render

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vadiminshakov/obwatch/internal/domain"
)

var (
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5C5C5C", Dark: "#9C9C9C"})
	longStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1B7F3B", Dark: "#73F59F"}).Bold(true)
	shortStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B3261E", Dark: "#FF6B6B"}).Bold(true)
	neutralStyle = lipgloss.NewStyle().Bold(true)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Console writes one block per signal.
type Console struct {
	out io.Writer
}

// NewConsole creates a renderer writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Format renders sig as a boxed block.
func (c *Console) Format(sig domain.Signal) string {
	accumulating := "no"
	if sig.IsAccumulating {
		accumulating = "yes"
	}

	lines := []string{
		fmt.Sprintf("%s %s", labelStyle.Render("Pair:"), sig.Pair),
		fmt.Sprintf("%s %.2f", labelStyle.Render("Current Price:"), sig.CurrentPrice),
		fmt.Sprintf("%s %.2f%% | %.2f%%", labelStyle.Render("Bid Volume % | Ask Volume %:"), sig.BidPct, sig.AskPct),
		fmt.Sprintf("%s %s", labelStyle.Render("Accumulating:"), accumulating),
		fmt.Sprintf("%s %s", labelStyle.Render("Trade Action:"), actionStyle(sig.Action).Render(sig.Action.String())),
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// Print writes a single signal.
func (c *Console) Print(sig domain.Signal) error {
	_, err := fmt.Fprintln(c.out, c.Format(sig))
	return err
}

// Run prints signals from ch until ctx is done or ch is closed.
func (c *Console) Run(ctx context.Context, ch <-chan domain.Signal) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig, ok := <-ch:
			if !ok {
				return nil
			}
			if err := c.Print(sig); err != nil {
				return err
			}
		}
	}
}

func actionStyle(a domain.Action) lipgloss.Style {
	switch a {
	case domain.ActionLong:
		return longStyle
	case domain.ActionShort:
		return shortStyle
	default:
		return neutralStyle
	}
}
