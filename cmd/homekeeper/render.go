package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/nhle/homekeeper/internal/theme"
)

const dateLayout = "2006-01-02"

// parseDate reads a YYYY-MM-DD flag value as local midnight.
func parseDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return &t, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(dateLayout)
}

// formatDue shows a date with its distance from now, e.g. "2024-07-01 (3 days from now)".
func formatDue(t *time.Time, now time.Time) string {
	if t == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", formatDate(t), humanize.RelTime(*t, now, "ago", "from now"))
}

// formatMoney renders an amount with thousands separators and two
// decimals without going through float64.
func formatMoney(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return d.StringFixed(2)
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "$" + humanize.Comma(n) + "." + frac
}

func optional(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func optionalInt(n *int64) string {
	if n == nil {
		return "-"
	}
	return strconv.FormatInt(*n, 10)
}

func header(w io.Writer, title string) {
	fmt.Fprintln(w, theme.HeaderStyle.Render(title))
}

func section(w io.Writer, title string) {
	fmt.Fprintln(w, theme.SectionStyle.Render(title))
}

func muted(w io.Writer, msg string) {
	fmt.Fprintln(w, theme.MutedStyle.Render(msg))
}

// renderTable prints rows under headers, or hint when there are none.
func renderTable(w io.Writer, headers []string, rows [][]string, hint string) {
	if len(rows) == 0 {
		muted(w, hint)
		return
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.ColorBorder)).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}
