package report

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/guptarohit/asciigraph"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// ChartOptions sizes the capacity chart.
type ChartOptions struct {
	Width  int
	Height int
}

// Chart plots capacity against reallocation number.
func Chart(g *Growth, opts ChartOptions) string {
	if opts.Height <= 0 {
		opts.Height = 10
	}
	data := g.Capacities()
	if len(data) == 1 {
		// asciigraph needs two points to draw a line
		data = append(data, data[0])
	}
	caption := fmt.Sprintf("capacity after each reallocation (factor %.2f)", g.Policy.Factor)
	graphOpts := []asciigraph.Option{
		asciigraph.Height(opts.Height),
		asciigraph.Caption(caption),
		asciigraph.Precision(0),
	}
	if opts.Width > 0 {
		graphOpts = append(graphOpts, asciigraph.Width(opts.Width))
	}
	return asciigraph.Plot(data, graphOpts...)
}

var (
	headerColor = lipgloss.Color("86")
	borderColor = lipgloss.Color("240")
	dimColor    = lipgloss.Color("245")
)

// Table renders the reallocation steps followed by a summary line. Styles
// come from r, so a renderer bound to a non-terminal produces plain text.
func Table(g *Growth, r *lipgloss.Renderer) string {
	header := r.NewStyle().Foreground(headerColor).Bold(true).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1).Align(lipgloss.Right)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle().Foreground(borderColor)).
		Headers("#", "size", "old cap", "new cap", "copied").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for i, s := range g.Steps {
		t.Row(
			strconv.Itoa(i+1),
			strconv.Itoa(s.Size),
			strconv.Itoa(s.OldCap),
			strconv.Itoa(s.NewCap),
			strconv.Itoa(s.Size-1),
		)
	}

	summary := fmt.Sprintf("%d/%d appended, %d reallocations, %d copied, final capacity %d, slack %d",
		g.Appended, g.Requested, g.Reallocations(), g.Copied(), g.FinalCap, g.Slack())
	if g.Exhausted {
		summary += fmt.Sprintf(" (maximum capacity %d reached)", g.Policy.Max)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		t.Render(),
		r.NewStyle().Foreground(dimColor).Render(summary),
	)
}

// JSON encodes the simulation as an indented JSON document.
func JSON(g *Growth) ([]byte, error) {
	doc := `{"steps":[]}`
	fields := []struct {
		path  string
		value any
	}{
		{"initial", g.Initial},
		{"requested", g.Requested},
		{"policy.factor", g.Policy.Factor},
		{"policy.max", g.Policy.Max},
		{"appended", g.Appended},
		{"exhausted", g.Exhausted},
		{"final_capacity", g.FinalCap},
		{"reallocations", g.Reallocations()},
		{"copied", g.Copied()},
		{"slack", g.Slack()},
	}

	var err error
	for _, f := range fields {
		if doc, err = sjson.Set(doc, f.path, f.value); err != nil {
			return nil, fmt.Errorf("set %s: %w", f.path, err)
		}
	}
	for i, s := range g.Steps {
		prefix := "steps." + strconv.Itoa(i)
		for _, kv := range [...]struct {
			key   string
			value int
		}{{"size", s.Size}, {"old_cap", s.OldCap}, {"new_cap", s.NewCap}} {
			if doc, err = sjson.Set(doc, prefix+"."+kv.key, kv.value); err != nil {
				return nil, fmt.Errorf("set %s.%s: %w", prefix, kv.key, err)
			}
		}
	}
	return pretty.Pretty([]byte(doc)), nil
}
