// Package chart plots a series window onto a character grid. The value axis
// always starts at 0 and points are placed exactly, with no smoothing.
package chart

import (
	"math"
	"strconv"
	"strings"

	"load-monitor/pkg/window"
)

// Cell markers.
const (
	MarkActual    = '*'
	MarkPredicted = '+'
	MarkOverlap   = '#'
	MarkEmpty     = ' '
)

const (
	axisVertical   = '|'
	axisHorizontal = '-'
	axisCorner     = '+'
)

// Render draws s into height lines of exactly width runes: plot rows with a
// y-axis gutter, the x axis, then the first and last time labels. It returns
// nil when the area is too small to hold a plot.
func Render(s window.Snapshot, width, height int) []string {
	yMax := upperBound(s)
	top := formatTick(yMax)
	gutter := len(top)
	if len(formatTick(0)) > gutter {
		gutter = len(formatTick(0))
	}

	plotW := width - gutter - 1
	plotH := height - 2
	if plotW < 1 || plotH < 1 {
		return nil
	}

	grid := make([][]rune, plotH)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(string(MarkEmpty), plotW))
	}

	n := s.Len()
	for i := 0; i < n; i++ {
		col := column(i, n, plotW)
		if finite(s.Actual[i]) {
			place(grid, rowFor(s.Actual[i], yMax, plotH), col, MarkActual)
		}
		if finite(s.Predicted[i]) {
			place(grid, rowFor(s.Predicted[i], yMax, plotH), col, MarkPredicted)
		}
	}

	lines := make([]string, 0, height)
	for r, cells := range grid {
		label := ""
		switch {
		case r == 0:
			label = top
		case r == plotH-1:
			label = formatTick(0)
		case plotH >= 5 && r == (plotH-1)/2:
			label = formatTick(yMax / 2)
		}
		lines = append(lines, padLeft(label, gutter)+string(axisVertical)+string(cells))
	}
	lines = append(lines, strings.Repeat(" ", gutter)+string(axisCorner)+strings.Repeat(string(axisHorizontal), plotW))
	lines = append(lines, strings.Repeat(" ", gutter+1)+xLabels(s.Labels, plotW))
	return lines
}

// upperBound is the largest finite value, or 1 when nothing is above zero.
func upperBound(s window.Snapshot) float64 {
	hi := 0.0
	for i := range s.Actual {
		for _, v := range []float64{s.Actual[i], s.Predicted[i]} {
			if finite(v) {
				hi = math.Max(hi, v)
			}
		}
	}
	if hi <= 0 {
		return 1
	}
	return hi
}

// finite reports whether v can be placed on the grid. Other values are not drawn.
func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

func column(i, n, plotW int) int {
	if n <= 1 {
		return 0
	}
	return int(math.Round(float64(i) * float64(plotW-1) / float64(n-1)))
}

// rowFor maps v onto a grid row, 0 being the top. Values below 0 sit on the
// bottom row.
func rowFor(v, yMax float64, plotH int) int {
	if v < 0 {
		v = 0
	}
	level := int(math.Round(v / yMax * float64(plotH-1)))
	if level > plotH-1 {
		level = plotH - 1
	}
	return plotH - 1 - level
}

func place(grid [][]rune, row, col int, mark rune) {
	switch grid[row][col] {
	case MarkEmpty:
		grid[row][col] = mark
	case mark, MarkOverlap:
	default:
		grid[row][col] = MarkOverlap
	}
}

func xLabels(labels []string, plotW int) string {
	if len(labels) == 0 {
		return strings.Repeat(" ", plotW)
	}
	first := []rune(labels[0])
	last := []rune(labels[len(labels)-1])
	if len(labels) > 1 && len(first)+1+len(last) <= plotW {
		gap := plotW - len(first) - len(last)
		return string(first) + strings.Repeat(" ", gap) + string(last)
	}
	if len(first) > plotW {
		first = first[:plotW]
	}
	return string(first) + strings.Repeat(" ", plotW-len(first))
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
