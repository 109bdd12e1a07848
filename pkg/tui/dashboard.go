// Package tui is the terminal dashboard: four readouts, the insight line and
// the actual-versus-predicted chart.
package tui

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"load-monitor/pkg/chart"
	"load-monitor/pkg/readout"
	"load-monitor/pkg/window"
)

// updateQueueSize bounds the UI updates waiting for the event loop. Producers
// block once it is full, so no update is ever dropped.
const updateQueueSize = 256

const placeholder = "--"

// Dashboard implements monitor.View on top of tview.
type Dashboard struct {
	app  *tview.Application
	root tview.Primitive

	actual      *tview.TextView
	predicted   *tview.TextView
	temperature *tview.TextView
	humidity    *tview.TextView
	insight     *tview.TextView
	chartBox    *tview.Box

	// snapshot is only touched on the event loop.
	snapshot window.Snapshot

	updates  chan func()
	done     chan struct{}
	stopOnce sync.Once
}

// New builds the dashboard for the given stream endpoint. Nothing is drawn
// until Run.
func New(endpoint string) *Dashboard {
	d := &Dashboard{
		app:         tview.NewApplication(),
		actual:      readoutView("Actual load"),
		predicted:   readoutView("Predicted load"),
		temperature: readoutView("Temperature"),
		humidity:    readoutView("Humidity"),
		insight:     tview.NewTextView(),
		chartBox:    tview.NewBox(),
		updates:     make(chan func(), updateQueueSize),
		done:        make(chan struct{}),
	}

	d.insight.SetWrap(true).SetBorder(true).SetTitle(" Insight ")
	d.insight.SetText("Connecting...")

	d.chartBox.SetBorder(true).
		SetTitle(fmt.Sprintf(" Actual (%c) vs Predicted (%c) ", chart.MarkActual, chart.MarkPredicted)).
		SetDrawFunc(d.drawChart)

	readouts := tview.NewFlex().
		AddItem(d.actual, 0, 1, false).
		AddItem(d.predicted, 0, 1, false).
		AddItem(d.temperature, 0, 1, false).
		AddItem(d.humidity, 0, 1, false)

	footer := tview.NewTextView().
		SetTextColor(tcell.ColorGray).
		SetText(fmt.Sprintf("%s   q: quit", endpoint))

	d.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(readouts, 3, 0, false).
		AddItem(d.insight, 4, 0, false).
		AddItem(d.chartBox, 0, 1, false).
		AddItem(footer, 1, 0, false)

	d.app.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		if ev.Key() == tcell.KeyEscape || ev.Rune() == 'q' {
			d.app.Stop()
			return nil
		}
		return ev
	})
	return d
}

func readoutView(title string) *tview.TextView {
	tv := tview.NewTextView().SetTextAlign(tview.AlignCenter)
	tv.SetBorder(true).SetTitle(" " + title + " ")
	tv.SetText(placeholder)
	return tv
}

// Run draws the dashboard and blocks until the user quits or ctx is done.
func (d *Dashboard) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		d.Stop()
		return err
	}
	go d.pump()
	go func() {
		select {
		case <-ctx.Done():
			d.app.Stop()
		case <-d.done:
		}
	}()

	err := d.app.SetRoot(d.root, true).Run()
	d.Stop()
	return err
}

// Stop closes the dashboard. Later updates are discarded.
func (d *Dashboard) Stop() {
	d.stopOnce.Do(func() {
		close(d.done)
		d.app.Stop()
	})
}

// Done is closed once the dashboard has stopped.
func (d *Dashboard) Done() <-chan struct{} { return d.done }

func (d *Dashboard) SetStatus(text string) {
	d.enqueue(func() {
		d.insight.SetTextColor(tview.Styles.PrimaryTextColor)
		d.insight.SetText(text)
	})
}

func (d *Dashboard) SetReadout(r readout.Readout) {
	d.enqueue(func() {
		d.actual.SetText(r.ActualLoad)
		d.predicted.SetText(r.PredictedLoad)
		d.temperature.SetText(r.Temperature)
		d.humidity.SetText(r.Humidity)
		d.insight.SetTextColor(insightColor(r.Insight))
		d.insight.SetText(r.InsightText())
	})
}

func (d *Dashboard) Redraw(s window.Snapshot) {
	d.enqueue(func() { d.snapshot = s })
}

// enqueue hands f to the event loop in call order.
func (d *Dashboard) enqueue(f func()) {
	select {
	case d.updates <- f:
	case <-d.done:
	}
}

func (d *Dashboard) pump() {
	for {
		select {
		case f := <-d.updates:
			d.app.QueueUpdateDraw(f)
		case <-d.done:
			return
		}
	}
}

func (d *Dashboard) drawChart(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	// inside the border
	x, y, width, height = x+1, y+1, width-2, height-2
	drawPlot(screen, d.snapshot, x, y, width, height)
	return x, y, width, height
}

// drawPlot writes the rendered chart into the given screen area.
func drawPlot(screen tcell.Screen, s window.Snapshot, x, y, width, height int) {
	for row, line := range chart.Render(s, width, height) {
		col := 0
		for _, r := range line {
			screen.SetContent(x+col, y+row, r, nil, markStyle(r))
			col++
		}
	}
}

func markStyle(r rune) tcell.Style {
	style := tcell.StyleDefault
	switch r {
	case chart.MarkActual:
		return style.Foreground(tcell.ColorAqua)
	case chart.MarkPredicted:
		return style.Foreground(tcell.ColorFuchsia)
	case chart.MarkOverlap:
		return style.Foreground(tcell.ColorWhite).Bold(true)
	default:
		return style.Foreground(tcell.ColorGray)
	}
}

func insightColor(i readout.Insight) tcell.Color {
	switch i {
	case readout.InsightSurge:
		return tcell.ColorRed
	case readout.InsightEasing:
		return tcell.ColorYellow
	case readout.InsightStabilized:
		return tcell.ColorGreen
	default:
		return tview.Styles.PrimaryTextColor
	}
}
