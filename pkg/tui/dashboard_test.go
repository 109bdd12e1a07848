package tui

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"load-monitor/pkg/chart"
	"load-monitor/pkg/readout"
	"load-monitor/pkg/window"
)

func TestDrawPlot(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(20, 8)

	s := window.Snapshot{
		Labels:    []string{"t1", "t2"},
		Actual:    []float64{10, 20},
		Predicted: []float64{20, 20},
	}
	drawPlot(screen, s, 1, 1, 18, 6)

	expected := chart.Render(s, 18, 6)
	for row, line := range expected {
		col := 0
		for _, want := range line {
			got, _, style, _ := screen.GetContent(1+col, 1+row)
			if got != want {
				t.Fatalf("cell (%d,%d): expected %q, got %q", col, row, want, got)
			}
			if style != markStyle(want) {
				t.Errorf("cell (%d,%d): unexpected style for %q", col, row, want)
			}
			col++
		}
	}
}

func TestMarkStyle(t *testing.T) {
	marks := []rune{chart.MarkActual, chart.MarkPredicted, chart.MarkOverlap}
	for i, a := range marks {
		for _, b := range marks[i+1:] {
			if markStyle(a) == markStyle(b) {
				t.Errorf("markers %q and %q share a style", a, b)
			}
		}
	}
}

func TestInsightColor(t *testing.T) {
	tests := []struct {
		insight readout.Insight
		want    tcell.Color
	}{
		{readout.InsightSurge, tcell.ColorRed},
		{readout.InsightEasing, tcell.ColorYellow},
		{readout.InsightStabilized, tcell.ColorGreen},
	}
	for _, tt := range tests {
		if got := insightColor(tt.insight); got != tt.want {
			t.Errorf("insightColor(%s) = %v, want %v", tt.insight, got, tt.want)
		}
	}
}

func TestDashboard_UpdatesAfterStopDoNotBlock(t *testing.T) {
	d := New("ws://localhost:8000/ws")
	d.Stop()

	done := make(chan struct{})
	go func() {
		for i := 0; i < updateQueueSize*2; i++ {
			d.SetStatus(readout.StatusReconnecting)
			d.Redraw(window.Snapshot{})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("updates blocked after Stop")
	}
}

func TestDashboard_RunWithCancelledContext(t *testing.T) {
	d := New("ws://localhost:8000/ws")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := d.Run(ctx); err == nil {
		t.Error("expected context error")
	}
	select {
	case <-d.Done():
	default:
		t.Error("expected dashboard to be stopped")
	}
}
