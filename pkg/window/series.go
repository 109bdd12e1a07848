package window

// DefaultMaxPoints is the number of samples the chart keeps on screen.
const DefaultMaxPoints = 20

// SeriesWindow is a fixed-capacity FIFO of chart samples. The label axis and the
// two value channels are always the same length and index-aligned.
type SeriesWindow struct {
	maxPoints int
	labels    []string
	actual    []float64
	predicted []float64
}

// Snapshot is an immutable copy of a window's contents.
type Snapshot struct {
	Labels    []string
	Actual    []float64
	Predicted []float64
}

// Len returns the number of samples in the snapshot.
func (s Snapshot) Len() int { return len(s.Labels) }

// NewSeriesWindow creates a window holding at most maxPoints samples.
// A non-positive maxPoints falls back to DefaultMaxPoints.
func NewSeriesWindow(maxPoints int) *SeriesWindow {
	if maxPoints <= 0 {
		maxPoints = DefaultMaxPoints
	}
	return &SeriesWindow{
		maxPoints: maxPoints,
		labels:    make([]string, 0, maxPoints),
		actual:    make([]float64, 0, maxPoints),
		predicted: make([]float64, 0, maxPoints),
	}
}

func (w *SeriesWindow) Len() int { return len(w.labels) }
func (w *SeriesWindow) Cap() int { return w.maxPoints }

// Append adds a sample, evicting the oldest one first when the window is full.
func (w *SeriesWindow) Append(label string, actual, predicted float64) {
	if len(w.labels) >= w.maxPoints {
		w.EvictOldest()
	}
	w.labels = append(w.labels, label)
	w.actual = append(w.actual, actual)
	w.predicted = append(w.predicted, predicted)
}

// EvictOldest drops index 0 from every sequence. It is a no-op on an empty window.
func (w *SeriesWindow) EvictOldest() {
	if len(w.labels) == 0 {
		return
	}
	// shift in place so the backing arrays never grow past maxPoints
	copy(w.labels, w.labels[1:])
	w.labels = w.labels[:len(w.labels)-1]
	copy(w.actual, w.actual[1:])
	w.actual = w.actual[:len(w.actual)-1]
	copy(w.predicted, w.predicted[1:])
	w.predicted = w.predicted[:len(w.predicted)-1]
}

// Snapshot returns a copy of the current contents.
func (w *SeriesWindow) Snapshot() Snapshot {
	s := Snapshot{
		Labels:    make([]string, len(w.labels)),
		Actual:    make([]float64, len(w.actual)),
		Predicted: make([]float64, len(w.predicted)),
	}
	copy(s.Labels, w.labels)
	copy(s.Actual, w.actual)
	copy(s.Predicted, w.predicted)
	return s
}
