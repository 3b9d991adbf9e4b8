package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"sched-visualizer/internal/core"
)

// BarWidth is the number of columns a full chart occupies.
const BarWidth = 60

// errWriter keeps the first write error so rendering can ignore it until the end.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// Text writes a plain text rendering of the view model: one Gantt bar, scale,
// legend and statistics per algorithm followed by the recommendation.
func Text(w io.Writer, vm core.ResultsViewModel) error {
	ew := &errWriter{w: w}
	for _, alg := range core.Algorithms {
		chart, ok := vm.Charts[alg]
		if !ok {
			chart = core.Chart{Algorithm: alg}
		}
		outputChart(ew, chart)
	}
	if vm.Recommendation != "" {
		_, _ = fmt.Fprintf(ew, "Recommended algorithm: %s\n", vm.Recommendation)
	}
	return ew.err
}

func outputTitle(w io.Writer, title string) {
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(title)+4))
	_, _ = fmt.Fprintln(w, " ", title)
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(title)+4))
}

func outputChart(w io.Writer, chart core.Chart) {
	outputTitle(w, chart.Algorithm.Title())
	if !chart.Available {
		msg := chart.Message
		if msg == "" {
			msg = "No data available"
		}
		if chart.Err != nil {
			msg = chart.Err.Error()
		}
		_, _ = fmt.Fprintf(w, "%s\n\n", msg)
		return
	}

	_, _ = fmt.Fprintln(w, Bar(chart.Segments))
	_, _ = fmt.Fprintln(w, Ticks(chart.Scale))
	_, _ = fmt.Fprintln(w)
	outputLegend(w, chart.Legend)
	outputStats(w, chart.Stats)
	_, _ = fmt.Fprintln(w)
}

// Bar draws the placed segments as a proportional row of labelled cells.
// Every segment gets at least one column.
func Bar(segments []core.PlacedSegment) string {
	var b strings.Builder
	b.WriteByte('|')
	for _, seg := range segments {
		n := int(math.Round(seg.Width * BarWidth))
		if n < 1 {
			n = 1
		}
		b.WriteString(cell(label(seg.Segment), n, seg.Idle()))
		b.WriteByte('|')
	}
	return b.String()
}

// Ticks renders the scale on one line.
func Ticks(scale []int) string {
	parts := make([]string, len(scale))
	for i, t := range scale {
		parts[i] = strconv.Itoa(t)
	}
	return strings.Join(parts, " ")
}

func label(seg core.Segment) string {
	if seg.Idle() {
		return "idle"
	}
	return "P" + strconv.Itoa(seg.PID)
}

func cell(text string, n int, idle bool) string {
	if len(text) > n {
		return text[:n]
	}
	fill := "-"
	if idle {
		fill = "."
	}
	return text + strings.Repeat(fill, n-len(text))
}

func outputLegend(w io.Writer, legend []core.LegendEntry) {
	rows := make([][]string, 0, len(legend))
	for _, e := range legend {
		rows = append(rows, []string{
			"P" + strconv.Itoa(e.PID),
			strconv.Itoa(e.Arrival),
			strconv.Itoa(e.Burst),
			strconv.Itoa(e.Busy),
			strconv.Itoa(e.Slices),
		})
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Process", "Arrival", "Burst", "Busy", "Slices"})
	table.AppendBulk(rows)
	table.Render()
}

func outputStats(w io.Writer, stats core.Stats) {
	source := "reported"
	if stats.Derived {
		source = "derived"
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Avg Waiting", "Avg Turnaround", "Throughput"})
	table.Append([]string{metric(stats.AvgWaiting), metric(stats.AvgTurnaround), metric(stats.Throughput)})
	table.SetFooter([]string{"", "", source})
	table.Render()
}

func metric(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
