package renderer

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
)

// RenderStats summarizes a finished (or cancelled) render
type RenderStats struct {
	Width           int
	Height          int
	SamplesPerPixel int
	Workers         int
	TotalTiles      int
	CompletedTiles  int
	TotalSamples    int
	Duration        time.Duration
	Cancelled       bool
}

// SamplesPerSecond returns the overall sampling throughput
func (s RenderStats) SamplesPerSecond() float64 {
	secs := s.Duration.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / secs
}

// WriteTable renders the stats as a table
func (s RenderStats) WriteTable(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Statistic", "Value"})
	table.Append([]string{"Resolution", fmt.Sprintf("%dx%d", s.Width, s.Height)})
	table.Append([]string{"Samples per pixel", fmt.Sprintf("%d", s.SamplesPerPixel)})
	table.Append([]string{"Workers", fmt.Sprintf("%d", s.Workers)})
	table.Append([]string{"Tiles", fmt.Sprintf("%d/%d", s.CompletedTiles, s.TotalTiles)})
	table.Append([]string{"Total samples", fmt.Sprintf("%d", s.TotalSamples)})
	table.Append([]string{"Samples/sec", fmt.Sprintf("%.0f", s.SamplesPerSecond())})
	table.Append([]string{"Render time", s.Duration.Round(time.Millisecond).String()})
	if s.Cancelled {
		table.Append([]string{"Cancelled", "yes"})
	}
	table.Render()
}
