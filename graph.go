// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package ocreval

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"rescribe.xyz/ocreval/compare"
)

const maxticks = 40
const yticknum = 10
const graphWidth = 1600
const graphHeight = 900

var metricColours = []drawing.Color{
	chart.ColorBlue,
	chart.ColorOrange,
	chart.ColorAlternateGreen,
	chart.ColorRed,
}

// percentTicks returns ticks every 10% from 0 to 100
func percentTicks() []chart.Tick {
	var yticks []chart.Tick
	for i := 0; i <= yticknum; i++ {
		n := float64(i*100) / yticknum
		yticks = append(yticks, chart.Tick{Value: n, Label: fmt.Sprintf("%.0f", n)})
	}
	return yticks
}

// GraphMetric creates a line graph of one metric for each image,
// with a line for each engine.
func GraphMetric(c compare.Comparison, w io.Writer) error {
	if c.Length < 1 {
		return errors.New("No images to graph")
	}

	var xvalues []float64
	var ticks []chart.Tick
	tickevery := c.Length / maxticks
	if tickevery < 1 {
		tickevery = 1
	}
	for i := 1; i <= c.Length; i++ {
		xvalues = append(xvalues, float64(i))
		if (i-1)%tickevery == 0 || i == c.Length {
			ticks = append(ticks, chart.Tick{Value: float64(i), Label: fmt.Sprintf("%d", i)})
		}
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s Comparison Across Images", c.Metric),
		Width:  graphWidth,
		Height: graphHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name: "Image Number",
			Range: &chart.ContinuousRange{
				Min: 0.0,
				Max: float64(c.Length + 1),
			},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name: c.Metric.String(),
			Range: &chart.ContinuousRange{
				Min: 0.0,
				Max: 100.0,
			},
			Ticks: percentTicks(),
		},
	}

	for i, e := range c.Engines {
		var yvalues []float64
		for _, v := range c.Series[e] {
			yvalues = append(yvalues, v*100)
		}
		colour := chart.GetDefaultColor(i)
		graph.Series = append(graph.Series, chart.ContinuousSeries{
			Name: e,
			Style: chart.Style{
				StrokeColor: colour,
				StrokeWidth: 2,
				DotColor:    colour,
				DotWidth:    4,
			},
			XValues: xvalues,
			YValues: yvalues,
		})
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}

// GraphOverall creates a bar graph of the overall results of each
// engine, with the bars for each engine grouped together.
func GraphOverall(rows []compare.OverallRow, w io.Writer) error {
	names := []string{"Accuracy", "Precision", "Recall", "F1"}

	var bars []chart.Value
	for _, r := range rows {
		if r.Overall == nil {
			continue
		}
		vals := []float64{r.Overall.Accuracy, r.Overall.Precision, r.Overall.Recall, r.Overall.F1}
		for i, v := range vals {
			bars = append(bars, chart.Value{
				Value: v,
				Label: fmt.Sprintf("%s %s", r.Engine, names[i]),
				Style: chart.Style{
					FillColor:   metricColours[i],
					StrokeColor: metricColours[i],
				},
			})
		}
	}
	if len(bars) == 0 {
		return errors.New("No overall results to graph")
	}

	graph := chart.BarChart{
		Title:  "Overall Metrics Comparison",
		Width:  graphWidth,
		Height: graphHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 50},
		},
		BarWidth:   30,
		BarSpacing: 10,
		XAxis: chart.Style{
			FontSize:            8,
			TextRotationDegrees: 45,
		},
		YAxis: chart.YAxis{
			Name: "Percentage",
			Range: &chart.ContinuousRange{
				Min: 0.0,
				Max: 100.0,
			},
			Ticks: percentTicks(),
		},
		Bars: bars,
	}

	return graph.Render(chart.PNG, w)
}
