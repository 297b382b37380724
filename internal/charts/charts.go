// internal/charts/charts.go
// Package charts renders report figures to PNG with go-chart.
package charts

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"
	"os"

	"github.com/golang/freetype/truetype"
	"github.com/sirupsen/logrus"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/cardiacqa/eqareport/internal/logging"
)

const (
	defaultWidth  = 960
	defaultHeight = 640
)

// Image is an encoded chart.
type Image struct {
	Name   string
	PNG    []byte
	Legend []LegendEntry
}

// LegendEntry is one labelled count shown beside a chart.
type LegendEntry struct {
	Name    string
	Count   int
	Percent float64
	Color   string
}

// Base64 returns the standard base64 encoding of the PNG bytes.
func (i *Image) Base64() string {
	if i == nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(i.PNG)
}

// DataURI returns the image as an inline data URI.
func (i *Image) DataURI() string {
	if i == nil {
		return ""
	}
	return "data:image/png;base64," + i.Base64()
}

// Renderer draws charts with an optional TrueType font so Hangul labels are
// legible.
type Renderer struct {
	font   *truetype.Font
	log    logrus.FieldLogger
	width  int
	height int
}

// NewRenderer returns a Renderer. fontPath may be empty to use the go-chart
// default font.
func NewRenderer(fontPath string) (*Renderer, error) {
	r := &Renderer{
		log:    logging.Logger().WithField("component", "charts"),
		width:  defaultWidth,
		height: defaultHeight,
	}
	if fontPath == "" {
		return r, nil
	}
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read chart font %s: %w", fontPath, err)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse chart font %s: %w", fontPath, err)
	}
	r.font = f
	return r, nil
}

func (r *Renderer) newChart(title string, width, height int) chart.Chart {
	return chart.Chart{
		Title:      title,
		Width:      width,
		Height:     height,
		Font:       r.font,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 24, Right: 24, Bottom: 24}},
	}
}

func (r *Renderer) render(name string, c chart.Chart) (*Image, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	r.log.WithField("chart", name).Debugf("rendered %d bytes", buf.Len())
	return &Image{Name: name, PNG: buf.Bytes()}, nil
}

func color(hex string) drawing.Color {
	return drawing.ColorFromHex(hex)
}

// line is a straight segment series.
func line(name string, x0, y0, x1, y1 float64, c drawing.Color, width float64, dashed bool) chart.ContinuousSeries {
	st := chart.Style{StrokeColor: c, StrokeWidth: width}
	if dashed {
		st.StrokeDashArray = []float64{6, 4}
	}
	return chart.ContinuousSeries{
		Name:    name,
		XValues: []float64{x0, x1},
		YValues: []float64{y0, y1},
		Style:   st,
	}
}

// dots is a marker-only series.
func dots(name string, xs, ys []float64, c drawing.Color, size float64) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    size,
			DotColor:    c,
		},
	}
}

// niceTicks returns up to about n ticks over [lo, hi] on a 1/2/2.5/5 step.
func niceTicks(lo, hi float64, n int, format func(float64) string) []chart.Tick {
	if n < 2 || math.IsNaN(lo) || math.IsNaN(hi) {
		return nil
	}
	if hi <= lo {
		hi = lo + 1
	}
	mag := math.Pow(10, math.Floor(math.Log10((hi-lo)/float64(n-1))))
	best, bestScore := mag, math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		count := math.Ceil((hi - lo) / step)
		if score := math.Abs(count - float64(n)); score < bestScore {
			best, bestScore = step, score
		}
	}
	var ticks []chart.Tick
	for v := math.Ceil(lo/best) * best; v <= hi+best*1e-9; v += best {
		ticks = append(ticks, chart.Tick{Value: v, Label: format(v)})
		if len(ticks) > n+2 {
			break
		}
	}
	return ticks
}

func fmt2(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func fmtTick(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
