package report

import (
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
)

var barColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}

// WriteBarChart renders counts as a bar chart, one bar per source IP in the
// given order, and saves it to path. The image format follows the file
// extension (.png, .svg, .pdf).
func WriteBarChart(path string, counts []models.IPCount, yLabel string) error {
	p := plot.New()
	p.Y.Label.Text = yLabel
	p.X.Label.Text = "source_ip"
	p.Y.Min = 0

	if len(counts) > 0 {
		values := make(plotter.Values, len(counts))
		names := make([]string, len(counts))
		for i, c := range counts {
			values[i] = float64(c.Count)
			names[i] = c.SourceIP
		}
		bars, err := plotter.NewBarChart(values, vg.Points(20))
		if err != nil {
			return fmt.Errorf("build bar chart: %w", err)
		}
		bars.Color = barColor
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)
		p.NominalX(names...)
		p.X.Tick.Label.Rotation = 1.2
		p.X.Tick.Label.XAlign = -1
	} else {
		p.Title.Text = "no events"
	}

	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save chart %s: %w", path, err)
	}
	return nil
}
