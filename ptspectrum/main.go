// Command ptspectrum draws the results of ptemcal: per-event normalised pt
// spectra, z-vertex distributions, or the z-vertex vs pt map of one
// trigger category.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"
	"os"
	"path"
	"strings"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/mfasDa/raadev"
	"github.com/mfasDa/raadev/rootout"
	"github.com/mfasDa/raadev/task"
)

var (
	mode   = flag.String("mode", "pt", "what to draw: pt, zvertex or map")
	cats   = flag.String("cats", "MinBias,EMCJHigh,EMCJLow,EMCGHigh,EMCGLow", "comma separated trigger categories")
	pileup = flag.String("pileup", task.PileupRejected, "pileup tag: nopr, wpr or failpr")
	cuts   = flag.String("cuts", task.StdTrackCuts, "track cut tag: nocut or stdcut")
	dir    = flag.String("dir", "results", "directory of the histograms in the input file")
	maxPt  = flag.Float64("maxpt", 100, "maximum pt drawn")
	logY   = flag.Bool("logy", true, "logarithmic y axis for spectra")
	title  = flag.String("title", "", "plot title")
	output = flag.String("output", "spectrum.png", "output file")
)

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: `+os.Args[0]+` [options] <root-input-file>

options:
`,
	)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = printUsage
	flag.Parse()
	if flag.NArg() != 1 {
		printUsage()
		log.Fatal("Invalid arguments")
	}
	filename := flag.Arg(0)

	var categories []string
	for _, cat := range strings.Split(*cats, ",") {
		if cat = strings.TrimSpace(cat); cat != "" {
			categories = append(categories, cat)
		}
	}
	if len(categories) == 0 {
		log.Fatal("no trigger category selected")
	}

	switch *mode {
	case "pt":
		drawSpectra(filename, categories)
	case "zvertex":
		drawZVertex(filename, categories)
	case "map":
		drawMap(filename, categories[0])
	default:
		printUsage()
		log.Fatalf("unknown mode %q", *mode)
	}
}

func key(name string) string {
	return path.Join(*dir, name)
}

// nEvents returns the number of events used for normalisation: all events
// for spectra without pileup rejection, pileup-free ones otherwise.
func nEvents(filename, cat string) float64 {
	h, err := rootout.ReadH1D(filename, key(task.EventsName(cat)))
	if err != nil {
		log.Fatalf("%+v", err)
	}
	if *pileup == task.NoPileupRejection {
		return h.Value(0)
	}
	return h.Value(1)
}

func lineColor(i int) color.Color {
	switch i {
	case 0:
		return color.RGBA{A: 255}
	case 1:
		return color.RGBA{G: 255, A: 255}
	case 2:
		return color.RGBA{B: 255, A: 255}
	case 3:
		return color.RGBA{R: 255, B: 127, G: 127, A: 255}
	}
	return plotutil.Color(i)
}

func drawSpectra(filename string, categories []string) {
	p := hplot.New()
	p.Title.Text = *title
	p.X.Label.Text = "p_T (GeV/c)"
	p.Y.Label.Text = "1/N_ev dN/dp_T ((GeV/c)^-1)"
	p.X.Tick.Marker = raadev.PreciseTicks{NSuggestedTicks: 5}
	if *logY {
		p.Y.Scale = raadev.LogScale{}
		p.Y.Tick.Marker = raadev.LogTicks{}
	}

	for i, cat := range categories {
		h2, err := rootout.ReadH2D(filename, key(task.PtName(cat, *pileup, *cuts)))
		if err != nil {
			log.Fatalf("%+v", err)
		}
		nev := nEvents(filename, cat)
		if nev == 0 {
			log.Printf("no events in category %s, skipping", cat)
			continue
		}

		points, yErrors := spectrum(h2, nev, *maxPt)
		errPoints := plotutil.ErrorPoints{XYs: points, YErrors: yErrors}
		sc, err := plotter.NewScatter(points)
		if err != nil {
			log.Fatal(err)
		}
		yerr, err := plotter.NewYErrorBars(errPoints)
		if err != nil {
			log.Fatal(err)
		}
		c := lineColor(i)
		sc.GlyphStyle.Color = c
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		yerr.LineStyle.Color = c

		p.Add(sc, yerr)
		p.Legend.Add(cat, sc)
	}
	p.X.Max = math.Min(p.X.Max, *maxPt)
	p.Legend.Top = true

	if err := p.Save(6*vg.Inch, 4*vg.Inch, *output); err != nil {
		log.Fatal(err)
	}
}

// spectrum projects the z-vertex vs pt histogram onto pt and normalises it
// per event and bin width. Empty bins are left out.
func spectrum(h *hbook.H2D, nev, ptMax float64) (plotter.XYs, plotter.YErrors) {
	grid := h.GridXYZ()
	nx, ny := grid.Dims()
	var (
		points  plotter.XYs
		yErrors plotter.YErrors
	)
	for iy := 0; iy < ny; iy++ {
		bin := h.Binning.YEdges[iy]
		if bin.XMin() >= ptMax {
			break
		}
		var sum float64
		for ix := 0; ix < nx; ix++ {
			sum += grid.Z(ix, iy)
		}
		if sum <= 0 {
			continue
		}
		norm := nev * bin.XWidth()
		points = append(points, plotter.XY{X: bin.XMid(), Y: sum / norm})
		yErrors = append(yErrors, struct{ Low, High float64 }{math.Sqrt(sum) / norm, math.Sqrt(sum) / norm})
	}
	return points, yErrors
}

func drawZVertex(filename string, categories []string) {
	p := hplot.New()
	p.Title.Text = *title
	p.X.Label.Text = "z_vtx (cm)"
	p.Y.Label.Text = "1/N_ev dN/dz_vtx"
	p.X.Tick.Marker = raadev.PreciseTicks{NSuggestedTicks: 5}

	for i, cat := range categories {
		h, err := rootout.ReadH1D(filename, key(task.ZVertexName(cat)))
		if err != nil {
			log.Fatalf("%+v", err)
		}
		if sumw := h.SumW(); sumw > 0 {
			h.Scale(1 / sumw)
		}

		hh := hplot.NewH1D(h)
		hh.FillColor = nil
		hh.LineStyle.Color = lineColor(i)
		hh.Infos.Style = hplot.HInfoNone

		p.Add(hh)
		p.Legend.Add(cat, hh)
	}
	p.Legend.Top = true

	if err := p.Save(6*vg.Inch, 4*vg.Inch, *output); err != nil {
		log.Fatal(err)
	}
}

func drawMap(filename, cat string) {
	h2, err := rootout.ReadH2D(filename, key(task.PtName(cat, *pileup, *cuts)))
	if err != nil {
		log.Fatalf("%+v", err)
	}

	img := vgimg.New(670, 400)
	dc := draw.New(img)
	dc0 := draw.Crop(dc, 0, -70, 0, 0)
	dc1 := draw.Crop(dc, 620, 0, 0, 0)

	grid := h2.GridXYZ()
	zmin, zmax := plotter.Range(gridValues{grid})
	colorMap := moreland.ExtendedBlackBody()
	colorMap.SetMin(zmin)
	colorMap.SetMax(math.Max(zmax, zmin+1))

	p := hplot.New()
	p.Title.Text = *title
	p.X.Label.Text = "z_vtx (cm)"
	p.Y.Label.Text = "p_T (GeV/c)"
	p.X.Tick.Marker = raadev.PreciseTicks{NSuggestedTicks: 5}
	p.Y.Tick.Marker = raadev.PreciseTicks{NSuggestedTicks: 5}

	heatMap := plotter.NewHeatMap(grid, colorMap.Palette(1000))
	p.Add(heatMap)
	p.Y.Max = math.Min(p.Y.Max, *maxPt)
	p.Draw(dc0)

	bar := plot.New()
	colorBar := &plotter.ColorBar{ColorMap: colorMap}
	colorBar.Vertical = true
	bar.Add(colorBar)
	bar.HideX()
	bar.Y.Padding = 0
	bar.Draw(dc1)

	w, err := os.Create(*output)
	if err != nil {
		log.Fatal(err)
	}
	defer w.Close()
	png := vgimg.PngCanvas{Canvas: img}
	if _, err = png.WriteTo(w); err != nil {
		log.Fatal(err)
	}
}

// gridValues exposes the cell contents of a grid as plotter.Valuer.
type gridValues struct {
	plotter.GridXYZ
}

func (g gridValues) Len() int {
	c, r := g.Dims()
	return c * r
}

func (g gridValues) Value(i int) float64 {
	c, _ := g.Dims()
	return g.Z(i%c, i/c)
}
