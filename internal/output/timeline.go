package output

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"slices"

	"github.com/mj1618/a11y-bridge/internal/bridge"
	"github.com/mj1618/a11y-bridge/internal/model"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	cellSize    = 24
	headerH     = 20
	glyphW      = 7
	glyphAscent = 11
)

var (
	bgColor      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	gridColor    = color.RGBA{R: 220, G: 220, B: 220, A: 255}
	textColor    = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	eventColor   = color.RGBA{R: 40, G: 110, B: 220, A: 255}
	updatedColor = color.RGBA{R: 60, G: 170, B: 80, A: 255}
)

// Timeline lays frames out left to right and windows top to bottom. A cell
// holds the number of requests the window emitted in that frame. The last
// lane marks frames in which accessibility nodes were updated.
type Timeline struct {
	Frames []bridge.FrameResult
	// Windows fixes the lane order and labels. Windows seen only in events
	// are appended in id order.
	Windows []model.Window
}

// lanes returns the window lanes and their labels.
func (t Timeline) lanes() ([]model.WindowID, []string) {
	var ids []model.WindowID
	var labels []string
	seen := make(map[model.WindowID]bool)
	for _, w := range t.Windows {
		if seen[w.ID] {
			continue
		}
		seen[w.ID] = true
		ids = append(ids, w.ID)
		label := w.Name
		if label == "" {
			label = w.ID.String()
		}
		labels = append(labels, label)
	}
	var extra []model.WindowID
	for _, f := range t.Frames {
		for _, ev := range f.Events {
			if !seen[ev.Window] {
				seen[ev.Window] = true
				extra = append(extra, ev.Window)
			}
		}
	}
	slices.Sort(extra)
	for _, id := range extra {
		ids = append(ids, id)
		labels = append(labels, id.String())
	}
	return ids, labels
}

// Render draws the timeline.
func (t Timeline) Render() *image.RGBA {
	ids, labels := t.lanes()
	labels = append(labels, "nodes")

	labelW := 0
	for _, l := range labels {
		labelW = max(labelW, len(l)*glyphW)
	}
	labelW += 8

	width := labelW + max(len(t.Frames), 1)*cellSize
	height := headerH + len(labels)*cellSize
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bgColor), image.Point{}, draw.Src)

	for row, l := range labels {
		drawLabel(img, l, 4, headerH+row*cellSize+(cellSize+glyphAscent)/2)
	}

	lane := make(map[model.WindowID]int, len(ids))
	for i, id := range ids {
		lane[id] = i
	}
	nodesRow := len(labels) - 1

	for col, f := range t.Frames {
		x := labelW + col*cellSize
		if col%5 == 0 {
			drawLabel(img, fmt.Sprint(f.Frame), x+2, headerH-5)
		}
		counts := make(map[int]int)
		for _, ev := range f.Events {
			counts[lane[ev.Window]]++
		}
		for row := range labels {
			cell := image.Rect(x, headerH+row*cellSize, x+cellSize, headerH+(row+1)*cellSize)
			strokeRect(img, cell, gridColor)
			inner := cell.Inset(3)
			switch {
			case row == nodesRow && f.UpdatedNodes:
				draw.Draw(img, inner, image.NewUniform(updatedColor), image.Point{}, draw.Src)
			case counts[row] > 0:
				draw.Draw(img, inner, image.NewUniform(eventColor), image.Point{}, draw.Src)
				n := fmt.Sprint(counts[row])
				drawText(img, n, inner.Min.X+(inner.Dx()-len(n)*glyphW)/2, inner.Min.Y+(inner.Dy()+glyphAscent)/2, bgColor)
			}
		}
	}
	return img
}

// WritePNG renders the timeline and encodes it as PNG.
func (t Timeline) WritePNG(w io.Writer) error {
	if err := png.Encode(w, t.Render()); err != nil {
		return fmt.Errorf("png encode: %w", err)
	}
	return nil
}

func strokeRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, c)
		img.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, c)
		img.Set(r.Max.X-1, y, c)
	}
}

func drawLabel(img *image.RGBA, text string, x, baseline int) {
	drawText(img, text, x, baseline, textColor)
}

// drawText draws text with its baseline at y.
func drawText(img *image.RGBA, text string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
