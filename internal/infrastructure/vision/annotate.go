package vision

import (
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font/gofont/goregular"

	"material-counter/internal/domain/entity"
	"material-counter/internal/domain/port"
)

var (
	colorBox      = color.RGBA{R: 255, A: 255}
	colorRegion   = color.RGBA{B: 255, A: 255}
	colorQuantity = color.White
)

// Annotator рисует рамки и подписи поверх изображений
type Annotator struct {
	font         *truetype.Font
	FontSize     float64 // подписи на оригинале
	PrepFontSize float64 // подписи на предобработанном изображении
}

// NewAnnotator загружает TTF-шрифт; пустой путь означает встроенный Go Regular.
// Для китайских имён нужен шрифт с CJK-глифами.
func NewAnnotator(fontPath string) (*Annotator, error) {
	data := goregular.TTF
	if fontPath != "" {
		raw, err := os.ReadFile(fontPath)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
		data = raw
	}

	font, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	return &Annotator{
		font:         font,
		FontSize:     20,
		PrepFontSize: 36,
	}, nil
}

// AnnotateMaterials: красная рамка и имя материала, синяя область с цифрами и количество
func (a *Annotator) AnnotateMaterials(img image.Image, marks []entity.MaterialMark) image.Image {
	dc := gg.NewContextForImage(img)
	for _, m := range marks {
		box := m.Detection.Box

		drawRect(dc, rectF(m.Region, 1), colorRegion, 2)
		a.drawText(dc, m.Quantity, box.XMin+14, float64(m.Region.Max.Y)-12, a.FontSize, colorQuantity)

		drawRect(dc, [4]float64{box.XMin, box.YMin, box.XMax, box.YMax}, colorBox, 2)
		a.drawText(dc, m.DisplayName, box.XMin+5, box.YMin+5, a.FontSize, colorBox)
	}
	return dc.Image()
}

// AnnotatePreprocessed: белая область с цифрами и количество в масштабе scale
func (a *Annotator) AnnotatePreprocessed(img image.Image, marks []entity.MaterialMark, scale int) image.Image {
	dc := gg.NewContextForImage(img)
	s := float64(scale)
	for _, m := range marks {
		drawRect(dc, rectF(m.Region, s), colorQuantity, 4)
		a.drawText(dc, m.Quantity, s*m.Detection.Box.XMin+14, s*float64(m.Region.Max.Y)-12, a.PrepFontSize, colorQuantity)
	}
	return dc.Image()
}

// AnnotateDetections рисует рамку и подпись "класс уверенность" своим цветом для каждого класса
func (a *Annotator) AnnotateDetections(img image.Image, detections []entity.Detection) image.Image {
	dc := gg.NewContextForImage(img)
	for _, d := range detections {
		c := ClassColor(d.Class)
		drawRect(dc, [4]float64{d.Box.XMin, d.Box.YMin, d.Box.XMax, d.Box.YMax}, c, 2)

		label := fmt.Sprintf("%s %.2f", d.Class, d.Confidence)
		face := truetype.NewFace(a.font, &truetype.Options{Size: a.FontSize * 0.7})
		dc.SetFontFace(face)
		w, h := dc.MeasureString(label)
		top := d.Box.YMin - h - 4
		if top < 0 {
			top = d.Box.YMin
		}
		dc.SetColor(c)
		dc.DrawRectangle(d.Box.XMin, top, w+4, h+4)
		dc.Fill()
		dc.SetColor(color.White)
		dc.DrawStringAnchored(label, d.Box.XMin+2, top+2, 0, 1)
	}
	return dc.Image()
}

// ClassColor стабильный цвет для класса
func ClassColor(class string) color.Color {
	h := fnv.New32a()
	_, _ = h.Write([]byte(class))
	hue := float64(h.Sum32() % 360)
	return colorful.Hsv(hue, 0.8, 0.9)
}

func (a *Annotator) drawText(dc *gg.Context, text string, x, y, size float64, c color.Color) {
	if text == "" {
		return
	}
	dc.SetFontFace(truetype.NewFace(a.font, &truetype.Options{Size: size}))
	dc.SetColor(c)
	dc.DrawStringAnchored(text, x, y, 0, 1)
}

func drawRect(dc *gg.Context, r [4]float64, c color.Color, width float64) {
	dc.SetColor(c)
	dc.SetLineWidth(width)
	dc.DrawRectangle(r[0], r[1], r[2]-r[0], r[3]-r[1])
	dc.Stroke()
}

func rectF(r image.Rectangle, scale float64) [4]float64 {
	return [4]float64{
		float64(r.Min.X) * scale,
		float64(r.Min.Y) * scale,
		float64(r.Max.X) * scale,
		float64(r.Max.Y) * scale,
	}
}

var _ port.Annotator = (*Annotator)(nil)
