package app

import (
	"image"

	"material-counter/internal/domain/entity"
)

// RegionConfig калибровка области с количеством под иконкой материала.
// Значения подобраны под один детектор и один размер шрифта.
type RegionConfig struct {
	BottomOffset int // насколько выше нижней границы рамки начинается полоса
	Height       int // высота полосы с цифрами
	Inset        int // отступ от левого и правого края рамки
	Scale        int // масштаб предобработанного изображения
}

// DefaultRegionConfig калибровка для скриншотов 1920x1080
func DefaultRegionConfig() RegionConfig {
	return RegionConfig{
		BottomOffset: 5,
		Height:       30,
		Inset:        20,
		Scale:        2,
	}
}

// Region возвращает область с цифрами в координатах оригинала.
// Прямоугольник не нормализуется: у узкой рамки он пустой.
func (c RegionConfig) Region(box entity.Box) image.Rectangle {
	yMin := int(box.YMax - float64(c.BottomOffset))
	xMin := int(box.XMin + float64(c.Inset))
	xMax := int(box.XMax - float64(c.Inset))
	return image.Rectangle{
		Min: image.Point{X: xMin, Y: yMin},
		Max: image.Point{X: xMax, Y: yMin + c.Height},
	}
}

// Scaled возвращает ту же область в координатах предобработанного изображения
func (c RegionConfig) Scaled(box entity.Box) image.Rectangle {
	r := c.Region(box)
	return image.Rectangle{
		Min: r.Min.Mul(c.Scale),
		Max: r.Max.Mul(c.Scale),
	}
}

// Crop вырезает область с цифрами из предобработанного изображения.
// Область обрезается по границам изображения; ok=false, если вырезать нечего.
func (c RegionConfig) Crop(img *image.Gray, box entity.Box) (*image.Gray, bool) {
	r := c.Scaled(box)
	if r.Empty() {
		return nil, false
	}
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return nil, false
	}

	out := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		src := img.PixOffset(r.Min.X, r.Min.Y+y)
		copy(out.Pix[y*out.Stride:y*out.Stride+r.Dx()], img.Pix[src:src+r.Dx()])
	}
	return out, true
}
