package entity

import "image"

// Box ограничивающий прямоугольник в пикселях исходного изображения
type Box struct {
	XMin float64
	YMin float64
	XMax float64
	YMax float64
}

// Rect округляет рамку до целочисленного прямоугольника (отбрасыванием дробной части)
func (b Box) Rect() image.Rectangle {
	return image.Rect(int(b.XMin), int(b.YMin), int(b.XMax), int(b.YMax))
}

// Width ширина рамки
func (b Box) Width() float64 {
	return b.XMax - b.XMin
}

// Height высота рамки
func (b Box) Height() float64 {
	return b.YMax - b.YMin
}

// Detection один найденный детектором объект
type Detection struct {
	Box        Box     // рамка в координатах оригинала
	Class      string  // внутренний идентификатор класса
	Confidence float64 // уверенность детектора
}
