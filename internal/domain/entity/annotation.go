package entity

import "image"

// MaterialMark разметка одного материала для отрисовки
type MaterialMark struct {
	Detection   Detection
	Region      image.Rectangle // область с цифрами в координатах оригинала
	DisplayName string
	Quantity    string
}
