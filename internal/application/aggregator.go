package app

import (
	"image"

	"material-counter/internal/domain/entity"
)

// Aggregator собирает количества материалов одного изображения
type Aggregator struct {
	names  entity.ClassNameTable
	counts *entity.MaterialCount
	marks  []entity.MaterialMark
}

// NewAggregator создаёт агрегатор с таблицей отображаемых имён
func NewAggregator(names entity.ClassNameTable) *Aggregator {
	return &Aggregator{
		names:  names,
		counts: entity.NewMaterialCount(),
	}
}

// Add учитывает одно обнаружение. Количество записывается только для первого
// обнаружения класса; разметка сохраняется для каждого.
func (a *Aggregator) Add(det entity.Detection, region image.Rectangle, quantity string) bool {
	name := a.names.DisplayName(det.Class)
	a.marks = append(a.marks, entity.MaterialMark{
		Detection:   det,
		Region:      region,
		DisplayName: name,
		Quantity:    quantity,
	})
	return a.counts.Put(det.Class, name, quantity)
}

// Result возвращает накопленную таблицу
func (a *Aggregator) Result() *entity.MaterialCount {
	return a.counts
}

// Marks возвращает разметку в порядке обнаружения
func (a *Aggregator) Marks() []entity.MaterialMark {
	return a.marks
}
