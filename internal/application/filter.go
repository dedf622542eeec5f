package app

import "material-counter/internal/domain/entity"

// DetectionFilter отбирает обнаружения перед дальнейшей обработкой
type DetectionFilter func([]entity.Detection) []entity.Detection

// NewScoreFilter отбрасывает обнаружения с уверенностью ниже conf
func NewScoreFilter(conf float64) DetectionFilter {
	return func(in []entity.Detection) []entity.Detection {
		out := make([]entity.Detection, 0, len(in))
		for _, d := range in {
			if d.Confidence >= conf {
				out = append(out, d)
			}
		}
		return out
	}
}
