package vision

import (
	"context"
	"image"

	"material-counter/internal/domain/port"
)

// Preprocessor готовит скриншот к распознаванию цифр на оверлее.
// Со сборочным тегом gocv обработка идёт через OpenCV, без него через чистый Go.
type Preprocessor struct {
	Scale     int   // во сколько раз увеличивать изображение
	Threshold uint8 // пиксели не темнее порога становятся белыми
}

// NewPreprocessor создаёт препроцессор с калибровкой по умолчанию
func NewPreprocessor() *Preprocessor {
	return &Preprocessor{
		Scale:     2,
		Threshold: 185,
	}
}

// Preprocess: серый → увеличение (билинейно) → выравнивание гистограммы →
// порог → эрозия 3x3 → дилатация 3x3. Результат сохраняется в dstPath.
func (p *Preprocessor) Preprocess(ctx context.Context, srcPath, dstPath string) (*image.Gray, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := p.run(srcPath)
	if err != nil {
		return nil, err
	}

	if dstPath != "" {
		if err := savePNG(dstPath, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

var _ port.Preprocessor = (*Preprocessor)(nil)
