package entity

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ClassNameTable отображение идентификатора класса в отображаемое имя.
// После создания не изменяется.
type ClassNameTable struct {
	names map[string]string
}

// NewClassNameTable создаёт таблицу из копии переданного отображения
func NewClassNameTable(names map[string]string) ClassNameTable {
	m := make(map[string]string, len(names))
	for k, v := range names {
		m[k] = v
	}
	return ClassNameTable{names: m}
}

// DisplayName возвращает отображаемое имя; неизвестный идентификатор возвращается как есть.
func (t ClassNameTable) DisplayName(classID string) string {
	if name, ok := t.names[classID]; ok {
		return name
	}
	return classID
}

// Len количество записей
func (t ClassNameTable) Len() int {
	return len(t.names)
}

// ParseClassNameTable читает строки вида `id=name`.
// Пустые строки и строки, начинающиеся с '#', пропускаются.
func ParseClassNameTable(r io.Reader) (ClassNameTable, error) {
	names := make(map[string]string)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		id, name, ok := strings.Cut(text, "=")
		if !ok {
			return ClassNameTable{}, fmt.Errorf("line %d: missing '='", line)
		}
		id = strings.TrimSpace(id)
		if id == "" {
			return ClassNameTable{}, fmt.Errorf("line %d: empty class id", line)
		}
		names[id] = strings.TrimSpace(name)
	}
	if err := scanner.Err(); err != nil {
		return ClassNameTable{}, fmt.Errorf("read class names: %w", err)
	}
	return ClassNameTable{names: names}, nil
}

// DefaultMaterialNames встроенная таблица материалов синтеза
func DefaultMaterialNames() ClassNameTable {
	return NewClassNameTable(map[string]string{
		"prosperity_certificate":             "商业活力证明",
		"mechanical_cube":                    "机械立方",
		"weary":                              "厌倦",
		"mythus_knots":                       "迷思绳结",
		"tear_crystal_of_glorious_death":     "哀荣泣石",
		"phase_flame":                        "相位灵火",
		"interdimensional_leaf":              "换境树叶",
		"thermal_gel":                        "散热凝胶",
		"the_sound_and_the_fury":             "喧哗与骚动",
		"dragon_scale_coral":                 "龙鳞珊瑚",
		"slime_of_harmony":                   "同谐黏液",
		"Tree_bark_of_erudition":             "智识树皮",
		"hard_chip_of_nihility":              "虚无硬片",
		"Preservation Construction Material": "存护筑材",
		"Stone of The Hunt":                  "巡猎石",
		"Ambergris of Abundance":             "丰饶香涎",
		"Strange Matter of Destruction":      "毁灭异质",
		"Old Molar":                          "老旧臼齿",
		"Hunger":                             "饥饿",
		"Confounding":                        "迷茫",
		"Tian Dong":                          "鳞渊天冬",
		"Extract of Medicinal Herbs":         "药草提取物",
		"Jade Abacus Unit":                   "玉兆单元",
		"Meteoric Alloy":                     "陨铁",
		"Leaf of Imaginary":                  "虚数残叶",
		"Quantum Ripples":                    "量子涟漪",
		"Vortex of Wind":                     "风之旋",
		"Eye of Lightning":                   "雷之眼",
		"Core of Ice":                        "冰之芯",
		"Feather of Flame":                   "火之翎",
		"Protein Rice":                       "蛋白米",
		"Virtual Particle":                   "虚粒子",
		"Mechanical Parts":                   "零件",
		"Rusty Gear":                         "锈迹齿轮",
		"Broken Dreams":                      "碎梦",
		"Tranquility":                        "安逸",
		"Human-Height Auspicious Crops":      "一人嘉禾",
		"Discarded Ingenium Parts":           "废弃机巧零件",
		"Seed":                               "种子",
		"Gaseous Liquid":                     "气态流体",
		"Metal":                              "金属",
		"Phlogiston":                         "燃素",
		"Basic Ingredients":                  "基本食材",
		"Solid Water":                        "固态净水",
	})
}
