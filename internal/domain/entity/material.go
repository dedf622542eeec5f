package entity

// MaterialEntry запись о материале: отображаемое имя и распознанное количество
type MaterialEntry struct {
	ClassID     string
	DisplayName string
	Quantity    string
}

// MaterialCount упорядоченная таблица материалов одного изображения.
// На каждый класс хранится не более одной записи, побеждает первая.
type MaterialCount struct {
	entries []MaterialEntry
	index   map[string]int
}

// NewMaterialCount создаёт пустую таблицу
func NewMaterialCount() *MaterialCount {
	return &MaterialCount{index: make(map[string]int)}
}

// Put добавляет запись, если класс ещё не встречался. Возвращает true, если запись добавлена.
func (m *MaterialCount) Put(classID, displayName, quantity string) bool {
	if _, exists := m.index[classID]; exists {
		return false
	}
	m.index[classID] = len(m.entries)
	m.entries = append(m.entries, MaterialEntry{
		ClassID:     classID,
		DisplayName: displayName,
		Quantity:    quantity,
	})
	return true
}

// Get возвращает запись по идентификатору класса
func (m *MaterialCount) Get(classID string) (MaterialEntry, bool) {
	i, ok := m.index[classID]
	if !ok {
		return MaterialEntry{}, false
	}
	return m.entries[i], true
}

// Len количество записей
func (m *MaterialCount) Len() int {
	return len(m.entries)
}

// Entries возвращает записи в порядке первого обнаружения
func (m *MaterialCount) Entries() []MaterialEntry {
	out := make([]MaterialEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// ReportRow строка отчёта: идентификатор, отображаемое имя, количество
type ReportRow [3]string

// Rows возвращает строки отчёта в порядке вставки
func (m *MaterialCount) Rows() []ReportRow {
	rows := make([]ReportRow, 0, len(m.entries))
	for _, e := range m.entries {
		rows = append(rows, ReportRow{e.ClassID, e.DisplayName, e.Quantity})
	}
	return rows
}
