package matching

// ScoreMatrix оценки элементов (строки) против кандидатов (столбцы)
// Кандидаты в столбцах уже упорядочены по Order.
type ScoreMatrix struct {
	rows, cols int
	data       []uint8
}

// NewScoreMatrix создает пустую матрицу rows x cols
func NewScoreMatrix(rows, cols int) *ScoreMatrix {
	return &ScoreMatrix{rows: rows, cols: cols, data: make([]uint8, rows*cols)}
}

// Rows число строк
func (m *ScoreMatrix) Rows() int { return m.rows }

// Cols число столбцов
func (m *ScoreMatrix) Cols() int { return m.cols }

// At оценка строки i против столбца j
func (m *ScoreMatrix) At(i, j int) int {
	return int(m.data[i*m.cols+j])
}

// Set записывает оценку; строки разных горутин не пересекаются
func (m *ScoreMatrix) Set(i, j, score int) {
	m.data[i*m.cols+j] = uint8(score)
}

// NoMatch столбец не назначен
const NoMatch = -1
