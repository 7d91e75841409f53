package matching

import (
	"context"
	"math"
)

// Assigner выбирает для каждой строки матрицы столбец или NoMatch
type Assigner interface {
	Assign(ctx context.Context, scores *ScoreMatrix) ([]int, error)
}

// NewAssigner возвращает реализацию стратегии
func NewAssigner(s Strategy) (Assigner, error) {
	switch s {
	case "", StrategyGreedy:
		return Greedy{}, nil
	case StrategyExclusive:
		return Exclusive{}, nil
	default:
		return nil, ErrUnknownStrategy
	}
}

// Greedy лучшее имя для каждой строки независимо
// При равных оценках выигрывает столбец с меньшим индексом (меньший Order).
type Greedy struct{}

// Assign реализует Assigner
func (Greedy) Assign(ctx context.Context, scores *ScoreMatrix) ([]int, error) {
	assignment := make([]int, scores.Rows())
	for i := range assignment {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		assignment[i] = bestColumn(scores, i)
	}
	return assignment, nil
}

func bestColumn(scores *ScoreMatrix, row int) int {
	best, bestScore := NoMatch, -1
	for j := 0; j < scores.Cols(); j++ {
		if s := scores.At(row, j); s > bestScore {
			best, bestScore = j, s
		}
	}
	return best
}

// Exclusive назначение максимального суммарного веса (венгерский алгоритм)
//
// Каждый столбец достается не более чем одной строке. Среди назначений с равной
// суммой оценок выбирается то, где сумма индексов столбцов минимальна, поэтому
// результат детерминирован. Строки без столбца получают NoMatch.
type Exclusive struct{}

// Assign реализует Assigner
func (Exclusive) Assign(ctx context.Context, scores *ScoreMatrix) ([]int, error) {
	n, m := scores.Rows(), scores.Cols()
	assignment := make([]int, n)
	for i := range assignment {
		assignment[i] = NoMatch
	}
	if n == 0 || m == 0 {
		return assignment, nil
	}

	// Фиктивные столбцы добавляются, когда строк больше, чем кандидатов
	cols := max(n, m)
	// weight больше суммы любых штрафов за порядок, поэтому оценка важнее порядка
	weight := int64(n)*int64(cols) + 1
	cost := func(i, j int) int64 {
		if j >= m {
			return 100*weight + int64(j)
		}
		return int64(100-scores.At(i, j))*weight + int64(j)
	}

	const inf = math.MaxInt64 / 4
	u := make([]int64, n+1)
	v := make([]int64, cols+1)
	p := make([]int, cols+1)
	way := make([]int, cols+1)
	minv := make([]int64, cols+1)
	used := make([]bool, cols+1)

	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p[0] = i
		j0 := 0
		for j := range minv {
			minv[j] = inf
			used[j] = false
		}
		for {
			used[j0] = true
			i0, delta, j1 := p[j0], int64(inf), 0
			for j := 1; j <= cols; j++ {
				if used[j] {
					continue
				}
				cur := cost(i0-1, j-1) - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= cols; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	for j := 1; j <= cols; j++ {
		if p[j] != 0 && j-1 < m {
			assignment[p[j]-1] = j - 1
		}
	}
	return assignment, nil
}
