package algorithms

// Indel вычисляет расстояние вставок/удалений между строками
// Это расстояние Левенштейна без операции замены: замена стоит как удаление плюс вставка.
// Расстояние = len(a) + len(b) - 2*LCS(a, b)
type Indel struct{}

// NewIndel создает новый вычислитель Indel-расстояния
func NewIndel() *Indel {
	return &Indel{}
}

// Distance вычисляет Indel-расстояние между двумя строками (по рунам)
func (in *Indel) Distance(str1, str2 string) int {
	return in.DistanceRunes([]rune(str1), []rune(str2))
}

// DistanceRunes вычисляет расстояние для рун
func (in *Indel) DistanceRunes(r1, r2 []rune) int {
	return len(r1) + len(r2) - 2*lcsLength(r1, r2)
}

// Similarity вычисляет нормализованную схожесть от 0.0 до 1.0
// Две пустые строки считаются идентичными
func (in *Indel) Similarity(str1, str2 string) float64 {
	r1 := []rune(str1)
	r2 := []rune(str2)
	total := len(r1) + len(r2)
	if total == 0 {
		return 1.0
	}

	return 1.0 - float64(in.DistanceRunes(r1, r2))/float64(total)
}

// Ratio возвращает схожесть в шкале 0-100
func (in *Indel) Ratio(str1, str2 string) float64 {
	return in.Similarity(str1, str2) * 100
}

// lcsLength вычисляет длину наибольшей общей подпоследовательности
// Используются две строки матрицы вместо полной таблицы (len1+1) x (len2+1)
func lcsLength(r1, r2 []rune) int {
	if len(r1) == 0 || len(r2) == 0 {
		return 0
	}
	// Внутренний цикл идет по более короткой строке
	if len(r2) > len(r1) {
		r1, r2 = r2, r1
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)

	for i := 1; i <= len(r1); i++ {
		for j := 1; j <= len(r2); j++ {
			switch {
			case r1[i-1] == r2[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}

// normalizedRatio переводит расстояние в шкалу 0-100 относительно суммы длин
func normalizedRatio(distance, lengthSum int) float64 {
	if lengthSum == 0 {
		return 100
	}
	ratio := 100 * (1.0 - float64(distance)/float64(lengthSum))
	if ratio < 0 {
		return 0
	}
	return ratio
}
