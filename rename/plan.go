// Package rename строит итоговые имена файлов и пишет переименованный архив и журнал.
//
// План имен строится один раз и используется и архивом, и журналом,
// поэтому их содержимое всегда согласовано.
package rename

import (
	"fmt"
	"strings"

	"creativerenamer/matching"
)

// fallbackStem имя для элемента, у которого нет ни совпадения, ни основы
const fallbackStem = "file"

// PlanEntry итоговое имя одного элемента
type PlanEntry struct {
	// Index позиция элемента в архиве
	Index      int    `json:"index"`
	SourcePath string `json:"source_path"`
	// Name имя в выходном архиве после разрешения коллизий
	Name  string `json:"name"`
	Score int    `json:"score"`
	Error string `json:"error,omitempty"`
	// Renamed true, если имя взято из листа, а не из исходной основы
	Renamed bool `json:"renamed"`
}

// Plan имена выходного архива в исходном порядке элементов
type Plan struct {
	Entries []PlanEntry `json:"entries"`
}

// Len число элементов плана
func (p Plan) Len() int { return len(p.Entries) }

// Names выходные имена в исходном порядке
func (p Plan) Names() []string {
	names := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		names[i] = e.Name
	}
	return names
}

// RenamedCount число элементов, получивших имя из листа
func (p Plan) RenamedCount() int {
	n := 0
	for _, e := range p.Entries {
		if e.Renamed {
			n++
		}
	}
	return n
}

// BuildPlan вычисляет выходные имена для результатов сопоставления
//
// Имя = MatchedName + Extension, без совпадения = FileStem + Extension.
// Разделители путей заменяются на "_". При совпадении имен первый элемент
// сохраняет имя, остальные получают base_N.ext с наименьшим свободным N.
func BuildPlan(results []matching.Result) Plan {
	resolver := NewCollisionResolver()
	entries := make([]PlanEntry, len(results))

	for i, r := range results {
		stem := sanitize(r.MatchedName)
		renamed := stem != "" && r.Error == ""
		if !renamed {
			stem = sanitize(r.FileStem)
		}
		if stem == "" {
			stem = fallbackStem
		}

		entries[i] = PlanEntry{
			Index:      i,
			SourcePath: r.FilePath,
			Name:       resolver.Resolve(stem, r.Extension),
			Score:      r.Score,
			Error:      r.Error,
			Renamed:    renamed,
		}
	}

	return Plan{Entries: entries}
}

func sanitize(name string) string {
	name = strings.TrimSpace(name)
	return strings.NewReplacer("/", "_", "\\", "_").Replace(name)
}

// CollisionResolver выдает уникальные имена в порядке запросов
// Не безопасен для параллельного использования: план строится последовательно.
type CollisionResolver struct {
	taken map[string]struct{}
	next  map[string]int // имя -> следующий номер суффикса
}

// NewCollisionResolver создает пустой резолвер
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{
		taken: make(map[string]struct{}),
		next:  make(map[string]int),
	}
}

// Resolve возвращает stem+ext или, если имя занято, stem_N+ext
func (cr *CollisionResolver) Resolve(stem, ext string) string {
	name := stem + ext
	if _, exists := cr.taken[name]; !exists {
		cr.taken[name] = struct{}{}
		return name
	}

	counter := cr.next[name]
	if counter == 0 {
		counter = 1
	}
	for {
		candidate := fmt.Sprintf("%s_%d%s", stem, counter, ext)
		if _, exists := cr.taken[candidate]; !exists {
			cr.next[name] = counter + 1
			cr.taken[candidate] = struct{}{}
			return candidate
		}
		counter++
	}
}
