// Package html5 проверяет структуру архива HTML5-креатива.
package html5

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"creativerenamer/archive"
)

const (
	// MaxInitialLoadKB рекомендация IAB для начальной загрузки
	MaxInitialLoadKB = 200
	// initialLoadEntries сколько первых файлов учитывается в оценке начальной загрузки
	initialLoadEntries = 20
)

// EntryPoints допустимые имена входного файла в порядке предпочтения
var EntryPoints = []string{"index.html", "index.htm"}

// assetSelectors элементы и атрибуты, ссылающиеся на локальные ресурсы
var assetSelectors = []struct {
	selector string
	attr     string
}{
	{"script[src]", "src"},
	{"link[href]", "href"},
	{"img[src]", "src"},
	{"source[src]", "src"},
}

// Report результат проверки
type Report struct {
	Valid         bool     `json:"valid"`
	Errors        []string `json:"errors"`
	Warnings      []string `json:"warnings"`
	FileCount     int      `json:"file_count"`
	IndexPath     string   `json:"index_path"`
	InitialLoadKB float64  `json:"initial_load_kb"`
	AdSize        string   `json:"ad_size,omitempty"`
	MissingAssets []string `json:"missing_assets"`
}

// Validator проверяет HTML5-креативы
type Validator struct{}

// NewValidator создает Validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate проверяет архив; ошибка возвращается только при отмене ctx
func (v *Validator) Validate(ctx context.Context, a *archive.Archive) (*Report, error) {
	entries := a.Entries()
	report := &Report{
		Errors:        []string{},
		Warnings:      []string{},
		MissingAssets: []string{},
		FileCount:     len(entries),
	}

	var total int64
	for i := 0; i < len(entries) && i < initialLoadEntries; i++ {
		if !entries[i].Failed() {
			total += entries[i].Size
		}
	}
	report.InitialLoadKB = math.Round(float64(total)/1024*10) / 10
	if float64(total)/1024 > MaxInitialLoadKB {
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"Initial load ~%.1f KB exceeds IAB guideline (~%d KB)", float64(total)/1024, MaxInitialLoadKB))
	}

	index, ok := findIndex(entries)
	if !ok {
		report.Errors = append(report.Errors, "Missing index.html or index.htm")
		report.Valid = false
		return report, nil
	}
	report.IndexPath = index.Path

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := v.inspectIndex(index, entries, report); err != nil {
		report.Errors = append(report.Errors, err.Error())
	}

	report.Valid = len(report.Errors) == 0
	return report, nil
}

func (v *Validator) inspectIndex(index archive.Entry, entries []archive.Entry, report *Report) error {
	if index.Failed() {
		return fmt.Errorf("%s cannot be read: %v", index.Path, index.Err)
	}
	payload, err := index.ReadAll()
	if err != nil {
		return fmt.Errorf("%s cannot be read: %v", index.Path, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s is not valid HTML: %v", index.Path, err)
	}

	if content, ok := doc.Find("meta[name='ad.size']").First().Attr("content"); ok {
		if size, ok := parseAdSize(content); ok {
			report.AdSize = size
		} else {
			report.Warnings = append(report.Warnings, fmt.Sprintf("Malformed ad.size meta tag: %q", content))
		}
	} else {
		report.Warnings = append(report.Warnings, "Missing ad.size meta tag")
	}

	present := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		present[archive.CleanPath(e.Path)] = struct{}{}
	}

	baseDir := path.Dir(archive.CleanPath(index.Path))
	seen := make(map[string]struct{})
	for _, sel := range assetSelectors {
		doc.Find(sel.selector).Each(func(_ int, s *goquery.Selection) {
			ref, _ := s.Attr(sel.attr)
			local, ok := localReference(baseDir, ref)
			if !ok {
				return
			}
			if _, dup := seen[local]; dup {
				return
			}
			seen[local] = struct{}{}
			if _, exists := present[local]; !exists {
				report.MissingAssets = append(report.MissingAssets, local)
				report.Errors = append(report.Errors, "Missing asset: "+local)
			}
		})
	}
	return nil
}

// findIndex ближайший к корню файл с именем входного файла (без учета регистра)
// При равной глубине побеждает элемент, идущий раньше в архиве.
func findIndex(entries []archive.Entry) (archive.Entry, bool) {
	for _, name := range EntryPoints {
		best, depth := -1, 0
		for i, e := range entries {
			clean := archive.CleanPath(e.Path)
			if !strings.EqualFold(path.Base(clean), name) {
				continue
			}
			d := strings.Count(clean, "/")
			if best < 0 || d < depth {
				best, depth = i, d
			}
		}
		if best >= 0 {
			return entries[best], true
		}
	}
	return archive.Entry{}, false
}

// localReference разрешает ссылку относительно каталога index.html
// Внешние, data:, якорные и пустые ссылки пропускаются.
func localReference(baseDir, ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") || strings.Contains(ref, "://") {
		return "", false
	}
	lower := strings.ToLower(ref)
	for _, scheme := range []string{"data:", "javascript:", "mailto:", "about:"} {
		if strings.HasPrefix(lower, scheme) {
			return "", false
		}
	}
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	if unescaped, err := url.PathUnescape(ref); err == nil {
		ref = unescaped
	}
	if ref == "" {
		return "", false
	}
	if strings.HasPrefix(ref, "/") {
		return archive.CleanPath(ref), true
	}
	return archive.CleanPath(path.Join(baseDir, ref)), true
}

// parseAdSize разбирает "width=300,height=250" в "300x250"
func parseAdSize(content string) (string, bool) {
	var width, height string
	for _, part := range strings.Split(content, ",") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "width":
			width = strings.TrimSpace(value)
		case "height":
			height = strings.TrimSpace(value)
		}
	}
	if width == "" || height == "" {
		return "", false
	}
	return width + "x" + height, true
}
