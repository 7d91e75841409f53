// Package testsupport содержит помощники для тестов: сборка ZIP-архивов в памяти.
package testsupport

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
	"time"
)

// ZipFile описание одного элемента собираемого архива
type ZipFile struct {
	Name string
	Body string
	// Stored элемент без сжатия (zip.Store), иначе Deflate
	Stored bool
}

// FixedModTime время изменения всех элементов собранных архивов
var FixedModTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// BuildZip собирает архив в памяти; имена, оканчивающиеся на "/", становятся каталогами.
func BuildZip(t testing.TB, files ...ZipFile) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		method := zip.Deflate
		if f.Stored || strings.HasSuffix(f.Name, "/") {
			method = zip.Store
		}
		header := &zip.FileHeader{Name: f.Name, Method: method, Modified: FixedModTime}
		w, err := zw.CreateHeader(header)
		if err != nil {
			t.Fatalf("create zip entry %q: %v", f.Name, err)
		}
		if f.Body != "" {
			if _, err := w.Write([]byte(f.Body)); err != nil {
				t.Fatalf("write zip entry %q: %v", f.Name, err)
			}
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// CorruptStored портит содержимое несжатого элемента так, что проверка CRC32 не проходит.
// body должен встречаться в архиве ровно один раз и храниться методом zip.Store.
func CorruptStored(t testing.TB, data []byte, body string) []byte {
	t.Helper()

	idx := bytes.Index(data, []byte(body))
	if idx < 0 {
		t.Fatalf("body %q not found in archive", body)
	}
	out := bytes.Clone(data)
	out[idx] ^= 0xFF
	return out
}

// ZipNames возвращает имена элементов архива в порядке записи
func ZipNames(t testing.TB, data []byte) []string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}
