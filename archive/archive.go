// Package archive читает ZIP-архивы с креативами и копирует их элементы без перепаковки.
package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"creativerenamer/internal/infrastructure/workers"
	"creativerenamer/normalization"
)

var (
	// ErrInvalidArchive контейнер не открывается как ZIP
	ErrInvalidArchive = errors.New("invalid zip archive")
	// ErrAllEntriesFailed ни один элемент архива не читается
	ErrAllEntriesFailed = errors.New("no readable entries in archive")
	// ErrEntryTooLarge элемент превышает допустимый размер
	ErrEntryTooLarge = errors.New("archive entry too large")
)

// DefaultMaxEntrySize ограничение размера одного элемента по умолчанию
const DefaultMaxEntrySize int64 = 256 << 20

// OpenOptions параметры открытия архива
type OpenOptions struct {
	// MaxEntrySize максимальный размер распакованного элемента
	MaxEntrySize int64
	// Workers размер пула для проверки элементов (0 = число CPU)
	Workers int
	// SkipVerify отключает потоковую проверку элементов при открытии
	SkipVerify bool
}

// Entry один файл внутри архива
// После загрузки архива элементы не изменяются
type Entry struct {
	Index     int    `json:"index"`
	Path      string `json:"path"`
	Stem      string `json:"stem"`
	Extension string `json:"extension"`
	Size      int64  `json:"size"`
	// Err отметка об ошибке чтения элемента (nil, если элемент читается)
	Err error `json:"-"`

	file    *zip.File
	maxSize int64
}

// Failed сообщает, помечен ли элемент как нечитаемый
func (e Entry) Failed() bool {
	return e.Err != nil
}

// ErrorMessage возвращает текст ошибки элемента или пустую строку
func (e Entry) ErrorMessage() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// Open открывает поток распакованных данных элемента
func (e Entry) Open() (io.ReadCloser, error) {
	if e.file == nil {
		return nil, fmt.Errorf("entry %q has no backing file", e.Path)
	}
	return e.file.Open()
}

// ReadAll читает элемент целиком с учетом ограничения размера
func (e Entry) ReadAll() ([]byte, error) {
	reader, err := e.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = reader.Close()
	}()

	payload, err := io.ReadAll(io.LimitReader(reader, e.maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(payload)) > e.maxSize {
		return nil, ErrEntryTooLarge
	}
	return payload, nil
}

// StreamTo потоково копирует распакованные данные в w
// Используется для хэширования без буферизации всего элемента
func (e Entry) StreamTo(w io.Writer) (int64, error) {
	reader, err := e.Open()
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = reader.Close()
	}()

	n, err := io.Copy(w, io.LimitReader(reader, e.maxSize+1))
	if err != nil {
		return n, err
	}
	if n > e.maxSize {
		return n, ErrEntryTooLarge
	}
	return n, nil
}

// CopyRawTo записывает элемент в zw под новым именем, не распаковывая его
// Сжатые байты, метод сжатия, CRC32, размеры и время изменения сохраняются.
func (e Entry) CopyRawTo(zw *zip.Writer, name string) error {
	if e.file == nil {
		return fmt.Errorf("entry %q has no backing file", e.Path)
	}

	raw, err := e.file.OpenRaw()
	if err != nil {
		return fmt.Errorf("open raw entry %q: %w", e.Path, err)
	}

	header := e.file.FileHeader
	header.Name = name
	header.NonUTF8 = false
	// Extra может содержать zip64-записи исходного архива, writer сформирует свои
	header.Extra = nil

	w, err := zw.CreateRaw(&header)
	if err != nil {
		return fmt.Errorf("create raw entry %q: %w", name, err)
	}
	if _, err := io.Copy(w, raw); err != nil {
		return fmt.Errorf("copy raw entry %q: %w", e.Path, err)
	}
	return nil
}

// Archive загруженный архив: упорядоченный список файловых элементов
type Archive struct {
	entries []Entry
}

// Open разбирает ZIP из r и (если не отключено) потоково проверяет каждый элемент
// Каталоги пропускаются. Нечитаемые элементы помечаются, а не прерывают загрузку;
// если не читается ни один элемент, возвращается ErrAllEntriesFailed.
func Open(ctx context.Context, r io.ReaderAt, size int64, opts OpenOptions) (*Archive, error) {
	zr, err := zip.NewReader(r, size)
	// ErrInsecurePath не мешает чтению: имена на выходе всегда плоские
	if err != nil && !(errors.Is(err, zip.ErrInsecurePath) && zr != nil) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	maxSize := opts.MaxEntrySize
	if maxSize <= 0 {
		maxSize = DefaultMaxEntrySize
	}

	entries := make([]Entry, 0, len(zr.File))
	for _, f := range zr.File {
		if isDirectory(f) {
			continue
		}
		stem, ext := normalization.SplitName(f.Name)
		entry := Entry{
			Index:     len(entries),
			Path:      f.Name,
			Stem:      stem,
			Extension: ext,
			Size:      int64(f.UncompressedSize64),
			file:      f,
			maxSize:   maxSize,
		}
		if f.UncompressedSize64 > uint64(maxSize) {
			entry.Err = ErrEntryTooLarge
		}
		entries = append(entries, entry)
	}

	if !opts.SkipVerify {
		if err := verifyEntries(ctx, entries, opts.Workers); err != nil {
			return nil, err
		}
	}

	if len(entries) > 0 && countFailed(entries) == len(entries) {
		return nil, fmt.Errorf("%w: %d of %d entries failed", ErrAllEntriesFailed, len(entries), len(entries))
	}

	return &Archive{entries: entries}, nil
}

// OpenBytes открывает архив из загруженного в память содержимого
func OpenBytes(ctx context.Context, data []byte, opts OpenOptions) (*Archive, error) {
	return Open(ctx, bytes.NewReader(data), int64(len(data)), opts)
}

// OpenFile открывает архив с диска
func OpenFile(ctx context.Context, path string, opts OpenOptions) (*Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read archive %s: %w", path, err)
	}
	return OpenBytes(ctx, data, opts)
}

// Entries возвращает копию списка элементов в исходном порядке
func (a *Archive) Entries() []Entry {
	out := make([]Entry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Entry возвращает элемент по индексу
func (a *Archive) Entry(i int) Entry {
	return a.entries[i]
}

// Len количество файловых элементов
func (a *Archive) Len() int {
	return len(a.entries)
}

// Failed возвращает элементы с отметкой об ошибке
func (a *Archive) Failed() []Entry {
	var failed []Entry
	for _, e := range a.entries {
		if e.Failed() {
			failed = append(failed, e)
		}
	}
	return failed
}

// Lookup ищет элемент по точному пути
func (a *Archive) Lookup(path string) (Entry, bool) {
	for _, e := range a.entries {
		if e.Path == path {
			return e, true
		}
	}
	return Entry{}, false
}

// verifyEntries дочитывает каждый элемент до конца: zip.Reader проверяет CRC32 на EOF
func verifyEntries(ctx context.Context, entries []Entry, poolSize int) error {
	return workers.ForEach(ctx, len(entries), poolSize, func(_ context.Context, i int) error {
		if entries[i].Err != nil {
			return nil
		}
		if _, err := entries[i].StreamTo(io.Discard); err != nil {
			entries[i].Err = err
		}
		return nil
	})
}

func countFailed(entries []Entry) int {
	n := 0
	for _, e := range entries {
		if e.Err != nil {
			n++
		}
	}
	return n
}

// CleanPath приводит путь элемента к каноническому виду:
// "\" -> "/", path.Clean, без ведущих "./" и "/", регистр сохраняется
func CleanPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

func isDirectory(f *zip.File) bool {
	return strings.HasSuffix(f.Name, "/") || f.FileInfo().IsDir()
}
