package rename

import (
	"archive/zip"
	"context"
	"fmt"
	"io"

	"creativerenamer/archive"
)

// ArchiveName имя выходного архива по умолчанию
const ArchiveName = "renamed-creatives.zip"

// Writer пишет переименованную копию архива
type Writer struct {
	// Comment комментарий выходного архива (пустой = без комментария)
	Comment string
}

// NewWriter создает Writer
func NewWriter() *Writer {
	return &Writer{}
}

// Write копирует каждый элемент src в w под именем из плана
// Байты копируются без перепаковки. Элементы с ошибкой чтения тоже копируются
// как есть под исходной основой, поэтому число элементов всегда совпадает.
func (wr *Writer) Write(ctx context.Context, w io.Writer, src *archive.Archive, plan Plan) error {
	if plan.Len() != src.Len() {
		return fmt.Errorf("plan has %d entries, archive has %d", plan.Len(), src.Len())
	}

	zw := zip.NewWriter(w)
	if wr.Comment != "" {
		if err := zw.SetComment(wr.Comment); err != nil {
			return fmt.Errorf("set archive comment: %w", err)
		}
	}

	for _, pe := range plan.Entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		entry := src.Entry(pe.Index)
		if err := entry.CopyRawTo(zw, pe.Name); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return nil
}
