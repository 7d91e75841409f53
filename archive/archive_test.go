package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creativerenamer/internal/testsupport"
)

func TestOpenBytes_ListsFileEntries(t *testing.T) {
	data := testsupport.BuildZip(t,
		testsupport.ZipFile{Name: "creatives/"},
		testsupport.ZipFile{Name: "creatives/banner_300x250.jpg", Body: "jpeg-bytes"},
		testsupport.ZipFile{Name: "banner_728x90.png", Body: "png-bytes"},
		testsupport.ZipFile{Name: "README", Body: "notes"},
	)

	a, err := OpenBytes(context.Background(), data, OpenOptions{})
	require.NoError(t, err)
	require.Equal(t, 3, a.Len())

	entries := a.Entries()
	assert.Equal(t, "creatives/banner_300x250.jpg", entries[0].Path)
	assert.Equal(t, "banner_300x250", entries[0].Stem)
	assert.Equal(t, ".jpg", entries[0].Extension)
	assert.Equal(t, int64(len("jpeg-bytes")), entries[0].Size)
	assert.Equal(t, 0, entries[0].Index)

	assert.Equal(t, "banner_728x90", entries[1].Stem)
	assert.Equal(t, 1, entries[1].Index)

	assert.Equal(t, "README", entries[2].Stem)
	assert.Equal(t, "", entries[2].Extension)

	assert.Empty(t, a.Failed())
}

func TestOpenBytes_InvalidContainer(t *testing.T) {
	_, err := OpenBytes(context.Background(), []byte("definitely not a zip"), OpenOptions{})
	assert.ErrorIs(t, err, ErrInvalidArchive)
}

func TestOpenBytes_EmptyArchive(t *testing.T) {
	data := testsupport.BuildZip(t)

	a, err := OpenBytes(context.Background(), data, OpenOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, a.Len())
}

func TestOpenBytes_MarksCorruptEntry(t *testing.T) {
	data := testsupport.BuildZip(t,
		testsupport.ZipFile{Name: "good.jpg", Body: "good-payload", Stored: true},
		testsupport.ZipFile{Name: "bad.jpg", Body: "broken-payload", Stored: true},
	)
	data = testsupport.CorruptStored(t, data, "broken-payload")

	a, err := OpenBytes(context.Background(), data, OpenOptions{Workers: 2})
	require.NoError(t, err)
	require.Equal(t, 2, a.Len())

	good := a.Entry(0)
	bad := a.Entry(1)
	assert.False(t, good.Failed())
	assert.True(t, bad.Failed())
	assert.ErrorIs(t, bad.Err, zip.ErrChecksum)
	assert.NotEmpty(t, bad.ErrorMessage())
	assert.Len(t, a.Failed(), 1)
}

func TestOpenBytes_AllEntriesFailed(t *testing.T) {
	data := testsupport.BuildZip(t,
		testsupport.ZipFile{Name: "only.jpg", Body: "single-payload", Stored: true},
	)
	data = testsupport.CorruptStored(t, data, "single-payload")

	_, err := OpenBytes(context.Background(), data, OpenOptions{})
	assert.ErrorIs(t, err, ErrAllEntriesFailed)
}

func TestOpenBytes_SkipVerifyKeepsCorruptEntries(t *testing.T) {
	data := testsupport.BuildZip(t,
		testsupport.ZipFile{Name: "only.jpg", Body: "single-payload", Stored: true},
	)
	data = testsupport.CorruptStored(t, data, "single-payload")

	a, err := OpenBytes(context.Background(), data, OpenOptions{SkipVerify: true})
	require.NoError(t, err)
	assert.Empty(t, a.Failed())
}

func TestOpenBytes_EntryTooLarge(t *testing.T) {
	data := testsupport.BuildZip(t,
		testsupport.ZipFile{Name: "small.txt", Body: "ok"},
		testsupport.ZipFile{Name: "big.txt", Body: "this body is longer than the limit"},
	)

	a, err := OpenBytes(context.Background(), data, OpenOptions{MaxEntrySize: 8})
	require.NoError(t, err)

	big, ok := a.Lookup("big.txt")
	require.True(t, ok)
	assert.ErrorIs(t, big.Err, ErrEntryTooLarge)

	small, ok := a.Lookup("small.txt")
	require.True(t, ok)
	assert.False(t, small.Failed())
}

func TestOpenBytes_Cancelled(t *testing.T) {
	data := testsupport.BuildZip(t, testsupport.ZipFile{Name: "a.txt", Body: "a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := OpenBytes(ctx, data, OpenOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenFile(t *testing.T) {
	data := testsupport.BuildZip(t, testsupport.ZipFile{Name: "a.txt", Body: "a"})
	path := filepath.Join(t.TempDir(), "in.zip")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	a, err := OpenFile(context.Background(), path, OpenOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, a.Len())

	_, err = OpenFile(context.Background(), filepath.Join(t.TempDir(), "missing.zip"), OpenOptions{})
	assert.Error(t, err)
}

func TestEntry_ReadAllAndStream(t *testing.T) {
	data := testsupport.BuildZip(t, testsupport.ZipFile{Name: "a.txt", Body: "hello creative"})

	a, err := OpenBytes(context.Background(), data, OpenOptions{})
	require.NoError(t, err)

	e := a.Entry(0)
	payload, err := e.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "hello creative", string(payload))

	var buf bytes.Buffer
	n, err := e.StreamTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len("hello creative")), n)
	assert.Equal(t, "hello creative", buf.String())
}

func TestEntry_CopyRawToPreservesPayload(t *testing.T) {
	data := testsupport.BuildZip(t,
		testsupport.ZipFile{Name: "deep/banner_300x250.jpg", Body: "compressed creative payload payload payload"},
		testsupport.ZipFile{Name: "stored.png", Body: "stored-bytes", Stored: true},
	)

	a, err := OpenBytes(context.Background(), data, OpenOptions{})
	require.NoError(t, err)

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	require.NoError(t, a.Entry(0).CopyRawTo(zw, "Renamed_300x250.jpg"))
	require.NoError(t, a.Entry(1).CopyRawTo(zw, "Renamed.png"))
	require.NoError(t, zw.Close())

	src, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	dst, err := zip.NewReader(bytes.NewReader(out.Bytes()), int64(out.Len()))
	require.NoError(t, err)
	require.Len(t, dst.File, 2)

	assert.Equal(t, "Renamed_300x250.jpg", dst.File[0].Name)
	assert.Equal(t, "Renamed.png", dst.File[1].Name)

	for i := range dst.File {
		assert.Equal(t, src.File[i].Method, dst.File[i].Method)
		assert.Equal(t, src.File[i].CRC32, dst.File[i].CRC32)
		assert.Equal(t, src.File[i].UncompressedSize64, dst.File[i].UncompressedSize64)

		want := readZipFile(t, src.File[i])
		got := readZipFile(t, dst.File[i])
		assert.Equal(t, want, got)
	}
}

func readZipFile(t *testing.T, f *zip.File) []byte {
	t.Helper()

	rc, err := f.Open()
	require.NoError(t, err)
	defer rc.Close()

	payload, err := io.ReadAll(rc)
	require.NoError(t, err)
	return payload
}
