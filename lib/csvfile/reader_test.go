package csvfile

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, contents string) string {
	fp := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(fp, []byte(contents), 0o600))
	return fp
}

func readAll(t *testing.T, reader *Reader) [][]string {
	var rows [][]string
	for {
		row, err := reader.Next()
		if err == io.EOF {
			return rows
		}
		require.NoError(t, err)
		rows = append(rows, row)
	}
}

func TestReader_Standard(t *testing.T) {
	fp := writeFile(t, "orders.csv", "id,name\n1,\"hello, world\"\n2,\"say \"\"hi\"\"\"\n")

	reader, err := NewReader(t.Context(), New(fp), OpenLocal)
	require.NoError(t, err)
	defer reader.Close()

	expected := [][]string{{"id", "name"}, {"1", "hello, world"}, {"2", `say "hi"`}}
	assert.Equal(t, expected, readAll(t, reader))

	// Rewinding starts over
	require.NoError(t, reader.Rewind())
	assert.Equal(t, expected, readAll(t, reader))
}

func TestReader_EscapeCharacter(t *testing.T) {
	fp := writeFile(t, "orders.tsv", "id\tnote\n1\tline\\\tone\n2\tbroken\\\nline\n")

	reader, err := NewReader(t.Context(), File{Path: fp, Delimiter: "\t", EscapeChar: `\`}, OpenLocal)
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, [][]string{{"id", "note"}, {"1", "line\tone"}, {"2", "broken\nline"}}, readAll(t, reader))
}

func TestReader_CustomEnclosureAndLineBreak(t *testing.T) {
	fp := writeFile(t, "orders.csv", "id;note|1;'it''s; fine'|")

	reader, err := NewReader(t.Context(), File{Path: fp, Delimiter: ";", Enclosure: "'", LineBreak: "|"}, OpenLocal)
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, [][]string{{"id", "note"}, {"1", "it's; fine"}}, readAll(t, reader))
}

func TestReader_NoEnclosure(t *testing.T) {
	fp := writeFile(t, "orders.csv", "\"id,name\n1,say \"hi\"\n2,\"a,b\"\n")

	reader, err := NewReader(t.Context(), File{Path: fp, NoEnclosure: true}, OpenLocal)
	require.NoError(t, err)
	defer reader.Close()

	assert.IsType(t, &splitter{}, reader.records)
	assert.Equal(t, [][]string{{`"id`, "name"}, {"1", `say "hi"`}, {"2", `"a`, `b"`}}, readAll(t, reader))
}

func TestReader_Gzip(t *testing.T) {
	fp := filepath.Join(t.TempDir(), "orders.csv.gz")
	file, err := os.Create(fp)
	require.NoError(t, err)
	gzipWriter := gzip.NewWriter(file)
	_, err = gzipWriter.Write([]byte("id,name\n1,a\n"))
	require.NoError(t, err)
	require.NoError(t, gzipWriter.Close())
	require.NoError(t, file.Close())

	reader, err := NewReader(t.Context(), New(fp), OpenLocal)
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, [][]string{{"id", "name"}, {"1", "a"}}, readAll(t, reader))
}

func TestReadHeader(t *testing.T) {
	{
		fp := writeFile(t, "orders.csv", "\ufeffid,name\n1,a\n")
		header, err := ReadHeader(t.Context(), New(fp), OpenLocal)
		assert.NoError(t, err)
		assert.Equal(t, []string{"id", "name"}, header)
	}
	{
		// Empty file
		fp := writeFile(t, "empty.csv", "")
		header, err := ReadHeader(t.Context(), New(fp), OpenLocal)
		assert.NoError(t, err)
		assert.Nil(t, header)
	}
	{
		// Missing file
		_, err := ReadHeader(t.Context(), New(filepath.Join(t.TempDir(), "missing.csv")), OpenLocal)
		assert.ErrorContains(t, err, "failed to open")
	}
}
