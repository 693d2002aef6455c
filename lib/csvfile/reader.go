package csvfile

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Opener returns a fresh stream for a path.
type Opener func(ctx context.Context, path string) (io.ReadCloser, error)

func OpenLocal(_ context.Context, path string) (io.ReadCloser, error) {
	return os.Open(path)
}

type multiCloser struct {
	io.Reader
	closers []io.Closer
}

func (m multiCloser) Close() error {
	var errs []error
	for _, closer := range m.closers {
		errs = append(errs, closer.Close())
	}
	return errors.Join(errs...)
}

// OpenDecompressed opens the file, transparently decompressing gzip.
func OpenDecompressed(ctx context.Context, file File, open Opener) (io.ReadCloser, error) {
	rc, err := open(ctx, file.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", file.Path, err)
	}

	if !file.IsGzip() {
		return rc, nil
	}

	gzipReader, err := gzip.NewReader(rc)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("failed to read gzip stream for %q: %w", file.Path, err)
	}

	return multiCloser{Reader: gzipReader, closers: []io.Closer{gzipReader, rc}}, nil
}

type recordReader interface {
	Read() ([]string, error)
}

// Reader iterates over the rows of a file, one field list at a time. [Reader.Rewind] starts over from the first line.
type Reader struct {
	ctx     context.Context
	file    File
	open    Opener
	current io.ReadCloser
	records recordReader
}

func NewReader(ctx context.Context, file File, open Opener) (*Reader, error) {
	reader := &Reader{ctx: ctx, file: file.WithDefaults(), open: open}
	if err := reader.Rewind(); err != nil {
		return nil, err
	}
	return reader, nil
}

func (r *Reader) Rewind() error {
	if err := r.Close(); err != nil {
		return err
	}

	rc, err := OpenDecompressed(r.ctx, r.file, r.open)
	if err != nil {
		return err
	}

	r.current = rc
	// Unenclosed files go through the splitter so quotes stay literal.
	if r.file.EscapeChar == "" && r.file.Enclosure == DefaultEnclosure && isStandardLineBreak(r.file.LineBreak) {
		csvReader := csv.NewReader(rc)
		csvReader.Comma = []rune(r.file.Delimiter)[0]
		csvReader.FieldsPerRecord = -1
		r.records = csvReader
	} else {
		r.records = newSplitter(rc, r.file)
	}
	return nil
}

func isStandardLineBreak(lineBreak string) bool {
	return lineBreak == "\n" || lineBreak == "\r\n"
}

// Next returns [io.EOF] once every row has been read.
func (r *Reader) Next() ([]string, error) {
	if r.records == nil {
		return nil, fmt.Errorf("reader is closed")
	}
	return r.records.Read()
}

func (r *Reader) Close() error {
	if r.current == nil {
		return nil
	}

	err := r.current.Close()
	r.current = nil
	r.records = nil
	return err
}

// ReadHeader returns the first row of the file.
func ReadHeader(ctx context.Context, file File, open Opener) ([]string, error) {
	reader, err := NewReader(ctx, file, open)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	header, err := reader.Next()
	if errors.Is(err, io.EOF) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read header of %q: %w", file.Basename(), err)
	}

	for i := range header {
		header[i] = strings.TrimPrefix(header[i], "\ufeff")
	}
	return header, nil
}

// splitter handles what encoding/csv cannot: escape characters, custom enclosures and line breaks.
type splitter struct {
	scanner   *bufio.Scanner
	delimiter rune
	enclosure rune
	escape    rune
	lineBreak string
}

func newSplitter(r io.Reader, file File) *splitter {
	s := &splitter{
		scanner:   bufio.NewScanner(r),
		delimiter: []rune(file.Delimiter)[0],
		lineBreak: file.LineBreak,
	}
	if file.Enclosure != "" {
		s.enclosure = []rune(file.Enclosure)[0]
	}
	if file.EscapeChar != "" {
		s.escape = []rune(file.EscapeChar)[0]
	}

	s.scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	s.scanner.Split(func(data []byte, atEOF bool) (int, []byte, error) {
		if idx := strings.Index(string(data), s.lineBreak); idx >= 0 {
			return idx + len(s.lineBreak), data[:idx], nil
		}
		if atEOF && len(data) > 0 {
			return len(data), data, nil
		}
		return 0, nil, nil
	})
	return s
}

func (s *splitter) Read() ([]string, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}

	line := s.scanner.Text()
	var fields []string
	var field strings.Builder
	var enclosed, escaped bool
	for {
		runes := []rune(line)
		for i := 0; i < len(runes); i++ {
			char := runes[i]
			switch {
			case escaped:
				field.WriteRune(char)
				escaped = false
			case s.escape != 0 && char == s.escape:
				escaped = true
			case s.enclosure != 0 && char == s.enclosure:
				if enclosed && i+1 < len(runes) && runes[i+1] == s.enclosure {
					field.WriteRune(char)
					i++
				} else {
					enclosed = !enclosed
				}
			case char == s.delimiter && !enclosed:
				fields = append(fields, field.String())
				field.Reset()
			default:
				field.WriteRune(char)
			}
		}

		if !enclosed && !escaped {
			break
		}

		// The field continues on the next line.
		if !s.scanner.Scan() {
			return nil, fmt.Errorf("unterminated field at end of file")
		}
		field.WriteString(s.lineBreak)
		escaped = false
		line = s.scanner.Text()
	}

	return append(fields, field.String()), nil
}
