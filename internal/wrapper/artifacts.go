package wrapper

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// timestampLayout is the per-line stamp written into the artifacts.
	timestampLayout = "2006-01-02 15:04:05"
	// nameLayout is the second-resolution timestamp embedded in artifact names.
	nameLayout = "20060102_150405"

	outputExt  = ".log"
	errorExt   = ".err"
	summaryExt = ".summary"
)

// ArtifactSet holds the three per-invocation artifacts: the output log, the
// error log, and the summary. One invocation owns its set exclusively; two
// invocations starting within the same second under the same prefix and tag
// would collide, which is the caller's responsibility to avoid.
type ArtifactSet struct {
	Name        string
	OutputPath  string
	ErrorPath   string
	SummaryPath string

	outFile *os.File
	errFile *os.File

	Stdout *lineWriter
	Stderr *lineWriter
}

// ArtifactName builds the shared base name {prefix}[_{tag}]_{timestamp}.
func ArtifactName(prefix, tag string, t time.Time) string {
	name := sanitizeSegment(prefix)
	if tag != "" {
		name += "_" + sanitizeSegment(tag)
	}
	return name + "_" + t.Format(nameLayout)
}

// OpenArtifacts creates the log directory if needed and opens the output and
// error artifacts. echoOut/echoErr mirror lines to the console and may be nil.
func OpenArtifacts(dir, prefix, tag string, t time.Time, echoOut, echoErr io.Writer) (*ArtifactSet, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	name := ArtifactName(prefix, tag, t)
	set := &ArtifactSet{
		Name:        name,
		OutputPath:  filepath.Join(dir, name+outputExt),
		ErrorPath:   filepath.Join(dir, name+errorExt),
		SummaryPath: filepath.Join(dir, name+summaryExt),
	}

	outFile, err := os.Create(set.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output log %s: %w", set.OutputPath, err)
	}
	errFile, err := os.Create(set.ErrorPath)
	if err != nil {
		outFile.Close()
		return nil, fmt.Errorf("failed to create error log %s: %w", set.ErrorPath, err)
	}

	set.outFile = outFile
	set.errFile = errFile
	set.Stdout = newLineWriter(outFile, echoOut, "")
	set.Stderr = newLineWriter(errFile, echoErr, "ERROR: ")

	return set, nil
}

// Close flushes any trailing partial lines and closes both stream files.
func (s *ArtifactSet) Close() error {
	var firstErr error
	if s.Stdout != nil {
		if err := s.Stdout.Flush(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.Stderr != nil {
		if err := s.Stderr.Flush(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.outFile != nil {
		if err := s.outFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.errFile != nil {
		if err := s.errFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// RemoveErrorIfEmpty deletes the error artifact when the wrapped command
// produced no stderr. Must be called after Close.
func (s *ArtifactSet) RemoveErrorIfEmpty() {
	info, err := os.Stat(s.ErrorPath)
	if err != nil || info.Size() > 0 {
		return
	}
	_ = os.Remove(s.ErrorPath)
}

// lineWriter stamps every complete line with the wall-clock time it was seen
// and appends it to the artifact file. An optional echo writer mirrors the
// raw line to the console, prefixed with a stream marker. Partial lines are
// buffered until the next newline or Flush.
type lineWriter struct {
	dst    io.Writer
	echo   io.Writer
	marker string
	now    func() time.Time
	buf    bytes.Buffer
	lines  int
}

func newLineWriter(dst, echo io.Writer, marker string) *lineWriter {
	return &lineWriter{dst: dst, echo: echo, marker: marker, now: time.Now}
}

// Write implements io.Writer
func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		data := w.buf.Bytes()
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			break
		}
		line := string(data[:idx])
		w.buf.Next(idx + 1)
		if err := w.emit(line); err != nil {
			return len(p), err
		}
	}
	return len(p), nil
}

// Flush writes any trailing unterminated line as a full line.
func (w *lineWriter) Flush() error {
	if w.buf.Len() == 0 {
		return nil
	}
	line := w.buf.String()
	w.buf.Reset()
	return w.emit(line)
}

// Lines returns the number of lines written so far.
func (w *lineWriter) Lines() int {
	return w.lines
}

func (w *lineWriter) emit(line string) error {
	stamp := w.now().Format(timestampLayout)
	if _, err := fmt.Fprintf(w.dst, "[%s] %s\n", stamp, line); err != nil {
		return err
	}
	if w.echo != nil {
		fmt.Fprintf(w.echo, "%s%s\n", w.marker, line)
	}
	w.lines++
	return nil
}

// sanitizeSegment keeps prefix/tag values safe for use in file names.
func sanitizeSegment(value string) string {
	if value == "" {
		return "unknown"
	}

	var b strings.Builder
	b.Grow(len(value))
	for _, ch := range value {
		isLower := ch >= 'a' && ch <= 'z'
		isUpper := ch >= 'A' && ch <= 'Z'
		isDigit := ch >= '0' && ch <= '9'
		if isLower || isUpper || isDigit || ch == '-' || ch == '.' {
			b.WriteRune(ch)
			continue
		}
		b.WriteByte('-')
	}
	result := strings.Trim(b.String(), "-.")
	if result == "" {
		return "unknown"
	}
	return result
}
