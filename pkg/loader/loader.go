package loader

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"golang.org/x/exp/mmap"

	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/metrics"
)

// Format names a fixture encoding
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
)

// CompressedSuffix marks snappy-compressed fixture files
const CompressedSuffix = ".sz"

// Options configures file loading
type Options struct {
	Logger  logging.Logger    // nil = silent
	Metrics *metrics.Registry // nil = not recorded
}

// DefaultOptions returns loader options with logging and metrics disabled
func DefaultOptions() Options {
	return Options{}
}

// ParseFormat maps a format name to a Format
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "text", "txt":
		return FormatText, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// DetectFormat infers the fixture format from a file name. A trailing .sz
// means the payload is snappy-compressed.
func DetectFormat(path string) (format Format, compressed bool, err error) {
	name := strings.ToLower(filepath.Base(path))
	if strings.HasSuffix(name, CompressedSuffix) {
		compressed = true
		name = strings.TrimSuffix(name, CompressedSuffix)
	}

	switch filepath.Ext(name) {
	case ".yaml", ".yml":
		return FormatYAML, compressed, nil
	case ".txt", ".graph", "":
		return FormatText, compressed, nil
	default:
		return "", compressed, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Load parses an uncompressed fixture from r
func Load(r io.Reader, format Format) (*Fixture, error) {
	switch format {
	case FormatText:
		return parseText(r)
	case FormatYAML:
		return parseYAML(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// LoadCompressed parses a snappy block-compressed fixture
func LoadCompressed(data []byte, format Format) (*Fixture, error) {
	decoded, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress fixture: %w", err)
	}
	return Load(bytes.NewReader(decoded), format)
}

// LoadFile loads a fixture file with default options
func LoadFile(path string) (*Fixture, error) {
	return LoadFileWithOptions(path, DefaultOptions())
}

// LoadFileWithOptions memory-maps path and parses it in the format implied
// by its name.
func LoadFileWithOptions(path string, opts Options) (*Fixture, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.With(logging.Component("loader"), logging.Path(path))

	format, compressed, err := DetectFormat(path)
	if err != nil {
		recordLoad(opts.Metrics, "unknown", "error", nil)
		return nil, err
	}

	timer := logging.StartTimer(logger, "fixture loaded",
		logging.String("format", string(format)),
		logging.Bool("compressed", compressed))

	fx, err := readFile(path, format, compressed)
	if err != nil {
		timer.EndError(err)
		recordLoad(opts.Metrics, string(format), "error", nil)
		return nil, err
	}

	timer.End(
		logging.Int("nodes", fx.NodeCount()),
		logging.Int("edges", fx.EdgeCount()))
	recordLoad(opts.Metrics, string(format), "success", fx)

	return fx, nil
}

func readFile(path string, format Format, compressed bool) (*Fixture, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	if !compressed {
		return Load(io.NewSectionReader(reader, 0, int64(reader.Len())), format)
	}

	data := make([]byte, reader.Len())
	if _, err := reader.ReadAt(data, 0); err != nil && err != io.EOF {
		return nil, err
	}
	return LoadCompressed(data, format)
}

func recordLoad(registry *metrics.Registry, format, status string, fx *Fixture) {
	if registry == nil {
		return
	}
	nodes, edges := 0, 0
	if fx != nil {
		nodes, edges = fx.NodeCount(), fx.EdgeCount()
	}
	registry.RecordGraphLoad(format, status, nodes, edges)
}

// Write encodes fx in the given format
func Write(w io.Writer, fx *Fixture, format Format) error {
	switch format {
	case FormatText:
		return writeText(w, fx)
	case FormatYAML:
		return writeYAML(w, fx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// SaveFile writes fx to path in the format implied by its name, compressing
// it when the name ends in .sz.
func SaveFile(path string, fx *Fixture) error {
	format, compressed, err := DetectFormat(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Write(&buf, fx, format); err != nil {
		return err
	}

	data := buf.Bytes()
	if compressed {
		data = snappy.Encode(nil, data)
	}
	return os.WriteFile(path, data, 0o644)
}
