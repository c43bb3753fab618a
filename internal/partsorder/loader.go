package partsorder

import (
	"bufio"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Dataset binds a parsed record collection with its load timestamp. The
// timestamp drives cache-age decisions downstream.
type Dataset struct {
	Records  []Record  `json:"records"`
	LoadedAt time.Time `json:"loadedAt"`
}

// Loader reads the delimited feed and produces a Dataset.
type Loader struct {
	parser *Parser
	now    func() time.Time
}

// NewLoader creates a Loader using the given parser. A nil parser gets
// the standard schema defaults.
func NewLoader(parser *Parser) *Loader {
	if parser == nil {
		parser = NewParser()
	}
	return &Loader{parser: parser, now: time.Now}
}

// LoadFile loads the feed at path. A missing or unreadable file degrades
// to an empty Dataset; callers always get a usable value.
func (l *Loader) LoadFile(path string) Dataset {
	f, err := os.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Parts feed unavailable, serving empty dataset")
		return Dataset{Records: []Record{}, LoadedAt: l.now()}
	}
	defer f.Close()

	return l.Load(f)
}

// Load parses the feed from r. The first line is the header and is
// skipped. Data lines are parsed in parallel chunks; row order is
// preserved in the output. Rows failing the minimum-field check are
// dropped and counted, never raised.
func (l *Loader) Load(r io.Reader) Dataset {
	lines := readLines(r)
	if len(lines) <= 1 {
		return Dataset{Records: []Record{}, LoadedAt: l.now()}
	}
	lines = lines[1:] // header

	workers := runtime.GOMAXPROCS(0)
	if workers > len(lines) {
		workers = len(lines)
	}

	// Each worker fills its own slot so reassembly keeps input order.
	chunks := make([][]Record, workers)
	dropped := make([]int, workers)
	chunkSize := (len(lines) + workers - 1) / workers

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w // per-iteration copy; required under the go 1.21 language version
		start := w * chunkSize
		end := start + chunkSize
		if end > len(lines) {
			end = len(lines)
		}
		if start >= end {
			break
		}
		g.Go(func() error {
			out := make([]Record, 0, end-start)
			for _, line := range lines[start:end] {
				if line == "" {
					continue
				}
				rec, ok := l.parser.ParseLine(line)
				if !ok {
					dropped[w]++
					continue
				}
				out = append(out, rec)
			}
			chunks[w] = out
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; drops are counted instead

	var records []Record
	droppedTotal := 0
	for w := 0; w < workers; w++ {
		records = append(records, chunks[w]...)
		droppedTotal += dropped[w]
	}
	if records == nil {
		records = []Record{}
	}

	if droppedTotal > 0 {
		log.Debug().Int("dropped", droppedTotal).Int("loaded", len(records)).Msg("Dropped malformed feed rows")
	}

	return Dataset{Records: records, LoadedAt: l.now()}
}

func readLines(r io.Reader) []string {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		log.Warn().Err(err).Msg("Feed read interrupted, keeping rows read so far")
	}
	return lines
}
