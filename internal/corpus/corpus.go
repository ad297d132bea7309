package corpus

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
)

// ErrNoSources is returned by Generator.Pick when no corpus is registered.
var ErrNoSources = fmt.Errorf("no generator sources registered")

// Corpus is an immutable ordered sequence of candidate sentences.
type Corpus struct {
	origin string
	lines  []string
}

// Load reads a plain-text corpus, one candidate sentence per line. Invalid
// byte sequences are dropped rather than failing the file; blank lines are
// skipped. A corpus that ends up with zero usable lines is rejected.
func Load(path string) (*Corpus, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus %s: %w", path, err)
	}
	defer file.Close()

	return New(path, file)
}

// New builds a corpus from a reader, keyed by origin.
func New(origin string, r io.Reader) (*Corpus, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		// Drop invalid UTF-8 bytes instead of rejecting the whole file.
		line := strings.TrimSpace(string(bytes.ToValidUTF8(scanner.Bytes(), nil)))
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read corpus %s: %w", origin, err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("corpus %s has no usable lines", origin)
	}

	return &Corpus{origin: origin, lines: lines}, nil
}

// Origin returns the identifier the corpus was loaded from.
func (c *Corpus) Origin() string { return c.origin }

// Len returns the number of candidate sentences.
func (c *Corpus) Len() int { return len(c.lines) }

// Line returns the sentence at index i.
func (c *Corpus) Line(i int) string { return c.lines[i] }

// Generator picks prompt sentences from a set of registered corpora.
//
// Selection is two-stage uniform: first a corpus is chosen uniformly at
// random among all registered sources, then a line uniformly within it.
// With unequally sized corpora this is NOT uniform over the union of all
// lines; the bias is deliberate and kept.
type Generator struct {
	sources []*Corpus
	intn    func(n int) int
}

// NewGenerator creates an empty generator.
func NewGenerator() *Generator {
	return &Generator{intn: rand.Intn}
}

// Add registers a corpus. Adding a source whose origin is already
// registered is a no-op.
func (g *Generator) Add(c *Corpus) {
	for _, s := range g.sources {
		if s.origin == c.origin {
			return
		}
	}
	g.sources = append(g.sources, c)
}

// Remove unregisters the corpus with the given origin, if present.
func (g *Generator) Remove(origin string) {
	for i, s := range g.sources {
		if s.origin == origin {
			g.sources = append(g.sources[:i], g.sources[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered sources.
func (g *Generator) Len() int { return len(g.sources) }

// Pick returns a randomly selected sentence, or ErrNoSources when no
// corpus is registered.
func (g *Generator) Pick() (string, error) {
	if len(g.sources) == 0 {
		return "", ErrNoSources
	}
	src := g.sources[g.intn(len(g.sources))]
	return src.lines[g.intn(src.Len())], nil
}
