package meetcode

import (
	"crypto/rand"
	"io"
	"regexp"
	"strings"

	"mentor-booking/internal/pkg/errs"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// largest multiple of len(alphabet) that fits in a byte; bytes above it are rejected to keep letters uniform
const rejectAbove = 256 - 256%len(alphabet)

var (
	// Pattern is the shape of every generated code: xxx-xxxx-xxx
	Pattern = regexp.MustCompile(`^[a-z]{3}-[a-z]{4}-[a-z]{3}$`)

	groupLengths = []int{3, 4, 3}
)

// Generator produces opaque meeting-join codes and links.
// Uniqueness is probabilistic: 26^10 combinations, no lookup against issued codes.
type Generator struct {
	baseURL string
	random  io.Reader
}

func NewGenerator(baseURL string) *Generator {
	return &Generator{
		baseURL: strings.TrimRight(baseURL, "/"),
		random:  rand.Reader,
	}
}

// NewGeneratorWithSource is used by tests to make codes deterministic.
func NewGeneratorWithSource(baseURL string, random io.Reader) *Generator {
	g := NewGenerator(baseURL)
	g.random = random
	return g
}

func (g *Generator) NewCode() (string, error) {
	var sb strings.Builder
	sb.Grow(12)
	buf := make([]byte, 1)

	for i, n := range groupLengths {
		if i > 0 {
			sb.WriteByte('-')
		}
		for written := 0; written < n; {
			if _, err := io.ReadFull(g.random, buf); err != nil {
				return "", errs.Wrap(err, "read random source")
			}
			if int(buf[0]) >= rejectAbove {
				continue
			}
			sb.WriteByte(alphabet[int(buf[0])%len(alphabet)])
			written++
		}
	}

	return sb.String(), nil
}

func (g *Generator) JoinURL(code string) string {
	return g.baseURL + "/" + code
}
