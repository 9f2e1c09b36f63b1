package scene

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// ErrMalformedLine is returned for a line whose fields cannot be parsed.
var ErrMalformedLine = errors.New("scene: malformed line")

type line struct {
	num    int
	fields []string
}

// sectionLines groups the lines of a section file by their section name.
// Sections open with a bare name and close with "end". Comments start with
// '#' and blank lines are skipped.
func sectionLines(r io.Reader) (map[string][]line, error) {
	sections := make(map[string][]line)
	current := ""
	open := false

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	num := 0
	for sc.Scan() {
		num++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if !open {
			current = strings.ToLower(text)
			open = true
			if _, ok := sections[current]; !ok {
				sections[current] = nil
			}
			continue
		}
		if strings.EqualFold(text, "end") {
			open = false
			continue
		}
		sections[current] = append(sections[current], line{num: num, fields: splitFields(text)})
	}
	if err := sc.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, "scene: read")
	}
	return sections, nil
}

// splitFields splits on whitespace and commas.
func splitFields(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

// fieldParser converts the fields of one line, keeping the first error.
type fieldParser struct {
	l   line
	err error
}

func (p *fieldParser) fail(i int, what string) {
	if p.err == nil {
		p.err = pkgerrors.Wrapf(ErrMalformedLine, "line %d field %d: %s", p.l.num, i+1, what)
	}
}

func (p *fieldParser) str(i int) string {
	if i >= len(p.l.fields) {
		p.fail(i, "missing")
		return ""
	}
	return p.l.fields[i]
}

func (p *fieldParser) integer(i int) int {
	s := p.str(i)
	if p.err != nil {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		p.fail(i, "not an integer: "+strconv.Quote(s))
	}
	return v
}

func (p *fieldParser) unsigned(i int) uint32 {
	s := p.str(i)
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		p.fail(i, "not an unsigned integer: "+strconv.Quote(s))
	}
	return uint32(v)
}

func (p *fieldParser) number(i int) float32 {
	s := p.str(i)
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		p.fail(i, "not a number: "+strconv.Quote(s))
	}
	return float32(v)
}
