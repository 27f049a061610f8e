package cover

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// BerrySymbol marks an occupied cell in the plain-text instance format.
const BerrySymbol = '@'

// ErrEmptyInstance indicates an instance with no lines at all.
var ErrEmptyInstance = errors.New("empty problem instance")

// ParseInstance builds a field from the textual instance format: the first
// line is the maximum greenhouse count, the remaining lines are grid rows in
// which BerrySymbol denotes an occupied cell and any other character an
// empty one. The grid's column count is the longest row's length.
func ParseInstance(lines []string) (*Field, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyInstance
	}
	maxGreenhouses, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return nil, fmt.Errorf("ParseInstance: bad greenhouse count %q: %w", lines[0], err)
	}

	grid := lines[1:]
	numCols := 0
	var points []Point
	for row, line := range grid {
		if len(line) > numCols {
			numCols = len(line)
		}
		for col, c := range line {
			if c == BerrySymbol {
				points = append(points, Point{Row: row, Col: col})
			}
		}
	}
	return NewField(len(grid), numCols, maxGreenhouses, points)
}

// ReadProblems splits a batch stream into instances. Instances are separated
// by blank lines; leading and trailing whitespace on each line is trimmed.
func ReadProblems(r io.Reader) ([][]string, error) {
	var problems [][]string
	var buf []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			if len(buf) > 0 {
				problems = append(problems, buf)
				buf = nil
			}
			continue
		}
		buf = append(buf, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ReadProblems: %w", err)
	}
	if len(buf) > 0 {
		problems = append(problems, buf)
	}
	return problems, nil
}
