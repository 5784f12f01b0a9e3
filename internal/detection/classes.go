package detection

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Classes is the ordered class-name list the network was trained on.
type Classes []string

// LoadClasses reads a newline-delimited class list from path.
func LoadClasses(path string) (Classes, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "can't open class list")
	}
	defer f.Close()

	classes, err := ReadClasses(f)
	if err != nil {
		return nil, errors.Wrapf(err, "can't read class list %s", path)
	}
	return classes, nil
}

// ReadClasses reads one class name per line, trimming surrounding whitespace.
func ReadClasses(r io.Reader) (Classes, error) {
	var classes Classes
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		classes = append(classes, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	// A trailing blank line is not a class.
	for len(classes) > 0 && classes[len(classes)-1] == "" {
		classes = classes[:len(classes)-1]
	}
	return classes, nil
}

// Label resolves a class id; ids outside the list become "unknown<id>".
func (c Classes) Label(classID int) string {
	if classID >= 0 && classID < len(c) {
		return c[classID]
	}
	return fmt.Sprintf("unknown%d", classID)
}

// RGB is one colour of a ClassColorTable.
type RGB struct {
	R, G, B uint8
}

// ColorTable assigns a colour to every class id. Only used for annotation.
type ColorTable []RGB

// NewColorTable draws n uniformly distributed colours from a fixed seed so the
// same class list always maps to the same colours.
func NewColorTable(n int) ColorTable {
	rng := rand.New(rand.NewPCG(uint64(n), 0x9e3779b97f4a7c15))
	table := make(ColorTable, n)
	for i := range table {
		table[i] = RGB{
			R: uint8(rng.IntN(256)),
			G: uint8(rng.IntN(256)),
			B: uint8(rng.IntN(256)),
		}
	}
	return table
}

// Color returns the colour for classID, or white when out of range.
func (t ColorTable) Color(classID int) RGB {
	if classID >= 0 && classID < len(t) {
		return t[classID]
	}
	return RGB{R: 255, G: 255, B: 255}
}
