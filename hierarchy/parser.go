package hierarchy

import (
	"bufio"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// ParseEdges reads "parent child" lines.
//
// Lines that do not contain exactly two whitespace-separated tokens are skipped.
// Only read errors are returned.
func ParseEdges(r io.Reader) ([]Edge, error) {
	var edges []Edge
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			continue
		}
		edges = append(edges, Edge{Parent: ClassID(fields[0]), Child: ClassID(fields[1])})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read hierarchy edges")
	}
	return edges, nil
}

// ParseNames reads "id name" lines where the name is the rest of the line.
//
// Lines without both an id and a name are skipped.
func ParseNames(r io.Reader) ([]Name, error) {
	var names []Name
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		i := strings.IndexFunc(line, unicode.IsSpace)
		if i < 0 {
			continue
		}
		name := strings.TrimSpace(line[i:])
		if name == "" {
			continue
		}
		names = append(names, Name{ID: ClassID(line[:i]), Name: name})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read class names")
	}
	return names, nil
}

// ReadEdgesFile parses the hierarchy edge file at path.
func ReadEdgesFile(path string) ([]Edge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open hierarchy file %s", path)
	}
	defer f.Close()

	edges, err := ParseEdges(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parse hierarchy file %s", path)
	}
	return edges, nil
}

// ReadNamesFile parses the id-to-name file at path.
func ReadNamesFile(path string) ([]Name, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open names file %s", path)
	}
	defer f.Close()

	names, err := ParseNames(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parse names file %s", path)
	}
	return names, nil
}

// LoadFiles builds a hierarchy from an edge file and an optional names file.
//
// An empty namesPath leaves every class resolving to UnknownName.
func LoadFiles(edgesPath, namesPath string) (*Hierarchy, error) {
	edges, err := ReadEdgesFile(edgesPath)
	if err != nil {
		return nil, err
	}

	h := New()
	h.LoadEdges(edges)

	if namesPath == "" {
		return h, nil
	}
	names, err := ReadNamesFile(namesPath)
	if err != nil {
		return nil, err
	}
	h.LoadNames(names)
	return h, nil
}
