// Package region resolves human-readable location names to search API area ids.
package region

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/rsilvagit/hh-export/internal/model"
)

// ErrUnknownLocation is returned when a name is not in the directory.
var ErrUnknownLocation = errors.New("unknown location")

// ID is an area id; the API sends it as a string, the static table as a number.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("region: area id %s: %w", b, err)
	}
	*id = ID(n)
	return nil
}

// Node is one entry of the area tree returned by the API.
type Node struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Areas []Node `json:"areas,omitempty"`
}

// Flatten maps lower-cased names to ids over the whole tree. Traversal is
// depth-first, parent before children, siblings in listed order; when two
// nodes share a name the later one wins. Nodes with a non-numeric id are skipped.
func Flatten(nodes []Node) map[string]int {
	names := make(map[string]int)
	walk(nodes, func(n *Node) {
		if id, ok := nodeID(n); ok {
			names[key(n.Name)] = id
		}
	})
	return names
}

// Directory is a read-only name -> id lookup. Build it once and share it.
type Directory struct {
	ids     map[string]int
	display map[string]string
}

// NewDirectory flattens the tree into a Directory.
func NewDirectory(nodes []Node) *Directory {
	d := &Directory{
		ids:     Flatten(nodes),
		display: make(map[string]string),
	}
	walk(nodes, func(n *Node) {
		if _, ok := nodeID(n); ok {
			d.display[key(n.Name)] = strings.TrimSpace(n.Name)
		}
	})
	return d
}

// Len returns the number of distinct names.
func (d *Directory) Len() int {
	return len(d.ids)
}

// Lookup finds a location by name, ignoring case and surrounding spaces.
func (d *Directory) Lookup(name string) (model.Location, bool) {
	k := key(name)
	id, ok := d.ids[k]
	if !ok {
		return model.Location{}, false
	}
	return model.Location{Name: d.display[k], ID: id}, true
}

// Resolve is Lookup returning ErrUnknownLocation for missing names.
func (d *Directory) Resolve(name string) (model.Location, error) {
	loc, ok := d.Lookup(name)
	if !ok {
		return model.Location{}, fmt.Errorf("%w: %q", ErrUnknownLocation, name)
	}
	return loc, nil
}

// Names returns the display names sorted alphabetically.
func (d *Directory) Names() []string {
	names := make([]string, 0, len(d.ids))
	for k := range d.ids {
		names = append(names, d.display[k])
	}
	slices.Sort(names)
	return names
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func nodeID(n *Node) (int, bool) {
	id, err := strconv.Atoi(string(n.ID))
	return id, err == nil
}

// walk visits the tree with an explicit stack: parent first, then its
// children, siblings in listed order.
func walk(nodes []Node, fn func(*Node)) {
	stack := make([]*Node, 0, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		stack = append(stack, &nodes[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(n)
		for i := len(n.Areas) - 1; i >= 0; i-- {
			stack = append(stack, &n.Areas[i])
		}
	}
}
