package archivers

import (
	"iter"
	"maps"
	"slices"
)

// Contents maps entry names to content, keeping the order names were first seen.
// Setting an existing name replaces its content in place.
type Contents struct {
	names []string
	data  map[string][]byte
}

func NewContents() *Contents {
	return &Contents{data: make(map[string][]byte)}
}

func (c *Contents) Set(name string, data []byte) {
	if _, ok := c.data[name]; !ok {
		c.names = append(c.names, name)
	}
	c.data[name] = data
}

func (c *Contents) Get(name string) ([]byte, bool) {
	data, ok := c.data[name]
	return data, ok
}

func (c *Contents) Len() int {
	return len(c.names)
}

// Names returns entry names in first-seen order.
func (c *Contents) Names() []string {
	return slices.Clone(c.names)
}

// All iterates entries in first-seen order.
func (c *Contents) All() iter.Seq2[string, []byte] {
	return func(yield func(string, []byte) bool) {
		for _, name := range c.names {
			if !yield(name, c.data[name]) {
				return
			}
		}
	}
}

// Map returns a copy of the name to content mapping.
func (c *Contents) Map() map[string][]byte {
	return maps.Clone(c.data)
}
