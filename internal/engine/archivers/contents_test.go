package archivers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContents(t *testing.T) {
	c := NewContents()
	c.Set("b", []byte("1"))
	c.Set("a", []byte("2"))
	c.Set("b", []byte("3"))

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"b", "a"}, c.Names())

	var order []string
	for name, data := range c.All() {
		order = append(order, name+"="+string(data))
	}
	assert.Equal(t, []string{"b=3", "a=2"}, order)

	_, ok := c.Get("missing")
	assert.False(t, ok)
}
