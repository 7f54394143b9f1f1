package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDGenerator(t *testing.T) {
	g := NewIDGenerator("House")

	assert.Equal(t, g.Element("wall"), NewIDGenerator("House").Element("wall"))
	assert.NotEqual(t, g.Element("wall"), g.Element("slab"))
	assert.NotEqual(t, g.Element("wall"), NewIDGenerator("Barn").Element("wall"))

	// Roles and part boundaries keep derived ids apart.
	assert.NotEqual(t, g.Derived("room", "a", "b"), g.Derived("room", "ab"))
	assert.NotEqual(t, g.Derived("room", "a"), g.Element("a"))
	assert.Regexp(t, `^UUID_`, g.Derived("room", "storey", "column"))
}
