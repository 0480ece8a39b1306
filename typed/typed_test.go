package typed

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributeCheck(t *testing.T) {
	width := New("width", false, Scalars...)
	assert.NoError(t, width.Check(12))
	assert.NoError(t, width.Check(12.5))
	assert.NoError(t, width.Check(uint8(3)))

	err := width.Check([]int{1})
	require.Error(t, err)
	var te *Error
	require.True(t, errors.As(err, &te))
	assert.Equal(t, reflect.TypeOf([]int{}), te.Got)
	assert.Contains(t, err.Error(), "width: expected one of [int")

	err = width.Check(nil)
	require.True(t, errors.As(err, &te))
	assert.True(t, te.Nil)

	var p *int
	assert.Error(t, width.Check(p))
	n := 4
	assert.NoError(t, width.Check(&n))
}

func TestAttributeAllowNil(t *testing.T) {
	header := New("header", true, reflect.String)
	assert.NoError(t, header.Check(nil))
	assert.NoError(t, header.Check("Name"))
	assert.Error(t, header.Check(1))
}

func TestAttributeTypes(t *testing.T) {
	def := OfType("default", false, reflect.TypeOf(time.Time{})).Or(reflect.String)
	assert.NoError(t, def.Check(time.Now()))
	assert.NoError(t, def.Check("2024-01-01"))
	assert.Error(t, def.Check(1))
}

func TestComparable(t *testing.T) {
	assert.NoError(t, Comparable("row type", "summary"))
	assert.NoError(t, Comparable("row type", nil))
	assert.NoError(t, Comparable("row type", reflect.TypeOf(1)))
	assert.Error(t, Comparable("row type", []int{1}))
}
