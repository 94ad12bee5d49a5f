package contract

import (
	"io"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

type widget struct{}

func (widget) Read([]byte) (int, error) { return 0, io.EOF }

type greeter interface{ Greet() string }

func TestName(t *testing.T) {
	pkg := reflect.TypeFor[widget]().PkgPath()

	tests := []struct {
		name string
		typ  reflect.Type
		want string
	}{
		{"struct", reflect.TypeFor[widget](), pkg + "/widget"},
		{"pointer", reflect.TypeFor[*widget](), "*" + pkg + "/widget"},
		{"double pointer", reflect.TypeFor[**widget](), "**" + pkg + "/widget"},
		{"interface", reflect.TypeFor[greeter](), pkg + "/greeter"},
		{"stdlib interface", reflect.TypeFor[io.Reader](), "io/Reader"},
		{"unnamed slice", reflect.TypeFor[[]string](), "[]string"},
		{"builtin", reflect.TypeFor[int](), "int"},
		{"nil", nil, "<nil>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Name(tt.typ))
		})
	}
}

func TestBackingNames(t *testing.T) {
	typ := reflect.TypeFor[io.Reader]()

	assert.Equal(t, "io/Reader", DefaultName(typ, 1))
	assert.Equal(t, "io/Reader", DefaultName(typ, 0))
	assert.Equal(t, "io/Reader@3", DefaultName(typ, 3))
	assert.Equal(t, "io/Reader#primary", MemberName(typ, "primary", 1))
	assert.Equal(t, "io/Reader#primary@2", MemberName(typ, "primary", 2))
	assert.Equal(t, "item-4", OrdinalKey(4))
}

func TestConstructible(t *testing.T) {
	assert.True(t, Constructible(reflect.TypeFor[widget]()))
	assert.True(t, Constructible(reflect.TypeFor[*widget]()))
	assert.False(t, Constructible(reflect.TypeFor[greeter]()))
	assert.False(t, Constructible(reflect.TypeFor[int]()))
	assert.False(t, Constructible(nil))
}

func TestAssignable(t *testing.T) {
	reader := reflect.TypeFor[io.Reader]()

	assert.True(t, Assignable(reflect.TypeFor[widget](), reader))
	assert.True(t, Assignable(reflect.TypeFor[*widget](), reader))
	assert.False(t, Assignable(reflect.TypeFor[int](), reader))
	assert.False(t, Assignable(nil, reader))

	assert.True(t, ValueAssignable(widget{}, reader))
	assert.True(t, ValueAssignable(nil, reader))
	assert.False(t, ValueAssignable(nil, reflect.TypeFor[widget]()))
	assert.False(t, ValueAssignable(42, reader))
}

func TestValidKey(t *testing.T) {
	assert.True(t, ValidKey("primary"))
	assert.True(t, ValidKey(OrdinalKey(2)))
	assert.False(t, ValidKey("x@2"))
	assert.False(t, ValidKey("a#b"))
}
