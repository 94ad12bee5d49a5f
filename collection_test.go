package ioc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/ioc"
)

type testDependency interface {
	Name() string
}

type testDependencyA struct{ id int }

func (*testDependencyA) Name() string { return "A" }

type testDependencyB struct{ id int }

func (*testDependencyB) Name() string { return "B" }

func newContainer(t *testing.T, opts ...ioc.Option) *ioc.Adapter {
	t.Helper()
	c, err := ioc.New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCollectionRegisteredByType_ResolvesEachImplementationInOrder(t *testing.T) {
	c := newContainer(t)

	require.NoError(t, ioc.RegisterCollectionTypes[testDependency](c,
		ioc.TypeOf[*testDependencyA](),
		ioc.TypeOf[*testDependencyB](),
	))

	deps, err := ioc.ResolveAll[testDependency](c)
	require.NoError(t, err)
	require.Len(t, deps, 2)
	assert.IsType(t, &testDependencyA{}, deps[0])
	assert.IsType(t, &testDependencyB{}, deps[1])
}

func TestCollectionRegisteredByInstance_ResolvesSameInstances(t *testing.T) {
	c := newContainer(t)
	a, b := &testDependencyA{id: 1}, &testDependencyB{id: 2}

	require.NoError(t, ioc.RegisterCollectionInstances[testDependency](c, a, b))

	deps, err := ioc.ResolveAll[testDependency](c)
	require.NoError(t, err)
	require.Len(t, deps, 2)
	assert.Same(t, a, deps[0])
	assert.Same(t, b, deps[1])
}

func TestCollectionMixedItems(t *testing.T) {
	c := newContainer(t)
	b := &testDependencyB{id: 2}

	require.NoError(t, ioc.RegisterCollection[testDependency](c,
		ioc.SingletonItem[*testDependencyA]("a"),
		ioc.InstanceItem("b", b),
	))

	first, err := ioc.ResolveKeyed[testDependency](c, "a")
	require.NoError(t, err)
	second, err := ioc.ResolveKeyed[testDependency](c, "a")
	require.NoError(t, err)
	assert.Same(t, first, second)

	got, err := ioc.ResolveKeyed[testDependency](c, "b")
	require.NoError(t, err)
	assert.Same(t, b, got)

	_, err = ioc.ResolveKeyed[testDependency](c, "c")
	assert.True(t, ioc.IsNotFound(err))
}

func TestCollectionDuplicateKey(t *testing.T) {
	c := newContainer(t)

	err := ioc.RegisterCollection[testDependency](c,
		ioc.TypeItem[*testDependencyA]("dup"),
		ioc.TypeItem[*testDependencyB]("dup"),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, ioc.ErrRegistrationConflict)
}

func TestCollectionEmpty(t *testing.T) {
	c := newContainer(t)

	err := ioc.RegisterCollectionTypes[testDependency](c)
	require.Error(t, err)
	assert.True(t, ioc.IsInvalidBinding(err))

	_, err = ioc.ResolveAll[testDependency](c)
	require.Error(t, err)
	assert.True(t, ioc.IsNotFound(err))
}
