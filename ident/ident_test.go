package ident_test

import (
	"context"
	"sort"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	gdlevel "github.com/reoring/gdlevel"
	"github.com/reoring/gdlevel/ident"
)

func TestGetOrCreate_SameValueSameIdentity(t *testing.T) {
	c := ident.NewContainer(ident.Group)
	a := c.GetOrCreate(5)
	b := c.GetOrCreate(5)
	assert.True(t, a.Is(b))
	assert.True(t, gdlevel.Equal(a, b))

	va, err := c.Value(a)
	require.NoError(t, err)
	vb, err := c.Value(b)
	require.NoError(t, err)
	assert.Equal(t, 5, va)
	assert.Equal(t, va, vb)

	assert.False(t, a.Is(c.GetOrCreate(6)))
}

func TestConstants_AreFixedAndNeverAbsorbed(t *testing.T) {
	c := ident.NewContainer(ident.Group)
	a := c.GetOrCreate(0)
	b := c.GetOrCreate(0)
	assert.Same(t, ident.EmptyGroup, a)
	assert.Same(t, ident.EmptyGroup, b)
	v, err := c.Value(a)
	require.NoError(t, err)
	assert.Equal(t, 0, v)
	assert.Zero(t, c.Len(), "constants never occupy a container slot")

	other := c.GetOrCreate(3)
	assert.ErrorIs(t, other.Identity().Absorb(a.Identity()), gdlevel.ErrAbsorbConstant)
	assert.ErrorIs(t, a.Identity().Absorb(other.Identity()), gdlevel.ErrAbsorbConstant)
	assert.True(t, ident.EmptyGroup.Is(a))

	ident.EmptyGroup.Release()
	assert.False(t, ident.EmptyGroup.Released())

	items := ident.NewContainer(ident.Item)
	assert.Same(t, ident.ItemPoints, items.GetOrCreate(-2))
	assert.Same(t, ident.ItemAttempts, items.GetOrCreate(-3))
	assert.Same(t, ident.TimerMainTime, ident.NewContainer(ident.Timer).GetOrCreate(-1))
	assert.Equal(t, []int{-3, -2, 0}, ident.Item.Constants())
}

func TestAbsorb_RepointsObserversAndTransfersValue(t *testing.T) {
	c := ident.NewContainer(ident.Group)
	a := c.GetOrCreate(5)
	b := ident.Group.New()
	b2 := b.Identity().NewHandle()
	old := b.Identity()

	require.NoError(t, a.Identity().Absorb(old))

	for _, h := range []*ident.Handle{b, b2} {
		assert.True(t, h.Is(a))
		v, err := c.Value(h)
		require.NoError(t, err)
		assert.Equal(t, 5, v)
	}
	assert.True(t, old.Absorbed())
	assert.Zero(t, old.Observers())
	assert.Equal(t, 3, a.Identity().Observers())
	assert.ErrorIs(t, a.Identity().Absorb(old), gdlevel.ErrAbsorbed)
	assert.Panics(t, func() { old.Handle() })
	assert.Panics(t, func() { old.NewHandle() })
}

func TestAbsorb_MovesValueIntoEmptySurvivor(t *testing.T) {
	c := ident.NewContainer(ident.Block)
	survivor := ident.Block.New()
	merged := c.GetOrCreate(9)
	require.NoError(t, survivor.Identity().Absorb(merged.Identity()))

	v, err := c.Value(survivor)
	require.NoError(t, err)
	assert.Equal(t, 9, v)
	h, ok := c.Lookup(9)
	require.True(t, ok)
	assert.True(t, h.Is(survivor))
}

func TestAbsorb_FirstWriterWins(t *testing.T) {
	c := ident.NewContainer(ident.Group)
	a := c.GetOrCreate(5)
	b := c.GetOrCreate(7)
	require.NoError(t, a.Identity().Absorb(b.Identity()))

	v, err := c.Value(b)
	require.NoError(t, err)
	assert.Equal(t, 5, v, "survivor keeps its own value")
	_, ok := c.Lookup(7)
	assert.False(t, ok, "absorbed value is dropped")
	assert.Equal(t, []int{5}, c.Values())
}

func TestAbsorb_AcrossContainers(t *testing.T) {
	r1, r2 := ident.NewRegistry(), ident.NewRegistry()
	a := r1.Handle(ident.Group, 1)
	b := r2.Handle(ident.Group, 2)
	require.NoError(t, a.Identity().Absorb(b.Identity()))

	v1, err := r1.Value(b)
	require.NoError(t, err)
	v2, err := r2.Value(a)
	require.NoError(t, err)
	assert.Equal(t, 1, v1)
	assert.Equal(t, 2, v2)
}

func TestAbsorb_CategoryMismatch(t *testing.T) {
	g := ident.Group.New()
	b := ident.Block.New()
	assert.ErrorIs(t, g.Identity().Absorb(b.Identity()), gdlevel.ErrCategoryMismatch)
	assert.ErrorIs(t, g.Identity().Absorb(nil), gdlevel.ErrInvalidValue)
	assert.NoError(t, g.Identity().Absorb(g.Identity()))
}

func TestLazyAllocation_SkipsOccupied(t *testing.T) {
	c := ident.NewContainer(ident.Group)
	for _, v := range []int{1, 2, 4} {
		c.GetOrCreate(v)
	}
	first := c.New()
	v, err := c.Value(first)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	second := c.New()
	v, err = c.Value(second)
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	again, err := c.Value(first)
	require.NoError(t, err)
	assert.Equal(t, 3, again, "allocation is permanent")
	assert.Equal(t, 7, c.ValueOr(ident.Group.New(), 7), "ValueOr never allocates")
}

func TestLazyAllocation_ScanLimit(t *testing.T) {
	c := ident.NewContainer(ident.Group)
	c.MaxScan = 3
	for v := 1; v <= 3; v++ {
		c.GetOrCreate(v)
	}
	_, err := c.Value(c.New())
	assert.ErrorIs(t, err, gdlevel.ErrAllocationExhausted)
}

func TestAssign(t *testing.T) {
	c := ident.NewContainer(ident.Group)
	h := c.New()
	require.NoError(t, c.Assign(h, 10))
	require.NoError(t, c.Assign(h, 11))
	_, ok := c.Lookup(10)
	assert.False(t, ok)

	other := c.GetOrCreate(12)
	assert.ErrorIs(t, c.Assign(h, 12), gdlevel.ErrDuplicateKey)
	assert.ErrorIs(t, c.Assign(h, 0), gdlevel.ErrInvalidValue)
	assert.ErrorIs(t, c.Assign(ident.EmptyGroup, 3), gdlevel.ErrInvalidValue)

	c.Unassign(other)
	assert.Equal(t, []int{11}, c.Values())
	assert.Equal(t, -1, c.ValueOr(other, -1))

	_, err := c.Value(ident.Block.New())
	assert.ErrorIs(t, err, gdlevel.ErrCategoryMismatch)
}

func TestRelease(t *testing.T) {
	c := ident.NewContainer(ident.Group)
	h := c.GetOrCreate(4)
	id := h.Identity()
	h.Release()
	assert.True(t, h.Released())
	assert.Zero(t, id.Observers())
	_, err := c.Value(h)
	assert.ErrorIs(t, err, gdlevel.ErrInvalidValue)

	fresh, ok := c.Lookup(4)
	require.True(t, ok)
	assert.NotSame(t, h, fresh)
	assert.Same(t, id, fresh.Identity())
}

func TestRegistryContext(t *testing.T) {
	_, err := ident.FromContext(context.Background())
	assert.ErrorIs(t, err, gdlevel.ErrNoActiveModule)

	outer, inner := ident.NewRegistry(), ident.NewRegistry()
	ctx := ident.WithRegistry(context.Background(), outer)
	child := ident.WithRegistry(ctx, inner)

	got, err := ident.FromContext(child)
	require.NoError(t, err)
	assert.Same(t, inner, got)
	got, err = ident.FromContext(ctx)
	require.NoError(t, err)
	assert.Same(t, outer, got)
	assert.Same(t, outer.Container(ident.Item), outer.Container(ident.Item))
}

func TestHandleStringAndJSON(t *testing.T) {
	c := ident.NewContainer(ident.Group)
	assert.Equal(t, "Group.Empty", ident.EmptyGroup.String())
	assert.Equal(t, "Timer.MainTime", ident.TimerMainTime.String())
	assert.Equal(t, "Group(5)", c.GetOrCreate(5).String())
	assert.Equal(t, "Group(new)", ident.Group.New().String())

	out, err := json.Marshal(map[string]any{"g": c.GetOrCreate(5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"g":"Group(5)"}`, string(out))
}

func TestLazyAllocation_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		occupied := rapid.SliceOfNDistinct(rapid.IntRange(1, 40), 0, 30, rapid.ID[int]).Draw(rt, "occupied")
		n := rapid.IntRange(1, 10).Draw(rt, "n")

		c := ident.NewContainer(ident.Group)
		taken := map[int]bool{}
		for _, v := range occupied {
			c.GetOrCreate(v)
			taken[v] = true
		}
		var want []int
		for v := 1; len(want) < n; v++ {
			if !taken[v] {
				want = append(want, v)
			}
		}
		var got []int
		for i := 0; i < n; i++ {
			v, err := c.Value(c.New())
			if err != nil {
				rt.Fatalf("allocation failed: %v", err)
			}
			got = append(got, v)
		}
		if !sort.IntsAreSorted(got) {
			rt.Fatalf("allocations not increasing: %v", got)
		}
		assert.Equal(rt, want, got)
	})
}

func TestAbsorb_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		va := rapid.IntRange(1, 100).Draw(rt, "a")
		vb := rapid.IntRange(1, 100).Filter(func(v int) bool { return v != va }).Draw(rt, "b")
		extra := rapid.IntRange(0, 4).Draw(rt, "extraHandles")

		c := ident.NewContainer(ident.Item)
		a := c.GetOrCreate(va)
		b := c.GetOrCreate(vb)
		handles := []*ident.Handle{b}
		for i := 0; i < extra; i++ {
			handles = append(handles, b.Identity().NewHandle())
		}
		if err := a.Identity().Absorb(b.Identity()); err != nil {
			rt.Fatalf("absorb: %v", err)
		}
		for _, h := range handles {
			if !h.Is(a) {
				rt.Fatalf("handle not repointed")
			}
			if v, _ := c.Value(h); v != va {
				rt.Fatalf("got %d want %d", v, va)
			}
		}
		if _, ok := c.Lookup(vb); ok {
			rt.Fatalf("absorbed value still bound")
		}
	})
}
