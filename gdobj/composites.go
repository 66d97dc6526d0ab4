package gdobj

import (
	"context"
	"fmt"
	"math"

	gdlevel "github.com/reoring/gdlevel"
	"github.com/reoring/gdlevel/codec"
	"github.com/reoring/gdlevel/dsl"
	"github.com/reoring/gdlevel/ident"
)

// ClampRect bounds the aim of a rotate trigger by four groups.
type ClampRect struct {
	MinX *ident.Handle `json:"min_x" yaml:"min_x"`
	MinY *ident.Handle `json:"min_y" yaml:"min_y"`
	MaxX *ident.Handle `json:"max_x" yaml:"max_x"`
	MaxY *ident.Handle `json:"max_y" yaml:"max_y"`
}

func (r ClampRect) EqualValue(other any) bool {
	o, ok := other.(ClampRect)
	return ok && gdlevel.Equal(r.MinX, o.MinX) && gdlevel.Equal(r.MinY, o.MinY) &&
		gdlevel.Equal(r.MaxX, o.MaxX) && gdlevel.Equal(r.MaxY, o.MaxY)
}

var triggeredMapping = dsl.MustMapping([]dsl.Pair{
	dsl.P([]any{false, false, false}, TriggeredCoord),
	dsl.P([]any{true, false, false}, TriggeredTouch),
	dsl.P([]any{false, true, false}, TriggeredSpawn),
	dsl.P([]any{true, false, true}, TriggeredTouchMulti),
	dsl.P([]any{false, true, true}, TriggeredSpawnMulti),
})

var targetPlayerMapping = dsl.MustMapping([]dsl.Pair{
	dsl.P([]any{false, false}, TargetNoPlayer),
	dsl.P([]any{true, false}, TargetP1),
	dsl.P([]any{false, true}, TargetP2),
})

func triggered() gdlevel.Transform {
	return gdlevel.Then(dsl.MultiKey("touch_triggered", "spawn_triggered", "multi_triggered"), triggeredMapping)
}

func targetPlayer() gdlevel.Transform {
	return gdlevel.Then(dsl.MultiKey("player_1", "player_2"), targetPlayerMapping)
}

// pickupMode folds (mode, override) into one enum; override is only honored
// with mode 0.
func pickupMode() gdlevel.Transform {
	return gdlevel.Then(dsl.MultiKey("mode", "override"), dsl.FuncOf(
		func(t []any) (PickupMode, error) {
			var mode int
			var override bool
			if err := unpack(t, &mode, &override); err != nil {
				return 0, err
			}
			if mode == 0 && override {
				return PickupOverride, nil
			}
			return PickupMode(mode), nil
		},
		func(m PickupMode) ([]any, error) {
			if m == PickupOverride {
				return []any{0, true}, nil
			}
			return []any{int(m), false}, nil
		},
	))
}

var collisionPlayerFlags = map[CollisionPlayer][3]bool{
	CollisionNo: {false, false, false},
	CollisionP1: {true, false, false},
	CollisionP2: {false, true, false},
	CollisionP:  {true, true, false},
	CollisionPP: {false, false, true},
}

// collisionPlayer reads (player_1, player_2, player_player); the last flag wins
// over the other two.
func collisionPlayer() gdlevel.Transform {
	return gdlevel.Then(dsl.MultiKey("player_1", "player_2", "player_player"), dsl.FuncOf(
		func(t []any) (CollisionPlayer, error) {
			var p1, p2, pp bool
			if err := unpack(t, &p1, &p2, &pp); err != nil {
				return 0, err
			}
			if pp {
				return CollisionPP, nil
			}
			for k, f := range collisionPlayerFlags {
				if f == [3]bool{p1, p2, false} {
					return k, nil
				}
			}
			return CollisionNo, nil
		},
		func(c CollisionPlayer) ([]any, error) {
			f, ok := collisionPlayerFlags[c]
			if !ok {
				return nil, badValue(c)
			}
			return []any{f[0], f[1], f[2]}, nil
		},
	))
}

// lock derives one axis lock from (lock_to_player, lock_to_camera, mod). A zero
// mod disables the lock. Compile takes the mod from the attribute dict, 1 when
// it is not set.
func lock(modAttr, player, camera, mod string) gdlevel.Transform {
	return gdlevel.Then(dsl.MultiKey(player, camera, mod), lockT{modAttr: modAttr})
}

type lockT struct{ modAttr string }

func (l lockT) Analyze(_ context.Context, data any) (any, error) {
	t, _ := data.([]any)
	var p, c bool
	var mod float64
	if err := unpack(t, &p, &c, &mod); err != nil {
		return nil, err
	}
	switch {
	case p == c, mod == 0:
		return LockNo, nil
	case p:
		return LockPlayer, nil
	default:
		return LockCamera, nil
	}
}

func (l lockT) Compile(_ context.Context, value any, sink map[string]any) (any, error) {
	lk, ok := value.(Lock)
	if !ok {
		return nil, gdlevel.Fail(gdlevel.CodeInvalidType, gdlevel.ErrInvalidValue, fmt.Sprintf("expected Lock, got %T", value))
	}
	mod := 1.0
	if m, ok := sink[l.modAttr].(float64); ok {
		mod = m
	}
	switch {
	case lk == LockNo, mod == 0:
		return []any{false, false, 1.0}, nil
	case lk == LockPlayer:
		return []any{true, false, mod}, nil
	case lk == LockCamera:
		return []any{false, true, mod}, nil
	}
	return nil, badValue(lk)
}

// rotateDegrees merges (degrees, times_360) into one angle.
func rotateDegrees() gdlevel.Transform {
	return gdlevel.Then(dsl.MultiKey("degrees", "times_360"), dsl.FuncOf(
		func(t []any) (float64, error) {
			var deg float64
			var turns int
			if err := unpack(t, &deg, &turns); err != nil {
				return 0, err
			}
			return deg + 360*float64(turns), nil
		},
		func(v float64) ([]any, error) {
			turns := math.Floor(v / 360)
			return []any{v - 360*turns, int(turns)}, nil
		},
	))
}

func clampRect() gdlevel.Transform {
	return gdlevel.Then(
		dsl.MultiKey("target_clamp_min_x", "target_clamp_min_y", "target_clamp_max_x", "target_clamp_max_y"),
		dsl.FromTuple[ClampRect](),
	)
}

// itemByType resolves (id, item type) to an item or timer handle.
func itemByType(idName, typeName string) gdlevel.Transform {
	return gdlevel.Then(dsl.MultiKey(idName, typeName), itemTypeT{})
}

type itemTypeT struct{}

func (itemTypeT) Analyze(ctx context.Context, data any) (any, error) {
	t, _ := data.([]any)
	var id int
	var typ ItemType
	if err := unpack(t, &id, &typ); err != nil {
		return nil, err
	}
	switch typ {
	case ItemTypeNo:
		return ident.EmptyItem, nil
	case ItemTypeItem:
		return ref(ctx, ident.Item, id)
	case ItemTypeTimer:
		return ref(ctx, ident.Timer, id)
	case ItemTypePoints:
		return ident.ItemPoints, nil
	case ItemTypeMainTime:
		return ident.TimerMainTime, nil
	case ItemTypeAttempts:
		return ident.ItemAttempts, nil
	}
	return nil, badValue(typ)
}

func (itemTypeT) Compile(ctx context.Context, value any, _ map[string]any) (any, error) {
	h, err := handleOf(value)
	if err != nil {
		return nil, err
	}
	timer := h.Category() == ident.Timer
	if c, ok := h.Constant(); ok {
		switch {
		case c == 0 && timer:
			return []any{0, ItemTypeTimer}, nil
		case c == 0:
			return []any{0, ItemTypeNo}, nil
		case timer:
			return []any{0, ItemTypeMainTime}, nil
		case c == -2:
			return []any{0, ItemTypePoints}, nil
		default:
			return []any{0, ItemTypeAttempts}, nil
		}
	}
	typ := ItemTypeItem
	if timer {
		typ = ItemTypeTimer
	}
	v, err := valueOf(ctx, h)
	if err != nil {
		return nil, err
	}
	return []any{v, typ}, nil
}

// persistentTarget resolves (id, is_timer) to an item or timer handle.
func persistentTarget() gdlevel.Transform {
	return gdlevel.Then(dsl.MultiKey("target_id", "is_timer"), persistentT{})
}

type persistentT struct{}

func (persistentT) Analyze(ctx context.Context, data any) (any, error) {
	t, _ := data.([]any)
	var id int
	var timer bool
	if err := unpack(t, &id, &timer); err != nil {
		return nil, err
	}
	if timer {
		return ref(ctx, ident.Timer, id)
	}
	return ref(ctx, ident.Item, id)
}

func (persistentT) Compile(ctx context.Context, value any, _ map[string]any) (any, error) {
	h, err := handleOf(value)
	if err != nil {
		return nil, err
	}
	v, err := valueOf(ctx, h)
	if err != nil {
		return nil, err
	}
	return []any{v, h.Category() == ident.Timer}, nil
}

func ref(ctx context.Context, cat *ident.Category, v int) (any, error) {
	return codec.IntRef(cat).Analyze(ctx, v)
}

func valueOf(ctx context.Context, h *ident.Handle) (any, error) {
	return codec.IntRef(h.Category()).Compile(ctx, h, nil)
}

func handleOf(value any) (*ident.Handle, error) {
	h, ok := value.(*ident.Handle)
	if !ok || h == nil {
		return nil, gdlevel.Fail(gdlevel.CodeInvalidType, gdlevel.ErrInvalidValue, fmt.Sprintf("expected handle, got %T", value))
	}
	if h.Category() != ident.Item && h.Category() != ident.Timer {
		return nil, gdlevel.Fail(gdlevel.CodeInvalidType, gdlevel.ErrCategoryMismatch, "expected Item or Timer, got "+h.Category().Name())
	}
	return h, nil
}

// unpack assigns the elements of t to the pointers in order.
func unpack(t []any, dst ...any) error {
	if len(t) != len(dst) {
		return gdlevel.Fail(gdlevel.CodeInvalidType, gdlevel.ErrInvalidValue,
			fmt.Sprintf("expected %d values, got %d", len(dst), len(t)))
	}
	for i, d := range dst {
		ok := false
		switch p := d.(type) {
		case *bool:
			*p, ok = t[i].(bool)
		case *int:
			*p, ok = t[i].(int)
		case *float64:
			*p, ok = t[i].(float64)
		case *ItemType:
			*p, ok = t[i].(ItemType)
		}
		if !ok {
			return gdlevel.Rebase(gdlevel.Fail(gdlevel.CodeInvalidType, gdlevel.ErrInvalidValue,
				fmt.Sprintf("unexpected %T", t[i])), fmt.Sprint(i))
		}
	}
	return nil
}

func badValue(v any) error {
	return gdlevel.Fail(gdlevel.CodeInvalidValue, gdlevel.ErrInvalidValue, fmt.Sprintf("unsupported value %v", v))
}
