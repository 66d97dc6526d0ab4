package gdobj

import "strconv"

type namer interface{ ~int }

func enumName[E namer](e E, names map[E]string, typ string) string {
	if s, ok := names[e]; ok {
		return s
	}
	return typ + "(" + strconv.Itoa(int(e)) + ")"
}

// Triggered is how a trigger fires.
type Triggered int

const (
	TriggeredCoord Triggered = iota
	TriggeredTouch
	TriggeredSpawn
	TriggeredTouchMulti
	TriggeredSpawnMulti
)

var triggeredNames = map[Triggered]string{
	TriggeredCoord: "Coord", TriggeredTouch: "Touch", TriggeredSpawn: "Spawn",
	TriggeredTouchMulti: "TouchMulti", TriggeredSpawnMulti: "SpawnMulti",
}

func (e Triggered) String() string               { return enumName(e, triggeredNames, "Triggered") }
func (e Triggered) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// Easing curves of the easing triggers.
type Easing int

const (
	EasingDefault Easing = iota
	EaseInOut
	EaseIn
	EaseOut
	ElasticInOut
	ElasticIn
	ElasticOut
	BounceInOut
	BounceIn
	BounceOut
	ExponentialInOut
	ExponentialIn
	ExponentialOut
	SineInOut
	SineIn
	SineOut
	BackInOut
	BackIn
	BackOut
)

var easingNames = map[Easing]string{
	EasingDefault: "Default", EaseInOut: "EaseInOut", EaseIn: "EaseIn", EaseOut: "EaseOut",
	ElasticInOut: "ElasticInOut", ElasticIn: "ElasticIn", ElasticOut: "ElasticOut",
	BounceInOut: "BounceInOut", BounceIn: "BounceIn", BounceOut: "BounceOut",
	ExponentialInOut: "ExponentialInOut", ExponentialIn: "ExponentialIn", ExponentialOut: "ExponentialOut",
	SineInOut: "SineInOut", SineIn: "SineIn", SineOut: "SineOut",
	BackInOut: "BackInOut", BackIn: "BackIn", BackOut: "BackOut",
}

func (e Easing) String() string               { return enumName(e, easingNames, "Easing") }
func (e Easing) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// Lock ties a move axis to the player or the camera.
type Lock int

const (
	LockNo Lock = iota
	LockPlayer
	LockCamera
)

var lockNames = map[Lock]string{LockNo: "No", LockPlayer: "Player", LockCamera: "Camera"}

func (e Lock) String() string               { return enumName(e, lockNames, "Lock") }
func (e Lock) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

type StopMode int

const (
	StopModeStop StopMode = iota
	StopModePause
	StopModeResume
)

var stopModeNames = map[StopMode]string{StopModeStop: "Stop", StopModePause: "Pause", StopModeResume: "Resume"}

func (e StopMode) String() string               { return enumName(e, stopModeNames, "StopMode") }
func (e StopMode) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// PickupMode is how a pickup changes its item. Override is stored as mode 0
// plus a flag.
type PickupMode int

const (
	PickupAdd PickupMode = iota
	PickupMultiply
	PickupDivide
	PickupOverride
)

var pickupModeNames = map[PickupMode]string{
	PickupAdd: "Add", PickupMultiply: "Multiply", PickupDivide: "Divide", PickupOverride: "Override",
}

func (e PickupMode) String() string               { return enumName(e, pickupModeNames, "PickupMode") }
func (e PickupMode) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

type Comparison int

const (
	ComparisonEquals Comparison = iota
	ComparisonLarger
	ComparisonSmaller
)

var comparisonNames = map[Comparison]string{
	ComparisonEquals: "Equals", ComparisonLarger: "Larger", ComparisonSmaller: "Smaller",
}

func (e Comparison) String() string               { return enumName(e, comparisonNames, "Comparison") }
func (e Comparison) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

type TextAlign int

const (
	AlignCenter TextAlign = iota
	AlignLeft
	AlignRight
)

var textAlignNames = map[TextAlign]string{AlignCenter: "Center", AlignLeft: "Left", AlignRight: "Right"}

func (e TextAlign) String() string               { return enumName(e, textAlignNames, "TextAlign") }
func (e TextAlign) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// CounterMode selects what a counter label shows. Non-zero values mirror the
// reserved item and timer constants.
type CounterMode int

const (
	CounterNormal   CounterMode = 0
	CounterMainTime CounterMode = -1
	CounterPoints   CounterMode = -2
	CounterAttempts CounterMode = -3
)

var counterModeNames = map[CounterMode]string{
	CounterNormal: "Normal", CounterMainTime: "MainTime", CounterPoints: "Points", CounterAttempts: "Attempts",
}

func (e CounterMode) String() string               { return enumName(e, counterModeNames, "CounterMode") }
func (e CounterMode) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

type ToggleMode int

const (
	ToggleChange ToggleMode = iota
	ToggleOn
	ToggleOff
)

var toggleModeNames = map[ToggleMode]string{ToggleChange: "Change", ToggleOn: "On", ToggleOff: "Off"}

func (e ToggleMode) String() string               { return enumName(e, toggleModeNames, "ToggleMode") }
func (e ToggleMode) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

type PlayerOnly int

const (
	PlayerBoth PlayerOnly = iota
	PlayerOnlyP1
	PlayerOnlyP2
)

var playerOnlyNames = map[PlayerOnly]string{PlayerBoth: "Both", PlayerOnlyP1: "P1", PlayerOnlyP2: "P2"}

func (e PlayerOnly) String() string               { return enumName(e, playerOnlyNames, "PlayerOnly") }
func (e PlayerOnly) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// CollisionPlayer selects which players a collision trigger watches. P is any
// player, PP a collision between the two players.
type CollisionPlayer int

const (
	CollisionNo CollisionPlayer = iota
	CollisionP1
	CollisionP2
	CollisionP
	CollisionPP
)

var collisionPlayerNames = map[CollisionPlayer]string{
	CollisionNo: "No", CollisionP1: "P1", CollisionP2: "P2", CollisionP: "P", CollisionPP: "PP",
}

func (e CollisionPlayer) String() string { return enumName(e, collisionPlayerNames, "CollisionPlayer") }
func (e CollisionPlayer) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

type TargetPlayer int

const (
	TargetNoPlayer TargetPlayer = iota
	TargetP1
	TargetP2
)

var targetPlayerNames = map[TargetPlayer]string{TargetNoPlayer: "No", TargetP1: "P1", TargetP2: "P2"}

func (e TargetPlayer) String() string               { return enumName(e, targetPlayerNames, "TargetPlayer") }
func (e TargetPlayer) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// XYOnly restricts a move to one axis.
type XYOnly int

const (
	XYBoth XYOnly = iota
	XOnly
	YOnly
)

var xyOnlyNames = map[XYOnly]string{XYBoth: "Both", XOnly: "XOnly", YOnly: "YOnly"}

func (e XYOnly) String() string               { return enumName(e, xyOnlyNames, "XYOnly") }
func (e XYOnly) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// ItemType is the kind of counter an item slot refers to.
type ItemType int

const (
	ItemTypeNo ItemType = iota
	ItemTypeItem
	ItemTypeTimer
	ItemTypePoints
	ItemTypeMainTime
	ItemTypeAttempts
)

var itemTypeNames = map[ItemType]string{
	ItemTypeNo: "No", ItemTypeItem: "Item", ItemTypeTimer: "Timer",
	ItemTypePoints: "Points", ItemTypeMainTime: "MainTime", ItemTypeAttempts: "Attempts",
}

func (e ItemType) String() string               { return enumName(e, itemTypeNames, "ItemType") }
func (e ItemType) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

type ItemOperator int

const (
	OpSet ItemOperator = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
)

var itemOperatorNames = map[ItemOperator]string{OpSet: "=", OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/"}

func (e ItemOperator) String() string               { return enumName(e, itemOperatorNames, "ItemOperator") }
func (e ItemOperator) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

type ItemComparison int

const (
	CmpEq ItemComparison = iota
	CmpGt
	CmpGe
	CmpLt
	CmpLe
	CmpNe
)

var itemComparisonNames = map[ItemComparison]string{
	CmpEq: "==", CmpGt: ">", CmpGe: ">=", CmpLt: "<", CmpLe: "<=", CmpNe: "!=",
}

func (e ItemComparison) String() string { return enumName(e, itemComparisonNames, "ItemComparison") }
func (e ItemComparison) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

type SignFunc int

const (
	SignNone SignFunc = iota
	SignAbs
	SignNeg
)

var signFuncNames = map[SignFunc]string{SignNone: "None", SignAbs: "Abs", SignNeg: "Neg"}

func (e SignFunc) String() string               { return enumName(e, signFuncNames, "SignFunc") }
func (e SignFunc) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

type RoundingFunc int

const (
	RoundNone RoundingFunc = iota
	RoundNearest
	RoundFloor
	RoundCeil
)

var roundingFuncNames = map[RoundingFunc]string{
	RoundNone: "None", RoundNearest: "Round", RoundFloor: "Floor", RoundCeil: "Ceil",
}

func (e RoundingFunc) String() string               { return enumName(e, roundingFuncNames, "RoundingFunc") }
func (e RoundingFunc) MarshalText() ([]byte, error) { return []byte(e.String()), nil }
