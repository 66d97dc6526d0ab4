package gdobj

import (
	gdlevel "github.com/reoring/gdlevel"
	"github.com/reoring/gdlevel/codec"
	"github.com/reoring/gdlevel/dsl"
	"github.com/reoring/gdlevel/ident"
)

// Raw key presets. Keys are omitted on encode while they hold the default.
var (
	omit = dsl.KeyPolicy(gdlevel.OmitDefault)

	intKey    = dsl.NewPreset(codec.Int(), dsl.RawDefault("0"), omit)
	floatKey  = dsl.NewPreset(codec.Float(), dsl.RawDefault("0"), omit)
	boolKey   = dsl.NewPreset(codec.Bool(), dsl.RawDefault("0"), omit)
	textKey   = dsl.NewPreset(codec.B64Str(), dsl.RawDefault(""), omit)
	groupKey  = dsl.NewPreset(codec.Ref(ident.Group), dsl.RawDefault("0"), omit)
	groupsKey = dsl.NewPreset(codec.RefList(ident.Group, "."), dsl.RawDefault(""), omit)
	hsvKey    = dsl.NewPreset(codec.HSVOf(), dsl.RawDefault(codec.DefaultHSVRaw), omit)
	remapKey  = dsl.NewPreset(codec.IntMap("."), dsl.RawDefault(""), omit)
)

func enumKey[E ~int]() dsl.Preset { return intKey.Then(dsl.Enum[E]()) }

// flag is a name-less key that is always written with value "1"; it marks a
// class variant for the recognizer.
func flag(key string) dsl.FieldBinding {
	return boolKey.Bind(key, "", dsl.RawDefault("1"), dsl.KeyPolicy(gdlevel.AlwaysEmit))
}

func fields(b ...dsl.FieldBinding) *dsl.FieldGroup { return dsl.MustFieldGroup(b...) }
func attrs(b ...dsl.AttrBinding) *dsl.AttrGroup    { return dsl.MustAttrGroup(b...) }

func groupRef(attr, semantic string) dsl.AttrBinding {
	return dsl.Rename(attr, semantic, codec.IntRef(ident.Group))
}

func itemRef(attr, semantic string) dsl.AttrBinding {
	return dsl.Rename(attr, semantic, codec.IntRef(ident.Item))
}

func blockRef(attr, semantic string) dsl.AttrBinding {
	return dsl.Rename(attr, semantic, codec.IntRef(ident.Block))
}

var family = dsl.NewFamily(Class.Lineage)

func init() {
	define(Base, fields(
		dsl.Unused(gdlevel.Wildcard, nil),
		intKey.Bind("1", "id", dsl.ValueDefault(0)),
		groupsKey.Bind("57", "groups"),
		groupsKey.Bind("274", "parent_groups"),
		floatKey.Bind("2", "x", dsl.KeyPolicy(gdlevel.AlwaysEmit)),
		floatKey.Bind("3", "y", dsl.KeyPolicy(gdlevel.AlwaysEmit)),
		boolKey.Bind("4", "flip_h"),
		boolKey.Bind("5", "flip_v"),
		floatKey.Bind("6", "rotation"),
		// appearance
		intKey.Bind("21", "color"),
		intKey.Bind("22", "color_detail"),
		intKey.Bind("497", "color_treatment"),
		boolKey.Bind("41", "hsv_enabled"),
		boolKey.Bind("42", "hsv_detail_enabled"),
		hsvKey.Bind("43", "hsv"),
		hsvKey.Bind("44", "hsv_detail"),
		intKey.Bind("155", "hsv_index"),
		intKey.Bind("156", "hsv_detail_index"),
		// editor
		intKey.Bind("20", "editor_layer_1"),
		intKey.Bind("61", "editor_layer_2"),
		intKey.Bind("25", "z_order"),
		intKey.Bind("24", "z_layer"),
		// extra
		boolKey.Bind("64", "dont_fade"),
		boolKey.Bind("67", "dont_enter"),
		boolKey.Bind("116", "no_effects"),
		boolKey.Bind("34", "group_parent"),
		boolKey.Bind("279", "area_parent"),
		boolKey.Bind("496", "dont_boost_y"),
		boolKey.Bind("509", "dont_boost_x"),
		boolKey.Bind("103", "high_detail"),
		boolKey.Bind("121", "no_touch"),
		boolKey.Bind("134", "passable"),
		boolKey.Bind("135", "hide"),
		boolKey.Bind("136", "non_stick_x"),
		boolKey.Bind("495", "extra_sticky"),
		boolKey.Bind("511", "extended_collision"),
		boolKey.Bind("137", "ice_block"),
		boolKey.Bind("193", "grip_slope"),
		boolKey.Bind("96", "no_glow"),
		boolKey.Bind("507", "no_particle"),
		boolKey.Bind("289", "non_stick_y"),
		boolKey.Bind("356", "scale_stick"),
		boolKey.Bind("372", "no_audio_scale"),
		intKey.Bind("343", "enter_channel"),
		intKey.Bind("446", "material"),
		// shared by triggers
		boolKey.Bind("11", "touch_triggered"),
		boolKey.Bind("62", "spawn_triggered"),
		boolKey.Bind("87", "multi_triggered"),
		intKey.Bind("51", "target_group"),
		intKey.Bind("71", "target_group_2"),
		intKey.Bind("80", "target_id"),
		intKey.Bind("95", "target_id_2"),
		boolKey.Bind("56", "activate_group"),
		intKey.Bind("77", "count"),
		boolKey.Bind("138", "player_1"),
		boolKey.Bind("200", "player_2"),
		boolKey.Bind("397", "dynamic_mode"),
	), attrs(
		dsl.UnusedAttr("unused"),
		dsl.Same("x"),
		dsl.Same("y"),
		dsl.Same("rotation"),
		dsl.Same("groups"),
		dsl.Same("parent_groups"),
	))

	define(AnyID, nil, attrs(dsl.Same("id", dsl.AttrPolicy(gdlevel.AlwaysEmit))))
	define(Special, nil, attrs(dsl.Drop("id")))

	define(Trigger, fields(flag("36")), attrs(dsl.Attr("triggered", triggered())))
	define(TargetTrigger, nil, attrs(groupRef("target", "target_group")))

	define(Spawn, fields(
		boolKey.Bind("63", "delay"),
		boolKey.Bind("556", "delay_variation"),
		remapKey.Bind("442", "remapping"),
		boolKey.Bind("581", "reset_remap"),
		boolKey.Bind("441", "spawn_ordered"),
		boolKey.Bind("102", "preview_disable"),
	), attrs(
		dsl.Same("delay"),
		dsl.Same("delay_variation"),
		dsl.Same("remapping"),
		dsl.Same("reset_remap"),
		dsl.Same("spawn_ordered"),
		dsl.Same("preview_disable"),
	))

	define(Toggle, nil, attrs(dsl.Rename("activate", "activate_group")))

	define(Stop, fields(
		intKey.Bind("580", "stop_mode"),
		boolKey.Bind("535", "use_control_id"),
	), attrs(
		dsl.Rename("mode", "stop_mode", dsl.Enum[StopMode]()),
		dsl.Same("use_control_id"),
	))

	define(Pickup, fields(
		floatKey.Bind("449", "modifier"),
		intKey.Bind("88", "mode"),
		boolKey.Bind("139", "override"),
	), attrs(
		itemRef("item", "target_id"),
		dsl.Same("count"),
		dsl.Same("modifier"),
		dsl.Attr("mode", pickupMode()),
	))

	define(Count, fields(
		boolKey.Bind("104", "multi_activate"),
	), attrs(
		itemRef("item", "target_id"),
		dsl.Same("count"),
		dsl.Rename("activate", "activate_group"),
		dsl.Same("multi_activate"),
	))

	define(InstantCount, fields(
		enumKey[Comparison]().Bind("88", "comparison"),
	), attrs(
		itemRef("item", "target_id"),
		dsl.Same("count"),
		dsl.Rename("activate", "activate_group"),
		dsl.Same("comparison"),
	))

	define(CounterLabel, fields(
		enumKey[TextAlign]().Bind("391", "text_align"),
		boolKey.Bind("389", "seconds_only"),
		boolKey.Bind("466", "as_timer"),
		enumKey[CounterMode]().Bind("390", "special_mode"),
	), attrs(
		itemRef("item", "target_id"),
		dsl.Same("text_align"),
		dsl.Same("seconds_only"),
		dsl.Same("as_timer"),
		dsl.Same("special_mode"),
	))

	define(Touch, fields(
		boolKey.Bind("81", "hold_mode"),
		enumKey[ToggleMode]().Bind("82", "toggle_mode"),
		enumKey[PlayerOnly]().Bind("198", "player_only"),
		boolKey.Bind("89", "dual_mode"),
	), attrs(
		dsl.Same("hold_mode"),
		dsl.Same("toggle_mode"),
		dsl.Same("player_only"),
		dsl.Same("dual_mode"),
	))

	define(CollisionBase, fields(
		boolKey.Bind("201", "player_player"),
	), attrs(
		blockRef("block_a", "target_id"),
		blockRef("block_b", "target_id_2"),
		dsl.Attr("player_collision", collisionPlayer()),
	))

	define(Collision, fields(
		// left behind by the editor; it carries no meaning for this trigger
		floatKey.Bind("10", ""),
		boolKey.Bind("93", "on_exit"),
	), attrs(
		dsl.Rename("activate", "activate_group"),
		dsl.Same("on_exit"),
	))
	define(InstantCollision, nil, attrs(groupRef("target_false", "target_group_2")))
	define(CollisionState, nil, attrs(groupRef("target_exit", "target_group_2")))

	define(CollisionBlock, fields(
		boolKey.Bind("94", "dynamic"),
	), attrs(
		blockRef("block", "target_id"),
		dsl.Same("dynamic"),
	))

	define(ToggleBlock, fields(
		boolKey.Bind("444", "no_multi_activate"),
		boolKey.Bind("445", "claim_touch"),
		boolKey.Bind("504", "spawn_only"),
	), attrs(
		groupRef("target", "target_group"),
		dsl.Rename("activate", "activate_group"),
		dsl.Same("no_multi_activate"),
		dsl.Same("claim_touch"),
		dsl.Same("spawn_only"),
	))

	define(Reset, nil, nil)

	define(EasingTrigger, fields(
		floatKey.Bind("10", "duration"),
		enumKey[Easing]().Bind("30", "easing"),
		floatKey.Bind("85", "easing_rate"),
	), attrs(
		dsl.Same("duration"),
		dsl.Same("easing"),
		dsl.Same("easing_rate"),
	))

	defineMove()
	defineRotate()

	define(Text, fields(
		textKey.Bind("31", "text", dsl.ValueDefault("a")),
		intKey.Bind("488", "kerning"),
	), attrs(
		dsl.Same("text"),
		dsl.Same("kerning"),
	))

	defineItems()
	checkRecognizer()
}

func define(c Class, f *dsl.FieldGroup, a *dsl.AttrGroup) {
	family.MustDefine(c, nil, f, a)
}

func defineMove() {
	define(Move, fields(
		boolKey.Bind("100", ""),
		boolKey.Bind("394", ""),
		boolKey.Bind("544", "silent"),
		intKey.Bind("28", "move_x"),
		intKey.Bind("29", "move_y"),
		boolKey.Bind("58", "lock_to_player_x"),
		boolKey.Bind("59", "lock_to_player_y"),
		boolKey.Bind("141", "lock_to_camera_x"),
		boolKey.Bind("142", "lock_to_camera_y"),
		// an absent mod means 1 to the game
		floatKey.Bind("143", "mod_x", dsl.RawDefault("1")),
		floatKey.Bind("144", "mod_y", dsl.RawDefault("1")),
		boolKey.Bind("393", "small_steps"),
		groupKey.Bind("395", "center_group"),
		enumKey[XYOnly]().Bind("101", "target_pos_move_mode"),
		intKey.Bind("396", "distance"),
	), attrs(dsl.Same("silent")))

	define(MoveBy, nil, attrs(
		dsl.Same("move_x"),
		dsl.Same("move_y"),
		dsl.Attr("lock_x", lock("mod_x", "lock_to_player_x", "lock_to_camera_x", "mod_x")),
		dsl.Attr("lock_y", lock("mod_y", "lock_to_player_y", "lock_to_camera_y", "mod_y")),
		dsl.Same("mod_x"),
		dsl.Same("mod_y"),
		dsl.Same("small_steps"),
	))

	target := []dsl.AttrBinding{
		dsl.Rename("center", "center_group"),
		groupRef("target_pos", "target_group_2"),
		dsl.Attr("target_player", targetPlayer()),
		dsl.Rename("mode", "target_pos_move_mode"),
		dsl.Rename("dynamic", "dynamic_mode"),
	}
	define(MoveTo, fields(flag("100")), attrs(target...))
	define(MoveAt, fields(flag("394")), attrs(append(target, dsl.Same("distance"))...))
}

func defineRotate() {
	define(Rotate, fields(
		boolKey.Bind("100", ""),
		boolKey.Bind("394", ""),
		floatKey.Bind("68", "degrees"),
		intKey.Bind("69", "times_360"),
		boolKey.Bind("70", "lock_object_rotation"),
		intKey.Bind("403", "dynamic_easing"),
		groupKey.Bind("401", "rotation_target"),
		floatKey.Bind("402", "rotation_offset"),
		groupKey.Bind("516", "target_clamp_min_x"),
		groupKey.Bind("517", "target_clamp_max_x"),
		groupKey.Bind("518", "target_clamp_min_y"),
		groupKey.Bind("519", "target_clamp_max_y"),
	), attrs(
		dsl.Attr("degrees", rotateDegrees()),
		groupRef("center", "target_group_2"),
		dsl.Same("lock_object_rotation"),
	))

	define(RotateBy, nil, nil)

	aim := []dsl.AttrBinding{
		dsl.Same("dynamic_mode"),
		dsl.Same("dynamic_easing"),
		dsl.Same("rotation_target"),
		dsl.Same("rotation_offset"),
		dsl.Attr("rotation_target_player", targetPlayer()),
	}
	define(RotateAim, fields(flag("100")), attrs(append(aim, dsl.Attr("target_clamp", clampRect()))...))
	define(RotateAs, fields(flag("394")), attrs(aim...))
}

func defineItems() {
	itemKeys := []dsl.FieldBinding{
		enumKey[ItemType]().Bind("476", "item_type_1"),
		enumKey[ItemType]().Bind("477", "item_type_2"),
		floatKey.Bind("479", "mod"),
		enumKey[ItemOperator]().Bind("480", "operator_1"),
		enumKey[ItemOperator]().Bind("481", "operator_2"),
		enumKey[SignFunc]().Bind("578", "sign_func_1"),
		enumKey[SignFunc]().Bind("579", "sign_func_2"),
		enumKey[RoundingFunc]().Bind("485", "rounding_func_1"),
		enumKey[RoundingFunc]().Bind("486", "rounding_func_2"),
	}

	define(ItemEdit, fields(append(itemKeys,
		enumKey[ItemType]().Bind("478", "item_type_3"),
		enumKey[ItemOperator]().Bind("482", "operator_3"),
	)...), attrs(
		dsl.Attr("a", itemByType("target_id", "item_type_1")),
		dsl.Attr("b", itemByType("target_id_2", "item_type_2")),
		dsl.Same("mod"),
		dsl.Attr("result", itemByType("target_group", "item_type_3")),
		dsl.Rename("operator_a_b", "operator_2"),
		dsl.Rename("operator_ab_mod", "operator_3"),
		dsl.Rename("rounding_abm", "rounding_func_1"),
		dsl.Rename("sign_abm", "sign_func_1"),
		dsl.Rename("operator_c_abm", "operator_1"),
		dsl.Rename("rounding_cabm", "rounding_func_2"),
		dsl.Rename("sign_cabm", "sign_func_2"),
	))

	define(ItemCompare, fields(append(itemKeys,
		enumKey[ItemComparison]().Bind("482", "operator_3"),
		floatKey.Bind("483", "mod_2"),
		floatKey.Bind("484", "tolerance"),
	)...), attrs(
		dsl.Attr("a", itemByType("target_id", "item_type_1")),
		dsl.Attr("b", itemByType("target_id_2", "item_type_2")),
		dsl.Rename("mod_a", "mod"),
		dsl.Rename("mod_b", "mod_2"),
		dsl.Rename("operator_a", "operator_1"),
		dsl.Rename("operator_b", "operator_2"),
		dsl.Rename("rounding_a", "rounding_func_1"),
		dsl.Rename("rounding_b", "rounding_func_2"),
		dsl.Rename("sign_a", "sign_func_1"),
		dsl.Rename("sign_b", "sign_func_2"),
		dsl.Rename("comparison", "operator_3"),
		dsl.Same("tolerance"),
		groupRef("target_true", "target_group"),
		groupRef("target_false", "target_group_2"),
	))

	define(ItemPersistent, fields(
		boolKey.Bind("491", "persistent"),
		boolKey.Bind("492", "target_all"),
		boolKey.Bind("493", "reset"),
		boolKey.Bind("494", "is_timer"),
	), attrs(
		dsl.Attr("target", persistentTarget()),
		dsl.Same("persistent"),
		dsl.Same("target_all"),
		dsl.Same("reset"),
	))
}

// Schema returns the schema registered for c.
func Schema(c Class) (dsl.Schema, bool) { return family.Lookup(c) }
