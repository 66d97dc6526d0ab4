package gdlevel

// Policy controls whether a default is written out by a mapping layer.
type Policy int

const (
	NoEffect    Policy = iota // Write whatever the input carries.
	OmitDefault               // Drop values equal to the default.
	AlwaysEmit                // Write the default even when the input lacks the entry.
)

func (p Policy) String() string {
	switch p {
	case OmitDefault:
		return "omit_default"
	case AlwaysEmit:
		return "always_emit"
	default:
		return "no_effect"
	}
}

// Wildcard is the key of the unused bucket binding in a group. It also stands
// for "splice into the parent" when used as a bucket's name.
const Wildcard = "*"
