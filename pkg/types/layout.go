package types

// LayoutMode selects how the on-disk tree encodes hierarchy.
type LayoutMode int

const (
	// LayoutNested mirrors the entity hierarchy as nested directories.
	LayoutNested LayoutMode = iota
	// LayoutFlat keeps a subtree's records in one directory; order is
	// rebuilt from the level stored in each record.
	LayoutFlat
)

func (m LayoutMode) String() string {
	if m == LayoutFlat {
		return "flat"
	}
	return "nested"
}
