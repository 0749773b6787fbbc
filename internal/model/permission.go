package model

// Level is an effective permission level for a (user, inventory) pair.
// Levels form a total order: none < view < edit_items < edit_inventory <
// all_access < owner. Only the middle three are storable on a share; owner is
// implicit in inventory ownership and all_access is implicit in an
// all-access grant, so both exist only as resolution results.
type Level string

const (
	LevelNone          Level = "none"
	LevelView          Level = "view"
	LevelEditItems     Level = "edit_items"
	LevelEditInventory Level = "edit_inventory"
	LevelAllAccess     Level = "all_access"
	LevelOwner         Level = "owner"
)

// levelRank orders levels for comparison. Unknown levels rank below none so
// that comparisons against them fail closed.
var levelRank = map[Level]int{
	LevelNone:          1,
	LevelView:          2,
	LevelEditItems:     3,
	LevelEditInventory: 4,
	LevelAllAccess:     5,
	LevelOwner:         6,
}

// AtLeast reports whether l meets or exceeds the minimum required level.
func (l Level) AtLeast(minimum Level) bool {
	return levelRank[l] >= levelRank[minimum]
}

// MaxLevel returns the higher-ranked of the two levels.
func MaxLevel(a, b Level) Level {
	if levelRank[a] >= levelRank[b] {
		return a
	}
	return b
}

// ShareableLevel reports whether l is one of the three levels that may be
// stored on an inventory share.
func ShareableLevel(l Level) bool {
	switch l {
	case LevelView, LevelEditItems, LevelEditInventory:
		return true
	}
	return false
}
