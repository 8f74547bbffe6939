package model

// Player represents a row in the `players` table. The JSON tags follow the
// column names because list responses return rows as stored.
//
// Fields:
//
//	ID         : primary key, assigned by the store on insert.
//	PlayerName : trimmed display name; duplicates are allowed.
//	PlayerTitle: derived from Points on every write.
//	Rank       : legacy nullable column; part of the listing order, never written.
//	Points     : derived from TierClass and MaceTier on every write.
//	TierClass  : upper-cased combat tier code, nil when absent.
//	Region     : trimmed region label.
//	MaceTier   : upper-cased mace tier code, nil when absent.
type Player struct {
	ID          int64   `json:"id"`
	PlayerName  string  `json:"playerName"`
	PlayerTitle string  `json:"playerTitle"`
	Rank        *string `json:"rank"`
	Points      int     `json:"points"`
	TierClass   *string `json:"tierClass"`
	Region      string  `json:"region"`
	MaceTier    *string `json:"maceTier"`
}

// Clone returns a deep copy so callers holding the original cannot mutate
// the copy through the pointer fields.
func (p *Player) Clone() *Player {
	out := *p
	out.Rank = cloneString(p.Rank)
	out.TierClass = cloneString(p.TierClass)
	out.MaceTier = cloneString(p.MaceTier)
	return &out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// StringValue dereferences a nullable column, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
