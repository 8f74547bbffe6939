package model

import (
	"fmt"
	"strings"

	"github.com/iliyamo/combat-tiers/internal/tier"
)

// Field names used in validation errors. They match the request body keys.
const (
	FieldPlayerName = "playerName"
	FieldRegion     = "region"
	FieldTiers      = "tiers"
	FieldTier       = "tier"
	FieldMacetier   = "macetier"
)

// ValidationError reports a rejected player input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PlayerInput is the body accepted by the create and update endpoints. Tier
// and Macetier may be empty strings, or missing entirely, meaning "absent".
type PlayerInput struct {
	PlayerName string `json:"playerName"`
	Tier       string `json:"tier"`
	Macetier   string `json:"macetier"`
	Region     string `json:"region"`
}

// rule is one row of the player validation table. check returns true when
// the input passes. server is the API's message; client is the wording the
// tierctl form shows next to the field.
type rule struct {
	field  string
	check  func(in PlayerInput) bool
	server string
	client string
}

var validTierList = strings.Join(tier.Codes, ", ")

// rules is evaluated top-down. The API stops at the first failure; the
// client form collects every failure at once.
var rules = []rule{
	{
		field:  FieldPlayerName,
		check:  func(in PlayerInput) bool { return !blank(in.PlayerName) },
		server: "Player name is required",
		client: "Player name is required",
	},
	{
		field:  FieldRegion,
		check:  func(in PlayerInput) bool { return !blank(in.Region) },
		server: "Region is required",
		client: "Region is required",
	},
	{
		field:  FieldTiers,
		check:  func(in PlayerInput) bool { return !blank(in.Tier) || !blank(in.Macetier) },
		server: "At least one tier is required",
		client: "At least one tier (Tier or Macetier) is required",
	},
	{
		field:  FieldTier,
		check:  func(in PlayerInput) bool { return blank(in.Tier) || tier.IsValid(in.Tier) },
		server: "Invalid tier format",
		client: fmt.Sprintf("Invalid tier. Use: %s", validTierList),
	},
	{
		field:  FieldMacetier,
		check:  func(in PlayerInput) bool { return blank(in.Macetier) || tier.IsValid(in.Macetier) },
		server: "Invalid macetier format",
		client: fmt.Sprintf("Invalid macetier. Use: %s", validTierList),
	},
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Validate returns the first failing rule as a *ValidationError, or nil.
func (in PlayerInput) Validate() error {
	for _, r := range rules {
		if !r.check(in) {
			return &ValidationError{Field: r.field, Message: r.server}
		}
	}
	return nil
}

// FieldErrors runs every rule and returns the client-side message for each
// failing field. An empty map means the input is acceptable.
func (in PlayerInput) FieldErrors() map[string]string {
	out := make(map[string]string)
	for _, r := range rules {
		if !r.check(in) {
			out[r.field] = r.client
		}
	}
	return out
}

// FieldOrder lists validation fields in the order rules are evaluated.
func FieldOrder() []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.field)
	}
	return out
}

// Trimmed returns a copy of the input with every field trimmed, which is the
// shape the client sends over the wire.
func (in PlayerInput) Trimmed() PlayerInput {
	return PlayerInput{
		PlayerName: strings.TrimSpace(in.PlayerName),
		Tier:       strings.TrimSpace(in.Tier),
		Macetier:   strings.TrimSpace(in.Macetier),
		Region:     strings.TrimSpace(in.Region),
	}
}

// ToPlayer builds the record to persist: trimmed text, upper-cased tier codes
// with blanks stored as nil, and freshly computed points and title. The
// input must already have passed Validate.
func (in PlayerInput) ToPlayer(id int64) *Player {
	t := in.Trimmed()
	score := tier.Preview(t.Tier, t.Macetier)
	return &Player{
		ID:          id,
		PlayerName:  t.PlayerName,
		PlayerTitle: score.Title,
		Points:      score.Points,
		TierClass:   tierCode(t.Tier),
		Region:      t.Region,
		MaceTier:    tierCode(t.Macetier),
	}
}

func tierCode(s string) *string {
	if s == "" {
		return nil
	}
	code := tier.Normalize(s)
	return &code
}
