// Package tier holds the fixed tier vocabulary together with the point table
// and title ladder derived from it. The server and the tierctl client both
// call into this package so the two sides score players identically.
package tier

import "strings"

// Codes is the tier vocabulary ordered from weakest to strongest. L/H stand
// for the low and high half of a numbered tier; 5 is the lowest tier.
var Codes = []string{"LT5", "HT5", "LT4", "HT4", "LT3", "HT3", "LT2", "HT2", "LT1", "HT1"}

// points maps every code in Codes to its point value.
var points = map[string]int{
	"LT5": 1,
	"HT5": 2,
	"LT4": 3,
	"HT4": 4,
	"LT3": 6,
	"HT3": 10,
	"LT2": 20,
	"HT2": 30,
	"LT1": 45,
	"HT1": 60,
}

// Titles, highest first.
const (
	TitleMaster     = "Combat Master"
	TitleAce        = "Combat Ace"
	TitleSpecialist = "Combat Specialist"
	TitleCadet      = "Combat Cadet"
	TitleNovice     = "Combat Novice"
	TitleRookie     = "Rookie"
)

// Normalize upper-cases a code so it can be compared against Codes.
func Normalize(code string) string {
	return strings.ToUpper(code)
}

// IsValid reports whether code, ignoring case, is one of Codes. The empty
// string is not a valid code; callers that allow an absent tier must check
// for blank input before calling IsValid.
func IsValid(code string) bool {
	_, ok := points[Normalize(code)]
	return ok
}

// Points returns the point value of a single code. Blank or unknown codes
// are worth nothing.
func Points(code string) int {
	if code == "" {
		return 0
	}
	return points[Normalize(code)]
}

// CalculatePoints sums the contributions of the combat tier and the mace
// tier. Each slot is looked up on its own, so a player holding both accrues
// both values.
func CalculatePoints(tierCode, maceTierCode string) int {
	return Points(tierCode) + Points(maceTierCode)
}

// PlayerTitle maps a point total onto the title ladder. The top rung needs
// strictly more than 250 points; every other rung is inclusive.
func PlayerTitle(total int) string {
	switch {
	case total > 250:
		return TitleMaster
	case total >= 100:
		return TitleAce
	case total >= 50:
		return TitleSpecialist
	case total >= 20:
		return TitleCadet
	case total >= 10:
		return TitleNovice
	default:
		return TitleRookie
	}
}

// Score is the derived part of a player record.
type Score struct {
	Points int    `json:"points"`
	Title  string `json:"playerTitle"`
}

// Preview computes points and title for a tier pair in one call.
func Preview(tierCode, maceTierCode string) Score {
	total := CalculatePoints(tierCode, maceTierCode)
	return Score{Points: total, Title: PlayerTitle(total)}
}
