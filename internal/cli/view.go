package cli

import (
	"strings"

	"github.com/iliyamo/combat-tiers/internal/model"
)

// FilterPlayers keeps players whose name, region, title, tier or mace tier
// contains term, ignoring case. An empty term keeps everything.
func FilterPlayers(players []model.Player, term string) []model.Player {
	if term == "" {
		return players
	}
	term = strings.ToLower(term)
	out := make([]model.Player, 0, len(players))
	for _, p := range players {
		fields := []string{p.PlayerName, p.Region, p.PlayerTitle, model.StringValue(p.TierClass), model.StringValue(p.MaceTier)}
		for _, f := range fields {
			if f != "" && strings.Contains(strings.ToLower(f), term) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// formFromPlayer pre-fills the edit form with a stored record.
func formFromPlayer(p *model.Player) model.PlayerInput {
	return model.PlayerInput{
		PlayerName: p.PlayerName,
		Tier:       model.StringValue(p.TierClass),
		Macetier:   model.StringValue(p.MaceTier),
		Region:     p.Region,
	}
}
