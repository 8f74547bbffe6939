package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/iliyamo/combat-tiers/internal/client"
	"github.com/iliyamo/combat-tiers/internal/model"
	"github.com/iliyamo/combat-tiers/internal/tier"
)

// Output formats results as text tables or indented JSON.
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a formatter writing to w.
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print writes data in the configured format.
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
		return
	}
	switch v := data.(type) {
	case []model.Player:
		o.printPlayers(v)
	case *model.Player:
		o.printPlayer(v)
	case *client.WriteResult:
		fmt.Fprintln(o.w, v.Message)
		if v.Player != nil {
			o.printPlayer(v.Player)
		}
	case *client.Health:
		fmt.Fprintf(o.w, "Status: %s\nTime: %s\n", v.Status, v.Timestamp)
	case tier.Score:
		fmt.Fprintf(o.w, "Points: %d\nTitle: %s\n", v.Points, v.Title)
	default:
		o.printJSON(data)
	}
}

// PrintMessage writes a one-line status message.
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
		return
	}
	fmt.Fprintln(o.w, msg)
}

// PrintFieldErrors lists form errors in validation order.
func (o *Output) PrintFieldErrors(errs map[string]string) {
	if o.format == "json" {
		o.printJSON(map[string]any{"errors": errs})
		return
	}
	for _, field := range model.FieldOrder() {
		if msg, ok := errs[field]; ok {
			fmt.Fprintf(o.w, "%s: %s\n", field, msg)
		}
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printPlayers(players []model.Player) {
	if len(players) == 0 {
		fmt.Fprintln(o.w, "No players found")
		return
	}
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tREGION\tTIER\tMACE\tPOINTS\tTITLE")
	for _, p := range players {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%s\n",
			p.ID, p.PlayerName, p.Region, dash(p.TierClass), dash(p.MaceTier), p.Points, p.PlayerTitle)
	}
	_ = tw.Flush()
	fmt.Fprintf(o.w, "%d player(s)\n", len(players))
}

func (o *Output) printPlayer(p *model.Player) {
	fmt.Fprintf(o.w, "Player: %s (#%d)\n", p.PlayerName, p.ID)
	fmt.Fprintf(o.w, "Region: %s\n", p.Region)
	fmt.Fprintf(o.w, "Tier: %s  Mace: %s\n", dash(p.TierClass), dash(p.MaceTier))
	fmt.Fprintf(o.w, "Points: %d (%s)\n", p.Points, p.PlayerTitle)
}

func dash(s *string) string {
	if v := model.StringValue(s); v != "" {
		return v
	}
	return "-"
}
