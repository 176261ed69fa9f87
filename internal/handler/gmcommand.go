package handler

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/l1jgo/reputation/internal/data"
	"github.com/l1jgo/reputation/internal/reputation"
	"github.com/l1jgo/reputation/internal/world"
	"go.uber.org/zap"
)

// HandleGMCommand processes a "." prefixed GM command against the player's
// reputation. Replies go to out. Returns true if the text was a GM command
// (consumed), false otherwise.
func HandleGMCommand(out io.Writer, player *world.Player, text string, deps *Deps) bool {
	if !strings.HasPrefix(text, ".") {
		return false
	}

	parts := strings.Fields(text[1:])
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help":
		gmHelp(out)
	case "show", "rep":
		gmShow(out, player, deps)
	case "set", "setrep":
		gmSet(out, player, args, deps)
	case "modify", "addrep":
		gmModify(out, player, args, deps)
	case "visible":
		gmVisible(out, player, args, deps)
	case "atwar":
		gmAtWar(out, player, args, deps)
	case "inactive":
		gmInactive(out, player, args, deps)
	case "force":
		gmForce(out, player, args, deps)
	default:
		gmMsg(out, deps, "unknown GM command: ."+cmd+"  type .help for the command list")
		return true
	}

	deps.Log.Debug("gm command", zap.String("name", player.Name), zap.String("cmd", cmd), zap.Strings("args", args))
	return true
}

// --- Helper ---

func gmMsg(out io.Writer, deps *Deps, msg string) {
	gmMsgf(out, deps, "%s", msg)
}

func gmMsgf(out io.Writer, deps *Deps, format string, a ...any) {
	if deps.Printer != nil {
		deps.Printer.Fprintf(out, format+"\n", a...)
		return
	}
	fmt.Fprintf(out, format+"\n", a...)
}

// gmFaction resolves a faction by numeric ID or case-insensitive name.
func gmFaction(out io.Writer, arg string, deps *Deps) *data.Faction {
	if id, err := strconv.ParseUint(arg, 10, 32); err == nil {
		if f := deps.Factions.Get(uint32(id)); f != nil {
			return f
		}
	} else {
		for _, f := range deps.Factions.All() {
			if strings.EqualFold(f.Name, arg) {
				return f
			}
		}
	}
	gmMsg(out, deps, "unknown faction: "+arg)
	return nil
}

func gmOnOff(out io.Writer, arg string, deps *Deps) (bool, bool) {
	switch strings.ToLower(arg) {
	case "on", "1", "true":
		return true, true
	case "off", "0", "false":
		return false, true
	}
	gmMsg(out, deps, "expected on|off, got "+arg)
	return false, false
}

func gmGroup(out io.Writer, player *world.Player, f *data.Faction, deps *Deps) (uint32, bool) {
	st, ok := player.Rep.GetStateFor(f)
	if !ok {
		gmMsgf(out, deps, "%s has no reputation for team %s", f.Name, player.Team)
		return 0, false
	}
	return st.GroupID, true
}

func gmResult(out io.Writer, player *world.Player, f *data.Faction, changed bool, deps *Deps) {
	if !changed {
		gmMsgf(out, deps, "%s: unchanged", f.Name)
		return
	}
	gmMsgf(out, deps, "%s: %d (%s)", f.Name, player.Rep.GetReputation(f), player.Rep.RankName(f))
}

// --- Commands ---

func gmHelp(out io.Writer) {
	fmt.Fprint(out, `.show                       list reputation
.set <faction> <value>      set absolute standing
.modify <faction> <delta> [spill]
                            add to standing with spillover (spill: related factions only)
.visible <faction>          reveal faction
.visible template <id>      reveal the faction of a creature template
.atwar <faction> on|off     toggle at war
.inactive <faction> on|off  toggle inactive
.force <faction> <rank>|clear
                            override the reaction rank
`)
}

func gmShow(out io.Writer, player *world.Player, deps *Deps) {
	rep := player.Rep
	gmMsgf(out, deps, "%-5s %-6s %-28s %10s  %-10s %s", "GROUP", "ID", "FACTION", "STANDING", "RANK", "FLAGS")
	for _, st := range rep.StateList() {
		name := "?"
		if f := deps.Factions.Get(st.ID); f != nil {
			name = f.Name
		}
		gmMsgf(out, deps, "%-5d %-6d %-28s %10d  %-10s %s",
			st.GroupID, st.ID, name, st.Standing, st.Rank(), gmFlags(st))
	}
	for _, fr := range rep.ForcedReactions() {
		name := "?"
		if f := deps.Factions.Get(fr.FactionID); f != nil {
			name = f.Name
		}
		gmMsgf(out, deps, "forced %d %s -> %s", fr.FactionID, name, fr.Rank)
	}
	gmMsgf(out, deps, "visible=%d honored=%d revered=%d exalted=%d",
		rep.VisibleFactionCount(), rep.HonoredFactionCount(),
		rep.ReveredFactionCount(), rep.ExaltedFactionCount())
}

func gmFlags(st reputation.FactionState) string {
	var flags []string
	if st.IsVisible() {
		flags = append(flags, "visible")
	}
	if st.IsAtWar() {
		flags = append(flags, "at_war")
	}
	if st.Flags.Has(data.FactionFlagInactive) {
		flags = append(flags, "inactive")
	}
	if st.Flags.Has(data.FactionFlagHidden) {
		flags = append(flags, "hidden")
	}
	if st.Flags.Has(data.FactionFlagForcedPeace) {
		flags = append(flags, "peace_forced")
	}
	if st.Flags.Has(data.FactionFlagForcedInvisible) {
		flags = append(flags, "invisible_forced")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}

func gmSet(out io.Writer, player *world.Player, args []string, deps *Deps) {
	if len(args) < 2 {
		gmMsg(out, deps, "usage: .set <faction> <value>")
		return
	}
	f := gmFaction(out, args[0], deps)
	if f == nil {
		return
	}
	v, err := strconv.ParseInt(args[1], 10, 32)
	if err != nil {
		gmMsg(out, deps, "invalid value: "+args[1])
		return
	}
	gmResult(out, player, f, player.Rep.SetReputation(f, int32(v)), deps)
}

func gmModify(out io.Writer, player *world.Player, args []string, deps *Deps) {
	if len(args) < 2 {
		gmMsg(out, deps, "usage: .modify <faction> <delta> [spill]")
		return
	}
	f := gmFaction(out, args[0], deps)
	if f == nil {
		return
	}
	d, err := strconv.ParseInt(args[1], 10, 32)
	if err != nil {
		gmMsg(out, deps, "invalid delta: "+args[1])
		return
	}
	spillOnly := len(args) > 2 && strings.EqualFold(args[2], "spill")
	gmResult(out, player, f, player.Rep.ModifyReputation(f, int32(d), spillOnly), deps)
}

func gmVisible(out io.Writer, player *world.Player, args []string, deps *Deps) {
	if len(args) < 1 {
		gmMsg(out, deps, "usage: .visible <faction> | .visible template <id>")
		return
	}
	if strings.EqualFold(args[0], "template") {
		gmVisibleTemplate(out, player, args[1:], deps)
		return
	}
	f := gmFaction(out, args[0], deps)
	if f == nil {
		return
	}
	if _, ok := gmGroup(out, player, f, deps); !ok {
		return
	}
	player.Rep.SetVisible(f)
	gmMsgf(out, deps, "%s: visible=%t", f.Name, player.Rep.IsVisible(f))
}

// gmVisibleTemplate reveals the faction behind a creature template, as
// meeting that creature would.
func gmVisibleTemplate(out io.Writer, player *world.Player, args []string, deps *Deps) {
	if len(args) < 1 {
		gmMsg(out, deps, "usage: .visible template <id>")
		return
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		gmMsg(out, deps, "invalid template: "+args[0])
		return
	}
	t := deps.Factions.GetTemplate(uint32(id))
	if t == nil {
		gmMsg(out, deps, "unknown template: "+args[0])
		return
	}
	f := deps.Factions.Get(t.Faction)
	if f == nil {
		gmMsgf(out, deps, "template %d has no faction", t.ID)
		return
	}
	if _, ok := gmGroup(out, player, f, deps); !ok {
		return
	}
	player.Rep.SetVisibleByTemplate(t)
	gmMsgf(out, deps, "%s: visible=%t", f.Name, player.Rep.IsVisible(f))
}

func gmAtWar(out io.Writer, player *world.Player, args []string, deps *Deps) {
	if len(args) < 2 {
		gmMsg(out, deps, "usage: .atwar <faction> on|off")
		return
	}
	f := gmFaction(out, args[0], deps)
	if f == nil {
		return
	}
	on, ok := gmOnOff(out, args[1], deps)
	if !ok {
		return
	}
	group, ok := gmGroup(out, player, f, deps)
	if !ok {
		return
	}
	player.Rep.SetAtWar(group, on)
	gmMsgf(out, deps, "%s: at_war=%t", f.Name, player.Rep.IsAtWar(f))
}

func gmInactive(out io.Writer, player *world.Player, args []string, deps *Deps) {
	if len(args) < 2 {
		gmMsg(out, deps, "usage: .inactive <faction> on|off")
		return
	}
	f := gmFaction(out, args[0], deps)
	if f == nil {
		return
	}
	on, ok := gmOnOff(out, args[1], deps)
	if !ok {
		return
	}
	group, ok := gmGroup(out, player, f, deps)
	if !ok {
		return
	}
	if !player.Rep.SetInactive(group, on) {
		gmMsgf(out, deps, "%s: inactive unchanged", f.Name)
		return
	}
	gmMsgf(out, deps, "%s: inactive=%t", f.Name, on)
}

func gmForce(out io.Writer, player *world.Player, args []string, deps *Deps) {
	if len(args) < 2 {
		gmMsg(out, deps, "usage: .force <faction> <rank>|clear")
		return
	}
	f := gmFaction(out, args[0], deps)
	if f == nil {
		return
	}
	if strings.EqualFold(args[1], "clear") {
		player.Rep.ApplyForceReaction(f.ID, 0, false)
		gmMsgf(out, deps, "%s: forced reaction cleared", f.Name)
		return
	}
	r, err := reputation.ParseRank(args[1])
	if err != nil {
		gmMsg(out, deps, err.Error())
		return
	}
	player.Rep.ApplyForceReaction(f.ID, r, true)
	gmMsgf(out, deps, "%s: forced to %s", f.Name, r)
}
