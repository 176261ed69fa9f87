package handler

import (
	"github.com/l1jgo/reputation/internal/net/packet"
	"github.com/l1jgo/reputation/internal/reputation"
	"github.com/l1jgo/reputation/internal/world"
	"go.uber.org/zap"
)

// PacketNotifier encodes reputation messages and hands them to the
// player's connection. Nothing is acknowledged or retried.
type PacketNotifier struct {
	out world.Sender
	log *zap.Logger
}

func NewPacketNotifier(out world.Sender, log *zap.Logger) *PacketNotifier {
	return &PacketNotifier{out: out, log: log}
}

// InitialReputations sends S_INITIALIZE_FACTIONS:
// count, then per group {group u32, flags u8, standing i32}.
func (n *PacketNotifier) InitialReputations(entries []reputation.StandingEntry) {
	w := packet.NewWriterWithOpcode(packet.S_OPCODE_INITIALIZE_FACTIONS)
	w.WriteDU(uint32(len(entries)))
	for _, e := range entries {
		w.WriteDU(e.GroupID)
		w.WriteC(byte(e.Flags))
		w.WriteD(e.Standing)
	}
	n.send(w)
}

// FactionStanding sends S_SET_FACTION_STANDING:
// bonus f32 (always 0), visual u8, count, then {group u32, standing i32}.
func (n *PacketNotifier) FactionStanding(entries []reputation.StandingEntry, increased bool) {
	w := packet.NewWriterWithOpcode(packet.S_OPCODE_SET_FACTION_STANDING)
	w.WriteF(0)
	w.WriteBool(increased)
	w.WriteDU(uint32(len(entries)))
	for _, e := range entries {
		w.WriteDU(e.GroupID)
		w.WriteD(e.Standing)
	}
	n.send(w)
}

// ForcedReactions sends S_SET_FORCED_REACTIONS: count, then {faction u32, rank u32}.
func (n *PacketNotifier) ForcedReactions(reactions []reputation.ForcedReaction) {
	w := packet.NewWriterWithOpcode(packet.S_OPCODE_SET_FORCED_REACTIONS)
	w.WriteDU(uint32(len(reactions)))
	for _, r := range reactions {
		w.WriteDU(r.FactionID)
		w.WriteDU(uint32(r.Rank))
	}
	n.send(w)
}

// FactionVisible sends S_SET_FACTION_VISIBLE: group u32.
func (n *PacketNotifier) FactionVisible(groupID uint32) {
	w := packet.NewWriterWithOpcode(packet.S_OPCODE_SET_FACTION_VISIBLE)
	w.WriteDU(groupID)
	n.send(w)
}

func (n *PacketNotifier) send(w *packet.Writer) {
	if n.out == nil {
		return
	}
	b := w.Bytes()
	n.log.Debug("TX", zap.Uint16("op", uint16(b[0])|uint16(b[1])<<8), zap.Int("len", len(b)))
	n.out.Send(b)
}
