package packet

// Outbound reputation opcodes.
const (
	S_OPCODE_INITIALIZE_FACTIONS  uint16 = 0x0122
	S_OPCODE_SET_FACTION_VISIBLE  uint16 = 0x0123
	S_OPCODE_SET_FACTION_STANDING uint16 = 0x0124
	S_OPCODE_SET_FORCED_REACTIONS uint16 = 0x02A5
)
