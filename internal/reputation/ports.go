package reputation

import "github.com/l1jgo/reputation/internal/data"

// Row is the persisted shape of one FactionState.
type Row struct {
	GroupID  uint32
	Standing int32
	Flags    data.FactionFlags
}

// Transaction is a unit of work accepting batched upserts keyed by GroupID.
// Commit and failure reporting belong to the persistence session.
type Transaction interface {
	UpsertReputation(row Row)
}

// StandingEntry is one faction as the client sees it.
type StandingEntry struct {
	GroupID  uint32
	Standing int32
	Flags    data.FactionFlags // client-observable flags
}

// Notifier delivers reputation messages to the owner's connection.
// Fire-and-forget: no acknowledgement, no retry.
type Notifier interface {
	// InitialReputations sends the full snapshot of all tracked groups.
	InitialReputations(entries []StandingEntry)
	// FactionStanding sends changed groups. increased plays the client's
	// "reputation increased" effect.
	FactionStanding(entries []StandingEntry, increased bool)
	ForcedReactions(reactions []ForcedReaction)
	FactionVisible(groupID uint32)
}

// NopNotifier discards every message.
type NopNotifier struct{}

func (NopNotifier) InitialReputations([]StandingEntry)    {}
func (NopNotifier) FactionStanding([]StandingEntry, bool) {}
func (NopNotifier) ForcedReactions([]ForcedReaction)      {}
func (NopNotifier) FactionVisible(uint32)                 {}
