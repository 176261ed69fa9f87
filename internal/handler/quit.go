package handler

import (
	"github.com/l1jgo/reputation/internal/world"
	"go.uber.org/zap"
)

// SaveReputation queues the player's dirty reputation rows on the writer.
// Returns the number of rows queued. Rows the writer does not accept stay
// dirty for the next save.
func SaveReputation(p *world.Player, deps *Deps) int {
	if deps.Writer == nil || !p.Rep.NeedsSave() {
		return 0
	}
	batch := deps.Writer.Begin(p.CharID)
	n := p.Rep.SaveToDB(batch)
	if !deps.Writer.Submit(batch) {
		p.Rep.RestoreNeedSave(batch.Rows)
		deps.Log.Warn("reputation save deferred", zap.String("name", p.Name), zap.Int("rows", n))
		return 0
	}
	return n
}

// Logout flushes pending client updates, saves the player and removes them
// from the world.
func Logout(p *world.Player, deps *Deps) {
	p.Rep.SendPending()
	n := SaveReputation(p, deps)
	deps.World.RemovePlayer(p.SessionID)
	deps.Log.Info("character left world", zap.String("name", p.Name), zap.Int("saved_rows", n))
}
