package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/l1jgo/reputation/internal/data"
	"github.com/l1jgo/reputation/internal/reputation"
	"github.com/l1jgo/reputation/internal/world"
	"go.uber.org/zap"
)

// Character identifies who is entering the world.
type Character struct {
	SessionID uint64
	CharID    int32
	Name      string
	Team      data.Team
}

// EnterWorld builds the character's reputation manager from storage, sends
// the initial reputation and forced reaction lists, and registers the player.
// A load failure keeps the player out of the world so defaults never
// overwrite stored rows.
func EnterWorld(out world.Sender, ch Character, deps *Deps) (*world.Player, error) {
	rep := reputation.NewManager(ch.Team, reputation.Deps{
		Factions:  deps.Factions,
		Teams:     deps.Teams,
		Spillover: deps.Spillover,
		Notifier:  NewPacketNotifier(out, deps.Log),
		Log:       deps.Log.With(zap.Int32("char", ch.CharID)),
	})

	if err := loadReputationFromDB(rep, ch.CharID, deps); err != nil {
		deps.Log.Error("load reputation failed", zap.String("name", ch.Name), zap.Error(err))
		return nil, fmt.Errorf("enter world %s: %w", ch.Name, err)
	}

	player := &world.Player{
		SessionID: ch.SessionID,
		CharID:    ch.CharID,
		Name:      ch.Name,
		Team:      ch.Team,
		Rep:       rep,
		Sender:    out,
	}
	deps.World.AddPlayer(player)

	rep.SendInitialReputations()
	rep.SendForceReactions()

	deps.Log.Info("character entered world",
		zap.String("name", ch.Name),
		zap.Int32("char", ch.CharID),
		zap.String("team", string(ch.Team)),
		zap.Int("visible_factions", rep.VisibleFactionCount()),
	)
	return player, nil
}

func loadReputationFromDB(rep *reputation.Manager, charID int32, deps *Deps) error {
	if deps.Loader == nil {
		return nil
	}
	timeout := 3 * time.Second
	if deps.Config != nil && deps.Config.Reputation.SaveTimeout > 0 {
		timeout = deps.Config.Reputation.SaveTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	rows, err := deps.Loader.LoadReputation(ctx, charID)
	if err != nil {
		return err
	}
	rep.LoadFromDB(rows)
	return nil
}
