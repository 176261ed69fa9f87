package handler

import (
	"context"

	"github.com/l1jgo/reputation/internal/config"
	"github.com/l1jgo/reputation/internal/data"
	"github.com/l1jgo/reputation/internal/persist"
	"github.com/l1jgo/reputation/internal/reputation"
	"github.com/l1jgo/reputation/internal/world"
	"go.uber.org/zap"
	"golang.org/x/text/message"
)

// ReputationLoader reads a character's stored reputation rows.
type ReputationLoader interface {
	LoadReputation(ctx context.Context, charID int32) ([]reputation.Row, error)
}

// Deps holds shared dependencies injected into all handlers.
type Deps struct {
	Config    *config.Config
	Log       *zap.Logger
	World     *world.State
	Factions  *data.FactionTable
	Teams     *data.TeamTable
	Spillover reputation.SpilloverResolver // nil = no spillover
	Loader    ReputationLoader
	Writer    *persist.Writer
	Printer   *message.Printer // GM output; nil = plain formatting
}
