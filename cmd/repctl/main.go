// Command repctl inspects and edits one character's faction reputation
// through the same manager, tick systems and storage the game server uses.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/l1jgo/reputation/internal/config"
	coresys "github.com/l1jgo/reputation/internal/core/system"
	"github.com/l1jgo/reputation/internal/data"
	"github.com/l1jgo/reputation/internal/handler"
	"github.com/l1jgo/reputation/internal/persist"
	"github.com/l1jgo/reputation/internal/reputation"
	"github.com/l1jgo/reputation/internal/scripting"
	"github.com/l1jgo/reputation/internal/system"
	"github.com/l1jgo/reputation/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

const usage = `usage: repctl [-config path] -char ID -team alliance|horde|neutral <command> [args]

commands:
  show
  set <faction> <value>
  modify <faction> <delta> [-spill-only]
  visible <faction>
  atwar <faction> on|off
  inactive <faction> on|off
  force <faction> <rank>|clear
  reset
`

func run(args []string) error {
	fs := flag.NewFlagSet("repctl", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage) }
	defaultConfig := os.Getenv(config.EnvPath)
	if defaultConfig == "" {
		defaultConfig = "config/server.toml"
	}
	cfgPath := fs.String("config", defaultConfig, "config file")
	charID := fs.Int("char", 0, "character ID")
	name := fs.String("name", "", "character name (display only)")
	teamName := fs.String("team", string(data.TeamAlliance), "character team")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *charID <= 0 {
		fs.Usage()
		return errors.New("-char is required")
	}
	team, err := data.ParseTeam(*teamName)
	if err != nil {
		return err
	}
	reset := len(fs.Args()) == 1 && fs.Arg(0) == "reset"
	command := ""
	if !reset {
		command, err = gmText(fs.Args())
		if err != nil {
			fs.Usage()
			return err
		}
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	factions, err := data.LoadFactionTable(cfg.Reputation.FactionList, cfg.Reputation.FactionTemplates)
	if err != nil {
		return fmt.Errorf("load factions: %w", err)
	}
	teams, err := data.LoadTeamTable(cfg.Reputation.TeamReputation)
	if err != nil {
		return fmt.Errorf("load teams: %w", err)
	}
	log.Debug("static data loaded",
		zap.Int("factions", factions.Count()),
		zap.Int("templates", factions.TemplateCount()),
	)

	spill, closeSpill, err := newSpillover(cfg.Reputation, factions, log)
	if err != nil {
		return err
	}
	defer closeSpill()

	ctx := context.Background()
	store, err := persist.Open(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()
	if reset {
		return resetReputation(ctx, store, int32(*charID), os.Stdout)
	}
	writer := persist.NewWriter(store, cfg.Reputation.QueueSize, cfg.Reputation.SaveTimeout, log)

	ws := world.NewState()
	deps := &handler.Deps{
		Config:    cfg,
		Log:       log,
		World:     ws,
		Factions:  factions,
		Teams:     teams,
		Spillover: spill,
		Loader:    store,
		Writer:    writer,
		Printer:   message.NewPrinter(language.Make(cfg.Server.Locale)),
	}

	input := system.NewInputSystem(deps, 1, 0, log)
	runner := coresys.NewRunner()
	runner.Register(input)
	runner.Register(system.NewReputationSendSystem(ws))
	runner.Register(system.NewPersistenceSystem(ws, deps, log, cfg.Reputation.SaveIntervalTicks))

	if *name == "" {
		*name = fmt.Sprintf("char#%d", *charID)
	}
	out := &logSender{log: log}
	player, err := handler.EnterWorld(out, handler.Character{
		SessionID: 1,
		CharID:    int32(*charID),
		Name:      *name,
		Team:      team,
	}, deps)
	if err != nil {
		writer.Close()
		return err
	}

	input.Enqueue(system.Command{CharID: player.CharID, Text: command, Reply: os.Stdout})
	runner.Tick(cfg.Network.TickRate)

	handler.Logout(player, deps)
	writer.Close()
	if n := writer.Failures(); n > 0 {
		return fmt.Errorf("%d reputation batch(es) failed to save", n)
	}

	if command != ".show" {
		fmt.Println()
		handler.HandleGMCommand(os.Stdout, player, ".show", deps)
	}
	log.Debug("done", zap.Int("packets", out.count), zap.Int64("saved_batches", writer.Saved()))
	return nil
}

// gmText turns CLI words into the equivalent in-game GM command.
func gmText(args []string) (string, error) {
	if len(args) == 0 {
		return ".show", nil
	}
	words := make([]string, 0, len(args))
	for _, a := range args {
		if a == "-spill-only" || a == "--spill-only" {
			a = "spill"
		}
		words = append(words, a)
	}
	switch words[0] {
	case "show", "set", "modify", "visible", "atwar", "inactive", "force":
	case "clear":
		// "clear F" is shorthand for "force F clear".
		if len(words) != 2 {
			return "", errors.New("usage: clear <faction>")
		}
		return ".force " + words[1] + " clear", nil
	default:
		return "", fmt.Errorf("unknown command %q", words[0])
	}
	return "." + strings.Join(words, " "), nil
}

// resetReputation drops every stored row of charID. The next login starts
// from the static defaults.
func resetReputation(ctx context.Context, store persist.Store, charID int32, out io.Writer) error {
	rows, err := store.LoadReputation(ctx, charID)
	if err != nil {
		return fmt.Errorf("load reputation: %w", err)
	}
	if err := store.DeleteReputation(ctx, charID); err != nil {
		return fmt.Errorf("delete reputation: %w", err)
	}
	fmt.Fprintf(out, "char %d: %d reputation row(s) deleted\n", charID, len(rows))
	return nil
}

func newSpillover(cfg config.ReputationConfig, factions *data.FactionTable, log *zap.Logger) (reputation.SpilloverResolver, func(), error) {
	switch cfg.Spillover {
	case "table":
		ts, err := reputation.NewTableSpillover(factions)
		if err != nil {
			return nil, nil, fmt.Errorf("spillover table: %w", err)
		}
		return ts, func() {}, nil
	case "lua":
		eng, err := scripting.NewEngine(cfg.ScriptsDir, log)
		if err != nil {
			return nil, nil, fmt.Errorf("init lua engine: %w", err)
		}
		if !eng.HasSpillover() {
			log.Warn("no reputation_spillover function in scripts, spillover disabled",
				zap.String("dir", cfg.ScriptsDir))
		}
		return eng, eng.Close, nil
	default:
		return nil, func() {}, nil
	}
}

// logSender stands in for a client connection and logs outbound messages.
type logSender struct {
	log   *zap.Logger
	count int
}

func (s *logSender) Send(b []byte) {
	s.count++
	s.log.Debug("client message", zap.Int("len", len(b)), zap.Binary("data", b))
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	// Command output owns stdout.
	zapCfg.OutputPaths = []string{"stderr"}

	return zapCfg.Build()
}
