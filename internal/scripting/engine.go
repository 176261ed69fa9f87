package scripting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/l1jgo/reputation/internal/reputation"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

const spilloverFunc = "reputation_spillover"

// Engine wraps a single gopher-lua VM for reputation rules.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts under
// scriptsDir/reputation. A missing directory is not an error.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	ranks := vm.NewTable()
	for r := reputation.RankHated; r <= reputation.RankExalted; r++ {
		ranks.RawSetString(strings.ToUpper(r.String()), lua.LNumber(r))
	}
	vm.SetGlobal("RANK", ranks)

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(filepath.Join(scriptsDir, "reputation")); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load reputation scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// HasSpillover reports whether a script defined reputation_spillover.
func (e *Engine) HasSpillover() bool {
	return e.vm.GetGlobal(spilloverFunc) != lua.LNil
}

// Spillover calls reputation_spillover({faction_id, delta}). The script
// returns an array of {faction_id, delta, rank_cap}; rank_cap is a rank
// name or RANK value and defaults to exalted. Malformed entries are skipped.
func (e *Engine) Spillover(factionID uint32, delta int32) []reputation.Spill {
	fn := e.vm.GetGlobal(spilloverFunc)
	if fn == lua.LNil {
		return nil
	}

	ctx := e.vm.NewTable()
	ctx.RawSetString("faction_id", lua.LNumber(factionID))
	ctx.RawSetString("delta", lua.LNumber(delta))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, ctx); err != nil {
		e.log.Error("lua reputation_spillover error", zap.Uint32("faction", factionID), zap.Error(err))
		return nil
	}

	ret := e.vm.Get(-1)
	e.vm.Pop(1)

	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return nil
	}
	var out []reputation.Spill
	for i := 1; i <= tbl.Len(); i++ {
		entry, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			continue
		}
		target := lua.LVAsNumber(entry.RawGetString("faction_id"))
		d := reputation.DeltaFromFloat(float64(lua.LVAsNumber(entry.RawGetString("delta"))))
		if target <= 0 || target > math.MaxUint32 || d == 0 {
			continue
		}
		rankCap, err := toRank(entry.RawGetString("rank_cap"))
		if err != nil {
			e.log.Warn("lua spillover entry skipped", zap.Uint32("faction", factionID), zap.Error(err))
			continue
		}
		out = append(out, reputation.Spill{FactionID: uint32(target), Delta: d, RankCap: rankCap})
	}
	return out
}

func toRank(v lua.LValue) (reputation.Rank, error) {
	switch v := v.(type) {
	case lua.LString:
		return reputation.ParseRank(string(v))
	case lua.LNumber:
		n := float64(v)
		if n < float64(reputation.RankHated) || n > float64(reputation.RankExalted) || n != float64(int(n)) {
			return 0, fmt.Errorf("rank %v out of range", n)
		}
		return reputation.Rank(n), nil
	default:
		return reputation.RankExalted, nil
	}
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
