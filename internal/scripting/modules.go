package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers the engine.* Lua table into L:
//
//	engine.log(msg)           debug log line tagged with the script origin
//	engine.clamp(x, lo, hi)   clamps a number into [lo, hi]
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "log", L.NewFunction(func(L *lua.LState) int {
		m.logger.Debug("lua", zap.String("msg", L.CheckString(1)))
		return 0
	}))
	L.SetField(engine, "clamp", L.NewFunction(func(L *lua.LState) int {
		x, lo, hi := L.CheckNumber(1), L.CheckNumber(2), L.CheckNumber(3)
		L.Push(lua.LNumber(min(max(x, lo), hi)))
		return 1
	}))
	L.SetGlobal("engine", engine)
}
