package lua

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

func TestState_CallHandle(t *testing.T) {
	var out bytes.Buffer
	s := NewState(WithOutput(&out))
	defer s.Close()

	require.NoError(t, s.DoString(`
function handle(channel, data)
  print("channel", channel, data)
  return channel * 2
end`))

	results, err := s.Call("handle", lua.LNumber(36), lua.LString("Some string data"))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, lua.LNumber(72), results[0])
	assert.Equal(t, "channel\t36\tSome string data\n", out.String())
}

func TestState_CallErrors(t *testing.T) {
	s := NewState(WithOutput(&bytes.Buffer{}))
	defer s.Close()

	require.NoError(t, s.DoString(`notfn = 3
function boom() error("bad payload") end`))

	_, err := s.Call("missing")
	var fnErr *FunctionError
	require.ErrorAs(t, err, &fnErr)
	assert.Equal(t, "nil", fnErr.Got)

	_, err = s.Call("notfn")
	require.ErrorAs(t, err, &fnErr)
	assert.Equal(t, "number", fnErr.Got)

	_, err = s.Call("boom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad payload")
}

func TestState_Sandbox(t *testing.T) {
	s := NewState(WithOutput(&bytes.Buffer{}))
	defer s.Close()

	for _, global := range []string{"io", "os", "debug", "dofile", "loadfile", "load", "loadstring"} {
		assert.Equal(t, lua.LNil, s.L.GetGlobal(global), global)
	}
	assert.NotEqual(t, lua.LNil, s.L.GetGlobal("string"))
}

func TestState_Timeout(t *testing.T) {
	s := NewState(WithOutput(&bytes.Buffer{}), WithExecutionTimeout(50*time.Millisecond))
	defer s.Close()

	err := s.DoString(`while true do end`)
	require.Error(t, err)
}

func TestState_Closed(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.DoString("x = 1"), ErrStateClosed)
	_, err := s.Call("handle")
	assert.ErrorIs(t, err, ErrStateClosed)
}

func TestToLValue(t *testing.T) {
	s := NewState()
	defer s.Close()

	assert.Equal(t, lua.LNil, ToLValue(s.L, nil))
	assert.Equal(t, lua.LTrue, ToLValue(s.L, true))
	assert.Equal(t, lua.LString("x"), ToLValue(s.L, "x"))
	assert.Equal(t, lua.LNumber(15), ToLValue(s.L, int64(15)))
	assert.Equal(t, lua.LNumber(0.5), ToLValue(s.L, 0.5))

	tbl, ok := ToLValue(s.L, map[string]any{"key": 46, "list": []any{"a", "b"}}).(*lua.LTable)
	require.True(t, ok)
	assert.Equal(t, lua.LNumber(46), tbl.RawGetString("key"))
	list, ok := tbl.RawGetString("list").(*lua.LTable)
	require.True(t, ok)
	assert.Equal(t, 2, list.Len())
	assert.Equal(t, lua.LString("b"), list.RawGetInt(2))
}
