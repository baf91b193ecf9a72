package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundTripAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s := Open(path)
	assert.NoError(t, s.Set("pos", map[string]float64{"x": 24, "y": 100}))
	assert.NoError(t, s.Set("token", "abc"))

	reopened := Open(path)
	var token string
	assert.True(t, reopened.Get("token", &token))
	assert.Equal(t, "abc", token)

	var pos map[string]float64
	assert.True(t, reopened.Get("pos", &pos))
	assert.Equal(t, 24.0, pos["x"])
}

func TestMissingFileStartsEmpty(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "nope.json"))
	var v string
	assert.False(t, s.Get("anything", &v))
}

func TestCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	assert.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := Open(path)
	var v string
	assert.False(t, s.Get("anything", &v))

	// 仍然可以正常写入并覆盖坏文件
	assert.NoError(t, s.Set("k", "v"))
	reopened := Open(path)
	assert.True(t, reopened.Get("k", &v))
	assert.Equal(t, "v", v)
}

func TestCorruptValueIsIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := Open(path)
	assert.NoError(t, s.Set("n", 42))

	var str string
	assert.False(t, s.Get("n", &str))
	var n int
	assert.True(t, s.Get("n", &n))
	assert.Equal(t, 42, n)
}

func TestDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := Open(path)
	assert.NoError(t, s.Set("k", "v"))
	assert.NoError(t, s.Delete("k"))

	var v string
	assert.False(t, s.Get("k", &v))
	assert.False(t, Open(path).Get("k", &v))
}
