package xmain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oss.terrastruct.com/xos"
)

func TestOptsEnvFallback(t *testing.T) {
	env := xos.NewEnv([]string{
		"LIFEGRAPH_MAX_AGE=80",
		"LIFEGRAPH_CELL_SIZE=12.5",
		"LIFEGRAPH_WATCH=1",
		"LIFEGRAPH_THEME=ink",
	})
	o := NewOpts(env, nil, []string{"--theme", "paper"})

	maxAge, err := o.Int64("LIFEGRAPH_MAX_AGE", "max-age", "", 90, "")
	require.NoError(t, err)
	cellSize, err := o.Float64("LIFEGRAPH_CELL_SIZE", "cell-size", "", 10, "")
	require.NoError(t, err)
	watch, err := o.Bool("LIFEGRAPH_WATCH", "watch", "w", false, "")
	require.NoError(t, err)
	theme := o.String("LIFEGRAPH_THEME", "theme", "", "", "")

	require.NoError(t, o.Flags.Parse(o.Args))
	assert.Equal(t, int64(80), *maxAge)
	assert.Equal(t, 12.5, *cellSize)
	assert.True(t, *watch)
	// flags take precedence over the environment
	assert.Equal(t, "paper", *theme)

	assert.Contains(t, o.Help(), "$LIFEGRAPH_CELL_SIZE")
}

func TestOptsInvalidEnv(t *testing.T) {
	env := xos.NewEnv([]string{
		"A=x",
		"B=maybe",
	})
	o := NewOpts(env, nil, nil)

	_, err := o.Float64("A", "a", "", 0, "")
	assert.Error(t, err)
	_, err = o.Int64("A", "a2", "", 0, "")
	assert.Error(t, err)
	_, err = o.Bool("B", "b", "", false, "")
	assert.Error(t, err)
}
