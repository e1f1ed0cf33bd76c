package xbrowser

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oss.terrastruct.com/xos"
)

func TestFileURL(t *testing.T) {
	assert.Equal(t, "file:///tmp/life.svg", FileURL("/tmp/life.svg"))
	assert.Equal(t, "file:///tmp/my%20life.svg", FileURL("/tmp/my life.svg"))
}

func TestOpenURL(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "opened")
	env := xos.NewEnv([]string{"BROWSER=echo >" + out})
	err := OpenURL(context.Background(), env, "file:///tmp/life.svg")
	require.NoError(t, err)
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "file:///tmp/life.svg\n", string(b))

	env = xos.NewEnv([]string{"BROWSER=0"})
	assert.NoError(t, OpenURL(context.Background(), env, "file:///tmp/life.svg"))

	env = xos.NewEnv([]string{"BROWSER=false"})
	assert.Error(t, OpenURL(context.Background(), env, "file:///tmp/life.svg"))
}
