// Package xbrowser opens rendered posters for viewing.
package xbrowser

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"

	"github.com/pkg/browser"

	"oss.terrastruct.com/xos"
)

// OpenURL opens u with $BROWSER when set, else with the system default.
// $BROWSER=0 disables opening.
func OpenURL(ctx context.Context, env *xos.Env, u string) error {
	switch browserEnv := env.Getenv("BROWSER"); browserEnv {
	case "0":
		return nil
	case "":
		return browser.OpenURL(u)
	default:
		browserSh := fmt.Sprintf("%s \"$1\"", browserEnv)
		cmd := exec.CommandContext(ctx, "sh", "-c", browserSh, "--", u)
		out, err := cmd.CombinedOutput()
		if err != nil {
			return fmt.Errorf("failed to run %v (out: %q): %w", cmd.Args, out, err)
		}
		return nil
	}
}

// FileURL is the file:// URL of the absolute path fp.
func FileURL(fp string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(fp),
	}
	return u.String()
}
