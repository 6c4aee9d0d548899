//go:build integration

// Package integration provides integration tests for the aduana CLI using testscript.
package integration

import (
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/registry"
	"github.com/google/go-containerregistry/pkg/v1/random"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/rogpeppe/go-internal/testscript"

	"github.com/fdeantoni/aduana/internal/cmd"
)

// TestMain registers the aduana CLI so scripts can exec it in-process.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"aduana": cmd.Main,
	}))
}

// TestScripts runs all testscript files in testdata/scripts. Each script gets
// its own home directory and its own seeded registry, exposed as $REGISTRY.
func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: filepath.Join("testdata", "scripts"),
		Setup: func(env *testscript.Env) error {
			home := filepath.Join(env.WorkDir, "home")
			if err := os.MkdirAll(home, 0o750); err != nil {
				return err
			}
			env.Setenv("HOME", home)

			server := httptest.NewServer(registry.New())
			env.Defer(server.Close)

			if err := seed(server.URL); err != nil {
				return fmt.Errorf("seed registry: %w", err)
			}
			env.Setenv("REGISTRY", server.URL)

			return nil
		},
	})
}

// seed pushes one image with two tags to the test registry.
func seed(serverURL string) error {
	img, err := random.Image(1024, 1)
	if err != nil {
		return err
	}

	host := strings.TrimPrefix(serverURL, "http://")
	for _, tag := range []string{"latest", "v1"} {
		ref, err := name.ParseReference(host + "/test/image:" + tag)
		if err != nil {
			return err
		}
		if err := remote.Write(ref, img); err != nil {
			return err
		}
	}
	return nil
}
