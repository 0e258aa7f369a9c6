package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// execute runs the root command with args against a private config file
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// Flag variables outlive a single Execute call
	configPath, debug, catalogURL = "", false, ""
	RootCmd.PersistentFlags().Lookup("debug").Changed = false
	require.NoError(t, listCmd.Flags().Set("format", "text"))
	require.NoError(t, configInitCmd.Flags().Set("force", "false"))

	t.Setenv("DECKTECH_DEBUG", "")
	t.Setenv("DECKTECH_CATALOG_URL", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return out.String(), err
}

func catalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("exact") {
		case "lightning bolt":
			_, _ = w.Write([]byte(`{"image_uris":{"large":"https://img.test/bolt.jpg","art_crop":"https://img.test/bolt-crop.jpg"}}`))
		case "island":
			_, _ = w.Write([]byte(`{"image_uris":{"large":"https://img.test/island.jpg","art_crop":""}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func writeDeck(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deck.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestListJSON(t *testing.T) {
	ts := catalogServer(t)
	deck := writeDeck(t, "4 Lightning Bolt\n\n2 Island\n1 Unknown Card\n")

	out, err := execute(t, "list", "--catalog-url", ts.URL, "--format", "json", deck)
	require.NoError(t, err)

	var pages []struct {
		Page  int `json:"page"`
		Cards []struct {
			Count int `json:"count"`
			Image struct {
				Full string `json:"full_image_url"`
				Crop string `json:"crop_image_url"`
			} `json:"image"`
		} `json:"cards"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &pages))

	require.Len(t, pages, 2)
	assert.Equal(t, 1, pages[0].Page)
	require.Len(t, pages[0].Cards, 1)
	assert.Equal(t, 4, pages[0].Cards[0].Count)
	assert.Equal(t, "https://img.test/bolt-crop.jpg", pages[0].Cards[0].Image.Crop)

	require.Len(t, pages[1].Cards, 2)
	assert.Equal(t, "https://img.test/island.jpg", pages[1].Cards[0].Image.Full)
	assert.Empty(t, pages[1].Cards[1].Image.Full, "unknown cards keep their slot with no image")
}

func TestListYAML(t *testing.T) {
	ts := catalogServer(t)
	deck := writeDeck(t, "1 Island\n")

	out, err := execute(t, "list", "--catalog-url", ts.URL, "-f", "yaml", deck)
	require.NoError(t, err)

	var pages []map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &pages))
	require.Len(t, pages, 1)
	assert.Equal(t, 1, pages[0]["page"])
}

func TestListText(t *testing.T) {
	ts := catalogServer(t)
	deck := writeDeck(t, "4 Lightning Bolt\n1 Unknown Card\n")

	out, err := execute(t, "list", "--catalog-url", ts.URL, deck)
	require.NoError(t, err)

	assert.Contains(t, out, "Page 1")
	assert.Contains(t, out, "https://img.test/bolt.jpg")
	assert.Contains(t, out, "(no image)")
}

func TestListErrors(t *testing.T) {
	deck := writeDeck(t, "1 Island\n")

	_, err := execute(t, "list", "--format", "xml", deck)
	assert.ErrorContains(t, err, "unknown format")

	_, err = execute(t, "list", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorContains(t, err, "failed to read file")
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, err := execute(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "initialized")
	_, err = os.Stat(path)
	require.NoError(t, err)

	out, err = execute(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")

	out, err = execute(t, "config", "show", "--config", path, "--debug")
	require.NoError(t, err)
	assert.Contains(t, out, "debug = true")
	assert.Contains(t, out, `fade_delay = "200ms"`)

	out, err = execute(t, "config", "path", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, path, strings.TrimSpace(out))
}
