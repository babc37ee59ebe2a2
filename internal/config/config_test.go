package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const validINI = `
[listening]
http_proxy_host = 0.0.0.0
http_proxy_port = 8080
game_proxy_host = 0.0.0.0
game_proxy_port = 9090

[forwarding]
upstream_game_websocket = ws://upstream.example.com/game

[forwarding-http]
main_api_base_url = http://main-api.example.com/
main_cdn_base_url = http://main-cdn.example.com/
image_cdn_base_url = http://image-cdn.example.com/
game_image_cdn_base_url = http://game-image-cdn.example.com/
cdn_dynamic_base_url = http://cdn-dynamic.example.com/
cdn_dynamic_common_base_url = http://cdn-dynamic-common.example.com/
`

func writeTempINI(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ambassador.ini")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadValid(t *testing.T) {
	path := writeTempINI(t, validINI)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Listen.HTTPPort != 8080 {
		t.Errorf("HTTPPort = %d, want 8080", cfg.Listen.HTTPPort)
	}
	if cfg.Listen.GamePort != 9090 {
		t.Errorf("GamePort = %d, want 9090", cfg.Listen.GamePort)
	}
	if cfg.Forwarding.UpstreamGameWebsocket != "ws://upstream.example.com/game" {
		t.Errorf("UpstreamGameWebsocket = %q", cfg.Forwarding.UpstreamGameWebsocket)
	}
	if cfg.HTTPForwarding.MainAPIBaseURL != "http://main-api.example.com/" {
		t.Errorf("MainAPIBaseURL = %q", cfg.HTTPForwarding.MainAPIBaseURL)
	}
}

func TestLoadMissingKey(t *testing.T) {
	missing := `
[listening]
http_proxy_host = 0.0.0.0
http_proxy_port = 8080
game_proxy_host = 0.0.0.0
game_proxy_port = 9090

[forwarding]
upstream_game_websocket = ws://upstream.example.com/game

[forwarding-http]
main_api_base_url = http://main-api.example.com/
`
	path := writeTempINI(t, missing)

	_, err := Load(path)
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("got err %v, want wrapped %v", err, ErrConfig)
	}
}

func TestLoadMissingSection(t *testing.T) {
	missing := `
[listening]
http_proxy_host = 0.0.0.0
http_proxy_port = 8080
game_proxy_host = 0.0.0.0
game_proxy_port = 9090
`
	path := writeTempINI(t, missing)

	_, err := Load(path)
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("got err %v, want wrapped %v", err, ErrConfig)
	}
}

func TestLoadBadPort(t *testing.T) {
	bad := `
[listening]
http_proxy_host = 0.0.0.0
http_proxy_port = not-a-number
game_proxy_host = 0.0.0.0
game_proxy_port = 9090

[forwarding]
upstream_game_websocket = ws://upstream.example.com/game

[forwarding-http]
main_api_base_url = http://main-api.example.com/
main_cdn_base_url = http://main-cdn.example.com/
image_cdn_base_url = http://image-cdn.example.com/
game_image_cdn_base_url = http://game-image-cdn.example.com/
cdn_dynamic_base_url = http://cdn-dynamic.example.com/
cdn_dynamic_common_base_url = http://cdn-dynamic-common.example.com/
`
	path := writeTempINI(t, bad)

	_, err := Load(path)
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("got err %v, want wrapped %v", err, ErrConfig)
	}
}
