// Package config loads the ambassador's INI configuration file: listen
// endpoints, the upstream game websocket, and the six upstream HTTP
// base URLs.
package config

import (
	"errors"
	"fmt"

	"gopkg.in/ini.v1"
)

// ErrConfig is the sentinel for any missing or malformed configuration;
// it is fatal at startup.
var ErrConfig = errors.New("config: invalid configuration")

// Listen carries the two listener endpoints.
type Listen struct {
	HTTPHost string
	HTTPPort int
	GameHost string
	GamePort int
}

// Forwarding carries the single upstream game websocket URL.
type Forwarding struct {
	UpstreamGameWebsocket string
}

// HTTPForwarding carries the six upstream HTTP base URLs keyed by the
// fixed prefixes in the path-prefix router.
type HTTPForwarding struct {
	MainAPIBaseURL           string
	MainCDNBaseURL           string
	ImageCDNBaseURL          string
	GameImageCDNBaseURL      string
	CDNDynamicBaseURL        string
	CDNDynamicCommonBaseURL string
}

// Config is the immutable, fully-loaded configuration record.
type Config struct {
	Listen         Listen
	Forwarding     Forwarding
	HTTPForwarding HTTPForwarding
}

// Load parses the INI file at path and returns a fully populated
// Config, or wraps ErrConfig naming the first missing section/key.
func Load(path string) (*Config, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrConfig, path, err)
	}

	listenHTTPHost, err := requireString(f, "listening", "http_proxy_host")
	if err != nil {
		return nil, err
	}
	listenHTTPPort, err := requireInt(f, "listening", "http_proxy_port")
	if err != nil {
		return nil, err
	}
	listenGameHost, err := requireString(f, "listening", "game_proxy_host")
	if err != nil {
		return nil, err
	}
	listenGamePort, err := requireInt(f, "listening", "game_proxy_port")
	if err != nil {
		return nil, err
	}

	upstreamWS, err := requireString(f, "forwarding", "upstream_game_websocket")
	if err != nil {
		return nil, err
	}

	mainAPI, err := requireString(f, "forwarding-http", "main_api_base_url")
	if err != nil {
		return nil, err
	}
	mainCDN, err := requireString(f, "forwarding-http", "main_cdn_base_url")
	if err != nil {
		return nil, err
	}
	imageCDN, err := requireString(f, "forwarding-http", "image_cdn_base_url")
	if err != nil {
		return nil, err
	}
	gameImageCDN, err := requireString(f, "forwarding-http", "game_image_cdn_base_url")
	if err != nil {
		return nil, err
	}
	cdnDynamic, err := requireString(f, "forwarding-http", "cdn_dynamic_base_url")
	if err != nil {
		return nil, err
	}
	cdnDynamicCommon, err := requireString(f, "forwarding-http", "cdn_dynamic_common_base_url")
	if err != nil {
		return nil, err
	}

	return &Config{
		Listen: Listen{
			HTTPHost: listenHTTPHost,
			HTTPPort: listenHTTPPort,
			GameHost: listenGameHost,
			GamePort: listenGamePort,
		},
		Forwarding: Forwarding{
			UpstreamGameWebsocket: upstreamWS,
		},
		HTTPForwarding: HTTPForwarding{
			MainAPIBaseURL:           mainAPI,
			MainCDNBaseURL:           mainCDN,
			ImageCDNBaseURL:          imageCDN,
			GameImageCDNBaseURL:      gameImageCDN,
			CDNDynamicBaseURL:        cdnDynamic,
			CDNDynamicCommonBaseURL: cdnDynamicCommon,
		},
	}, nil
}

func requireString(f *ini.File, section, key string) (string, error) {
	sec, err := f.GetSection(section)
	if err != nil {
		return "", fmt.Errorf("%w: missing section [%s]", ErrConfig, section)
	}
	if !sec.HasKey(key) {
		return "", fmt.Errorf("%w: missing key %q in section [%s]", ErrConfig, key, section)
	}
	v := sec.Key(key).String()
	if v == "" {
		return "", fmt.Errorf("%w: empty value for key %q in section [%s]", ErrConfig, key, section)
	}
	return v, nil
}

func requireInt(f *ini.File, section, key string) (int, error) {
	sec, err := f.GetSection(section)
	if err != nil {
		return 0, fmt.Errorf("%w: missing section [%s]", ErrConfig, section)
	}
	if !sec.HasKey(key) {
		return 0, fmt.Errorf("%w: missing key %q in section [%s]", ErrConfig, key, section)
	}
	v, err := sec.Key(key).Int()
	if err != nil {
		return 0, fmt.Errorf("%w: key %q in section [%s] is not an integer: %v", ErrConfig, key, section, err)
	}
	return v, nil
}
