// Package routes resolves the opaque screenCode hints carried by
// notifications into navigable route entries loaded from a YAML/JSON file.
package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Route maps one screen code to an in-app destination.
type Route struct {
	Code        string `json:"code" yaml:"code"`
	Screen      string `json:"screen" yaml:"screen"`
	Description string `json:"description" yaml:"description"`
}

type registryFile struct {
	Routes []Route `json:"routes" yaml:"routes"`
}

// Registry is the loaded screen-code lookup table.
type Registry struct {
	routes []Route
	index  map[string]Route
}

// Load reads a route registry from file.
func Load(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("routes file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open routes file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read routes file: %w", err)
	}

	reg, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	index := make(map[string]Route, len(reg.Routes))
	for i := range reg.Routes {
		r := sanitizeRoute(reg.Routes[i])
		if err := validateRoute(r); err != nil {
			return nil, fmt.Errorf("route[%d]: %w", i, err)
		}
		if _, exists := index[r.Code]; exists {
			return nil, fmt.Errorf("duplicate route code %q", r.Code)
		}
		reg.Routes[i] = r
		index[r.Code] = r
	}

	return &Registry{routes: reg.Routes, index: index}, nil
}

// Empty returns a registry with no entries, for clients without a routes file.
func Empty() *Registry {
	return &Registry{index: map[string]Route{}}
}

// All returns a copy of the loaded routes.
func (r *Registry) All() []Route {
	if r == nil || len(r.routes) == 0 {
		return nil
	}
	out := make([]Route, len(r.routes))
	copy(out, r.routes)
	return out
}

// RouteFor resolves a notification screen code, if registered.
func (r *Registry) RouteFor(code string) (Route, bool) {
	code = strings.TrimSpace(code)
	if r == nil || code == "" {
		return Route{}, false
	}
	route, ok := r.index[code]
	return route, ok
}

type unmarshalFn func([]byte, any) error

func parseRegistry(data []byte, ext string) (registryFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var reg registryFile
		if err := d.fn(data, &reg); err == nil && len(reg.Routes) > 0 {
			return reg, nil
		}
	}

	return registryFile{}, errors.New("routes file format not recognized (expected YAML or JSON with routes entries)")
}

func sanitizeRoute(r Route) Route {
	r.Code = strings.TrimSpace(r.Code)
	r.Screen = strings.TrimSpace(r.Screen)
	r.Description = strings.TrimSpace(r.Description)
	return r
}

func validateRoute(r Route) error {
	if r.Code == "" {
		return errors.New("code is required")
	}
	if r.Screen == "" {
		return fmt.Errorf("screen is required for route %q", r.Code)
	}
	return nil
}
