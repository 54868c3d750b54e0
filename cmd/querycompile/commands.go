// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/access"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/resources/catalog"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/service"
	logging "github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/log"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// callerFixture is the YAML form of a caller.
type callerFixture struct {
	UserID          string   `yaml:"userId"`
	Username        string   `yaml:"username"`
	Organization    string   `yaml:"organization"`
	TopOrganization string   `yaml:"topOrganization"`
	Rights          []string `yaml:"rights"`
}

func (f callerFixture) caller() access.Caller {
	return access.Caller{
		UserID:          f.UserID,
		Username:        f.Username,
		Organization:    f.Organization,
		TopOrganization: f.TopOrganization,
		Rights:          f.Rights,
	}
}

// compiled is what compile prints.
type compiled struct {
	Endpoint   string            `json:"endpoint"`
	Body       map[string]any    `json:"body"`
	FacetBody  map[string]any    `json:"facetBody,omitempty"`
	FacetPaths map[string]string `json:"facetPaths,omitempty"`
}

func setupLogger(c *cli.Context) error {
	handler := logging.NewHandler(os.Stderr, "text", &slog.HandlerOptions{
		Level: logging.ParseLevel(c.String("log-level")),
	})
	slog.SetDefault(slog.New(handler))
	return nil
}

func loadCaller(path string) (access.Caller, error) {
	if path == "" {
		return access.Caller{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return access.Caller{}, fmt.Errorf("reading caller %s: %w", path, err)
	}
	var fixture callerFixture
	if err := yaml.Unmarshal(raw, &fixture); err != nil {
		return access.Caller{}, fmt.Errorf("parsing caller %s: %w", path, err)
	}
	return fixture.caller(), nil
}

// parseParams reads key=value arguments. Values are taken literally and
// escaped like a query string. Repeated keys keep every value.
func parseParams(args []string) (map[string][]string, error) {
	params := map[string][]string{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("parameter %q is not key=value", arg)
		}
		params[key] = append(params[key], url.QueryEscape(value))
	}
	return params, nil
}

func compileCommand(c *cli.Context) error {
	rt, err := catalog.Default().Lookup(c.String("resource"))
	if err != nil {
		return err
	}
	params, err := parseParams(c.Args().Slice())
	if err != nil {
		return err
	}
	caller, err := loadCaller(c.String("caller"))
	if err != nil {
		return err
	}

	q, err := service.Compile(c.Context, rt, params, caller)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(c.App.Writer)
	if !c.Bool("compact") {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(compiled{
		Endpoint:   q.Endpoint,
		Body:       q.Body(),
		FacetBody:  q.FacetBody(),
		FacetPaths: q.FacetPaths,
	})
}

func resourcesCommand(c *cli.Context) error {
	for _, name := range catalog.Default().Names() {
		fmt.Fprintln(c.App.Writer, name)
	}
	return nil
}

func keysCommand(c *cli.Context) error {
	rt, err := catalog.Default().Lookup(c.String("resource"))
	if err != nil {
		return err
	}
	registry := rt.Registry()
	for _, name := range registry.ValidNames() {
		key := registry.Key(name)
		fmt.Fprintf(c.App.Writer, "%-24s %-10s %s\n", name, key.Kind(), key.Operator())
	}
	fmt.Fprintf(c.App.Writer, "sort: %s\n", strings.Join(registry.SortNames(), ", "))
	return nil
}
