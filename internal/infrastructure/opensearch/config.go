// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package opensearch

import "strings"

// Config holds the cluster connection settings.
type Config struct {
	// URL is one node address or a comma separated list of them.
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
	// IndexPrefix is prepended to every endpoint a query names
	IndexPrefix string `json:"index_prefix"`
}

// addresses splits URL into the node list handed to the client.
func (c Config) addresses() []string {
	var out []string
	for _, addr := range strings.Split(c.URL, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

func (c Config) index(endpoint string) string {
	return c.IndexPrefix + endpoint
}
