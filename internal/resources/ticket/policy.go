// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package ticket

import (
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/validator"
)

// policy normalizes ticket types and statuses before they are stored.
type policy struct {
	validator.BasePolicy
	keys keys
}

func (p policy) SetValue(store *param.Store, key *param.Key, value string) error {
	var err error
	switch key {
	case p.keys.typ, p.keys.typeNot:
		value, err = types.Normalize(key, value)
	case p.keys.status, p.keys.statusNot:
		value, err = statuses.Normalize(key, value)
	}
	if err != nil {
		return err
	}
	return p.BasePolicy.SetValue(store, key, value)
}

// Default orders tickets by most recent first instead of relevance.
func (p policy) Default(key *param.Key) (string, bool) {
	if key.Name() == validator.KeySort {
		return "created:desc", true
	}
	return p.BasePolicy.Default(key)
}
