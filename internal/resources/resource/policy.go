// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package resource

import (
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/validator"
)

// policy canonicalizes statuses. Everything else follows the base rules.
type policy struct {
	validator.BasePolicy
	keys keys
}

func (p policy) SetValue(store *param.Store, key *param.Key, value string) error {
	if key == p.keys.status {
		v, err := statuses.Normalize(key, value)
		if err != nil {
			return err
		}
		value = v
	}
	return p.BasePolicy.SetValue(store, key, value)
}
