// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package access

import (
	"testing"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/clause"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"
	"github.com/stretchr/testify/assert"
)

func TestPostFilterFailsClosed(t *testing.T) {
	assert.Equal(t, clause.MatchNone{}, PostFilter(nil))
	assert.Equal(t, clause.MatchNone{}, PostFilter([]clause.Clause{}))
}

func TestPostFilterWrapsClauses(t *testing.T) {
	public := clause.Term{Field: "status.keyword", Value: "PUBLISHED"}

	assert.Equal(t, clause.Bool{Name: "postFilter", Filter: []clause.Clause{public}}, PostFilter([]clause.Clause{public}))
}

func TestCaller(t *testing.T) {
	tests := []struct {
		name      string
		caller    Caller
		anonymous bool
		hasRight  bool
	}{
		{name: "anonymous", caller: Caller{}, anonymous: true},
		{name: "user without rights", caller: Caller{Username: "ann"}},
		{name: "user with the right", caller: Caller{Username: "ann", Rights: []string{"MANAGE_DOI"}}, hasRight: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.anonymous, tt.caller.Anonymous())
			assert.Equal(t, tt.hasRight, tt.caller.Has("MANAGE_DOI"))
		})
	}
}

func TestFilterFunc(t *testing.T) {
	var f Filter = FilterFunc(func(caller Caller, _ *param.Store) ([]clause.Clause, error) {
		return []clause.Clause{clause.Term{Field: "owner", Value: caller.Username}}, nil
	})

	got, err := f.Apply(Caller{Username: "ann"}, nil)

	assert.NoError(t, err)
	assert.Equal(t, []clause.Clause{clause.Term{Field: "owner", Value: "ann"}}, got)
}
