// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package validator

import "github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"

const digits = `^\d+$`

// PagingKeys declares fresh paging keys, starting with the fields boundary.
// Every registry appends them after its search keys.
func PagingKeys() []*param.Key {
	return []*param.Key{
		param.NewKey(KeyFields, param.Ignored, param.NotApplicable,
			param.WithValuePattern(`^[\w.*]+(,[\w.*]+)*$`)),
		param.NewKey(KeyAggregation, param.Ignored, param.NotApplicable,
			param.WithNamePattern(`aggs?|aggregations?`),
			param.WithValuePattern(`^\w+(,\w+)*$`)),
		param.NewKey(KeyPage, param.Ignored, param.NotApplicable,
			param.WithValuePattern(digits)),
		param.NewKey(KeyFrom, param.Ignored, param.NotApplicable,
			param.WithNamePattern(`from|offset`),
			param.WithValuePattern(digits)),
		param.NewKey(KeySize, param.Ignored, param.NotApplicable,
			param.WithNamePattern(`size|results|per_?page`),
			param.WithValuePattern(`^([1-9]\d{0,2}|1000|0)$`),
			param.WithErrorTemplate("%s: '%s' must be a number between 0 and 1000")),
		param.NewKey(KeySort, param.SortKeyKind, param.NotApplicable,
			param.WithNamePattern(`sort|order_?by`)),
		param.NewKey(KeySortOrder, param.SortKeyKind, param.NotApplicable,
			param.WithNamePattern(`sort_?order|order`),
			param.WithValuePattern(`(?i)^(asc|desc)$`),
			param.WithErrorTemplate("%s: '%s' must be asc or desc")),
		param.NewKey(KeySearchAfter, param.Ignored, param.NotApplicable),
		param.NewKey(KeyInclude, param.Ignored, param.NotApplicable),
		param.NewKey(KeyExclude, param.Ignored, param.NotApplicable),
	}
}
