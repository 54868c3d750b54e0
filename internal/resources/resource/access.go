// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package resource

import (
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/access"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/clause"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"
)

// RightManageResourcesAll lets curators see unpublished work of their
// institution.
const RightManageResourcesAll = "MANAGE_RESOURCES_ALL"

// filter shows published work to everyone. Logged in callers also see
// their own drafts, curators everything their institution curates.
func filter(caller access.Caller, _ *param.Store) ([]clause.Clause, error) {
	published := clause.Terms{
		Field:  pathStatus + ".keyword",
		Values: []string{StatusPublished, StatusPublishedMetadata},
	}
	if caller.Anonymous() {
		return []clause.Clause{published}, nil
	}

	should := []clause.Clause{
		published,
		clause.Term{Field: pathOwner + ".keyword", Value: caller.Username},
	}
	if caller.Has(RightManageResourcesAll) && caller.TopOrganization != "" {
		should = append(should, clause.Term{Field: pathCurating + ".keyword", Value: caller.TopOrganization})
	}
	return []clause.Clause{clause.Bool{
		Name:               "resourceAccess",
		Should:             should,
		MinimumShouldMatch: 1,
	}}, nil
}
