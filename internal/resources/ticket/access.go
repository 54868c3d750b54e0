// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package ticket

import (
	"strings"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/access"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/clause"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"
)

// Access rights that unlock ticket types.
const (
	RightManageDoi                = "MANAGE_DOI"
	RightSupport                  = "SUPPORT"
	RightManagePublishingRequests = "MANAGE_PUBLISHING_REQUESTS"
	RightManageDegree             = "MANAGE_DEGREE"
)

var rightTypes = []struct {
	right string
	types []string
}{
	{RightManageDoi, []string{TypeDoiRequest}},
	{RightSupport, []string{TypeGeneralSupportCase}},
	{RightManagePublishingRequests, []string{TypePublishingRequest, TypeUnpublishRequest}},
	{RightManageDegree, []string{TypeFilesApprovalThesis}},
}

// AllowedTypes returns the ticket types caller may curate, in declaration
// order.
func AllowedTypes(caller access.Caller) []string {
	var out []string
	for _, rt := range rightTypes {
		if caller.Has(rt.right) {
			out = append(out, rt.types...)
		}
	}
	return out
}

// filter scopes tickets to the types the caller curates within their
// organization. Callers always see tickets they own or are assigned to, and
// asking for their own tickets needs no right at all.
type filter struct {
	owner *param.Key
}

func (f filter) Apply(caller access.Caller, store *param.Store) ([]clause.Clause, error) {
	if caller.Anonymous() {
		return nil, errors.NewForbidden()
	}
	own := clause.Term{Field: pathOwner + ".keyword", Value: caller.Username}
	if f.ownerView(caller, store) {
		return []clause.Clause{own}, nil
	}

	allowed := AllowedTypes(caller)
	organization := caller.TopOrganization
	if organization == "" {
		organization = caller.Organization
	}
	if len(allowed) == 0 || organization == "" {
		return nil, errors.NewForbidden()
	}

	curated := clause.Bool{
		Name: "curatedTickets",
		Must: []clause.Clause{
			clause.Terms{Field: pathType + ".keyword", Values: allowed},
			clause.Bool{
				Should: []clause.Clause{
					clause.Term{Field: pathOrganization + ".keyword", Value: organization},
					clause.Term{Field: pathOrgAncestors + ".keyword", Value: organization},
				},
				MinimumShouldMatch: 1,
			},
		},
	}
	return []clause.Clause{clause.Bool{
		Name: "ticketAccess",
		Should: []clause.Clause{
			curated,
			own,
			clause.Term{Field: pathAssignee + ".keyword", Value: caller.Username},
		},
		MinimumShouldMatch: 1,
	}}, nil
}

// ownerView reports whether the request only asks for the caller's own
// tickets.
func (f filter) ownerView(caller access.Caller, store *param.Store) bool {
	if store == nil {
		return false
	}
	v, ok := store.Get(f.owner)
	if !ok {
		return false
	}
	owners := v.Split(param.DefaultSeparator)
	return len(owners) == 1 && strings.EqualFold(owners[0], caller.Username)
}
