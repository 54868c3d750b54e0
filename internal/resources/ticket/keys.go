// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package ticket

import (
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/validator"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/resources"
)

// Name is the resource name tickets are searched under.
const Name = "ticket"

// Ticket types.
const (
	TypeDoiRequest          = "DoiRequest"
	TypeGeneralSupportCase  = "GeneralSupportCase"
	TypePublishingRequest   = "PublishingRequest"
	TypeUnpublishRequest    = "UnpublishRequest"
	TypeFilesApprovalThesis = "FilesApprovalThesis"
)

// Ticket statuses.
const (
	StatusNew           = "New"
	StatusPending       = "Pending"
	StatusClosed        = "Closed"
	StatusCompleted     = "Completed"
	StatusNotApplicable = "NotApplicable"
)

const (
	pathType             = "type"
	pathStatus           = "status"
	pathOwner            = "owner.username"
	pathAssignee         = "assignee.username"
	pathOrganization     = "organization.id"
	pathOrgAncestors     = "organization.partOf.id"
	pathPublicationID    = "publication.identifier"
	pathPublicationTitle = "publication.mainTitle"
)

var (
	types    = resources.NewEnum(TypeDoiRequest, TypeGeneralSupportCase, TypePublishingRequest, TypeUnpublishRequest, TypeFilesApprovalThesis)
	statuses = resources.NewEnum(StatusNew, StatusPending, StatusClosed, StatusCompleted, StatusNotApplicable)
)

// keys holds the ticket keys. They are declared anew for every registry.
type keys struct {
	id                *param.Key
	typ               *param.Key
	typeNot           *param.Key
	status            *param.Key
	statusNot         *param.Key
	owner             *param.Key
	assignee          *param.Key
	organizationID    *param.Key
	excludeSubunits   *param.Key
	notViewedBy       *param.Key
	publicationID     *param.Key
	publicationTitle  *param.Key
	publicationStatus *param.Key
	hasMessages       *param.Key
	created           *param.Key
	modified          *param.Key
	search            *param.Key
}

func newKeys() keys {
	publicationStatus := param.NewKey("status", param.Keyword, param.AnyOf,
		param.WithPaths(param.KeywordPath(pathStatus)))

	return keys{
		id: param.NewKey("id", param.Keyword, param.AnyOf,
			param.WithPaths(param.KeywordPath("identifier"))),
		typ: param.NewKey("type", param.Keyword, param.AnyOf,
			param.WithPaths(param.KeywordPath(pathType))),
		typeNot: param.NewKey("typeNot", param.Keyword, param.NotAnyOf,
			param.WithPaths(param.KeywordPath(pathType))),
		status: param.NewKey("status", param.Keyword, param.AnyOf,
			param.WithPaths(param.KeywordPath(pathStatus))),
		statusNot: param.NewKey("statusNot", param.Keyword, param.NotAnyOf,
			param.WithPaths(param.KeywordPath(pathStatus))),
		owner: param.NewKey("owner", param.Keyword, param.AnyOf,
			param.WithPaths(param.KeywordPath(pathOwner))),
		assignee: param.NewKey("assignee", param.Custom, param.AnyOf),
		organizationID: param.NewKey("organizationId", param.Custom, param.AnyOf,
			param.WithNamePattern(`organization_?id|organization`)),
		excludeSubunits: param.NewKey("excludeSubunits", param.Ignored, param.NotApplicable,
			param.WithValuePattern(`(?i)^(true|false)$`)),
		notViewedBy: param.NewKey("notViewedBy", param.Keyword, param.NotAnyOf,
			param.WithPaths(param.KeywordPath("viewedBy"))),
		publicationID: param.NewKey("publicationId", param.Keyword, param.AnyOf,
			param.WithPaths(param.KeywordPath(pathPublicationID))),
		publicationTitle: param.NewKey("publicationTitle", param.Text, param.AllOf,
			param.WithPaths(param.TextPath(pathPublicationTitle)), param.WithBoost(2)),
		publicationStatus: param.NewKey("publicationStatus", param.PartOf, param.AnyOf,
			param.WithSubKey(publicationStatus, "publication")),
		hasMessages: param.NewKey("hasMessages", param.Exists, param.AllOf,
			param.WithPaths(param.TextPath("messages.identifier"))),
		created: param.NewKey("created", param.Date, param.Between,
			param.WithPaths(param.TextPath("createdDate"))),
		modified: param.NewKey("modified", param.Date, param.Between,
			param.WithPaths(param.TextPath("modifiedDate"))),
		search: param.NewKey("search", param.FreeText, param.AllOf,
			param.WithNamePattern(`search(_?all)?|query|q`),
			param.WithPaths(
				param.TextPath(pathPublicationTitle),
				param.TextPath("messages.text"),
				param.TextPath(pathOwner),
				param.TextPath(pathAssignee),
			)),
	}
}

func (k keys) searchKeys() []*param.Key {
	return []*param.Key{
		k.id, k.typ, k.typeNot, k.status, k.statusNot, k.owner, k.assignee,
		k.organizationID, k.excludeSubunits, k.notViewedBy, k.publicationID,
		k.publicationTitle, k.publicationStatus, k.hasMessages, k.created,
		k.modified, k.search,
	}
}

func newRegistry(k keys) *param.Registry {
	return param.NewRegistry(Name, append(k.searchKeys(), validator.PagingKeys()...), validator.KeyFields,
		param.NewSortKey("created", "createdDate"),
		param.NewSortKey("modified", "modifiedDate"),
		param.NewSortKey("status", pathStatus+".keyword"),
		param.NewSortKey("type", pathType+".keyword"),
	)
}
