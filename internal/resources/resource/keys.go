// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package resource

import (
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/validator"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/resources"
)

// Name is the resource name publications are searched under.
const Name = "resource"

// Publication statuses.
const (
	StatusPublished         = "PUBLISHED"
	StatusPublishedMetadata = "PUBLISHED_METADATA"
	StatusDraft             = "DRAFT"
	StatusUnpublished       = "UNPUBLISHED"
	StatusDeleted           = "DELETED"
)

const (
	pathContributorID   = "entityDescription.contributors.identity.id"
	pathContributorName = "entityDescription.contributors.identity.name"
	pathAffiliation     = "entityDescription.contributors.affiliations.id"
	pathOrganizations   = "contributorOrganizations"
	pathTitle           = "entityDescription.mainTitle"
	pathAbstract        = "entityDescription.abstract"
	pathTags            = "entityDescription.tags"
	pathInstanceType    = "entityDescription.reference.publicationInstance.type"
	pathYear            = "entityDescription.publicationDate.year"
	pathStatus          = "status"
	pathOwner           = "resourceOwner.owner"
	pathCurating        = "curatingInstitutions"
	pathModified        = "modifiedDate"
	pathCreated         = "createdDate"
	pathTopOrganization = "topLevelOrganizations.id"
	pathFunding         = "fundings.source.identifier"
)

var statuses = resources.NewEnum(StatusPublished, StatusPublishedMetadata, StatusDraft, StatusUnpublished, StatusDeleted)

type keys struct {
	id                    *param.Key
	contributor           *param.Key
	contributorNot        *param.Key
	contributorName       *param.Key
	title                 *param.Key
	abstract              *param.Key
	tags                  *param.Key
	tagsAny               *param.Key
	instanceType          *param.Key
	instanceTypeNot       *param.Key
	status                *param.Key
	publicationYear       *param.Key
	publicationYearBefore *param.Key
	publicationYearSince  *param.Key
	modifiedSince         *param.Key
	modifiedBefore        *param.Key
	created               *param.Key
	hasFiles              *param.Key
	fundingSource         *param.Key
	journal               *param.Key
	unit                  *param.Key
	excludeSubunits       *param.Key
	hasChapterTitle       *param.Key
	partOfAnthology       *param.Key
	searchAll             *param.Key
}

func newKeys() keys {
	yearPaths := param.WithPaths(param.TextPath(pathYear))
	return keys{
		id: param.NewKey("id", param.Keyword, param.AnyOf,
			param.WithPaths(param.KeywordPath("identifier"))),
		contributor: param.NewKey("contributor", param.Keyword, param.AllOf,
			param.WithPaths(param.KeywordPath(pathContributorID))),
		contributorNot: param.NewKey("contributorNot", param.Keyword, param.NotAnyOf,
			param.WithPaths(param.KeywordPath(pathContributorID))),
		contributorName: param.NewKey("contributorName", param.FuzzyKeyword, param.AllOf,
			param.WithPaths(param.KeywordPath(pathContributorName))),
		title: param.NewKey("title", param.Text, param.AllOf,
			param.WithPaths(param.TextPath(pathTitle)), param.WithBoost(2)),
		abstract: param.NewKey("abstract", param.Text, param.AllOf,
			param.WithPaths(param.TextPath(pathAbstract))),
		tags: param.NewKey("tags", param.Keyword, param.AllOf,
			param.WithPaths(param.KeywordPath(pathTags))),
		tagsAny: param.NewKey("tagsShould", param.Keyword, param.AnyOf,
			param.WithPaths(param.KeywordPath(pathTags))),
		instanceType: param.NewKey("instanceType", param.Keyword, param.AnyOf,
			param.WithNamePattern(`instance_?type|type|category`),
			param.WithPaths(param.KeywordPath(pathInstanceType))),
		instanceTypeNot: param.NewKey("instanceTypeNot", param.Keyword, param.NotAnyOf,
			param.WithPaths(param.KeywordPath(pathInstanceType))),
		status: param.NewKey("status", param.Keyword, param.AnyOf,
			param.WithPaths(param.KeywordPath(pathStatus))),
		publicationYear: param.NewKey("publicationYear", param.Number, param.Between, yearPaths),
		publicationYearBefore: param.NewKey("publicationYearBefore", param.Number, param.LessThan, yearPaths),
		publicationYearSince:  param.NewKey("publicationYearSince", param.Number, param.GreaterOrEqual, yearPaths),
		modifiedSince: param.NewKey("modifiedSince", param.Date, param.GreaterOrEqual,
			param.WithPaths(param.TextPath(pathModified))),
		modifiedBefore: param.NewKey("modifiedBefore", param.Date, param.LessThan,
			param.WithPaths(param.TextPath(pathModified))),
		created: param.NewKey("created", param.Date, param.Between,
			param.WithPaths(param.TextPath(pathCreated))),
		hasFiles: param.NewKey("hasFiles", param.Exists, param.AllOf,
			param.WithPaths(param.TextPath("associatedArtifacts.identifier"))),
		fundingSource: param.NewKey("fundingSource", param.Keyword, param.AnyOf,
			param.WithPaths(param.KeywordPath(pathFunding))),
		journal: param.NewKey("journal", param.AcrossFields, param.AllOf,
			param.WithPaths(
				param.TextPath("entityDescription.reference.publicationContext.name"),
				param.TextPath("entityDescription.reference.publicationContext.printIssn"),
				param.TextPath("entityDescription.reference.publicationContext.onlineIssn"),
			)),
		unit: param.NewKey("unit", param.Custom, param.AnyOf,
			param.WithNamePattern(`unit|organization_?id`)),
		excludeSubunits: param.NewKey("excludeSubunits", param.Ignored, param.NotApplicable,
			param.WithValuePattern(`(?i)^(true|false)$`)),
		hasChapterTitle: param.NewKey("hasChapterTitle", param.HasParts, param.AnyOf,
			param.WithSubKey(param.NewKey("chapterTitle", param.Text, param.AnyOf, param.WithPaths(param.TextPath(pathTitle))), "chapter")),
		partOfAnthology: param.NewKey("partOfAnthology", param.PartOf, param.AnyOf,
			param.WithSubKey(param.NewKey("anthologyId", param.Keyword, param.AnyOf, param.WithPaths(param.KeywordPath("identifier"))), "anthology")),
		searchAll: param.NewKey("searchAll", param.FreeText, param.AllOf,
			param.WithNamePattern(`search(_?all)?|query|q`),
			param.WithPaths(
				param.TextPath(pathTitle),
				param.TextPath(pathAbstract),
				param.TextPath(pathContributorName),
				param.TextPath(pathTags),
			)),
	}
}

func (k keys) searchKeys() []*param.Key {
	return []*param.Key{
		k.id, k.contributor, k.contributorNot, k.contributorName, k.title,
		k.abstract, k.tags, k.tagsAny, k.instanceType, k.instanceTypeNot,
		k.status, k.publicationYear, k.publicationYearBefore,
		k.publicationYearSince, k.modifiedSince, k.modifiedBefore, k.created,
		k.hasFiles, k.fundingSource, k.journal, k.unit, k.excludeSubunits,
		k.hasChapterTitle, k.partOfAnthology, k.searchAll,
	}
}

func newRegistry(k keys) *param.Registry {
	return param.NewRegistry(Name, append(k.searchKeys(), validator.PagingKeys()...), validator.KeyFields,
		param.NewSortKey("title", pathTitle+".keyword"),
		param.NewSortKey("publicationDate", pathYear, "entityDescription.publicationDate.month", "entityDescription.publicationDate.day"),
		param.NewSortKey("modifiedDate", pathModified),
		param.NewSortKey("createdDate", pathCreated),
		param.NewSortKey("instanceType", pathInstanceType+".keyword"),
	)
}
