// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package importcandidate

import (
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/param"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/validator"
	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/resources"
)

// Name is the resource name import candidates are searched under.
const Name = "import-candidate"

// Import statuses.
const (
	StatusNotImported   = "NOT_IMPORTED"
	StatusImported      = "IMPORTED"
	StatusNotApplicable = "NOT_APPLICABLE"
)

// Identifier sources stored in additionalIdentifiers.
const (
	SourceCristin = "Cristin"
	SourceScopus  = "Scopus"
)

const (
	pathIdentifiers     = "additionalIdentifiers"
	pathImportStatus    = "importStatus.candidateStatus"
	pathInstanceType    = "publicationInstance.type"
	pathCollaboration   = "collaborationType"
	pathYear            = "publicationYear"
	pathTitle           = "mainTitle"
	pathContributorName = "contributors.identity.name"
	pathTopOrganization = "organizations.id"
)

var importStatuses = resources.NewEnum(StatusNotImported, StatusImported, StatusNotApplicable)

type keys struct {
	cristinIdentifier     *param.Key
	scopusIdentifier      *param.Key
	importStatus          *param.Key
	instanceType          *param.Key
	collaborationType     *param.Key
	publicationYear       *param.Key
	publicationYearBefore *param.Key
	publicationYearSince  *param.Key
	title                 *param.Key
	contributorName       *param.Key
	topLevelOrganization  *param.Key
	hasFiles              *param.Key
	search                *param.Key
}

func newKeys() keys {
	yearPaths := param.WithPaths(param.TextPath(pathYear))
	return keys{
		cristinIdentifier: param.NewKey("cristinIdentifier", param.Custom, param.AnyOf),
		scopusIdentifier:  param.NewKey("scopusIdentifier", param.Custom, param.AnyOf),
		importStatus: param.NewKey("importStatus", param.Keyword, param.AnyOf,
			param.WithPaths(param.KeywordPath(pathImportStatus))),
		instanceType: param.NewKey("instanceType", param.Keyword, param.AnyOf,
			param.WithNamePattern(`instance_?type|type|category`),
			param.WithPaths(param.KeywordPath(pathInstanceType))),
		collaborationType: param.NewKey("collaborationType", param.Keyword, param.AnyOf,
			param.WithPaths(param.KeywordPath(pathCollaboration))),
		publicationYear:       param.NewKey("publicationYear", param.Number, param.Between, yearPaths),
		publicationYearBefore: param.NewKey("publicationYearBefore", param.Number, param.LessThan, yearPaths),
		publicationYearSince:  param.NewKey("publicationYearSince", param.Number, param.GreaterOrEqual, yearPaths),
		title: param.NewKey("title", param.Text, param.AllOf,
			param.WithPaths(param.TextPath(pathTitle)), param.WithBoost(2)),
		contributorName: param.NewKey("contributorName", param.FuzzyKeyword, param.AllOf,
			param.WithPaths(param.KeywordPath(pathContributorName))),
		topLevelOrganization: param.NewKey("topLevelOrganization", param.Keyword, param.AnyOf,
			param.WithNamePattern(`top_?level_?organi[sz]ation|institution`),
			param.WithPaths(param.KeywordPath(pathTopOrganization))),
		hasFiles: param.NewKey("hasFiles", param.Exists, param.AllOf,
			param.WithPaths(param.TextPath("associatedArtifacts.identifier"))),
		search: param.NewKey("search", param.FreeText, param.AllOf,
			param.WithNamePattern(`search(_?all)?|query|q`),
			param.WithPaths(
				param.TextPath(pathTitle),
				param.TextPath(pathContributorName),
				param.TextPath("abstract"),
			)),
	}
}

func (k keys) searchKeys() []*param.Key {
	return []*param.Key{
		k.cristinIdentifier, k.scopusIdentifier, k.importStatus, k.instanceType,
		k.collaborationType, k.publicationYear, k.publicationYearBefore,
		k.publicationYearSince, k.title, k.contributorName,
		k.topLevelOrganization, k.hasFiles, k.search,
	}
}

func newRegistry(k keys) *param.Registry {
	return param.NewRegistry(Name, append(k.searchKeys(), validator.PagingKeys()...), validator.KeyFields,
		param.NewSortKey("publicationYear", pathYear),
		param.NewSortKey("title", pathTitle+".keyword"),
		param.NewSortKey("importStatus", pathImportStatus+".keyword"),
		param.NewSortKey("createdDate", "createdDate"),
	)
}
