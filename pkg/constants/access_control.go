// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

const (
	// RightsSubject is the subject answering access rights lookups
	RightsSubject = "dev.lfx.access_rights.request"
	// AnonymousPrincipal is the identifier for anonymous users
	AnonymousPrincipal = `_anonymous`
)

type principalAttributeType string

// PrincipalAttribute is the log attribute naming the authenticated principal
const PrincipalAttribute principalAttributeType = "principal"
