// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"errors"
	"testing"

	"github.com/linuxfoundation/lfx-v2-facet-query-service/internal/query/access"
	apperrors "github.com/linuxfoundation/lfx-v2-facet-query-service/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockNATSClient is a mock implementation of NATSClientInterface
type MockNATSClient struct {
	response    RightsNATSResponse
	requestErr  error
	readyErr    error
	closeError  error
	lastRequest *RightsNATSRequest
}

func (m *MockNATSClient) RequestRights(ctx context.Context, request *RightsNATSRequest) (RightsNATSResponse, error) {
	m.lastRequest = request
	if m.requestErr != nil {
		return nil, m.requestErr
	}
	return m.response, nil
}

func (m *MockNATSClient) IsReady(ctx context.Context) error {
	return m.readyErr
}

func (m *MockNATSClient) Close() error {
	return m.closeError
}

func TestNATSRightsResolver_ResolveRights(t *testing.T) {
	tests := []struct {
		name      string
		mock      *MockNATSClient
		want      access.Caller
		wantError any
	}{
		{
			name: "curator with rights",
			mock: &MockNATSClient{response: RightsNATSResponse{
				{Name: FieldUserID, Value: "1234"},
				{Name: FieldUsername, Value: "1234@20754.0.0.0"},
				{Name: FieldOrganization, Value: "https://api/cristin/organization/20754.1.0.0"},
				{Name: FieldTopOrganization, Value: "https://api/cristin/organization/20754.0.0.0"},
				{Name: FieldRight, Value: "MANAGE_DOI"},
				{Name: FieldRight, Value: "SUPPORT"},
				{Name: "favouriteColour", Value: "green"},
			}},
			want: access.Caller{
				UserID:          "1234",
				Username:        "1234@20754.0.0.0",
				Rights:          []string{"MANAGE_DOI", "SUPPORT"},
				Organization:    "https://api/cristin/organization/20754.1.0.0",
				TopOrganization: "https://api/cristin/organization/20754.0.0.0",
			},
		},
		{
			name: "user without rights",
			mock: &MockNATSClient{response: RightsNATSResponse{
				{Name: FieldUsername, Value: "ann"},
			}},
			want: access.Caller{Username: "ann"},
		},
		{
			name:      "reply without identity",
			mock:      &MockNATSClient{response: RightsNATSResponse{{Name: FieldRight, Value: "MANAGE_DOI"}}},
			wantError: apperrors.Forbidden{},
		},
		{
			name:      "transport failure",
			mock:      &MockNATSClient{requestErr: errors.New("NATS connection timeout")},
			wantError: apperrors.ServiceUnavailable{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resolver := &NATSRightsResolver{client: tc.mock, subject: "rights.lookup"}

			got, err := resolver.ResolveRights(context.Background(), "principal-1")

			require.NotNil(t, tc.mock.lastRequest)
			assert.Equal(t, "rights.lookup", tc.mock.lastRequest.Subject)
			assert.Equal(t, "principal-1", tc.mock.lastRequest.Principal)
			if tc.wantError != nil {
				assert.IsType(t, tc.wantError, err)
				assert.Equal(t, access.Caller{}, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseRights(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		want      RightsNATSResponse
		expectErr bool
	}{
		{
			name: "tab separated lines",
			data: "username\tann\r\nright\tSUPPORT\n\n",
			want: RightsNATSResponse{{Name: "username", Value: "ann"}, {Name: "right", Value: "SUPPORT"}},
		},
		{
			name: "value may contain tabs",
			data: "organization\ta\tb",
			want: RightsNATSResponse{{Name: "organization", Value: "a\tb"}},
		},
		{
			name: "empty reply",
			data: "",
		},
		{
			name:      "line without tab",
			data:      "username ann",
			expectErr: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseRights(context.Background(), []byte(tc.data))
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNATSRightsResolver_IsReadyAndClose(t *testing.T) {
	down := &NATSRightsResolver{client: &MockNATSClient{
		readyErr:   errors.New("disconnected"),
		closeError: errors.New("failed to close connection"),
	}}
	assert.IsType(t, apperrors.ServiceUnavailable{}, down.IsReady(context.Background()))
	assert.EqualError(t, down.Close(), "failed to close connection")

	up := &NATSRightsResolver{client: &MockNATSClient{}}
	assert.NoError(t, up.IsReady(context.Background()))
	assert.NoError(t, up.Close())
}

func TestNATSClient_RequestRightsRejectsIncompleteRequests(t *testing.T) {
	client := &NATSClient{}
	tests := []struct {
		name    string
		request *RightsNATSRequest
	}{
		{name: "nil request", request: nil},
		{name: "missing subject", request: &RightsNATSRequest{Principal: "p"}},
		{name: "missing principal", request: &RightsNATSRequest{Subject: "s"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := client.RequestRights(context.Background(), tc.request)
			assert.Error(t, err)
		})
	}
}

func TestNATSClient_IsReadyWithoutConnection(t *testing.T) {
	assert.Error(t, (&NATSClient{}).IsReady(context.Background()))
}
