// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package global

import (
	"context"
	"crypto/sha256"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func resetGlobalState() {
	pageTokenSecret = [32]byte{}
	doOncePageTokenSecret = sync.Once{}
}

func TestPageTokenSecret(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  [32]byte
	}{
		{
			name:  "exactly 32 bytes are used as is",
			value: "this-is-a-test-secret-32-bytes!!",
			want:  [32]byte([]byte("this-is-a-test-secret-32-bytes!!")),
		},
		{
			name:  "short secrets are hashed",
			value: "short",
			want:  sha256.Sum256([]byte("short")),
		},
		{
			name:  "long secrets are hashed, not truncated",
			value: "this-is-a-very-long-secret-that-exceeds-32-bytes-and-should-be-hashed",
			want:  sha256.Sum256([]byte("this-is-a-very-long-secret-that-exceeds-32-bytes-and-should-be-hashed")),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resetGlobalState()
			t.Setenv(PageTokenSecretEnv, tc.value)

			assert.Equal(t, tc.want, *PageTokenSecret(context.Background()))
		})
	}
}

func TestPageTokenSecretIsReadOnce(t *testing.T) {
	resetGlobalState()
	t.Setenv(PageTokenSecretEnv, "first-secret")
	first := PageTokenSecret(context.Background())

	t.Setenv(PageTokenSecretEnv, "second-secret")
	var wg sync.WaitGroup
	results := make([]*[32]byte, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = PageTokenSecret(context.Background())
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Same(t, first, r)
	}
	assert.Equal(t, sha256.Sum256([]byte("first-secret")), *first)
}
