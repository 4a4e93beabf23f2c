package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Terminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusSuccess.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.True(t, StatusSkipped.Terminal())
}

func TestStatusText(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{status: StatusPending, want: "pending"},
		{status: StatusSuccess, want: "converted"},
		{status: StatusFailed, want: "conversion failed"},
		{status: StatusSkipped, want: "already a storage URL"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusText(tt.status))
		})
	}
}
