package commands

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movers-solution/movers/internal/backend"
)

type mockLogoutClient struct {
	result backend.Result
}

func (m *mockLogoutClient) Logout(ctx context.Context) backend.Result {
	return m.result
}

func TestRunLogout(t *testing.T) {
	tests := []struct {
		name    string
		result  backend.Result
		wantErr bool
		want    []string
	}{
		{
			name:   "success",
			result: backend.Result{Outcome: backend.Success, StatusCode: 204},
			want:   []string{"Outcome:  success", "Status:   204"},
		},
		{
			name:    "recoverable",
			result:  backend.Result{Outcome: backend.Recoverable, StatusCode: 503, Err: errors.New("logout failed (status 503)")},
			wantErr: true,
			want:    []string{"Outcome:  recoverable", "Status:   503", "Error:    logout failed (status 503)"},
		},
		{
			name:    "transport",
			result:  backend.Result{Outcome: backend.Recoverable, Err: errors.New("connection refused")},
			wantErr: true,
			want:    []string{"Outcome:  recoverable", "Error:    connection refused"},
		},
		{
			name:    "fatal",
			result:  backend.Result{Outcome: backend.Fatal, StatusCode: 404},
			wantErr: true,
			want:    []string{"Outcome:  fatal"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := runLogout(context.Background(), &mockLogoutClient{result: tt.result}, "http://backend", &out)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Contains(t, out.String(), "Backend:  http://backend")
			for _, line := range tt.want {
				assert.Contains(t, out.String(), line)
			}
		})
	}
}
