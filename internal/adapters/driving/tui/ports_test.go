package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiller-tolbus/packrat/internal/adapters/driven/storage/memory"
	"github.com/tiller-tolbus/packrat/internal/core/services"
)

func TestPortsValidate(t *testing.T) {
	t.Parallel()

	store := memory.NewChunkStore()
	chunking := services.NewChunkingService(store, wordTokenizer{}, "/tmp", 8192)
	progress := services.NewProgressService(store, "/tmp")

	tests := []struct {
		name    string
		ports   *Ports
		wantErr error
	}{
		{
			name:    "missing chunking service",
			ports:   &Ports{Progress: progress},
			wantErr: ErrMissingChunkingService,
		},
		{
			name:    "missing progress service",
			ports:   &Ports{Chunking: chunking},
			wantErr: ErrMissingProgressService,
		},
		{
			name:  "watcher is optional",
			ports: &Ports{Chunking: chunking, Progress: progress},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.ports.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
