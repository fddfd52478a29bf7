package interaction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shestoi/rivalsyndicate/internal/interaction/mocks"
)

func TestRegistrar_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		applicationID string
		guildID       string
		setup         func(w *mocks.CommandWriter)
		wantNames     []string
		wantErr       error
		wantAnyErr    bool
	}{
		{
			name:          "registers close and complete",
			applicationID: "app-1",
			guildID:       "guild-1",
			setup: func(w *mocks.CommandWriter) {
				w.On("BulkOverwriteGuildCommands", ctx, "app-1", "guild-1", Commands).Return(nil).Once()
			},
			wantNames: []string{"close", "complete"},
		},
		{
			name:    "missing application id",
			guildID: "guild-1",
			setup:   func(w *mocks.CommandWriter) {},
			wantErr: ErrNotConfigured,
		},
		{
			name:          "missing guild id",
			applicationID: "app-1",
			setup:         func(w *mocks.CommandWriter) {},
			wantErr:       ErrNotConfigured,
		},
		{
			name:          "upstream failure",
			applicationID: "app-1",
			guildID:       "guild-1",
			setup: func(w *mocks.CommandWriter) {
				w.On("BulkOverwriteGuildCommands", ctx, "app-1", "guild-1", Commands).Return(errors.New("discord API status 403")).Once()
			},
			wantAnyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := mocks.NewCommandWriter(t)
			tt.setup(w)

			names, err := NewRegistrar(zap.NewNop(), w, tt.applicationID, tt.guildID).Register(ctx)
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.wantAnyErr:
				require.Error(t, err)
				require.NotErrorIs(t, err, ErrNotConfigured)
			default:
				require.NoError(t, err)
				require.Equal(t, tt.wantNames, names)
			}
		})
	}
}
