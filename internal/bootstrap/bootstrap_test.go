package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmorate/internal/config"
	"filmorate/internal/events"
	"filmorate/internal/storage"
)

func TestOpenBackend_Memory(t *testing.T) {
	backend, err := OpenBackend(config.Config{Storage: config.StorageConfig{Backend: config.BackendMemory}})
	require.NoError(t, err)
	defer backend.Close()

	assert.Nil(t, backend.DB)
	err = backend.Tx.WithinReadTx(context.Background(), func(ctx context.Context, repos storage.Repositories) error {
		genres, err := repos.Catalog.ListGenres(ctx)
		assert.Len(t, genres, 6)
		return err
	})
	require.NoError(t, err)
}

func TestOpenBackend_Unknown(t *testing.T) {
	_, err := OpenBackend(config.Config{Storage: config.StorageConfig{Backend: "redis"}})
	assert.Error(t, err)
}

func TestNewPublisher_Disabled(t *testing.T) {
	pub, closer, err := NewPublisher(config.KafkaConfig{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, closer)
	closer()
	assert.IsType(t, events.NopPublisher{}, pub)
}
