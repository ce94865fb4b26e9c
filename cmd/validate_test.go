package cmd

import (
	"context"
	"testing"

	"github.com/jjenkins/legreview/internal/config"
	"github.com/jjenkins/legreview/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_EmptyDataDirFailsEveryDataset(t *testing.T) {
	cfg := &config.Config{DataDir: t.TempDir()}

	stats, err := service.NewValidator(newRecordStore(cfg)).ValidateAll(context.Background())

	require.NoError(t, err)
	assert.Positive(t, stats.Total)
	assert.Equal(t, stats.Total, stats.Failed)
	assert.Zero(t, stats.Loaded)
}
