package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/youth-activities-api/pkg/config"
)

func TestBuildWithoutDatastore(t *testing.T) {
	cfg := &config.Config{Email: config.EmailConfig{APIKey: "re_123", FromAddress: "noreply@example.org"}}

	c, err := Build(context.Background(), cfg, nil, nil, Options{})
	require.NoError(t, err)
	assert.Nil(t, c.DB)
	assert.Nil(t, c.Reminders)
	assert.Nil(t, c.Dispatcher)

	c.Start(context.Background())
	assert.NoError(t, c.Close(context.Background()))
}
