package database

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/youth-activities-api/pkg/config"
)

func TestDSNInjectsServiceKey(t *testing.T) {
	dsn, err := DSN(config.DatastoreConfig{
		URL:        "postgres://app@db.example.org:5432/postgres?sslmode=disable",
		ServiceKey: "s3cr3t/key",
	})
	require.NoError(t, err)

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	pass, _ := u.User.Password()
	assert.Equal(t, "app", u.User.Username())
	assert.Equal(t, "s3cr3t/key", pass)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
}

func TestDSNDefaults(t *testing.T) {
	dsn, err := DSN(config.DatastoreConfig{URL: "postgresql://db.example.org/postgres", ServiceKey: "k"})
	require.NoError(t, err)

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "postgres", u.User.Username())
	assert.Equal(t, "require", u.Query().Get("sslmode"))
}

func TestDSNRejectsMissingOrForeign(t *testing.T) {
	_, err := DSN(config.DatastoreConfig{URL: "postgres://db"})
	assert.Error(t, err)

	_, err = DSN(config.DatastoreConfig{URL: "https://project.supabase.co", ServiceKey: "k"})
	assert.Error(t, err)
}
