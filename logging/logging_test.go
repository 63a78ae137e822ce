package logging

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.log")

	logger, closeLog, err := Setup(path)
	require.NoError(t, err)

	logger.Info("connected", Operation("startup"), Account("me@example.com"))
	require.NoError(t, closeLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "connected")
	assert.Contains(t, string(data), "operation=startup")
	assert.Contains(t, string(data), "account=me@example.com")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSetupBadPath(t *testing.T) {
	_, _, err := Setup(filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	require.Error(t, err)
}

func TestErrAttr(t *testing.T) {
	attr := Err(errors.New("boom"))
	assert.Equal(t, KeyError, attr.Key)
	assert.Equal(t, "boom", attr.Value.String())

	// nil errors produce an empty group that renders as nothing.
	assert.Equal(t, "", Err(nil).Key)
}
