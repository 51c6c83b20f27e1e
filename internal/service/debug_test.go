package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpTables(t *testing.T) {
	m, logs := logCapture(t)
	ctx := context.Background()
	token := signUp(t, m, "Ana", "ana@example.com")
	signUp(t, m, "Bruno", "bruno@example.com")

	logs.Reset()
	require.NoError(t, m.DumpUsers(ctx))
	require.NoError(t, m.DumpSessions(ctx))

	out := logs.String()
	assert.Contains(t, out, "user table")
	assert.Contains(t, out, "count=2")
	assert.Contains(t, out, "email=ana@example.com")
	assert.Contains(t, out, "email=bruno@example.com")
	assert.Contains(t, out, "session table")
	assert.Contains(t, out, "token="+token)
	assert.NotContains(t, out, "s3cret", "plaintext passwords never reach the log")
}
