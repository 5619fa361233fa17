package sessionstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GuardaLeeYBorra(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Save(ctx, "gncci_auth:a", []byte(`{"access_token":"x"}`), time.Hour))
	got, err := m.Load(ctx, "gncci_auth:a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"access_token":"x"}`, string(got))

	require.NoError(t, m.Delete(ctx, "gncci_auth:a"))
	got, err = m.Load(ctx, "gncci_auth:a")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemory_ExpiraPorTTL(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	now := time.Now()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Save(ctx, "k", []byte("v"), time.Minute))
	now = now.Add(2 * time.Minute)

	got, err := m.Load(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got, "la clave expirada no debe devolverse")
	assert.Equal(t, 0, m.Len())
}

func TestMemory_ClaveInexistente(t *testing.T) {
	got, err := NewMemory().Load(context.Background(), "nada")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemory_PurgeEliminaExpiradasSinLeerlas(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	now := time.Now()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Save(ctx, "vieja", []byte("v"), time.Minute))
	require.NoError(t, m.Save(ctx, "vigente", []byte("v"), time.Hour))
	require.NoError(t, m.Save(ctx, "sin-ttl", []byte("v"), 0))
	now = now.Add(2 * time.Minute)

	assert.Equal(t, 1, m.Purge())
	assert.Equal(t, 2, m.Len())
}

func TestMemory_RunPurgaPeriodicamente(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := NewMemory()
	require.NoError(t, m.Save(ctx, "k", []byte("v"), time.Millisecond))

	go m.Run(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 5*time.Millisecond)
}
