package universe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crivelaro/garimpo/internal/contracts"
	"github.com/crivelaro/garimpo/pkg/config"
	"github.com/crivelaro/garimpo/pkg/logger"
	"github.com/crivelaro/garimpo/pkg/redis"
)

type fakeLoader struct {
	snap  *contracts.Snapshot
	err   error
	calls int
}

func (f *fakeLoader) Load(_ context.Context, _ contracts.AssetClass) (*contracts.Snapshot, error) {
	f.calls++
	return f.snap, f.err
}

func testProvider(repo loader) *Provider {
	cfg := &config.Config{Env: "test", LogLevel: "error"}
	client, _ := redis.New(&config.Config{Env: "test"}) // redis disabled: cache is a no-op
	return NewProvider(repo, redis.NewCache(client, "garimpo"), logger.New(cfg))
}

func TestSnapshotLoadsFromStore(t *testing.T) {
	want := &contracts.Snapshot{
		Class:   contracts.ClassAcoes,
		Version: time.Date(2026, 2, 1, 6, 0, 0, 0, time.UTC),
		Instruments: []contracts.Instrument{
			{Ticker: "PETR4"},
		},
	}
	repo := &fakeLoader{snap: want}

	snap, err := testProvider(repo).Snapshot(context.Background(), contracts.ClassAcoes)
	require.NoError(t, err)

	assert.Equal(t, 1, snap.Count())
	assert.Equal(t, want.Version, snap.Version)
	assert.Equal(t, 1, repo.calls)
}

func TestSnapshotPropagatesStoreErrors(t *testing.T) {
	repo := &fakeLoader{err: errors.New("connection refused")}

	_, err := testProvider(repo).Snapshot(context.Background(), contracts.ClassFIIs)
	assert.Error(t, err)
}
