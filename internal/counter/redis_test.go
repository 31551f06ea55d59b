package counter

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rd-risk-mcp-server/internal/domain"
)

type mockRedisClient struct {
	mock.Mock
}

func (m *mockRedisClient) HIncrBy(ctx context.Context, key, field string, incr int64) *redis.IntCmd {
	args := m.Called(ctx, key, field, incr)
	cmd := redis.NewIntCmd(ctx)
	if err := args.Error(0); err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal(1)
	}
	return cmd
}

func (m *mockRedisClient) HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd {
	args := m.Called(ctx, key)
	cmd := redis.NewMapStringStringCmd(ctx)
	if err := args.Error(1); err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal(args.Get(0).(map[string]string))
	}
	return cmd
}

func (m *mockRedisClient) Ping(ctx context.Context) *redis.StatusCmd {
	args := m.Called(ctx)
	cmd := redis.NewStatusCmd(ctx)
	if err := args.Error(0); err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal("PONG")
	}
	return cmd
}

func (m *mockRedisClient) Close() error {
	return m.Called().Error(0)
}

func TestRedisStore_Increment(t *testing.T) {
	client := new(mockRedisClient)
	store := newRedisStore(client, "test:")
	ctx := context.Background()

	client.On("HIncrBy", ctx, "test:assessments", "MODERATE", int64(1)).Return(nil).Once()
	client.On("HIncrBy", ctx, "test:assessments", "HIGH", int64(1)).Return(errors.New("connection refused")).Once()

	require.NoError(t, store.Increment(ctx, domain.MODERATE))
	err := store.Increment(ctx, domain.HIGH)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, store.Increment(ctx, "BOGUS"), domain.ErrInvalidTier)

	client.AssertExpectations(t)
}

func TestRedisStore_Totals(t *testing.T) {
	ctx := context.Background()

	t.Run("sums tiers", func(t *testing.T) {
		client := new(mockRedisClient)
		store := newRedisStore(client, "")
		client.On("HGetAll", ctx, "rdrisk:assessments").
			Return(map[string]string{"LOW": "7", "VERY_HIGH": "2", "OBSOLETE": "5"}, nil)

		totals, err := store.Totals(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(9), totals.Total)
		assert.Equal(t, int64(7), totals.ByTier[domain.LOW])
		assert.Equal(t, int64(2), totals.ByTier[domain.VERY_HIGH])
		assert.Equal(t, int64(0), totals.ByTier[domain.HIGH])
	})

	t.Run("corrupt field", func(t *testing.T) {
		client := new(mockRedisClient)
		store := newRedisStore(client, "")
		client.On("HGetAll", ctx, "rdrisk:assessments").
			Return(map[string]string{"LOW": "seven"}, nil)

		_, err := store.Totals(ctx)
		assert.Error(t, err)
	})

	t.Run("server error", func(t *testing.T) {
		client := new(mockRedisClient)
		store := newRedisStore(client, "")
		client.On("HGetAll", ctx, "rdrisk:assessments").
			Return(map[string]string(nil), errors.New("LOADING"))

		_, err := store.Totals(ctx)
		assert.Error(t, err)
	})
}

func TestRedisStore_PingAndClose(t *testing.T) {
	client := new(mockRedisClient)
	store := newRedisStore(client, "")
	ctx := context.Background()

	client.On("Ping", ctx).Return(nil)
	client.On("Close").Return(nil)

	assert.NoError(t, store.Ping(ctx))
	assert.NoError(t, store.Close())
	client.AssertExpectations(t)
}

func TestNewRedisStore_BadURL(t *testing.T) {
	_, err := NewRedisStore(context.Background(), domain.RedisConfig{URL: "not a url"})
	assert.Error(t, err)
}
