package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startRedis поднимает Redis через testcontainers-go.
// Если переменная окружения GO_TEST_INTEGRATION не установлена - тест пропускается.
func startRedis(t *testing.T) string {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("redis://%s:%s/0", host, port.Port())
}

func TestKey(t *testing.T) {
	assert.Equal(t,
		"leaguehub:resp:clubs:ru:/api/v1/client/clubs?limit=5",
		Key("clubs", "ru", "/api/v1/client/clubs?limit=5"))
}

func TestNewRedisCache_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewRedisCache(ctx, "redis://localhost:6379/0", 0)
	assert.Error(t, err)

	_, err = NewRedisCache(ctx, "not a url", time.Minute)
	assert.Error(t, err)
}

func TestRedisCache(t *testing.T) {
	url := startRedis(t)
	ctx := context.Background()

	c, err := NewRedisCache(ctx, url, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	clubsUz := Key("clubs", "uz", "/api/v1/client/clubs")
	clubsRu := Key("clubs", "ru", "/api/v1/client/clubs/1")
	news := Key("news", "uz", "/api/v1/client/news")

	_, ok, err := c.Get(ctx, clubsUz)
	require.NoError(t, err)
	assert.False(t, ok)

	for _, key := range []string{clubsUz, clubsRu, news} {
		require.NoError(t, c.Set(ctx, key, []byte(`{"key":"`+key+`"}`)))
	}

	body, ok, err := c.Get(ctx, clubsRu)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"key":"`+clubsRu+`"}`, string(body))

	// Инвалидация затрагивает только ключи ресурса
	require.NoError(t, c.Invalidate(ctx, "clubs"))

	for _, key := range []string{clubsUz, clubsRu} {
		_, ok, err := c.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}

	_, ok, err = c.Get(ctx, news)
	require.NoError(t, err)
	assert.True(t, ok)
}
