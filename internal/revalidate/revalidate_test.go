package revalidate

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"dashboard/internal/logging"
)

func TestBusDeliversToEverySubscriber(t *testing.T) {
	bus := NewBus()
	var a, b []string
	bus.Subscribe(func(p string) { a = append(a, p) })
	bus.Subscribe(func(p string) { b = append(b, p) })

	bus.Revalidate(context.Background(), "/dashboard")
	bus.Revalidate(context.Background(), "/dashboard/products")

	assert.Equal(t, []string{"/dashboard", "/dashboard/products"}, a)
	assert.Equal(t, a, b)
}

func TestCovers(t *testing.T) {
	tests := []struct {
		path, key string
		want      bool
	}{
		{"/dashboard", "/dashboard", true},
		{"/dashboard", "/dashboard/posts", true},
		{"/dashboard/", "/dashboard/posts", true},
		{"/dashboard", "/dashboards", false},
		{"/dashboard/products", "/dashboard/posts", false},
		{"/", "/dashboard/posts", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Covers(tt.path, tt.key), "%s covers %s", tt.path, tt.key)
	}
}

func TestFanoutInvalidatesLocallyWhenRedisIsDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	bus := NewBus()
	var got []string
	bus.Subscribe(func(p string) { got = append(got, p) })

	rv := Fanout{bus, NewRedisPublisher(client, "", logging.Discard())}
	rv.Revalidate(context.Background(), "/dashboard")

	assert.Equal(t, []string{"/dashboard"}, got)
}
