package mongoclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolSize(t *testing.T) {
	tests := []struct {
		name       string
		cpus       int
		hosts      int
		multiplier float64
		min, max   uint64
	}{
		{"floor", 1, 1, 1, 1, 4},
		{"single host", 8, 1, 2, 4, 16},
		{"split across hosts", 8, 3, 2, 1, 6},
		{"no hosts parsed", 4, 0, 1, 1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, max := poolSize(tt.cpus, tt.hosts, tt.multiplier)
			assert.Equal(t, tt.min, min)
			assert.Equal(t, tt.max, max)
		})
	}
}

func TestConnectBadUri(t *testing.T) {
	_, err := Connect(context.Background(), Cfg{Uri: "not-a-mongo-uri", DBName: "relayer"})
	assert.Error(t, err)
}
