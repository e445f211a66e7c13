package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client is the subset of go-redis the repositories rely on. It is the
// universal client so single-node and cluster deployments look the same.
type Client interface {
	redis.UniversalClient
}

// Nil is returned by Get when a key does not exist
var Nil = redis.Nil
