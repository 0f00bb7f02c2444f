// Package redis provides a retrying Redis client constructor and a health
// check helper. The shared tenant cache (tenant.NewRedisCache) is its main
// consumer in fleetkit.
package redis
