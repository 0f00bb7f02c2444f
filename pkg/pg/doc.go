// Package pg provides PostgreSQL connectivity for fleetkit: a retrying
// pgxpool constructor, a health check closure, and goose-based schema
// migrations bridged through database/sql.
//
// The tenant provider, subscription store, and usage counters all share
// one pool created here.
package pg
