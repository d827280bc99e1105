package dedupe

// Package dedupe provides shared singleflight groups used to deduplicate
// concurrent loads. Parallel encounters that start together ask for the
// same catalog snapshot; only one load runs while the others wait for it.

import "golang.org/x/sync/singleflight"

// CatalogGroup deduplicates catalog snapshot loads keyed by the database
// source name.
var CatalogGroup singleflight.Group
