package dedupe

// Package dedupe provides the shared singleflight group used to
// deduplicate concurrent replay verification. A full fixture replay is
// expensive; using a centralized singleflight.Group ensures that only
// one replay runs for a given fixture name while other callers wait
// for the result.

import "golang.org/x/sync/singleflight"

// VerifyGroup deduplicates fixture verification requests keyed by
// fixture name.
var VerifyGroup singleflight.Group
