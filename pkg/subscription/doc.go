// Package subscription resolves a tenant's subscription history into the
// single time-aware Snapshot that governs its entitlements right now.
//
// A tenant accumulates subscription rows over upgrades, renewals, and
// cancellations; rows are never hard-deleted. SelectCurrent applies the
// canonical precedence (status=active with a period covering now, newest
// StartsAt wins) and the StateResolver classifies the result:
//
//	no rows                               -> StateNone (implicit free plan)
//	period ended                          -> StateExpired
//	trial closed, no concrete plan        -> StateTrialExpired
//	otherwise                             -> StateActive with plan limits
//
// Expiry is strict-after: a subscription whose EndsAt equals the current
// instant is already expired.
//
// The resolver takes an injectable clock (WithClock) so every boundary can
// be tested deterministically. Store failures surface as
// ErrSubscriptionLookupFailed and the entitlement gate denies on them;
// uncertainty never degrades into the free plan silently.
package subscription
