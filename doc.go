// Package headstart orchestrates a storefront against a hosted commerce
// platform: buyer organization provisioning and the session lifecycle of
// storefront visitors.
//
// Buyer provisioning:
//   - BuyerService creates, fetches, and updates buyer organizations. A new
//     buyer is created with a platform-assigned sequential identifier and then
//     receives its supporting resources in order: the default security profile
//     assignment, the transactional message sender, two ID incrementors (user
//     and location), and catalog visibility. There is no rollback; resources
//     provisioned before a failure stay in place.
//   - Markup is a storefront concept the platform has no native field for.
//     MarkupStore abstracts where the percentage lives: XpMarkupStore keeps it
//     in the buyer's extended attributes, DocumentMarkupStore in a local
//     document table backed by Bun.
//
// Sessions and tokens:
//   - SessionManager owns profiled, anonymous, and token-based logins, logout
//     with optional anonymous fallback, password changes, and token refresh.
//     Refresh runs behind a mutex latch so concurrent callers collapse into a
//     single remote call, and a failed refresh opens a short cooldown window
//     before another attempt is allowed.
//   - TokenHolder fans the current access token out to registered receivers so
//     dependent API clients always operate with the latest credentials.
//
// Session sinks:
//   - SessionSink is a light-weight audit emitter describing login, logout,
//     refresh, and provisioning events. Sinks run best-effort (errors are
//     logged) so recording never blocks the session flow.
package headstart
