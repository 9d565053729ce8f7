// Package auth implements the VitaSync authentication and token
// lifecycle engine: credential verification, bearer token issuance,
// validation, refresh, and account verification transitions.
//
// Token lifecycle:
//   - TokenService mints HS256 access tokens carrying the identity
//     projection and refresh tokens carrying only the user id and a
//     tokenType marker. Refresh expiry is fixed at 7 days regardless of
//     the configured access lifetime. Rotation does not revoke the
//     refresh token just presented; it stays valid until its own expiry.
//   - Validation distinguishes malformed/bad-signature tokens from
//     expired ones, and a token binds to its user through both the
//     subject email and the userId claim.
//
// Verification state:
//   - Accounts are either unverified or verified. Privileged roles
//     (admin, blood bank staff, hospital staff) are verified at
//     creation; the only transition is unverified to verified via
//     VerifyUser and it never reverses.
//
// The credential store is a bun backed repository whose unique indexes
// on email and phone_number are the hard uniqueness constraint behind
// Register's pre-checks.
package auth
