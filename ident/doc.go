// Copyright (c) 2025 CommonGround Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ident generates stable pseudonyms for masked identities.

Match results show a candidate's real display name only to viewers with an
accepted connection; everyone else sees a pseudonym. The pseudonym is an
HMAC-SHA256 of the account id under a server-side salt, base62-encoded:

	ident.Pseudonym("account-id", cfg.PseudonymSalt)
	// "member-3xK9fQ2mBv1"

Determinism matters: the same candidate must keep the same masked handle
across requests so viewers can recognize repeat matches, while the HMAC keeps
the underlying account id unrecoverable without the salt.
*/
package ident
