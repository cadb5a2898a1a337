package common

// AccessTokenHeaderName is the gRPC metadata key carrying the identity token.
const AccessTokenHeaderName = "access_token"

// LocalIDPrefix marks ids minted by a client while offline; the remote store
// never issues ids with this prefix.
const LocalIDPrefix = "local-"
