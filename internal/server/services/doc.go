// Package services implements the remote store operations on top of the
// repositories: identity issuance, sheet and category CRUD scoped to the
// calling identity.
//
// Errors are the sentinels of internal/common, wrapped with context:
// common.ErrNotFound for missing or foreign records, common.ErrInvalid for
// rejected payloads and common.ErrUnauthorized for unusable identities.
package services
