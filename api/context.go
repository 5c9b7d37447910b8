package api

import (
	"context"
)

type keyType string

const adminClaimsKey keyType = "adminClaims"

// ctxWithClaims adds the verified admin claims to the context
func ctxWithClaims(ctx context.Context, claims *AdminClaims) context.Context {
	return context.WithValue(ctx, adminClaimsKey, claims)
}

// ctxGetClaims retrieves the admin claims, if the request was authenticated
func ctxGetClaims(ctx context.Context) (*AdminClaims, bool) {
	claims, ok := ctx.Value(adminClaimsKey).(*AdminClaims)
	return claims, ok && claims != nil
}

// actor names the signed-in admin for audit logs.
func actor(ctx context.Context) string {
	if claims, ok := ctxGetClaims(ctx); ok {
		return claims.Email
	}
	return "anonymous"
}
