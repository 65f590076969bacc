package api

import (
	"context"
)

type keyType string

const (
	adminSubjectKey keyType = "adminSubject"
)

// ctxWithAdminSubject stores the authenticated admin's token subject
func ctxWithAdminSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, adminSubjectKey, subject)
}

// ctxGetAdminSubject returns the admin subject, or "" when the gate is disabled
func ctxGetAdminSubject(ctx context.Context) string {
	subject, _ := ctx.Value(adminSubjectKey).(string)
	return subject
}
