package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/platform/apierr"
	"github.com/yungbote/scool-backend/internal/platform/ctxutil"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/views"
)

// inTx runs fn in a transaction, reusing dbc.Tx when the caller already opened one.
func inTx(db *gorm.DB, dbc dbctx.Context, fn func(dbc dbctx.Context) error) error {
	if dbc.Tx != nil {
		return fn(dbc)
	}
	ctx := ctxutil.Default(dbc.Ctx)
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}

// Created pairs a new row id with its view, for views that do not carry the id.
type Created[T any] struct {
	ID   uint
	View T
}

// render turns a view build failure into an internal error.
func render[T any](op string, v T, err error) (T, error) {
	if err != nil {
		var zero T
		if errors.Is(err, views.ErrMissingRelation) {
			return zero, apierr.New(http.StatusInternalServerError, apierr.CodeInternal, fmt.Errorf("%s: %w", op, err))
		}
		return zero, apierr.Map(op, err)
	}
	return v, nil
}

func callerProfileID(ctx context.Context) (uint, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.ProfileID == 0 {
		return 0, apierr.Unauthorized("no authenticated profile")
	}
	return rd.ProfileID, nil
}

func callerRole(ctx context.Context) types.Role {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return ""
	}
	return types.Role(rd.Role)
}

// requireRole fails with forbidden unless the caller has one of roles.
func requireRole(ctx context.Context, roles ...types.Role) error {
	got := callerRole(ctx)
	for _, r := range roles {
		if got == r {
			return nil
		}
	}
	return apierr.Forbidden("role %q may not perform this action", got)
}

func uniqueIDs(in []uint) []uint {
	seen := make(map[uint]struct{}, len(in))
	out := make([]uint, 0, len(in))
	for _, id := range in {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
