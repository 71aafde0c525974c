package handlers

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/scool-backend/internal/platform/apierr"
	"github.com/yungbote/scool-backend/internal/platform/ctxutil"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
)

// MaxUploadBytes bounds multipart uploads (photos and attachments).
const MaxUploadBytes = 20 << 20

func dbcOf(c *gin.Context) dbctx.Context {
	return dbctx.Context{Ctx: c.Request.Context()}
}

func pathID(c *gin.Context, name string) (uint, error) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		return 0, apierr.Validation("%s: %q is not a valid id", name, raw)
	}
	return uint(id), nil
}

// queryID returns 0 when the parameter is absent.
func queryID(c *gin.Context, name string) (uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		return 0, apierr.Validation("%s: %q is not a valid id", name, raw)
	}
	return uint(id), nil
}

func caller(c *gin.Context) (*ctxutil.RequestData, error) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.ProfileID == 0 {
		return nil, apierr.Unauthorized("not authenticated")
	}
	return rd, nil
}

// bindJSON decodes the body; field rules are checked by the services.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apierr.Validation("request body is empty")
		}
		return apierr.Validation("invalid request body: %v", err)
	}
	return nil
}

// formFile reads one multipart file field.
func formFile(c *gin.Context, field string) (string, []byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", nil, apierr.Validation("%s: file is required", field)
	}
	if fh.Size > MaxUploadBytes {
		return "", nil, apierr.Validation("%s: file exceeds %d bytes", field, MaxUploadBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	raw, err := io.ReadAll(io.LimitReader(f, MaxUploadBytes+1))
	if err != nil {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}
	return fh.Filename, raw, nil
}

func location(format string, args ...any) string {
	return "/api" + fmt.Sprintf(format, args...)
}
