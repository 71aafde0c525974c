package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/scool-backend/internal/platform/ctxutil"
)

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name     string
		header   string
		wantKept bool
	}{
		{"kept", "req-42.a_b", true},
		{"missing", "", false},
		{"unprintable", "bad id\n", false},
		{"too long", strings.Repeat("x", maxRequestIDLen+1), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var seen *ctxutil.TraceData
			r := gin.New()
			r.Use(AttachTraceContext())
			r.GET("/x", func(c *gin.Context) {
				seen = ctxutil.GetTraceData(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tc.header != "" {
				req.Header.Set(headerRequestID, tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if seen == nil {
				t.Fatalf("trace data: want attached")
			}
			got := rec.Header().Get(headerRequestID)
			if got != seen.RequestID {
				t.Fatalf("request id header: want=%q got=%q", seen.RequestID, got)
			}
			if tc.wantKept && got != tc.header {
				t.Fatalf("request id: want=%q got=%q", tc.header, got)
			}
			if !tc.wantKept && (got == tc.header || got == "") {
				t.Fatalf("request id: want generated got=%q", got)
			}
			if len(seen.TraceID) != 32 || rec.Header().Get(headerTraceID) != seen.TraceID {
				t.Fatalf("trace id: got=%q header=%q", seen.TraceID, rec.Header().Get(headerTraceID))
			}
		})
	}
}
