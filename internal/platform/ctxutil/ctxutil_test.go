package ctxutil

import (
	"context"
	"testing"
)

func TestRequestDataRoundTrip(t *testing.T) {
	ctx := context.Background()
	if GetRequestData(ctx) != nil {
		t.Fatalf("GetRequestData: want nil on empty context")
	}
	ctx = WithRequestData(ctx, &RequestData{UserID: 3, ProfileID: 5, Role: "student"})
	rd := GetRequestData(ctx)
	if rd == nil || rd.ProfileID != 5 || rd.UserID != 3 {
		t.Fatalf("GetRequestData: unexpected %+v", rd)
	}
	ctx = WithTraceData(ctx, &TraceData{TraceID: "t", RequestID: "r"})
	if td := GetTraceData(ctx); td == nil || td.RequestID != "r" {
		t.Fatalf("GetTraceData: unexpected %+v", td)
	}
	if got := GetTraceData(ctx).LogFields(); len(got) != 4 || got[3] != "r" {
		t.Fatalf("LogFields: got=%v", got)
	}
	if got := (&TraceData{RequestID: "r"}).LogFields(); len(got) != 2 || got[0] != "request_id" {
		t.Fatalf("LogFields without trace: got=%v", got)
	}
	var empty *TraceData
	if empty.LogFields() != nil {
		t.Fatalf("LogFields(nil): want nil")
	}
	var unset context.Context
	if Default(unset) == nil {
		t.Fatalf("Default(nil): want background context")
	}
}
