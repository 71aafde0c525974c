package services

import (
	"testing"

	"github.com/yungbote/scool-backend/internal/data/repos/testutil"
	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/platform/apierr"
	"github.com/yungbote/scool-backend/internal/realtime"
	"github.com/yungbote/scool-backend/internal/views"
)

func TestCreateDialog(t *testing.T) {
	env := newTestEnv(t)
	svc := NewDialogService(env.db, env.log, env.repos, env.loader, env.bucket, env.pub)
	_, alice := testutil.SeedProfile(t, env.ctx, env.db, types.RoleStudent, "alice")
	_, bob := testutil.SeedProfile(t, env.ctx, env.db, types.RoleStudent, "bob")
	_, carol := testutil.SeedProfile(t, env.ctx, env.db, types.RoleTeacher, "carol")

	_, err := svc.CreateDialog(env.dbc, alice.ID, views.CreateDialogInput{Participants: []uint{alice.ID}})
	wantCode(t, "dialog with self", err, apierr.CodeValidation)
	_, err = svc.CreateDialog(env.dbc, alice.ID, views.CreateDialogInput{Participants: []uint{bob.ID, carol.ID}})
	wantCode(t, "group without name", err, apierr.CodeValidation)
	_, err = svc.CreateDialog(env.dbc, alice.ID, views.CreateDialogInput{Participants: []uint{999}})
	wantCode(t, "unknown participant", err, apierr.CodeNotFound)

	direct, err := svc.CreateDialog(env.dbc, alice.ID, views.CreateDialogInput{Participants: []uint{bob.ID}})
	if err != nil {
		t.Fatalf("CreateDialog: %v", err)
	}
	if direct.IsGroup || len(direct.Participants) != 2 {
		t.Fatalf("direct dialog: got=%+v", direct)
	}
	again, err := svc.CreateDialog(env.dbc, bob.ID, views.CreateDialogInput{Participants: []uint{alice.ID}, Name: "ignored"})
	if err != nil {
		t.Fatalf("CreateDialog(reverse): %v", err)
	}
	if again.ID != direct.ID {
		t.Fatalf("direct dialog reuse: want=%d got=%d", direct.ID, again.ID)
	}

	group, err := svc.CreateDialog(env.dbc, alice.ID, views.CreateDialogInput{Participants: []uint{bob.ID, carol.ID}, Name: " Project "})
	if err != nil {
		t.Fatalf("CreateDialog(group): %v", err)
	}
	if !group.IsGroup || group.Name != "Project" || len(group.Participants) != 3 {
		t.Fatalf("group dialog: got=%+v", group)
	}

	list, _ := svc.ListDialogs(env.dbc, carol.ID)
	if len(list) != 1 || list[0].ID != group.ID {
		t.Fatalf("ListDialogs(carol): got=%+v", list)
	}
	_, err = svc.GetDialog(env.dbc, direct.ID, carol.ID)
	wantCode(t, "outsider reads dialog", err, apierr.CodeForbidden)
	_, err = svc.GetDialog(env.dbc, 999, alice.ID)
	wantCode(t, "missing dialog", err, apierr.CodeNotFound)
}

func TestMessagingFlow(t *testing.T) {
	env := newTestEnv(t)
	svc := NewDialogService(env.db, env.log, env.repos, env.loader, env.bucket, env.pub)
	_, alice := testutil.SeedProfile(t, env.ctx, env.db, types.RoleStudent, "alice")
	_, bob := testutil.SeedProfile(t, env.ctx, env.db, types.RoleStudent, "bob")
	_, carol := testutil.SeedProfile(t, env.ctx, env.db, types.RoleTeacher, "carol")

	ab, err := svc.CreateDialog(env.dbc, alice.ID, views.CreateDialogInput{Participants: []uint{bob.ID}})
	if err != nil {
		t.Fatalf("CreateDialog(ab): %v", err)
	}
	ac, err := svc.CreateDialog(env.dbc, alice.ID, views.CreateDialogInput{Participants: []uint{carol.ID}})
	if err != nil {
		t.Fatalf("CreateDialog(ac): %v", err)
	}

	_, err = svc.UploadAttachment(env.dbc, ab.ID, carol.ID, "notes.txt", []byte("hi"))
	wantCode(t, "outsider uploads", err, apierr.CodeForbidden)
	_, err = svc.UploadAttachment(env.dbc, ab.ID, alice.ID, "empty.txt", nil)
	wantCode(t, "empty upload", err, apierr.CodeValidation)

	att, err := svc.UploadAttachment(env.dbc, ab.ID, alice.ID, "Notes.TXT", []byte("homework"))
	if err != nil {
		t.Fatalf("UploadAttachment: %v", err)
	}
	if att.ID == 0 || att.View.File == nil {
		t.Fatalf("attachment view: got=%+v", att)
	}
	foreign, err := svc.UploadAttachment(env.dbc, ac.ID, alice.ID, "other.pdf", []byte("pdf"))
	if err != nil {
		t.Fatalf("UploadAttachment(ac): %v", err)
	}

	_, err = svc.SendMessage(env.dbc, views.MessageInput{Dialog: ab.ID, FromUser: alice.ID, Attachment: &foreign.ID})
	wantCode(t, "attachment from another dialog", err, apierr.CodeValidation)
	_, err = svc.SendMessage(env.dbc, views.MessageInput{Dialog: ab.ID, FromUser: carol.ID, Text: "hey"})
	wantCode(t, "outsider sends", err, apierr.CodeForbidden)
	_, err = svc.SendMessage(env.dbc, views.MessageInput{Dialog: ab.ID, FromUser: alice.ID})
	wantCode(t, "empty message", err, apierr.CodeValidation)

	sent, err := svc.SendMessage(env.dbc, views.MessageInput{Dialog: ab.ID, FromUser: alice.ID, Text: "see attached", Attachment: &att.ID})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if sent.ID == 0 || sent.IsRead {
		t.Fatalf("sent message: got=%+v", sent)
	}
	if _, err := svc.SendMessage(env.dbc, views.MessageInput{Dialog: ab.ID, FromUser: bob.ID, Text: "thanks"}); err != nil {
		t.Fatalf("SendMessage(bob): %v", err)
	}

	toBob := env.pub.on(realtime.ProfileChannel(bob.ID))
	if len(toBob) != 1 || toBob[0].Event != realtime.SSEEventMessageCreated {
		t.Fatalf("bob notifications: got=%+v", toBob)
	}
	ev, ok := toBob[0].Data.(messageCreatedEvent)
	if !ok || ev.Dialog != ab.ID || ev.Title != "First alice Last alice" || ev.Message.ID != sent.ID {
		t.Fatalf("message event for bob: got=%+v", toBob[0].Data)
	}
	if n := len(env.pub.on(realtime.ProfileChannel(alice.ID))); n != 1 {
		t.Fatalf("alice notifications: want=1 got=%d", n)
	}

	msgs, err := svc.ListMessages(env.dbc, ab.ID, bob.ID, nil, 0)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Text != "see attached" || msgs[0].Attachment == nil || msgs[1].FromUser.ID != bob.ID {
		t.Fatalf("ListMessages: got=%+v", msgs)
	}
	_, err = svc.ListMessages(env.dbc, ab.ID, carol.ID, nil, 0)
	wantCode(t, "outsider lists messages", err, apierr.CodeForbidden)

	n, err := svc.MarkRead(env.dbc, ab.ID, bob.ID)
	if err != nil || n != 1 {
		t.Fatalf("MarkRead: want=1 got=%d err=%v", n, err)
	}
	if n, _ := svc.MarkRead(env.dbc, ab.ID, bob.ID); n != 0 {
		t.Fatalf("MarkRead twice: want=0 got=%d", n)
	}
	toAlice := env.pub.on(realtime.ProfileChannel(alice.ID))
	if len(toAlice) != 2 || toAlice[1].Event != realtime.SSEEventDialogRead {
		t.Fatalf("alice read notification: got=%+v", toAlice)
	}
	if rd, ok := toAlice[1].Data.(dialogReadEvent); !ok || rd.Reader != bob.ID || rd.Count != 1 {
		t.Fatalf("read payload: got=%+v", toAlice[1].Data)
	}

	wantCode(t, "outsider deletes", svc.DeleteDialog(env.dbc, ab.ID, carol.ID), apierr.CodeForbidden)
	if err := svc.DeleteDialog(env.dbc, ab.ID, bob.ID); err != nil {
		t.Fatalf("DeleteDialog: %v", err)
	}
	if env.bucket.Len() != 1 {
		t.Fatalf("bucket after delete: want only the other dialog's file got=%d", env.bucket.Len())
	}
	_, err = svc.GetDialog(env.dbc, ab.ID, alice.ID)
	wantCode(t, "deleted dialog", err, apierr.CodeNotFound)
	left, _ := svc.ListDialogs(env.dbc, alice.ID)
	if len(left) != 1 || left[0].ID != ac.ID {
		t.Fatalf("ListDialogs after delete: got=%+v", left)
	}
}
