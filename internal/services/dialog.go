package services

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/scool-backend/internal/data/repos"
	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/platform/apierr"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/platform/logger"
	"github.com/yungbote/scool-backend/internal/realtime"
	"github.com/yungbote/scool-backend/internal/views"
)

const (
	DefaultMessagePageSize = 50
	MaxMessagePageSize     = 200
)

type DialogService interface {
	// CreateDialog adds creatorID to the participants. Two participants make a
	// one-to-one dialog, reused when it already exists; more make a named group.
	CreateDialog(dbc dbctx.Context, creatorID uint, in views.CreateDialogInput) (views.DialogView, error)
	ListDialogs(dbc dbctx.Context, profileID uint) ([]views.DialogView, error)
	GetDialog(dbc dbctx.Context, dialogID, viewerID uint) (views.DialogView, error)
	UploadAttachment(dbc dbctx.Context, dialogID, senderID uint, filename string, raw []byte) (Created[views.DialogAttachmentView], error)
	SendMessage(dbc dbctx.Context, in views.MessageInput) (views.MessageRecordView, error)
	ListMessages(dbc dbctx.Context, dialogID, viewerID uint, before *time.Time, limit int) ([]views.MessageView, error)
	MarkRead(dbc dbctx.Context, dialogID, viewerID uint) (int64, error)
	DeleteDialog(dbc dbctx.Context, dialogID, viewerID uint) error
}

type dialogService struct {
	db     *gorm.DB
	log    *logger.Logger
	repos  repos.Set
	loader *Loader
	bucket ObjectStore
	pub    Publisher
}

func NewDialogService(db *gorm.DB, log *logger.Logger, r repos.Set, loader *Loader, bucket ObjectStore, pub Publisher) DialogService {
	return &dialogService{
		db:     db,
		log:    log.With("service", "DialogService"),
		repos:  r,
		loader: loader,
		bucket: bucket,
		pub:    pub,
	}
}

type messageCreatedEvent struct {
	Dialog  uint                    `json:"dialog"`
	Title   string                  `json:"title"`
	Message views.MessageRecordView `json:"message"`
}

type dialogReadEvent struct {
	Dialog uint  `json:"dialog"`
	Reader uint  `json:"reader"`
	Count  int64 `json:"count"`
}

func (s *dialogService) CreateDialog(dbc dbctx.Context, creatorID uint, in views.CreateDialogInput) (views.DialogView, error) {
	if err := views.Validate(in); err != nil {
		return views.DialogView{}, err
	}
	members := uniqueIDs(append([]uint{creatorID}, in.Participants...))
	if len(members) < 2 {
		return views.DialogView{}, apierr.Validation("participants: a dialog needs someone besides the creator")
	}
	name := strings.TrimSpace(in.Name)
	isGroup := len(members) > 2
	if isGroup && name == "" {
		return views.DialogView{}, apierr.Validation("name: required for a group dialog")
	}
	found, err := s.repos.Profile.GetByIDs(dbc, members)
	if err != nil {
		return views.DialogView{}, apierr.Map("load participants", err)
	}
	if len(found) != len(members) {
		return views.DialogView{}, apierr.NotFound("participants: some profiles do not exist")
	}

	var dialog *types.Dialog
	err = inTx(s.db, dbc, func(dbc dbctx.Context) error {
		if !isGroup {
			existing, err := s.repos.Dialog.FindDirect(dbc, members[0], members[1])
			if err != nil {
				return err
			}
			if existing != nil {
				dialog = existing
				return nil
			}
		}
		d := &types.Dialog{IsGroup: isGroup}
		if isGroup {
			d.Name = name
		}
		if _, err := s.repos.Dialog.Create(dbc, []*types.Dialog{d}); err != nil {
			return err
		}
		if err := s.repos.Participant.Add(dbc, d.ID, members); err != nil {
			return err
		}
		dialog = d
		return nil
	})
	if err != nil {
		return views.DialogView{}, apierr.Map("create dialog", err)
	}
	return s.renderDialog(dbc, dialog)
}

func (s *dialogService) ListDialogs(dbc dbctx.Context, profileID uint) ([]views.DialogView, error) {
	rows, err := s.repos.Dialog.ListByParticipant(dbc, profileID)
	if err != nil {
		return nil, apierr.Map("list dialogs", err)
	}
	recs, err := s.loader.Dialogs(dbc, rows)
	if err != nil {
		return nil, apierr.Map("load dialogs", err)
	}
	out, err := views.NewDialogViews(recs, s.bucket)
	return render("render dialogs", out, err)
}

func (s *dialogService) GetDialog(dbc dbctx.Context, dialogID, viewerID uint) (views.DialogView, error) {
	d, err := s.participantDialog(dbc, dialogID, viewerID)
	if err != nil {
		return views.DialogView{}, err
	}
	return s.renderDialog(dbc, d)
}

func (s *dialogService) UploadAttachment(dbc dbctx.Context, dialogID, senderID uint, filename string, raw []byte) (Created[views.DialogAttachmentView], error) {
	if _, err := s.participantDialog(dbc, dialogID, senderID); err != nil {
		return Created[views.DialogAttachmentView]{}, err
	}
	if len(raw) == 0 {
		return Created[views.DialogAttachmentView]{}, apierr.Validation("file: empty upload")
	}
	ext := strings.ToLower(path.Ext(path.Base(filename)))
	key := fmt.Sprintf("dialog/%d/%s%s", dialogID, uuid.NewString(), ext)
	if err := s.bucket.UploadFile(dbc, key, bytes.NewReader(raw)); err != nil {
		return Created[views.DialogAttachmentView]{}, fmt.Errorf("upload attachment: %w", err)
	}
	att := &types.DialogAttachment{DialogID: dialogID, FileKey: key}
	if _, err := s.repos.Attachment.Create(dbc, []*types.DialogAttachment{att}); err != nil {
		deleteObjects(dbc.Ctx, s.bucket, s.log, []string{key})
		return Created[views.DialogAttachmentView]{}, apierr.Map("create attachment", err)
	}
	recs, err := s.loader.Attachments(dbc, []*types.DialogAttachment{att})
	if err != nil {
		return Created[views.DialogAttachmentView]{}, apierr.Map("load attachment", err)
	}
	v, err := views.NewDialogAttachmentView(recs[0], s.bucket)
	if v, err = render("render attachment", v, err); err != nil {
		return Created[views.DialogAttachmentView]{}, err
	}
	return Created[views.DialogAttachmentView]{ID: att.ID, View: v}, nil
}

// SendMessage stores the message and notifies every other participant.
func (s *dialogService) SendMessage(dbc dbctx.Context, in views.MessageInput) (views.MessageRecordView, error) {
	if err := views.Validate(in); err != nil {
		return views.MessageRecordView{}, err
	}
	d, err := s.participantDialog(dbc, in.Dialog, in.FromUser)
	if err != nil {
		return views.MessageRecordView{}, err
	}
	if in.Attachment != nil {
		atts, err := s.repos.Attachment.GetByIDs(dbc, []uint{*in.Attachment})
		if err != nil {
			return views.MessageRecordView{}, apierr.Map("load attachment", err)
		}
		if len(atts) == 0 {
			return views.MessageRecordView{}, apierr.NotFound("attachment %d not found", *in.Attachment)
		}
		if atts[0].DialogID != d.ID {
			return views.MessageRecordView{}, apierr.Validation("attachment: %d belongs to another dialog", *in.Attachment)
		}
	}

	now := time.Now().UTC()
	msg := &types.Message{
		DialogID:     d.ID,
		FromUserID:   in.FromUser,
		AttachmentID: in.Attachment,
		Text:         in.Text,
		DateAndTime:  now,
	}
	err = inTx(s.db, dbc, func(dbc dbctx.Context) error {
		if _, err := s.repos.Message.Create(dbc, []*types.Message{msg}); err != nil {
			return err
		}
		return s.repos.Dialog.Touch(dbc, d.ID, now)
	})
	if err != nil {
		return views.MessageRecordView{}, apierr.Map("send message", err)
	}
	out := views.NewMessageRecordView(msg)

	recs, err := s.loader.Dialogs(dbc, []*types.Dialog{d})
	if err != nil {
		s.log.Warn("Could not load dialog for notification", "dialog_id", d.ID, "error", err)
		return out, nil
	}
	for _, p := range recs[0].Participants {
		if p.Profile.ID == in.FromUser {
			continue
		}
		notify(dbc.Ctx, s.pub, s.log, []uint{p.Profile.ID}, realtime.SSEEventMessageCreated, messageCreatedEvent{
			Dialog:  d.ID,
			Title:   views.DialogTitle(recs[0], p.Profile.ID),
			Message: out,
		})
	}
	return out, nil
}

func (s *dialogService) ListMessages(dbc dbctx.Context, dialogID, viewerID uint, before *time.Time, limit int) ([]views.MessageView, error) {
	if _, err := s.participantDialog(dbc, dialogID, viewerID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultMessagePageSize
	}
	if limit > MaxMessagePageSize {
		limit = MaxMessagePageSize
	}
	rows, err := s.repos.Message.ListByDialog(dbc, dialogID, repos.MessagePage{Before: before, Limit: limit})
	if err != nil {
		return nil, apierr.Map("list messages", err)
	}
	recs, err := s.loader.Messages(dbc, rows)
	if err != nil {
		return nil, apierr.Map("load messages", err)
	}
	out, err := views.NewMessageViews(recs, s.bucket)
	return render("render messages", out, err)
}

// MarkRead flags the messages others sent as read and returns how many changed.
func (s *dialogService) MarkRead(dbc dbctx.Context, dialogID, viewerID uint) (int64, error) {
	d, err := s.participantDialog(dbc, dialogID, viewerID)
	if err != nil {
		return 0, err
	}
	n, err := s.repos.Message.MarkRead(dbc, dialogID, viewerID)
	if err != nil {
		return 0, apierr.Map("mark read", err)
	}
	if n == 0 {
		return 0, nil
	}
	parts, err := s.repos.Participant.ListByDialogIDs(dbc, []uint{d.ID})
	if err != nil {
		s.log.Warn("Could not load participants for notification", "dialog_id", d.ID, "error", err)
		return n, nil
	}
	others := make([]uint, 0, len(parts))
	for _, p := range parts {
		if p.ProfileID != viewerID {
			others = append(others, p.ProfileID)
		}
	}
	notify(dbc.Ctx, s.pub, s.log, others, realtime.SSEEventDialogRead, dialogReadEvent{Dialog: d.ID, Reader: viewerID, Count: n})
	return n, nil
}

func (s *dialogService) DeleteDialog(dbc dbctx.Context, dialogID, viewerID uint) error {
	if _, err := s.participantDialog(dbc, dialogID, viewerID); err != nil {
		return err
	}
	var keys []string
	err := inTx(s.db, dbc, func(dbc dbctx.Context) error {
		ids := []uint{dialogID}
		atts, err := s.repos.Attachment.ListByDialogIDs(dbc, ids)
		if err != nil {
			return err
		}
		for _, a := range atts {
			keys = append(keys, a.FileKey)
		}
		if err := s.repos.Message.DeleteByDialogIDs(dbc, ids); err != nil {
			return err
		}
		if err := s.repos.Attachment.DeleteByDialogIDs(dbc, ids); err != nil {
			return err
		}
		if err := s.repos.Participant.DeleteByDialogIDs(dbc, ids); err != nil {
			return err
		}
		return s.repos.Dialog.DeleteByIDs(dbc, ids)
	})
	if err != nil {
		return apierr.Map("delete dialog", err)
	}
	deleteObjects(dbc.Ctx, s.bucket, s.log, keys)
	s.log.Info("Deleted dialog", "dialog_id", dialogID, "attachments", len(keys))
	return nil
}

// participantDialog loads the dialog and fails with forbidden unless
// profileID takes part in it.
func (s *dialogService) participantDialog(dbc dbctx.Context, dialogID, profileID uint) (*types.Dialog, error) {
	rows, err := s.repos.Dialog.GetByIDs(dbc, []uint{dialogID})
	if err != nil {
		return nil, apierr.Map("load dialog", err)
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound("dialog %d not found", dialogID)
	}
	ok, err := s.repos.Participant.IsParticipant(dbc, dialogID, profileID)
	if err != nil {
		return nil, apierr.Map("check participant", err)
	}
	if !ok {
		return nil, apierr.Forbidden("profile %d is not a participant of dialog %d", profileID, dialogID)
	}
	return rows[0], nil
}

func (s *dialogService) renderDialog(dbc dbctx.Context, d *types.Dialog) (views.DialogView, error) {
	recs, err := s.loader.Dialogs(dbc, []*types.Dialog{d})
	if err != nil {
		return views.DialogView{}, apierr.Map("load dialog", err)
	}
	v, err := views.NewDialogView(recs[0], s.bucket)
	return render("render dialog", v, err)
}
