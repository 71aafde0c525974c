package views

import (
	"time"

	types "github.com/yungbote/scool-backend/internal/domain"
)

type DialogRecord struct {
	Dialog       *types.Dialog
	Participants []ProfileRecord
}

type DialogView struct {
	ID           uint          `json:"id"`
	Participants []ProfileView `json:"participants"`
	IsGroup      bool          `json:"is_group"`
	Name         string        `json:"name"`
	Image        *string       `json:"image"`
}

func NewDialogView(rec DialogRecord, urls URLResolver) (DialogView, error) {
	if rec.Dialog == nil {
		return DialogView{}, missing("dialog", 0, "row")
	}
	participants, err := NewProfileViews(rec.Participants, urls)
	if err != nil {
		return DialogView{}, err
	}
	return DialogView{
		ID:           rec.Dialog.ID,
		Participants: participants,
		IsGroup:      rec.Dialog.IsGroup,
		Name:         rec.Dialog.Name,
		Image:        resolveURL(urls, rec.Dialog.ImageKey),
	}, nil
}

func NewDialogViews(recs []DialogRecord, urls URLResolver) ([]DialogView, error) {
	out := make([]DialogView, 0, len(recs))
	for _, rec := range recs {
		v, err := NewDialogView(rec, urls)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// DialogTitle is the name shown to viewer: the other side of a 1:1 dialog,
// or the dialog name for group dialogs.
func DialogTitle(rec DialogRecord, viewerID uint) string {
	if rec.Dialog == nil {
		return ""
	}
	if rec.Dialog.IsGroup {
		return rec.Dialog.Name
	}
	for _, p := range rec.Participants {
		if p.Profile == nil || p.User == nil || p.Profile.ID == viewerID {
			continue
		}
		name := p.User.FirstName
		if p.User.LastName != "" {
			name += " " + p.User.LastName
		}
		if name == "" {
			name = p.User.Username
		}
		return name
	}
	return rec.Dialog.Name
}

type AttachmentRecord struct {
	Attachment *types.DialogAttachment
	Dialog     *DialogRecord
}

type DialogAttachmentView struct {
	Dialog DialogView `json:"dialog"`
	File   *string    `json:"file"`
}

func NewDialogAttachmentView(rec AttachmentRecord, urls URLResolver) (DialogAttachmentView, error) {
	if rec.Attachment == nil {
		return DialogAttachmentView{}, missing("attachment", 0, "row")
	}
	if rec.Dialog == nil {
		return DialogAttachmentView{}, missing("attachment", rec.Attachment.ID, "dialog")
	}
	d, err := NewDialogView(*rec.Dialog, urls)
	if err != nil {
		return DialogAttachmentView{}, err
	}
	return DialogAttachmentView{
		Dialog: d,
		File:   resolveURL(urls, rec.Attachment.FileKey),
	}, nil
}

type MessageRecordView struct {
	ID          uint      `json:"id"`
	Dialog      uint      `json:"dialog"`
	FromUser    uint      `json:"from_user"`
	Attachment  *uint     `json:"attachment"`
	Text        string    `json:"text"`
	DateAndTime time.Time `json:"date_and_time"`
	IsRead      bool      `json:"is_read"`
}

func NewMessageRecordView(m *types.Message) MessageRecordView {
	return MessageRecordView{
		ID:          m.ID,
		Dialog:      m.DialogID,
		FromUser:    m.FromUserID,
		Attachment:  m.AttachmentID,
		Text:        m.Text,
		DateAndTime: m.DateAndTime.UTC(),
		IsRead:      m.IsRead,
	}
}

type MessageRecord struct {
	Message    *types.Message
	From       *ProfileRecord
	Attachment *AttachmentRecord
}

type MessageView struct {
	ID          uint                  `json:"id"`
	FromUser    ProfileView           `json:"from_user"`
	Attachment  *DialogAttachmentView `json:"attachment"`
	Text        string                `json:"text"`
	DateAndTime time.Time             `json:"date_and_time"`
	IsRead      bool                  `json:"is_read"`
}

func NewMessageView(rec MessageRecord, urls URLResolver) (MessageView, error) {
	if rec.Message == nil {
		return MessageView{}, missing("message", 0, "row")
	}
	m := rec.Message
	if rec.From == nil {
		return MessageView{}, missing("message", m.ID, "sender")
	}
	if m.AttachmentID != nil && rec.Attachment == nil {
		return MessageView{}, missing("message", m.ID, "attachment")
	}
	from, err := NewProfileView(*rec.From, urls)
	if err != nil {
		return MessageView{}, err
	}
	v := MessageView{
		ID:          m.ID,
		FromUser:    from,
		Text:        m.Text,
		DateAndTime: m.DateAndTime.UTC(),
		IsRead:      m.IsRead,
	}
	if rec.Attachment != nil {
		a, err := NewDialogAttachmentView(*rec.Attachment, urls)
		if err != nil {
			return MessageView{}, err
		}
		v.Attachment = &a
	}
	return v, nil
}

func NewMessageViews(recs []MessageRecord, urls URLResolver) ([]MessageView, error) {
	out := make([]MessageView, 0, len(recs))
	for _, rec := range recs {
		v, err := NewMessageView(rec, urls)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
