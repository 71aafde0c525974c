package messaging

import (
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/platform/logger"
)

const DefaultPageSize = 50

type MessagePage struct {
	Before *time.Time
	Limit  int
}

type MessageRepo interface {
	Create(dbc dbctx.Context, rows []*types.Message) ([]*types.Message, error)
	// ListByDialog returns up to Limit messages older than Before, oldest first.
	ListByDialog(dbc dbctx.Context, dialogID uint, page MessagePage) ([]*types.Message, error)
	// MarkRead flags every unread message in the dialog not sent by readerID. Returns rows changed.
	MarkRead(dbc dbctx.Context, dialogID, readerID uint) (int64, error)
	DeleteByDialogIDs(dbc dbctx.Context, dialogIDs []uint) error
	DeleteBySenderIDs(dbc dbctx.Context, profileIDs []uint) error
}

type messageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, baseLog *logger.Logger) MessageRepo {
	return &messageRepo{db: db, log: baseLog.With("repo", "MessageRepo")}
}

func (r *messageRepo) Create(dbc dbctx.Context, rows []*types.Message) ([]*types.Message, error) {
	if len(rows) == 0 {
		return []*types.Message{}, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *messageRepo) ListByDialog(dbc dbctx.Context, dialogID uint, page MessagePage) ([]*types.Message, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	limit := page.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	q := txx.WithContext(dbc.Ctx).Where("dialog_id = ?", dialogID)
	if page.Before != nil {
		q = q.Where("date_and_time < ?", page.Before.UTC())
	}
	out := []*types.Message{}
	if err := q.Order("date_and_time DESC, id DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r *messageRepo) MarkRead(dbc dbctx.Context, dialogID, readerID uint) (int64, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	res := txx.WithContext(dbc.Ctx).
		Model(&types.Message{}).
		Where("dialog_id = ? AND from_user_id <> ? AND is_read = ?", dialogID, readerID, false).
		UpdateColumn("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *messageRepo) DeleteByDialogIDs(dbc dbctx.Context, dialogIDs []uint) error {
	if len(dialogIDs) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).Where("dialog_id IN ?", dialogIDs).Delete(&types.Message{}).Error
}

func (r *messageRepo) DeleteBySenderIDs(dbc dbctx.Context, profileIDs []uint) error {
	if len(profileIDs) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).Where("from_user_id IN ?", profileIDs).Delete(&types.Message{}).Error
}

type AttachmentRepo interface {
	Create(dbc dbctx.Context, rows []*types.DialogAttachment) ([]*types.DialogAttachment, error)
	GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.DialogAttachment, error)
	ListByDialogIDs(dbc dbctx.Context, dialogIDs []uint) ([]*types.DialogAttachment, error)
	DeleteByDialogIDs(dbc dbctx.Context, dialogIDs []uint) error
}

type attachmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAttachmentRepo(db *gorm.DB, baseLog *logger.Logger) AttachmentRepo {
	return &attachmentRepo{db: db, log: baseLog.With("repo", "AttachmentRepo")}
}

func (r *attachmentRepo) Create(dbc dbctx.Context, rows []*types.DialogAttachment) ([]*types.DialogAttachment, error) {
	if len(rows) == 0 {
		return []*types.DialogAttachment{}, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *attachmentRepo) GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.DialogAttachment, error) {
	out := []*types.DialogAttachment{}
	if len(ids) == 0 {
		return out, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *attachmentRepo) ListByDialogIDs(dbc dbctx.Context, dialogIDs []uint) ([]*types.DialogAttachment, error) {
	out := []*types.DialogAttachment{}
	if len(dialogIDs) == 0 {
		return out, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Where("dialog_id IN ?", dialogIDs).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *attachmentRepo) DeleteByDialogIDs(dbc dbctx.Context, dialogIDs []uint) error {
	if len(dialogIDs) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).Where("dialog_id IN ?", dialogIDs).Delete(&types.DialogAttachment{}).Error
}
