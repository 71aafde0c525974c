package services

import (
	"gorm.io/gorm"

	"github.com/yungbote/scool-backend/internal/data/repos"
	"github.com/yungbote/scool-backend/internal/platform/apierr"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/platform/logger"
	"github.com/yungbote/scool-backend/internal/realtime"
	"github.com/yungbote/scool-backend/internal/views"
)

type SocialService interface {
	// SendFriendRequest accepts the reverse request instead when one is pending.
	SendFriendRequest(dbc dbctx.Context, fromID, toID uint) error
	AcceptFriendRequest(dbc dbctx.Context, toID, fromID uint) error
	DeclineFriendRequest(dbc dbctx.Context, toID, fromID uint) error
	RemoveFriend(dbc dbctx.Context, profileID, friendID uint) error

	ListFriends(dbc dbctx.Context, profileID uint) ([]views.UserView, error)
	ListIncoming(dbc dbctx.Context, profileID uint) ([]views.UserView, error)
	ListOutgoing(dbc dbctx.Context, profileID uint) ([]views.UserView, error)
	ListFollowers(dbc dbctx.Context, profileID uint) ([]views.UserView, error)
}

type socialService struct {
	db     *gorm.DB
	log    *logger.Logger
	repos  repos.Set
	loader *Loader
	urls   views.URLResolver
	pub    Publisher
}

func NewSocialService(db *gorm.DB, log *logger.Logger, r repos.Set, loader *Loader, urls views.URLResolver, pub Publisher) SocialService {
	return &socialService{
		db:     db,
		log:    log.With("service", "SocialService"),
		repos:  r,
		loader: loader,
		urls:   urls,
		pub:    pub,
	}
}

type friendRequestEvent struct {
	From     uint  `json:"from"`
	To       uint  `json:"to"`
	Accepted *bool `json:"accepted,omitempty"`
}

func (s *socialService) SendFriendRequest(dbc dbctx.Context, fromID, toID uint) error {
	if fromID == toID {
		return apierr.Validation("to: cannot send a friend request to yourself")
	}
	accepted := false
	err := inTx(s.db, dbc, func(dbc dbctx.Context) error {
		if _, err := s.loader.Profile(dbc, toID); err != nil {
			return err
		}
		friends, err := s.repos.Friend.AreFriends(dbc, fromID, toID)
		if err != nil {
			return err
		}
		if friends {
			return apierr.Conflict("profiles %d and %d are already friends", fromID, toID)
		}
		reverse, err := s.repos.FriendRequest.Get(dbc, toID, fromID)
		if err != nil {
			return err
		}
		if reverse != nil {
			accepted = true
			return s.accept(dbc, fromID, toID)
		}
		existing, err := s.repos.FriendRequest.Get(dbc, fromID, toID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apierr.Conflict("friend request already sent")
		}
		_, err = s.repos.FriendRequest.Create(dbc, fromID, toID)
		return err
	})
	if err != nil {
		return apierr.Map("send friend request", err)
	}
	if accepted {
		yes := true
		notify(dbc.Ctx, s.pub, s.log, []uint{toID}, realtime.SSEEventFriendRequestAnswer, friendRequestEvent{From: toID, To: fromID, Accepted: &yes})
		return nil
	}
	notify(dbc.Ctx, s.pub, s.log, []uint{toID}, realtime.SSEEventFriendRequest, friendRequestEvent{From: fromID, To: toID})
	return nil
}

func (s *socialService) AcceptFriendRequest(dbc dbctx.Context, toID, fromID uint) error {
	err := inTx(s.db, dbc, func(dbc dbctx.Context) error {
		return s.accept(dbc, toID, fromID)
	})
	if err != nil {
		return apierr.Map("accept friend request", err)
	}
	yes := true
	notify(dbc.Ctx, s.pub, s.log, []uint{fromID}, realtime.SSEEventFriendRequestAnswer, friendRequestEvent{From: fromID, To: toID, Accepted: &yes})
	return nil
}

// accept consumes the request fromID -> toID and makes the pair friends.
func (s *socialService) accept(dbc dbctx.Context, toID, fromID uint) error {
	n, err := s.repos.FriendRequest.Delete(dbc, fromID, toID)
	if err != nil {
		return err
	}
	if n == 0 {
		return apierr.NotFound("no friend request from %d to %d", fromID, toID)
	}
	if err := s.repos.Friend.AddPair(dbc, toID, fromID); err != nil {
		return err
	}
	if err := s.repos.Follower.Remove(dbc, toID, fromID); err != nil {
		return err
	}
	return s.repos.Follower.Remove(dbc, fromID, toID)
}

// DeclineFriendRequest drops the request and keeps the requester as a follower.
func (s *socialService) DeclineFriendRequest(dbc dbctx.Context, toID, fromID uint) error {
	err := inTx(s.db, dbc, func(dbc dbctx.Context) error {
		n, err := s.repos.FriendRequest.Delete(dbc, fromID, toID)
		if err != nil {
			return err
		}
		if n == 0 {
			return apierr.NotFound("no friend request from %d to %d", fromID, toID)
		}
		return s.repos.Follower.Add(dbc, toID, fromID)
	})
	if err != nil {
		return apierr.Map("decline friend request", err)
	}
	no := false
	notify(dbc.Ctx, s.pub, s.log, []uint{fromID}, realtime.SSEEventFriendRequestAnswer, friendRequestEvent{From: fromID, To: toID, Accepted: &no})
	return nil
}

// RemoveFriend ends the friendship; the removed friend keeps following profileID.
func (s *socialService) RemoveFriend(dbc dbctx.Context, profileID, friendID uint) error {
	err := inTx(s.db, dbc, func(dbc dbctx.Context) error {
		n, err := s.repos.Friend.RemovePair(dbc, profileID, friendID)
		if err != nil {
			return err
		}
		if n == 0 {
			return apierr.NotFound("profiles %d and %d are not friends", profileID, friendID)
		}
		return s.repos.Follower.Add(dbc, profileID, friendID)
	})
	return apierr.Map("remove friend", err)
}

func (s *socialService) ListFriends(dbc dbctx.Context, profileID uint) ([]views.UserView, error) {
	return s.list(dbc, profileID, s.repos.Friend.ListFriendIDs)
}

func (s *socialService) ListIncoming(dbc dbctx.Context, profileID uint) ([]views.UserView, error) {
	return s.list(dbc, profileID, s.repos.FriendRequest.ListIncomingIDs)
}

func (s *socialService) ListOutgoing(dbc dbctx.Context, profileID uint) ([]views.UserView, error) {
	return s.list(dbc, profileID, s.repos.FriendRequest.ListOutgoingIDs)
}

func (s *socialService) ListFollowers(dbc dbctx.Context, profileID uint) ([]views.UserView, error) {
	return s.list(dbc, profileID, s.repos.Follower.ListFollowerIDs)
}

func (s *socialService) list(dbc dbctx.Context, profileID uint, ids func(dbctx.Context, uint) ([]uint, error)) ([]views.UserView, error) {
	if _, err := s.loader.Profile(dbc, profileID); err != nil {
		return nil, apierr.Map("load profile", err)
	}
	got, err := ids(dbc, profileID)
	if err != nil {
		return nil, apierr.Map("list relation", err)
	}
	recs, err := s.loader.Profiles(dbc, got)
	if err != nil {
		return nil, apierr.Map("load profiles", err)
	}
	out, err := views.NewUserViews(recs, s.urls)
	return render("render users", out, err)
}
