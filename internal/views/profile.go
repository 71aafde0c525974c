package views

import (
	types "github.com/yungbote/scool-backend/internal/domain"
)

// ProfileRecord is a profile with its user and, when set, its avatar photo.
type ProfileRecord struct {
	Profile *types.Profile
	User    *types.User
	Avatar  *types.Photo
}

func (r ProfileRecord) check() error {
	if r.Profile == nil {
		return missing("profile", 0, "row")
	}
	if r.User == nil {
		return missing("profile", r.Profile.ID, "user")
	}
	if r.Profile.AvatarID != nil && r.Avatar == nil {
		return missing("profile", r.Profile.ID, "avatar")
	}
	return nil
}

// Relations are the social id lists of one profile.
type Relations struct {
	Friends     []uint
	RequestsIn  []uint
	RequestsOut []uint
	Followers   []uint
}

type UserView struct {
	ProfileID      uint    `json:"profile_id"`
	Username       string  `json:"username"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email"`
	Gender         string  `json:"gender"`
	DateOfBirthday *string `json:"date_of_birthday"`
	Avatar         *string `json:"avatar"`
}

func NewUserView(rec ProfileRecord, urls URLResolver) (UserView, error) {
	if err := rec.check(); err != nil {
		return UserView{}, err
	}
	v := UserView{
		ProfileID:      rec.Profile.ID,
		Username:       rec.User.Username,
		FirstName:      rec.User.FirstName,
		LastName:       rec.User.LastName,
		Email:          rec.User.Email,
		Gender:         string(rec.Profile.Gender),
		DateOfBirthday: formatDatePtr(rec.Profile.DateOfBirthday),
	}
	if rec.Avatar != nil {
		v.Avatar = resolveURL(urls, rec.Avatar.ImageKey)
	}
	return v, nil
}

func NewUserViews(recs []ProfileRecord, urls URLResolver) ([]UserView, error) {
	out := make([]UserView, 0, len(recs))
	for _, rec := range recs {
		v, err := NewUserView(rec, urls)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type ProfileBaseView struct {
	ID               uint    `json:"id"`
	User             uint    `json:"user"`
	Username         string  `json:"username"`
	FirstName        string  `json:"first_name"`
	LastName         string  `json:"last_name"`
	Email            string  `json:"email"`
	Gender           string  `json:"gender"`
	DateOfBirthday   *string `json:"date_of_birthday"`
	MiddleName       string  `json:"middle_name"`
	Phone            string  `json:"phone"`
	Avatar           *uint   `json:"avatar"`
	UserGroup        string  `json:"user_group"`
	Friends          []uint  `json:"friends"`
	FriendRequestIn  []uint  `json:"friend_request_in"`
	FriendRequestOut []uint  `json:"friend_request_out"`
	Followers        []uint  `json:"followers"`
}

// NewProfileBaseView needs no avatar photo; the avatar renders as its id.
func NewProfileBaseView(rec ProfileRecord, rel Relations) (ProfileBaseView, error) {
	if rec.Profile == nil {
		return ProfileBaseView{}, missing("profile", 0, "row")
	}
	if rec.User == nil {
		return ProfileBaseView{}, missing("profile", rec.Profile.ID, "user")
	}
	p := rec.Profile
	return ProfileBaseView{
		ID:               p.ID,
		User:             rec.User.ID,
		Username:         rec.User.Username,
		FirstName:        rec.User.FirstName,
		LastName:         rec.User.LastName,
		Email:            rec.User.Email,
		Gender:           string(p.Gender),
		DateOfBirthday:   formatDatePtr(p.DateOfBirthday),
		MiddleName:       p.MiddleName,
		Phone:            p.Phone,
		Avatar:           p.AvatarID,
		UserGroup:        p.Role.GroupLabel(),
		Friends:          ids(rel.Friends),
		FriendRequestIn:  ids(rel.RequestsIn),
		FriendRequestOut: ids(rel.RequestsOut),
		Followers:        ids(rel.Followers),
	}, nil
}

type AvatarView struct {
	Image *string `json:"image"`
}

func NewAvatarView(photo *types.Photo, urls URLResolver) *AvatarView {
	if photo == nil {
		return nil
	}
	return &AvatarView{Image: resolveURL(urls, photo.ImageKey)}
}

type ProfileView struct {
	ID        uint        `json:"id"`
	Username  string      `json:"username"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Gender    string      `json:"gender"`
	Avatar    *AvatarView `json:"avatar"`
	UserGroup string      `json:"user_group"`
}

func NewProfileView(rec ProfileRecord, urls URLResolver) (ProfileView, error) {
	if err := rec.check(); err != nil {
		return ProfileView{}, err
	}
	return ProfileView{
		ID:        rec.Profile.ID,
		Username:  rec.User.Username,
		FirstName: rec.User.FirstName,
		LastName:  rec.User.LastName,
		Gender:    string(rec.Profile.Gender),
		Avatar:    NewAvatarView(rec.Avatar, urls),
		UserGroup: rec.Profile.Role.GroupLabel(),
	}, nil
}

func NewProfileViews(recs []ProfileRecord, urls URLResolver) ([]ProfileView, error) {
	out := make([]ProfileView, 0, len(recs))
	for _, rec := range recs {
		v, err := NewProfileView(rec, urls)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type EducationalManagerView struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Gender     string `json:"gender"`
	Phone      string `json:"phone"`
	UserGroup  string `json:"user_group"`
}

func NewEducationalManagerView(rec ProfileRecord) (EducationalManagerView, error) {
	if rec.Profile == nil {
		return EducationalManagerView{}, missing("manager", 0, "profile")
	}
	if rec.User == nil {
		return EducationalManagerView{}, missing("manager", rec.Profile.ID, "user")
	}
	p := rec.Profile
	return EducationalManagerView{
		ID:         p.ID,
		Username:   rec.User.Username,
		FirstName:  rec.User.FirstName,
		MiddleName: p.MiddleName,
		LastName:   rec.User.LastName,
		Email:      rec.User.Email,
		Gender:     string(p.Gender),
		Phone:      p.Phone,
		UserGroup:  p.Role.GroupLabel(),
	}, nil
}

// DetailRecord carries everything a role detail view renders.
type DetailRecord struct {
	ProfileRecord
	Student *types.Student
	Teacher *types.Teacher
	Manager *types.EducationalManager

	Groups      []GroupRecord
	Photos      []PhotoRecord
	Friends     []ProfileRecord
	RequestsIn  []ProfileRecord
	RequestsOut []ProfileRecord
}

// detailCommon is shared by the three role detail views.
type detailCommon struct {
	ID               uint        `json:"id"`
	Username         string      `json:"username"`
	FirstName        string      `json:"first_name"`
	MiddleName       string      `json:"middle_name"`
	LastName         string      `json:"last_name"`
	Email            string      `json:"email"`
	Gender           string      `json:"gender"`
	Phone            string      `json:"phone"`
	DateOfBirthday   *string     `json:"date_of_birthday"`
	Photos           []PhotoView `json:"photos"`
	Avatar           *uint       `json:"avatar"`
	Friends          []UserView  `json:"friends"`
	FriendRequestIn  []UserView  `json:"friend_request_in"`
	FriendRequestOut []UserView  `json:"friend_request_out"`
	UserGroup        string      `json:"user_group"`
}

func newDetailCommon(rec DetailRecord, urls URLResolver) (detailCommon, error) {
	if rec.Profile == nil {
		return detailCommon{}, missing("profile", 0, "row")
	}
	if rec.User == nil {
		return detailCommon{}, missing("profile", rec.Profile.ID, "user")
	}
	photos, err := NewPhotoViews(rec.Photos, urls)
	if err != nil {
		return detailCommon{}, err
	}
	friends, err := NewUserViews(rec.Friends, urls)
	if err != nil {
		return detailCommon{}, err
	}
	in, err := NewUserViews(rec.RequestsIn, urls)
	if err != nil {
		return detailCommon{}, err
	}
	out, err := NewUserViews(rec.RequestsOut, urls)
	if err != nil {
		return detailCommon{}, err
	}
	p := rec.Profile
	return detailCommon{
		ID:               p.ID,
		Username:         rec.User.Username,
		FirstName:        rec.User.FirstName,
		MiddleName:       p.MiddleName,
		LastName:         rec.User.LastName,
		Email:            rec.User.Email,
		Gender:           string(p.Gender),
		Phone:            p.Phone,
		DateOfBirthday:   formatDatePtr(p.DateOfBirthday),
		Photos:           photos,
		Avatar:           p.AvatarID,
		Friends:          friends,
		FriendRequestIn:  in,
		FriendRequestOut: out,
		UserGroup:        p.Role.GroupLabel(),
	}, nil
}

type EducationalManagerDetailView struct {
	ID               uint        `json:"id"`
	Username         string      `json:"username"`
	FirstName        string      `json:"first_name"`
	MiddleName       string      `json:"middle_name"`
	LastName         string      `json:"last_name"`
	Email            string      `json:"email"`
	Gender           string      `json:"gender"`
	Phone            string      `json:"phone"`
	DateOfBirthday   *string     `json:"date_of_birthday"`
	Photos           []PhotoView `json:"photos"`
	Avatar           *uint       `json:"avatar"`
	Friends          []UserView  `json:"friends"`
	FriendRequestIn  []UserView  `json:"friend_request_in"`
	FriendRequestOut []UserView  `json:"friend_request_out"`
	UserGroup        string      `json:"user_group"`
}

type TeacherDetailView struct {
	ID                   uint        `json:"id"`
	Username             string      `json:"username"`
	FirstName            string      `json:"first_name"`
	MiddleName           string      `json:"middle_name"`
	LastName             string      `json:"last_name"`
	Email                string      `json:"email"`
	Gender               string      `json:"gender"`
	Phone                string      `json:"phone"`
	DateOfBirthday       *string     `json:"date_of_birthday"`
	Education            string      `json:"education"`
	ProfessionalActivity string      `json:"professional_activity"`
	GroupList            []GroupView `json:"group_list"`
	Photos               []PhotoView `json:"photos"`
	Avatar               *uint       `json:"avatar"`
	Friends              []UserView  `json:"friends"`
	FriendRequestIn      []UserView  `json:"friend_request_in"`
	FriendRequestOut     []UserView  `json:"friend_request_out"`
	UserGroup            string      `json:"user_group"`
}

type StudentDetailView struct {
	ID               uint        `json:"id"`
	Username         string      `json:"username"`
	FirstName        string      `json:"first_name"`
	MiddleName       string      `json:"middle_name"`
	LastName         string      `json:"last_name"`
	Email            string      `json:"email"`
	Gender           string      `json:"gender"`
	Phone            string      `json:"phone"`
	Hobbies          string      `json:"hobbies"`
	Dream            string      `json:"dream"`
	DateOfBirthday   *string     `json:"date_of_birthday"`
	GroupList        []GroupView `json:"group_list"`
	Photos           []PhotoView `json:"photos"`
	Avatar           *uint       `json:"avatar"`
	Friends          []UserView  `json:"friends"`
	FriendRequestIn  []UserView  `json:"friend_request_in"`
	FriendRequestOut []UserView  `json:"friend_request_out"`
	UserGroup        string      `json:"user_group"`
}

// NewDetailView picks the detail representation matching the profile role.
func NewDetailView(rec DetailRecord, urls URLResolver) (any, error) {
	c, err := newDetailCommon(rec, urls)
	if err != nil {
		return nil, err
	}
	switch rec.Profile.Role {
	case types.RoleStudent:
		if rec.Student == nil {
			return nil, missing("profile", c.ID, "student row")
		}
		groups, err := NewGroupViews(rec.Groups, urls)
		if err != nil {
			return nil, err
		}
		return StudentDetailView{
			ID: c.ID, Username: c.Username, FirstName: c.FirstName, MiddleName: c.MiddleName,
			LastName: c.LastName, Email: c.Email, Gender: c.Gender, Phone: c.Phone,
			Hobbies: rec.Student.Hobbies, Dream: rec.Student.Dream,
			DateOfBirthday: c.DateOfBirthday, GroupList: groups, Photos: c.Photos, Avatar: c.Avatar,
			Friends: c.Friends, FriendRequestIn: c.FriendRequestIn, FriendRequestOut: c.FriendRequestOut,
			UserGroup: c.UserGroup,
		}, nil
	case types.RoleTeacher:
		if rec.Teacher == nil {
			return nil, missing("profile", c.ID, "teacher row")
		}
		groups, err := NewGroupViews(rec.Groups, urls)
		if err != nil {
			return nil, err
		}
		return TeacherDetailView{
			ID: c.ID, Username: c.Username, FirstName: c.FirstName, MiddleName: c.MiddleName,
			LastName: c.LastName, Email: c.Email, Gender: c.Gender, Phone: c.Phone,
			DateOfBirthday: c.DateOfBirthday, Education: rec.Teacher.Education,
			ProfessionalActivity: rec.Teacher.ProfessionalActivity, GroupList: groups,
			Photos: c.Photos, Avatar: c.Avatar, Friends: c.Friends,
			FriendRequestIn: c.FriendRequestIn, FriendRequestOut: c.FriendRequestOut, UserGroup: c.UserGroup,
		}, nil
	case types.RoleEducationalManager:
		if rec.Manager == nil {
			return nil, missing("profile", c.ID, "educational manager row")
		}
		return EducationalManagerDetailView(c), nil
	default:
		return nil, missing("profile", c.ID, "role")
	}
}
