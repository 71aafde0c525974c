package services

import (
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/scool-backend/internal/data/repos"
	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/platform/apierr"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/platform/logger"
	"github.com/yungbote/scool-backend/internal/views"
)

type ProfileService interface {
	GetProfile(dbc dbctx.Context, id uint) (views.ProfileView, error)
	GetProfileBase(dbc dbctx.Context, id uint) (views.ProfileBaseView, error)
	ListProfiles(dbc dbctx.Context, filter repos.ProfileFilter) ([]views.ProfileView, error)
	// GetDetail returns the detail view matching the profile role.
	GetDetail(dbc dbctx.Context, id uint) (any, error)
	GetUser(dbc dbctx.Context, profileID uint) (views.UserView, error)
	UpdateProfile(dbc dbctx.Context, id uint, in views.ProfileUpdateInput) (views.ProfileBaseView, error)
	SetAvatar(dbc dbctx.Context, profileID uint, photoID *uint) (views.ProfileView, error)
	CreateStaff(dbc dbctx.Context, in views.StaffInput) (views.RegistrationView, error)
}

type profileService struct {
	db       *gorm.DB
	log      *logger.Logger
	repos    repos.Set
	loader   *Loader
	urls     views.URLResolver
	accounts *accountWriter
}

func NewProfileService(db *gorm.DB, log *logger.Logger, r repos.Set, loader *Loader, urls views.URLResolver) ProfileService {
	return &profileService{
		db:       db,
		log:      log.With("service", "ProfileService"),
		repos:    r,
		loader:   loader,
		urls:     urls,
		accounts: &accountWriter{repos: r},
	}
}

func (s *profileService) GetProfile(dbc dbctx.Context, id uint) (views.ProfileView, error) {
	rec, err := s.loader.Profile(dbc, id)
	if err != nil {
		return views.ProfileView{}, apierr.Map("load profile", err)
	}
	v, err := views.NewProfileView(rec, s.urls)
	return render("render profile", v, err)
}

func (s *profileService) GetProfileBase(dbc dbctx.Context, id uint) (views.ProfileBaseView, error) {
	rec, err := s.loader.Profile(dbc, id)
	if err != nil {
		return views.ProfileBaseView{}, apierr.Map("load profile", err)
	}
	rel, err := s.loader.Relations(dbc, id)
	if err != nil {
		return views.ProfileBaseView{}, apierr.Map("load relations", err)
	}
	v, err := views.NewProfileBaseView(rec, rel)
	return render("render profile", v, err)
}

func (s *profileService) ListProfiles(dbc dbctx.Context, filter repos.ProfileFilter) ([]views.ProfileView, error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, apierr.Validation("role: unknown role %q", filter.Role)
	}
	rows, err := s.repos.Profile.List(dbc, filter)
	if err != nil {
		return nil, apierr.Map("list profiles", err)
	}
	ids := make([]uint, 0, len(rows))
	for _, p := range rows {
		ids = append(ids, p.ID)
	}
	recs, err := s.loader.Profiles(dbc, ids)
	if err != nil {
		return nil, apierr.Map("load profiles", err)
	}
	out, err := views.NewProfileViews(recs, s.urls)
	return render("render profiles", out, err)
}

func (s *profileService) GetDetail(dbc dbctx.Context, id uint) (any, error) {
	rec, err := s.loader.Detail(dbctx.Context{Ctx: dbc.Ctx}, id)
	if err != nil {
		return nil, apierr.Map("load profile detail", err)
	}
	v, err := views.NewDetailView(rec, s.urls)
	return render("render profile detail", v, err)
}

func (s *profileService) GetUser(dbc dbctx.Context, profileID uint) (views.UserView, error) {
	rec, err := s.loader.Profile(dbc, profileID)
	if err != nil {
		return views.UserView{}, apierr.Map("load profile", err)
	}
	v, err := views.NewUserView(rec, s.urls)
	return render("render user", v, err)
}

func (s *profileService) UpdateProfile(dbc dbctx.Context, id uint, in views.ProfileUpdateInput) (views.ProfileBaseView, error) {
	if err := views.Validate(in); err != nil {
		return views.ProfileBaseView{}, err
	}
	err := inTx(s.db, dbc, func(dbc dbctx.Context) error {
		rec, err := s.loader.Profile(dbc, id)
		if err != nil {
			return err
		}
		userUpdates := map[string]interface{}{}
		setString(userUpdates, "first_name", in.FirstName)
		setString(userUpdates, "last_name", in.LastName)
		setString(userUpdates, "email", in.Email)
		if err := s.repos.User.UpdateFields(dbc, rec.User.ID, userUpdates); err != nil {
			return err
		}

		profileUpdates := map[string]interface{}{}
		setString(profileUpdates, "middle_name", in.MiddleName)
		setString(profileUpdates, "gender", in.Gender)
		setString(profileUpdates, "phone", in.Phone)
		if in.DateOfBirthday != nil {
			if strings.TrimSpace(*in.DateOfBirthday) == "" {
				profileUpdates["date_of_birthday"] = nil
			} else {
				d, err := views.ParseDate(*in.DateOfBirthday)
				if err != nil {
					return apierr.Validation("date_of_birthday: %v", err)
				}
				profileUpdates["date_of_birthday"] = d
			}
		}
		if err := s.repos.Profile.UpdateFields(dbc, id, profileUpdates); err != nil {
			return err
		}

		roleUpdates := map[string]interface{}{}
		switch rec.Profile.Role {
		case types.RoleStudent:
			setString(roleUpdates, "hobbies", in.Hobbies)
			setString(roleUpdates, "dream", in.Dream)
			return s.repos.Student.UpdateFields(dbc, id, roleUpdates)
		case types.RoleTeacher:
			setString(roleUpdates, "education", in.Education)
			setString(roleUpdates, "professional_activity", in.ProfessionalActivity)
			return s.repos.Teacher.UpdateFields(dbc, id, roleUpdates)
		case types.RoleEducationalManager:
			setString(roleUpdates, "management_scope", in.ManagementScope)
			return s.repos.EducationalManager.UpdateFields(dbc, id, roleUpdates)
		}
		return nil
	})
	if err != nil {
		return views.ProfileBaseView{}, apierr.Map("update profile", err)
	}
	return s.GetProfileBase(dbc, id)
}

// SetAvatar points the profile at one of its own photos, or clears it when photoID is nil.
func (s *profileService) SetAvatar(dbc dbctx.Context, profileID uint, photoID *uint) (views.ProfileView, error) {
	if photoID != nil {
		photos, err := s.repos.Photo.GetByIDs(dbc, []uint{*photoID})
		if err != nil {
			return views.ProfileView{}, apierr.Map("load photo", err)
		}
		if len(photos) == 0 {
			return views.ProfileView{}, apierr.NotFound("photo %d not found", *photoID)
		}
		if photos[0].ProfileID != profileID {
			return views.ProfileView{}, apierr.Forbidden("photo %d does not belong to profile %d", *photoID, profileID)
		}
	}
	var value interface{}
	if photoID != nil {
		value = *photoID
	}
	if err := s.repos.Profile.UpdateFields(dbc, profileID, map[string]interface{}{"avatar_id": value}); err != nil {
		return views.ProfileView{}, apierr.Map("set avatar", err)
	}
	return s.GetProfile(dbc, profileID)
}

func (s *profileService) CreateStaff(dbc dbctx.Context, in views.StaffInput) (views.RegistrationView, error) {
	if err := views.Validate(in); err != nil {
		return views.RegistrationView{}, err
	}
	var out views.RegistrationView
	err := inTx(s.db, dbc, func(dbc dbctx.Context) error {
		u, p, err := s.accounts.create(dbc, in.RegistrationInput, types.Role(in.Role), roleFields{
			Education:            in.Education,
			ProfessionalActivity: in.ProfessionalActivity,
			ManagementScope:      in.ManagementScope,
		})
		if err != nil {
			return err
		}
		out = views.NewRegistrationView(u, p)
		return nil
	})
	if err != nil {
		return views.RegistrationView{}, apierr.Map("create staff", err)
	}
	s.log.Info("Created staff account", "username", out.Username, "role", in.Role)
	return out, nil
}

func setString(m map[string]interface{}, col string, v *string) {
	if v != nil {
		m[col] = strings.TrimSpace(*v)
	}
}
