package services

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/scool-backend/internal/data/repos"
	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/platform/apierr"
	"github.com/yungbote/scool-backend/internal/platform/ctxutil"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/platform/logger"
	"github.com/yungbote/scool-backend/internal/views"
)

type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type AuthService interface {
	Register(dbc dbctx.Context, in views.RegistrationInput) (views.RegistrationView, error)
	Login(dbc dbctx.Context, in views.LoginInput) (*Tokens, error)
	Refresh(dbc dbctx.Context, refreshToken string) (*Tokens, error)
	Logout(dbc dbctx.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	DeleteUser(dbc dbctx.Context, userID uint) error
	GetAccessTTL() time.Duration
}

type authService struct {
	db         *gorm.DB
	log        *logger.Logger
	repos      repos.Set
	accounts   *accountWriter
	cleanup    *accountCleanup
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	r repos.Set,
	bucket ObjectStore,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:         db,
		log:        serviceLog,
		repos:      r,
		accounts:   &accountWriter{repos: r},
		cleanup:    &accountCleanup{repos: r, bucket: bucket, log: serviceLog},
		jwtSecret:  []byte(jwtSecretKey),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (as *authService) GetAccessTTL() time.Duration { return as.accessTTL }

func (as *authService) Register(dbc dbctx.Context, in views.RegistrationInput) (views.RegistrationView, error) {
	var out views.RegistrationView
	err := inTx(as.db, dbc, func(dbc dbctx.Context) error {
		u, p, err := as.accounts.create(dbc, in, types.RoleStudent, roleFields{})
		if err != nil {
			return err
		}
		out = views.NewRegistrationView(u, p)
		return nil
	})
	if err != nil {
		return views.RegistrationView{}, err
	}
	as.log.Info("Registered user", "username", out.Username)
	return out, nil
}

func (as *authService) Login(dbc dbctx.Context, in views.LoginInput) (*Tokens, error) {
	if err := views.Validate(in); err != nil {
		return nil, err
	}
	user, err := as.repos.User.GetByUsername(dbc, in.Username)
	if err != nil {
		return nil, apierr.Map("load user", err)
	}
	if user == nil || !user.IsActive {
		return nil, apierr.Unauthorized("invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), passwordKey(in.Password)); err != nil {
		return nil, apierr.Unauthorized("invalid username or password")
	}

	var tokens *Tokens
	err = inTx(as.db, dbc, func(dbc dbctx.Context) error {
		if err := as.dropExpired(dbc, user.ID); err != nil {
			return err
		}
		t, err := as.issue(dbc, user)
		if err != nil {
			return err
		}
		tokens = t
		now := time.Now().UTC()
		return as.repos.User.UpdateFields(dbc, user.ID, map[string]interface{}{"last_login": now})
	})
	if err != nil {
		return nil, apierr.Map("login", err)
	}
	return tokens, nil
}

func (as *authService) Refresh(dbc dbctx.Context, refreshToken string) (*Tokens, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, apierr.Validation("refresh_token: required")
	}
	var tokens *Tokens
	err := inTx(as.db, dbc, func(dbc dbctx.Context) error {
		existing, err := as.repos.UserToken.GetByRefreshToken(dbc, refreshToken)
		if err != nil {
			return err
		}
		if existing == nil {
			return apierr.Unauthorized("unknown refresh token")
		}
		if err := as.repos.UserToken.DeleteByIDs(dbc, []uint{existing.ID}); err != nil {
			return err
		}
		if existing.ExpiresAt.Before(time.Now()) {
			return apierr.Unauthorized("refresh token expired")
		}
		users, err := as.repos.User.GetByIDs(dbc, []uint{existing.UserID})
		if err != nil {
			return err
		}
		if len(users) == 0 {
			return apierr.Unauthorized("no user for refresh token")
		}
		tokens, err = as.issue(dbc, users[0])
		return err
	})
	if err != nil {
		return nil, apierr.Map("refresh", err)
	}
	return tokens, nil
}

func (as *authService) Logout(dbc dbctx.Context) error {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil || rd.TokenString == "" {
		return apierr.Unauthorized("no session")
	}
	tok, err := as.repos.UserToken.GetByAccessToken(dbc, rd.TokenString)
	if err != nil {
		return apierr.Map("load token", err)
	}
	if tok == nil {
		return nil
	}
	return apierr.Map("delete token", as.repos.UserToken.DeleteByIDs(dbc, []uint{tok.ID}))
}

type accessClaims struct {
	ProfileID uint   `json:"pid"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// SetContextFromToken validates the JWT and that its session still exists.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims := &accessClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return as.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return ctx, apierr.Unauthorized("invalid token")
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return ctx, apierr.Unauthorized("invalid token subject")
	}
	tok, err := as.repos.UserToken.GetByAccessToken(dbctx.Context{Ctx: ctx}, tokenString)
	if err != nil {
		return ctx, apierr.Map("load token", err)
	}
	if tok == nil {
		return ctx, apierr.Unauthorized("session revoked")
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      uint(userID),
		ProfileID:   claims.ProfileID,
		Role:        claims.Role,
	}), nil
}

func (as *authService) DeleteUser(dbc dbctx.Context, userID uint) error {
	var keys []string
	err := inTx(as.db, dbc, func(dbc dbctx.Context) error {
		var err error
		keys, err = as.cleanup.deleteUser(dbc, userID)
		return err
	})
	if err != nil {
		return apierr.Map("delete user", err)
	}
	as.cleanup.deleteObjects(dbc.Ctx, keys)
	as.log.Info("Deleted user", "user_id", userID)
	return nil
}

func (as *authService) issue(dbc dbctx.Context, user *types.User) (*Tokens, error) {
	profiles, err := as.repos.Profile.GetByUserIDs(dbc, []uint{user.ID})
	if err != nil {
		return nil, err
	}
	var profileID uint
	var role string
	if len(profiles) > 0 {
		profileID = profiles[0].ID
		role = string(profiles[0].Role)
	}
	now := time.Now()
	claims := accessClaims{
		ProfileID: profileID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh := uuid.NewString()
	if _, err := as.repos.UserToken.Create(dbc, []*types.UserToken{{
		UserID:       user.ID,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(as.refreshTTL).UTC(),
	}}); err != nil {
		as.log.Warn("Create user token failed", "error", err)
		return nil, fmt.Errorf("create user token: %w", err)
	}
	return &Tokens{AccessToken: access, RefreshToken: refresh, ExpiresIn: int64(as.accessTTL.Seconds())}, nil
}

func (as *authService) dropExpired(dbc dbctx.Context, userID uint) error {
	existing, err := as.repos.UserToken.GetByUserIDs(dbc, []uint{userID})
	if err != nil {
		return err
	}
	expired := []uint{}
	now := time.Now()
	for _, t := range existing {
		if t.ExpiresAt.Before(now) {
			expired = append(expired, t.ID)
		}
	}
	return as.repos.UserToken.DeleteByIDs(dbc, expired)
}

type roleFields struct {
	Education            string
	ProfessionalActivity string
	ManagementScope      string
}

// accountWriter creates a user, its profile and the role row.
type accountWriter struct {
	repos repos.Set
}

func (w *accountWriter) create(dbc dbctx.Context, in views.RegistrationInput, role types.Role, rf roleFields) (*types.User, *types.Profile, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := views.Validate(in); err != nil {
		return nil, nil, err
	}
	if !role.Valid() {
		return nil, nil, apierr.Validation("role: unknown role %q", role)
	}
	exists, err := w.repos.User.UsernameExists(dbc, in.Username)
	if err != nil {
		return nil, nil, apierr.Map("check username", err)
	}
	if exists {
		return nil, nil, apierr.Validation("username: a user with that username already exists")
	}
	hash, err := bcrypt.GenerateFromPassword(passwordKey(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{
		Username:  in.Username,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     in.Email,
		Password:  string(hash),
		IsActive:  true,
	}
	if _, err := w.repos.User.Create(dbc, []*types.User{user}); err != nil {
		return nil, nil, apierr.Map("create user", err)
	}
	profile := &types.Profile{
		UserID:     user.ID,
		Role:       role,
		Gender:     types.Gender(in.Profile.Gender),
		MiddleName: in.Profile.MiddleName,
		Phone:      in.Profile.Phone,
	}
	if s := strings.TrimSpace(in.Profile.DateOfBirthday); s != "" {
		d, err := views.ParseDate(s)
		if err != nil {
			return nil, nil, apierr.Validation("date_of_birthday: %v", err)
		}
		profile.DateOfBirthday = &d
	}
	if _, err := w.repos.Profile.Create(dbc, []*types.Profile{profile}); err != nil {
		return nil, nil, apierr.Map("create profile", err)
	}

	switch role {
	case types.RoleStudent:
		_, err = w.repos.Student.Create(dbc, []*types.Student{{ProfileID: profile.ID}})
	case types.RoleTeacher:
		_, err = w.repos.Teacher.Create(dbc, []*types.Teacher{{
			ProfileID:            profile.ID,
			Education:            rf.Education,
			ProfessionalActivity: rf.ProfessionalActivity,
		}})
	case types.RoleEducationalManager:
		_, err = w.repos.EducationalManager.Create(dbc, []*types.EducationalManager{{
			ProfileID:       profile.ID,
			ManagementScope: rf.ManagementScope,
		}})
	}
	if err != nil {
		return nil, nil, apierr.Map("create role row", err)
	}
	return user, profile, nil
}

var errStillReferenced = errors.New("profile is still referenced")

// passwordKey is what bcrypt sees. bcrypt stops at 72 bytes while a valid
// password is up to 50 characters of any script, so longer encodings are
// reduced to a base64 SHA-256 digest first.
func passwordKey(password string) []byte {
	if len(password) <= bcryptMaxBytes {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

const bcryptMaxBytes = 72
