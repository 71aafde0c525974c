package services

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/scool-backend/internal/data/repos"
	types "github.com/yungbote/scool-backend/internal/domain"
	"github.com/yungbote/scool-backend/internal/platform/apierr"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/platform/logger"
	"github.com/yungbote/scool-backend/internal/views"
)

const (
	certificateWidth  = 1600
	certificateHeight = 1130
)

type CertificateService interface {
	IssueCertificate(dbc dbctx.Context, in views.CertificateInput) (views.CertificateView, error)
	ListCertificates(dbc dbctx.Context, profileID uint) ([]views.CertificateView, error)
}

type certificateService struct {
	db        *gorm.DB
	log       *logger.Logger
	repos     repos.Set
	loader    *Loader
	bucket    ObjectStore
	titleFace font.Face
	bodyFace  font.Face
}

// NewCertificateService loads the TrueType font at fontPath. An empty path
// falls back to the built-in bitmap face.
func NewCertificateService(db *gorm.DB, log *logger.Logger, r repos.Set, loader *Loader, bucket ObjectStore, fontPath string) (CertificateService, error) {
	serviceLog := log.With("service", "CertificateService")
	s := &certificateService{
		db:        db,
		log:       serviceLog,
		repos:     r,
		loader:    loader,
		bucket:    bucket,
		titleFace: basicfont.Face7x13,
		bodyFace:  basicfont.Face7x13,
	}
	if strings.TrimSpace(fontPath) == "" {
		serviceLog.Info("CERTIFICATE_FONT not set, using built-in face")
		return s, nil
	}
	serviceLog.Info("Loading certificate font", "font", fontPath)
	parsed, err := parseFont(fontPath)
	if err != nil {
		return nil, fmt.Errorf("could not load certificate font: %w", err)
	}
	s.titleFace = truetype.NewFace(parsed, &truetype.Options{Size: 72, DPI: 72, Hinting: font.HintingNone})
	s.bodyFace = truetype.NewFace(parsed, &truetype.Options{Size: 40, DPI: 72, Hinting: font.HintingNone})
	return s, nil
}

func (s *certificateService) IssueCertificate(dbc dbctx.Context, in views.CertificateInput) (views.CertificateView, error) {
	if err := views.Validate(in); err != nil {
		return views.CertificateView{}, err
	}
	if err := expectRole(dbc, s.repos, in.ProfileID, types.RoleStudent, "profile"); err != nil {
		return views.CertificateView{}, err
	}
	student, err := s.loader.Profile(dbc, in.ProfileID)
	if err != nil {
		return views.CertificateView{}, apierr.Map("load profile", err)
	}
	courses, err := s.repos.Course.GetByIDs(dbc, []uint{in.CourseID})
	if err != nil {
		return views.CertificateView{}, apierr.Map("load course", err)
	}
	if len(courses) == 0 {
		return views.CertificateView{}, apierr.NotFound("course %d not found", in.CourseID)
	}
	course := courses[0]
	held, err := s.repos.Certificate.ListByProfile(dbc, in.ProfileID)
	if err != nil {
		return views.CertificateView{}, apierr.Map("list certificates", err)
	}
	for _, c := range held {
		if c.CourseID == in.CourseID {
			return views.CertificateView{}, apierr.Conflict("profile %d already holds a certificate for course %d", in.ProfileID, in.CourseID)
		}
	}

	issued := time.Now().UTC()
	name := strings.TrimSpace(student.User.FirstName + " " + student.User.LastName)
	if name == "" {
		name = student.User.Username
	}
	img, err := s.render(name, course.Name, issued)
	if err != nil {
		return views.CertificateView{}, err
	}
	key := fmt.Sprintf("certificate/%d/%d.png", in.ProfileID, in.CourseID)
	if err := s.bucket.UploadFile(dbc, key, bytes.NewReader(img.Bytes())); err != nil {
		return views.CertificateView{}, fmt.Errorf("upload certificate: %w", err)
	}

	row := &types.Certificate{
		ProfileID: in.ProfileID,
		CourseID:  in.CourseID,
		ImageKey:  key,
		Date:      datatypes.Date(time.Date(issued.Year(), issued.Month(), issued.Day(), 0, 0, 0, 0, time.UTC)),
	}
	if _, err := s.repos.Certificate.Create(dbc, []*types.Certificate{row}); err != nil {
		deleteObjects(dbc.Ctx, s.bucket, s.log, []string{key})
		return views.CertificateView{}, apierr.Map("create certificate", err)
	}
	s.log.Info("Issued certificate", "profile_id", in.ProfileID, "course_id", in.CourseID)

	recs, err := s.loader.Certificates(dbc, []*types.Certificate{row})
	if err != nil {
		return views.CertificateView{}, apierr.Map("load certificate", err)
	}
	v, err := views.NewCertificateView(recs[0], s.bucket)
	return render("render certificate", v, err)
}

func (s *certificateService) ListCertificates(dbc dbctx.Context, profileID uint) ([]views.CertificateView, error) {
	if _, err := s.loader.Profile(dbc, profileID); err != nil {
		return nil, apierr.Map("load profile", err)
	}
	rows, err := s.repos.Certificate.ListByProfile(dbc, profileID)
	if err != nil {
		return nil, apierr.Map("list certificates", err)
	}
	recs, err := s.loader.Certificates(dbc, rows)
	if err != nil {
		return nil, apierr.Map("load certificates", err)
	}
	out, err := views.NewCertificateViews(recs, s.bucket)
	return render("render certificates", out, err)
}

func (s *certificateService) render(name, courseName string, issued time.Time) (bytes.Buffer, error) {
	const w, h = float64(certificateWidth), float64(certificateHeight)
	dc := gg.NewContext(certificateWidth, certificateHeight)

	dc.SetColor(color.NRGBA{R: 0xfb, G: 0xf8, B: 0xf1, A: 0xff})
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()

	// Border
	dc.SetColor(color.NRGBA{R: 0x1f, G: 0x3b, B: 0x64, A: 0xff})
	dc.SetLineWidth(12)
	dc.DrawRectangle(40, 40, w-80, h-80)
	dc.Stroke()

	dc.SetFontFace(s.titleFace)
	dc.DrawStringAnchored("CERTIFICATE", w/2, h*0.25, 0.5, 0.5)

	dc.SetFontFace(s.bodyFace)
	dc.SetColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff})
	dc.DrawStringAnchored("This certifies that", w/2, h*0.40, 0.5, 0.5)
	dc.DrawStringAnchored(name, w/2, h*0.50, 0.5, 0.5)
	dc.DrawStringAnchored("has completed the course", w/2, h*0.60, 0.5, 0.5)
	dc.DrawStringAnchored(courseName, w/2, h*0.70, 0.5, 0.5)
	dc.DrawStringAnchored(issued.Format(views.DateLayout), w/2, h*0.85, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

func parseFont(fontPath string) (*truetype.Font, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsed, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return parsed, nil
}
