package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kvadrat/estate_go_server/config"
	"github.com/kvadrat/estate_go_server/internal/model"
	"github.com/kvadrat/estate_go_server/internal/model/dto"
	"github.com/kvadrat/estate_go_server/internal/pkg/jwt"
	"github.com/kvadrat/estate_go_server/internal/repository"
)

// AuthService is the thin account boundary: agency/landlord accounts with
// password login issuing JWTs. The core trusts the resulting identity for
// ownership checks; everything richer (sessions, verification) lives outside.
type AuthService struct {
	agencyRepo *repository.AgencyRepository
	cfg        *config.Config
}

func NewAuthService(agencyRepo *repository.AgencyRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		agencyRepo: agencyRepo,
		cfg:        cfg,
	}
}

func (s *AuthService) Register(req *dto.RegisterRequest) (*model.Agency, string, error) {
	exists, err := s.agencyRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	kind := req.Kind
	if kind != "landlord" {
		kind = "agency"
	}

	agency := &model.Agency{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Kind:         kind,
	}
	if err := s.agencyRepo.Create(agency); err != nil {
		return nil, "", err
	}

	token, err := jwt.GenerateToken(agency.ID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, "", err
	}
	return agency, token, nil
}

func (s *AuthService) Login(req *dto.LoginRequest) (*model.Agency, string, error) {
	agency, err := s.agencyRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(agency.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(agency.ID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, "", err
	}
	return agency, token, nil
}

func (s *AuthService) GetAgency(agencyID int64) (*model.Agency, error) {
	agency, err := s.agencyRepo.GetByID(agencyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgencyNotFound
		}
		return nil, err
	}
	return agency, nil
}
