package services

import (
	"time"

	"atelier/internal/apperrors"
	"atelier/internal/models"
	"atelier/internal/repositories"

	"gorm.io/gorm"
)

// RegistrationService provisions new accounts. Both registration paths
// run inside a single database transaction: the user row, its
// role-specific row and (for workshop owners) the workshop and its
// default referral link commit together or not at all. Token issuance
// happens strictly after commit, in the handler.
type RegistrationService struct {
	db   *gorm.DB
	auth *AuthService
}

// NewRegistrationService creates a new RegistrationService.
func NewRegistrationService(db *gorm.DB, auth *AuthService) *RegistrationService {
	return &RegistrationService{db: db, auth: auth}
}

// RegisterWorkshopRequest is the payload for workshop-owner
// registration.
type RegisterWorkshopRequest struct {
	Username       string  `json:"username" validate:"required,min=3,max=100"`
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required,min=6"`
	FullName       string  `json:"full_name" validate:"omitempty,max=255"`
	WorkshopName   string  `json:"workshop_name" validate:"required,min=3,max=255"`
	CommissionRate float64 `json:"commission_rate" validate:"gte=0,lte=1"`
}

// RegisterUserRequest is the payload for referral-gated registration.
// The provisioned role is derived from the referral link's type; when
// Role is supplied it must agree with the link.
type RegisterUserRequest struct {
	Username     string      `json:"username" validate:"required,min=3,max=100"`
	Email        string      `json:"email" validate:"required,email"`
	Password     string      `json:"password" validate:"required,min=6"`
	FullName     string      `json:"full_name" validate:"omitempty,max=255"`
	ReferralCode string      `json:"referral_code" validate:"required"`
	Role         models.Role `json:"role" validate:"omitempty,oneof=MAGAZINE_OWNER TAILOR VALIDATOR"`
	MagazineName string      `json:"magazine_name" validate:"omitempty,max=255"`
	Specialty    string      `json:"specialty" validate:"omitempty,max=100"`
}

// RegisterWorkshopOwner creates the owner user, its workshop and the
// workshop's default MAGAZINE referral link atomically.
func (s *RegistrationService) RegisterWorkshopOwner(req RegisterWorkshopRequest) (*models.User, *models.Workshop, *models.ReferralLink, error) {
	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, nil, nil, err
	}

	var (
		user     *models.User
		workshop *models.Workshop
		link     *models.ReferralLink
	)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		users := repositories.NewGORMUserRepository(tx)
		if err := checkUniqueness(users, req.Username, req.Email); err != nil {
			return err
		}

		user = &models.User{
			Username: req.Username,
			Email:    req.Email,
			Password: hash,
			FullName: req.FullName,
			Role:     models.RoleWorkshopOwner,
		}
		if err := users.Create(user); err != nil {
			return err
		}

		workshop = &models.Workshop{
			OwnerUserID:    user.ID,
			Name:           req.WorkshopName,
			CommissionRate: req.CommissionRate,
		}
		if err := repositories.NewGORMWorkshopRepository(tx).CreateWorkshop(workshop); err != nil {
			return err
		}

		link = NewReferralLink(workshop.ID, models.ReferralMagazine, nil)
		return repositories.NewGORMReferralRepository(tx).Create(link)
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return user, workshop, link, nil
}

// RegisterWithReferral creates a user plus exactly one role-specific row
// bound to the referral link's workshop, atomically. The link itself is
// not consumed: it stays usable until its owner deactivates it.
func (s *RegistrationService) RegisterWithReferral(req RegisterUserRequest) (*models.User, error) {
	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = s.db.Transaction(func(tx *gorm.DB) error {
		users := repositories.NewGORMUserRepository(tx)
		if err := checkUniqueness(users, req.Username, req.Email); err != nil {
			return err
		}

		link, err := repositories.NewGORMReferralRepository(tx).GetByToken(req.ReferralCode)
		if err != nil {
			return err
		}
		if !link.Usable(time.Now()) {
			return apperrors.InvalidReferral("referral link is inactive or expired")
		}
		role, ok := models.RoleForReferral(link.ReferralType)
		if !ok {
			return apperrors.InvalidReferral("referral link has unknown type %q", link.ReferralType)
		}
		if req.Role != "" && req.Role != role {
			return apperrors.InvalidReferral("referral link does not grant role %s", req.Role)
		}

		user = &models.User{
			Username: req.Username,
			Email:    req.Email,
			Password: hash,
			FullName: req.FullName,
			Role:     role,
		}
		if err := users.Create(user); err != nil {
			return err
		}

		workshops := repositories.NewGORMWorkshopRepository(tx)
		switch role {
		case models.RoleMagazineOwner:
			name := req.MagazineName
			if name == "" {
				name = req.Username
			}
			return workshops.CreateMagazine(&models.Magazine{
				UserID:     user.ID,
				WorkshopID: link.WorkshopID,
				Name:       name,
			})
		case models.RoleTailor:
			return workshops.CreateTailor(&models.Tailor{
				UserID:     user.ID,
				WorkshopID: link.WorkshopID,
				Specialty:  req.Specialty,
			})
		case models.RoleValidator:
			return workshops.CreateValidator(&models.Validator{
				UserID:     user.ID,
				WorkshopID: link.WorkshopID,
			})
		}
		return apperrors.InvalidReferral("referral link has unknown type %q", link.ReferralType)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// checkUniqueness rejects a duplicate username or email with a Conflict
// before the insert. The unique indexes remain the authority: a
// concurrent duplicate slipping past this check still fails the insert.
func checkUniqueness(users repositories.UserRepository, username, email string) error {
	if _, err := users.GetByUsername(username); err == nil {
		return apperrors.Conflict("username '%s' already taken", username)
	} else if !apperrors.Is(err, apperrors.KindNotFound) {
		return err
	}
	if _, err := users.GetByEmail(email); err == nil {
		return apperrors.Conflict("email '%s' already registered", email)
	} else if !apperrors.Is(err, apperrors.KindNotFound) {
		return err
	}
	return nil
}
