// Package businessflow contains the core business logic and use cases for authentication workflows
package businessflow

import (
	"context"

	"github.com/coticket/coticket/app/dto"
	"github.com/coticket/coticket/app/services"
	"github.com/coticket/coticket/repository"
	"golang.org/x/crypto/bcrypt"
)

// AdminAuthFlow represents the admin authentication flow used by handlers
type AdminAuthFlow interface {
	Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	Me(ctx context.Context, adminID uint) (*dto.AdminDTO, error)
}

// AdminAuthFlowImpl verifies admin credentials and issues access tokens
type AdminAuthFlowImpl struct {
	adminRepo    repository.AdminRepository
	tokenService services.TokenService
}

func NewAdminAuthFlow(adminRepo repository.AdminRepository, tokenService services.TokenService) AdminAuthFlow {
	return &AdminAuthFlowImpl{
		adminRepo:    adminRepo,
		tokenService: tokenService,
	}
}

func (af *AdminAuthFlowImpl) Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	if req == nil || len(req.Email) == 0 || len(req.Password) == 0 {
		return nil, NewBusinessError("LOGIN_VALIDATION_FAILED", "Login validation failed", ErrIncorrectPassword)
	}

	admin, err := af.adminRepo.ByEmail(ctx, req.Email)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LOOKUP_FAILED", "Failed to lookup admin", err)
	}

	// Unknown email and wrong password produce the same error so the
	// response does not reveal which admin accounts exist.
	if admin == nil {
		return nil, NewBusinessError("INVALID_CREDENTIALS", "Email or password is incorrect", ErrAdminNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewBusinessError("INVALID_CREDENTIALS", "Email or password is incorrect", ErrIncorrectPassword)
	}

	token, err := af.tokenService.GenerateToken(admin.ID, admin.Email)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate token", err)
	}

	return &dto.LoginResponse{
		Token: token,
		Admin: ToAdminDTO(*admin),
	}, nil
}

func (af *AdminAuthFlowImpl) Me(ctx context.Context, adminID uint) (*dto.AdminDTO, error) {
	admin, err := af.adminRepo.ByID(ctx, adminID)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LOOKUP_FAILED", "Failed to lookup admin", err)
	}
	if admin == nil {
		return nil, NewBusinessError("ADMIN_NOT_FOUND", "Admin not found", ErrAdminNotFound)
	}

	adminDTO := ToAdminDTO(*admin)
	return &adminDTO, nil
}
