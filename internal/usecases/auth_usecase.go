package usecases

import (
	"context"

	"go.uber.org/zap"

	domainerrors "github.com/DrZedd42/fiat-gateway/internal/domain/errors"
	"github.com/DrZedd42/fiat-gateway/pkg/crypto"
	jwtpkg "github.com/DrZedd42/fiat-gateway/pkg/jwt"
	"github.com/DrZedd42/fiat-gateway/pkg/logger"
)

// AuthUsecase issues owner session tokens for the admin surface
type AuthUsecase struct {
	jwtService        *jwtpkg.JWTService
	ownerAddr         string
	adminPasswordHash string
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(jwtService *jwtpkg.JWTService, ownerAddr, adminPasswordHash string) *AuthUsecase {
	return &AuthUsecase{
		jwtService:        jwtService,
		ownerAddr:         ownerAddr,
		adminPasswordHash: adminPasswordHash,
	}
}

// Login exchanges the admin password for an owner token. An empty
// configured hash disables password login entirely.
func (u *AuthUsecase) Login(ctx context.Context, password string) (string, error) {
	if u.adminPasswordHash == "" || !crypto.CheckPassword(password, u.adminPasswordHash) {
		return "", domainerrors.ErrUnauthorized
	}

	token, err := u.jwtService.GenerateToken(u.ownerAddr, jwtpkg.RoleOwner)
	if err != nil {
		return "", err
	}

	logger.Info(ctx, "owner logged in", zap.String("address", u.ownerAddr))
	return token, nil
}
