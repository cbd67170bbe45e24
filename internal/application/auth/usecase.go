package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Register crea un usuario: hashea password con bcrypt y persiste. ErrDuplicate si username o email ya existen.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	existing, err := uc.userRepo.FindByLogin(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		existing, err = uc.userRepo.FindByLogin(ctx, in.Email)
		if err != nil {
			return nil, err
		}
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: el usuario o email ya está registrado", domain.ErrDuplicate)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	if role != entity.RoleUser && role != entity.RoleSuperAdmin {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, role)
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Role:         role,
		Verified:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica username/email y password, genera JWT y retorna token + usuario.
// Usuario inexistente y password incorrecto devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByLogin(ctx, strings.TrimSpace(in.Login))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Verified {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
		User:      *toUserResponse(user),
	}, nil
}

// EnsureSuperAdmin crea el usuario SUPERADMIN inicial si todavía no existe. Se usa al arrancar.
func (uc *AuthUseCase) EnsureSuperAdmin(ctx context.Context, username, email, password string) error {
	if username == "" || password == "" {
		return nil
	}
	_, err := uc.Register(ctx, dto.RegisterRequest{
		Name:     username,
		Username: username,
		Email:    email,
		Password: password,
		Role:     entity.RoleSuperAdmin,
	})
	if errors.Is(err, domain.ErrDuplicate) {
		return nil
	}
	return err
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
