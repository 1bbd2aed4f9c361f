package auth

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/joyeria-api/internal/application/dto"
	"github.com/jhoicas/joyeria-api/internal/domain"
	"github.com/jhoicas/joyeria-api/internal/domain/entity"
	"github.com/jhoicas/joyeria-api/internal/domain/repository"
	"github.com/jhoicas/joyeria-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación y gestión de empleados.
type AuthUseCase struct {
	staffRepo repository.StaffRepository
	jwtCfg    JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(staffRepo repository.StaffRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{staffRepo: staffRepo, jwtCfg: jwtCfg}
}

// Login verifica username/password, actualiza el último acceso y genera el JWT.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Username == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	staff, err := uc.staffRepo.FindByUsername(in.Username)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, domain.ErrUnauthorized // mismo error que password incorrecto, sin filtrar existencia
	}
	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	now := time.Now()
	if err := uc.staffRepo.UpdateLastLogin(staff.StaffID, now); err != nil {
		return nil, err
	}
	staff.LastLogin = &now
	token, err := jwt.Generate(uc.jwtCfg.Secret, staff.StaffID, staff.Username, staff.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		Staff: *toStaffResponse(staff),
	}, nil
}

// Register crea un empleado: hashea el password con bcrypt y persiste.
// Solo un admin puede crear otro admin (callerRole viene del token).
func (uc *AuthUseCase) Register(callerRole string, in dto.RegisterStaffRequest) (*dto.StaffResponse, error) {
	if in.Username == "" || in.Password == "" || in.Email == "" {
		return nil, domain.ErrInvalidInput
	}
	role := in.Role
	if role == "" {
		role = entity.RoleStaff
	}
	if role == entity.RoleAdmin && callerRole != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	existing, err := uc.staffRepo.FindByUsernameOrEmail(in.Username, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Username == in.Username {
			return nil, domain.ErrUsernameTaken
		}
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	staff := &entity.Staff{
		Username:     in.Username,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Email:        in.Email,
		Phone:        in.Phone,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := uc.staffRepo.Create(staff); err != nil {
		return nil, err
	}
	return toStaffResponse(staff), nil
}

// GetByID obtiene un empleado. Un no-admin solo puede ver su propio perfil.
func (uc *AuthUseCase) GetByID(callerID int64, callerRole string, id int64) (*dto.StaffResponse, error) {
	if callerRole != entity.RoleAdmin && callerID != id {
		return nil, domain.ErrForbidden
	}
	staff, err := uc.staffRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, domain.ErrStaffNotFound
	}
	return toStaffResponse(staff), nil
}

// List lista los empleados (sin hash de password).
func (uc *AuthUseCase) List() ([]dto.StaffResponse, error) {
	list, err := uc.staffRepo.List()
	if err != nil {
		return nil, err
	}
	items := make([]dto.StaffResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toStaffResponse(s))
	}
	return items, nil
}

// Update actualiza un empleado; el password, si viene, se rehashea.
func (uc *AuthUseCase) Update(id int64, in dto.UpdateStaffRequest) (*dto.StaffResponse, error) {
	staff, err := uc.staffRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, domain.ErrStaffNotFound
	}
	if in.FullName != nil {
		staff.FullName = *in.FullName
	}
	if in.Email != nil {
		staff.Email = *in.Email
	}
	if in.Phone != nil {
		staff.Phone = *in.Phone
	}
	if in.Role != nil {
		if *in.Role != entity.RoleAdmin && *in.Role != entity.RoleStaff {
			return nil, domain.ErrInvalidInput
		}
		staff.Role = *in.Role
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		staff.PasswordHash = string(hash)
	}
	if err := uc.staffRepo.Update(staff); err != nil {
		return nil, err
	}
	return toStaffResponse(staff), nil
}

// ChangePassword cambia el password de un empleado. Un no-admin solo puede
// cambiar el propio y debe acreditar el password actual; un admin puede
// restablecer el de cualquiera sin conocerlo.
func (uc *AuthUseCase) ChangePassword(callerID int64, callerRole string, id int64, in dto.ChangePasswordRequest) error {
	if len(in.NewPassword) < 8 {
		return domain.ErrInvalidInput
	}
	if callerRole != entity.RoleAdmin && callerID != id {
		return domain.ErrForbidden
	}
	staff, err := uc.staffRepo.GetByID(id)
	if err != nil {
		return err
	}
	if staff == nil {
		return domain.ErrStaffNotFound
	}
	if callerRole != entity.RoleAdmin {
		if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(in.CurrentPassword)); err != nil {
			return domain.ErrUnauthorized
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	staff.PasswordHash = string(hash)
	return uc.staffRepo.Update(staff)
}

// Delete elimina un empleado.
func (uc *AuthUseCase) Delete(id int64) error {
	staff, err := uc.staffRepo.GetByID(id)
	if err != nil {
		return err
	}
	if staff == nil {
		return domain.ErrStaffNotFound
	}
	return uc.staffRepo.Delete(id)
}

func toStaffResponse(s *entity.Staff) *dto.StaffResponse {
	if s == nil {
		return nil
	}
	return &dto.StaffResponse{
		StaffID:   s.StaffID,
		Username:  s.Username,
		FullName:  s.FullName,
		Email:     s.Email,
		Phone:     s.Phone,
		Role:      s.Role,
		CreatedAt: s.CreatedAt,
		LastLogin: s.LastLogin,
	}
}
