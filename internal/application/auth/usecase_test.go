package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/joyeria-api/internal/application/auth"
	"github.com/jhoicas/joyeria-api/internal/application/dto"
	"github.com/jhoicas/joyeria-api/internal/domain"
	"github.com/jhoicas/joyeria-api/internal/domain/entity"
)

type memStaffRepo struct {
	staff map[int64]*entity.Staff
}

func newMemStaffRepo() *memStaffRepo {
	return &memStaffRepo{staff: make(map[int64]*entity.Staff)}
}

func (r *memStaffRepo) GetByID(id int64) (*entity.Staff, error) {
	s, ok := r.staff[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *memStaffRepo) FindByUsername(username string) (*entity.Staff, error) {
	for _, s := range r.staff {
		if s.Username == username {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memStaffRepo) FindByUsernameOrEmail(username, email string) (*entity.Staff, error) {
	for _, s := range r.staff {
		if s.Username == username || s.Email == email {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memStaffRepo) List() ([]*entity.Staff, error) { return nil, nil }

func (r *memStaffRepo) Create(s *entity.Staff) error {
	cp := *s
	r.staff[s.StaffID] = &cp
	return nil
}

func (r *memStaffRepo) Update(s *entity.Staff) error {
	if _, ok := r.staff[s.StaffID]; !ok {
		return domain.ErrStaffNotFound
	}
	cp := *s
	r.staff[s.StaffID] = &cp
	return nil
}

func (r *memStaffRepo) Delete(id int64) error {
	delete(r.staff, id)
	return nil
}

func (r *memStaffRepo) UpdateLastLogin(id int64, t time.Time) error {
	if s, ok := r.staff[id]; ok {
		s.LastLogin = &t
	}
	return nil
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

// newAuthFixture prepara un admin (id 1) y un empleado (id 2).
func newAuthFixture(t *testing.T) (*auth.AuthUseCase, *memStaffRepo) {
	t.Helper()
	repo := newMemStaffRepo()
	repo.staff[1] = &entity.Staff{
		StaffID: 1, Username: "ana", PasswordHash: hashOf(t, "clave-de-ana"),
		Email: "ana@joyeria.test", Role: entity.RoleAdmin, CreatedAt: time.Now(),
	}
	repo.staff[2] = &entity.Staff{
		StaffID: 2, Username: "bruno", PasswordHash: hashOf(t, "clave-de-bruno"),
		Email: "bruno@joyeria.test", Role: entity.RoleStaff, CreatedAt: time.Now(),
	}
	uc := auth.NewAuthUseCase(repo, auth.JWTConfig{
		Secret: "secret-de-test", ExpMinutes: 60, Issuer: "joyeria-api-test",
	})
	return uc, repo
}

func TestChangePassword_EmpleadoCambiaElPropio(t *testing.T) {
	uc, repo := newAuthFixture(t)

	err := uc.ChangePassword(2, entity.RoleStaff, 2, dto.ChangePasswordRequest{
		CurrentPassword: "clave-de-bruno",
		NewPassword:     "clave-nueva-larga",
	})
	require.NoError(t, err)

	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(repo.staff[2].PasswordHash), []byte("clave-nueva-larga")),
		"el hash persistido debe corresponder al nuevo password")
}

func TestChangePassword_PasswordActualIncorrecto(t *testing.T) {
	uc, repo := newAuthFixture(t)
	before := repo.staff[2].PasswordHash

	err := uc.ChangePassword(2, entity.RoleStaff, 2, dto.ChangePasswordRequest{
		CurrentPassword: "no-es-esta",
		NewPassword:     "clave-nueva-larga",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, before, repo.staff[2].PasswordHash, "el hash no debe cambiar")
}

func TestChangePassword_EmpleadoNoPuedeCambiarElAjeno(t *testing.T) {
	uc, repo := newAuthFixture(t)
	before := repo.staff[1].PasswordHash

	err := uc.ChangePassword(2, entity.RoleStaff, 1, dto.ChangePasswordRequest{
		CurrentPassword: "clave-de-bruno",
		NewPassword:     "clave-nueva-larga",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, before, repo.staff[1].PasswordHash)
}

func TestChangePassword_AdminRestableceSinPasswordActual(t *testing.T) {
	uc, repo := newAuthFixture(t)

	err := uc.ChangePassword(1, entity.RoleAdmin, 2, dto.ChangePasswordRequest{
		NewPassword: "restablecida-por-admin",
	})
	require.NoError(t, err)

	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(repo.staff[2].PasswordHash), []byte("restablecida-por-admin")))
}

func TestChangePassword_NuevoPasswordCorto(t *testing.T) {
	uc, _ := newAuthFixture(t)

	err := uc.ChangePassword(2, entity.RoleStaff, 2, dto.ChangePasswordRequest{
		CurrentPassword: "clave-de-bruno",
		NewPassword:     "corta",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChangePassword_EmpleadoInexistente(t *testing.T) {
	uc, _ := newAuthFixture(t)

	err := uc.ChangePassword(1, entity.RoleAdmin, 99, dto.ChangePasswordRequest{
		NewPassword: "clave-nueva-larga",
	})
	assert.ErrorIs(t, err, domain.ErrStaffNotFound)
}

func TestLogin_CredencialesValidas(t *testing.T) {
	uc, repo := newAuthFixture(t)

	out, err := uc.Login(dto.LoginRequest{Username: "bruno", Password: "clave-de-bruno"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, int64(2), out.Staff.StaffID)
	assert.NotNil(t, repo.staff[2].LastLogin, "el login debe registrar el último acceso")
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	uc, _ := newAuthFixture(t)

	_, err := uc.Login(dto.LoginRequest{Username: "bruno", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente_MismoError(t *testing.T) {
	uc, _ := newAuthFixture(t)

	_, err := uc.Login(dto.LoginRequest{Username: "nadie", Password: "lo-que-sea"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized,
		"usuario inexistente y password incorrecto deben devolver el mismo error")
}
