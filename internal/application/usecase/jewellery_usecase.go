package usecase

import (
	"github.com/jhoicas/joyeria-api/internal/application/dto"
	"github.com/jhoicas/joyeria-api/internal/domain"
	"github.com/jhoicas/joyeria-api/internal/domain/entity"
	"github.com/jhoicas/joyeria-api/internal/domain/repository"
)

// JewelleryUseCase casos de uso CRUD para el catálogo. Quantity no es
// editable por esta vía: el agregado lo mantiene el ledger de stock.
type JewelleryUseCase struct {
	repo repository.JewelleryRepository
}

// NewJewelleryUseCase construye el caso de uso.
func NewJewelleryUseCase(repo repository.JewelleryRepository) *JewelleryUseCase {
	return &JewelleryUseCase{repo: repo}
}

// Create crea una joya con el siguiente id disponible. Quantity inicia en 0.
func (uc *JewelleryUseCase) Create(in dto.CreateJewelleryRequest) (*dto.JewelleryResponse, error) {
	if in.Type == "" {
		return nil, domain.ErrInvalidInput
	}
	id, err := uc.repo.NextID()
	if err != nil {
		return nil, err
	}
	j := &entity.Jewellery{
		JewelleryID: id,
		Type:        in.Type,
		Description: in.Description,
		HSN:         in.HSN,
		Quantity:    0,
	}
	if err := uc.repo.Create(j); err != nil {
		return nil, err
	}
	return toJewelleryResponse(j), nil
}

// GetByID obtiene una joya por id.
func (uc *JewelleryUseCase) GetByID(id int64) (*dto.JewelleryResponse, error) {
	j, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, domain.ErrNotFound
	}
	return toJewelleryResponse(j), nil
}

// List lista el catálogo completo.
func (uc *JewelleryUseCase) List() ([]dto.JewelleryResponse, error) {
	list, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	items := make([]dto.JewelleryResponse, 0, len(list))
	for _, j := range list {
		items = append(items, *toJewelleryResponse(j))
	}
	return items, nil
}

// NextID devuelve el siguiente id de joya para el formulario del SPA.
func (uc *JewelleryUseCase) NextID() (int64, error) {
	return uc.repo.NextID()
}

// Update actualiza tipo, descripción y HSN de una joya.
func (uc *JewelleryUseCase) Update(id int64, in dto.UpdateJewelleryRequest) (*dto.JewelleryResponse, error) {
	j, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, domain.ErrNotFound
	}
	if in.Type != nil {
		j.Type = *in.Type
	}
	if in.Description != nil {
		j.Description = *in.Description
	}
	if in.HSN != nil {
		j.HSN = *in.HSN
	}
	if err := uc.repo.Update(j); err != nil {
		return nil, err
	}
	return toJewelleryResponse(j), nil
}

// Delete elimina una joya del catálogo. Falla con ErrConflict si aún tiene
// unidades de stock (el repositorio traduce la violación de FK).
func (uc *JewelleryUseCase) Delete(id int64) error {
	j, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if j == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

func toJewelleryResponse(j *entity.Jewellery) *dto.JewelleryResponse {
	return &dto.JewelleryResponse{
		JewelleryID: j.JewelleryID,
		Type:        j.Type,
		Description: j.Description,
		HSN:         j.HSN,
		Quantity:    j.Quantity,
	}
}
