package stock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/joyeria-api/internal/application/stock"
	"github.com/jhoicas/joyeria-api/internal/domain"
	"github.com/jhoicas/joyeria-api/internal/domain/entity"
	"github.com/jhoicas/joyeria-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: repos + TxRunner con semántica de rollback por snapshot
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	units  map[entity.StockUnitKey]*entity.StockUnit
	jewels map[int64]*entity.Jewellery
	movs   []*entity.StockMovement
}

func newMemStore() *memStore {
	return &memStore{
		units:  make(map[entity.StockUnitKey]*entity.StockUnit),
		jewels: make(map[int64]*entity.Jewellery),
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for k, u := range s.units {
		cp := *u
		c.units[k] = &cp
	}
	for id, j := range s.jewels {
		cp := *j
		c.jewels[id] = &cp
	}
	c.movs = append(c.movs, s.movs...)
	return c
}

func (s *memStore) restore(from *memStore) {
	s.units = from.units
	s.jewels = from.jewels
	s.movs = from.movs
}

type memUnitRepo struct{ s *memStore }

func (r *memUnitRepo) Get(key entity.StockUnitKey) (*entity.StockUnit, error) {
	u, ok := r.s.units[key]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUnitRepo) GetForUpdate(key entity.StockUnitKey) (*entity.StockUnit, error) {
	return r.Get(key)
}

func (r *memUnitRepo) Insert(unit *entity.StockUnit) error {
	if _, ok := r.s.units[unit.Key()]; ok {
		return domain.ErrDuplicate
	}
	cp := *unit
	r.s.units[unit.Key()] = &cp
	return nil
}

func (r *memUnitRepo) UpdateQuantityStatus(key entity.StockUnitKey, quantity int64, status string, soldAt *time.Time) error {
	u, ok := r.s.units[key]
	if !ok {
		return domain.ErrNotFound
	}
	u.Quantity = quantity
	u.Status = status
	u.SoldAt = soldAt
	return nil
}

func (r *memUnitRepo) UpdateAttributes(unit *entity.StockUnit) error {
	u, ok := r.s.units[unit.Key()]
	if !ok {
		return domain.ErrNotFound
	}
	u.Weight = unit.Weight
	u.Size = unit.Size
	u.SoldPrice = unit.SoldPrice
	return nil
}

func (r *memUnitRepo) Delete(key entity.StockUnitKey) error {
	if _, ok := r.s.units[key]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.units, key)
	return nil
}

func (r *memUnitRepo) ListAll() ([]repository.StockUnitRow, error) {
	var rows []repository.StockUnitRow
	for _, u := range r.s.units {
		rows = append(rows, repository.StockUnitRow{StockUnit: *u})
	}
	return rows, nil
}

func (r *memUnitRepo) ListByJewellery(jewelleryID int64) ([]repository.StockUnitRow, error) {
	var rows []repository.StockUnitRow
	for _, u := range r.s.units {
		if u.JewelleryID == jewelleryID {
			rows = append(rows, repository.StockUnitRow{StockUnit: *u})
		}
	}
	return rows, nil
}

func (r *memUnitRepo) ListAvailable() ([]repository.StockUnitRow, error) {
	var rows []repository.StockUnitRow
	for _, u := range r.s.units {
		if u.Status == entity.StatusAvailable {
			rows = append(rows, repository.StockUnitRow{StockUnit: *u})
		}
	}
	return rows, nil
}

type memJewelleryRepo struct{ s *memStore }

func (r *memJewelleryRepo) GetByID(id int64) (*entity.Jewellery, error) {
	j, ok := r.s.jewels[id]
	if !ok {
		return nil, nil
	}
	cp := *j
	return &cp, nil
}

func (r *memJewelleryRepo) List() ([]*entity.Jewellery, error) { return nil, nil }
func (r *memJewelleryRepo) NextID() (int64, error) { return int64(len(r.s.jewels)) + 1, nil }

func (r *memJewelleryRepo) Create(j *entity.Jewellery) error {
	cp := *j
	r.s.jewels[j.JewelleryID] = &cp
	return nil
}

func (r *memJewelleryRepo) Update(j *entity.Jewellery) error { return nil }
func (r *memJewelleryRepo) Delete(id int64) error            { return nil }

func (r *memJewelleryRepo) AdjustQuantity(id int64, delta int64) error {
	j, ok := r.s.jewels[id]
	if !ok {
		return domain.ErrNotFound
	}
	j.Quantity += delta
	return nil
}

type memMovementRepo struct{ s *memStore }

func (r *memMovementRepo) Create(m *entity.StockMovement) error {
	cp := *m
	r.s.movs = append(r.s.movs, &cp)
	return nil
}

func (r *memMovementRepo) ListByUnit(key entity.StockUnitKey, limit int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movs {
		if m.JewelleryID == key.JewelleryID && m.ModelNo == key.ModelNo && m.UnitID == key.UnitID {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

// memTxRunner emula el contrato transaccional: si el callback falla, el estado
// vuelve al snapshot previo.
type memTxRunner struct{ s *memStore }

func (r *memTxRunner) Run(_ context.Context, fn func(
	unitRepo repository.StockUnitRepository,
	jewelleryRepo repository.JewelleryRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	snapshot := r.s.clone()
	err := fn(&memUnitRepo{s: r.s}, &memJewelleryRepo{s: r.s}, &memMovementRepo{s: r.s})
	if err != nil {
		r.s.restore(snapshot)
		return err
	}
	return nil
}

// memLockingTxRunner serializa las transacciones con un mutex, emulando el
// bloqueo de fila de SELECT FOR UPDATE: dos reservas en vuelo sobre la misma
// unidad se ejecutan una detrás de otra, nunca sobre el mismo valor leído.
type memLockingTxRunner struct {
	mu sync.Mutex
	s  *memStore
}

func (r *memLockingTxRunner) Run(ctx context.Context, fn func(
	unitRepo repository.StockUnitRepository,
	jewelleryRepo repository.JewelleryRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&memTxRunner{s: r.s}).Run(ctx, fn)
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var testKey = entity.StockUnitKey{JewelleryID: 1, ModelNo: "AN-01", UnitID: 1}

// newLedgerFixture prepara una joya con una unidad de qty unidades.
func newLedgerFixture(t *testing.T, qty int64) (*stock.Ledger, *memStore) {
	t.Helper()
	s := newMemStore()
	s.jewels[1] = &entity.Jewellery{JewelleryID: 1, Type: "Anillo", Quantity: qty}
	s.units[testKey] = &entity.StockUnit{
		JewelleryID: 1, ModelNo: "AN-01", UnitID: 1,
		Quantity: qty, Status: entity.DeriveStatus(qty),
	}
	return stock.NewLedger(&memTxRunner{s: s}), s
}

// checkInvariants verifica las dos reglas del ledger sobre el estado completo:
// estado coherente con la cantidad (salvo Reserved/Damaged) y agregado del
// catálogo igual a la suma de sus unidades.
func checkInvariants(t *testing.T, s *memStore) {
	t.Helper()
	sums := make(map[int64]int64)
	for _, u := range s.units {
		sums[u.JewelleryID] += u.Quantity
		switch u.Status {
		case entity.StatusReserved, entity.StatusDamaged:
			// exentos de la derivación
		case entity.StatusSold:
			assert.LessOrEqual(t, u.Quantity, int64(0), "unidad Sold debe tener cantidad <= 0")
		case entity.StatusAvailable:
			assert.Greater(t, u.Quantity, int64(0), "unidad Available debe tener cantidad > 0")
		default:
			t.Fatalf("estado desconocido %q", u.Status)
		}
	}
	for id, j := range s.jewels {
		assert.Equal(t, sums[id], j.Quantity,
			"el agregado de la joya %d debe igualar la suma de sus unidades", id)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Reserve / Release
// ──────────────────────────────────────────────────────────────────────────────

func TestReserve_DescuentaUnidadYAgregado(t *testing.T) {
	ledger, s := newLedgerFixture(t, 5)

	mv, err := ledger.Reserve(context.Background(), testKey, 2, "order:10", "ana")
	require.NoError(t, err)

	assert.Equal(t, int64(5), mv.PreviousQuantity)
	assert.Equal(t, int64(3), mv.NewQuantity)
	assert.Equal(t, entity.StatusAvailable, mv.NewStatus)
	assert.Equal(t, int64(3), s.jewels[1].Quantity)
	require.Len(t, s.movs, 1)
	assert.Equal(t, entity.MovementReserve, s.movs[0].Kind)
	assert.Equal(t, int64(-2), s.movs[0].Delta)
	assert.Equal(t, "order:10", s.movs[0].Reference)
	checkInvariants(t, s)
}

func TestReserve_AgotaUnidad_PasaASold(t *testing.T) {
	ledger, s := newLedgerFixture(t, 2)

	mv, err := ledger.Reserve(context.Background(), testKey, 2, "order:11", "ana")
	require.NoError(t, err)

	assert.Equal(t, int64(0), mv.NewQuantity)
	assert.Equal(t, entity.StatusSold, mv.NewStatus)
	assert.NotNil(t, s.units[testKey].SoldAt, "al entrar en Sold se sella sold_at")
	checkInvariants(t, s)
}

func TestReserve_InsuficienteNoMutaNada(t *testing.T) {
	ledger, s := newLedgerFixture(t, 3)

	_, err := ledger.Reserve(context.Background(), testKey, 4, "order:12", "ana")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// La cantidad jamás queda en negativo y nada cambió.
	assert.Equal(t, int64(3), s.units[testKey].Quantity)
	assert.Equal(t, int64(3), s.jewels[1].Quantity)
	assert.Empty(t, s.movs, "una reserva rechazada no deja movimiento")
	checkInvariants(t, s)
}

func TestReserve_CantidadNoPositiva_EsInvalida(t *testing.T) {
	ledger, _ := newLedgerFixture(t, 3)

	_, err := ledger.Reserve(context.Background(), testKey, 0, "order:13", "ana")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ledger.Reserve(context.Background(), testKey, -1, "order:13", "ana")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReserve_UnidadInexistente(t *testing.T) {
	ledger, _ := newLedgerFixture(t, 3)

	otra := entity.StockUnitKey{JewelleryID: 1, ModelNo: "AN-99", UnitID: 9}
	_, err := ledger.Reserve(context.Background(), otra, 1, "order:14", "ana")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReserve_ConcurrentesSobreLaMismaUnidad(t *testing.T) {
	// Dos reservas de 4 sobre una unidad de 5: con el bloqueo de fila solo
	// una puede concederse, la otra debe ver la cantidad ya descontada.
	s := newMemStore()
	s.jewels[1] = &entity.Jewellery{JewelleryID: 1, Type: "Anillo", Quantity: 5}
	s.units[testKey] = &entity.StockUnit{
		JewelleryID: 1, ModelNo: "AN-01", UnitID: 1,
		Quantity: 5, Status: entity.StatusAvailable,
	}
	ledger := stock.NewLedger(&memLockingTxRunner{s: s})

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.Reserve(context.Background(), testKey, 4, "order:77", "ana")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var concedidas, rechazadas int
	for err := range errs {
		if err == nil {
			concedidas++
			continue
		}
		require.ErrorIs(t, err, domain.ErrInsufficientStock)
		rechazadas++
	}
	assert.Equal(t, 1, concedidas, "exactamente una reserva debe concederse")
	assert.Equal(t, 1, rechazadas, "la otra debe rechazarse por stock insuficiente")

	assert.Equal(t, int64(1), s.units[testKey].Quantity,
		"cantidad final = inicial menos lo concedido, sin actualización perdida")
	assert.Equal(t, int64(1), s.jewels[1].Quantity)
	checkInvariants(t, s)
}

func TestRelease_RevierteLaReserva(t *testing.T) {
	ledger, s := newLedgerFixture(t, 2)

	_, err := ledger.Reserve(context.Background(), testKey, 2, "order:15", "ana")
	require.NoError(t, err)
	require.Equal(t, entity.StatusSold, s.units[testKey].Status)

	mv, err := ledger.Release(context.Background(), testKey, 2, "order:15", "ana")
	require.NoError(t, err)

	// Round-trip exacto: la devolución deja la unidad como estaba.
	assert.Equal(t, int64(2), mv.NewQuantity)
	assert.Equal(t, entity.StatusAvailable, mv.NewStatus)
	assert.Nil(t, s.units[testKey].SoldAt, "al volver a Available se limpia sold_at")
	assert.Equal(t, int64(2), s.jewels[1].Quantity)
	checkInvariants(t, s)
}

// ──────────────────────────────────────────────────────────────────────────────
// SetQuantity
// ──────────────────────────────────────────────────────────────────────────────

func TestSetQuantity_AjusteAbsoluto(t *testing.T) {
	ledger, s := newLedgerFixture(t, 5)

	mv, err := ledger.SetQuantity(context.Background(), testKey, 8, "admin1")
	require.NoError(t, err)

	assert.Equal(t, int64(8), mv.NewQuantity)
	assert.Equal(t, entity.StatusAvailable, mv.NewStatus)
	assert.Equal(t, int64(8), s.jewels[1].Quantity, "el agregado recibe el delta, no el absoluto")
	require.Len(t, s.movs, 1)
	assert.Equal(t, int64(3), s.movs[0].Delta)
	checkInvariants(t, s)
}

func TestSetQuantity_Cero_MarcaSold(t *testing.T) {
	ledger, s := newLedgerFixture(t, 5)

	mv, err := ledger.SetQuantity(context.Background(), testKey, 0, "admin1")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusSold, mv.NewStatus)
	assert.Equal(t, int64(0), s.jewels[1].Quantity)
	checkInvariants(t, s)
}

func TestSetQuantity_NegativaRechazada(t *testing.T) {
	ledger, s := newLedgerFixture(t, 5)

	_, err := ledger.SetQuantity(context.Background(), testKey, -1, "admin1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(5), s.units[testKey].Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// SetStatus — la única operación donde la cantidad sigue al estado
// ──────────────────────────────────────────────────────────────────────────────

func TestSetStatus_AvailableSobreAgotada_FuerzaCantidadUno(t *testing.T) {
	ledger, s := newLedgerFixture(t, 2)
	_, err := ledger.Reserve(context.Background(), testKey, 2, "order:20", "ana")
	require.NoError(t, err)

	mv, err := ledger.SetStatus(context.Background(), testKey, entity.StatusAvailable, "admin1")
	require.NoError(t, err)

	assert.Equal(t, int64(1), mv.NewQuantity, "Available sobre cantidad 0 fuerza cantidad 1")
	assert.Equal(t, int64(1), s.jewels[1].Quantity)
	checkInvariants(t, s)
}

func TestSetStatus_SoldConExistencias_FuerzaCantidadCero(t *testing.T) {
	ledger, s := newLedgerFixture(t, 4)

	mv, err := ledger.SetStatus(context.Background(), testKey, entity.StatusSold, "admin1")
	require.NoError(t, err)

	assert.Equal(t, int64(0), mv.NewQuantity, "Sold con existencias fuerza cantidad 0")
	assert.Equal(t, int64(0), s.jewels[1].Quantity)
	assert.NotNil(t, s.units[testKey].SoldAt)
	checkInvariants(t, s)
}

func TestSetStatus_DamagedNoTocaCantidad(t *testing.T) {
	ledger, s := newLedgerFixture(t, 4)

	mv, err := ledger.SetStatus(context.Background(), testKey, entity.StatusDamaged, "admin1")
	require.NoError(t, err)

	assert.Equal(t, int64(4), mv.NewQuantity)
	assert.Equal(t, entity.StatusDamaged, mv.NewStatus)
	assert.Equal(t, int64(4), s.jewels[1].Quantity)
	checkInvariants(t, s)
}

func TestSetStatus_ReservedNoTocaCantidad(t *testing.T) {
	ledger, s := newLedgerFixture(t, 4)

	mv, err := ledger.SetStatus(context.Background(), testKey, entity.StatusReserved, "admin1")
	require.NoError(t, err)

	assert.Equal(t, int64(4), mv.NewQuantity)
	assert.Equal(t, entity.StatusReserved, mv.NewStatus)
	checkInvariants(t, s)
}

func TestSetStatus_EstadoDesconocidoRechazado(t *testing.T) {
	ledger, _ := newLedgerFixture(t, 4)

	_, err := ledger.SetStatus(context.Background(), testKey, "Melted", "admin1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// RemoveUnit / AddUnit
// ──────────────────────────────────────────────────────────────────────────────

func TestRemoveUnit_RevierteAporteAlAgregado(t *testing.T) {
	ledger, s := newLedgerFixture(t, 5)

	err := ledger.RemoveUnit(context.Background(), testKey, "admin1")
	require.NoError(t, err)

	assert.NotContains(t, s.units, testKey)
	assert.Equal(t, int64(0), s.jewels[1].Quantity)
	require.Len(t, s.movs, 1)
	assert.Equal(t, entity.MovementRemove, s.movs[0].Kind)
	assert.Equal(t, int64(-5), s.movs[0].Delta)
	checkInvariants(t, s)
}

func TestRemoveUnit_Inexistente(t *testing.T) {
	ledger, _ := newLedgerFixture(t, 5)

	otra := entity.StockUnitKey{JewelleryID: 1, ModelNo: "AN-99", UnitID: 9}
	err := ledger.RemoveUnit(context.Background(), otra, "admin1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddUnit_SumaAlAgregado(t *testing.T) {
	ledger, s := newLedgerFixture(t, 5)

	nueva := &entity.StockUnit{JewelleryID: 1, ModelNo: "AN-02", UnitID: 1, Quantity: 3}
	err := ledger.AddUnit(context.Background(), nueva, "admin1")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusAvailable, nueva.Status, "estado derivado de la cantidad")
	assert.Equal(t, int64(8), s.jewels[1].Quantity)
	checkInvariants(t, s)
}

func TestAddUnit_CantidadCero_EntraComoSold(t *testing.T) {
	ledger, s := newLedgerFixture(t, 5)

	nueva := &entity.StockUnit{JewelleryID: 1, ModelNo: "AN-03", UnitID: 1, Quantity: 0}
	err := ledger.AddUnit(context.Background(), nueva, "admin1")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusSold, nueva.Status)
	assert.Equal(t, int64(5), s.jewels[1].Quantity, "cantidad cero no altera el agregado")
	checkInvariants(t, s)
}

func TestAddUnit_EstadoDamagedSeRespeta(t *testing.T) {
	ledger, s := newLedgerFixture(t, 5)

	nueva := &entity.StockUnit{
		JewelleryID: 1, ModelNo: "AN-04", UnitID: 1,
		Quantity: 2, Status: entity.StatusDamaged,
	}
	err := ledger.AddUnit(context.Background(), nueva, "admin1")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusDamaged, nueva.Status)
	assert.Equal(t, int64(7), s.jewels[1].Quantity)
	checkInvariants(t, s)
}

func TestAddUnit_JoyaInexistente(t *testing.T) {
	ledger, s := newLedgerFixture(t, 5)

	nueva := &entity.StockUnit{JewelleryID: 99, ModelNo: "AN-01", UnitID: 1, Quantity: 2}
	err := ledger.AddUnit(context.Background(), nueva, "admin1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, s.units, 1)
}

func TestAddUnit_SinModelo(t *testing.T) {
	ledger, _ := newLedgerFixture(t, 5)

	nueva := &entity.StockUnit{JewelleryID: 1, ModelNo: "", UnitID: 1, Quantity: 2}
	err := ledger.AddUnit(context.Background(), nueva, "admin1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Secuencias: el historial de movimientos reconstruye el estado
// ──────────────────────────────────────────────────────────────────────────────

func TestMovimientos_SumanAlEstadoFinal(t *testing.T) {
	ledger, s := newLedgerFixture(t, 10)
	ctx := context.Background()

	_, err := ledger.Reserve(ctx, testKey, 3, "order:30", "ana")
	require.NoError(t, err)
	_, err = ledger.Release(ctx, testKey, 1, "order:30", "ana")
	require.NoError(t, err)
	_, err = ledger.Reserve(ctx, testKey, 4, "order:31", "luis")
	require.NoError(t, err)

	var sum int64
	for _, m := range s.movs {
		sum += m.Delta
	}
	assert.Equal(t, int64(10)+sum, s.units[testKey].Quantity,
		"cantidad inicial más la suma de deltas debe dar la cantidad final")
	checkInvariants(t, s)
}
