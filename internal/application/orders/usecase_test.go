package orders_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/joyeria-api/internal/application/dto"
	"github.com/jhoicas/joyeria-api/internal/application/orders"
	"github.com/jhoicas/joyeria-api/internal/application/stock"
	"github.com/jhoicas/joyeria-api/internal/domain"
	"github.com/jhoicas/joyeria-api/internal/domain/entity"
	"github.com/jhoicas/joyeria-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria con semántica transaccional por snapshot
// ──────────────────────────────────────────────────────────────────────────────

type orderStore struct {
	units     map[entity.StockUnitKey]*entity.StockUnit
	jewels    map[int64]*entity.Jewellery
	movs      []*entity.StockMovement
	orders    map[int64]*entity.Order
	details   map[int64][]entity.OrderDetail
	customers map[int64]*entity.Customer
}

func newOrderStore() *orderStore {
	return &orderStore{
		units:     make(map[entity.StockUnitKey]*entity.StockUnit),
		jewels:    make(map[int64]*entity.Jewellery),
		orders:    make(map[int64]*entity.Order),
		details:   make(map[int64][]entity.OrderDetail),
		customers: make(map[int64]*entity.Customer),
	}
}

func (s *orderStore) clone() *orderStore {
	c := newOrderStore()
	for k, u := range s.units {
		cp := *u
		c.units[k] = &cp
	}
	for id, j := range s.jewels {
		cp := *j
		c.jewels[id] = &cp
	}
	c.movs = append(c.movs, s.movs...)
	for id, o := range s.orders {
		cp := *o
		c.orders[id] = &cp
	}
	for id, ds := range s.details {
		c.details[id] = append([]entity.OrderDetail(nil), ds...)
	}
	for id, cu := range s.customers {
		cp := *cu
		c.customers[id] = &cp
	}
	return c
}

func (s *orderStore) restore(from *orderStore) {
	s.units = from.units
	s.jewels = from.jewels
	s.movs = from.movs
	s.orders = from.orders
	s.details = from.details
	s.customers = from.customers
}

type fakeUnitRepo struct{ s *orderStore }

func (r *fakeUnitRepo) Get(key entity.StockUnitKey) (*entity.StockUnit, error) {
	u, ok := r.s.units[key]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUnitRepo) GetForUpdate(key entity.StockUnitKey) (*entity.StockUnit, error) {
	return r.Get(key)
}

func (r *fakeUnitRepo) Insert(unit *entity.StockUnit) error {
	cp := *unit
	r.s.units[unit.Key()] = &cp
	return nil
}

func (r *fakeUnitRepo) UpdateQuantityStatus(key entity.StockUnitKey, quantity int64, status string, soldAt *time.Time) error {
	u, ok := r.s.units[key]
	if !ok {
		return domain.ErrNotFound
	}
	u.Quantity = quantity
	u.Status = status
	u.SoldAt = soldAt
	return nil
}

func (r *fakeUnitRepo) UpdateAttributes(unit *entity.StockUnit) error { return nil }

func (r *fakeUnitRepo) Delete(key entity.StockUnitKey) error {
	delete(r.s.units, key)
	return nil
}

func (r *fakeUnitRepo) ListAll() ([]repository.StockUnitRow, error) { return nil, nil }
func (r *fakeUnitRepo) ListByJewellery(int64) ([]repository.StockUnitRow, error) { return nil, nil }
func (r *fakeUnitRepo) ListAvailable() ([]repository.StockUnitRow, error) { return nil, nil }

type fakeJewelleryRepo struct{ s *orderStore }

func (r *fakeJewelleryRepo) GetByID(id int64) (*entity.Jewellery, error) {
	j, ok := r.s.jewels[id]
	if !ok {
		return nil, nil
	}
	cp := *j
	return &cp, nil
}

func (r *fakeJewelleryRepo) List() ([]*entity.Jewellery, error) { return nil, nil }
func (r *fakeJewelleryRepo) NextID() (int64, error) { return 0, nil }
func (r *fakeJewelleryRepo) Create(*entity.Jewellery) error     { return nil }
func (r *fakeJewelleryRepo) Update(*entity.Jewellery) error     { return nil }
func (r *fakeJewelleryRepo) Delete(int64) error                 { return nil }

func (r *fakeJewelleryRepo) AdjustQuantity(id int64, delta int64) error {
	j, ok := r.s.jewels[id]
	if !ok {
		return domain.ErrNotFound
	}
	j.Quantity += delta
	return nil
}

type fakeMovementRepo struct{ s *orderStore }

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	cp := *m
	r.s.movs = append(r.s.movs, &cp)
	return nil
}

func (r *fakeMovementRepo) ListByUnit(entity.StockUnitKey, int) ([]*entity.StockMovement, error) {
	return nil, nil
}

type fakeOrderRepo struct{ s *orderStore }

func (r *fakeOrderRepo) GetByID(id int64) (*repository.OrderRow, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	row := repository.OrderRow{Order: *o}
	if c, ok := r.s.customers[o.CustID]; ok {
		row.CustName = c.CustName
	}
	return &row, nil
}

func (r *fakeOrderRepo) GetDetails(orderID int64) ([]repository.OrderDetailRow, error) {
	var rows []repository.OrderDetailRow
	for _, d := range r.s.details[orderID] {
		rows = append(rows, repository.OrderDetailRow{OrderDetail: d})
	}
	return rows, nil
}

func (r *fakeOrderRepo) List() ([]repository.OrderRow, error) {
	var rows []repository.OrderRow
	for id := range r.s.orders {
		row, _ := r.GetByID(id)
		rows = append(rows, *row)
	}
	return rows, nil
}

func (r *fakeOrderRepo) NextID() (int64, error) {
	var max int64
	for id := range r.s.orders {
		if id > max {
			max = id
		}
	}
	return max + 1, nil
}

func (r *fakeOrderRepo) CreateHeader(o *entity.Order) error {
	if _, ok := r.s.orders[o.OrderID]; ok {
		return domain.ErrDuplicate
	}
	cp := *o
	r.s.orders[o.OrderID] = &cp
	return nil
}

func (r *fakeOrderRepo) UpdateHeader(o *entity.Order) error {
	if _, ok := r.s.orders[o.OrderID]; !ok {
		return domain.ErrNotFound
	}
	cp := *o
	r.s.orders[o.OrderID] = &cp
	return nil
}

func (r *fakeOrderRepo) CreateDetail(d *entity.OrderDetail) error {
	r.s.details[d.OrderID] = append(r.s.details[d.OrderID], *d)
	return nil
}

func (r *fakeOrderRepo) DeleteDetails(orderID int64) error {
	delete(r.s.details, orderID)
	return nil
}

func (r *fakeOrderRepo) Delete(id int64) error {
	if _, ok := r.s.orders[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.orders, id)
	return nil
}

type fakeCustomerRepo struct{ s *orderStore }

func (r *fakeCustomerRepo) GetByID(id int64) (*entity.Customer, error) {
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCustomerRepo) List() ([]*entity.Customer, error) { return nil, nil }
func (r *fakeCustomerRepo) NextID() (int64, error) { return 0, nil }
func (r *fakeCustomerRepo) Create(*entity.Customer) error     { return nil }
func (r *fakeCustomerRepo) Update(*entity.Customer) error     { return nil }
func (r *fakeCustomerRepo) Delete(int64) error                { return nil }
func (r *fakeCustomerRepo) CountOrders(int64) (int64, error) { return 0, nil }

// fakeTxRunner implementa ambos contratos transaccionales sobre el mismo
// estado. conflictsLeft simula fallos de serialización en el commit: el
// trabajo del callback se descarta y se devuelve ErrConflict.
type fakeTxRunner struct {
	s             *orderStore
	conflictsLeft int
	attempts      int
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	unitRepo repository.StockUnitRepository,
	jewelleryRepo repository.JewelleryRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	snapshot := r.s.clone()
	err := fn(&fakeUnitRepo{s: r.s}, &fakeJewelleryRepo{s: r.s}, &fakeMovementRepo{s: r.s})
	if err != nil {
		r.s.restore(snapshot)
		return err
	}
	return nil
}

func (r *fakeTxRunner) RunOrder(_ context.Context, fn func(
	orderRepo repository.OrderRepository,
	unitRepo repository.StockUnitRepository,
	jewelleryRepo repository.JewelleryRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	r.attempts++
	snapshot := r.s.clone()
	err := fn(&fakeOrderRepo{s: r.s}, &fakeUnitRepo{s: r.s}, &fakeJewelleryRepo{s: r.s}, &fakeMovementRepo{s: r.s})
	if err != nil {
		r.s.restore(snapshot)
		return err
	}
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		r.s.restore(snapshot)
		return domain.ErrConflict
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

func key(model string) entity.StockUnitKey {
	return entity.StockUnitKey{JewelleryID: 1, ModelNo: model, UnitID: 1}
}

// newOrderFixture prepara un cliente, una joya y tres unidades (5, 3 y 1).
func newOrderFixture(t *testing.T) (*orders.OrderUseCase, *orderStore, *fakeTxRunner) {
	t.Helper()
	s := newOrderStore()
	s.customers[7] = &entity.Customer{CustID: 7, CustName: "María", PhoneNo: "555", Email: "maria@example.com"}
	s.jewels[1] = &entity.Jewellery{JewelleryID: 1, Type: "Anillo", Quantity: 9}
	for model, qty := range map[string]int64{"AN-01": 5, "AN-02": 3, "AN-03": 1} {
		s.units[key(model)] = &entity.StockUnit{
			JewelleryID: 1, ModelNo: model, UnitID: 1,
			Quantity: qty, Status: entity.StatusAvailable,
		}
	}
	runner := &fakeTxRunner{s: s}
	ledger := stock.NewLedger(runner)
	uc := orders.NewOrderUseCase(runner, ledger, &fakeOrderRepo{s: s}, &fakeCustomerRepo{s: s})
	return uc, s, runner
}

func detailReq(model string, qty int64) dto.OrderDetailRequest {
	return dto.OrderDetailRequest{
		JewelleryID: 1, ModelNo: model, UnitID: 1,
		Quantity: qty, Amount: decimal.NewFromInt(1000),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ReservaTodasLasLineas(t *testing.T) {
	uc, s, _ := newOrderFixture(t)

	id, err := uc.Create(context.Background(), dto.CreateOrderRequest{
		CustID:     7,
		TotalPrice: decimal.NewFromInt(3000),
		Details:    []dto.OrderDetailRequest{detailReq("AN-01", 2), detailReq("AN-03", 1)},
	}, "ana")
	require.NoError(t, err)
	require.NotZero(t, id)

	assert.Equal(t, int64(3), s.units[key("AN-01")].Quantity)
	assert.Equal(t, int64(0), s.units[key("AN-03")].Quantity)
	assert.Equal(t, entity.StatusSold, s.units[key("AN-03")].Status)
	assert.Equal(t, int64(6), s.jewels[1].Quantity)
	assert.Len(t, s.details[id], 2)
	assert.Len(t, s.movs, 2, "una reserva por línea")
}

func TestCreate_LineaInsuficiente_NoPersisteNada(t *testing.T) {
	uc, s, _ := newOrderFixture(t)

	// La tercera línea pide 2 de una unidad con 1: la transacción entera cae.
	_, err := uc.Create(context.Background(), dto.CreateOrderRequest{
		CustID:  7,
		Details: []dto.OrderDetailRequest{detailReq("AN-01", 2), detailReq("AN-02", 1), detailReq("AN-03", 2)},
	}, "ana")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Empty(t, s.orders, "sin cabecera")
	assert.Empty(t, s.details, "sin líneas")
	assert.Empty(t, s.movs, "sin movimientos")
	assert.Equal(t, int64(5), s.units[key("AN-01")].Quantity, "las líneas previas se revierten")
	assert.Equal(t, int64(9), s.jewels[1].Quantity)
}

func TestCreate_ClienteInexistente(t *testing.T) {
	uc, _, _ := newOrderFixture(t)

	_, err := uc.Create(context.Background(), dto.CreateOrderRequest{
		CustID:  99,
		Details: []dto.OrderDetailRequest{detailReq("AN-01", 1)},
	}, "ana")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_CantidadNoPositiva(t *testing.T) {
	uc, _, _ := newOrderFixture(t)

	_, err := uc.Create(context.Background(), dto.CreateOrderRequest{
		CustID:  7,
		Details: []dto.OrderDetailRequest{detailReq("AN-01", 0)},
	}, "ana")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_SinOrderID_AsignaElSiguiente(t *testing.T) {
	uc, s, _ := newOrderFixture(t)
	s.orders[41] = &entity.Order{OrderID: 41, CustID: 7}

	id, err := uc.Create(context.Background(), dto.CreateOrderRequest{
		CustID:  7,
		Details: []dto.OrderDetailRequest{detailReq("AN-01", 1)},
	}, "ana")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id, "MAX+1 sobre los pedidos existentes")
}

func TestCreate_ReintentaUnaVezTrasConflicto(t *testing.T) {
	uc, s, runner := newOrderFixture(t)
	runner.conflictsLeft = 1

	_, err := uc.Create(context.Background(), dto.CreateOrderRequest{
		CustID:  7,
		Details: []dto.OrderDetailRequest{detailReq("AN-01", 2)},
	}, "ana")
	require.NoError(t, err, "un único conflicto de serialización se reintenta")
	assert.Equal(t, 2, runner.attempts)
	assert.Equal(t, int64(3), s.units[key("AN-01")].Quantity)
}

func TestCreate_DosConflictos_Propaga(t *testing.T) {
	uc, s, runner := newOrderFixture(t)
	runner.conflictsLeft = 2

	_, err := uc.Create(context.Background(), dto.CreateOrderRequest{
		CustID:  7,
		Details: []dto.OrderDetailRequest{detailReq("AN-01", 2)},
	}, "ana")
	require.ErrorIs(t, err, domain.ErrConflict, "solo se reintenta una vez")
	assert.Equal(t, 2, runner.attempts)
	assert.Equal(t, int64(5), s.units[key("AN-01")].Quantity, "sin efectos tras el fallo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Update / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_LiberaLineasViejasYReservaNuevas(t *testing.T) {
	uc, s, _ := newOrderFixture(t)

	id, err := uc.Create(context.Background(), dto.CreateOrderRequest{
		CustID:  7,
		Details: []dto.OrderDetailRequest{detailReq("AN-01", 3)},
	}, "ana")
	require.NoError(t, err)
	require.Equal(t, int64(2), s.units[key("AN-01")].Quantity)

	err = uc.Update(context.Background(), id, dto.UpdateOrderRequest{
		CustID:  7,
		Details: []dto.OrderDetailRequest{detailReq("AN-02", 2)},
	}, "ana")
	require.NoError(t, err)

	assert.Equal(t, int64(5), s.units[key("AN-01")].Quantity, "la línea vieja se libera")
	assert.Equal(t, int64(1), s.units[key("AN-02")].Quantity, "la nueva se reserva")
	assert.Equal(t, int64(6), s.jewels[1].Quantity)
	require.Len(t, s.details[id], 1)
	assert.Equal(t, "AN-02", s.details[id][0].ModelNo)
}

func TestUpdate_MismaUnidadConMasCantidad(t *testing.T) {
	uc, s, _ := newOrderFixture(t)

	// Se reserva toda la unidad y después se edita a la misma cantidad: la
	// liberación previa dentro de la transacción deja hueco para re-reservar.
	id, err := uc.Create(context.Background(), dto.CreateOrderRequest{
		CustID:  7,
		Details: []dto.OrderDetailRequest{detailReq("AN-01", 5)},
	}, "ana")
	require.NoError(t, err)
	require.Equal(t, int64(0), s.units[key("AN-01")].Quantity)

	err = uc.Update(context.Background(), id, dto.UpdateOrderRequest{
		CustID:  7,
		Details: []dto.OrderDetailRequest{detailReq("AN-01", 4)},
	}, "ana")
	require.NoError(t, err)

	assert.Equal(t, int64(1), s.units[key("AN-01")].Quantity)
	assert.Equal(t, entity.StatusAvailable, s.units[key("AN-01")].Status)
}

func TestUpdate_NuevaLineaInsuficiente_RestauraTodo(t *testing.T) {
	uc, s, _ := newOrderFixture(t)

	id, err := uc.Create(context.Background(), dto.CreateOrderRequest{
		CustID:  7,
		Details: []dto.OrderDetailRequest{detailReq("AN-01", 3)},
	}, "ana")
	require.NoError(t, err)

	err = uc.Update(context.Background(), id, dto.UpdateOrderRequest{
		CustID:  7,
		Details: []dto.OrderDetailRequest{detailReq("AN-02", 99)},
	}, "ana")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// El pedido y sus reservas quedan como antes del intento de edición.
	assert.Equal(t, int64(2), s.units[key("AN-01")].Quantity)
	assert.Equal(t, int64(3), s.units[key("AN-02")].Quantity)
	require.Len(t, s.details[id], 1)
	assert.Equal(t, "AN-01", s.details[id][0].ModelNo)
}

func TestUpdate_PedidoInexistente(t *testing.T) {
	uc, _, _ := newOrderFixture(t)

	err := uc.Update(context.Background(), 404, dto.UpdateOrderRequest{
		CustID:  7,
		Details: []dto.OrderDetailRequest{detailReq("AN-01", 1)},
	}, "ana")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_DevuelveTodoElStock(t *testing.T) {
	uc, s, _ := newOrderFixture(t)

	id, err := uc.Create(context.Background(), dto.CreateOrderRequest{
		CustID:  7,
		Details: []dto.OrderDetailRequest{detailReq("AN-01", 2), detailReq("AN-03", 1)},
	}, "ana")
	require.NoError(t, err)

	err = uc.Delete(context.Background(), id, "ana")
	require.NoError(t, err)

	assert.NotContains(t, s.orders, id)
	assert.Empty(t, s.details[id])
	assert.Equal(t, int64(5), s.units[key("AN-01")].Quantity)
	assert.Equal(t, int64(1), s.units[key("AN-03")].Quantity)
	assert.Equal(t, entity.StatusAvailable, s.units[key("AN-03")].Status)
	assert.Equal(t, int64(9), s.jewels[1].Quantity)
}

func TestGetByID_IncluyeLineasYCliente(t *testing.T) {
	uc, _, _ := newOrderFixture(t)

	id, err := uc.Create(context.Background(), dto.CreateOrderRequest{
		CustID:     7,
		TotalPrice: decimal.NewFromInt(2000),
		Details:    []dto.OrderDetailRequest{detailReq("AN-01", 2)},
	}, "ana")
	require.NoError(t, err)

	out, err := uc.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, "María", out.CustName)
	require.Len(t, out.Details, 1)
	assert.Equal(t, int64(2), out.Details[0].Quantity)
}
