package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"pharma-pos/internal/dto"
	"pharma-pos/internal/entities"
	"pharma-pos/internal/integrations/grab"
	"pharma-pos/internal/repositories"
	apperrors "pharma-pos/pkg/errors"
)

// Фейки держат состояние в памяти. Транзакционная семантика воспроизводится
// снапшотом: откат возвращает состояние целиком, как это делает БД.

type memState struct {
	orders map[string]entities.Order
	stock  map[string]int64
	nextID uint64
}

func stockKey(branchID uint64, productID string) string {
	return fmt.Sprintf("%d/%s", branchID, productID)
}

func newMemState() *memState {
	return &memState{
		orders: make(map[string]entities.Order),
		stock:  make(map[string]int64),
		nextID: 1,
	}
}

func (m *memState) snapshot() memState {
	orders := make(map[string]entities.Order, len(m.orders))
	for k, v := range m.orders {
		orders[k] = v
	}
	stock := make(map[string]int64, len(m.stock))
	for k, v := range m.stock {
		stock[k] = v
	}
	return memState{orders: orders, stock: stock, nextID: m.nextID}
}

type fakeTxManager struct {
	state *memState

	// beforeTx эмулирует чужую транзакцию, закоммиченную прямо перед нашей:
	// выполняется до снапшота, поэтому откат её не затрагивает.
	beforeTx func()
}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	if f.beforeTx != nil {
		hook := f.beforeTx
		f.beforeTx = nil
		hook()
	}
	snap := f.state.snapshot()
	if err := fn(nil); err != nil {
		*f.state = snap
		return err
	}
	return nil
}

type fakeOrderRepo struct {
	state *memState
}

func (f *fakeOrderRepo) UpsertFromGrab(ctx context.Context, tx pgx.Tx, branchID uint64, grabOrderID string, rawPayload []byte, scheduledTime null.Time, items []entities.OrderItem) (uint64, error) {
	if existing, ok := f.state.orders[grabOrderID]; ok {
		existing.Status = entities.StatusIncoming
		existing.GrabPayloadRaw = rawPayload
		existing.ScheduledTime = scheduledTime
		existing.Items = items
		f.state.orders[grabOrderID] = existing
		return existing.ID, nil
	}

	id := f.state.nextID
	f.state.nextID++
	f.state.orders[grabOrderID] = entities.Order{
		ID:             id,
		BranchID:       branchID,
		Status:         entities.StatusIncoming,
		GrabOrderID:    null.StringFrom(grabOrderID),
		GrabPayloadRaw: rawPayload,
		ScheduledTime:  scheduledTime,
		Items:          items,
	}
	return id, nil
}

func (f *fakeOrderRepo) FindByGrabID(ctx context.Context, q repositories.Querier, grabOrderID string) (*entities.Order, error) {
	order, ok := f.state.orders[grabOrderID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &order, nil
}

func (f *fakeOrderRepo) UpdateStatusFrom(ctx context.Context, q repositories.Querier, grabOrderID string, from []entities.OrderStatus, to entities.OrderStatus) error {
	order, ok := f.state.orders[grabOrderID]
	if !ok {
		return apperrors.ErrNotFound
	}
	for _, s := range from {
		if order.Status == s {
			order.Status = to
			f.state.orders[grabOrderID] = order
			return nil
		}
	}
	return fmt.Errorf("заказ %s в статусе %s: %w", grabOrderID, order.Status, apperrors.ErrInvalidStateTransition)
}

func (f *fakeOrderRepo) UpdateStatusByGrabID(ctx context.Context, grabOrderID string, status entities.OrderStatus) error {
	order, ok := f.state.orders[grabOrderID]
	if !ok {
		return apperrors.ErrNotFound
	}
	order.Status = status
	f.state.orders[grabOrderID] = order
	return nil
}

func (f *fakeOrderRepo) CreateOffline(ctx context.Context, tx pgx.Tx, branchID uint64, items []entities.OrderItem) (uint64, error) {
	id := f.state.nextID
	f.state.nextID++
	key := fmt.Sprintf("offline-%d", id)
	f.state.orders[key] = entities.Order{
		ID:       id,
		BranchID: branchID,
		Status:   entities.StatusPreparing,
		Items:    items,
	}
	return id, nil
}

func (f *fakeOrderRepo) GetOrders(ctx context.Context, filter repositories.OrderFilter) ([]entities.Order, uint64, error) {
	result := make([]entities.Order, 0)
	for _, order := range f.state.orders {
		if filter.Status != "" && string(order.Status) != filter.Status {
			continue
		}
		if len(filter.BranchIDs) > 0 {
			match := false
			for _, id := range filter.BranchIDs {
				if order.BranchID == id {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		result = append(result, order)
	}
	return result, uint64(len(result)), nil
}

type fakeInventoryRepo struct {
	state *memState
}

func (f *fakeInventoryRepo) DecreaseStock(ctx context.Context, q repositories.Querier, branchID uint64, productID string, qty int64) error {
	if qty < 0 {
		return apperrors.NewInvalidInputError("количество для списания не может быть отрицательным: %d", qty)
	}
	key := stockKey(branchID, productID)
	current, ok := f.state.stock[key]
	if !ok {
		return fmt.Errorf("товар %s в филиале %d: %w", productID, branchID, apperrors.ErrNotFound)
	}
	if current < qty {
		return fmt.Errorf("товар %s: запрошено %d, в наличии %d: %w",
			productID, qty, current, apperrors.ErrInsufficientStock)
	}
	f.state.stock[key] = current - qty
	return nil
}

func (f *fakeInventoryRepo) IncreaseStock(ctx context.Context, q repositories.Querier, branchID uint64, productID string, qty int64) error {
	if qty < 0 {
		return apperrors.NewInvalidInputError("количество для возврата не может быть отрицательным: %d", qty)
	}
	key := stockKey(branchID, productID)
	if _, ok := f.state.stock[key]; !ok {
		return fmt.Errorf("товар %s в филиале %d: %w", productID, branchID, apperrors.ErrNotFound)
	}
	f.state.stock[key] += qty
	return nil
}

func (f *fakeInventoryRepo) StockByBranch(ctx context.Context, branchID uint64) ([]entities.StockRow, error) {
	return f.StockByBranches(ctx, []uint64{branchID})
}

func (f *fakeInventoryRepo) StockByBranches(ctx context.Context, branchIDs []uint64) ([]entities.StockRow, error) {
	rows := make([]entities.StockRow, 0)
	for key, qty := range f.state.stock {
		var branchID uint64
		var productID string
		fmt.Sscanf(key, "%d/%s", &branchID, &productID)
		for _, id := range branchIDs {
			if branchID == id {
				rows = append(rows, entities.StockRow{
					BranchID:    branchID,
					ProductID:   productID,
					ProductName: productID,
					OpnameStock: qty,
				})
			}
		}
	}
	return rows, nil
}

func (f *fakeInventoryRepo) UpsertEntry(ctx context.Context, branchID uint64, productID string, qty int64) error {
	key := stockKey(branchID, productID)
	if _, ok := f.state.stock[key]; !ok {
		f.state.stock[key] = qty
	}
	return nil
}

type fakeBranchRepo struct {
	branches map[uint64]entities.Branch
}

func (f *fakeBranchRepo) GetBranches(ctx context.Context, kota string, limit, offset uint64) ([]entities.Branch, uint64, error) {
	result := make([]entities.Branch, 0, len(f.branches))
	for _, b := range f.branches {
		if kota == "" || b.Kota == kota {
			result = append(result, b)
		}
	}
	return result, uint64(len(result)), nil
}

func (f *fakeBranchRepo) FindBranch(ctx context.Context, id uint64) (*entities.Branch, error) {
	branch, ok := f.branches[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &branch, nil
}

func (f *fakeBranchRepo) FindByGrabMerchantID(ctx context.Context, q repositories.Querier, grabMerchantID string) (*entities.Branch, error) {
	for _, b := range f.branches {
		if b.GrabMerchantID == grabMerchantID {
			branch := b
			return &branch, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeBranchRepo) BranchIDsByKota(ctx context.Context, kota string) ([]uint64, error) {
	ids := make([]uint64, 0)
	for id, b := range f.branches {
		if b.Kota == kota {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeBranchRepo) CreateBranch(ctx context.Context, branch entities.Branch) (uint64, error) {
	id := uint64(len(f.branches) + 1)
	branch.ID = id
	f.branches[id] = branch
	return id, nil
}

func (f *fakeBranchRepo) UpdateBranch(ctx context.Context, id uint64, branch entities.Branch) error {
	existing, ok := f.branches[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	existing.BranchName = branch.BranchName
	existing.Kota = branch.Kota
	f.branches[id] = existing
	return nil
}

// fakeGrabProvider записывает исходящие вызовы и отвечает заданными ошибками.
type fakeGrabProvider struct {
	markErr        error
	cancelErr      error
	cancellable    *grab.CancellableResponse
	cancellableErr error

	markCalls   []string
	cancelCalls []string
}

func (f *fakeGrabProvider) MarkOrderReady(ctx context.Context, grabOrderID string) error {
	f.markCalls = append(f.markCalls, grabOrderID)
	return f.markErr
}

func (f *fakeGrabProvider) CheckCancellable(ctx context.Context, grabOrderID string) (*grab.CancellableResponse, error) {
	if f.cancellableErr != nil {
		return nil, f.cancellableErr
	}
	return f.cancellable, nil
}

func (f *fakeGrabProvider) CancelOrder(ctx context.Context, grabOrderID, merchantID, cancelCode string) error {
	f.cancelCalls = append(f.cancelCalls, grabOrderID)
	return f.cancelErr
}

func (f *fakeGrabProvider) ListMartCategories(ctx context.Context) (*grab.CategoriesResponse, error) {
	return &grab.CategoriesResponse{}, nil
}

type fakeCacheRepo struct {
	values map[string]string
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{values: make(map[string]string)}
}

func (f *fakeCacheRepo) Get(ctx context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", fmt.Errorf("ключ %s не найден", key)
	}
	return value, nil
}

func (f *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	f.values[key] = fmt.Sprint(value)
	return nil
}

func (f *fakeCacheRepo) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

type fakeMenuSyncRepo struct {
	logs []string
}

func (f *fakeMenuSyncRepo) InsertLog(ctx context.Context, jobID, partnerMerchantID, status string, errorsJSON []byte) error {
	f.logs = append(f.logs, jobID+"/"+status)
	return nil
}

// testEnv собирает сервисы поверх фейков для одного теста.
type testEnv struct {
	state         *memState
	txManager     *fakeTxManager
	orderRepo     *fakeOrderRepo
	inventoryRepo *fakeInventoryRepo
	branchRepo    *fakeBranchRepo
	grabProvider  *fakeGrabProvider
	cacheRepo     *fakeCacheRepo
	menuSyncRepo  *fakeMenuSyncRepo

	orderService   OrderServiceInterface
	webhookService WebhookServiceInterface
}

func newTestEnv() *testEnv {
	state := newMemState()
	txManager := &fakeTxManager{state: state}
	orderRepo := &fakeOrderRepo{state: state}
	inventoryRepo := &fakeInventoryRepo{state: state}
	branchRepo := &fakeBranchRepo{branches: map[uint64]entities.Branch{
		1: {ID: 1, BranchName: "Apotek Pusat", Kota: "Jakarta", GrabMerchantID: "MERCHANT-1"},
	}}
	grabProvider := &fakeGrabProvider{}
	cacheRepo := newFakeCacheRepo()
	menuSyncRepo := &fakeMenuSyncRepo{}
	logger := zap.NewNop()

	return &testEnv{
		state:         state,
		txManager:     txManager,
		orderRepo:     orderRepo,
		inventoryRepo: inventoryRepo,
		branchRepo:    branchRepo,
		grabProvider:  grabProvider,
		cacheRepo:     cacheRepo,
		menuSyncRepo:  menuSyncRepo,
		orderService: NewOrderService(
			txManager, orderRepo, inventoryRepo, branchRepo, grabProvider,
			cacheRepo, time.Minute, logger,
		),
		webhookService: NewWebhookService(txManager, orderRepo, branchRepo, menuSyncRepo, logger),
	}
}

// redeliverOrder эмулирует повторную доставку вебхука submit-order
// с новым составом позиций.
func (e *testEnv) redeliverOrder(grabOrderID string, items []dto.GrabOrderItemDTO) {
	payload := dto.SubmitOrderDTO{
		OrderID:           grabOrderID,
		PartnerMerchantID: "MERCHANT-1",
		Items:             items,
	}
	raw, _ := json.Marshal(payload)
	_, _ = e.orderRepo.UpsertFromGrab(context.Background(), nil, 1, grabOrderID, raw, null.Time{}, nil)
}

func (e *testEnv) setStock(branchID uint64, productID string, qty int64) {
	e.state.stock[stockKey(branchID, productID)] = qty
}

func (e *testEnv) stockOf(branchID uint64, productID string) int64 {
	return e.state.stock[stockKey(branchID, productID)]
}

// seedIncomingOrder кладёт заказ в состоянии INCOMING с заданными позициями.
func (e *testEnv) seedIncomingOrder(grabOrderID string, items []dto.GrabOrderItemDTO) {
	payload := dto.SubmitOrderDTO{
		OrderID:           grabOrderID,
		PartnerMerchantID: "MERCHANT-1",
		Items:             items,
	}
	raw, _ := json.Marshal(payload)
	e.state.orders[grabOrderID] = entities.Order{
		ID:             e.state.nextID,
		BranchID:       1,
		Status:         entities.StatusIncoming,
		GrabOrderID:    null.StringFrom(grabOrderID),
		GrabPayloadRaw: raw,
	}
	e.state.nextID++
}
