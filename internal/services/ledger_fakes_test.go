package services

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"storeroom_backend/internal/models"
	"storeroom_backend/internal/repositories"
)

// fakeStore is an in-memory stand-in for the Postgres tables. The gate mutex
// is held for the lifetime of each database transaction (see fakeDriver),
// which reproduces the serialization the real store provides through
// SELECT ... FOR UPDATE row locks.
type fakeStore struct {
	gate sync.Mutex

	mu            sync.Mutex
	cabinets      map[int64]models.Cabinet
	containers    map[string]models.Container
	transactions  []models.Transaction
	nextTxID      int64
	nextCabinetID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		cabinets:   map[int64]models.Cabinet{},
		containers: map[string]models.Container{},
	}
}

func (s *fakeStore) addCabinet(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCabinetID++
	s.cabinets[s.nextCabinetID] = models.Cabinet{ID: s.nextCabinetID, Name: name}
	return s.nextCabinetID
}

func (s *fakeStore) transactionsFor(containerID string) []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []models.Transaction
	for _, tx := range s.transactions {
		if tx.ContainerID == containerID {
			result = append(result, tx)
		}
	}
	return result
}

func (s *fakeStore) sumFor(containerID string) float64 {
	var sum float64
	for _, tx := range s.transactionsFor(containerID) {
		sum += tx.QuantityChange
	}
	return sum
}

// --- stub database/sql driver ---

type fakeDriver struct{ store *fakeStore }

func (d *fakeDriver) Open(string) (driver.Conn, error) { return &fakeConn{store: d.store}, nil }

type fakeConn struct{ store *fakeStore }

func (c *fakeConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("fake driver does not prepare statements")
}
func (c *fakeConn) Close() error { return nil }
func (c *fakeConn) Begin() (driver.Tx, error) {
	c.store.gate.Lock()
	return &fakeTx{store: c.store}, nil
}

type fakeTx struct{ store *fakeStore }

func (t *fakeTx) Commit() error   { t.store.gate.Unlock(); return nil }
func (t *fakeTx) Rollback() error { t.store.gate.Unlock(); return nil }

var fakeDriverSeq atomic.Int64

func newFakeDB(t *testing.T, store *fakeStore) *sql.DB {
	t.Helper()
	name := fmt.Sprintf("ledger_fake_%d", fakeDriverSeq.Add(1))
	sql.Register(name, &fakeDriver{store: store})
	db, err := sql.Open(name, "")
	if err != nil {
		t.Fatalf("open fake db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// --- fake repositories ---

type fakeCabinetRepo struct{ store *fakeStore }

func (r *fakeCabinetRepo) CreateCabinet(_ repositories.SQLExecutor, cabinet *models.Cabinet) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextCabinetID++
	cabinet.ID = r.store.nextCabinetID
	cabinet.CreatedAt = time.Now()
	cabinet.UpdatedAt = cabinet.CreatedAt
	r.store.cabinets[cabinet.ID] = *cabinet
	return cabinet.ID, nil
}

func (r *fakeCabinetRepo) GetCabinets() ([]models.Cabinet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cabinets := []models.Cabinet{}
	for _, cabinet := range r.store.cabinets {
		cabinets = append(cabinets, cabinet)
	}
	sort.Slice(cabinets, func(i, j int) bool { return cabinets[i].Name < cabinets[j].Name })
	return cabinets, nil
}

func (r *fakeCabinetRepo) GetCabinetByID(cabinetID int64) (*models.Cabinet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cabinet, ok := r.store.cabinets[cabinetID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &cabinet, nil
}

func (r *fakeCabinetRepo) UpdateCabinet(_ repositories.SQLExecutor, cabinet *models.Cabinet) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.cabinets[cabinet.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.store.cabinets[cabinet.ID] = *cabinet
	return nil
}

func (r *fakeCabinetRepo) DeleteCabinet(_ repositories.SQLExecutor, cabinetID int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.cabinets[cabinetID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.store.cabinets, cabinetID)
	for id, container := range r.store.containers {
		if container.CabinetID == cabinetID {
			delete(r.store.containers, id)
		}
	}
	return nil
}

func (r *fakeCabinetRepo) CountCabinets() (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return len(r.store.cabinets), nil
}

type fakeContainerRepo struct{ store *fakeStore }

func (r *fakeContainerRepo) CreateContainer(_ repositories.SQLExecutor, container *models.Container) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.cabinets[container.CabinetID]; !ok {
		return repositories.ErrForeignKeyViolation
	}
	if container.CreatedAt.IsZero() {
		container.CreatedAt = time.Now()
	}
	r.store.containers[container.ID] = *container
	return nil
}

func (r *fakeContainerRepo) GetContainerByID(containerID string) (*models.Container, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	container, ok := r.store.containers[containerID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	container.CabinetName = r.store.cabinets[container.CabinetID].Name
	return &container, nil
}

func (r *fakeContainerRepo) GetContainerForUpdate(_ repositories.SQLExecutor, containerID string) (*models.Container, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	container, ok := r.store.containers[containerID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &container, nil
}

func (r *fakeContainerRepo) UpdateQuantity(_ repositories.SQLExecutor, containerID string, newQuantity float64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	container, ok := r.store.containers[containerID]
	if !ok {
		return repositories.ErrNotFound
	}
	container.CurrentQuantity = newQuantity
	r.store.containers[containerID] = container
	return nil
}

func (r *fakeContainerRepo) GetContainers(cabinetID *int64) ([]models.Container, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	containers := []models.Container{}
	for _, container := range r.store.containers {
		if cabinetID != nil && container.CabinetID != *cabinetID {
			continue
		}
		container.CabinetName = r.store.cabinets[container.CabinetID].Name
		containers = append(containers, container)
	}
	sort.Slice(containers, func(i, j int) bool {
		if containers[i].CabinetName != containers[j].CabinetName {
			return containers[i].CabinetName < containers[j].CabinetName
		}
		return containers[i].Name < containers[j].Name
	})
	return containers, nil
}

func (r *fakeContainerRepo) UpdateContainer(_ repositories.SQLExecutor, container *models.Container) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	existing, ok := r.store.containers[container.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	existing.Name = container.Name
	existing.Unit = container.Unit
	existing.LowStockThreshold = container.LowStockThreshold
	existing.CabinetID = container.CabinetID
	r.store.containers[container.ID] = existing
	return nil
}

func (r *fakeContainerRepo) DeleteContainer(_ repositories.SQLExecutor, containerID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.containers[containerID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.store.containers, containerID)
	return nil
}

func (r *fakeContainerRepo) CountContainers(cabinetID *int64) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	count := 0
	for _, container := range r.store.containers {
		if cabinetID == nil || container.CabinetID == *cabinetID {
			count++
		}
	}
	return count, nil
}

func (r *fakeContainerRepo) GetMaterialsSummary(cabinetID *int64) ([]models.MaterialSummary, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	totals := map[[2]string]float64{}
	for _, container := range r.store.containers {
		if cabinetID != nil && container.CabinetID != *cabinetID {
			continue
		}
		totals[[2]string{container.Name, container.Unit}] += container.CurrentQuantity
	}
	summary := []models.MaterialSummary{}
	for key, total := range totals {
		summary = append(summary, models.MaterialSummary{Name: key[0], Unit: key[1], TotalQuantity: total})
	}
	sort.Slice(summary, func(i, j int) bool { return summary[i].Name < summary[j].Name })
	return summary, nil
}

func (r *fakeContainerRepo) GetLowStockContainers(cabinetID *int64) ([]models.Container, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	containers := []models.Container{}
	for _, container := range r.store.containers {
		if cabinetID != nil && container.CabinetID != *cabinetID {
			continue
		}
		if container.CurrentQuantity <= container.LowStockThreshold {
			container.CabinetName = r.store.cabinets[container.CabinetID].Name
			containers = append(containers, container)
		}
	}
	sort.Slice(containers, func(i, j int) bool { return containers[i].Name < containers[j].Name })
	return containers, nil
}

type fakeTransactionRepo struct{ store *fakeStore }

func (r *fakeTransactionRepo) CreateTransaction(_ repositories.SQLExecutor, transaction *models.Transaction) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.containers[transaction.ContainerID]; !ok {
		return 0, repositories.ErrForeignKeyViolation
	}
	r.store.nextTxID++
	transaction.ID = r.store.nextTxID
	if transaction.Timestamp.IsZero() {
		transaction.Timestamp = time.Now()
	}
	r.store.transactions = append(r.store.transactions, *transaction)
	return transaction.ID, nil
}

func (r *fakeTransactionRepo) GetTransactions(containerID *string) ([]models.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	transactions := []models.Transaction{}
	for _, transaction := range r.store.transactions {
		if containerID != nil && transaction.ContainerID != *containerID {
			continue
		}
		transactions = append(transactions, transaction)
	}
	sort.Slice(transactions, func(i, j int) bool { return transactions[i].ID > transactions[j].ID })
	return transactions, nil
}

func (r *fakeTransactionRepo) SumQuantityChanges(containerID string) (float64, error) {
	return r.store.sumFor(containerID), nil
}

// newTestLedger wires a LedgerService over the in-memory store.
func newTestLedger(t *testing.T) (LedgerService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	db := newFakeDB(t, store)
	svc := NewLedgerService(
		&fakeContainerRepo{store: store},
		&fakeTransactionRepo{store: store},
		&fakeCabinetRepo{store: store},
		db,
	)
	return svc, store
}
