package services

import (
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"storeroom_backend/internal/models"
)

func float64Ptr(v float64) *float64 { return &v }

func mustCreateContainer(t *testing.T, svc LedgerService, cabinetID int64, name, unit string, initial, threshold float64) *models.Container {
	t.Helper()
	container, err := svc.CreateContainer(CreateContainerRequest{
		Name:              name,
		Unit:              unit,
		LowStockThreshold: float64Ptr(threshold),
		InitialQuantity:   float64Ptr(initial),
		CabinetID:         cabinetID,
	}, 1)
	if err != nil {
		t.Fatalf("create container: %v", err)
	}
	return container
}

func TestCreateContainerRecordsInitialTransaction(t *testing.T) {
	svc, store := newTestLedger(t)
	cabinetID := store.addCabinet("Cabinet A")

	container := mustCreateContainer(t, svc, cabinetID, "Acetone", "l", 12.5, 2)

	if container.ID == "" {
		t.Fatal("expected generated container ID")
	}
	if container.CurrentQuantity != 12.5 {
		t.Fatalf("current quantity = %g, want 12.5", container.CurrentQuantity)
	}
	if container.InitialQuantity != 12.5 {
		t.Fatalf("initial quantity = %g, want 12.5", container.InitialQuantity)
	}

	transactions := store.transactionsFor(container.ID)
	if len(transactions) != 1 {
		t.Fatalf("expected exactly one transaction, got %d", len(transactions))
	}
	if transactions[0].TransactionType != models.TransactionInitial {
		t.Fatalf("transaction type = %s, want INITIAL", transactions[0].TransactionType)
	}
	if transactions[0].QuantityChange != 12.5 {
		t.Fatalf("quantity change = %g, want 12.5", transactions[0].QuantityChange)
	}
	if transactions[0].UserID == nil || *transactions[0].UserID != 1 {
		t.Fatal("expected acting user recorded on INITIAL transaction")
	}
}

func TestCreateContainerValidation(t *testing.T) {
	svc, store := newTestLedger(t)
	cabinetID := store.addCabinet("Cabinet A")

	cases := []struct {
		name string
		req  CreateContainerRequest
		want error
	}{
		{"empty name", CreateContainerRequest{Name: " ", Unit: "l", InitialQuantity: float64Ptr(1), CabinetID: cabinetID}, ErrValidation},
		{"empty unit", CreateContainerRequest{Name: "Acetone", Unit: "", InitialQuantity: float64Ptr(1), CabinetID: cabinetID}, ErrValidation},
		{"missing initial quantity", CreateContainerRequest{Name: "Acetone", Unit: "l", CabinetID: cabinetID}, ErrValidation},
		{"NaN initial quantity", CreateContainerRequest{Name: "Acetone", Unit: "l", InitialQuantity: float64Ptr(math.NaN()), CabinetID: cabinetID}, ErrValidation},
		{"infinite initial quantity", CreateContainerRequest{Name: "Acetone", Unit: "l", InitialQuantity: float64Ptr(math.Inf(1)), CabinetID: cabinetID}, ErrValidation},
		{"negative threshold", CreateContainerRequest{Name: "Acetone", Unit: "l", InitialQuantity: float64Ptr(1), LowStockThreshold: float64Ptr(-1), CabinetID: cabinetID}, ErrValidation},
		{"unknown cabinet", CreateContainerRequest{Name: "Acetone", Unit: "l", InitialQuantity: float64Ptr(1), CabinetID: 999}, ErrCabinetNotFound},
	}

	for _, tc := range cases {
		if _, err := svc.CreateContainer(tc.req, 1); !errors.Is(err, tc.want) {
			t.Errorf("%s: error = %v, want %v", tc.name, err, tc.want)
		}
	}

	// Negative initial quantities are tolerated (pre-existing data may rely
	// on it); only non-finite values are rejected.
	container, err := svc.CreateContainer(CreateContainerRequest{
		Name: "Correction", Unit: "pcs", InitialQuantity: float64Ptr(-3), CabinetID: cabinetID,
	}, 1)
	if err != nil {
		t.Fatalf("negative initial quantity rejected: %v", err)
	}
	if container.CurrentQuantity != -3 {
		t.Fatalf("current quantity = %g, want -3", container.CurrentQuantity)
	}
}

func TestLedgerInvariantHoldsAcrossOperations(t *testing.T) {
	svc, store := newTestLedger(t)
	cabinetID := store.addCabinet("Cabinet A")
	container := mustCreateContainer(t, svc, cabinetID, "Ethanol", "l", 50, 5)

	steps := []struct {
		op       string
		quantity float64
	}{
		{"write_off", 10},
		{"replenish", 4.5},
		{"write_off", 20},
		{"replenish", 0.5},
		{"write_off", 25},
	}

	for _, step := range steps {
		var err error
		var snapshot *models.Container
		if step.op == "write_off" {
			snapshot, err = svc.WriteOff(container.ID, float64Ptr(step.quantity), 1)
		} else {
			snapshot, err = svc.Replenish(container.ID, float64Ptr(step.quantity), 1)
		}
		if err != nil {
			t.Fatalf("%s %g: %v", step.op, step.quantity, err)
		}
		if sum := store.sumFor(container.ID); snapshot.CurrentQuantity != sum {
			t.Fatalf("after %s %g: current quantity %g != transaction sum %g",
				step.op, step.quantity, snapshot.CurrentQuantity, sum)
		}
		if snapshot.CurrentQuantity < 0 {
			t.Fatalf("after %s %g: negative quantity %g", step.op, step.quantity, snapshot.CurrentQuantity)
		}
	}
}

func TestWriteOffScenario(t *testing.T) {
	svc, store := newTestLedger(t)
	cabinetID := store.addCabinet("Cabinet A")
	container := mustCreateContainer(t, svc, cabinetID, "Methanol", "l", 100, 10)

	snapshot, err := svc.WriteOff(container.ID, float64Ptr(30), 1)
	if err != nil {
		t.Fatalf("write off 30: %v", err)
	}
	if snapshot.CurrentQuantity != 70 {
		t.Fatalf("current quantity = %g, want 70", snapshot.CurrentQuantity)
	}

	snapshot, err = svc.WriteOff(container.ID, float64Ptr(70), 1)
	if err != nil {
		t.Fatalf("write off 70: %v", err)
	}
	if snapshot.CurrentQuantity != 0 {
		t.Fatalf("current quantity = %g, want 0", snapshot.CurrentQuantity)
	}

	_, err = svc.WriteOff(container.ID, float64Ptr(1), 1)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("error = %v, want ErrInsufficientStock", err)
	}
	if !strings.Contains(err.Error(), "0") {
		t.Fatalf("error %q should mention the remaining quantity 0", err.Error())
	}

	// The failed write-off must leave no trace.
	transactions := store.transactionsFor(container.ID)
	if len(transactions) != 3 { // INITIAL + two write-offs
		t.Fatalf("expected 3 transactions, got %d", len(transactions))
	}
	current, err := svc.GetContainerByID(container.ID)
	if err != nil {
		t.Fatalf("get container: %v", err)
	}
	if current.CurrentQuantity != 0 {
		t.Fatalf("current quantity = %g, want 0 after failed write-off", current.CurrentQuantity)
	}
}

func TestQuantityValidationRejectsWithoutMutation(t *testing.T) {
	svc, store := newTestLedger(t)
	cabinetID := store.addCabinet("Cabinet A")
	container := mustCreateContainer(t, svc, cabinetID, "Toluene", "l", 10, 1)

	bad := []*float64{
		nil,
		float64Ptr(0),
		float64Ptr(-5),
		float64Ptr(math.NaN()),
		float64Ptr(math.Inf(1)),
	}

	for _, quantity := range bad {
		if _, err := svc.WriteOff(container.ID, quantity, 1); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("WriteOff(%v): error = %v, want ErrInvalidQuantity", quantity, err)
		}
		if _, err := svc.Replenish(container.ID, quantity, 1); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("Replenish(%v): error = %v, want ErrInvalidQuantity", quantity, err)
		}
	}

	if got := store.transactionsFor(container.ID); len(got) != 1 {
		t.Fatalf("expected only the INITIAL transaction, got %d", len(got))
	}
	current, _ := svc.GetContainerByID(container.ID)
	if current.CurrentQuantity != 10 {
		t.Fatalf("current quantity = %g, want 10 (unchanged)", current.CurrentQuantity)
	}
}

func TestConcurrentWriteOffsLoseNoUpdate(t *testing.T) {
	svc, store := newTestLedger(t)
	cabinetID := store.addCabinet("Cabinet A")
	container := mustCreateContainer(t, svc, cabinetID, "Acetone", "l", 100, 10)

	// Each write-off fits on its own; together they exceed the stock.
	// Exactly one must succeed.
	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.WriteOff(container.ID, float64Ptr(60), 1)
		}(i)
	}
	wg.Wait()

	var successes, insufficient int
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || insufficient != 1 {
		t.Fatalf("got %d successes and %d insufficient-stock failures, want 1 and 1", successes, insufficient)
	}

	current, _ := svc.GetContainerByID(container.ID)
	if current.CurrentQuantity != 40 {
		t.Fatalf("current quantity = %g, want 40", current.CurrentQuantity)
	}
	if sum := store.sumFor(container.ID); sum != 40 {
		t.Fatalf("transaction sum = %g, want 40", sum)
	}
}

func TestReplenishRecordsPositiveDelta(t *testing.T) {
	svc, store := newTestLedger(t)
	cabinetID := store.addCabinet("Cabinet A")
	container := mustCreateContainer(t, svc, cabinetID, "Hexane", "l", 5, 1)

	snapshot, err := svc.Replenish(container.ID, float64Ptr(2.5), 7)
	if err != nil {
		t.Fatalf("replenish: %v", err)
	}
	if snapshot.CurrentQuantity != 7.5 {
		t.Fatalf("current quantity = %g, want 7.5", snapshot.CurrentQuantity)
	}

	transactions := store.transactionsFor(container.ID)
	last := transactions[len(transactions)-1]
	if last.TransactionType != models.TransactionReplenish {
		t.Fatalf("transaction type = %s, want REPLENISH", last.TransactionType)
	}
	if last.QuantityChange != 2.5 {
		t.Fatalf("quantity change = %g, want +2.5", last.QuantityChange)
	}
	if last.UserID == nil || *last.UserID != 7 {
		t.Fatal("expected acting user recorded on REPLENISH transaction")
	}
}

func TestWriteOffUnknownContainer(t *testing.T) {
	svc, _ := newTestLedger(t)
	if _, err := svc.WriteOff("no-such-id", float64Ptr(1), 1); !errors.Is(err, ErrContainerNotFound) {
		t.Fatalf("error = %v, want ErrContainerNotFound", err)
	}
}
