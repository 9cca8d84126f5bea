package services

import (
	"errors"
	"testing"

	"github.com/freshtrio/backend/internal/dto"
	"github.com/freshtrio/backend/internal/models"
	"github.com/freshtrio/backend/internal/repository"
	"github.com/google/uuid"
)

func newOrderFixture(t *testing.T) (*OrderService, *repository.MemoryProductStore) {
	t.Helper()
	productStore := repository.NewMemoryProductStore()
	products := NewProductService(productStore, nil)
	return NewOrderService(repository.NewMemoryOrderStore(), products), productStore
}

func seedProduct(t *testing.T, store *repository.MemoryProductStore, name string, price float64, active bool) uuid.UUID {
	t.Helper()
	p := &models.Product{Name: name, Category: "produce", Price: price, IsActive: active}
	if err := store.Save(t.Context(), p); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p.ID
}

func TestOrderCreatePricesFromCatalog(t *testing.T) {
	orders, productStore := newOrderFixture(t)
	apples := seedProduct(t, productStore, "Apples", 2.50, true)
	milk := seedProduct(t, productStore, "Milk", 1.20, true)
	userID := uuid.New()

	order, err := orders.Create(t.Context(), userID, &dto.CreateOrderRequest{
		Items: []dto.OrderLineRequest{
			{ProductID: apples, Quantity: 3},
			{ProductID: milk, Quantity: 2},
		},
		DeliveryAddress: "12 Main St",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if order.Status != models.OrderPending {
		t.Errorf("new order status = %s, want PENDING", order.Status)
	}
	if order.PaymentStatus != models.PaymentPending {
		t.Errorf("new order payment status = %s, want PENDING", order.PaymentStatus)
	}
	if want := 3*2.50 + 2*1.20; order.TotalAmount != want {
		t.Errorf("total = %v, want %v", order.TotalAmount, want)
	}
	if order.PaymentMethod != "cash_on_delivery" {
		t.Errorf("default payment method = %q", order.PaymentMethod)
	}
}

func TestOrderCreateRejectsDeactivatedProduct(t *testing.T) {
	orders, productStore := newOrderFixture(t)
	gone := seedProduct(t, productStore, "Discontinued", 9.99, false)

	_, err := orders.Create(t.Context(), uuid.New(), &dto.CreateOrderRequest{
		Items:           []dto.OrderLineRequest{{ProductID: gone, Quantity: 1}},
		DeliveryAddress: "12 Main St",
	})
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("Create with deactivated product: err = %v, want ErrProductNotFound", err)
	}
}

func TestOrderCreateRejectsEmptyOrder(t *testing.T) {
	orders, _ := newOrderFixture(t)
	_, err := orders.Create(t.Context(), uuid.New(), &dto.CreateOrderRequest{
		DeliveryAddress: "12 Main St",
	})
	if !errors.Is(err, ErrEmptyOrder) {
		t.Fatalf("Create without items: err = %v, want ErrEmptyOrder", err)
	}
}

func placeOrder(t *testing.T, orders *OrderService, productStore *repository.MemoryProductStore, userID uuid.UUID) *models.Order {
	t.Helper()
	bread := seedProduct(t, productStore, "Bread", 3.00, true)
	order, err := orders.Create(t.Context(), userID, &dto.CreateOrderRequest{
		Items:           []dto.OrderLineRequest{{ProductID: bread, Quantity: 1}},
		DeliveryAddress: "12 Main St",
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	return order
}

func TestOrderVisibility(t *testing.T) {
	orders, productStore := newOrderFixture(t)
	owner := uuid.New()
	stranger := uuid.New()
	order := placeOrder(t, orders, productStore, owner)

	if _, err := orders.GetByID(t.Context(), order.ID, owner, false); err != nil {
		t.Fatalf("owner GetByID: %v", err)
	}
	if _, err := orders.GetByID(t.Context(), order.ID, stranger, false); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("stranger GetByID: err = %v, want ErrOrderNotFound", err)
	}
	if _, err := orders.GetByID(t.Context(), order.ID, stranger, true); err != nil {
		t.Fatalf("elevated GetByID: %v", err)
	}

	// Track follows the same visibility rule.
	if _, err := orders.Track(t.Context(), order.ID, stranger, false); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("stranger Track: err = %v, want ErrOrderNotFound", err)
	}
	tracking, err := orders.Track(t.Context(), order.ID, owner, false)
	if err != nil {
		t.Fatalf("owner Track: %v", err)
	}
	if tracking.Status != string(models.OrderPending) {
		t.Errorf("tracking status = %q, want PENDING", tracking.Status)
	}
}

func TestOrderCancelOnlyPendingByOwner(t *testing.T) {
	orders, productStore := newOrderFixture(t)
	owner := uuid.New()
	order := placeOrder(t, orders, productStore, owner)

	if _, err := orders.Cancel(t.Context(), order.ID, uuid.New()); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("stranger Cancel: err = %v, want ErrOrderNotFound", err)
	}

	cancelled, err := orders.Cancel(t.Context(), order.ID, owner)
	if err != nil {
		t.Fatalf("owner Cancel: %v", err)
	}
	if cancelled.Status != models.OrderCancelled {
		t.Errorf("status after cancel = %s, want CANCELLED", cancelled.Status)
	}

	// A second cancel finds a non-pending order.
	if _, err := orders.Cancel(t.Context(), order.ID, owner); !errors.Is(err, ErrOrderNotCancelled) {
		t.Fatalf("Cancel of cancelled order: err = %v, want ErrOrderNotCancelled", err)
	}

	delivered := placeOrder(t, orders, productStore, owner)
	if _, err := orders.UpdateStatus(t.Context(), delivered.ID, models.OrderDelivering); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if _, err := orders.Cancel(t.Context(), delivered.ID, owner); !errors.Is(err, ErrOrderNotCancelled) {
		t.Fatalf("Cancel of delivering order: err = %v, want ErrOrderNotCancelled", err)
	}
}

func TestOrderDeliverySettlesPayment(t *testing.T) {
	orders, productStore := newOrderFixture(t)
	owner := uuid.New()
	order := placeOrder(t, orders, productStore, owner)

	moved, err := orders.UpdateStatus(t.Context(), order.ID, models.OrderConfirmed)
	if err != nil {
		t.Fatalf("UpdateStatus CONFIRMED: %v", err)
	}
	if moved.PaymentStatus != models.PaymentPending {
		t.Errorf("payment after CONFIRMED = %s, want PENDING", moved.PaymentStatus)
	}

	moved, err = orders.UpdateStatus(t.Context(), order.ID, models.OrderDelivered)
	if err != nil {
		t.Fatalf("UpdateStatus DELIVERED: %v", err)
	}
	if moved.PaymentStatus != models.PaymentPaid {
		t.Errorf("payment after DELIVERED = %s, want PAID", moved.PaymentStatus)
	}

	// The settled state is persisted, not just returned.
	reloaded, err := orders.GetByID(t.Context(), order.ID, owner, false)
	if err != nil {
		t.Fatalf("GetByID after delivery: %v", err)
	}
	if reloaded.Status != models.OrderDelivered || reloaded.PaymentStatus != models.PaymentPaid {
		t.Errorf("reloaded order = %s/%s, want DELIVERED/PAID", reloaded.Status, reloaded.PaymentStatus)
	}

	if _, err := orders.UpdateStatus(t.Context(), uuid.New(), models.OrderConfirmed); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("UpdateStatus of unknown order: err = %v, want ErrOrderNotFound", err)
	}
}

func TestOrderListByUserIsScoped(t *testing.T) {
	orders, productStore := newOrderFixture(t)
	alice := uuid.New()
	bob := uuid.New()
	placeOrder(t, orders, productStore, alice)
	placeOrder(t, orders, productStore, alice)
	placeOrder(t, orders, productStore, bob)

	got, err := orders.ListByUser(t.Context(), alice)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListByUser returned %d orders, want 2", len(got))
	}
	for _, o := range got {
		if o.UserID != alice {
			t.Errorf("order %s belongs to %s, not the caller", o.ID, o.UserID)
		}
	}
}
