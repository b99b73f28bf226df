package orderControllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/OwaisShaikh-8/Instant-Meal/apperr"
	"github.com/OwaisShaikh-8/Instant-Meal/events"
	"github.com/OwaisShaikh-8/Instant-Meal/internal/testutil"
	"github.com/OwaisShaikh-8/Instant-Meal/models"
	"github.com/OwaisShaikh-8/Instant-Meal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

type fixture struct {
	db         *gorm.DB
	lc         *Lifecycle
	rec        *testutil.Recorder
	images     *storage.LocalStore
	uploads    string
	customer   *models.User
	vendor     *models.User
	restaurant *models.Restaurant
	karahi     *models.MenuItem
	lassi      *models.MenuItem
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	f := &fixture{db: testutil.NewDB(t), rec: &testutil.Recorder{}, uploads: t.TempDir()}

	var err error
	f.images, err = storage.NewLocalStore(f.uploads, "/uploads", 0)
	require.NoError(t, err)
	f.lc = NewLifecycle(f.db, f.images, f.rec, opts)

	f.customer = testutil.CreateUser(t, f.db, models.RoleCustomer, "sana@example.com")
	f.vendor = testutil.CreateUser(t, f.db, models.RoleVendor, "grill@example.com")
	f.restaurant = testutil.CreateRestaurant(t, f.db, f.vendor)
	f.karahi = testutil.CreateMenuItem(t, f.db, f.restaurant.ID, "karahi", 250)
	f.lassi = testutil.CreateMenuItem(t, f.db, f.restaurant.ID, "lassi", 170)
	return f
}

func ptr[T any](v T) *T { return &v }

func (f *fixture) itemsJSON(t *testing.T) string {
	raw, err := json.Marshal([]map[string]interface{}{
		{"id": f.karahi.ID, "name": "karahi", "description": "chicken", "price": 250, "quantity": 2,
			"image": map[string]string{"url": "/uploads/menu/k.png", "publicId": "menu/k.png"}},
		{"id": f.lassi.ID, "name": "lassi", "description": "sweet", "price": 170, "quantity": 1, "image": "/uploads/menu/l.png"},
	})
	require.NoError(t, err)
	return string(raw)
}

// diningRequest is two karahi and one lassi for dining: 670 + 33.5 tax.
func (f *fixture) diningRequest(t *testing.T) CreateOrderRequest {
	return CreateOrderRequest{
		RestaurantID:   f.restaurant.ID,
		RestaurantName: f.restaurant.Name,
		CustomerID:     f.customer.ID,
		CustomerName:   f.customer.Fullname,
		OrderType:      "dining",
		ArrivalTime:    "2026-10-16T19:30",
		Subtotal:       ptr(670.0),
		DeliveryFee:    ptr(0.0),
		Tax:            ptr(33.5),
		Total:          ptr(703.5),
		TotalItems:     ptr(3),
		Items:          f.itemsJSON(t),
		Proof:          testutil.FileHeader(t, "proof.png", testutil.PNG),
	}
}

func (f *fixture) place(t *testing.T, req CreateOrderRequest) *models.Order {
	t.Helper()
	order, err := f.lc.Create(context.Background(), req)
	require.NoError(t, err)
	return order
}

func TestCreateDiningOrder(t *testing.T) {
	f := newFixture(t, Options{VerifyTotals: true})

	order := f.place(t, f.diningRequest(t))

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 1, order.Version)
	assert.Equal(t, 670.0, order.Subtotal)
	assert.Equal(t, 0.0, order.DeliveryFee)
	assert.Equal(t, 33.5, order.Tax)
	assert.Equal(t, 703.5, order.Total)
	assert.Equal(t, 3, order.TotalItems)
	assert.Empty(t, order.DeliveryAddress)
	require.NotNil(t, order.ArrivalTime)
	assert.Equal(t, 19, order.ArrivalTime.Hour())

	stored, err := f.lc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, "karahi", stored.Items[0].Name)
	assert.Equal(t, "menu/k.png", stored.Items[0].Image.PublicID)
	assert.Equal(t, "/uploads/menu/l.png", stored.Items[1].Image.URL)

	assert.NotEmpty(t, stored.PaymentProof.PublicID)
	_, err = os.Stat(filepath.Join(f.uploads, filepath.FromSlash(stored.PaymentProof.PublicID)))
	assert.NoError(t, err, "screenshot is on disk")

	assert.Equal(t, []events.Type{events.OrderCreated}, f.rec.Types())
}

func TestCreateOrderFromBareItemSnapshot(t *testing.T) {
	for _, verify := range []bool{true, false} {
		t.Run(fmt.Sprintf("verify=%v", verify), func(t *testing.T) {
			f := newFixture(t, Options{VerifyTotals: verify})

			order := f.place(t, CreateOrderRequest{
				RestaurantID: f.restaurant.ID,
				CustomerID:   f.customer.ID,
				OrderType:    "dining",
				ArrivalTime:  "2026-02-13T19:47:00Z",
				Subtotal:     ptr(670.0),
				DeliveryFee:  ptr(0.0),
				Tax:          ptr(33.5),
				Total:        ptr(703.5),
				Items:        `[{"price":670,"quantity":1}]`,
				Proof:        testutil.FileHeader(t, "proof.png", testutil.PNG),
			})

			assert.Equal(t, models.OrderStatusPending, order.Status)
			assert.Equal(t, 703.5, order.Total)
			assert.Equal(t, 1, order.TotalItems)

			stored, err := f.lc.Get(context.Background(), order.ID)
			require.NoError(t, err)
			require.Len(t, stored.Items, 1)
			assert.Empty(t, stored.Items[0].Name)
			assert.Equal(t, 670.0, stored.Items[0].Price)
		})
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t, Options{VerifyTotals: true})

	cases := []struct {
		name   string
		mutate func(*CreateOrderRequest)
		msg    string
	}{
		{"no restaurant", func(r *CreateOrderRequest) { r.RestaurantID = "" }, "Missing required fields"},
		{"no proof", func(r *CreateOrderRequest) { r.Proof = nil }, "Missing required fields"},
		{"no type", func(r *CreateOrderRequest) { r.OrderType = "" }, "Missing required fields"},
		{"bad type", func(r *CreateOrderRequest) { r.OrderType = "takeaway" }, "Invalid order type 'takeaway'"},
		{"dining without arrival", func(r *CreateOrderRequest) { r.ArrivalTime = "" }, "Arrival time is required for pickup/dining orders"},
		{"pickup without arrival", func(r *CreateOrderRequest) { r.OrderType = "selfPickup"; r.ArrivalTime = "" }, "Arrival time is required for pickup/dining orders"},
		{"delivery without address", func(r *CreateOrderRequest) { r.OrderType = "delivery"; r.DeliveryAddress = "  " }, "Delivery address is required for delivery orders"},
		{"bad arrival", func(r *CreateOrderRequest) { r.ArrivalTime = "tonight" }, "Invalid arrival time"},
		{"bad items", func(r *CreateOrderRequest) { r.Items = "{oops" }, "Invalid items format"},
		{"no items", func(r *CreateOrderRequest) { r.Items = "[]" }, "Order must contain at least one item"},
		{"zero quantity", func(r *CreateOrderRequest) { r.Items = `[{"name":"naan","price":30,"quantity":0}]` }, "Invalid quantity for naan"},
		{"unnamed negative price", func(r *CreateOrderRequest) { r.Items = `[{"price":-1,"quantity":1}]` }, "Invalid price for item 1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := f.diningRequest(t)
			tc.mutate(&req)
			_, err := f.lc.Create(context.Background(), req)
			require.ErrorIs(t, err, apperr.ErrValidation)
			assert.Equal(t, tc.msg, err.Error())
		})
	}

	var count int64
	f.db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
	assert.Empty(t, f.rec.Events)

	entries, _ := os.ReadDir(filepath.Join(f.uploads, storage.FolderPayments))
	assert.Empty(t, entries, "nothing uploaded for rejected orders")
}

func TestCreateUnknownRestaurant(t *testing.T) {
	f := newFixture(t, Options{})
	req := f.diningRequest(t)
	req.RestaurantID = "nope"

	_, err := f.lc.Create(context.Background(), req)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateDeliveryClearsArrival(t *testing.T) {
	f := newFixture(t, Options{VerifyTotals: true})
	req := f.diningRequest(t)
	req.OrderType = "delivery"
	req.DeliveryAddress = "House 4, Clifton"
	req.DeliveryFee = ptr(50.0)
	req.Total = ptr(753.5)

	order := f.place(t, req)

	assert.Equal(t, "House 4, Clifton", order.DeliveryAddress)
	assert.Nil(t, order.ArrivalTime)
	assert.Equal(t, 50.0, order.DeliveryFee)
}

func TestCreateRejectsTamperedTotals(t *testing.T) {
	f := newFixture(t, Options{VerifyTotals: true})

	req := f.diningRequest(t)
	req.Total = ptr(10.0)
	_, err := f.lc.Create(context.Background(), req)
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "total")

	req = f.diningRequest(t)
	req.DeliveryFee = ptr(50.0)
	_, err = f.lc.Create(context.Background(), req)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	req = f.diningRequest(t)
	req.TotalItems = ptr(30)
	_, err = f.lc.Create(context.Background(), req)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateRejectsStaleMenuPrice(t *testing.T) {
	f := newFixture(t, Options{VerifyTotals: true})
	require.NoError(t, f.db.Model(f.karahi).Update("price", 300).Error)

	_, err := f.lc.Create(context.Background(), f.diningRequest(t))
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "karahi")
}

func TestCreateWithoutVerificationKeepsSubmittedAmounts(t *testing.T) {
	f := newFixture(t, Options{VerifyTotals: false})
	req := f.diningRequest(t)
	req.Total = ptr(1.0)

	order := f.place(t, req)
	assert.Equal(t, 1.0, order.Total)
}

func TestCreateFillsMissingAmounts(t *testing.T) {
	f := newFixture(t, Options{VerifyTotals: true})
	req := f.diningRequest(t)
	req.Subtotal, req.DeliveryFee, req.Tax, req.Total, req.TotalItems = nil, nil, nil, nil, nil

	order := f.place(t, req)
	assert.Equal(t, 670.0, order.Subtotal)
	assert.Equal(t, 33.5, order.Tax)
	assert.Equal(t, 703.5, order.Total)
	assert.Equal(t, 3, order.TotalItems)
}

func TestCreateRemovesScreenshotWhenInsertFails(t *testing.T) {
	f := newFixture(t, Options{})
	require.NoError(t, f.db.Migrator().DropTable(&models.OrderItem{}))

	_, err := f.lc.Create(context.Background(), f.diningRequest(t))
	require.Error(t, err)

	entries, _ := os.ReadDir(filepath.Join(f.uploads, storage.FolderPayments))
	assert.Empty(t, entries)
}

func TestItemsSnapshotSurvivesMenuEdits(t *testing.T) {
	f := newFixture(t, Options{VerifyTotals: true})
	order := f.place(t, f.diningRequest(t))

	require.NoError(t, f.db.Model(f.karahi).Updates(map[string]interface{}{"name": "mutton karahi", "price": 900}).Error)

	stored, err := f.lc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "karahi", stored.Items[0].Name)
	assert.Equal(t, 250.0, stored.Items[0].Price)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t, Options{})
	order := f.place(t, f.diningRequest(t))
	ctx := context.Background()

	updated, err := f.lc.UpdateStatus(ctx, order.ID, "accepted", nil)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusAccepted, updated.Status)
	assert.Equal(t, 2, updated.Version)
	assert.Len(t, updated.Items, 2)

	// permissive: backwards moves are allowed
	updated, err = f.lc.UpdateStatus(ctx, order.ID, "pending", nil)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, updated.Status)

	last := f.rec.Events[len(f.rec.Events)-1]
	assert.Equal(t, events.OrderStatusChanged, last.Type)
	assert.Equal(t, models.OrderStatusAccepted, last.PreviousStatus)
	assert.Equal(t, models.OrderStatusPending, last.Status)
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	f := newFixture(t, Options{})
	order := f.place(t, f.diningRequest(t))

	_, err := f.lc.UpdateStatus(context.Background(), order.ID, "shipped", nil)
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "Valid statuses: pending, accepted")

	_, err = f.lc.UpdateStatus(context.Background(), order.ID, "", nil)
	assert.EqualError(t, err, "Status is required")

	_, err = f.lc.UpdateStatus(context.Background(), "missing", "accepted", nil)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCancelledIsFinal(t *testing.T) {
	f := newFixture(t, Options{})
	order := f.place(t, f.diningRequest(t))
	ctx := context.Background()

	_, err := f.lc.UpdateStatus(ctx, order.ID, "cancelled", nil)
	require.NoError(t, err)

	for _, st := range models.AllOrderStatuses {
		_, err := f.lc.UpdateStatus(ctx, order.ID, string(st), nil)
		require.ErrorIs(t, err, apperr.ErrValidation, st)
		assert.Equal(t, "Cannot change status of a cancelled order", err.Error())
	}

	stored, err := f.lc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, stored.Status)
}

func TestDeliveryStatusesOnlyForDelivery(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	pickupReq := f.diningRequest(t)
	pickupReq.OrderType = "selfPickup"
	pickup := f.place(t, pickupReq)

	_, err := f.lc.UpdateStatus(ctx, pickup.ID, "handedToDelivery", nil)
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "Cannot set status to 'handedToDelivery' for selfPickup orders", err.Error())
	_, err = f.lc.UpdateStatus(ctx, pickup.ID, "outForDelivery", nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	deliveryReq := f.diningRequest(t)
	deliveryReq.OrderType = "delivery"
	deliveryReq.DeliveryAddress = "Clifton"
	deliveryReq.DeliveryFee, deliveryReq.Total = nil, nil
	delivery := f.place(t, deliveryReq)

	for _, st := range models.StatusChain[1:] {
		updated, err := f.lc.UpdateStatus(ctx, delivery.ID, string(st), nil)
		require.NoError(t, err, st)
		assert.Equal(t, st, updated.Status)
	}
}

func TestStrictTransitions(t *testing.T) {
	f := newFixture(t, Options{StrictTransitions: true})
	order := f.place(t, f.diningRequest(t))
	ctx := context.Background()

	_, err := f.lc.UpdateStatus(ctx, order.ID, "beingCooked", nil)
	require.NoError(t, err)

	_, err = f.lc.UpdateStatus(ctx, order.ID, "accepted", nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = f.lc.UpdateStatus(ctx, order.ID, "beingCooked", nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.lc.UpdateStatus(ctx, order.ID, "cancelled", nil)
	assert.NoError(t, err)
}

func TestUpdateStatusVersionConflict(t *testing.T) {
	f := newFixture(t, Options{})
	order := f.place(t, f.diningRequest(t))
	ctx := context.Background()

	// two editors both saw version 1
	_, err := f.lc.UpdateStatus(ctx, order.ID, "accepted", ptr(1))
	require.NoError(t, err)

	_, err = f.lc.UpdateStatus(ctx, order.ID, "cancelled", ptr(1))
	require.ErrorIs(t, err, apperr.ErrConflict)

	stored, err := f.lc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusAccepted, stored.Status)
	assert.Equal(t, 2, stored.Version)
}

func TestListsNewestFirst(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	first := f.place(t, f.diningRequest(t))
	second := f.place(t, f.diningRequest(t))
	require.NoError(t, f.db.Model(&models.Order{}).Where("id = ?", first.ID).
		Update("created_at", second.CreatedAt.Add(-60e9)).Error)

	other := testutil.CreateUser(t, f.db, models.RoleCustomer, "other@example.com")
	req := f.diningRequest(t)
	req.CustomerID = other.ID
	f.place(t, req)

	mine, err := f.lc.ListByCustomer(ctx, f.customer.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)
	assert.Len(t, mine[0].Items, 2)

	theirs, err := f.lc.ListByRestaurant(ctx, f.restaurant.ID)
	require.NoError(t, err)
	assert.Len(t, theirs, 3)

	none, err := f.lc.ListByCustomer(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	all, err := f.lc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDelete(t *testing.T) {
	f := newFixture(t, Options{})
	order := f.place(t, f.diningRequest(t))
	ctx := context.Background()

	_, err := f.lc.Delete(ctx, order.ID)
	require.NoError(t, err)

	_, err = f.lc.Get(ctx, order.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	var items int64
	f.db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&items)
	assert.Zero(t, items)

	_, err = f.lc.Delete(ctx, order.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.Equal(t, []events.Type{events.OrderCreated, events.OrderDeleted}, f.rec.Types())
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	f := newFixture(t, Options{})
	f.rec.Err = fmt.Errorf("broker down")

	order := f.place(t, f.diningRequest(t))
	_, err := f.lc.UpdateStatus(context.Background(), order.ID, "accepted", nil)
	assert.NoError(t, err)
}

func TestWriteOrdersWorkbook(t *testing.T) {
	f := newFixture(t, Options{})
	order := f.place(t, f.diningRequest(t))
	stored, err := f.lc.Get(context.Background(), order.ID)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteOrdersWorkbook(&buf, []models.Order{*stored}))

	book, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, book.Sheets, 1)
	rows := book.Sheets[0].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, "Order ID", rows[0].Cells[0].Value)
	assert.Equal(t, order.ID, rows[1].Cells[0].Value)
	assert.Equal(t, "2 x karahi, 1 x lassi", rows[1].Cells[5].Value)
}
