package models

import (
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/shopadmin/backend/internal/domain/access"
	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/order"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTime(t *testing.T) {
	want := time.Date(2024, 2, 29, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   any
		want time.Time
	}{
		{"timestamp", want, want},
		{"rfc3339 string", "2024-02-29T10:30:00Z", want},
		{"millis int", want.UnixMilli(), want},
		{"millis float", float64(want.UnixMilli()), want},
		{"seconds map", map[string]any{"seconds": want.Unix(), "nanoseconds": int64(0)}, want},
		{"date only", "2024-02-29", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"nil", nil, time.Time{}},
		{"garbage", "yesterday", time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(Time(tt.in)), "got %v", Time(tt.in))
		})
	}
}

func TestDecimal(t *testing.T) {
	assert.True(t, decimal.NewFromInt(1499).Equal(Decimal(int64(1499))))
	assert.True(t, decimal.RequireFromString("12.5").Equal(Decimal(12.5)))
	assert.True(t, decimal.RequireFromString("99.99").Equal(Decimal("99.99")))
	assert.True(t, decimal.Zero.Equal(Decimal(nil)))

	d, ok := DecimalPtr("")
	assert.Nil(t, d)
	assert.True(t, ok)

	d, ok = DecimalPtr("abc")
	assert.Nil(t, d)
	assert.False(t, ok)
}

func TestAllowedAdminModel(t *testing.T) {
	m := &AllowedAdminModel{Email: "Staff@Shop.io", AddedAt: "2024-01-02T03:04:05Z"}
	a := m.ToDomain("k2Jx9QwXy")
	assert.Equal(t, "k2Jx9QwXy", a.ID)
	assert.Equal(t, "staff@shop.io", a.Email)
	assert.Equal(t, 2024, a.AddedAt.Year())

	blank := &AllowedAdminModel{}
	assert.Equal(t, "ops@shop.io", blank.ToDomain("OPS@shop.io").Email)

	stored := AllowedAdminModelFromDomain(&access.AllowedAdmin{Email: "x@y.io", AddedAt: time.Unix(0, 0)})
	assert.Equal(t, "x@y.io", stored.Email)
}

func TestProductModel(t *testing.T) {
	t.Run("decodes mixed storefront shapes", func(t *testing.T) {
		m := &ProductModel{
			Name:          "Oversized Hoodie",
			Category:      "Hoodie",
			Gender:        "unisex",
			Price:         int64(1999),
			DiscountPrice: "1499",
			Sizes:         []string{"m", "L"},
			Colors:        []any{"Black", map[string]any{"name": "Sand", "hex": "#c2b280"}},
			Images:        []string{"https://cdn/a.jpg"},
			StockCount:    int64(4),
			Material:      " Cotton ",
			CreatedAt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		p := m.ToDomain("p1")

		assert.Equal(t, "p1", p.ID)
		assert.Equal(t, catalog.CategoryHoodie, p.Category)
		assert.Equal(t, []catalog.Size{catalog.SizeM, catalog.SizeL}, p.Sizes)
		require.NotNil(t, p.DiscountPrice)
		assert.True(t, decimal.NewFromInt(1499).Equal(*p.DiscountPrice))
		require.NotNil(t, p.StockCount)
		assert.Equal(t, 4, *p.StockCount)
		require.NotNil(t, p.Material)
		assert.Equal(t, "Cotton", *p.Material)
		assert.Equal(t, []catalog.Color{{Name: "Black"}, {Name: "Sand", Hex: "#c2b280"}}, p.Colors)
		assert.NoError(t, p.Validate())
	})

	t.Run("update clears optional fields", func(t *testing.T) {
		p := &catalog.Product{Name: "Tee", Price: decimal.NewFromInt(10)}
		fields := ProductFields(p, true)
		assert.Equal(t, firestore.Delete, fields["discountPrice"])
		assert.Equal(t, firestore.Delete, fields["stockCount"])
		assert.NotContains(t, fields, "createdAt")

		created := ProductFields(p, false)
		assert.NotContains(t, created, "discountPrice")
		assert.Contains(t, created, "createdAt")
		assert.Equal(t, float64(10), created["price"])
	})
}

func TestOrderModel(t *testing.T) {
	m := &OrderModel{
		UserEmail: "buyer@mail.com",
		Items: []OrderItem{{
			Product:       map[string]any{"id": "p1", "name": "Polo", "price": int64(799), "images": []any{"https://cdn/p.jpg"}},
			Quantity:      int64(2),
			SelectedSize:  "M",
			SelectedColor: map[string]any{"name": "Navy", "hex": "#000080"},
		}},
		ShippingAddress: &AddressModel{FullName: "Asha Rao", Pincode: int64(560001), Phone: "9876543210"},
		Total:           float64(1598),
		Status:          "confirmed",
		CreatedAt:       "2024-03-01T09:00:00Z",
	}
	o := m.ToDomain("o1")

	assert.Equal(t, "o1", o.ID)
	assert.Equal(t, "560001", o.ShippingAddress.PostalCode)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "p1", o.Items[0].ProductID)
	assert.Equal(t, "Polo", o.Items[0].Name)
	assert.Equal(t, "https://cdn/p.jpg", o.Items[0].Image)
	assert.Equal(t, 2, o.Items[0].Quantity)
	assert.Equal(t, "Navy", o.Items[0].SelectedColor)
	assert.True(t, decimal.NewFromInt(1598).Equal(o.Total))
	assert.Equal(t, order.StatusAccepted, order.DisplayStatus(&o, nil))
}

func TestTrackingModel(t *testing.T) {
	m := &TrackingModel{
		Status:            "shipped",
		EstimatedDelivery: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
		StatusHistory: []StatusHistoryModel{
			{Status: "PENDING", Timestamp: "2024-03-01T09:00:00Z"},
			{Status: "SHIPPED", Timestamp: time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), Notes: "handed to courier"},
		},
	}
	tr := m.ToDomain("o1")

	assert.Equal(t, "o1", tr.OrderID, "falls back to document id")
	assert.Equal(t, order.StatusShipped, tr.Status)
	assert.Equal(t, "2024-03-09", tr.EstimatedDelivery)
	require.Len(t, tr.StatusHistory, 2)
	assert.Equal(t, "handed to courier", tr.StatusHistory[1].Notes)

	entry := StatusChangeFields(order.StatusChange{Status: order.StatusShipped, Timestamp: time.Unix(1, 0)})
	assert.NotContains(t, entry, "notes")
}

func TestCustomOrderModel(t *testing.T) {
	m := &CustomOrderModel{AdditionalNotes: "embroider name"}
	c := m.ToDomain("o7")
	assert.Equal(t, "o7", c.OrderID)

	m.OrderID = "o8"
	assert.Equal(t, "o8", m.ToDomain("doc").OrderID)
}
