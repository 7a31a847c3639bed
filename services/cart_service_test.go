package services

import (
	"context"
	"testing"

	"inventro-backend/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupCart(t *testing.T) (*CartService, *models.Cart, models.Item) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice", models.RoleStaff)
	item := createTestItem(t, db, "SKU-1", 5)

	svc := NewCartService(db, zap.NewNop())
	cart, err := svc.GetOrCreateCart(context.Background(), user.ID)
	require.NoError(t, err)
	return svc, cart, item
}

func TestCartAddTwiceMergesLine(t *testing.T) {
	svc, cart, item := setupCart(t)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, cart.ID, item.ID, 2))
	require.NoError(t, svc.Add(ctx, cart.ID, item.ID, 2))

	view, err := svc.View(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 4, view.Items[0].Quantity)
	assert.Equal(t, 4, view.TotalQuantity)
}

func TestCartAddClampsQuantity(t *testing.T) {
	svc, cart, item := setupCart(t)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, cart.ID, item.ID, 0))
	require.NoError(t, svc.Add(ctx, cart.ID, item.ID, -3))

	view, err := svc.View(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
}

func TestCartAddMissingTargets(t *testing.T) {
	svc, cart, item := setupCart(t)
	ctx := context.Background()

	t.Run("unknown item", func(t *testing.T) {
		assert.ErrorIs(t, svc.Add(ctx, cart.ID, 9999, 1), ErrNotFound)
	})

	t.Run("unknown cart", func(t *testing.T) {
		assert.ErrorIs(t, svc.Add(ctx, 9999, item.ID, 1), ErrNotFound)
	})

	t.Run("inactive item", func(t *testing.T) {
		require.NoError(t, svc.db.Model(&models.Item{}).Where("id = ?", item.ID).
			Update("status", models.ItemStatusInactive).Error)
		assert.ErrorIs(t, svc.Add(ctx, cart.ID, item.ID, 1), ErrNotFound)
	})

	view, err := svc.View(ctx, cart.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestCartRemove(t *testing.T) {
	svc, cart, item := setupCart(t)
	ctx := context.Background()
	other := createTestItem(t, svc.db, "SKU-2", 3)

	require.NoError(t, svc.Add(ctx, cart.ID, item.ID, 1))

	err := svc.Remove(ctx, cart.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	view, err := svc.View(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, item.ID, view.Items[0].ItemID)

	require.NoError(t, svc.Remove(ctx, cart.ID, item.ID))
	view, err = svc.View(ctx, cart.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestCartSetQuantity(t *testing.T) {
	svc, cart, item := setupCart(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.SetQuantity(ctx, cart.ID, item.ID, 3), ErrNotFound)

	require.NoError(t, svc.Add(ctx, cart.ID, item.ID, 1))
	require.NoError(t, svc.SetQuantity(ctx, cart.ID, item.ID, 7))

	view, err := svc.View(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 7, view.Items[0].Quantity)

	require.NoError(t, svc.SetQuantity(ctx, cart.ID, item.ID, 0))
	view, err = svc.View(ctx, cart.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestCartClear(t *testing.T) {
	svc, cart, item := setupCart(t)
	ctx := context.Background()
	other := createTestItem(t, svc.db, "SKU-2", 3)

	// Пустая корзина очищается без ошибок
	require.NoError(t, svc.Clear(ctx, cart.ID))

	require.NoError(t, svc.Add(ctx, cart.ID, item.ID, 1))
	require.NoError(t, svc.Add(ctx, cart.ID, other.ID, 2))
	require.NoError(t, svc.Clear(ctx, cart.ID))

	view, err := svc.View(ctx, cart.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Equal(t, 0, view.TotalQuantity)

	assert.ErrorIs(t, svc.Clear(ctx, 9999), ErrNotFound)
}

func TestGetOrCreateCartIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "bob", models.RoleStaff)
	svc := NewCartService(db, zap.NewNop())
	ctx := context.Background()

	first, err := svc.GetOrCreateCart(ctx, user.ID)
	require.NoError(t, err)
	second, err := svc.GetOrCreateCart(ctx, user.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCartOwnership(t *testing.T) {
	svc, cart, _ := setupCart(t)
	ctx := context.Background()
	stranger := createTestUser(t, svc.db, "mallory", models.RoleStaff)

	assert.NoError(t, svc.OwnedBy(ctx, cart.ID, cart.UserID))
	assert.ErrorIs(t, svc.OwnedBy(ctx, cart.ID, stranger.ID), ErrNotFound)
}

func TestCartViewTotals(t *testing.T) {
	svc, cart, _ := setupCart(t)
	ctx := context.Background()
	priced := createTestItem(t, svc.db, "SKU-P", 10, withCost("2.50"))
	other := createTestItem(t, svc.db, "SKU-Q", 10, withCost("10"))

	require.NoError(t, svc.Add(ctx, cart.ID, priced.ID, 3))
	require.NoError(t, svc.Add(ctx, cart.ID, other.ID, 1))

	view, err := svc.View(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, view.TotalQuantity)
	assert.True(t, decimal.RequireFromString("17.50").Equal(view.TotalValue), view.TotalValue.String())
	require.NotNil(t, view.Items[0].Item)
	assert.Equal(t, "SKU-P", view.Items[0].Item.SKU)
}

func TestViewForUserCreatesCart(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "carol", models.RoleStaff)
	svc := NewCartService(db, zap.NewNop())

	view, err := svc.ViewForUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, view.UserID)
	assert.NotNil(t, view.Items)
	assert.Empty(t, view.Items)
}

func TestCartAddRollsBackOnWriteFailure(t *testing.T) {
	svc, cart, item := setupCart(t)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, cart.ID, item.ID, 2))

	abortOn(t, svc.db, "reject_cart_update", "UPDATE", "cart_items")

	err := svc.Add(ctx, cart.ID, item.ID, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write rejected")

	view, err := svc.View(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
}

func TestCartAddNewLineRollsBackOnWriteFailure(t *testing.T) {
	svc, cart, item := setupCart(t)
	ctx := context.Background()

	abortOn(t, svc.db, "reject_cart_insert", "INSERT", "cart_items")

	require.Error(t, svc.Add(ctx, cart.ID, item.ID, 1))

	view, err := svc.View(ctx, cart.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}
