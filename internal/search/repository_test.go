package search

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/shopfront-backend/pkg/db/dbtest"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/enums"
)

func TestRepositoryLoadCorpus(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	pro := enums.SubscriptionPlanPro
	active := enums.SubscriptionStatusActive
	end := time.Now().Add(48 * time.Hour).UTC()
	kofi := &models.Shop{
		OwnerID:             uuid.New(),
		Name:                "Kofi Tech",
		Category:            enums.ShopCategoryElectronics,
		Location:            "Accra",
		WhatsAppNumber:      "233201234567",
		SubscriptionPlan:    &pro,
		SubscriptionStatus:  &active,
		SubscriptionEndDate: &end,
	}
	ama := &models.Shop{
		OwnerID:        uuid.New(),
		Name:           "Ama Styles",
		Category:       enums.ShopCategoryFashion,
		Location:       "Kumasi",
		WhatsAppNumber: "233241234567",
	}
	require.NoError(t, db.Create(kofi).Error)
	require.NoError(t, db.Create(ama).Error)

	for _, name := range []string{"Phone", "Charger", "Earbuds"} {
		require.NoError(t, db.Create(&models.Product{ShopID: kofi.ID, Name: name, Price: decimal.NewFromInt(10)}).Error)
	}
	require.NoError(t, db.Create(&models.Review{ShopID: kofi.ID, Rating: 5, Comment: "great", ReviewerName: "Yaw"}).Error)
	require.NoError(t, db.Create(&models.Review{ShopID: kofi.ID, Rating: 4, Comment: "good", ReviewerName: "Esi"}).Error)
	require.NoError(t, db.Create(&models.Review{ShopID: ama.ID, Rating: 1, Comment: "hidden", ReviewerName: "Kwame"}).Error)

	corpus, err := NewRepository(db).LoadCorpus(ctx)
	require.NoError(t, err)
	require.Len(t, corpus, 2)

	byName := map[string]Shop{}
	for _, s := range corpus {
		byName[s.Name] = s
	}
	k := byName["Kofi Tech"]
	require.Len(t, k.Products, 3)
	assert.Equal(t, "Phone", k.Products[0].Name)
	assert.True(t, k.Products[0].Price.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, ReviewStats{Count: 2, Sum: 9}, k.Reviews)
	assert.Equal(t, enums.SubscriptionPlanPro, k.Subscription.Plan)

	a := byName["Ama Styles"]
	assert.Empty(t, a.Products)
	assert.Equal(t, ReviewStats{Count: 1, Sum: 1}, a.Reviews)

	results := Search("phone", "", corpus)
	require.Len(t, results, 1)
	require.NotNil(t, results[0].Rating)
	assert.InDelta(t, 4.5, *results[0].Rating.Average, 0.001)

	fashion := Search("fashion", "", corpus)
	require.Len(t, fashion, 1)
	assert.Nil(t, fashion[0].Rating)
}
