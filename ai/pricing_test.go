package ai

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pricedProduct(id, name string, price, cost float64) models.Product {
	p := activeProduct(id, name, price, 100, 5)
	p.CostPrice = cost
	return p
}

func strategyNames(strategies []models.PricingStrategy) []string {
	names := make([]string, 0, len(strategies))
	for _, s := range strategies {
		names = append(names, s.Strategy)
	}
	return names
}

func findStrategy(t *testing.T, strategies []models.PricingStrategy, name string) models.PricingStrategy {
	t.Helper()
	for _, s := range strategies {
		if s.Strategy == name {
			return s
		}
	}
	t.Fatalf("strategy %s not found in %v", name, strategyNames(strategies))
	return models.PricingStrategy{}
}

func TestPricingMarginTargetStrategy(t *testing.T) {
	st := &fakeStore{products: []models.Product{pricedProduct("p1", "Grinder", 90, 60)}}
	svc := NewServices(st, nil)

	advice, err := svc.PricingRecommendations(context.Background(), testShop, "")
	require.NoError(t, err)
	require.Len(t, advice.Recommendations, 1)

	rec := advice.Recommendations[0]
	assert.InDelta(t, 33.33, rec.CurrentMarginPercent, 0.01)
	assert.Equal(t, "weak", rec.DemandAnalysis.DemandStrength)

	// cost / 0.6 prices the product for a 40% margin.
	target := findStrategy(t, rec.Recommendations, "margin_target")
	assert.InDelta(t, 100.0, target.RecommendedPrice, 1e-9)
	assert.InDelta(t, 11.11, target.PriceChangePercent, 0.01)
}

func TestPricingStrongDemandIncrease(t *testing.T) {
	st := &fakeStore{products: []models.Product{pricedProduct("p1", "Grinder", 90, 60)}}
	// 12 units in the window: strong demand, margin below 50%.
	st.orders = append(st.orders,
		orderDaysAgo(5, 540, lineItem("p1", 6, 90)),
		orderDaysAgo(2, 540, lineItem("p1", 6, 90)),
	)
	svc := NewServices(st, nil)

	advice, err := svc.PricingRecommendations(context.Background(), testShop, "")
	require.NoError(t, err)

	rec := advice.Recommendations[0]
	assert.Equal(t, "strong", rec.DemandAnalysis.DemandStrength)
	assert.Equal(t, 12, rec.DemandAnalysis.QuantitySold30Days)
	assert.Equal(t, 2, rec.DemandAnalysis.SalesFrequency)

	increase := findStrategy(t, rec.Recommendations, "demand_driven_increase")
	assert.InDelta(t, 99.0, increase.RecommendedPrice, 1e-9)
	assert.Equal(t, 10.0, increase.PriceChangePercent)
}

func TestPricingWeakDemandDiscountRespectsFloor(t *testing.T) {
	// price*0.9 = 90 is below cost*1.2 = 96, so no discount is offered.
	st := &fakeStore{products: []models.Product{pricedProduct("p1", "Slow Mover", 100, 80)}}
	svc := NewServices(st, nil)

	advice, err := svc.PricingRecommendations(context.Background(), testShop, "")
	require.NoError(t, err)

	names := strategyNames(advice.Recommendations[0].Recommendations)
	assert.NotContains(t, names, "demand_stimulation")
}

func TestPricingWeakDemandDiscountAboveFloor(t *testing.T) {
	st := &fakeStore{products: []models.Product{pricedProduct("p1", "Slow Mover", 100, 50)}}
	svc := NewServices(st, nil)

	advice, err := svc.PricingRecommendations(context.Background(), testShop, "")
	require.NoError(t, err)

	discount := findStrategy(t, advice.Recommendations[0].Recommendations, "demand_stimulation")
	assert.InDelta(t, 90.0, discount.RecommendedPrice, 1e-9)
	assert.Equal(t, -10.0, discount.PriceChangePercent)
}

func TestPsychologicalPrice(t *testing.T) {
	assert.Equal(t, 99.0, psychologicalPrice(100))
	assert.Equal(t, 89.0, psychologicalPrice(90))
	assert.Equal(t, 19.0, psychologicalPrice(12))
	assert.Equal(t, 249.0, psychologicalPrice(245))
}

func TestPricingStrategyCapAndCount(t *testing.T) {
	st := &fakeStore{products: []models.Product{pricedProduct("p1", "Grinder", 90, 20)}}
	svc := NewServices(st, nil)

	advice, err := svc.PricingRecommendations(context.Background(), testShop, "")
	require.NoError(t, err)

	strategies := advice.Recommendations[0].Recommendations
	assert.LessOrEqual(t, len(strategies), maxPricingStrategies)
	for _, s := range strategies {
		assert.Equal(t, 90.0, s.CurrentPrice)
	}
}

func TestPricingZeroPriceProductSerializes(t *testing.T) {
	// A product priced at zero with a positive cost is valid input; the
	// advice must stay finite and marshal cleanly.
	st := &fakeStore{products: []models.Product{pricedProduct("p1", "Unpriced", 0, 60)}}
	svc := NewServices(st, nil)

	advice, err := svc.PricingRecommendations(context.Background(), testShop, "")
	require.NoError(t, err)

	rec := advice.Recommendations[0]
	assert.Equal(t, 0.0, rec.CurrentMarginPercent)

	target := findStrategy(t, rec.Recommendations, "margin_target")
	assert.InDelta(t, 100.0, target.RecommendedPrice, 1e-9)
	assert.Equal(t, 0.0, target.PriceChangePercent)

	_, err = json.Marshal(advice)
	require.NoError(t, err)
}

func TestPricingProductNotFound(t *testing.T) {
	st := &fakeStore{products: []models.Product{pricedProduct("p1", "Grinder", 90, 60)}}
	svc := NewServices(st, nil)

	_, err := svc.PricingRecommendations(context.Background(), testShop, "missing")

	var notFound *ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.ProductID)
}

func TestPricingNoActiveProducts(t *testing.T) {
	svc := NewServices(&fakeStore{}, nil)

	_, err := svc.PricingRecommendations(context.Background(), testShop, "")

	var noProducts *NoActiveProductsError
	require.ErrorAs(t, err, &noProducts)
}

func TestPricingInsightsFallbackOnNarratorError(t *testing.T) {
	st := &fakeStore{products: []models.Product{pricedProduct("p1", "Grinder", 90, 60)}}
	narrator := &fakeNarrator{err: errors.New("quota exceeded")}
	svc := NewServices(st, narrator)

	advice, err := svc.PricingRecommendations(context.Background(), testShop, "")
	require.NoError(t, err)

	assert.Equal(t, pricingFallbackInsight, advice.GlobalPricingInsights)
	assert.Equal(t, "pricing-strategy", narrator.lastSession)
}

func TestPricingInsightsFromNarrator(t *testing.T) {
	st := &fakeStore{products: []models.Product{pricedProduct("p1", "Grinder", 90, 60)}}
	narrator := &fakeNarrator{response: "Raise margins on the grinder line."}
	svc := NewServices(st, narrator)

	advice, err := svc.PricingRecommendations(context.Background(), testShop, "")
	require.NoError(t, err)

	assert.Equal(t, "Raise margins on the grinder line.", advice.GlobalPricingInsights)
	assert.Contains(t, narrator.lastUser, "Grinder")
}
