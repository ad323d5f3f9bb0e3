package ai

import (
	"context"
	"fmt"
	"sort"
	"time"

	"app/models"
	"app/store"
)

const (
	maxBoughtTogether = 5
	maxTrending       = 5
	maxPersonalized   = 3
	maxUpsellPerItem  = 2
	trendingDays      = 7
)

// pairKey identifies an unordered pair of distinct product ids.
type pairKey struct {
	a, b string
}

func makePairKey(x, y string) pairKey {
	if x < y {
		return pairKey{a: x, b: y}
	}
	return pairKey{a: y, b: x}
}

// ProductRecommendations derives cross-sell, trending, personalized and
// upsell suggestions for a shop. customerID and cart are optional; an absent
// one silently skips the lists that depend on it.
func (s *Services) ProductRecommendations(ctx context.Context, shopID, customerID string, cart []string) (*models.ProductRecommendations, error) {
	products, err := s.store.FindProducts(ctx, shopID, store.ProductFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, &NoActiveProductsError{ShopID: shopID}
	}

	orders, err := s.store.FindOrders(ctx, shopID, store.OrderFilter{
		ExcludeStatus: models.OrderStatusCancelled,
		Limit:         5000,
	})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	inCart := make(map[string]bool, len(cart))
	for _, id := range cart {
		inCart[id] = true
	}

	// Co-occurrence counts over the full history: one increment per order
	// containing both products of a pair. Line items are deduplicated first
	// so a repeated line cannot inflate the count.
	cooccurrence := make(map[pairKey]int)
	for _, o := range orders {
		seen := make(map[string]bool, len(o.Items))
		ids := make([]string, 0, len(o.Items))
		for _, item := range o.Items {
			if !seen[item.ProductID] {
				seen[item.ProductID] = true
				ids = append(ids, item.ProductID)
			}
		}
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				cooccurrence[makePairKey(ids[i], ids[j])]++
			}
		}
	}

	lists := models.RecommendationLists{
		FrequentlyBoughtTogether: []models.RecommendedProduct{},
		TrendingProducts:         []models.RecommendedProduct{},
		Personalized:             []models.RecommendedProduct{},
		UpsellOpportunities:      []models.RecommendedProduct{},
	}

	if len(cart) > 0 {
		lists.FrequentlyBoughtTogether = s.boughtTogether(cart, inCart, cooccurrence, byID)
		lists.UpsellOpportunities = s.upsell(cart, inCart, products, byID)
	}
	lists.TrendingProducts = s.trending(orders, inCart, byID)
	if customerID != "" {
		lists.Personalized = s.personalized(customerID, orders, byID)
	}

	return &models.ProductRecommendations{
		ShopID:              shopID,
		CustomerID:          customerID,
		AnalysisDate:        time.Now().Format(time.RFC3339),
		Recommendations:     lists,
		TotalOrdersAnalyzed: len(orders),
		TotalProducts:       len(products),
	}, nil
}

// boughtTogether sums co-occurrence counts between cart items and every
// product outside the cart.
func (s *Services) boughtTogether(cart []string, inCart map[string]bool, cooccurrence map[pairKey]int, byID map[string]models.Product) []models.RecommendedProduct {
	scores := make(map[string]int)
	for _, cartItem := range cart {
		for pair, count := range cooccurrence {
			var other string
			switch cartItem {
			case pair.a:
				other = pair.b
			case pair.b:
				other = pair.a
			default:
				continue
			}
			if !inCart[other] {
				scores[other] += count
			}
		}
	}

	out := []models.RecommendedProduct{}
	for _, entry := range rankScores(scores, maxBoughtTogether) {
		product, ok := byID[entry.id]
		if !ok {
			continue
		}
		out = append(out, models.RecommendedProduct{
			ProductID:       entry.id,
			ProductName:     product.Name,
			Price:           product.Price,
			ConfidenceScore: entry.score,
			Reason:          "Often bought together with items in your cart",
		})
	}
	return out
}

// trending ranks products by units sold over the trailing week, skipping
// anything already in the cart.
func (s *Services) trending(orders []models.Order, inCart map[string]bool, byID map[string]models.Product) []models.RecommendedProduct {
	cutoff := time.Now().AddDate(0, 0, -trendingDays)
	recent := make(map[string]int)
	for _, o := range orders {
		if o.CreatedAt.Before(cutoff) {
			continue
		}
		for _, item := range o.Items {
			recent[item.ProductID] += item.Quantity
		}
	}

	out := []models.RecommendedProduct{}
	for _, entry := range rankScores(recent, maxTrending) {
		product, ok := byID[entry.id]
		if !ok || inCart[entry.id] {
			continue
		}
		out = append(out, models.RecommendedProduct{
			ProductID:   entry.id,
			ProductName: product.Name,
			Price:       product.Price,
			RecentSales: entry.score,
			Reason:      fmt.Sprintf("Sold %d times this week", entry.score),
		})
	}
	return out
}

// personalized scores unowned products by how much the buying customer
// overlaps with the target customer's purchase history.
func (s *Services) personalized(customerID string, orders []models.Order, byID map[string]models.Product) []models.RecommendedProduct {
	owned := make(map[string]bool)
	for _, o := range orders {
		if o.CustomerID == nil || *o.CustomerID != customerID {
			continue
		}
		for _, item := range o.Items {
			owned[item.ProductID] = true
		}
	}

	scores := make(map[string]int)
	for _, o := range orders {
		if o.CustomerID != nil && *o.CustomerID == customerID {
			continue
		}
		orderProducts := make(map[string]bool)
		for _, item := range o.Items {
			orderProducts[item.ProductID] = true
		}
		intersection := 0
		for id := range orderProducts {
			if owned[id] {
				intersection++
			}
		}
		if intersection == 0 {
			continue
		}
		for id := range orderProducts {
			if !owned[id] {
				scores[id] += intersection
			}
		}
	}

	out := []models.RecommendedProduct{}
	for _, entry := range rankScores(scores, maxPersonalized) {
		product, ok := byID[entry.id]
		if !ok {
			continue
		}
		out = append(out, models.RecommendedProduct{
			ProductID:       entry.id,
			ProductName:     product.Name,
			Price:           product.Price,
			SimilarityScore: entry.score,
			Reason:          "Based on purchases from customers like you",
		})
	}
	return out
}

// upsell finds same-category products strictly priced above each cart item,
// cheapest first, two per item. Nothing already in the cart is a candidate.
func (s *Services) upsell(cart []string, inCart map[string]bool, products []models.Product, byID map[string]models.Product) []models.RecommendedProduct {
	out := []models.RecommendedProduct{}
	for _, cartID := range cart {
		cartProduct, ok := byID[cartID]
		if !ok || cartProduct.CategoryID == nil {
			continue
		}

		var candidates []models.Product
		for _, p := range products {
			if inCart[p.ID] || p.CategoryID == nil {
				continue
			}
			if *p.CategoryID == *cartProduct.CategoryID && p.Price > cartProduct.Price {
				candidates = append(candidates, p)
			}
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Price < candidates[j].Price
		})
		if len(candidates) > maxUpsellPerItem {
			candidates = candidates[:maxUpsellPerItem]
		}

		for _, p := range candidates {
			diff := p.Price - cartProduct.Price
			out = append(out, models.RecommendedProduct{
				ProductID:       p.ID,
				ProductName:     p.Name,
				Price:           p.Price,
				CurrentProduct:  cartProduct.Name,
				PriceDifference: &diff,
				Reason:          fmt.Sprintf("Premium alternative to %s", cartProduct.Name),
			})
		}
	}
	return out
}

type scoreEntry struct {
	id    string
	score int
}

// rankScores orders a score map descending, ties broken by product id so the
// ranking is deterministic, and keeps the top limit entries.
func rankScores(scores map[string]int, limit int) []scoreEntry {
	entries := make([]scoreEntry, 0, len(scores))
	for id, score := range scores {
		entries = append(entries, scoreEntry{id: id, score: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		return entries[i].id < entries[j].id
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
