package models

// Payloads produced by the analytics subsystems (package ai). All of these
// are derived per request and never persisted.

// AssistantChatRequest is the body for the conversational assistant.
type AssistantChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// ForecastPoint is one projected day of revenue.
type ForecastPoint struct {
	Date           string  `json:"date"`
	PredictedSales float64 `json:"predicted_sales"`
	DayName        string  `json:"day_name"`
	Confidence     string  `json:"confidence"`
}

// SalesForecast is the full forecasting payload.
type SalesForecast struct {
	ShopID                string          `json:"shop_id"`
	PredictionPeriod      string          `json:"prediction_period"`
	Predictions           []ForecastPoint `json:"predictions"`
	TotalPredicted        float64         `json:"total_predicted"`
	AverageDailyPredicted float64         `json:"average_daily_predicted"`
	RecentAverage         float64         `json:"recent_average"`
	Trend                 string          `json:"trend"`
	ConfidenceLevel       string          `json:"confidence_level"`
	DataPointsUsed        int             `json:"data_points_used"`
	PeriodAnalyzed        string          `json:"period_analyzed"`
}

// StockRecommendation is the reorder advice for a single product.
type StockRecommendation struct {
	ProductID        string      `json:"product_id"`
	ProductName      string      `json:"product_name"`
	SKU              *string     `json:"sku,omitempty"`
	Price            float64     `json:"price"`
	CurrentStock     int         `json:"current_stock"`
	MinLevel         int         `json:"min_level"`
	TotalSold30Days  int         `json:"total_sold_30_days"`
	AvgDailyDemand   float64     `json:"avg_daily_demand"`
	DaysOfStock      DaysOfStock `json:"days_of_stock"`
	SalesFrequency   float64     `json:"sales_frequency"`
	Status           string      `json:"status"`
	Priority         string      `json:"priority"`
	RecommendedStock int         `json:"recommended_stock"`
	ReorderQuantity  int         `json:"reorder_quantity"`
}

// StockSummary counts recommendations by status over the full analyzed set.
type StockSummary struct {
	Critical  int `json:"critical"`
	Low       int `json:"low"`
	Optimal   int `json:"optimal"`
	Overstock int `json:"overstock"`
}

// StockOptimization is the full inventory payload.
type StockOptimization struct {
	ShopID                string                `json:"shop_id"`
	AnalysisDate          string                `json:"analysis_date"`
	TotalProductsAnalyzed int                   `json:"total_products_analyzed"`
	UrgentReorders        int                   `json:"urgent_reorders"`
	TotalReorderValue     float64               `json:"total_reorder_value"`
	Recommendations       []StockRecommendation `json:"recommendations"`
	Summary               StockSummary          `json:"summary"`
}

// RecommendedProduct is one entry in a recommendation list.
type RecommendedProduct struct {
	ProductID       string   `json:"product_id"`
	ProductName     string   `json:"product_name"`
	Price           float64  `json:"price"`
	ConfidenceScore int      `json:"confidence_score,omitempty"`
	RecentSales     int      `json:"recent_sales,omitempty"`
	SimilarityScore int      `json:"similarity_score,omitempty"`
	CurrentProduct  string   `json:"current_product,omitempty"`
	PriceDifference *float64 `json:"price_difference,omitempty"`
	Reason          string   `json:"reason"`
}

// RecommendationLists bundles the four independent recommendation lists.
type RecommendationLists struct {
	FrequentlyBoughtTogether []RecommendedProduct `json:"frequently_bought_together"`
	TrendingProducts         []RecommendedProduct `json:"trending_products"`
	Personalized             []RecommendedProduct `json:"personalized_recommendations"`
	UpsellOpportunities      []RecommendedProduct `json:"upselling_opportunities"`
}

// ProductRecommendations is the full recommendation payload.
type ProductRecommendations struct {
	ShopID              string              `json:"shop_id"`
	CustomerID          string              `json:"customer_id,omitempty"`
	AnalysisDate        string              `json:"analysis_date"`
	Recommendations     RecommendationLists `json:"recommendations"`
	TotalOrdersAnalyzed int                 `json:"total_orders_analyzed"`
	TotalProducts       int                 `json:"total_products"`
}

// PricingStrategy is one candidate price adjustment.
type PricingStrategy struct {
	Strategy           string  `json:"strategy"`
	RecommendedPrice   float64 `json:"recommended_price"`
	CurrentPrice       float64 `json:"current_price"`
	PriceChangePercent float64 `json:"price_change_percent"`
	Reason             string  `json:"reason"`
	ExpectedImpact     string  `json:"expected_impact"`
}

// DemandAnalysis is the 30-day demand profile behind a pricing decision.
type DemandAnalysis struct {
	QuantitySold30Days int     `json:"quantity_sold_30_days"`
	Revenue30Days      float64 `json:"revenue_30_days"`
	DemandStrength     string  `json:"demand_strength"`
	SalesFrequency     int     `json:"sales_frequency"`
}

// ProductPricing is the pricing advice for a single product.
type ProductPricing struct {
	ProductID            string            `json:"product_id"`
	ProductName          string            `json:"product_name"`
	CurrentPrice         float64           `json:"current_price"`
	CostPrice            float64           `json:"cost_price"`
	CurrentMarginPercent float64           `json:"current_margin_percent"`
	DemandAnalysis       DemandAnalysis    `json:"demand_analysis"`
	Recommendations      []PricingStrategy `json:"pricing_recommendations"`
}

// PricingAdvice is the full pricing payload.
type PricingAdvice struct {
	ShopID                string           `json:"shop_id"`
	AnalysisDate          string           `json:"analysis_date"`
	TotalProductsAnalyzed int              `json:"total_products_analyzed"`
	Recommendations       []ProductPricing `json:"recommendations"`
	GlobalPricingInsights string           `json:"global_pricing_insights"`
	Methodology           string           `json:"methodology"`
}

// DailySalesPoint is one day of aggregate revenue.
type DailySalesPoint struct {
	Date  string  `json:"date"`
	Sales float64 `json:"sales"`
}

// ProductPerformance ranks a product by period revenue.
type ProductPerformance struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	Revenue      float64 `json:"revenue"`
	QuantitySold int     `json:"quantity_sold"`
}

// UnsoldProduct is a product with no sales over the analyzed period.
type UnsoldProduct struct {
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	StockQuantity int    `json:"stock_quantity"`
	Reason        string `json:"reason"`
}

// PerformanceKPIs are the headline numbers of a performance analysis.
type PerformanceKPIs struct {
	TotalRevenue       float64 `json:"total_revenue"`
	TotalOrders        int     `json:"total_orders"`
	UniqueCustomers    int     `json:"unique_customers"`
	AverageOrderValue  float64 `json:"average_order_value"`
	RevenuePerCustomer float64 `json:"revenue_per_customer"`
	OrdersPerDay       float64 `json:"orders_per_day"`
	ActiveProducts     int     `json:"active_products"`
	ProductsSold       int     `json:"products_sold"`
	ProductsNotSold    int     `json:"products_not_sold"`
}

// PerformanceTrends carries the period's ranked product and daily series.
type PerformanceTrends struct {
	DailySales              []DailySalesPoint    `json:"daily_sales"`
	BestPerformingProducts  []ProductPerformance `json:"best_performing_products"`
	UnderperformingProducts []UnsoldProduct      `json:"underperforming_products"`
}

// Insight is one narrative observation from the narration collaborator.
type Insight struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	RecommendedAction string `json:"recommended_action"`
}

// AIInsights is the structured response expected from the narration
// collaborator; a fixed placeholder is substituted when it cannot be parsed.
type AIInsights struct {
	Insights         []Insight `json:"insights"`
	PerformanceScore string    `json:"performance_score"`
	Priorities       []string  `json:"priorities"`
}

// PerformanceReport is the full performance payload.
type PerformanceReport struct {
	ShopID       string            `json:"shop_id"`
	Period       string            `json:"period"`
	AnalysisDate string            `json:"analysis_date"`
	KPIs         PerformanceKPIs   `json:"kpis"`
	Trends       PerformanceTrends `json:"trends"`
	AIInsights   AIInsights        `json:"ai_insights"`
}
