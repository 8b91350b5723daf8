package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/avery-lane/storefront-crm-api/models"
)

// Report holds the aggregate figures for one reporting run
type Report struct {
	TotalCustomers int64           `json:"total_customers"`
	TotalOrders    int64           `json:"total_orders"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
}

// ReportService computes aggregate counts and revenue over the store
type ReportService struct {
	db *gorm.DB
}

// NewReportService creates a new report service
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// Generate counts customers and orders and sums the order totals.
// Revenue is 0 when no orders exist.
func (s *ReportService) Generate() (*Report, error) {
	report := &Report{TotalRevenue: decimal.Zero}

	if err := s.db.Model(&models.Customer{}).Count(&report.TotalCustomers).Error; err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	if err := s.db.Model(&models.Order{}).Count(&report.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var revenue decimal.NullDecimal
	if err := s.db.Model(&models.Order{}).
		Select("SUM(total_amount)").
		Scan(&revenue).Error; err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	if revenue.Valid {
		report.TotalRevenue = revenue.Decimal
	}

	return report, nil
}
