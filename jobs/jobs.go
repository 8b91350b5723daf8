package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/avery-lane/storefront-crm-api/config"
	"github.com/avery-lane/storefront-crm-api/services"
)

// Jobs holds the scheduled job bodies and their collaborators. The
// outbound API client is constructed by the caller that owns the jobs'
// lifecycle, not shared process-wide.
type Jobs struct {
	cfg    *config.Config
	crm    *services.CRMService
	report *services.ReportService
	api    *services.APIClient
}

// New creates the job set
func New(cfg *config.Config, crm *services.CRMService, report *services.ReportService, api *services.APIClient) *Jobs {
	return &Jobs{cfg: cfg, crm: crm, report: report, api: api}
}

// RegisterAll wires every job onto the scheduler with its interval
func (j *Jobs) RegisterAll(s *Scheduler) {
	s.Register("heartbeat", 5*time.Minute, j.Heartbeat)
	s.Register("low_stock", 12*time.Hour, j.UpdateLowStock)
	s.Register("report", 7*24*time.Hour, j.GenerateReport)
	s.Register("order_reminders", 24*time.Hour, j.SendOrderReminders)
}

// Heartbeat appends a timestamped liveness line to the heartbeat log.
// When the self-probe of the API succeeds the line says so; probe
// failure is swallowed and the plain heartbeat is written instead.
func (j *Jobs) Heartbeat() error {
	timestamp := time.Now().Format(heartbeatTimeLayout)
	message := fmt.Sprintf("%s CRM is alive\n", timestamp)

	if j.api != nil {
		if err := j.api.Ping(); err == nil {
			message = fmt.Sprintf("%s CRM is alive and API is responsive\n", timestamp)
		}
	}

	return appendLine(j.cfg.HeartbeatLogPath, message)
}

// UpdateLowStock restocks products below the low-stock threshold
// directly against the store and logs each restocked product plus a
// summary line. Failures are written to the log as an error line and
// reported to the scheduler; the job resumes on its next tick.
func (j *Jobs) UpdateLowStock() error {
	timestamp := time.Now().Format(jobTimeLayout)

	payload, err := j.crm.UpdateLowStockProducts()
	if err != nil {
		line := fmt.Sprintf("%s - Error updating low stock: %v\n", timestamp, err)
		if logErr := appendLine(j.cfg.LowStockLogPath, line); logErr != nil {
			log.Printf("Failed to write low stock log: %v", logErr)
		}
		return err
	}

	for _, product := range payload.Products {
		line := fmt.Sprintf("%s - Restocked: %s, New Stock: %d\n", timestamp, product.Name, product.Stock)
		if err := appendLine(j.cfg.LowStockLogPath, line); err != nil {
			return err
		}
	}
	return appendLine(j.cfg.LowStockLogPath, fmt.Sprintf("%s - %s\n", timestamp, payload.Message))
}

// GenerateReport appends one timestamped aggregate line to the report
// log and, when an archive service is configured, ships a snapshot of
// the line to durable storage. Archive failure is non-fatal.
func (j *Jobs) GenerateReport() error {
	report, err := j.report.Generate()
	if err != nil {
		return err
	}

	timestamp := time.Now().Format(jobTimeLayout)
	line := fmt.Sprintf("%s - Report: %d customers, %d orders, %s revenue\n",
		timestamp, report.TotalCustomers, report.TotalOrders, report.TotalRevenue)

	if err := appendLine(j.cfg.ReportLogPath, line); err != nil {
		return err
	}

	if archive := services.GetArchiveService(); archive != nil && j.cfg.AWSS3Bucket != "" {
		if _, err := archive.UploadReport("crm_report.txt", []byte(line)); err != nil {
			log.Printf("Failed to archive report: %v", err)
		}
	}
	return nil
}

// SendOrderReminders queries the API for orders placed in the last 7
// days and appends one reminder line per order. An unreachable endpoint
// is logged and swallowed.
func (j *Jobs) SendOrderReminders() error {
	since := time.Now().AddDate(0, 0, -7)

	orders, err := j.api.RecentOrders(since)
	if err != nil {
		log.Printf("Order reminders skipped: %v", err)
		return nil
	}

	timestamp := time.Now().Format(jobTimeLayout)
	for _, order := range orders {
		line := fmt.Sprintf("%s - ID: %d, Email: %s\n", timestamp, order.ID, order.Customer.Email)
		if err := appendLine(j.cfg.ReminderLogPath, line); err != nil {
			return err
		}
	}

	log.Println("Order reminders processed!")
	return nil
}
