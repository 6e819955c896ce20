package payroll_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/payrollhq/payroll-management/internal"
	"github.com/payrollhq/payroll-management/internal/payroll"
	payrollPostgres "github.com/payrollhq/payroll-management/internal/payroll/postgres"
	"github.com/payrollhq/payroll-management/internal/personnel"
	personnelPostgres "github.com/payrollhq/payroll-management/internal/personnel/postgres"
)

var _ = Describe("Payroll Handler Integration", func() {
	var (
		db            *gorm.DB
		personnelRepo *personnelPostgres.PersonnelRepository
		handler       *payroll.Handler
	)

	addStaff := func(staffID string, basic, allowance, deductions float64, active bool) {
		record := &personnel.Personnel{
			StaffID:    staffID,
			Name:       "Staff " + staffID,
			Rank:       "Officer",
			Department: "Finance",
			Unit:       "HQ",
			Region:     "South West",
			BasicPay:   basic,
			Allowance:  allowance,
			Deductions: deductions,
			Active:     active,
		}
		Expect(personnelRepo.Create(record)).To(Succeed())
	}

	approve := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/payroll/approve", strings.NewReader(body))
		req = req.WithContext(internal.ContextWithUserID(req.Context(), "42"))
		w := httptest.NewRecorder()
		handler.Approve(w, req)
		return w
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(db.AutoMigrate(&personnel.Personnel{})).To(Succeed())
		Expect(payrollPostgres.AutoMigrate(db)).To(Succeed())

		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		personnelRepo = personnelPostgres.NewPersonnelRepository(db)
		runRepo := payrollPostgres.NewRunRepository(db)
		service := payroll.NewService(runRepo, personnelRepo, slogger)
		handler = payroll.NewHandler(service)
	})

	Describe("GET /api/payroll/preview", func() {
		It("should reject a missing period", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/payroll/preview", nil)
			w := httptest.NewRecorder()

			handler.Preview(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return empty entries and an empty totals object with no active personnel", func() {
			addStaff("S1", 1000, 200, 50, false) // inactive only

			req := httptest.NewRequest(http.MethodGet, "/api/payroll/preview?period=2024-05", nil)
			w := httptest.NewRecorder()

			handler.Preview(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			body := w.Body.String()
			Expect(body).To(ContainSubstring(`"entries":[]`))
			Expect(body).To(ContainSubstring(`"totals":{}`))
		})

		It("should compute entries for the active personnel only", func() {
			addStaff("S1", 1000, 200, 50, true)
			addStaff("S2", 2000, 0, 100, true)
			addStaff("S3", 9999, 0, 0, false)

			req := httptest.NewRequest(http.MethodGet, "/api/payroll/preview?period=2024-05", nil)
			w := httptest.NewRecorder()

			handler.Preview(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var resp payroll.PreviewResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())

			Expect(resp.Entries).To(HaveLen(2))
			Expect(resp.Entries[0].Net).To(Equal(1150.0))
			Expect(resp.Entries[1].Net).To(Equal(1900.0))
			Expect(resp.Totals["gross"]).To(Equal(3200.0))
			Expect(resp.Totals["allowances"]).To(Equal(200.0))
			Expect(resp.Totals["deductions"]).To(Equal(150.0))
		})
	})

	Describe("POST /api/payroll/approve", func() {
		It("should reject a missing period", func() {
			w := approve(`{}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should reject approval when no active personnel exist", func() {
			w := approve(`{"period": "2024-05"}`)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("no active personnel"))
		})

		It("should approve and persist a run", func() {
			addStaff("S1", 1000, 200, 50, true)

			w := approve(`{"period": "2024-05"}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring("Payroll for 2024-05 approved successfully."))

			runRepo := payrollPostgres.NewRunRepository(db)
			run, err := runRepo.GetByPeriod("2024-05")
			Expect(err).NotTo(HaveOccurred())
			Expect(run).NotTo(BeNil())
			Expect(run.Entries).To(HaveLen(1))
			Expect(run.ApprovedBy).To(Equal("42"))
		})

		It("should return a conflict for a duplicate period without overwrite", func() {
			addStaff("S1", 1000, 200, 50, true)

			Expect(approve(`{"period": "2024-05"}`).Code).To(Equal(http.StatusOK))

			w := approve(`{"period": "2024-05"}`)

			Expect(w.Code).To(Equal(http.StatusConflict))
			Expect(w.Body.String()).To(ContainSubstring("payroll already exists"))
		})

		It("should replace the run wholesale when overwrite is requested", func() {
			addStaff("S1", 1000, 200, 50, true)
			Expect(approve(`{"period": "2024-05"}`).Code).To(Equal(http.StatusOK))

			addStaff("S2", 2000, 0, 100, true)

			w := approve(`{"period": "2024-05", "overwrite": true}`)
			Expect(w.Code).To(Equal(http.StatusOK))

			runRepo := payrollPostgres.NewRunRepository(db)
			run, err := runRepo.GetByPeriod("2024-05")
			Expect(err).NotTo(HaveOccurred())
			Expect(run.Entries).To(HaveLen(2))
			Expect(run.Totals.Gross).To(Equal(3200.0))
		})
	})

	Describe("GET /api/payroll/history", func() {
		It("should list recent runs newest first with entries stripped", func() {
			addStaff("S1", 1000, 200, 50, true)

			for _, period := range []string{"2024-01", "2024-02", "2024-03"} {
				Expect(approve(`{"period": "` + period + `"}`).Code).To(Equal(http.StatusOK))
				time.Sleep(5 * time.Millisecond) // distinct approval timestamps
			}

			req := httptest.NewRequest(http.MethodGet, "/api/payroll/history?limit=2", nil)
			w := httptest.NewRecorder()

			handler.History(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			body := w.Body.String()

			var resp payroll.HistoryResponse
			Expect(json.Unmarshal([]byte(body), &resp)).To(Succeed())

			Expect(resp.Runs).To(HaveLen(2))
			Expect(resp.Runs[0].Period).To(Equal("2024-03"))
			Expect(resp.Runs[1].Period).To(Equal("2024-02"))
			Expect(resp.Runs[0].Totals.Gross).To(Equal(1200.0))

			// the wire payload must not carry entries
			Expect(body).NotTo(ContainSubstring("entries"))
		})
	})
})
