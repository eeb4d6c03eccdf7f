package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/paygrid-hr/payroll-backend-go/internal/config"
	appHTTP "github.com/paygrid-hr/payroll-backend-go/internal/handler/http"
	"github.com/paygrid-hr/payroll-backend-go/internal/pkg/cron"
	"github.com/paygrid-hr/payroll-backend-go/internal/pkg/database"
	"github.com/paygrid-hr/payroll-backend-go/internal/pkg/email"
	"github.com/paygrid-hr/payroll-backend-go/internal/repository/postgresql"
	attendanceService "github.com/paygrid-hr/payroll-backend-go/internal/service/attendance"
	leaveService "github.com/paygrid-hr/payroll-backend-go/internal/service/leave"
	"github.com/paygrid-hr/payroll-backend-go/internal/service/notification"
	payrollService "github.com/paygrid-hr/payroll-backend-go/internal/service/payroll"
	statutoryService "github.com/paygrid-hr/payroll-backend-go/internal/service/statutory"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	branchRepo := postgresql.NewBranchRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveLedgerRepo := postgresql.NewLeaveLedgerRepository(db)
	structureRepo := postgresql.NewSalaryStructureRepository(db)
	arrearsRepo := postgresql.NewArrearsRepository(db)
	statutoryConfigRepo := postgresql.NewStatutoryConfigRepository(db)
	healthLockRepo := postgresql.NewHealthLockRepository(db)
	statutoryRecordRepo := postgresql.NewStatutoryRecordRepository(db)
	recordRepo := postgresql.NewPayrollRecordRepository(db)
	runRepo := postgresql.NewPayrollRunRepository(db)

	txRunner := postgresql.NewTxRunner(db, cfg.Payroll.Transactional)

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service:", err)
	}
	var notifier notification.Notifier = notification.NewLogNotifier()
	if cfg.Payroll.NotifyEmail != "" {
		notifier = notification.NewMultiNotifier(
			notification.NewLogNotifier(),
			notification.NewEmailNotifier(emailService, cfg.Payroll.NotifyEmail),
		)
	}

	configProvider := statutoryService.NewConfigProvider(statutoryConfigRepo, cfg.Payroll.ConfigCacheTTL)
	ledgerService := leaveService.NewLedgerService(leaveLedgerRepo)
	translator := attendanceService.NewTranslator()

	payrollSvc := payrollService.NewService(payrollService.ServiceDeps{
		Tx:              txRunner,
		Employees:       employeeRepo,
		Branches:        branchRepo,
		Holidays:        holidayRepo,
		Attendances:     attendanceRepo,
		Structures:      structureRepo,
		Records:         recordRepo,
		Runs:            runRepo,
		StatRecords:     statutoryRecordRepo,
		Ledger:          ledgerService,
		Translator:      translator,
		Provider:        configProvider,
		PF:              statutoryService.NewProvidentFundCalculator(),
		Health:          statutoryService.NewHealthContributionCalculator(healthLockRepo),
		PayrollTax:      statutoryService.NewPayrollTaxCalculator(statutoryRecordRepo),
		IncomeTax:       statutoryService.NewIncomeTaxCalculator(recordRepo, statutoryRecordRepo),
		Arrears:         payrollService.NewArrearsDetector(structureRepo, arrearsRepo, recordRepo),
		Notifier:        notifier,
		ChunkSize:       cfg.Payroll.ChunkSize,
		EmployeeTimeout: cfg.Payroll.EmployeeTimeout,
	})

	scheduler := cron.NewScheduler()
	cron.NewPayrollJobs(runRepo, cfg.Payroll.StuckRunThreshold).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	jwtAuth := jwtauth.New("HS256", []byte(cfg.JWT.Secret), nil)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc, configProvider)
	router := appHTTP.NewRouter(cfg.App, jwtAuth, payrollHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
