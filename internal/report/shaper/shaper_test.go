package shaper

import (
	"testing"
	"time"

	customerdomain "github.com/smallbiznis/wasafinance/internal/customer/domain"
	"github.com/smallbiznis/wasafinance/internal/dashboard/calc"
	expensedomain "github.com/smallbiznis/wasafinance/internal/expense/domain"
	"github.com/smallbiznis/wasafinance/internal/period"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var october = period.Period{Year: 2024, Month: 10, Location: time.UTC}

func sampleCustomers() []customerdomain.Customer {
	created := time.Date(2024, 10, 3, 0, 0, 0, 0, time.UTC)
	return []customerdomain.Customer{
		{Name: "A", PackageName: "Basic", PackagePrice: 300000, DiscountAmount: 0, Status: customerdomain.StatusActive, PaymentTarget: customerdomain.PaymentTargetKantor, CreatedAt: created},
		{Name: "B", PackageName: "Pro", PackagePrice: 500000, DiscountAmount: 50000, Status: customerdomain.StatusActive, CreatedAt: created, Email: "b@example.com"},
		{Name: "C", PackageName: "Basic", PackagePrice: 300000, DiscountAmount: 0, Status: customerdomain.StatusUnpaid, CreatedAt: created},
		{Name: "D", PackageName: "Pro", PackagePrice: 500000, DiscountAmount: 50000, Status: customerdomain.StatusActive, CreatedAt: created},
		{Name: "E", PackageName: "Mini", PackagePrice: 100000, Status: customerdomain.StatusActive, CreatedAt: created},
		{Name: "F", PackageName: "Mini", PackagePrice: 100000, Status: customerdomain.StatusActive, CreatedAt: created},
		{Name: "G", PackageName: "Mini", PackagePrice: 100000, Status: customerdomain.StatusActive, CreatedAt: created},
	}
}

func TestFormatIDR(t *testing.T) {
	assert.Equal(t, "Rp 0", FormatIDR(0))
	assert.Equal(t, "Rp 1.250.000", FormatIDR(1250000))
	assert.Equal(t, "Rp 999", FormatIDR(999))
	assert.Equal(t, "-Rp 120.000", FormatIDR(-120000))
}

func TestFormatBasisPoints(t *testing.T) {
	assert.Equal(t, "40%", FormatBasisPoints(4000))
	assert.Equal(t, "33,33%", FormatBasisPoints(3333))
	assert.Equal(t, "5,05%", FormatBasisPoints(505))
}

func TestFormatDate(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	assert.Equal(t, "1 November 2024", FormatDate(time.Date(2024, 10, 31, 18, 0, 0, 0, time.UTC), loc))
	assert.Equal(t, "-", FormatDate(time.Time{}, loc))
	assert.Equal(t, "31 Oktober 2024 18:05", FormatDateTime(time.Date(2024, 10, 31, 18, 5, 0, 0, time.UTC), time.UTC))
}

func TestTopCustomersIsStableAndLimited(t *testing.T) {
	top := TopCustomers(sampleCustomers(), 5)
	require.Len(t, top, 5)

	names := make([]string, 0, len(top))
	for _, c := range top {
		names = append(names, c.Name)
	}
	// B and D tie at 450000 and keep input order, as do A and C, and E/F.
	assert.Equal(t, []string{"B", "D", "A", "C", "E"}, names)
}

func TestTopCustomersDoesNotMutateInput(t *testing.T) {
	input := sampleCustomers()
	_ = TopCustomers(input, 5)
	assert.Equal(t, "A", input[0].Name)
}

func TestTopExpenses(t *testing.T) {
	expenses := []expensedomain.Expense{
		{Description: "x", Amount: 10},
		{Description: "y", Amount: 30},
		{Description: "z", Amount: 30},
	}
	top := TopExpenses(expenses, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "y", top[0].Description)
	assert.Equal(t, "z", top[1].Description)
}

func TestEmptyTablesGetPlaceholder(t *testing.T) {
	for _, table := range []Table{
		TopCustomersTable(nil),
		TopExpensesTable(nil, time.UTC),
		CustomerTable(nil, time.UTC),
		ExpenseTable(nil, time.UTC),
	} {
		require.Len(t, table.Rows, 1, table.Title)
		assert.True(t, table.Placeholder, table.Title)
		assert.Equal(t, PlaceholderText, table.Rows[0][0])
		assert.Len(t, table.Rows[0], len(table.Columns))
		assert.Nil(t, table.Footer)
	}
}

func TestColumnWidthsFillGrid(t *testing.T) {
	for _, table := range []Table{
		FinancialSummary(calc.DashboardMetrics{}, calc.DefaultProfitShare()),
		PaymentSummary(nil),
		TopCustomersTable(nil),
		TopExpensesTable(nil, time.UTC),
		CustomerTable(sampleCustomers(), time.UTC),
		ExpenseTable(nil, time.UTC),
	} {
		sum := 0
		for _, c := range table.Columns {
			sum += c.Width
		}
		assert.Equal(t, 12, sum, table.Title)
		for _, row := range table.Rows {
			assert.Len(t, row, len(table.Columns), table.Title)
		}
		if table.Footer != nil {
			assert.Len(t, table.Footer, len(table.Columns), table.Title)
		}
	}
}

func TestPaymentSummaryBuckets(t *testing.T) {
	table := PaymentSummary(sampleCustomers())
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"Wasa", "5", "Rp 1.300.000", "Rp 100.000", "Rp 1.200.000"}, table.Rows[0])
	assert.Equal(t, []string{"Kantor", "1", "Rp 300.000", "Rp 0", "Rp 300.000"}, table.Rows[1])
	assert.Equal(t, []string{"Total", "6", "Rp 1.600.000", "Rp 100.000", "Rp 1.500.000"}, table.Footer)
}

func TestFinancialSummaryUsesPolicyLabels(t *testing.T) {
	m := calc.DashboardMetrics{WasaProfit: 320000, OfficeProfit: 480000, WasaNetProfitAfterDiscount: 70000}
	table := FinancialSummary(m, calc.DefaultProfitShare())
	assert.Contains(t, table.Rows, []string{"Bagian Wasa (40%)", "Rp 320.000"})
	assert.Contains(t, table.Rows, []string{"Bagian Kantor (60%)", "Rp 480.000"})
	assert.Contains(t, table.Rows, []string{"Laba Bersih Wasa", "Rp 70.000"})
}

func TestShapeFinancialSectionOrder(t *testing.T) {
	doc, err := Shape(Input{
		Type:         TypeFinancial,
		BusinessName: "Wasa Finance",
		Period:       october,
		GeneratedAt:  time.Date(2024, 11, 1, 9, 30, 0, 0, time.UTC),
		Customers:    sampleCustomers(),
		ProfitShare:  calc.DefaultProfitShare(),
	})
	require.NoError(t, err)

	assert.Equal(t, "Laporan Keuangan", doc.Title)
	assert.Equal(t, "Periode Oktober 2024", doc.Subtitle)
	assert.Equal(t, "1 November 2024 09:30", doc.Generated)
	assert.Equal(t, "laporan-keuangan-oktober-2024.pdf", doc.Filename)

	titles := make([]string, 0, len(doc.Tables))
	for _, table := range doc.Tables {
		titles = append(titles, table.Title)
	}
	assert.Equal(t, []string{
		"Ringkasan Keuangan",
		"Ringkasan Pembayaran",
		"Data Pelanggan",
		"Data Pengeluaran",
		"5 Pelanggan Teratas",
		"5 Pengeluaran Terbesar",
	}, titles)
	assert.True(t, doc.Tables[3].Placeholder)
	assert.True(t, doc.Tables[5].Placeholder)
}

func TestShapeCustomersReportIsDated(t *testing.T) {
	doc, err := Shape(Input{
		Type:        TypeCustomers,
		Period:      october,
		GeneratedAt: time.Date(2024, 10, 15, 8, 0, 0, 0, time.UTC),
		Customers:   sampleCustomers(),
	})
	require.NoError(t, err)
	assert.Equal(t, "laporan-pelanggan-2024-10-15.pdf", doc.Filename)
	assert.Equal(t, "Per 15 Oktober 2024", doc.Subtitle)
	require.Len(t, doc.Tables, 1)
	assert.Len(t, doc.Tables[0].Rows, 7)
	assert.Equal(t, "b@example.com", doc.Tables[0].Rows[1][2])
}

func TestShapeExpensesReport(t *testing.T) {
	doc, err := Shape(Input{
		Type:   TypeExpenses,
		Period: october,
		Expenses: []expensedomain.Expense{
			{Description: "Sewa", Amount: 200000, Date: time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "laporan-pengeluaran-oktober-2024.pdf", doc.Filename)
	require.Len(t, doc.Tables, 2)
	assert.Equal(t, []string{"1", "1 Oktober 2024", "Sewa", "-", "Rp 200.000"}, doc.Tables[1].Rows[0])
	assert.Equal(t, "Rp 200.000", doc.Tables[1].Footer[4])
}

func TestShapeRejectsUnknownType(t *testing.T) {
	_, err := Shape(Input{Type: "weekly"})
	assert.ErrorIs(t, err, ErrInvalidReportType)

	_, err = ParseReportType("Weekly")
	assert.ErrorIs(t, err, ErrInvalidReportType)

	rt, err := ParseReportType(" Financial ")
	require.NoError(t, err)
	assert.Equal(t, TypeFinancial, rt)
}
