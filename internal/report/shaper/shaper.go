package shaper

import (
	"cmp"
	"slices"
	"strconv"
	"time"

	"github.com/gosimple/slug"
	customerdomain "github.com/smallbiznis/wasafinance/internal/customer/domain"
	"github.com/smallbiznis/wasafinance/internal/dashboard/calc"
	expensedomain "github.com/smallbiznis/wasafinance/internal/expense/domain"
	"github.com/smallbiznis/wasafinance/internal/period"
)

const topN = 5

// Input carries lists already filtered to the report's scope.
type Input struct {
	Type         ReportType
	BusinessName string
	Period       period.Period
	GeneratedAt  time.Time
	Customers    []customerdomain.Customer
	Expenses     []expensedomain.Expense
	Metrics      calc.DashboardMetrics
	ProfitShare  calc.ProfitShare
}

func Shape(in Input) (Document, error) {
	if _, ok := reportTitles[in.Type]; !ok {
		return Document{}, ErrInvalidReportType
	}
	loc := in.Period.Location

	doc := Document{
		Type:         in.Type,
		Title:        in.Type.Title(),
		BusinessName: in.BusinessName,
		GeneratedAt:  in.GeneratedAt,
		Generated:    FormatDateTime(in.GeneratedAt, loc),
		Filename:     Filename(in.Type, in.Period, in.GeneratedAt),
	}

	switch in.Type {
	case TypeFinancial:
		doc.Subtitle = "Periode " + in.Period.Label()
		doc.Tables = []Table{
			FinancialSummary(in.Metrics, in.ProfitShare),
			PaymentSummary(in.Customers),
			CustomerTable(in.Customers, loc),
			ExpenseTable(in.Expenses, loc),
			TopCustomersTable(in.Customers),
			TopExpensesTable(in.Expenses, loc),
		}
	case TypeCustomers:
		doc.Subtitle = "Per " + FormatDate(in.GeneratedAt, loc)
		doc.Tables = []Table{CustomerTable(in.Customers, loc)}
	case TypeExpenses:
		doc.Subtitle = "Periode " + in.Period.Label()
		doc.Tables = []Table{
			TopExpensesTable(in.Expenses, loc),
			ExpenseTable(in.Expenses, loc),
		}
	}
	return doc, nil
}

// Filename encodes the report type and its period or date, e.g.
// "laporan-keuangan-oktober-2024.pdf".
func Filename(t ReportType, p period.Period, generatedAt time.Time) string {
	scope := p.Label()
	if t == TypeCustomers {
		local := generatedAt
		if p.Location != nil {
			local = generatedAt.In(p.Location)
		}
		scope = local.Format("2006-01-02")
	}
	return slug.Make(t.Title()+" "+scope) + ".pdf"
}

func FinancialSummary(m calc.DashboardMetrics, policy calc.ProfitShare) Table {
	t := newTable("Ringkasan Keuangan", []Column{
		{Header: "Keterangan", Width: 8},
		{Header: "Jumlah", Width: 4, Align: AlignRight},
	})
	t.addRow("Total Pendapatan (Sebelum Diskon)", FormatIDR(m.TotalRevenueBeforeDiscount))
	t.addRow("Total Diskon", FormatIDR(m.TotalDiscount))
	t.addRow("Total Pendapatan (Setelah Diskon)", FormatIDR(m.TotalRevenueAfterDiscount))
	t.addRow("Bagian Wasa ("+FormatBasisPoints(policy.WasaBasisPoints)+")", FormatIDR(m.WasaProfit))
	t.addRow("Bagian Kantor ("+FormatBasisPoints(policy.OfficeBasisPoints)+")", FormatIDR(m.OfficeProfit))
	t.addRow("Total Pengeluaran", FormatIDR(m.TotalExpenses))
	t.addRow("Laba Bersih Wasa (Sebelum Diskon)", FormatIDR(m.WasaNetProfitBeforeDiscount))
	t.addRow("Diskon Ditanggung Wasa", FormatIDR(m.WasaTotalDiscount))
	t.addRow("Laba Bersih Wasa", FormatIDR(m.WasaNetProfitAfterDiscount))
	t.addRow("Pelanggan Baru", formatCount(m.NewCustomers))
	t.addRow("Total Pelanggan Aktif", formatCount(m.TotalActiveCustomers))
	t.addRow("Sudah Bayar", formatCount(m.PaidCustomers))
	t.addRow("Off", formatCount(m.UnpaidCustomers))
	return t.finish()
}

// PaymentSummary breaks active customers down by who collected payment.
func PaymentSummary(customers []customerdomain.Customer) Table {
	t := newTable("Ringkasan Pembayaran", []Column{
		{Header: "Penerima", Width: 3},
		{Header: "Pelanggan", Width: 2, Align: AlignRight},
		{Header: "Pendapatan Kotor", Width: 3, Align: AlignRight},
		{Header: "Diskon", Width: 2, Align: AlignRight},
		{Header: "Pendapatan Bersih", Width: 2, Align: AlignRight},
	})

	type bucket struct {
		count    int
		gross    int64
		discount int64
	}
	var wasa, kantor bucket
	for _, c := range customers {
		if c.Status != customerdomain.StatusActive {
			continue
		}
		b := &wasa
		if c.PaymentTarget.IsKantor() {
			b = &kantor
		}
		b.count++
		b.gross += c.PackagePrice
		b.discount += c.DiscountAmount
	}

	for _, row := range []struct {
		label string
		b     bucket
	}{
		{string(customerdomain.PaymentTargetWasa), wasa},
		{string(customerdomain.PaymentTargetKantor), kantor},
	} {
		t.addRow(row.label, formatCount(row.b.count), FormatIDR(row.b.gross), FormatIDR(row.b.discount), FormatIDR(row.b.gross-row.b.discount))
	}
	total := bucket{
		count:    wasa.count + kantor.count,
		gross:    wasa.gross + kantor.gross,
		discount: wasa.discount + kantor.discount,
	}
	t.Footer = []string{"Total", formatCount(total.count), FormatIDR(total.gross), FormatIDR(total.discount), FormatIDR(total.gross - total.discount)}
	return t.finish()
}

// TopCustomers ranks by net price, highest first; ties keep input order.
func TopCustomers(customers []customerdomain.Customer, n int) []customerdomain.Customer {
	ranked := slices.Clone(customers)
	slices.SortStableFunc(ranked, func(a, b customerdomain.Customer) int {
		return cmp.Compare(b.NetPrice(), a.NetPrice())
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// TopExpenses ranks by amount, highest first; ties keep input order.
func TopExpenses(expenses []expensedomain.Expense, n int) []expensedomain.Expense {
	ranked := slices.Clone(expenses)
	slices.SortStableFunc(ranked, func(a, b expensedomain.Expense) int {
		return cmp.Compare(b.Amount, a.Amount)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func TopCustomersTable(customers []customerdomain.Customer) Table {
	t := newTable("5 Pelanggan Teratas", []Column{
		{Header: "No", Width: 1, Align: AlignCenter},
		{Header: "Nama", Width: 4},
		{Header: "Paket", Width: 3},
		{Header: "Harga Akhir", Width: 4, Align: AlignRight},
	})
	for i, c := range TopCustomers(customers, topN) {
		t.addRow(strconv.Itoa(i+1), c.Name, c.PackageName, FormatIDR(c.NetPrice()))
	}
	return t.finish()
}

func TopExpensesTable(expenses []expensedomain.Expense, loc *time.Location) Table {
	t := newTable("5 Pengeluaran Terbesar", []Column{
		{Header: "No", Width: 1, Align: AlignCenter},
		{Header: "Deskripsi", Width: 4},
		{Header: "Tanggal", Width: 3},
		{Header: "Jumlah", Width: 4, Align: AlignRight},
	})
	for i, e := range TopExpenses(expenses, topN) {
		t.addRow(strconv.Itoa(i+1), e.Description, FormatDate(e.Date, loc), FormatIDR(e.Amount))
	}
	return t.finish()
}

func CustomerTable(customers []customerdomain.Customer, loc *time.Location) Table {
	t := newTable("Data Pelanggan", []Column{
		{Header: "No", Width: 1, Align: AlignCenter},
		{Header: "Nama", Width: 2},
		{Header: "Kontak", Width: 2},
		{Header: "Paket", Width: 1},
		{Header: "Harga", Width: 1, Align: AlignRight},
		{Header: "Diskon", Width: 1, Align: AlignRight},
		{Header: "Harga Akhir", Width: 1, Align: AlignRight},
		{Header: "Status", Width: 1},
		{Header: "Penerima", Width: 1},
		{Header: "Tanggal", Width: 1},
	})

	var price, discount int64
	for i, c := range customers {
		t.addRow(
			strconv.Itoa(i+1),
			c.Name,
			contact(c),
			c.PackageName,
			FormatIDR(c.PackagePrice),
			FormatIDR(c.DiscountAmount),
			FormatIDR(c.NetPrice()),
			c.Status.Label(),
			string(c.PaymentTarget.Normalized()),
			FormatDate(c.CreatedAt, loc),
		)
		price += c.PackagePrice
		discount += c.DiscountAmount
	}
	t.Footer = []string{"", "Total", "", "", FormatIDR(price), FormatIDR(discount), FormatIDR(price - discount), "", "", ""}
	return t.finish()
}

func ExpenseTable(expenses []expensedomain.Expense, loc *time.Location) Table {
	t := newTable("Data Pengeluaran", []Column{
		{Header: "No", Width: 1, Align: AlignCenter},
		{Header: "Tanggal", Width: 2},
		{Header: "Deskripsi", Width: 4},
		{Header: "Kategori", Width: 2},
		{Header: "Jumlah", Width: 3, Align: AlignRight},
	})

	var total int64
	for i, e := range expenses {
		category := e.Category
		if category == "" {
			category = "-"
		}
		t.addRow(strconv.Itoa(i+1), FormatDate(e.Date, loc), e.Description, category, FormatIDR(e.Amount))
		total += e.Amount
	}
	t.Footer = []string{"", "", "Total", "", FormatIDR(total)}
	return t.finish()
}

func contact(c customerdomain.Customer) string {
	switch {
	case c.Email != "" && c.PhoneNumber != "":
		return c.Email + " / " + c.PhoneNumber
	case c.Email != "":
		return c.Email
	case c.PhoneNumber != "":
		return c.PhoneNumber
	default:
		return "-"
	}
}
