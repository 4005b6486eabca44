package fakeapi

import "github.com/etnz/budget"

var defaultCategories = []struct {
	name, icon, color string
	kind              budget.Kind
}{
	{"Food & Dining", "utensils", "#FF6B6B", budget.Expense},
	{"Transportation", "car", "#4ECDC4", budget.Expense},
	{"Housing", "home", "#45B7D1", budget.Expense},
	{"Utilities", "bolt", "#96CEB4", budget.Expense},
	{"Healthcare", "heart", "#FF8B94", budget.Expense},
	{"Entertainment", "film", "#9B59B6", budget.Expense},
	{"Shopping", "shopping-bag", "#F39C12", budget.Expense},
	{"Personal Care", "spa", "#E74C3C", budget.Expense},
	{"Education", "book", "#3498DB", budget.Expense},
	{"Other Expense", "ellipsis-h", "#95A5A6", budget.Expense},
	{"Salary", "briefcase", "#2ECC71", budget.Income},
	{"Freelance", "laptop", "#1ABC9C", budget.Income},
	{"Investments", "chart-line", "#27AE60", budget.Income},
	{"Gifts", "gift", "#F1C40F", budget.Income},
	{"Other Income", "plus-circle", "#16A085", budget.Income},
}

var banks = []budget.BankInfo{
	{Name: "Chase Bank", Accounts: []string{"Checking", "Savings"}},
	{Name: "Bank of America", Accounts: []string{"Checking", "Savings", "Credit Card"}},
	{Name: "Wells Fargo", Accounts: []string{"Checking"}},
	{Name: "Capital One", Accounts: []string{"Savings", "Credit Card"}},
}

// merchants feed synced transactions, in turn.
var merchants = []struct {
	name     string
	category string
	amount   float64
}{
	{"Starbucks", "Food & Dining", 6.45},
	{"Amazon", "Shopping", 42.99},
	{"Netflix", "Entertainment", 15.49},
	{"Uber", "Transportation", 23.10},
	{"Electric Company", "Utilities", 112.30},
	{"CVS Pharmacy", "Healthcare", 18.75},
	{"Payroll - Direct Deposit", "Salary", 3200},
	{"Corner Shop", "", 9.99},
}

// syncSize is the number of transactions fetched by a sync.
const syncSize = 3

// balances are the fixed balances reported per account type.
var balances = map[string]float64{
	"checking": 2450.75,
	"savings":  10250.00,
	"credit":   -812.40,
}

// seed installs the default categories. It must be called with mu held.
func (s *Server) seed() {
	for _, d := range defaultCategories {
		icon, color := d.icon, d.color
		s.categories = append(s.categories, budget.Category{
			ID:        s.nextID(),
			Name:      d.name,
			Type:      d.kind,
			IsDefault: true,
			Icon:      &icon,
			Color:     &color,
			CreatedAt: now(),
		})
	}
}

// categoryNamed returns the category called name. It must be called with mu held.
func (s *Server) categoryNamed(name string) (budget.Category, bool) {
	for _, c := range s.categories {
		if c.Name == name {
			return c, true
		}
	}
	return budget.Category{}, false
}

// category returns the category id. It must be called with mu held.
func (s *Server) category(id int) (budget.Category, bool) {
	i := find(s.categories, id, func(c budget.Category) int { return c.ID })
	if i < 0 {
		return budget.Category{}, false
	}
	return s.categories[i], true
}

// suggest returns the category matching a merchant, "Other Expense" otherwise.
// It must be called with mu held.
func (s *Server) suggest(merchant string) *budget.Category {
	name := "Other Expense"
	for _, m := range merchants {
		if m.name == merchant && m.category != "" {
			name = m.category
		}
	}
	c, ok := s.categoryNamed(name)
	if !ok {
		return nil
	}
	return &c
}
