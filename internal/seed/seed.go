package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vietthreads/backoffice-backend/pkg/config"
	"github.com/vietthreads/backoffice-backend/pkg/enums"
	"github.com/vietthreads/backoffice-backend/pkg/models"
)

// Data is the full deterministic bootstrap state of the back office.
type Data struct {
	Products  []models.Product
	Orders    []models.Order
	Customers []models.Customer
}

type productTemplate struct {
	Name     string
	Category string
	Cost     int64
	Price    int64
	Colors   []string
	Sizes    []string
	Image    string
}

var productTemplates = []productTemplate{
	{"Áo thun Cotton Premium", "Áo thun", 120000, 350000, []string{"Trắng", "Đen", "Xám"}, []string{"S", "M", "L", "XL"}, "https://images.unsplash.com/photo-1521572267360-ee0c2909d518?w=400"},
	{"Quần Jean Slim Fit", "Quần Jean", 250000, 550000, []string{"Xanh", "Đen"}, []string{"29", "30", "31", "32"}, "https://images.unsplash.com/photo-1542272604-787c3835535d?w=400"},
	{"Sơ mi lụa nam", "Sơ mi", 200000, 500000, []string{"Trắng", "Xanh nhạt"}, []string{"M", "L", "XL"}, "https://images.unsplash.com/photo-1596755094514-f87e34085b2c?w=400"},
	{"Đầm Maxi Voan", "Váy Đầm", 400000, 950000, []string{"Hồng", "Vàng", "Xanh"}, []string{"S", "M", "L"}, "https://images.unsplash.com/photo-1572804013307-5977c143c250?w=400"},
	{"Áo khoác Bomber", "Áo Khoác", 350000, 750000, []string{"Xanh rêu", "Đen"}, []string{"L", "XL"}, "https://images.unsplash.com/photo-1591047139829-d91aecb6caea?w=400"},
	{"Chân váy chữ A", "Váy Đầm", 180000, 420000, []string{"Nâu", "Đen"}, []string{"S", "M"}, "https://images.unsplash.com/photo-1583496661160-fb5886a0aaaa?w=400"},
	{"Áo Hoodie Unisex", "Áo Khoác", 220000, 480000, []string{"Xám", "Đỏ", "Vàng"}, []string{"M", "L", "XL"}, "https://images.unsplash.com/photo-1556821840-3a63f95609a7?w=400"},
	{"Quần Tây Âu Nam", "Quần Tây", 280000, 620000, []string{"Đen", "Xanh đen"}, []string{"30", "31", "32"}, "https://images.unsplash.com/photo-1594633312681-425c7b97ccd1?w=400"},
}

var customerNames = []string{
	"Nguyễn Văn An", "Trần Thị Bình", "Lê Văn Cường", "Phạm Thị Dung", "Hoàng Văn Em",
	"Vũ Thị Phương", "Đỗ Văn Giang", "Bùi Thị Hạnh", "Lý Văn Hùng", "Chu Thị Kim",
	"Phan Văn Long", "Đặng Thị Mai", "Ngô Văn Nam", "Trịnh Thị Oanh", "Lương Văn Phúc",
	"Quách Thị Quỳnh", "Tạ Văn Sơn", "Đoàn Thị Thảo", "Hà Văn Uy", "Lâm Thị Xuân",
}

var discountCodes = []string{"FASHION_NEW", "SUMMER2024", "SALE50K", "VIP_MEMBER"}

// statusPath is the canonical walk used to build seeded status histories so
// the last history entry always matches the order's current status.
var statusPath = []enums.OrderStatus{
	enums.OrderStatusPending,
	enums.OrderStatusProcessing,
	enums.OrderStatusShipped,
	enums.OrderStatusDelivered,
	enums.OrderStatusExchangeReturn,
}

// Generate builds the bootstrap dataset. The same config always produces the
// same bytes; the rng seed is the only source of variation.
func Generate(cfg config.SeedConfig) Data {
	rng := rand.New(rand.NewSource(cfg.RNGSeed))

	products := generateProducts(rng)
	orders := generateOrders(rng, cfg.OrderCount, products)
	customers := generateCustomers(rng, products, orders)

	return Data{Products: products, Orders: orders, Customers: customers}
}

func generateProducts(rng *rand.Rand) []models.Product {
	opening := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	products := make([]models.Product, 0, len(productTemplates))
	for i, tpl := range productTemplates {
		stock := rng.Intn(80) + 10
		minStock := 20
		id := fmt.Sprintf("PROD-%04d", i+1)

		products = append(products, models.Product{
			ID:           id,
			Name:         tpl.Name,
			SKU:          fmt.Sprintf("FA-%s-%d", categoryCode(tpl.Category), 1000+i),
			Category:     tpl.Category,
			Image:        tpl.Image,
			Stock:        stock,
			MinStock:     minStock,
			CostPrice:    decimal.NewFromInt(tpl.Cost),
			SellingPrice: decimal.NewFromInt(tpl.Price),
			Status:       enums.StockStatusFor(stock, minStock),
			LastUpdated:  opening,
			Movements: []models.StockMovement{{
				ID:        fmt.Sprintf("MOV-%04d", i+1),
				ProductID: id,
				Type:      enums.MovementTypeImport,
				Quantity:  stock,
				Before:    0,
				After:     stock,
				Note:      "Nhập hàng đầu mùa",
				CreatedAt: opening,
				User:      "Kho_Manager",
			}},
		})
	}
	return products
}

func generateOrders(rng *rand.Rand, count int, products []models.Product) []models.Order {
	orders := make([]models.Order, 0, count)
	for i := 0; i < count; i++ {
		id := fmt.Sprintf("ORD-%03d", i+1)
		name := customerNames[i%len(customerNames)]
		status := statusPath[rng.Intn(len(statusPath))]

		month := time.Month(rng.Intn(2) + 4)
		day := rng.Intn(28) + 1
		createdAt := time.Date(2024, month, day, 10, 0, 0, 0, time.UTC)

		numItems := rng.Intn(2) + 1
		items := make([]models.OrderItem, 0, numItems)
		for j := 0; j < numItems; j++ {
			idx := rng.Intn(len(products))
			product := products[idx]
			tpl := productTemplates[idx]
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				Price:     product.SellingPrice,
				Quantity:  rng.Intn(2) + 1,
				Image:     product.Image,
				Size:      tpl.Sizes[rng.Intn(len(tpl.Sizes))],
				Color:     tpl.Colors[rng.Intn(len(tpl.Colors))],
			})
		}

		order := models.Order{
			ID:           id,
			CustomerName: name,
			Email:        emailFor(name, "example.com"),
			Phone:        fmt.Sprintf("09%08d", rng.Intn(90000000)+10000000),
			Address:      fmt.Sprintf("%d Đường Lê Lợi, TP.HCM", rng.Intn(500)+1),
			Status:       status,
			CreatedAt:    createdAt,
			Items:        items,
		}
		order.StatusHistory = historyFor(status, createdAt)

		subtotal := order.Subtotal()
		if rng.Float64() > 0.7 {
			order.Discount = decimal.NewFromInt(50000)
			order.DiscountCode = discountCodes[rng.Intn(len(discountCodes))]
		} else {
			order.Discount = decimal.Zero
		}
		order.TotalAmount = subtotal.Sub(order.Discount)

		if rng.Float64() > 0.9 {
			order.Note = "Giao giờ hành chính"
		}

		orders = append(orders, order)
	}
	return orders
}

// historyFor walks the canonical path up to the target status, one entry per
// hop, so seeded orders obey the same history shape live transitions produce.
func historyFor(target enums.OrderStatus, createdAt time.Time) []models.StatusLog {
	history := []models.StatusLog{{
		Status:    enums.OrderStatusPending,
		UpdatedAt: createdAt,
		UpdatedBy: "Hệ thống",
	}}
	for i := 1; i < len(statusPath); i++ {
		if statusPath[i-1] == target {
			break
		}
		history = append(history, models.StatusLog{
			Status:    statusPath[i],
			UpdatedAt: createdAt.Add(time.Duration(i) * 24 * time.Hour),
			UpdatedBy: "Admin",
		})
		if statusPath[i] == target {
			break
		}
	}
	return history
}

func generateCustomers(rng *rand.Rand, products []models.Product, orders []models.Order) []models.Customer {
	customers := make([]models.Customer, 0, 5)
	for i := 0; i < 5 && i < len(customerNames); i++ {
		name := customerNames[i]
		totalSpent := decimal.NewFromInt(int64(rng.Intn(10000000) + 1000000))
		level := "Bạc"
		if totalSpent.GreaterThan(decimal.NewFromInt(5000000)) {
			level = "Vàng"
		}

		var orderIDs []string
		for _, o := range orders {
			if o.CustomerName == name {
				orderIDs = append(orderIDs, o.ID)
			}
		}

		first := products[0]
		customers = append(customers, models.Customer{
			ID:              fmt.Sprintf("CUST-%04d", i+1),
			Name:            name,
			Email:           emailFor(name, "gmail.com"),
			Phone:           fmt.Sprintf("098%07d", rng.Intn(9000000)+1000000),
			Address:         "TP. Hồ Chí Minh",
			DOB:             "1995-05-10",
			TotalSpent:      totalSpent,
			OrderCount:      len(orderIDs),
			MembershipLevel: level,
			PurchasedProducts: []models.PurchasedProduct{{
				ProductID:     first.ID,
				Name:          first.Name,
				Image:         first.Image,
				TotalQuantity: 2,
				LastPurchased: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			}},
			OrderIDs: orderIDs,
			Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%d", i),
		})
	}
	return customers
}

func categoryCode(category string) string {
	runes := []rune(category)
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return strings.ToUpper(string(runes))
}

// vietnameseASCII folds the diacritics that occur in the seeded names.
var vietnameseASCII = strings.NewReplacer(
	"á", "a", "à", "a", "ả", "a", "ã", "a", "ạ", "a",
	"ă", "a", "ắ", "a", "ằ", "a", "ẳ", "a", "ẵ", "a", "ặ", "a",
	"â", "a", "ấ", "a", "ầ", "a", "ẩ", "a", "ẫ", "a", "ậ", "a",
	"é", "e", "è", "e", "ẻ", "e", "ẽ", "e", "ẹ", "e",
	"ê", "e", "ế", "e", "ề", "e", "ể", "e", "ễ", "e", "ệ", "e",
	"í", "i", "ì", "i", "ỉ", "i", "ĩ", "i", "ị", "i",
	"ó", "o", "ò", "o", "ỏ", "o", "õ", "o", "ọ", "o",
	"ô", "o", "ố", "o", "ồ", "o", "ổ", "o", "ỗ", "o", "ộ", "o",
	"ơ", "o", "ớ", "o", "ờ", "o", "ở", "o", "ỡ", "o", "ợ", "o",
	"ú", "u", "ù", "u", "ủ", "u", "ũ", "u", "ụ", "u",
	"ư", "u", "ứ", "u", "ừ", "u", "ử", "u", "ữ", "u", "ự", "u",
	"ý", "y", "ỳ", "y", "ỷ", "y", "ỹ", "y", "ỵ", "y",
	"đ", "d",
)

func emailFor(name, domain string) string {
	local := vietnameseASCII.Replace(strings.ToLower(name))
	local = strings.ReplaceAll(local, " ", ".")
	return local + "@" + domain
}
