package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
	PasswordHash string `json:"-"`
}

// UserRecord is the persisted shape of a User. The API type hides the
// credential hash from JSON; the stored record must round-trip it.
type UserRecord struct {
	User
	PasswordHash string `json:"passwordHash"`
}

func NewUserRecord(u User) UserRecord {
	return UserRecord{User: u, PasswordHash: u.PasswordHash}
}

func (r UserRecord) AsUser() User {
	u := r.User
	u.PasswordHash = r.PasswordHash
	return u
}

type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	SubCategory string   `json:"subCategory,omitempty"`
	Image       string   `json:"image"`
	Images      []string `json:"images,omitempty"`
	Stock       int      `json:"stock"`
	Rating      float64  `json:"rating"`
	Reviews     int      `json:"reviews"`
	IsFeatured  bool     `json:"isFeatured,omitempty"`
}

type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Image    string `json:"image"`
	ParentID string `json:"parentId,omitempty"`
}

// CartItem is a snapshot of a product at the moment it was added to the
// cart, plus a quantity. Later catalog edits do not affect it.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
)

// Terminal reports whether no further transition may leave the status.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// CanTransition reports whether the status graph allows s -> next.
// Cancelled is reachable from every non-terminal state.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if !next.Valid() || s.Terminal() {
		return false
	}
	if next == OrderCancelled {
		return true
	}
	switch s {
	case OrderPending:
		return next == OrderProcessing
	case OrderProcessing:
		return next == OrderShipped
	case OrderShipped:
		return next == OrderDelivered
	}
	return false
}

type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"userId"`
	Items           []CartItem  `json:"items"`
	Total           float64     `json:"total"`
	Status          OrderStatus `json:"status"`
	ShippingAddress string      `json:"shippingAddress"`
	Phone           string      `json:"phone"`
	PaymentMethod   string      `json:"paymentMethod"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// Stats is the admin dashboard aggregate, recomputed on every call.
type Stats struct {
	Revenue         float64 `json:"revenue"`
	TotalOrders     int     `json:"totalOrders"`
	TotalProducts   int     `json:"totalProducts"`
	TotalUsers      int     `json:"totalUsers"`
	TotalCategories int     `json:"totalCategories"`
	RecentOrders    []Order `json:"recentOrders"`
}
