package models

// Categories is the fixed storefront category set. The backend owns the
// products but not this enumeration; it is a client-side constant and is
// never derived from the fetched catalog.
var Categories = []string{
	"BEER", "WINE", "SPIRITS", "COCKTAILS", "WHISKEY",
	"VODKA", "RUM", "GIN", "TEQUILA", "BRANDY", "CIDER",
}

type Product struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Price       Price  `json:"price"`
	Category    string `json:"category"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Quantity    int    `json:"quantity"`
}

// CartItem is the client copy of a server-owned cart line. The embedded
// product snapshot comes from the backend together with the line; the client
// never edits it.
type CartItem struct {
	ID       int     `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal is price times quantity for this line, in minor units.
func (i CartItem) Subtotal() Price {
	return i.Product.Price * Price(i.Quantity)
}

// Session is the authenticated identity as returned by the login endpoint.
type Session struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobileNumber"`
	Role         string `json:"role"`
	Username     string `json:"username"`
}

// Profile is the registration payload for the signup endpoint.
type Profile struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	MobileNumber string `json:"mobileNumber"`
}
