package domain

// BasketLine pairs a product with a quantity of at least one.
type BasketLine struct {
	Quantity int     `json:"quantity"`
	Product  Product `json:"product"`
}

// Basket is an ordered list of lines, at most one per product ID, kept in
// order of first add. Basket is not safe for concurrent use.
type Basket struct {
	Lines []BasketLine `json:"lines"`
}

// NewBasket returns a basket holding lines. Lines with a non-positive
// quantity and repeated product IDs are merged away so the invariants hold.
func NewBasket(lines []BasketLine) *Basket {
	b := &Basket{Lines: make([]BasketLine, 0, len(lines))}
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		if i := b.FindLineIndex(l.Product.ID); i >= 0 {
			b.Lines[i].Quantity += l.Quantity
			continue
		}
		b.Lines = append(b.Lines, l)
	}
	return b
}

// FindLineIndex returns the index of the line for productID, or -1.
func (b *Basket) FindLineIndex(productID int64) int {
	for i := range b.Lines {
		if b.Lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// Add increments the line for p, appending a line of quantity 1 when p is
// not in the basket yet.
func (b *Basket) Add(p Product) {
	if i := b.FindLineIndex(p.ID); i >= 0 {
		b.Lines[i].Quantity++
		return
	}
	b.Lines = append(b.Lines, BasketLine{Quantity: 1, Product: p})
}

// Remove decrements the line for productID and deletes it when its quantity
// reaches zero. It reports whether a line was found.
func (b *Basket) Remove(productID int64) bool {
	i := b.FindLineIndex(productID)
	if i < 0 {
		return false
	}
	if b.Lines[i].Quantity > 1 {
		b.Lines[i].Quantity--
		return true
	}
	b.Lines = append(b.Lines[:i], b.Lines[i+1:]...)
	return true
}

// Clear empties the basket.
func (b *Basket) Clear() {
	b.Lines = []BasketLine{}
}

// Quantity returns the quantity of productID, 0 when absent.
func (b *Basket) Quantity(productID int64) int {
	if i := b.FindLineIndex(productID); i >= 0 {
		return b.Lines[i].Quantity
	}
	return 0
}

// ItemCount returns the total number of units across all lines.
func (b *Basket) ItemCount() int {
	n := 0
	for _, l := range b.Lines {
		n += l.Quantity
	}
	return n
}

// TotalAmount returns the sum of price times quantity over all lines.
func (b *Basket) TotalAmount() int64 {
	var total int64
	for _, l := range b.Lines {
		total += l.Product.Price * int64(l.Quantity)
	}
	return total
}

// IsEmpty reports whether the basket has no lines.
func (b *Basket) IsEmpty() bool {
	return len(b.Lines) == 0
}

// Clone returns a deep copy.
func (b *Basket) Clone() *Basket {
	lines := make([]BasketLine, len(b.Lines))
	copy(lines, b.Lines)
	return &Basket{Lines: lines}
}
