package service

// Paging bounds the page sizes clients may ask for
type Paging struct {
	DefaultSize int
	MaxSize     int
}

// normalize applies defaults to page and perPage and clamps perPage to MaxSize
func (p Paging) normalize(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = p.DefaultSize
	}
	if perPage > p.MaxSize {
		perPage = p.MaxSize
	}
	return page, perPage
}

func offset(page, perPage int) int {
	return (page - 1) * perPage
}
