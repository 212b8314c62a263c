package service

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Page selects a zero-based page of results.
type Page struct {
	Number int
	Size   int
}

func (p Page) limitOffset() (int, int) {
	size := p.Size
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	number := p.Number
	if number < 0 {
		number = 0
	}
	return size, number * size
}
