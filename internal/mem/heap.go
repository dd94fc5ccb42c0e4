package mem

import "fmt"

// DefaultPageSize provides a default for Heap.PageSize.
const DefaultPageSize = 256

// Heap implements a paged cell memory with a bump allocator. Pages are
// allocated lazily on first store; loads from unallocated pages yield 0.
type Heap struct {
	// PageSize specifies the length of newly allocated pages.
	PageSize uint

	// Limit specifies a cell count past which any allot, load or store
	// results in a LimitError; 0 means unlimited.
	Limit uint

	pages map[uint][]int
	here  uint
}

// LimitError indicates that a memory operation exceeded the heap Limit.
type LimitError struct {
	Addr uint
	Op   string
}

func (lim LimitError) Error() string {
	return fmt.Sprintf("memory limit exceeded by %v @%v", lim.Op, lim.Addr)
}

// Here returns the next unallocated address.
func (h *Heap) Here() uint { return h.here }

// Allot reserves n cells, returning the address of the first one.
func (h *Heap) Allot(n uint) (uint, error) {
	addr := h.here
	if err := h.checkLimit(addr+n, "allot"); err != nil {
		return 0, err
	}
	h.here += n
	return addr, nil
}

// Load returns the value stored at addr.
func (h *Heap) Load(addr uint) (int, error) {
	if err := h.checkLimit(addr+1, "load"); err != nil {
		return 0, err
	}
	page, i := h.locate(addr)
	if p := h.pages[page]; p != nil {
		return p[i], nil
	}
	return 0, nil
}

// Stor stores values starting at addr, allocating pages as needed.
// No partial store is done if the limit would be exceeded.
func (h *Heap) Stor(addr uint, values ...int) error {
	if err := h.checkLimit(addr+uint(len(values)), "stor"); err != nil {
		return err
	}
	for _, val := range values {
		page, i := h.locate(addr)
		p := h.pages[page]
		if p == nil {
			if h.pages == nil {
				h.pages = make(map[uint][]int)
			}
			p = make([]int, h.pageSize())
			h.pages[page] = p
		}
		p[i] = val
		addr++
	}
	return nil
}

// Pages returns the number of allocated pages.
func (h *Heap) Pages() int { return len(h.pages) }

func (h *Heap) pageSize() uint {
	if h.PageSize == 0 {
		h.PageSize = DefaultPageSize
	}
	return h.PageSize
}

func (h *Heap) locate(addr uint) (page, i uint) {
	size := h.pageSize()
	return addr / size, addr % size
}

func (h *Heap) checkLimit(end uint, op string) error {
	if limit := h.Limit; limit != 0 && end > limit {
		return LimitError{end - 1, op}
	}
	return nil
}
