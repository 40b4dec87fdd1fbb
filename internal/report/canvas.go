package report

import "math"

// canvas is a grid of braille cells, each holding 2x4 dots.
type canvas struct {
	cells [][]uint8
}

func newCanvas(width, height int) *canvas {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return &canvas{cells: cells}
}

// braille dot bits indexed by [dotY][dotX].
var dotBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func (c *canvas) set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	cy, cx := y/4, x/2
	if cy >= len(c.cells) || cx >= len(c.cells[cy]) {
		return
	}
	c.cells[cy][cx] |= dotBits[y%4][x%2]
}

// trace draws values (one per cell column) scaled into [lo, hi].
func (c *canvas) trace(values []float64, lo, hi float64, d dash) {
	rows := len(c.cells) * 4
	prevX, prevY := -1, -1
	for i, v := range values {
		x := i * 2
		y := int(math.Round((1 - (v-lo)/(hi-lo)) * float64(rows-1)))
		y = max(0, min(y, rows-1))
		if prevX < 0 {
			if d.on > x%d.period {
				c.set(x, y)
			}
		} else {
			line(prevX, prevY, x, y, func(px, py int) {
				if d.on > px%d.period {
					c.set(px, py)
				}
			})
		}
		prevX, prevY = x, y
	}
}

// compose merges the layers at one cell; owner is the first layer with dots or -1.
func compose(layers []*canvas, x, y int) (mask uint8, owner int) {
	owner = -1
	for i, l := range layers {
		m := l.cells[y][x]
		if m == 0 {
			continue
		}
		if owner < 0 {
			owner = i
		}
		mask |= m
	}
	return mask, owner
}

// line walks the Bresenham line from (x0, y0) to (x1, y1).
func line(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
