package circuit

import "math"

// Properties is the per-diagram page, grid and snap record.
// The model never snaps on its own; the editor applies [Properties.Snap]
// to coordinates before handing them to the graph.
type Properties struct {
	PageWidth   int     `toml:"page_width" json:"page_width"`
	PageHeight  int     `toml:"page_height" json:"page_height"`
	GridOriginX int     `toml:"grid_origin_x" json:"grid_origin_x"`
	GridOriginY int     `toml:"grid_origin_y" json:"grid_origin_y"`
	GridWidth   int     `toml:"grid_width" json:"grid_width"`
	GridHeight  int     `toml:"grid_height" json:"grid_height"`
	GridSize    int     `toml:"grid_size" json:"grid_size"`
	SnapX       float64 `toml:"snap_x" json:"snap_x"`
	SnapY       float64 `toml:"snap_y" json:"snap_y"`
	SnapOffsetX float64 `toml:"snap_offset_x" json:"snap_offset_x"`
	SnapOffsetY float64 `toml:"snap_offset_y" json:"snap_offset_y"`
}

// DefaultProperties returns the properties of a new diagram:
// a landscape page with a 600x750 grid of 30-unit cells and a 15-unit snap.
func DefaultProperties() Properties {
	return Properties{
		PageWidth:   1260,
		PageHeight:  891,
		GridOriginX: 330,
		GridOriginY: 31,
		GridWidth:   600,
		GridHeight:  750,
		GridSize:    30,
		SnapX:       15,
		SnapY:       15,
	}
}

// Snap rounds (x, y) to the snap grid.
func (p Properties) Snap(x, y float64) (float64, float64) {
	return Snap(x, p.SnapX, p.SnapOffsetX), Snap(y, p.SnapY, p.SnapOffsetY)
}

// Snap rounds v to the nearest multiple of step, shifted by offset.
// A non-positive step returns v unchanged.
func Snap(v, step, offset float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round((v-offset)/step)*step + offset
}
