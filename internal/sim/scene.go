package sim

import "luxgen/internal/model"

// RoomSurfaces derives the six static surfaces of a rectangular room. These
// are registered into the scene before every simulation pass.
func RoomSurfaces(room model.Room) []Surface {
	w, l, h := room.Width, room.Length, room.Height
	return []Surface{
		{
			Name:        "floor",
			Center:      Point{X: w / 2, Y: l / 2, Z: 0},
			Normal:      Vector{Z: 1},
			Area:        w * l,
			Reflectance: room.FloorReflectance,
		},
		{
			Name:        "ceiling",
			Center:      Point{X: w / 2, Y: l / 2, Z: h},
			Normal:      Vector{Z: -1},
			Area:        w * l,
			Reflectance: room.CeilingReflectance,
		},
		{
			Name:        "wall_south",
			Center:      Point{X: w / 2, Y: 0, Z: h / 2},
			Normal:      Vector{Y: 1},
			Area:        w * h,
			Reflectance: room.WallReflectance,
		},
		{
			Name:        "wall_north",
			Center:      Point{X: w / 2, Y: l, Z: h / 2},
			Normal:      Vector{Y: -1},
			Area:        w * h,
			Reflectance: room.WallReflectance,
		},
		{
			Name:        "wall_west",
			Center:      Point{X: 0, Y: l / 2, Z: h / 2},
			Normal:      Vector{X: 1},
			Area:        l * h,
			Reflectance: room.WallReflectance,
		},
		{
			Name:        "wall_east",
			Center:      Point{X: w, Y: l / 2, Z: h / 2},
			Normal:      Vector{X: -1},
			Area:        l * h,
			Reflectance: room.WallReflectance,
		},
	}
}
