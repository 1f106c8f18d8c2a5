package grid

import (
	"testing"

	"luxgen/internal/model"
)

func TestBuildUniformGrid(t *testing.T) {
	room := model.Room{Width: 10, Length: 10, Height: 3}
	points, err := Build(room, 1.0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(points) != 100 {
		t.Fatalf("expected 100 points, got %d", len(points))
	}
	for _, p := range points {
		if p.Z != WorkingHeight {
			t.Fatalf("expected working height %g, got %g", WorkingHeight, p.Z)
		}
		if p.X < 0 || p.X > room.Width || p.Y < 0 || p.Y > room.Length {
			t.Fatalf("point out of room: %+v", p)
		}
	}
	if points[0].X != 0.5 || points[0].Y != 0.5 {
		t.Fatalf("expected first point at cell center (0.5, 0.5), got (%g, %g)", points[0].X, points[0].Y)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	room := model.Room{Width: 7.3, Length: 4.1, Height: 3}
	a, err := Build(room, 0.9)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	b, err := Build(room, 0.9)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("point counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("point %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestBuildHonorsMinStep(t *testing.T) {
	room := model.Room{Width: 2, Length: 2, Height: 3}
	points, err := Build(room, 0.1)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// 2m axis at min step 0.5 gives 4 cells per axis
	if len(points) != 16 {
		t.Fatalf("expected 16 points at min step, got %d", len(points))
	}
}

func TestBuildRejectsBadInputs(t *testing.T) {
	if _, err := Build(model.Room{Width: 0, Length: 5, Height: 3}, 1); err == nil {
		t.Fatal("expected error for zero width")
	}
	if _, err := Build(model.Room{Width: 5, Length: 5, Height: 3}, 0); err == nil {
		t.Fatal("expected error for zero resolution")
	}
}
