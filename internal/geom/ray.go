package geom

// BoxesOverlap reports strict AABB overlap on all three axes.
func BoxesOverlap(aMin, aMax, bMin, bMax Vec3) bool {
	return aMin.X < bMax.X && aMax.X > bMin.X &&
		aMin.Y < bMax.Y && aMax.Y > bMin.Y &&
		aMin.Z < bMax.Z && aMax.Z > bMin.Z
}

// BoxContainsXZ reports whether the horizontal extent of a box contains the
// point (x, z).
func BoxContainsXZ(min, max Vec3, x, z float64) bool {
	return x >= min.X && x <= max.X && z >= min.Z && z <= max.Z
}

// RayHitsBox performs a slab test of the ray origin+t*dir against the AABB
// [min, max], accepting hits with t in [0, maxDist]. A zero direction
// component divides to ±Inf, which the interval arithmetic handles without a
// special case: the slab collapses to a contained/parallel check.
func RayHitsBox(origin, dir Vec3, min, max Vec3, maxDist float64) bool {
	tMin := 0.0
	tMax := maxDist

	invX := 1.0 / dir.X
	t1 := (min.X - origin.X) * invX
	t2 := (max.X - origin.X) * invX
	if invX < 0 {
		t1, t2 = t2, t1
	}
	if t1 > tMin {
		tMin = t1
	}
	if t2 < tMax {
		tMax = t2
	}
	if tMax < tMin {
		return false
	}

	invY := 1.0 / dir.Y
	t1 = (min.Y - origin.Y) * invY
	t2 = (max.Y - origin.Y) * invY
	if invY < 0 {
		t1, t2 = t2, t1
	}
	if t1 > tMin {
		tMin = t1
	}
	if t2 < tMax {
		tMax = t2
	}
	if tMax < tMin {
		return false
	}

	invZ := 1.0 / dir.Z
	t1 = (min.Z - origin.Z) * invZ
	t2 = (max.Z - origin.Z) * invZ
	if invZ < 0 {
		t1, t2 = t2, t1
	}
	if t1 > tMin {
		tMin = t1
	}
	if t2 < tMax {
		tMax = t2
	}

	return tMax >= tMin
}

// RayBoxDistance returns the entry distance of the ray into the AABB, or
// (0, false) when the ray misses or the box lies beyond maxDist. An origin
// inside the box reports distance 0.
func RayBoxDistance(origin, dir Vec3, min, max Vec3, maxDist float64) (float64, bool) {
	tMin := 0.0
	tMax := maxDist

	for axis := 0; axis < 3; axis++ {
		var o, lo, hi, d float64
		switch axis {
		case 0:
			o, lo, hi, d = origin.X, min.X, max.X, dir.X
		case 1:
			o, lo, hi, d = origin.Y, min.Y, max.Y, dir.Y
		default:
			o, lo, hi, d = origin.Z, min.Z, max.Z, dir.Z
		}
		inv := 1.0 / d
		t1 := (lo - o) * inv
		t2 := (hi - o) * inv
		if inv < 0 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMax < tMin {
			return 0, false
		}
	}

	return tMin, true
}
