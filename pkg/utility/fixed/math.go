package fixed

// Sum fails with ErrOutOfRange once the running total leaves the decimal range.
func Sum(points []Point) (Point, error) {
	sum := Zero
	for _, point := range points {
		var err error
		if sum, err = sum.CheckedAdd(point); err != nil {
			return Point{}, err
		}
	}
	return sum, nil
}

// Mean divides the exact sum when it fits the decimal range and otherwise falls back to a
// running mean, which stays within the range of its inputs.
func Mean(points []Point) (Point, error) {
	if len(points) == 0 {
		return Zero, nil
	}
	if sum, err := Sum(points); err == nil {
		return sum.CheckedDiv(FromInt(len(points), 0))
	}

	mean := Zero
	for i, point := range points {
		diff, err := point.CheckedSub(mean)
		if err != nil {
			return Point{}, err
		}
		step, err := diff.CheckedDiv(FromInt(i+1, 0))
		if err != nil {
			return Point{}, err
		}
		if mean, err = mean.CheckedAdd(step); err != nil {
			return Point{}, err
		}
	}
	return mean, nil
}

func SampleStdDev(points []Point, mean Point) (Point, error) {
	if len(points) <= 1 {
		return Zero, nil
	}
	sum := Zero
	for _, point := range points {
		diff, err := point.CheckedSub(mean)
		if err != nil {
			return Point{}, err
		}
		square, err := diff.CheckedMul(diff)
		if err != nil {
			return Point{}, err
		}
		if sum, err = sum.CheckedAdd(square); err != nil {
			return Point{}, err
		}
	}
	variance, err := sum.CheckedDiv(FromInt(len(points)-1, 0))
	if err != nil {
		return Point{}, err
	}
	return checked(variance.v.Sqrt())
}
