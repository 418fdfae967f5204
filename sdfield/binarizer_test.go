package sdfield

import "testing"

func uniformSampler(v float32) CoverageSampler {
	return func(x, y int) float32 { return v }
}

func rectArea(b Box2) float32 {
	return (b.Upper.X - b.Lower.X) * (b.Upper.Y - b.Lower.Y)
}

func totalArea(rects []Box2) float32 {
	var sum float32
	for _, r := range rects {
		sum += rectArea(r)
	}
	return sum
}

func TestBinarizeFullCoverageMarksAllButOne(t *testing.T) {
	b := Binarize(uniformSampler(255), 5, 5)

	const cellArea = float32(1) / (SubPixelDivs * SubPixelDivs)
	on := totalArea(b.PixelParts(false))
	off := totalArea(b.PixelParts(true))

	wantOn := cellArea * (SubPixelDivs*SubPixelDivs - 1)
	wantOff := cellArea

	if diff := on - wantOn; diff > 1e-4 || diff < -1e-4 {
		t.Fatalf("on area = %v, want %v", on, wantOn)
	}
	if diff := off - wantOff; diff > 1e-4 || diff < -1e-4 {
		t.Fatalf("off area = %v, want %v", off, wantOff)
	}
}

func TestBinarizeZeroCoverageMarksOnlyOne(t *testing.T) {
	b := Binarize(uniformSampler(0), 5, 5)

	const cellArea = float32(1) / (SubPixelDivs * SubPixelDivs)
	on := totalArea(b.PixelParts(false))
	off := totalArea(b.PixelParts(true))

	if diff := on - cellArea; diff > 1e-4 || diff < -1e-4 {
		t.Fatalf("on area = %v, want %v", on, cellArea)
	}
	wantOff := cellArea * (SubPixelDivs*SubPixelDivs - 1)
	if diff := off - wantOff; diff > 1e-4 || diff < -1e-4 {
		t.Fatalf("off area = %v, want %v", off, wantOff)
	}
}

func TestBinarizePartsPartitionTheUnitSquare(t *testing.T) {
	b := Binarize(uniformSampler(128), 5, 5)

	total := totalArea(b.PixelParts(false)) + totalArea(b.PixelParts(true))
	if diff := total - 1; diff > 1e-4 || diff < -1e-4 {
		t.Fatalf("on+off area = %v, want 1", total)
	}
}

func TestAxisBlendRanges(t *testing.T) {
	if i0, t0 := axisBlend(0); i0 != 0 || t0 != 0.5 {
		t.Fatalf("axisBlend(0) = (%d,%v), want (0,0.5)", i0, t0)
	}
	if i0, t0 := axisBlend(0.999); i0 != 1 || t0 < 0.49 {
		t.Fatalf("axisBlend(0.999) = (%d,%v), want i0=1", i0, t0)
	}
}
