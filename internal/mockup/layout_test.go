package mockup

import "testing"

func TestLogoPlacement(t *testing.T) {
	tests := []struct {
		name              string
		canvasW, canvasH  int
		logoW, logoH      int
		offsetX, offsetY  float64
		scale             float64
		wantLeft, wantTop int
	}{
		{
			name:    "zero offsets center the logo",
			canvasW: 2000, canvasH: 1600, logoW: 400, logoH: 300,
			scale:    1.0,
			wantLeft: 800, wantTop: 650,
		},
		{
			name:    "signed offsets shift from center",
			canvasW: 2000, canvasH: 1600, logoW: 400, logoH: 300,
			offsetX: -100, offsetY: 175,
			scale:    1.0,
			wantLeft: 700, wantTop: 825,
		},
		{
			name:    "preview scales offsets by 0.4",
			canvasW: 800, canvasH: 640, logoW: 160, logoH: 120,
			offsetX: -100, offsetY: 175,
			scale:    0.4,
			wantLeft: 280, wantTop: 330,
		},
		{
			name:    "large offsets may leave the canvas",
			canvasW: 800, canvasH: 640, logoW: 160, logoH: 120,
			offsetX: -5000, offsetY: 0,
			scale:    1.0,
			wantLeft: -4680, wantTop: 260,
		},
		{
			name:    "odd dimensions round instead of truncating",
			canvasW: 801, canvasH: 641, logoW: 160, logoH: 121,
			scale:    1.0,
			wantLeft: 321, wantTop: 260,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left, top := logoPlacement(tt.canvasW, tt.canvasH, tt.logoW, tt.logoH, tt.offsetX, tt.offsetY, tt.scale)
			if left != tt.wantLeft || top != tt.wantTop {
				t.Errorf("logoPlacement = (%d, %d), want (%d, %d)", left, top, tt.wantLeft, tt.wantTop)
			}
		})
	}
}
