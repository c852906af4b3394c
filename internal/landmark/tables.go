package landmark

// Anchor indices in the face mesh numbering.
const (
	LeftFaceEdge  = 234
	RightFaceEdge = 454
	LeftEyeOuter  = 33
	RightEyeOuter = 263
	Forehead      = 10
	Chin          = 152
	NoseTip       = 1
	UpperLip      = 13
)

// Pair is a (left, right) landmark index pair mirrored across the midline.
type Pair struct {
	Left  int
	Right int
}

// PairGroup is a named anatomical part and its mirror pairs.
type PairGroup struct {
	Part  string
	Pairs []Pair
}

// Part names used for scoring.
const (
	PartEyes  = "eyes"
	PartNose  = "nose"
	PartMouth = "mouth"
	PartEars  = "ears"
	PartChin  = "chin"
)

// AnatomicalPairs drives mirror-symmetry measurement.
var AnatomicalPairs = []PairGroup{
	{Part: PartEyes, Pairs: []Pair{{33, 263}, {160, 387}, {159, 386}}},
	{Part: PartMouth, Pairs: []Pair{{61, 291}, {78, 308}, {95, 324}}},
	{Part: PartEars, Pairs: []Pair{{234, 454}, {172, 397}, {152, 378}}},
	{Part: PartNose, Pairs: []Pair{{98, 327}}},
}

// Region names used for cropping.
const (
	RegionLeftEye   = "left_eye"
	RegionRightEye  = "right_eye"
	RegionNose      = "nose"
	RegionMouth     = "mouth"
	RegionLeftEar   = "left_ear"
	RegionRightEar  = "right_ear"
	RegionLeftChin  = "left_chin"
	RegionRightChin = "right_chin"
)

// Region is a crop area bounded by a fixed set of landmark indices.
type Region struct {
	Name    string
	Indices []int
}

// FaceRegions lists every crop region in output order.
var FaceRegions = []Region{
	{Name: RegionLeftEye, Indices: []int{33, 133, 160, 159, 158, 157, 173}},
	{Name: RegionRightEye, Indices: []int{362, 263, 387, 386, 385, 384, 398}},
	{Name: RegionNose, Indices: []int{1, 2, 98, 327}},
	{Name: RegionMouth, Indices: []int{13, 14, 78, 308, 61, 291}},
	{Name: RegionLeftEar, Indices: []int{234, 93}},
	{Name: RegionRightEar, Indices: []int{454, 323}},
	{Name: RegionLeftChin, Indices: []int{152, 150, 149, 176}},
	{Name: RegionRightChin, Indices: []int{152, 379, 378, 400}},
}

// Padding holds fractional padding relative to the full image size.
type Padding struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

// DefaultPadding applies to regions without an entry in RegionPadding.
var DefaultPadding = Padding{Top: 0.02, Bottom: 0.02, Left: 0.02, Right: 0.02}

// RegionPadding is measured against image width (left/right) and height
// (top/bottom), not against the region's own box.
var RegionPadding = map[string]Padding{
	RegionLeftEye:   {Top: 0.02, Bottom: 0.02, Left: 0.04, Right: 0.04},
	RegionRightEye:  {Top: 0.02, Bottom: 0.02, Left: 0.04, Right: 0.04},
	RegionNose:      {Top: 0.10, Bottom: 0.03, Left: 0.03, Right: 0.03},
	RegionMouth:     {Top: 0.05, Bottom: 0.06, Left: 0.04, Right: 0.04},
	RegionLeftEar:   {Top: 0.10, Bottom: 0.08, Left: 0.10, Right: 0.00},
	RegionRightEar:  {Top: 0.10, Bottom: 0.08, Left: 0.00, Right: 0.10},
	RegionLeftChin:  {Top: 0.12, Bottom: 0.02, Left: 0.10, Right: 0.00},
	RegionRightChin: {Top: 0.12, Bottom: 0.02, Left: 0.00, Right: 0.10},
}

// PaddingFor returns the padding for a region, falling back to DefaultPadding.
func PaddingFor(region string) Padding {
	if p, ok := RegionPadding[region]; ok {
		return p
	}
	return DefaultPadding
}

// Highlight is a landmark annotated on the report with its asymmetry distance.
type Highlight struct {
	Index int
	Name  string
}

// Highlights are the ten landmarks projected onto the symmetry axis.
var Highlights = []Highlight{
	{Index: 61, Name: "left_mouth"},
	{Index: 291, Name: "right_mouth"},
	{Index: 133, Name: "left_eye"},
	{Index: 362, Name: "right_eye"},
	{Index: 234, Name: "left_ear"},
	{Index: 454, Name: "right_ear"},
	{Index: 98, Name: "left_nose"},
	{Index: 327, Name: "right_nose"},
	{Index: 172, Name: "left_chin"},
	{Index: 397, Name: "right_chin"},
}
