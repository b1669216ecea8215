package slicestore

import (
	"math"

	"github.com/matzehuels/treestrut/pkg/errors"
)

// MachineShape describes the outline of the build plate.
type MachineShape string

const (
	ShapeRectangular MachineShape = "rectangular"
	ShapeElliptic    MachineShape = "elliptic"
)

// AdhesionType selects the platform adhesion printed around the model.
type AdhesionType string

const (
	AdhesionNone  AdhesionType = "none"
	AdhesionBrim  AdhesionType = "brim"
	AdhesionRaft  AdhesionType = "raft"
	AdhesionSkirt AdhesionType = "skirt"
)

// SupportType selects where support is allowed to rest.
type SupportType string

const (
	SupportBuildplateOnly SupportType = "buildplate_only"
	SupportEverywhere     SupportType = "everywhere"
)

// Machine describes the build volume and the adhesion allowance around the
// print. Lengths are in microns.
type Machine struct {
	Shape MachineShape `toml:"shape"`
	// Width and Depth are the XY extent of the build plate.
	Width int64 `toml:"width"`
	Depth int64 `toml:"depth"`

	Adhesion           AdhesionType `toml:"adhesion"`
	SkirtBrimLineWidth int64        `toml:"skirt_brim_line_width"`
	BrimLineCount      int64        `toml:"brim_line_count"`
	RaftMargin         int64        `toml:"raft_margin"`
	SkirtGap           int64        `toml:"skirt_gap"`
	SkirtLineCount     int64        `toml:"skirt_line_count"`
}

// AdhesionSize returns the clearance the platform adhesion needs around
// support. Unknown adhesion types fall back to zero; the caller logs.
func (m Machine) AdhesionSize() (size int64, known bool) {
	switch m.Adhesion {
	case AdhesionBrim:
		return m.SkirtBrimLineWidth * m.BrimLineCount, true
	case AdhesionRaft:
		return m.RaftMargin, true
	case AdhesionSkirt:
		return m.SkirtGap + m.SkirtBrimLineWidth*m.SkirtLineCount, true
	case AdhesionNone, "":
		return 0, true
	default:
		return 0, false
	}
}

// Settings holds every parameter the tree support pipeline reads. Lengths
// are in microns, angles in radians.
type Settings struct {
	LayerHeight int64 `toml:"layer_height"`

	TreeEnable          bool        `toml:"support_tree_enable"`
	SupportType         SupportType `toml:"support_type"`
	BranchDiameter      int64       `toml:"support_tree_branch_diameter"`
	BranchDistance      int64       `toml:"support_tree_branch_distance"`
	BranchDiameterAngle float64     `toml:"support_tree_branch_diameter_angle"`
	TreeAngle           float64     `toml:"support_tree_angle"`
	CollisionResolution int64       `toml:"support_tree_collision_resolution"`
	WallCount           int         `toml:"support_tree_wall_count"`

	XYDistance     int64 `toml:"support_xy_distance"`
	TopDistance    int64 `toml:"support_top_distance"`
	BottomDistance int64 `toml:"support_bottom_distance"`

	BottomEnable        bool  `toml:"support_bottom_enable"`
	BottomHeight        int64 `toml:"support_bottom_height"`
	InterfaceSkipHeight int64 `toml:"support_interface_skip_height"`
	RoofEnable          bool  `toml:"support_roof_enable"`
	RoofHeight          int64 `toml:"support_roof_height"`

	LineWidth    int64   `toml:"support_line_width"`
	SupportAngle float64 `toml:"support_angle"`
}

// Defaults for optional settings, applied by ValidateAndSetDefaults.
const (
	DefaultBranchDiameter      = 2000   // 2 mm
	DefaultBranchDistance      = 4000   // 4 mm
	DefaultCollisionResolution = 500    // 0.5 mm
	DefaultXYDistance          = 700    // 0.7 mm
	DefaultLineWidth           = 400    // 0.4 mm
	DefaultTreeAngle           = math.Pi / 4
	DefaultSupportAngle        = math.Pi / 3
)

// ValidateAndSetDefaults checks required fields and fills optional ones.
// This method is idempotent.
func (s *Settings) ValidateAndSetDefaults() error {
	if s.LayerHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidSetting, "layer_height must be positive, got %d", s.LayerHeight)
	}
	if s.BranchDiameter == 0 {
		s.BranchDiameter = DefaultBranchDiameter
	}
	if s.BranchDiameter < 0 {
		return errors.New(errors.ErrCodeInvalidSetting, "support_tree_branch_diameter must be positive, got %d", s.BranchDiameter)
	}
	if s.BranchDistance == 0 {
		s.BranchDistance = DefaultBranchDistance
	}
	if s.BranchDistance < 0 {
		return errors.New(errors.ErrCodeInvalidSetting, "support_tree_branch_distance must be positive, got %d", s.BranchDistance)
	}
	if s.CollisionResolution == 0 {
		s.CollisionResolution = DefaultCollisionResolution
	}
	if s.CollisionResolution < 0 {
		return errors.New(errors.ErrCodeInvalidSetting, "support_tree_collision_resolution must be positive, got %d", s.CollisionResolution)
	}
	if s.XYDistance == 0 {
		s.XYDistance = DefaultXYDistance
	}
	if s.LineWidth == 0 {
		s.LineWidth = DefaultLineWidth
	}
	if s.TreeAngle == 0 {
		s.TreeAngle = DefaultTreeAngle
	}
	if s.SupportAngle == 0 {
		s.SupportAngle = DefaultSupportAngle
	}
	if s.SupportType == "" {
		s.SupportType = SupportBuildplateOnly
	}
	switch s.SupportType {
	case SupportBuildplateOnly, SupportEverywhere:
	default:
		return errors.New(errors.ErrCodeInvalidSetting, "support_type must be %q or %q, got %q", SupportBuildplateOnly, SupportEverywhere, s.SupportType)
	}
	return nil
}

// BranchRadius returns half the configured branch diameter.
func (s *Settings) BranchRadius() int64 {
	return s.BranchDiameter / 2
}
