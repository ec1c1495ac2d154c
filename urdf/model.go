// Package urdf reads Universal Robot Description Format documents and patches them with a
// virtual base.
package urdf

import (
	"encoding/xml"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Extension is the file extension associated with URDF files.
const Extension string = "urdf"

// Supported joint types.
const (
	FixedJoint      = "fixed"
	PrismaticJoint  = "prismatic"
	RevoluteJoint   = "revolute"
	ContinuousJoint = "continuous"
	PlanarJoint     = "planar"
	FloatingJoint   = "floating"
)

// ModelConfig represents the fields of a URDF file this package understands.
type ModelConfig struct {
	XMLName xml.Name      `xml:"robot"`
	Name    string        `xml:"name,attr"`
	Links   []LinkConfig  `xml:"link"`
	Joints  []JointConfig `xml:"joint"`
}

// LinkConfig is a URDF link element. Geometry is not interpreted.
type LinkConfig struct {
	XMLName xml.Name `xml:"link"`
	Name    string   `xml:"name,attr"`
}

// FrameRef names the link on either side of a joint.
type FrameRef struct {
	Link string `xml:"link,attr"`
}

// PoseConfig is a URDF origin element.
type PoseConfig struct {
	XYZ string `xml:"xyz,attr"` // "x y z" format, in meters
	RPY string `xml:"rpy,attr"` // "r p y" format, in radians
}

// AxisConfig is a URDF axis element.
type AxisConfig struct {
	XYZ string `xml:"xyz,attr"`
}

// LimitConfig is a URDF limit element.
type LimitConfig struct {
	Lower    float64 `xml:"lower,attr"` // translation limits are in meters, revolute limits are in radians
	Upper    float64 `xml:"upper,attr"` // translation limits are in meters, revolute limits are in radians
	Effort   float64 `xml:"effort,attr"`
	Velocity float64 `xml:"velocity,attr"`
}

// JointConfig is a URDF joint element.
type JointConfig struct {
	XMLName xml.Name     `xml:"joint"`
	Name    string       `xml:"name,attr"`
	Type    string       `xml:"type,attr"`
	Parent  FrameRef     `xml:"parent"`
	Child   FrameRef     `xml:"child"`
	Origin  *PoseConfig  `xml:"origin,omitempty"`
	Axis    *AxisConfig  `xml:"axis,omitempty"`
	Limit   *LimitConfig `xml:"limit,omitempty"`
}

// Joint is a parsed URDF joint. Limits are in meters for prismatic joints and radians otherwise.
type Joint struct {
	Name        string
	Type        string
	Parent      string
	Child       string
	Axis        r3.Vector
	Translation r3.Vector
	RPY         r3.Vector
	Min, Max    float64
	Effort      float64
	Velocity    float64
}

// ModelFile stores the raw bytes of the file used to create the model as well as its extension.
type ModelFile struct {
	Bytes     []byte
	Extension string
}

// Model is the in-memory handle for a loaded robot description.
type Model struct {
	name         string
	links        []string
	joints       []Joint
	jointIndex   map[string]int
	OriginalFile *ModelFile
}

// Name returns the model name.
func (m *Model) Name() string {
	return m.name
}

// Links returns the declared link names in document order.
func (m *Model) Links() []string {
	return append([]string(nil), m.links...)
}

// Joints returns every joint in document order.
func (m *Model) Joints() []Joint {
	return append([]Joint(nil), m.joints...)
}

// Joint looks up a joint by name.
func (m *Model) Joint(name string) (Joint, bool) {
	idx, ok := m.jointIndex[name]
	if !ok {
		return Joint{}, false
	}
	return m.joints[idx], true
}

// DoF returns the names of the movable joints in document order.
func (m *Model) DoF() []string {
	return lo.FilterMap(m.joints, func(j Joint, _ int) (string, bool) {
		return j.Name, j.Type != FixedJoint
	})
}

// HasVirtualBase reports whether the parsed model contains every virtual base joint.
func (m *Model) HasVirtualBase() bool {
	return lo.EveryBy(VirtualBaseJoints(), func(name string) bool {
		_, ok := m.jointIndex[name]
		return ok
	})
}

// ParseModelFile will read a given file and parse the contained URDF XML data into a Model.
func ParseModelFile(filename, modelName string) (*Model, error) {
	//nolint:gosec
	xmlData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read URDF file")
	}
	return UnmarshalModelXML(xmlData, modelName)
}

// UnmarshalModelXML parses URDF XML data into a Model. modelName sets the name of the model; the
// robot element's name is used when it is empty.
func UnmarshalModelXML(xmlData []byte, modelName string) (*Model, error) {
	// empty data probably means that the read URDF has no actionable information
	if len(xmlData) == 0 {
		return nil, ErrNoModelInformation
	}

	cfg := &ModelConfig{}
	if err := xml.Unmarshal(xmlData, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to convert URDF data to equivalent ModelConfig struct")
	}
	if modelName == "" {
		modelName = cfg.Name
	}

	model := &Model{
		name:       modelName,
		jointIndex: make(map[string]int, len(cfg.Joints)),
		OriginalFile: &ModelFile{
			Bytes:     xmlData,
			Extension: Extension,
		},
	}

	declared := make(map[string]bool, len(cfg.Links))
	for _, linkElem := range cfg.Links {
		if declared[linkElem.Name] {
			return nil, NewDuplicateNameError("link", linkElem.Name)
		}
		declared[linkElem.Name] = true
		model.links = append(model.links, linkElem.Name)
	}

	for _, jointElem := range cfg.Joints {
		if _, ok := model.jointIndex[jointElem.Name]; ok {
			return nil, NewDuplicateNameError("joint", jointElem.Name)
		}
		for _, link := range []string{jointElem.Parent.Link, jointElem.Child.Link} {
			if !declared[link] {
				return nil, NewUnknownLinkError(jointElem.Name, link)
			}
		}

		joint, err := jointElem.parse()
		if err != nil {
			return nil, err
		}
		model.jointIndex[joint.Name] = len(model.joints)
		model.joints = append(model.joints, joint)
	}

	return model, nil
}

func (cfg *JointConfig) parse() (Joint, error) {
	joint := Joint{
		Name:   cfg.Name,
		Type:   cfg.Type,
		Parent: cfg.Parent.Link,
		Child:  cfg.Child.Link,
		// URDF defaults the axis to x when none is given.
		Axis: r3.Vector{X: 1},
	}

	if cfg.Origin != nil {
		var err error
		if joint.Translation, err = parseVector(cfg.Origin.XYZ); err != nil {
			return Joint{}, errors.Wrapf(err, "joint %q origin xyz", cfg.Name)
		}
		if joint.RPY, err = parseVector(cfg.Origin.RPY); err != nil {
			return Joint{}, errors.Wrapf(err, "joint %q origin rpy", cfg.Name)
		}
	}
	if cfg.Axis != nil {
		axis, err := parseVector(cfg.Axis.XYZ)
		if err != nil {
			return Joint{}, errors.Wrapf(err, "joint %q axis", cfg.Name)
		}
		joint.Axis = axis
	}
	if cfg.Limit != nil {
		joint.Effort, joint.Velocity = cfg.Limit.Effort, cfg.Limit.Velocity
	}

	// Planar and floating joints count as one movable joint each, without limits.
	switch cfg.Type {
	case FixedJoint:
	case ContinuousJoint, PlanarJoint, FloatingJoint:
		joint.Min, joint.Max = math.Inf(-1), math.Inf(1)
	case PrismaticJoint, RevoluteJoint:
		if cfg.Limit == nil {
			return Joint{}, NewMissingLimitError(cfg.Name)
		}
		joint.Min, joint.Max = cfg.Limit.Lower, cfg.Limit.Upper
	default:
		return Joint{}, NewUnsupportedJointTypeError(cfg.Type)
	}
	return joint, nil
}

// parseVector reads a space delimited "x y z" attribute. An empty attribute is the zero vector.
func parseVector(s string) (r3.Vector, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return r3.Vector{}, nil
	}
	if len(fields) != 3 {
		return r3.Vector{}, errors.Errorf("expected 3 values, got %d in %q", len(fields), s)
	}
	vals := make([]float64, 3)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return r3.Vector{}, err
		}
		vals[i] = v
	}
	return r3.Vector{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}
