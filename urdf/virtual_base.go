package urdf

import (
	"strings"
)

// Names of the joints that make up a virtual base, in chain order from the world frame.
const (
	XJoint     = "x"
	YJoint     = "y"
	ThetaJoint = "theta"
)

// BaseLink is the pre-existing link the virtual base attaches to.
const BaseLink = "base_link"

// VirtualBaseFragment chains a synthetic world frame to BaseLink through two prismatic joints
// (x, y) and one continuous joint (theta). Downstream consumers depend on these exact joint and
// link names.
const VirtualBaseFragment = `
    <link name="world" />
    <link name="base_x_link" />
    <joint name="x" type="prismatic">
        <parent link="world" />
        <child link="base_x_link" />
        <axis xyz="1 0 0" />
        <limit lower="-20" upper="20" effort="1000" velocity="2.0" />
    </joint>
    <link name="base_y_link" />
    <joint name="y" type="prismatic">
        <parent link="base_x_link" />
        <child link="base_y_link" />
        <axis xyz="0 1 0" />
        <limit lower="-20" upper="20" effort="1000" velocity="2.0" />
    </joint>
    <link name="base_theta_link" />
    <joint name="theta" type="continuous">
        <parent link="base_y_link" />
        <child link="base_theta_link" />
        <axis xyz="0 0 1" />
        <limit effort="1000" velocity="2.0" />
    </joint>
    <joint name="base_to_body" type="fixed">
        <parent link="base_theta_link" />
        <child link="base_link" />
        <origin xyz="0 0 0" rpy="0 0 0" />
    </joint>
`

// VirtualBaseJoints returns the names of the virtual base joints.
func VirtualBaseJoints() []string {
	return []string{XJoint, YJoint, ThetaJoint}
}

func nameMarker(name string) string {
	return `name="` + name + `"`
}

// HasVirtualBase reports whether the document text already declares every virtual base joint.
// Detection is a substring match on the name attribute; a document declaring only some of the
// joints is treated as having no virtual base.
func HasVirtualBase(doc string) bool {
	for _, name := range VirtualBaseJoints() {
		if !strings.Contains(doc, nameMarker(name)) {
			return false
		}
	}
	return true
}

// InjectVirtualBase returns a copy of doc with VirtualBaseFragment inserted directly after the
// first '>' of the document, which is taken to close the opening robot tag. The rest of the text
// is kept byte for byte.
//
// This is a textual insertion, not an XML rewrite. A '>' belonging to an XML declaration or a
// comment ahead of the robot tag is matched first.
func InjectVirtualBase(doc string) (string, error) {
	robotOpen := strings.IndexByte(doc, '>')
	if robotOpen == -1 {
		return "", NewMalformedDocumentError("missing root tag")
	}

	var patched strings.Builder
	patched.Grow(len(doc) + len(VirtualBaseFragment))
	patched.WriteString(doc[:robotOpen+1])
	patched.WriteString(VirtualBaseFragment)
	patched.WriteString(doc[robotOpen+1:])
	return patched.String(), nil
}
